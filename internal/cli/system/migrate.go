package system

import (
	"fmt"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/migration"
)

// migrator is implemented by the SQL backed stores
type migrator interface {
	Migrate() (int, error)
	MigrationStatus() (migration.Status, error)
	SetProgress(func(string))
}

type MigrateCmd struct {
	Status bool `help:"Only report the schema version."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate only supports SQLite and PostgreSQL storage")
	}

	if c.Status {
		st, err := m.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		fmt.Printf("Current schema version: %d\n", st.Current)
		fmt.Printf("Latest schema version:  %d\n", st.Latest)
		for _, p := range st.Pending {
			fmt.Printf("  pending: %03d %s\n", p.Version, p.Name)
		}
		return nil
	}

	m.SetProgress(func(msg string) { fmt.Println(msg) })
	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
