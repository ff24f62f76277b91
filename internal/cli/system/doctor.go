package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/stridelog/internal/backup"
	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/intervals"
	"github.com/julianstephens/stridelog/internal/keyring"
	"github.com/julianstephens/stridelog/internal/notifier"
	"github.com/julianstephens/stridelog/internal/storage/sqlite"
	"github.com/julianstephens/stridelog/internal/utils"
	"github.com/julianstephens/stridelog/internal/validation"
)

type DoctorCmd struct{}

type diagnostic struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(*cli.Context) error
}

// errSkipped marks a check that does not apply to the current backend
var errSkipped = errors.New("not applicable")

var diagnostics = []diagnostic{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Tables present", needsDB: true, run: checkTables},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Race data", needsDB: true, run: checkRaces},
	{name: "Shoe data", needsDB: true, run: checkShoes},
	{name: "Training week", needsDB: true, warnOnly: true, run: checkWeek},
	{name: "Clock", run: checkClock},
	{name: "Timezone setting", needsDB: true, run: checkTimezone},
	{name: "Intervals API key", warnOnly: true, run: checkAPIKey},
	{name: "Webhooks", warnOnly: true, run: checkWebhooks},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, d := range diagnostics {
		if d.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", d.name)
			continue
		}
		err := d.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", d.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", d.name, err)
		case d.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", d.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", d.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("%w: no schema for this backend", errSkipped)
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')",
			st.Current, st.Latest, constants.AppName)
	}
	return nil
}

func checkTables(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("%w: SQLite only", errSkipped)
	}
	missing, err := s.CheckTables()
	if err != nil {
		return fmt.Errorf("failed to inspect tables: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileStore() {
		return fmt.Errorf("%w: backups cover SQLite only", errSkipped)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkRaces(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllRaces()
	if err != nil {
		return fmt.Errorf("failed to get races: %w", err)
	}
	if res := ctx.Validator.ValidateRaces(all); res.HasConflicts() {
		return errors.New(strings.TrimSpace(res.FormatReport()))
	}
	for _, r := range all {
		if err := ctx.Validator.Struct(r); err != nil {
			return fmt.Errorf("race %d %q is invalid: %w", r.ID, r.Title, err)
		}
	}
	personal, err := ctx.Store.GetAllPersonalRaces()
	if err != nil {
		return fmt.Errorf("failed to get personal races: %w", err)
	}
	for _, r := range personal {
		if err := ctx.Validator.Struct(r); err != nil {
			return fmt.Errorf("personal race %d %q is invalid: %w", r.ID, r.Title, err)
		}
	}
	return nil
}

func checkShoes(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllShoes()
	if err != nil {
		return fmt.Errorf("failed to get shoes: %w", err)
	}
	for _, s := range all {
		if err := ctx.Validator.Struct(s); err != nil {
			return fmt.Errorf("shoe %d %q is invalid: %w", s.ID, s.Name, err)
		}
		if s.Active == (s.ArchivedDate != nil) {
			return fmt.Errorf("shoe %d %q has an inconsistent archive state", s.ID, s.Name)
		}
	}
	return nil
}

func checkWeek(ctx *cli.Context) error {
	week, err := ctx.Store.GetWeek()
	if err != nil {
		return fmt.Errorf("failed to get week: %w", err)
	}
	if len(week) == 0 {
		return fmt.Errorf("no training week saved yet (run '%s schedule reset')", constants.AppName)
	}
	res := ctx.Validator.ValidateWeek(week)
	if !res.HasConflicts() {
		return nil
	}
	lines := make([]string, 0, len(res.Conflicts))
	for _, c := range res.Conflicts {
		if c.Type == validation.ConflictAdjacentIntensive {
			lines = append(lines, c.Description)
		} else {
			lines = append(lines, "invalid: "+c.Description)
		}
	}
	return errors.New(strings.Join(lines, "\n   "))
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone setting %q", settings.Timezone)
	}
	return nil
}

func checkAPIKey(ctx *cli.Context) error {
	key, err := keyring.ResolveAPIKey(ctx.Config.Intervals.APIKey)
	if err != nil {
		return err
	}
	if key == "" {
		return intervals.ErrMissingAPIKey
	}
	return nil
}

func checkWebhooks(ctx *cli.Context) error {
	var missing []string
	for _, e := range notifier.OutboundEvents {
		if !ctx.Notifier.Configured(e) {
			missing = append(missing, string(e))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no webhook URL for: %s", strings.Join(missing, ", "))
	}
	return nil
}
