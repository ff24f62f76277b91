package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/storage"
	"github.com/julianstephens/stridelog/internal/storage/memory"
	"github.com/julianstephens/stridelog/internal/storage/postgres"
	"github.com/julianstephens/stridelog/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Seed   bool   `help:"Load the sample race catalog, shoes and training week."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Validate() error {
	if c.Seed && c.Source != "" {
		return fmt.Errorf("--seed and --source cannot be used together")
	}
	return nil
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Seed {
		snap, err := memory.Fixture(ctx.Today())
		if err != nil {
			return err
		}
		if err := storage.Import(ctx.Store, snap); err != nil {
			return fmt.Errorf("failed to load sample data: %w", err)
		}
		fmt.Printf("✓ Loaded %d races, %d personal races and %d shoes\n",
			len(snap.Races), len(snap.PersonalRaces), len(snap.Shoes))
	}

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// reset deletes the SQLite file so Init starts from scratch
func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.IsFileStore() {
		return fmt.Errorf("--force only supports SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// openSource picks a backend for path the same way --config does
func openSource(path string) (storage.Provider, error) {
	switch {
	case path == constants.MemoryStoreConfig:
		return memory.NewStore(), nil
	case postgres.IsConnString(path):
		if err := postgres.ValidateConnString(path); err != nil {
			return nil, err
		}
		return postgres.New(path), nil
	default:
		return sqlite.NewStore(path), nil
	}
}

func (c *InitCmd) copyFrom(ctx *cli.Context, path string) error {
	src, err := openSource(path)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	snap, err := storage.Export(src)
	if err != nil {
		return fmt.Errorf("failed to read source database: %w", err)
	}
	if err := storage.Import(ctx.Store, snap); err != nil {
		return fmt.Errorf("failed to write destination database: %w", err)
	}
	fmt.Printf("  Copied %d races, %d personal races, %d shoes, %d weight samples\n",
		len(snap.Races), len(snap.PersonalRaces), len(snap.Shoes), len(snap.Weight.History))
	return nil
}
