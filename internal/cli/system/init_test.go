package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/stridelog/internal/cli/clitest"
	"github.com/julianstephens/stridelog/internal/storage/memory"
	"github.com/julianstephens/stridelog/internal/storage/sqlite"
)

func newSQLiteContext(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stridelog.db")
	store := sqlite.NewStore(path)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestInitCmd_Success(t *testing.T) {
	store, path := newSQLiteContext(t)
	ctx := clitest.Context(t, store)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", path)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	store, _ := newSQLiteContext(t)
	ctx := clitest.Context(t, store)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_Seed(t *testing.T) {
	store, _ := newSQLiteContext(t)
	ctx := clitest.Context(t, store)

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("init --seed failed: %v", err)
	}
	races, _ := store.GetAllRaces()
	shoes, _ := store.GetAllShoes()
	week, _ := store.GetWeek()
	if len(races) != 13 || len(shoes) != 3 || len(week) != 7 {
		t.Errorf("seeded %d races, %d shoes, %d slots", len(races), len(shoes), len(week))
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	store, _ := newSQLiteContext(t)
	ctx := clitest.Context(t, store)

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	races, err := store.GetAllRaces()
	if err != nil {
		t.Fatalf("GetAllRaces() failed: %v", err)
	}
	if len(races) != 0 {
		t.Errorf("init --force kept %d races", len(races))
	}
}

func TestInitCmd_ForceRejectsMemory(t *testing.T) {
	ctx := clitest.Context(t, memory.NewStore())
	if err := (&InitCmd{Force: true}).Run(ctx); err == nil {
		t.Error("init --force on the memory store should fail")
	}
}

func TestInitCmd_Source(t *testing.T) {
	srcStore, srcPath := newSQLiteContext(t)
	if err := (&InitCmd{Seed: true}).Run(clitest.Context(t, srcStore)); err != nil {
		t.Fatalf("source init failed: %v", err)
	}
	_ = srcStore.Close()

	dst, _ := newSQLiteContext(t)
	if err := (&InitCmd{Source: srcPath}).Run(clitest.Context(t, dst)); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	personal, _ := dst.GetAllPersonalRaces()
	if len(personal) != 5 {
		t.Errorf("copied %d personal races, want 5", len(personal))
	}
}

func TestInitCmd_Validate(t *testing.T) {
	if err := (&InitCmd{Seed: true, Source: "other.db"}).Validate(); err == nil {
		t.Error("Validate() should reject --seed with --source")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, _ := clitest.SQLite(t)
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("migrate failed: %v", err)
	}
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Errorf("migrate --status failed: %v", err)
	}

	if err := (&MigrateCmd{}).Run(clitest.Seeded(t)); err == nil {
		t.Error("migrate on the memory store should fail")
	}
}
