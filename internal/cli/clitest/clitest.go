// Package clitest builds command contexts for tests.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/config"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/storage"
	"github.com/julianstephens/stridelog/internal/storage/memory"
	"github.com/julianstephens/stridelog/internal/storage/sqlite"
)

// Now is the pinned clock: Wednesday 12 March 2025, 09:00 UTC
var Now = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

// Config returns defaults with no API key and no webhooks
func Config() *config.Container {
	return &config.Container{
		App: &config.App{Timezone: "UTC"},
		Intervals: &config.Intervals{
			BaseURL:   constants.DefaultIntervalsURL,
			AthleteID: constants.CurrentAthleteID,
		},
		Webhooks: &config.Webhooks{URLs: map[constants.WebhookEvent]string{}},
		DB:       &config.DB{},
		Log:      &config.Log{},
	}
}

// Context wraps store with a pinned clock and a prompt that answers yes
func Context(t *testing.T, store storage.Provider) *cli.Context {
	t.Helper()
	ctx := cli.NewContext(store, Config())
	ctx.Now = func() time.Time { return Now }
	ctx.Confirm = func(string) (bool, error) { return true, nil }
	return ctx
}

// Seeded returns a context over a loaded memory store holding the sample
// catalog, with timezone UTC
func Seeded(t *testing.T) *cli.Context {
	t.Helper()
	store := memory.NewStore()
	ctx := Context(t, store)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	snap, err := memory.Fixture(Now)
	if err != nil {
		t.Fatalf("Fixture() failed: %v", err)
	}
	snap.Settings.Timezone = "UTC"
	if err := storage.Import(store, snap); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	return ctx
}

// SQLite returns a context over an initialised SQLite store in a temp dir
func SQLite(t *testing.T) (*cli.Context, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stridelog.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return Context(t, store), path
}
