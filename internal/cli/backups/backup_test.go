package backups

import (
	"testing"

	"github.com/julianstephens/stridelog/internal/backup"
	"github.com/julianstephens/stridelog/internal/cli/clitest"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/storage/sqlite"
)

func TestBackupCreateAndList(t *testing.T) {
	ctx, path := clitest.SQLite(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	backups, err := backup.NewManager(path).List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("found %d backups, want 1", len(backups))
	}
}

func TestBackupRejectsMemoryStore(t *testing.T) {
	ctx := clitest.Seeded(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create on the memory store should fail")
	}
}

func TestBackupRestoreLatest(t *testing.T) {
	ctx, path := clitest.SQLite(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}

	shoe := models.Shoe{ID: 1, Name: "Daily", Brand: "Asics", Model: "Novablast", MaxKm: 700, Active: true}
	if err := ctx.Store.AddShoe(shoe); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	reopened := sqlite.NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	defer reopened.Close()
	shoes, _ := reopened.GetAllShoes()
	if len(shoes) != 0 {
		t.Errorf("restored database has %d shoes, want 0", len(shoes))
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, _ := clitest.SQLite(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	ctx.Confirm = func(string) (bool, error) { return false, nil }

	if err := (&BackupRestoreCmd{}).Run(ctx); err != nil {
		t.Fatalf("cancelled restore returned error: %v", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		t.Errorf("cancelled restore closed the store: %v", err)
	}
}
