// Package backups exposes the SQLite snapshot manager on the command line.
package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/backup"
	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
)

var errNotFileStore = errors.New("backups are only available for SQLite storage")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsFileStore() {
		return nil, errNotFileStore
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

func kb(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Snapshot %s (%s)\n", info.Name, kb(info.Size))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	defer fmt.Println(cli.MutedStyle.Render("Directory: " + mgr.Dir()))
	if len(list) == 0 {
		fmt.Println("No snapshots yet. Run 'backup create' or any command that edits data.")
		return nil
	}

	total := lo.SumBy(list, func(b backup.Info) int64 { return b.Size })
	fmt.Printf("%d snapshot(s), %s on disk, newest %d kept\n", len(list), kb(total), constants.MaxBackups)
	for _, b := range list {
		fmt.Printf("  %s  %-40s %10s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name, kb(b.Size))
	}
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" optional:"" help:"Path or filename of the backup to restore (newest when omitted)."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

// target resolves the argument. An existing path relative to the working
// directory wins over a name inside the backup directory.
func (c *BackupRestoreCmd) target(mgr *backup.Manager) (string, error) {
	arg := c.BackupFile
	if arg != "" {
		if _, err := os.Stat(arg); err == nil {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return "", fmt.Errorf("failed to resolve backup path: %w", err)
			}
			arg = abs
		}
	}
	return mgr.Resolve(arg)
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := c.target(mgr)
	if err != nil {
		return err
	}

	fmt.Printf("Restore from: %s\n", path)
	fmt.Printf("⚠ Races, shoes, weight and the training week will be replaced. Close any other %s session first.\n", constants.AppName)
	fmt.Println("  The current database is snapshotted before it is overwritten.")

	if !c.Yes {
		ok, err := ctx.Confirm("Restore this snapshot?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("⊘ Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ failed to close database: %v\n", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		fmt.Printf("  previous database saved as %s\n", filepath.Base(safety))
	}
	fmt.Println("✓ Database restored")
	return nil
}
