// Package backup snapshots the SQLite store into <configDir>/backups and
// restores from those snapshots.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/logger"
)

const stampLayout = "20060102-150405"

// ErrNoBackups is returned when a restore is asked for the latest backup
// and none exist
var ErrNoBackups = errors.New("no backups found")

var nowFunc = time.Now

// Info describes one backup file
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
}

// NewManager places backups next to the database in a backups directory
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and prunes backups beyond
// constants.MaxBackups.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if removed, err := m.Prune(constants.MaxBackups); err != nil {
		logger.Warn("failed to rotate old backups", "err", err)
	} else if removed > 0 {
		logger.Debug("rotated old backups", "removed", removed)
	}
	return info, nil
}

func (m *Manager) create() (Info, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := nowFunc()
	path, err := m.freeName(now)
	if err != nil {
		return Info{}, err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("backup created", "path", path, "size", st.Size())
	return Info{Path: path, Name: filepath.Base(path), Timestamp: now.Truncate(time.Second), Size: st.Size()}, nil
}

// freeName picks stridelog-<stamp>.db, adding -N when two backups land in
// the same second
func (m *Manager) freeName(now time.Time) (string, error) {
	stamp := now.Format(stampLayout)
	for n := 0; n <= 100; n++ {
		name := constants.BackupFilePrefix + stamp
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Warn("VACUUM INTO failed, copying file instead", "err", err)
		return copyFile(src, dst)
	}
	return nil
}

// parseName extracts the timestamp from a backup file name
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(stampLayout) {
		suffix := stamp[len(stampLayout):]
		if _, err := strconv.Atoi(strings.TrimPrefix(suffix, "-")); err != nil || suffix[0] != '-' {
			return time.Time{}, false
		}
		stamp = stamp[:len(stampLayout)]
	}
	ts, err := time.ParseInLocation(stampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// List returns backups newest first. Files that do not look like backups
// are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := lo.FilterMap(entries, func(e os.DirEntry, _ int) (Info, bool) {
		if e.IsDir() {
			return Info{}, false
		}
		ts, ok := parseName(e.Name())
		if !ok {
			return Info{}, false
		}
		st, err := e.Info()
		if err != nil {
			return Info{}, false
		}
		return Info{Path: filepath.Join(m.backupDir, e.Name()), Name: e.Name(), Timestamp: ts, Size: st.Size()}, true
	})

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Prune removes all but the newest keep backups and reports how many went
func (m *Manager) Prune(keep int) (int, error) {
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}
	for _, b := range backups[keep:] {
		if err := os.Remove(b.Path); err != nil {
			return 0, fmt.Errorf("failed to remove old backup %s: %w", b.Name, err)
		}
	}
	return len(backups) - keep, nil
}

// Resolve turns a user argument into a backup path. An empty argument
// means the newest backup; a bare file name is looked up in the backup
// directory.
func (m *Manager) Resolve(arg string) (string, error) {
	if arg == "" {
		backups, err := m.List()
		if err != nil {
			return "", err
		}
		if len(backups) == 0 {
			return "", ErrNoBackups
		}
		return backups[0].Path, nil
	}
	if filepath.Base(arg) == arg {
		return filepath.Join(m.backupDir, arg), nil
	}
	return arg, nil
}

// Restore replaces the database with the backup at path. The current
// database is backed up first and that backup is returned, empty when
// there was nothing to save.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verifyFile(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		info, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		safety = info.Path
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "err", rmErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("database restored", "from", path, "safety_backup", safety)
	return safety, nil
}

// verify checks that db is a stridelog database
func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("not a %s database", constants.AppName)
	}
	return nil
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
