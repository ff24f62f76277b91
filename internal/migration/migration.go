package migration

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/stridelog/internal/constants"
)

// Migration is one NNN_name.sql file
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies the NNN_name.sql files of one dialect directory
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

// NewRunner creates a runner over migrationFS. The dialect decides the
// placeholder style used for the schema_version bookkeeping.
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

// Status summarises where the database stands against the embedded files
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

// UpToDate reports whether nothing is left to apply
func (s Status) UpToDate() bool {
	return len(s.Pending) == 0
}

func (s Status) tooNew() error {
	if s.Current <= s.Latest {
		return nil
	}
	return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade %s",
		s.Current, s.Latest, constants.AppName)
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const schemaVersionDDL = `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
)`

// EnsureSchemaVersionTable creates the single-row bookkeeping table
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(schemaVersionDDL)
	return err
}

func (r *Runner) writeVersion(ex execer, version int) error {
	if _, err := ex.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	insert := r.dialect.Rebind("INSERT INTO schema_version (version) VALUES (?)")
	if _, err := ex.Exec(insert, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// GetCurrentVersion returns the recorded schema version, 0 on a fresh database
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded schema version
func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return r.writeVersion(r.db, version)
}

// parseMigrationName splits "007_shoes.sql" into 7 and "shoes".
func parseMigrationName(file string) (int, string, error) {
	prefix, name, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", file, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", file)
	}
	return version, name, nil
}

// ReadMigrationFiles loads every .sql file of the directory, ordered by
// version. Files that share a version are rejected.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseMigrationName(entry.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

// GetLatestVersion returns the highest version among the files, 0 when none
func (r *Runner) GetLatestVersion() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].Version, nil
}

// Status compares the recorded version with the files on disk
func (r *Runner) Status() (Status, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return Status{}, err
	}
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	for _, m := range migrations {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
		st.Latest = m.Version
	}
	return st, nil
}

// apply runs one file and bumps schema_version inside a single transaction
func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := r.writeVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ApplyMigrations brings the database up to the latest file and returns how
// many files ran. Progress lines go to logFn when it is non-nil. A failing
// file leaves every earlier file committed.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	logf := func(format string, args ...any) {
		if logFn != nil {
			logFn(fmt.Sprintf(format, args...))
		}
	}

	st, err := r.Status()
	if err != nil {
		return 0, fmt.Errorf("failed to read migration status: %w", err)
	}
	switch {
	case st.Latest == 0:
		logf("No migration files found")
		return 0, nil
	case st.tooNew() != nil:
		return 0, st.tooNew()
	case st.UpToDate():
		logf("Database schema is up to date (version %d)", st.Current)
		return 0, nil
	}

	logf("Migrating schema %d -> %d (%d file(s))", st.Current, st.Latest, len(st.Pending))
	started := time.Now()
	for i, m := range st.Pending {
		logf("  Applying migration %d: %s", m.Version, m.Name)
		if err := r.apply(m); err != nil {
			return i, err
		}
		logf("  ✓ Migration %d applied", m.Version)
	}
	logf("Applied %d migration(s) in %v", len(st.Pending), time.Since(started).Round(time.Millisecond))
	return len(st.Pending), nil
}

// ValidateVersion fails when the database was written by a newer release
func (r *Runner) ValidateVersion() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	return st.tooNew()
}
