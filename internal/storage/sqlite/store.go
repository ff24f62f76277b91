package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/migration"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/storage/sqlrepo"
)

type Store struct {
	*sqlrepo.Repo
	path string
	db   *sql.DB
	// Progress receives migration messages; nil keeps Init quiet
	Progress func(string)
}

// NewStore returns a store for the database file at path. Nothing is opened
// until Init or Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	// wait on locks held by a running backup
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	s.Repo = sqlrepo.New(db, migration.SQLite)
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if settings, err := s.GetSettings(); err == nil && settings.Timezone != "" {
		return nil
	}
	if err := s.SaveSettings(models.Settings{Timezone: constants.DefaultTimezone}); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.Runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var expectedTables = []string{"settings", "races", "personal_races", "shoes", "weight_goal", "weight_samples", "week_slots"}

// CheckTables lists the expected tables that are missing. SQLite matches
// table names case-insensitively.
func (s *Store) CheckTables() ([]string, error) {
	rows, err := s.db.Query("SELECT lower(name) FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lo.Reject(expectedTables, func(t string, _ int) bool { return present[t] }), nil
}

// Migrate applies pending migrations and returns how many ran
func (s *Store) Migrate() (int, error) {
	runner, err := s.Runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(s.Progress)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// SetProgress routes migration messages to fn
func (s *Store) SetProgress(fn func(string)) {
	s.Progress = fn
}
