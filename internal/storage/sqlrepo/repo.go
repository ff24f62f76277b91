// Package sqlrepo holds the SQL shared by the SQLite and PostgreSQL stores.
// Queries are written with '?' placeholders and rebound per dialect.
package sqlrepo

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/stridelog/internal/migration"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/storage"
	"github.com/julianstephens/stridelog/migrations"
)

type Repo struct {
	db      *sql.DB
	dialect migration.Dialect
}

func New(db *sql.DB, dialect migration.Dialect) *Repo {
	return &Repo{db: db, dialect: dialect}
}

// DB returns the underlying connection
func (r *Repo) DB() *sql.DB {
	return r.db
}

// Runner returns a migration runner over the embedded files of r's dialect
func (r *Repo) Runner() (*migration.Runner, error) {
	dir, err := fs.Sub(migrations.FS, string(r.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", r.dialect, err)
	}
	return migration.NewRunner(r.db, dir, r.dialect), nil
}

// MigrationStatus reports schema versions for doctor and migrate
func (r *Repo) MigrationStatus() (migration.Status, error) {
	runner, err := r.Runner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}

func (r *Repo) exec(query string, args ...any) (sql.Result, error) {
	return r.db.Exec(r.dialect.Rebind(query), args...)
}

func (r *Repo) query(query string, args ...any) (*sql.Rows, error) {
	return r.db.Query(r.dialect.Rebind(query), args...)
}

func (r *Repo) queryRow(query string, args ...any) *sql.Row {
	return r.db.QueryRow(r.dialect.Rebind(query), args...)
}

// notFound maps sql.ErrNoRows to storage.ErrNotFound
func notFound(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, storage.ErrNotFound)
	}
	return err
}

// affected reports storage.ErrNotFound when an update or delete hit no row
func affected(res sql.Result, what string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

func (r *Repo) GetSettings() (models.Settings, error) {
	rows, err := r.query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	return models.MapToSettings(data)
}

func (r *Repo) SaveSettings(settings models.Settings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(r.dialect.Rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}
