package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range m {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", SQLite, "SELECT * FROM races WHERE id = ?", "SELECT * FROM races WHERE id = ?"},
		{"postgres numbered", Postgres, "UPDATE shoes SET name = ?, rating = ? WHERE id = ?", "UPDATE shoes SET name = $1, rating = $2 WHERE id = $3"},
		{"literal kept", Postgres, "SELECT '?' , ? FROM t", "SELECT '?' , $1 FROM t"},
		{"no placeholders", Postgres, "DELETE FROM week_slots", "DELETE FROM week_slots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.in); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCurrentVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}), SQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 0 {
		t.Errorf("GetCurrentVersion() = %d, want 0 on a fresh database", version)
	}

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}
	if version, _ := runner.GetCurrentVersion(); version != 3 {
		t.Errorf("GetCurrentVersion() = %d, want 3", version)
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	migrations := map[string]string{
		"001_races.sql": "CREATE TABLE races (id INTEGER PRIMARY KEY, title TEXT NOT NULL);",
		"002_shoes.sql": "CREATE TABLE shoes (id INTEGER PRIMARY KEY, name TEXT NOT NULL);",
	}
	runner := NewRunner(db, files(migrations), SQLite)

	var logs []string
	applied, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("ApplyMigrations() applied %d, want 2", applied)
	}
	if !strings.Contains(strings.Join(logs, "\n"), "Applying migration 2: shoes") {
		t.Errorf("log missing migration line: %v", logs)
	}

	for _, table := range []string{"races", "shoes"} {
		if _, err := db.Exec("INSERT INTO " + table + " (id, " + map[string]string{"races": "title", "shoes": "name"}[table] + ") VALUES (1, 'x')"); err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	// second run is a no-op
	applied, err = runner.ApplyMigrations(nil)
	if err != nil || applied != 0 {
		t.Errorf("second ApplyMigrations() = %d, %v, want 0, nil", applied, err)
	}

	// a new file is picked up incrementally
	migrations["003_weight.sql"] = "CREATE TABLE weight (id INTEGER);"
	applied, err = NewRunner(db, files(migrations), SQLite).ApplyMigrations(nil)
	if err != nil || applied != 1 {
		t.Errorf("incremental ApplyMigrations() = %d, %v, want 1, nil", applied, err)
	}
}

func TestStatus(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_a.sql": "CREATE TABLE a (id INTEGER);",
		"002_b.sql": "CREATE TABLE b (id INTEGER);",
	}), SQLite)

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if st.Current != 0 || st.Latest != 2 || len(st.Pending) != 2 || st.UpToDate() {
		t.Errorf("Status() before apply = %+v", st)
	}

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	st, _ = runner.Status()
	if st.Current != 2 || !st.UpToDate() {
		t.Errorf("Status() after apply = %+v", st)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); INSERT INTO missing VALUES (1);",
	}), SQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("ApplyMigrations() should fail on a broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if version, _ := runner.GetCurrentVersion(); version != 1 {
		t.Errorf("version = %d, want 1 after rollback", version)
	}
	if _, err := db.Exec("SELECT * FROM broken"); err == nil {
		t.Error("table from the failed migration should not exist")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_a.sql": "CREATE TABLE a (id INTEGER);",
	}), SQLite)
	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v, want newer-than-supported error", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations() should refuse a newer database")
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": ""}},
		{"non numeric", map[string]string{"abc_init.sql": ""}},
		{"zero version", map[string]string{"000_init.sql": ""}},
		{"duplicate", map[string]string{"001_a.sql": "", "01_b.sql": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), files(tt.files), SQLite)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("ReadMigrationFiles() should fail")
			}
		})
	}
}

func TestReadMigrationFilesIgnoresOtherFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"002_b.sql": "",
		"001_a.sql": "",
		"README.md": "notes",
	}), SQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles() failed: %v", err)
	}
	if len(got) != 2 || got[0].Version != 1 || got[1].Name != "b" {
		t.Errorf("ReadMigrationFiles() = %+v", got)
	}
}
