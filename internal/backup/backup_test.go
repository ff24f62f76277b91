package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/stridelog/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "stridelog.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		"CREATE TABLE schema_version (version INTEGER NOT NULL)",
		"INSERT INTO schema_version (version) VALUES (1)",
		"CREATE TABLE shoes (id INTEGER PRIMARY KEY, name TEXT, current_km REAL)",
		"INSERT INTO shoes (id, name, current_km) VALUES (1, 'Pegasus', 356)",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to prepare test database: %v", err)
		}
	}
	return dbPath
}

// fixClock makes nowFunc return successive seconds from start
func fixClock(t *testing.T, start time.Time) {
	t.Helper()
	orig := nowFunc
	current := start
	nowFunc = func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
	t.Cleanup(func() { nowFunc = orig })
}

func countShoes(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM shoes").Scan(&n); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	fixClock(t, time.Date(2025, 4, 6, 7, 30, 0, 0, time.Local))

	mgr := NewManager(dbPath)
	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if info.Name != "stridelog-20250406-073000.db" {
		t.Errorf("Name = %q", info.Name)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(info.Path), mgr.Dir())
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}
	if got := countShoes(t, info.Path); got != 1 {
		t.Errorf("backup has %d shoes, want 1", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() without a database should fail")
	}
}

func TestCreateSameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 4, 6, 7, 30, 0, 0, time.Local) }
	t.Cleanup(func() { nowFunc = orig })

	mgr := NewManager(dbPath)
	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create() failed: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("two backups in the same second share a path")
	}
	if second.Name != "stridelog-20250406-073000-1.db" {
		t.Errorf("second Name = %q", second.Name)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 2 || backups[0].Name != second.Name {
		t.Errorf("List() = %+v, want the counter backup first", backups)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	fixClock(t, time.Date(2025, 4, 6, 7, 30, 0, 0, time.Local))
	mgr := NewManager(dbPath)
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	for _, name := range []string{"notes.txt", "stridelog-garbage.db", "stridelog-20250406-073000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(mgr.Dir(), "stridelog-20250101-000000.db"), 0700); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("List() returned %d backups, want 1: %+v", len(backups), backups)
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "stridelog.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %+v, want none", backups)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	start := time.Date(2025, 4, 1, 6, 0, 0, 0, time.Local)
	fixClock(t, start)

	mgr := NewManager(dbPath)
	total := constants.MaxBackups + 3
	for i := 0; i < total; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	newest := start.Add(time.Duration(total-1) * time.Second)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
	oldestKept := start.Add(3 * time.Second)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", backups[len(backups)-1].Timestamp, oldestKept)
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Resolve(""); !errors.Is(err, ErrNoBackups) {
		t.Errorf("Resolve(\"\") with no backups error = %v, want ErrNoBackups", err)
	}

	fixClock(t, time.Date(2025, 4, 6, 7, 30, 0, 0, time.Local))
	_, _ = mgr.Create()
	latest, _ := mgr.Create()

	tests := []struct {
		arg  string
		want string
	}{
		{"", latest.Path},
		{"stridelog-20250406-073000.db", filepath.Join(mgr.Dir(), "stridelog-20250406-073000.db")},
		{"/elsewhere/copy.db", "/elsewhere/copy.db"},
	}
	for _, tt := range tests {
		got, err := mgr.Resolve(tt.arg)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	fixClock(t, time.Date(2025, 4, 6, 7, 30, 0, 0, time.Local))
	mgr := NewManager(dbPath)

	saved, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO shoes (id, name, current_km) VALUES (2, 'Clifton', 682)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.Restore(saved.Path)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if got := countShoes(t, dbPath); got != 1 {
		t.Errorf("restored database has %d shoes, want 1", got)
	}
	if safety == "" {
		t.Fatal("Restore() did not back up the current database")
	}
	if got := countShoes(t, safety); got != 2 {
		t.Errorf("safety backup has %d shoes, want 2", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	notSQLite := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(notSQLite, []byte("this is not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(dir, "other.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	for _, path := range []string{filepath.Join(dir, "missing.db"), notSQLite, foreign} {
		if _, err := mgr.Restore(path); err == nil {
			t.Errorf("Restore(%s) should fail", filepath.Base(path))
		}
	}
	if got := countShoes(t, dbPath); got != 1 {
		t.Errorf("failed restore changed the database: %d shoes", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"stridelog-20250406-073000.db", true},
		{"stridelog-20250406-073000-12.db", true},
		{"stridelog-20250406-0730.db", false},
		{"stridelog-20250406-073000x.db", false},
		{"daylog-20250406-073000.db", false},
		{"stridelog-20250406-073000.sqlite", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
