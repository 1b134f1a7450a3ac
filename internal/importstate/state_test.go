package importstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ok, err := db.IsImported("export.csv", 120, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if ok {
		t.Error("fresh state should not report an import")
	}

	if err := db.MarkImported("export.csv", 120, "abc", 4); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if ok, _ := db.IsImported("export.csv", 120, "abc"); !ok {
		t.Error("expected file to be recorded")
	}
	// A changed file is imported again.
	if ok, _ := db.IsImported("export.csv", 180, "def"); ok {
		t.Error("changed size/hash should not match")
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Sessions != 4 {
		t.Errorf("entries = %+v", entries)
	}

	if err := db.Forget("export.csv"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if ok, _ := db.IsImported("export.csv", 120, "abc"); ok {
		t.Error("forgotten file still recorded")
	}
}

// TestStatePersists verifies records survive reopening the database.
func TestStatePersists(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.MarkImported("a.csv", 1, "h", 1); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if ok, _ := db.IsImported("a.csv", 1, "h"); !ok {
		t.Error("record lost after reopen")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
