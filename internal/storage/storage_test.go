package storage

import (
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	cart := map[string]map[string]int{"P1": {"M": 2}}
	if err := s.Set("cart", cart); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var loaded map[string]map[string]int
	ok, err := s.Get("cart", &loaded)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("Get reported absent, want present")
	}
	if loaded["P1"]["M"] != 2 {
		t.Fatalf("loaded cart = %#v, want P1/M=2", loaded)
	}
}

func TestFileStore_GetMissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	var out string
	ok, err := s.Get("token", &out)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("Get reported present for missing key")
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if err := s.Set("token", "abc"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Delete("token"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := s.Delete("token"); err != nil {
		t.Fatalf("Delete on absent key returned error: %v", err)
	}

	var out string
	ok, err := s.Get("token", &out)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("Get reported present after Delete")
	}
}

func TestFileStore_RejectsPathishKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	for _, key := range []string{"", "  ", "../escape", "a/b", `a\b`, "dotted.key"} {
		if err := s.Set(key, "x"); err == nil {
			t.Fatalf("Set(%q) returned nil error, want invalid key error", key)
		}
	}
}

func TestNewFileStore_EmptyDirErrors(t *testing.T) {
	if _, err := NewFileStore("   "); err == nil {
		t.Fatal("NewFileStore returned nil error, want error")
	}
}
