package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalSession_LoadMissingFile(t *testing.T) {
	ls := NewLocalSession(filepath.Join(t.TempDir(), "session.json"))
	if err := ls.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ls.Valid(time.Now()) {
		t.Error("empty session must not be valid")
	}
}

func TestLocalSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	ls := NewLocalSession(path)
	ls.Set("tok", exp, "a@x.io", 4)
	if err := ls.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %v; want 0600", perm)
	}

	loaded := NewLocalSession(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "tok" || loaded.Email != "a@x.io" || loaded.UserID != 4 || !loaded.ExpiresAt.Equal(exp) {
		t.Errorf("unexpected session %+v", loaded)
	}
	if !loaded.Valid(time.Now()) {
		t.Error("expected session to be valid")
	}
	if loaded.Valid(exp.Add(time.Second)) {
		t.Error("expected session to be expired after ExpiresAt")
	}

	if err := loaded.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected session file to be removed, got %v", err)
	}
	if err := loaded.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestLocalSession_DefaultPath(t *testing.T) {
	if ls := NewLocalSession(""); ls.path != DefaultSessionFile {
		t.Errorf("path = %q; want %q", ls.path, DefaultSessionFile)
	}
}
