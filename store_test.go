package pagesblog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/eringen/pagesblog/theme"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "settings.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.GetSetting("missing")
	if err != nil || got != "" {
		t.Fatalf("GetSetting(missing) = %q, %v", got, err)
	}
	if err := s.SetSetting("k", "v1"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting("k", "v2"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	if got, _ := s.GetSetting("k"); got != "v2" {
		t.Errorf("GetSetting = %q, want v2", got)
	}
	if err := s.DeleteSetting("k"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if got, _ := s.GetSetting("k"); got != "" {
		t.Errorf("GetSetting after delete = %q, want empty", got)
	}
}

func TestThemePersisterRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	p := s.ThemePersister()

	ts := theme.New(p, theme.Static(theme.Dark))
	if ts.Applied() != theme.Dark {
		t.Fatalf("Applied = %q, want dark", ts.Applied())
	}
	ts.Toggle()
	if got, _ := s.GetSetting(theme.StorageKey); got != "light" {
		t.Errorf("stored = %q, want light", got)
	}

	reopened := theme.New(s.ThemePersister(), theme.Static(theme.Dark))
	if reopened.Applied() != theme.Light {
		t.Errorf("preference should survive a new store, got %q", reopened.Applied())
	}
	reopened.Reset()
	if got, _ := s.GetSetting(theme.StorageKey); got != "" {
		t.Errorf("stored after reset = %q, want empty", got)
	}
}

func TestThemePersisterClosedDB(t *testing.T) {
	s := setupTestStore(t)
	s.Close()
	if _, err := s.ThemePersister().Load(); !errors.Is(err, theme.ErrPersistenceUnavailable) {
		t.Errorf("Load on closed db = %v, want ErrPersistenceUnavailable", err)
	}
}
