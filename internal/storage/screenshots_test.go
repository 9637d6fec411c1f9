package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, enabled bool) *LocalStore {
	t.Helper()
	s := NewLocalStore(Config{Enabled: enabled, Path: t.TempDir(), RetentionDays: 7}, nil)
	s.now = func() time.Time { return time.Date(2026, 1, 28, 14, 5, 9, 0, time.Local) }
	return s
}

func TestConfig_Dir(t *testing.T) {
	if got := (Config{Path: "/data/captures"}).Dir(); got != "/data/captures" {
		t.Errorf("expected explicit path, got %s", got)
	}
	if got := (Config{}).Dir(); !strings.HasSuffix(got, defaultDirName) {
		t.Errorf("expected default dir suffix %s, got %s", defaultDirName, got)
	}
}

func TestConfig_Retention(t *testing.T) {
	if got := (Config{RetentionDays: 30}).Retention(); got != 30*24*time.Hour {
		t.Errorf("expected 30 days, got %v", got)
	}
	if got := (Config{}).Retention(); got != defaultRetentionDays*24*time.Hour {
		t.Errorf("expected default retention, got %v", got)
	}
}

func TestLocalStore_SaveScreenshot(t *testing.T) {
	s := newTestStore(t, true)

	path, err := s.SaveScreenshot(context.Background(), []byte("png-bytes"), "Code Reviewer")
	if err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}

	want := filepath.Join(s.Dir(), "2026-01-28_14-05-09_Code Reviewer.png")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestLocalStore_SaveScreenshot_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "captures")
	s := NewLocalStore(Config{Enabled: true, Path: dir}, nil)

	if _, err := s.SaveScreenshot(context.Background(), []byte{1}, "p"); err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to be created: %v", err)
	}
}

func TestLocalStore_SaveScreenshot_Disabled(t *testing.T) {
	s := newTestStore(t, false)

	path, err := s.SaveScreenshot(context.Background(), []byte{1}, "p")
	if err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path when disabled, got %s", path)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Errorf("expected no files written, got %d", len(entries))
	}
}

func TestLocalStore_SaveScreenshot_Cancelled(t *testing.T) {
	s := newTestStore(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SaveScreenshot(ctx, []byte{1}, "p"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLocalStore_CleanupOldFiles(t *testing.T) {
	s := newTestStore(t, true)
	oldFile := filepath.Join(s.Dir(), "old.png")
	newFile := filepath.Join(s.Dir(), "new.png")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte{1}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := s.now().Add(-8 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, old, old); err != nil {
		t.Fatal(err)
	}
	recent := s.now().Add(-time.Hour)
	if err := os.Chtimes(newFile, recent, recent); err != nil {
		t.Fatal(err)
	}

	if err := s.CleanupOldFiles(context.Background()); err != nil {
		t.Fatalf("CleanupOldFiles() error = %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("expected old file to be removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("expected recent file to be kept")
	}
}

func TestLocalStore_CleanupOldFiles_Disabled(t *testing.T) {
	s := newTestStore(t, false)
	f := filepath.Join(s.Dir(), "old.png")
	_ = os.WriteFile(f, []byte{1}, 0o644)
	old := time.Now().Add(-365 * 24 * time.Hour)
	_ = os.Chtimes(f, old, old)

	if err := s.CleanupOldFiles(context.Background()); err != nil {
		t.Fatalf("CleanupOldFiles() error = %v", err)
	}
	if _, err := os.Stat(f); err != nil {
		t.Error("disabled store should not delete files")
	}
}

func TestLocalStore_CleanupOldFiles_MissingDir(t *testing.T) {
	s := NewLocalStore(Config{Enabled: true, Path: filepath.Join(t.TempDir(), "missing")}, nil)
	if err := s.CleanupOldFiles(context.Background()); err != nil {
		t.Errorf("expected nil for missing dir, got %v", err)
	}
}

func TestLocalStore_PurgeAll(t *testing.T) {
	s := newTestStore(t, true)
	_ = os.WriteFile(filepath.Join(s.Dir(), "a.png"), []byte{1}, 0o644)
	_ = os.MkdirAll(filepath.Join(s.Dir(), "sub"), 0o755)

	if err := s.PurgeAll(context.Background()); err != nil {
		t.Fatalf("PurgeAll() error = %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("expected directory to be recreated: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(entries))
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Reviewer", "Reviewer"},
		{"a/b\\c", "a_b_c"},
		{`what?*:"<>|`, "what_______"},
		{"  ", "unnamed"},
		{"tab\there", "tab_here"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
