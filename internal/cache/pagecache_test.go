package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPageCache_SaveLoad(t *testing.T) {
	t.Parallel()
	c := &PageCache{Dir: t.TempDir()}
	url := "https://bsky.app/profile/nytimes.com"
	if err := c.Save(context.Background(), url, "nytimes.com", "<html>page</html>"); err != nil {
		t.Fatalf("save: %v", err)
	}
	e, body, err := c.Load(context.Background(), url)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if body != "<html>page</html>" {
		t.Fatalf("body = %q", body)
	}
	if e.Handle != "nytimes.com" || e.URL != url || e.Bytes != len(body) {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestPageCache_Missing(t *testing.T) {
	t.Parallel()
	c := &PageCache{Dir: t.TempDir()}
	if _, _, err := c.Load(context.Background(), "https://bsky.app/profile/none"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPageCache_Stale(t *testing.T) {
	t.Parallel()
	saved := time.Date(2025, 2, 7, 12, 0, 0, 0, time.UTC)
	c := &PageCache{Dir: t.TempDir(), MaxAge: time.Hour, now: func() time.Time { return saved }}
	url := "https://bsky.app/profile/a"
	if err := c.Save(context.Background(), url, "a", "x"); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.now = func() time.Time { return saved.Add(30 * time.Minute) }
	if _, _, err := c.Load(context.Background(), url); err != nil {
		t.Fatalf("fresh entry should load: %v", err)
	}
	c.now = func() time.Time { return saved.Add(2 * time.Hour) }
	if _, _, err := c.Load(context.Background(), url); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestPageCache_UnconfiguredDir(t *testing.T) {
	t.Parallel()
	c := &PageCache{}
	if err := c.Save(context.Background(), "u", "h", "p"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestPageCache_StrictPerms(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "pages")
	c := &PageCache{Dir: dir, StrictPerms: true}
	url := "https://bsky.app/profile/x"
	if err := c.Save(context.Background(), url, "x", "hello"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, de := range entries {
		fi, err := de.Info()
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		if got := fi.Mode() & 0o777; got != 0o600 {
			t.Fatalf("%s mode = %o, want 0600", de.Name(), got)
		}
	}
}

func TestPurgePageCacheByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	old := &PageCache{Dir: dir, now: func() time.Time { return time.Now().UTC().Add(-48 * time.Hour) }}
	fresh := &PageCache{Dir: dir}
	if err := old.Save(context.Background(), "https://bsky.app/profile/old", "old", "o"); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := fresh.Save(context.Background(), "https://bsky.app/profile/new", "new", "n"); err != nil {
		t.Fatalf("save new: %v", err)
	}
	removed, err := PurgePageCacheByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	entries, _ := os.ReadDir(dir)
	for _, de := range entries {
		if strings.HasPrefix(de.Name(), fresh.key("https://bsky.app/profile/old")) {
			t.Fatalf("old entry %s still present", de.Name())
		}
	}
	if _, _, err := fresh.Load(context.Background(), "https://bsky.app/profile/new"); err != nil {
		t.Fatalf("fresh entry should survive: %v", err)
	}
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &PageCache{Dir: dir}
	for _, h := range []string{"a.test", "b.test"} {
		if err := c.Save(context.Background(), "https://bsky.app/profile/"+h, h, "page"); err != nil {
			t.Fatalf("save %s: %v", h, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	removed, err := ClearDir(dir)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir should exist after clear: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "notes.txt" {
		t.Fatalf("only the unrelated file should remain, got %v", entries)
	}
	if _, _, err := c.Load(context.Background(), "https://bsky.app/profile/a.test"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cleared entry still loads: %v", err)
	}
}

func TestClearDir_MissingAndBlank(t *testing.T) {
	t.Parallel()
	if n, err := ClearDir(filepath.Join(t.TempDir(), "absent")); err != nil || n != 0 {
		t.Fatalf("missing dir: n=%d err=%v", n, err)
	}
	if _, err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
