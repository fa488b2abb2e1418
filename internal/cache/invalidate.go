// Package cache keeps rendered profile pages on disk so a live session can be
// replayed without driving the browser again.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClearDir deletes every page entry in dir (".meta.json", ".body" and
// leftover ".tmp" files) and reports how many entries went. Other files are
// left alone, since -cache.dir may point at a directory the user shares.
// A missing dir is already clear.
func ClearDir(dir string) (int, error) {
	if strings.TrimSpace(dir) == "" {
		return 0, errors.New("cache: empty dir")
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !isEntryFile(name) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		if strings.HasSuffix(name, ".meta.json") {
			removed++
		}
	}
	return removed, nil
}

func isEntryFile(name string) bool {
	return strings.HasSuffix(name, ".meta.json") ||
		strings.HasSuffix(name, ".body") ||
		strings.HasSuffix(name, ".meta.json.tmp")
}

// PurgePageCacheByAge removes page entries older than maxAge.
// It reads SavedAt from <key>.meta.json and deletes both the meta file and
// the matching <key>.body when expired.
func PurgePageCacheByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".meta.json") {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable
		}
		var e PageEntry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil // skip malformed
		}
		if now.Sub(e.SavedAt) <= maxAge {
			return nil
		}
		removed++
		_ = os.Remove(path)
		_ = os.Remove(strings.TrimSuffix(path, ".meta.json") + ".body")
		return nil
	})
	return removed, err
}
