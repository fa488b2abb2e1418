package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageEntry describes one rendered page on disk.
type PageEntry struct {
	URL     string    `json:"url"`
	Handle  string    `json:"handle"`
	Bytes   int       `json:"bytes"`
	SavedAt time.Time `json:"saved_at"`
}

// PageCache stores rendered profile pages as <key>.meta.json and <key>.body
// where key is sha256(url). No eviction beyond PurgePageCacheByAge.
type PageCache struct {
	Dir string
	// MaxAge makes Load treat older entries as missing. Zero keeps entries
	// forever.
	MaxAge time.Duration
	// StrictPerms writes directories 0700 and files 0600.
	StrictPerms bool

	now func() time.Time
}

// ErrStale is returned by Load for entries older than MaxAge.
var ErrStale = errors.New("cache entry is stale")

func (c *PageCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	if err := os.MkdirAll(c.Dir, c.dirMode()); err != nil {
		return err
	}
	if c.StrictPerms {
		return os.Chmod(c.Dir, 0o700)
	}
	return nil
}

func (c *PageCache) dirMode() os.FileMode {
	if c.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (c *PageCache) fileMode() os.FileMode {
	if c.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (c *PageCache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().UTC()
}

func (c *PageCache) key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *PageCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *PageCache) bodyPath(key string) string { return filepath.Join(c.Dir, key+".body") }

// Load returns the cached page for url. Missing entries yield an error
// matching os.ErrNotExist; expired ones yield ErrStale.
func (c *PageCache) Load(_ context.Context, url string) (*PageEntry, string, error) {
	if err := c.ensureDir(); err != nil {
		return nil, "", err
	}
	key := c.key(url)
	f, err := os.Open(c.metaPath(key))
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	var e PageEntry
	if err := json.NewDecoder(f).Decode(&e); err != nil {
		return nil, "", fmt.Errorf("decode meta: %w", err)
	}
	if c.MaxAge > 0 && c.clock().Sub(e.SavedAt) > c.MaxAge {
		return &e, "", ErrStale
	}
	body, err := os.ReadFile(c.bodyPath(key))
	if err != nil {
		return nil, "", err
	}
	return &e, string(body), nil
}

// Save stores the page for url, writing the body before its metadata so a
// reader never sees metadata without a body.
func (c *PageCache) Save(_ context.Context, url, handle, page string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	key := c.key(url)
	if err := os.WriteFile(c.bodyPath(key), []byte(page), c.fileMode()); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta := PageEntry{
		URL:     url,
		Handle:  handle,
		Bytes:   len(page),
		SavedAt: c.clock(),
	}
	tmp := c.metaPath(key) + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, c.fileMode())
	if err != nil {
		return fmt.Errorf("create meta: %w", err)
	}
	if err := json.NewEncoder(f).Encode(&meta); err != nil {
		f.Close()
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath(key))
}
