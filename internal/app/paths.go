package app

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultCacheDir is where rendered pages are cached unless configured
// otherwise: $XDG_CACHE_HOME/bskyposts/pages.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, DefaultCacheDirName, "pages")
}
