package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SampleSource reads pages saved as plain files named after their handle.
type SampleSource struct {
	Dir string
}

func (s *SampleSource) Name() string { return "sample" }

// Fetch returns the contents of <Dir>/<handle>.
func (s *SampleSource) Fetch(_ context.Context, handle string) (string, error) {
	path, err := s.path(handle)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q in %s", ErrHandleNotFound, handle, s.Dir)
		}
		return "", fmt.Errorf("read sample: %w", err)
	}
	return string(b), nil
}

// Handles lists the sample files in Dir, sorted by name. Dotfiles and
// directories are skipped.
func (s *SampleSource) Handles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// Save writes page as the sample for handle, creating Dir when needed.
func (s *SampleSource) Save(handle, page string) error {
	path, err := s.path(handle)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create sample dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}

// path keeps handles inside Dir.
func (s *SampleSource) path(handle string) (string, error) {
	if strings.TrimSpace(handle) == "" || handle == "." || handle == ".." || filepath.Base(handle) != handle || strings.ContainsRune(handle, '/') {
		return "", fmt.Errorf("%w: %q is not a file name", ErrHandleNotFound, handle)
	}
	return filepath.Join(s.Dir, handle), nil
}
