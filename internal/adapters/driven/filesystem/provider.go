// Package filesystem provides the OS-backed FileProvider.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.FileProvider = (*Provider)(nil)

// Provider lists module files on the local filesystem.
type Provider struct{}

// NewProvider creates a filesystem provider.
func NewProvider() *Provider {
	return &Provider{}
}

// DirectoryExists reports whether path is an existing directory.
func (p *Provider) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListFiles returns the regular files directly in dir whose base name
// matches the glob pattern, sorted by path. Subdirectories are not walked.
func (p *Provider) ListFiles(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
