package convert

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Package is one previously converted title found under a destination root.
type Package struct {
	// TitleID is the 8-hex-digit title directory name.
	TitleID string
	// Path is the title directory path.
	Path string
}

// ListPackages enumerates the title directories under a destination root.
// Roots that do not exist yet simply list as empty.
func ListPackages(fs afero.Fs, root string) ([]Package, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect destination root: %w", err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list destination root: %w", err)
	}

	var packages []Package
	for _, entry := range entries {
		if !entry.IsDir() || !isTitleID(entry.Name()) {
			continue
		}
		packages = append(packages, Package{
			TitleID: entry.Name(),
			Path:    filepath.Join(root, entry.Name()),
		})
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].TitleID < packages[j].TitleID })
	return packages, nil
}

// isTitleID reports whether a directory name looks like an 8-hex-digit title
// identifier.
func isTitleID(name string) bool {
	if len(name) != 8 {
		return false
	}
	for _, r := range name {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
