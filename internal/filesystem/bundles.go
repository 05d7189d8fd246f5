package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
)

// DiscoverBundlePackages finds every directory below rootPath holding at
// least one bundle file and returns its package identifier (dot-separated,
// relative to rootPath), sorted. Bundle files directly in rootPath and
// directories whose names contain a dot cannot be named by an identifier and
// are skipped.
func DiscoverBundlePackages(rootPath string, opts WalkOptions) ([]string, error) {
	found := make(map[string]bool)

	err := Walk(rootPath, opts, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if _, ok := bundle.ParseFileName(d.Name()); !ok {
			return nil
		}

		rel, err := filepath.Rel(rootPath, filepath.Dir(path))
		if err != nil || rel == "." {
			return nil
		}
		segments := strings.Split(filepath.ToSlash(rel), "/")
		for _, s := range segments {
			if strings.Contains(s, ".") {
				return nil
			}
		}
		found[strings.Join(segments, ".")] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover bundle packages: %w", err)
	}

	pkgs := make([]string, 0, len(found))
	for pkg := range found {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}
