package filesystem

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultIgnoreDirs are common directories to skip during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"dist", "build", "bin", "tmp", "temp",
	".idea", ".vscode", ".vs",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (e.g., "*.bak")
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
}

// Walk traverses a directory tree, calling visitor for every entry that is
// not ignored. Return filepath.SkipDir from visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootPath {
			return visitor(path, d)
		}

		if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if slices.Contains(ignoreDirs, d.Name()) {
				return filepath.SkipDir
			}
			return visitor(path, d)
		}

		for _, pattern := range opts.IgnorePatterns {
			if matched, _ := filepath.Match(pattern, d.Name()); matched {
				return nil
			}
		}
		return visitor(path, d)
	})
}
