package driver

import (
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/config"
)

// InputFiles lists every bundle file the configuration reads, package by
// package. A missing package directory is an error, as it is for Generate.
func InputFiles(cfg *config.Config) ([]string, error) {
	var files []string
	for _, pkg := range cfg.Packages {
		refs, err := bundle.Discover(cfg.ResourcesRoot(), pkg)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			files = append(files, ref.Path)
		}
	}
	return files, nil
}

// OutputFiles lists the generated file of every package. A malformed
// package identifier is an error, as it is for InputFiles.
func OutputFiles(cfg *config.Config) ([]string, error) {
	targets, err := cfg.Targets()
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(targets))
	for _, t := range targets {
		if t.Err != nil {
			return nil, fmt.Errorf("%s: %w", t.Package, t.Err)
		}
		files = append(files, t.Path)
	}
	return files, nil
}

// OutputDirectories lists the distinct directories generated files go to.
func OutputDirectories(cfg *config.Config) ([]string, error) {
	files, err := OutputFiles(cfg)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(files))
	dirs := make([]string, 0, len(files))
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
