// Package project locates the Go module enclosing generated code.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod encloses a directory.
var ErrNoModule = errors.New("no go.mod found")

// ModuleInfo contains information from go.mod
type ModuleInfo struct {
	Root string // Directory holding go.mod
	Path string // Module path (e.g., "github.com/user/repo")
}

// DetectModule reads the go.mod in rootPath.
func DetectModule(rootPath string) (*ModuleInfo, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("go.mod not found in %s: %w", rootPath, ErrNoModule)
		}
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("%s has no module directive", modPath)
	}

	return &ModuleInfo{Root: rootPath, Path: modFile.Module.Mod.Path}, nil
}

// FindModule walks up from dir to the nearest go.mod. dir need not exist
// yet, which is the usual case for output directories before the first run.
func FindModule(dir string) (*ModuleInfo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for current := abs; ; {
		info, err := DetectModule(current)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNoModule) {
			return nil, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoModule)
		}
		current = parent
	}
}

// ImportPath returns the import path of dir inside its module.
func (m *ModuleInfo) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	if rel == "." {
		return m.Path, nil
	}
	return path.Join(m.Path, filepath.ToSlash(rel)), nil
}

// ImportPath resolves the import path of dir using the nearest go.mod.
func ImportPath(dir string) (string, error) {
	mod, err := FindModule(dir)
	if err != nil {
		return "", err
	}
	return mod.ImportPath(dir)
}
