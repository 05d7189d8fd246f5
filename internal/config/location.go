package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Location is a configured path. It is either an AbsolutePath or a
// RelativePath; relative paths resolve against the directory holding the
// configuration file.
type Location interface {
	// Resolve returns the concrete path, joining base for relative paths.
	Resolve(base string) string
	String() string
	location()
}

// AbsolutePath is used as-is.
type AbsolutePath string

func (p AbsolutePath) Resolve(string) string { return filepath.Clean(string(p)) }
func (p AbsolutePath) String() string        { return string(p) }
func (AbsolutePath) location()               {}

// RelativePath is joined onto the configuration base directory.
type RelativePath string

func (p RelativePath) Resolve(base string) string { return filepath.Join(base, string(p)) }
func (p RelativePath) String() string             { return string(p) }
func (RelativePath) location()                    {}

// ParseLocation classifies a configured path once. A leading "~/" expands to
// the user's home directory.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}

	if s == "~" || strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot expand %s: %w", s, err)
		}
		return AbsolutePath(filepath.Join(home, strings.TrimPrefix(s, "~"))), nil
	}

	s = filepath.FromSlash(s)
	if filepath.IsAbs(s) {
		return AbsolutePath(s), nil
	}
	return RelativePath(s), nil
}
