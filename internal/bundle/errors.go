package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPackage reports a malformed package identifier.
	ErrInvalidPackage = errors.New("invalid package identifier")
	// ErrNotDirectory reports a package path that exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// DiscoveryError reports that a package's resource directory could not be
// used: it is missing, is not a directory, or the identifier is malformed.
type DiscoveryError struct {
	Package string
	Dir     string
	Err     error
}

// Error omits the package identifier; callers reporting several packages
// prefix it themselves.
func (e *DiscoveryError) Error() string {
	if e.Dir == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("resource directory %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ParseError reports malformed content in one resource file. Line is 0 when
// the parser did not report a position.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
