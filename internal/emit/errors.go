package emit

import (
	"errors"
	"fmt"
)

// ErrStale is reported in check mode when the file on disk differs from what
// would be generated.
var ErrStale = errors.New("generated file is out of date")

// OutputError reports a failure to produce or write a generated file.
type OutputError struct {
	Path string
	Op   string // render, format, validate, read, write or check
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
