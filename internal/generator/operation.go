package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Operation is a file system change that can be validated, executed and
// described for dry runs.
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp replaces the file at Path with Content.
//
// Validation rejects nil content (empty is fine) and a target that is a
// directory. Execution creates missing parent directories and writes
// atomically through a temporary file in the target directory.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	if info, err := os.Stat(op.Path); err == nil && info.IsDir() {
		return fmt.Errorf("cannot write %s: is a directory", op.Path)
	}
	return ctx.Err()
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := renameio.WriteFile(op.Path, op.Content, mode); err != nil {
		return fmt.Errorf("cannot write %s: %w", op.Path, err)
	}
	return nil
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Write %s (%d bytes)", op.Path, len(op.Content))
}
