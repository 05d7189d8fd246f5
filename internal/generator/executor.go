package generator

import (
	"context"
	"fmt"
	"io"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Writer io.Writer // Receives one line per operation; nil discards
}

// Execute validates every operation first, then executes them in order (or
// only reports them in a dry run). Nothing is executed if any validation
// fails.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = io.Discard
	}

	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, op := range ops {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "[dry run] %s\n", op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "%s\n", op.Description())
	}

	return nil
}
