// Package generator holds the code generation plumbing shared by wren's
// emitters: template rendering with helper functions, validated file
// operations with dry-run support, and unified diffs for check mode.
//
// # Writes
//
// WriteFileOp replaces its target atomically: content goes to a temporary
// file next to the target which is then renamed over it, so readers see
// either the old file or the new one, never a partial write.
//
//	ops := []generator.Operation{
//	    &generator.WriteFileOp{Path: "text/text_keys.go", Content: src, Mode: 0644},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: dryRun})
//
// # Diffs
//
//	d := generator.NewDiffer(generator.DiffOptions{})
//	fmt.Print(d.Diff("text_keys.go (on disk)", "text_keys.go (generated)", old, newer))
package generator
