package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/driver"
	"github.com/simonhull/firebird-suite/wren/internal/project"
)

// OutputsCmd creates and returns the 'outputs' command
func OutputsCmd() *cobra.Command {
	var cf configFlags
	var files, importPaths bool

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "List the directories (or files) generation writes",
		Long: `List the output directories of every configured package, one per line.

With --import-paths each line also carries the Go import path of the
directory, resolved from the nearest go.mod, separated by a tab.

Examples:
  wren outputs
  wren outputs --files
  wren outputs --import-paths`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cf.load()
			if err != nil {
				return err
			}

			var paths []string
			if files {
				paths, err = driver.OutputFiles(cfg)
			} else {
				paths, err = driver.OutputDirectories(cfg)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range paths {
				if !importPaths {
					fmt.Fprintln(out, p)
					continue
				}
				dir := p
				if files {
					dir = filepath.Dir(p)
				}
				importPath, err := project.ImportPath(dir)
				if err != nil {
					return fmt.Errorf("resolving import path of %s: %w", dir, err)
				}
				fmt.Fprintf(out, "%s\t%s\n", p, importPath)
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().BoolVar(&files, "files", false, "List generated files instead of directories")
	cmd.Flags().BoolVar(&importPaths, "import-paths", false, "Append the Go import path of each directory")
	return cmd
}
