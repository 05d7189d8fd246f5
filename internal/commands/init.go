package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/filesystem"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

// InitCmd creates and returns the 'init' command, which writes a wren.yml
// for the bundle packages found under the resources directory.
func InitCmd() *cobra.Command {
	var yes, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create wren.yml in the current directory",
		Long: `Create wren.yml in the current directory.

init looks for directories holding strings*.properties files below the
resources directory and offers each as a package. Use --yes to accept all
defaults without prompting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			path := filepath.Join(cwd, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
			}

			f := config.Default()
			p := input.New(cmd.InOrStdin(), cmd.OutOrStdout())

			if !yes {
				f.ResourcesDir = p.Prompt("Resources directory", f.ResourcesDir)
			}

			resources, err := config.ParseLocation(f.ResourcesDir)
			if err != nil {
				return fmt.Errorf("resources directory: %w", err)
			}
			found, err := filesystem.DiscoverBundlePackages(resources.Resolve(cwd), filesystem.WalkOptions{})
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			for _, pkg := range found {
				if yes || p.Confirm(fmt.Sprintf("Generate keys for %s?", pkg), true) {
					f.Packages = append(f.Packages, pkg)
				}
			}

			if !yes {
				f.OutputDir = p.Prompt("Output directory", f.OutputDir)
				f.TypeName = p.Prompt("Type name", f.TypeName)
				f.Charset = p.Prompt("Resource file charset", f.Charset)
			}

			if err := config.Save(path, f); err != nil {
				return fmt.Errorf("writing %s: %w", config.FileName, err)
			}

			output.Success(fmt.Sprintf("Created %s", config.FileName))
			for _, pkg := range f.Packages {
				output.Step(pkg)
			}
			if len(f.Packages) == 0 {
				output.Warn(fmt.Sprintf("No bundle packages found under %s; add them to %s before running wren generate", f.ResourcesDir, config.FileName))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept all defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing wren.yml")
	return cmd
}
