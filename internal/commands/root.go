package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren"
	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

// RootCmd creates and returns the root command for the wren CLI
func RootCmd() *cobra.Command {
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:   "wren",
		Short: "Generate Go constants for text bundle keys",
		Long: `wren reads strings*.properties bundles and generates one Go constant per
resource key, so a missing or renamed key breaks the build instead of
surfacing as an untranslated string at runtime.

Every locale variant of a package (strings.properties, strings_de.properties,
strings_de_CH.properties) contributes keys; the generated file declares the
union.

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       wren.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			output.SetQuiet(quiet)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().String("log-level", "", "Log level on stderr (debug, info, warn, error, silent)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// NewApp returns the root command with every subcommand registered.
func NewApp() *cobra.Command {
	root := RootCmd()
	root.AddCommand(GenerateCmd())
	root.AddCommand(InputsCmd())
	root.AddCommand(OutputsCmd())
	root.AddCommand(InitCmd())
	root.AddCommand(VersionCmd())
	return root
}

// newLogger builds the stderr logger from the global flags. Without flags
// only warnings and errors are logged; styled output covers the rest.
func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	flags := cmd.Flags()
	level := logger.LevelWarn
	if name, _ := flags.GetString("log-level"); name != "" {
		parsed, err := logger.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		level = parsed
	} else if v, _ := flags.GetBool("verbose"); v {
		level = logger.LevelDebug
	} else if q, _ := flags.GetBool("quiet"); q {
		level = logger.LevelError
	}
	return logger.New(level, cmd.ErrOrStderr()), nil
}

// configFlags are shared by every command that reads wren.yml.
type configFlags struct {
	path      string
	overrides config.Overrides
}

func (f *configFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.path, "config", "c", "", "Path to wren.yml (default: ./wren.yml if present)")
	flags.StringVar(&f.overrides.ResourcesDir, "resources", "", "Resources root directory")
	flags.StringVar(&f.overrides.OutputDir, "output", "", "Output root directory")
	flags.StringSliceVarP(&f.overrides.Packages, "package", "p", nil, "Bundle package to generate (repeatable)")
	flags.StringVar(&f.overrides.TypeName, "type-name", "", "Generated type name")
	flags.StringVar(&f.overrides.Charset, "charset", "", "Charset of the resource files")
	flags.StringVar(&f.overrides.Template, "template", "", "Custom template for the generated file")
}

func (f *configFlags) load() (*config.Config, error) {
	path := f.path
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = config.Find(cwd)
	}
	cfg, err := config.Load(path, f.overrides)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		output.Verbose(fmt.Sprintf("Using config %s", displayPath(cfg.Path)))
	}
	return cfg, nil
}

// displayPath shortens p relative to the working directory when it lies
// below it.
func displayPath(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(cwd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
