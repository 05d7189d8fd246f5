// Package config loads and validates wren.yml.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/symbol"
)

const (
	// FileName is the configuration file looked up in the working directory.
	FileName = "wren.yml"

	DefaultTypeName     = "TextKeys"
	DefaultResourcesDir = "resources"
	DefaultOutputDir    = "internal/text"
)

// File is the on-disk form of wren.yml.
type File struct {
	ResourcesDir string   `yaml:"resources_dir"`
	OutputDir    string   `yaml:"output_dir"`
	TypeName     string   `yaml:"type_name"`
	Charset      string   `yaml:"charset"`
	Template     string   `yaml:"template,omitempty"`
	Workers      int      `yaml:"workers,omitempty"`
	Packages     []string `yaml:"packages"`
}

// Default returns the configuration written by wren init.
func Default() *File {
	return &File{
		ResourcesDir: DefaultResourcesDir,
		OutputDir:    DefaultOutputDir,
		TypeName:     DefaultTypeName,
		Charset:      bundle.DefaultCharset,
	}
}

// Save writes f to path as YAML.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte("# wren text-key generator configuration\n"), data...)
	return renameio.WriteFile(path, data, 0644)
}

// Config is the resolved configuration of one invocation. It is built once
// by Load and not modified afterwards.
type Config struct {
	// Path is the configuration file, or "" when running from flags only.
	Path string
	// BaseDir anchors relative locations.
	BaseDir string

	ResourcesDir Location
	OutputDir    Location
	Template     Location // nil selects the built-in template
	TypeName     string
	Charset      string
	Workers      int // 0 selects runtime.NumCPU()
	Packages     []string
}

// Overrides carries command-line values. Zero values leave the configured
// value in place. Relative paths resolve against the working directory.
type Overrides struct {
	ResourcesDir string
	OutputDir    string
	Template     string
	TypeName     string
	Charset      string
	Workers      int
	Packages     []string
}

// Find returns the path of wren.yml in dir, or "" if there is none.
func Find(dir string) string {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load reads the configuration file at path (skipped when path is ""),
// applies WREN_* environment variables and then overrides. The result is
// validated.
func Load(path string, o Overrides) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("WREN")
	v.SetDefault("resources_dir", DefaultResourcesDir)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("type_name", DefaultTypeName)
	v.SetDefault("charset", bundle.DefaultCharset)

	cfg := &Config{BaseDir: cwd}
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found: %w", path, err)
		}
		v.SetConfigFile(abs)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		cfg.Path = abs
		cfg.BaseDir = filepath.Dir(abs)
	}

	if cfg.ResourcesDir, err = ParseLocation(v.GetString("resources_dir")); err != nil {
		return nil, fmt.Errorf("resources_dir: %w", err)
	}
	if cfg.OutputDir, err = ParseLocation(v.GetString("output_dir")); err != nil {
		return nil, fmt.Errorf("output_dir: %w", err)
	}
	if tmpl := v.GetString("template"); tmpl != "" {
		if cfg.Template, err = ParseLocation(tmpl); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
	}
	cfg.TypeName = strings.TrimSpace(v.GetString("type_name"))
	cfg.Charset = strings.TrimSpace(v.GetString("charset"))
	cfg.Workers = v.GetInt("workers")
	cfg.Packages = v.GetStringSlice("packages")

	if err := cfg.apply(o, cwd); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(o Overrides, cwd string) error {
	override := func(name, value string, dst *Location) error {
		if value == "" {
			return nil
		}
		loc, err := ParseLocation(value)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*dst = AbsolutePath(loc.Resolve(cwd))
		return nil
	}
	if err := override("resources", o.ResourcesDir, &c.ResourcesDir); err != nil {
		return err
	}
	if err := override("output", o.OutputDir, &c.OutputDir); err != nil {
		return err
	}
	if err := override("template", o.Template, &c.Template); err != nil {
		return err
	}

	if o.TypeName != "" {
		c.TypeName = o.TypeName
	}
	if o.Charset != "" {
		c.Charset = o.Charset
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if len(o.Packages) > 0 {
		c.Packages = o.Packages
	}
	return nil
}

// ResourcesRoot is the resolved resources directory.
func (c *Config) ResourcesRoot() string { return c.ResourcesDir.Resolve(c.BaseDir) }

// OutputRoot is the resolved output directory.
func (c *Config) OutputRoot() string { return c.OutputDir.Resolve(c.BaseDir) }

// TemplatePath is the resolved custom template, or "".
func (c *Config) TemplatePath() string {
	if c.Template == nil {
		return ""
	}
	return c.Template.Resolve(c.BaseDir)
}

// Validate checks the settings shared by every package. A malformed package
// identifier is not a configuration error; it fails that package alone when
// generating.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Packages) == 0 {
		errs = append(errs, errors.New("no packages configured"))
	}
	if !token.IsIdentifier(c.TypeName) || !token.IsExported(c.TypeName) {
		errs = append(errs, fmt.Errorf("type_name %q must be an exported Go identifier", c.TypeName))
	}
	if _, err := bundle.LookupCharset(c.Charset); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if tmpl := c.TemplatePath(); tmpl != "" {
		if info, err := os.Stat(tmpl); err != nil {
			errs = append(errs, fmt.Errorf("template: %w", err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Errorf("template %s is a directory", tmpl))
		}
	}

	if len(errs) == 0 {
		if _, err := c.Targets(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Target describes the generated file of one package.
type Target struct {
	Package   string // bundle package identifier, e.g. "app.text"
	GoPackage string // package clause of the generated file
	TypeName  string
	Path      string // absolute output file
	// Err is set when the identifier cannot name an output; GoPackage and
	// Path are then empty.
	Err error
}

// Targets derives the generation targets in configured order. A malformed
// identifier yields a target carrying a *bundle.DiscoveryError so it fails
// on its own beside its siblings. Two packages resolving to the same output
// file are rejected.
func (c *Config) Targets() ([]Target, error) {
	outRoot := c.OutputRoot()
	fileName := generator.SnakeCase(c.TypeName) + ".go"

	targets := make([]Target, 0, len(c.Packages))
	owners := make(map[string]string, len(c.Packages))
	for _, pkg := range c.Packages {
		target := Target{Package: pkg, TypeName: c.TypeName}
		rel, err := bundle.PackagePath(pkg)
		if err == nil {
			target.GoPackage, err = GoPackageName(pkg)
		}
		if err != nil {
			target.GoPackage = ""
			target.Err = &bundle.DiscoveryError{Package: pkg, Err: err}
			targets = append(targets, target)
			continue
		}

		target.Path = filepath.Join(outRoot, rel, fileName)
		if prev, ok := owners[target.Path]; ok {
			return nil, fmt.Errorf("packages %q and %q both generate %s", prev, pkg, target.Path)
		}
		owners[target.Path] = pkg
		targets = append(targets, target)
	}
	return targets, nil
}

// GoPackageName derives the package clause from the last segment of a
// bundle package identifier. A keyword or blank result gets a trailing
// underscore: app.map generates package map_.
func GoPackageName(pkg string) (string, error) {
	segments, err := bundle.SplitPackage(pkg)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(symbol.Sanitize(segments[len(segments)-1]))
	if name == "_" || token.IsKeyword(name) {
		name += "_"
	}
	return name, nil
}
