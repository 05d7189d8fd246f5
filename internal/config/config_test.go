package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("resources/text")
	require.NoError(t, err)
	assert.Equal(t, RelativePath(filepath.FromSlash("resources/text")), loc)
	assert.Equal(t, filepath.Join("/base", "resources", "text"), loc.Resolve("/base"))

	abs := filepath.Join(t.TempDir(), "out")
	loc, err = ParseLocation(abs)
	require.NoError(t, err)
	assert.Equal(t, AbsolutePath(abs), loc)
	assert.Equal(t, abs, loc.Resolve("/ignored"))

	home, err := os.UserHomeDir()
	if err == nil {
		loc, err = ParseLocation("~/bundles")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "bundles"), loc.Resolve("/ignored"))
	}

	_, err = ParseLocation("   ")
	assert.Error(t, err)
}

func TestLoad_ResolvesAgainstConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
resources_dir: res
output_dir: gen
type_name: Keys
charset: ISO-8859-1
workers: 2
packages:
  - app.text
  - app/errors
`)

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, filepath.Join(dir, "res"), cfg.ResourcesRoot())
	assert.Equal(t, filepath.Join(dir, "gen"), cfg.OutputRoot())
	assert.Equal(t, "Keys", cfg.TypeName)
	assert.Equal(t, "ISO-8859-1", cfg.Charset)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"app.text", "app/errors"}, cfg.Packages)
	assert.Empty(t, cfg.TemplatePath())
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packages: [app.text]\n")

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTypeName, cfg.TypeName)
	assert.Equal(t, "UTF-8", cfg.Charset)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, filepath.Join(dir, DefaultResourcesDir), cfg.ResourcesRoot())
	assert.Equal(t, filepath.Join(dir, filepath.FromSlash(DefaultOutputDir)), cfg.OutputRoot())
}

func TestLoad_EnvironmentAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "type_name: FileKeys\ncharset: UTF-8\npackages: [app.text]\n")

	t.Setenv("WREN_TYPE_NAME", "EnvKeys")
	t.Setenv("WREN_CHARSET", "windows-1252")

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "EnvKeys", cfg.TypeName)
	assert.Equal(t, "windows-1252", cfg.Charset)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	cfg, err = Load(path, Overrides{TypeName: "FlagKeys", OutputDir: "flag-out", Packages: []string{"other"}})
	require.NoError(t, err)
	assert.Equal(t, "FlagKeys", cfg.TypeName)
	assert.Equal(t, []string{"other"}, cfg.Packages)
	assert.Equal(t, filepath.Join(cwd, "flag-out"), cfg.OutputRoot(), "flag paths resolve against the working directory")
}

func TestLoad_WithoutFile(t *testing.T) {
	res := t.TempDir()
	cfg, err := Load("", Overrides{ResourcesDir: res, Packages: []string{"app.text"}})
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, res, cfg.ResourcesRoot())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "packages: [unterminated\n")
	_, err := Load(path, Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseDir:      "/project",
			ResourcesDir: RelativePath("res"),
			OutputDir:    RelativePath("gen"),
			TypeName:     "TextKeys",
			Charset:      "UTF-8",
			Packages:     []string{"app.text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no packages", mutate: func(c *Config) { c.Packages = nil }, wantErr: "no packages"},
		{name: "unexported type", mutate: func(c *Config) { c.TypeName = "textKeys" }, wantErr: "exported Go identifier"},
		{name: "type with dot", mutate: func(c *Config) { c.TypeName = "Text.Keys" }, wantErr: "exported Go identifier"},
		{name: "unknown charset", mutate: func(c *Config) { c.Charset = "klingon" }, wantErr: "klingon"},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers"},
		{name: "malformed package beside a good one", mutate: func(c *Config) { c.Packages = []string{"app.text", "ui..menu"} }},
		{name: "keyword package name", mutate: func(c *Config) { c.Packages = []string{"app.func"} }},
		{name: "overlapping outputs", mutate: func(c *Config) { c.Packages = []string{"app.text", "app/text"} }, wantErr: "both generate"},
		{name: "missing template", mutate: func(c *Config) { c.Template = AbsolutePath("/no/such/template.tmpl") }, wantErr: "template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTargets(t *testing.T) {
	cfg := &Config{
		BaseDir:      "/project",
		ResourcesDir: RelativePath("res"),
		OutputDir:    RelativePath("gen"),
		TypeName:     "TextKeys",
		Charset:      "UTF-8",
		Packages:     []string{"app.text", "app/ui/Main-Menu"},
	}

	targets, err := cfg.Targets()
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, Target{
		Package:   "app.text",
		GoPackage: "text",
		TypeName:  "TextKeys",
		Path:      filepath.Join("/project", "gen", "app", "text", "text_keys.go"),
	}, targets[0])
	assert.Equal(t, "main_menu", targets[1].GoPackage)
	assert.Equal(t, filepath.Join("/project", "gen", "app", "ui", "Main-Menu", "text_keys.go"), targets[1].Path)
}

func TestTargets_MalformedPackageFailsAlone(t *testing.T) {
	cfg := &Config{
		BaseDir:      "/project",
		ResourcesDir: RelativePath("res"),
		OutputDir:    RelativePath("gen"),
		TypeName:     "TextKeys",
		Charset:      "UTF-8",
		Packages:     []string{"app.text", "app.map", "ui..menu"},
	}

	targets, err := cfg.Targets()
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.NoError(t, targets[0].Err)
	assert.NoError(t, targets[1].Err)
	assert.Equal(t, "map_", targets[1].GoPackage)
	assert.Equal(t, filepath.Join("/project", "gen", "app", "map", "text_keys.go"), targets[1].Path)

	bad := targets[2]
	assert.Equal(t, "ui..menu", bad.Package)
	assert.Empty(t, bad.Path)
	var derr *bundle.DiscoveryError
	require.ErrorAs(t, bad.Err, &derr)
	assert.Equal(t, "ui..menu", derr.Package)
	assert.ErrorIs(t, bad.Err, bundle.ErrInvalidPackage)
}

func TestGoPackageName(t *testing.T) {
	tests := []struct {
		pkg     string
		want    string
		wantErr bool
	}{
		{pkg: "app.text", want: "text"},
		{pkg: "App/Errors", want: "errors"},
		{pkg: "app.2fa", want: "_2fa"},
		{pkg: "app.type", want: "type_"},
		{pkg: "app.map", want: "map_"},
		{pkg: "app.Select", want: "select_"},
		{pkg: "app.-", want: "__"},
		{pkg: "ui..menu", wantErr: true},
		{pkg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			got, err := GoPackageName(tt.pkg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	f := Default()
	f.Packages = []string{"app.text", "app.errors"}
	f.Workers = 4
	require.NoError(t, Save(path, f))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "type_name: TextKeys")
	assert.NotContains(t, string(raw), "template:")

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, f.Packages, cfg.Packages)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, filepath.Join(dir, "internal", "text"), cfg.OutputRoot())
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))
	path := writeConfig(t, dir, "packages: [a]\n")
	assert.Equal(t, path, Find(dir))
}
