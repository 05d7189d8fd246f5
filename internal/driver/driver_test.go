package driver

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/emit"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/symbol"
)

type fixture struct {
	root string
	cfg  *config.Config
}

func newFixture(t *testing.T, packages ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	return &fixture{
		root: root,
		cfg: &config.Config{
			BaseDir:      root,
			ResourcesDir: config.RelativePath("res"),
			OutputDir:    config.RelativePath("gen"),
			TypeName:     "TextKeys",
			Charset:      "UTF-8",
			Packages:     packages,
		},
	}
}

func (f *fixture) bundle(t *testing.T, pkgDir string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(f.root, "res", filepath.FromSlash(pkgDir))
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func (f *fixture) output(pkgDir string) string {
	return filepath.Join(f.root, "gen", filepath.FromSlash(pkgDir), "text_keys.go")
}

func (f *fixture) run(t *testing.T, opts Options) Report {
	t.Helper()
	d, err := New(f.cfg, opts)
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestGenerate_Scenario(t *testing.T) {
	f := newFixture(t, "app.text")
	f.bundle(t, "app/text", map[string]string{
		"strings.properties":    "greeting=Hello\nfarewell=Bye\n",
		"strings_de.properties": "greeting=Hallo\nwelcome.msg=Willkommen\n",
	})

	report := f.run(t, Options{})
	require.NoError(t, report.Err())
	require.Len(t, report.Packages, 1)
	assert.Equal(t, 3, report.Packages[0].Keys)
	assert.Equal(t, emit.StatusWritten, report.Packages[0].Emit.Status)

	src, err := os.ReadFile(f.output("app/text"))
	require.NoError(t, err)
	for _, decl := range []string{
		`TextKeys_farewell    TextKeys = "farewell"`,
		`TextKeys_greeting    TextKeys = "greeting"`,
		`TextKeys_welcome_msg TextKeys = "welcome.msg"`,
	} {
		assert.Contains(t, string(src), decl)
	}

	again := f.run(t, Options{})
	require.NoError(t, again.Err())
	assert.Equal(t, 1, again.Count(emit.StatusUnchanged))
}

func TestGenerate_CollisionWritesNothing(t *testing.T) {
	f := newFixture(t, "app.text")
	f.bundle(t, "app/text", map[string]string{"strings.properties": "a.b=1\na\\:b=2\n"})

	report := f.run(t, Options{})
	err := report.Err()
	require.Error(t, err)

	var cerr *symbol.CollisionError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, err.Error(), `"a.b"`)
	assert.Contains(t, err.Error(), `"a:b"`)
	assert.Contains(t, err.Error(), "a_b")
	assert.NoFileExists(t, f.output("app/text"))
}

func TestGenerate_FailureDoesNotStopOtherPackages(t *testing.T) {
	f := newFixture(t, "app.missing", "app.broken", "app.text", "app.clash")
	f.bundle(t, "app/broken", map[string]string{"strings.properties": "bad=\\uZZZZ\n"})
	f.bundle(t, "app/text", map[string]string{"strings.properties": "ok=1\n"})
	f.bundle(t, "app/clash", map[string]string{"strings.properties": "x-y=1\nx_y=2\n"})

	report := f.run(t, Options{Workers: 2})
	require.Len(t, report.Packages, 4)
	assert.Equal(t, 3, report.Failed())

	byPkg := make(map[string]PackageResult)
	for _, p := range report.Packages {
		byPkg[p.Target.Package] = p
	}

	var derr *bundle.DiscoveryError
	assert.True(t, errors.As(byPkg["app.missing"].Err, &derr))
	assert.ErrorIs(t, byPkg["app.missing"].Err, fs.ErrNotExist)

	var perr *bundle.ParseError
	assert.True(t, errors.As(byPkg["app.broken"].Err, &perr))

	var cerr *symbol.CollisionError
	assert.True(t, errors.As(byPkg["app.clash"].Err, &cerr))

	require.NoError(t, byPkg["app.text"].Err)
	assert.FileExists(t, f.output("app/text"))

	joined := report.Err().Error()
	for _, pkg := range []string{"app.missing", "app.broken", "app.clash"} {
		assert.Contains(t, joined, pkg+": ")
	}
	assert.NotContains(t, joined, "app.text")
}

func TestGenerate_MalformedPackageFailsAlone(t *testing.T) {
	f := newFixture(t, "app.text", "app.map", "ui..menu")
	f.bundle(t, "app/text", map[string]string{"strings.properties": "ok=1\n"})
	f.bundle(t, "app/map", map[string]string{"strings.properties": "route.home=Home\n"})
	require.NoError(t, f.cfg.Validate())

	report := f.run(t, Options{})
	require.Len(t, report.Packages, 3)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 2, report.Count(emit.StatusWritten))

	bad := report.Packages[2]
	assert.Equal(t, "ui..menu", bad.Target.Package)
	var derr *bundle.DiscoveryError
	require.ErrorAs(t, bad.Err, &derr)
	assert.ErrorIs(t, bad.Err, bundle.ErrInvalidPackage)

	src, err := os.ReadFile(f.output("app/map"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package map_\n")
	assert.Contains(t, string(src), `TextKeys_route_home TextKeys = "route.home"`)
	assert.FileExists(t, f.output("app/text"))

	joined := report.Err().Error()
	assert.Contains(t, joined, "ui..menu: ")
	assert.NotContains(t, joined, "app.map")
}

func TestGenerate_EmptyPackage(t *testing.T) {
	f := newFixture(t, "app.empty")
	f.bundle(t, "app/empty", map[string]string{"README": "no bundles here"})

	report := f.run(t, Options{})
	require.NoError(t, report.Err())
	assert.Equal(t, 0, report.Packages[0].Keys)

	src, err := os.ReadFile(f.output("app/empty"))
	require.NoError(t, err)
	assert.NotContains(t, string(src), "const (")
}

func TestGenerate_ResultsKeepTargetOrder(t *testing.T) {
	var packages []string
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		packages = append(packages, "app."+name)
	}
	f := newFixture(t, packages...)
	for _, pkg := range packages {
		f.bundle(t, strings.ReplaceAll(pkg, ".", "/"), map[string]string{"strings.properties": "k=v\n"})
	}

	report := f.run(t, Options{Workers: 3})
	require.NoError(t, report.Err())
	for i, p := range report.Packages {
		assert.Equal(t, packages[i], p.Target.Package)
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	f := newFixture(t, "app.text")
	f.bundle(t, "app/text", map[string]string{"strings.properties": "k=v\n"})

	d, err := New(f.cfg, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := d.Run(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, report.Err(), context.Canceled)
	assert.NoFileExists(t, f.output("app/text"))
}

func TestGenerate_CheckMode(t *testing.T) {
	f := newFixture(t, "app.text")
	f.bundle(t, "app/text", map[string]string{"strings.properties": "k=v\n"})

	report := f.run(t, Options{Check: true})
	assert.ErrorIs(t, report.Err(), emit.ErrStale)
	assert.Equal(t, 1, report.Failed())

	require.NoError(t, f.run(t, Options{}).Err())
	require.NoError(t, f.run(t, Options{Check: true}).Err())
}

func TestGenerate_LogsPerPackage(t *testing.T) {
	f := newFixture(t, "app.text")
	f.bundle(t, "app/text", map[string]string{"strings.properties": "k=v\n"})

	var buf bytes.Buffer
	report := f.run(t, Options{Log: logger.New(logger.LevelDebug, &buf)})
	require.NoError(t, report.Err())

	out := buf.String()
	assert.Contains(t, out, "generating text keys")
	assert.Contains(t, out, "package=app.text")
	assert.Contains(t, out, "generation finished")
}

func TestNew_UnknownCharset(t *testing.T) {
	f := newFixture(t, "app.text")
	f.cfg.Charset = "klingon"
	_, err := New(f.cfg, Options{})
	assert.Error(t, err)
}

func TestInputFiles(t *testing.T) {
	f := newFixture(t, "app.text", "app/errors")
	f.bundle(t, "app/text", map[string]string{
		"strings.properties":    "a=1\n",
		"strings_de.properties": "a=1\n",
		"notes.txt":             "x",
	})
	f.bundle(t, "app/errors", map[string]string{"strings_fr_FR.properties": "e=1\n"})

	files, err := InputFiles(f.cfg)
	require.NoError(t, err)
	res := filepath.Join(f.root, "res", "app")
	assert.Equal(t, []string{
		filepath.Join(res, "text", "strings.properties"),
		filepath.Join(res, "text", "strings_de.properties"),
		filepath.Join(res, "errors", "strings_fr_FR.properties"),
	}, files)

	f.cfg.Packages = append(f.cfg.Packages, "app.missing")
	_, err = InputFiles(f.cfg)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOutputDirectories(t *testing.T) {
	f := newFixture(t, "app.text", "app/errors")

	dirs, err := OutputDirectories(f.cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(f.root, "gen", "app", "text"),
		filepath.Join(f.root, "gen", "app", "errors"),
	}, dirs)

	files, err := OutputFiles(f.cfg)
	require.NoError(t, err)
	assert.Equal(t, f.output("app/text"), files[0])
}

func TestOutputFiles_MalformedPackage(t *testing.T) {
	f := newFixture(t, "app.text", "ui..menu")

	_, err := OutputFiles(f.cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, bundle.ErrInvalidPackage)
	assert.Contains(t, err.Error(), "ui..menu")
}
