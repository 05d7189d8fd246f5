// Package emit renders a package's key mapping into a Go source file and
// writes it to the target path.
package emit

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io/fs"
	"os"

	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/symbol"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const defaultTemplate = "templates/keys.go.tmpl"

// Status describes what Emit did with the target file.
type Status int

const (
	StatusWritten   Status = iota // content changed and was written
	StatusUnchanged               // file already held identical content
	StatusDryRun                  // content changed, write skipped
	StatusStale                   // check mode found a difference
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusDryRun:
		return "would write"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Options configures an Emitter.
type Options struct {
	// TemplatePath replaces the embedded template when set.
	TemplatePath string
	// DryRun renders without writing.
	DryRun bool
	// Check compares against disk instead of writing; differences are
	// reported as ErrStale.
	Check bool
	// Diff attaches a unified diff to results whose content changed.
	Diff bool
	Log  logger.Logger
}

// Result is the outcome of emitting one target.
type Result struct {
	Path      string
	Status    Status
	Constants int
	Diff      string
}

// Emitter produces generated files. It is safe for concurrent use on
// distinct targets.
type Emitter struct {
	opts     Options
	renderer *generator.Renderer
	differ   *generator.Differ
	log      logger.Logger
}

// New creates an Emitter.
func New(opts Options) *Emitter {
	log := opts.Log
	if log == nil {
		log = logger.NewSilent()
	}
	return &Emitter{
		opts:     opts,
		renderer: generator.NewRenderer(),
		differ:   generator.NewDiffer(generator.DiffOptions{}),
		log:      log,
	}
}

type entryData struct {
	Key        string // raw bundle key
	Identifier string // sanitized key
	Name       string // declared constant name
}

type templateData struct {
	Package   string
	GoPackage string
	TypeName  string
	Entries   []entryData
}

// ConstName is the declared name of the constant for identifier.
func ConstName(typeName, identifier string) string {
	return typeName + "_" + identifier
}

// Render returns the formatted source for target without touching disk.
func (e *Emitter) Render(target config.Target, mapping symbol.Mapping) ([]byte, error) {
	data, err := prepareData(target, mapping)
	if err != nil {
		return nil, &OutputError{Path: target.Path, Op: "validate", Err: err}
	}

	var raw []byte
	if e.opts.TemplatePath != "" {
		raw, err = e.renderer.RenderFile(e.opts.TemplatePath, data)
	} else {
		raw, err = e.renderer.RenderFS(templatesFS, defaultTemplate, data)
	}
	if err != nil {
		return nil, &OutputError{Path: target.Path, Op: "render", Err: err}
	}

	src, err := format.Source(raw)
	if err != nil {
		return nil, &OutputError{Path: target.Path, Op: "format", Err: fmt.Errorf("template produced invalid Go: %w", err)}
	}
	return src, nil
}

func prepareData(target config.Target, mapping symbol.Mapping) (templateData, error) {
	if !token.IsIdentifier(target.GoPackage) {
		return templateData{}, fmt.Errorf("invalid Go package name %q", target.GoPackage)
	}
	if !token.IsIdentifier(target.TypeName) || !token.IsExported(target.TypeName) {
		return templateData{}, fmt.Errorf("type name %q is not an exported Go identifier", target.TypeName)
	}

	data := templateData{
		Package:   target.Package,
		GoPackage: target.GoPackage,
		TypeName:  target.TypeName,
	}
	for _, entry := range mapping.Entries() {
		name := ConstName(target.TypeName, entry.Identifier)
		if !token.IsIdentifier(name) {
			return templateData{}, fmt.Errorf("key %q yields invalid identifier %q", entry.Key, name)
		}
		data.Entries = append(data.Entries, entryData{
			Key:        entry.Key,
			Identifier: entry.Identifier,
			Name:       name,
		})
	}
	return data, nil
}

// Emit renders target and brings the file on disk up to date, unless the
// emitter runs in dry-run or check mode.
func (e *Emitter) Emit(ctx context.Context, target config.Target, mapping symbol.Mapping) (Result, error) {
	result := Result{Path: target.Path, Constants: mapping.Len()}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	content, err := e.Render(target, mapping)
	if err != nil {
		return result, err
	}

	existing, err := os.ReadFile(target.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return result, &OutputError{Path: target.Path, Op: "read", Err: err}
	}
	if err == nil && bytes.Equal(existing, content) {
		result.Status = StatusUnchanged
		e.log.Debug("generated file unchanged", logger.F("path", target.Path))
		return result, nil
	}

	if e.opts.Diff || e.opts.Check {
		result.Diff = e.differ.Diff(target.Path+" (current)", target.Path+" (generated)", existing, content)
	}

	if e.opts.Check {
		result.Status = StatusStale
		return result, &OutputError{Path: target.Path, Op: "check", Err: ErrStale}
	}

	op := &generator.WriteFileOp{Path: target.Path, Content: content, Mode: 0644}
	if err := generator.Execute(ctx, []generator.Operation{op}, generator.ExecuteOptions{DryRun: e.opts.DryRun}); err != nil {
		return result, &OutputError{Path: target.Path, Op: "write", Err: err}
	}

	if e.opts.DryRun {
		result.Status = StatusDryRun
	} else {
		result.Status = StatusWritten
		e.log.Debug("wrote generated file", logger.F("path", target.Path), logger.F("bytes", len(content)))
	}
	return result, nil
}
