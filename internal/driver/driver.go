// Package driver runs the collect, sanitize and emit pipeline for every
// configured package.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/firebird-suite/wren/internal/bundle"
	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/emit"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/symbol"
)

// Options configures a Driver.
type Options struct {
	// Workers bounds concurrent packages; 0 uses the configured value, then
	// runtime.NumCPU().
	Workers int
	DryRun  bool
	Check   bool
	Diff    bool
	Log     logger.Logger
}

// Driver generates the key files of a configuration.
type Driver struct {
	cfg       *config.Config
	collector *bundle.Collector
	emitter   *emit.Emitter
	workers   int
	log       logger.Logger
}

// New creates a Driver for cfg, which must already be validated.
func New(cfg *config.Config, opts Options) (*Driver, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewSilent()
	}

	collector, err := bundle.NewCollector(cfg.Charset, log)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Driver{
		cfg:       cfg,
		collector: collector,
		emitter: emit.New(emit.Options{
			TemplatePath: cfg.TemplatePath(),
			DryRun:       opts.DryRun,
			Check:        opts.Check,
			Diff:         opts.Diff,
			Log:          log,
		}),
		workers: workers,
		log:     log,
	}, nil
}

// PackageResult is the outcome for one package.
type PackageResult struct {
	Target config.Target
	Keys   int
	Emit   emit.Result
	Err    error
}

// Report collects the results of one run in target order.
type Report struct {
	Packages []PackageResult
	Duration time.Duration
}

// Err joins the errors of every failed package, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, p := range r.Packages {
		if p.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Target.Package, p.Err))
		}
	}
	return errors.Join(errs...)
}

// Failed counts packages that did not complete.
func (r Report) Failed() int {
	n := 0
	for _, p := range r.Packages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Count returns how many packages ended with status s.
func (r Report) Count(s emit.Status) int {
	n := 0
	for _, p := range r.Packages {
		if p.Err == nil && p.Emit.Status == s {
			n++
		}
	}
	return n
}

// Run generates every configured package.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	targets, err := d.cfg.Targets()
	if err != nil {
		return Report{}, err
	}
	return d.Generate(ctx, targets), nil
}

// Generate runs the pipeline for each target. Packages are independent: a
// failure in one is recorded in its result and never stops the others.
// Packages not yet started when ctx is cancelled report the context error.
func (d *Driver) Generate(ctx context.Context, targets []config.Target) Report {
	start := time.Now()
	results := make([]PackageResult, len(targets))

	d.log.Info("generating text keys",
		logger.F("packages", len(targets)),
		logger.F("workers", d.workers))

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = d.generatePackage(ctx, target)
			return nil
		})
	}
	g.Wait() // workers record failures in their slot and always return nil

	report := Report{Packages: results, Duration: time.Since(start)}
	d.log.Info("generation finished",
		logger.F("packages", len(targets)),
		logger.F("failed", report.Failed()),
		logger.F("duration", report.Duration.Round(time.Millisecond)))
	return report
}

func (d *Driver) generatePackage(ctx context.Context, target config.Target) PackageResult {
	result := PackageResult{Target: target}
	if target.Err != nil {
		result.Err = target.Err
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	log := d.log.WithFields(logger.F("package", target.Package))

	keys, err := d.collector.Collect(d.cfg.ResourcesRoot(), target.Package)
	if err != nil {
		result.Err = err
		log.Debug("collect failed", logger.F("error", err))
		return result
	}
	result.Keys = keys.Len()

	mapping, err := symbol.Build(keys.Sorted())
	if err != nil {
		result.Err = err
		log.Debug("sanitize failed", logger.F("error", err))
		return result
	}

	result.Emit, err = d.emitter.Emit(ctx, target, mapping)
	if err != nil {
		result.Err = err
		return result
	}

	log.Debug("package done",
		logger.F("keys", result.Keys),
		logger.F("status", result.Emit.Status))
	return result
}
