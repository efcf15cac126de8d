// Package engine resolves file specs into an output directory and reports
// every defect of the run in one aggregate error.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/sandbox"
	"github.com/bianoble/ssg/internal/source"
	"github.com/bianoble/ssg/internal/target"
)

// Generator runs every file spec once and writes the produced bytes under
// OutputDir.
type Generator struct {
	OutputDir   string
	Concurrency int          // 0 means unbounded
	DryRun      bool         // produce but do not write
	Logger      *slog.Logger // nil discards
}

// Generate runs specs with an unbounded Generator writing to outputDir.
func Generate(ctx context.Context, outputDir string, specs []FileSpec) error {
	g := &Generator{OutputDir: outputDir}
	return g.Generate(ctx, specs, nil)
}

// Stream starts resolving specs and returns a channel carrying one Result
// per spec in completion order. The channel is closed once every spec has
// been attempted.
//
// The declared target set is frozen before any source runs. Stream panics
// if a spec has a zero target.
func (g *Generator) Stream(ctx context.Context, specs []FileSpec) <-chan Result {
	declared := make([]relpath.Path, len(specs))
	for i, spec := range specs {
		if spec.Target.IsZero() {
			panic(fmt.Sprintf("engine: file spec %d has no target", i))
		}
		declared[i] = spec.Target
	}
	set := target.NewSet(declared...)

	results := make(chan Result, len(specs))
	w := sandbox.Writer{Root: g.OutputDir}

	var eg errgroup.Group
	if g.Concurrency > 0 {
		eg.SetLimit(g.Concurrency)
	}

	go func() {
		defer close(results)
		for _, spec := range specs {
			eg.Go(func() error {
				results <- g.resolve(ctx, set.For(spec.Target), spec, w)
				return nil
			})
		}
		_ = eg.Wait()
	}()

	return results
}

// Generate resolves specs and folds the outcome. Each result is sent to
// progress, when non-nil, before it is folded, and progress is closed when
// the run is done. The caller must keep draining progress.
//
// The returned error is nil or a *FinalError.
func (g *Generator) Generate(ctx context.Context, specs []FileSpec, progress chan<- Result) error {
	logger := g.logger()
	if progress != nil {
		defer close(progress)
	}

	b := newFinalErrorBuilder()
	for res := range g.Stream(ctx, specs) {
		if progress != nil {
			progress <- res
		}
		if res.OK() {
			logger.Debug("target generated",
				"target", res.Success.Target.String(),
				"bytes", res.Success.Size,
				"expects", len(res.Success.Expected))
		} else {
			logger.Warn("target failed", "target", res.Err.Target.String(), "error", res.Err.Cause)
		}
		b.add(res)
	}

	processed, failed := b.counts()
	fe := b.build()
	logger.Info("generation finished",
		"output", g.OutputDir,
		"targets", processed,
		"failed", failed,
		"dry_run", g.DryRun,
		"ok", fe == nil)

	if fe == nil {
		return nil
	}
	return fe
}

// Fold drains results and returns nil or a *FinalError.
func Fold(results <-chan Result) error {
	b := newFinalErrorBuilder()
	for res := range results {
		b.add(res)
	}
	if fe := b.build(); fe != nil {
		return fe
	}
	return nil
}

func (g *Generator) resolve(ctx context.Context, view target.Targets, spec FileSpec, w sandbox.Writer) (res Result) {
	t := spec.Target

	defer func() {
		if r := recover(); r != nil {
			res = failure(t, &source.Error{Kind: source.KindRender, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	if spec.Source == nil {
		return failure(t, &source.Error{Kind: source.KindRender, Err: errors.New("no content source")})
	}

	fc, err := spec.Source.Produce(ctx, view)
	if err != nil {
		return failure(t, source.Classify(err))
	}

	written := false
	if !g.DryRun {
		if err := w.Write(t, fc.Bytes); err != nil {
			return failure(t, &IOError{Op: "write", Path: t.FilePath(g.OutputDir), Err: err})
		}
		written = true
	}

	expected := fc.Expected
	if expected == nil {
		expected = relpath.NewSet()
	}
	return Result{Success: &TargetSuccess{
		Target:   t,
		Expected: expected,
		Size:     len(fc.Bytes),
		Written:  written,
	}}
}

func failure(t relpath.Path, cause error) Result {
	return Result{Err: &TargetError{Target: t, Cause: cause}}
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}
