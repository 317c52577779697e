// Package generate drives the category pipeline: load, normalize, emit.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"rulegen/pkg/config"
	"rulegen/pkg/emit"
	"rulegen/pkg/ruleset"
)

// Failure records one format that could not be generated.
type Failure struct {
	Category string
	Format   string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s/%s: %v", f.Category, f.Format, f.Err)
}

// Result summarises one generator run.
type Result struct {
	Categories int
	Files      int
	Failures   []Failure
}

// Failed reports whether any category or format failed to generate.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

type categoryResult struct {
	files    int
	failures []Failure
}

// Run processes every configured category through every configured emitter.
// A missing input list or a failing emitter never aborts the run; failures
// are collected in the Result. Run itself only errors when no work can
// proceed at all, such as an uncreatable output directory.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}

	emitters := make([]emit.Emitter, 0, len(cfg.Generate.Formats))
	for _, name := range cfg.Generate.Formats {
		e, ok := emit.ByName(name)
		if !ok {
			return Result{}, fmt.Errorf("unknown format %q", name)
		}
		emitters = append(emitters, e)
	}

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	categories := cfg.Generate.Categories
	results := make([]categoryResult, len(categories))

	if cfg.Generate.Parallel {
		// Each category reads and writes disjoint paths and owns its
		// result slot, so the fan-out needs no locking.
		g, ctx := errgroup.WithContext(ctx)
		for i, category := range categories {
			i, category := i, category
			g.Go(func() error {
				results[i] = processCategory(ctx, cfg, category, emitters, log)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	} else {
		for i, category := range categories {
			results[i] = processCategory(ctx, cfg, category, emitters, log)
		}
	}

	res := Result{Categories: len(categories)}
	for _, cr := range results {
		res.Files += cr.files
		res.Failures = append(res.Failures, cr.failures...)
	}
	return res, nil
}

func processCategory(ctx context.Context, cfg *config.Config, category string, emitters []emit.Emitter, log *slog.Logger) categoryResult {
	if err := ctx.Err(); err != nil {
		return categoryResult{failures: []Failure{{Category: category, Format: "*", Err: err}}}
	}

	inputPath := filepath.Join(cfg.Paths.InputDir, category+".txt")
	set, err := ruleset.ParseFile(inputPath, ruleset.ParseOptions{
		Category:   category,
		Logger:     log,
		ErrorLimit: cfg.Generate.ParseErrorLimit,
	})
	if err != nil {
		// A category without an input list still gets valid, empty
		// rule files so downstream consumers never see stale output.
		log.Warn("input list unavailable, treating category as empty", "category", category, "path", inputPath, "error", err)
		set = &ruleset.RuleSet{Category: category, Domains: []string{}, Keywords: []string{}, CIDRs: []string{}}
	}

	categoryDir := filepath.Join(cfg.Paths.OutputDir, category)
	if err := os.MkdirAll(categoryDir, 0o755); err != nil {
		return categoryResult{failures: []Failure{{Category: category, Format: "*", Err: fmt.Errorf("create category dir: %w", err)}}}
	}

	var cr categoryResult
	for _, e := range emitters {
		data, err := e.Render(set)
		if err != nil {
			cr.failures = append(cr.failures, Failure{Category: category, Format: e.Name(), Err: err})
			continue
		}
		outPath := filepath.Join(categoryDir, e.Filename())
		if err := emit.WriteFile(outPath, data); err != nil {
			cr.failures = append(cr.failures, Failure{Category: category, Format: e.Name(), Err: err})
			continue
		}
		cr.files++
		log.Debug("wrote rule file", "category", category, "format", e.Name(), "path", outPath, "entries", set.Size())
	}
	return cr
}
