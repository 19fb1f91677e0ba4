// Package app wires the frontend, the extraction engine and the ambient
// services into the command-line workflow.
package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"getdocs/internal/config"
	"getdocs/internal/core/errors"
	"getdocs/internal/extract"
	"getdocs/internal/frontend"
	"getdocs/internal/shared/observability"
	"getdocs/internal/watch"
)

// Service runs extraction batches against a fixed configuration.
type Service struct {
	cfg      *config.Config
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

func New(cfg *config.Config) (*Service, error) {
	tracer, shutdown, err := newTracer(cfg.TraceFile)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, tracer: tracer, shutdown: shutdown}, nil
}

// Close flushes the trace exporter.
func (s *Service) Close(ctx context.Context) error {
	return s.shutdown(ctx)
}

// Run extracts the entry files and writes the result as JSON: one object
// for a single entry, an array in entry order otherwise.
func (s *Service) Run(ctx context.Context, entries []string, out io.Writer) error {
	batch := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "extract-batch")
	span.SetAttributes(
		attribute.String("batch.id", batch),
		attribute.Int("batch.entries", len(entries)),
	)
	defer span.End()

	abs := make([]string, 0, len(entries))
	for _, e := range entries {
		a, err := filepath.Abs(e)
		if err != nil {
			return errors.AddContext(
				errors.Wrap(err, errors.CodeUnitNotFound, "cannot resolve entry path"),
				errors.CtxPath, e)
		}
		abs = append(abs, a)
	}

	bindStart := time.Now()
	_, bindSpan := s.tracer.Start(ctx, "bind")
	m, err := frontend.BuildModel(abs)
	bindSpan.End()
	if err != nil {
		observability.FatalErrorsTotal.WithLabelValues(string(errors.CodeOf(err))).Inc()
		return err
	}
	observability.ParsingDuration.WithLabelValues("bind").Observe(time.Since(bindStart).Seconds())
	slog.Debug("model bound", "batch", batch, "files", len(m.Files()))

	results := make([]*extract.ItemMap, 0, len(abs))
	for _, source := range abs {
		gatherStart := time.Now()
		_, gatherSpan := s.tracer.Start(ctx, "gather")
		gatherSpan.SetAttributes(attribute.String("source", source))
		items, err := extract.Gather(m, extract.Request{
			SourcePath: source,
			BaseDir:    s.baseDir(source),
		})
		gatherSpan.End()
		if err != nil {
			observability.FatalErrorsTotal.WithLabelValues(string(errors.CodeOf(err))).Inc()
			return err
		}
		observability.GatherDuration.Observe(time.Since(gatherStart).Seconds())
		observability.UnitsProcessedTotal.Inc()
		observability.ItemsEmittedTotal.Add(float64(items.Len()))
		results = append(results, items)
	}

	enc := json.NewEncoder(out)
	if s.cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

// WatchAndRun performs an initial extraction, then re-runs on source
// changes below the entries' base directories until ctx is cancelled.
func (s *Service) WatchAndRun(ctx context.Context, entries []string, out io.Writer) error {
	if err := s.Run(ctx, entries, out); err != nil {
		return err
	}

	roots := make(map[string]struct{})
	for _, e := range entries {
		if a, err := filepath.Abs(e); err == nil {
			roots[s.baseDir(a)] = struct{}{}
		}
	}
	paths := make([]string, 0, len(roots))
	for root := range roots {
		paths = append(paths, root)
	}

	w, err := watch.NewWatcher(s.cfg.Watch.Debounce, s.cfg.Exclude.Dirs, s.cfg.Exclude.Files, func(changed []string) {
		slog.Info("sources changed, re-extracting", "files", len(changed))
		if err := s.Run(ctx, entries, out); err != nil {
			slog.Error("extraction failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(paths); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// baseDir resolves the directory that typeSource paths are relative to:
// the configured one, otherwise the directory of the nearest tsconfig.json
// above the source, otherwise the source's own directory.
func (s *Service) baseDir(source string) string {
	if s.cfg.BaseDir != "" {
		if abs, err := filepath.Abs(s.cfg.BaseDir); err == nil {
			return abs
		}
		return s.cfg.BaseDir
	}
	dir := filepath.Dir(source)
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, "tsconfig.json")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return dir
}

func newTracer(path string) (trace.Tracer, func(context.Context) error, error) {
	if path == "" {
		return noop.NewTracerProvider().Tracer("getdocs"),
			func(context.Context) error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(f),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	shutdown := func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return tp.Tracer("getdocs"), shutdown, nil
}
