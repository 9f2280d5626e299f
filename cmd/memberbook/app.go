package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"memberbook/internal/archive"
	"memberbook/internal/blob"
	"memberbook/internal/command"
	"memberbook/internal/config"
	"memberbook/internal/core"
	"memberbook/internal/platform/otel"
)

const serviceName = "memberbook"

// app holds everything one CLI invocation needs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    core.PersistentStore
	exec     *command.Executor
	archiver *archive.Archiver
	closers  []func(context.Context) error
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// setup loads configuration and wires storage, archives and observability.
// Call close on the returned app even when a later step fails.
func setup(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	prefs, err := config.LoadPrefs(cfg.PrefsPath)
	if err != nil {
		return a, fmt.Errorf("load preferences: %w", err)
	}

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, prefs.DataFilePath)
	if err != nil {
		return a, fmt.Errorf("open storage: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, func(context.Context) error { return core.CloseStore(store) })

	model, err := core.LoadModel(ctx, store, core.ModelConfig{
		HistoryLimit: cfg.HistoryLimit,
		Prefs:        prefs,
		Logger:       logger,
	})
	if err != nil {
		return a, err
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithAuditRecorder(core.NewLogAuditRecorder(logger)),
	}
	if cfg.MetricsAddr != "" {
		rec, err := a.serveMetrics(cfg.MetricsAddr)
		if err != nil {
			return a, err
		}
		opts = append(opts, core.WithMetricsRecorder(rec))
	}
	if cfg.OTelEndpoint != "" {
		shutdown, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint)
		if err != nil {
			return a, fmt.Errorf("setup tracing: %w", err)
		}
		a.closers = append(a.closers, shutdown)
		opts = append(opts, core.WithTracer(otel.NewTracer(nil)))
	}
	a.exec = command.NewExecutor(core.NewService(model, store, opts...), logger)

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return a, fmt.Errorf("open archive store: %w", err)
	}
	prefix := cfg.Blob.Prefix
	if prefs.ArchivePrefix != "" {
		prefix = prefs.ArchivePrefix
	}
	a.archiver = archive.New(blobs, prefix)
	return a, nil
}

// serveMetrics exposes Prometheus and expvar metrics on addr until close.
func (a *app) serveMetrics(addr string) (core.MetricsRecorder, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		return nil, err
	}
	vars := core.NewExpvarMetricsRecorder("")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	a.closers = append(a.closers, srv.Shutdown)
	return fanoutMetrics{prom, vars}, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

var _ core.MetricsRecorder = fanoutMetrics{}

type fanoutMetrics []core.MetricsRecorder

func (f fanoutMetrics) Observe(ctx context.Context, operation string, success bool, d time.Duration) {
	for _, rec := range f {
		rec.Observe(ctx, operation, success, d)
	}
}
