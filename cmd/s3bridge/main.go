package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"s3bridge/config"
	"s3bridge/observability"
	"s3bridge/storage"
	s3adapter "s3bridge/storage/adapters/s3"
)

const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}, overrides{})
	stop()
	os.Exit(code)
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// overrides replaces infrastructure pieces in tests
type overrides struct {
	factory  s3adapter.Factory
	provider observability.Provider
}

// Application holds the complete application stack
type Application struct {
	cfg      *config.Config
	invoker  *storage.Invoker
	logger   observability.Logger
	provider observability.Provider
	registry *prometheus.Registry
}

// run executes one command line and returns the process exit code
func run(ctx context.Context, args []string, std streams, ov overrides) int {
	root := newRootCommand(std, ov)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errOperationFailed):
		return exitFailed
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(std.err, "interrupted")
		return exitInterrupted
	default:
		fmt.Fprintf(std.err, "error: %v\n", err)
		return exitUsage
	}
}

// loadConfiguration loads and validates configuration, then applies command
// line overrides on top of it.
func loadConfiguration(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	provider := new(config.Provider)
	if err := provider.Load(); err != nil {
		return nil, err
	}
	cfg := *provider.MustGet()

	flags.apply(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// buildApplication wires observability and the storage invoker
func buildApplication(cfg *config.Config, std streams, ov overrides) *Application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	provider := ov.provider
	if provider == nil {
		provider = observability.NewProvider(&observability.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			LogLevel:    cfg.LogLevel,
			LogFormat:   cfg.Observability.LogFormat,
			LogOutput:   std.err,
			Registerer:  registry,
			AdditionalFields: observability.Fields{
				"version": cfg.Version,
			},
		})
	}

	invoker := storage.NewInvoker(ov.factory, provider.Logger("storage"), provider.Metrics("storage"))

	return &Application{
		cfg:      cfg,
		invoker:  invoker,
		logger:   provider.Logger("main"),
		provider: provider,
		registry: registry,
	}
}

// execute runs op and, when a metrics address is configured, serves the
// registry until op returns.
func (app *Application) execute(ctx context.Context, op func(context.Context) error) error {
	addr := app.cfg.Observability.MetricsAddr
	if addr == "" {
		return op(ctx)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           metricsHandler(app.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	opDone := make(chan struct{})

	eg.Go(func() error {
		app.logger.Info(ctx, "serving metrics", observability.Fields{"addr": addr})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		select {
		case <-opDone:
		case <-egCtx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		defer close(opDone)
		return op(egCtx)
	})

	return eg.Wait()
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return mux
}

// Close flushes and releases observability outputs
func (app *Application) Close() error {
	return app.provider.Close()
}
