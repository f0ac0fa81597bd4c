/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/harvatechs/ariv/internal/bench"
	"github.com/harvatechs/ariv/internal/config"
	"github.com/harvatechs/ariv/internal/manager"
	"github.com/harvatechs/ariv/internal/probe"
	"github.com/harvatechs/ariv/internal/router"
	"github.com/harvatechs/ariv/internal/runner"
	"github.com/harvatechs/ariv/internal/server"
)

type startOptions struct {
	host string
	port int
}

// NewStartCommand creates the start command.
func NewStartCommand() *cobra.Command {
	opts := &startOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Launch the request frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "0.0.0.0", "address to bind")
	cmd.Flags().IntVar(&opts.port, "port", 8000, "port to bind")

	return cmd
}

func runStart(cmd *cobra.Command, opts *startOptions) error {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	// No exporter wired: spans are sampled and recorded in-process but not
	// shipped anywhere. Swap in an OTLP exporter here once a collector is
	// available.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("ariv"),
		)),
	)
	otel.SetTracerProvider(tp)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	state := &server.AppState{
		Registry:           reg,
		Manager:            manager.New(cfg.MaxLoadedModels),
		Prober:             probe.New(cfg.FakeVRAMMB),
		Router:             router.New(reg),
		Runner:             runner.New(cfg.LlamaCppBin, cfg.MockLlama, cfg.GracePeriod),
		Bench:              bench.New(reg, runner.New(cfg.LlamaCppBin, cfg.MockLlama, cfg.GracePeriod), ""),
		Logger:             logger,
		DefaultMaxTokens:   512,
		DefaultTemperature: 0.7,
	}

	addr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.NewMux(state),
	}

	logger.Infow("starting frontend", "addr", addr, "mockLlama", cfg.MockLlama, "maxLoadedModels", cfg.MaxLoadedModels)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Infow("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("shutdown completed with errors", "error", err)
		}
	}

	logger.Infow("frontend stopped")
	return nil
}
