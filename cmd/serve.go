package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidbz/promptsmith/internal/config"
	"github.com/davidbz/promptsmith/internal/httpserver"
	"github.com/davidbz/promptsmith/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Routes:
  POST /v1/optimize   optimize a prompt
  GET  /v1/models     list target models (?check=true probes each provider)
  GET  /health        liveness
  GET  /metrics       prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(parent), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(server *httpserver.Server, tracing *config.TracingConfig) error {
		logger := observability.FromContext(ctx)

		if tracing.Enabled {
			shutdown, initErr := observability.InitTracer()
			if initErr != nil {
				logger.Warn("failed to initialize tracing", observability.Error(initErr))
			} else {
				defer func() {
					if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
						logger.Warn("failed to shut down tracer", observability.Error(shutdownErr))
					}
				}()
			}
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}

		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
