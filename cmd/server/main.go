package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mockprep/interview/internal/config"
	"mockprep/interview/internal/utils"
)

var (
	newLogger       = utils.NewLogger
	listenAndServe  = func(server *http.Server) error { return server.ListenAndServe() }
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "interview",
		Short:        "AI mock interview service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled evaluation retry job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "retry-evaluations",
		Short: "Evaluate completed sessions that have no scorecard yet, once, and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetry(cmd.Context())
		},
	})
	return root
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return buildApp(ctx, cfg, logger)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	logger := a.logger
	defer logger.Sync()
	defer a.close(context.Background())

	job := a.retryJob()
	if err := job.Start(); err != nil {
		logger.Error("Failed to start evaluation retry job", zap.Error(err))
	}
	defer job.Stop()

	server := newServer(":"+a.cfg.Port, newRouter(a), a.cfg)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("interview service starting", zap.String("addr", server.Addr))
		errCh <- listenAndServe(server)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("interview service shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("interview service exited")
	return nil
}

func runRetry(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()
	defer a.close(context.Background())

	result, err := a.retryJob().RunOnce(ctx)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		a.logger.Warn("some evaluations are still pending", zap.Int("failed", result.Failed))
	}
	return nil
}
