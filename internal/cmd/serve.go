package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/kanban/internal/server"
	"github.com/Iron-Ham/kanban/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// termination signal.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr, storeKind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a task collection over HTTP",
		Long: `Serve the task collection the board talks to.

Routes: GET/POST /tasks, PUT/DELETE /tasks/{id}, GET /healthz.
The backend is chosen by server.store: memory (lost on exit), sqlite
(server.sqlite_path) or redis (server.redis_url).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr, storeKind)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&storeKind, "store", "", "storage backend: memory, sqlite, redis (overrides server.store)")
	return cmd
}

func runServe(cmd *cobra.Command, addr, storeKind string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if storeKind != "" {
		cfg.Server.Store = storeKind
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		Kind:        cfg.Server.Store,
		SQLitePath:  cfg.Server.SQLitePath,
		RedisURL:    cfg.Server.RedisURL,
		RedisPrefix: cfg.Server.RedisPrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Server.Store, err)
	}
	defer func() { _ = st.Close() }()

	if cfg.Server.SeedExample {
		seeded, err := store.SeedExample(ctx, st)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		if seeded {
			logger.Info("seeded example task", "store", cfg.Server.Store)
		}
	}

	srv := server.New(st, server.Options{
		Addr:         cfg.Server.Addr,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving tasks on %s (store: %s)\n", cfg.Server.Addr, cfg.Server.Store)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return <-errCh
}
