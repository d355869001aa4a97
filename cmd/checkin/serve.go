package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	delivery "qrcheckin/internal/delivery/http"
	"qrcheckin/internal/delivery/http/controllers"
	"qrcheckin/internal/repository/postgres"
)

const shutdownTimeout = 15 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Migrate bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on $PORT.

The schema is applied first unless --migrate=false, and the default talks are
created on an empty database when SEED_DEFAULT_TALKS is true. SIGINT and
SIGTERM drain in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", true, "apply the database schema before serving")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.Migrate {
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return err
		}
	}
	if a.cfg.SeedDefaultTalks {
		n, err := a.talks.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("seed talks: %w", err)
		}
		if n > 0 {
			a.logger.Info("seeded default talks", "count", n)
		}
	}

	router := delivery.NewRouter(delivery.Controllers{
		Registration: controllers.NewRegistrationController(a.logger, a.registration),
		CheckIn:      controllers.NewCheckInController(a.logger, a.checkIn),
		Talks:        controllers.NewTalkController(a.logger, a.talks),
		Reports:      controllers.NewReportController(a.logger, a.reports),
		Auth:         controllers.NewAuthController(a.logger, a.auth),
		Health:       controllers.NewHealthController(a.logger, a.db),
	}, a.jwt, a.cfg.CORSAllowedOrigins, a.logger)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr, "env", a.cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
