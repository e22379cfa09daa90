package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prognocore.com/web/internal/backend"
	"prognocore.com/web/internal/config"
	"prognocore.com/web/internal/handlers"
	"prognocore.com/web/internal/httpserver"
	mw "prognocore.com/web/internal/middleware"
	"prognocore.com/web/internal/observability"
)

const (
	limiterGCInterval = 5 * time.Minute
	pingTimeout       = 5 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	configFile string
	addr       string
	templates  string
	public     string
}

// options turns explicitly set flags into config overrides.
func (f flags) options(cmd *cobra.Command) []config.Option {
	var opts []config.Option
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	set := func(name, key, value string) {
		if cmd.Flags().Changed(name) {
			opts = append(opts, config.WithOverride(key, value))
		}
	}
	set("addr", "server.addr", f.addr)
	set("templates", "site.templates_dir", f.templates)
	set("public", "site.public_dir", f.public)
	return opts
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "web",
		Short:         "PrognoCore marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configFile, "config", "", "config file (yaml, toml or json)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.options(cmd)...)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	serveCmd.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address (default :$PORT or :8080)")
	serveCmd.Flags().StringVar(&f.templates, "templates", "templates", "templates directory")
	serveCmd.Flags().StringVar(&f.public, "public", "public", "public assets directory")

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the submissions backend answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.options(cmd)...)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()
			if err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout)).Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backend ok")
			return nil
		},
	}

	root.AddCommand(serveCmd, pingCmd)
	// bare invocation serves, matching the container entrypoint
	root.RunE = serveCmd.RunE
	root.Flags().AddFlagSet(serveCmd.Flags())
	return root
}

func runServer(parent context.Context, cfg config.Config) error {
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("env", cfg.Site.Env), zap.String("host", config.Hostname()))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(logger),
	)
	if cfg.Backend.BaseURL == "" {
		logger.Warn("backend base URL not set; form submissions will fail")
	} else {
		go func() {
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			if err := client.Ping(pctx); err != nil {
				logger.Warn("backend not reachable", zap.String("base_url", cfg.Backend.BaseURL), zap.Error(err))
			}
		}()
	}

	limiter := mw.NewRateLimiter(httpserver.SubmitLimit, httpserver.SubmitWindow)
	limiter.StartGC(ctx, limiterGCInterval)

	router, err := httpserver.NewRouter(httpserver.Deps{
		Site:      cfg.Site,
		Analytics: handlers.Analytics{GA4MeasurementID: cfg.Analytics.GA4MeasurementID},
		Logger:    logger,
		Submitter: client,
		Sessions:  mw.NewSessions(cfg.Session.SigningKey, cfg.Site.Prod()),
		Limiter:   limiter,
	})
	if err != nil {
		return err
	}
	srv := httpserver.New(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening", zap.String("addr", cfg.Server.Addr), zap.Bool("dev", cfg.Site.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
