package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hcdl/provider-search/internal/config"
	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/platform/fhirclient"
	"github.com/hcdl/provider-search/internal/platform/middleware"
	"github.com/hcdl/provider-search/internal/session"
	"github.com/hcdl/provider-search/internal/web"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "provider-search",
		Short:        "Search a public FHIR provider directory",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(practitionersCmd())
	root.AddCommand(servicesCmd())
	root.AddCommand(specialtiesCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the search web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// newLogger writes JSON lines, or human readable output in development.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	lvl, err := cfg.Level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// app bundles the upstream clients and search services shared by the server
// and the CLI commands.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	services      *healthcareservice.Service
	practitioners *practitioner.Service

	// normalised upstream base URLs, for logging
	practitionerUpstream string
	directoryUpstream    string
}

func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	// Both upstreams share one connection pool.
	hc := &http.Client{Timeout: cfg.UpstreamTimeout}
	practitionerClient, err := fhirclient.New(cfg.PractitionerBaseURL, cfg.UpstreamTimeout,
		fhirclient.WithHTTPClient(hc),
		fhirclient.WithLogger(logger.With().Str("upstream", "practitioner").Logger()))
	if err != nil {
		return nil, fmt.Errorf("practitioner client: %w", err)
	}
	directoryClient, err := fhirclient.New(cfg.DirectoryBaseURL, cfg.UpstreamTimeout,
		fhirclient.WithHTTPClient(hc),
		fhirclient.WithLogger(logger.With().Str("upstream", "directory").Logger()))
	if err != nil {
		return nil, fmt.Errorf("directory client: %w", err)
	}
	return &app{
		cfg:           cfg,
		logger:        logger,
		services:      healthcareservice.NewService(directoryClient, logger),
		practitioners: practitioner.NewService(practitionerClient, logger),

		practitionerUpstream: practitionerClient.BaseURL(),
		directoryUpstream:    directoryClient.BaseURL(),
	}, nil
}

// loadApp is replaced in tests to point the commands at fake upstreams.
var loadApp = func(stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return newApp(cfg, newLogger(cfg, stderr))
}

// newEcho wires the middleware chain, the JSON API and the HTML pages.
func newEcho(a *app, sessions *session.Store) (*echo.Echo, error) {
	cfg := a.cfg
	logger := a.logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger, "/health"))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/static/"))
	e.Use(middleware.QueryGuard(logger))

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
	rateLimitCfg.BurstSize = cfg.RateLimitBurst
	e.Use(middleware.RateLimit(rateLimitCfg))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":   "ok",
			"version":  version,
			"sessions": sessions.Len(),
		})
	})

	apiV1 := e.Group("/api/v1")
	healthcareservice.NewHandler(a.services, cfg.DefaultResultCount).RegisterRoutes(apiV1)
	practitioner.NewHandler(a.practitioners, cfg.DefaultResultCount).RegisterRoutes(apiV1)

	web.NewServer(a.services, a.practitioners, sessions, logger, cfg.IsProduction()).RegisterRoutes(e)

	return e, nil
}

func runServer() error {
	a, err := loadApp(os.Stdout)
	if err != nil {
		return err
	}
	logger := a.logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(a.cfg.SessionTTL, a.cfg.DefaultResultCount)
	sessions.StartCleanup(ctx, max(a.cfg.SessionTTL/2, time.Second))

	e, err := newEcho(a, sessions)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		logger.Info().
			Str("addr", addr).
			Str("practitioner_upstream", a.practitionerUpstream).
			Str("directory_upstream", a.directoryUpstream).
			Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
