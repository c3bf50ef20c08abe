package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"surveyclean/internal/config"
	apierrors "surveyclean/internal/errors"
	"surveyclean/internal/infrastructure"
	customMiddleware "surveyclean/internal/middleware"
	"surveyclean/internal/operations"
	"surveyclean/internal/reporting"
	"surveyclean/internal/services"
	handlers "surveyclean/internal/transport/http"
	ws "surveyclean/internal/websocket"
)

const (
	// Version is the application version reported by the health endpoint
	Version = "1.0.0"

	// AppName is the human-readable application name
	AppName = "SurveyClean - Interactive Survey Data Cleaning"
)

// Application is the assembled server with all its collaborators
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Manager       *operations.Manager
	DataService   *services.DataService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication creates an application instance with all dependencies
// wired
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	hub := ws.NewHub(logger)
	manager := operations.NewManager(nil, hub, logger)
	dataService := services.NewDataService(cfg, manager, logger)
	healthService := services.NewHealthService(Version, dataService, hub, logger)

	app := &Application{
		Config:        cfg,
		WebSocketHub:  hub,
		Manager:       manager,
		DataService:   dataService,
		HealthService: healthService,
		Logger:        logger,
		OTelProviders: otelProviders,
	}
	app.setupRouter()

	app.Server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	if a.OTelProviders != nil {
		r.Use(customMiddleware.OTel(a.OTelProviders.Tracer))
	}
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	if a.Config.Server.RateLimitRPS > 0 {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimitRPS,
			a.Config.Server.RateLimitBurst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	var pdf handlers.PDFGeneratorInterface
	if a.Config.Report.PDFEnabled {
		pdf = reporting.NewPDFGenerator(a.Config.Report.PDFTimeout, a.Logger)
	}

	datasetHandler := handlers.NewDatasetHandler(a.DataService, a.Config.Upload.MaxBytes, a.Logger, errorHandler)
	runHandler := handlers.NewRunHandler(a.DataService, pdf, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Mount("/datasets", datasetHandler.Routes())
		r.Mount("/runs", runHandler.Routes())
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}
	r.Get("/ws", wsHandler.ServeHTTP)

	a.Router = r
}

// Start runs the websocket hub and the HTTP server. It blocks until the
// server stops listening.
func (a *Application) Start() error {
	a.WebSocketHub.Start()

	a.Logger.Info("HTTP server listening",
		slog.String("addr", a.Server.Addr))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("Application shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
		firstErr = err
	}

	a.WebSocketHub.Shutdown()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	infrastructure.CloseLogFile()
	return firstErr
}

// Run starts the application and stops it when the context is
// cancelled
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
		defer cancel()
		return a.Stop(stopCtx)
	})

	return g.Wait()
}
