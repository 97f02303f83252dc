package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sentiscope/sentiment-api/internal/api/handler"
	"github.com/sentiscope/sentiment-api/internal/api/middleware"
	"github.com/sentiscope/sentiment-api/internal/core/ports"
)

// Dependencies is everything the router needs to build the HTTP surface.
type Dependencies struct {
	Auth     ports.AuthService
	Analysis ports.AnalysisService
	Probes   map[string]handler.Pinger
	Log      zerolog.Logger

	// MetricsRegisterer and MetricsGatherer default to the global Prometheus
	// registry when nil.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.MetricsRegisterer == nil {
		deps.MetricsRegisterer = prometheus.DefaultRegisterer
	}
	if deps.MetricsGatherer == nil {
		deps.MetricsGatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sentiment",
		Registerer: deps.MetricsRegisterer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	analysisHandler := handler.NewAnalysisHandler(deps.Analysis)
	healthHandler := handler.NewHealthHandler(deps.Probes)
	requireAuth := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Analysis routes (bearer token required) ---
	e.POST("/analyze", analysisHandler.Analyze, requireAuth)
	e.GET("/history", analysisHandler.History, requireAuth)

	// --- Operational ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.MetricsGatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
