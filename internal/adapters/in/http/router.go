package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"atelier/internal/pkg/retry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type requestMetrics interface {
	RecordHTTPRequest(method, route string, code int, took time.Duration)
}

// HealthCheck reports whether the service can serve requests.
type HealthCheck func(ctx context.Context) error

// RouterConfig holds what the router needs besides the server.
type RouterConfig struct {
	Directory WorkerDirectory
	Metrics   requestMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Health         HealthCheck
	Logger         *slog.Logger
	// Retry bounds worker lookups. The zero value means retry.DefaultPolicy.
	Retry retry.Policy
}

// NewRouter builds the echo instance: public endpoints at the root, the workflow API under
// /api/v1 behind identity resolution and request validation.
func NewRouter(s *Server, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidation(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		e.Use(recordRequests(cfg.Metrics))
	}

	e.GET("/health", health(cfg.Health))
	if cfg.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.MetricsHandler))
	}
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", openAPIDocument)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	policy := cfg.Retry
	if policy == (retry.Policy{}) {
		policy = retry.DefaultPolicy()
	}
	api := e.Group("/api/v1", resolveIdentity(cfg.Directory, policy, logger), validate)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/claim", s.ClaimOrder)
	api.PUT("/orders/:orderId/finishing-tasks/:task", s.ToggleFinishingTask)
	api.POST("/orders/:orderId/override", s.OverrideOrder)
	api.GET("/views/me", s.GetStageView)
	api.GET("/views/me/stream", s.WatchStageView)
	api.GET("/pipeline/summary", s.GetPipelineSummary)
	api.GET("/workers", s.ListWorkers)
	api.POST("/workers", s.RegisterWorker)
	api.PUT("/workers/:workerId/active", s.SetWorkerActive)

	return e, nil
}

func health(check HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, Error{
					Code:    http.StatusServiceUnavailable,
					Message: err.Error(),
				})
			}
		}
		return c.String(http.StatusOK, "Healthy")
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// recordRequests observes every request under its route template.
func recordRequests(m requestMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			code := c.Response().Status
			if err != nil {
				code = StatusOf(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(c.Request().Method, route, code, time.Since(start))
			return err
		}
	}
}
