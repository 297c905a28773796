// Package http exposes the stock ledger to its collaborators over a JSON API
// served by echo.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig holds the collaborators of NewRouter.
type RouterConfig struct {
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
	Checks   map[string]HealthCheck

	// OpenAPI, when set, is served at /openapi.json and browsable under /swagger/.
	OpenAPI *openapi3.T
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// NewRouter builds the echo instance serving server.
func NewRouter(server *Server, cfg RouterConfig) *echo.Echo {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Validator = &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/health", health(cfg.Checks))
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.OpenAPI != nil {
		mountOpenAPI(e, cfg.OpenAPI)
	}

	v1 := e.Group("/api/v1/tenants/:tenantId")
	v1.POST("/equipment", server.RegisterEquipment)
	v1.GET("/equipment/:equipmentId", server.GetStock)
	v1.POST("/equipment/:equipmentId/movements", server.AdjustStock)
	v1.GET("/equipment/:equipmentId/movements", server.GetHistory)
	v1.POST("/equipment/:equipmentId/units", server.CreateUnit)
	v1.GET("/equipment/:equipmentId/reconciliation", server.Reconcile)
	v1.GET("/unit-codes/next", server.NextUnitCode)

	return e
}

func health(checks map[string]HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, errorResponse{
					Code:    http.StatusServiceUnavailable,
					Message: name + " is unavailable",
				})
			}
		}
		return c.String(http.StatusOK, "Healthy")
	}
}
