package router

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"shutdownassistant/internal/interfaces/api/handler"
	"shutdownassistant/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	ShutdownHandler *handler.ShutdownHandler
	// LineHandler is nil when no LINE channel is configured.
	LineHandler *handler.LineHandler
	Logger      logger.Logger
	// APIKey, when set, is required as a bearer token on /api. Without it
	// /api only answers loopback requests.
	APIKey string
	// AllowedOrigins lists browser origins granted CORS access. Empty
	// disables CORS.
	AllowedOrigins []string
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			MaxAge:       300,
		}))
	}

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Shutdown Assistant is running.")
	})

	api := e.Group("/api")
	if cfg.APIKey != "" {
		api.Use(middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) == 1, nil
		}))
	} else {
		cfg.Logger.Warn("API_KEY not set; /api only answers loopback requests.")
		api.Use(localOnly(cfg.AllowedOrigins))
	}

	h := cfg.ShutdownHandler
	api.GET("/status", h.GetStatus)
	api.GET("/resolve", h.Resolve)
	api.POST("/schedule", h.Schedule)
	api.DELETE("/schedule", h.Cancel)
	api.GET("/schedule/history", h.History)
	api.POST("/shutdown", h.ShutdownNow)
	api.POST("/crash", h.Crash)
	api.GET("/preference", h.GetPreference)
	api.PUT("/preference", h.UpdatePreference)

	// LINE Webhook Endpoint
	// Note: LINE Platform requires POST for webhook
	if cfg.LineHandler != nil {
		e.POST("/callback", cfg.LineHandler.HandleWebhook)
	}

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
