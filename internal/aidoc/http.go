// Пакет предоставляет HTTP-сервер документов AIDoc.
//
// Основные возможности:
//   - Регистрация маршрутов API документов.
//   - Middleware: CORS, сжатие, метрики Prometheus, ограничение размера тела запроса.
//   - Graceful shutdown по сигналам ОС.
//   - Отдача метрик на отдельном порту.
package aidoc

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/business"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	aidocmcp "github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/mcp"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

var cfg *config.Config

var appVersion string

type Services struct {
	db *gorm.DB
	bl *business.Business
}

func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "AIDoc")
		return next(c)
	}
}

// Server запускает HTTP-сервер AIDoc и блокируется до получения сигнала завершения.
func Server(db *gorm.DB, config *config.Config, version string) {
	cfg = config
	appVersion = version

	s := Services{
		db: db,
		bl: business.NewBL(db, config),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			EErrorMsgStatus(c, err, he.Code)
			return
		}
		EError(c, err)
	}

	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("5M"))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
	e.Use(echoprometheus.NewMiddleware("aidoc"))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api")

	apiGroup.GET("/version/", func(c echo.Context) error {
		return c.String(http.StatusOK, appVersion)
	})

	apiGroup.GET("/_health/", func(c echo.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		if err := sqlDB.Ping(); err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	s.AddDocServices(apiGroup)

	if !config.MCPDisabled {
		mcpHandler := aidocmcp.NewMCPServer(s.bl, appVersion)
		e.Any("/mcp/", mcpHandler)
		slog.Info("MCP server enabled", "path", "/mcp")
	}

	bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "aidoc",
		Name:      "boot_time",
		Help:      "Unix время запуска сервиса",
	})
	bootTimeGauge.Set(float64(time.Now().Unix()))
	if err := prometheus.Register(bootTimeGauge); err != nil {
		slog.Error("Register boot time gauge", "err", err)
	}

	// Отдельный порт под метрики
	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.HidePort = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":2112"); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server error", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(":8080"); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			stop()
		}
	}()
	slog.Info("AIDoc started", "version", appVersion, "addr", ":8080")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "err", err)
	}
	slog.Info("AIDoc stopped")
}

// bindAndValidate биндит тело запроса в структуру и валидирует её.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apierrors.ErrBadRequestEntity
	}
	if err := c.Validate(req); err != nil {
		return apierrors.ErrValidation.WithFormattedMessage(err.Error())
	}
	return nil
}
