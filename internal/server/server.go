package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecoshop/internal/handler"
	appmw "ecoshop/internal/middleware"
	"ecoshop/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	FEOrigins []string
	JWTSecret string
	Users     repository.UserRepository
	Logger    *log.Logger
	Registry  *prometheus.Registry
}

type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Address *handler.AddressHandler
	Order   *handler.OrderHandler
	Product *handler.ProductHandler
	Chat    *handler.ChatHandler
	Health  *handler.HealthHandler
}

// echoを組み立てる（起動はRun）
func New(opts Options, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = opts.Logger

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			j := log.JSON{
				"msg":        "request",
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				j["error"] = v.Error.Error()
				opts.Logger.Errorj(j)
				return nil
			}
			opts.Logger.Infoj(j)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.FEOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(appmw.NewMetrics(opts.Registry).Middleware())

	RegisterRoutes(e, opts, h)
	return e
}

// ctxがキャンセルされたらgraceful shutdown
func Run(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
