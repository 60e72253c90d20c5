package server

import (
	"ecoshop/internal/handler"
	appmw "ecoshop/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, opts Options, h Handlers) {
	auth := []echo.MiddlewareFunc{
		appmw.AuthJWT(opts.JWTSecret),
		appmw.TokenVersionGuard(opts.Users),
	}
	user := e.Group("/users/:user_id", append(auth, appmw.PathUserGuard("user_id"))...)

	r := handler.Routes{Public: e, Auth: auth, User: user}
	h.Auth.RegisterRoutes(r)
	h.Profile.RegisterRoutes(r)
	h.Address.RegisterRoutes(r)
	h.Order.RegisterRoutes(r)
	h.Product.RegisterRoutes(r)
	h.Chat.RegisterRoutes(r)
	h.Health.RegisterRoutes(r)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
}
