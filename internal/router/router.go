// Package router builds the Echo instance: global middleware in a fixed
// order, then the system, place and web UI route groups.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/handler"
	"github.com/deppfellow/travel-bucket/internal/middleware"
	"github.com/deppfellow/travel-bucket/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middleware.Prometheus(s.Metrics),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	v1 := router.Group("/api/v1")
	registerPlaceRoutes(v1, h)
	registerTravelRoutes(v1, h)

	return router
}
