package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/handler"
	"github.com/deppfellow/travel-bucket/internal/server"
	"github.com/deppfellow/travel-bucket/static"
)

func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.StaticFS("/static", static.FS)
}
