package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/handler"
)

// registerPlaceRoutes mounts the REST resource under /api/v1/places.
func registerPlaceRoutes(v1 *echo.Group, h *handler.Handlers) {
	places := v1.Group("/places")

	places.POST("", handler.Handle(h.Place.Handler, h.Place.AddPlace, http.StatusCreated))
	places.GET("", handler.Handle(h.Place.Handler, h.Place.GetAllPlaces, http.StatusOK))
	places.GET("/:id", handler.Handle(h.Place.Handler, h.Place.GetPlaceByID, http.StatusOK))
	places.PUT("/:id", handler.Handle(h.Place.Handler, h.Place.UpdatePlace, http.StatusOK))
	places.DELETE("/:id", handler.HandleNoContent(h.Place.Handler, h.Place.DeletePlace, http.StatusNoContent))
}

// registerTravelRoutes mounts the /travel routes the web UI calls.
func registerTravelRoutes(v1 *echo.Group, h *handler.Handlers) {
	travel := v1.Group("/travel")

	travel.GET("/all", handler.Handle(h.Place.Handler, h.Place.GetAllPlaces, http.StatusOK))
	travel.POST("/add", handler.Handle(h.Place.Handler, h.Place.AddPlace, http.StatusCreated))
	travel.PUT("/update", handler.Handle(h.Place.Handler, h.Place.LegacyUpdatePlace, http.StatusOK))
	travel.GET("/get/:id", handler.Handle(h.Place.Handler, h.Place.GetPlaceByID, http.StatusOK))
	travel.DELETE("/delete/:id", handler.HandleNoContent(h.Place.Handler, h.Place.DeletePlace, http.StatusNoContent))
}
