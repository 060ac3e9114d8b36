// Package handler is the HTTP entry point after the router.
//
// Handlers bind and validate requests through the typed pipeline in
// base.go, call the service layer and shape the response.
package handler

import (
	"github.com/deppfellow/travel-bucket/internal/server"
	"github.com/deppfellow/travel-bucket/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Place   *PlaceHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Place:   NewPlaceHandler(s, services.Place),
	}
}
