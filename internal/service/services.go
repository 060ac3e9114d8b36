// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated models and the services hand them to the repositories.
package service

import (
	"github.com/deppfellow/travel-bucket/internal/repository"
	"github.com/deppfellow/travel-bucket/internal/server"
)

type Services struct {
	Place *PlaceService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Place: NewPlaceService(repos.Place, s.Metrics),
	}, nil
}
