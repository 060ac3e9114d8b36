package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/travel-bucket/internal/metrics"
	"github.com/deppfellow/travel-bucket/internal/model"
	"github.com/deppfellow/travel-bucket/internal/repository"
)

// Operation names used in StorageError and the store metrics.
const (
	OpAdd    = "add"
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

// StorageError reports a failed backend call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("place store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PlaceService owns the travel place collection. Every method is exactly one
// repository call; it neither validates nor transforms records.
type PlaceService struct {
	repo    repository.PlaceRepository
	metrics *metrics.Metrics
}

// NewPlaceService builds the store on top of repo. m may be nil.
func NewPlaceService(repo repository.PlaceRepository, m *metrics.Metrics) *PlaceService {
	return &PlaceService{repo: repo, metrics: m}
}

// AddPlace stores place and returns it with its new ID.
func (s *PlaceService) AddPlace(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	created, err := s.repo.Create(ctx, place)
	if err != nil {
		return nil, s.fail(OpAdd, err)
	}
	s.metrics.ObserveStoreOp(OpAdd, metrics.OutcomeSuccess)
	return created, nil
}

// GetAllPlaces returns every place, or an empty slice when there are none.
func (s *PlaceService) GetAllPlaces(ctx context.Context) ([]model.TravelPlace, error) {
	places, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(OpList, err)
	}
	s.metrics.ObserveStoreOp(OpList, metrics.OutcomeSuccess)
	if places == nil {
		places = []model.TravelPlace{}
	}
	return places, nil
}

// GetPlaceByID looks a place up. A missing place is reported through ok,
// not through err.
func (s *PlaceService) GetPlaceByID(ctx context.Context, id int) (place model.TravelPlace, ok bool, err error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.TravelPlace{}, false, s.fail(OpGet, err)
	}
	if found == nil {
		s.metrics.ObserveStoreOp(OpGet, metrics.OutcomeNotFound)
		return model.TravelPlace{}, false, nil
	}
	s.metrics.ObserveStoreOp(OpGet, metrics.OutcomeSuccess)
	return *found, true, nil
}

// UpdatePlace replaces the stored place carrying place.ID.
// Unknown IDs yield repository.ErrPlaceNotFound; nothing is inserted.
func (s *PlaceService) UpdatePlace(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	updated, err := s.repo.Update(ctx, place)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			s.metrics.ObserveStoreOp(OpUpdate, metrics.OutcomeNotFound)
			return nil, repository.ErrPlaceNotFound
		}
		return nil, s.fail(OpUpdate, err)
	}
	s.metrics.ObserveStoreOp(OpUpdate, metrics.OutcomeSuccess)
	return updated, nil
}

// DeletePlaceByID removes a place. Deleting an unknown ID succeeds.
func (s *PlaceService) DeletePlaceByID(ctx context.Context, id int) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.fail(OpDelete, err)
	}
	s.metrics.ObserveStoreOp(OpDelete, metrics.OutcomeSuccess)
	return nil
}

func (s *PlaceService) fail(op string, err error) error {
	s.metrics.ObserveStoreOp(op, metrics.OutcomeError)
	return &StorageError{Op: op, Err: err}
}
