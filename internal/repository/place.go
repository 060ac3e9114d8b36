package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/travel-bucket/internal/model"
)

// ErrPlaceNotFound is returned by Update when no record has the given ID.
var ErrPlaceNotFound = errors.New("travel place not found")

// PlaceRepository is the persistence backend for travel places.
//
// Every method is a single backend round trip. Implementations must be safe
// for concurrent use; concurrent updates of one ID are last-write-wins.
type PlaceRepository interface {
	// Create stores a new place and returns it with the backend-assigned ID.
	// Any ID on the input is ignored.
	Create(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error)

	// FindAll returns every stored place. The result is never nil.
	FindAll(ctx context.Context) ([]model.TravelPlace, error)

	// FindByID returns nil, nil when no place has the ID.
	FindByID(ctx context.Context, id int) (*model.TravelPlace, error)

	// Update replaces the stored place with the same ID.
	// It returns ErrPlaceNotFound instead of inserting when the ID is unknown.
	Update(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error)

	// DeleteByID removes the place. Unknown IDs are not an error.
	DeleteByID(ctx context.Context, id int) error
}
