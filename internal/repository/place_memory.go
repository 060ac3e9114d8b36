package repository

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/deppfellow/travel-bucket/internal/model"
)

const (
	placesTable = "travel_places"
	idIndex     = "id"
)

func placeSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			placesTable: {
				Name: placesTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}

// MemoryPlaceRepository keeps places in a go-memdb database.
//
// Writes go through memdb's single-writer transactions, so each call is atomic.
// Stored objects are never handed out; callers always receive copies.
type MemoryPlaceRepository struct {
	db     *memdb.MemDB
	lastID atomic.Int64
	now    func() time.Time
}

func NewMemoryPlaceRepository() (*MemoryPlaceRepository, error) {
	db, err := memdb.NewMemDB(placeSchema())
	if err != nil {
		return nil, err
	}

	return &MemoryPlaceRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *MemoryPlaceRepository) Create(_ context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	now := r.now()
	stored := place
	stored.ID = int(r.lastID.Add(1))
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if err := txn.Insert(placesTable, &stored); err != nil {
		return nil, fmt.Errorf("failed to insert travel place: %w", err)
	}
	txn.Commit()

	created := stored
	return &created, nil
}

func (r *MemoryPlaceRepository) FindAll(_ context.Context) ([]model.TravelPlace, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(placesTable, idIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel places: %w", err)
	}

	places := []model.TravelPlace{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		places = append(places, *raw.(*model.TravelPlace))
	}

	// memdb orders by the encoded index key, not numerically.
	sort.Slice(places, func(i, j int) bool { return places[i].ID < places[j].ID })

	return places, nil
}

func (r *MemoryPlaceRepository) FindByID(_ context.Context, id int) (*model.TravelPlace, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(placesTable, idIndex, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get travel place %d: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}

	place := *raw.(*model.TravelPlace)
	return &place, nil
}

func (r *MemoryPlaceRepository) Update(_ context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(placesTable, idIndex, place.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get travel place %d: %w", place.ID, err)
	}
	if raw == nil {
		return nil, ErrPlaceNotFound
	}

	stored := place
	stored.CreatedAt = raw.(*model.TravelPlace).CreatedAt
	stored.UpdatedAt = r.now()

	if err := txn.Insert(placesTable, &stored); err != nil {
		return nil, fmt.Errorf("failed to update travel place %d: %w", place.ID, err)
	}
	txn.Commit()

	updated := stored
	return &updated, nil
}

func (r *MemoryPlaceRepository) DeleteByID(_ context.Context, id int) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(placesTable, idIndex, id)
	if err != nil {
		return fmt.Errorf("failed to get travel place %d: %w", id, err)
	}
	if raw == nil {
		return nil
	}

	if err := txn.Delete(placesTable, raw); err != nil {
		return fmt.Errorf("failed to delete travel place %d: %w", id, err)
	}
	txn.Commit()

	return nil
}
