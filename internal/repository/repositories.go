// Package repository handles all interactions with the persistence backend.
//
// It contains the SQL for the Postgres backend and the go-memdb schema for
// the in-memory backend, and hides both behind PlaceRepository so the
// service layer never sees either.
package repository

import (
	"fmt"

	"github.com/deppfellow/travel-bucket/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Place PlaceRepository
}

// NewRepositories picks the backend selected by database.driver.
//
// The Postgres backend reuses the pool owned by the server container;
// the memory backend is created fresh and lives as long as the process.
func NewRepositories(s *server.Server) (*Repositories, error) {
	if s.Config.IsMemory() {
		place, err := NewMemoryPlaceRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to create memory place repository: %w", err)
		}
		s.Logger.Warn().Msg("using in-memory place repository, records are lost on restart")
		return &Repositories{Place: place}, nil
	}

	if s.DB == nil {
		return nil, fmt.Errorf("postgres driver selected but database is not initialized")
	}

	return &Repositories{
		Place: NewPostgresPlaceRepository(s.DB.Pool),
	}, nil
}
