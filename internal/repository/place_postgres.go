package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/travel-bucket/internal/model"
)

// Querier is the subset of pgxpool.Pool (and pgx.Conn, pgx.Tx) the
// Postgres repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const placeColumns = `id, destination, country, notes, visited, created_at, updated_at`

// PostgresPlaceRepository stores places in the travel_places table.
type PostgresPlaceRepository struct {
	db Querier
}

func NewPostgresPlaceRepository(db Querier) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{db: db}
}

func (r *PostgresPlaceRepository) Create(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	stmt := `
		INSERT INTO travel_places (destination, country, notes, visited)
		VALUES (@destination, @country, @notes, @visited)
		RETURNING ` + placeColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"destination": place.Destination,
		"country":     place.Country,
		"notes":       place.Notes,
		"visited":     place.Visited,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert travel place query: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TravelPlace])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:travel_places: %w", err)
	}

	return &created, nil
}

func (r *PostgresPlaceRepository) FindAll(ctx context.Context) ([]model.TravelPlace, error) {
	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM travel_places ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list travel places query: %w", err)
	}

	places, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TravelPlace])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:travel_places: %w", err)
	}

	if places == nil {
		places = []model.TravelPlace{}
	}
	return places, nil
}

func (r *PostgresPlaceRepository) FindByID(ctx context.Context, id int) (*model.TravelPlace, error) {
	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM travel_places WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get travel place by id query: %w", err)
	}

	place, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TravelPlace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to collect row from table:travel_places: %w", err)
	}

	return &place, nil
}

func (r *PostgresPlaceRepository) Update(ctx context.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	stmt := `
		UPDATE travel_places
		SET destination = @destination,
			country = @country,
			notes = @notes,
			visited = @visited,
			updated_at = now()
		WHERE id = @id
		RETURNING ` + placeColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":          place.ID,
		"destination": place.Destination,
		"country":     place.Country,
		"notes":       place.Notes,
		"visited":     place.Visited,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update travel place query: %w", err)
	}

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TravelPlace])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to collect row from table:travel_places: %w", err)
	}

	return &updated, nil
}

func (r *PostgresPlaceRepository) DeleteByID(ctx context.Context, id int) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM travel_places WHERE id = @id`, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("failed to execute delete travel place query: %w", err)
	}
	return nil
}
