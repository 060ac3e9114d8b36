package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/deppfellow/travel-bucket/internal/metrics"
	"github.com/deppfellow/travel-bucket/internal/model"
	"github.com/deppfellow/travel-bucket/internal/repository"
	"github.com/deppfellow/travel-bucket/internal/sqlerr"
)

type PlaceServiceSuite struct {
	suite.Suite
	ctx     context.Context
	metrics *metrics.Metrics
	svc     *PlaceService
}

func TestPlaceServiceSuite(t *testing.T) {
	suite.Run(t, new(PlaceServiceSuite))
}

func (s *PlaceServiceSuite) SetupTest() {
	repo, err := repository.NewMemoryPlaceRepository()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.metrics = metrics.New()
	s.svc = NewPlaceService(repo, s.metrics)
}

func (s *PlaceServiceSuite) add(destination string) *model.TravelPlace {
	created, err := s.svc.AddPlace(s.ctx, model.TravelPlace{
		Destination: destination,
		Country:     "India",
		Visited:     model.VisitedNo,
	})
	s.Require().NoError(err)
	return created
}

func (s *PlaceServiceSuite) Test_RoundTrip() {
	created := s.add("Goa")

	found, ok, err := s.svc.GetPlaceByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(*created, found)
}

func (s *PlaceServiceSuite) Test_GetMissingIsAbsentNotError() {
	found, ok, err := s.svc.GetPlaceByID(s.ctx, 12345)
	s.NoError(err)
	s.False(ok)
	s.Zero(found)
}

func (s *PlaceServiceSuite) Test_ListEmpty() {
	places, err := s.svc.GetAllPlaces(s.ctx)
	s.Require().NoError(err)
	s.NotNil(places)
	s.Empty(places)
}

func (s *PlaceServiceSuite) Test_ListCompleteness() {
	want := map[int]string{}
	for _, d := range []string{"Goa", "Kyoto", "Lisbon"} {
		p := s.add(d)
		want[p.ID] = d
	}

	places, err := s.svc.GetAllPlaces(s.ctx)
	s.Require().NoError(err)

	got := map[int]string{}
	for _, p := range places {
		got[p.ID] = p.Destination
	}
	s.Equal(want, got)
}

func (s *PlaceServiceSuite) Test_UpdateVisibility() {
	created := s.add("Goa")

	change := *created
	change.Destination = "Goa Beach"
	change.Visited = model.VisitedYes
	updated, err := s.svc.UpdatePlace(s.ctx, change)
	s.Require().NoError(err)
	s.Equal("Goa Beach", updated.Destination)

	found, ok, err := s.svc.GetPlaceByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(*updated, found)
}

func (s *PlaceServiceSuite) Test_UpdateUnknownIDIsRejected() {
	_, err := s.svc.UpdatePlace(s.ctx, model.TravelPlace{ID: 77, Destination: "Nowhere"})
	s.ErrorIs(err, repository.ErrPlaceNotFound)

	places, err := s.svc.GetAllPlaces(s.ctx)
	s.Require().NoError(err)
	s.Empty(places)
}

func (s *PlaceServiceSuite) Test_DeleteIsIdempotent() {
	created := s.add("Goa")

	s.NoError(s.svc.DeletePlaceByID(s.ctx, created.ID))
	s.NoError(s.svc.DeletePlaceByID(s.ctx, created.ID))

	_, ok, err := s.svc.GetPlaceByID(s.ctx, created.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *PlaceServiceSuite) Test_GoaScenario() {
	created := s.add("Goa")
	s.Equal(1, created.ID)

	found, ok, err := s.svc.GetPlaceByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal("Goa", found.Destination)

	found.Destination = "Goa Beach"
	updated, err := s.svc.UpdatePlace(s.ctx, found)
	s.Require().NoError(err)
	s.Equal("Goa Beach", updated.Destination)

	s.Require().NoError(s.svc.DeletePlaceByID(s.ctx, 1))

	_, ok, err = s.svc.GetPlaceByID(s.ctx, 1)
	s.Require().NoError(err)
	s.False(ok)

	places, err := s.svc.GetAllPlaces(s.ctx)
	s.Require().NoError(err)
	s.Empty(places)
}

func (s *PlaceServiceSuite) Test_StoreMetrics() {
	created := s.add("Goa")
	_, _, err := s.svc.GetPlaceByID(s.ctx, created.ID+1)
	s.Require().NoError(err)

	families, err := s.metrics.Gatherer().Gather()
	s.Require().NoError(err)

	var total float64
	for _, f := range families {
		if f.GetName() != "travel_bucket_place_store_operations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	s.Equal(2.0, total)
}

// failingRepository fails every call with err.
type failingRepository struct {
	err error
}

func (f failingRepository) Create(context.Context, model.TravelPlace) (*model.TravelPlace, error) {
	return nil, f.err
}

func (f failingRepository) FindAll(context.Context) ([]model.TravelPlace, error) {
	return nil, f.err
}

func (f failingRepository) FindByID(context.Context, int) (*model.TravelPlace, error) {
	return nil, f.err
}

func (f failingRepository) Update(context.Context, model.TravelPlace) (*model.TravelPlace, error) {
	return nil, f.err
}

func (f failingRepository) DeleteByID(context.Context, int) error {
	return f.err
}

func TestBackendFailuresBecomeStorageErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	svc := NewPlaceService(failingRepository{err: cause}, nil)

	_, err := svc.AddPlace(ctx, model.TravelPlace{})
	assertStorageError(t, err, OpAdd, cause)

	_, err = svc.GetAllPlaces(ctx)
	assertStorageError(t, err, OpList, cause)

	_, ok, err := svc.GetPlaceByID(ctx, 1)
	assert.False(t, ok)
	assertStorageError(t, err, OpGet, cause)

	_, err = svc.UpdatePlace(ctx, model.TravelPlace{ID: 1})
	assertStorageError(t, err, OpUpdate, cause)

	err = svc.DeletePlaceByID(ctx, 1)
	assertStorageError(t, err, OpDelete, cause)
}

func TestStorageErrorKeepsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	svc := NewPlaceService(failingRepository{err: pgErr}, nil)

	_, err := svc.AddPlace(context.Background(), model.TravelPlace{})
	require.Error(t, err)
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(sqlerr.ConvertPgError(pgErr)))

	var target *pgconn.PgError
	assert.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), "place store add")
}

func assertStorageError(t *testing.T, err error, op string, cause error) {
	t.Helper()
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, op, storageErr.Op)
	assert.ErrorIs(t, err, cause)
}
