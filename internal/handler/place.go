package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/errs"
	"github.com/deppfellow/travel-bucket/internal/middleware"
	"github.com/deppfellow/travel-bucket/internal/model"
	"github.com/deppfellow/travel-bucket/internal/repository"
	"github.com/deppfellow/travel-bucket/internal/server"
	"github.com/deppfellow/travel-bucket/internal/service"
	"github.com/deppfellow/travel-bucket/internal/validation"
)

const placeNotFoundCode = "PLACE_NOT_FOUND"

// PlaceFields is the writable part of a travel place.
type PlaceFields struct {
	Destination string `json:"destination" validate:"required,notblank,max=255"`
	Country     string `json:"country" validate:"required,notblank,max=255"`
	Notes       string `json:"notes" validate:"max=2000"`
	Visited     string `json:"visited" validate:"omitempty,oneof=YES NO"`
}

func (f PlaceFields) toModel(id int) model.TravelPlace {
	visited := f.Visited
	if visited == "" {
		visited = model.VisitedNo
	}

	return model.TravelPlace{
		ID:          id,
		Destination: f.Destination,
		Country:     f.Country,
		Notes:       f.Notes,
		Visited:     visited,
	}
}

type CreatePlaceRequest struct {
	PlaceFields
}

func (r *CreatePlaceRequest) Validate() error {
	return validation.Struct(r)
}

type ListPlacesRequest struct{}

func (r *ListPlacesRequest) Validate() error {
	return nil
}

type PlaceIDRequest struct {
	ID int `param:"id" validate:"min=1"`
}

func (r *PlaceIDRequest) Validate() error {
	return validation.Struct(r)
}

// UpdatePlaceRequest takes the ID from the path; an id in the body is ignored.
type UpdatePlaceRequest struct {
	ID int `param:"id" json:"-" validate:"min=1"`
	PlaceFields
}

func (r *UpdatePlaceRequest) Validate() error {
	return validation.Struct(r)
}

// LegacyUpdatePlaceRequest carries the ID in the body, as PUT /travel/update expects.
type LegacyUpdatePlaceRequest struct {
	ID int `json:"id" validate:"required,min=1"`
	PlaceFields
}

func (r *LegacyUpdatePlaceRequest) Validate() error {
	return validation.Struct(r)
}

// PlaceHandler exposes the place store over HTTP.
type PlaceHandler struct {
	Handler
	placeService *service.PlaceService
}

func NewPlaceHandler(s *server.Server, placeService *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		Handler:      NewHandler(s),
		placeService: placeService,
	}
}

func (h *PlaceHandler) AddPlace(c echo.Context, req *CreatePlaceRequest) (*model.TravelPlace, error) {
	created, err := h.placeService.AddPlace(c.Request().Context(), req.toModel(0))
	if err != nil {
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Int("place_id", created.ID).
		Str("destination", created.Destination).
		Msg("travel place created")

	return created, nil
}

func (h *PlaceHandler) GetAllPlaces(c echo.Context, _ *ListPlacesRequest) ([]model.TravelPlace, error) {
	return h.placeService.GetAllPlaces(c.Request().Context())
}

func (h *PlaceHandler) GetPlaceByID(c echo.Context, req *PlaceIDRequest) (*model.TravelPlace, error) {
	place, ok, err := h.placeService.GetPlaceByID(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, placeNotFound()
	}
	return &place, nil
}

func (h *PlaceHandler) UpdatePlace(c echo.Context, req *UpdatePlaceRequest) (*model.TravelPlace, error) {
	return h.update(c, req.PlaceFields.toModel(req.ID))
}

func (h *PlaceHandler) LegacyUpdatePlace(c echo.Context, req *LegacyUpdatePlaceRequest) (*model.TravelPlace, error) {
	return h.update(c, req.PlaceFields.toModel(req.ID))
}

func (h *PlaceHandler) update(c echo.Context, place model.TravelPlace) (*model.TravelPlace, error) {
	updated, err := h.placeService.UpdatePlace(c.Request().Context(), place)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return nil, placeNotFound()
		}
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Int("place_id", updated.ID).
		Str("visited", updated.Visited).
		Msg("travel place updated")

	return updated, nil
}

func (h *PlaceHandler) DeletePlace(c echo.Context, req *PlaceIDRequest) error {
	if err := h.placeService.DeletePlaceByID(c.Request().Context(), req.ID); err != nil {
		return err
	}

	middleware.GetLogger(c).Info().Int("place_id", req.ID).Msg("travel place deleted")
	return nil
}

func placeNotFound() *errs.HTTPError {
	code := placeNotFoundCode
	return errs.NewNotFoundError("Travel place not found", true, &code)
}
