package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jmallek/cities-api/internal/api/shared"
	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/platform/logger"
	"github.com/jmallek/cities-api/internal/service"
	"github.com/jmallek/cities-api/internal/store"
)

// maxSupportedCityAPIVersion is the newest version of the cities list
// endpoint. Write operations exist under version 1 only.
const maxSupportedCityAPIVersion = 2

// CityHandler handles city-related API requests.
type CityHandler struct {
	cityService service.CityService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCityHandler creates a new CityHandler with the given dependencies.
func NewCityHandler(cityService service.CityService, logger *slog.Logger) *CityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CityHandler{
		cityService: cityService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "city_handler")),
	}
}

// ListCities handles GET /api/v{version}/cities.
// Version 1 returns full records; version 2 returns only the city names.
// Both views are sorted by name ascending.
func (h *CityHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	version, err := getAPIVersion(r)
	if err != nil || version > maxSupportedCityAPIVersion {
		if err == nil {
			err = fmt.Errorf("%w: unsupported API version %d", domain.ErrValidation, version)
		}
		HandleAPIError(w, r, err, "Unsupported API version")
		return
	}

	cities, err := h.cityService.ListCities(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	switch version {
	case 2:
		// The v2 projection exposes names only.
		names := make([]string, 0, len(cities))
		for _, city := range cities {
			names = append(names, city.Name)
		}
		shared.RespondWithJSON(w, r, http.StatusOK, names)
	default:
		shared.RespondWithJSON(w, r, http.StatusOK, toCityResponses(cities))
	}
}

// requireV1 rejects requests addressed to any version other than 1.
// Only the list endpoint has a v2 projection; everything else lives
// under v1.
func requireV1(r *http.Request) error {
	version, err := getAPIVersion(r)
	if err != nil {
		return err
	}
	if version != 1 {
		return fmt.Errorf("%w: unsupported API version %d", domain.ErrValidation, version)
	}
	return nil
}

// GetCity handles GET /api/v1/cities/{cityID}.
// A missing record is a 400 "Invalid CityID", mirroring the system this API
// replaces; clients depend on that shape.
func (h *CityHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	if err := requireV1(r); err != nil {
		HandleAPIError(w, r, err, "Unsupported API version")
		return
	}

	cityID, err := getPathUUID(r, "cityID")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid CityID")
		return
	}

	city, err := h.cityService.GetCity(r.Context(), cityID)
	if err != nil {
		if errors.Is(err, store.ErrCityNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid CityID")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCityResponse(city))
}

// AddCity handles POST /api/v1/cities.
// On success it responds 201 with the stored record and a Location header.
func (h *CityHandler) AddCity(w http.ResponseWriter, r *http.Request) {
	if err := requireV1(r); err != nil {
		HandleAPIError(w, r, err, "Unsupported API version")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CityAddRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	city, err := h.cityService.CreateCity(r.Context(), req.CityID, req.CityName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("city created via API", slog.String("city_id", city.ID.String()))

	w.Header().Set("Location", fmt.Sprintf("/api/v1/cities/%s", city.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, toCityResponse(city))
}

// UpdateCity handles PUT /api/v1/cities/{cityID}.
// The body ID must match the path ID; only the name is applied.
func (h *CityHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	if err := requireV1(r); err != nil {
		HandleAPIError(w, r, err, "Unsupported API version")
		return
	}

	cityID, err := getPathUUID(r, "cityID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CityUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.CityID != cityID {
		HandleAPIError(w, r, domain.ErrIDMismatch, "")
		return
	}

	if _, err := h.cityService.UpdateCityName(r.Context(), cityID, req.CityName); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCity handles DELETE /api/v1/cities/{cityID}.
// Deleting an absent city is a 404, not a silent success.
func (h *CityHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	if err := requireV1(r); err != nil {
		HandleAPIError(w, r, err, "Unsupported API version")
		return
	}

	cityID, err := getPathUUID(r, "cityID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cityService.DeleteCity(r.Context(), cityID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCityResponse(city *domain.City) CityResponse {
	return CityResponse{
		CityID:   city.ID,
		CityName: city.Name,
	}
}

func toCityResponses(cities []*domain.City) []CityResponse {
	responses := make([]CityResponse, 0, len(cities))
	for _, city := range cities {
		responses = append(responses, toCityResponse(city))
	}
	return responses
}
