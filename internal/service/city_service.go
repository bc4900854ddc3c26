package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/platform/logger"
	"github.com/jmallek/cities-api/internal/platform/metrics"
	"github.com/jmallek/cities-api/internal/store"
)

// CityService provides city-related operations backed by the CityStore.
type CityService interface {
	// ListCities retrieves all cities ordered by name ascending.
	ListCities(ctx context.Context) ([]*domain.City, error)

	// GetCity retrieves a single city by its ID.
	// Returns store.ErrCityNotFound if the city does not exist.
	GetCity(ctx context.Context, cityID uuid.UUID) (*domain.City, error)

	// CreateCity creates a new city and returns the full record. A nil id
	// asks the service to generate one; a caller-supplied id that already
	// exists surfaces store.ErrDuplicate.
	CreateCity(ctx context.Context, id uuid.UUID, name string) (*domain.City, error)

	// UpdateCityName renames an existing city and returns the updated record.
	// A concurrent modification is retried once against the fresh record; a
	// second conflict surfaces as store.ErrConflict.
	// Returns store.ErrCityNotFound if the city does not exist.
	UpdateCityName(ctx context.Context, cityID uuid.UUID, name string) (*domain.City, error)

	// DeleteCity removes a city by its ID.
	// Returns store.ErrCityNotFound if the city does not exist.
	DeleteCity(ctx context.Context, cityID uuid.UUID) error
}

// cityServiceImpl implements the CityService interface
type cityServiceImpl struct {
	cityStore store.CityStore
	db        *sql.DB
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewCityService creates a new CityService.
// It returns an error if any of the required dependencies are nil.
func NewCityService(
	cityStore store.CityStore,
	db *sql.DB,
	recorder metrics.Recorder,
	logger *slog.Logger,
) (CityService, error) {
	if cityStore == nil {
		return nil, fmt.Errorf("%w: cityStore cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}

	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cityServiceImpl{
		cityStore: cityStore,
		db:        db,
		metrics:   recorder,
		logger:    logger.With(slog.String("component", "city_service")),
	}, nil
}

// ListCities implements CityService.ListCities
func (s *cityServiceImpl) ListCities(ctx context.Context) ([]*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cities, err := s.cityStore.List(ctx)
	if err != nil {
		log.Error("failed to list cities", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	return cities, nil
}

// GetCity implements CityService.GetCity
func (s *cityServiceImpl) GetCity(ctx context.Context, cityID uuid.UUID) (*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	city, err := s.cityStore.GetByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, store.ErrCityNotFound) {
			log.Debug("city not found", slog.String("city_id", cityID.String()))
			return nil, store.ErrCityNotFound
		}
		log.Error("failed to retrieve city",
			slog.String("error", err.Error()),
			slog.String("city_id", cityID.String()))
		return nil, fmt.Errorf("failed to retrieve city: %w", err)
	}

	return city, nil
}

// CreateCity implements CityService.CreateCity
// It creates the city within a transaction.
func (s *cityServiceImpl) CreateCity(ctx context.Context, id uuid.UUID, name string) (*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id == uuid.Nil {
		id = uuid.New()
	}

	city, err := domain.NewCityWithID(id, name)
	if err != nil {
		log.Warn("city validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cityStore.WithTx(tx).Create(ctx, city)
	})
	if err != nil {
		log.Error("failed to create city",
			slog.String("error", err.Error()),
			slog.String("city_id", city.ID.String()))
		return nil, fmt.Errorf("failed to create city: %w", err)
	}

	log.Info("city created",
		slog.String("city_id", city.ID.String()),
		slog.String("city_name", city.Name))
	return city, nil
}

// UpdateCityName implements CityService.UpdateCityName
// Each attempt reads the current record and applies the rename guarded by the
// record's updated_at timestamp. A conflict means another writer got in
// between the read and the write; the operation retries once against the
// fresh record before giving up.
func (s *cityServiceImpl) UpdateCityName(
	ctx context.Context,
	cityID uuid.UUID,
	name string,
) (*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	const maxAttempts = 2

	var updated *domain.City
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		city, err := s.renameOnce(ctx, cityID, name)
		if err == nil {
			updated = city
			break
		}

		if errors.Is(err, store.ErrConflict) && attempt < maxAttempts {
			s.metrics.RecordConflictRetry()
			log.Warn("concurrent modification detected, retrying rename",
				slog.String("city_id", cityID.String()),
				slog.Int("attempt", attempt))
			continue
		}

		if errors.Is(err, store.ErrCityNotFound) || errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		log.Error("failed to update city name",
			slog.String("error", err.Error()),
			slog.String("city_id", cityID.String()))
		return nil, fmt.Errorf("failed to update city name: %w", err)
	}

	log.Info("city name updated",
		slog.String("city_id", cityID.String()),
		slog.String("city_name", updated.Name))
	return updated, nil
}

// renameOnce performs a single read-then-rename attempt in one transaction.
func (s *cityServiceImpl) renameOnce(
	ctx context.Context,
	cityID uuid.UUID,
	name string,
) (*domain.City, error) {
	var updated *domain.City

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cityStore.WithTx(tx)

		city, err := txStore.GetByID(ctx, cityID)
		if err != nil {
			return err
		}

		if err := txStore.UpdateName(ctx, cityID, name, city.UpdatedAt); err != nil {
			return err
		}

		updated, err = txStore.GetByID(ctx, cityID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCity implements CityService.DeleteCity
func (s *cityServiceImpl) DeleteCity(ctx context.Context, cityID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cityStore.WithTx(tx).Delete(ctx, cityID)
	})
	if err != nil {
		if errors.Is(err, store.ErrCityNotFound) {
			log.Debug("attempted to delete non-existent city",
				slog.String("city_id", cityID.String()))
			return store.ErrCityNotFound
		}
		log.Error("failed to delete city",
			slog.String("error", err.Error()),
			slog.String("city_id", cityID.String()))
		return fmt.Errorf("failed to delete city: %w", err)
	}

	log.Info("city deleted", slog.String("city_id", cityID.String()))
	return nil
}
