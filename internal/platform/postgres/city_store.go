package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/platform/logger"
	"github.com/jmallek/cities-api/internal/store"
)

// PostgresCityStore implements the store.CityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCityStore creates a new PostgreSQL implementation of the CityStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCityStore(db store.DBTX, logger *slog.Logger) *PostgresCityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCityStore{
		db:     db,
		logger: logger.With(slog.String("component", "city_store")),
	}
}

// Ensure PostgresCityStore implements store.CityStore interface
var _ store.CityStore = (*PostgresCityStore)(nil)

// List implements store.CityStore.List
// It retrieves every city ordered by name ascending.
// Returns an empty slice (never nil) when the table is empty.
func (s *PostgresCityStore) List(ctx context.Context) ([]*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT city_id, city_name, created_at, updated_at
		FROM cities
		ORDER BY city_name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query cities", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cities []*domain.City
	for rows.Next() {
		var city domain.City
		err := rows.Scan(
			&city.ID,
			&city.Name,
			&city.CreatedAt,
			&city.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan city row", slog.String("error", err.Error()))
			return nil, err
		}
		cities = append(cities, &city)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no cities found
	if cities == nil {
		cities = []*domain.City{}
	}

	log.Debug("listed cities", slog.Int("count", len(cities)))
	return cities, nil
}

// GetByID implements store.CityStore.GetByID
// It retrieves a city by its unique ID.
// Returns store.ErrCityNotFound if the city does not exist.
func (s *PostgresCityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.City, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving city by ID", slog.String("city_id", id.String()))

	query := `
		SELECT city_id, city_name, created_at, updated_at
		FROM cities
		WHERE city_id = $1
	`

	var city domain.City
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&city.ID,
		&city.Name,
		&city.CreatedAt,
		&city.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("city not found", slog.String("city_id", id.String()))
			return nil, store.ErrCityNotFound
		}
		log.Error("failed to get city by ID",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return nil, err
	}

	return &city, nil
}

// Create implements store.CityStore.Create
// It saves a new city to the database, handling domain validation.
// Returns store.ErrDuplicate if a city with the same ID already exists.
func (s *PostgresCityStore) Create(ctx context.Context, city *domain.City) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := city.Validate(); err != nil {
		log.Warn("city validation failed during create",
			slog.String("error", err.Error()),
			slog.String("city_id", city.ID.String()))
		return err
	}

	query := `
		INSERT INTO cities (city_id, city_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		city.ID,
		city.Name,
		city.CreatedAt,
		city.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate city ID during creation",
				slog.String("error", err.Error()),
				slog.String("city_id", city.ID.String()))
			return fmt.Errorf("%w: city with ID %s already exists",
				store.ErrDuplicate, city.ID)
		}

		log.Error("failed to create city",
			slog.String("error", err.Error()),
			slog.String("city_id", city.ID.String()))
		return err
	}

	log.Info("city created successfully",
		slog.String("city_id", city.ID.String()),
		slog.String("city_name", city.Name))
	return nil
}

// UpdateName implements store.CityStore.UpdateName
// It renames an existing city, guarded by an optimistic concurrency check on
// the updated_at timestamp. When zero rows match, a follow-up existence check
// distinguishes a concurrent modification (store.ErrConflict) from a deleted
// record (store.ErrCityNotFound).
func (s *PostgresCityStore) UpdateName(
	ctx context.Context,
	id uuid.UUID,
	name string,
	expectedUpdatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating city name",
		slog.String("city_id", id.String()),
		slog.String("city_name", name))

	// Validate the new name through the domain type before touching the database.
	if _, err := domain.NewCityWithID(id, name); err != nil {
		log.Warn("city validation failed during name update",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return err
	}

	updatedAt := time.Now().UTC()

	query := `
		UPDATE cities
		SET city_name = $1, updated_at = $2
		WHERE city_id = $3 AND updated_at = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		name,
		updatedAt,
		id,
		expectedUpdatedAt,
	)

	if err != nil {
		log.Error("failed to update city name",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		// Zero rows means the timestamp guard failed or the row is gone.
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM cities WHERE city_id = $1)`
		if err := s.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
			log.Error("failed to check city existence after stale update",
				slog.String("error", err.Error()),
				slog.String("city_id", id.String()))
			return err
		}

		if exists {
			log.Warn("concurrent modification detected during city name update",
				slog.String("city_id", id.String()))
			return fmt.Errorf("%w: city %s was modified concurrently",
				store.ErrConflict, id)
		}

		log.Debug("city not found for name update",
			slog.String("city_id", id.String()))
		return store.ErrCityNotFound
	}

	log.Info("city name updated successfully",
		slog.String("city_id", id.String()),
		slog.String("city_name", name))
	return nil
}

// Delete implements store.CityStore.Delete
// It removes a city by its ID.
// Returns store.ErrCityNotFound if the city does not exist.
func (s *PostgresCityStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("deleting city", slog.String("city_id", id.String()))

	query := `
		DELETE FROM cities
		WHERE city_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete city",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("city_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("city not found for delete", slog.String("city_id", id.String()))
		return store.ErrCityNotFound
	}

	log.Info("city deleted successfully", slog.String("city_id", id.String()))
	return nil
}

// WithTx implements store.CityStore.WithTx
// It returns a new CityStore that runs all operations within the given transaction.
func (s *PostgresCityStore) WithTx(tx *sql.Tx) store.CityStore {
	return &PostgresCityStore{
		db:     tx,
		logger: s.logger,
	}
}
