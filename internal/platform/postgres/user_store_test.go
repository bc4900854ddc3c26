package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmallek/cities-api/internal/domain"
	"github.com/jmallek/cities-api/internal/store"
)

func newMockUserStore(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	cleanup := func() { _ = db.Close() }
	return NewPostgresUserStore(db, bcrypt.MinCost, nil), mock, cleanup
}

func userColumns() []string {
	return []string{"id", "email", "display_name", "hashed_password", "created_at", "updated_at"}
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("hashes the password and inserts the row", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		user, err := domain.NewUser("ada@example.com", "Ada", "correct horse battery")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.ID, user.Email, user.DisplayName, sqlmock.AnyArg(),
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), user))

		// The plaintext must be gone and the hash must verify.
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("correct horse battery")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an invalid user without touching the database", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		user := &domain.User{ID: uuid.New(), Email: "not-an-email", Password: "long enough pass"}
		err := s.Create(context.Background(), user)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to ErrEmailExists", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		user, err := domain.NewUser("ada@example.com", "Ada", "correct horse battery")
		require.NoError(t, err)

		pgErr := &pgconn.PgError{Code: uniqueViolationCode}
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(pgErr)

		err = s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Run("returns the user when found", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(id, "ada@example.com", "Ada", "$2a$04$hash", now, now))

		user, err := s.GetByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Ada", user.DisplayName)
		assert.Empty(t, user.Password)
	})

	t.Run("returns ErrUserNotFound when missing", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestUserStoreGetByID(t *testing.T) {
	t.Run("returns ErrUserNotFound when missing", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestUserStoreUpdate(t *testing.T) {
	t.Run("rehashes when a new plaintext password is set", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		user, err := domain.NewUser("ada@example.com", "Ada", "correct horse battery")
		require.NoError(t, err)
		user.Password = "a brand new password"

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(user.Email, user.DisplayName, sqlmock.AnyArg(), sqlmock.AnyArg(), user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), user))
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("a brand new password")))
	})

	t.Run("returns ErrUserNotFound when no row matches", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "ada@example.com",
			DisplayName:    "Ada",
			HashedPassword: "$2a$04$hash",
		}

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreDelete(t *testing.T) {
	id := uuid.New()

	t.Run("deletes an existing user", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), id))
	})

	t.Run("returns ErrUserNotFound for an absent user", func(t *testing.T) {
		s, mock, cleanup := newMockUserStore(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
