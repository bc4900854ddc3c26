package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCity(t *testing.T) {
	t.Parallel()

	t.Run("generates an ID and timestamps", func(t *testing.T) {
		t.Parallel()

		city, err := NewCity("Rotterdam")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, city.ID)
		assert.Equal(t, "Rotterdam", city.Name)
		assert.False(t, city.CreatedAt.IsZero())
		assert.Equal(t, city.CreatedAt, city.UpdatedAt)
	})

	t.Run("distinct cities get distinct IDs", func(t *testing.T) {
		t.Parallel()

		a, err := NewCity("Utrecht")
		require.NoError(t, err)
		b, err := NewCity("Utrecht")
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNewCityWithID(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name     string
		id       uuid.UUID
		cityName string
		wantErr  error
	}{
		{
			name:     "valid city with caller ID",
			id:       id,
			cityName: "Eindhoven",
		},
		{
			name:     "nil ID is rejected",
			id:       uuid.Nil,
			cityName: "Eindhoven",
			wantErr:  ErrCityIDEmpty,
		},
		{
			name:     "empty name is rejected",
			id:       id,
			cityName: "",
			wantErr:  ErrCityNameEmpty,
		},
		{
			name:     "whitespace-only name is rejected",
			id:       id,
			cityName: "   ",
			wantErr:  ErrCityNameEmpty,
		},
		{
			name:     "name over the column limit is rejected",
			id:       id,
			cityName: strings.Repeat("a", maxCityNameLength+1),
			wantErr:  ErrCityNameTooLong,
		},
		{
			name:     "name at the column limit is accepted",
			id:       id,
			cityName: strings.Repeat("a", maxCityNameLength),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			city, err := NewCityWithID(tt.id, tt.cityName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, city)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, city.ID)
			assert.Equal(t, tt.cityName, city.Name)
		})
	}
}

func TestCityRename(t *testing.T) {
	t.Parallel()

	t.Run("updates name and bumps UpdatedAt", func(t *testing.T) {
		t.Parallel()

		city, err := NewCity("Den Haag")
		require.NoError(t, err)

		// Force an observable gap between creation and rename.
		city.UpdatedAt = city.UpdatedAt.Add(-time.Second)
		before := city.UpdatedAt

		require.NoError(t, city.Rename("The Hague"))
		assert.Equal(t, "The Hague", city.Name)
		assert.True(t, city.UpdatedAt.After(before))
	})

	t.Run("invalid name leaves the city untouched", func(t *testing.T) {
		t.Parallel()

		city, err := NewCity("Groningen")
		require.NoError(t, err)
		before := city.UpdatedAt

		err = city.Rename("")
		assert.ErrorIs(t, err, ErrCityNameEmpty)
		assert.Equal(t, "Groningen", city.Name)
		assert.Equal(t, before, city.UpdatedAt)
	})

	t.Run("rename never changes the ID", func(t *testing.T) {
		t.Parallel()

		city, err := NewCity("Maastricht")
		require.NoError(t, err)
		id := city.ID

		require.NoError(t, city.Rename("Mestreech"))
		assert.Equal(t, id, city.ID)
	})
}
