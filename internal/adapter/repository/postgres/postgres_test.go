package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation error",
			err:  &pgconn.PgError{Code: uniqueViolationErrCode},
			want: true,
		},
		{
			name: "wrapped unique violation error",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationErrCode}),
			want: true,
		},
		{
			name: "not unique violation error",
			err:  &pgconn.PgError{Code: "unknown error code"},
			want: false,
		},
		{
			name: "not PgError",
			err:  errors.New("unknown error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isUniqueViolationError(tt.err)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListError(t *testing.T) {
	prerequisite := &pgconn.PgError{Code: "55000"}
	unknown := errors.New("unknown error")

	t.Run("ordered query in prerequisite state", func(t *testing.T) {
		err := listError("op", "msg", true, prerequisite)

		assert.ErrorIs(t, err, entity.ErrOrderingUnsupported)
		assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
		assert.ErrorIs(t, err, prerequisite)
	})

	t.Run("unordered query in prerequisite state", func(t *testing.T) {
		err := listError("op", "msg", false, prerequisite)

		assert.NotErrorIs(t, err, entity.ErrOrderingUnsupported)
		assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
	})

	t.Run("other error", func(t *testing.T) {
		err := listError("op", "msg", true, unknown)

		assert.NotErrorIs(t, err, entity.ErrOrderingUnsupported)
		assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
		assert.ErrorIs(t, err, unknown)
	})
}
