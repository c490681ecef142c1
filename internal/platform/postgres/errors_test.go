package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/aibrochure/brochure-api/internal/platform/postgres"
	"github.com/aibrochure/brochure-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "no rows maps to not found",
			err:  sql.ErrNoRows,
			want: store.ErrNotFound,
		},
		{
			name: "wrapped no rows maps to not found",
			err:  fmt.Errorf("query failed: %w", sql.ErrNoRows),
			want: store.ErrNotFound,
		},
		{
			name: "unique violation maps to duplicate",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "brochures_user_id_fkey"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "check violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23514"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "title"},
			want: store.ErrInvalidEntity,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := postgres.MapError(tc.err)
			if tc.want == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tc.want)
		})
	}
}

func TestMapError_UnknownErrorPassesThrough(t *testing.T) {
	t.Parallel()

	unknown := errors.New("connection reset")
	assert.Equal(t, unknown, postgres.MapError(unknown))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	assert.True(t, postgres.IsUniqueViolation(uniqueErr, ""))
	assert.True(t, postgres.IsUniqueViolation(uniqueErr, "users_email_key"))
	assert.False(t, postgres.IsUniqueViolation(uniqueErr, "other_constraint"))
	assert.False(t, postgres.IsUniqueViolation(errors.New("plain"), ""))
}
