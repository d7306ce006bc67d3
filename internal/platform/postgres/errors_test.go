package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/kioku/internal/platform/postgres"
	"github.com/phrazzld/kioku/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "review_states",
		ColumnName:     "easiness",
		ConstraintName: "review_states_easiness_check",
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m MockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), target: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), target: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{
			name:   "wrapped unique violation",
			err:    fmt.Errorf("insert: %w", newPgError("23505")),
			target: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.target)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped error passes through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Same(t, orig, postgres.MapError(orig))
	})

	t.Run("unmapped pg code passes through", func(t *testing.T) {
		pgErr := newPgError("40001")
		assert.Equal(t, error(pgErr), postgres.MapError(pgErr))
	})
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("x: %w", newPgError("23503"))))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(MockResult{rowsAffected: 1}, store.ErrItemNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(MockResult{}, store.ErrItemNotFound), store.ErrItemNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(MockResult{}, nil), store.ErrNotFound)
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))

	rowsErr := errors.New("driver cannot count")
	assert.ErrorIs(t, postgres.CheckRowsAffected(MockResult{err: rowsErr}, nil), rowsErr)
}
