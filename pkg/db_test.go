package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationError(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsUniqueViolationError(uniqueErr))
	assert.True(t, IsUniqueViolationError(fmt.Errorf("save admin user: %w", uniqueErr)))

	assert.False(t, IsUniqueViolationError(nil))
	assert.False(t, IsUniqueViolationError(errors.New("duplicate key value")))
	assert.False(t, IsUniqueViolationError(&pgconn.PgError{Code: "23503"}))
}
