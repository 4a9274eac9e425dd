package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(driver.ErrBadConn))
	assert.True(t, isConnectionError(fmt.Errorf("beginning transaction: %w", driver.ErrBadConn)))
	assert.True(t, isConnectionError(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.True(t, isConnectionError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure}))

	assert.False(t, isConnectionError(nil))
	assert.False(t, isConnectionError(sql.ErrNoRows))
	assert.False(t, isConnectionError(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isConnectionError(errors.New("syntax error")))
}

func TestCatalogErr(t *testing.T) {
	// A down database at startup is not a catalog mismatch.
	err := catalogErr("estado_pedido", 1, driver.ErrBadConn)
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.NotErrorIs(t, err, ErrCatalogMismatch)

	// A missing reference row is.
	err = catalogErr("tipo_combustible", 9, sql.ErrNoRows)
	assert.ErrorIs(t, err, ErrCatalogMismatch)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NotErrorIs(t, err, ErrConnectionFailed)
}
