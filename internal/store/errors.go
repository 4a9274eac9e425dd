package store

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors exist for full model encapsulation, so the upper layers
// aren't reliant on storage specific errors (like sql.ErrNoRows). In
// particular a missing row and a lost connection are distinguishable.

var (
	// ErrNotFound is returned when no matching record exists in the database.
	ErrNotFound = errors.New("no such record exists")

	// ErrConnectionFailed wraps connectivity failures so callers can tell a
	// transport problem apart from "not found".
	ErrConnectionFailed = errors.New("connection to the database failed")

	// ErrCatalogMismatch is returned by VerifyCatalog when the seeded
	// reference tables disagree with the ids the resolvers assume.
	ErrCatalogMismatch = errors.New("reference catalog mismatch")
)

// isConnectionError reports whether err points at the connection rather than
// the statement.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}
	return false
}
