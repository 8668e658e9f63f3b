package sql

import (
	"database/sql"
	"net/url"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/ulogger"
)

// Store is the mining core's persistence adapter, implementing the
// six persisted row-kinds (headers, longest-chain entries, raw
// transactions, parsed transactions, Merkle proofs, unspent outputs)
// over a dual Postgres/SQLite backend.
type Store struct {
	db     *sql.DB
	engine Engine
	logger ulogger.Logger
}

// New connects to storeURL, applies the schema, and returns a ready Store.
func New(logger ulogger.Logger, storeURL *url.URL) (*Store, error) {
	const op = "sql.New"

	db, engine, err := Connect(logger, storeURL)
	if err != nil {
		return nil, errors.NewStorageError(op, "connect", err)
	}
	if err := applySchema(db, engine); err != nil {
		return nil, errors.NewStorageError(op, "apply schema", err)
	}

	return &Store{db: db, engine: engine, logger: logger}, nil
}

// DB exposes the underlying connection pool for operations that need
// to compose multiple statements in one transaction.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Engine reports which SQL engine this store is backed by.
func (s *Store) Engine() Engine {
	return s.engine
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err represents a primary-key or
// unique-constraint violation, recognizing both engines' distinct
// error shapes.
func isUniqueViolation(engine Engine, err error) bool {
	if err == nil {
		return false
	}
	switch engine {
	case Postgres:
		return pqUniqueViolation(err)
	default:
		return sqliteUniqueViolation(err)
	}
}
