package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type PostgresRepository struct {
	db     DBTX
	logger zerolog.Logger
}

func NewPostgresRepository(db DBTX, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
