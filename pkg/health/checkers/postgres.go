package checkers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type postgresDB interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresChecker reports ready once the database answers and the
// collections table of the record store exists.
type PostgresChecker struct {
	db postgresDB
}

func NewPostgresChecker(db postgresDB) *PostgresChecker {
	return &PostgresChecker{db: db}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := c.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	var present bool
	if err := c.db.QueryRow(ctx, `SELECT to_regclass('collections') IS NOT NULL`).Scan(&present); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	if !present {
		return errors.New("postgres: collections table is missing")
	}
	return nil
}
