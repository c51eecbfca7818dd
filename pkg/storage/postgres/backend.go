package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

// Querier is the part of *pgxpool.Pool the backend uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Backend implements recordstore.Backend with one JSONB document per collection.
type Backend struct {
	pool Querier
}

// NewBackend creates the collections table when missing.
func NewBackend(ctx context.Context, pool Querier) (*Backend, error) {
	b := &Backend{pool: pool}
	if err := b.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) ensureSchema(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`)
	return err
}

func (b *Backend) Load(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := b.pool.QueryRow(ctx, `SELECT doc::text FROM collections WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recordstore.ErrNotExist
		}
		return nil, err
	}
	return []byte(doc), nil
}

func (b *Backend) Save(ctx context.Context, name string, data []byte) error {
	_, err := b.pool.Exec(ctx, `
INSERT INTO collections (name, doc, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
`, name, string(data))
	return err
}

func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := b.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM collections WHERE name = $1)`, name).Scan(&ok)
	return ok, err
}

func (b *Backend) Remove(ctx context.Context, name string) (bool, error) {
	tag, err := b.pool.Exec(ctx, `DELETE FROM collections WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (b *Backend) List(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
