package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/storage/postgres"
)

func newBackend(t *testing.T) (*postgres.Backend, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS collections`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	b, err := postgres.NewBackend(context.Background(), mock)
	require.NoError(t, err)
	return b, mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func TestNewBackend_SchemaError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))
	_, err = postgres.NewBackend(context.Background(), mock)
	assert.EqualError(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_LoadAndSave(t *testing.T) {
	b, mock := newBackend(t)
	ctx := context.Background()

	mock.ExpectQuery(q(`SELECT doc::text FROM collections WHERE name = $1`)).
		WithArgs("messages").
		WillReturnError(pgx.ErrNoRows)
	_, err := b.Load(ctx, "messages")
	assert.ErrorIs(t, err, recordstore.ErrNotExist)

	mock.ExpectQuery(q(`SELECT doc::text FROM collections WHERE name = $1`)).
		WithArgs("cv").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow(`{"nom": "Camille Martin"}`))
	data, err := b.Load(ctx, "cv")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nom": "Camille Martin"}`, string(data))

	mock.ExpectExec(`INSERT INTO collections`).
		WithArgs("cv", `{"nom":"A"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, b.Save(ctx, "cv", []byte(`{"nom":"A"}`)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_ExistsRemoveList(t *testing.T) {
	b, mock := newBackend(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("users").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := b.Exists(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(`DELETE FROM collections`).WithArgs("users").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	ok, err = b.Remove(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(`DELETE FROM collections`).WithArgs("users").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	ok, err = b.Remove(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(`SELECT name FROM collections ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("cv").AddRow("messages"))
	names, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cv", "messages"}, names)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_StoreCreatesMissingCollection(t *testing.T) {
	b, mock := newBackend(t)
	store := recordstore.New(b)

	mock.ExpectQuery(`SELECT doc::text`).WithArgs("messages").WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO collections`).WithArgs("messages", "[]").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	records, err := store.FindAll(context.Background(), "messages")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
