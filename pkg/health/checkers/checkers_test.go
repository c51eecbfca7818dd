package checkers

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

func TestPostgresChecker(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	c := NewPostgresChecker(mock)
	ctx := context.Background()

	mock.ExpectPing()
	mock.ExpectQuery(`to_regclass`).WillReturnRows(pgxmock.NewRows([]string{"present"}).AddRow(true))
	assert.NoError(t, c.Check(ctx))

	mock.ExpectPing()
	mock.ExpectQuery(`to_regclass`).WillReturnRows(pgxmock.NewRows([]string{"present"}).AddRow(false))
	assert.EqualError(t, c.Check(ctx), "postgres: collections table is missing")

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.EqualError(t, c.Check(ctx), "postgres ping: connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRedisChecker(client)

	assert.Equal(t, "redis", c.Name())
	assert.NoError(t, c.Check(context.Background()))

	mr.Close()
	assert.Error(t, c.Check(context.Background()))
}

func TestStoreChecker(t *testing.T) {
	dir := t.TempDir()
	backend, err := recordstore.NewFileBackend(dir)
	require.NoError(t, err)
	assert.NoError(t, NewStoreChecker(backend).Check(context.Background()))
}
