package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

func openTemp(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "db", "cvfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBackend_RoundTrip(t *testing.T) {
	b := openTemp(t)
	ctx := context.Background()

	_, err := b.Load(ctx, "users")
	assert.ErrorIs(t, err, recordstore.ErrNotExist)

	require.NoError(t, b.Save(ctx, "users", []byte(`[{"id":1}]`)))
	require.NoError(t, b.Save(ctx, "users", []byte(`[{"id":1},{"id":2}]`)))
	data, err := b.Load(ctx, "users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(data))

	ok, err := b.Exists(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Ping(ctx))
}

func TestBackend_WithStore(t *testing.T) {
	ctx := context.Background()
	s := recordstore.New(openTemp(t))

	_, err := s.Add(ctx, "products", recordstore.Record{"nom": "Ecran"})
	require.NoError(t, err)
	_, err = s.Add(ctx, "messages", recordstore.Record{"sujet": "bug"})
	require.NoError(t, err)

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"messages", "products"}, names)

	dropped, err := s.Drop(ctx, "products")
	require.NoError(t, err)
	assert.True(t, dropped)
	names, err = s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"messages"}, names)
}
