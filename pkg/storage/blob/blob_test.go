package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "documents/2026/cv.pdf", "application/pdf", []byte("%PDF")))
	data, err := s.Get(ctx, "documents/2026/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	require.NoError(t, s.Delete(ctx, "documents/2026/cv.pdf"))
	_, err = s.Get(ctx, "documents/2026/cv.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "documents/2026/cv.pdf"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	err = s.Put(context.Background(), "../escape.txt", "", []byte("x"))
	assert.Error(t, err)
}
