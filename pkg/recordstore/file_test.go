package recordstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_LayoutAndIndentation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	s := New(b)
	ctx := context.Background()

	_, err = s.Add(ctx, "users", Record{"nom": "A"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"nom\": \"A\"\n  }\n]", string(data))
}

func TestFileBackend_ListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, "messages", []byte("[]")))
	require.NoError(t, b.Save(ctx, "cv", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	names, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cv", "messages"}, names)
}

func TestFileBackend_LoadMissing(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	_, err = b.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotExist)

	removed, err := b.Remove(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFileBackend_RejectsPathNames(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "data")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.json"), []byte(`{"k":1}`), 0o644))
	ctx := context.Background()

	for _, name := range []string{"../secret", "a/b", `a\b`, "..", ""} {
		_, err := b.Load(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, b.Save(ctx, name, []byte("[]")), ErrInvalidName, name)
		_, err = b.Exists(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		_, err = b.Remove(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestFileBackend_SaveReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, "messages", []byte("[]")))
	require.NoError(t, b.Save(ctx, "messages", []byte(`[{"id":1}]`)))

	data, err := b.Load(ctx, "messages")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "messages.json", entries[0].Name())
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
