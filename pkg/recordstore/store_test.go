package recordstore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvfolio/cvfolio/pkg/recordstore"
)

func backends(t *testing.T) map[string]func(t *testing.T) recordstore.Backend {
	t.Helper()
	return map[string]func(t *testing.T) recordstore.Backend{
		"file": func(t *testing.T) recordstore.Backend {
			b, err := recordstore.NewFileBackend(t.TempDir())
			require.NoError(t, err)
			return b
		},
		"memory": func(t *testing.T) recordstore.Backend {
			return recordstore.NewMemoryBackend()
		},
	}
}

func TestStore(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			runStoreTests(t, mk)
		})
	}
}

// runStoreTests runs the common suite against a fresh store per case.
func runStoreTests(t *testing.T, mk func(t *testing.T) recordstore.Backend) {
	t.Helper()
	ctx := context.Background()
	newStore := func(t *testing.T) *recordstore.Store {
		return recordstore.New(mk(t))
	}

	t.Run("add then find returns input plus id", func(t *testing.T) {
		s := newStore(t)
		added, err := s.Add(ctx, "products", recordstore.Record{"nom": "Clavier", "prix": 49.9, "stock": float64(3)})
		require.NoError(t, err)
		id, ok := added.ID()
		require.True(t, ok)

		got, err := s.FindByID(ctx, "products", id)
		require.NoError(t, err)
		assert.Equal(t, recordstore.Record{"id": float64(1), "nom": "Clavier", "prix": 49.9, "stock": float64(3)}, got)
		assert.Equal(t, added, got)
	})

	t.Run("ids are max plus one; gaps below the max are not reused", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 3; i++ {
			_, err := s.Add(ctx, "users", recordstore.Record{"nom": fmt.Sprint(i)})
			require.NoError(t, err)
		}
		_, err := s.Delete(ctx, "users", 2)
		require.NoError(t, err)
		rec, err := s.Add(ctx, "users", recordstore.Record{"nom": "x"})
		require.NoError(t, err)
		id, _ := rec.ID()
		assert.Equal(t, 4, id)

		_, err = s.Delete(ctx, "users", 4)
		require.NoError(t, err)
		rec, err = s.Add(ctx, "users", recordstore.Record{"nom": "y"})
		require.NoError(t, err)
		id, _ = rec.ID()
		assert.Equal(t, 4, id, "the highest id was removed so max+1 is 4 again")
	})

	t.Run("assigned id wins over an id in the item", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Add(ctx, "users", recordstore.Record{"id": float64(99), "nom": "A"})
		require.NoError(t, err)
		id, _ := rec.ID()
		assert.Equal(t, 1, id)
	})

	t.Run("scenario add add delete findAll", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Add(ctx, "users", recordstore.Record{"nom": "A"})
		require.NoError(t, err)
		assert.Equal(t, recordstore.Record{"id": float64(1), "nom": "A"}, a)
		b, err := s.Add(ctx, "users", recordstore.Record{"nom": "B"})
		require.NoError(t, err)
		assert.Equal(t, recordstore.Record{"id": float64(2), "nom": "B"}, b)

		removed, err := s.Delete(ctx, "users", 1)
		require.NoError(t, err)
		assert.Equal(t, recordstore.Record{"id": float64(1), "nom": "A"}, removed)

		all, err := s.FindAll(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, []recordstore.Record{{"id": float64(2), "nom": "B"}}, all)
	})

	t.Run("delete twice returns nil the second time", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(ctx, "messages", recordstore.Record{"sujet": "hello"})
		require.NoError(t, err)
		first, err := s.Delete(ctx, "messages", 1)
		require.NoError(t, err)
		require.NotNil(t, first)
		second, err := s.Delete(ctx, "messages", 1)
		require.NoError(t, err)
		assert.Nil(t, second)
	})

	t.Run("update miss leaves content unchanged", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(ctx, "users", recordstore.Record{"nom": "A"})
		require.NoError(t, err)
		before, err := s.Backend().Load(ctx, "users")
		require.NoError(t, err)

		got, err := s.Update(ctx, "users", 42, recordstore.Record{"nom": "Z"})
		require.NoError(t, err)
		assert.Nil(t, got)

		after, err := s.Backend().Load(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("update merges and pins the id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(ctx, "users", recordstore.Record{"nom": "A", "prenom": "Ada", "email": "a@x.io"})
		require.NoError(t, err)

		got, err := s.Update(ctx, "users", 1, recordstore.Record{"prenom": "Grace", "id": float64(7)})
		require.NoError(t, err)
		assert.Equal(t, recordstore.Record{"id": float64(1), "nom": "A", "prenom": "Grace", "email": "a@x.io"}, got)

		stored, err := s.FindByID(ctx, "users", 1)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
		missing, err := s.FindByID(ctx, "users", 7)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("read creates missing collection with default", func(t *testing.T) {
		s := newStore(t)
		exists, err := s.Exists(ctx, "cv")
		require.NoError(t, err)
		assert.False(t, exists)

		raw, err := s.Read(ctx, "cv", map[string]any{"nom": "Votre Nom"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"nom":"Votre Nom"}`, string(raw))

		exists, err = s.Exists(ctx, "cv")
		require.NoError(t, err)
		assert.True(t, exists)

		raw, err = s.Read(ctx, "cv", map[string]any{"nom": "Autre"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"nom":"Votre Nom"}`, string(raw))
	})

	t.Run("corrupt content is reported", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Backend().Save(ctx, "messages", []byte(`[{"id": 1,`)))

		_, err := s.Read(ctx, "messages", []any{})
		assert.ErrorIs(t, err, recordstore.ErrCorrupt)
		_, err = s.FindAll(ctx, "messages")
		assert.ErrorIs(t, err, recordstore.ErrCorrupt)
	})

	t.Run("object content is not a record collection", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "cv", map[string]any{"nom": "A"}))
		_, err := s.Add(ctx, "cv", recordstore.Record{"x": 1})
		assert.ErrorIs(t, err, recordstore.ErrCorrupt)
	})

	t.Run("search count list", func(t *testing.T) {
		s := newStore(t)
		for _, n := range []string{"Ada", "Alan", "Grace"} {
			_, err := s.Add(ctx, "users", recordstore.Record{"nom": n})
			require.NoError(t, err)
		}
		_, err := s.Add(ctx, "products", recordstore.Record{"nom": "Souris"})
		require.NoError(t, err)

		found, err := s.Search(ctx, "users", func(r recordstore.Record) bool {
			n, _ := r["nom"].(string)
			return len(n) > 0 && n[0] == 'A'
		})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		none, err := s.Search(ctx, "users", func(recordstore.Record) bool { return false })
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		n, err := s.Count(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		names, err := s.ListCollections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"products", "users"}, names)
	})

	t.Run("mutate aborts on error", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "cv", map[string]any{"nom": "A"}))
		boom := fmt.Errorf("boom")
		err := s.Mutate(ctx, "cv", nil, func(json.RawMessage) (any, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)

		cv, err := recordstore.ReadAs(ctx, s, "cv", map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "A", cv["nom"])
	})

	t.Run("reset and drop", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(ctx, "products", recordstore.Record{"nom": "x"})
		require.NoError(t, err)
		require.NoError(t, s.Reset(ctx, "products", []recordstore.Record{}))
		n, err := s.Count(ctx, "products")
		require.NoError(t, err)
		assert.Zero(t, n)

		dropped, err := s.Drop(ctx, "products")
		require.NoError(t, err)
		assert.True(t, dropped)
		dropped, err = s.Drop(ctx, "products")
		require.NoError(t, err)
		assert.False(t, dropped)
	})

	t.Run("concurrent adds get distinct ids", func(t *testing.T) {
		s := newStore(t)
		const n = 40
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Add(ctx, "messages", recordstore.Record{"n": float64(i)})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		all, err := s.FindAll(ctx, "messages")
		require.NoError(t, err)
		require.Len(t, all, n)
		got := make([]int, 0, n)
		for _, r := range all {
			id, ok := r.ID()
			require.True(t, ok)
			got = append(got, id)
		}
		sort.Ints(got)
		for i := range got {
			assert.Equal(t, i+1, got[i])
		}
	})
}

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, recordstore.NextID(nil))
	assert.Equal(t, 4, recordstore.NextID([]int{3, 1, 2}))
	assert.Equal(t, 11, recordstore.NextID([]int{10, 2}))
}

func TestParseID(t *testing.T) {
	id, err := recordstore.ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = recordstore.ParseID("abc")
	assert.ErrorIs(t, err, recordstore.ErrInvalidID)
}

func TestRecordID(t *testing.T) {
	id, ok := recordstore.Record{"id": float64(3)}.ID()
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	_, ok = recordstore.Record{"id": 1.5}.ID()
	assert.False(t, ok)
	_, ok = recordstore.Record{"id": "3"}.ID()
	assert.False(t, ok)
}
