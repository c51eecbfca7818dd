package recordstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps collections in process memory (tests, ephemeral runs).
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[name]
	if !ok {
		return nil, ErrNotExist
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := make([]byte, len(data))
	copy(v, data)
	b.data[name] = v
	return nil
}

func (b *MemoryBackend) Exists(_ context.Context, name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[name]
	return ok, nil
}

func (b *MemoryBackend) Remove(_ context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[name]
	delete(b.data, name)
	return ok, nil
}

func (b *MemoryBackend) List(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.data))
	for k := range b.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}
