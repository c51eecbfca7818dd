// Package recordstore persists named collections of JSON records.
//
// Every collection is a JSON array of objects carrying an integer "id"
// (or, for singletons such as the CV, a single JSON object). All operations
// are full-collection read-modify-write cycles executed under a
// per-collection lock, so concurrent requests against the same collection
// are serialised while different collections proceed independently.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cvfolio/cvfolio/pkg/logging"
)

var (
	// ErrCorrupt is returned when stored content cannot be decoded.
	ErrCorrupt = errors.New("corrupt collection")
	// ErrInvalidID is returned by ParseID for non-numeric identifiers.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidName is returned for collection names that are not plain
	// identifiers, such as "../etc".
	ErrInvalidName = errors.New("invalid collection name")
)

// Store implements the record operations on top of a Backend.
type Store struct {
	backend Backend
	log     logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     logging.Nop(),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying persistence backend.
func (s *Store) Backend() Backend { return s.backend }

func (s *Store) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Read returns the raw JSON content of a collection. A missing collection is
// created with def, which is then returned. Content that is not valid JSON
// yields ErrCorrupt rather than the default.
func (s *Store) Read(ctx context.Context, name string, def any) (json.RawMessage, error) {
	unlock := s.lock(name)
	defer unlock()
	return s.read(ctx, name, def)
}

// ReadAs reads a collection and decodes it into T.
func ReadAs[T any](ctx context.Context, s *Store, name string, def T) (T, error) {
	var out T
	raw, err := s.Read(ctx, name, def)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return out, nil
}

// Write serialises v as indented JSON and replaces the collection content.
func (s *Store) Write(ctx context.Context, name string, v any) error {
	unlock := s.lock(name)
	defer unlock()
	return s.write(ctx, name, v)
}

// Mutate runs fn on the current content of a collection and writes back its
// result while holding the collection lock. Returning an error from fn
// aborts without writing.
func (s *Store) Mutate(ctx context.Context, name string, def any, fn func(raw json.RawMessage) (any, error)) error {
	unlock := s.lock(name)
	defer unlock()
	raw, err := s.read(ctx, name, def)
	if err != nil {
		return err
	}
	next, err := fn(raw)
	if err != nil {
		return err
	}
	return s.write(ctx, name, next)
}

// Add appends item with the next free id and returns the stored record.
func (s *Store) Add(ctx context.Context, name string, item Record) (Record, error) {
	unlock := s.lock(name)
	defer unlock()
	records, err := s.records(ctx, name)
	if err != nil {
		return nil, err
	}
	rec := make(Record, len(item)+1)
	for k, v := range item {
		rec[k] = v
	}
	rec[idKey] = NextID(ids(records))
	records = append(records, rec)
	if err := s.write(ctx, name, records); err != nil {
		return nil, err
	}
	return rec.clone()
}

// FindByID returns the first record with the given id, or nil when absent.
func (s *Store) FindByID(ctx context.Context, name string, id int) (Record, error) {
	unlock := s.lock(name)
	defer unlock()
	records, err := s.records(ctx, name)
	if err != nil {
		return nil, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return nil, nil
}

// FindAll returns the whole collection in insertion order.
func (s *Store) FindAll(ctx context.Context, name string) ([]Record, error) {
	unlock := s.lock(name)
	defer unlock()
	return s.records(ctx, name)
}

// Update shallow-merges patch over the record with the given id. The id
// itself is never taken from the patch. Returns nil without writing when
// no record matches.
func (s *Store) Update(ctx context.Context, name string, id int, patch Record) (Record, error) {
	unlock := s.lock(name)
	defer unlock()
	records, err := s.records(ctx, name)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, nil
	}
	merged := make(Record, len(records[i])+len(patch))
	for k, v := range records[i] {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	merged[idKey] = id
	records[i] = merged
	if err := s.write(ctx, name, records); err != nil {
		return nil, err
	}
	return merged.clone()
}

// Delete removes the first record with the given id and returns it, or nil
// when absent.
func (s *Store) Delete(ctx context.Context, name string, id int) (Record, error) {
	unlock := s.lock(name)
	defer unlock()
	records, err := s.records(ctx, name)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, nil
	}
	removed := records[i]
	records = append(records[:i], records[i+1:]...)
	if err := s.write(ctx, name, records); err != nil {
		return nil, err
	}
	return removed, nil
}

// Search returns every record for which match reports true. Linear scan.
func (s *Store) Search(ctx context.Context, name string, match func(Record) bool) ([]Record, error) {
	unlock := s.lock(name)
	defer unlock()
	records, err := s.records(ctx, name)
	if err != nil {
		return nil, err
	}
	out := []Record{}
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.backend.Exists(ctx, name)
}

func (s *Store) Count(ctx context.Context, name string) (int, error) {
	records, err := s.FindAll(ctx, name)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListCollections returns the names of all persisted collections.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	return s.backend.List(ctx)
}

// Reset overwrites a collection with def.
func (s *Store) Reset(ctx context.Context, name string, def any) error {
	return s.Write(ctx, name, def)
}

// Drop removes a collection entirely. Returns true if it existed.
func (s *Store) Drop(ctx context.Context, name string) (bool, error) {
	unlock := s.lock(name)
	defer unlock()
	ok, err := s.backend.Remove(ctx, name)
	if err != nil {
		return false, fmt.Errorf("drop %s: %w", name, err)
	}
	if ok {
		s.log.Info(ctx, "collection dropped", "collection", name)
	}
	return ok, nil
}

func (s *Store) read(ctx context.Context, name string, def any) (json.RawMessage, error) {
	data, err := s.backend.Load(ctx, name)
	if errors.Is(err, ErrNotExist) {
		if err := s.write(ctx, name, def); err != nil {
			return nil, err
		}
		s.log.Info(ctx, "collection created", "collection", name)
		return encode(def)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !json.Valid(data) {
		s.log.Warn(ctx, "collection content is not valid JSON", "collection", name)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, name)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, name string, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.backend.Save(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) records(ctx context.Context, name string) ([]Record, error) {
	raw, err := s.read(ctx, name, []Record{})
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Warn(ctx, "collection is not an array of records", "collection", name, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func indexOf(records []Record, id int) int {
	for i, r := range records {
		if rid, ok := r.ID(); ok && rid == id {
			return i
		}
	}
	return -1
}

func ids(records []Record) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		if id, ok := r.ID(); ok {
			out = append(out, id)
		}
	}
	return out
}

// NextID returns max(ids)+1, or 1 for an empty set.
func NextID(ids []int) int {
	next := 1
	for _, id := range ids {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// ParseID converts a path parameter into a record id.
func ParseID(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return n, nil
}
