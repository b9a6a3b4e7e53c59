// Package memory provides an in-memory Store for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"runeScope/internal/model"
	"runeScope/internal/storage"
)

type recordKey struct {
	start int64
	end   int64
}

type record struct {
	base  model.BaseMetrics
	swap  model.SwapMetrics
	depth model.DepthMetrics

	hasSwap  bool
	hasDepth bool
}

// Store keeps window records in process memory with the same write
// semantics as the Postgres store.
type Store struct {
	mu     sync.Mutex
	tables map[string]map[recordKey]*record
	global map[recordKey]model.GlobalMetrics
	state  map[string]int64
}

func NewStore() *Store {
	return &Store{
		tables: make(map[string]map[recordKey]*record),
		global: make(map[recordKey]model.GlobalMetrics),
		state:  make(map[string]int64),
	}
}

func keyFor(w model.Window) recordKey {
	return recordKey{start: w.Start.Unix(), end: w.End.Unix()}
}

func (s *Store) EnsureSchema(_ context.Context, pools model.Pools) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pools.List() {
		if _, ok := s.tables[p.Table]; !ok {
			s.tables[p.Table] = make(map[recordKey]*record)
		}
	}
	return nil
}

func (s *Store) table(pool model.Pool) map[recordKey]*record {
	t, ok := s.tables[pool.Table]
	if !ok {
		t = make(map[recordKey]*record)
		s.tables[pool.Table] = t
	}
	return t
}

func (s *Store) InsertBase(_ context.Context, pool model.Pool, w model.Window, base model.BaseMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(pool)
	k := keyFor(w)
	if _, exists := t[k]; exists {
		return nil
	}
	t[k] = &record{base: base}
	return nil
}

func (s *Store) UpdateSwap(_ context.Context, pool model.Pool, w model.Window, swap model.SwapMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.table(pool)[keyFor(w)]
	if !ok {
		return storage.ErrMissingBase
	}
	r.swap = swap
	r.hasSwap = true
	return nil
}

func (s *Store) UpdateDepth(_ context.Context, pool model.Pool, w model.Window, depth model.DepthMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.table(pool)[keyFor(w)]
	if !ok {
		return storage.ErrMissingBase
	}
	r.depth = depth
	r.hasDepth = true
	return nil
}

func (s *Store) UpsertGlobal(_ context.Context, w model.Window, g model.GlobalMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyFor(w)
	if _, exists := s.global[k]; exists {
		return nil
	}
	s.global[k] = g
	return nil
}

func (s *Store) DepthHistory(_ context.Context, pool model.Pool, q storage.DepthQuery) ([]model.DepthRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]model.DepthRow, 0)
	for k, r := range s.table(pool) {
		if q.From != nil && k.start < *q.From {
			continue
		}
		if q.To != nil && k.end > *q.To {
			continue
		}
		rows = append(rows, model.DepthRow{StartTime: k.start, EndTime: k.end, Depth: r.depth})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime > rows[j].StartTime })

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []model.DepthRow{}, nil
	}
	rows = rows[offset:]

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) LoadIngestState(_ context.Context, name string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.state[name]
	return ts, ok, nil
}

func (s *Store) SaveIngestState(_ context.Context, name string, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[name] = ts
	return nil
}

// Record returns the stored record and group flags for assertions.
func (s *Store) Record(pool model.Pool, w model.Window) (base model.BaseMetrics, swap model.SwapMetrics, depth model.DepthMetrics, hasSwap, hasDepth, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, found := s.table(pool)[keyFor(w)]
	if !found {
		return model.BaseMetrics{}, model.SwapMetrics{}, model.DepthMetrics{}, false, false, false
	}
	return r.base, r.swap, r.depth, r.hasSwap, r.hasDepth, true
}

// Global returns the stored window-level record for assertions.
func (s *Store) Global(w model.Window) (model.GlobalMetrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.global[keyFor(w)]
	return g, ok
}

var _ storage.Store = (*Store)(nil)
var _ storage.StateStore = (*Store)(nil)
