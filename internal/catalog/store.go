package catalog

import (
	"sync"
	"sync/atomic"
)

// snapshot is an immutable ordered collection with an id index.
type snapshot[T any] struct {
	items []T
	index map[string]int
}

func emptySnapshot[T any]() *snapshot[T] {
	return &snapshot[T]{index: map[string]int{}}
}

// store holds the current snapshot. Readers load it without locking; writers
// serialise on mu, build a new snapshot and swap it in.
type store[T any] struct {
	mu       sync.Mutex
	cur      atomic.Pointer[snapshot[T]]
	id       func(T) string
	validate func(T) error
	clone    func(T) T
}

func newStore[T any](id func(T) string, validate func(T) error, clone func(T) T) *store[T] {
	s := &store[T]{id: id, validate: validate, clone: clone}
	s.cur.Store(emptySnapshot[T]())
	return s
}

func (s *store[T]) load() *snapshot[T] {
	return s.cur.Load()
}

func (s *store[T]) ingest(rec T) error {
	if err := s.validate(rec); err != nil {
		return err
	}
	rec = s.clone(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.load()
	next := &snapshot[T]{
		items: make([]T, len(old.items), len(old.items)+1),
		index: make(map[string]int, len(old.index)+1),
	}
	copy(next.items, old.items)
	for k, v := range old.index {
		next.index[k] = v
	}

	id := s.id(rec)
	if i, ok := next.index[id]; ok {
		next.items[i] = rec
	} else {
		next.index[id] = len(next.items)
		next.items = append(next.items, rec)
	}

	s.cur.Store(next)
	return nil
}

// build validates recs into a fresh snapshot without publishing it.
func (s *store[T]) build(recs []T) (*snapshot[T], BatchResult) {
	next := &snapshot[T]{
		items: make([]T, 0, len(recs)),
		index: make(map[string]int, len(recs)),
	}
	var res BatchResult

	for _, rec := range recs {
		if err := s.validate(rec); err != nil {
			res.Rejected++
			res.Errors = append(res.Errors, err)
			continue
		}
		rec = s.clone(rec)
		res.Accepted++

		id := s.id(rec)
		if i, ok := next.index[id]; ok {
			next.items[i] = rec
			continue
		}
		next.index[id] = len(next.items)
		next.items = append(next.items, rec)
	}
	return next, res
}

func (s *store[T]) replace(recs []T) BatchResult {
	next, res := s.build(recs)

	s.mu.Lock()
	s.cur.Store(next)
	s.mu.Unlock()

	return res
}

func (s *store[T]) get(id string) (T, bool) {
	snap := s.load()
	i, ok := snap.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return snap.items[i], true
}

func (s *store[T]) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.load()
	pos, ok := old.index[id]
	if !ok {
		return false
	}

	next := &snapshot[T]{
		items: make([]T, 0, len(old.items)-1),
		index: make(map[string]int, len(old.index)-1),
	}
	for i, rec := range old.items {
		if i == pos {
			continue
		}
		next.index[s.id(rec)] = len(next.items)
		next.items = append(next.items, rec)
	}

	s.cur.Store(next)
	return true
}

func (s *store[T]) clear() {
	s.mu.Lock()
	s.cur.Store(emptySnapshot[T]())
	s.mu.Unlock()
}

func (s *store[T]) len() int {
	return len(s.load().items)
}

func (s *store[T]) all() []T {
	items := s.load().items
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// filter returns matching records in insertion order, never nil.
func (s *store[T]) filter(match func(T) bool) []T {
	out := []T{}
	for _, rec := range s.load().items {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// update applies fn to the record with id and publishes the result in place.
// fn must not mutate its argument. It reports false when id is unknown.
func (s *store[T]) update(id string, fn func(T) (T, error)) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	old := s.load()
	pos, ok := old.index[id]
	if !ok {
		return zero, false, nil
	}

	rec, err := fn(old.items[pos])
	if err != nil {
		return zero, true, err
	}
	if err := s.validate(rec); err != nil {
		return zero, true, err
	}
	rec = s.clone(rec)

	next := &snapshot[T]{items: make([]T, len(old.items)), index: old.index}
	copy(next.items, old.items)
	next.items[pos] = rec

	s.cur.Store(next)
	return rec, true, nil
}
