package shell

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Status is the visible state of a data-backed screen.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// LoadFunc fetches a screen's items for an identity key.
type LoadFunc[T any] func(ctx context.Context, key string) ([]T, error)

// ScreenState is what a screen renders.
type ScreenState[T any] struct {
	Status Status `json:"status"`
	Key    string `json:"-"`
	Items  []T    `json:"items"`
	Err    error  `json:"-"`
}

// Screen fetches once per mount. Mounting again with the same identity key
// reuses the loaded state; a new key triggers a new fetch. Concurrent mounts
// for one key share a single in-flight fetch, and results that arrive after
// an unmount or a key change are discarded.
type Screen[T any] struct {
	load  LoadFunc[T]
	group singleflight.Group

	mu      sync.Mutex
	mounted bool
	gen     uint64
	state   ScreenState[T]
}

// NewScreen creates an unmounted screen.
func NewScreen[T any](load LoadFunc[T]) *Screen[T] {
	return &Screen[T]{load: load, state: ScreenState[T]{Status: StatusIdle}}
}

// Mount shows the screen for key and returns its state once loaded.
func (s *Screen[T]) Mount(ctx context.Context, key string) ScreenState[T] {
	s.mu.Lock()
	if s.mounted && s.state.Key == key && s.state.Status != StatusLoading {
		st := s.state
		s.mu.Unlock()
		return st
	}
	if !s.mounted || s.state.Key != key {
		s.gen++
		s.mounted = true
		s.state = ScreenState[T]{Status: StatusLoading, Key: key}
	}
	gen := s.gen
	s.mu.Unlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.load(ctx, key)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return s.state
	}
	items, _ := v.([]T)
	switch {
	case err != nil:
		s.state = ScreenState[T]{Status: StatusFailed, Key: key, Err: err}
	case len(items) == 0:
		s.state = ScreenState[T]{Status: StatusEmpty, Key: key, Items: []T{}}
	default:
		s.state = ScreenState[T]{Status: StatusReady, Key: key, Items: items}
	}
	return s.state
}

// Unmount hides the screen; an in-flight result is dropped.
func (s *Screen[T]) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.mounted = false
	s.state = ScreenState[T]{Status: StatusIdle}
}

// State returns the current state without fetching.
func (s *Screen[T]) State() ScreenState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
