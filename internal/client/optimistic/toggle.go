// Package optimistic implements the mutate-then-confirm protocol used by
// toggle-like actions on list items, where immediate feedback matters more
// than confirmed consistency:
//
//  1. read the current flag,
//  2. flip it locally right away,
//  3. issue the network call,
//  4. on success nothing more to do,
//  5. on failure revert the flag to its pre-flip value.
//
// A per-key in-flight guard rejects a second toggle for the same key while
// the first call is unresolved, so a late failure rollback can never stomp
// a newer optimistic state.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when a toggle for the same key has not resolved
// yet. The UI should disable the control for that item instead of queueing.
var ErrInFlight = errors.New("toggle already in flight")

// Toggler runs the protocol for one family of toggles (one per entity
// type), keyed by the entity's identifier.
type Toggler[K comparable] struct {
	mu       sync.Mutex
	inflight map[K]struct{}
}

func NewToggler[K comparable]() *Toggler[K] {
	return &Toggler[K]{inflight: make(map[K]struct{})}
}

// InFlight reports whether key has an unresolved toggle.
func (t *Toggler[K]) InFlight(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inflight[key]
	return ok
}

// Toggle flips the flag read by read/write immediately and then runs call
// with the new value. On call failure the flag is reverted and the error
// returned; the caller's failure surface (normally the request
// interceptor) is responsible for the single user-facing notification.
func (t *Toggler[K]) Toggle(ctx context.Context, key K, read func() bool, write func(bool), call func(ctx context.Context, next bool) error) error {
	t.mu.Lock()
	if _, busy := t.inflight[key]; busy {
		t.mu.Unlock()
		return ErrInFlight
	}
	t.inflight[key] = struct{}{}
	t.mu.Unlock()

	prev := read()
	next := !prev
	write(next)

	err := call(ctx, next)

	// The revert must land before the guard releases: a toggle admitted
	// in between would read the torn optimistic value as its base state.
	if err != nil {
		write(prev)
	}

	t.mu.Lock()
	delete(t.inflight, key)
	t.mu.Unlock()

	return err
}
