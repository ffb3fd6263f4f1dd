// Package guard holds the two route-entry predicates. Both are pure
// functions of the session at decision time: they read exactly one
// resolved emission from the store's stream and stop observing, so a
// later, unrelated session change never re-fires a decision that was
// already taken.
package guard

import (
	"context"

	"github.com/EmySim/mdd/internal/client/session"
)

// firstResolved blocks until the session leaves the unknown state and
// returns the first authenticated/anonymous value seen. The unknown state
// is a "not yet checked" marker and must never be read as a denial: a page
// reload of a logged-in user starts unknown and resolves authenticated.
func firstResolved(ctx context.Context, store *session.Store) (session.State, error) {
	ch, cancel := store.Subscribe()
	defer cancel()

	for {
		select {
		case s := <-ch:
			if s.State != session.StateUnknown {
				return s.State, nil
			}
		case <-ctx.Done():
			return session.StateUnknown, ctx.Err()
		}
	}
}

// Auth permits entry iff the session resolves authenticated.
func Auth(ctx context.Context, store *session.Store) (bool, error) {
	state, err := firstResolved(ctx, store)
	if err != nil {
		return false, err
	}
	return state == session.StateAuthenticated, nil
}

// Guest permits entry iff the session resolves to anything but
// authenticated.
func Guest(ctx context.Context, store *session.Store) (bool, error) {
	state, err := firstResolved(ctx, store)
	if err != nil {
		return false, err
	}
	return state != session.StateAuthenticated, nil
}
