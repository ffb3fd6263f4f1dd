package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flag struct{ v bool }

func (f *flag) read() bool   { return f.v }
func (f *flag) write(v bool) { f.v = v }

func TestToggle_FlipsImmediately(t *testing.T) {
	tg := NewToggler[int64]()
	f := &flag{}

	var seenDuringCall bool
	err := tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error {
		// The optimistic flip happens before the call runs.
		seenDuringCall = f.v
		assert.True(t, next)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, seenDuringCall)
	assert.True(t, f.v)
}

func TestToggle_RevertsOnFailure(t *testing.T) {
	tg := NewToggler[int64]()
	f := &flag{v: true}

	callErr := errors.New("boom")
	err := tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error {
		assert.False(t, next)
		assert.False(t, f.v)
		return callErr
	})
	require.ErrorIs(t, err, callErr)
	assert.True(t, f.v)
	assert.False(t, tg.InFlight(1))
}

func TestToggle_GuardHeldUntilRevertLands(t *testing.T) {
	tg := NewToggler[int64]()

	var v bool
	writes := 0
	var inFlightAtRevert bool
	write := func(b bool) {
		writes++
		if writes == 2 {
			// The second write is the rollback; the key must still be
			// guarded so no competing toggle can base itself on the
			// torn value.
			inFlightAtRevert = tg.InFlight(1)
		}
		v = b
	}

	err := tg.Toggle(context.Background(), 1, func() bool { return v }, write, func(ctx context.Context, next bool) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 2, writes)
	assert.True(t, inFlightAtRevert)
	assert.False(t, v)
	assert.False(t, tg.InFlight(1))
}

func TestToggle_SecondToggleForSameKeyRejected(t *testing.T) {
	tg := NewToggler[int64]()
	f := &flag{}

	started := make(chan struct{})
	release := make(chan error)
	done := make(chan error, 1)

	go func() {
		done <- tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error {
			close(started)
			return <-release
		})
	}()

	<-started
	assert.True(t, tg.InFlight(1))

	err := tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error {
		t.Fatal("call for an in-flight key must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrInFlight)
	// The rejected attempt leaves the optimistic state alone.
	assert.True(t, f.v)

	release <- nil
	require.NoError(t, <-done)
	assert.False(t, tg.InFlight(1))
}

func TestToggle_IndependentKeys(t *testing.T) {
	tg := NewToggler[int64]()
	a, b := &flag{}, &flag{}

	started := make(chan struct{})
	release := make(chan error)
	done := make(chan error, 1)

	go func() {
		done <- tg.Toggle(context.Background(), 1, a.read, a.write, func(ctx context.Context, next bool) error {
			close(started)
			return <-release
		})
	}()

	<-started
	err := tg.Toggle(context.Background(), 2, b.read, b.write, func(ctx context.Context, next bool) error {
		return nil
	})
	require.NoError(t, err)
	assert.True(t, b.v)

	release <- nil
	require.NoError(t, <-done)
}

func TestToggle_ResolvedKeyCanToggleAgain(t *testing.T) {
	tg := NewToggler[int64]()
	f := &flag{}

	require.NoError(t, tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error { return nil }))
	assert.True(t, f.v)

	require.NoError(t, tg.Toggle(context.Background(), 1, f.read, f.write, func(ctx context.Context, next bool) error { return nil }))
	assert.False(t, f.v)
}
