package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_StartsUnknown(t *testing.T) {
	s := NewStore()

	assert.Equal(t, StateUnknown, s.State())
	assert.Nil(t, s.CurrentUser())
}

func TestStore_AlwaysExactlyOneState(t *testing.T) {
	s := NewStore()
	u := User{ID: 1, Username: "dev", Email: "dev@mdd.io"}

	steps := []func(){
		func() { s.SetAuthenticated(u) },
		func() { s.SetAnonymous() },
		func() { s.SetAnonymous() },
		func() { s.SetAuthenticated(u) },
		func() { s.SetAuthenticated(u) },
	}

	for _, step := range steps {
		step()
		state := s.State()
		assert.Contains(t, []State{StateUnknown, StateAuthenticated, StateAnonymous}, state)
		if state == StateAuthenticated {
			require.NotNil(t, s.CurrentUser())
		} else {
			assert.Nil(t, s.CurrentUser())
		}
	}
}

func TestStore_SubscribeReplaysCurrentValue(t *testing.T) {
	s := NewStore()
	u := User{ID: 7, Username: "late", Email: "late@mdd.io"}
	s.SetAuthenticated(u)

	// A late subscriber must immediately see the latest truth.
	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case got := <-ch:
		assert.Equal(t, StateAuthenticated, got.State)
		require.NotNil(t, got.User)
		assert.Equal(t, "late", got.User.Username)
	case <-time.After(time.Second):
		t.Fatal("no replayed value")
	}
}

func TestStore_EmissionsAreOrdered(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	u := User{ID: 1, Username: "dev", Email: "dev@mdd.io"}
	s.SetAuthenticated(u)
	s.SetAnonymous()

	want := []State{StateUnknown, StateAuthenticated, StateAnonymous}
	for _, w := range want {
		select {
		case got := <-ch:
			assert.Equal(t, w, got.State)
		case <-time.After(time.Second):
			t.Fatalf("missing emission %v", w)
		}
	}
}

func TestStore_MutationsAreIdempotent(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch // replayed unknown

	s.SetAnonymous()
	s.SetAnonymous()

	select {
	case got := <-ch:
		assert.Equal(t, StateAnonymous, got.State)
	case <-time.After(time.Second):
		t.Fatal("missing emission")
	}

	// The second SetAnonymous must not have emitted.
	select {
	case got := <-ch:
		t.Fatalf("unexpected emission: %v", got.State)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStore_SameUserWithFreshTimestampsDoesNotReemit(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch // replayed unknown

	// Back-to-back session checks decode the same instant into distinct
	// *time.Time values; the user is still the same user.
	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	first := created
	second := created

	s.SetAuthenticated(User{ID: 7, Username: "dev", Email: "dev@mdd.io", CreatedAt: &first})
	s.SetAuthenticated(User{ID: 7, Username: "dev", Email: "dev@mdd.io", CreatedAt: &second})

	select {
	case got := <-ch:
		assert.Equal(t, StateAuthenticated, got.State)
	case <-time.After(time.Second):
		t.Fatal("missing emission")
	}

	select {
	case got := <-ch:
		t.Fatalf("unexpected emission: %v", got.State)
	case <-time.After(50 * time.Millisecond):
	}

	// A genuinely different record still emits.
	s.SetAuthenticated(User{ID: 7, Username: "dev2", Email: "dev@mdd.io", CreatedAt: &first})
	select {
	case got := <-ch:
		require.NotNil(t, got.User)
		assert.Equal(t, "dev2", got.User.Username)
	case <-time.After(time.Second):
		t.Fatal("missing emission for changed user")
	}
}

func TestStore_CancelClosesChannel(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	<-ch

	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Mutations after cancel must not panic or deliver.
	s.SetAnonymous()
}
