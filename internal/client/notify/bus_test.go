package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_SetsCurrentAndHistory(t *testing.T) {
	b := NewBus()

	n := b.Publish(KindSuccess, "Saved", "all good", 0)

	cur := b.Current()
	require.NotNil(t, cur)
	assert.Equal(t, n.ID, cur.ID)
	assert.Equal(t, KindSuccess, cur.Kind)
	assert.Equal(t, defaultDuration, cur.Duration)
	assert.True(t, cur.Dismissible)

	h := b.History()
	require.Len(t, h, 1)
	assert.Equal(t, n.ID, h[0].ID)
}

func TestPublish_ErrorsGetLongerDefaultDuration(t *testing.T) {
	b := NewBus()
	n := b.Publish(KindError, "Oops", "failed", 0)
	assert.Equal(t, errorDuration, n.Duration)
}

func TestAutoExpiry(t *testing.T) {
	b := NewBus()

	b.Publish(KindInfo, "Hi", "short lived", 100*time.Millisecond)
	require.NotNil(t, b.Current())

	time.Sleep(150 * time.Millisecond)
	assert.Nil(t, b.Current(), "notification must have expired")

	// History survives expiry.
	assert.Len(t, b.History(), 1)
}

func TestAutoExpiry_StaleTimerIsNoOp(t *testing.T) {
	b := NewBus()

	b.Publish(KindInfo, "first", "m", 100*time.Millisecond)
	second := b.Publish(KindInfo, "second", "m", time.Minute)

	// When the first notification's timer fires, the second is showing;
	// the stale timer must not clear it.
	time.Sleep(150 * time.Millisecond)

	cur := b.Current()
	require.NotNil(t, cur)
	assert.Equal(t, second.ID, cur.ID)
}

func TestDismiss_ClearsCurrentKeepsHistory(t *testing.T) {
	b := NewBus()
	b.Publish(KindWarning, "W", "m", time.Minute)

	b.Dismiss()
	assert.Nil(t, b.Current())
	assert.Len(t, b.History(), 1)

	// Dismissing again is a no-op.
	b.Dismiss()
}

func TestHistory_BoundedNewestFirst(t *testing.T) {
	b := NewBus()

	for i := 0; i < maxHistory+10; i++ {
		b.Publish(KindInfo, "n", "m", time.Minute)
	}
	last := b.Publish(KindInfo, "latest", "m", time.Minute)

	h := b.History()
	require.Len(t, h, maxHistory)
	assert.Equal(t, last.ID, h[0].ID)
}

func TestPublishValidation_CarriesFields(t *testing.T) {
	b := NewBus()

	fields := map[string]string{"email": "must be a valid address"}
	b.PublishValidation("Invalid data", "please fix the form", fields)

	cur := b.Current()
	require.NotNil(t, cur)
	assert.Equal(t, KindError, cur.Kind)
	assert.Equal(t, fields, cur.Fields)
}

func TestPublishHTTPError_DefaultsAndOverride(t *testing.T) {
	b := NewBus()

	n := b.PublishHTTPError(404, "")
	assert.Equal(t, "Not found", n.Title)
	assert.Equal(t, "The requested resource does not exist", n.Message)

	n = b.PublishHTTPError(400, "")
	assert.Equal(t, "Validation failed", n.Title)
	assert.Equal(t, "Invalid request", n.Message)

	n = b.PublishHTTPError(503, "")
	assert.Equal(t, "Server error", n.Title)

	n = b.PublishHTTPError(0, "")
	assert.Equal(t, "Connection error", n.Title)
	assert.Equal(t, "The server cannot be reached", n.Message)

	n = b.PublishHTTPError(409, "already subscribed to this theme")
	assert.Equal(t, "Conflict", n.Title)
	assert.Equal(t, "already subscribed to this theme", n.Message)
}

func TestSubscribe_ReplayAndUpdates(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Replayed value: nothing displayed yet.
	select {
	case got := <-ch:
		assert.Nil(t, got)
	case <-time.After(time.Second):
		t.Fatal("no replayed value")
	}

	n := b.Publish(KindInfo, "Hi", "m", time.Minute)
	select {
	case got := <-ch:
		require.NotNil(t, got)
		assert.Equal(t, n.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no published value")
	}

	b.Dismiss()
	select {
	case got := <-ch:
		assert.Nil(t, got)
	case <-time.After(time.Second):
		t.Fatal("no cleared value")
	}
}
