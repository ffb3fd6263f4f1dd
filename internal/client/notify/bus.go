// Package notify decouples "something failed or succeeded" from how it is
// shown. Any component publishes; exactly one UI surface displays the
// current notification and lets it expire or be dismissed.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

// Notification is a transient message. Fields carries a field-name to
// message mapping for validation failures; form surfaces render those
// inline instead of the flat Message.
type Notification struct {
	ID          string
	Kind        Kind
	Title       string
	Message     string
	Fields      map[string]string
	CreatedAt   time.Time
	Duration    time.Duration
	Dismissible bool
}

const (
	defaultDuration = 4 * time.Second
	errorDuration   = 6 * time.Second

	maxHistory = 50
)

// Bus holds the currently displayed notification and a bounded
// newest-first history kept for diagnostics only.
type Bus struct {
	mu      sync.Mutex
	current *Notification
	history []Notification
	subs    map[int]chan *Notification
	next    int

	// now and after are test seams for the expiry timer.
	now   func() time.Time
	after func(time.Duration, func()) *time.Timer
}

func NewBus() *Bus {
	return &Bus{
		subs:  make(map[int]chan *Notification),
		now:   time.Now,
		after: time.AfterFunc,
	}
}

// Publish creates a notification, records it in history and makes it the
// current one. A non-positive duration picks the kind's default. The
// notification clears itself when the duration elapses, unless it was
// dismissed or replaced first.
func (b *Bus) Publish(kind Kind, title, message string, duration time.Duration) Notification {
	return b.publish(Notification{Kind: kind, Title: title, Message: message, Duration: duration})
}

// PublishValidation publishes an error notification carrying a per-field
// message mapping.
func (b *Bus) PublishValidation(title, message string, fields map[string]string) Notification {
	return b.publish(Notification{Kind: KindError, Title: title, Message: message, Fields: fields})
}

func (b *Bus) publish(n Notification) Notification {
	n.ID = uuid.NewString()
	n.CreatedAt = b.now()
	n.Dismissible = true
	if n.Duration <= 0 {
		if n.Kind == KindError {
			n.Duration = errorDuration
		} else {
			n.Duration = defaultDuration
		}
	}

	b.mu.Lock()
	b.history = append([]Notification{n}, b.history...)
	if len(b.history) > maxHistory {
		b.history = b.history[:maxHistory]
	}
	b.current = &n
	b.broadcast()
	b.mu.Unlock()

	// The timer checks identity, not just presence: if the notification
	// was replaced before expiring, the stale timer must be a no-op.
	b.after(n.Duration, func() { b.expire(n.ID) })
	return n
}

// Dismiss clears the currently displayed notification. History is kept.
func (b *Bus) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return
	}
	b.current = nil
	b.broadcast()
}

func (b *Bus) expire(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.ID != id {
		return
	}
	b.current = nil
	b.broadcast()
}

// Current returns the displayed notification, or nil.
func (b *Bus) Current() *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// History returns a copy of the bounded newest-first history.
func (b *Bus) History() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, len(b.history))
	copy(out, b.history)
	return out
}

// Subscribe returns a channel that first replays the current notification
// (possibly nil) and then every change; nil means "cleared". Call cancel
// on teardown.
func (b *Bus) Subscribe() (<-chan *Notification, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *Notification, 16)
	ch <- b.current

	id := b.next
	b.next++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// broadcast delivers the current value to all subscribers.
// Callers must hold b.mu.
func (b *Bus) broadcast() {
	for _, ch := range b.subs {
		select {
		case ch <- b.current:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- b.current
		}
	}
}
