package session

import "sync"

// Store is the observable holder of the current Session.
//
// Contract:
//   - exactly one of the three states holds at any instant;
//   - SetAuthenticated and SetAnonymous are the only mutation entry
//     points and both are idempotent;
//   - Subscribe replays the current session to the new subscriber first,
//     then delivers every later transition in order.
//
// One Store is created at application start and lives for the whole
// process; it is passed to components explicitly, never held as a global.
type Store struct {
	mu   sync.Mutex
	cur  Session
	subs map[int]chan Session
	next int
}

func NewStore() *Store {
	return &Store{
		cur:  Session{State: StateUnknown},
		subs: make(map[int]chan Session),
	}
}

// Session returns a snapshot of the current session.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// State returns the current three-way state.
func (s *Store) State() State {
	return s.Session().State
}

// CurrentUser returns the last known authenticated user, or nil.
func (s *Store) CurrentUser() *User {
	return s.Session().User
}

// SetAuthenticated records a successful login/register/session-check.
// Calling it again with the same user is a no-op.
func (s *Store) SetAuthenticated(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.State == StateAuthenticated && s.cur.User != nil && s.cur.User.Equal(u) {
		return
	}
	s.cur = Session{State: StateAuthenticated, User: &u}
	s.broadcast()
}

// SetAnonymous records a logout or a failed session check.
// Calling it while already anonymous is a no-op.
func (s *Store) SetAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.State == StateAnonymous {
		return
	}
	s.cur = Session{State: StateAnonymous}
	s.broadcast()
}

// Subscribe returns a channel that first replays the current session and
// then receives every transition, in order. The returned cancel func must
// be called when the consumer is torn down; after cancel the channel is
// closed and no further values arrive.
func (s *Store) Subscribe() (<-chan Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Buffered so that slow consumers do not stall the store; 16 is far
	// more transitions than a session can see between two reads.
	ch := make(chan Session, 16)
	ch <- s.cur

	id := s.next
	s.next++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// broadcast delivers the current session to all subscribers.
// Callers must hold s.mu.
func (s *Store) broadcast() {
	for _, ch := range s.subs {
		select {
		case ch <- s.cur:
		default:
			// Subscriber is not draining; dropping would break the replay
			// ordering guarantee, so evict the stale value and keep the
			// newest one.
			select {
			case <-ch:
			default:
			}
			ch <- s.cur
		}
	}
}
