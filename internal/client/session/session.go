// Package session holds the client's authentication state. The Store is the
// single source of truth for "who is logged in right now"; every other
// component reads it, and only the auth gateway mutates it.
package session

import "time"

// State is the three-way authentication status of the running client.
type State int

const (
	// StateUnknown is the initial state, before the first session check
	// has resolved. Guards must not treat it as StateAnonymous.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// User is the identity record owned by the Store while a session is active.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Equal compares users by value. The timestamp fields are pointers, so a
// plain struct comparison would compare them by identity and report two
// identical records as different.
func (u User) Equal(o User) bool {
	return u.ID == o.ID && u.Username == o.Username && u.Email == o.Email &&
		timeEqual(u.CreatedAt, o.CreatedAt) && timeEqual(u.UpdatedAt, o.UpdatedAt)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Session is a snapshot of the store: the state plus the user when
// authenticated (nil otherwise).
type Session struct {
	State State
	User  *User
}
