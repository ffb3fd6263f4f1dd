// Package services contains the thin domain services of the client: theme
// subscriptions, the article feed and comments. They are deliberately
// plain pass-through calls; all failure policy lives in the request
// interceptor, and the only state they keep is what the UI renders.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EmySim/mdd/internal/client/api"
	"github.com/EmySim/mdd/internal/client/optimistic"
)

// Theme is a topic with the current user's membership flag. The backend
// still calls these "subjects".
type Theme struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscribersCount int64      `json:"subscribersCount,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// themesPage mirrors the backend's pagination envelope.
type themesPage struct {
	Content       []Theme `json:"content"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	Size          int     `json:"size"`
	Number        int     `json:"number"`
}

// ThemeService lists themes and toggles subscriptions optimistically.
type ThemeService struct {
	api     *api.Client
	toggler *optimistic.Toggler[int64]

	mu     sync.Mutex
	themes []Theme
	byID   map[int64]int
}

func NewThemeService(c *api.Client) *ThemeService {
	return &ThemeService{
		api:     c,
		toggler: optimistic.NewToggler[int64](),
		byID:    make(map[int64]int),
	}
}

// List loads the first page of themes with the caller's subscription flags
// and keeps it as the local rendering state.
func (s *ThemeService) List(ctx context.Context) ([]Theme, error) {
	var page themesPage
	if err := s.api.Get(ctx, "/api/subjects?page=0&size=50", &page); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.themes = page.Content
	s.byID = make(map[int64]int, len(page.Content))
	for i, t := range page.Content {
		s.byID[t.ID] = i
	}
	s.mu.Unlock()
	return s.Themes(), nil
}

// Themes returns a copy of the locally held list.
func (s *ThemeService) Themes() []Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Theme, len(s.themes))
	copy(out, s.themes)
	return out
}

// Theme returns the locally held theme, if loaded.
func (s *ThemeService) Theme(id int64) (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return Theme{}, false
	}
	return s.themes[i], true
}

// ToggleSubscription flips the membership flag of the theme immediately
// and confirms it with the server; on failure the flag reverts and the
// interceptor publishes the single failure notification, made specific by
// the message attached here. Returns optimistic.ErrInFlight while a
// previous toggle for the same theme is unresolved.
func (s *ThemeService) ToggleSubscription(ctx context.Context, id int64) error {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown theme %d", id)
	}
	s.mu.Unlock()

	read := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		i, ok := s.byID[id]
		if !ok {
			return false
		}
		return s.themes[i].IsSubscribed
	}
	write := func(v bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A List refresh may have dropped the theme while the call was
		// in flight; there is nothing left to flip or revert then.
		i, ok := s.byID[id]
		if !ok {
			return
		}
		if s.themes[i].IsSubscribed == v {
			return
		}
		s.themes[i].IsSubscribed = v
		if v {
			s.themes[i].SubscribersCount++
		} else if s.themes[i].SubscribersCount > 0 {
			s.themes[i].SubscribersCount--
		}
	}
	call := func(ctx context.Context, next bool) error {
		ctx = api.WithFailureMessage(ctx, "Could not update the subscription, please try again")
		path := fmt.Sprintf("/api/subjects/%d/subscribe", id)
		if next {
			return s.api.Post(ctx, path, nil, nil)
		}
		return s.api.Delete(ctx, path, nil)
	}

	return s.toggler.Toggle(ctx, id, read, write, call)
}

// SubscriptionInFlight reports whether the theme's toggle control should
// be disabled.
func (s *ThemeService) SubscriptionInFlight(id int64) bool {
	return s.toggler.InFlight(id)
}
