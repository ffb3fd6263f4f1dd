package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/EmySim/mdd/internal/client/notify"
	"github.com/EmySim/mdd/internal/client/session"
	"github.com/EmySim/mdd/internal/client/token"
	"github.com/EmySim/mdd/internal/logging"
)

// Wire shapes of the auth endpoints (see the backend's AuthController).

type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type jwtResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expiresIn"`
}

type userResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (u userResponse) user() session.User {
	return session.User{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// Gateway performs the auth network operations and is the only component
// that mutates the session store and the credential slot.
type Gateway struct {
	api   *Client
	slot  *token.Slot
	store *session.Store
	bus   *notify.Bus
	log   logging.Logger

	// onLoggedOut signals navigation away from protected surfaces after an
	// explicit logout has fully completed.
	onLoggedOut func()
}

func NewGateway(api *Client, slot *token.Slot, store *session.Store, bus *notify.Bus, log logging.Logger, onLoggedOut func()) *Gateway {
	return &Gateway{api: api, slot: slot, store: store, bus: bus, log: log, onLoggedOut: onLoggedOut}
}

// Login authenticates with an email or username. On success the token and
// user are persisted and the store becomes authenticated. On failure the
// store is left untouched: a failed attempt while anonymous stays
// anonymous, while unknown stays unknown.
func (g *Gateway) Login(ctx context.Context, identifier, password string) (session.User, error) {
	var resp jwtResponse
	err := g.api.Post(ctx, "/api/auth/login", loginRequest{EmailOrUsername: identifier, Password: password}, &resp)
	if err != nil {
		return session.User{}, g.loginFailure(ctx, err)
	}

	u := session.User{ID: resp.ID, Username: resp.Username, Email: resp.Email}
	if err := g.slot.Save(ctx, resp.Token, u); err != nil {
		// The session still works for this run; it just will not survive
		// a restart.
		g.log.Error(ctx, "persisting credentials failed", "error", err)
	}
	g.store.SetAuthenticated(u)
	g.log.Info(ctx, "logged in", "user", u.Username)
	return u, nil
}

// loginFailure reclassifies the raw error for the login endpoint: its 401
// means wrong credentials, not an invalidated session. Exactly one error
// notification is published per failed attempt.
func (g *Gateway) loginFailure(ctx context.Context, err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound:
		// The backend answers 404 for an unknown identifier; both cases
		// read the same to the user.
		out := &Error{Kind: KindInvalidCredentials, Message: "incorrect identifier or password", Status: apiErr.Status}
		g.bus.Publish(notify.KindError, "Sign in failed", out.Message, 0)
		return out
	case apiErr.Kind == KindValidation:
		g.bus.PublishValidation("Sign in failed", apiErr.Message, apiErr.Fields)
		return apiErr
	case apiErr.Kind == KindUnreachable:
		g.bus.PublishHTTPError(0, "")
		return apiErr
	default:
		g.bus.PublishHTTPError(apiErr.Status, apiErr.Message)
		return apiErr
	}
}

// Register creates an account. Success does not create a session; callers
// that want the historical register-then-login behavior use
// RegisterAndLogin, which applies ordinary login failure handling to the
// second step instead of swallowing it.
func (g *Gateway) Register(ctx context.Context, username, email, password string) error {
	err := g.api.Post(ctx, "/api/auth/register", registerRequest{Username: username, Email: email, Password: password}, nil)
	if err == nil {
		g.log.Info(ctx, "account registered", "user", username)
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindValidation:
			g.bus.PublishValidation("Registration failed", apiErr.Message, apiErr.Fields)
		case KindConflict:
			msg := apiErr.Message
			if msg == "" {
				msg = "this email or username is already taken"
			}
			g.bus.Publish(notify.KindError, "Registration failed", msg, 0)
		case KindUnreachable:
			g.bus.PublishHTTPError(0, "")
		default:
			g.bus.PublishHTTPError(apiErr.Status, apiErr.Message)
		}
	}
	return err
}

// RegisterAndLogin is the explicit two-step chain: register, then log in
// with the same credentials. Each step fails on its own terms.
func (g *Gateway) RegisterAndLogin(ctx context.Context, username, email, password string) (session.User, error) {
	if err := g.Register(ctx, username, email, password); err != nil {
		return session.User{}, err
	}
	return g.Login(ctx, email, password)
}

// CheckSession resolves the unknown state: it validates the stored token
// against the profile endpoint and settles the store on authenticated or
// anonymous. Any failure, including a plain 401, resolves to anonymous
// without a user-facing notification: an expired session is an expected
// state, not an error.
func (g *Gateway) CheckSession(ctx context.Context) session.State {
	tok, err := g.slot.Token(ctx)
	if err != nil {
		g.log.Warn(ctx, "reading credential slot failed", "error", err)
	}
	if tok == "" {
		g.store.SetAnonymous()
		return session.StateAnonymous
	}

	var resp userResponse
	if err := g.api.Get(WithSilentFailure(ctx), "/api/user/profile", &resp); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind == KindSessionInvalidated {
			if clearErr := g.slot.Clear(ctx); clearErr != nil {
				g.log.Warn(ctx, "clearing stale credentials failed", "error", clearErr)
			}
		}
		g.store.SetAnonymous()
		return session.StateAnonymous
	}

	u := resp.user()
	g.store.SetAuthenticated(u)
	g.log.Info(ctx, "session restored", "user", u.Username)
	return session.StateAuthenticated
}

// Logout invalidates the session locally: the server call is best-effort
// and its failure is ignored. The navigation signal fires only after the
// slot is cleared and the store is anonymous. Safe when already anonymous.
func (g *Gateway) Logout(ctx context.Context) error {
	// Fire the server-side logout while the token is still attached.
	_ = g.api.Post(WithSilentFailure(ctx), "/api/auth/logout", nil, nil)

	if err := g.slot.Clear(ctx); err != nil {
		return err
	}
	g.store.SetAnonymous()
	if g.onLoggedOut != nil {
		g.onLoggedOut()
	}
	g.log.Info(ctx, "logged out")
	return nil
}

// UpdateProfile is the explicit profile-update flow, the only way a user
// record changes while a session is active.
func (g *Gateway) UpdateProfile(ctx context.Context, username, email string) (session.User, error) {
	var resp userResponse
	in := map[string]string{"username": username, "email": email}
	if err := g.api.Put(ctx, "/api/user/profile", in, &resp); err != nil {
		return session.User{}, err
	}

	u := resp.user()
	if tok, err := g.slot.Token(ctx); err == nil && tok != "" {
		if err := g.slot.Save(ctx, tok, u); err != nil {
			g.log.Warn(ctx, "refreshing cached user failed", "error", err)
		}
	}
	g.store.SetAuthenticated(u)
	return u, nil
}
