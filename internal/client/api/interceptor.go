package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/EmySim/mdd/internal/client/notify"
	"github.com/EmySim/mdd/internal/client/session"
	"github.com/EmySim/mdd/internal/logging"
)

// publicEndpoints need no credentials and get no interceptor-side failure
// handling: their failures belong to the auth gateway.
var publicEndpoints = []string{
	"/api/auth/login",
	"/api/auth/register",
}

// TokenSource yields the current bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Interceptor is an http.RoundTripper applied to every outbound API call.
// It attaches the bearer token to non-public requests, and on failure runs
// the uniform policy before the caller ever sees the response:
//
//   - 401: the session is force-invalidated (store set to anonymous) and
//     the login redirect is signalled. This is the only path besides
//     explicit logout that invalidates a session.
//   - 400, 403, 404, 409, 422, 5xx and transport failures: forwarded to the
//     notification bus with a status default, unless the caller attached
//     a more specific message via WithFailureMessage.
//
// It never retries.
type Interceptor struct {
	base   http.RoundTripper
	tokens TokenSource
	store  *session.Store
	bus    *notify.Bus
	log    logging.Logger

	// onInvalidated signals the router to leave protected surfaces.
	onInvalidated func()
}

func NewInterceptor(tokens TokenSource, store *session.Store, bus *notify.Bus, log logging.Logger, onInvalidated func()) *Interceptor {
	return &Interceptor{
		base:          http.DefaultTransport,
		tokens:        tokens,
		store:         store,
		bus:           bus,
		log:           log,
		onInvalidated: onInvalidated,
	}
}

func isPublic(path string) bool {
	for _, p := range publicEndpoints {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (ic *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	public := isPublic(req.URL.Path)

	if !public {
		tok, err := ic.tokens.Token(ctx)
		if err != nil {
			ic.log.Warn(ctx, "reading credential slot failed", "error", err)
		}
		if tok != "" {
			// Clone before mutating: RoundTrippers must not modify the
			// caller's request.
			req = req.Clone(ctx)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := ic.base.RoundTrip(req)
	if err != nil {
		if !public {
			ic.log.Warn(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
			if !silentFailure(ctx) {
				ic.bus.PublishHTTPError(0, failureMessage(ctx))
			}
		}
		return nil, err
	}

	if public || resp.StatusCode < 400 {
		return resp, nil
	}

	ic.log.Warn(ctx, "request rejected", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// Invalidate first: when the caller's error handler runs, the
		// session state must already be anonymous.
		ic.store.SetAnonymous()
		if ic.onInvalidated != nil {
			ic.onInvalidated()
		}
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound,
		http.StatusConflict, http.StatusUnprocessableEntity:
		if !silentFailure(ctx) {
			ic.bus.PublishHTTPError(resp.StatusCode, failureMessage(ctx))
		}
	default:
		if resp.StatusCode >= 500 && !silentFailure(ctx) {
			ic.bus.PublishHTTPError(resp.StatusCode, failureMessage(ctx))
		}
	}

	return resp, nil
}
