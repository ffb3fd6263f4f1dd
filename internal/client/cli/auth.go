package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/EmySim/mdd/internal/client/optimistic"
	"github.com/EmySim/mdd/internal/client/router"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and runs the explicit
// register-then-login chain. On success the user lands on the feed.
// Failures are surfaced through the notification bus by the gateway.
func (a *App) Register(ctx context.Context) error {
	if !a.beginCall() {
		printlnFn("A request is already in flight, please wait")
		return nil
	}
	defer a.endCall()

	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.gateway.RegisterAndLogin(ctx, username, email, password); err != nil {
		return err
	}

	printlnFn("Welcome, " + username + "!")
	_, err = a.router.Navigate(ctx, router.RouteFeed)
	return err
}

// Login prompts for credentials and authenticates. A failed attempt leaves
// the session exactly as it was.
func (a *App) Login(ctx context.Context) error {
	if !a.beginCall() {
		printlnFn("A request is already in flight, please wait")
		return nil
	}
	defer a.endCall()

	identifier, err := getSimpleText(a.reader, "Enter email or username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.gateway.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	printlnFn("Welcome back, " + user.Username + "!")
	_, err = a.router.Navigate(ctx, router.RouteFeed)
	return err
}

// Logout invalidates the session; the gateway signals the navigation away
// from protected surfaces once the local state is cleared.
func (a *App) Logout(ctx context.Context) error {
	if err := a.gateway.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the current session state.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.store.CurrentUser()
	if u == nil {
		printlnFn("Not logged in (" + a.store.State().String() + ")")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (id %d)", u.Username, u.Email, u.ID))
	return nil
}

// Profile navigates to the profile surface and offers the explicit
// profile-update flow.
func (a *App) Profile(ctx context.Context) error {
	if reached, err := a.router.Navigate(ctx, router.RouteProfile); err != nil || reached != router.RouteProfile {
		return err
	}

	u := a.store.CurrentUser()
	printlnFn(fmt.Sprintf("Profile: %s <%s>", u.Username, u.Email))

	username, err := getSimpleText(a.reader, "New username (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if username == "" && email == "" {
		return nil
	}
	if username == "" {
		username = u.Username
	}
	if email == "" {
		email = u.Email
	}

	updated, err := a.gateway.UpdateProfile(ctx, username, email)
	if err != nil {
		return err
	}
	printlnFn("Profile updated: " + updated.Username + " <" + updated.Email + ">")
	return nil
}

// inFlightMessage converts the optimistic guard rejection into a user hint.
func inFlightMessage(err error) (string, bool) {
	if errors.Is(err, optimistic.ErrInFlight) {
		return "That subscription is still being updated, hold on", true
	}
	return "", false
}
