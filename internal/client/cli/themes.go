package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/EmySim/mdd/internal/client/router"
)

// Themes navigates to the themes surface and lists every theme with the
// caller's subscription flag.
func (a *App) Themes(ctx context.Context) error {
	if reached, err := a.router.Navigate(ctx, router.RouteThemes); err != nil || reached != router.RouteThemes {
		return err
	}

	themes, err := a.themes.List(ctx)
	if err != nil {
		return err
	}

	for _, t := range themes {
		mark := " "
		if t.IsSubscribed {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("[%s] %3d  %s (%d subscribers)", mark, t.ID, t.Name, t.SubscribersCount))
	}
	printlnFn("(* = subscribed; 'toggle <id>' to change)")
	return nil
}

// Toggle flips the subscription of one theme optimistically. While the
// confirming call is in flight the theme's control is disabled: a second
// toggle prints a hint instead of issuing a competing call.
func (a *App) Toggle(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Usage: toggle <theme id>")
		return nil
	}

	if err := a.themes.ToggleSubscription(ctx, id); err != nil {
		if msg, ok := inFlightMessage(err); ok {
			printlnFn(msg)
			return nil
		}
		return err
	}

	if t, ok := a.themes.Theme(id); ok {
		if t.IsSubscribed {
			printlnFn("Subscribed to " + t.Name)
		} else {
			printlnFn("Unsubscribed from " + t.Name)
		}
	}
	return nil
}
