// Package cli is the terminal surface of the MDD client: a REPL whose
// commands map to the application's surfaces, driven by the session
// store, the guards and the notification bus.
package cli

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/EmySim/mdd/internal/client/api"
	"github.com/EmySim/mdd/internal/client/config"
	"github.com/EmySim/mdd/internal/client/localdb"
	"github.com/EmySim/mdd/internal/client/notify"
	"github.com/EmySim/mdd/internal/client/router"
	"github.com/EmySim/mdd/internal/client/services"
	"github.com/EmySim/mdd/internal/client/session"
	"github.com/EmySim/mdd/internal/client/token"
	"github.com/EmySim/mdd/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	store    *session.Store
	bus      *notify.Bus
	gateway  *api.Gateway
	themes   *services.ThemeService
	articles *services.ArticleService
	router   *router.Router
	reader   *bufio.Reader

	// busy disables re-submission while an auth call is in flight.
	mu   sync.Mutex
	busy bool
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Init(ctx, cfg.CachePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	store := session.NewStore()
	bus := notify.NewBus()
	rtr := router.New(store, log)
	slot := token.NewSlot(db)

	ic := api.NewInterceptor(slot, store, bus, log, rtr.ForceLogin)
	client := api.NewClient(cfg.ServerBaseURL, ic)
	gateway := api.NewGateway(client, slot, store, bus, log, rtr.ForceLogin)

	return &App{
		config:   cfg,
		log:      log,
		store:    store,
		bus:      bus,
		gateway:  gateway,
		themes:   services.NewThemeService(client),
		articles: services.NewArticleService(client),
		router:   rtr,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run resolves the initial session, lands on the first permitted surface
// and starts the REPL. The toast renderer is torn down when Run returns.
func (a *App) Run(ctx context.Context) {
	stopToasts := a.startToastRenderer(ctx)
	defer stopToasts()

	// The check runs concurrently; the first navigation below blocks in
	// its guard until the session has resolved, so a still-valid token
	// lands on the feed instead of bouncing to the login page.
	go a.gateway.CheckSession(ctx)

	if _, err := a.router.Navigate(ctx, router.RouteFeed); err != nil {
		return
	}

	printlnFn("Welcome to MDD (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// status is the REPL prompt suffix: current user and surface.
func (a *App) status() string {
	s := string(a.router.Current())
	if u := a.store.CurrentUser(); u != nil {
		s = u.Username + " " + s
	}
	return s
}

func (a *App) isLoggedIn() bool {
	return a.store.State() == session.StateAuthenticated
}

// beginCall marks an auth call in flight; it returns false when another
// one has not resolved yet, so a double submit never issues two calls.
func (a *App) beginCall() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	return true
}

func (a *App) endCall() {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
}

// startToastRenderer subscribes to the notification bus and prints every
// displayed notification as a transient toast line. The returned stop
// func releases the subscription.
func (a *App) startToastRenderer(ctx context.Context) func() {
	ch, cancel := a.bus.Subscribe()
	go func() {
		for n := range ch {
			if n == nil {
				continue
			}
			printlnFn("[" + string(n.Kind) + "] " + n.Title + ": " + n.Message)
			for field, msg := range n.Fields {
				printlnFn("  - " + field + ": " + msg)
			}
		}
	}()
	return cancel
}
