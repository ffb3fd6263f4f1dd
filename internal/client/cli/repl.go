package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Themes(ctx context.Context) error
	Toggle(ctx context.Context, arg string) error
	Feed(ctx context.Context) error
	Read(ctx context.Context, arg string) error
	Post(ctx context.Context) error
	Comment(ctx context.Context, arg string) error
	Notices(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the MDD client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers and
// the notification bus surface their own failures. This keeps the loop
// resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mdd (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: feed, read <id>, post, comment <id>, themes, toggle <id>, profile, whoami, notices, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "themes":
			_ = a.Themes(ctx)

		case "toggle":
			if arg == "" {
				printlnFn("Usage: toggle <theme id>")
				continue
			}
			_ = a.Toggle(ctx, arg)

		case "feed":
			_ = a.Feed(ctx)

		case "read":
			if arg == "" {
				printlnFn("Usage: read <article id>")
				continue
			}
			_ = a.Read(ctx, arg)

		case "post":
			_ = a.Post(ctx)

		case "comment":
			if arg == "" {
				printlnFn("Usage: comment <article id>")
				continue
			}
			_ = a.Comment(ctx, arg)

		case "notices":
			_ = a.Notices(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
