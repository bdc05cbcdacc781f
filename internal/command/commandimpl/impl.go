package commandimpl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/command"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/notify"
	"github.com/minhanh2104/snapfeed-cli/internal/router"
	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	API      api.Client
	Feed     feed.Client
	Session  session.Service
	Router   router.Navigator
	Notifier notify.Notifier
	Logger   logger.Logger
}

type CommandImpl struct {
	API      api.Client
	Feed     feed.Client
	Session  session.Service
	Router   router.Navigator
	Notifier notify.Notifier
	Logger   logger.Logger

	in  io.Reader
	out io.Writer
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		API:      opts.API,
		Feed:     opts.Feed,
		Session:  opts.Session,
		Router:   opts.Router,
		Notifier: opts.Notifier,
		Logger:   opts.Logger.WithComponent("Command"),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

var _ command.Client = (*CommandImpl)(nil)

// Run reads commands line by line until quit or EOF.
func (c *CommandImpl) Run(ctx context.Context) error {
	c.Router.Navigate(router.RouteRoot)
	fmt.Fprintln(c.out, "snapfeed — type 'help' for commands")

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprintf(c.out, "%s> ", c.Router.Current())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, line); err != nil {
			c.Logger.Debug("Command failed", "line", line, "error", err)
		}
	}
}

func (c *CommandImpl) dispatch(ctx context.Context, line string) error {
	name, rest := splitWord(line)

	switch name {
	case "help":
		c.printHelp()
		return nil
	case "login":
		email, password := splitWord(rest)
		return c.logIn(ctx, email, strings.TrimSpace(password))
	case "signup":
		parts := strings.Fields(rest)
		if len(parts) < 3 {
			fmt.Fprintln(c.out, "usage: signup <name> <email> <password>")
			return nil
		}
		return c.signUp(ctx, parts[0], parts[1], parts[2])
	case "logout":
		return c.logOut(ctx)
	case "whoami":
		return c.whoAmI(ctx)
	case "posts":
		return c.showFeed(ctx)
	case "view":
		return c.viewPost(strings.TrimSpace(rest))
	case "like":
		return c.toggleLike(ctx, strings.TrimSpace(rest))
	case "create":
		return c.createPost(ctx, rest)
	case "edit":
		id, fields := splitWord(rest)
		return c.editPost(ctx, id, fields)
	case "delete":
		return c.deletePost(ctx, strings.TrimSpace(rest))
	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", name)
		return nil
	}
}

func (c *CommandImpl) printHelp() {
	fmt.Fprint(c.out, `commands:
  signup <name> <email> <password>
  login <email> <password>
  logout
  whoami
  posts
  view <id>
  like <id>
  create <title> | <description> | [location] | [image path]
  edit <id> <title> | <description> | [location] | [image path]
  delete <id>
  quit
`)
}

// guard routes the action through the navigation guard and reports whether
// the wanted route is actually rendered.
func (c *CommandImpl) guard(want string) bool {
	got := c.Router.Navigate(want)
	if got == want {
		return true
	}
	if want == router.RouteHome {
		fmt.Fprintln(c.out, "please log in first")
	} else {
		fmt.Fprintln(c.out, "already logged in")
	}
	return false
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
