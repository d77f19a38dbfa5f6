package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/plms/internal/client/client"
	"github.com/dmitrijs2005/plms/internal/client/config"
	"github.com/dmitrijs2005/plms/internal/client/models"
	"github.com/dmitrijs2005/plms/internal/client/session"
	"github.com/dmitrijs2005/plms/internal/logging"
)

const pageSize = 20

type App struct {
	config  *config.Config
	api     client.Client
	session *session.Controller
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	return newApp(c, api, os.Stdin, os.Stdout, logger), nil
}

func newApp(c *config.Config, api client.Client, in io.Reader, out io.Writer, logger logging.Logger) *App {
	a := &App{
		config:  c,
		api:     api,
		session: session.NewController(api, logger),
		reader:  bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
	a.session.OnChange(a.render)
	return a
}

// render prints the view that matches a session transition.
func (a *App) render(s session.State, u *models.User) {
	switch s {
	case session.StateLoading:
		printlnFn("Checking session...")
	case session.StateLogin:
		printlnFn("Not signed in. Type 'login' to sign in.")
	case session.StateAuthenticated:
		printlnFn("Signed in as " + u.Name + ". Type 'logout' to sign out.")
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateAuthenticated
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return "(" + u.Name + ")"
	}
	return ""
}

// Run checks for an existing session and then serves the REPL on the app's
// input until it ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("PLMS tool management (type 'help' for commands)")

	initCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	a.session.Init(initCtx)
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}
