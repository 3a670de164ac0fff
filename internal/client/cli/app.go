// Package cli is the interactive terminal front of the Gowear client: a
// REPL dispatching to the identity flows, the session manager, and the
// catalog commands.
package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/gowear/gowear/internal/client/api"
	"github.com/gowear/gowear/internal/client/config"
	"github.com/gowear/gowear/internal/client/repositories/metadata"
	"github.com/gowear/gowear/internal/client/session"
	"github.com/gowear/gowear/internal/client/store"
)

type App struct {
	config  *config.Config
	client  api.Client
	session *session.Manager
	store   *store.Store
	reader  *bufio.Reader
	out     io.Writer

	userEmail string
	userName  string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	st, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	client := api.NewHTTPClient(c.APIBaseURL)

	return &App{
		config:  c,
		client:  client,
		session: session.NewManager(client, c.RefreshInterval),
		store:   st,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// bootstrapSession performs the silent login: a refresh token persisted by
// "keep me logged in" is exchanged for a fresh access token. Failures are
// logged only; the user simply appears logged out.
func (a *App) bootstrapSession(ctx context.Context) {
	token, err := a.store.Metadata.Get(ctx, metadata.KeyRefreshToken)
	if err != nil || len(token) == 0 {
		return
	}

	if err := a.session.Bootstrap(ctx, string(token)); err != nil {
		log.Printf("silent login failed: %s", err.Error())
		_ = a.store.Metadata.Clear(ctx)
		return
	}

	if user, err := a.client.Me(ctx, a.session.AccessToken()); err == nil {
		a.userEmail = user.Email
		a.userName = user.Name
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.store.Close()

	a.bootstrapSession(ctx)

	a.session.OnExpired = func() {
		printlnFn("Session expired, please log in again.")
	}
	go a.session.Run(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// status renders the REPL prompt's session indicator.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return "logged out"
	}
	if a.userEmail != "" {
		return a.userEmail
	}
	return "logged in"
}
