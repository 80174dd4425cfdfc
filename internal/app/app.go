// ABOUTME: Wires the client's components together for commands and the TUI
// ABOUTME: One transport, one session machine, one cache per process

package app

import (
	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/config"
	"github.com/Games-on/arena-cli/internal/notify"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/session"
)

// App holds the wired component graph. The credential and the session are
// the only process-wide mutable state, and both live behind the session
// machine and token store built here.
type App struct {
	Config   *config.Config
	Notifier *notify.Notifier
	Tokens   *session.TokenStore
	Client   *api.Client
	Session  *session.Machine
	Cache    *cache.Cache
	Services *services.Registry
}

// New builds the component graph. apiURL, when non-empty, overrides the
// configured base URL (the --api-url flag).
func New(apiURL string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	notifier := notify.New()
	tokens := session.NewTokenStore(cfg.CredentialsPath)
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, tokens, notifier)

	store := cache.New(cfg.DefaultTTL)
	store.SetClassTTL(services.ClassNews, cfg.NewsTTL)
	store.SetClassTTL(services.ClassAdminNews, cfg.NewsTTL)

	mut := cache.NewCoordinator(store, notifier)
	registry := services.NewRegistry(client, store, mut)

	machine := session.New(registry.Auth, tokens)
	client.OnSessionExpired(machine.Expire)

	return &App{
		Config:   cfg,
		Notifier: notifier,
		Tokens:   tokens,
		Client:   client,
		Session:  machine,
		Cache:    store,
		Services: registry,
	}, nil
}
