// Package client assembles the campus club SDK: configuration, the session
// store, the API client and the screens built on top of them.
package client

import (
	"fmt"
	"log/slog"
	"net/http"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/role"
	"campusclub/client/screens"
	"campusclub/client/session"
)

// App owns the long-lived pieces every screen shares.
type App struct {
	Config  Config
	Session *session.Store
	API     *api.Client
	Roles   *role.Resolver
	Screens screens.Deps
}

// New opens the session store and wires the API client with the store as its
// token source.
func New(cfg Config, confirmer controller.Confirmer) (*App, error) {
	store, err := session.New(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	apiClient := api.New(cfg.API, &http.Client{}, store)
	resolver := role.NewResolver(apiClient, store)

	return &App{
		Config:  cfg,
		Session: store,
		API:     apiClient,
		Roles:   resolver,
		Screens: screens.Deps{
			API:       apiClient,
			Session:   store,
			Roles:     resolver,
			Confirmer: confirmer,
			Logger:    slog.Default(),
		},
	}, nil
}

func (a *App) Close() error {
	return a.Session.Close()
}
