// Package screens wires the API client, session store, role resolver and
// list controllers into the concrete screens of the club client. Management
// screens require a cached president club and refuse to fetch without one.
package screens

import (
	"errors"
	"log/slog"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/role"
	"campusclub/client/session"
)

// ErrNotPresident rejects opening a management screen without a definite
// president answer in the session store. No network call has happened.
var ErrNotPresident = errors.New("president access required")

// ErrNotLoggedIn rejects screens that need a signed-in user.
var ErrNotLoggedIn = errors.New("not logged in")

type Deps struct {
	API       *api.Client
	Session   *session.Store
	Roles     *role.Resolver
	Confirmer controller.Confirmer
	Logger    *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
