// Package role answers "is this user a president, and of which club" and
// keeps the session store's cached answer reconciled with the server.
package role

import (
	"context"
	"fmt"
	"log/slog"

	"campusclub/client/api"
)

// Capability is what the navigation layer branches on. Screens never query
// role state themselves; they receive one of these.
type Capability struct {
	IsPresident bool
	ClubID      int64
	ClubName    string
}

// API is the slice of the remote client the resolver consumes.
type API interface {
	PresidentClubOf(ctx context.Context, userID int64) (*api.PresidentClub, error)
}

// Cache is the slice of the session store the resolver reconciles into.
type Cache interface {
	PresidentClub(ctx context.Context) (int64, string, bool)
	SetPresidentClub(ctx context.Context, clubID int64, clubName string) error
	RemovePresidentClub(ctx context.Context) error
}

func NewResolver(remote API, cache Cache) *Resolver {
	return &Resolver{remote: remote, cache: cache}
}

type Resolver struct {
	remote API
	cache  Cache
}

// Resolve runs every time a role-dependent screen gains focus, not only on
// first mount; the server is authoritative and the answer can change
// between visits.
//
// Reconciliation: a definite yes overwrites the cache, a definite no
// deletes it, and any remote failure leaves the cache untouched and returns
// the capability of the last successful resolution along with the error, so
// an outage can never toggle the president surface on.
func (r *Resolver) Resolve(ctx context.Context, userID int64) (Capability, error) {
	resp, err := r.remote.PresidentClubOf(ctx, userID)
	if err != nil {
		return r.cached(ctx), fmt.Errorf("failed to resolve role: %w", err)
	}

	if !resp.IsPresident {
		if err = r.cache.RemovePresidentClub(ctx); err != nil {
			slog.Warn("failed to drop stale president cache", slog.Any("err", err))
		}
		return Capability{}, nil
	}

	if err = r.cache.SetPresidentClub(ctx, resp.ClubID, resp.ClubName); err != nil {
		slog.Warn("failed to cache president club", slog.Any("err", err))
	}
	return Capability{
		IsPresident: true,
		ClubID:      resp.ClubID,
		ClubName:    resp.ClubName,
	}, nil
}

func (r *Resolver) cached(ctx context.Context) Capability {
	clubID, clubName, ok := r.cache.PresidentClub(ctx)
	if !ok {
		return Capability{}
	}
	return Capability{IsPresident: true, ClubID: clubID, ClubName: clubName}
}
