package screens

import (
	"context"
	"fmt"
	"sync"

	"campusclub/client/api"
	"campusclub/internal/tsync"
)

// Panel is the president's dashboard: the managed club's header and its
// aggregate stats, fetched in parallel.
type Panel struct {
	deps Deps

	mu     sync.Mutex
	clubID int64
	club   *api.Club
	stats  *api.ClubStats
}

func NewPanel(deps Deps) *Panel {
	return &Panel{deps: deps}
}

// Open requires a cached president club and fetches the header and stats
// together. On failure the previous snapshot stays visible.
func (p *Panel) Open(ctx context.Context) error {
	clubID, _, ok := p.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}

	var (
		club  *api.Club
		stats *api.ClubStats
	)
	group := tsync.NewErrorGroup()
	group.Go(func() error {
		var err error
		if club, err = p.deps.API.Club(ctx, clubID); err != nil {
			return fmt.Errorf("failed to fetch club header: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		if stats, err = p.deps.API.ClubStats(ctx, clubID); err != nil {
			return fmt.Errorf("failed to fetch club stats: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clubID = clubID
	p.club = club
	p.stats = stats
	return nil
}

func (p *Panel) Club() *api.Club {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.club
}

func (p *Panel) Stats() *api.ClubStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
