package tsync

import (
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NewErrorGroup returns a group that, unlike errgroup.Group, keeps running
// remaining tasks when one fails and reports every failure joined together.
// Screens use it to fan out per-member fetches where a single failing member
// must not sink the whole list.
func NewErrorGroup() *ErrorGroup {
	return &ErrorGroup{}
}

type ErrorGroup struct {
	mu     sync.Mutex
	errors []error
	eg     errgroup.Group
}

func (g *ErrorGroup) SetLimit(n int) {
	g.eg.SetLimit(n)
}

func (g *ErrorGroup) Go(fn func() error) {
	g.eg.Go(func() error {
		if err := fn(); err != nil {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.errors = append(g.errors, err)
		}
		return nil
	})
}

// Wait blocks until all tasks finish and returns the joined failures, if any.
func (g *ErrorGroup) Wait() error {
	_ = g.eg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errors...)
}
