// Package controller implements the list-screen pattern every management
// screen shares: a collection loaded from the remote API, a loading versus
// refreshing distinction, and mutations whose reconciliation strategy is an
// explicit parameter instead of a per-screen accident.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"campusclub/client/api"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseRefreshing Phase = "refreshing"
	PhaseMutating   Phase = "mutating"
)

// Strategy names how a mutation reconciles local items with the server.
type Strategy string

const (
	// StrategyRefetch reloads the whole collection after a successful call.
	// Correctness over latency; used by every create.
	StrategyRefetch Strategy = "refetch"
	// StrategyPatchOnSuccess applies the local patch only after the server
	// call succeeded. Not speculative; used by deletes.
	StrategyPatchOnSuccess Strategy = "patch-on-success"
	// StrategyOptimisticNoRollback applies the local patch before the call
	// and keeps it even if the call fails; the failure is still recorded
	// and surfaced. Used by the self-service task status change.
	StrategyOptimisticNoRollback Strategy = "optimistic-no-rollback"
)

var (
	// ErrBusy rejects a second mutation while one is in flight. Taps during
	// a mutation are ignored, never interleaved.
	ErrBusy = errors.New("another operation is in progress")
	// ErrClosed reports that the owning screen is gone; late results are
	// discarded instead of written into dead state.
	ErrClosed = errors.New("screen closed")
	// ErrNotConfirmed reports a declined confirmation prompt. No network
	// call has happened.
	ErrNotConfirmed = errors.New("cancelled")
)

// Confirmer acknowledges destructive or irreversible actions. Every delete
// and every mark-paid asks it before any network call fires.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

type Config[T any] struct {
	// Fetch loads the full collection for the screen's scope.
	Fetch func(ctx context.Context) ([]T, error)
	// ID extracts the record identity used by patch-on-success removal.
	ID func(T) int64
	// Confirmer guards destructive mutations. Required when any mutation
	// carries a prompt.
	Confirmer Confirmer
	Logger    *slog.Logger
}

func New[T any](cfg Config[T]) *List[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &List[T]{
		cfg:   cfg,
		phase: PhaseIdle,
	}
}

// List owns one screen's collection. All state transitions happen in
// response to discrete user actions, one at a time.
type List[T any] struct {
	mu      sync.Mutex
	cfg     Config[T]
	phase   Phase
	items   []T
	userErr string
	closed  bool
}

func (l *List[T]) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Items returns the currently visible collection.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Err returns the user-facing message of the last failed operation, empty
// after a success.
func (l *List[T]) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.userErr
}

// Close marks the owning screen as gone. Operations still in flight finish
// their network call but discard the result.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Load fetches the collection through the blank loading state. The screen
// always lands back in ready: on failure the prior items stay (empty on
// first load) and the error is surfaced.
func (l *List[T]) Load(ctx context.Context) error {
	return l.fetch(ctx, PhaseLoading)
}

// Refresh re-fetches while keeping the stale items visible. Pull-to-refresh
// must never blank the list; it may become empty only after the new data
// arrived empty.
func (l *List[T]) Refresh(ctx context.Context) error {
	return l.fetch(ctx, PhaseRefreshing)
}

func (l *List[T]) fetch(ctx context.Context, phase Phase) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.phase == PhaseMutating || l.phase == PhaseLoading || l.phase == PhaseRefreshing {
		l.mu.Unlock()
		return ErrBusy
	}
	l.phase = phase
	l.mu.Unlock()

	items, err := l.cfg.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.phase = PhaseReady
	if err != nil {
		l.userErr = api.UserMessageOf(err)
		l.cfg.Logger.Error("failed to load list", slog.Any("err", err))
		return err
	}
	l.items = items
	l.userErr = ""
	return nil
}

// Mutation is one create/update/delete against the collection.
type Mutation[T any] struct {
	Strategy Strategy
	// Prompt, when set, requires the confirmer to acknowledge before the
	// network call fires.
	Prompt string
	// Patch is the local reconciliation applied per the strategy. Nil for
	// refetch mutations.
	Patch func([]T) []T
	// Call performs the remote side of the mutation.
	Call func(ctx context.Context) error
}

// Apply runs one mutation under the screen's single-flight rule.
func (l *List[T]) Apply(ctx context.Context, m Mutation[T]) error {
	if m.Prompt != "" {
		if l.cfg.Confirmer == nil || !l.cfg.Confirmer.Confirm(m.Prompt) {
			return ErrNotConfirmed
		}
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	// A tap during an in-flight fetch is ignored too, or the mutation could
	// finish after the fetch and write a fetch phase back with nothing in
	// flight, blocking the screen for good.
	if l.phase == PhaseMutating || l.phase == PhaseLoading || l.phase == PhaseRefreshing {
		l.mu.Unlock()
		return ErrBusy
	}
	prevPhase := l.phase
	l.phase = PhaseMutating
	if m.Strategy == StrategyOptimisticNoRollback && m.Patch != nil {
		l.items = m.Patch(l.items)
	}
	l.mu.Unlock()

	err := m.Call(ctx)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.phase = prevPhase
	if err != nil {
		l.userErr = api.UserMessageOf(err)
		l.cfg.Logger.Error("mutation failed", slog.String("strategy", string(m.Strategy)), slog.Any("err", err))
		l.mu.Unlock()
		return err
	}
	l.userErr = ""
	if m.Strategy == StrategyPatchOnSuccess && m.Patch != nil {
		l.items = m.Patch(l.items)
	}
	l.mu.Unlock()

	if m.Strategy == StrategyRefetch {
		return l.Load(ctx)
	}
	return nil
}

// RemoveByID is the patch used by patch-on-success deletes.
func (l *List[T]) RemoveByID(id int64) func([]T) []T {
	return func(items []T) []T {
		return slices.DeleteFunc(items, func(item T) bool {
			return l.cfg.ID(item) == id
		})
	}
}

// UpdateByID is the patch used by optimistic status changes.
func (l *List[T]) UpdateByID(id int64, update func(T) T) func([]T) []T {
	return func(items []T) []T {
		for i, item := range items {
			if l.cfg.ID(item) == id {
				items[i] = update(item)
			}
		}
		return items
	}
}
