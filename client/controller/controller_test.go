package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"campusclub/client/api"
)

type item struct {
	ID   int64
	Name string
}

func itemID(i item) int64 { return i.ID }

type fetchScript struct {
	mu      sync.Mutex
	results [][]item
	errs    []error
	calls   int
}

func (f *fetchScript) fetch(ctx context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], f.errs[i]
}

func TestLoadPopulatesItems(t *testing.T) {
	script := &fetchScript{
		results: [][]item{{{1, "a"}, {2, "b"}}},
		errs:    []error{nil},
	}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})

	if err := list.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %s", err)
	}
	if list.Phase() != PhaseReady {
		t.Errorf("expected ready, got %s", list.Phase())
	}
	if len(list.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(list.Items()))
	}
}

func TestLoadFailureKeepsPriorItems(t *testing.T) {
	script := &fetchScript{
		results: [][]item{{{1, "a"}}, nil},
		errs:    []error{nil, &api.Error{Kind: api.ErrorKindHTTP5xx}},
	}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})

	if err := list.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %s", err)
	}
	if err := list.Refresh(context.Background()); err == nil {
		t.Fatal("expected the refresh error surfaced")
	}

	if list.Phase() != PhaseReady {
		t.Errorf("expected ready after a failed refresh, got %s", list.Phase())
	}
	if len(list.Items()) != 1 {
		t.Errorf("a failed refresh must keep the stale items, got %d", len(list.Items()))
	}
	if list.Err() == "" {
		t.Error("expected a user-facing error message")
	}
}

func TestRefreshKeepsStaleItemsVisibleWhileFetching(t *testing.T) {
	first := true
	started := make(chan struct{})
	release := make(chan struct{})
	list := New(Config[item]{
		Fetch: func(ctx context.Context) ([]item, error) {
			if first {
				first = false
				return []item{{1, "a"}, {2, "b"}}, nil
			}
			close(started)
			<-release
			return nil, nil
		},
		ID: itemID,
	})
	_ = list.Load(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = list.Refresh(context.Background())
	}()
	<-started

	if list.Phase() != PhaseRefreshing {
		t.Errorf("expected refreshing, got %s", list.Phase())
	}
	if len(list.Items()) != 2 {
		t.Error("the stale items must stay visible until the new data arrives")
	}
	close(release)
	<-done

	if len(list.Items()) != 0 {
		t.Error("the list empties only after the refresh completed empty")
	}
}

func TestRefreshReplacesWithEmptyResult(t *testing.T) {
	script := &fetchScript{
		results: [][]item{{{1, "a"}}, {}},
		errs:    []error{nil, nil},
	}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})

	_ = list.Load(context.Background())
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %s", err)
	}
	if len(list.Items()) != 0 {
		t.Errorf("an empty server answer empties the list, got %d items", len(list.Items()))
	}
	if list.Err() != "" {
		t.Errorf("expected the error cleared, got %q", list.Err())
	}
}

func TestMutationBusyGate(t *testing.T) {
	script := &fetchScript{results: [][]item{{{1, "a"}}}, errs: []error{nil}}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})
	_ = list.Load(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = list.Apply(context.Background(), Mutation[item]{
			Strategy: StrategyPatchOnSuccess,
			Call: func(ctx context.Context) error {
				close(started)
				<-release
				return nil
			},
		})
	}()
	<-started

	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Call:     func(ctx context.Context) error { return nil },
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while a mutation is in flight, got %v", err)
	}
	close(release)
}

func TestMutationDuringRefreshIsRejected(t *testing.T) {
	calls := 0
	started := make(chan struct{})
	release := make(chan struct{})
	list := New(Config[item]{
		Fetch: func(ctx context.Context) ([]item, error) {
			calls++
			if calls == 2 {
				close(started)
				<-release
			}
			return []item{{1, "a"}}, nil
		},
		ID: itemID,
	})
	_ = list.Load(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = list.Refresh(context.Background())
	}()
	<-started

	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Patch:    list.RemoveByID(1),
		Call:     func(ctx context.Context) error { return nil },
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy during an in-flight refresh, got %v", err)
	}
	close(release)
	<-done

	// The screen must not stay blocked afterwards.
	if list.Phase() != PhaseReady {
		t.Fatalf("expected ready after the refresh settled, got %s", list.Phase())
	}
	if err = list.Refresh(context.Background()); err != nil {
		t.Errorf("refresh after the overlap failed: %v", err)
	}
	if err = list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Patch:    list.RemoveByID(1),
		Call:     func(ctx context.Context) error { return nil },
	}); err != nil {
		t.Errorf("mutation after the overlap failed: %v", err)
	}
}

func TestMutationConfirmGate(t *testing.T) {
	called := false
	list := New(Config[item]{
		Fetch:     (&fetchScript{results: [][]item{{{1, "a"}}}, errs: []error{nil}}).fetch,
		ID:        itemID,
		Confirmer: ConfirmerFunc(func(prompt string) bool { return false }),
	})
	_ = list.Load(context.Background())

	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Prompt:   "Delete item 1? This cannot be undone.",
		Patch:    list.RemoveByID(1),
		Call: func(ctx context.Context) error {
			called = true
			return nil
		},
	})
	if !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if called {
		t.Error("a declined confirmation must not fire the network call")
	}
	if len(list.Items()) != 1 {
		t.Error("a declined confirmation must not touch the items")
	}
}

func TestPatchOnSuccessOnlyAfterCall(t *testing.T) {
	list := New(Config[item]{
		Fetch:     (&fetchScript{results: [][]item{{{1, "a"}, {2, "b"}}}, errs: []error{nil}}).fetch,
		ID:        itemID,
		Confirmer: ConfirmerFunc(func(string) bool { return true }),
	})
	_ = list.Load(context.Background())

	// Failing call: nothing removed.
	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Prompt:   "Delete?",
		Patch:    list.RemoveByID(1),
		Call: func(ctx context.Context) error {
			return &api.Error{Kind: api.ErrorKindHTTP4xx, Message: "Bulunamadı"}
		},
	})
	if err == nil {
		t.Fatal("expected the call error surfaced")
	}
	if len(list.Items()) != 2 {
		t.Error("a failed delete must not remove the item")
	}
	if list.Err() != "Bulunamadı" {
		t.Errorf("expected the server message, got %q", list.Err())
	}

	// Successful call: removed.
	err = list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyPatchOnSuccess,
		Prompt:   "Delete?",
		Patch:    list.RemoveByID(1),
		Call:     func(ctx context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("delete failed: %s", err)
	}
	if len(list.Items()) != 1 || list.Items()[0].ID != 2 {
		t.Errorf("expected item 1 removed, got %+v", list.Items())
	}
}

func TestOptimisticNoRollbackKeepsPatchOnFailure(t *testing.T) {
	list := New(Config[item]{
		Fetch: (&fetchScript{results: [][]item{{{1, "a"}}}, errs: []error{nil}}).fetch,
		ID:    itemID,
	})
	_ = list.Load(context.Background())

	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyOptimisticNoRollback,
		Patch: list.UpdateByID(1, func(i item) item {
			i.Name = "updated"
			return i
		}),
		Call: func(ctx context.Context) error {
			return &api.Error{Kind: api.ErrorKindNetwork}
		},
	})
	if err == nil {
		t.Fatal("expected the call error surfaced")
	}
	if list.Items()[0].Name != "updated" {
		t.Error("the optimistic patch must stay applied, no rollback")
	}
	if list.Err() == "" {
		t.Error("expected the failure recorded for the user")
	}
}

func TestRefetchReloadsAfterSuccess(t *testing.T) {
	script := &fetchScript{
		results: [][]item{{{1, "a"}}, {{1, "a"}, {2, "server-added"}}},
		errs:    []error{nil, nil},
	}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})
	_ = list.Load(context.Background())

	err := list.Apply(context.Background(), Mutation[item]{
		Strategy: StrategyRefetch,
		Call:     func(ctx context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("mutation failed: %s", err)
	}
	if len(list.Items()) != 2 {
		t.Errorf("expected the refetched collection, got %+v", list.Items())
	}
}

func TestClosedControllerDiscardsResults(t *testing.T) {
	script := &fetchScript{results: [][]item{{{1, "a"}}}, errs: []error{nil}}
	list := New(Config[item]{Fetch: script.fetch, ID: itemID})
	list.Close()

	if err := list.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if len(list.Items()) != 0 {
		t.Error("a closed controller must not accept results")
	}
}
