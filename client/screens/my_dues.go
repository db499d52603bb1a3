package screens

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/internal/tsync"
)

// MyDues is the member's own dues screen. It is read-only; members see what
// they owe, only the president marks dues paid.
type MyDues struct {
	deps   Deps
	userID int64
	list   *controller.List[api.Due]
}

func NewMyDues(deps Deps) *MyDues {
	s := &MyDues{deps: deps}
	s.list = controller.New(controller.Config[api.Due]{
		Fetch:  s.fetch,
		ID:     func(d api.Due) int64 { return d.ID },
		Logger: deps.logger(),
	})
	return s
}

func (s *MyDues) Open(ctx context.Context) error {
	userID, ok := s.deps.Session.UserID(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	s.userID = userID
	return s.list.Load(ctx)
}

func (s *MyDues) List() *controller.List[api.Due] {
	return s.list
}

// Summary totals the visible dues.
func (s *MyDues) Summary() DuesSummary {
	var summary DuesSummary
	for _, due := range s.list.Items() {
		summary.Total += due.Amount
		if due.Paid {
			summary.Paid += due.Amount
		} else {
			summary.Outstanding += due.Amount
		}
	}
	return summary
}

func (s *MyDues) fetch(ctx context.Context) ([]api.Due, error) {
	memberships, err := s.deps.API.Memberships(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	var (
		duesMu sync.Mutex
		dues   []api.Due
	)
	group := tsync.NewErrorGroup()
	group.SetLimit(4)
	for _, membership := range memberships {
		group.Go(func() error {
			memberDues, err := s.deps.API.MemberDues(ctx, membership.ID)
			if err != nil {
				return fmt.Errorf("membership %d: %w", membership.ID, err)
			}
			for i := range memberDues {
				if membership.Club != nil {
					memberDues[i].MemberName = membership.Club.Name
				}
			}
			duesMu.Lock()
			dues = append(dues, memberDues...)
			duesMu.Unlock()
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		s.deps.logger().Warn("skipped memberships while loading dues", slog.Any("err", err))
	}
	return dues, nil
}
