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

// DuesSummary is the header block of the dues screen, derived client-side
// from the aggregated list.
type DuesSummary struct {
	Total       float64
	Paid        float64
	Outstanding float64
}

// Dues is the president's dues management screen, aggregated per member the
// same way the task screen is.
type Dues struct {
	deps   Deps
	clubID int64
	list   *controller.List[api.Due]
	form   *controller.Form

	mu      sync.Mutex
	members []api.Membership
}

func NewDues(deps Deps) *Dues {
	s := &Dues{
		deps: deps,
		form: controller.NewForm(
			controller.Field{Name: "amount", Label: "Amount", Required: true},
			controller.Field{Name: "period", Label: "Period", Required: true},
		),
	}
	s.list = controller.New(controller.Config[api.Due]{
		Fetch:     s.fetch,
		ID:        func(d api.Due) int64 { return d.ID },
		Confirmer: deps.Confirmer,
		Logger:    deps.logger(),
	})
	return s
}

func (s *Dues) Open(ctx context.Context) error {
	clubID, _, ok := s.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}
	s.clubID = clubID
	return s.list.Load(ctx)
}

func (s *Dues) List() *controller.List[api.Due] {
	return s.list
}

func (s *Dues) Form() *controller.Form {
	return s.form
}

func (s *Dues) fetch(ctx context.Context) ([]api.Due, error) {
	members, err := s.deps.API.ClubMembers(ctx, s.clubID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members = members
	s.mu.Unlock()

	var (
		duesMu sync.Mutex
		dues   []api.Due
	)
	group := tsync.NewErrorGroup()
	group.SetLimit(4)
	for _, member := range members {
		group.Go(func() error {
			memberDues, err := s.deps.API.MemberDues(ctx, member.ID)
			if err != nil {
				return fmt.Errorf("member %d: %w", member.ID, err)
			}
			for i := range memberDues {
				if member.User != nil {
					memberDues[i].MemberName = member.User.FullName
				}
			}
			duesMu.Lock()
			dues = append(dues, memberDues...)
			duesMu.Unlock()
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		s.deps.logger().Warn("skipped members while aggregating dues", slog.Any("err", err))
	}
	return dues, nil
}

// Summary totals the visible list.
func (s *Dues) Summary() DuesSummary {
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

// Filter returns only the paid or only the unpaid dues of the visible list.
func (s *Dues) Filter(paid bool) []api.Due {
	var filtered []api.Due
	for _, due := range s.list.Items() {
		if due.Paid == paid {
			filtered = append(filtered, due)
		}
	}
	return filtered
}

// AssignToAll validates the draft and posts one due per current member, then
// refetches. Members that fail keep the rest of the batch going.
func (s *Dues) AssignToAll(ctx context.Context) error {
	if err := s.form.Validate(); err != nil {
		return err
	}
	amount := s.form.Get("amount")
	period := s.form.Get("period")

	s.mu.Lock()
	members := s.members
	s.mu.Unlock()

	err := s.list.Apply(ctx, controller.Mutation[api.Due]{
		Strategy: controller.StrategyRefetch,
		Call: func(ctx context.Context) error {
			group := tsync.NewErrorGroup()
			group.SetLimit(4)
			for _, member := range members {
				group.Go(func() error {
					_, err := s.deps.API.CreateDue(ctx, api.DueDraft{
						MemberID: member.ID,
						Amount:   amount,
						Period:   period,
					})
					if err != nil {
						return fmt.Errorf("member %d: %w", member.ID, err)
					}
					return nil
				})
			}
			return group.Wait()
		},
	})
	if err != nil {
		return err
	}
	s.form.Close()
	return nil
}

// MarkPaid asks for confirmation, then flips the due to paid. The local flip
// happens only via refetch, so the paid date shown is always the
// server-stamped one. A due already paid is left alone; paid never reverts
// to unpaid.
func (s *Dues) MarkPaid(ctx context.Context, dueID int64) error {
	for _, due := range s.list.Items() {
		if due.ID == dueID && due.Paid {
			return nil
		}
	}
	return s.list.Apply(ctx, controller.Mutation[api.Due]{
		Strategy: controller.StrategyRefetch,
		Prompt:   fmt.Sprintf("Mark due %d as paid? This cannot be undone.", dueID),
		Call: func(ctx context.Context) error {
			return s.deps.API.MarkDuePaid(ctx, dueID)
		},
	})
}
