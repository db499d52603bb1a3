package screens

import (
	"context"
	"fmt"

	"campusclub/client/api"
	"campusclub/client/controller"
)

// Members is the president's member management screen.
type Members struct {
	deps   Deps
	clubID int64
	list   *controller.List[api.Membership]
}

func NewMembers(deps Deps) *Members {
	s := &Members{deps: deps}
	s.list = controller.New(controller.Config[api.Membership]{
		Fetch: func(ctx context.Context) ([]api.Membership, error) {
			return deps.API.ClubMembers(ctx, s.clubID)
		},
		ID:        func(m api.Membership) int64 { return m.ID },
		Confirmer: deps.Confirmer,
		Logger:    deps.logger(),
	})
	return s
}

func (s *Members) Open(ctx context.Context) error {
	clubID, _, ok := s.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}
	s.clubID = clubID
	return s.list.Load(ctx)
}

func (s *Members) List() *controller.List[api.Membership] {
	return s.list
}

// PendingRequests is the screen's second tab. The backend exposes no
// pending-request endpoint; the member list only ever contains approved
// memberships, so the tab is empty until the API grows one.
func (s *Members) PendingRequests() []api.Membership {
	return nil
}

// Remove asks for confirmation, then ends the membership. Presidents cannot
// remove themselves here; they would be removing the club's own president.
func (s *Members) Remove(ctx context.Context, membershipID int64) error {
	var target *api.Membership
	for _, member := range s.list.Items() {
		if member.ID == membershipID {
			target = &member
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown membership %d", membershipID)
	}
	if target.Position == api.PositionPresident {
		return fmt.Errorf("cannot remove the club president")
	}
	if target.User == nil {
		return fmt.Errorf("membership %d carries no user record", membershipID)
	}
	userID := target.User.ID
	return s.list.Apply(ctx, controller.Mutation[api.Membership]{
		Strategy: controller.StrategyPatchOnSuccess,
		Prompt:   fmt.Sprintf("Remove member %d from the club? This cannot be undone.", membershipID),
		Patch:    s.list.RemoveByID(membershipID),
		Call: func(ctx context.Context) error {
			return s.deps.API.LeaveClub(ctx, membershipID, userID)
		},
	})
}
