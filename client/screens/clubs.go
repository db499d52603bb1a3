package screens

import (
	"context"
	"errors"
	"log/slog"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/role"
)

// ErrPresidentCannotLeave rejects a president leaving their own club. The
// server enforces the same rule; the pre-check just avoids the round trip.
var ErrPresidentCannotLeave = errors.New("presidents cannot leave their own club")

// Clubs is the member-facing club screen: the user's memberships on one tab,
// joinable clubs on the other.
type Clubs struct {
	deps   Deps
	userID int64

	mine      *controller.List[api.Membership]
	available *controller.List[api.Club]

	joinForm   *controller.Form
	createForm *controller.Form

	capability role.Capability
}

func NewClubs(deps Deps) *Clubs {
	s := &Clubs{
		deps: deps,
		joinForm: controller.NewForm(
			controller.Field{Name: "studentNo", Label: "Student number", Required: true},
			controller.Field{Name: "phone", Label: "Phone"},
		),
		createForm: controller.NewForm(
			controller.Field{Name: "name", Label: "Club name", Required: true},
			controller.Field{Name: "description", Label: "Description", Required: true},
		),
	}
	s.mine = controller.New(controller.Config[api.Membership]{
		Fetch: func(ctx context.Context) ([]api.Membership, error) {
			return deps.API.Memberships(ctx, s.userID)
		},
		ID:        func(m api.Membership) int64 { return m.ID },
		Confirmer: deps.Confirmer,
		Logger:    deps.logger(),
	})
	s.available = controller.New(controller.Config[api.Club]{
		Fetch:  s.fetchAvailable,
		ID:     func(c api.Club) int64 { return c.ID },
		Logger: deps.logger(),
	})
	return s
}

// Open loads both tabs and re-resolves the user's role; the screen runs the
// resolver on every focus, not only the first, because the answer can change
// between visits. A resolver failure keeps the last definite answer.
func (s *Clubs) Open(ctx context.Context) error {
	userID, ok := s.deps.Session.UserID(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	s.userID = userID

	capability, err := s.deps.Roles.Resolve(ctx, userID)
	if err != nil {
		s.deps.logger().Warn("role resolution failed, keeping cached answer", slog.Any("err", err))
	}
	s.capability = capability

	if err = s.mine.Load(ctx); err != nil {
		return err
	}
	return s.available.Load(ctx)
}

// Capability reports the role answer of the last Open.
func (s *Clubs) Capability() role.Capability {
	return s.capability
}

func (s *Clubs) Mine() *controller.List[api.Membership] {
	return s.mine
}

func (s *Clubs) Available() *controller.List[api.Club] {
	return s.available
}

func (s *Clubs) JoinForm() *controller.Form {
	return s.joinForm
}

func (s *Clubs) CreateForm() *controller.Form {
	return s.createForm
}

// fetchAvailable lists active clubs the user is not already a member of.
func (s *Clubs) fetchAvailable(ctx context.Context) ([]api.Club, error) {
	clubs, err := s.deps.API.Clubs(ctx)
	if err != nil {
		return nil, err
	}
	joined := make(map[int64]bool)
	for _, membership := range s.mine.Items() {
		if membership.Club != nil {
			joined[membership.Club.ID] = true
		}
	}
	available := clubs[:0]
	for _, club := range clubs {
		if !joined[club.ID] {
			available = append(available, club)
		}
	}
	return available, nil
}

// Join validates the join draft and submits a membership request, then
// reloads both tabs.
func (s *Clubs) Join(ctx context.Context, clubID int64) error {
	if err := s.joinForm.Validate(); err != nil {
		return err
	}
	studentNo := s.joinForm.Get("studentNo")
	phone := s.joinForm.Get("phone")
	err := s.available.Apply(ctx, controller.Mutation[api.Club]{
		Strategy: controller.StrategyRefetch,
		Call: func(ctx context.Context) error {
			return s.deps.API.JoinClub(ctx, clubID, s.userID, studentNo, phone)
		},
	})
	if err != nil {
		return err
	}
	s.joinForm.Close()
	return s.mine.Refresh(ctx)
}

// Leave asks for confirmation and ends the membership. Presidents are
// rejected before any call fires.
func (s *Clubs) Leave(ctx context.Context, membershipID int64) error {
	for _, membership := range s.mine.Items() {
		if membership.ID == membershipID && membership.Position == api.PositionPresident {
			return ErrPresidentCannotLeave
		}
	}
	return s.mine.Apply(ctx, controller.Mutation[api.Membership]{
		Strategy: controller.StrategyPatchOnSuccess,
		Prompt:   "Leave this club? This cannot be undone.",
		Patch:    s.mine.RemoveByID(membershipID),
		Call: func(ctx context.Context) error {
			return s.deps.API.LeaveClub(ctx, membershipID, s.userID)
		},
	})
}

// SuggestDescription pre-fills the create draft from the AI description
// generator once a name has been typed.
func (s *Clubs) SuggestDescription(ctx context.Context) error {
	name := s.createForm.Get("name")
	if name == "" {
		return &controller.ValidationError{Field: "name", Label: "Club name"}
	}
	description, err := s.deps.API.ClubDescription(ctx, name)
	if err != nil {
		return err
	}
	s.createForm.Set("description", description)
	return nil
}

// Create validates the club draft and submits it. The new club stays
// inactive until approved, so only the available tab is reloaded.
func (s *Clubs) Create(ctx context.Context) error {
	if err := s.createForm.Validate(); err != nil {
		return err
	}
	name := s.createForm.Get("name")
	description := s.createForm.Get("description")
	err := s.available.Apply(ctx, controller.Mutation[api.Club]{
		Strategy: controller.StrategyRefetch,
		Call: func(ctx context.Context) error {
			return s.deps.API.CreateClub(ctx, s.userID, name, description)
		},
	})
	if err != nil {
		return err
	}
	s.createForm.Close()
	return nil
}
