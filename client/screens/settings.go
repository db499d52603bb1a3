package screens

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"campusclub/client/api"
	"campusclub/client/controller"
)

// ClubSettings is the president's club profile editor: name and description,
// with the AI description generator available as a pre-fill.
type ClubSettings struct {
	deps   Deps
	clubID int64
	form   *controller.Form

	mu   sync.Mutex
	club *api.Club
}

func NewClubSettings(deps Deps) *ClubSettings {
	return &ClubSettings{
		deps: deps,
		form: controller.NewForm(
			controller.Field{Name: "name", Label: "Club name", Required: true},
			controller.Field{Name: "description", Label: "Description"},
		),
	}
}

// Open requires a cached president club, fetches its current state and
// prefills the draft with it.
func (s *ClubSettings) Open(ctx context.Context) error {
	clubID, _, ok := s.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}
	s.clubID = clubID

	club, err := s.deps.API.Club(ctx, clubID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.club = club
	s.mu.Unlock()

	s.form.Open()
	s.form.Set("name", club.Name)
	s.form.Set("description", club.Description)
	return nil
}

func (s *ClubSettings) Club() *api.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.club
}

func (s *ClubSettings) Form() *controller.Form {
	return s.form
}

// SuggestDescription overwrites the description draft from the AI generator
// once a name has been typed.
func (s *ClubSettings) SuggestDescription(ctx context.Context) error {
	name := strings.TrimSpace(s.form.Get("name"))
	if name == "" {
		return &controller.ValidationError{Field: "name", Label: "Club name"}
	}
	description, err := s.deps.API.ClubDescription(ctx, name)
	if err != nil {
		return err
	}
	s.form.Set("description", description)
	return nil
}

// Save validates the draft, submits it and re-fetches the club so the
// screen shows the server's normalized record. The cached club name is
// written through so the president surface picks the rename up without a
// new role resolution.
func (s *ClubSettings) Save(ctx context.Context) error {
	name := strings.TrimSpace(s.form.Get("name"))
	description := strings.TrimSpace(s.form.Get("description"))
	s.form.Set("name", name)
	s.form.Set("description", description)
	if err := s.form.Validate(); err != nil {
		return err
	}

	if err := s.deps.API.UpdateClub(ctx, s.clubID, name, description); err != nil {
		return err
	}

	if err := s.deps.Session.SetPresidentClub(ctx, s.clubID, name); err != nil {
		return fmt.Errorf("failed to update cached club name: %w", err)
	}
	return s.Open(ctx)
}
