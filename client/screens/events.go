package screens

import (
	"context"
	"fmt"

	"campusclub/client/api"
	"campusclub/client/controller"
)

// Events is the president's event management screen.
type Events struct {
	deps   Deps
	clubID int64
	list   *controller.List[api.Event]
	form   *controller.Form
}

func NewEvents(deps Deps) *Events {
	s := &Events{
		deps: deps,
		form: controller.NewForm(
			controller.Field{Name: "title", Label: "Title", Required: true},
			controller.Field{Name: "description", Label: "Description"},
			controller.Field{Name: "date", Label: "Date", Required: true},
			controller.Field{Name: "time", Label: "Time"},
			controller.Field{Name: "location", Label: "Location"},
		),
	}
	s.list = controller.New(controller.Config[api.Event]{
		Fetch: func(ctx context.Context) ([]api.Event, error) {
			return deps.API.ClubEvents(ctx, s.clubID)
		},
		ID:        func(e api.Event) int64 { return e.ID },
		Confirmer: deps.Confirmer,
		Logger:    deps.logger(),
	})
	return s
}

// Open resolves the managed club from the session store and loads the list.
// Without a cached president club the screen refuses to fetch.
func (s *Events) Open(ctx context.Context) error {
	clubID, _, ok := s.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}
	s.clubID = clubID
	return s.list.Load(ctx)
}

func (s *Events) List() *controller.List[api.Event] {
	return s.list
}

func (s *Events) Form() *controller.Form {
	return s.form
}

// Suggest pre-fills the open draft from the AI event suggestion. The draft
// stays editable; nothing is submitted.
func (s *Events) Suggest(ctx context.Context, clubName string) error {
	suggestion, err := s.deps.API.SuggestEvent(ctx, clubName)
	if err != nil {
		return err
	}
	s.form.Set("title", suggestion.Title)
	s.form.Set("description", suggestion.Description)
	s.form.Set("location", suggestion.Location)
	return nil
}

// Create validates the draft locally, posts it, refetches the list and
// closes the dialog. A failed call keeps the draft open for correction.
func (s *Events) Create(ctx context.Context) error {
	if err := s.form.Validate(); err != nil {
		return err
	}
	draft := api.EventDraft{
		ClubID:      s.clubID,
		Title:       s.form.Get("title"),
		Description: s.form.Get("description"),
		Date:        s.form.Get("date"),
		Time:        s.form.Get("time"),
		Location:    s.form.Get("location"),
	}
	err := s.list.Apply(ctx, controller.Mutation[api.Event]{
		Strategy: controller.StrategyRefetch,
		Call: func(ctx context.Context) error {
			_, err := s.deps.API.CreateEvent(ctx, draft)
			return err
		},
	})
	if err != nil {
		return err
	}
	s.form.Close()
	return nil
}

// Delete asks for confirmation, then removes the event locally only after
// the server acknowledged.
func (s *Events) Delete(ctx context.Context, eventID int64) error {
	return s.list.Apply(ctx, controller.Mutation[api.Event]{
		Strategy: controller.StrategyPatchOnSuccess,
		Prompt:   fmt.Sprintf("Delete event %d? This cannot be undone.", eventID),
		Patch:    s.list.RemoveByID(eventID),
		Call: func(ctx context.Context) error {
			return s.deps.API.DeleteEvent(ctx, eventID)
		},
	})
}
