package screens

import (
	"context"

	"campusclub/client/api"
	"campusclub/client/controller"
)

// Upcoming is the cross-club event feed every user sees. Read-only; signing
// in is not required to browse it.
type Upcoming struct {
	deps Deps
	list *controller.List[api.Event]
}

func NewUpcoming(deps Deps) *Upcoming {
	s := &Upcoming{deps: deps}
	s.list = controller.New(controller.Config[api.Event]{
		Fetch: func(ctx context.Context) ([]api.Event, error) {
			return deps.API.UpcomingEvents(ctx)
		},
		ID:     func(e api.Event) int64 { return e.ID },
		Logger: deps.logger(),
	})
	return s
}

func (s *Upcoming) Open(ctx context.Context) error {
	return s.list.Load(ctx)
}

func (s *Upcoming) List() *controller.List[api.Event] {
	return s.list
}
