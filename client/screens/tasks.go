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

// Tasks is the president's task management screen. The backend has no
// club-wide task endpoint, so the screen fans out over the member list and
// aggregates per-member tasks; a member whose fetch fails is skipped instead
// of sinking the whole load.
type Tasks struct {
	deps   Deps
	clubID int64
	list   *controller.List[api.Task]
	form   *controller.Form

	mu      sync.Mutex
	members []api.Membership
}

func NewTasks(deps Deps) *Tasks {
	s := &Tasks{
		deps: deps,
		form: controller.NewForm(
			controller.Field{Name: "member", Label: "Assignee", Required: true},
			controller.Field{Name: "title", Label: "Title", Required: true},
			controller.Field{Name: "description", Label: "Description"},
			controller.Field{Name: "dueDate", Label: "Due date"},
		),
	}
	s.list = controller.New(controller.Config[api.Task]{
		Fetch:     s.fetch,
		ID:        func(t api.Task) int64 { return t.ID },
		Confirmer: deps.Confirmer,
		Logger:    deps.logger(),
	})
	return s
}

func (s *Tasks) Open(ctx context.Context) error {
	clubID, _, ok := s.deps.Session.PresidentClub(ctx)
	if !ok {
		return ErrNotPresident
	}
	s.clubID = clubID
	return s.list.Load(ctx)
}

func (s *Tasks) List() *controller.List[api.Task] {
	return s.list
}

func (s *Tasks) Form() *controller.Form {
	return s.form
}

// Members returns the club members of the last load, for the assignee
// picker.
func (s *Tasks) Members() []api.Membership {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members
}

func (s *Tasks) fetch(ctx context.Context) ([]api.Task, error) {
	members, err := s.deps.API.ClubMembers(ctx, s.clubID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members = members
	s.mu.Unlock()

	var (
		tasksMu sync.Mutex
		tasks   []api.Task
	)
	group := tsync.NewErrorGroup()
	group.SetLimit(4)
	for _, member := range members {
		group.Go(func() error {
			memberTasks, err := s.deps.API.MemberTasks(ctx, member.ID)
			if err != nil {
				return fmt.Errorf("member %d: %w", member.ID, err)
			}
			for i := range memberTasks {
				if member.User != nil {
					memberTasks[i].AssigneeName = member.User.FullName
				}
			}
			tasksMu.Lock()
			tasks = append(tasks, memberTasks...)
			tasksMu.Unlock()
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		s.deps.logger().Warn("skipped members while aggregating tasks", slog.Any("err", err))
	}
	return tasks, nil
}

// Create validates the draft, posts the task to the selected member and
// refetches the aggregate.
func (s *Tasks) Create(ctx context.Context, memberID int64) error {
	if err := s.form.Validate(); err != nil {
		return err
	}
	draft := api.TaskDraft{
		MemberID:    memberID,
		Title:       s.form.Get("title"),
		Description: s.form.Get("description"),
		DueDate:     s.form.Get("dueDate"),
	}
	err := s.list.Apply(ctx, controller.Mutation[api.Task]{
		Strategy: controller.StrategyRefetch,
		Call: func(ctx context.Context) error {
			_, err := s.deps.API.CreateTask(ctx, draft)
			return err
		},
	})
	if err != nil {
		return err
	}
	s.form.Close()
	return nil
}

func (s *Tasks) Delete(ctx context.Context, taskID int64) error {
	return s.list.Apply(ctx, controller.Mutation[api.Task]{
		Strategy: controller.StrategyPatchOnSuccess,
		Prompt:   fmt.Sprintf("Delete task %d? This cannot be undone.", taskID),
		Patch:    s.list.RemoveByID(taskID),
		Call: func(ctx context.Context) error {
			return s.deps.API.DeleteTask(ctx, taskID)
		},
	})
}
