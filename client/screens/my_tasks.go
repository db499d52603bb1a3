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

// MyTasks is the member's own task screen, merged across all of the user's
// memberships. Status changes are applied optimistically and kept even when
// the call fails; the failure is surfaced and the next refresh resyncs.
type MyTasks struct {
	deps   Deps
	userID int64
	list   *controller.List[api.Task]
}

func NewMyTasks(deps Deps) *MyTasks {
	s := &MyTasks{deps: deps}
	s.list = controller.New(controller.Config[api.Task]{
		Fetch:  s.fetch,
		ID:     func(t api.Task) int64 { return t.ID },
		Logger: deps.logger(),
	})
	return s
}

func (s *MyTasks) Open(ctx context.Context) error {
	userID, ok := s.deps.Session.UserID(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	s.userID = userID
	return s.list.Load(ctx)
}

func (s *MyTasks) List() *controller.List[api.Task] {
	return s.list
}

func (s *MyTasks) fetch(ctx context.Context) ([]api.Task, error) {
	memberships, err := s.deps.API.Memberships(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	var (
		tasksMu sync.Mutex
		tasks   []api.Task
	)
	group := tsync.NewErrorGroup()
	group.SetLimit(4)
	for _, membership := range memberships {
		group.Go(func() error {
			memberTasks, err := s.deps.API.MemberTasks(ctx, membership.ID)
			if err != nil {
				return fmt.Errorf("membership %d: %w", membership.ID, err)
			}
			for i := range memberTasks {
				if membership.Club != nil {
					memberTasks[i].AssigneeName = membership.Club.Name
				}
			}
			tasksMu.Lock()
			tasks = append(tasks, memberTasks...)
			tasksMu.Unlock()
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		s.deps.logger().Warn("skipped memberships while loading tasks", slog.Any("err", err))
	}
	return tasks, nil
}

// NextStatus is the tap cycle on a task card.
func NextStatus(status api.TaskStatus) api.TaskStatus {
	switch status {
	case api.TaskStatusPending:
		return api.TaskStatusInProgress
	case api.TaskStatusInProgress:
		return api.TaskStatusDone
	default:
		return api.TaskStatusDone
	}
}

// SetStatus flips the card immediately, then reports the change. A failed
// call leaves the optimistic value in place; Err carries the message and a
// refresh restores the server's truth.
func (s *MyTasks) SetStatus(ctx context.Context, taskID int64, status api.TaskStatus) error {
	return s.list.Apply(ctx, controller.Mutation[api.Task]{
		Strategy: controller.StrategyOptimisticNoRollback,
		Patch: s.list.UpdateByID(taskID, func(t api.Task) api.Task {
			t.Status = status
			return t
		}),
		Call: func(ctx context.Context) error {
			return s.deps.API.UpdateTaskStatus(ctx, taskID, status)
		},
	})
}
