package api

import (
	"context"
	"fmt"
)

// MemberTasks lists the tasks assigned to one club membership.
func (c *Client) MemberTasks(ctx context.Context, memberID int64) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, fmt.Sprintf("/api/uye/%d/gorevler", memberID), &tasks); err != nil {
		return nil, fmt.Errorf("failed to fetch member tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].Status = NormalizeTaskStatus(string(tasks[i].Status))
	}
	return tasks, nil
}

type TaskDraft struct {
	MemberID    int64  `json:"uyeId"`
	Title       string `json:"baslik"`
	Description string `json:"aciklama"`
	DueDate     string `json:"sonTarih"`
}

func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*MutationResponse, error) {
	var resp MutationResponse
	if err := c.post(ctx, "/api/baskan/gorev-ekle", draft, &resp); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status TaskStatus) error {
	if err := c.put(ctx, fmt.Sprintf("/api/gorev/%d/durum", taskID), map[string]any{
		"durum": string(status),
	}, nil); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/api/baskan/gorev/%d", taskID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
