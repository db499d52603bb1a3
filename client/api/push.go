package api

import (
	"context"
	"fmt"
)

// RegisterPushToken reports a device push token for a user. Registration is
// best effort: callers log failures and never surface them or block on them.
func (c *Client) RegisterPushToken(ctx context.Context, userID int64, token string) error {
	if err := c.post(ctx, "/api/push-token", map[string]any{
		"userId": userID,
		"token":  token,
	}, nil); err != nil {
		return fmt.Errorf("failed to register push token: %w", err)
	}
	return nil
}
