package api

import (
	"context"
	"fmt"
)

// Assistant sends one chat message to the AI assistant and returns its
// reply. The assistant only answers questions about the club system itself.
func (c *Client) Assistant(ctx context.Context, message string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.post(ctx, "/ai/assistant", map[string]any{
		"message": message,
	}, &resp); err != nil {
		return "", fmt.Errorf("failed to query assistant: %w", err)
	}
	return resp.Reply, nil
}

// ClubDescription drafts a short club description from a club name, used to
// pre-fill the create-club form.
func (c *Client) ClubDescription(ctx context.Context, clubName string) (string, error) {
	var resp struct {
		Description string `json:"description"`
	}
	if err := c.post(ctx, "/ai/club-description", map[string]any{
		"clubName": clubName,
	}, &resp); err != nil {
		return "", fmt.Errorf("failed to generate club description: %w", err)
	}
	return resp.Description, nil
}

type EventSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// SuggestEvent asks the AI for an event idea to pre-fill the event form.
func (c *Client) SuggestEvent(ctx context.Context, clubName string) (*EventSuggestion, error) {
	var resp EventSuggestion
	if err := c.post(ctx, "/ai/event-suggestion", map[string]any{
		"clubName": clubName,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate event suggestion: %w", err)
	}
	return &resp, nil
}
