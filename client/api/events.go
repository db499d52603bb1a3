package api

import (
	"context"
	"fmt"
)

func (c *Client) ClubEvents(ctx context.Context, clubID int64) ([]Event, error) {
	var events []Event
	if err := c.get(ctx, fmt.Sprintf("/api/kulup/%d/etkinlikler", clubID), &events); err != nil {
		return nil, fmt.Errorf("failed to fetch club events: %w", err)
	}
	return events, nil
}

// UpcomingEvents lists future events across all clubs, ordered by date.
func (c *Client) UpcomingEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.get(ctx, "/api/etkinlikler", &events); err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming events: %w", err)
	}
	return events, nil
}

type EventDraft struct {
	ClubID      int64  `json:"kulupId"`
	Title       string `json:"baslik"`
	Description string `json:"aciklama"`
	Date        string `json:"tarih"`
	Time        string `json:"saat"`
	Location    string `json:"konum"`
}

func (c *Client) CreateEvent(ctx context.Context, draft EventDraft) (*MutationResponse, error) {
	if draft.Time == "" {
		draft.Time = "00:00"
	}
	var resp MutationResponse
	if err := c.post(ctx, "/api/baskan/etkinlik-ekle", draft, &resp); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &resp, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/api/baskan/etkinlik/%d", eventID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
