package api

import (
	"context"
	"fmt"
)

// MemberDues lists the dues charged to one club membership.
func (c *Client) MemberDues(ctx context.Context, memberID int64) ([]Due, error) {
	var dues []Due
	if err := c.get(ctx, fmt.Sprintf("/api/uye/%d/aidatlar", memberID), &dues); err != nil {
		return nil, fmt.Errorf("failed to fetch member dues: %w", err)
	}
	return dues, nil
}

type DueDraft struct {
	MemberID int64  `json:"uyeId"`
	Amount   string `json:"tutar"`
	Period   string `json:"donem"`
}

func (c *Client) CreateDue(ctx context.Context, draft DueDraft) (*MutationResponse, error) {
	var resp MutationResponse
	if err := c.post(ctx, "/api/baskan/aidat-ekle", draft, &resp); err != nil {
		return nil, fmt.Errorf("failed to create due: %w", err)
	}
	return &resp, nil
}

// MarkDuePaid flips a due to paid. The server stamps the payment date; the
// transition is one-directional, this client never marks a due unpaid.
func (c *Client) MarkDuePaid(ctx context.Context, dueID int64) error {
	if err := c.put(ctx, fmt.Sprintf("/api/aidat/%d/odeme", dueID), map[string]any{
		"odendi": true,
	}, nil); err != nil {
		return fmt.Errorf("failed to mark due paid: %w", err)
	}
	return nil
}
