package api

import (
	"context"
	"fmt"
)

func (c *Client) Profile(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, fmt.Sprintf("/api/profil/%d", userID), &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

type ProfileUpdate struct {
	FullName    string `json:"adSoyad,omitempty"`
	OldPassword string `json:"eskiSifre,omitempty"`
	NewPassword string `json:"yeniSifre,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error {
	if err := c.put(ctx, fmt.Sprintf("/api/profil/%d", userID), update, nil); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
