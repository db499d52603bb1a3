package api

import (
	"context"
	"fmt"
)

// Clubs lists every active club a user could request to join.
func (c *Client) Clubs(ctx context.Context) ([]Club, error) {
	var clubs []Club
	if err := c.get(ctx, "/api/kulupler", &clubs); err != nil {
		return nil, fmt.Errorf("failed to fetch clubs: %w", err)
	}
	return clubs, nil
}

func (c *Client) Club(ctx context.Context, clubID int64) (*Club, error) {
	var club Club
	if err := c.get(ctx, fmt.Sprintf("/api/kulup/%d", clubID), &club); err != nil {
		return nil, fmt.Errorf("failed to fetch club %d: %w", clubID, err)
	}
	return &club, nil
}

func (c *Client) ClubStats(ctx context.Context, clubID int64) (*ClubStats, error) {
	var stats ClubStats
	if err := c.get(ctx, fmt.Sprintf("/api/kulup/%d/istatistikler", clubID), &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch club stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) ClubMembers(ctx context.Context, clubID int64) ([]Membership, error) {
	var members []Membership
	if err := c.get(ctx, fmt.Sprintf("/api/kulup/%d/uyeler", clubID), &members); err != nil {
		return nil, fmt.Errorf("failed to fetch club members: %w", err)
	}
	return members, nil
}

func (c *Client) Memberships(ctx context.Context, userID int64) ([]Membership, error) {
	var memberships []Membership
	if err := c.get(ctx, fmt.Sprintf("/api/uye/%d/uyelikler", userID), &memberships); err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}
	return memberships, nil
}

// CreateClub submits a new club; it stays inactive until an admin approves
// it server-side.
func (c *Client) CreateClub(ctx context.Context, userID int64, name string, description string) error {
	if err := c.post(ctx, "/api/kulup-olustur", map[string]any{
		"userId":   userID,
		"ad":       name,
		"aciklama": description,
	}, nil); err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// UpdateClub saves the club's name and description. President only,
// enforced server-side.
func (c *Client) UpdateClub(ctx context.Context, clubID int64, name string, description string) error {
	if err := c.put(ctx, fmt.Sprintf("/api/kulup/%d", clubID), map[string]any{
		"ad":       name,
		"aciklama": description,
	}, nil); err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}

// JoinClub submits a join request; approval is server-authoritative.
func (c *Client) JoinClub(ctx context.Context, clubID int64, userID int64, studentNo string, phone string) error {
	if err := c.post(ctx, fmt.Sprintf("/api/kulup/%d/katil", clubID), map[string]any{
		"userId":    userID,
		"ogrenciNo": studentNo,
		"telefon":   phone,
	}, nil); err != nil {
		return fmt.Errorf("failed to join club: %w", err)
	}
	return nil
}

func (c *Client) LeaveClub(ctx context.Context, membershipID int64, userID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/api/uyelik/%d/ayril", membershipID), map[string]any{
		"userId": userID,
	}, nil); err != nil {
		return fmt.Errorf("failed to leave club: %w", err)
	}
	return nil
}

// PresidentClubOf asks whether the user presides over a club. The answer is
// authoritative; callers reconcile it into the session store.
func (c *Client) PresidentClubOf(ctx context.Context, userID int64) (*PresidentClub, error) {
	var resp PresidentClub
	if err := c.get(ctx, fmt.Sprintf("/api/user/%d/baskan-kulup", userID), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch president club: %w", err)
	}
	return &resp, nil
}
