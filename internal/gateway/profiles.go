package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pctl/internal/models"
)

// PendingProfiles lists profiles awaiting admin approval, newest first
func (c *Client) PendingProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	q := Query{
		Filters: []Filter{EqBool("approved", false)},
		Order:   []Order{Desc("created_at")},
	}
	if err := c.Select(ctx, "user_profiles", q, &profiles); err != nil {
		return nil, fmt.Errorf("error listing pending profiles: %w", err)
	}
	return profiles, nil
}

// ApprovedProfiles lists approved non-admin profiles, newest first
func (c *Client) ApprovedProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	q := Query{
		Filters: []Filter{
			EqBool("approved", true),
			{Column: "role", Op: "neq", Value: "admin"},
		},
		Order: []Order{Desc("created_at")},
	}
	if err := c.Select(ctx, "user_profiles", q, &profiles); err != nil {
		return nil, fmt.Errorf("error listing approved profiles: %w", err)
	}
	return profiles, nil
}

// ApproveProfile marks a pending profile as approved
func (c *Client) ApproveProfile(ctx context.Context, profileID string) error {
	patch := map[string]interface{}{"approved": true}
	if err := c.Update(ctx, "user_profiles", patch, []Filter{Eq("id", profileID)}); err != nil {
		return fmt.Errorf("error approving profile: %w", err)
	}
	return nil
}

// RejectProfile removes a pending profile
func (c *Client) RejectProfile(ctx context.Context, profileID string) error {
	if err := c.Delete(ctx, "user_profiles", []Filter{Eq("id", profileID)}); err != nil {
		return fmt.Errorf("error rejecting profile: %w", err)
	}
	return nil
}

// ActiveInviteCode returns the caller's currently active invite code, or ""
func (c *Client) ActiveInviteCode(ctx context.Context, userID string) (string, error) {
	var codes []models.InviteCode
	q := Query{Filters: []Filter{Eq("created_by", userID), EqBool("active", true)}}
	if err := c.Select(ctx, "invite_codes", q, &codes); err != nil {
		return "", fmt.Errorf("error fetching invite code: %w", err)
	}
	if len(codes) == 0 {
		return "", nil
	}
	return codes[0].Code, nil
}

// GenerateInviteCode deactivates the caller's previous codes and creates a
// fresh one.
func (c *Client) GenerateInviteCode(ctx context.Context, userID string) (string, error) {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	patch := map[string]interface{}{"active": false}
	if err := c.Update(ctx, "invite_codes", patch, []Filter{Eq("created_by", userID)}); err != nil {
		return "", fmt.Errorf("error deactivating previous codes: %w", err)
	}

	row := models.InviteCode{Code: code, CreatedBy: userID, Active: true}
	if err := c.Insert(ctx, "invite_codes", row, nil); err != nil {
		return "", fmt.Errorf("error creating invite code: %w", err)
	}

	return code, nil
}

// Profile fetches a single profile by user id
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var profiles []models.Profile
	q := Query{Filters: []Filter{Eq("id", userID)}}
	if err := c.Select(ctx, "user_profiles", q, &profiles); err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile not found")
	}
	return &profiles[0], nil
}
