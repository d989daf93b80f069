package models

import (
	"time"
)

// Session contains an authenticated user session
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session's access token has passed its expiry.
// A zero ExpiresAt means the expiry is unknown and the session is kept.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}

// Profile represents a user_profiles row
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Approved   bool      `json:"approved"`
	InviteCode *string   `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// InviteCode represents an invite_codes row
type InviteCode struct {
	ID        string    `json:"id,omitempty"`
	Code      string    `json:"code"`
	CreatedBy string    `json:"created_by"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
