package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pctl/internal/models"
)

// authResponse is the shape of the auth endpoints' success payload
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn authenticates with email and password and persists the session
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	reqBody := map[string]string{
		"email":    email,
		"password": password,
	}

	var response authResponse
	if err := c.auth(ctx, "token?grant_type=password", reqBody, &response); err != nil {
		return nil, err
	}

	session := sessionFromResponse(&response)
	if session.AccessToken == "" {
		return nil, fmt.Errorf("no access token found in server response")
	}

	c.setSession(session)
	return session, nil
}

// SignUp registers a new account. A valid invite code auto-approves the new
// profile; otherwise the account waits for admin approval. The profile row is
// created here because the auth service only manages credentials.
func (c *Client) SignUp(ctx context.Context, email, password, name, inviteCode string) (*models.Session, bool, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))

	autoApprove := false
	if inviteCode != "" {
		var codes []models.InviteCode
		q := Query{Filters: []Filter{Eq("code", inviteCode), EqBool("active", true)}}
		if err := c.Select(ctx, "invite_codes", q, &codes); err != nil {
			return nil, false, fmt.Errorf("error checking invite code: %w", err)
		}
		if len(codes) == 0 {
			return nil, false, fmt.Errorf("invalid invite code")
		}
		autoApprove = true
	}

	reqBody := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	var response authResponse
	if err := c.auth(ctx, "signup", reqBody, &response); err != nil {
		return nil, false, err
	}

	session := sessionFromResponse(&response)
	if session.UserID == "" {
		return nil, false, fmt.Errorf("no user returned by signup")
	}

	if session.AccessToken != "" {
		c.setSession(session)
	}

	profile := map[string]interface{}{
		"id":       session.UserID,
		"email":    session.Email,
		"role":     "user",
		"approved": autoApprove,
	}
	if inviteCode != "" {
		profile["invite_code"] = inviteCode
	}
	if err := c.Insert(ctx, "user_profiles", profile, nil); err != nil {
		return nil, false, fmt.Errorf("error creating profile: %w", err)
	}

	return session, autoApprove, nil
}

// SignOut notifies the server and clears the local session. The local state
// is cleared even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.session != nil && c.session.AccessToken != "" {
		endpoint := fmt.Sprintf("%s/auth/v1/logout", c.BaseURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
		if err != nil {
			return fmt.Errorf("error creating signout request: %w", err)
		}
		c.setAuthHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			c.log.WithError(err).Warn("server signout failed")
		} else {
			if err := resp.Body.Close(); err != nil {
				c.log.WithError(err).Warn("failed to close response body")
			}
		}
	}

	// Always clear local session regardless of server response
	c.setSession(nil)
	return nil
}

// Session returns the current session, or nil when signed out
func (c *Client) Session() *models.Session {
	return c.session
}

// Authenticated reports whether an unexpired session is present
func (c *Client) Authenticated() bool {
	return c.session != nil && !c.session.Expired(time.Now())
}

// OnSessionChange registers a callback invoked whenever the session is
// replaced or cleared.
func (c *Client) OnSessionChange(fn func(*models.Session)) {
	c.listeners = append(c.listeners, fn)
}

// setSession replaces the cached session, persists the change and notifies
// subscribers.
func (c *Client) setSession(session *models.Session) {
	c.session = session
	if c.sessions != nil {
		if session == nil {
			if err := c.sessions.Clear(); err != nil {
				c.log.WithError(err).Warn("failed to clear session file")
			}
		} else {
			if err := c.sessions.Save(session); err != nil {
				c.log.WithError(err).Warn("failed to save session file")
			}
		}
	}
	for _, fn := range c.listeners {
		fn(session)
	}
}

// auth posts to an auth endpoint and decodes the response
func (c *Client) auth(ctx context.Context, path string, body, dest interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/auth/v1/%s", c.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.WithError(err).Warn("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// sessionFromResponse builds a session from an auth payload. Expiry comes
// from the access token's exp claim, falling back to expires_in.
func sessionFromResponse(r *authResponse) *models.Session {
	session := &models.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		UserID:       r.User.ID,
		Email:        r.User.Email,
	}

	if exp, ok := tokenExpiry(r.AccessToken); ok {
		session.ExpiresAt = exp
	} else if r.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}

	return session
}

// tokenExpiry reads the exp claim of a JWT without verifying the signature.
// Verification belongs to the server; the client only needs the expiry to
// know when to re-authenticate.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
