package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"pctl/internal/models"
)

// signedToken builds a syntactically valid JWT with the given expiry
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authTestClient(t *testing.T, baseURL string) (*Client, *models.SessionStore) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := models.NewSessionStore(t.TempDir())
	return NewClient(baseURL, "anon-key", store, log), store
}

func TestSignInStoresSession(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, expiry)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey header = %q", got)
		}
		io.WriteString(w, `{
			"access_token": "`+token+`",
			"refresh_token": "refresh-1",
			"expires_in": 60,
			"user": {"id": "u1", "email": "dev@example.com"}
		}`)
	}))
	defer server.Close()

	c, store := authTestClient(t, server.URL)

	session, err := c.SignIn(context.Background(), "dev@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if session.UserID != "u1" || session.Email != "dev@example.com" {
		t.Fatalf("session = %+v", session)
	}
	// Expiry comes from the token's exp claim, not expires_in
	if !session.ExpiresAt.Equal(expiry) {
		t.Fatalf("expires at = %v, want %v", session.ExpiresAt, expiry)
	}
	if !c.Authenticated() {
		t.Fatal("client not authenticated after sign in")
	}

	stored, err := store.Get()
	if err != nil {
		t.Fatalf("stored session: %v", err)
	}
	if stored.AccessToken != token {
		t.Fatal("session not persisted")
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error_description":"Invalid login credentials"}`)
	}))
	defer server.Close()

	c, _ := authTestClient(t, server.URL)

	if _, err := c.SignIn(context.Background(), "dev@example.com", "wrong"); err == nil {
		t.Fatal("expected sign in to fail")
	}
	if c.Authenticated() {
		t.Fatal("client authenticated after failed sign in")
	}
}

func TestSignOutClearsLocalSessionDespiteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, store := authTestClient(t, server.URL)
	c.setSession(&models.Session{AccessToken: "tok", UserID: "u1"})

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if c.Session() != nil {
		t.Fatal("session survived sign out")
	}
	if _, err := store.Get(); !os.IsNotExist(err) {
		t.Fatalf("session file still readable: %v", err)
	}
}

func TestSignUpRejectsInvalidInvite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/invite_codes" {
			io.WriteString(w, `[]`)
			return
		}
		t.Errorf("unexpected call to %s", r.URL.Path)
	}))
	defer server.Close()

	c, _ := authTestClient(t, server.URL)

	_, _, err := c.SignUp(context.Background(), "dev@example.com", "secret", "Dev", "nope1234")
	if err == nil {
		t.Fatal("expected invalid invite error")
	}
}

func TestSignUpWithInviteAutoApproves(t *testing.T) {
	var profile map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/invite_codes":
			io.WriteString(w, `[{"code":"ABCD1234","active":true,"created_by":"admin"}]`)
		case "/auth/v1/signup":
			io.WriteString(w, `{"user": {"id": "u2", "email": "new@example.com"}}`)
		case "/rest/v1/user_profiles":
			if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
				t.Errorf("decode profile: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected call to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c, _ := authTestClient(t, server.URL)

	session, approved, err := c.SignUp(context.Background(), "new@example.com", "secret", "New Dev", "abcd1234")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if !approved {
		t.Fatal("valid invite should auto-approve")
	}
	if session.UserID != "u2" {
		t.Fatalf("session user = %q", session.UserID)
	}
	if profile["approved"] != true || profile["invite_code"] != "ABCD1234" {
		t.Fatalf("profile row = %v", profile)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, ok := tokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("expected expiry from valid token")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}

	if _, ok := tokenExpiry(""); ok {
		t.Fatal("empty token should have no expiry")
	}
	if _, ok := tokenExpiry("not-a-jwt"); ok {
		t.Fatal("garbage token should have no expiry")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	var nilSession *models.Session
	if !nilSession.Expired(now) {
		t.Fatal("nil session should be expired")
	}
	if !(&models.Session{}).Expired(now) {
		t.Fatal("tokenless session should be expired")
	}
	if (&models.Session{AccessToken: "tok"}).Expired(now) {
		t.Fatal("session without expiry should be kept")
	}
	if (&models.Session{AccessToken: "tok", ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatal("future expiry reported as expired")
	}
	if !(&models.Session{AccessToken: "tok", ExpiresAt: now.Add(-time.Minute)}).Expired(now) {
		t.Fatal("past expiry not reported")
	}
}
