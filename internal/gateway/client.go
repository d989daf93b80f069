package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"pctl/internal/models"
)

// Client talks to the hosted table store over its REST interface
type Client struct {
	// Base URL of the data service
	BaseURL string

	// Anonymous API key sent with every request
	APIKey string

	// HTTP client with a timeout
	client *http.Client

	// Session store for the authenticated user
	sessions *models.SessionStore

	// Cached session, loaded lazily from the store
	session *models.Session

	// Subscribers notified on session change
	listeners []func(*models.Session)

	log *logrus.Logger
}

// NewClient creates a new gateway client
func NewClient(baseURL, apiKey string, sessions *models.SessionStore, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}

	c := &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		sessions: sessions,
		log:      log,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if sessions != nil {
		if stored, err := sessions.Get(); err == nil && stored.AccessToken != "" {
			c.session = stored
		}
	}

	return c
}

// Select fetches rows from a table
func (c *Client) Select(ctx context.Context, table string, q Query, dest interface{}) error {
	return c.rest(ctx, http.MethodGet, table, q.encode(), nil, dest, "")
}

// Insert writes rows into a table. When dest is non-nil the server is asked
// to return the inserted representation and the rows are decoded into it.
func (c *Client) Insert(ctx context.Context, table string, rows interface{}, dest interface{}) error {
	prefer := "return=minimal"
	if dest != nil {
		prefer = "return=representation"
	}
	return c.rest(ctx, http.MethodPost, table, nil, rows, dest, prefer)
}

// Update patches the rows matching the filters
func (c *Client) Update(ctx context.Context, table string, patch interface{}, filters []Filter) error {
	return c.rest(ctx, http.MethodPatch, table, Query{Filters: filters}.encode(), patch, nil, "")
}

// Delete removes the rows matching the filters
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	return c.rest(ctx, http.MethodDelete, table, Query{Filters: filters}.encode(), nil, nil, "")
}

// rest issues one request against the table endpoint
func (c *Client) rest(ctx context.Context, method, table string, params url.Values, body, dest interface{}, prefer string) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshalling request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	c.setAuthHeaders(req)

	c.log.WithFields(logrus.Fields{"table": table, "op": method}).Debug("gateway call")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.WithError(err).Warn("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// setAuthHeaders attaches the API key and, when a session exists, the user's
// bearer token.
func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.APIKey)
	if c.session != nil && c.session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

// readError turns a non-2xx response into a *Error
func readError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	message := ""
	if err := json.Unmarshal(bodyBytes, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			message = parsed.Message
		case parsed.Msg != "":
			message = parsed.Msg
		case parsed.ErrorDescription != "":
			message = parsed.ErrorDescription
		}
	}
	if message == "" {
		message = string(bodyBytes)
	}

	return &Error{Status: resp.StatusCode, Message: message}
}
