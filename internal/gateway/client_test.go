package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"pctl/internal/models"
)

func testClient(baseURL string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(baseURL, "anon-key", nil, log)
}

func TestQueryEncode(t *testing.T) {
	q := Query{
		Filters: []Filter{
			Eq("project_id", "p1"),
			EqBool("archived", false),
			In("id", []string{"a", "b"}),
		},
		Order: []Order{Desc("updated_at"), Asc("name")},
	}

	values := q.encode()

	if got := values.Get("project_id"); got != "eq.p1" {
		t.Fatalf("project_id = %q", got)
	}
	if got := values.Get("archived"); got != "eq.false" {
		t.Fatalf("archived = %q", got)
	}
	if got := values.Get("id"); got != "in.(a,b)" {
		t.Fatalf("id = %q", got)
	}
	if got := values.Get("order"); got != "updated_at.desc,name.asc" {
		t.Fatalf("order = %q", got)
	}
}

func TestSelectBuildsRequestAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/projects" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("archived"); got != "eq.false" {
			t.Errorf("archived param = %q", got)
		}
		if got := r.URL.Query().Get("order"); got != "updated_at.desc" {
			t.Errorf("order param = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey header = %q", got)
		}
		// Without a session the API key doubles as the bearer token
		if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
			t.Errorf("authorization header = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"p1","name":"Alpha"},{"id":"p2","name":"Beta"}]`)
	}))
	defer server.Close()

	c := testClient(server.URL)

	var projects []models.Project
	q := Query{
		Filters: []Filter{EqBool("archived", false)},
		Order:   []Order{Desc("updated_at")},
	}
	if err := c.Select(context.Background(), "projects", q, &projects); err != nil {
		t.Fatalf("select: %v", err)
	}

	if len(projects) != 2 || projects[0].Name != "Alpha" {
		t.Fatalf("projects = %+v", projects)
	}
}

func TestInsertPreferHeader(t *testing.T) {
	var prefer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"m1","title":"New"}]`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	ctx := context.Background()

	if err := c.Insert(ctx, "memos", map[string]interface{}{"title": "New"}, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if prefer != "return=minimal" {
		t.Fatalf("prefer without dest = %q", prefer)
	}

	var inserted []models.Memo
	if err := c.Insert(ctx, "memos", map[string]interface{}{"title": "New"}, &inserted); err != nil {
		t.Fatalf("insert with dest: %v", err)
	}
	if prefer != "return=representation" {
		t.Fatalf("prefer with dest = %q", prefer)
	}
	if len(inserted) != 1 || inserted[0].ID != "m1" {
		t.Fatalf("inserted = %+v", inserted)
	}
}

func TestUpdateSendsPatchWithFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.p1" {
			t.Errorf("id param = %q", got)
		}
		var patch map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if patch["archived"] != true {
			t.Errorf("patch = %v", patch)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := testClient(server.URL)
	patch := map[string]interface{}{"archived": true}
	if err := c.Update(context.Background(), "projects", patch, []Filter{Eq("id", "p1")}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestDeleteSendsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("memo_id"); got != "in.(m1,m2)" {
			t.Errorf("memo_id param = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := testClient(server.URL)
	err := c.Delete(context.Background(), "memo_details", []Filter{In("memo_id", []string{"m1", "m2"})})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"malformed filter"}`, "malformed filter"},
		{"msg field", http.StatusUnauthorized, `{"msg":"bad token"}`, "bad token"},
		{"error_description field", http.StatusForbidden, `{"error_description":"denied"}`, "denied"},
		{"plain body", http.StatusInternalServerError, `it broke`, "it broke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			c := testClient(server.URL)
			err := c.Select(context.Background(), "projects", Query{}, &[]models.Project{})
			if err == nil {
				t.Fatal("expected error")
			}

			var gwErr *Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("error type = %T", err)
			}
			if gwErr.Status != tt.status || gwErr.Message != tt.message {
				t.Fatalf("error = %+v", gwErr)
			}
		})
	}
}

func TestErrorFormat(t *testing.T) {
	err := &Error{Status: 404, Message: "not found"}
	if got := err.Error(); got != "gateway: not found (404)" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestBearerUsesSessionWhenPresent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("authorization header = %q", got)
		}
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	c.session = &models.Session{AccessToken: "user-token", UserID: "u1"}

	var projects []models.Project
	if err := c.Select(context.Background(), "projects", Query{}, &projects); err != nil {
		t.Fatalf("select: %v", err)
	}
}
