package snapshot

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"pctl/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("close store: %v", err)
		}
	})
	return s
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)
	started := base.Add(-48 * time.Hour)
	completed := base.Add(-time.Hour)

	rows := Rows{
		Projects: []models.Project{
			{ID: "p1", Name: "Alpha", Description: "first", Color: "#ff0000", CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
			{ID: "p2", Name: "Beta", CategoryID: strPtr("c1"), SortOrder: intPtr(2), Archived: true, CreatedAt: base, UpdatedAt: base},
		},
		Infos: []models.Info{
			{ID: "i1", ProjectID: "p1", Type: models.InfoURL, Label: "docs", Value: "https://example.com", CreatedAt: base},
		},
		Memos: []models.Memo{
			{ID: "m1", ProjectID: "p1", Title: "Ship", Priority: 2, StartedAt: &started, CreatedAt: base.Add(time.Minute)},
			{ID: "m2", ProjectID: "p2", Title: "Idle", CreatedAt: base},
		},
		Details: []models.Detail{
			{ID: "d1", MemoID: "m1", Content: "build", Completed: true, CompletedAt: &completed, CreatedAt: base},
			{ID: "d2", MemoID: "m1", Content: "release", CreatedAt: base.Add(time.Second)},
		},
		Categories: []models.Category{
			{ID: "c1", Name: "Work", SortOrder: 1, CreatedAt: base},
		},
	}

	if err := s.Save(rows); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(loaded, rows) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, rows)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	first := Rows{Projects: []models.Project{{ID: "p1", Name: "Old", CreatedAt: base, UpdatedAt: base}}}
	if err := s.Save(first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := Rows{Projects: []models.Project{{ID: "p2", Name: "New", CreatedAt: base, UpdatedAt: base}}}
	if err := s.Save(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Projects) != 1 || loaded.Projects[0].ID != "p2" {
		t.Fatalf("projects = %+v, want only p2", loaded.Projects)
	}
}

func TestLoadOrdersMatchRemoteFetch(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	rows := Rows{
		Projects: []models.Project{
			{ID: "stale", Name: "Stale", CreatedAt: base, UpdatedAt: base},
			{ID: "fresh", Name: "Fresh", CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
		},
		Memos: []models.Memo{
			{ID: "older", ProjectID: "fresh", Title: "Older", CreatedAt: base},
			{ID: "newer", ProjectID: "fresh", Title: "Newer", CreatedAt: base.Add(time.Minute)},
		},
		Categories: []models.Category{
			{ID: "second", Name: "B", SortOrder: 2, CreatedAt: base},
			{ID: "first", Name: "A", SortOrder: 1, CreatedAt: base},
		},
	}
	if err := s.Save(rows); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Projects[0].ID != "fresh" {
		t.Fatal("projects not ordered by updated_at desc")
	}
	if loaded.Memos[0].ID != "newer" {
		t.Fatal("memos not ordered by created_at desc")
	}
	if loaded.Categories[0].ID != "first" {
		t.Fatal("categories not ordered by sort_order asc")
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
