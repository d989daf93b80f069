package state

import (
	"testing"
	"time"

	"pctl/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func projectWith(details ...models.Detail) *models.ProjectTree {
	return &models.ProjectTree{
		Memos: []models.MemoTree{{Details: details}},
	}
}

func TestProgressRoundsToNearestPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty project", 0, 0, 0},
		{"none done", 0, 4, 0},
		{"all done", 4, 4, 100},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"half", 1, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var details []models.Detail
			for i := 0; i < tt.total; i++ {
				details = append(details, models.Detail{Completed: i < tt.completed})
			}
			if got := Progress(projectWith(details...)); got != tt.want {
				t.Fatalf("Progress = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressSpansAllMemos(t *testing.T) {
	p := &models.ProjectTree{
		Memos: []models.MemoTree{
			{Details: []models.Detail{{Completed: true}, {Completed: true}}},
			{Details: []models.Detail{{Completed: false}, {Completed: false}}},
		},
	}
	if got := Progress(p); got != 50 {
		t.Fatalf("Progress = %d, want 50", got)
	}
}

func TestProgressReflectsCompletedWork(t *testing.T) {
	p := projectWith(
		models.Detail{Completed: true},
		models.Detail{Completed: true},
		models.Detail{Completed: false},
		models.Detail{Completed: false},
	)
	if got := Progress(p); got != 50 {
		t.Fatalf("Progress = %d, want 50", got)
	}

	for i := range p.Memos[0].Details {
		p.Memos[0].Details[i].Completed = true
	}
	if got := Progress(p); got != 100 {
		t.Fatalf("Progress after completing remaining work = %d, want 100", got)
	}
}

func TestIsStaleCountsCalendarDays(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		started *time.Time
		want    bool
	}{
		{"never started", nil, false},
		{"started today", timePtr(now.Add(-2 * time.Hour)), false},
		{"six calendar days", timePtr(time.Date(2026, time.March, 4, 1, 0, 0, 0, time.UTC)), false},
		{"seven calendar days, late evening", timePtr(time.Date(2026, time.March, 3, 23, 59, 0, 0, time.UTC)), true},
		{"seven calendar days, under 7x24h elapsed", timePtr(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)), true},
		{"far past", timePtr(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memo := models.Memo{StartedAt: tt.started}
			if got := IsStale(memo, now); got != tt.want {
				t.Fatalf("IsStale = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestStaleMemosCarriesOwnerAttributes(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	old := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)

	tree := []*models.ProjectTree{
		{
			Project: models.Project{ID: "p1", Name: "Alpha", Color: "#ff0000"},
			Memos: []models.MemoTree{
				{Memo: models.Memo{ID: "m1", Title: "Old", StartedAt: &old}},
				{Memo: models.Memo{ID: "m2", Title: "Fresh", StartedAt: &fresh}},
			},
		},
	}

	stale := StaleMemos(tree, now)
	if len(stale) != 1 {
		t.Fatalf("stale count = %d, want 1", len(stale))
	}
	s := stale[0]
	if s.Memo.ID != "m1" || s.ProjectID != "p1" || s.ProjectName != "Alpha" || s.ProjectColor != "#ff0000" {
		t.Fatalf("stale entry = %+v", s)
	}
	if s.DaysAgo != 9 {
		t.Fatalf("DaysAgo = %d, want 9", s.DaysAgo)
	}
}

func TestWeekViewAnchorsOnMonday(t *testing.T) {
	// A Wednesday
	now := time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC)

	tree := []*models.ProjectTree{
		{
			Project: models.Project{ID: "p1"},
			Memos: []models.MemoTree{
				{Memo: models.Memo{ID: "m1", CreatedAt: time.Date(2026, time.March, 9, 0, 1, 0, 0, time.UTC)}},  // Monday
				{Memo: models.Memo{ID: "m2", CreatedAt: time.Date(2026, time.March, 15, 23, 0, 0, 0, time.UTC)}}, // Sunday
				{Memo: models.Memo{ID: "m3", CreatedAt: time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)}},  // previous Sunday
			},
		},
	}

	week := WeekView(tree, now, 0)

	wantStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	if !week.Start.Equal(wantStart) {
		t.Fatalf("week start = %v, want %v", week.Start, wantStart)
	}
	if week.Days[0].Count != 1 {
		t.Fatalf("Monday count = %d, want 1", week.Days[0].Count)
	}
	if week.Days[6].Count != 1 {
		t.Fatalf("Sunday count = %d, want 1", week.Days[6].Count)
	}
	total := 0
	for _, d := range week.Days {
		total += d.Count
	}
	if total != 2 {
		t.Fatalf("week total = %d, want 2 (previous week excluded)", total)
	}
}

func TestWeekViewOffsetReachesPastWeeks(t *testing.T) {
	now := time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC)

	tree := []*models.ProjectTree{
		{
			Memos: []models.MemoTree{
				{Memo: models.Memo{CreatedAt: time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)}}, // Sunday of last week
			},
		},
	}

	week := WeekView(tree, now, -1)

	wantStart := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if !week.Start.Equal(wantStart) {
		t.Fatalf("week start = %v, want %v", week.Start, wantStart)
	}
	if week.Days[6].Count != 1 {
		t.Fatalf("Sunday count = %d, want 1", week.Days[6].Count)
	}
}

func TestWeekViewCapsDailyCount(t *testing.T) {
	now := time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC)

	var memos []models.MemoTree
	for i := 0; i < WeekViewCap+3; i++ {
		memos = append(memos, models.MemoTree{
			Memo: models.Memo{CreatedAt: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)},
		})
	}
	tree := []*models.ProjectTree{{Memos: memos}}

	week := WeekView(tree, now, 0)
	if week.Days[1].Count != WeekViewCap {
		t.Fatalf("Tuesday count = %d, want cap %d", week.Days[1].Count, WeekViewCap)
	}
}

func TestStatsCountsAcrossProjects(t *testing.T) {
	tree := []*models.ProjectTree{
		projectWith(models.Detail{Completed: true}, models.Detail{}),
		projectWith(models.Detail{Completed: true}),
		{},
	}

	got := Stats(tree)
	want := Totals{Projects: 3, Details: 3, CompletedDetails: 2, PendingDetails: 1}
	if got != want {
		t.Fatalf("Stats = %+v, want %+v", got, want)
	}
}

func TestMemosOnMatchesCalendarDate(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tree := []*models.ProjectTree{
		{
			Memos: []models.MemoTree{
				{Memo: models.Memo{ID: "m1", CreatedAt: day.Add(5 * time.Hour)}},
				{Memo: models.Memo{ID: "m2", CreatedAt: day.Add(-time.Minute)}},
				{Memo: models.Memo{ID: "m3", CreatedAt: day.Add(23 * time.Hour)}},
			},
		},
	}

	got := MemosOn(tree, day.Add(9*time.Hour))
	if len(got) != 2 {
		t.Fatalf("memos on day = %d, want 2", len(got))
	}
	if got[0].Memo.ID != "m1" || got[1].Memo.ID != "m3" {
		t.Fatalf("memos = %s, %s", got[0].Memo.ID, got[1].Memo.ID)
	}
}
