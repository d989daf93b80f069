package state

import (
	"math"
	"time"

	"pctl/internal/models"
)

// StaleAfterDays is the calendar-day age at which a memo's work cycle is
// considered stale and surfaces in the cleanup flow.
const StaleAfterDays = 7

// WeekViewCap is the per-day display cap of the week view.
const WeekViewCap = 5

// Progress returns the completion percent of a project across the details of
// all its memos. A project without details is 0%.
func Progress(p *models.ProjectTree) int {
	total, completed := 0, 0
	for _, memo := range p.Memos {
		total += len(memo.Details)
		for _, d := range memo.Details {
			if d.Completed {
				completed++
			}
		}
	}
	return percent(completed, total)
}

// MemoProgress returns the completion percent of one memo's details
func MemoProgress(m *models.MemoTree) int {
	completed := 0
	for _, d := range m.Details {
		if d.Completed {
			completed++
		}
	}
	return percent(completed, len(m.Details))
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// IsStale reports whether a memo's current work cycle is at least
// StaleAfterDays calendar days old. Both endpoints are truncated to local
// midnight first, so this counts calendar days, not elapsed duration. A memo
// that was never started is not stale.
func IsStale(memo models.Memo, now time.Time) bool {
	if memo.StartedAt == nil {
		return false
	}
	return daysBetween(*memo.StartedAt, now) >= StaleAfterDays
}

// StaleMemo is a stale memo with its owning project's display attributes
type StaleMemo struct {
	models.MemoTree
	ProjectID    string
	ProjectName  string
	ProjectColor string
	DaysAgo      int
}

// StaleMemos collects every stale memo in the tree, in tree order
func StaleMemos(tree []*models.ProjectTree, now time.Time) []StaleMemo {
	var stale []StaleMemo
	for _, project := range tree {
		for _, memo := range project.Memos {
			if !IsStale(memo.Memo, now) {
				continue
			}
			stale = append(stale, StaleMemo{
				MemoTree:     memo,
				ProjectID:    project.Project.ID,
				ProjectName:  project.Project.Name,
				ProjectColor: project.Project.Color,
				DaysAgo:      daysBetween(*memo.Memo.StartedAt, now),
			})
		}
	}
	return stale
}

// MemosOn returns the memos created on the given calendar date, in tree order
func MemosOn(tree []*models.ProjectTree, date time.Time) []models.MemoTree {
	day := midnight(date)
	var result []models.MemoTree
	for _, project := range tree {
		for _, memo := range project.Memos {
			if midnight(memo.Memo.CreatedAt).Equal(day) {
				result = append(result, memo)
			}
		}
	}
	return result
}

// DayCount is one day-of-week column of the week view. Count is capped at
// WeekViewCap.
type DayCount struct {
	Date  time.Time
	Count int
}

// Week is a Monday-anchored week of memo-creation counts
type Week struct {
	Start time.Time
	Days  [7]DayCount
}

// WeekView buckets memo creations into the week that is offset whole weeks
// from the current one. Offset 0 is the week containing now, negative
// offsets reach into the past. Weeks start on the most recent Monday.
func WeekView(tree []*models.ProjectTree, now time.Time, offset int) Week {
	start := weekStart(now).AddDate(0, 0, 7*offset)

	week := Week{Start: start}
	for i := range week.Days {
		week.Days[i].Date = start.AddDate(0, 0, i)
	}

	for _, project := range tree {
		for _, memo := range project.Memos {
			day := midnight(memo.Memo.CreatedAt)
			idx := daysBetween(start, day)
			if day.Before(start) || idx > 6 {
				continue
			}
			if week.Days[idx].Count < WeekViewCap {
				week.Days[idx].Count++
			}
		}
	}

	return week
}

// Totals are the global aggregate counts of the active tree
type Totals struct {
	Projects         int
	Details          int
	CompletedDetails int
	PendingDetails   int
}

// Stats computes the global counts across all active projects
func Stats(tree []*models.ProjectTree) Totals {
	t := Totals{Projects: len(tree)}
	for _, project := range tree {
		for _, memo := range project.Memos {
			t.Details += len(memo.Details)
			for _, d := range memo.Details {
				if d.Completed {
					t.CompletedDetails++
				}
			}
		}
	}
	t.PendingDetails = t.Details - t.CompletedDetails
	return t
}

// midnight truncates a time to local midnight
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole days from one local midnight to another
func daysBetween(from, to time.Time) int {
	return int(midnight(to).Sub(midnight(from)) / (24 * time.Hour))
}

// weekStart returns the most recent Monday midnight at or before t
func weekStart(t time.Time) time.Time {
	day := midnight(t)
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}
