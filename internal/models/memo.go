package models

import (
	"time"
)

// Memo is a titled checklist-style note owned by exactly one project.
// StartedAt marks when the current work cycle began and drives the
// staleness computation.
type Memo struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Priority  int        `json:"priority"`
	Archived  bool       `json:"archived"`
	StartedAt *time.Time `json:"started_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Detail is one checklist line of a memo.
// CompletedAt is non-nil exactly when Completed is true.
type Detail struct {
	ID          string     `json:"id"`
	MemoID      string     `json:"memo_id"`
	Content     string     `json:"content"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
