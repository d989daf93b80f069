package models

import (
	"time"
)

// Project is the top-level unit of organization. It owns memos and infos.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CategoryID  *string   `json:"category_id"`
	SortOrder   *int      `json:"sort_order"`
	Archived    bool      `json:"archived"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is a named, ordered grouping of projects. A project without a
// category is "uncategorized", which is a display group, not a row.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
