package models

import (
	"time"
)

// InfoType classifies a project info entry
type InfoType string

const (
	InfoCommand InfoType = "command"
	InfoURL     InfoType = "url"
	InfoNote    InfoType = "note"
)

// Info is a reference snippet (command, URL or free-text note) attached to a project
type Info struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Type      InfoType  `json:"type"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
