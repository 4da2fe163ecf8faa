package model

import "time"

// Entry is a dated free-text note attached to a project
type Entry struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Content     string     `json:"content"`
	DateCreated time.Time  `json:"date_created"`
	DateUpdated *time.Time `json:"date_updated"`
}
