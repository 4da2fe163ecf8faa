package model

import (
	"fmt"
	"time"
)

// Status is a point-in-time progress snapshot for a project's timeline
type Status struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Progress    int       `json:"progress"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	DateCreated time.Time `json:"date_created"`
}

// ValidateProgress checks user input for a progress percentage.
// The store itself accepts any integer.
func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", progress)
	}
	return nil
}
