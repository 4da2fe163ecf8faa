package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
)

// notesMsg carries the result of a generation command
type notesMsg struct {
	title string
	notes string
	err   error
}

// summarizeCmd generates notes for one project's entries off the UI loop
func summarizeCmd(gen *notes.Generator, project model.Project, entries []model.Entry) tea.Cmd {
	return func() tea.Msg {
		out, err := gen.SummarizeProjectEntries(context.Background(), entries)
		return notesMsg{title: "Notes: " + project.Name, notes: out, err: err}
	}
}

// periodicCmd generates a cross-project update for the last days days, today included
func periodicCmd(gen *notes.Generator, database *db.DB, days int, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		endDay := now.UTC()
		startDay := endDay.AddDate(0, 0, -(days - 1))
		label := notes.RangeLabel(startDay, endDay)

		start, end := notes.PeriodBounds(startDay, endDay)
		collected, err := notes.CollectPeriodicNotes(ctx, database, start, end)
		if err != nil {
			return notesMsg{title: "Update " + label, err: fmt.Errorf("collect entries: %w", err)}
		}

		out, err := gen.GeneratePeriodicUpdate(ctx, label, collected)
		return notesMsg{title: "Update " + label, notes: out, err: err}
	}
}

// describeError renders a generation error for the status bar
func describeError(err error) string {
	var reqErr *notes.RequestError
	switch {
	case errors.Is(err, notes.ErrCredentialNotSet):
		return "No API key stored. Press K to set one."
	case errors.As(err, &reqErr):
		logger.Warn("Generation request failed", logger.F("error", reqErr.Err))
		return "Request failed: " + reqErr.Err.Error()
	default:
		return "Error: " + err.Error()
	}
}
