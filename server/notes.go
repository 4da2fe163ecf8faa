package server

import (
	"net/http"

	"github.com/existflow/journal/internal/notes"
	"github.com/labstack/echo/v4"
)

// NotesResponse carries generated markdown
type NotesResponse struct {
	Label string `json:"label,omitempty"`
	Notes string `json:"notes"`
	Empty bool   `json:"empty"` // The model returned no content
}

// UpdateRequest is the body of POST /updates. Days applies when From is empty.
type UpdateRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Days int    `json:"days,omitempty"`
}

func (s *Server) handleProjectNotes(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetProject(ctx, projectID); err != nil {
		return err
	}

	entries, err := s.db.ListEntries(ctx, projectID)
	if err != nil {
		return err
	}

	out, err := s.generator.SummarizeProjectEntries(ctx, entries)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NotesResponse{Notes: notes.OrPlaceholder(out), Empty: out == ""})
}

func (s *Server) handlePeriodicUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest("invalid request body")
		}
	}
	if req.Days < 0 {
		return badRequest("days must not be negative")
	}
	if req.Days == 0 {
		req.Days = s.periodicDays
	}

	startDay, endDay, err := s.dayRange(req.From, req.To, req.Days)
	if err != nil {
		return err
	}

	start, end := notes.PeriodBounds(startDay, endDay)
	collected, err := notes.CollectPeriodicNotes(ctx, s.db, start, end)
	if err != nil {
		return err
	}

	label := notes.RangeLabel(startDay, endDay)
	out, err := s.generator.GeneratePeriodicUpdate(ctx, label, collected)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NotesResponse{Label: label, Notes: notes.OrPlaceholder(out), Empty: out == ""})
}
