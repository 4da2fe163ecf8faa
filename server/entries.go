package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
	"github.com/labstack/echo/v4"
)

// EntryRequest is the body of entry create and update calls
type EntryRequest struct {
	Content string `json:"content"`
}

func (r *EntryRequest) validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return badRequest("content is required")
	}
	return nil
}

// handleListEntries lists a project's entries, optionally limited to ?from=&to= days
func (s *Server) handleListEntries(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetProject(ctx, projectID); err != nil {
		return err
	}

	from, to := c.QueryParam("from"), c.QueryParam("to")
	var entries []model.Entry
	if from == "" && to == "" {
		entries, err = s.db.ListEntries(ctx, projectID)
	} else {
		var startDay, endDay time.Time
		if startDay, endDay, err = s.dayRange(from, to, 0); err != nil {
			return err
		}
		start, end := notes.PeriodBounds(startDay, endDay)
		entries, err = s.db.ListEntriesInRange(ctx, projectID, start, end)
	}
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGetEntry(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "eid")
	if err != nil {
		return err
	}

	e, err := s.db.GetEntry(c.Request().Context(), projectID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	if _, err := s.db.GetProject(ctx, projectID); err != nil {
		return err
	}

	now := time.Now().UTC()
	id, err := s.db.CreateEntry(ctx, projectID, now, now, req.Content)
	if err != nil {
		return err
	}

	e, err := s.db.GetEntry(ctx, projectID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (s *Server) handleUpdateEntry(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "eid")
	if err != nil {
		return err
	}
	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	if err := s.db.UpdateEntry(ctx, projectID, id, req.Content, time.Now().UTC()); err != nil {
		return err
	}

	e, err := s.db.GetEntry(ctx, projectID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "eid")
	if err != nil {
		return err
	}

	if err := s.db.DeleteEntry(c.Request().Context(), projectID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// dayRange parses from/to query values into calendar days. A missing to means today;
// a missing from means days before to, or the beginning of time when days is 0.
func (s *Server) dayRange(from, to string, days int) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	if to != "" {
		t, err := model.ParseDateOrTimestamp(to)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid to: %q", to)
		}
		end = t
	}

	var start time.Time
	switch {
	case from != "":
		t, err := model.ParseDateOrTimestamp(from)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid from: %q", from)
		}
		start = t
	case days > 0:
		start = end.AddDate(0, 0, -(days - 1))
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, badRequest("from must not be after to")
	}
	return start, end, nil
}
