package server

import (
	"net/http"
	"time"

	"github.com/existflow/journal/internal/model"
	"github.com/labstack/echo/v4"
)

// StatusResponse is a status snapshot with date-only bounds
type StatusResponse struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Progress    int       `json:"progress"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	DateCreated time.Time `json:"date_created"`
}

// StatusRequest is the body of status create and update calls
type StatusRequest struct {
	Progress  int    `json:"progress"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func newStatusResponse(s model.Status) StatusResponse {
	return StatusResponse{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		Progress:    s.Progress,
		StartDate:   model.FormatDate(s.StartDate),
		EndDate:     model.FormatDate(s.EndDate),
		DateCreated: s.DateCreated,
	}
}

func newStatusList(list []model.Status) []StatusResponse {
	out := make([]StatusResponse, 0, len(list))
	for _, s := range list {
		out = append(out, newStatusResponse(s))
	}
	return out
}

// parse validates the request and returns the parsed bounds
func (r StatusRequest) parse() (time.Time, time.Time, error) {
	if err := model.ValidateProgress(r.Progress); err != nil {
		return time.Time{}, time.Time{}, badRequest("%s", err.Error())
	}
	start, err := model.ParseDateOrTimestamp(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("invalid start_date: %q", r.StartDate)
	}
	end, err := model.ParseDateOrTimestamp(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("invalid end_date: %q", r.EndDate)
	}
	return start, end, nil
}

func (s *Server) handleListAllStatus(c echo.Context) error {
	list, err := s.db.ListStatus(c.Request().Context(), nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStatusList(list))
}

func (s *Server) handleListStatus(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	list, err := s.db.ListStatus(c.Request().Context(), &projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStatusList(list))
}

func (s *Server) handleCurrentStatus(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	st, err := s.db.CurrentStatus(c.Request().Context(), projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStatusResponse(st))
}

func (s *Server) handleCreateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	start, end, err := req.parse()
	if err != nil {
		return err
	}
	if _, err := s.db.GetProject(ctx, projectID); err != nil {
		return err
	}

	if _, err := s.db.CreateStatus(ctx, projectID, req.Progress, start, end); err != nil {
		return err
	}

	st, err := s.db.CurrentStatus(ctx, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newStatusResponse(st))
}

func (s *Server) handleUpdateStatus(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "sid")
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	start, end, err := req.parse()
	if err != nil {
		return err
	}

	if err := s.db.UpdateStatus(c.Request().Context(), projectID, id, req.Progress, start, end); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteStatus(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "sid")
	if err != nil {
		return err
	}

	if err := s.db.DeleteStatus(c.Request().Context(), projectID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
