package server

import (
	"net/http"
	"strings"

	"github.com/existflow/journal/internal/notes"
	"github.com/labstack/echo/v4"
)

// SettingResponse reports a setting. Secrets are never echoed back.
type SettingResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Set     bool   `json:"set"`
	Default bool   `json:"default"`
}

// SettingRequest is the body of PUT /settings/:key
type SettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleGetSetting(c echo.Context) error {
	key := c.Param("key")
	fallback, known := notes.SettingKeys()[key]
	if !known {
		return echo.NewHTTPError(http.StatusNotFound, "unknown setting: "+key)
	}

	stored, ok, err := s.db.GetSetting(c.Request().Context(), key, "")
	if err != nil {
		return err
	}

	resp := SettingResponse{Key: key, Set: ok}
	switch {
	case key == notes.KeyAPIKey:
	case ok:
		resp.Value = stored
	case fallback != "":
		resp.Value = fallback
		resp.Default = true
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSetSetting(c echo.Context) error {
	key := c.Param("key")
	if _, known := notes.SettingKeys()[key]; !known {
		return echo.NewHTTPError(http.StatusNotFound, "unknown setting: "+key)
	}

	var req SettingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if key == notes.KeyAPIKey {
		req.Value = strings.TrimSpace(req.Value)
	}

	if err := s.db.SetSetting(c.Request().Context(), key, req.Value); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
