package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/journal/internal/model"
	"github.com/labstack/echo/v4"
)

// ProjectResponse is a project with its current progress, if any
type ProjectResponse struct {
	model.Project
	Progress *int `json:"progress"`
}

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name   string `json:"name"`
	Parent *int64 `json:"parent,omitempty"`
	Type   string `json:"type,omitempty"`
}

// UpdateProjectRequest is the body of PATCH /projects/:id. Absent fields are left alone.
type UpdateProjectRequest struct {
	Name     *string `json:"name,omitempty"`
	Parent   *int64  `json:"parent,omitempty"`
	TopLevel bool    `json:"top_level,omitempty"` // Clears the parent
	Type     *string `json:"type,omitempty"`
}

func (s *Server) handleListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := s.db.ListProjects(ctx)
	if err != nil {
		return err
	}
	latest, err := s.db.LatestStatuses(ctx)
	if err != nil {
		return err
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		r := ProjectResponse{Project: p}
		if st, ok := latest[p.ID]; ok {
			progress := st.Progress
			r.Progress = &progress
		}
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	p, err := s.db.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest("name is required")
	}

	var pt model.ProjectType
	if req.Type != "" {
		var err error
		if pt, err = model.ParseProjectType(req.Type); err != nil {
			return badRequest("%s", err.Error())
		}
	}
	if req.Parent != nil {
		parent, err := s.db.GetProject(ctx, *req.Parent)
		if err != nil {
			return err
		}
		if parent.IsChild() {
			return badRequest("project %d is nested and cannot be a parent", parent.ID)
		}
	}

	id, err := s.db.CreateProject(ctx, req.Name)
	if err != nil {
		return err
	}
	if req.Parent != nil {
		if err := s.db.SetProjectParent(ctx, id, req.Parent); err != nil {
			return err
		}
	}
	if pt != "" {
		if err := s.db.SetProjectType(ctx, id, pt); err != nil {
			return err
		}
	}

	p, err := s.db.GetProject(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.TopLevel && req.Parent != nil {
		return badRequest("parent and top_level are mutually exclusive")
	}

	project, err := s.db.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest("name cannot be empty")
		}
		if err := s.db.RenameProject(ctx, id, name); err != nil {
			return err
		}
	}

	if req.Type != nil {
		pt, err := model.ParseProjectType(*req.Type)
		if err != nil {
			return badRequest("%s", err.Error())
		}
		if err := s.db.SetProjectType(ctx, id, pt); err != nil {
			return err
		}
	}

	switch {
	case req.TopLevel:
		if err := s.db.SetProjectParent(ctx, id, nil); err != nil {
			return err
		}
	case req.Parent != nil:
		all, err := s.db.ListProjects(ctx)
		if err != nil {
			return err
		}
		allowed := false
		for _, candidate := range model.ParentCandidates(project, all) {
			if candidate.ID == *req.Parent {
				allowed = true
				break
			}
		}
		if !allowed {
			return badRequest("project %d cannot be the parent of project %d", *req.Parent, id)
		}
		if err := s.db.SetProjectParent(ctx, id, req.Parent); err != nil {
			return err
		}
	}

	updated, err := s.db.GetProject(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// handleDeleteProject removes a project with its entries and status unless ?cascade=false
func (s *Server) handleDeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cascade := true
	if v := c.QueryParam("cascade"); v != "" {
		if cascade, err = strconv.ParseBool(v); err != nil {
			return badRequest("invalid cascade: %q", v)
		}
	}

	if cascade {
		err = s.db.DeleteProjectCascade(ctx, id)
	} else {
		err = s.db.DeleteProject(ctx, id)
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
