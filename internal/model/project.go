package model

import "fmt"

// ProjectType classifies a project within the journal hierarchy
type ProjectType string

const (
	TypeProject   ProjectType = "project"
	TypeTask      ProjectType = "task"
	TypeMilestone ProjectType = "milestone"
)

// ParseProjectType converts a string to a ProjectType
func ParseProjectType(s string) (ProjectType, error) {
	switch t := ProjectType(s); t {
	case TypeProject, TypeTask, TypeMilestone:
		return t, nil
	default:
		return "", fmt.Errorf("unknown project type %q (want project, task or milestone)", s)
	}
}

// Project groups entries and status snapshots. Parent is nil for top-level projects.
type Project struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Parent *int64      `json:"parent"`
	Type   ProjectType `json:"type"`
}

// IsChild returns true if the project has a parent
func (p *Project) IsChild() bool {
	return p.Parent != nil
}

// ParentCandidates returns the projects that may become the parent of p.
// Only top-level projects other than p itself qualify.
func ParentCandidates(p Project, all []Project) []Project {
	var out []Project
	for _, c := range all {
		if c.ID == p.ID || c.IsChild() {
			continue
		}
		out = append(out, c)
	}
	return out
}
