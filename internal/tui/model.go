package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneEntries
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddEntry
	ModeEditEntry
	ModeAddProject
	ModeRenameProject
	ModeSetStatus
	ModeSetKey
	ModeConfirmDelete
	ModeNotes
	ModeHelp
)

// inputMode reports whether the mode reads from the text input
func (m Mode) inputMode() bool {
	switch m {
	case ModeAddEntry, ModeEditEntry, ModeAddProject, ModeRenameProject, ModeSetStatus, ModeSetKey:
		return true
	}
	return false
}

// Model is the main TUI model
type Model struct {
	db           *db.DB
	generator    *notes.Generator
	periodicDays int

	projects []model.Project
	latest   map[int64]model.Status // Current status per project
	entries  []model.Entry

	// UI state
	width       int
	height      int
	pane        Pane
	mode        Mode
	projCursor  int
	entryCursor int

	// Input
	input textinput.Model

	// Generated notes
	notesView  viewport.Model
	notesTitle string
	generating bool

	message string
}

// NewModel creates a new TUI model
func NewModel(database *db.DB, generator *notes.Generator, periodicDays int) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 50

	if periodicDays < 1 {
		periodicDays = 7
	}

	m := Model{
		db:           database,
		generator:    generator,
		periodicDays: periodicDays,
		pane:         PaneSidebar,
		mode:         ModeNormal,
		input:        ti,
		notesView:    viewport.New(60, 20),
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("projects", len(m.projects)),
		logger.F("entries", len(m.entries)))
	return m
}

func (m *Model) loadData() {
	ctx := context.Background()

	projects, err := m.db.ListProjects(ctx)
	if err != nil {
		logger.Error("Failed to load projects", logger.F("error", err))
		m.message = "Error loading projects: " + err.Error()
		return
	}
	m.projects = projects

	if latest, err := m.db.LatestStatuses(ctx); err == nil {
		m.latest = latest
	} else {
		logger.Warn("Failed to load status", logger.F("error", err))
	}

	if m.projCursor >= len(m.projects) {
		m.projCursor = max(len(m.projects)-1, 0)
	}

	m.entries = nil
	if p := m.currentProject(); p != nil {
		entries, err := m.db.ListEntries(ctx, p.ID)
		if err != nil {
			logger.Error("Failed to load entries", logger.F("project_id", p.ID), logger.F("error", err))
			m.message = "Error loading entries: " + err.Error()
		}
		m.entries = entries
	}
	if m.entryCursor >= len(m.entries) {
		m.entryCursor = max(len(m.entries)-1, 0)
	}
}

func (m *Model) currentProject() *model.Project {
	if m.projCursor < len(m.projects) {
		return &m.projects[m.projCursor]
	}
	return nil
}

func (m *Model) currentEntry() *model.Entry {
	if m.entryCursor < len(m.entries) {
		return &m.entries[m.entryCursor]
	}
	return nil
}

// selectProject moves the sidebar cursor to the project with id
func (m *Model) selectProject(id int64) {
	for i, p := range m.projects {
		if p.ID == id {
			m.projCursor = i
			m.entryCursor = 0
			m.loadData()
			return
		}
	}
}
