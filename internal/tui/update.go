package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.notesView.Width = max(msg.Width-6, 20)
		m.notesView.Height = max(msg.Height-7, 5)
		return m, nil

	case notesMsg:
		m.generating = false
		if msg.err != nil {
			m.message = describeError(msg.err)
			return m, nil
		}
		m.notesTitle = msg.title
		m.notesView.SetContent(notes.OrPlaceholder(msg.notes))
		m.notesView.GotoTop()
		m.mode = ModeNotes
		m.message = ""
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch {
		case m.mode.inputMode():
			return m.updateInput(msg)
		case m.mode == ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case m.mode == ModeNotes:
			return m.updateNotes(msg)
		case m.mode == ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneEntries
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneEntries

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "G":
		m.handleGoBottom()

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddEntry, "", "What happened?")

	case key.Matches(msg, keys.Edit):
		if e := m.currentEntry(); e != nil && m.pane == PaneEntries {
			return m.startInput(ModeEditEntry, e.Content, "Edit entry...")
		}

	case key.Matches(msg, keys.Project):
		return m.startInput(ModeAddProject, "", "Project name...")

	case key.Matches(msg, keys.Rename):
		if p := m.currentProject(); p != nil {
			return m.startInput(ModeRenameProject, p.Name, "New name...")
		}

	case key.Matches(msg, keys.Status):
		if p := m.currentProject(); p != nil {
			return m.startInput(ModeSetStatus, m.statusTemplate(p.ID), "progress start end")
		}

	case key.Matches(msg, keys.APIKey):
		return m.startInput(ModeSetKey, "", "sk-...")

	case key.Matches(msg, keys.Type):
		m.handleCycleType()

	case key.Matches(msg, keys.Parent):
		m.handleCycleParent()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.Generate):
		return m.startSummarize()

	case key.Matches(msg, keys.Update):
		return m.startPeriodic()

	case key.Matches(msg, keys.Refresh):
		m.loadData()
		m.message = "Reloaded"

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.projCursor > 0 {
			m.projCursor--
			m.entryCursor = 0
			m.loadData()
		}
	} else if m.entryCursor > 0 {
		m.entryCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.projCursor < len(m.projects)-1 {
			m.projCursor++
			m.entryCursor = 0
			m.loadData()
		}
	} else if m.entryCursor < len(m.entries)-1 {
		m.entryCursor++
	}
}

func (m *Model) handleGoBottom() {
	if m.pane == PaneSidebar {
		m.projCursor = max(len(m.projects)-1, 0)
		m.entryCursor = 0
		m.loadData()
	} else {
		m.entryCursor = max(len(m.entries)-1, 0)
	}
}

func (m Model) startInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	if mode != ModeAddProject && mode != ModeSetKey && m.currentProject() == nil {
		m.message = "Create a project first (p)"
		return m, nil
	}

	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.EchoMode = textinput.EchoNormal
	if mode == ModeSetKey {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '•'
	}
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

// statusTemplate pre-fills the status input from the current snapshot
func (m Model) statusTemplate(projectID int64) string {
	if s, ok := m.latest[projectID]; ok {
		return fmt.Sprintf("%d %s %s", s.Progress, model.FormatDate(s.StartDate), model.FormatDate(s.EndDate))
	}
	today := model.FormatDate(time.Now())
	return "0 " + today + " " + today
}

func (m *Model) handleCycleType() {
	p := m.currentProject()
	if p == nil {
		return
	}

	next := model.TypeProject
	switch p.Type {
	case model.TypeProject:
		next = model.TypeTask
	case model.TypeTask:
		next = model.TypeMilestone
	}

	if err := m.db.SetProjectType(context.Background(), p.ID, next); err != nil {
		m.message = fmt.Sprintf("Error setting type: %v", err)
		return
	}
	m.message = fmt.Sprintf("%s is now a %s", p.Name, next)
	m.loadData()
}

// handleCycleParent moves the project under the next eligible parent, then back to top level
func (m *Model) handleCycleParent() {
	p := m.currentProject()
	if p == nil {
		return
	}
	id := p.ID

	candidates := model.ParentCandidates(*p, m.projects)
	var next *int64
	if p.Parent == nil {
		if len(candidates) > 0 {
			next = &candidates[0].ID
		}
	} else {
		for i, c := range candidates {
			if c.ID == *p.Parent && i+1 < len(candidates) {
				next = &candidates[i+1].ID
				break
			}
		}
	}

	if next == nil && p.Parent == nil {
		m.message = "No project can be a parent"
		return
	}
	if err := m.db.SetProjectParent(context.Background(), id, next); err != nil {
		m.message = fmt.Sprintf("Error setting parent: %v", err)
		return
	}

	m.loadData()
	m.selectProject(id)
	if next == nil {
		m.message = "Moved to top level"
	} else {
		m.message = "Moved under " + m.projectName(*next)
	}
}

func (m Model) projectName(id int64) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m *Model) handleDelete() {
	if m.pane == PaneSidebar {
		if m.currentProject() != nil {
			m.mode = ModeConfirmDelete
		}
		return
	}

	e := m.currentEntry()
	if e == nil {
		return
	}
	if err := m.db.DeleteEntry(context.Background(), e.ProjectID, e.ID); err != nil {
		m.message = fmt.Sprintf("Error deleting entry: %v", err)
		return
	}
	m.message = "Entry deleted"
	m.loadData()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		m.message = "Delete cancelled"
		return m, nil
	}

	p := m.currentProject()
	if p == nil {
		return m, nil
	}
	name := p.Name
	if err := m.db.DeleteProjectCascade(context.Background(), p.ID); err != nil {
		m.message = fmt.Sprintf("Error deleting project: %v", err)
		return m, nil
	}

	m.entryCursor = 0
	m.loadData()
	m.message = "Deleted project: " + name
	return m, nil
}

func (m Model) startSummarize() (tea.Model, tea.Cmd) {
	if m.generating {
		m.message = "Generation already running..."
		return m, nil
	}
	p := m.currentProject()
	if p == nil {
		m.message = "Create a project first (p)"
		return m, nil
	}

	m.generating = true
	m.message = fmt.Sprintf("Generating notes for %s...", p.Name)
	return m, summarizeCmd(m.generator, *p, m.entries)
}

func (m Model) startPeriodic() (tea.Model, tea.Cmd) {
	if m.generating {
		m.message = "Generation already running..."
		return m, nil
	}

	m.generating = true
	m.message = fmt.Sprintf("Generating update for the last %d days...", m.periodicDays)
	return m, periodicCmd(m.generator, m.db, m.periodicDays, time.Now())
}

func (m Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.notesView, cmd = m.notesView.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		m.submitInput(mode, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput applies a confirmed text input
func (m *Model) submitInput(mode Mode, value string) {
	ctx := context.Background()
	now := time.Now().UTC()

	switch mode {
	case ModeAddEntry:
		p := m.currentProject()
		if p == nil {
			return
		}
		if _, err := m.db.CreateEntry(ctx, p.ID, now, now, value); err != nil {
			m.message = fmt.Sprintf("Error adding entry: %v", err)
			return
		}
		m.message = "Added: " + truncate(value, 40)
		m.loadData()
		m.entryCursor = max(len(m.entries)-1, 0)

	case ModeEditEntry:
		e := m.currentEntry()
		if e == nil {
			return
		}
		if err := m.db.UpdateEntry(ctx, e.ProjectID, e.ID, value, now); err != nil {
			m.message = fmt.Sprintf("Error updating entry: %v", err)
			return
		}
		m.message = "Updated: " + truncate(value, 40)
		m.loadData()

	case ModeAddProject:
		id, err := m.db.CreateProject(ctx, value)
		if err != nil {
			m.message = fmt.Sprintf("Error creating project: %v", err)
			return
		}
		m.message = "Created project: " + value
		m.loadData()
		m.selectProject(id)

	case ModeRenameProject:
		p := m.currentProject()
		if p == nil {
			return
		}
		if err := m.db.RenameProject(ctx, p.ID, value); err != nil {
			m.message = fmt.Sprintf("Error renaming project: %v", err)
			return
		}
		m.message = "Renamed to " + value
		m.loadData()

	case ModeSetStatus:
		p := m.currentProject()
		if p == nil {
			return
		}
		progress, start, end, err := parseStatusInput(value)
		if err != nil {
			m.message = err.Error()
			return
		}
		if _, err := m.db.CreateStatus(ctx, p.ID, progress, start, end); err != nil {
			m.message = fmt.Sprintf("Error saving status: %v", err)
			return
		}
		m.message = fmt.Sprintf("%s at %d%%", p.Name, progress)
		m.loadData()

	case ModeSetKey:
		if err := m.db.SetSetting(ctx, notes.KeyAPIKey, value); err != nil {
			m.message = fmt.Sprintf("Error saving key: %v", err)
			return
		}
		logger.Info("API key updated from TUI")
		m.message = "API key saved"
	}
}

// parseStatusInput parses "progress start end", e.g. "40 2024-03-01 2024-03-31"
func parseStatusInput(s string) (int, time.Time, time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("expected: progress start-date end-date")
	}

	progress, err := strconv.Atoi(strings.TrimSuffix(fields[0], "%"))
	if err != nil {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("invalid progress: %q", fields[0])
	}
	if err := model.ValidateProgress(progress); err != nil {
		return 0, time.Time{}, time.Time{}, err
	}

	start, err := model.ParseDate(fields[1])
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	end, err := model.ParseDate(fields[2])
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	return progress, start, end, nil
}
