package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply        string
	calls        int
	sawDeadlines int
}

func (f *fakeCompleter) Complete(ctx context.Context, _ string, _ notes.ChatRequest) (string, error) {
	f.calls++
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadlines++
	}
	return f.reply, nil
}

func newTestModel(t *testing.T) (Model, *db.DB, *fakeCompleter) {
	t.Helper()

	database, err := db.Open(context.Background(), db.Options{Path: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	ai := &fakeCompleter{}
	m := NewModel(database, notes.NewGenerator(database, ai, ""), 7)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), database, ai
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestAddProjectAndEntry(t *testing.T) {
	m, database, _ := newTestModel(t)

	m, _ = press(t, m, "p", "Alpha", "enter")
	assert.Equal(t, ModeNormal, m.mode)
	require.Len(t, m.projects, 1)
	assert.Equal(t, "Alpha", m.projects[0].Name)

	m, _ = press(t, m, "a", "kicked off", "enter")
	require.Len(t, m.entries, 1)
	assert.Equal(t, "kicked off", m.entries[0].Content)

	entries, err := database.ListEntries(context.Background(), m.projects[0].ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Escape discards the input
	m, _ = press(t, m, "a", "never saved", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.entries, 1)

	assert.Contains(t, m.View(), "Alpha")
}

func TestEditAndDeleteEntry(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter", "a", "draft", "enter", "l")
	require.Equal(t, PaneEntries, m.pane)

	m.input.SetValue("")
	m, _ = press(t, m, "e")
	require.Equal(t, ModeEditEntry, m.mode)
	assert.Equal(t, "draft", m.input.Value())

	m.input.SetValue("final")
	m, _ = press(t, m, "enter")
	require.Len(t, m.entries, 1)
	assert.Equal(t, "final", m.entries[0].Content)

	m, _ = press(t, m, "d")
	assert.Empty(t, m.entries)
}

func TestAddEntryNeedsProject(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "a")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Contains(t, m.message, "Create a project first")
}

func TestSetStatus(t *testing.T) {
	m, database, _ := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter")

	m, _ = press(t, m, "s")
	require.Equal(t, ModeSetStatus, m.mode)
	m.input.SetValue("150 2024-03-01 2024-03-31")
	m, _ = press(t, m, "enter")
	assert.Contains(t, m.message, "between 0 and 100")

	m, _ = press(t, m, "s")
	m.input.SetValue("40 2024-03-01 2024-03-31")
	m, _ = press(t, m, "enter")

	st, err := database.CurrentStatus(context.Background(), m.projects[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 40, st.Progress)
	assert.Equal(t, 40, m.latest[m.projects[0].ID].Progress)

	// The next status input starts from the current snapshot
	m, _ = press(t, m, "s")
	assert.Equal(t, "40 2024-03-01 2024-03-31", m.input.Value())
}

func TestParseStatusInput(t *testing.T) {
	progress, start, end, err := parseStatusInput("75% 2024-01-01 2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, 75, progress)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), end)

	for _, bad := range []string{"", "40", "x 2024-01-01 2024-01-02", "-1 2024-01-01 2024-01-02", "40 01/01/2024 2024-01-02"} {
		_, _, _, err := parseStatusInput(bad)
		assert.Error(t, err, bad)
	}
}

func TestCycleTypeAndParent(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter", "p", "Beta", "enter")
	require.Len(t, m.projects, 2)

	beta := m.currentProject()
	require.Equal(t, "Beta", beta.Name)

	m, _ = press(t, m, "t")
	assert.Equal(t, "task", string(m.currentProject().Type))

	m, _ = press(t, m, "P")
	require.NotNil(t, m.currentProject().Parent)
	assert.Equal(t, "Beta", m.currentProject().Name)
	assert.Equal(t, m.projects[0].ID, *m.currentProject().Parent)

	m, _ = press(t, m, "P")
	assert.Nil(t, m.currentProject().Parent)
	assert.Equal(t, "Moved to top level", m.message)
}

func TestDeleteProjectNeedsConfirmation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter")

	m, _ = press(t, m, "d", "n")
	assert.Len(t, m.projects, 1)
	assert.Equal(t, "Delete cancelled", m.message)

	m, _ = press(t, m, "d", "y")
	assert.Empty(t, m.projects)
}

func TestGenerateWithoutKey(t *testing.T) {
	m, _, ai := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter")

	m, cmd := press(t, m, "g")
	require.NotNil(t, cmd)
	assert.True(t, m.generating)

	msg := cmd().(notesMsg)
	assert.True(t, errors.Is(msg.err, notes.ErrCredentialNotSet))
	assert.Zero(t, ai.calls)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.False(t, m.generating)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Contains(t, m.message, "Press K")
}

func TestGenerateShowsNotes(t *testing.T) {
	m, _, ai := newTestModel(t)
	ai.reply = "- shipped the beta"
	m, _ = press(t, m, "p", "Alpha", "enter", "K")
	require.Equal(t, ModeSetKey, m.mode)
	m.input.SetValue("sk-test")
	m, _ = press(t, m, "enter", "a", "beta out", "enter")

	m, cmd := press(t, m, "g")
	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, ModeNotes, m.mode)
	assert.Equal(t, "Notes: Alpha", m.notesTitle)
	assert.Contains(t, m.View(), "shipped the beta")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeNormal, m.mode)

	ai.reply = ""
	m, cmd = press(t, m, "u")
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, ModeNotes, m.mode)
	assert.Contains(t, m.notesTitle, "Update ")
	assert.Contains(t, m.View(), notes.Placeholder)
	assert.Equal(t, 2, ai.calls)
}

func TestGenerateHasNoDeadline(t *testing.T) {
	m, _, ai := newTestModel(t)
	m, _ = press(t, m, "p", "Alpha", "enter", "K")
	m.input.SetValue("sk-test")
	m, _ = press(t, m, "enter", "a", "slow model day", "enter")

	_, cmd := press(t, m, "g")
	require.NotNil(t, cmd)
	cmd()

	_, cmd = press(t, m, "u")
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 2, ai.calls)
	assert.Zero(t, ai.sawDeadlines)
}
