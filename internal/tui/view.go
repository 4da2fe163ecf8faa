package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 34

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	entryList := m.renderEntries()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, entryList)

	switch {
	case m.mode.inputMode():
		mainContent = m.place(m.renderModal())
	case m.mode == ModeConfirmDelete:
		mainContent = m.place(m.renderConfirmDelete())
	case m.mode == ModeNotes:
		mainContent = m.renderNotes()
	case m.mode == ModeHelp:
		mainContent = m.place(m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) place(content string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderSidebar() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Journal") + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n\n")

	if len(m.projects) == 0 {
		s.WriteString(HelpStyle.Render("No projects.\nPress 'p' to create one.") + "\n")
	}

	for i, p := range m.projects {
		cursor := "  "
		style := ProjectItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ProjectItemSelectedStyle
			}
		}

		indent := ""
		if p.IsChild() {
			indent = "└ "
		}
		nameWidth := 16 - len([]rune(indent))
		line := fmt.Sprintf("%s%s%-*s", cursor, indent, nameWidth, truncate(p.Name, nameWidth))
		if st, ok := m.latest[p.ID]; ok {
			line += " " + lipgloss.NewStyle().Foreground(progressColor(st.Progress)).Render(padLeft(itoa(st.Progress)+"%", 4))
		}
		s.WriteString(style.Render(line) + "\n")
	}

	s.WriteString("\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n")
	s.WriteString(HelpStyle.Render("p new  r rename  t type  P parent"))

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s.String())
}

func (m Model) renderEntries() string {
	width := m.width - sidebarWidth - 2
	var s strings.Builder

	proj := m.currentProject()
	if proj == nil {
		return EntryListStyle.Width(width).Height(m.height - 2).Render(HelpStyle.Render("No project selected"))
	}

	header := fmt.Sprintf("%s (%d entries)", proj.Name, len(m.entries))
	s.WriteString(TitleStyle.Render(header) + " " + TypeBadgeStyle.Render(string(proj.Type)) + "\n")

	if st, ok := m.latest[proj.ID]; ok {
		s.WriteString(FormatProgress(st.Progress, 20) + "  " +
			HelpStyle.Render(st.StartDate.UTC().Format("Jan 2")+" → "+st.EndDate.UTC().Format("Jan 2, 2006")) + "\n")
	} else {
		s.WriteString(HelpStyle.Render("No status yet. Press 's' to set one.") + "\n")
	}
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n")

	if len(m.entries) == 0 {
		s.WriteString(HelpStyle.Render("  No entries. Press 'a' to add one."))
	}

	// Keep the cursor visible
	visible := max(m.height-9, 1)
	first := 0
	if m.entryCursor >= visible {
		first = m.entryCursor - visible + 1
	}
	last := min(first+visible, len(m.entries))

	for i := first; i < last; i++ {
		e := m.entries[i]
		cursor := "  "
		style := EntryItemStyle
		if i == m.entryCursor && m.pane == PaneEntries {
			cursor = "❯ "
			style = EntryItemSelectedStyle
		}

		stamp := EntryDateStyle.Render(e.DateCreated.Local().Format("Jan 02 15:04"))
		content := truncate(e.Content, max(width-24, 10))
		s.WriteString(style.Render(cursor) + stamp + style.Render(" "+content) + "\n")
	}

	return EntryListStyle.Width(width).Height(m.height - 2).Render(s.String())
}

func (m Model) renderStatusBar() string {
	help := "a:add  e:edit  d:del  s:status  g:notes  u:update  K:key  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}
	if m.generating {
		help = "⏳ " + help
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := ""
	hint := "Enter:save  Esc:cancel"
	proj := m.currentProject()

	switch m.mode {
	case ModeAddEntry:
		title = "New entry in: " + proj.Name
	case ModeEditEntry:
		title = "Edit entry"
	case ModeAddProject:
		title = "New Project"
	case ModeRenameProject:
		title = "Rename: " + proj.Name
	case ModeSetStatus:
		title = "Status for: " + proj.Name
		hint = "progress start end (e.g. 40 2024-03-01 2024-03-31)\n" + hint
	case ModeSetKey:
		title = "OpenAI API key"
		hint = "Stored in the journal database\n" + hint
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render(hint)

	return ModalStyle.Render(content)
}

func (m Model) renderConfirmDelete() string {
	name := ""
	if p := m.currentProject(); p != nil {
		name = p.Name
	}
	content := lipgloss.NewStyle().Bold(true).Foreground(ErrorColor).Render("Delete "+name+"?") + "\n\n"
	content += "All entries and status snapshots of this project\nwill be removed.\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")
	return DangerModalStyle.Render(content)
}

func (m Model) renderNotes() string {
	header := TitleStyle.Render(m.notesTitle)
	footer := HelpStyle.Render(fmt.Sprintf("↑↓ scroll  %3.f%%  Esc:close", m.notesView.ScrollPercent()*100))
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", m.notesView.View(), "", footer)
	return NotesStyle.Width(m.width - 2).Height(m.height - 4).Render(body)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───────╮
│                              │
│  Navigation                  │
│  ──────────                  │
│  j/↓    Move down            │
│  k/↑    Move up              │
│  h/l    Switch pane          │
│  Tab    Switch pane          │
│  G      Go to bottom         │
│                              │
│  Projects                    │
│  ────────                    │
│  p      New project          │
│  r      Rename               │
│  t      Cycle type           │
│  P      Cycle parent         │
│  s      Set status           │
│  d      Delete (sidebar)     │
│                              │
│  Entries                     │
│  ───────                     │
│  a      Add entry            │
│  e      Edit entry           │
│  d      Delete entry         │
│                              │
│  Notes                       │
│  ─────                       │
│  g      Project notes        │
│  u      Periodic update      │
│  K      Set API key          │
│                              │
│  ?      Toggle help          │
│  q      Quit                 │
│                              │
╰──────────────────────────────╯

     Press any key to close
`
	return help
}
