package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Progress colors
	ProgressLow  = lipgloss.Color("#FF6B6B") // < 34%
	ProgressMid  = lipgloss.Color("#FFE66D") // < 67%
	ProgressHigh = lipgloss.Color("#4ECDC4")
	ProgressDone = lipgloss.Color("#95E1A3") // 100%

	ErrorColor = lipgloss.Color("#FF6B6B")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Entry list
	EntryListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Project item
	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	// Entry item
	EntryItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	EntryItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	EntryDateStyle = lipgloss.NewStyle().Foreground(Secondary)

	TypeBadgeStyle = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	DangerModalStyle = ModalStyle.BorderForeground(ErrorColor)

	// Notes viewer
	NotesStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// progressColor picks a color for a progress percentage
func progressColor(progress int) lipgloss.Color {
	switch {
	case progress >= 100:
		return ProgressDone
	case progress >= 67:
		return ProgressHigh
	case progress >= 34:
		return ProgressMid
	default:
		return ProgressLow
	}
}

// FormatProgress renders a percentage with a bar of width cells
func FormatProgress(progress, width int) string {
	filled := min(max(progress*width/100, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(progressColor(progress)).Render(bar) +
		lipgloss.NewStyle().Foreground(TextMuted).Render(" "+padLeft(itoa(progress)+"%", 4))
}
