package notes

import (
	"strings"

	"github.com/existflow/journal/internal/model"
)

// Chat roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProjectNotes is the notes text collected for one project of a periodic update
type ProjectNotes struct {
	Project string `json:"project"`
	Notes   string `json:"notes"`
}

// EntryMessage renders an entry as "{date_created}:\n{content}"
func EntryMessage(e model.Entry) string {
	return model.FormatTimestamp(e.DateCreated) + ":\n" + e.Content
}

// BuildSummaryMessages returns one user message per entry, in the order given
func BuildSummaryMessages(entries []model.Entry) []Message {
	messages := make([]Message, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, Message{Role: RoleUser, Content: EntryMessage(e)})
	}
	return messages
}

// BuildPeriodicPrompt renders a level-1 heading with the label followed by one
// level-2 section per project, sections separated by a blank line
func BuildPeriodicPrompt(label string, notes []ProjectNotes) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(label)
	for _, n := range notes {
		b.WriteString("\n\n## ")
		b.WriteString(n.Project)
		b.WriteString("\n")
		b.WriteString(n.Notes)
	}
	return b.String()
}

// JoinEntries renders entries as the notes text of a periodic update section
func JoinEntries(entries []model.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, EntryMessage(e))
	}
	return strings.Join(parts, "\n\n")
}
