package notes

// Settings keys read by the pipeline
const (
	KeyAPIKey               = "openai-api-key"
	KeyProjectSummaryPrompt = "project-summary-system-prompt"
	KeyPeriodicUpdatePrompt = "periodic-summary-system-prompt"
)

// DefaultProjectSummaryPrompt is used when no project summary template is stored
const DefaultProjectSummaryPrompt = "Summarize the following entries as bulletted notes for distribution " +
	"as an email to interested parties. This is a professional email and should be " +
	"concise and professional.\n\nUse markdown to format your response. Your response " +
	"will converted to HTML and rendered, so use Markdown accordingly. For example, only " +
	"use code blocks for code, make appropriate use of headers, and so on. It is very important " +
	"that you be concise."

// DefaultPeriodicUpdatePrompt is used when no periodic update template is stored
const DefaultPeriodicUpdatePrompt = "You will be provided with notes for various projects that were all take over a specified period of time. " +
	"Compile the following notes into an organized bulletted list of notes. These notes will " +
	"be distributed to business leaders to keep them up-date-date on internal intiatives, so " +
	"it is important that only the most relevant notes are highlighted, and that it is concise and " +
	"to the point. Each project should have a top-level bullet with any relevant notes nested below it. " +
	"If there are no notes for a project, then simply write '- No updates.' "

// Placeholder is shown when the model returns no content
const Placeholder = "No notes were generated."

// OrPlaceholder returns notes, or Placeholder when notes is empty
func OrPlaceholder(notes string) string {
	if notes == "" {
		return Placeholder
	}
	return notes
}

// SettingKeys lists every key the pipeline understands, with its built-in default
func SettingKeys() map[string]string {
	return map[string]string{
		KeyAPIKey:               "",
		KeyProjectSummaryPrompt: DefaultProjectSummaryPrompt,
		KeyPeriodicUpdatePrompt: DefaultPeriodicUpdatePrompt,
	}
}
