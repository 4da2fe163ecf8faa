package cli

import (
	"errors"
	"fmt"

	"github.com/existflow/journal/internal/notes"
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes [project-id]",
	Short: "Generate notes from a project's entries",
	Long: `Send a project's entries to the chat model and print the resulting
markdown notes.

The system prompt comes from the project-summary-system-prompt setting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNotes,
}

// explainNotesError turns pipeline errors into actionable messages
func explainNotesError(err error) error {
	var reqErr *notes.RequestError
	switch {
	case errors.Is(err, notes.ErrCredentialNotSet):
		return fmt.Errorf("no OpenAI API key stored: run 'journal settings set-key'")
	case errors.As(err, &reqErr):
		return fmt.Errorf("model request failed: %w", reqErr.Err)
	default:
		return err
	}
}

func runNotes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	var raw string
	if len(args) == 1 {
		raw = args[0]
	}
	project, err := resolveProject(ctx, database, raw)
	if err != nil {
		return err
	}

	entries, err := database.ListEntries(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	fmt.Printf("🔄 Generating notes for %s from %d entries...\n\n", project.Name, len(entries))
	out, err := newGenerator(database).SummarizeProjectEntries(ctx, entries)
	if err != nil {
		return explainNotesError(err)
	}

	fmt.Println(notes.OrPlaceholder(out))
	return nil
}
