package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/existflow/journal/internal/logger"
	"github.com/existflow/journal/internal/model"
	"github.com/existflow/journal/internal/notes"
	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"e"},
	Short:   "Manage journal entries",
	Long:    `Add, list, edit and delete dated journal entries of a project.`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Add an entry to a project",
	Long: `Add an entry to a project. Content is markdown.

Pass "-" to read the content from stdin.

Examples:
  journal entry add "Finished the schema migration"
  journal entry add -P 3 "Call with vendor, pricing agreed"
  git log --oneline -5 | journal entry add -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEntryAdd,
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a project's entries, oldest first",
	Long: `List a project's entries, oldest first.

--from and --to accept YYYY-MM-DD, an RFC 3339 timestamp, "today" or
"yesterday". Both bounds are inclusive whole days.`,
	RunE: runEntryList,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit [entry-id] [content...]",
	Short: "Replace an entry's content",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete [entry-id]",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runEntryDelete,
}

var (
	entryProject string
	entryFrom    string
	entryTo      string
	entryFull    bool
)

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryListCmd, entryEditCmd, entryDeleteCmd} {
		c.Flags().StringVarP(&entryProject, "project", "P", "", "Project id (defaults to the current context)")
	}
	entryListCmd.Flags().StringVar(&entryFrom, "from", "", "First day to include")
	entryListCmd.Flags().StringVar(&entryTo, "to", "", "Last day to include")
	entryListCmd.Flags().BoolVarP(&entryFull, "full", "f", false, "Print full entry content")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

// readContent joins args into entry content, reading stdin for "-"
func readContent(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		args = []string{string(data)}
	}
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		return "", fmt.Errorf("entry content cannot be empty")
	}
	return content, nil
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, entryProject)
	if err != nil {
		return err
	}

	content, err := readContent(args)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id, err := database.CreateEntry(ctx, project.ID, now, now, content)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	logger.Info("Entry added", logger.F("project_id", project.ID), logger.F("entry_id", id))
	fmt.Printf("✓ Added entry #%d to %s\n", id, project.Name)
	return nil
}

func runEntryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, entryProject)
	if err != nil {
		return err
	}

	var entries []model.Entry
	if entryFrom == "" && entryTo == "" {
		entries, err = database.ListEntries(ctx, project.ID)
	} else {
		start, end := time.Time{}, time.Now().UTC()
		if entryFrom != "" {
			if start, err = parseDateArg(entryFrom); err != nil {
				return err
			}
		}
		if entryTo != "" {
			if end, err = parseDateArg(entryTo); err != nil {
				return err
			}
		}
		start, end = notes.PeriodBounds(start, end)
		entries, err = database.ListEntriesInRange(ctx, project.ID, start, end)
	}
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No entries in %s.\n", project.Name)
		return nil
	}

	fmt.Printf("\n%s\n", project.Name)
	fmt.Println(strings.Repeat("─", 60))
	for _, e := range entries {
		stamp := e.DateCreated.Local().Format("2006-01-02 15:04")
		if entryFull {
			fmt.Printf("#%d  %s\n%s\n\n", e.ID, stamp, e.Content)
			continue
		}
		edited := ""
		if e.DateUpdated != nil && e.DateUpdated.Sub(e.DateCreated) > time.Second {
			edited = " (edited)"
		}
		fmt.Printf("  #%-4d %s  %s%s\n", e.ID, stamp, truncate(e.Content, 50), edited)
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("  %d entries\n\n", len(entries))

	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, entryProject)
	if err != nil {
		return err
	}
	id, err := parseID("entry", args[0])
	if err != nil {
		return err
	}
	content, err := readContent(args[1:])
	if err != nil {
		return err
	}

	if err := database.UpdateEntry(ctx, project.ID, id, content, time.Now().UTC()); err != nil {
		return notFound(err, "entry #%d not found in %s", id, project.Name)
	}

	fmt.Printf("✓ Updated entry #%d\n", id)
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, entryProject)
	if err != nil {
		return err
	}
	id, err := parseID("entry", args[0])
	if err != nil {
		return err
	}

	if err := database.DeleteEntry(ctx, project.ID, id); err != nil {
		return notFound(err, "entry #%d not found in %s", id, project.Name)
	}

	fmt.Printf("🗑️  Deleted entry #%d\n", id)
	return nil
}
