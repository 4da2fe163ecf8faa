package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/existflow/journal/internal/config"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the current project",
	Long: `Set or view the current project.

When a context is set, entry, status and notes commands use that project
unless --project is given.

Examples:
  journal context              # Show current project
  journal context set 3        # Use project 3
  journal context clear        # Forget the current project`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Set the current project",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current project",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

// Context file path
func contextFilePath() string {
	return filepath.Join(config.Dir(), "context")
}

// GetCurrentContext returns the current project id as text (empty means none)
func GetCurrentContext() string {
	data, err := os.ReadFile(contextFilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the current project id
func SetContext(projectID int64) error {
	path := contextFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.FormatInt(projectID, 10)), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	if err := os.Remove(contextFilePath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	current := GetCurrentContext()
	if current == "" {
		fmt.Println("No current project. Use 'journal context set <project-id>'.")
		return nil
	}

	database, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(cmd.Context(), database, current)
	if err != nil {
		fmt.Printf("Context set to '%s' but project not found\n", current)
		return nil
	}

	entries, _ := database.ListEntries(cmd.Context(), project.ID)
	fmt.Printf("Current project: %s (id %d, %d entries)\n", project.Name, project.ID, len(entries))
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	database, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(cmd.Context(), database, args[0])
	if err != nil {
		return err
	}

	if err := SetContext(project.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Printf("Switched to: %s\n", project.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("Context cleared")
	return nil
}
