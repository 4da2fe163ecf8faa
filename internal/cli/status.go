package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/existflow/journal/internal/model"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"s"},
	Short:   "Record and review progress snapshots",
	Long: `Record progress snapshots for a project.

Each snapshot holds a progress percentage and a planned date span. The
newest snapshot is the project's current status.`,
}

var statusAddCmd = &cobra.Command{
	Use:   "add [progress] [start-date] [end-date]",
	Short: "Record a progress snapshot",
	Long: `Record a progress snapshot.

Dates accept YYYY-MM-DD, an RFC 3339 timestamp, "today" or "yesterday".

Examples:
  journal status add 40 2024-03-01 2024-03-31
  journal status add 100 today today -P 2`,
	Args: cobra.ExactArgs(3),
	RunE: runStatusAdd,
}

var statusListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List progress snapshots",
	RunE:    runStatusList,
}

var statusUpdateCmd = &cobra.Command{
	Use:   "update [status-id] [progress] [start-date] [end-date]",
	Short: "Change a progress snapshot",
	Args:  cobra.ExactArgs(4),
	RunE:  runStatusUpdate,
}

var statusDeleteCmd = &cobra.Command{
	Use:     "delete [status-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a progress snapshot",
	Args:    cobra.ExactArgs(1),
	RunE:    runStatusDelete,
}

var statusCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the most recent snapshot of a project",
	RunE:  runStatusCurrent,
}

var (
	statusProject string
	statusAll     bool
)

func init() {
	for _, c := range []*cobra.Command{statusAddCmd, statusListCmd, statusUpdateCmd, statusDeleteCmd, statusCurrentCmd} {
		c.Flags().StringVarP(&statusProject, "project", "P", "", "Project id (defaults to the current context)")
	}
	statusListCmd.Flags().BoolVarP(&statusAll, "all", "a", false, "List snapshots of every project")

	statusCmd.AddCommand(statusAddCmd)
	statusCmd.AddCommand(statusListCmd)
	statusCmd.AddCommand(statusUpdateCmd)
	statusCmd.AddCommand(statusDeleteCmd)
	statusCmd.AddCommand(statusCurrentCmd)
}

// parseProgress parses and range-checks a percentage argument
func parseProgress(s string) (int, error) {
	progress, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid progress: %q", s)
	}
	if err := model.ValidateProgress(progress); err != nil {
		return 0, err
	}
	return progress, nil
}

func printStatus(s model.Status) {
	filled := min(max(s.Progress/10, 0), 10)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	fmt.Printf("  #%-4d %s %3d%%  %s → %s  (recorded %s)\n",
		s.ID, bar, s.Progress,
		model.FormatDate(s.StartDate), model.FormatDate(s.EndDate),
		s.DateCreated.Local().Format("2006-01-02 15:04"))
}

func runStatusAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, statusProject)
	if err != nil {
		return err
	}

	progress, err := parseProgress(args[0])
	if err != nil {
		return err
	}
	start, err := parseDateArg(args[1])
	if err != nil {
		return err
	}
	end, err := parseDateArg(args[2])
	if err != nil {
		return err
	}

	id, err := database.CreateStatus(ctx, project.ID, progress, start, end)
	if err != nil {
		return fmt.Errorf("failed to add status: %w", err)
	}

	fmt.Printf("✓ Recorded %d%% for %s (status #%d)\n", progress, project.Name, id)
	return nil
}

func runStatusList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	if statusAll {
		projects, err := database.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		names := make(map[int64]string, len(projects))
		for _, p := range projects {
			names[p.ID] = p.Name
		}

		all, err := database.ListStatus(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to list status: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No status recorded.")
			return nil
		}
		var last int64 = -1
		for _, s := range all {
			if s.ProjectID != last {
				name := names[s.ProjectID]
				if name == "" {
					name = fmt.Sprintf("(deleted project %d)", s.ProjectID)
				}
				fmt.Printf("\n%s\n", name)
				last = s.ProjectID
			}
			printStatus(s)
		}
		fmt.Println()
		return nil
	}

	project, err := resolveProject(ctx, database, statusProject)
	if err != nil {
		return err
	}

	statuses, err := database.ListStatus(ctx, &project.ID)
	if err != nil {
		return fmt.Errorf("failed to list status: %w", err)
	}
	if len(statuses) == 0 {
		fmt.Printf("No status recorded for %s.\n", project.Name)
		return nil
	}

	fmt.Printf("\n%s\n", project.Name)
	for _, s := range statuses {
		printStatus(s)
	}
	fmt.Println()
	return nil
}

func runStatusUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, statusProject)
	if err != nil {
		return err
	}
	id, err := parseID("status", args[0])
	if err != nil {
		return err
	}
	progress, err := parseProgress(args[1])
	if err != nil {
		return err
	}
	start, err := parseDateArg(args[2])
	if err != nil {
		return err
	}
	end, err := parseDateArg(args[3])
	if err != nil {
		return err
	}

	if err := database.UpdateStatus(ctx, project.ID, id, progress, start, end); err != nil {
		return notFound(err, "status #%d not found in %s", id, project.Name)
	}

	fmt.Printf("✓ Updated status #%d\n", id)
	return nil
}

func runStatusDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, statusProject)
	if err != nil {
		return err
	}
	id, err := parseID("status", args[0])
	if err != nil {
		return err
	}

	if err := database.DeleteStatus(ctx, project.ID, id); err != nil {
		return notFound(err, "status #%d not found in %s", id, project.Name)
	}

	fmt.Printf("🗑️  Deleted status #%d\n", id)
	return nil
}

func runStatusCurrent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, statusProject)
	if err != nil {
		return err
	}

	s, err := database.CurrentStatus(ctx, project.ID)
	if err != nil {
		return notFound(err, "no status recorded for %s", project.Name)
	}

	fmt.Printf("\n%s\n", project.Name)
	printStatus(s)
	fmt.Println()
	return nil
}

