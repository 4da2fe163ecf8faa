package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/journal/internal/model"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage projects",
	Long:    `Create, list, rename, nest and delete journal projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new top-level project.

Examples:
  journal project new "Website relaunch"
  journal project new "Pick CMS" --parent 1 --type task`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects with their current progress",
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project with its entries and status history",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectShow,
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename [project-id] [name]",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectRename,
}

var projectParentCmd = &cobra.Command{
	Use:   "parent [project-id] [parent-id|none]",
	Short: "Nest a project under a top-level project, or make it top-level again",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectParent,
}

var projectTypeCmd = &cobra.Command{
	Use:   "type [project-id] [project|task|milestone]",
	Short: "Change a project's type",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectType,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Long: `Delete a project.

By default the project's entries and status snapshots are removed with it.
Use --cascade=false to delete only the project row.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectDelete,
}

var (
	projectParent  string
	projectType    string
	projectCascade bool
)

func init() {
	projectNewCmd.Flags().StringVar(&projectParent, "parent", "", "Parent project id")
	projectNewCmd.Flags().StringVarP(&projectType, "type", "t", "", "Project type (project, task, milestone)")
	projectDeleteCmd.Flags().BoolVar(&projectCascade, "cascade", true, "Also delete entries and status snapshots")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectParentCmd)
	projectCmd.AddCommand(projectTypeCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	var parentID *int64
	if projectParent != "" {
		parent, err := resolveProject(ctx, database, projectParent)
		if err != nil {
			return err
		}
		if parent.IsChild() {
			return fmt.Errorf("%s is itself nested; only top-level projects can be parents", parent.Name)
		}
		parentID = &parent.ID
	}

	var pt model.ProjectType
	if projectType != "" {
		if pt, err = model.ParseProjectType(projectType); err != nil {
			return err
		}
	}

	id, err := database.CreateProject(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	if parentID != nil {
		if err := database.SetProjectParent(ctx, id, parentID); err != nil {
			return fmt.Errorf("failed to set parent: %w", err)
		}
	}
	if pt != "" && pt != model.TypeProject {
		if err := database.SetProjectType(ctx, id, pt); err != nil {
			return fmt.Errorf("failed to set type: %w", err)
		}
	}

	fmt.Printf("✓ Created project: %s (id: %d)\n", name, id)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	projects, err := database.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	latest, err := database.LatestStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load status: %w", err)
	}

	current := GetCurrentContext()

	fmt.Println()
	fmt.Printf("  %-5s  %-30s  %-10s  %s\n", "ID", "Name", "Type", "Progress")
	fmt.Println(strings.Repeat("─", 60))

	for _, p := range projects {
		name := p.Name
		if p.IsChild() {
			name = "  └ " + name
		}
		marker := " "
		if current == fmt.Sprint(p.ID) {
			marker = "*"
		}
		progress := "-"
		if s, ok := latest[p.ID]; ok {
			progress = fmt.Sprintf("%d%%", s.Progress)
		}
		fmt.Printf("%s %-5d  %-30s  %-10s  %s\n", marker, p.ID, truncate(name, 30), p.Type, progress)
	}

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("  %d projects\n\n", len(projects))

	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
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
	statuses, err := database.ListStatus(ctx, &project.ID)
	if err != nil {
		return fmt.Errorf("failed to list status: %w", err)
	}

	fmt.Printf("\n%s (id %d, %s)\n", project.Name, project.ID, project.Type)
	if project.Parent != nil {
		if parent, err := database.GetProject(ctx, *project.Parent); err == nil {
			fmt.Printf("Parent: %s (id %d)\n", parent.Name, parent.ID)
		}
	}

	fmt.Printf("\nStatus (%d)\n", len(statuses))
	for _, s := range statuses {
		fmt.Printf("  #%-4d %3d%%  %s → %s\n", s.ID, s.Progress, model.FormatDate(s.StartDate), model.FormatDate(s.EndDate))
	}

	fmt.Printf("\nEntries (%d)\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  #%-4d %s  %s\n", e.ID, e.DateCreated.Local().Format("2006-01-02 15:04"), truncate(e.Content, 60))
	}
	fmt.Println()

	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args[1])
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	if err := database.RenameProject(ctx, id, name); err != nil {
		return notFound(err, "project not found: %d", id)
	}

	fmt.Printf("✓ Renamed project %d to %s\n", id, name)
	return nil
}

func runProjectParent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, args[0])
	if err != nil {
		return err
	}

	if strings.EqualFold(args[1], "none") {
		if err := database.SetProjectParent(ctx, project.ID, nil); err != nil {
			return fmt.Errorf("failed to clear parent: %w", err)
		}
		fmt.Printf("✓ %s is now a top-level project\n", project.Name)
		return nil
	}

	parentID, err := parseID("parent", args[1])
	if err != nil {
		return err
	}

	all, err := database.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	var parent *model.Project
	for _, c := range model.ParentCandidates(project, all) {
		if c.ID == parentID {
			c := c
			parent = &c
			break
		}
	}
	if parent == nil {
		return fmt.Errorf("project %d cannot be the parent of %s", parentID, project.Name)
	}

	if err := database.SetProjectParent(ctx, project.ID, &parent.ID); err != nil {
		return fmt.Errorf("failed to set parent: %w", err)
	}

	fmt.Printf("✓ %s is now under %s\n", project.Name, parent.Name)
	return nil
}

func runProjectType(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}
	pt, err := model.ParseProjectType(args[1])
	if err != nil {
		return err
	}

	if err := database.SetProjectType(ctx, id, pt); err != nil {
		return notFound(err, "project not found: %d", id)
	}

	fmt.Printf("✓ Project %d is now a %s\n", id, pt)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	project, err := resolveProject(ctx, database, args[0])
	if err != nil {
		return err
	}

	if projectCascade {
		err = database.DeleteProjectCascade(ctx, project.ID)
	} else {
		err = database.DeleteProject(ctx, project.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if GetCurrentContext() == fmt.Sprint(project.ID) {
		_ = ClearContext()
	}

	fmt.Printf("🗑️  Deleted project: %s\n", project.Name)
	return nil
}
