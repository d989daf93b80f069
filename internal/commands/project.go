package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pctl/internal/state"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  "Create, list, update, move, archive, and delete projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active projects with their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		if err := loadTree(context.Background(), mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		tree := mgr.Tree()
		if len(tree) == 0 {
			fmt.Println("No projects yet. Use 'pctl project create' to add one.")
			return nil
		}

		categories := mgr.Categories()
		names := map[string]string{}
		for _, c := range categories {
			names[c.ID] = c.Name
		}

		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)
		for _, p := range tree {
			group := "uncategorized"
			if p.Project.CategoryID != nil {
				if name, ok := names[*p.Project.CategoryID]; ok {
					group = name
				}
			}
			bold.Printf("%s", p.Project.Name)
			fmt.Printf("  %d%%", state.Progress(p))
			dim.Printf("  [%s]  %s\n", group, p.Project.ID)
			if p.Project.Description != "" {
				dim.Printf("    %s\n", p.Project.Description)
			}
		}
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		projectColor, _ := cmd.Flags().GetString("color")

		// If name wasn't provided via flag, prompt for it
		if name == "" {
			fmt.Print("Project name: ")
			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				name = scanner.Text()
			}
		}
		if strings.TrimSpace(name) == "" {
			fmt.Println("Error: project name is required")
			return nil
		}

		if err := mgr.CreateProject(context.Background(), name, description, projectColor, nil); err != nil {
			fmt.Println("Error creating project:", err)
			return nil
		}

		fmt.Printf("Project %q created.\n", strings.TrimSpace(name))
		return nil
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <project>",
	Short: "Update a project's name, description or color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		project, err := resolveProject(mgr, args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		name := project.Project.Name
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		description := project.Project.Description
		if cmd.Flags().Changed("description") {
			description, _ = cmd.Flags().GetString("description")
		}
		projectColor := project.Project.Color
		if cmd.Flags().Changed("color") {
			projectColor, _ = cmd.Flags().GetString("color")
		}

		if err := mgr.UpdateProject(ctx, project.Project.ID, name, description, projectColor, project.Project.CategoryID); err != nil {
			fmt.Println("Error updating project:", err)
			return nil
		}

		fmt.Println("Project updated.")
		return nil
	},
}

var projectMoveCmd = &cobra.Command{
	Use:   "move <project>",
	Short: "Re-categorize and reorder a project",
	Long: `Move a project into a category and optionally place it before another project.
Without --before only the category changes. With --before the moved project takes
the target's sort rank; ties fall back to creation order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		project, err := resolveProject(mgr, args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		var categoryID *string
		if cmd.Flags().Changed("category") {
			categoryName, _ := cmd.Flags().GetString("category")
			if categoryName != "" {
				found := false
				for _, c := range mgr.Categories() {
					if strings.EqualFold(c.Name, categoryName) || c.ID == categoryName {
						id := c.ID
						categoryID = &id
						found = true
						break
					}
				}
				if !found {
					fmt.Println("Error: category not found:", categoryName)
					return nil
				}
			}
		} else {
			categoryID = project.Project.CategoryID
		}

		var targetID *string
		if cmd.Flags().Changed("before") {
			targetArg, _ := cmd.Flags().GetString("before")
			target, err := resolveProject(mgr, targetArg)
			if err != nil {
				fmt.Println("Error:", err)
				return nil
			}
			id := target.Project.ID
			targetID = &id
		}

		if err := mgr.MoveProject(ctx, project.Project.ID, targetID, categoryID); err != nil {
			fmt.Println("Error moving project:", err)
			return nil
		}

		fmt.Println("Project moved.")
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		project, err := resolveProject(mgr, args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := mgr.ArchiveProject(ctx, project.Project.ID); err != nil {
			fmt.Println("Error archiving project:", err)
			return nil
		}

		fmt.Printf("Project %q archived.\n", project.Project.Name)
		return nil
	},
}

var projectRestoreCmd = &cobra.Command{
	Use:   "restore <project>",
	Short: "Restore an archived project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		for _, p := range mgr.Archive().Projects {
			if p.Project.ID == args[0] || strings.EqualFold(p.Project.Name, args[0]) {
				if err := mgr.RestoreProject(ctx, p.Project.ID); err != nil {
					fmt.Println("Error restoring project:", err)
					return nil
				}
				fmt.Printf("Project %q restored.\n", p.Project.Name)
				return nil
			}
		}

		fmt.Println("Error: no archived project matches", args[0])
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project>",
	Short: "Permanently delete a project and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		project, err := resolveProject(mgr, args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete project %q with all its memos and infos? This cannot be undone. [y/N]: ", project.Project.Name)
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := mgr.DeleteProject(ctx, project.Project.ID); err != nil {
			fmt.Println("Error deleting project:", err)
			return nil
		}

		fmt.Println("Project deleted.")
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("name", "", "Project name")
	projectCreateCmd.Flags().String("description", "", "Project description")
	projectCreateCmd.Flags().String("color", "#3498db", "Display color")

	projectEditCmd.Flags().String("name", "", "New name")
	projectEditCmd.Flags().String("description", "", "New description")
	projectEditCmd.Flags().String("color", "", "New display color")

	projectMoveCmd.Flags().String("category", "", "Target category name (empty for uncategorized)")
	projectMoveCmd.Flags().String("before", "", "Place before this project")

	projectDeleteCmd.Flags().Bool("force", false, "Skip the confirmation prompt")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectMoveCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectRestoreCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}
