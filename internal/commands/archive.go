package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and manage archived projects and memos",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived projects and memos",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		if err := loadTree(context.Background(), mgr); err != nil {
			fmt.Println("Error loading archive:", err)
			return nil
		}

		archive := mgr.Archive()
		if len(archive.Projects) == 0 && len(archive.Memos) == 0 {
			fmt.Println("The archive is empty.")
			return nil
		}

		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)

		if len(archive.Projects) > 0 {
			bold.Println("Projects:")
			for _, p := range archive.Projects {
				fmt.Printf("  %s", p.Project.Name)
				dim.Printf("  %s\n", p.Project.ID)
			}
		}
		if len(archive.Memos) > 0 {
			bold.Println("Memos:")
			for _, memo := range archive.Memos {
				fmt.Printf("  %s (%s, %d items)", memo.Memo.Title, memo.ProjectName, len(memo.Details))
				dim.Printf("  %s\n", memo.Memo.ID)
			}
		}
		return nil
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore an archived project or memo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading archive:", err)
			return nil
		}

		archive := mgr.Archive()
		for _, p := range archive.Projects {
			if p.Project.ID == args[0] {
				if err := mgr.RestoreProject(ctx, p.Project.ID); err != nil {
					fmt.Println("Error restoring project:", err)
					return nil
				}
				fmt.Printf("Project %q restored.\n", p.Project.Name)
				return nil
			}
		}
		for _, memo := range archive.Memos {
			if memo.Memo.ID == args[0] {
				if err := mgr.RestoreMemo(ctx, memo.Memo.ProjectID, memo.Memo.ID); err != nil {
					fmt.Println("Error restoring memo:", err)
					return nil
				}
				fmt.Printf("Memo %q restored.\n", memo.Memo.Title)
				return nil
			}
		}

		fmt.Println("Error: no archived project or memo with id", args[0])
		return nil
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Permanently delete an archived project or memo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading archive:", err)
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		confirm := func(what string) bool {
			if force {
				return true
			}
			fmt.Printf("Permanently delete %s? This cannot be undone. [y/N]: ", what)
			scanner := bufio.NewScanner(os.Stdin)
			return scanner.Scan() && strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
		}

		archive := mgr.Archive()
		for _, p := range archive.Projects {
			if p.Project.ID == args[0] {
				if !confirm(fmt.Sprintf("project %q with all its memos and infos", p.Project.Name)) {
					fmt.Println("Aborted.")
					return nil
				}
				if err := mgr.DeleteProject(ctx, p.Project.ID); err != nil {
					fmt.Println("Error deleting project:", err)
					return nil
				}
				fmt.Println("Project deleted.")
				return nil
			}
		}
		for _, memo := range archive.Memos {
			if memo.Memo.ID == args[0] {
				if !confirm(fmt.Sprintf("memo %q", memo.Memo.Title)) {
					fmt.Println("Aborted.")
					return nil
				}
				if err := mgr.DeleteMemo(ctx, memo.Memo.ProjectID, memo.Memo.ID); err != nil {
					fmt.Println("Error deleting memo:", err)
					return nil
				}
				fmt.Println("Memo deleted.")
				return nil
			}
		}

		fmt.Println("Error: no archived project or memo with id", args[0])
		return nil
	},
}

func init() {
	archiveDeleteCmd.Flags().Bool("force", false, "Skip the confirmation prompt")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveRestoreCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)
}
