package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pctl/internal/state"
)

var memoCmd = &cobra.Command{
	Use:   "memo",
	Short: "Manage memos and their checklists",
	Long:  "Create, edit, archive, and delete memos; manage their checklist details",
}

var memoAddCmd = &cobra.Command{
	Use:   "add <project> <title>",
	Short: "Add a memo to a project",
	Long:  "Add a memo. Repeat --detail to seed the checklist.",
	Args:  cobra.ExactArgs(2),
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

		priority, _ := cmd.Flags().GetInt("priority")
		if priority < 0 || priority > 5 {
			fmt.Println("Error: priority must be between 0 and 5")
			return nil
		}
		details, _ := cmd.Flags().GetStringArray("detail")

		if err := mgr.CreateMemo(ctx, project.Project.ID, args[1], priority, details); err != nil {
			fmt.Println("Error creating memo:", err)
			return nil
		}

		fmt.Println("Memo added.")
		return nil
	},
}

var memoShowCmd = &cobra.Command{
	Use:   "show <project> [memo]",
	Short: "Show a project's memos and checklists",
	Args:  cobra.RangeArgs(1, 2),
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

		memos := project.Memos
		if len(args) == 2 {
			memo, err := resolveMemo(project, args[1])
			if err != nil {
				fmt.Println("Error:", err)
				return nil
			}
			memos = memos[:0:0]
			memos = append(memos, *memo)
		}

		if len(memos) == 0 {
			fmt.Println("No memos in this project.")
			return nil
		}

		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)
		warn := color.New(color.FgYellow)
		done := color.New(color.FgGreen)
		now := mgr.Now()

		for i := range memos {
			memo := &memos[i]
			bold.Printf("%s", memo.Memo.Title)
			fmt.Printf("  %d%%", state.MemoProgress(memo))
			if state.IsStale(memo.Memo, now) {
				warn.Print("  [stale]")
			}
			dim.Printf("  %s\n", memo.Memo.ID)
			for _, d := range memo.Details {
				completed := d.Completed
				if v, ok := mgr.Override(d.ID); ok {
					completed = v
				}
				if completed {
					done.Printf("  [x] %s\n", d.Content)
				} else {
					fmt.Printf("  [ ] %s\n", d.Content)
				}
			}
		}
		return nil
	},
}

var memoEditCmd = &cobra.Command{
	Use:   "edit <project> <memo>",
	Short: "Edit a memo, replacing its checklist",
	Long:  "Edit a memo's title and priority. Any --detail flags replace the entire checklist.",
	Args:  cobra.ExactArgs(2),
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
		memo, err := resolveMemo(project, args[1])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		title := memo.Memo.Title
		if cmd.Flags().Changed("title") {
			title, _ = cmd.Flags().GetString("title")
		}
		priority := memo.Memo.Priority
		if cmd.Flags().Changed("priority") {
			priority, _ = cmd.Flags().GetInt("priority")
		}

		details := make([]string, 0, len(memo.Details))
		if cmd.Flags().Changed("detail") {
			details, _ = cmd.Flags().GetStringArray("detail")
		} else {
			for _, d := range memo.Details {
				details = append(details, d.Content)
			}
		}

		if err := mgr.UpdateMemo(ctx, project.Project.ID, memo.Memo.ID, title, priority, details); err != nil {
			fmt.Println("Error updating memo:", err)
			return nil
		}

		fmt.Println("Memo updated.")
		return nil
	},
}

func memoActionCmd(use, short string, action func(mgr *state.Manager, ctx context.Context, projectID, memoID string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <project> <memo>",
		Short: short,
		Args:  cobra.ExactArgs(2),
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
			memo, err := resolveMemo(project, args[1])
			if err != nil {
				fmt.Println("Error:", err)
				return nil
			}

			if err := action(mgr, ctx, project.Project.ID, memo.Memo.ID); err != nil {
				fmt.Println("Error:", err)
				return nil
			}

			fmt.Println("Done.")
			return nil
		},
	}
}

// memoRestoreCmd takes the memo id alone: an archived memo is not part of
// the active tree, so the usual project/memo resolvers cannot find it.
var memoRestoreCmd = &cobra.Command{
	Use:   "restore <memo-id>",
	Short: "Restore an archived memo",
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

		for _, memo := range mgr.Archive().Memos {
			if memo.Memo.ID == args[0] {
				if err := mgr.RestoreMemo(ctx, memo.Memo.ProjectID, memo.Memo.ID); err != nil {
					fmt.Println("Error restoring memo:", err)
					return nil
				}
				fmt.Printf("Memo %q restored.\n", memo.Memo.Title)
				return nil
			}
		}

		fmt.Println("Error: no archived memo with id", args[0])
		return nil
	},
}

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Manage checklist details",
}

var detailAddCmd = &cobra.Command{
	Use:   "add <project> <memo> <content>",
	Short: "Append a checklist line to a memo",
	Args:  cobra.ExactArgs(3),
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
		memo, err := resolveMemo(project, args[1])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := mgr.AddDetail(ctx, project.Project.ID, memo.Memo.ID, args[2]); err != nil {
			fmt.Println("Error adding detail:", err)
			return nil
		}

		fmt.Println("Detail added.")
		return nil
	},
}

var detailToggleCmd = &cobra.Command{
	Use:   "toggle <project> <memo> <number>",
	Short: "Toggle a checklist line by its position (1-based)",
	Args:  cobra.ExactArgs(3),
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
		memo, err := resolveMemo(project, args[1])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		index, err := strconv.Atoi(args[2])
		if err != nil || index < 1 || index > len(memo.Details) {
			fmt.Println("Error: detail number out of range")
			return nil
		}
		detail := memo.Details[index-1]

		if err := mgr.ToggleDetail(ctx, project.Project.ID, detail.ID, !detail.Completed); err != nil {
			fmt.Println("Error toggling detail:", err)
			return nil
		}

		fmt.Println("Detail toggled.")
		return nil
	},
}

var detailDeleteCmd = &cobra.Command{
	Use:   "delete <project> <memo> <number>",
	Short: "Delete a checklist line by its position (1-based)",
	Args:  cobra.ExactArgs(3),
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
		memo, err := resolveMemo(project, args[1])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		index, err := strconv.Atoi(args[2])
		if err != nil || index < 1 || index > len(memo.Details) {
			fmt.Println("Error: detail number out of range")
			return nil
		}

		if err := mgr.DeleteDetail(ctx, project.Project.ID, memo.Details[index-1].ID); err != nil {
			fmt.Println("Error deleting detail:", err)
			return nil
		}

		fmt.Println("Detail deleted.")
		return nil
	},
}

func init() {
	memoAddCmd.Flags().Int("priority", 0, "Priority (0-5)")
	memoAddCmd.Flags().StringArray("detail", nil, "Checklist line (repeatable)")

	memoEditCmd.Flags().String("title", "", "New title")
	memoEditCmd.Flags().Int("priority", 0, "New priority (0-5)")
	memoEditCmd.Flags().StringArray("detail", nil, "Replacement checklist line (repeatable)")

	memoCmd.AddCommand(memoAddCmd)
	memoCmd.AddCommand(memoShowCmd)
	memoCmd.AddCommand(memoEditCmd)
	memoCmd.AddCommand(memoActionCmd("archive", "Archive a memo", func(mgr *state.Manager, ctx context.Context, projectID, memoID string) error {
		return mgr.ArchiveMemo(ctx, projectID, memoID)
	}))
	memoCmd.AddCommand(memoRestoreCmd)
	memoCmd.AddCommand(memoActionCmd("delete", "Permanently delete a memo and its details", func(mgr *state.Manager, ctx context.Context, projectID, memoID string) error {
		return mgr.DeleteMemo(ctx, projectID, memoID)
	}))
	memoCmd.AddCommand(memoActionCmd("restart", "Reset a memo's work cycle", func(mgr *state.Manager, ctx context.Context, projectID, memoID string) error {
		return mgr.RestartMemo(ctx, projectID, memoID)
	}))
	memoCmd.AddCommand(memoActionCmd("complete", "Mark every detail of a memo completed", func(mgr *state.Manager, ctx context.Context, projectID, memoID string) error {
		return mgr.CompleteMemo(ctx, projectID, memoID)
	}))

	detailCmd.AddCommand(detailAddCmd)
	detailCmd.AddCommand(detailToggleCmd)
	detailCmd.AddCommand(detailDeleteCmd)
	memoCmd.AddCommand(detailCmd)
}
