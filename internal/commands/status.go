package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pctl/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an overview of all projects",
	Long:  `Display global counts, per-project progress, and the memo activity of the current week.`,
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

		weekOffset, _ := cmd.Flags().GetInt("week")

		tree := mgr.Tree()

		if cmd.Flags().Changed("day") {
			raw, _ := cmd.Flags().GetString("day")
			day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				fmt.Println("Error: invalid day, use YYYY-MM-DD")
				return nil
			}
			memos := state.MemosOn(tree, day)
			if len(memos) == 0 {
				fmt.Printf("No memos created on %s.\n", day.Format("Jan 2"))
				return nil
			}
			fmt.Printf("Memos created on %s:\n", day.Format("Jan 2"))
			for _, memo := range memos {
				done := 0
				for _, d := range memo.Details {
					if d.Completed {
						done++
					}
				}
				fmt.Printf("  %s (%d/%d done)\n", memo.Memo.Title, done, len(memo.Details))
			}
			return nil
		}
		totals := state.Stats(tree)
		stale := state.StaleMemos(tree, mgr.Now())

		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)

		fmt.Printf("%d project(s), %d item(s): %d done, %d pending\n",
			totals.Projects, totals.Details, totals.CompletedDetails, totals.PendingDetails)
		if len(stale) > 0 {
			color.Yellow("%d stale memo(s) — run \"pctl cleanup\" to review them\n", len(stale))
		}
		fmt.Println()

		if len(tree) > 0 {
			bold.Println("Projects:")
			for _, project := range tree {
				pct := state.Progress(project)
				switch {
				case pct == 100:
					color.Green("  %3d%%  %s\n", pct, project.Project.Name)
				case pct > 0:
					color.Yellow("  %3d%%  %s\n", pct, project.Project.Name)
				default:
					fmt.Printf("  %3d%%  %s\n", pct, project.Project.Name)
				}
			}
			fmt.Println()
		}

		week := state.WeekView(tree, mgr.Now(), weekOffset)
		bold.Printf("Week of %s:\n", week.Start.Format("Jan 2"))
		for _, day := range week.Days {
			bar := ""
			for i := 0; i < day.Count; i++ {
				bar += "■"
			}
			fmt.Printf("  %s  %s", day.Date.Format("Mon"), bar)
			if day.Count == state.WeekViewCap {
				dim.Print("+")
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().Int("week", 0, "Week offset from the current week (negative for past weeks)")
	statusCmd.Flags().String("day", "", "List memos created on a calendar day (YYYY-MM-DD)")
}
