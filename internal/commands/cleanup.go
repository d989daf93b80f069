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

// cleanupCmd walks every stale memo and asks what to do with it. Each action
// is applied immediately, so an interrupted run keeps the work done so far.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Review memos that have gone stale",
	Long:  "Walks through every memo whose work cycle started a week or more ago and asks whether to restart, complete, archive, delete, or skip it.",
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

		stale := state.StaleMemos(mgr.Tree(), mgr.Now())
		if len(stale) == 0 {
			fmt.Println("Nothing to clean up.")
			return nil
		}

		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Printf("%d stale memo(s) found.\n\n", len(stale))
		for i, memo := range stale {
			bold.Printf("[%d/%d] %s", i+1, len(stale), memo.Memo.Title)
			dim.Printf("  (%s, started %d days ago)\n", memo.ProjectName, memo.DaysAgo)
			for _, d := range memo.Details {
				mark := " "
				if d.Completed {
					mark = "x"
				}
				fmt.Printf("  [%s] %s\n", mark, d.Content)
			}

			fmt.Print("(r)estart / (c)omplete / (a)rchive / (d)elete / (s)kip? ")
			if !scanner.Scan() {
				return nil
			}

			var actErr error
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "r":
				actErr = mgr.RestartMemo(ctx, memo.ProjectID, memo.Memo.ID)
			case "c":
				actErr = mgr.CompleteMemo(ctx, memo.ProjectID, memo.Memo.ID)
			case "a":
				actErr = mgr.ArchiveMemo(ctx, memo.ProjectID, memo.Memo.ID)
			case "d":
				actErr = mgr.DeleteMemo(ctx, memo.ProjectID, memo.Memo.ID)
			default:
				continue
			}
			if actErr != nil {
				fmt.Println("Error:", actErr)
			}
		}

		fmt.Println("Cleanup complete.")
		return nil
	},
}
