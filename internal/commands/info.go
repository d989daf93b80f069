package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pctl/internal/models"
	"pctl/internal/util"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Manage project reference infos",
	Long:  "Attach command snippets, URLs and notes to projects",
}

var infoListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List a project's infos",
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

		if len(project.Infos) == 0 {
			fmt.Println("No infos in this project.")
			return nil
		}

		dim := color.New(color.FgHiBlack)
		for i, info := range project.Infos {
			fmt.Printf("%2d. [%s] %s: %s", i+1, info.Type, info.Label, info.Value)
			dim.Printf("  %s\n", info.ID)
		}
		return nil
	},
}

var infoAddCmd = &cobra.Command{
	Use:   "add <project> <label> <value>",
	Short: "Attach an info to a project",
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

		infoType, _ := cmd.Flags().GetString("type")
		if err := mgr.AddInfo(ctx, project.Project.ID, models.InfoType(infoType), args[1], args[2]); err != nil {
			fmt.Println("Error adding info:", err)
			return nil
		}

		fmt.Println("Info added.")
		return nil
	},
}

var infoEditCmd = &cobra.Command{
	Use:   "edit <project> <number>",
	Short: "Edit an info by its position (1-based)",
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

		index, err := strconv.Atoi(args[1])
		if err != nil || index < 1 || index > len(project.Infos) {
			fmt.Println("Error: info number out of range")
			return nil
		}
		info := project.Infos[index-1]

		infoType := string(info.Type)
		if cmd.Flags().Changed("type") {
			infoType, _ = cmd.Flags().GetString("type")
		}
		label := info.Label
		if cmd.Flags().Changed("label") {
			label, _ = cmd.Flags().GetString("label")
		}
		value := info.Value
		if cmd.Flags().Changed("value") {
			value, _ = cmd.Flags().GetString("value")
		}

		if err := mgr.UpdateInfo(ctx, project.Project.ID, info.ID, models.InfoType(infoType), label, value); err != nil {
			fmt.Println("Error updating info:", err)
			return nil
		}

		fmt.Println("Info updated.")
		return nil
	},
}

var infoDeleteCmd = &cobra.Command{
	Use:   "delete <project> <number>",
	Short: "Delete an info by its position (1-based)",
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

		index, err := strconv.Atoi(args[1])
		if err != nil || index < 1 || index > len(project.Infos) {
			fmt.Println("Error: info number out of range")
			return nil
		}

		if err := mgr.DeleteInfo(ctx, project.Project.ID, project.Infos[index-1].ID); err != nil {
			fmt.Println("Error deleting info:", err)
			return nil
		}

		fmt.Println("Info deleted.")
		return nil
	},
}

var infoOpenCmd = &cobra.Command{
	Use:   "open <project> <number>",
	Short: "Open a URL info with the system handler",
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

		index, err := strconv.Atoi(args[1])
		if err != nil || index < 1 || index > len(project.Infos) {
			fmt.Println("Error: info number out of range")
			return nil
		}

		info := project.Infos[index-1]
		if info.Type != models.InfoURL {
			fmt.Println("Error: only url infos can be opened")
			return nil
		}

		if err := util.OpenExternal(info.Value); err != nil {
			fmt.Println("Error opening info:", err)
			return nil
		}
		return nil
	},
}

func init() {
	infoAddCmd.Flags().String("type", "note", "Info type: command, url or note")
	infoEditCmd.Flags().String("type", "", "Info type: command, url or note")
	infoEditCmd.Flags().String("label", "", "New label")
	infoEditCmd.Flags().String("value", "", "New value")

	infoCmd.AddCommand(infoListCmd)
	infoCmd.AddCommand(infoAddCmd)
	infoCmd.AddCommand(infoEditCmd)
	infoCmd.AddCommand(infoDeleteCmd)
	infoCmd.AddCommand(infoOpenCmd)
}
