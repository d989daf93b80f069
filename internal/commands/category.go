package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pctl/internal/models"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage project categories",
}

// findCategory matches by id or case-insensitive name
func findCategory(categories []models.Category, arg string) (*models.Category, error) {
	for i := range categories {
		if categories[i].ID == arg || strings.EqualFold(categories[i].Name, arg) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category not found: %s", arg)
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories in rank order",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		if err := loadTree(context.Background(), mgr); err != nil {
			fmt.Println("Error loading categories:", err)
			return nil
		}

		categories := mgr.Categories()
		if len(categories) == 0 {
			fmt.Println("No categories yet.")
			return nil
		}
		for _, c := range categories {
			fmt.Printf("%2d. %s  (%s)\n", c.SortOrder, c.Name, c.ID)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading categories:", err)
			return nil
		}

		if err := mgr.CreateCategory(ctx, args[0]); err != nil {
			fmt.Println("Error creating category:", err)
			return nil
		}

		fmt.Println("Category created.")
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading categories:", err)
			return nil
		}

		category, err := findCategory(mgr.Categories(), args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := mgr.RenameCategory(ctx, category.ID, args[1]); err != nil {
			fmt.Println("Error renaming category:", err)
			return nil
		}

		fmt.Println("Category renamed.")
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category (its projects become uncategorized)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		ctx := context.Background()
		if err := loadTree(ctx, mgr); err != nil {
			fmt.Println("Error loading categories:", err)
			return nil
		}

		category, err := findCategory(mgr.Categories(), args[0])
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}

		if err := mgr.DeleteCategory(ctx, category.ID); err != nil {
			fmt.Println("Error deleting category:", err)
			return nil
		}

		fmt.Println("Category deleted.")
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}
