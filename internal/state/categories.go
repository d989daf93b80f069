package state

import (
	"context"
	"fmt"
	"strings"

	"pctl/internal/gateway"
)

// Category mutations never touch a project's updated_at: grouping changes do
// not imply content changes.

// CreateCategory adds a named grouping at the end of the rank order. A blank
// name is a silent no-op.
func (m *Manager) CreateCategory(ctx context.Context, name string) error {
	if blank(name) {
		return nil
	}

	m.mu.RLock()
	rank := len(m.categories) + 1
	m.mu.RUnlock()

	row := map[string]interface{}{
		"id":         m.newID(),
		"name":       strings.TrimSpace(name),
		"sort_order": rank,
	}
	if err := m.gw.Insert(ctx, tableCategories, row, nil); err != nil {
		return fmt.Errorf("error creating category: %w", err)
	}

	return m.Refresh(ctx)
}

// RenameCategory changes a category's display name
func (m *Manager) RenameCategory(ctx context.Context, id, name string) error {
	if blank(name) {
		return nil
	}

	patch := map[string]interface{}{"name": strings.TrimSpace(name)}
	if err := m.gw.Update(ctx, tableCategories, patch, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error renaming category: %w", err)
	}

	return m.Refresh(ctx)
}

// DeleteCategory removes a grouping. Member projects become uncategorized,
// they are not deleted.
func (m *Manager) DeleteCategory(ctx context.Context, id string) error {
	patch := map[string]interface{}{"category_id": nil}
	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("category_id", id)}); err != nil {
		return fmt.Errorf("error detaching projects: %w", err)
	}
	if err := m.gw.Delete(ctx, tableCategories, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}

	return m.Refresh(ctx)
}
