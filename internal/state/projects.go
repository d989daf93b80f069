package state

import (
	"context"
	"fmt"
	"strings"

	"pctl/internal/gateway"
	"pctl/internal/models"
)

// CreateProject inserts a new project. An empty name is a silent no-op.
func (m *Manager) CreateProject(ctx context.Context, name, description, color string, categoryID *string) error {
	if blank(name) {
		return nil
	}

	row := map[string]interface{}{
		"id":          m.newID(),
		"name":        strings.TrimSpace(name),
		"description": description,
		"color":       color,
		"category_id": categoryID,
		"archived":    false,
	}
	if err := m.gw.Insert(ctx, tableProjects, row, nil); err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	return m.Refresh(ctx)
}

// UpdateProject rewrites a project's own attributes. The patch carries the
// fresh updated_at itself, so no separate touch is needed.
func (m *Manager) UpdateProject(ctx context.Context, id, name, description, color string, categoryID *string) error {
	if blank(name) {
		return nil
	}

	patch := map[string]interface{}{
		"name":        strings.TrimSpace(name),
		"description": description,
		"color":       color,
		"category_id": categoryID,
		"updated_at":  m.now().UTC(),
	}
	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error updating project: %w", err)
	}

	return m.Refresh(ctx)
}

// DeleteProject permanently removes a project and everything it owns. The
// children go first so no row is ever left pointing at a missing owner.
// Irreversible.
func (m *Manager) DeleteProject(ctx context.Context, id string) error {
	var memos []models.Memo
	q := gateway.Query{Filters: []gateway.Filter{gateway.Eq("project_id", id)}}
	if err := m.gw.Select(ctx, tableMemos, q, &memos); err != nil {
		return fmt.Errorf("error listing memos: %w", err)
	}

	if len(memos) > 0 {
		ids := make([]string, len(memos))
		for i, memo := range memos {
			ids[i] = memo.ID
		}
		if err := m.gw.Delete(ctx, tableDetails, []gateway.Filter{gateway.In("memo_id", ids)}); err != nil {
			return fmt.Errorf("error deleting details: %w", err)
		}
		if err := m.gw.Delete(ctx, tableMemos, []gateway.Filter{gateway.Eq("project_id", id)}); err != nil {
			return fmt.Errorf("error deleting memos: %w", err)
		}
	}
	if err := m.gw.Delete(ctx, tableInfos, []gateway.Filter{gateway.Eq("project_id", id)}); err != nil {
		return fmt.Errorf("error deleting infos: %w", err)
	}
	if err := m.gw.Delete(ctx, tableProjects, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}

	m.evictSelection(id)
	return m.Refresh(ctx)
}

// ArchiveProject soft-deletes a project out of the active views. The project
// leaves navigation if it was selected. Archival is not a content change, so
// updated_at stays put.
func (m *Manager) ArchiveProject(ctx context.Context, id string) error {
	patch := map[string]interface{}{"archived": true}
	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error archiving project: %w", err)
	}

	m.evictSelection(id)
	return m.Refresh(ctx)
}

// RestoreProject returns an archived project to the active views with all
// its children intact.
func (m *Manager) RestoreProject(ctx context.Context, id string) error {
	patch := map[string]interface{}{"archived": false}
	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error restoring project: %w", err)
	}

	return m.Refresh(ctx)
}

// MoveProject re-categorizes and reorders a dragged project. With no target
// only the category assignment changes; with a target the dragged project
// takes the target's sort rank. Rank ties are tolerated, display order falls
// back to creation time among equals. A nil category means uncategorized.
func (m *Manager) MoveProject(ctx context.Context, id string, targetID, categoryID *string) error {
	patch := map[string]interface{}{"category_id": categoryID}

	if targetID != nil {
		target, ok := m.Project(*targetID)
		if !ok {
			return fmt.Errorf("target project not found: %s", *targetID)
		}
		patch["sort_order"] = target.Project.SortOrder
	}

	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("id", id)}); err != nil {
		return fmt.Errorf("error moving project: %w", err)
	}

	return m.Refresh(ctx)
}
