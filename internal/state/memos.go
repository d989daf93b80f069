package state

import (
	"context"
	"fmt"
	"strings"

	"pctl/internal/gateway"
)

// CreateMemo inserts a memo and its initial checklist. The memo row must land
// before any detail row since details reference the memo's identity. Blank
// detail lines are skipped; an empty title is a silent no-op. The new memo's
// work cycle starts now.
func (m *Manager) CreateMemo(ctx context.Context, projectID, title string, priority int, details []string) error {
	if blank(title) {
		return nil
	}

	memoID := m.newID()
	row := map[string]interface{}{
		"id":         memoID,
		"project_id": projectID,
		"title":      strings.TrimSpace(title),
		"priority":   priority,
		"archived":   false,
		"started_at": m.now().UTC(),
	}
	if err := m.gw.Insert(ctx, tableMemos, row, nil); err != nil {
		return fmt.Errorf("error creating memo: %w", err)
	}

	if rows := m.detailRows(memoID, details); len(rows) > 0 {
		if err := m.gw.Insert(ctx, tableDetails, rows, nil); err != nil {
			return fmt.Errorf("error creating details: %w", err)
		}
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// UpdateMemo rewrites a memo and replaces its entire detail set: existing
// details are deleted and the new lines inserted. Replace-not-diff keeps the
// edit path simple at the cost of clobbering concurrent edits.
func (m *Manager) UpdateMemo(ctx context.Context, projectID, memoID, title string, priority int, details []string) error {
	if blank(title) {
		return nil
	}

	patch := map[string]interface{}{
		"title":    strings.TrimSpace(title),
		"priority": priority,
	}
	if err := m.gw.Update(ctx, tableMemos, patch, []gateway.Filter{gateway.Eq("id", memoID)}); err != nil {
		return fmt.Errorf("error updating memo: %w", err)
	}

	if err := m.gw.Delete(ctx, tableDetails, []gateway.Filter{gateway.Eq("memo_id", memoID)}); err != nil {
		return fmt.Errorf("error clearing details: %w", err)
	}
	if rows := m.detailRows(memoID, details); len(rows) > 0 {
		if err := m.gw.Insert(ctx, tableDetails, rows, nil); err != nil {
			return fmt.Errorf("error inserting details: %w", err)
		}
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// DeleteMemo permanently removes a memo and its details. Irreversible.
func (m *Manager) DeleteMemo(ctx context.Context, projectID, memoID string) error {
	if err := m.gw.Delete(ctx, tableDetails, []gateway.Filter{gateway.Eq("memo_id", memoID)}); err != nil {
		return fmt.Errorf("error deleting details: %w", err)
	}
	if err := m.gw.Delete(ctx, tableMemos, []gateway.Filter{gateway.Eq("id", memoID)}); err != nil {
		return fmt.Errorf("error deleting memo: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// ArchiveMemo moves a memo to the archive view
func (m *Manager) ArchiveMemo(ctx context.Context, projectID, memoID string) error {
	return m.setMemoArchived(ctx, projectID, memoID, true)
}

// RestoreMemo returns an archived memo to its project's active list
func (m *Manager) RestoreMemo(ctx context.Context, projectID, memoID string) error {
	return m.setMemoArchived(ctx, projectID, memoID, false)
}

func (m *Manager) setMemoArchived(ctx context.Context, projectID, memoID string, archived bool) error {
	patch := map[string]interface{}{"archived": archived}
	if err := m.gw.Update(ctx, tableMemos, patch, []gateway.Filter{gateway.Eq("id", memoID)}); err != nil {
		return fmt.Errorf("error updating memo: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// RestartMemo resets a stale memo's work cycle to now without touching its
// title or details.
func (m *Manager) RestartMemo(ctx context.Context, projectID, memoID string) error {
	patch := map[string]interface{}{"started_at": m.now().UTC()}
	if err := m.gw.Update(ctx, tableMemos, patch, []gateway.Filter{gateway.Eq("id", memoID)}); err != nil {
		return fmt.Errorf("error restarting memo: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// CompleteMemo marks every detail of a memo completed with a fresh
// completion time. The memo itself stays active.
func (m *Manager) CompleteMemo(ctx context.Context, projectID, memoID string) error {
	patch := map[string]interface{}{
		"completed":    true,
		"completed_at": m.now().UTC(),
	}
	if err := m.gw.Update(ctx, tableDetails, patch, []gateway.Filter{gateway.Eq("memo_id", memoID)}); err != nil {
		return fmt.Errorf("error completing details: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// detailRows builds insert rows for the non-blank checklist lines
func (m *Manager) detailRows(memoID string, details []string) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(details))
	for _, content := range details {
		if blank(content) {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"id":        m.newID(),
			"memo_id":   memoID,
			"content":   strings.TrimSpace(content),
			"completed": false,
		})
	}
	return rows
}
