package state

import (
	"context"
	"fmt"
	"strings"

	"pctl/internal/gateway"
)

// AddDetail appends one checklist line to a memo. Blank content is a silent
// no-op.
func (m *Manager) AddDetail(ctx context.Context, projectID, memoID, content string) error {
	if blank(content) {
		return nil
	}

	row := map[string]interface{}{
		"id":        m.newID(),
		"memo_id":   memoID,
		"content":   strings.TrimSpace(content),
		"completed": false,
	}
	if err := m.gw.Insert(ctx, tableDetails, row, nil); err != nil {
		return fmt.Errorf("error adding detail: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// ToggleDetail flips a detail's completed flag. The new value is recorded as
// a pending local override for immediate feedback, then written through the
// gateway; the override is dropped as soon as a fresh authoritative fetch
// lands. completed_at is set on the false-to-true transition and cleared on
// the way back.
func (m *Manager) ToggleDetail(ctx context.Context, projectID, detailID string, completed bool) error {
	m.setOverride(detailID, completed)

	patch := map[string]interface{}{"completed": completed}
	if completed {
		patch["completed_at"] = m.now().UTC()
	} else {
		patch["completed_at"] = nil
	}
	if err := m.gw.Update(ctx, tableDetails, patch, []gateway.Filter{gateway.Eq("id", detailID)}); err != nil {
		m.clearOverride(detailID)
		return fmt.Errorf("error toggling detail: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// DeleteDetail removes one checklist line
func (m *Manager) DeleteDetail(ctx context.Context, projectID, detailID string) error {
	if err := m.gw.Delete(ctx, tableDetails, []gateway.Filter{gateway.Eq("id", detailID)}); err != nil {
		return fmt.Errorf("error deleting detail: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}
