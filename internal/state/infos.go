package state

import (
	"context"
	"fmt"
	"strings"

	"pctl/internal/gateway"
	"pctl/internal/models"
)

func validInfoType(t models.InfoType) bool {
	switch t {
	case models.InfoCommand, models.InfoURL, models.InfoNote:
		return true
	}
	return false
}

// AddInfo attaches a reference snippet to a project. Blank label or value is
// a silent no-op.
func (m *Manager) AddInfo(ctx context.Context, projectID string, infoType models.InfoType, label, value string) error {
	if blank(label) || blank(value) {
		return nil
	}
	if !validInfoType(infoType) {
		return fmt.Errorf("invalid info type: %s", infoType)
	}

	row := map[string]interface{}{
		"id":         m.newID(),
		"project_id": projectID,
		"type":       infoType,
		"label":      strings.TrimSpace(label),
		"value":      strings.TrimSpace(value),
	}
	if err := m.gw.Insert(ctx, tableInfos, row, nil); err != nil {
		return fmt.Errorf("error adding info: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// UpdateInfo rewrites a reference snippet
func (m *Manager) UpdateInfo(ctx context.Context, projectID, infoID string, infoType models.InfoType, label, value string) error {
	if blank(label) || blank(value) {
		return nil
	}
	if !validInfoType(infoType) {
		return fmt.Errorf("invalid info type: %s", infoType)
	}

	patch := map[string]interface{}{
		"type":  infoType,
		"label": strings.TrimSpace(label),
		"value": strings.TrimSpace(value),
	}
	if err := m.gw.Update(ctx, tableInfos, patch, []gateway.Filter{gateway.Eq("id", infoID)}); err != nil {
		return fmt.Errorf("error updating info: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// DeleteInfo removes a reference snippet
func (m *Manager) DeleteInfo(ctx context.Context, projectID, infoID string) error {
	if err := m.gw.Delete(ctx, tableInfos, []gateway.Filter{gateway.Eq("id", infoID)}); err != nil {
		return fmt.Errorf("error deleting info: %w", err)
	}

	if err := m.touchProject(ctx, projectID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}
