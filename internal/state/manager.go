package state

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pctl/internal/gateway"
	"pctl/internal/models"
	"pctl/internal/snapshot"
)

// Tables of the data service consumed by the core
const (
	tableProjects   = "projects"
	tableInfos      = "project_infos"
	tableMemos      = "memos"
	tableDetails    = "memo_details"
	tableCategories = "project_categories"
)

// Manager owns the in-memory project tree and coordinates every mutation
// against the remote store. Each mutation validates its input, issues the
// gateway calls in foreign-key order, refreshes the owning project's
// last-modified timestamp and then re-fetches everything. The tree is only
// ever replaced wholesale after a successful fetch, so a failed mutation
// leaves the last known-good state visible.
type Manager struct {
	gw   gateway.Gateway
	snap *snapshot.Store
	log  *logrus.Logger

	// Overridable in tests
	now   func() time.Time
	newID func() string

	mu         sync.RWMutex
	tree       []*models.ProjectTree
	archive    *models.ArchiveTree
	categories []models.Category
	selected   string
	overrides  map[string]bool
}

// NewManager creates a manager on top of a gateway
func NewManager(gw gateway.Gateway, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Manager{
		gw:        gw,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
		overrides: make(map[string]bool),
	}
}

// Now returns the manager's current time. Views use it so staleness math
// matches the coordinator's clock.
func (m *Manager) Now() time.Time {
	return m.now()
}

// SetSnapshot attaches a local snapshot store used as an offline fallback
func (m *Manager) SetSnapshot(snap *snapshot.Store) {
	m.snap = snap
}

// Refresh re-fetches every table and rebuilds both aggregation modes. On
// success the tree is replaced, pending detail overrides are dropped in
// favor of the authoritative rows, and the snapshot is rewritten best
// effort.
func (m *Manager) Refresh(ctx context.Context) error {
	rows, err := m.fetchAll(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.tree = Aggregate(rows.Projects, rows.Infos, rows.Memos, rows.Details)
	m.archive = AggregateArchive(rows.Projects, rows.Infos, rows.Memos, rows.Details)
	m.categories = rows.Categories
	m.overrides = make(map[string]bool)
	m.mu.Unlock()

	if m.snap != nil {
		if err := m.snap.Save(rows); err != nil {
			m.log.WithError(err).Warn("failed to persist snapshot")
		}
	}

	return nil
}

// LoadSnapshot rebuilds the tree from the local snapshot store. Used when
// the gateway is unreachable; the view is read-only stale data until the
// next successful Refresh.
func (m *Manager) LoadSnapshot() error {
	if m.snap == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	rows, err := m.snap.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.tree = Aggregate(rows.Projects, rows.Infos, rows.Memos, rows.Details)
	m.archive = AggregateArchive(rows.Projects, rows.Infos, rows.Memos, rows.Details)
	m.categories = rows.Categories
	m.overrides = make(map[string]bool)
	m.mu.Unlock()

	return nil
}

func (m *Manager) fetchAll(ctx context.Context) (snapshot.Rows, error) {
	var rows snapshot.Rows

	fetches := []struct {
		table string
		order []gateway.Order
		dest  interface{}
	}{
		{tableProjects, []gateway.Order{gateway.Desc("updated_at")}, &rows.Projects},
		{tableInfos, []gateway.Order{gateway.Asc("created_at")}, &rows.Infos},
		{tableMemos, []gateway.Order{gateway.Desc("created_at")}, &rows.Memos},
		{tableDetails, []gateway.Order{gateway.Asc("created_at")}, &rows.Details},
		{tableCategories, []gateway.Order{gateway.Asc("sort_order")}, &rows.Categories},
	}
	for _, f := range fetches {
		if err := m.gw.Select(ctx, f.table, gateway.Query{Order: f.order}, f.dest); err != nil {
			return snapshot.Rows{}, fmt.Errorf("error fetching %s: %w", f.table, err)
		}
	}

	return rows, nil
}

// Tree returns the active-view aggregation
func (m *Manager) Tree() []*models.ProjectTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree
}

// Archive returns the archive-view aggregation
func (m *Manager) Archive() *models.ArchiveTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.archive == nil {
		return &models.ArchiveTree{}
	}
	return m.archive
}

// Categories returns the category rows, in rank order
func (m *Manager) Categories() []models.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.categories
}

// Project finds an active project by id
func (m *Manager) Project(id string) (*models.ProjectTree, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.tree {
		if p.Project.ID == id {
			return p, true
		}
	}
	return nil, false
}

// SelectProject records the project open in navigation
func (m *Manager) SelectProject(id string) {
	m.mu.Lock()
	m.selected = id
	m.mu.Unlock()
}

// SelectedProject returns the id of the project open in navigation, or ""
func (m *Manager) SelectedProject() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// evictSelection clears the navigation selection if it points at id
func (m *Manager) evictSelection(id string) {
	m.mu.Lock()
	if m.selected == id {
		m.selected = ""
	}
	m.mu.Unlock()
}

// Override reports a pending optimistic completed value for a detail, if any
func (m *Manager) Override(detailID string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.overrides[detailID]
	return v, ok
}

func (m *Manager) setOverride(detailID string, completed bool) {
	m.mu.Lock()
	m.overrides[detailID] = completed
	m.mu.Unlock()
}

func (m *Manager) clearOverride(detailID string) {
	m.mu.Lock()
	delete(m.overrides, detailID)
	m.mu.Unlock()
}

// touchProject refreshes the owning project's last-modified timestamp so
// freshness-ordered listings track content changes of owned rows.
func (m *Manager) touchProject(ctx context.Context, projectID string) error {
	patch := map[string]interface{}{"updated_at": m.now().UTC()}
	if err := m.gw.Update(ctx, tableProjects, patch, []gateway.Filter{gateway.Eq("id", projectID)}); err != nil {
		return fmt.Errorf("error touching project: %w", err)
	}
	return nil
}

// blank reports whether a required text field is empty after trimming
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
