package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"pctl/internal/models"
)

//go:embed schema.sql
var schema string

// Rows holds one full fetch of the remote tables, in display fetch order.
// It is what the snapshot persists and what the aggregator consumes.
type Rows struct {
	Projects   []models.Project
	Infos      []models.Info
	Memos      []models.Memo
	Details    []models.Detail
	Categories []models.Category
}

// Store keeps the last successful fetch in a local sqlite file so the app
// can still show data when the service is unreachable.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the snapshot database at path
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	// The mirror carries whatever the service returned, orphans included,
	// so no foreign keys are declared or enforced here.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the snapshot file location under the user data dir
func DefaultPath() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "pctl")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "snapshot.db"), nil
}

// Save replaces the entire snapshot with the given rows in one transaction
func (s *Store) Save(rows Rows) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"memo_details", "memos", "project_infos", "projects", "project_categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, p := range rows.Projects {
		_, err := tx.Exec(`
			INSERT INTO projects (id, name, description, color, category_id, sort_order, archived, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.Description, p.Color, p.CategoryID, p.SortOrder, p.Archived, encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt))
		if err != nil {
			return err
		}
	}
	for _, c := range rows.Categories {
		_, err := tx.Exec(`
			INSERT INTO project_categories (id, name, sort_order, created_at)
			VALUES (?, ?, ?, ?)
		`, c.ID, c.Name, c.SortOrder, encodeTime(c.CreatedAt))
		if err != nil {
			return err
		}
	}
	for _, info := range rows.Infos {
		_, err := tx.Exec(`
			INSERT INTO project_infos (id, project_id, type, label, value, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, info.ID, info.ProjectID, string(info.Type), info.Label, info.Value, encodeTime(info.CreatedAt))
		if err != nil {
			return err
		}
	}
	for _, memo := range rows.Memos {
		_, err := tx.Exec(`
			INSERT INTO memos (id, project_id, title, priority, archived, started_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, memo.ID, memo.ProjectID, memo.Title, memo.Priority, memo.Archived, encodeNullableTime(memo.StartedAt), encodeTime(memo.CreatedAt))
		if err != nil {
			return err
		}
	}
	for _, d := range rows.Details {
		_, err := tx.Exec(`
			INSERT INTO memo_details (id, memo_id, content, completed, completed_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, d.ID, d.MemoID, d.Content, d.Completed, encodeNullableTime(d.CompletedAt), encodeTime(d.CreatedAt))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load reads the snapshot back in the same orderings the remote fetch uses
func (s *Store) Load() (Rows, error) {
	var rows Rows

	projectRows, err := s.db.Query(`
		SELECT id, name, description, color, category_id, sort_order, archived, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return Rows{}, err
	}
	defer projectRows.Close()
	for projectRows.Next() {
		var p models.Project
		var createdAt, updatedAt string
		if err := projectRows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CategoryID, &p.SortOrder, &p.Archived, &createdAt, &updatedAt); err != nil {
			return Rows{}, err
		}
		p.CreatedAt = decodeTime(createdAt)
		p.UpdatedAt = decodeTime(updatedAt)
		rows.Projects = append(rows.Projects, p)
	}
	if err := projectRows.Err(); err != nil {
		return Rows{}, err
	}

	infoRows, err := s.db.Query(`
		SELECT id, project_id, type, label, value, created_at
		FROM project_infos ORDER BY created_at ASC
	`)
	if err != nil {
		return Rows{}, err
	}
	defer infoRows.Close()
	for infoRows.Next() {
		var info models.Info
		var infoType, createdAt string
		if err := infoRows.Scan(&info.ID, &info.ProjectID, &infoType, &info.Label, &info.Value, &createdAt); err != nil {
			return Rows{}, err
		}
		info.Type = models.InfoType(infoType)
		info.CreatedAt = decodeTime(createdAt)
		rows.Infos = append(rows.Infos, info)
	}
	if err := infoRows.Err(); err != nil {
		return Rows{}, err
	}

	memoRows, err := s.db.Query(`
		SELECT id, project_id, title, priority, archived, started_at, created_at
		FROM memos ORDER BY created_at DESC
	`)
	if err != nil {
		return Rows{}, err
	}
	defer memoRows.Close()
	for memoRows.Next() {
		var memo models.Memo
		var startedAt sql.NullString
		var createdAt string
		if err := memoRows.Scan(&memo.ID, &memo.ProjectID, &memo.Title, &memo.Priority, &memo.Archived, &startedAt, &createdAt); err != nil {
			return Rows{}, err
		}
		memo.StartedAt = decodeNullableTime(startedAt)
		memo.CreatedAt = decodeTime(createdAt)
		rows.Memos = append(rows.Memos, memo)
	}
	if err := memoRows.Err(); err != nil {
		return Rows{}, err
	}

	detailRows, err := s.db.Query(`
		SELECT id, memo_id, content, completed, completed_at, created_at
		FROM memo_details ORDER BY created_at ASC
	`)
	if err != nil {
		return Rows{}, err
	}
	defer detailRows.Close()
	for detailRows.Next() {
		var d models.Detail
		var completedAt sql.NullString
		var createdAt string
		if err := detailRows.Scan(&d.ID, &d.MemoID, &d.Content, &d.Completed, &completedAt, &createdAt); err != nil {
			return Rows{}, err
		}
		d.CompletedAt = decodeNullableTime(completedAt)
		d.CreatedAt = decodeTime(createdAt)
		rows.Details = append(rows.Details, d)
	}
	if err := detailRows.Err(); err != nil {
		return Rows{}, err
	}

	categoryRows, err := s.db.Query(`
		SELECT id, name, sort_order, created_at
		FROM project_categories ORDER BY sort_order ASC
	`)
	if err != nil {
		return Rows{}, err
	}
	defer categoryRows.Close()
	for categoryRows.Next() {
		var c models.Category
		var createdAt string
		if err := categoryRows.Scan(&c.ID, &c.Name, &c.SortOrder, &createdAt); err != nil {
			return Rows{}, err
		}
		c.CreatedAt = decodeTime(createdAt)
		rows.Categories = append(rows.Categories, c)
	}
	if err := categoryRows.Err(); err != nil {
		return Rows{}, err
	}

	return rows, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := decodeTime(s.String)
	return &t
}
