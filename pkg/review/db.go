package review

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
	_ "modernc.org/sqlite"
)

// DB handles journal persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the journal database at the given path
func OpenDB(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer; keeps :memory: databases on a single connection too
	db.SetMaxOpenConns(1)

	jdb := &DB{db: db}
	if err := jdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return jdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL DEFAULT 0,
		action TEXT NOT NULL,
		review_id TEXT NOT NULL DEFAULT '',
		private INTEGER NOT NULL DEFAULT 0,
		ok INTEGER NOT NULL DEFAULT 1,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mutations_review_id ON mutations(review_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		created INTEGER DEFAULT 0,
		updated INTEGER DEFAULT 0,
		deleted INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// CreateMutation inserts a journal entry and sets its ID
func (d *DB) CreateMutation(m *model.Mutation) error {
	if !model.IsValidAction(m.Action) {
		return fmt.Errorf("invalid action: %s", m.Action)
	}
	result, err := d.db.Exec(`
		INSERT INTO mutations (session_id, action, review_id, private, ok, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.SessionID, m.Action, m.ReviewID, m.Private, m.OK, m.Error, m.CreatedAt.UTC())
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// RecentMutations returns up to limit entries, newest first
func (d *DB) RecentMutations(limit int) ([]model.Mutation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(`
		SELECT id, session_id, action, review_id, private, ok, error, created_at
		FROM mutations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Mutation
	for rows.Next() {
		var m model.Mutation
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Action, &m.ReviewID, &m.Private, &m.OK, &m.Error, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MutationsForReview returns every entry touching a review id, newest first
func (d *DB) MutationsForReview(reviewID string) ([]model.Mutation, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, action, review_id, private, ok, error, created_at
		FROM mutations
		WHERE review_id = ?
		ORDER BY id DESC
	`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Mutation
	for rows.Next() {
		var m model.Mutation
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Action, &m.ReviewID, &m.Private, &m.OK, &m.Error, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// StartSession creates a new session row
func (d *DB) StartSession(baseURL string) (*model.Session, error) {
	now := time.Now().UTC()
	result, err := d.db.Exec(`
		INSERT INTO sessions (base_url, started_at)
		VALUES (?, ?)
	`, baseURL, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Session{
		ID:        id,
		BaseURL:   baseURL,
		StartedAt: now,
	}, nil
}

// UpdateSessionCounters updates the mutation counters for a session
func (d *DB) UpdateSessionCounters(s *model.Session) error {
	_, err := d.db.Exec(`
		UPDATE sessions
		SET created = ?, updated = ?, deleted = ?, failed = ?
		WHERE id = ?
	`, s.Created, s.Updated, s.Deleted, s.Failed, s.ID)
	return err
}

// CompleteSession marks a session as complete
func (d *DB) CompleteSession(s *model.Session) error {
	now := time.Now().UTC()
	s.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE sessions
		SET completed_at = ?, created = ?, updated = ?, deleted = ?, failed = ?
		WHERE id = ?
	`, now, s.Created, s.Updated, s.Deleted, s.Failed, s.ID)
	return err
}

// GetSession retrieves a session by ID
func (d *DB) GetSession(id int64) (*model.Session, error) {
	var s model.Session
	var completedAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT id, base_url, started_at, completed_at, created, updated, deleted, failed
		FROM sessions
		WHERE id = ?
	`, id).Scan(&s.ID, &s.BaseURL, &s.StartedAt, &completedAt, &s.Created, &s.Updated, &s.Deleted, &s.Failed)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return &s, nil
}
