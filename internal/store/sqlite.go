// Package store persists narrative records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

// ErrNotFound is returned when an identifier does not resolve. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements record storage using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		genre       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		settings    TEXT,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_project ON documents(project_id, position);

	CREATE TABLE IF NOT EXISTS characters (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id),
		name        TEXT NOT NULL,
		archetype   TEXT NOT NULL DEFAULT '',
		age         INTEGER NOT NULL DEFAULT 0,
		gender      TEXT NOT NULL DEFAULT '',
		appearance  TEXT NOT NULL DEFAULT '',
		personality TEXT NOT NULL DEFAULT '',
		background  TEXT NOT NULL DEFAULT '',
		abilities   TEXT,
		seq         INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_characters_project ON characters(project_id, seq);

	CREATE TABLE IF NOT EXISTS relationships (
		character_id TEXT NOT NULL REFERENCES characters(id),
		target_id    TEXT NOT NULL REFERENCES characters(id),
		relation     TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (character_id, target_id, relation)
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateProjectParams holds inputs for CreateProject.
type CreateProjectParams struct {
	Name        string
	Genre       string
	Description string
	Settings    map[string]string
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p CreateProjectParams) (*model.Project, error) {
	now := time.Now().UTC()
	id := s.newID()

	var settingsJSON *string
	if len(p.Settings) > 0 {
		b, _ := json.Marshal(p.Settings)
		str := string(b)
		settingsJSON = &str
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, genre, description, settings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Genre, p.Description, settingsJSON, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return &model.Project{
		ID:          id,
		Name:        p.Name,
		Genre:       p.Genre,
		Description: p.Description,
		Settings:    p.Settings,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, genre, description, settings, created_at FROM projects WHERE id = ?`, id)

	var p model.Project
	var settingsJSON sql.NullString
	var createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.Genre, &p.Description, &settingsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if settingsJSON.Valid {
		json.Unmarshal([]byte(settingsJSON.String), &p.Settings)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, genre, description, settings, created_at FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var settingsJSON sql.NullString
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Genre, &p.Description, &settingsJSON, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if settingsJSON.Valid {
			json.Unmarshal([]byte(settingsJSON.String), &p.Settings)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
