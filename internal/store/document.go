package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

// CreateDocumentParams holds inputs for CreateDocument. Position <= 0
// appends after the project's current last document.
type CreateDocumentParams struct {
	ProjectID string
	Title     string
	Content   string
	Position  int
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, p CreateDocumentParams) (*model.Document, error) {
	if _, err := s.GetProject(ctx, p.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := s.newID()

	position := p.Position
	if position <= 0 {
		var maxPos sql.NullInt64
		s.db.QueryRowContext(ctx,
			`SELECT MAX(position) FROM documents WHERE project_id = ?`, p.ProjectID).Scan(&maxPos)
		position = int(maxPos.Int64) + 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, project_id, title, content, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.ProjectID, p.Title, p.Content, position, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return &model.Document{
		ID:        id,
		ProjectID: p.ProjectID,
		Title:     p.Title,
		Content:   p.Content,
		Position:  position,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, content, position, created_at FROM documents WHERE id = ?`, id)

	var d model.Document
	var createdAt string
	err := row.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Content, &d.Position, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &d, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, content, position, created_at
		 FROM documents WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var createdAt string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Content, &d.Position, &createdAt); err != nil {
			return nil, err
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateDocumentContent replaces a document's text.
func (s *SQLiteStore) UpdateDocumentContent(ctx context.Context, id, content string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}
