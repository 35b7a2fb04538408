package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

// CreateCharacterParams holds inputs for CreateCharacter. Creation
// order sets the character's seq, which downstream compression treats
// as decreasing importance.
type CreateCharacterParams struct {
	ProjectID   string
	Name        string
	Archetype   string
	Age         int
	Gender      string
	Appearance  string
	Personality string
	Background  string
	Abilities   []string
}

func (s *SQLiteStore) CreateCharacter(ctx context.Context, p CreateCharacterParams) (*model.Character, error) {
	if _, err := s.GetProject(ctx, p.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := s.newID()

	var abilitiesJSON *string
	if len(p.Abilities) > 0 {
		b, _ := json.Marshal(p.Abilities)
		str := string(b)
		abilitiesJSON = &str
	}

	var maxSeq sql.NullInt64
	s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM characters WHERE project_id = ?`, p.ProjectID).Scan(&maxSeq)
	seq := int(maxSeq.Int64) + 1

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO characters (id, project_id, name, archetype, age, gender, appearance, personality, background, abilities, seq, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.ProjectID, p.Name, p.Archetype, p.Age, p.Gender,
		p.Appearance, p.Personality, p.Background, abilitiesJSON, seq, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert character: %w", err)
	}

	return &model.Character{
		ID:          id,
		ProjectID:   p.ProjectID,
		Name:        p.Name,
		Archetype:   p.Archetype,
		Age:         p.Age,
		Gender:      p.Gender,
		Appearance:  p.Appearance,
		Personality: p.Personality,
		Background:  p.Background,
		Abilities:   p.Abilities,
		Seq:         seq,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetCharacter(ctx context.Context, id string) (*model.Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, archetype, age, gender, appearance, personality, background, abilities, seq, created_at
		 FROM characters WHERE id = ?`, id)

	c, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("character %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rels, err := s.listRelationships(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Relationships = rels[c.ID]
	return &c, nil
}

// ListCharacters returns a project's cast in creation order, each
// pre-joined with its abilities and outgoing relationships.
func (s *SQLiteStore) ListCharacters(ctx context.Context, projectID string) ([]model.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, archetype, age, gender, appearance, personality, background, abilities, seq, created_at
		 FROM characters WHERE project_id = ? ORDER BY seq`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chars []model.Character
	var ids []string
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rels, err := s.listRelationships(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range chars {
		chars[i].Relationships = rels[chars[i].ID]
	}
	return chars, nil
}

// AddRelationship links one character to another. Duplicate links
// (same pair and relation) are replaced.
func (s *SQLiteStore) AddRelationship(ctx context.Context, characterID, targetID, relation, description string) error {
	if _, err := s.GetCharacter(ctx, characterID); err != nil {
		return err
	}
	if _, err := s.GetCharacter(ctx, targetID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO relationships (character_id, target_id, relation, description)
		 VALUES (?, ?, ?, ?)`,
		characterID, targetID, relation, description)
	return err
}

func (s *SQLiteStore) DeleteCharacter(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE character_id = ? OR target_id = ?`, id, id); err != nil {
		return fmt.Errorf("delete relationships: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("character %s: %w", id, ErrNotFound)
	}
	return nil
}

// listRelationships fetches outgoing relationships for a set of
// characters, keyed by character id, in insertion order.
func (s *SQLiteStore) listRelationships(ctx context.Context, ids []string) (map[string][]model.Relationship, error) {
	out := map[string][]model.Relationship{}
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := ""
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT character_id, target_id, relation, description
		 FROM relationships WHERE character_id IN (%s)
		 ORDER BY rowid`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var charID string
		var r model.Relationship
		if err := rows.Scan(&charID, &r.TargetID, &r.Relation, &r.Description); err != nil {
			return nil, err
		}
		out[charID] = append(out[charID], r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCharacter(row scanner) (model.Character, error) {
	var c model.Character
	var abilitiesJSON sql.NullString
	var createdAt string

	err := row.Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.Archetype, &c.Age, &c.Gender,
		&c.Appearance, &c.Personality, &c.Background, &abilitiesJSON, &c.Seq, &createdAt,
	)
	if err != nil {
		return c, err
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if abilitiesJSON.Valid {
		json.Unmarshal([]byte(abilitiesJSON.String), &c.Abilities)
	}
	return c, nil
}
