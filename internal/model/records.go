// Package model defines the core narrative record types.
package model

import "time"

// Genre tags recognized by the context engine. Projects with other
// genres still work; they just get no genre-specific world lines.
const (
	GenreIsekai  = "isekai"
	GenreSchool  = "school"
	GenreSciFi   = "scifi"
	GenreFantasy = "fantasy"
)

// Project is a writing project: one story world, its documents and cast.
type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Genre       string            `json:"genre"`
	Description string            `json:"description,omitempty"`
	Settings    map[string]string `json:"settings,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Document is one chapter or scene of a project.
type Document struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Relationship links a character to another character in the same project.
type Relationship struct {
	TargetID    string `json:"target_id"`
	Relation    string `json:"relation"`
	Description string `json:"description,omitempty"`
}

// Character is a cast member. Seq is the creation order; list order is
// treated as decreasing importance when context is compressed.
type Character struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	Name          string         `json:"name"`
	Archetype     string         `json:"archetype,omitempty"`
	Age           int            `json:"age,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	Appearance    string         `json:"appearance,omitempty"`
	Personality   string         `json:"personality,omitempty"`
	Background    string         `json:"background,omitempty"`
	Abilities     []string       `json:"abilities,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Seq           int            `json:"seq"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ValidGenres are the genres with dedicated world-setting rendering.
var ValidGenres = map[string]bool{
	GenreIsekai:  true,
	GenreSchool:  true,
	GenreSciFi:   true,
	GenreFantasy: true,
}

// GenreLabel returns a human-readable label for a genre tag.
func GenreLabel(genre string) string {
	switch genre {
	case GenreIsekai:
		return "Isekai (world-hop fantasy)"
	case GenreSchool:
		return "School drama"
	case GenreSciFi:
		return "Science fiction"
	case GenreFantasy:
		return "Fantasy"
	default:
		return genre
	}
}
