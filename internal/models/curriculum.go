package models

import "time"

// Curriculum is a named, ordered collection of units.
type Curriculum struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Unit is one teachable block within a curriculum. OrderIndex is dense and
// 1-based per curriculum and must be unique within it.
type Unit struct {
	ID           string    `db:"id" json:"id"`
	CurriculumID string    `db:"curriculum_id" json:"curriculum_id"`
	Name         string    `db:"name" json:"name"`
	OrderIndex   int       `db:"order_index" json:"order_index"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
