package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/scene"
)

// Drawing is a named, saved scene.
type Drawing struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Content   scene.Content `json:"content"`
	Strokes   int           `json:"strokes"`
	Shapes    int           `json:"shapes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DrawingRepository provides CRUD operations for drawings.
type DrawingRepository struct {
	db *sql.DB
}

// Drawings returns the drawing repository for this store.
func (s *Store) Drawings() *DrawingRepository {
	return &DrawingRepository{db: s.db}
}

// Create inserts a drawing, assigning an ID when empty.
func (r *DrawingRepository) Create(d *Drawing) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	content, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.Strokes = len(d.Content.Strokes)
	d.Shapes = len(d.Content.Shapes)

	_, err = r.db.Exec(
		`INSERT INTO drawings (id, name, content, strokes, shapes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, string(content), d.Strokes, d.Shapes, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

// GetByID retrieves a drawing with its content.
func (r *DrawingRepository) GetByID(id string) (*Drawing, error) {
	d := &Drawing{}
	var content string

	err := r.db.QueryRow(
		`SELECT id, name, content, strokes, shapes, created_at, updated_at
		 FROM drawings WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Name, &content, &d.Strokes, &d.Shapes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(content), &d.Content); err != nil {
		return nil, fmt.Errorf("decode drawing %s: %w", id, err)
	}
	return d, nil
}

// List returns all drawings, most recently updated first. Content is not
// loaded.
func (r *DrawingRepository) List() ([]Drawing, error) {
	rows, err := r.db.Query(
		`SELECT id, name, strokes, shapes, created_at, updated_at
		 FROM drawings ORDER BY updated_at DESC, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drawings []Drawing
	for rows.Next() {
		var d Drawing
		if err := rows.Scan(&d.ID, &d.Name, &d.Strokes, &d.Shapes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}
	return drawings, rows.Err()
}

// Update replaces a drawing's name and content.
func (r *DrawingRepository) Update(d *Drawing) error {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	d.UpdatedAt = time.Now()
	d.Strokes = len(d.Content.Strokes)
	d.Shapes = len(d.Content.Shapes)

	result, err := r.db.Exec(
		`UPDATE drawings SET name = ?, content = ?, strokes = ?, shapes = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, string(content), d.Strokes, d.Shapes, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

// Delete removes a drawing.
func (r *DrawingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
