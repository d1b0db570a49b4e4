package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a captured PNG of the canvas.
type Snapshot struct {
	ID        string    `json:"id"`
	DrawingID string    `json:"drawingId,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	PNG       []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnapshotRepository stores the snapshot gallery.
type SnapshotRepository struct {
	db *sql.DB
}

// Snapshots returns the snapshot repository for this store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{db: s.db}
}

// Create inserts a snapshot, assigning an ID when empty.
func (r *SnapshotRepository) Create(sn *Snapshot) error {
	if sn.ID == "" {
		sn.ID = uuid.New().String()
	}
	sn.CreatedAt = time.Now()

	var drawingID any
	if sn.DrawingID != "" {
		drawingID = sn.DrawingID
	}
	_, err := r.db.Exec(
		`INSERT INTO snapshots (id, drawing_id, width, height, png, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sn.ID, drawingID, sn.Width, sn.Height, sn.PNG, sn.CreatedAt,
	)
	return err
}

// GetByID retrieves a snapshot including its image.
func (r *SnapshotRepository) GetByID(id string) (*Snapshot, error) {
	sn := &Snapshot{}
	var drawingID sql.NullString

	err := r.db.QueryRow(
		`SELECT id, drawing_id, width, height, png, created_at FROM snapshots WHERE id = ?`,
		id,
	).Scan(&sn.ID, &drawingID, &sn.Width, &sn.Height, &sn.PNG, &sn.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sn.DrawingID = drawingID.String
	return sn, nil
}

// List returns snapshot metadata, newest first.
func (r *SnapshotRepository) List() ([]Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, drawing_id, width, height, created_at FROM snapshots
		 ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var sn Snapshot
		var drawingID sql.NullString
		if err := rows.Scan(&sn.ID, &drawingID, &sn.Width, &sn.Height, &sn.CreatedAt); err != nil {
			return nil, err
		}
		sn.DrawingID = drawingID.String
		snapshots = append(snapshots, sn)
	}
	return snapshots, rows.Err()
}

// Delete removes a snapshot.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}
