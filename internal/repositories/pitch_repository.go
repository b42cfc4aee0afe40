// internal/repositories/pitch_repository.go
// Pitch data access layer

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cup-planner/internal/models"
)

// PitchRepository handles pitch data access
type PitchRepository struct {
	db *sql.DB
}

// NewPitchRepository creates a new pitch repository
func NewPitchRepository(db *sql.DB) *PitchRepository {
	return &PitchRepository{db: db}
}

// Create inserts a new pitch
func (r *PitchRepository) Create(ctx context.Context, p *models.Pitch) error {
	query := `
		INSERT INTO pitches (id, tournament_id, name, available_from, available_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.TournamentID, p.Name, p.AvailableFrom, p.AvailableTo, p.CreatedAt)
	return err
}

// GetByID retrieves a pitch by ID
func (r *PitchRepository) GetByID(ctx context.Context, id string) (*models.Pitch, error) {
	query := `
		SELECT id, tournament_id, name, available_from, available_to, created_at
		FROM pitches
		WHERE id = ?
	`
	var p models.Pitch
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TournamentID, &p.Name, &p.AvailableFrom, &p.AvailableTo, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pitch not found")
	}
	return &p, err
}

// GetByTournamentID retrieves a tournament's pitches ordered by ID
func (r *PitchRepository) GetByTournamentID(ctx context.Context, tournamentID string) ([]*models.Pitch, error) {
	query := `
		SELECT id, tournament_id, name, available_from, available_to, created_at
		FROM pitches
		WHERE tournament_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pitches := make([]*models.Pitch, 0)
	for rows.Next() {
		var p models.Pitch
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.AvailableFrom, &p.AvailableTo, &p.CreatedAt); err != nil {
			return nil, err
		}
		pitches = append(pitches, &p)
	}
	return pitches, rows.Err()
}

// Update updates a pitch's name and availability window
func (r *PitchRepository) Update(ctx context.Context, p *models.Pitch) error {
	query := `
		UPDATE pitches SET name = ?, available_from = ?, available_to = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.AvailableFrom, p.AvailableTo, p.ID)
	return err
}

// Delete removes a pitch
func (r *PitchRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pitches WHERE id = ?`, id)
	return err
}
