// internal/repositories/tournament_repository.go
// Tournament data access layer

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cup-planner/internal/models"
)

// TournamentRepository handles tournament data access
type TournamentRepository struct {
	db *sql.DB
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *sql.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

const tournamentColumns = `
	id, name, description, status, start_time,
	match_duration_minutes, transition_time_minutes, created_at, updated_at
`

// Create inserts a new tournament
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			id, name, description, status, start_time,
			match_duration_minutes, transition_time_minutes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.Status, t.StartTime,
		t.MatchDurationMinutes, t.TransitionTimeMinutes, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// GetByID retrieves a tournament by ID
func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = ?`

	var t models.Tournament
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Status, &t.StartTime,
		&t.MatchDurationMinutes, &t.TransitionTimeMinutes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tournament not found")
	}
	return &t, err
}

// List retrieves tournaments ordered by start time
func (r *TournamentRepository) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_time DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Status, &t.StartTime,
			&t.MatchDurationMinutes, &t.TransitionTimeMinutes, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, &t)
	}
	return tournaments, rows.Err()
}

// Update updates tournament information
func (r *TournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = ?, description = ?, start_time = ?,
			match_duration_minutes = ?, transition_time_minutes = ?, updated_at = NOW()
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.StartTime,
		t.MatchDurationMinutes, t.TransitionTimeMinutes, t.ID,
	)
	return err
}

// UpdateStatusWithTx updates tournament status within a transaction
func (r *TournamentRepository) UpdateStatusWithTx(tx *sql.Tx, id string, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = ?, updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(context.Background(), query, status, id)
	return err
}

// Delete removes a tournament; stages, matches and pitches cascade in the schema
func (r *TournamentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id)
	return err
}
