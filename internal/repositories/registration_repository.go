// internal/repositories/registration_repository.go
// Team registration data access layer

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cup-planner/internal/models"
)

// RegistrationRepository handles team registration data access
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a new registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (id, tournament_id, team_name, seed_position, confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		reg.ID, reg.TournamentID, reg.TeamName, reg.SeedPosition, reg.Confirmed, reg.CreatedAt, reg.UpdatedAt)
	return err
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_name, seed_position, confirmed, created_at, updated_at
		FROM registrations
		WHERE id = ?
	`
	var reg models.Registration
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.TournamentID, &reg.TeamName, &reg.SeedPosition, &reg.Confirmed,
		&reg.CreatedAt, &reg.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("registration not found")
	}
	return &reg, err
}

// GetByTournamentID retrieves a tournament's registrations, confirmed first,
// then by seed position.
func (r *RegistrationRepository) GetByTournamentID(ctx context.Context, tournamentID string) ([]*models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_name, seed_position, confirmed, created_at, updated_at
		FROM registrations
		WHERE tournament_id = ?
		ORDER BY confirmed DESC, seed_position IS NULL, seed_position
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID, &reg.TournamentID, &reg.TeamName, &reg.SeedPosition, &reg.Confirmed,
			&reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}

// Delete removes a registration
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	return err
}
