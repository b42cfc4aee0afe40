// internal/repositories/stage_repository.go
// Stage, group and team-assignment data access layer

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cup-planner/internal/models"
)

// StageRepository handles stage and group data access
type StageRepository struct {
	db *sql.DB
}

// NewStageRepository creates a new stage repository
func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

// Create inserts a new stage
func (r *StageRepository) Create(ctx context.Context, s *models.Stage) error {
	query := `
		INSERT INTO stages (
			id, tournament_id, name, type, ord, buffer_time_minutes,
			configuration, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TournamentID, s.Name, s.Type, s.Order, s.BufferTimeMinutes,
		s.Configuration, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID retrieves a stage by ID
func (r *StageRepository) GetByID(ctx context.Context, id string) (*models.Stage, error) {
	query := `
		SELECT id, tournament_id, name, type, ord, buffer_time_minutes,
		       configuration, created_at, updated_at
		FROM stages
		WHERE id = ?
	`
	var s models.Stage
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.TournamentID, &s.Name, &s.Type, &s.Order, &s.BufferTimeMinutes,
		&s.Configuration, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stage not found")
	}
	return &s, err
}

// GetByTournamentID retrieves all stages of a tournament in stage order,
// with their groups and team assignments populated.
func (r *StageRepository) GetByTournamentID(ctx context.Context, tournamentID string) ([]*models.Stage, error) {
	query := `
		SELECT id, tournament_id, name, type, ord, buffer_time_minutes,
		       configuration, created_at, updated_at
		FROM stages
		WHERE tournament_id = ?
		ORDER BY ord
	`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]*models.Stage, 0)
	for rows.Next() {
		var s models.Stage
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.Name, &s.Type, &s.Order, &s.BufferTimeMinutes,
			&s.Configuration, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stages = append(stages, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range stages {
		groups, err := r.GetGroupsByStageID(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Groups = groups
	}
	return stages, nil
}

// GetByTournamentAndOrder retrieves the stage at a specific position, or nil.
func (r *StageRepository) GetByTournamentAndOrder(ctx context.Context, tournamentID string, order int) (*models.Stage, error) {
	query := `
		SELECT id, tournament_id, name, type, ord, buffer_time_minutes,
		       configuration, created_at, updated_at
		FROM stages
		WHERE tournament_id = ? AND ord = ?
	`
	var s models.Stage
	err := r.db.QueryRowContext(ctx, query, tournamentID, order).Scan(
		&s.ID, &s.TournamentID, &s.Name, &s.Type, &s.Order, &s.BufferTimeMinutes,
		&s.Configuration, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateGroup inserts a new group
func (r *StageRepository) CreateGroup(ctx context.Context, g *models.Group) error {
	query := `
		INSERT INTO stage_groups (id, stage_id, name, ord, round_robin_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, g.ID, g.StageID, g.Name, g.Order, g.RoundRobinType, g.CreatedAt)
	return err
}

// GetGroupByID retrieves a group with its team assignments
func (r *StageRepository) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	query := `
		SELECT id, stage_id, name, ord, round_robin_type, created_at
		FROM stage_groups
		WHERE id = ?
	`
	var g models.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.StageID, &g.Name, &g.Order, &g.RoundRobinType, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group not found")
	}
	if err != nil {
		return nil, err
	}

	teams, err := r.getGroupTeams(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Teams = teams
	return &g, nil
}

// GetGroupsByStageID retrieves a stage's groups in group order, with teams.
func (r *StageRepository) GetGroupsByStageID(ctx context.Context, stageID string) ([]*models.Group, error) {
	query := `
		SELECT id, stage_id, name, ord, round_robin_type, created_at
		FROM stage_groups
		WHERE stage_id = ?
		ORDER BY ord
	`
	rows, err := r.db.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.StageID, &g.Name, &g.Order, &g.RoundRobinType, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		teams, err := r.getGroupTeams(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		g.Teams = teams
	}
	return groups, nil
}

// getGroupTeams retrieves a group's team assignments ordered by seed.
func (r *StageRepository) getGroupTeams(ctx context.Context, groupID string) ([]*models.GroupTeam, error) {
	query := `
		SELECT gt.group_id, gt.registration_id, gt.seed_position, reg.team_name
		FROM group_teams gt
		JOIN registrations reg ON reg.id = gt.registration_id
		WHERE gt.group_id = ?
		ORDER BY gt.seed_position IS NULL, gt.seed_position
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.GroupTeam, 0)
	for rows.Next() {
		var t models.GroupTeam
		if err := rows.Scan(&t.GroupID, &t.RegistrationID, &t.SeedPosition, &t.TeamName); err != nil {
			return nil, err
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

// AssignTeam adds a registration to a group
func (r *StageRepository) AssignTeam(ctx context.Context, groupID, registrationID string, seedPosition *int) error {
	query := `
		INSERT INTO group_teams (group_id, registration_id, seed_position)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE seed_position = VALUES(seed_position)
	`
	_, err := r.db.ExecContext(ctx, query, groupID, registrationID, seedPosition)
	return err
}

// RemoveTeam removes a registration from a group
func (r *StageRepository) RemoveTeam(ctx context.Context, groupID, registrationID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_teams WHERE group_id = ? AND registration_id = ?`,
		groupID, registrationID,
	)
	return err
}

// Delete removes a stage and its groups
func (r *StageRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	return err
}
