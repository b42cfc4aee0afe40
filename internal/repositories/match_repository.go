// internal/repositories/match_repository.go
// Match data access layer

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cup-planner/internal/models"
)

// MatchRepository handles match data access
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, stage_id, group_id, temp_id, round_number, match_number,
	bracket_position, bracket_type, is_third_place, is_decider,
	home_registration_id, away_registration_id, home_team_source, away_team_source,
	home_score, away_score, home_penalties, away_penalties, status,
	pitch_id, scheduled_start_time, scheduled_end_time, depends_on, notes,
	created_at, updated_at
`

func scanMatch(row interface{ Scan(dest ...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.StageID, &m.GroupID, &m.TempID, &m.RoundNumber, &m.MatchNumber,
		&m.BracketPosition, &m.BracketType, &m.IsThirdPlace, &m.IsDecider,
		&m.HomeRegistrationID, &m.AwayRegistrationID, &m.HomeTeamSource, &m.AwayTeamSource,
		&m.HomeScore, &m.AwayScore, &m.HomePenalties, &m.AwayPenalties, &m.Status,
		&m.PitchID, &m.ScheduledStartTime, &m.ScheduledEndTime, &m.DependsOn, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateWithTx creates a match within a transaction
func (r *MatchRepository) CreateWithTx(tx *sql.Tx, m *models.Match) error {
	query := `
		INSERT INTO matches (
			id, tournament_id, stage_id, group_id, temp_id, round_number, match_number,
			bracket_position, bracket_type, is_third_place, is_decider,
			home_registration_id, away_registration_id, home_team_source, away_team_source,
			home_score, away_score, home_penalties, away_penalties, status,
			pitch_id, scheduled_start_time, scheduled_end_time, depends_on, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(context.Background(), query,
		m.ID, m.TournamentID, m.StageID, m.GroupID, m.TempID, m.RoundNumber, m.MatchNumber,
		m.BracketPosition, m.BracketType, m.IsThirdPlace, m.IsDecider,
		m.HomeRegistrationID, m.AwayRegistrationID, m.HomeTeamSource, m.AwayTeamSource,
		m.HomeScore, m.AwayScore, m.HomePenalties, m.AwayPenalties, m.Status,
		m.PitchID, m.ScheduledStartTime, m.ScheduledEndTime, m.DependsOn, m.Notes,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match not found")
	}
	return m, err
}

// GetByTournamentID retrieves all matches for a tournament in schedule order
func (r *MatchRepository) GetByTournamentID(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = ?
		ORDER BY scheduled_start_time, match_number
	`
	return r.queryMatches(ctx, query, tournamentID)
}

// GetByStageID retrieves all matches of one stage
func (r *MatchRepository) GetByStageID(ctx context.Context, stageID string) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE stage_id = ?
		ORDER BY round_number, match_number
	`
	return r.queryMatches(ctx, query, stageID)
}

// GetByGroupID retrieves all matches of one group
func (r *MatchRepository) GetByGroupID(ctx context.Context, groupID string) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE group_id = ?
		ORDER BY round_number, match_number
	`
	return r.queryMatches(ctx, query, groupID)
}

func (r *MatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountByStageID reports how many matches exist for a stage
func (r *MatchRepository) CountByStageID(ctx context.Context, stageID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE stage_id = ?`, stageID).Scan(&count)
	return count, err
}

// UpdateScoreWithTx writes a result and marks the match completed
func (r *MatchRepository) UpdateScoreWithTx(tx *sql.Tx, id string, result *models.MatchResult) error {
	query := `
		UPDATE matches SET
			home_score = ?, away_score = ?, home_penalties = ?, away_penalties = ?,
			notes = ?, status = ?, updated_at = NOW()
		WHERE id = ?
	`
	_, err := tx.ExecContext(context.Background(), query,
		result.HomeScore, result.AwayScore, result.HomePenalties, result.AwayPenalties,
		result.Notes, models.MatchCompleted, id,
	)
	return err
}

// ClearResultWithTx removes a result and resets the match to scheduled
func (r *MatchRepository) ClearResultWithTx(tx *sql.Tx, id string) error {
	query := `
		UPDATE matches SET
			home_score = NULL, away_score = NULL, home_penalties = NULL,
			away_penalties = NULL, status = ?, updated_at = NOW()
		WHERE id = ?
	`
	_, err := tx.ExecContext(context.Background(), query, models.MatchScheduled, id)
	return err
}

// UpdateTeamSlotWithTx writes one resolved team slot of a downstream match.
// home selects the slot; a nil registrationID clears it.
func (r *MatchRepository) UpdateTeamSlotWithTx(tx *sql.Tx, id string, home bool, registrationID *string) error {
	column := "away_registration_id"
	if home {
		column = "home_registration_id"
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = ?, updated_at = NOW() WHERE id = ?`, column)
	_, err := tx.ExecContext(context.Background(), query, registrationID, id)
	return err
}

// UpdateStatus updates match status
func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	return err
}

// DeleteByTournamentWithTx clears every match of a tournament
func (r *MatchRepository) DeleteByTournamentWithTx(tx *sql.Tx, tournamentID string) error {
	_, err := tx.ExecContext(context.Background(),
		`DELETE FROM matches WHERE tournament_id = ?`, tournamentID)
	return err
}
