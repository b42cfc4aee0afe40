// internal/services/match_service.go
// Result entry and propagation. Every result write runs in one transaction
// together with its downstream effects: bracket references in the same
// stage resolve to the winner and loser, and a completed group propagates
// its standings into the next stage's placeholder slots.

package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"cup-planner/internal/models"
	"cup-planner/internal/repositories"
	"cup-planner/internal/scheduling"
	"cup-planner/internal/utils"
)

// MatchService handles match results and bracket progression
type MatchService struct {
	repos        *repositories.Container
	cache        *CacheService
	notification *NotificationService
	analytics    *AnalyticsService
	events       EventPublisher
	logger       *log.Logger
}

// NewMatchService creates a new match service
func NewMatchService(
	repos *repositories.Container,
	cache *CacheService,
	notification *NotificationService,
	analytics *AnalyticsService,
	logger *log.Logger,
) *MatchService {
	return &MatchService{
		repos:        repos,
		cache:        cache,
		notification: notification,
		analytics:    analytics,
		logger:       logger,
	}
}

// EnterResultRequest is the body of a result entry.
type EnterResultRequest struct {
	HomeScore     int     `json:"home_score" binding:"min=0,max=99"`
	AwayScore     int     `json:"away_score" binding:"min=0,max=99"`
	HomePenalties *int    `json:"home_penalties,omitempty"`
	AwayPenalties *int    `json:"away_penalties,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// GetByID retrieves a match by ID
func (s *MatchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return s.repos.Match.GetByID(ctx, id)
}

// GetByTournamentID retrieves all matches for a tournament
func (s *MatchService) GetByTournamentID(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	cacheKey := "tournament_matches_" + tournamentID
	var matches []*models.Match
	if err := s.cache.Get(cacheKey, &matches); err == nil {
		return matches, nil
	}

	matches, err := s.repos.Match.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	// Short TTL because matches update frequently during play.
	s.cache.Set(cacheKey, matches, 1*time.Minute)
	return matches, nil
}

// EnterResult records a first result for a match and propagates it.
func (s *MatchService) EnterResult(ctx context.Context, matchID string, req EnterResultRequest) (*models.Match, error) {
	return s.writeResult(ctx, matchID, req, false)
}

// UpdateResult replaces an existing result. Previously propagated team
// slots are cleared before the new winner and loser are re-assigned, so a
// flipped result never leaves stale teams downstream.
func (s *MatchService) UpdateResult(ctx context.Context, matchID string, req EnterResultRequest) (*models.Match, error) {
	return s.writeResult(ctx, matchID, req, true)
}

func (s *MatchService) writeResult(ctx context.Context, matchID string, req EnterResultRequest, update bool) (*models.Match, error) {
	if err := validateScores(req); err != nil {
		return nil, err
	}

	match, err := s.repos.Match.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchCancelled {
		return nil, ErrMatchNotSchedulable
	}
	if update && !match.HasResult() {
		return nil, ErrResultMissing
	}
	if !update && match.HasResult() {
		return nil, ErrResultExists
	}

	stage, err := s.repos.Stage.GetByID(ctx, match.StageID)
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{
		MatchID:       matchID,
		HomeScore:     req.HomeScore,
		AwayScore:     req.AwayScore,
		HomePenalties: req.HomePenalties,
		AwayPenalties: req.AwayPenalties,
		Notes:         req.Notes,
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.repos.Match.UpdateScoreWithTx(tx, matchID, result); err != nil {
		return nil, fmt.Errorf("failed to update score: %w", err)
	}

	// Apply the new result to the in-memory copy so propagation sees it.
	match.HomeScore = &req.HomeScore
	match.AwayScore = &req.AwayScore
	match.HomePenalties = req.HomePenalties
	match.AwayPenalties = req.AwayPenalties
	match.Status = models.MatchCompleted

	if err := s.propagate(ctx, tx, match, stage, update); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate(match.TournamentID)
	go s.notification.NotifyMatchResult(match)
	eventType := "match_result_entered"
	if update {
		eventType = "match_result_updated"
	}
	go s.analytics.LogEvent(context.Background(), eventType, map[string]interface{}{
		"tournament_id": match.TournamentID,
		"match_id":      match.ID,
	})
	if s.events != nil {
		s.events.BroadcastTournamentUpdate(match.TournamentID, "match_result", match)
	}

	return match, nil
}

// DeleteResult removes a result and clears every downstream slot that was
// populated from it.
func (s *MatchService) DeleteResult(ctx context.Context, matchID string) error {
	match, err := s.repos.Match.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.HasResult() {
		return ErrResultMissing
	}

	stage, err := s.repos.Stage.GetByID(ctx, match.StageID)
	if err != nil {
		return err
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repos.Match.ClearResultWithTx(tx, matchID); err != nil {
		return err
	}
	if err := s.clearBracketRefs(ctx, tx, match); err != nil {
		return err
	}
	if match.GroupID != nil {
		// The group is no longer complete; withdraw any advancement.
		if err := s.clearGroupAdvancement(ctx, tx, match, stage); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(match.TournamentID)
	go s.analytics.LogEvent(context.Background(), "match_result_deleted", map[string]interface{}{
		"tournament_id": match.TournamentID,
		"match_id":      match.ID,
	})
	if s.events != nil {
		s.events.BroadcastTournamentUpdate(match.TournamentID, "match_result", match)
	}
	return nil
}

// StartMatch marks a match as in progress
func (s *MatchService) StartMatch(ctx context.Context, matchID string) error {
	return s.repos.Match.UpdateStatus(ctx, matchID, models.MatchInProgress)
}

// propagate pushes a completed result downstream: bracket references first,
// then group advancement once the whole group is done.
func (s *MatchService) propagate(ctx context.Context, tx *sql.Tx, match *models.Match, stage *models.Stage, update bool) error {
	if match.BracketPosition != nil {
		if update {
			if err := s.clearBracketRefs(ctx, tx, match); err != nil {
				return err
			}
		}
		if err := s.propagateBracket(ctx, tx, match); err != nil {
			return err
		}
	}

	if match.GroupID != nil && scheduling.StageType(stage.Type).IsGroupStage() {
		if err := s.advanceGroupIfComplete(ctx, tx, match, stage); err != nil {
			return err
		}
	}
	return nil
}

// propagateBracket resolves Winner/Loser references to this match's bracket
// position across its stage. A draw with no shootout has no winner and is
// skipped.
func (s *MatchService) propagateBracket(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	winnerID, loserID := resolveWinnerLoser(match)
	if winnerID == nil {
		s.logger.Printf("Match %s ended level with no shootout, skipping progression", match.TempID)
		return nil
	}

	stageMatches, err := s.repos.Match.GetByStageID(ctx, match.StageID)
	if err != nil {
		return err
	}

	pos := *match.BracketPosition
	for _, downstream := range stageMatches {
		if downstream.ID == match.ID {
			continue
		}
		if downstream.HomeTeamSource != nil {
			if kind, ok := scheduling.MatchBracketRef(*downstream.HomeTeamSource, pos); ok {
				if err := s.assignSlot(tx, downstream, true, kind, winnerID, loserID); err != nil {
					return err
				}
			}
		}
		if downstream.AwayTeamSource != nil {
			if kind, ok := scheduling.MatchBracketRef(*downstream.AwayTeamSource, pos); ok {
				if err := s.assignSlot(tx, downstream, false, kind, winnerID, loserID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *MatchService) assignSlot(tx *sql.Tx, match *models.Match, home bool, kind scheduling.BracketRefKind, winnerID, loserID *string) error {
	teamID := winnerID
	if kind == scheduling.RefLoser {
		teamID = loserID
	}
	if teamID == nil {
		return nil
	}
	return s.repos.Match.UpdateTeamSlotWithTx(tx, match.ID, home, teamID)
}

// clearBracketRefs nils every slot in the stage that references this
// match's bracket position, winner and loser alike.
func (s *MatchService) clearBracketRefs(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	if match.BracketPosition == nil {
		return nil
	}
	stageMatches, err := s.repos.Match.GetByStageID(ctx, match.StageID)
	if err != nil {
		return err
	}
	pos := *match.BracketPosition
	for _, downstream := range stageMatches {
		if downstream.ID == match.ID {
			continue
		}
		if downstream.HomeTeamSource != nil {
			if _, ok := scheduling.MatchBracketRef(*downstream.HomeTeamSource, pos); ok {
				if err := s.repos.Match.UpdateTeamSlotWithTx(tx, downstream.ID, true, nil); err != nil {
					return err
				}
			}
		}
		if downstream.AwayTeamSource != nil {
			if _, ok := scheduling.MatchBracketRef(*downstream.AwayTeamSource, pos); ok {
				if err := s.repos.Match.UpdateTeamSlotWithTx(tx, downstream.ID, false, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// advanceGroupIfComplete recomputes the group's standings once every match
// has a result and resolves the next stage's placeholder slots.
func (s *MatchService) advanceGroupIfComplete(ctx context.Context, tx *sql.Tx, match *models.Match, stage *models.Stage) error {
	groupMatches, err := s.groupMatchesWith(ctx, match)
	if err != nil {
		return err
	}
	for _, gm := range groupMatches {
		if gm.Status != models.MatchCompleted {
			return nil
		}
	}

	group, err := s.repos.Stage.GetGroupByID(ctx, *match.GroupID)
	if err != nil {
		return err
	}

	standings := groupStandings(group, groupMatches)
	byPosition := make(map[int]string, len(standings))
	for _, st := range standings {
		byPosition[st.Position] = st.RegistrationID
	}

	nextStage, err := s.repos.Stage.GetByTournamentAndOrder(ctx, stage.TournamentID, stage.Order+1)
	if err != nil || nextStage == nil {
		return err
	}

	nextMatches, err := s.repos.Match.GetByStageID(ctx, nextStage.ID)
	if err != nil {
		return err
	}

	for _, nm := range nextMatches {
		if nm.HomeTeamSource != nil {
			if pos := scheduling.ParseGroupPosition(*nm.HomeTeamSource, group.Name); pos != nil {
				if regID, ok := byPosition[*pos]; ok {
					if err := s.repos.Match.UpdateTeamSlotWithTx(tx, nm.ID, true, &regID); err != nil {
						return err
					}
				}
			}
		}
		if nm.AwayTeamSource != nil {
			if pos := scheduling.ParseGroupPosition(*nm.AwayTeamSource, group.Name); pos != nil {
				if regID, ok := byPosition[*pos]; ok {
					if err := s.repos.Match.UpdateTeamSlotWithTx(tx, nm.ID, false, &regID); err != nil {
						return err
					}
				}
			}
		}
	}

	go s.notification.NotifyGroupCompleted(stage.TournamentID, group.ID)
	if s.events != nil {
		s.events.BroadcastTournamentUpdate(stage.TournamentID, "group_completed", standings)
	}
	return nil
}

// clearGroupAdvancement nils next-stage slots resolved from this group.
func (s *MatchService) clearGroupAdvancement(ctx context.Context, tx *sql.Tx, match *models.Match, stage *models.Stage) error {
	group, err := s.repos.Stage.GetGroupByID(ctx, *match.GroupID)
	if err != nil {
		return err
	}
	nextStage, err := s.repos.Stage.GetByTournamentAndOrder(ctx, stage.TournamentID, stage.Order+1)
	if err != nil || nextStage == nil {
		return err
	}
	nextMatches, err := s.repos.Match.GetByStageID(ctx, nextStage.ID)
	if err != nil {
		return err
	}
	for _, nm := range nextMatches {
		if nm.HomeTeamSource != nil && scheduling.ParseGroupPosition(*nm.HomeTeamSource, group.Name) != nil {
			if err := s.repos.Match.UpdateTeamSlotWithTx(tx, nm.ID, true, nil); err != nil {
				return err
			}
		}
		if nm.AwayTeamSource != nil && scheduling.ParseGroupPosition(*nm.AwayTeamSource, group.Name) != nil {
			if err := s.repos.Match.UpdateTeamSlotWithTx(tx, nm.ID, false, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetGroupStandings computes the current table for a group.
func (s *MatchService) GetGroupStandings(ctx context.Context, groupID string) ([]scheduling.TeamStanding, error) {
	group, err := s.repos.Stage.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	matches, err := s.repos.Match.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return groupStandings(group, matches), nil
}

// groupMatchesWith loads the group's matches with the in-flight result of
// the current match applied, since its transaction has not committed yet.
func (s *MatchService) groupMatchesWith(ctx context.Context, match *models.Match) ([]*models.Match, error) {
	groupMatches, err := s.repos.Match.GetByGroupID(ctx, *match.GroupID)
	if err != nil {
		return nil, err
	}
	for i, gm := range groupMatches {
		if gm.ID == match.ID {
			groupMatches[i] = match
		}
	}
	return groupMatches, nil
}

// invalidate clears the tournament's whole cache-key family; a result
// write touches the match list, the schedule read and the cached stats.
func (s *MatchService) invalidate(tournamentID string) {
	if err := s.cache.InvalidatePattern("tournament*" + tournamentID); err != nil {
		s.logger.Printf("Failed to invalidate cache for tournament %s: %v", tournamentID, err)
	}
}

// groupStandings converts stored rows into the engine's standings input.
func groupStandings(group *models.Group, matches []*models.Match) []scheduling.TeamStanding {
	teams := make([]scheduling.TeamSlot, 0, len(group.Teams))
	for _, t := range group.Teams {
		teams = append(teams, scheduling.TeamSlot{
			RegistrationID: t.RegistrationID,
			SeedPosition:   t.SeedPosition,
			TeamName:       t.TeamName,
		})
	}

	results := make([]scheduling.GroupMatchResult, 0, len(matches))
	for _, m := range matches {
		if m.HomeRegistrationID == nil || m.AwayRegistrationID == nil || !m.HasResult() {
			continue
		}
		results = append(results, scheduling.GroupMatchResult{
			HomeRegistrationID: *m.HomeRegistrationID,
			AwayRegistrationID: *m.AwayRegistrationID,
			HomeScore:          *m.HomeScore,
			AwayScore:          *m.AwayScore,
		})
	}
	return scheduling.ComputeGroupStandings(teams, results)
}

// resolveWinnerLoser maps a completed match to winner and loser IDs, or
// nils when there is no decision.
func resolveWinnerLoser(match *models.Match) (winnerID, loserID *string) {
	if !match.HasResult() {
		return nil, nil
	}
	side := scheduling.DetermineWinner(*match.HomeScore, *match.AwayScore, match.HomePenalties, match.AwayPenalties)
	switch side {
	case scheduling.HomeWins:
		return match.HomeRegistrationID, match.AwayRegistrationID
	case scheduling.AwayWins:
		return match.AwayRegistrationID, match.HomeRegistrationID
	}
	return nil, nil
}

func validateScores(req EnterResultRequest) error {
	scores := []int{req.HomeScore, req.AwayScore}
	if req.HomePenalties != nil {
		scores = append(scores, *req.HomePenalties)
	}
	if req.AwayPenalties != nil {
		scores = append(scores, *req.AwayPenalties)
	}
	for _, score := range scores {
		if err := utils.ValidateScore(score); err != nil {
			return ErrScoreOutOfRange
		}
	}
	return nil
}
