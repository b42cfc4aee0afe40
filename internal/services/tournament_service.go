// internal/services/tournament_service.go
// Tournament structure management: tournaments, stages, groups, pitches and
// registrations, with the lifecycle guards the scheduler depends on. Stage
// structure is only mutable while the stage has no generated matches.

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cup-planner/internal/models"
	"cup-planner/internal/repositories"
	"cup-planner/internal/scheduling"
	"cup-planner/internal/utils"
)

// TournamentService handles tournament structure business logic
type TournamentService struct {
	repos  *repositories.Container
	cache  *CacheService
	logger *log.Logger
}

// NewTournamentService creates a new tournament service
func NewTournamentService(repos *repositories.Container, cache *CacheService, logger *log.Logger) *TournamentService {
	return &TournamentService{
		repos:  repos,
		cache:  cache,
		logger: logger,
	}
}

// CreateTournamentRequest represents the data needed to create a tournament
type CreateTournamentRequest struct {
	Name                  string               `json:"name" binding:"required,min=3,max=255"`
	Description           string               `json:"description" binding:"max=1000"`
	StartTime             time.Time            `json:"start_time" binding:"required"`
	MatchDurationMinutes  int                  `json:"match_duration_minutes" binding:"required,min=5,max=240"`
	TransitionTimeMinutes int                  `json:"transition_time_minutes" binding:"min=0,max=60"`
	Pitches               []CreatePitchRequest `json:"pitches" binding:"required,min=1,dive"`
}

// CreatePitchRequest represents pitch creation data
type CreatePitchRequest struct {
	Name          string    `json:"name" binding:"required"`
	AvailableFrom time.Time `json:"available_from" binding:"required"`
	AvailableTo   time.Time `json:"available_to" binding:"required,gtfield=AvailableFrom"`
}

// CreateStageRequest represents stage creation data
type CreateStageRequest struct {
	Name              string                     `json:"name" binding:"required"`
	Type              string                     `json:"type" binding:"required,oneof=GROUP_STAGE GSL_GROUPS ROUND_ROBIN KNOCKOUT DOUBLE_ELIMINATION FINAL"`
	Order             int                        `json:"order" binding:"required,min=1"`
	BufferTimeMinutes int                        `json:"buffer_time_minutes" binding:"min=0"`
	Configuration     *models.StageConfiguration `json:"configuration,omitempty"`
}

// CreateGroupRequest represents group creation data
type CreateGroupRequest struct {
	Name           string `json:"name" binding:"required"`
	Order          int    `json:"order" binding:"required,min=1"`
	RoundRobinType string `json:"round_robin_type" binding:"omitempty,oneof=SINGLE DOUBLE"`
}

// Create creates a tournament together with its pitches
func (s *TournamentService) Create(ctx context.Context, req CreateTournamentRequest) (*models.Tournament, error) {
	if err := utils.ValidateTournamentName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, pitchReq := range req.Pitches {
		if err := utils.ValidateDateRange(pitchReq.AvailableFrom, pitchReq.AvailableTo); err != nil {
			return nil, fmt.Errorf("%w: pitch %q: %v", ErrInvalidInput, pitchReq.Name, err)
		}
	}

	now := time.Now()
	tournament := &models.Tournament{
		ID:                    utils.GenerateUUID(),
		Name:                  req.Name,
		Description:           req.Description,
		Status:                models.StatusDraft,
		StartTime:             req.StartTime,
		MatchDurationMinutes:  req.MatchDurationMinutes,
		TransitionTimeMinutes: req.TransitionTimeMinutes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repos.Tournament.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	for _, pitchReq := range req.Pitches {
		pitch := &models.Pitch{
			ID:            utils.GenerateUUID(),
			TournamentID:  tournament.ID,
			Name:          pitchReq.Name,
			AvailableFrom: pitchReq.AvailableFrom,
			AvailableTo:   pitchReq.AvailableTo,
			CreatedAt:     now,
		}
		if err := s.repos.Pitch.Create(ctx, pitch); err != nil {
			return nil, fmt.Errorf("failed to create pitch: %w", err)
		}
		tournament.Pitches = append(tournament.Pitches, pitch)
	}

	return tournament, nil
}

// GetByID retrieves a tournament by ID
func (s *TournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	cacheKey := "tournament_" + id
	var tournament models.Tournament
	if err := s.cache.Get(cacheKey, &tournament); err == nil {
		return &tournament, nil
	}

	t, err := s.repos.Tournament.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, t, 5*time.Minute)
	return t, nil
}

// GetWithDetails retrieves a tournament with stages, groups and pitches
func (s *TournamentService) GetWithDetails(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.repos.Tournament.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stages, err := s.repos.Stage.GetByTournamentID(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.Stages = stages

	pitches, err := s.repos.Pitch.GetByTournamentID(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.Pitches = pitches

	return tournament, nil
}

// List retrieves tournaments
func (s *TournamentService) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repos.Tournament.List(ctx, limit, offset)
}

// Update updates tournament timing and metadata
func (s *TournamentService) Update(ctx context.Context, id string, req CreateTournamentRequest) (*models.Tournament, error) {
	if err := utils.ValidateTournamentName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tournament, err := s.repos.Tournament.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrScheduleLocked
	}

	tournament.Name = req.Name
	tournament.Description = req.Description
	tournament.StartTime = req.StartTime
	tournament.MatchDurationMinutes = req.MatchDurationMinutes
	tournament.TransitionTimeMinutes = req.TransitionTimeMinutes
	tournament.UpdatedAt = time.Now()

	if err := s.repos.Tournament.Update(ctx, tournament); err != nil {
		return nil, err
	}

	s.cache.Delete("tournament_" + id)
	return tournament, nil
}

// Delete removes a tournament and everything it owns
func (s *TournamentService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Tournament.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.InvalidatePattern("tournament*" + id); err != nil {
		s.logger.Printf("Failed to invalidate cache for tournament %s: %v", id, err)
	}
	return nil
}

// AddStage appends a stage to a tournament
func (s *TournamentService) AddStage(ctx context.Context, tournamentID string, req CreateStageRequest) (*models.Stage, error) {
	if _, err := s.repos.Tournament.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	now := time.Now()
	stage := &models.Stage{
		ID:                utils.GenerateUUID(),
		TournamentID:      tournamentID,
		Name:              req.Name,
		Type:              req.Type,
		Order:             req.Order,
		BufferTimeMinutes: req.BufferTimeMinutes,
		Configuration:     req.Configuration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repos.Stage.Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return stage, nil
}

// AddGroup appends a group to a stage. Groups are only mutable while the
// stage has no generated matches.
func (s *TournamentService) AddGroup(ctx context.Context, stageID string, req CreateGroupRequest) (*models.Group, error) {
	if err := s.requireStageUnlocked(ctx, stageID); err != nil {
		return nil, err
	}

	rrType := req.RoundRobinType
	if rrType == "" {
		rrType = string(scheduling.RoundRobinSingle)
	}
	group := &models.Group{
		ID:             utils.GenerateUUID(),
		StageID:        stageID,
		Name:           req.Name,
		Order:          req.Order,
		RoundRobinType: rrType,
		CreatedAt:      time.Now(),
	}
	if err := s.repos.Stage.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// AssignTeam puts a registration into a group at a seed position
func (s *TournamentService) AssignTeam(ctx context.Context, groupID, registrationID string, seedPosition *int) error {
	group, err := s.repos.Stage.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if err := s.requireStageUnlocked(ctx, group.StageID); err != nil {
		return err
	}
	if _, err := s.repos.Registration.GetByID(ctx, registrationID); err != nil {
		return err
	}
	return s.repos.Stage.AssignTeam(ctx, groupID, registrationID, seedPosition)
}

// AddPitch adds a pitch to a tournament
func (s *TournamentService) AddPitch(ctx context.Context, tournamentID string, req CreatePitchRequest) (*models.Pitch, error) {
	if err := utils.ValidateDateRange(req.AvailableFrom, req.AvailableTo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.repos.Tournament.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	pitch := &models.Pitch{
		ID:            utils.GenerateUUID(),
		TournamentID:  tournamentID,
		Name:          req.Name,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		CreatedAt:     time.Now(),
	}
	if err := s.repos.Pitch.Create(ctx, pitch); err != nil {
		return nil, err
	}
	return pitch, nil
}

// RegisterTeam adds a team registration
func (s *TournamentService) RegisterTeam(ctx context.Context, tournamentID, teamName string, seedPosition *int) (*models.Registration, error) {
	if _, err := s.repos.Tournament.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	now := time.Now()
	reg := &models.Registration{
		ID:           utils.GenerateUUID(),
		TournamentID: tournamentID,
		TeamName:     teamName,
		SeedPosition: seedPosition,
		Confirmed:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Registration.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// requireStageUnlocked rejects structural changes once matches exist.
func (s *TournamentService) requireStageUnlocked(ctx context.Context, stageID string) error {
	count, err := s.repos.Match.CountByStageID(ctx, stageID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStageHasMatches
	}
	return nil
}
