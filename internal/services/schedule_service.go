// internal/services/schedule_service.go
// Schedule orchestration: converts persisted tournament structure into the
// engine's input, runs generation, allocation and validation, and persists
// the result when no error-severity violations remain.

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

// ScheduleService handles schedule generation and clearing
type ScheduleService struct {
	repos        *repositories.Container
	cache        *CacheService
	notification *NotificationService
	analytics    *AnalyticsService
	events       EventPublisher
	logger       *log.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	repos *repositories.Container,
	cache *CacheService,
	notification *NotificationService,
	analytics *AnalyticsService,
	logger *log.Logger,
) *ScheduleService {
	return &ScheduleService{
		repos:        repos,
		cache:        cache,
		notification: notification,
		analytics:    analytics,
		logger:       logger,
	}
}

// RestTimeConstraint overrides the validator's rest bounds.
type RestTimeConstraint struct {
	MinimumRestMinutes   int  `json:"minimum_rest_minutes" binding:"min=0"`
	PreferredRestMinutes *int `json:"preferred_rest_minutes,omitempty"`
}

// ScheduleConstraints is the optional constraints block of a generate request.
type ScheduleConstraints struct {
	RestTime *RestTimeConstraint `json:"rest_time,omitempty"`
}

// GenerateScheduleRequest is the body of a generate-schedule call.
type GenerateScheduleRequest struct {
	Constraints *ScheduleConstraints `json:"constraints,omitempty"`
}

// GenerateScheduleResponse reports the engine's outcome.
type GenerateScheduleResponse struct {
	Success  bool                        `json:"success"`
	Matches  []scheduling.AllocatedMatch `json:"matches"`
	Warnings []scheduling.Violation      `json:"warnings"`
	Errors   []scheduling.Violation      `json:"errors"`
	Stats    scheduling.ScheduleStats    `json:"stats"`
}

// Generate runs the full engine for a tournament and persists the schedule
// when it has no error-severity violations; warnings do not block it.
// Existing matches are replaced.
func (s *ScheduleService) Generate(ctx context.Context, tournamentID string, req GenerateScheduleRequest) (*GenerateScheduleResponse, error) {
	response, allocated, err := s.run(ctx, tournamentID, req)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return response, nil
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repos.Match.DeleteByTournamentWithTx(tx, tournamentID); err != nil {
		return nil, fmt.Errorf("failed to clear previous schedule: %w", err)
	}

	now := time.Now()
	for i := range allocated {
		match := matchFromAllocation(&allocated[i], tournamentID, now)
		if err := s.repos.Match.CreateWithTx(tx, match); err != nil {
			return nil, fmt.Errorf("failed to persist match %s: %w", match.TempID, err)
		}
	}

	if err := s.repos.Tournament.UpdateStatusWithTx(tx, tournamentID, models.StatusScheduled); err != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate(tournamentID)
	go s.notification.NotifyScheduleGenerated(tournamentID, len(allocated))
	go s.analytics.LogEvent(context.Background(), "schedule_generated", map[string]interface{}{
		"tournament_id": tournamentID,
		"match_count":   len(allocated),
	})
	if s.events != nil {
		s.events.BroadcastTournamentUpdate(tournamentID, "schedule_generated", response.Stats)
	}

	return response, nil
}

// Preview runs the engine without touching storage.
func (s *ScheduleService) Preview(ctx context.Context, tournamentID string, req GenerateScheduleRequest) (*GenerateScheduleResponse, error) {
	response, _, err := s.run(ctx, tournamentID, req)
	return response, err
}

// run executes generation, allocation and validation over the stored
// tournament structure.
func (s *ScheduleService) run(ctx context.Context, tournamentID string, req GenerateScheduleRequest) (*GenerateScheduleResponse, []scheduling.AllocatedMatch, error) {
	tournament, err := s.repos.Tournament.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if tournament.Status == models.StatusCompleted {
		return nil, nil, ErrScheduleLocked
	}

	stages, err := s.repos.Stage.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if len(stages) == 0 {
		return nil, nil, ErrNoStages
	}

	pitches, err := s.repos.Pitch.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	registrations, err := s.repos.Registration.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	configs := buildStageConfigs(stages, registrations)
	configs = scheduling.ResolveIncomingSlots(configs)

	generated, genViolations := scheduling.Generate(configs)

	timing := scheduling.Timing{
		StartTime:             tournament.StartTime,
		MatchDurationMinutes:  tournament.MatchDurationMinutes,
		TransitionTimeMinutes: tournament.TransitionTimeMinutes,
		Pitches:               pitchInputs(pitches),
	}
	allocation := scheduling.Allocate(generated, configs, timing)

	validation := scheduling.ValidateSchedule(allocation.Matches, validateOptions(req.Constraints, configs))

	var errs, warnings []scheduling.Violation
	for _, v := range append(append(genViolations, allocation.Errors...), validation.Violations...) {
		if v.Severity == scheduling.SeverityError {
			errs = append(errs, v)
		} else {
			warnings = append(warnings, v)
		}
	}

	response := &GenerateScheduleResponse{
		Success:  len(errs) == 0,
		Matches:  allocation.Matches,
		Warnings: warnings,
		Errors:   errs,
		Stats:    scheduling.ComputeStats(allocation.Matches, timing.Pitches),
	}
	return response, allocation.Matches, nil
}

// Clear removes every match of a tournament.
func (s *ScheduleService) Clear(ctx context.Context, tournamentID string) error {
	tournament, err := s.repos.Tournament.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Status == models.StatusCompleted {
		return ErrScheduleLocked
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repos.Match.DeleteByTournamentWithTx(tx, tournamentID); err != nil {
		return err
	}
	if err := s.repos.Tournament.UpdateStatusWithTx(tx, tournamentID, models.StatusDraft); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(tournamentID)
	go s.notification.NotifyScheduleCleared(tournamentID)
	if s.events != nil {
		s.events.BroadcastTournamentUpdate(tournamentID, "schedule_cleared", nil)
	}
	return nil
}

// invalidate clears the tournament's whole cache-key family: the detail
// read, the match list and the analytics stats all key on the ID.
func (s *ScheduleService) invalidate(tournamentID string) {
	if err := s.cache.InvalidatePattern("tournament*" + tournamentID); err != nil {
		s.logger.Printf("Failed to invalidate cache for tournament %s: %v", tournamentID, err)
	}
}

// validateOptions merges request constraints over the defaults. Missing-team
// detection is switched off when any stage carries placeholder entrants,
// since their slots legitimately stay empty until earlier stages resolve.
func validateOptions(constraints *ScheduleConstraints, configs []scheduling.StageConfig) scheduling.ValidateOptions {
	opts := scheduling.DefaultValidateOptions()
	if constraints != nil && constraints.RestTime != nil {
		if constraints.RestTime.MinimumRestMinutes > 0 {
			opts.RestTime.MinimumRestMinutes = constraints.RestTime.MinimumRestMinutes
		}
		if constraints.RestTime.PreferredRestMinutes != nil {
			opts.RestTime.PreferredRestMinutes = constraints.RestTime.PreferredRestMinutes
		}
	}
	for _, cfg := range configs {
		if len(cfg.IncomingSlots) > 0 {
			opts.ValidateMissingTeams = false
			break
		}
		for _, g := range cfg.Groups {
			if len(g.Incoming) > 0 {
				opts.ValidateMissingTeams = false
				break
			}
		}
	}
	return opts
}

// buildStageConfigs converts persisted stage records into engine input.
// A knockout-style first stage with no groups is seeded directly from the
// confirmed registrations.
func buildStageConfigs(stages []*models.Stage, registrations []*models.Registration) []scheduling.StageConfig {
	configs := make([]scheduling.StageConfig, 0, len(stages))

	for i, stage := range stages {
		cfg := scheduling.StageConfig{
			ID:                stage.ID,
			Name:              stage.Name,
			Order:             stage.Order,
			Type:              scheduling.StageType(stage.Type),
			BufferTimeMinutes: stage.BufferTimeMinutes,
			SchedulingMode:    scheduling.ModeInterleaved,
		}

		if c := stage.Configuration; c != nil {
			cfg.AdvancingTeamCount = c.AdvancingTeamCount
			cfg.AdvancingTeamsPerGroup = c.AdvancingTeamsPerGroup
			cfg.HasThirdPlace = c.HasThirdPlace
			if c.GroupSchedulingMode == string(scheduling.ModeSequential) {
				cfg.SchedulingMode = scheduling.ModeSequential
			}
		}

		for _, g := range stage.Groups {
			group := scheduling.GroupConfig{
				ID:             g.ID,
				Name:           g.Name,
				Order:          g.Order,
				RoundRobinType: scheduling.RoundRobinType(g.RoundRobinType),
			}
			if group.RoundRobinType == "" {
				group.RoundRobinType = scheduling.RoundRobinSingle
			}
			for _, t := range g.Teams {
				group.Teams = append(group.Teams, scheduling.TeamSlot{
					RegistrationID: t.RegistrationID,
					SeedPosition:   t.SeedPosition,
					TeamName:       t.TeamName,
				})
			}
			cfg.Groups = append(cfg.Groups, group)
		}

		// First stage knockouts have no upstream stage to feed them.
		if i == 0 && cfg.Type.IsKnockoutStage() {
			for _, reg := range registrations {
				if !reg.Confirmed {
					continue
				}
				cfg.Teams = append(cfg.Teams, scheduling.TeamSlot{
					RegistrationID: reg.ID,
					SeedPosition:   reg.SeedPosition,
					TeamName:       reg.TeamName,
				})
			}
		}

		configs = append(configs, cfg)
	}
	return configs
}

func pitchInputs(pitches []*models.Pitch) []scheduling.Pitch {
	out := make([]scheduling.Pitch, 0, len(pitches))
	for _, p := range pitches {
		out = append(out, scheduling.Pitch{
			ID:            p.ID,
			Name:          p.Name,
			AvailableFrom: p.AvailableFrom,
			AvailableTo:   p.AvailableTo,
		})
	}
	return out
}

// matchFromAllocation converts an engine allocation into a persistable match.
func matchFromAllocation(am *scheduling.AllocatedMatch, tournamentID string, now time.Time) *models.Match {
	match := &models.Match{
		ID:                 utils.GenerateUUID(),
		TournamentID:       tournamentID,
		StageID:            am.StageID,
		GroupID:            am.GroupID,
		TempID:             am.TempID,
		RoundNumber:        am.RoundNumber,
		MatchNumber:        am.MatchNumber,
		BracketPosition:    am.BracketPosition,
		IsThirdPlace:       am.IsThirdPlace,
		IsDecider:          am.IsDecider,
		HomeRegistrationID: am.HomeRegistrationID,
		AwayRegistrationID: am.AwayRegistrationID,
		HomeTeamSource:     am.HomeSource,
		AwayTeamSource:     am.AwaySource,
		Status:             models.MatchScheduled,
		DependsOn:          models.StringList(am.DependsOn),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if am.BracketType != "" {
		bt := string(am.BracketType)
		match.BracketType = &bt
	}
	pitchID := am.PitchID
	start, end := am.ScheduledStartTime, am.ScheduledEndTime
	match.PitchID = &pitchID
	match.ScheduledStartTime = &start
	match.ScheduledEndTime = &end
	return match
}
