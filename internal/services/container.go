// internal/services/container.go
// Service container provides dependency injection for all business logic
// services. This pattern makes testing easier and keeps services loosely
// coupled.

package services

import (
	"errors"
	"log"

	"cup-planner/internal/config"
	"cup-planner/internal/database"
	"cup-planner/internal/repositories"
)

// EventPublisher pushes live updates to subscribed clients. The websocket
// hub implements it; services stay decoupled from the transport.
type EventPublisher interface {
	BroadcastTournamentUpdate(tournamentID string, updateType string, data interface{})
}

// Container holds all service instances and provides them to handlers
type Container struct {
	Tournament   *TournamentService
	Schedule     *ScheduleService
	Match        *MatchService
	Notification *NotificationService
	Cache        *CacheService
	Analytics    *AnalyticsService
}

// NewContainer creates a new service container with all dependencies
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	repos := repositories.NewContainer(db)

	cache := NewCacheService(db.Redis, logger)
	notification := NewNotificationService(cfg, logger)
	analytics := NewAnalyticsService(db.MongoDB, cache, logger)

	tournament := NewTournamentService(repos, cache, logger)
	schedule := NewScheduleService(repos, cache, notification, analytics, logger)
	match := NewMatchService(repos, cache, notification, analytics, logger)

	return &Container{
		Tournament:   tournament,
		Schedule:     schedule,
		Match:        match,
		Notification: notification,
		Cache:        cache,
		Analytics:    analytics,
	}
}

// SetEventPublisher wires the live-update publisher into the services that
// broadcast. Called once the websocket hub exists.
func (c *Container) SetEventPublisher(events EventPublisher) {
	c.Schedule.events = events
	c.Match.events = events
}

// Common errors used across services
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNoStages             = errors.New("tournament has no stages")
	ErrNoPitches            = errors.New("no pitches available")
	ErrScheduleLocked       = errors.New("schedule is locked for a completed tournament")
	ErrStageHasMatches      = errors.New("stage already has generated matches")
	ErrResultExists         = errors.New("match already has a result")
	ErrResultMissing        = errors.New("match has no result")
	ErrMatchNotSchedulable  = errors.New("match cannot accept a result in its current state")
	ErrScoreOutOfRange      = errors.New("score must be between 0 and 99")
	ErrSchedulingImpossible = errors.New("scheduling impossible with current constraints")
)
