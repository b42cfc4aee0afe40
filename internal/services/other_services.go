// internal/services/other_services.go
// Notification and analytics services

package services

import (
	"context"
	"log"
	"time"

	"cup-planner/internal/config"
	"cup-planner/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService handles all notification operations
type NotificationService struct {
	config *config.Config
	logger *log.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *config.Config, logger *log.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// NotifyScheduleGenerated announces a freshly generated schedule
func (s *NotificationService) NotifyScheduleGenerated(tournamentID string, matchCount int) {
	s.logger.Printf("Schedule generated for tournament %s: %d matches", tournamentID, matchCount)
}

// NotifyScheduleCleared announces a cleared schedule
func (s *NotificationService) NotifyScheduleCleared(tournamentID string) {
	s.logger.Printf("Schedule cleared for tournament %s", tournamentID)
}

// NotifyMatchResult announces a match result
func (s *NotificationService) NotifyMatchResult(match *models.Match) {
	s.logger.Printf("Result recorded for match %s (%s)", match.ID, match.TempID)
}

// NotifyGroupCompleted announces that a group finished all its matches
func (s *NotificationService) NotifyGroupCompleted(tournamentID, groupID string) {
	s.logger.Printf("Group %s completed in tournament %s, advancement propagated", groupID, tournamentID)
}

// ========================================

// AnalyticsService handles analytics and event tracking
type AnalyticsService struct {
	db     *mongo.Database
	cache  *CacheService
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *mongo.Database, cache *CacheService, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// LogEvent logs an analytics event
func (s *AnalyticsService) LogEvent(ctx context.Context, eventType string, data map[string]interface{}) error {
	event := bson.M{
		"type":       eventType,
		"data":       data,
		"timestamp":  time.Now(),
		"created_at": time.Now(),
	}

	_, err := s.db.Collection("analytics_events").InsertOne(ctx, event)
	if err != nil {
		s.logger.Printf("Failed to log analytics event: %v", err)
		// Don't return error - analytics shouldn't break the app
	}

	return nil
}

// GetTournamentStats retrieves cached scheduling statistics for a tournament
func (s *AnalyticsService) GetTournamentStats(ctx context.Context, tournamentID string) (map[string]interface{}, error) {
	var stats map[string]interface{}
	if err := s.cache.Get("tournament_stats_"+tournamentID, &stats); err == nil {
		return stats, nil
	}

	cursor, err := s.db.Collection("analytics_events").Find(ctx, bson.M{"data.tournament_id": tournamentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := map[string]int{}
	for cursor.Next(ctx) {
		var event struct {
			Type string `bson:"type"`
		}
		if err := cursor.Decode(&event); err != nil {
			continue
		}
		counts[event.Type]++
	}

	stats = map[string]interface{}{
		"schedule_generations": counts["schedule_generated"],
		"results_entered":      counts["match_result_entered"],
		"results_updated":      counts["match_result_updated"],
	}
	s.cache.Set("tournament_stats_"+tournamentID, stats, 5*time.Minute)
	return stats, nil
}
