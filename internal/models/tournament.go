// internal/models/tournament.go
// Domain models representing core business entities

package models

import "time"

// Tournament owns an ordered sequence of stages and a set of pitches, plus
// the timing parameters the allocator works with.
type Tournament struct {
	ID                    string           `json:"id" db:"id"`
	Name                  string           `json:"name" db:"name"`
	Description           string           `json:"description" db:"description"`
	Status                TournamentStatus `json:"status" db:"status"`
	StartTime             time.Time        `json:"start_time" db:"start_time"`
	MatchDurationMinutes  int              `json:"match_duration_minutes" db:"match_duration_minutes"`
	TransitionTimeMinutes int              `json:"transition_time_minutes" db:"transition_time_minutes"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`

	// Populated by the detail read path.
	Stages  []*Stage `json:"stages,omitempty"`
	Pitches []*Pitch `json:"pitches,omitempty"`
}

// TournamentStatus represents the current state of a tournament.
type TournamentStatus string

const (
	StatusDraft      TournamentStatus = "draft"
	StatusScheduled  TournamentStatus = "scheduled"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
	StatusCancelled  TournamentStatus = "cancelled"
)
