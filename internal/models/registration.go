// internal/models/registration.go
// Team registration model

package models

import "time"

// Registration is a team entered into a tournament. Group assignments and
// match slots reference registrations by ID.
type Registration struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	TeamName     string    `json:"team_name" db:"team_name"`
	SeedPosition *int      `json:"seed_position,omitempty" db:"seed_position"`
	Confirmed    bool      `json:"confirmed" db:"confirmed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
