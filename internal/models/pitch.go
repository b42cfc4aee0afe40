// internal/models/pitch.go
// Pitch model: a physical playing field with an availability window

package models

import "time"

// Pitch is a unit of parallelism for the allocator. Matches reference it;
// the surrounding event owns it.
type Pitch struct {
	ID            string    `json:"id" db:"id"`
	TournamentID  string    `json:"tournament_id" db:"tournament_id"`
	Name          string    `json:"name" db:"name"`
	AvailableFrom time.Time `json:"available_from" db:"available_from"`
	AvailableTo   time.Time `json:"available_to" db:"available_to"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
