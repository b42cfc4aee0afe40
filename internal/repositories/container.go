// internal/repositories/container.go
// Repository container for dependency injection

package repositories

import (
	"context"
	"database/sql"

	"cup-planner/internal/database"
)

// Container holds all repository instances
type Container struct {
	Tournament   *TournamentRepository
	Stage        *StageRepository
	Match        *MatchRepository
	Pitch        *PitchRepository
	Registration *RegistrationRepository
	db           *sql.DB
}

// NewContainer creates a new repository container
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Tournament:   NewTournamentRepository(conn.MySQL),
		Stage:        NewStageRepository(conn.MySQL),
		Match:        NewMatchRepository(conn.MySQL),
		Pitch:        NewPitchRepository(conn.MySQL),
		Registration: NewRegistrationRepository(conn.MySQL),
		db:           conn.MySQL,
	}
}

// BeginTx starts a new database transaction
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
