// internal/models/stage.go
// Stage, group and team-assignment models

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Stage is one phase of a tournament: a group round, a bracket, or finals.
type Stage struct {
	ID                string              `json:"id" db:"id"`
	TournamentID      string              `json:"tournament_id" db:"tournament_id"`
	Name              string              `json:"name" db:"name"`
	Type              string              `json:"type" db:"type"`
	Order             int                 `json:"order" db:"ord"`
	BufferTimeMinutes int                 `json:"buffer_time_minutes" db:"buffer_time_minutes"`
	Configuration     *StageConfiguration `json:"configuration,omitempty" db:"configuration"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`

	Groups []*Group `json:"groups,omitempty"`
}

// StageConfiguration stores format-specific flags as a JSON column.
type StageConfiguration struct {
	AdvancingTeamCount     int    `json:"advancing_team_count,omitempty"`
	AdvancingTeamsPerGroup int    `json:"advancing_teams_per_group,omitempty"`
	HasThirdPlace          bool   `json:"has_third_place,omitempty"`
	GroupSchedulingMode    string `json:"group_scheduling_mode,omitempty"`
	NumGroups              int    `json:"num_groups,omitempty"`
}

func (c *StageConfiguration) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StageConfiguration", value)
	}
	return json.Unmarshal(bytes, c)
}

func (c StageConfiguration) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Group belongs to one stage and holds its team assignments.
type Group struct {
	ID             string    `json:"id" db:"id"`
	StageID        string    `json:"stage_id" db:"stage_id"`
	Name           string    `json:"name" db:"name"`
	Order          int       `json:"order" db:"ord"`
	RoundRobinType string    `json:"round_robin_type" db:"round_robin_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	Teams []*GroupTeam `json:"teams,omitempty"`
}

// GroupTeam assigns a confirmed registration to a group with a seed.
type GroupTeam struct {
	GroupID        string `json:"group_id" db:"group_id"`
	RegistrationID string `json:"registration_id" db:"registration_id"`
	SeedPosition   *int   `json:"seed_position,omitempty" db:"seed_position"`
	TeamName       string `json:"team_name" db:"team_name"`
}
