// internal/models/match.go
// Match and result models

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Match is one scheduled fixture. Team slots stay null on bracket matches
// until the upstream results resolve; DependsOn carries the generation-time
// tempIds of the matches that must finish first.
type Match struct {
	ID                 string      `json:"id" db:"id"`
	TournamentID       string      `json:"tournament_id" db:"tournament_id"`
	StageID            string      `json:"stage_id" db:"stage_id"`
	GroupID            *string     `json:"group_id,omitempty" db:"group_id"`
	TempID             string      `json:"temp_id" db:"temp_id"`
	RoundNumber        int         `json:"round_number" db:"round_number"`
	MatchNumber        int         `json:"match_number" db:"match_number"`
	BracketPosition    *string     `json:"bracket_position,omitempty" db:"bracket_position"`
	BracketType        *string     `json:"bracket_type,omitempty" db:"bracket_type"`
	IsThirdPlace       bool        `json:"is_third_place" db:"is_third_place"`
	IsDecider          bool        `json:"is_decider" db:"is_decider"`
	HomeRegistrationID *string     `json:"home_registration_id,omitempty" db:"home_registration_id"`
	AwayRegistrationID *string     `json:"away_registration_id,omitempty" db:"away_registration_id"`
	HomeTeamSource     *string     `json:"home_team_source,omitempty" db:"home_team_source"`
	AwayTeamSource     *string     `json:"away_team_source,omitempty" db:"away_team_source"`
	HomeScore          *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore          *int        `json:"away_score,omitempty" db:"away_score"`
	HomePenalties      *int        `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPenalties      *int        `json:"away_penalties,omitempty" db:"away_penalties"`
	Status             MatchStatus `json:"status" db:"status"`
	PitchID            *string     `json:"pitch_id,omitempty" db:"pitch_id"`
	ScheduledStartTime *time.Time  `json:"scheduled_start_time,omitempty" db:"scheduled_start_time"`
	ScheduledEndTime   *time.Time  `json:"scheduled_end_time,omitempty" db:"scheduled_end_time"`
	DependsOn          StringList  `json:"depends_on,omitempty" db:"depends_on"`
	Notes              *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// HasResult reports whether a score has been entered.
func (m *Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// MatchStatus represents the current state of a match.
type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

// StringList stores a list of strings as a JSON column.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(bytes, l)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// MatchResult is the payload of a result entry.
type MatchResult struct {
	MatchID       string  `json:"match_id"`
	HomeScore     int     `json:"home_score"`
	AwayScore     int     `json:"away_score"`
	HomePenalties *int    `json:"home_penalties,omitempty"`
	AwayPenalties *int    `json:"away_penalties,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}
