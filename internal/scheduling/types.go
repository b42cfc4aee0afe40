// internal/scheduling/types.go
// Input and output shapes for the scheduling engine. The engine is pure over
// these structs: storage adapters build StageConfig/Timing values, and the
// generator/allocator/validator never touch a database or the clock.

package scheduling

import "time"

// StageType identifies the bracket format of a stage.
type StageType string

const (
	StageGroup             StageType = "GROUP_STAGE"
	StageGSLGroups         StageType = "GSL_GROUPS"
	StageRoundRobin        StageType = "ROUND_ROBIN"
	StageKnockout          StageType = "KNOCKOUT"
	StageDoubleElimination StageType = "DOUBLE_ELIMINATION"
	StageFinal             StageType = "FINAL"
)

// IsGroupStage reports whether the stage type produces group standings.
func (t StageType) IsGroupStage() bool {
	return t == StageGroup || t == StageGSLGroups || t == StageRoundRobin
}

// IsKnockoutStage reports whether the stage type uses bracket progression.
func (t StageType) IsKnockoutStage() bool {
	return t == StageKnockout || t == StageDoubleElimination || t == StageFinal
}

// RoundRobinType selects single or double (home and away) round robin.
type RoundRobinType string

const (
	RoundRobinSingle RoundRobinType = "SINGLE"
	RoundRobinDouble RoundRobinType = "DOUBLE"
)

// SchedulingMode controls how a stage's groups share pitch time.
type SchedulingMode string

const (
	// ModeSequential plays all of one group's matches before the next group.
	ModeSequential SchedulingMode = "sequential"
	// ModeInterleaved mixes matches of the same round across groups.
	ModeInterleaved SchedulingMode = "interleaved"
)

// BracketType distinguishes the two halves of a double-elimination stage.
type BracketType string

const (
	BracketWinners BracketType = "winners"
	BracketLosers  BracketType = "losers"
)

// TeamSlot is a concrete team reference inside a group or stage.
type TeamSlot struct {
	RegistrationID string
	SeedPosition   *int
	TeamName       string
}

// IncomingTeamSlot is a placeholder for a team produced by a prior stage.
// SourceLabel is human readable and parseable, e.g. "Group A 1st" or
// "Group B Winner". RegistrationID is set once the source stage resolves.
type IncomingTeamSlot struct {
	SeedPosition   int
	SourceLabel    string
	RegistrationID *string
}

// GroupConfig describes one group of a group-style stage. Exactly one of
// Teams or Incoming is normally populated; a group fed by a previous group
// stage carries Incoming placeholders until advancement resolves them.
type GroupConfig struct {
	ID             string
	Name           string
	Order          int
	RoundRobinType RoundRobinType
	Teams          []TeamSlot
	Incoming       []IncomingTeamSlot
}

// StageConfig is the generator's per-stage input.
type StageConfig struct {
	ID                string
	Name              string
	Order             int
	Type              StageType
	BufferTimeMinutes int
	SchedulingMode    SchedulingMode

	Groups []GroupConfig

	// Teams holds direct entrants for knockout-style stages that are seeded
	// explicitly rather than fed by a prior stage.
	Teams []TeamSlot
	// IncomingSlots holds placeholder entrants for knockout-style stages
	// fed by a prior stage.
	IncomingSlots []IncomingTeamSlot

	AdvancingTeamsPerGroup int
	AdvancingTeamCount     int
	HasThirdPlace          bool
}

// GeneratedMatch is one node of the unscheduled match DAG.
type GeneratedMatch struct {
	TempID             string   `json:"temp_id"`
	StageID            string   `json:"stage_id"`
	GroupID            *string  `json:"group_id,omitempty"`
	HomeRegistrationID *string  `json:"home_registration_id,omitempty"`
	AwayRegistrationID *string  `json:"away_registration_id,omitempty"`
	MatchNumber        int      `json:"match_number"`
	RoundNumber        int      `json:"round_number"`
	BracketPosition    *string  `json:"bracket_position,omitempty"`
	DependsOn          []string `json:"depends_on,omitempty"`

	HomeSource   *string     `json:"home_source,omitempty"`
	AwaySource   *string     `json:"away_source,omitempty"`
	IsDecider    bool        `json:"is_decider,omitempty"`
	IsThirdPlace bool        `json:"is_third_place,omitempty"`
	BracketType  BracketType `json:"bracket_type,omitempty"`
}

// AllocatedMatch is a generated match with pitch and time assigned.
type AllocatedMatch struct {
	GeneratedMatch
	PitchID            string    `json:"pitch_id"`
	ScheduledStartTime time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   time.Time `json:"scheduled_end_time"`
}

// TimeSlot is an occupied interval on a pitch.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Pitch is a playing field with an availability window. Scheduled holds
// slots already taken before allocation starts (external bookings).
type Pitch struct {
	ID            string
	Name          string
	AvailableFrom time.Time
	AvailableTo   time.Time
	Scheduled     []TimeSlot
}

// Timing carries the tournament-wide scheduling parameters.
type Timing struct {
	StartTime             time.Time
	MatchDurationMinutes  int
	TransitionTimeMinutes int
	Pitches               []Pitch
}

// Severity grades a violation. Errors block a schedule; warnings inform.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ViolationType classifies constraint violations.
type ViolationType string

const (
	ViolationRestTime      ViolationType = "REST_TIME"
	ViolationDependency    ViolationType = "DEPENDENCY"
	ViolationPitchConflict ViolationType = "PITCH_CONFLICT"
	ViolationTimeOverlap   ViolationType = "TIME_OVERLAP"
	ViolationMissingTeam   ViolationType = "MISSING_TEAM"
)

// Violation is a structured constraint failure.
type Violation struct {
	Type     ViolationType          `json:"type"`
	Severity Severity               `json:"severity"`
	Message  string                 `json:"message"`
	MatchID  string                 `json:"match_id,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// HasErrors reports whether any violation in the slice has error severity.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}
