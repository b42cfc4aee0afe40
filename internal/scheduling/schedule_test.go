package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullPipelineGroupsIntoKnockout runs the whole engine over a two-stage
// tournament: two round-robin groups feeding a seeded knockout.
func TestFullPipelineGroupsIntoKnockout(t *testing.T) {
	stages := ResolveIncomingSlots([]StageConfig{
		{
			ID:    "s1",
			Name:  "Group Stage",
			Order: 1,
			Type:  StageGroup,
			Groups: []GroupConfig{
				{ID: "gA", Name: "Group A", Order: 1, RoundRobinType: RoundRobinSingle, Teams: seededTeams("A", 4)},
				{ID: "gB", Name: "Group B", Order: 2, RoundRobinType: RoundRobinSingle, Teams: seededTeams("B", 4)},
			},
		},
		{
			ID:                 "s2",
			Name:               "Knockout",
			Order:              2,
			Type:               StageKnockout,
			BufferTimeMinutes:  20,
			AdvancingTeamCount: 4,
			HasThirdPlace:      true,
		},
	})

	matches, violations := Generate(stages)
	require.Empty(t, violations)
	// 6 matches per group, then semifinals, final and third place.
	assert.Len(t, matches, 16)

	timing := Timing{
		StartTime:             at(t, "09:00"),
		MatchDurationMinutes:  15,
		TransitionTimeMinutes: 5,
		Pitches: []Pitch{
			{ID: "p1", Name: "Pitch 1", AvailableFrom: at(t, "08:00"), AvailableTo: at(t, "22:00")},
			{ID: "p2", Name: "Pitch 2", AvailableFrom: at(t, "08:00"), AvailableTo: at(t, "22:00")},
		},
	}
	result := Allocate(matches, stages, timing)
	require.Empty(t, result.Errors)
	require.Empty(t, result.Unallocated)
	require.Len(t, result.Matches, 16)

	// Knockout placeholders have no teams yet, so missing-team detection
	// is off; everything else must hold.
	opts := DefaultValidateOptions()
	opts.ValidateMissingTeams = false
	opts.RestTime.MinimumRestMinutes = 5
	preferred := 10
	opts.RestTime.PreferredRestMinutes = &preferred
	validation := ValidateSchedule(result.Matches, opts)
	for _, v := range validation.Violations {
		assert.NotEqual(t, SeverityError, v.Severity, "unexpected error violation: %+v", v)
	}

	// Stage ordering: every group match ends before any knockout match
	// starts, with the buffer in between.
	var lastGroupEnd, firstKnockoutStart time.Time
	for _, m := range result.Matches {
		if m.StageID == "s1" && m.ScheduledEndTime.After(lastGroupEnd) {
			lastGroupEnd = m.ScheduledEndTime
		}
		if m.StageID == "s2" && (firstKnockoutStart.IsZero() || m.ScheduledStartTime.Before(firstKnockoutStart)) {
			firstKnockoutStart = m.ScheduledStartTime
		}
	}
	assert.False(t, firstKnockoutStart.Before(lastGroupEnd.Add(20*time.Minute)))

	// The semifinals reference the cross-seeded group positions.
	byTempID := allocatedByTempID(result)
	sf1 := byTempID["s2-SF1"]
	assert.Equal(t, "Group A 1st", *sf1.HomeSource)
	assert.Equal(t, "Group B 2nd", *sf1.AwaySource)

	stats := ComputeStats(result.Matches, timing.Pitches)
	assert.Equal(t, 16, stats.TotalMatches)
	assert.Greater(t, stats.TotalDurationMinutes, 0)
	assert.Contains(t, stats.PitchUtilization, "p1")
	assert.Contains(t, stats.PitchUtilization, "p2")
}

// TestPreBookedPitchOverlapFlagged feeds the validator a schedule whose
// externally edited matches overlap on one pitch.
func TestPreBookedPitchOverlapFlagged(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "x1", "A", "B", "p1", "10:00", "10:30"),
		allocated(t, "x2", "C", "D", "p1", "10:20", "10:50"),
		allocated(t, "x3", "A", "C", "p2", "11:30", "12:00"),
	}

	result := ValidateSchedule(matches, DefaultValidateOptions())
	assert.False(t, result.Valid)
	conflicts := violationsOfType(result.Violations, ViolationPitchConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "p1", conflicts[0].Details["pitch_id"])
}

func TestComputeStatsEmptySchedule(t *testing.T) {
	stats := ComputeStats(nil, []Pitch{{ID: "p1"}})
	assert.Equal(t, 0, stats.TotalMatches)
	assert.Equal(t, 0, stats.TotalDurationMinutes)
	assert.Equal(t, 0.0, stats.PitchUtilization["p1"])
	assert.Equal(t, 0.0, stats.AverageRestMinutes)
}

func TestComputeStatsUtilization(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		allocated(t, "m2", "C", "D", "p1", "10:30", "11:00"),
		allocated(t, "m3", "A", "C", "p2", "11:00", "11:30"),
	}
	pitches := []Pitch{{ID: "p1"}, {ID: "p2"}}

	stats := ComputeStats(matches, pitches)
	assert.Equal(t, 3, stats.TotalMatches)
	// Span 10:00 to 11:30 = 90 minutes; p1 busy 60, p2 busy 30.
	assert.Equal(t, 90, stats.TotalDurationMinutes)
	assert.InDelta(t, 66.7, stats.PitchUtilization["p1"], 0.1)
	assert.InDelta(t, 33.3, stats.PitchUtilization["p2"], 0.1)
	// A rests 30 minutes (10:30 to 11:00), C rests 0 (11:00 after 11:00).
	assert.InDelta(t, 15.0, stats.AverageRestMinutes, 0.1)
}
