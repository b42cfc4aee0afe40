package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocated(t *testing.T, tempID, home, away, pitch, start, end string, deps ...string) AllocatedMatch {
	t.Helper()
	m := AllocatedMatch{
		GeneratedMatch: GeneratedMatch{
			TempID:    tempID,
			StageID:   "s1",
			DependsOn: deps,
		},
		PitchID:            pitch,
		ScheduledStartTime: at(t, start),
		ScheduledEndTime:   at(t, end),
	}
	if home != "" {
		m.HomeRegistrationID = strPtr(home)
	}
	if away != "" {
		m.AwayRegistrationID = strPtr(away)
	}
	return m
}

func violationsOfType(violations []Violation, vt ViolationType) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Type == vt {
			out = append(out, v)
		}
	}
	return out
}

func TestValidateRestTime(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		// A rests only 10 minutes: below the 15 minute minimum.
		allocated(t, "m2", "A", "C", "p1", "10:40", "11:10"),
		// B rests 25 minutes: above minimum, below the 30 minute preference.
		allocated(t, "m3", "B", "D", "p2", "10:55", "11:25"),
	}

	result := ValidateSchedule(matches, DefaultValidateOptions())
	assert.False(t, result.Valid)

	rest := violationsOfType(result.Violations, ViolationRestTime)
	require.Len(t, rest, 2)

	var errors, warnings int
	for _, v := range rest {
		switch v.Severity {
		case SeverityError:
			errors++
			assert.Equal(t, "m2", v.MatchID)
		case SeverityWarning:
			warnings++
			assert.Equal(t, "m3", v.MatchID)
		}
	}
	assert.Equal(t, 1, errors)
	assert.Equal(t, 1, warnings)
}

func TestValidateRestTimeMonotone(t *testing.T) {
	// Raising the minimum never removes a violation and never turns an
	// error into a warning.
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		allocated(t, "m2", "A", "C", "p1", "10:50", "11:20"),
	}

	countBySeverity := func(min int) (errors, warnings int) {
		preferred := 60
		result := ValidateSchedule(matches, ValidateOptions{
			RestTime:             RestTimeOptions{MinimumRestMinutes: min, PreferredRestMinutes: &preferred},
			ValidateMissingTeams: true,
		})
		for _, v := range violationsOfType(result.Violations, ViolationRestTime) {
			if v.Severity == SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		return errors, warnings
	}

	prevTotal, prevErrors := 0, 0
	for _, min := range []int{5, 15, 25, 45} {
		errors, warnings := countBySeverity(min)
		assert.GreaterOrEqual(t, errors+warnings, prevTotal, "min=%d", min)
		assert.GreaterOrEqual(t, errors, prevErrors, "min=%d", min)
		prevTotal, prevErrors = errors+warnings, errors
	}
}

func TestValidatePitchConflict(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		allocated(t, "m2", "C", "D", "p1", "10:15", "10:45"),
	}

	result := ValidateSchedule(matches, DefaultValidateOptions())
	conflicts := violationsOfType(result.Violations, ViolationPitchConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, SeverityError, conflicts[0].Severity)
	assert.False(t, result.Valid)
}

func TestValidateDependencyOrdering(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		// Starts before its dependency ends.
		allocated(t, "m2", "", "", "p2", "10:20", "10:50", "m1"),
		// Unknown dependency: warning.
		allocated(t, "m3", "", "", "p1", "11:00", "11:30", "ghost"),
		// Synthetic bye reference: ignored.
		allocated(t, "m4", "", "", "p2", "11:00", "11:30", "BYE-1"),
	}

	result := ValidateSchedule(matches, ValidateOptions{
		RestTime: RestTimeOptions{MinimumRestMinutes: 0},
	})
	deps := violationsOfType(result.Violations, ViolationDependency)
	require.Len(t, deps, 2)

	bySeverity := map[Severity]string{}
	for _, v := range deps {
		bySeverity[v.Severity] = v.MatchID
	}
	assert.Equal(t, "m2", bySeverity[SeverityError])
	assert.Equal(t, "m3", bySeverity[SeverityWarning])
}

func TestValidateMissingTeam(t *testing.T) {
	matches := []AllocatedMatch{
		// No dependencies and a missing away team: error.
		allocated(t, "m1", "A", "", "p1", "10:00", "10:30"),
		// Dependencies present: empty slots are fine pre-resolution.
		allocated(t, "m2", "", "", "p1", "11:00", "11:30", "m1"),
	}

	result := ValidateSchedule(matches, DefaultValidateOptions())
	missing := violationsOfType(result.Violations, ViolationMissingTeam)
	require.Len(t, missing, 1)
	assert.Equal(t, "m1", missing[0].MatchID)

	// And the check can be switched off for knockout-heavy schedules.
	off := ValidateSchedule(matches, ValidateOptions{
		RestTime: RestTimeOptions{MinimumRestMinutes: 0},
	})
	assert.Empty(t, violationsOfType(off.Violations, ViolationMissingTeam))
}

func TestValidateCleanSchedule(t *testing.T) {
	matches := []AllocatedMatch{
		allocated(t, "m1", "A", "B", "p1", "10:00", "10:30"),
		allocated(t, "m2", "C", "D", "p1", "10:35", "11:05"),
		allocated(t, "m3", "A", "C", "p2", "11:10", "11:40", "m1", "m2"),
	}

	result := ValidateSchedule(matches, ValidateOptions{
		RestTime:             RestTimeOptions{MinimumRestMinutes: 5},
		ValidateMissingTeams: true,
	})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}
