// internal/scheduling/validator.go
// Constraint validation over an allocated schedule: per-team rest time,
// pitch overlap, dependency ordering, and missing-team detection. A
// schedule is valid iff no error-severity violation is found.

package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultMinimumRestMinutes is the hard lower bound on rest between two
	// matches of the same team.
	DefaultMinimumRestMinutes = 15
	// DefaultPreferredRestMinutes is the soft bound below which a warning
	// is raised.
	DefaultPreferredRestMinutes = 30
)

// RestTimeOptions bounds the rest a team gets between consecutive matches.
type RestTimeOptions struct {
	MinimumRestMinutes   int
	PreferredRestMinutes *int
}

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	RestTime             RestTimeOptions
	ValidateMissingTeams bool
}

// DefaultValidateOptions returns the standard 15/30 minute rest bounds with
// missing-team detection on.
func DefaultValidateOptions() ValidateOptions {
	preferred := DefaultPreferredRestMinutes
	return ValidateOptions{
		RestTime: RestTimeOptions{
			MinimumRestMinutes:   DefaultMinimumRestMinutes,
			PreferredRestMinutes: &preferred,
		},
		ValidateMissingTeams: true,
	}
}

// ValidationResult is the validator's verdict.
type ValidationResult struct {
	Valid      bool
	Violations []Violation
}

// ValidateSchedule runs every check over the allocated matches.
func ValidateSchedule(matches []AllocatedMatch, opts ValidateOptions) ValidationResult {
	var violations []Violation
	violations = append(violations, checkRestTimes(matches, opts.RestTime)...)
	violations = append(violations, checkPitchConflicts(matches)...)
	violations = append(violations, checkDependencyOrdering(matches)...)
	if opts.ValidateMissingTeams {
		violations = append(violations, checkMissingTeams(matches)...)
	}
	return ValidationResult{Valid: !HasErrors(violations), Violations: violations}
}

// checkRestTimes verifies every team's gap between consecutive matches.
func checkRestTimes(matches []AllocatedMatch, opts RestTimeOptions) []Violation {
	byTeam := make(map[string][]AllocatedMatch)
	for _, m := range matches {
		if m.HomeRegistrationID != nil {
			byTeam[*m.HomeRegistrationID] = append(byTeam[*m.HomeRegistrationID], m)
		}
		if m.AwayRegistrationID != nil {
			byTeam[*m.AwayRegistrationID] = append(byTeam[*m.AwayRegistrationID], m)
		}
	}

	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var violations []Violation
	for _, team := range teams {
		teamMatches := byTeam[team]
		sort.Slice(teamMatches, func(i, j int) bool {
			return teamMatches[i].ScheduledStartTime.Before(teamMatches[j].ScheduledStartTime)
		})
		for i := 1; i < len(teamMatches); i++ {
			prev, next := teamMatches[i-1], teamMatches[i]
			rest := next.ScheduledStartTime.Sub(prev.ScheduledEndTime)
			restMinutes := int(rest / time.Minute)

			details := map[string]interface{}{
				"registration_id": team,
				"rest_minutes":    restMinutes,
				"previous_match":  prev.TempID,
				"next_match":      next.TempID,
			}

			if restMinutes < opts.MinimumRestMinutes {
				violations = append(violations, Violation{
					Type:     ViolationRestTime,
					Severity: SeverityError,
					Message:  fmt.Sprintf("team %s has only %d minutes rest before match %s (minimum %d)", team, restMinutes, next.TempID, opts.MinimumRestMinutes),
					MatchID:  next.TempID,
					Details:  details,
				})
			} else if opts.PreferredRestMinutes != nil && restMinutes < *opts.PreferredRestMinutes {
				violations = append(violations, Violation{
					Type:     ViolationRestTime,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("team %s has %d minutes rest before match %s (preferred %d)", team, restMinutes, next.TempID, *opts.PreferredRestMinutes),
					MatchID:  next.TempID,
					Details:  details,
				})
			}
		}
	}
	return violations
}

// checkPitchConflicts flags any raw time overlap on a pitch. The transition
// gap is the allocator's job; an overlap here means external edits or a bug.
func checkPitchConflicts(matches []AllocatedMatch) []Violation {
	byPitch := make(map[string][]AllocatedMatch)
	for _, m := range matches {
		byPitch[m.PitchID] = append(byPitch[m.PitchID], m)
	}

	pitchIDs := make([]string, 0, len(byPitch))
	for id := range byPitch {
		pitchIDs = append(pitchIDs, id)
	}
	sort.Strings(pitchIDs)

	var violations []Violation
	for _, pitchID := range pitchIDs {
		pitchMatches := byPitch[pitchID]
		sort.Slice(pitchMatches, func(i, j int) bool {
			return pitchMatches[i].ScheduledStartTime.Before(pitchMatches[j].ScheduledStartTime)
		})
		for i := 1; i < len(pitchMatches); i++ {
			prev, next := pitchMatches[i-1], pitchMatches[i]
			if prev.ScheduledEndTime.After(next.ScheduledStartTime) {
				violations = append(violations, Violation{
					Type:     ViolationPitchConflict,
					Severity: SeverityError,
					Message:  fmt.Sprintf("matches %s and %s overlap on pitch %s", prev.TempID, next.TempID, pitchID),
					MatchID:  next.TempID,
					Details: map[string]interface{}{
						"pitch_id":       pitchID,
						"previous_match": prev.TempID,
						"next_match":     next.TempID,
					},
				})
			}
		}
	}
	return violations
}

// checkDependencyOrdering verifies every dependency ends before its
// dependent starts. An unknown dependency is a warning unless it is a
// synthetic bye reference.
func checkDependencyOrdering(matches []AllocatedMatch) []Violation {
	byTempID := make(map[string]AllocatedMatch, len(matches))
	for _, m := range matches {
		byTempID[m.TempID] = m
	}

	var violations []Violation
	for _, m := range matches {
		for _, dep := range m.DependsOn {
			d, ok := byTempID[dep]
			if !ok {
				if strings.HasPrefix(dep, "BYE-") {
					continue
				}
				violations = append(violations, Violation{
					Type:     ViolationDependency,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("match %s depends on unknown match %s", m.TempID, dep),
					MatchID:  m.TempID,
					Details:  map[string]interface{}{"depends_on": dep},
				})
				continue
			}
			if d.ScheduledEndTime.After(m.ScheduledStartTime) {
				violations = append(violations, Violation{
					Type:     ViolationDependency,
					Severity: SeverityError,
					Message:  fmt.Sprintf("match %s starts before its dependency %s ends", m.TempID, dep),
					MatchID:  m.TempID,
					Details:  map[string]interface{}{"depends_on": dep},
				})
			}
		}
	}
	return violations
}

// checkMissingTeams flags matches with no dependencies and an empty team
// slot. Matches with dependencies legitimately hold null slots until their
// upstream results resolve.
func checkMissingTeams(matches []AllocatedMatch) []Violation {
	var violations []Violation
	for _, m := range matches {
		if len(m.DependsOn) > 0 {
			continue
		}
		if m.HomeRegistrationID == nil || m.AwayRegistrationID == nil {
			violations = append(violations, Violation{
				Type:     ViolationMissingTeam,
				Severity: SeverityError,
				Message:  fmt.Sprintf("match %s is missing a team assignment", m.TempID),
				MatchID:  m.TempID,
				Details: map[string]interface{}{
					"home_missing": m.HomeRegistrationID == nil,
					"away_missing": m.AwayRegistrationID == nil,
				},
			})
		}
	}
	return violations
}
