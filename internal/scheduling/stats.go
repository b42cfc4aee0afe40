// internal/scheduling/stats.go

package scheduling

import (
	"sort"
	"time"
)

// ScheduleStats summarises an allocated schedule for the API response.
type ScheduleStats struct {
	TotalMatches         int                `json:"total_matches"`
	TotalDurationMinutes int                `json:"total_duration_minutes"`
	PitchUtilization     map[string]float64 `json:"pitch_utilization"`
	AverageRestMinutes   float64            `json:"average_rest_minutes"`
}

// ComputeStats derives the schedule summary: total span from first kickoff
// to last final whistle, per-pitch busy share of that span, and the average
// rest teams get between consecutive matches.
func ComputeStats(matches []AllocatedMatch, pitches []Pitch) ScheduleStats {
	stats := ScheduleStats{
		TotalMatches:     len(matches),
		PitchUtilization: make(map[string]float64, len(pitches)),
	}
	for _, p := range pitches {
		stats.PitchUtilization[p.ID] = 0
	}
	if len(matches) == 0 {
		return stats
	}

	first, last := matches[0].ScheduledStartTime, matches[0].ScheduledEndTime
	busy := make(map[string]time.Duration)
	for _, m := range matches {
		if m.ScheduledStartTime.Before(first) {
			first = m.ScheduledStartTime
		}
		if m.ScheduledEndTime.After(last) {
			last = m.ScheduledEndTime
		}
		busy[m.PitchID] += m.ScheduledEndTime.Sub(m.ScheduledStartTime)
	}

	span := last.Sub(first)
	stats.TotalDurationMinutes = int(span / time.Minute)
	if span > 0 {
		for pitchID, d := range busy {
			stats.PitchUtilization[pitchID] = float64(d) / float64(span) * 100
		}
	}

	stats.AverageRestMinutes = averageRest(matches)
	return stats
}

// averageRest computes the mean rest gap over every consecutive pair of
// matches per team.
func averageRest(matches []AllocatedMatch) float64 {
	byTeam := make(map[string][]AllocatedMatch)
	for _, m := range matches {
		if m.HomeRegistrationID != nil {
			byTeam[*m.HomeRegistrationID] = append(byTeam[*m.HomeRegistrationID], m)
		}
		if m.AwayRegistrationID != nil {
			byTeam[*m.AwayRegistrationID] = append(byTeam[*m.AwayRegistrationID], m)
		}
	}

	var total time.Duration
	var gaps int
	for _, teamMatches := range byTeam {
		sort.Slice(teamMatches, func(i, j int) bool {
			return teamMatches[i].ScheduledStartTime.Before(teamMatches[j].ScheduledStartTime)
		})
		for i := 1; i < len(teamMatches); i++ {
			total += teamMatches[i].ScheduledStartTime.Sub(teamMatches[i-1].ScheduledEndTime)
			gaps++
		}
	}
	if gaps == 0 {
		return 0
	}
	return float64(total/time.Minute) / float64(gaps)
}
