// internal/scheduling/allocator.go
// Greedy dependency-aware time allocation. Stages are processed in order;
// within a stage, matches are sorted by the stage's scheduling mode and
// placed on the earliest feasible pitch slot. Matches whose dependencies
// are not yet allocated are deferred to a second pass; anything still
// unresolved after that is reported as a dependency error.

package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// AllocationResult is the allocator's output: scheduled matches, matches
// that could not be placed, and the violations explaining why.
type AllocationResult struct {
	Matches     []AllocatedMatch
	Unallocated []GeneratedMatch
	Errors      []Violation
}

// pitchState is the allocator's mutable copy of a pitch.
type pitchState struct {
	Pitch
	slots []TimeSlot // sorted by start
}

// allocator carries the shared state of one allocation run.
type allocator struct {
	timing     Timing
	pitches    []*pitchState
	byTempID   map[string]AllocatedMatch
	firstMatch bool
	result     AllocationResult
}

// Allocate assigns a pitch and start/end time to every match it can place.
func Allocate(matches []GeneratedMatch, stages []StageConfig, timing Timing) AllocationResult {
	a := &allocator{
		timing:     timing,
		byTempID:   make(map[string]AllocatedMatch, len(matches)),
		firstMatch: true,
	}

	if len(timing.Pitches) == 0 {
		a.result.Errors = append(a.result.Errors, Violation{
			Type:     ViolationTimeOverlap,
			Severity: SeverityError,
			Message:  "no pitches available for allocation",
		})
		a.result.Unallocated = append(a.result.Unallocated, matches...)
		return a.result
	}

	for i := range timing.Pitches {
		p := timing.Pitches[i]
		slots := make([]TimeSlot, len(p.Scheduled))
		copy(slots, p.Scheduled)
		sort.Slice(slots, func(x, y int) bool { return slots[x].Start.Before(slots[y].Start) })
		a.pitches = append(a.pitches, &pitchState{Pitch: p, slots: slots})
	}
	sort.Slice(a.pitches, func(x, y int) bool { return a.pitches[x].ID < a.pitches[y].ID })

	ordered := make([]StageConfig, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	byStage := make(map[string][]GeneratedMatch)
	for _, m := range matches {
		byStage[m.StageID] = append(byStage[m.StageID], m)
	}

	stageStart := timing.StartTime
	var latestEnd time.Time

	for i := range ordered {
		stage := &ordered[i]
		stageMatches := byStage[stage.ID]
		if len(stageMatches) == 0 {
			continue
		}

		if !latestEnd.IsZero() {
			if latestEnd.After(stageStart) {
				stageStart = latestEnd
			}
			stageStart = stageStart.Add(time.Duration(stage.BufferTimeMinutes) * time.Minute)
		}

		sortForAllocation(stageMatches, stage.SchedulingMode)
		a.allocateStage(stage, stageMatches, stageStart)

		for _, m := range a.result.Matches {
			if m.StageID == stage.ID && m.ScheduledEndTime.After(latestEnd) {
				latestEnd = m.ScheduledEndTime
			}
		}
	}

	return a.result
}

// allocateStage places one stage's matches in two passes: first those whose
// dependencies are already satisfied, then the deferred remainder.
func (a *allocator) allocateStage(stage *StageConfig, matches []GeneratedMatch, stageStart time.Time) {
	buffer := time.Duration(stage.BufferTimeMinutes) * time.Minute
	sequential := stage.SchedulingMode == ModeSequential

	groupBase := make(map[string]time.Time)
	groupLatestEnd := make(map[string]time.Time)
	var currentGroup string

	baseFor := func(m GeneratedMatch) time.Time {
		if sequential && m.GroupID != nil {
			if b, ok := groupBase[*m.GroupID]; ok {
				return b
			}
		}
		return stageStart
	}

	var deferred []GeneratedMatch

	for _, m := range matches {
		if sequential && m.GroupID != nil {
			if _, seen := groupBase[*m.GroupID]; !seen {
				// Each subsequent group starts a buffer after the previous
				// group's last match.
				start := stageStart
				if currentGroup != "" {
					start = groupLatestEnd[currentGroup].Add(buffer)
				}
				groupBase[*m.GroupID] = start
			}
			currentGroup = *m.GroupID
		}

		if !a.depsAllocated(m) {
			deferred = append(deferred, m)
			continue
		}

		if placed, ok := a.place(m, baseFor(m)); ok && m.GroupID != nil {
			if placed.ScheduledEndTime.After(groupLatestEnd[*m.GroupID]) {
				groupLatestEnd[*m.GroupID] = placed.ScheduledEndTime
			}
		}
	}

	// Second pass: dependencies may have been satisfied by the first pass.
	for _, m := range deferred {
		if !a.depsAllocated(m) {
			a.result.Unallocated = append(a.result.Unallocated, m)
			a.result.Errors = append(a.result.Errors, Violation{
				Type:     ViolationDependency,
				Severity: SeverityError,
				Message:  fmt.Sprintf("match %s depends on unallocated matches", m.TempID),
				MatchID:  m.TempID,
				Details:  map[string]interface{}{"depends_on": m.DependsOn, "reason": "DEPENDENCY_UNMET"},
			})
			continue
		}
		if placed, ok := a.place(m, baseFor(m)); ok && m.GroupID != nil {
			if placed.ScheduledEndTime.After(groupLatestEnd[*m.GroupID]) {
				groupLatestEnd[*m.GroupID] = placed.ScheduledEndTime
			}
		}
	}
}

// depsAllocated reports whether every dependency of m has been placed.
func (a *allocator) depsAllocated(m GeneratedMatch) bool {
	for _, dep := range m.DependsOn {
		if _, ok := a.byTempID[dep]; !ok {
			return false
		}
	}
	return true
}

// place finds the earliest feasible pitch slot at or after the match's
// earliest allowed start and records the allocation.
func (a *allocator) place(m GeneratedMatch, base time.Time) (*AllocatedMatch, bool) {
	duration := time.Duration(a.timing.MatchDurationMinutes) * time.Minute
	transition := time.Duration(a.timing.TransitionTimeMinutes) * time.Minute

	earliest := base
	for _, dep := range m.DependsOn {
		if d, ok := a.byTempID[dep]; ok && d.ScheduledEndTime.After(earliest) {
			earliest = d.ScheduledEndTime
		}
	}

	searchFrom := earliest
	if !a.firstMatch {
		searchFrom = earliest.Add(transition)
	}

	var best *pitchState
	var bestStart time.Time
	for _, p := range a.pitches {
		start, ok := p.earliestFit(searchFrom, duration, transition)
		if !ok {
			continue
		}
		if best == nil || start.Before(bestStart) {
			best, bestStart = p, start
		}
	}

	if best == nil {
		a.result.Unallocated = append(a.result.Unallocated, m)
		a.result.Errors = append(a.result.Errors, Violation{
			Type:     ViolationTimeOverlap,
			Severity: SeverityError,
			Message:  fmt.Sprintf("no pitch can host match %s within its availability window", m.TempID),
			MatchID:  m.TempID,
		})
		return nil, false
	}

	allocated := AllocatedMatch{
		GeneratedMatch:     m,
		PitchID:            best.ID,
		ScheduledStartTime: bestStart,
		ScheduledEndTime:   bestStart.Add(duration),
	}
	best.insertSlot(TimeSlot{Start: allocated.ScheduledStartTime, End: allocated.ScheduledEndTime})
	a.result.Matches = append(a.result.Matches, allocated)
	a.byTempID[m.TempID] = allocated
	a.firstMatch = false
	return &allocated, true
}

// earliestFit returns the earliest start >= from such that the match fits
// the pitch window and keeps the transition gap to every existing slot.
func (p *pitchState) earliestFit(from time.Time, duration, transition time.Duration) (time.Time, bool) {
	candidate := from
	if p.AvailableFrom.After(candidate) {
		candidate = p.AvailableFrom
	}

	for {
		if candidate.Add(duration).After(p.AvailableTo) {
			return time.Time{}, false
		}
		conflict := false
		for _, s := range p.slots {
			// Too late to finish (with transition) before this slot, and too
			// early to start after it: bump past the slot.
			if candidate.Add(duration + transition).After(s.Start) && candidate.Before(s.End.Add(transition)) {
				candidate = s.End.Add(transition)
				conflict = true
				break
			}
		}
		if !conflict {
			return candidate, true
		}
	}
}

// insertSlot keeps the pitch's slot list sorted by start time.
func (p *pitchState) insertSlot(slot TimeSlot) {
	idx := sort.Search(len(p.slots), func(i int) bool {
		return p.slots[i].Start.After(slot.Start)
	})
	p.slots = append(p.slots, TimeSlot{})
	copy(p.slots[idx+1:], p.slots[idx:])
	p.slots[idx] = slot
}

// sortForAllocation orders a stage's matches for the greedy pass.
// Interleaved: round, then group, then match number, so groups share pitch
// time round by round. Sequential: group, then round, then match number.
// A third-place match always sorts before the final of the same round.
func sortForAllocation(matches []GeneratedMatch, mode SchedulingMode) {
	groupKey := func(m GeneratedMatch) string {
		if m.GroupID != nil {
			return *m.GroupID
		}
		return ""
	}
	sort.SliceStable(matches, func(i, j int) bool {
		mi, mj := matches[i], matches[j]
		if mode == ModeSequential {
			if gi, gj := groupKey(mi), groupKey(mj); gi != gj {
				return gi < gj
			}
		}
		if mi.RoundNumber != mj.RoundNumber {
			return mi.RoundNumber < mj.RoundNumber
		}
		if mode != ModeSequential {
			if gi, gj := groupKey(mi), groupKey(mj); gi != gj {
				return gi < gj
			}
		}
		if mi.IsThirdPlace != mj.IsThirdPlace {
			return mi.IsThirdPlace
		}
		return mi.MatchNumber < mj.MatchNumber
	})
}
