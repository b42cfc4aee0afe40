// internal/scheduling/generator.go
// Match generation entry point. Dispatches each stage to its format-specific
// generator and guarantees deterministic ordering: stages by order, groups by
// order, teams by seed position (nils last, stable on insertion order).

package scheduling

import (
	"fmt"
	"sort"
)

// Generate produces the unscheduled match DAG for all stages. The returned
// matches are ordered by stage, then by match number within the stage.
// Infeasible stages (a GSL group without exactly four teams, an unknown
// stage type) contribute error violations and no matches.
func Generate(stages []StageConfig) ([]GeneratedMatch, []Violation) {
	ordered := make([]StageConfig, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	var matches []GeneratedMatch
	var violations []Violation

	for i := range ordered {
		stage := &ordered[i]
		counter := 0
		next := func() int {
			counter++
			return counter
		}

		var stageMatches []GeneratedMatch
		var stageViolations []Violation

		switch stage.Type {
		case StageGroup, StageRoundRobin:
			groups := sortedGroups(stage.Groups)
			if len(groups) == 0 && len(stage.Teams) > 0 {
				// A plain league: one implicit group over the stage entrants.
				groups = []GroupConfig{{
					ID:             stage.ID + "-main",
					Name:           stage.Name,
					Order:          1,
					RoundRobinType: RoundRobinSingle,
					Teams:          stage.Teams,
				}}
			}
			for _, group := range groups {
				stageMatches = append(stageMatches, generateRoundRobin(stage, group, next)...)
			}

		case StageGSLGroups:
			for _, group := range sortedGroups(stage.Groups) {
				gm, gv := generateGSL(stage, group, next)
				stageMatches = append(stageMatches, gm...)
				stageViolations = append(stageViolations, gv...)
			}

		case StageKnockout:
			stageMatches = generateKnockout(stage, next)

		case StageDoubleElimination:
			stageMatches = generateDoubleElimination(stage, next)

		case StageFinal:
			stageMatches = generateFinal(stage, next)

		default:
			stageViolations = append(stageViolations, Violation{
				Type:     ViolationMissingTeam,
				Severity: SeverityError,
				Message:  fmt.Sprintf("stage %q has unknown type %q", stage.Name, stage.Type),
				Details:  map[string]interface{}{"stage_id": stage.ID, "stage_type": string(stage.Type)},
			})
		}

		if HasErrors(stageViolations) {
			// An infeasible stage produces no matches at all.
			violations = append(violations, stageViolations...)
			continue
		}
		violations = append(violations, stageViolations...)
		matches = append(matches, stageMatches...)
	}

	if cycle := findCycle(matches); cycle != "" {
		violations = append(violations, Violation{
			Type:     ViolationDependency,
			Severity: SeverityError,
			Message:  fmt.Sprintf("dependency graph contains a cycle through %s", cycle),
			MatchID:  cycle,
		})
	}

	return matches, violations
}

// sortedGroups returns the stage's groups ordered by their order field.
func sortedGroups(groups []GroupConfig) []GroupConfig {
	out := make([]GroupConfig, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// sortTeamsBySeed orders teams by seed position, nils last, stable.
func sortTeamsBySeed(teams []TeamSlot) []TeamSlot {
	out := make([]TeamSlot, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].SeedPosition, out[j].SeedPosition
		switch {
		case si == nil && sj == nil:
			return false
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si < *sj
		}
	})
	return out
}

// sortIncomingBySeed orders incoming slots by their seed position.
func sortIncomingBySeed(slots []IncomingTeamSlot) []IncomingTeamSlot {
	out := make([]IncomingTeamSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SeedPosition < out[j].SeedPosition
	})
	return out
}

// findCycle walks the dependsOn graph and returns the tempId of a match on a
// cycle, or "". The generators build DAGs by construction; this guards
// against regressions before the allocator relies on topological order.
func findCycle(matches []GeneratedMatch) string {
	adj := make(map[string][]string, len(matches))
	for _, m := range matches {
		adj[m.TempID] = m.DependsOn
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(adj))

	var visit func(id string) string
	visit = func(id string) string {
		switch state[id] {
		case inStack:
			return id
		case done:
			return ""
		}
		state[id] = inStack
		for _, dep := range adj[id] {
			if _, ok := adj[dep]; !ok {
				continue
			}
			if hit := visit(dep); hit != "" {
				return hit
			}
		}
		state[id] = done
		return ""
	}

	for _, m := range matches {
		if hit := visit(m.TempID); hit != "" {
			return hit
		}
	}
	return ""
}

func strPtr(s string) *string { return &s }
