// internal/scheduling/gsl.go
// GSL dual-tournament groups: four seeds, five matches. M1/M2 are the
// openers, M3 the winners match, M4 the elimination match, M5 the decider.
// Placements: 1st = winner M3, 2nd = winner M5, 3rd = loser M5, 4th = loser M4.

package scheduling

import "fmt"

// gslEntrant is one of the four slots of a GSL group, concrete or placeholder.
type gslEntrant struct {
	registrationID *string
	source         *string
}

// generateGSL produces the five-match dual bracket for one group. A group
// with concrete teams must hold exactly four; a group fed by incoming slots
// reserves four placeholder entrants instead.
func generateGSL(stage *StageConfig, group GroupConfig, next func() int) ([]GeneratedMatch, []Violation) {
	entrants, violation := gslEntrants(stage, group)
	if violation != nil {
		return nil, []Violation{*violation}
	}

	groupID := group.ID
	tempID := func(pos string) string {
		return fmt.Sprintf("%s-%s-%s", stage.ID, groupID, pos)
	}

	newMatch := func(pos string, round int) GeneratedMatch {
		return GeneratedMatch{
			TempID:          tempID(pos),
			StageID:         stage.ID,
			GroupID:         strPtr(groupID),
			MatchNumber:     next(),
			RoundNumber:     round,
			BracketPosition: strPtr(pos),
		}
	}

	m1 := newMatch("M1", 1)
	m1.HomeRegistrationID, m1.HomeSource = entrants[0].registrationID, entrants[0].source
	m1.AwayRegistrationID, m1.AwaySource = entrants[1].registrationID, entrants[1].source

	m2 := newMatch("M2", 1)
	m2.HomeRegistrationID, m2.HomeSource = entrants[2].registrationID, entrants[2].source
	m2.AwayRegistrationID, m2.AwaySource = entrants[3].registrationID, entrants[3].source

	m3 := newMatch("M3", 2)
	m3.HomeSource = strPtr("Winner M1")
	m3.AwaySource = strPtr("Winner M2")
	m3.DependsOn = []string{m1.TempID, m2.TempID}

	m4 := newMatch("M4", 2)
	m4.HomeSource = strPtr("Loser M1")
	m4.AwaySource = strPtr("Loser M2")
	m4.DependsOn = []string{m1.TempID, m2.TempID}

	m5 := newMatch("M5", 3)
	m5.HomeSource = strPtr("Loser M3")
	m5.AwaySource = strPtr("Winner M4")
	m5.DependsOn = []string{m3.TempID, m4.TempID}
	m5.IsDecider = true

	return []GeneratedMatch{m1, m2, m3, m4, m5}, nil
}

// gslEntrants resolves the group's four seed slots, sorted by seed.
func gslEntrants(stage *StageConfig, group GroupConfig) ([4]gslEntrant, *Violation) {
	var entrants [4]gslEntrant

	if len(group.Teams) > 0 {
		if len(group.Teams) != 4 {
			return entrants, &Violation{
				Type:     ViolationMissingTeam,
				Severity: SeverityError,
				Message:  fmt.Sprintf("GSL group %q needs exactly 4 teams, has %d", group.Name, len(group.Teams)),
				Details:  map[string]interface{}{"stage_id": stage.ID, "group_id": group.ID, "team_count": len(group.Teams)},
			}
		}
		teams := sortTeamsBySeed(group.Teams)
		for i := range entrants {
			entrants[i].registrationID = strPtr(teams[i].RegistrationID)
		}
		return entrants, nil
	}

	if len(group.Incoming) != 4 {
		return entrants, &Violation{
			Type:     ViolationMissingTeam,
			Severity: SeverityError,
			Message:  fmt.Sprintf("GSL group %q needs 4 incoming slots, has %d", group.Name, len(group.Incoming)),
			Details:  map[string]interface{}{"stage_id": stage.ID, "group_id": group.ID, "slot_count": len(group.Incoming)},
		}
	}
	slots := sortIncomingBySeed(group.Incoming)
	for i := range entrants {
		entrants[i].registrationID = slots[i].RegistrationID
		entrants[i].source = strPtr(slots[i].SourceLabel)
	}
	return entrants, nil
}
