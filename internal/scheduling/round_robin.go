// internal/scheduling/round_robin.go
// Round-robin generation using the circle method: one team is pinned, the
// rest rotate one position each round. An odd team count gets a synthetic
// bye slot whose pairings are dropped.

package scheduling

import "fmt"

// generateRoundRobin produces the matches for one group. Fewer than two
// teams yields no matches. For RoundRobinDouble the first leg is mirrored
// with home and away swapped and round numbers continuing upward.
func generateRoundRobin(stage *StageConfig, group GroupConfig, next func() int) []GeneratedMatch {
	teams := sortTeamsBySeed(group.Teams)
	if len(teams) < 2 {
		return nil
	}

	// nil marks the bye slot.
	ring := make([]*TeamSlot, 0, len(teams)+1)
	for i := range teams {
		ring = append(ring, &teams[i])
	}
	if len(ring)%2 == 1 {
		ring = append(ring, nil)
	}

	n := len(ring)
	rounds := n - 1
	groupID := group.ID

	var out []GeneratedMatch
	for round := 0; round < rounds; round++ {
		for pair := 0; pair < n/2; pair++ {
			home, away := ring[pair], ring[n-1-pair]
			if home == nil || away == nil {
				continue
			}
			// Alternate orientation for home/away balance.
			if (round+pair)%2 == 1 {
				home, away = away, home
			}
			num := next()
			out = append(out, GeneratedMatch{
				TempID:             roundRobinTempID(stage.ID, groupID, num),
				StageID:            stage.ID,
				GroupID:            strPtr(groupID),
				HomeRegistrationID: strPtr(home.RegistrationID),
				AwayRegistrationID: strPtr(away.RegistrationID),
				MatchNumber:        num,
				RoundNumber:        round + 1,
			})
		}
		rotateRing(ring)
	}

	if group.RoundRobinType == RoundRobinDouble {
		firstLeg := make([]GeneratedMatch, len(out))
		copy(firstLeg, out)
		for _, leg := range firstLeg {
			num := next()
			mirror := leg
			mirror.TempID = roundRobinTempID(stage.ID, groupID, num)
			mirror.MatchNumber = num
			mirror.RoundNumber = leg.RoundNumber + rounds
			mirror.HomeRegistrationID, mirror.AwayRegistrationID = leg.AwayRegistrationID, leg.HomeRegistrationID
			out = append(out, mirror)
		}
	}

	return out
}

// rotateRing keeps ring[0] pinned and rotates the remaining slots clockwise.
func rotateRing(ring []*TeamSlot) {
	if len(ring) <= 2 {
		return
	}
	last := ring[len(ring)-1]
	copy(ring[2:], ring[1:len(ring)-1])
	ring[1] = last
}

func roundRobinTempID(stageID, groupID string, matchNumber int) string {
	return fmt.Sprintf("%s-%s-M%d", stageID, groupID, matchNumber)
}
