// internal/scheduling/knockout.go
// Single-elimination brackets with standard seeding reflection (1 vs N,
// 2 vs N-1, arranged by halves so top seeds meet in the final). Unfilled
// seeds are byes: a pairing with one bye never materialises and the real
// team advances; a pairing of two byes is suppressed entirely.

package scheduling

import "fmt"

// koEntrant is one seeded slot of a knockout bracket, concrete or placeholder.
type koEntrant struct {
	seed           int
	registrationID *string
	source         *string
}

// koNode is what occupies a bracket position between rounds.
type koNode struct {
	entrant *koEntrant
	match   *GeneratedMatch
	bye     bool
}

// bracketResult carries the structural shape of a built bracket, which the
// losers-bracket wiring of double elimination needs alongside the matches.
type bracketResult struct {
	matches []*GeneratedMatch
	rounds  int
	// pairings[r][s] is the match at structural slot s of round r, nil where
	// a bye absorbed the pairing. Indexed 1..rounds.
	pairings [][]*GeneratedMatch
	final    *GeneratedMatch
}

// knockoutEntrants resolves a knockout-style stage's seeded entrants from
// direct teams or incoming slots, in seed order.
func knockoutEntrants(stage *StageConfig) []koEntrant {
	if len(stage.Teams) > 0 {
		teams := sortTeamsBySeed(stage.Teams)
		out := make([]koEntrant, len(teams))
		for i := range teams {
			out[i] = koEntrant{seed: i + 1, registrationID: strPtr(teams[i].RegistrationID)}
		}
		return out
	}

	slots := sortIncomingBySeed(stage.IncomingSlots)
	if stage.AdvancingTeamCount > 0 && stage.AdvancingTeamCount < len(slots) {
		slots = slots[:stage.AdvancingTeamCount]
	}
	out := make([]koEntrant, len(slots))
	for i := range slots {
		out[i] = koEntrant{seed: i + 1, registrationID: slots[i].RegistrationID, source: strPtr(slots[i].SourceLabel)}
	}
	return out
}

// generateKnockout produces a seeded single-elimination bracket with an
// optional third-place match between the semifinal losers.
func generateKnockout(stage *StageConfig, next func() int) []GeneratedMatch {
	entrants := knockoutEntrants(stage)
	if len(entrants) < 2 {
		return nil
	}

	bracket := buildSingleElimBracket(stage, entrants, "", knockoutPosName, 0, next)

	out := make([]GeneratedMatch, 0, len(bracket.matches)+1)
	for _, m := range bracket.matches {
		out = append(out, *m)
	}
	if third := thirdPlaceMatch(stage, bracket, next); third != nil {
		out = append(out, *third)
	}
	return out
}

// thirdPlaceMatch builds the 3P match when the stage wants one and both
// semifinals materialised. With a bye semifinal there are fewer than four
// real quarterfinal survivors and no third place can be decided.
func thirdPlaceMatch(stage *StageConfig, bracket bracketResult, next func() int) *GeneratedMatch {
	if !stage.HasThirdPlace || bracket.rounds < 2 {
		return nil
	}
	semis := bracket.pairings[bracket.rounds-1]
	if len(semis) != 2 || semis[0] == nil || semis[1] == nil {
		return nil
	}
	return &GeneratedMatch{
		TempID:          stage.ID + "-3P",
		StageID:         stage.ID,
		MatchNumber:     next(),
		RoundNumber:     bracket.rounds,
		BracketPosition: strPtr("3P"),
		DependsOn:       []string{semis[0].TempID, semis[1].TempID},
		HomeSource:      strPtr("Loser " + *semis[0].BracketPosition),
		AwaySource:      strPtr("Loser " + *semis[1].BracketPosition),
		IsThirdPlace:    true,
	}
}

// buildSingleElimBracket walks the bracket round by round. roundOffset
// shifts the emitted round numbers; both callers (plain knockout and the
// winners bracket of double elimination) pass 0.
func buildSingleElimBracket(stage *StageConfig, entrants []koEntrant, bracket BracketType, posName func(round, totalRounds, slot int) string, roundOffset int, next func() int) bracketResult {
	size := nextPow2(len(entrants))
	totalRounds := log2(size)

	current := make([]koNode, size)
	for pos, seed := range bracketOrder(size) {
		if seed <= len(entrants) {
			current[pos] = koNode{entrant: &entrants[seed-1]}
		} else {
			current[pos] = koNode{bye: true}
		}
	}

	res := bracketResult{rounds: totalRounds, pairings: make([][]*GeneratedMatch, totalRounds+1)}

	for round := 1; round <= totalRounds; round++ {
		slots := len(current) / 2
		res.pairings[round] = make([]*GeneratedMatch, slots)
		nextNodes := make([]koNode, slots)

		for s := 0; s < slots; s++ {
			a, b := current[2*s], current[2*s+1]
			switch {
			case a.bye && b.bye:
				nextNodes[s] = koNode{bye: true}
			case a.bye:
				nextNodes[s] = b
			case b.bye:
				nextNodes[s] = a
			default:
				pos := posName(round, totalRounds, s+1)
				m := &GeneratedMatch{
					TempID:          stage.ID + "-" + pos,
					StageID:         stage.ID,
					MatchNumber:     next(),
					RoundNumber:     roundOffset + round,
					BracketPosition: strPtr(pos),
					BracketType:     bracket,
				}
				fillKnockoutSlot(m, a, true)
				fillKnockoutSlot(m, b, false)
				res.matches = append(res.matches, m)
				res.pairings[round][s] = m
				nextNodes[s] = koNode{match: m}
			}
		}
		current = nextNodes
	}

	res.final = res.pairings[totalRounds][0]
	return res
}

// fillKnockoutSlot populates one side of a match from the node feeding it.
func fillKnockoutSlot(m *GeneratedMatch, node koNode, home bool) {
	var regID, source *string
	switch {
	case node.entrant != nil:
		regID = node.entrant.registrationID
		source = node.entrant.source
	case node.match != nil:
		source = strPtr("Winner " + *node.match.BracketPosition)
		m.DependsOn = append(m.DependsOn, node.match.TempID)
	}
	if home {
		m.HomeRegistrationID, m.HomeSource = regID, source
	} else {
		m.AwayRegistrationID, m.AwaySource = regID, source
	}
}

// generateFinal produces a finals stage: one final, final plus third place,
// or a small round robin for three or four entrants.
func generateFinal(stage *StageConfig, next func() int) []GeneratedMatch {
	entrants := knockoutEntrants(stage)
	n := len(entrants)
	if n < 2 {
		return nil
	}

	switch {
	case stage.HasThirdPlace && n >= 4:
		final := finalPairing(stage, "F", entrants[0], entrants[1], next)
		third := finalPairing(stage, "3P", entrants[2], entrants[3], next)
		third.IsThirdPlace = true
		return []GeneratedMatch{final, third}

	case n == 2:
		return []GeneratedMatch{finalPairing(stage, "F", entrants[0], entrants[1], next)}

	case n <= 4:
		return finalRoundRobin(stage, entrants, next)

	default:
		return []GeneratedMatch{finalPairing(stage, "F", entrants[0], entrants[1], next)}
	}
}

func finalPairing(stage *StageConfig, pos string, home, away koEntrant, next func() int) GeneratedMatch {
	return GeneratedMatch{
		TempID:             stage.ID + "-" + pos,
		StageID:            stage.ID,
		MatchNumber:        next(),
		RoundNumber:        1,
		BracketPosition:    strPtr(pos),
		HomeRegistrationID: home.registrationID,
		HomeSource:         home.source,
		AwayRegistrationID: away.registrationID,
		AwaySource:         away.source,
	}
}

// finalRoundRobin plays every entrant against every other, circle method,
// for the three- and four-team finals formats.
func finalRoundRobin(stage *StageConfig, entrants []koEntrant, next func() int) []GeneratedMatch {
	ring := make([]*koEntrant, 0, len(entrants)+1)
	for i := range entrants {
		ring = append(ring, &entrants[i])
	}
	if len(ring)%2 == 1 {
		ring = append(ring, nil)
	}

	n := len(ring)
	var out []GeneratedMatch
	for round := 0; round < n-1; round++ {
		for pair := 0; pair < n/2; pair++ {
			home, away := ring[pair], ring[n-1-pair]
			if home == nil || away == nil {
				continue
			}
			if (round+pair)%2 == 1 {
				home, away = away, home
			}
			num := next()
			out = append(out, GeneratedMatch{
				TempID:             fmt.Sprintf("%s-RR-M%d", stage.ID, num),
				StageID:            stage.ID,
				MatchNumber:        num,
				RoundNumber:        round + 1,
				HomeRegistrationID: home.registrationID,
				HomeSource:         home.source,
				AwayRegistrationID: away.registrationID,
				AwaySource:         away.source,
			})
		}
		// Same rotation as the group round robin, over entrant pointers.
		if n > 2 {
			last := ring[n-1]
			copy(ring[2:], ring[1:n-1])
			ring[1] = last
		}
	}
	return out
}

// knockoutPosName names single-elimination bracket slots: F, SF1/SF2,
// QF1..QF4, then R<round>M<slot> for earlier rounds.
func knockoutPosName(round, totalRounds, slot int) string {
	switch totalRounds - round {
	case 0:
		return "F"
	case 1:
		return fmt.Sprintf("SF%d", slot)
	case 2:
		return fmt.Sprintf("QF%d", slot)
	default:
		return fmt.Sprintf("R%dM%d", round, slot)
	}
}

// bracketOrder returns the seeds (1-based) at each bracket position for the
// standard seeding reflection: repeatedly expand [1] by pairing each seed s
// with its complement 2n+1-s.
func bracketOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		n := len(order) * 2
		next := make([]int, 0, n)
		for _, s := range order {
			next = append(next, s, n+1-s)
		}
		order = next
	}
	return order
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func log2(n int) int {
	r := 0
	for 1<<r < n {
		r++
	}
	return r
}
