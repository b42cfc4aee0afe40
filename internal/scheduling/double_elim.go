// internal/scheduling/double_elim.go
// Double elimination: a winners bracket shaped exactly like single
// elimination, a losers bracket of 2*(WR-1) rounds alternating drop-down
// and shrink rounds, and a grand final with an unconditional reset match.
// Every winners-bracket loser drops into the losers bracket exactly once;
// on alternating drop-down rounds the droppers enter in reversed order to
// delay rematches.

package scheduling

import "fmt"

// lbNode is what occupies a losers-bracket slot: the loser of a winners
// match, the winner of an earlier losers match, or a bye left by a winners
// pairing that never materialised.
type lbNode struct {
	loserOf  *GeneratedMatch
	winnerOf *GeneratedMatch
	bye      bool
}

func generateDoubleElimination(stage *StageConfig, next func() int) []GeneratedMatch {
	entrants := knockoutEntrants(stage)
	if len(entrants) < 2 {
		return nil
	}

	wb := buildSingleElimBracket(stage, entrants, BracketWinners, winnersPosName, 0, next)
	winnersRounds := wb.rounds
	totalLBRounds := 2 * (winnersRounds - 1)

	out := make([]*GeneratedMatch, 0, len(wb.matches)*2+2)
	out = append(out, wb.matches...)

	var lbFinal *GeneratedMatch
	if winnersRounds >= 2 {
		lb := buildLosersBracket(stage, wb, totalLBRounds, next)
		out = append(out, lb...)
		if len(lb) > 0 {
			lbFinal = lb[len(lb)-1]
		}
	}

	grandFinal := &GeneratedMatch{
		TempID:          stage.ID + "-GF",
		StageID:         stage.ID,
		MatchNumber:     next(),
		RoundNumber:     winnersRounds + totalLBRounds + 1,
		BracketPosition: strPtr("GF"),
		HomeSource:      strPtr("Winner " + *wb.final.BracketPosition),
		DependsOn:       []string{wb.final.TempID},
	}
	if lbFinal != nil {
		grandFinal.AwaySource = strPtr("Winner " + *lbFinal.BracketPosition)
		grandFinal.DependsOn = append(grandFinal.DependsOn, lbFinal.TempID)
	} else {
		// Degenerate bracket: the winners final loser is the only survivor.
		grandFinal.AwaySource = strPtr("Loser " + *wb.final.BracketPosition)
	}
	out = append(out, grandFinal)

	// The reset is generated unconditionally; whether it is played is a
	// result-entry concern.
	reset := &GeneratedMatch{
		TempID:          stage.ID + "-GF-R",
		StageID:         stage.ID,
		MatchNumber:     next(),
		RoundNumber:     grandFinal.RoundNumber + 1,
		BracketPosition: strPtr("GF-R"),
		HomeSource:      strPtr("Winner GF"),
		AwaySource:      strPtr("Loser GF"),
		DependsOn:       []string{grandFinal.TempID},
		IsDecider:       true,
	}
	out = append(out, reset)

	matches := make([]GeneratedMatch, 0, len(out))
	for _, m := range out {
		matches = append(matches, *m)
	}
	return matches
}

// buildLosersBracket wires the losers rounds over the winners bracket's
// structural pairings. Round 1 pairs the winners round-1 losers; each
// winners round k >= 2 then feeds a drop-down round, followed by a shrink
// round except after the winners final.
func buildLosersBracket(stage *StageConfig, wb bracketResult, totalLBRounds int, next func() int) []*GeneratedMatch {
	var out []*GeneratedMatch

	lbRound := 1
	current := pairLosersRound(stage, dropNodes(wb.pairings[1]), lbRound, totalLBRounds, wb.rounds, &out, next)

	for k := 2; k <= wb.rounds; k++ {
		drops := dropNodes(wb.pairings[k])
		if k%2 == 0 {
			reverseLBNodes(drops)
		}

		merged := make([]lbNode, 0, len(current)+len(drops))
		for i := range current {
			merged = append(merged, current[i], drops[i])
		}
		lbRound++
		current = pairLosersRound(stage, merged, lbRound, totalLBRounds, wb.rounds, &out, next)

		if k < wb.rounds {
			lbRound++
			current = pairLosersRound(stage, current, lbRound, totalLBRounds, wb.rounds, &out, next)
		}
	}

	return out
}

// pairLosersRound consumes node pairs, creating matches where both sides are
// real and carrying survivors past byes, and returns the next round's nodes.
func pairLosersRound(stage *StageConfig, nodes []lbNode, lbRound, totalLBRounds, winnersRounds int, out *[]*GeneratedMatch, next func() int) []lbNode {
	survivors := make([]lbNode, 0, len(nodes)/2)

	for s := 0; s < len(nodes)/2; s++ {
		a, b := nodes[2*s], nodes[2*s+1]
		switch {
		case a.bye && b.bye:
			survivors = append(survivors, lbNode{bye: true})
		case a.bye:
			survivors = append(survivors, b)
		case b.bye:
			survivors = append(survivors, a)
		default:
			pos := losersPosName(lbRound, totalLBRounds, s+1)
			m := &GeneratedMatch{
				TempID:          stage.ID + "-" + pos,
				StageID:         stage.ID,
				MatchNumber:     next(),
				RoundNumber:     winnersRounds + lbRound,
				BracketPosition: strPtr(pos),
				BracketType:     BracketLosers,
			}
			fillLosersSlot(m, a, true)
			fillLosersSlot(m, b, false)
			*out = append(*out, m)
			survivors = append(survivors, lbNode{winnerOf: m})
		}
	}
	return survivors
}

func fillLosersSlot(m *GeneratedMatch, node lbNode, home bool) {
	var source *string
	switch {
	case node.loserOf != nil:
		source = strPtr("Loser " + *node.loserOf.BracketPosition)
		m.DependsOn = append(m.DependsOn, node.loserOf.TempID)
	case node.winnerOf != nil:
		source = strPtr("Winner " + *node.winnerOf.BracketPosition)
		m.DependsOn = append(m.DependsOn, node.winnerOf.TempID)
	}
	if home {
		m.HomeSource = source
	} else {
		m.AwaySource = source
	}
}

// dropNodes converts one winners round's structural pairings into losers
// entries; a suppressed winners pairing yields no loser and becomes a bye.
func dropNodes(pairings []*GeneratedMatch) []lbNode {
	out := make([]lbNode, len(pairings))
	for i, m := range pairings {
		if m != nil {
			out[i] = lbNode{loserOf: m}
		} else {
			out[i] = lbNode{bye: true}
		}
	}
	return out
}

func reverseLBNodes(nodes []lbNode) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func winnersPosName(round, totalRounds, slot int) string {
	if round == totalRounds {
		return "W-F"
	}
	return fmt.Sprintf("W-R%d-%d", round, slot)
}

func losersPosName(round, totalRounds, slot int) string {
	if round == totalRounds {
		return "LB-F"
	}
	return fmt.Sprintf("LB-R%d-%d", round, slot)
}
