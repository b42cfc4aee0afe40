package scheduling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doubleElimStage(n int) StageConfig {
	return StageConfig{
		ID:    "de",
		Name:  "Double Elimination",
		Order: 1,
		Type:  StageDoubleElimination,
		Teams: seededTeams("T", n),
	}
}

func splitBrackets(matches []GeneratedMatch) (winners, losers, finals []GeneratedMatch) {
	for _, m := range matches {
		switch {
		case m.BracketType == BracketWinners:
			winners = append(winners, m)
		case m.BracketType == BracketLosers:
			losers = append(losers, m)
		default:
			finals = append(finals, m)
		}
	}
	return winners, losers, finals
}

func TestDoubleEliminationEightTeams(t *testing.T) {
	matches, violations := Generate([]StageConfig{doubleElimStage(8)})
	require.Empty(t, violations)

	winners, losers, finals := splitBrackets(matches)
	assert.Len(t, winners, 7)
	assert.Len(t, losers, 6)
	require.Len(t, finals, 2)

	// Losers bracket spans 2*(WR-1) = 4 rounds.
	lbRounds := make(map[int]bool)
	for _, m := range losers {
		lbRounds[m.RoundNumber] = true
	}
	assert.Len(t, lbRounds, 4)

	// Every winners-bracket match's loser drops into the losers bracket
	// exactly once.
	drops := make(map[string]int)
	for _, m := range losers {
		for _, src := range []*string{m.HomeSource, m.AwaySource} {
			if src != nil && strings.HasPrefix(*src, "Loser ") {
				drops[strings.TrimPrefix(*src, "Loser ")]++
			}
		}
	}
	for _, wm := range winners {
		assert.Equal(t, 1, drops[*wm.BracketPosition], "loser of %s must drop exactly once", *wm.BracketPosition)
	}

	// Grand final pits the winners champion against the losers survivor.
	grandFinal := matchByPos(t, matches, "GF")
	assert.Equal(t, "Winner W-F", *grandFinal.HomeSource)
	assert.Equal(t, "Winner LB-F", *grandFinal.AwaySource)
	require.Len(t, grandFinal.DependsOn, 2)

	reset := matchByPos(t, matches, "GF-R")
	assert.Equal(t, "Winner GF", *reset.HomeSource)
	assert.Equal(t, "Loser GF", *reset.AwaySource)
	assert.Equal(t, []string{grandFinal.TempID}, reset.DependsOn)
	assert.True(t, reset.IsDecider)
}

func TestDoubleEliminationFourTeams(t *testing.T) {
	matches, violations := Generate([]StageConfig{doubleElimStage(4)})
	require.Empty(t, violations)

	winners, losers, finals := splitBrackets(matches)
	assert.Len(t, winners, 3)
	assert.Len(t, losers, 2)
	assert.Len(t, finals, 2)

	lbFinal := matchByPos(t, matches, "LB-F")
	// The winners final loser drops into the losers final.
	sources := []string{*lbFinal.HomeSource, *lbFinal.AwaySource}
	assert.Contains(t, sources, "Loser W-F")
}

func TestDoubleEliminationTwoTeams(t *testing.T) {
	// Degenerate bracket: no losers rounds, the winners final loser goes
	// straight to the grand final.
	matches, violations := Generate([]StageConfig{doubleElimStage(2)})
	require.Empty(t, violations)

	_, losers, _ := splitBrackets(matches)
	assert.Empty(t, losers)

	grandFinal := matchByPos(t, matches, "GF")
	assert.Equal(t, "Winner W-F", *grandFinal.HomeSource)
	assert.Equal(t, "Loser W-F", *grandFinal.AwaySource)
}

func TestDoubleEliminationDAG(t *testing.T) {
	// All dependencies reference earlier matches; the generator's cycle
	// check stays silent.
	for _, n := range []int{4, 6, 8, 16} {
		matches, violations := Generate([]StageConfig{doubleElimStage(n)})
		require.Empty(t, violations, "n=%d", n)

		byTempID := make(map[string]GeneratedMatch)
		for _, m := range matches {
			byTempID[m.TempID] = m
		}
		for _, m := range matches {
			for _, dep := range m.DependsOn {
				d, ok := byTempID[dep]
				require.True(t, ok, "n=%d: dep %s of %s must exist", n, dep, m.TempID)
				assert.Less(t, d.RoundNumber, m.RoundNumber, "n=%d: %s depends on later round", n, m.TempID)
			}
		}
	}
}
