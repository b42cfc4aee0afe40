package scheduling

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededTeams(prefix string, n int) []TeamSlot {
	teams := make([]TeamSlot, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		teams[i] = TeamSlot{
			RegistrationID: fmt.Sprintf("%s%d", prefix, i+1),
			SeedPosition:   &seed,
			TeamName:       fmt.Sprintf("Team %s%d", prefix, i+1),
		}
	}
	return teams
}

func groupStageConfig(rrType RoundRobinType, teams []TeamSlot) StageConfig {
	return StageConfig{
		ID:    "s1",
		Name:  "Group Stage",
		Order: 1,
		Type:  StageGroup,
		Groups: []GroupConfig{
			{ID: "gA", Name: "Group A", Order: 1, RoundRobinType: rrType, Teams: teams},
		},
	}
}

func pairKey(m GeneratedMatch) string {
	home, away := *m.HomeRegistrationID, *m.AwayRegistrationID
	if home > away {
		home, away = away, home
	}
	return home + "|" + away
}

func TestRoundRobinSingleMatchCount(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8} {
		matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinSingle, seededTeams("T", n))})
		require.Empty(t, violations, "n=%d", n)
		assert.Len(t, matches, n*(n-1)/2, "n=%d", n)

		// Every unordered pair exactly once.
		seen := make(map[string]int)
		for _, m := range matches {
			seen[pairKey(m)]++
		}
		for pair, count := range seen {
			assert.Equal(t, 1, count, "pair %s", pair)
		}
	}
}

func TestRoundRobinDoubleMatchCount(t *testing.T) {
	for _, n := range []int{3, 4, 5} {
		matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinDouble, seededTeams("T", n))})
		require.Empty(t, violations, "n=%d", n)
		assert.Len(t, matches, n*(n-1), "n=%d", n)
	}
}

func TestRoundRobinDoubleMirrorsOrientation(t *testing.T) {
	// Scenario: 3 teams, double round robin. Each pair appears twice, once
	// per home/away orientation.
	matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinDouble, seededTeams("T", 3))})
	require.Empty(t, violations)
	require.Len(t, matches, 6)

	orientations := make(map[string]int)
	for _, m := range matches {
		orientations[*m.HomeRegistrationID+">"+*m.AwayRegistrationID]++
	}
	assert.Len(t, orientations, 6, "all six ordered pairings distinct")
	for ordered, count := range orientations {
		assert.Equal(t, 1, count, "orientation %s", ordered)
	}
}

func TestRoundRobinRoundsStructure(t *testing.T) {
	matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinSingle, seededTeams("T", 4))})
	require.Empty(t, violations)
	require.Len(t, matches, 6)

	byRound := make(map[int][]GeneratedMatch)
	for _, m := range matches {
		byRound[m.RoundNumber] = append(byRound[m.RoundNumber], m)
	}
	require.Len(t, byRound, 3)
	for round, roundMatches := range byRound {
		assert.Len(t, roundMatches, 2, "round %d", round)

		// No team plays twice in one round.
		seen := make(map[string]bool)
		for _, m := range roundMatches {
			for _, id := range []string{*m.HomeRegistrationID, *m.AwayRegistrationID} {
				assert.False(t, seen[id], "team %s twice in round %d", id, round)
				seen[id] = true
			}
		}
	}

	// Circle method with team 1 pinned: round pairings are fixed.
	assert.ElementsMatch(t,
		[]string{"T1|T4", "T2|T3"},
		[]string{pairKey(byRound[1][0]), pairKey(byRound[1][1])})
	assert.ElementsMatch(t,
		[]string{"T1|T3", "T2|T4"},
		[]string{pairKey(byRound[2][0]), pairKey(byRound[2][1])})
	assert.ElementsMatch(t,
		[]string{"T1|T2", "T3|T4"},
		[]string{pairKey(byRound[3][0]), pairKey(byRound[3][1])})
}

func TestRoundRobinOddTeamCountDropsBye(t *testing.T) {
	matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinSingle, seededTeams("T", 5))})
	require.Empty(t, violations)
	assert.Len(t, matches, 10)

	// 5 teams play over 5 rounds, two matches per round, one team resting.
	rounds := make(map[int]int)
	for _, m := range matches {
		rounds[m.RoundNumber]++
		require.NotNil(t, m.HomeRegistrationID)
		require.NotNil(t, m.AwayRegistrationID)
		assert.NotEqual(t, *m.HomeRegistrationID, *m.AwayRegistrationID)
	}
	assert.Len(t, rounds, 5)
	for round, count := range rounds {
		assert.Equal(t, 2, count, "round %d", round)
	}
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	matches, violations := Generate([]StageConfig{groupStageConfig(RoundRobinSingle, seededTeams("T", 1))})
	assert.Empty(t, violations)
	assert.Empty(t, matches)
}

func TestGenerateDeterministic(t *testing.T) {
	stages := []StageConfig{
		groupStageConfig(RoundRobinSingle, seededTeams("T", 6)),
		{
			ID: "s2", Name: "Knockout", Order: 2, Type: StageKnockout,
			AdvancingTeamCount: 4,
		},
	}

	first, firstViolations := Generate(ResolveIncomingSlots(stages))
	second, secondViolations := Generate(ResolveIncomingSlots(stages))
	assert.True(t, reflect.DeepEqual(first, second), "generation must be byte-for-byte deterministic")
	assert.Equal(t, firstViolations, secondViolations)
}

func TestGenerateUniqueTempIDsAndMatchNumbers(t *testing.T) {
	stages := ResolveIncomingSlots([]StageConfig{
		{
			ID: "s1", Name: "Groups", Order: 1, Type: StageGroup,
			Groups: []GroupConfig{
				{ID: "gA", Name: "Group A", Order: 1, RoundRobinType: RoundRobinSingle, Teams: seededTeams("A", 4)},
				{ID: "gB", Name: "Group B", Order: 2, RoundRobinType: RoundRobinSingle, Teams: seededTeams("B", 4)},
			},
		},
		{ID: "s2", Name: "Knockout", Order: 2, Type: StageKnockout, AdvancingTeamCount: 4},
	})

	matches, violations := Generate(stages)
	require.Empty(t, violations)

	tempIDs := make(map[string]bool)
	numbers := make(map[string]map[int]bool)
	for _, m := range matches {
		assert.False(t, tempIDs[m.TempID], "duplicate tempId %s", m.TempID)
		tempIDs[m.TempID] = true

		if numbers[m.StageID] == nil {
			numbers[m.StageID] = make(map[int]bool)
		}
		assert.False(t, numbers[m.StageID][m.MatchNumber], "duplicate match number %d in stage %s", m.MatchNumber, m.StageID)
		numbers[m.StageID][m.MatchNumber] = true
	}
}

func TestGenerateUnknownStageType(t *testing.T) {
	matches, violations := Generate([]StageConfig{{ID: "s1", Name: "Odd", Order: 1, Type: "LADDER"}})
	assert.Empty(t, matches)
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, ViolationMissingTeam, violations[0].Type)
}
