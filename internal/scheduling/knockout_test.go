package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knockoutStage(n int, thirdPlace bool) StageConfig {
	return StageConfig{
		ID:            "ko",
		Name:          "Knockout",
		Order:         1,
		Type:          StageKnockout,
		Teams:         seededTeams("T", n),
		HasThirdPlace: thirdPlace,
	}
}

func TestKnockoutMatchCounts(t *testing.T) {
	cases := []struct {
		teams   int
		matches int
	}{
		{2, 1},
		{3, 2},  // one bye, nextPow2(3)-1 minus suppressed first-round pairing
		{4, 3},
		{5, 4},
		{8, 7},
		{16, 15},
	}
	for _, tc := range cases {
		matches, violations := Generate([]StageConfig{knockoutStage(tc.teams, false)})
		require.Empty(t, violations, "teams=%d", tc.teams)
		assert.Len(t, matches, tc.matches, "teams=%d", tc.teams)
	}
}

func TestKnockoutEightTeamSeeding(t *testing.T) {
	// Scenario: 8-team knockout with third place. Standard first-round
	// pairings (1,8)(4,5)(3,6)(2,7) and 8 matches total.
	matches, violations := Generate([]StageConfig{knockoutStage(8, true)})
	require.Empty(t, violations)
	require.Len(t, matches, 8)

	firstRound := make(map[string]bool)
	for _, m := range matches {
		if m.RoundNumber == 1 {
			firstRound[pairKey(m)] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"T1|T8": true,
		"T4|T5": true,
		"T2|T7": true,
		"T3|T6": true,
	}, firstRound)

	// Semifinals take quarterfinal winners, the final takes the semifinal
	// winners, and top seeds can only meet in the final.
	sf1 := matchByPos(t, matches, "SF1")
	assert.Equal(t, "Winner QF1", *sf1.HomeSource)
	assert.Equal(t, "Winner QF2", *sf1.AwaySource)
	require.Len(t, sf1.DependsOn, 2)

	final := matchByPos(t, matches, "F")
	assert.Equal(t, "Winner SF1", *final.HomeSource)
	assert.Equal(t, "Winner SF2", *final.AwaySource)

	third := matchByPos(t, matches, "3P")
	assert.True(t, third.IsThirdPlace)
	assert.Equal(t, "Loser SF1", *third.HomeSource)
	assert.Equal(t, "Loser SF2", *third.AwaySource)
	assert.ElementsMatch(t, []string{sf1.TempID, matchByPos(t, matches, "SF2").TempID}, third.DependsOn)
	assert.Equal(t, final.RoundNumber, third.RoundNumber)
}

func TestKnockoutByeAdvancesDirectly(t *testing.T) {
	// 5 teams in an 8 bracket: seeds 6, 7 and 8 are byes, so seeds 1, 2
	// and 3 skip round one entirely and 4 v 5 is the only first-round match.
	matches, violations := Generate([]StageConfig{knockoutStage(5, false)})
	require.Empty(t, violations)
	require.Len(t, matches, 4)

	var firstRound []GeneratedMatch
	for _, m := range matches {
		if m.RoundNumber == 1 {
			firstRound = append(firstRound, m)
		}
	}
	require.Len(t, firstRound, 1)
	assert.Equal(t, "T4|T5", pairKey(firstRound[0]))

	// The bye recipients sit directly in the semifinals.
	sf1 := matchByPos(t, matches, "SF1")
	assert.Equal(t, "T1", *sf1.HomeRegistrationID)
	assert.Nil(t, sf1.AwayRegistrationID)
	assert.Equal(t, []string{firstRound[0].TempID}, sf1.DependsOn)

	sf2 := matchByPos(t, matches, "SF2")
	assert.Equal(t, "T2|T3", pairKey(sf2))
	assert.Empty(t, sf2.DependsOn)
}

func TestKnockoutNoThirdPlaceWithByeSemifinal(t *testing.T) {
	// With three teams one semifinal never materialises, so no third-place
	// match can be generated even when requested.
	matches, violations := Generate([]StageConfig{knockoutStage(3, true)})
	require.Empty(t, violations)
	for _, m := range matches {
		assert.False(t, m.IsThirdPlace)
	}
}

func TestKnockoutFromIncomingSlots(t *testing.T) {
	stage := StageConfig{
		ID:    "ko",
		Name:  "Knockout",
		Order: 2,
		Type:  StageKnockout,
		IncomingSlots: []IncomingTeamSlot{
			{SeedPosition: 1, SourceLabel: "Group A 1st"},
			{SeedPosition: 2, SourceLabel: "Group B 1st"},
			{SeedPosition: 3, SourceLabel: "Group A 2nd"},
			{SeedPosition: 4, SourceLabel: "Group B 2nd"},
		},
	}

	matches, violations := Generate([]StageConfig{stage})
	require.Empty(t, violations)
	require.Len(t, matches, 3)

	sf1 := matchByPos(t, matches, "SF1")
	assert.Nil(t, sf1.HomeRegistrationID)
	assert.Equal(t, "Group A 1st", *sf1.HomeSource)
	assert.Equal(t, "Group B 2nd", *sf1.AwaySource)

	sf2 := matchByPos(t, matches, "SF2")
	assert.Equal(t, "Group B 1st", *sf2.HomeSource)
	assert.Equal(t, "Group A 2nd", *sf2.AwaySource)
}

func TestFinalStageFormats(t *testing.T) {
	t.Run("single final", func(t *testing.T) {
		stage := StageConfig{ID: "f", Name: "Final", Order: 1, Type: StageFinal, Teams: seededTeams("T", 2)}
		matches, violations := Generate([]StageConfig{stage})
		require.Empty(t, violations)
		require.Len(t, matches, 1)
		assert.Equal(t, "F", *matches[0].BracketPosition)
		assert.Equal(t, "T1", *matches[0].HomeRegistrationID)
		assert.Equal(t, "T2", *matches[0].AwayRegistrationID)
	})

	t.Run("final with third place", func(t *testing.T) {
		stage := StageConfig{ID: "f", Name: "Final", Order: 1, Type: StageFinal, Teams: seededTeams("T", 4), HasThirdPlace: true}
		matches, violations := Generate([]StageConfig{stage})
		require.Empty(t, violations)
		require.Len(t, matches, 2)

		final := matchByPos(t, matches, "F")
		assert.Equal(t, "T1|T2", pairKey(final))
		third := matchByPos(t, matches, "3P")
		assert.Equal(t, "T3|T4", pairKey(third))
		assert.True(t, third.IsThirdPlace)
	})

	t.Run("round robin finals", func(t *testing.T) {
		stage := StageConfig{ID: "f", Name: "Final", Order: 1, Type: StageFinal, Teams: seededTeams("T", 3)}
		matches, violations := Generate([]StageConfig{stage})
		require.Empty(t, violations)
		assert.Len(t, matches, 3)
	})

	t.Run("placeholder finalists", func(t *testing.T) {
		stage := StageConfig{
			ID: "f", Name: "Final", Order: 2, Type: StageFinal,
			IncomingSlots: []IncomingTeamSlot{
				{SeedPosition: 1, SourceLabel: "Finalist 1"},
				{SeedPosition: 2, SourceLabel: "Finalist 2"},
			},
		}
		matches, violations := Generate([]StageConfig{stage})
		require.Empty(t, violations)
		require.Len(t, matches, 1)
		assert.Equal(t, "Finalist 1", *matches[0].HomeSource)
		assert.Equal(t, "Finalist 2", *matches[0].AwaySource)
	})
}
