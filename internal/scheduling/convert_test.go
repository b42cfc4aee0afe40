package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoGroupStage(stageType StageType) StageConfig {
	return StageConfig{
		ID:    "s1",
		Name:  "Groups",
		Order: 1,
		Type:  stageType,
		Groups: []GroupConfig{
			{ID: "gA", Name: "Group A", Order: 1, RoundRobinType: RoundRobinSingle, Teams: seededTeams("A", 4)},
			{ID: "gB", Name: "Group B", Order: 2, RoundRobinType: RoundRobinSingle, Teams: seededTeams("B", 4)},
		},
	}
}

func TestResolveIncomingSlotsCrossSeeding(t *testing.T) {
	stages := ResolveIncomingSlots([]StageConfig{
		twoGroupStage(StageGroup),
		{ID: "s2", Name: "Knockout", Order: 2, Type: StageKnockout, AdvancingTeamCount: 4},
	})

	ko := stages[1]
	require.Len(t, ko.IncomingSlots, 4)
	// Cross-seeding: every group's 1st, then every group's 2nd.
	assert.Equal(t, "Group A 1st", ko.IncomingSlots[0].SourceLabel)
	assert.Equal(t, "Group B 1st", ko.IncomingSlots[1].SourceLabel)
	assert.Equal(t, "Group A 2nd", ko.IncomingSlots[2].SourceLabel)
	assert.Equal(t, "Group B 2nd", ko.IncomingSlots[3].SourceLabel)
	for i, slot := range ko.IncomingSlots {
		assert.Equal(t, i+1, slot.SeedPosition)
	}
}

func TestResolveIncomingSlotsGSLLabels(t *testing.T) {
	gsl := twoGroupStage(StageGSLGroups)
	stages := ResolveIncomingSlots([]StageConfig{
		gsl,
		{ID: "s2", Name: "Final", Order: 2, Type: StageFinal, AdvancingTeamCount: 4, HasThirdPlace: true},
	})

	final := stages[1]
	require.Len(t, final.IncomingSlots, 4)
	assert.Equal(t, "Group A Winner", final.IncomingSlots[0].SourceLabel)
	assert.Equal(t, "Group B Winner", final.IncomingSlots[1].SourceLabel)
	assert.Equal(t, "Group A Runner-up", final.IncomingSlots[2].SourceLabel)
	assert.Equal(t, "Group B Runner-up", final.IncomingSlots[3].SourceLabel)
}

func TestResolveIncomingSlotsAdvancingCap(t *testing.T) {
	stages := ResolveIncomingSlots([]StageConfig{
		twoGroupStage(StageGroup),
		{ID: "s2", Name: "Final", Order: 2, Type: StageFinal, AdvancingTeamCount: 2},
	})
	final := stages[1]
	require.Len(t, final.IncomingSlots, 2)
	assert.Equal(t, "Group A 1st", final.IncomingSlots[0].SourceLabel)
	assert.Equal(t, "Group B 1st", final.IncomingSlots[1].SourceLabel)
}

func TestResolveIncomingSlotsFinalistFallback(t *testing.T) {
	stages := ResolveIncomingSlots([]StageConfig{
		{ID: "s1", Name: "Knockout", Order: 1, Type: StageKnockout, Teams: seededTeams("T", 8)},
		{ID: "s2", Name: "Final", Order: 2, Type: StageFinal},
	})
	final := stages[1]
	require.Len(t, final.IncomingSlots, 2)
	assert.Equal(t, "Finalist 1", final.IncomingSlots[0].SourceLabel)
	assert.Equal(t, "Finalist 2", final.IncomingSlots[1].SourceLabel)
}

func TestSnakeDistribution(t *testing.T) {
	// Four GSL groups feed two new GSL groups. Winners land on seeds 1 and
	// 3, runners-up on seeds 2 and 4, no group keeps two teams from the
	// same source group, and the snake mixes the pools.
	first := StageConfig{
		ID:    "s1",
		Name:  "Opening Groups",
		Order: 1,
		Type:  StageGSLGroups,
		Groups: []GroupConfig{
			{ID: "gA", Name: "Group A", Order: 1, Teams: seededTeams("A", 4)},
			{ID: "gB", Name: "Group B", Order: 2, Teams: seededTeams("B", 4)},
			{ID: "gC", Name: "Group C", Order: 3, Teams: seededTeams("C", 4)},
			{ID: "gD", Name: "Group D", Order: 4, Teams: seededTeams("D", 4)},
		},
	}
	second := StageConfig{
		ID:    "s2",
		Name:  "Championship Groups",
		Order: 2,
		Type:  StageGSLGroups,
		Groups: []GroupConfig{
			{ID: "gE", Name: "Group E", Order: 1},
			{ID: "gF", Name: "Group F", Order: 2},
		},
	}

	stages := ResolveIncomingSlots([]StageConfig{first, second})
	for _, g := range stages[1].Groups {
		require.Len(t, g.Incoming, 4, g.Name)

		bySeed := make(map[int]string)
		for _, slot := range g.Incoming {
			bySeed[slot.SeedPosition] = slot.SourceLabel
		}
		require.Len(t, bySeed, 4, "seeds 1..4 all assigned in %s", g.Name)

		// Seeds 1 and 3 hold winners, 2 and 4 runners-up: the opening GSL
		// pairings put first seeds against second seeds.
		assert.Contains(t, bySeed[1], "Winner", g.Name)
		assert.Contains(t, bySeed[3], "Winner", g.Name)
		assert.Contains(t, bySeed[2], "Runner-up", g.Name)
		assert.Contains(t, bySeed[4], "Runner-up", g.Name)

		// No two teams from the same source group.
		sources := make(map[string]bool)
		for _, slot := range g.Incoming {
			src := slot.SourceLabel[:len("Group X")]
			assert.False(t, sources[src], "%s holds two teams from %s", g.Name, src)
			sources[src] = true
		}
	}
}

func TestResolveLeavesExplicitSlotsAlone(t *testing.T) {
	explicit := []IncomingTeamSlot{{SeedPosition: 1, SourceLabel: "Custom 1"}, {SeedPosition: 2, SourceLabel: "Custom 2"}}
	stages := ResolveIncomingSlots([]StageConfig{
		twoGroupStage(StageGroup),
		{ID: "s2", Name: "Final", Order: 2, Type: StageFinal, IncomingSlots: explicit},
	})
	assert.Equal(t, explicit, stages[1].IncomingSlots)
}
