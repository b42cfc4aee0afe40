package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupPosition(t *testing.T) {
	cases := []struct {
		source string
		group  string
		want   int // 0 means nil
	}{
		{"Group A 1st", "Group A", 1},
		{"Group A 2nd", "Group A", 2},
		{"Group A 3rd", "Group A", 3},
		{"Group A 11th", "Group A", 11},
		{"Group A Winner", "Group A", 1},
		{"Group A Runner-up", "Group A", 2},
		{"Group A Runnerup", "Group A", 2},
		{"  group a 1ST  ", "Group A", 1},
		{"GROUP A WINNER", "group a", 1},
		// Match references inside a similarly named group must not parse
		// as positions of "Group A".
		{"Group A A1 Winner", "Group A", 0},
		{"Group A 1 Winner", "Group A", 0},
		// Different group entirely.
		{"Group B 1st", "Group A", 0},
		{"Winner M3", "Group A", 0},
		{"Group A", "Group A", 0},
		{"Group A first", "Group A", 0},
	}

	for _, tc := range cases {
		got := ParseGroupPosition(tc.source, tc.group)
		if tc.want == 0 {
			assert.Nil(t, got, "source=%q group=%q", tc.source, tc.group)
		} else {
			require.NotNil(t, got, "source=%q group=%q", tc.source, tc.group)
			assert.Equal(t, tc.want, *got, "source=%q group=%q", tc.source, tc.group)
		}
	}
}

func TestParseGroupPositionIdempotent(t *testing.T) {
	// Whitespace and case normalisation is stable: parsing the same label
	// repeatedly, or with varied casing and padding, gives the same result.
	variants := []string{"Group X 2nd", "group x 2ND", "  Group X   2nd "}
	for _, v := range variants {
		first := ParseGroupPosition(v, "Group X")
		second := ParseGroupPosition(v, " GROUP X ")
		require.NotNil(t, first, v)
		require.NotNil(t, second, v)
		assert.Equal(t, 2, *first, v)
		assert.Equal(t, *first, *second, v)
	}
}

func TestMatchBracketRef(t *testing.T) {
	kind, ok := MatchBracketRef("Winner M3", "M3")
	require.True(t, ok)
	assert.Equal(t, RefWinner, kind)

	kind, ok = MatchBracketRef("loser m3", "M3")
	require.True(t, ok)
	assert.Equal(t, RefLoser, kind)

	kind, ok = MatchBracketRef("Loser of SF1", "SF1")
	require.True(t, ok)
	assert.Equal(t, RefLoser, kind)

	_, ok = MatchBracketRef("Winner M3", "M30")
	assert.False(t, ok, "position must match exactly")

	_, ok = MatchBracketRef("Winner M30", "M3")
	assert.False(t, ok, "position must match exactly")

	_, ok = MatchBracketRef("Group A 1st", "M3")
	assert.False(t, ok)

	kind, ok = MatchBracketRef("Winner W-F", "W-F")
	require.True(t, ok)
	assert.Equal(t, RefWinner, kind)

	kind, ok = MatchBracketRef("Loser LB-R2-1", "LB-R2-1")
	require.True(t, ok)
	assert.Equal(t, RefLoser, kind)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 24: "24th",
	}
	for n, want := range cases {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestGroupPositionLabel(t *testing.T) {
	assert.Equal(t, "Group A 1st", GroupPositionLabel("Group A", 1, false))
	assert.Equal(t, "Group A 2nd", GroupPositionLabel("Group A", 2, false))
	assert.Equal(t, "Group A Winner", GroupPositionLabel("Group A", 1, true))
	assert.Equal(t, "Group A Runner-up", GroupPositionLabel("Group A", 2, true))
	// GSL placements beyond second fall back to ordinals.
	assert.Equal(t, "Group A 3rd", GroupPositionLabel("Group A", 3, true))
}
