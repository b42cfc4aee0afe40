// internal/scheduling/labels.go
// Source-label construction and parsing. Cross-stage dependencies are
// expressed as human-readable labels ("Group A 1st", "Winner M3") that the
// result propagator parses back. The helpers here build the group-position
// labels and parse both kinds; the bracket generators build their
// "Winner "/"Loser " labels inline.

package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketRefPattern   = regexp.MustCompile(`(?i)^(winner|loser)\W*(.+)$`)
	matchRefRemainder   = regexp.MustCompile(`^[a-z]?\d+\s*(winner|loser)`)
	ordinalPositionExpr = regexp.MustCompile(`^(\d+)(st|nd|rd|th)$`)
)

// BracketRefKind distinguishes winner from loser references.
type BracketRefKind string

const (
	RefWinner BracketRefKind = "winner"
	RefLoser  BracketRefKind = "loser"
)

// MatchBracketRef reports whether source references the given bracket
// position ("Winner M3", "Loser of SF1", case-insensitive) and which side
// of the result it wants.
func MatchBracketRef(source, bracketPosition string) (BracketRefKind, bool) {
	m := bracketRefPattern.FindStringSubmatch(strings.TrimSpace(source))
	if m == nil {
		return "", false
	}
	if !strings.EqualFold(strings.TrimSpace(trimRefFiller(m[2])), bracketPosition) {
		return "", false
	}
	return BracketRefKind(strings.ToLower(m[1])), true
}

// trimRefFiller drops connective words between the kind and the position,
// so "Loser of SF1" resolves like "Loser SF1".
func trimRefFiller(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "of "); ok {
		return strings.TrimSpace(s[len(s)-len(rest):])
	}
	return s
}

// ParseGroupPosition extracts the standings position a source label refers
// to within the named group, or nil when the label is not a position
// reference for that group. "Group A 1st" parses as 1 for "Group A";
// "Group A A1 Winner" does not — it is a match reference inside a
// similarly named group, the canonical false-positive this guards against.
func ParseGroupPosition(source, groupName string) *int {
	src := strings.ToLower(strings.TrimSpace(source))
	name := strings.ToLower(strings.TrimSpace(groupName))
	if name == "" || !strings.HasPrefix(src, name) {
		return nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(src, name))
	if matchRefRemainder.MatchString(rest) {
		return nil
	}

	switch {
	case rest == "winner":
		pos := 1
		return &pos
	case rest == "runner-up" || rest == "runnerup":
		pos := 2
		return &pos
	}

	if m := ordinalPositionExpr.FindStringSubmatch(rest); m != nil {
		pos, err := strconv.Atoi(m[1])
		if err == nil {
			return &pos
		}
	}
	return nil
}

// Ordinal renders 1 -> "1st", 2 -> "2nd", 11 -> "11th".
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// GroupPositionLabel builds the advancement label for a group standing.
// GSL groups use Winner/Runner-up; everything else uses ordinals.
func GroupPositionLabel(groupName string, position int, gsl bool) string {
	if gsl {
		switch position {
		case 1:
			return groupName + " Winner"
		case 2:
			return groupName + " Runner-up"
		}
	}
	return fmt.Sprintf("%s %s", groupName, Ordinal(position))
}
