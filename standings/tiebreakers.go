package standings

import (
	"fmt"

	"github.com/brackethq/competition-core/models"
)

// headToHeadResult is the outcome of the one meeting between a pair of teams.
// Every pair meets at most once in the formats this core generates.
type headToHeadResult struct {
	winnerTeamID int
	tie          bool
}

type pairKey struct {
	lo, hi int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// headToHeadIndex maps team pairs to the decided result of their meeting.
// Matches without both slots filled or without a recorded result are skipped;
// forfeits count, they carry a winner.
func headToHeadIndex(matches []*models.Match) map[pairKey]headToHeadResult {
	index := make(map[pairKey]headToHeadResult)
	for _, m := range matches {
		if !m.HasResult() || m.HomeTeamID == nil || m.AwayTeamID == nil {
			continue
		}
		key := makePairKey(*m.HomeTeamID, *m.AwayTeamID)
		if m.WinnerTeamID == nil {
			index[key] = headToHeadResult{tie: true}
		} else {
			index[key] = headToHeadResult{winnerTeamID: *m.WinnerTeamID}
		}
	}
	return index
}

// compareByRule applies a single tiebreaker to two teams with equal points.
// Negative means a ranks higher, positive means b ranks higher, zero means the
// rule cannot separate them (equal or undefined) and the next rule applies.
func compareByRule(rule models.TiebreakerRule, a, b *models.Team, h2h map[pairKey]headToHeadResult) (int, error) {
	switch rule {
	case models.TiebreakerHeadToHead:
		result, played := h2h[makePairKey(a.ID, b.ID)]
		if !played || result.tie {
			return 0, nil
		}
		if result.winnerTeamID == a.ID {
			return -1, nil
		}
		return 1, nil
	case models.TiebreakerGoalDifferential:
		return descending(a.GoalDifferential(), b.GoalDifferential()), nil
	case models.TiebreakerGoalsScored:
		return descending(a.GoalsFor, b.GoalsFor), nil
	default:
		return 0, fmt.Errorf("unknown tiebreaker rule %q", rule)
	}
}

// compareChain runs the configured rules in order and returns the first
// non-zero verdict. Zero means the whole chain left the pair unordered.
func compareChain(rules []models.TiebreakerRule, a, b *models.Team, h2h map[pairKey]headToHeadResult) (int, error) {
	for _, rule := range rules {
		c, err := compareByRule(rule, a, b, h2h)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

func descending(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
