package brackets

import (
	"fmt"

	"github.com/brackethq/competition-core/models"
)

var _ Generator = (*RoundRobinGenerator)(nil)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a single round-robin fixture list with the circle method:
// one slot stays fixed while the rest rotate one position per round, pairing
// position k with position size-1-k. An odd team count gets a synthetic bye
// marker in the fixed slot and its pairing is omitted from the output.
//
// Home/away: the fixed-slot pairing alternates side by round parity; every
// other pairing keeps the rotating "top row" at home. Each rotating team
// passes through every position exactly once, which bounds every team's
// home/away difference by 1.
func (g *RoundRobinGenerator) Generate(teams []*models.Team) ([]*GeneratedMatch, error) {
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, n)
	}

	const byeMarker = 0

	arr := make([]int, 0, n+1)
	if n%2 == 1 {
		arr = append(arr, byeMarker)
	}
	for _, team := range teams {
		arr = append(arr, team.ID)
	}

	size := len(arr)
	rounds := size - 1

	matches := make([]*GeneratedMatch, 0, n*(n-1)/2)
	for r := 0; r < rounds; r++ {
		matchNumber := 0
		for k := 0; k < size/2; k++ {
			a, b := arr[k], arr[size-1-k]
			if a == byeMarker || b == byeMarker {
				continue
			}
			home, away := a, b
			if k == 0 && r%2 == 1 {
				home, away = b, a
			}
			matchNumber++
			matches = append(matches, &GeneratedMatch{
				Round:           r + 1,
				MatchNumber:     matchNumber,
				HomeTeamID:      intPtr(home),
				AwayTeamID:      intPtr(away),
				BracketPosition: fmt.Sprintf("RR-R%d-M%d", r+1, matchNumber),
			})
		}

		// Rotate everything but the fixed slot one step clockwise.
		rotated := make([]int, size)
		rotated[0] = arr[0]
		rotated[1] = arr[size-1]
		copy(rotated[2:], arr[1:size-1])
		arr = rotated
	}

	return matches, nil
}
