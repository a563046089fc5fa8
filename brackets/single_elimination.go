package brackets

import (
	"fmt"

	"github.com/brackethq/competition-core/models"
)

var _ Generator = (*SingleEliminationGenerator)(nil)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() *SingleEliminationGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a full single-elimination tree from seeded teams.
//
// The bracket is padded to the next power of two; the top seeds absorb the
// missing slots as byes. Slotting uses the standard mirrored order (seed 1 vs
// the lowest seed, halves split so seeds 1 and 2 can only meet in the final).
// Bye matches come out pre-completed with the byed team already placed into
// the next round's slot.
func (g *SingleEliminationGenerator) Generate(teams []*models.Team) ([]*GeneratedMatch, error) {
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, n)
	}

	teamBySeed, err := indexBySeed(teams)
	if err != nil {
		return nil, err
	}

	bracketSize := 1
	for bracketSize < n {
		bracketSize <<= 1
	}

	slots := seedingOrder(bracketSize)

	rounds := 0
	for s := bracketSize; s > 1; s >>= 1 {
		rounds++
	}

	// Matches indexed by [round][matchNumber-1].
	byRound := make([][]*GeneratedMatch, rounds+1)
	all := make([]*GeneratedMatch, 0, bracketSize-1)

	for r := 1; r <= rounds; r++ {
		count := bracketSize >> uint(r)
		byRound[r] = make([]*GeneratedMatch, count)
		for i := 0; i < count; i++ {
			gm := &GeneratedMatch{
				Round:           r,
				MatchNumber:     i + 1,
				BracketPosition: bracketPosition(r, i+1, count),
			}
			if r < rounds {
				gm.NextRound = r + 1
				gm.NextMatchNumber = i/2 + 1
				if i%2 == 0 {
					gm.WinnerToSlot = models.SlotHome
				} else {
					gm.WinnerToSlot = models.SlotAway
				}
			}
			byRound[r][i] = gm
			all = append(all, gm)
		}
	}

	// Fill round 1 from the mirrored slot order. A slot whose seed exceeds the
	// team count is empty; its opponent receives a bye. Two empty slots can
	// never pair up because the lower seed of a pair is at most bracketSize/2,
	// which is below the team count by construction.
	for i := 0; i < bracketSize/2; i++ {
		gm := byRound[1][i]
		homeSeed, awaySeed := slots[2*i], slots[2*i+1]

		var home, away *models.Team
		if homeSeed <= n {
			home = teamBySeed[homeSeed]
		}
		if awaySeed <= n {
			away = teamBySeed[awaySeed]
		}

		switch {
		case home != nil && away != nil:
			gm.HomeTeamID = intPtr(home.ID)
			gm.AwayTeamID = intPtr(away.ID)
		case home != nil:
			gm.IsBye = true
			gm.HomeTeamID = intPtr(home.ID)
			gm.ByeTeamID = intPtr(home.ID)
		default:
			gm.IsBye = true
			gm.HomeTeamID = intPtr(away.ID)
			gm.ByeTeamID = intPtr(away.ID)
		}

		if gm.IsBye && gm.HasNext() {
			placeIntoSlot(byRound[gm.NextRound][gm.NextMatchNumber-1], gm.WinnerToSlot, *gm.ByeTeamID)
		}
	}

	return all, nil
}

func indexBySeed(teams []*models.Team) (map[int]*models.Team, error) {
	n := len(teams)
	bySeed := make(map[int]*models.Team, n)
	for _, team := range teams {
		if team.Seed == nil {
			return nil, fmt.Errorf("%w: team %d has no seed", ErrInvalidSeeds, team.ID)
		}
		seed := *team.Seed
		if seed < 1 || seed > n {
			return nil, fmt.Errorf("%w: seed %d is outside 1..%d", ErrInvalidSeeds, seed, n)
		}
		if _, exists := bySeed[seed]; exists {
			return nil, fmt.Errorf("%w: seed %d is duplicated", ErrInvalidSeeds, seed)
		}
		bySeed[seed] = team
	}
	// n entries within 1..n and no duplicates implies contiguity.
	return bySeed, nil
}

// seedingOrder returns seeds in bracket-slot order for a power-of-two size,
// built by repeatedly complementing each seed against (2^r + 1). For size 8:
// 1 8 4 5 2 7 3 6.
func seedingOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		complement := len(order)*2 + 1
		next := make([]int, 0, len(order)*2)
		for _, s := range order {
			next = append(next, s, complement-s)
		}
		order = next
	}
	return order
}

func bracketPosition(round, number, matchesInRound int) string {
	switch matchesInRound {
	case 1:
		return "Final"
	case 2:
		return fmt.Sprintf("SF%d", number)
	case 4:
		return fmt.Sprintf("QF%d", number)
	default:
		return fmt.Sprintf("R%d-M%d", round, number)
	}
}

func placeIntoSlot(gm *GeneratedMatch, slot int, teamID int) {
	if slot == models.SlotHome {
		gm.HomeTeamID = intPtr(teamID)
	} else {
		gm.AwayTeamID = intPtr(teamID)
	}
}

func intPtr(v int) *int {
	return &v
}
