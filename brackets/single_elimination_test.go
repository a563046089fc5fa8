package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackethq/competition-core/models"
)

func seededTeams(n int) []*models.Team {
	teams := make([]*models.Team, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		teams[i] = &models.Team{
			ID:     100 + i,
			Name:   fmt.Sprintf("Team %d", seed),
			Seed:   &seed,
			Status: models.TeamStatusActive,
		}
	}
	return teams
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// coordinate path from a match to the final, following next links.
func pathToFinal(t *testing.T, byCoord map[[2]int]*GeneratedMatch, start *GeneratedMatch) [][2]int {
	t.Helper()
	path := [][2]int{}
	current := start
	for current.HasNext() {
		coord := [2]int{current.NextRound, current.NextMatchNumber}
		next, ok := byCoord[coord]
		require.True(t, ok, "match %s links to missing R%d-M%d",
			current.BracketPosition, current.NextRound, current.NextMatchNumber)
		path = append(path, coord)
		current = next
	}
	return path
}

func TestSingleEliminationGenerate_Properties(t *testing.T) {
	g := NewSingleEliminationGenerator()

	for n := 2; n <= 33; n++ {
		t.Run(fmt.Sprintf("teams=%d", n), func(t *testing.T) {
			teams := seededTeams(n)
			matches, err := g.Generate(teams)
			require.NoError(t, err)

			padded := nextPowerOfTwo(n)
			assert.Len(t, matches, padded-1)

			byCoord := make(map[[2]int]*GeneratedMatch, len(matches))
			byeCount := 0
			finals := 0
			for _, m := range matches {
				byCoord[[2]int{m.Round, m.MatchNumber}] = m
				if m.IsBye {
					assert.Equal(t, 1, m.Round, "byes only appear in round 1")
					require.NotNil(t, m.ByeTeamID)
					require.NotNil(t, m.HomeTeamID)
					assert.Equal(t, *m.ByeTeamID, *m.HomeTeamID)
					assert.Nil(t, m.AwayTeamID)
					byeCount++
				}
				if !m.HasNext() {
					finals++
					assert.Equal(t, "Final", m.BracketPosition)
				}
			}
			assert.Equal(t, padded-n, byeCount)
			assert.Equal(t, 1, finals, "every chain must terminate at a single final")

			// Every match's chain reaches the final.
			var finalCoord [2]int
			for coord, m := range byCoord {
				if !m.HasNext() {
					finalCoord = coord
				}
			}
			for _, m := range matches {
				if !m.HasNext() {
					continue
				}
				path := pathToFinal(t, byCoord, m)
				assert.Equal(t, finalCoord, path[len(path)-1])
			}

			// Seeds 1 and 2 cannot meet before the final: their round-1
			// progression paths first intersect at the final. With two teams
			// the opening match is the final, so there is nothing to check.
			if padded > 2 {
				m1 := firstRoundMatchOf(t, matches, teams[0].ID)
				m2 := firstRoundMatchOf(t, matches, teams[1].ID)
				require.NotEqual(t, m1, m2, "seeds 1 and 2 must start in different matches")

				path1 := pathToFinal(t, byCoord, m1)
				path2 := pathToFinal(t, byCoord, m2)
				shared := map[[2]int]bool{}
				for _, c := range path1 {
					shared[c] = true
				}
				var firstCommon [2]int
				found := false
				for _, c := range path2 {
					if shared[c] {
						firstCommon = c
						found = true
						break
					}
				}
				require.True(t, found)
				assert.Equal(t, finalCoord, firstCommon)
			}

			// Match numbers are 1-based and sequential within each round.
			perRound := map[int][]int{}
			for _, m := range matches {
				perRound[m.Round] = append(perRound[m.Round], m.MatchNumber)
			}
			for round, numbers := range perRound {
				seen := map[int]bool{}
				for _, num := range numbers {
					assert.False(t, seen[num], "duplicate match number %d in round %d", num, round)
					seen[num] = true
				}
				for i := 1; i <= len(numbers); i++ {
					assert.True(t, seen[i], "round %d is missing match number %d", round, i)
				}
			}
		})
	}
}

func firstRoundMatchOf(t *testing.T, matches []*GeneratedMatch, teamID int) *GeneratedMatch {
	t.Helper()
	for _, m := range matches {
		if m.Round != 1 {
			continue
		}
		if (m.HomeTeamID != nil && *m.HomeTeamID == teamID) ||
			(m.AwayTeamID != nil && *m.AwayTeamID == teamID) {
			return m
		}
	}
	t.Fatalf("team %d not found in round 1", teamID)
	return nil
}

func TestSingleEliminationGenerate_FiveTeams(t *testing.T) {
	teams := seededTeams(5)
	matches, err := NewSingleEliminationGenerator().Generate(teams)
	require.NoError(t, err)
	require.Len(t, matches, 7)

	byCoord := make(map[[2]int]*GeneratedMatch)
	for _, m := range matches {
		byCoord[[2]int{m.Round, m.MatchNumber}] = m
	}

	// Top three seeds sit out round 1; 4 vs 5 is the only real match.
	byes := map[int]bool{}
	var real *GeneratedMatch
	for _, m := range matches {
		if m.Round != 1 {
			continue
		}
		if m.IsBye {
			byes[*m.ByeTeamID] = true
		} else {
			real = m
		}
	}
	assert.Len(t, byes, 3)
	for _, team := range teams[:3] {
		assert.True(t, byes[team.ID], "seed %d should receive a bye", *team.Seed)
	}
	require.NotNil(t, real)
	assert.Equal(t, teams[3].ID, *real.HomeTeamID)
	assert.Equal(t, teams[4].ID, *real.AwayTeamID)

	// Two semifinals with the byed seeds pre-placed, then the final.
	sf1 := byCoord[[2]int{2, 1}]
	sf2 := byCoord[[2]int{2, 2}]
	final := byCoord[[2]int{3, 1}]
	require.NotNil(t, sf1)
	require.NotNil(t, sf2)
	require.NotNil(t, final)

	assert.Equal(t, "SF1", sf1.BracketPosition)
	assert.Equal(t, "SF2", sf2.BracketPosition)
	assert.Equal(t, "Final", final.BracketPosition)

	require.NotNil(t, sf1.HomeTeamID)
	assert.Equal(t, teams[0].ID, *sf1.HomeTeamID)
	assert.Nil(t, sf1.AwayTeamID, "awaits the 4v5 winner")

	require.NotNil(t, sf2.HomeTeamID)
	require.NotNil(t, sf2.AwayTeamID)
	assert.Equal(t, teams[1].ID, *sf2.HomeTeamID)
	assert.Equal(t, teams[2].ID, *sf2.AwayTeamID)

	assert.False(t, final.HasNext())
}

func TestSingleEliminationGenerate_SeedValidation(t *testing.T) {
	g := NewSingleEliminationGenerator()

	t.Run("fewer than two teams", func(t *testing.T) {
		_, err := g.Generate(seededTeams(1))
		assert.ErrorIs(t, err, ErrNotEnoughTeams)
	})

	t.Run("missing seed", func(t *testing.T) {
		teams := seededTeams(4)
		teams[2].Seed = nil
		_, err := g.Generate(teams)
		assert.ErrorIs(t, err, ErrInvalidSeeds)
	})

	t.Run("duplicate seed", func(t *testing.T) {
		teams := seededTeams(4)
		dup := 2
		teams[3].Seed = &dup
		_, err := g.Generate(teams)
		assert.ErrorIs(t, err, ErrInvalidSeeds)
	})

	t.Run("non-contiguous seeds", func(t *testing.T) {
		teams := seededTeams(4)
		gap := 7
		teams[3].Seed = &gap
		_, err := g.Generate(teams)
		assert.ErrorIs(t, err, ErrInvalidSeeds)
	})
}

func TestSeedingOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, seedingOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, seedingOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, seedingOrder(8))
}
