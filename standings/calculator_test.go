package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackethq/competition-core/models"
)

func team(id, points, gf, ga int) *models.Team {
	return &models.Team{
		ID:           id,
		Name:         "Team " + string(rune('A'+id-1)),
		Points:       points,
		GoalsFor:     gf,
		GoalsAgainst: ga,
		Status:       models.TeamStatusActive,
	}
}

func completedMatch(homeID, awayID int, homeScore, awayScore int) *models.Match {
	m := &models.Match{
		HomeTeamID: &homeID,
		AwayTeamID: &awayID,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
		Status:     models.MatchStatusCompleted,
	}
	switch {
	case homeScore > awayScore:
		m.WinnerTeamID = &homeID
	case awayScore > homeScore:
		m.WinnerTeamID = &awayID
	}
	return m
}

func rankedIDs(table *models.StandingsTable) []int {
	ids := make([]int, len(table.Rows))
	for i, row := range table.Rows {
		ids[i] = row.TeamID
	}
	return ids
}

func TestCalculate_OrdersByPoints(t *testing.T) {
	teams := []*models.Team{
		team(1, 3, 0, 0),
		team(2, 9, 0, 0),
		team(3, 6, 0, 0),
	}

	table, err := Calculate(teams, nil, Config{})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 1}, rankedIDs(table))
	for i, row := range table.Rows {
		assert.Equal(t, i+1, row.Rank)
	}
	assert.Empty(t, table.TiedGroups)
}

func TestCalculate_FullyTiedTripleBecomesTiedGroup(t *testing.T) {
	// Identical points, goal differential, goals scored, no head-to-head data.
	teams := []*models.Team{
		team(1, 6, 4, 4),
		team(2, 6, 4, 4),
		team(3, 6, 4, 4),
	}

	table, err := Calculate(teams, nil, Config{})
	require.NoError(t, err)

	require.Len(t, table.TiedGroups, 1)
	assert.ElementsMatch(t, []int{1, 2, 3}, table.TiedGroups[0].TeamIDs)
	assert.NotEmpty(t, table.TiedGroups[0].Reason)

	// Still assigned consecutive ranks.
	require.Len(t, table.Rows, 3)
	for i, row := range table.Rows {
		assert.Equal(t, i+1, row.Rank)
	}
}

func TestCalculate_HeadToHeadBreaksTie(t *testing.T) {
	teams := []*models.Team{
		team(1, 6, 10, 2), // better goal differential
		team(2, 6, 5, 5),
	}
	// Team 2 won the direct meeting; head-to-head outranks goal differential.
	matches := []*models.Match{completedMatch(1, 2, 0, 1)}

	table, err := Calculate(teams, matches, Config{})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, rankedIDs(table))
	assert.Empty(t, table.TiedGroups)
}

func TestCalculate_TiedHeadToHeadFallsThroughToGoalDifferential(t *testing.T) {
	teams := []*models.Team{
		team(1, 7, 6, 6),
		team(2, 7, 8, 3),
	}
	matches := []*models.Match{completedMatch(1, 2, 2, 2)}

	table, err := Calculate(teams, matches, Config{})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, rankedIDs(table))
}

func TestCalculate_GoalsScoredIsLastResort(t *testing.T) {
	// Same points, never played each other, equal differential, team 2 scored more.
	teams := []*models.Team{
		team(1, 6, 3, 3),
		team(2, 6, 7, 7),
	}

	table, err := Calculate(teams, nil, Config{})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, rankedIDs(table))
}

func TestCalculate_CyclicHeadToHeadReportedAsTiedGroup(t *testing.T) {
	// 1 beat 2, 2 beat 3, 3 beat 1; every other metric identical.
	teams := []*models.Team{
		team(1, 3, 2, 2),
		team(2, 3, 2, 2),
		team(3, 3, 2, 2),
	}
	matches := []*models.Match{
		completedMatch(1, 2, 1, 0),
		completedMatch(2, 3, 1, 0),
		completedMatch(3, 1, 1, 0),
	}

	table, err := Calculate(teams, matches, Config{})
	require.NoError(t, err)

	require.Len(t, table.TiedGroups, 1)
	assert.ElementsMatch(t, []int{1, 2, 3}, table.TiedGroups[0].TeamIDs)
}

func TestCalculate_TiebreakerOverrideChangesOrder(t *testing.T) {
	teams := []*models.Team{
		team(1, 6, 9, 1), // best differential
		team(2, 6, 5, 4),
	}
	// Team 2 won head-to-head, but this tournament ranks by differential first.
	matches := []*models.Match{completedMatch(1, 2, 0, 1)}

	table, err := Calculate(teams, matches, Config{
		Tiebreakers: []models.TiebreakerRule{
			models.TiebreakerGoalDifferential,
			models.TiebreakerHeadToHead,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, rankedIDs(table))
}

func TestCalculate_PlayoffCutoff(t *testing.T) {
	teams := []*models.Team{
		team(1, 9, 0, 0),
		team(2, 6, 0, 0),
		team(3, 3, 0, 0),
		team(4, 0, 0, 0),
	}
	cutoff := 2

	table, err := Calculate(teams, nil, Config{PlayoffTeamsCount: &cutoff})
	require.NoError(t, err)

	require.Len(t, table.Rows, 4)
	assert.True(t, table.Rows[0].IsPlayoffBound)
	assert.True(t, table.Rows[1].IsPlayoffBound)
	assert.False(t, table.Rows[2].IsPlayoffBound)
	assert.False(t, table.Rows[3].IsPlayoffBound)

	// Without a cutoff nobody is flagged.
	table, err = Calculate(teams, nil, Config{})
	require.NoError(t, err)
	for _, row := range table.Rows {
		assert.False(t, row.IsPlayoffBound)
	}
}

func TestCalculate_GamesPlayedDerivedFromResults(t *testing.T) {
	teams := []*models.Team{
		team(1, 3, 1, 0),
		team(2, 0, 0, 1),
		team(3, 0, 0, 0),
	}
	scheduled := &models.Match{
		HomeTeamID: &teams[1].ID,
		AwayTeamID: &teams[2].ID,
		Status:     models.MatchStatusScheduled,
	}
	byeID := teams[0].ID
	bye := &models.Match{
		HomeTeamID:   &byeID,
		WinnerTeamID: &byeID,
		IsBye:        true,
		Status:       models.MatchStatusCompleted,
	}
	matches := []*models.Match{
		completedMatch(1, 2, 1, 0),
		scheduled,
		bye,
	}

	table, err := Calculate(teams, matches, Config{})
	require.NoError(t, err)

	played := map[int]int{}
	for _, row := range table.Rows {
		played[row.TeamID] = row.GamesPlayed
	}
	assert.Equal(t, 1, played[1], "bye must not count as a played game")
	assert.Equal(t, 1, played[2], "scheduled match must not count")
	assert.Equal(t, 0, played[3])
}
