package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackethq/competition-core/brackets"
	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/services"
)

func newRoundRobinFixture(t *testing.T, teamCount int) (*fixture, []*models.Team) {
	t.Helper()
	f := newFixture()
	f.addTournament(tournamentID, models.FormatRoundRobin, models.StatusActive)
	teams := f.addSeededTeams(tournamentID, teamCount)
	f.grantRole(tournamentID, adminID, models.RoleAdmin)
	f.grantRole(tournamentID, scorekeeperID, models.RoleScorekeeper)
	return f, teams
}

func TestGenerateRoundRobin_CreatesFullFixtureList(t *testing.T) {
	f, _ := newRoundRobinFixture(t, 4)

	matches, err := f.schedule.GenerateRoundRobin(context.Background(), tournamentID, adminID)
	require.NoError(t, err)
	require.Len(t, matches, 6)

	for _, m := range matches {
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.False(t, m.IsBye)
		assert.Nil(t, m.NextMatchID)
		require.NotNil(t, m.HomeTeamID)
		require.NotNil(t, m.AwayTeamID)
		assert.Positive(t, m.ID)
	}

	assert.Equal(t, []string{brackets.EventScheduleGenerated}, f.notifier.eventTypes())
	assert.Equal(t, []string{"schedule.generate"}, f.audit.actions)
}

func TestGenerateRoundRobin_SecondCallRefused(t *testing.T) {
	f, _ := newRoundRobinFixture(t, 4)

	_, err := f.schedule.GenerateRoundRobin(context.Background(), tournamentID, adminID)
	require.NoError(t, err)

	_, err = f.schedule.GenerateRoundRobin(context.Background(), tournamentID, adminID)
	assert.ErrorIs(t, err, services.ErrMatchesAlreadyExist)
}

func TestGenerateRoundRobin_Authorization(t *testing.T) {
	f, _ := newRoundRobinFixture(t, 4)

	_, err := f.schedule.GenerateRoundRobin(context.Background(), tournamentID, scorekeeperID)
	assert.ErrorIs(t, err, services.ErrForbiddenOperation)
}

func TestGenerateRoundRobin_WrongFormat(t *testing.T) {
	f, _ := newEliminationFixture(t, 4)

	_, err := f.schedule.GenerateRoundRobin(context.Background(), tournamentID, adminID)
	assert.ErrorIs(t, err, services.ErrWrongTournamentFormat)
}
