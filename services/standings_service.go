package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
	"github.com/brackethq/competition-core/standings"
)

// StandingsService derives the ranked table for a tournament. Read-only, no
// permission required.
type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) (*models.StandingsTable, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (*models.StandingsTable, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	rules, err := tournament.TiebreakerOrder()
	if err != nil {
		return nil, err
	}

	var (
		teams   []*models.Team
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var loadErr error
		teams, loadErr = s.teamRepo.ListByTournament(gCtx, nil, tournamentID)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		matches, loadErr = s.matchRepo.ListByTournament(gCtx, nil, tournamentID, nil, nil)
		return loadErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table, err := standings.Calculate(teams, matches, standings.Config{
		Tiebreakers:       rules,
		PlayoffTeamsCount: tournament.PlayoffTeamsCount,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("standings calculated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("rows", len(table.Rows)),
		slog.Int("tied_groups", len(table.TiedGroups)))
	return table, nil
}
