package services

import (
	"context"

	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
)

// MatchService serves read access to the match graph.
type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	teamRepo  repositories.TeamRepository
}

func NewMatchService(matchRepo repositories.MatchRepository, teamRepo repositories.TeamRepository) MatchService {
	return &matchService{matchRepo: matchRepo, teamRepo: teamRepo}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if m.WinnerTeamID != nil {
		winner, err := s.teamRepo.GetByID(ctx, nil, *m.WinnerTeamID)
		if err != nil {
			return nil, err
		}
		m.WinnerTeamName = &winner.Name
	}
	return m, nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, round, status)
}
