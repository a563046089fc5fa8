package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/brackethq/competition-core/brackets"
	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
)

// BracketService generates and clears single-elimination brackets.
type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID, actorID int) ([]*models.Match, error)
	ClearBracket(ctx context.Context, tournamentID, actorID int) (int, error)
}

type bracketService struct {
	txRunner       repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	roles          RoleService
	audit          AuditLogger
	notifier       Notifier
	generator      brackets.Generator
	logger         *slog.Logger
}

func NewBracketService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	roles RoleService,
	audit AuditLogger,
	notifier Notifier,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		txRunner:       txRunner,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		roles:          roles,
		audit:          audit,
		notifier:       notifier,
		generator:      brackets.NewSingleEliminationGenerator(),
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID, actorID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.roles.RequireAtLeast(ctx, tournament, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatSingleElimination {
		return nil, fmt.Errorf("%w: tournament %d has format %s", ErrWrongTournamentFormat, tournamentID, tournament.Format)
	}
	if tournament.IsFinished() {
		return nil, ErrTournamentFinished
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(teams)
	if err != nil {
		return nil, err
	}

	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	var created []*models.Match
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// The row lock serializes concurrent generation attempts with the
		// existing-matches guard below.
		if _, lockErr := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID); lockErr != nil {
			return lockErr
		}
		count, countErr := s.matchRepo.CountByTournament(ctx, exec, tournamentID)
		if countErr != nil {
			return countErr
		}
		if count > 0 {
			return fmt.Errorf("%w: tournament %d has %d matches", ErrMatchesAlreadyExist, tournamentID, count)
		}

		created = make([]*models.Match, 0, len(generated))
		byCoord := make(map[[2]int]*models.Match, len(generated))

		// First pass inserts every match without links; ids do not exist yet
		// for later rounds.
		for _, g := range generated {
			m := &models.Match{
				TournamentID:    tournamentID,
				Round:           g.Round,
				MatchNumber:     g.MatchNumber,
				HomeTeamID:      g.HomeTeamID,
				AwayTeamID:      g.AwayTeamID,
				Status:          models.MatchStatusScheduled,
				IsBye:           g.IsBye,
				BracketPosition: g.BracketPosition,
			}
			if g.IsBye {
				m.Status = models.MatchStatusCompleted
				m.WinnerTeamID = g.ByeTeamID
			}
			if createErr := s.matchRepo.Create(ctx, exec, m); createErr != nil {
				return createErr
			}
			created = append(created, m)
			byCoord[[2]int{g.Round, g.MatchNumber}] = m
		}

		// Second pass resolves (round, matchNumber) coordinates to the ids
		// assigned above.
		for i, g := range generated {
			if !g.HasNext() {
				continue
			}
			next, ok := byCoord[[2]int{g.NextRound, g.NextMatchNumber}]
			if !ok {
				return fmt.Errorf("generated match %s links to missing match R%d-M%d",
					g.BracketPosition, g.NextRound, g.NextMatchNumber)
			}
			m := created[i]
			m.NextMatchID = &next.ID
			slot := g.WinnerToSlot
			m.WinnerToSlot = &slot
			if linkErr := s.matchRepo.UpdateNextMatchInfo(ctx, exec, m.ID, m.NextMatchID, m.WinnerToSlot); linkErr != nil {
				return linkErr
			}
		}

		for _, g := range generated {
			if !g.IsBye || g.ByeTeamID == nil {
				continue
			}
			team, ok := teamsByID[*g.ByeTeamID]
			if !ok {
				return fmt.Errorf("bye team %d is not part of tournament %d", *g.ByeTeamID, tournamentID)
			}
			team.HasBye = true
			if updErr := s.teamRepo.UpdateRecord(ctx, exec, team); updErr != nil {
				return updErr
			}
		}

		return s.audit.Record(ctx, exec, "bracket.generate", actorID, tournamentID, nil, map[string]interface{}{
			"match_count": len(created),
			"team_count":  len(teams),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(created)),
		slog.Int("teams", len(teams)))

	s.notifier.BroadcastToRoom(strconv.Itoa(tournamentID), brackets.Event{
		Type:    brackets.EventBracketGenerated,
		Payload: created,
	})
	return created, nil
}

func (s *bracketService) ClearBracket(ctx context.Context, tournamentID, actorID int) (int, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return 0, err
	}
	if err := s.roles.RequireAtLeast(ctx, tournament, actorID, models.RoleAdmin); err != nil {
		return 0, err
	}
	if tournament.IsFinished() {
		return 0, ErrTournamentFinished
	}

	var deleted int
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, lockErr := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID); lockErr != nil {
			return lockErr
		}
		var delErr error
		deleted, delErr = s.matchRepo.DeleteByTournament(ctx, exec, tournamentID)
		if delErr != nil {
			return delErr
		}
		return s.audit.Record(ctx, exec, "bracket.clear", actorID, tournamentID, map[string]interface{}{
			"match_count": deleted,
		}, nil)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("bracket cleared",
		slog.Int("tournament_id", tournamentID),
		slog.Int("deleted", deleted))

	s.notifier.BroadcastToRoom(strconv.Itoa(tournamentID), brackets.Event{
		Type:    brackets.EventBracketCleared,
		Payload: map[string]int{"deleted": deleted},
	})
	return deleted, nil
}
