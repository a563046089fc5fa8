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

// ScheduleService generates round-robin fixture lists.
type ScheduleService interface {
	GenerateRoundRobin(ctx context.Context, tournamentID, actorID int) ([]*models.Match, error)
}

type scheduleService struct {
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

func NewScheduleService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	roles RoleService,
	audit AuditLogger,
	notifier Notifier,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		txRunner:       txRunner,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		roles:          roles,
		audit:          audit,
		notifier:       notifier,
		generator:      brackets.NewRoundRobinGenerator(),
		logger:         logger,
	}
}

func (s *scheduleService) GenerateRoundRobin(ctx context.Context, tournamentID, actorID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.roles.RequireAtLeast(ctx, tournament, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatRoundRobin {
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

	var created []*models.Match
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
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
		for _, g := range generated {
			m := &models.Match{
				TournamentID:    tournamentID,
				Round:           g.Round,
				MatchNumber:     g.MatchNumber,
				HomeTeamID:      g.HomeTeamID,
				AwayTeamID:      g.AwayTeamID,
				Status:          models.MatchStatusScheduled,
				BracketPosition: g.BracketPosition,
			}
			if createErr := s.matchRepo.Create(ctx, exec, m); createErr != nil {
				return createErr
			}
			created = append(created, m)
		}

		return s.audit.Record(ctx, exec, "schedule.generate", actorID, tournamentID, nil, map[string]interface{}{
			"match_count": len(created),
			"team_count":  len(teams),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round-robin schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(created)),
		slog.Int("teams", len(teams)))

	s.notifier.BroadcastToRoom(strconv.Itoa(tournamentID), brackets.Event{
		Type:    brackets.EventScheduleGenerated,
		Payload: created,
	})
	return created, nil
}
