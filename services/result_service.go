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

// EnterScoreInput carries one score submission. OvertimeWinnerID is required
// only for a tied elimination match.
type EnterScoreInput struct {
	HomeScore        int  `json:"home_score"`
	AwayScore        int  `json:"away_score"`
	OvertimeWinnerID *int `json:"overtime_winner_id,omitempty"`
}

// ResultService is the match result engine: score entry, forfeits, idempotent
// correction of prior results, and bracket advancement.
type ResultService interface {
	EnterScore(ctx context.Context, matchID, actorID int, input EnterScoreInput) (*models.Match, error)
	ForfeitMatch(ctx context.Context, matchID, actorID, forfeitingTeamID int, reason string) (*models.Match, error)
}

type resultService struct {
	txRunner       repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	roles          RoleService
	audit          AuditLogger
	notifier       Notifier
	logger         *slog.Logger
}

func NewResultService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	roles RoleService,
	audit AuditLogger,
	notifier Notifier,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		txRunner:       txRunner,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		roles:          roles,
		audit:          audit,
		notifier:       notifier,
		logger:         logger,
	}
}

// matchEffect is the delta a recorded result applied to the two team records.
// Applying it with sign -1 reverses a prior result before the corrected one is
// applied, so a second entry never double-counts.
type matchEffect struct {
	homeGoals int
	awayGoals int
	withGoals bool
	winnerID  *int // nil means a round-robin tie
}

func effectFromMatch(m *models.Match) matchEffect {
	eff := matchEffect{winnerID: m.WinnerTeamID}
	if m.Status == models.MatchStatusCompleted && m.HomeScore != nil && m.AwayScore != nil {
		eff.homeGoals = *m.HomeScore
		eff.awayGoals = *m.AwayScore
		eff.withGoals = true
	}
	return eff
}

func applyEffect(home, away *models.Team, eff matchEffect, t *models.Tournament, sign int) {
	if eff.withGoals {
		home.GoalsFor += sign * eff.homeGoals
		home.GoalsAgainst += sign * eff.awayGoals
		away.GoalsFor += sign * eff.awayGoals
		away.GoalsAgainst += sign * eff.homeGoals
	}
	switch {
	case eff.winnerID == nil:
		home.Ties += sign
		away.Ties += sign
		home.Points += sign * t.PointsTie
		away.Points += sign * t.PointsTie
	case *eff.winnerID == home.ID:
		home.Wins += sign
		away.Losses += sign
		home.Points += sign * t.PointsWin
		away.Points += sign * t.PointsLoss
	default:
		away.Wins += sign
		home.Losses += sign
		away.Points += sign * t.PointsWin
		home.Points += sign * t.PointsLoss
	}
}

// resultUpdate is what a submission wants written onto the locked match row.
type resultUpdate struct {
	homeScore     *int
	awayScore     *int
	winnerID      *int
	status        models.MatchStatus
	forfeitReason *string
	effect        matchEffect
}

func (s *resultService) EnterScore(ctx context.Context, matchID, actorID int, input EnterScoreInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrNegativeScore
	}

	return s.record(ctx, matchID, actorID, "match.enter_score", func(m *models.Match, t *models.Tournament) (resultUpdate, error) {
		elimination := t.Format == models.FormatSingleElimination

		var winnerID *int
		switch {
		case input.HomeScore > input.AwayScore:
			winnerID = m.HomeTeamID
		case input.AwayScore > input.HomeScore:
			winnerID = m.AwayTeamID
		default:
			if elimination {
				if input.OvertimeWinnerID == nil {
					return resultUpdate{}, ErrTieRequiresOvertimeWinner
				}
				if !m.HasTeam(*input.OvertimeWinnerID) {
					return resultUpdate{}, fmt.Errorf("%w: team %d is not in match %d",
						ErrInvalidOvertimeWinner, *input.OvertimeWinnerID, m.ID)
				}
				winnerID = input.OvertimeWinnerID
			}
			// A round-robin tie stands with no winner.
		}

		hs, as := input.HomeScore, input.AwayScore
		return resultUpdate{
			homeScore: &hs,
			awayScore: &as,
			winnerID:  winnerID,
			status:    models.MatchStatusCompleted,
			effect: matchEffect{
				homeGoals: hs,
				awayGoals: as,
				withGoals: true,
				winnerID:  winnerID,
			},
		}, nil
	})
}

func (s *resultService) ForfeitMatch(ctx context.Context, matchID, actorID, forfeitingTeamID int, reason string) (*models.Match, error) {
	return s.record(ctx, matchID, actorID, "match.forfeit", func(m *models.Match, t *models.Tournament) (resultUpdate, error) {
		if !m.HasTeam(forfeitingTeamID) {
			return resultUpdate{}, fmt.Errorf("%w: team %d is not in match %d",
				ErrInvalidForfeitTeam, forfeitingTeamID, m.ID)
		}
		winnerID := m.OpponentOf(forfeitingTeamID)

		// A forfeit counts as a win and a loss but records no goals.
		return resultUpdate{
			winnerID:      winnerID,
			status:        models.MatchStatusForfeit,
			forfeitReason: &reason,
			effect:        matchEffect{winnerID: winnerID},
		}, nil
	})
}

// record runs the shared submission sequence: permission and phase checks,
// then, inside one transaction, lock the match, reverse any prior result,
// apply the new one, and propagate the winner to the next bracket match.
func (s *resultService) record(
	ctx context.Context,
	matchID, actorID int,
	action string,
	build func(m *models.Match, t *models.Tournament) (resultUpdate, error),
) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.roles.RequireAtLeast(ctx, tournament, actorID, models.RoleScorekeeper); err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: tournament %d is %s", ErrTournamentNotActive, tournament.ID, tournament.Status)
	}

	elimination := tournament.Format == models.FormatSingleElimination

	var (
		m                  *models.Match
		homeTeam, awayTeam *models.Team
		completedFinal     bool
	)
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		m, txErr = s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if txErr != nil {
			return txErr
		}
		if m.IsBye {
			return fmt.Errorf("%w: match %d", ErrByeMatchImmutable, m.ID)
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			return fmt.Errorf("%w: match %d", ErrMatchTeamsNotSet, m.ID)
		}

		upd, txErr := build(m, tournament)
		if txErr != nil {
			return txErr
		}
		before := *m

		// Correcting a match whose winner already played the next round would
		// invalidate that later result, so it is refused.
		var next *models.Match
		if m.NextMatchID != nil {
			next, txErr = s.matchRepo.GetByIDForUpdate(ctx, exec, *m.NextMatchID)
			if txErr != nil {
				return txErr
			}
			if m.HasResult() && next.HasResult() {
				return fmt.Errorf("%w: match %d feeds completed match %d",
					ErrDownstreamMatchCompleted, m.ID, next.ID)
			}
		}

		homeTeam, awayTeam, txErr = s.lockTeams(ctx, exec, *m.HomeTeamID, *m.AwayTeamID)
		if txErr != nil {
			return txErr
		}

		if m.HasResult() {
			applyEffect(homeTeam, awayTeam, effectFromMatch(m), tournament, -1)
			if elimination {
				homeTeam.Status = models.TeamStatusActive
				awayTeam.Status = models.TeamStatusActive
			}
		}

		m.HomeScore = upd.homeScore
		m.AwayScore = upd.awayScore
		m.WinnerTeamID = upd.winnerID
		m.Status = upd.status
		m.ForfeitReason = upd.forfeitReason

		applyEffect(homeTeam, awayTeam, upd.effect, tournament, 1)

		if elimination && upd.winnerID != nil {
			winner, loser := homeTeam, awayTeam
			if *upd.winnerID == awayTeam.ID {
				winner, loser = awayTeam, homeTeam
			}
			loser.Status = models.TeamStatusEliminated
			if m.NextMatchID == nil {
				winner.Status = models.TeamStatusWinner
				completedFinal = true
			}
		}

		if next != nil && m.WinnerToSlot != nil {
			if *m.WinnerToSlot == models.SlotHome {
				next.HomeTeamID = upd.winnerID
			} else {
				next.AwayTeamID = upd.winnerID
			}
			if txErr = s.matchRepo.UpdateSlots(ctx, exec, next.ID, next.HomeTeamID, next.AwayTeamID); txErr != nil {
				return txErr
			}
		}

		if txErr = s.teamRepo.UpdateRecord(ctx, exec, homeTeam); txErr != nil {
			return txErr
		}
		if txErr = s.teamRepo.UpdateRecord(ctx, exec, awayTeam); txErr != nil {
			return txErr
		}
		if txErr = s.matchRepo.UpdateResult(ctx, exec, m); txErr != nil {
			return txErr
		}
		if completedFinal {
			if txErr = s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusCompleted); txErr != nil {
				return txErr
			}
		}

		return s.audit.Record(ctx, exec, action, actorID, tournament.ID, before, m)
	})
	if err != nil {
		return nil, err
	}

	if m.WinnerTeamID != nil {
		if *m.WinnerTeamID == homeTeam.ID {
			m.WinnerTeamName = &homeTeam.Name
		} else {
			m.WinnerTeamName = &awayTeam.Name
		}
	}

	s.logger.Info("match result recorded",
		slog.String("action", action),
		slog.Int("match_id", m.ID),
		slog.Int("tournament_id", tournament.ID),
		slog.String("status", string(m.Status)))

	room := strconv.Itoa(tournament.ID)
	s.notifier.BroadcastToRoom(room, brackets.Event{
		Type:    brackets.EventMatchUpdated,
		Payload: m,
	})
	if completedFinal {
		s.notifier.BroadcastToRoom(room, brackets.Event{
			Type: brackets.EventTournamentCompleted,
			Payload: map[string]interface{}{
				"tournament_id":  tournament.ID,
				"winner_team_id": m.WinnerTeamID,
			},
		})
	}
	return m, nil
}

// lockTeams acquires both team row locks in ascending id order so two
// submissions touching the same pair cannot deadlock.
func (s *resultService) lockTeams(ctx context.Context, exec repositories.SQLExecutor, homeID, awayID int) (*models.Team, *models.Team, error) {
	first, second := homeID, awayID
	if second < first {
		first, second = second, first
	}
	a, err := s.teamRepo.GetByIDForUpdate(ctx, exec, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.teamRepo.GetByIDForUpdate(ctx, exec, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == homeID {
		return a, b, nil
	}
	return b, a, nil
}
