package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brackethq/competition-core/models"
)

var ErrTeamNotFound = errors.New("team not found")

const teamColumns = `id, tournament_id, name, seed, status, wins, losses, ties,
	       points, goals_for, goals_against, has_bye, created_at`

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error)
	UpdateRecord(ctx context.Context, exec SQLExecutor, team *models.Team) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID,
		&t.TournamentID,
		&t.Name,
		&t.Seed,
		&t.Status,
		&t.Wins,
		&t.Losses,
		&t.Ties,
		&t.Points,
		&t.GoalsFor,
		&t.GoalsAgainst,
		&t.HasBye,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1 FOR UPDATE`
	return r.scanTeam(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

// UpdateRecord writes every mutable competition field in one statement so the
// result engine's reverse-then-apply sequence stays a single write per team.
func (r *postgresTeamRepository) UpdateRecord(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams
		SET status = $1, wins = $2, losses = $3, ties = $4, points = $5,
		    goals_for = $6, goals_against = $7, has_bye = $8
		WHERE id = $9`
	result, err := executor.ExecContext(ctx, query,
		team.Status, team.Wins, team.Losses, team.Ties, team.Points,
		team.GoalsFor, team.GoalsAgainst, team.HasBye, team.ID)
	if err != nil {
		return fmt.Errorf("failed to update team %d record: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
