package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
)

// TiebreakerRule names one rule in a tournament's ordered tiebreaker chain.
type TiebreakerRule string

const (
	TiebreakerHeadToHead       TiebreakerRule = "head_to_head"
	TiebreakerGoalDifferential TiebreakerRule = "goal_differential"
	TiebreakerGoalsScored      TiebreakerRule = "goals_scored"
)

// DefaultTiebreakerOrder is applied when a tournament does not override the chain.
func DefaultTiebreakerOrder() []TiebreakerRule {
	return []TiebreakerRule{TiebreakerHeadToHead, TiebreakerGoalDifferential, TiebreakerGoalsScored}
}

type Tournament struct {
	ID             int              `json:"id" db:"id"`
	OrganizationID *int             `json:"organization_id,omitempty" db:"organization_id"`
	Name           string           `json:"name" db:"name"`
	Format         TournamentFormat `json:"format" db:"format"`
	Status         TournamentStatus `json:"status" db:"status"`
	PointsWin      int              `json:"points_win" db:"points_win"`
	PointsTie      int              `json:"points_tie" db:"points_tie"`
	PointsLoss     int              `json:"points_loss" db:"points_loss"`

	// Raw JSON array from the DB, e.g. ["head_to_head","goal_differential"].
	TiebreakerOrderJSON *string `json:"-" db:"tiebreaker_order"`
	PlayoffTeamsCount   *int    `json:"playoff_teams_count,omitempty" db:"playoff_teams_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TiebreakerOrder parses the configured chain, falling back to the default
// order when the tournament has no override. Unknown rule names are rejected
// rather than skipped.
func (t *Tournament) TiebreakerOrder() ([]TiebreakerRule, error) {
	if t.TiebreakerOrderJSON == nil || *t.TiebreakerOrderJSON == "" {
		return DefaultTiebreakerOrder(), nil
	}
	var names []string
	if err := json.Unmarshal([]byte(*t.TiebreakerOrderJSON), &names); err != nil {
		return nil, fmt.Errorf("invalid tiebreaker_order JSON for tournament %d: %w", t.ID, err)
	}
	if len(names) == 0 {
		return DefaultTiebreakerOrder(), nil
	}
	rules := make([]TiebreakerRule, 0, len(names))
	for _, name := range names {
		rule := TiebreakerRule(name)
		switch rule {
		case TiebreakerHeadToHead, TiebreakerGoalDifferential, TiebreakerGoalsScored:
			rules = append(rules, rule)
		default:
			return nil, fmt.Errorf("unknown tiebreaker rule %q for tournament %d", name, t.ID)
		}
	}
	return rules, nil
}

// IsFinished reports a terminal status; no competition mutation is allowed past it.
func (t *Tournament) IsFinished() bool {
	return t.Status == StatusCompleted || t.Status == StatusCanceled
}
