package models

import "time"

// TeamStatus tracks a team's fate inside a single tournament.
type TeamStatus string

const (
	TeamStatusActive     TeamStatus = "active"
	TeamStatusEliminated TeamStatus = "eliminated"
	TeamStatusWinner     TeamStatus = "winner"
)

type Team struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Seed         *int       `json:"seed,omitempty" db:"seed"`
	Status       TeamStatus `json:"status" db:"status"`
	Wins         int        `json:"wins" db:"wins"`
	Losses       int        `json:"losses" db:"losses"`
	Ties         int        `json:"ties" db:"ties"`
	Points       int        `json:"points" db:"points"`
	GoalsFor     int        `json:"goals_for" db:"goals_for"`
	GoalsAgainst int        `json:"goals_against" db:"goals_against"`
	HasBye       bool       `json:"has_bye" db:"has_bye"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (t *Team) GoalDifferential() int {
	return t.GoalsFor - t.GoalsAgainst
}
