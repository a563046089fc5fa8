package models

// StandingsRow is derived from team records and completed matches; it is never
// persisted.
type StandingsRow struct {
	TeamID           int    `json:"team_id"`
	TeamName         string `json:"team_name"`
	Rank             int    `json:"rank"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	Ties             int    `json:"ties"`
	Points           int    `json:"points"`
	GoalsFor         int    `json:"goals_for"`
	GoalsAgainst     int    `json:"goals_against"`
	GoalDifferential int    `json:"goal_differential"`
	GamesPlayed      int    `json:"games_played"`
	IsPlayoffBound   bool   `json:"is_playoff_bound"`
}

// TiedGroup reports a set of teams the configured tiebreaker chain could not
// order relative to each other.
type TiedGroup struct {
	TeamIDs []int  `json:"team_ids"`
	Reason  string `json:"reason"`
}

type StandingsTable struct {
	Rows       []StandingsRow `json:"rows"`
	TiedGroups []TiedGroup    `json:"tied_groups,omitempty"`
}
