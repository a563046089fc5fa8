package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusForfeit   MatchStatus = "forfeit"
)

// Winner slot in the next match, persisted at generation time so advancement
// never has to recompute in-round index parity.
const (
	SlotHome = 1
	SlotAway = 2
)

type Match struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	Round        int  `json:"round" db:"round"`
	MatchNumber  int  `json:"match_number" db:"match_number"`
	HomeTeamID   *int `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID   *int `json:"away_team_id,omitempty" db:"away_team_id"`
	HomeScore    *int `json:"home_score,omitempty" db:"home_score"`
	AwayScore    *int `json:"away_score,omitempty" db:"away_score"`
	WinnerTeamID *int `json:"winner_team_id,omitempty" db:"winner_team_id"`

	Status          MatchStatus `json:"status" db:"status"`
	IsBye           bool        `json:"is_bye" db:"is_bye"`
	BracketPosition string      `json:"bracket_position" db:"bracket_position"`
	NextMatchID     *int        `json:"next_match_id,omitempty" db:"next_match_id"`
	WinnerToSlot    *int        `json:"winner_to_slot,omitempty" db:"winner_to_slot"`
	ForfeitReason   *string     `json:"forfeit_reason,omitempty" db:"forfeit_reason"`
	ScheduledTime   *time.Time  `json:"scheduled_time,omitempty" db:"scheduled_time"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`

	// Populated by services for responses, not mapped to a column.
	WinnerTeamName *string `json:"winner_team_name,omitempty" db:"-"`
}

// HasResult reports whether a result has already been recorded, which makes a
// subsequent entry a correction rather than a first entry.
func (m *Match) HasResult() bool {
	return m.Status == MatchStatusCompleted || m.Status == MatchStatusForfeit
}

// HasTeam reports whether the given team occupies one of the two slots.
func (m *Match) HasTeam(teamID int) bool {
	if m.HomeTeamID != nil && *m.HomeTeamID == teamID {
		return true
	}
	if m.AwayTeamID != nil && *m.AwayTeamID == teamID {
		return true
	}
	return false
}

// OpponentOf returns the other participant, or nil for a bye/TBD slot.
func (m *Match) OpponentOf(teamID int) *int {
	if m.HomeTeamID != nil && *m.HomeTeamID == teamID {
		return m.AwayTeamID
	}
	if m.AwayTeamID != nil && *m.AwayTeamID == teamID {
		return m.HomeTeamID
	}
	return nil
}
