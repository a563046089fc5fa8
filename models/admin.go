package models

import "time"

// AdminRole is the single ordered role enum for a tournament. Comparison is by
// rank; organization admins of the parent organization resolve to RoleOwner
// before the direct lookup.
type AdminRole string

const (
	RoleNone        AdminRole = "none"
	RoleScorekeeper AdminRole = "scorekeeper"
	RoleAdmin       AdminRole = "admin"
	RoleOwner       AdminRole = "owner"
)

var roleRank = map[AdminRole]int{
	RoleNone:        0,
	RoleScorekeeper: 1,
	RoleAdmin:       2,
	RoleOwner:       3,
}

// AtLeast reports whether r grants the privileges of min.
func (r AdminRole) AtLeast(min AdminRole) bool {
	return roleRank[r] >= roleRank[min]
}

type TournamentAdmin struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Role         AdminRole  `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
