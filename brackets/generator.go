package brackets

import (
	"errors"

	"github.com/brackethq/competition-core/models"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams to generate a bracket (minimum 2)")
	ErrInvalidSeeds   = errors.New("team seeds must be unique and contiguous from 1")
)

// GeneratedMatch is a structural match produced by a generator. Links to the
// next match are expressed as (round, matchNumber) coordinates; the service
// resolves them to database ids after the first insert pass.
type GeneratedMatch struct {
	Round       int
	MatchNumber int

	HomeTeamID *int
	AwayTeamID *int

	IsBye     bool
	ByeTeamID *int

	BracketPosition string

	NextRound       int
	NextMatchNumber int
	WinnerToSlot    int
}

// HasNext reports whether this match feeds a later one.
func (g *GeneratedMatch) HasNext() bool {
	return g.NextRound > 0
}

// Generator builds the full match structure for one tournament format.
type Generator interface {
	Name() string
	Generate(teams []*models.Team) ([]*GeneratedMatch, error)
}
