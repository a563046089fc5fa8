package standings

import (
	"fmt"
	"sort"

	"github.com/brackethq/competition-core/models"
)

// Config carries the tournament settings the calculator needs. Rules are
// expected to be pre-validated by models.Tournament.TiebreakerOrder.
type Config struct {
	Tiebreakers       []models.TiebreakerRule
	PlayoffTeamsCount *int
}

// Calculate ranks teams by points and the configured tiebreaker chain.
//
// Teams on equal points are compared pairwise; the pairwise verdicts form a
// directed graph whose strongly connected components are the groups no rule
// sequence can order (mutual equality and head-to-head cycles both collapse
// into one component). Components are emitted in topological order, teams
// inside a component in id order, and every multi-team component is reported
// as a TiedGroup. The calculation is read-only.
func Calculate(teams []*models.Team, matches []*models.Match, cfg Config) (*models.StandingsTable, error) {
	rules := cfg.Tiebreakers
	if len(rules) == 0 {
		rules = models.DefaultTiebreakerOrder()
	}

	h2h := headToHeadIndex(matches)
	played := gamesPlayed(matches)

	// Group by points, descending.
	groups := make(map[int][]*models.Team)
	pointValues := make([]int, 0)
	for _, team := range teams {
		if _, seen := groups[team.Points]; !seen {
			pointValues = append(pointValues, team.Points)
		}
		groups[team.Points] = append(groups[team.Points], team)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pointValues)))

	table := &models.StandingsTable{Rows: make([]models.StandingsRow, 0, len(teams))}

	for _, points := range pointValues {
		ordered, tied, err := orderGroup(groups[points], rules, h2h)
		if err != nil {
			return nil, err
		}
		for _, group := range tied {
			table.TiedGroups = append(table.TiedGroups, models.TiedGroup{
				TeamIDs: group,
				Reason:  fmt.Sprintf("teams with %d points could not be separated by the configured tiebreakers", points),
			})
		}
		for _, team := range ordered {
			rank := len(table.Rows) + 1
			table.Rows = append(table.Rows, models.StandingsRow{
				TeamID:           team.ID,
				TeamName:         team.Name,
				Rank:             rank,
				Wins:             team.Wins,
				Losses:           team.Losses,
				Ties:             team.Ties,
				Points:           team.Points,
				GoalsFor:         team.GoalsFor,
				GoalsAgainst:     team.GoalsAgainst,
				GoalDifferential: team.GoalDifferential(),
				GamesPlayed:      played[team.ID],
				IsPlayoffBound:   cfg.PlayoffTeamsCount != nil && rank <= *cfg.PlayoffTeamsCount,
			})
		}
	}

	return table, nil
}

// gamesPlayed derives the played-match count per team from recorded results
// rather than trusting a stored counter.
func gamesPlayed(matches []*models.Match) map[int]int {
	counts := make(map[int]int)
	for _, m := range matches {
		// Byes are structurally completed but were never played.
		if !m.HasResult() || m.IsBye {
			continue
		}
		if m.HomeTeamID != nil {
			counts[*m.HomeTeamID]++
		}
		if m.AwayTeamID != nil {
			counts[*m.AwayTeamID]++
		}
	}
	return counts
}

// orderGroup orders an equal-points group and reports its unresolvable
// components (size > 1).
func orderGroup(group []*models.Team, rules []models.TiebreakerRule, h2h map[pairKey]headToHeadResult) ([]*models.Team, [][]int, error) {
	if len(group) == 1 {
		return group, nil, nil
	}

	// Deterministic base order before graph construction.
	sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })

	n := len(group)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c, err := compareChain(rules, group[i], group[j], h2h)
			if err != nil {
				return nil, nil, err
			}
			switch {
			case c < 0:
				adj[i] = append(adj[i], j)
			case c > 0:
				adj[j] = append(adj[j], i)
			default:
				// Unordered pair: mutual edges collapse both teams into one
				// strongly connected component.
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	components := stronglyConnected(adj)

	ordered := make([]*models.Team, 0, n)
	var tied [][]int
	for _, component := range components {
		sort.Ints(component)
		if len(component) > 1 {
			ids := make([]int, len(component))
			for i, idx := range component {
				ids[i] = group[idx].ID
			}
			tied = append(tied, ids)
		}
		for _, idx := range component {
			ordered = append(ordered, group[idx])
		}
	}
	return ordered, tied, nil
}

// stronglyConnected is Tarjan's algorithm; components come out in reverse
// topological order of the condensation, so the result is reversed before
// returning to yield highest-ranked components first.
func stronglyConnected(adj [][]int) [][]int {
	n := len(adj)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	var components [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if index[w] == -1 {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			components = append(components, component)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}

	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}
	return components
}
