package services_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/brackethq/competition-core/brackets"
	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
	"github.com/brackethq/competition-core/services"
)

// passthroughTxRunner runs the function directly; the fakes below are the
// "database", so there is nothing to roll back.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeStore struct {
	mu sync.Mutex

	tournaments map[int]*models.Tournament
	teams       map[int]*models.Team
	matches     map[int]*models.Match
	nextMatchID int

	roles     map[[2]int]models.AdminRole // (tournamentID, userID)
	orgAdmins map[[2]int]bool             // (organizationID, userID)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments: make(map[int]*models.Tournament),
		teams:       make(map[int]*models.Team),
		matches:     make(map[int]*models.Match),
		nextMatchID: 1,
		roles:       make(map[[2]int]models.AdminRole),
		orgAdmins:   make(map[[2]int]bool),
	}
}

type fakeTournamentRepo struct{ store *fakeStore }

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

type fakeTeamRepo struct{ store *fakeStore }

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTeamRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	teams := make([]*models.Team, 0)
	for _, t := range r.store.teams {
		if t.TournamentID == tournamentID {
			c := *t
			teams = append(teams, &c)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *fakeTeamRepo) UpdateRecord(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	c := *team
	r.store.teams[team.ID] = &c
	return nil
}

type fakeMatchRepo struct{ store *fakeStore }

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	match.ID = r.store.nextMatchID
	r.store.nextMatchID++
	c := *match
	r.store.matches[match.ID] = &c
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	matches := make([]*models.Match, 0)
	for _, m := range r.store.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		c := *m
		matches = append(matches, &c)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

func (r *fakeMatchRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore = match.HomeScore
	m.AwayScore = match.AwayScore
	m.WinnerTeamID = match.WinnerTeamID
	m.Status = match.Status
	m.ForfeitReason = match.ForfeitReason
	return nil
}

func (r *fakeMatchRepo) UpdateSlots(ctx context.Context, exec repositories.SQLExecutor, matchID int, homeTeamID, awayTeamID *int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeTeamID = homeTeamID
	m.AwayTeamID = awayTeamID
	return nil
}

func (r *fakeMatchRepo) UpdateNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, matchID int, nextMatchID *int, winnerToSlot *int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextMatchID
	m.WinnerToSlot = winnerToSlot
	return nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	deleted := 0
	for id, m := range r.store.matches {
		if m.TournamentID == tournamentID {
			delete(r.store.matches, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAdminRepo struct{ store *fakeStore }

func (r *fakeAdminRepo) GetRole(ctx context.Context, exec repositories.SQLExecutor, tournamentID, userID int) (models.AdminRole, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	role, ok := r.store.roles[[2]int{tournamentID, userID}]
	if !ok {
		return models.RoleNone, nil
	}
	return role, nil
}

func (r *fakeAdminRepo) IsOrganizationAdmin(ctx context.Context, exec repositories.SQLExecutor, organizationID, userID int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.orgAdmins[[2]int{organizationID, userID}], nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []brackets.Event
}

func (n *recordingNotifier) BroadcastToRoom(roomID string, event brackets.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	event.RoomID = roomID
	n.events = append(n.events, event)
}

func (n *recordingNotifier) eventTypes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(ctx context.Context, exec repositories.SQLExecutor, action string, actorID, tournamentID int, before, after interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

// fixture wires every service against the in-memory store.
type fixture struct {
	store    *fakeStore
	notifier *recordingNotifier
	audit    *recordingAudit

	roles     services.RoleService
	bracket   services.BracketService
	schedule  services.ScheduleService
	result    services.ResultService
	standings services.StandingsService
	match     services.MatchService
}

func newFixture() *fixture {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tournamentRepo := &fakeTournamentRepo{store: store}
	teamRepo := &fakeTeamRepo{store: store}
	matchRepo := &fakeMatchRepo{store: store}
	adminRepo := &fakeAdminRepo{store: store}
	txRunner := passthroughTxRunner{}

	roles := services.NewRoleService(adminRepo)

	return &fixture{
		store:    store,
		notifier: notifier,
		audit:    audit,
		roles:    roles,
		bracket: services.NewBracketService(
			txRunner, tournamentRepo, teamRepo, matchRepo, roles, audit, notifier, logger),
		schedule: services.NewScheduleService(
			txRunner, tournamentRepo, teamRepo, matchRepo, roles, audit, notifier, logger),
		result: services.NewResultService(
			txRunner, tournamentRepo, teamRepo, matchRepo, roles, audit, notifier, logger),
		standings: services.NewStandingsService(tournamentRepo, teamRepo, matchRepo, logger),
		match:     services.NewMatchService(matchRepo, teamRepo),
	}
}

func (f *fixture) addTournament(id int, format models.TournamentFormat, status models.TournamentStatus) *models.Tournament {
	t := &models.Tournament{
		ID:         id,
		Name:       "Test Cup",
		Format:     format,
		Status:     status,
		PointsWin:  3,
		PointsTie:  1,
		PointsLoss: 0,
	}
	f.store.tournaments[id] = t
	return t
}

func (f *fixture) addSeededTeams(tournamentID, count int) []*models.Team {
	teams := make([]*models.Team, count)
	for i := 0; i < count; i++ {
		seed := i + 1
		id := tournamentID*100 + seed
		team := &models.Team{
			ID:           id,
			TournamentID: tournamentID,
			Name:         "Team " + string(rune('A'+i)),
			Seed:         &seed,
			Status:       models.TeamStatusActive,
		}
		f.store.teams[id] = team
		teams[i] = team
	}
	return teams
}

func (f *fixture) grantRole(tournamentID, userID int, role models.AdminRole) {
	f.store.roles[[2]int{tournamentID, userID}] = role
}

func (f *fixture) grantOrgAdmin(organizationID, userID int) {
	f.store.orgAdmins[[2]int{organizationID, userID}] = true
}

func (f *fixture) team(id int) *models.Team {
	return f.store.teams[id]
}

func (f *fixture) matchByPosition(tournamentID int, position string) *models.Match {
	for _, m := range f.store.matches {
		if m.TournamentID == tournamentID && m.BracketPosition == position {
			return m
		}
	}
	return nil
}
