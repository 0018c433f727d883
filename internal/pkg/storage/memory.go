package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

type leagueWeek struct {
	leagueID int64
	week     int
}

type yearWeek struct {
	year int
	week int
}

// MemoryStore keeps the canonical records in process. It mirrors the
// Postgres semantics, including ErrNotFound for never-ingested keys, and is
// the store used by tests and storeless local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	leagues     map[string]models.League // profile/league_id
	teams       map[string]models.Team   // league_id/team_id
	matchups    map[leagueWeek][]models.Matchup
	scores      map[leagueWeek]map[string]models.PlayerScore // keyed by team_id/name
	projections map[int]map[string]models.Projection         // week -> player/team
	progress    map[yearWeek][]models.GameProgress
	changes     []models.Change
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leagues:     make(map[string]models.League),
		teams:       make(map[string]models.Team),
		matchups:    make(map[leagueWeek][]models.Matchup),
		scores:      make(map[leagueWeek]map[string]models.PlayerScore),
		projections: make(map[int]map[string]models.Projection),
		progress:    make(map[yearWeek][]models.GameProgress),
	}
}

func (s *MemoryStore) UpsertLeague(_ context.Context, league models.League) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[fmt.Sprintf("%s/%d", league.Profile, league.LeagueID)] = league
	return nil
}

func (s *MemoryStore) LeaguesByProfile(_ context.Context, profile string) ([]models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var leagues []models.League
	for _, l := range s.leagues {
		if l.Profile == profile {
			leagues = append(leagues, l)
		}
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("leagues for profile %q: %w", profile, ErrNotFound)
	}
	sortLeagues(leagues)
	return leagues, nil
}

func (s *MemoryStore) AllLeagues(_ context.Context) ([]models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leagues := make([]models.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		leagues = append(leagues, l)
	}
	sortLeagues(leagues)
	return leagues, nil
}

func sortLeagues(leagues []models.League) {
	sort.Slice(leagues, func(i, j int) bool {
		if leagues[i].Provider != leagues[j].Provider {
			return leagues[i].Provider < leagues[j].Provider
		}
		return leagues[i].LeagueID < leagues[j].LeagueID
	})
}

func (s *MemoryStore) UpsertTeams(_ context.Context, teams []models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range teams {
		s.teams[fmt.Sprintf("%d/%d", t.LeagueID, t.TeamID)] = t
	}
	return nil
}

func (s *MemoryStore) TeamsByLeague(_ context.Context, leagueID int64) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var teams []models.Team
	for _, t := range s.teams {
		if t.LeagueID == leagueID {
			teams = append(teams, t)
		}
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("teams for league %d: %w", leagueID, ErrNotFound)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams, nil
}

func (s *MemoryStore) ReplaceMatchups(_ context.Context, leagueID int64, week int, matchups []models.Matchup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchups[leagueWeek{leagueID, week}] = append([]models.Matchup(nil), matchups...)
	return nil
}

func (s *MemoryStore) MatchupsByLeagueWeek(_ context.Context, leagueID int64, week int) ([]models.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matchups, ok := s.matchups[leagueWeek{leagueID, week}]
	if !ok || len(matchups) == 0 {
		return nil, fmt.Errorf("matchups for league %d week %d: %w", leagueID, week, ErrNotFound)
	}
	return append([]models.Matchup(nil), matchups...), nil
}

func (s *MemoryStore) ReplaceScores(_ context.Context, leagueID int64, week int, scores []models.PlayerScore) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make(map[string]models.PlayerScore, len(scores))
	for _, sc := range scores {
		rows[fmt.Sprintf("%d/%s", sc.TeamID, sc.Name)] = sc
	}
	s.scores[leagueWeek{leagueID, week}] = rows
	return nil
}

func (s *MemoryStore) ScoresByLeagueWeek(_ context.Context, leagueID int64, week int) ([]models.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.scores[leagueWeek{leagueID, week}]
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("scores for league %d week %d: %w", leagueID, week, ErrNotFound)
	}

	scores := make([]models.PlayerScore, 0, len(rows))
	for _, sc := range rows {
		scores = append(scores, sc)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TeamID != scores[j].TeamID {
			return scores[i].TeamID < scores[j].TeamID
		}
		return scores[i].Name < scores[j].Name
	})
	return scores, nil
}

func (s *MemoryStore) ReplaceProjections(_ context.Context, week int, projections []models.Projection) error {
	if len(projections) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make(map[string]models.Projection, len(projections))
	for _, p := range projections {
		rows[fmt.Sprintf("%s/%s", p.Player, p.NFLTeam)] = p
	}
	s.projections[week] = rows
	return nil
}

func (s *MemoryStore) ProjectionsByWeek(_ context.Context, week int) ([]models.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.projections[week]
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("projections for week %d: %w", week, ErrNotFound)
	}

	projections := make([]models.Projection, 0, len(rows))
	for _, p := range rows {
		projections = append(projections, p)
	}
	sort.Slice(projections, func(i, j int) bool { return projections[i].Player < projections[j].Player })
	return projections, nil
}

func (s *MemoryStore) ReplaceGameProgress(_ context.Context, year, week int, progress []models.GameProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[yearWeek{year, week}] = append([]models.GameProgress(nil), progress...)
	return nil
}

func (s *MemoryStore) GameProgressByWeek(_ context.Context, year, week int) ([]models.GameProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.progress[yearWeek{year, week}]
	if !ok || len(progress) == 0 {
		return nil, fmt.Errorf("game progress for %d week %d: %w", year, week, ErrNotFound)
	}
	return append([]models.GameProgress(nil), progress...), nil
}

func (s *MemoryStore) AppendChanges(_ context.Context, changes []models.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, changes...)
	return nil
}

func (s *MemoryStore) RecentChanges(_ context.Context, limit int) ([]models.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	changes := append([]models.Change(nil), s.changes...)
	sort.Slice(changes, func(i, j int) bool { return changes[i].Updated.After(changes[j].Updated) })
	if limit > 0 && len(changes) > limit {
		changes = changes[:limit]
	}
	return changes, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
