// Package sleeper maps Sleeper league data into canonical records.
package sleeper

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/provider"
)

func init() {
	provider.Register(models.ProviderSleeper, func(cfg *config.IngestConfig) provider.Provider {
		return New(NewClient(cfg.ProviderTimeout, cfg.UserAgent))
	})
}

// Adapter is the Sleeper provider adapter.
type Adapter struct {
	client *Client
}

func New(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Kind() models.ProviderKind {
	return models.ProviderSleeper
}

func (a *Adapter) FetchTeams(ctx context.Context, league models.League) ([]models.Team, error) {
	var rosters []rosterEntry
	if err := a.client.get(ctx, fmt.Sprintf("/league/%d/rosters", league.LeagueID), &rosters); err != nil {
		return nil, fmt.Errorf("fetching rosters for league %d: %w", league.LeagueID, err)
	}

	var users []userEntry
	if err := a.client.get(ctx, fmt.Sprintf("/league/%d/users", league.LeagueID), &users); err != nil {
		return nil, fmt.Errorf("fetching users for league %d: %w", league.LeagueID, err)
	}

	rosterByOwner := make(map[string]int, len(rosters))
	for _, r := range rosters {
		rosterByOwner[r.OwnerID] = r.RosterID
	}

	var teams []models.Team
	for _, u := range users {
		rosterID, ok := rosterByOwner[u.UserID]
		if !ok {
			continue
		}
		name := u.Metadata.TeamName
		if name == "" {
			name = u.DisplayName
		}
		teams = append(teams, models.Team{
			LeagueID: league.LeagueID,
			TeamID:   rosterID,
			Name:     name,
			Owner:    u.DisplayName,
		})
	}
	return teams, nil
}

func (a *Adapter) FetchWeek(ctx context.Context, league models.League, week int, clock map[string]provider.GameTime) (*provider.WeekData, error) {
	players, err := a.client.allPlayers(ctx)
	if err != nil {
		return nil, err
	}

	var entries []matchupEntry
	if err := a.client.get(ctx, fmt.Sprintf("/league/%d/matchups/%d", league.LeagueID, week), &entries); err != nil {
		return nil, fmt.Errorf("fetching matchups for league %d week %d: %w", league.LeagueID, week, err)
	}

	data := &provider.WeekData{}
	now := time.Now()

	// Pair the two rosters sharing a matchup_id.
	byMatchup := make(map[int][]int)
	for _, e := range entries {
		byMatchup[e.MatchupID] = append(byMatchup[e.MatchupID], e.RosterID)
	}
	matchupIDs := make([]int, 0, len(byMatchup))
	for id := range byMatchup {
		matchupIDs = append(matchupIDs, id)
	}
	sort.Ints(matchupIDs)
	for _, id := range matchupIDs {
		sides := byMatchup[id]
		if len(sides) != 2 {
			slog.Warn("Matchup without two rosters", "league", league.LeagueID, "matchup", id, "rosters", len(sides))
			continue
		}
		data.Matchups = append(data.Matchups,
			models.Matchup{LeagueID: league.LeagueID, Week: week, Home: sides[0], Away: sides[1]},
			models.Matchup{LeagueID: league.LeagueID, Week: week, Home: sides[1], Away: sides[0]},
		)
	}

	for _, e := range entries {
		starters := make(map[string]bool, len(e.Starters))
		for _, id := range e.Starters {
			starters[id] = true
		}
		for _, playerID := range e.Players {
			info, ok := players[playerID]
			if !ok {
				continue
			}
			data.Scores = append(data.Scores, a.mapPlayer(league, e, playerID, info, starters[playerID], week, clock, now))
		}
	}

	return data, nil
}

func (a *Adapter) mapPlayer(league models.League, entry matchupEntry, playerID string, info playerInfo, starter bool, week int, clock map[string]provider.GameTime, now time.Time) models.PlayerScore {
	name := info.FullName
	position := "FLEX"
	if len(info.FantasyPositions) > 0 {
		position = info.FantasyPositions[0]
	}
	if position == "DEF" {
		position = "DST"
		name = fmt.Sprintf("%s D/ST", info.LastName)
	}

	slot := "BE"
	if starter {
		slot = position
	}

	nflTeam := models.TranslateTeamCode(models.VocabSleeper, models.VocabESPN, info.Team)

	score := models.PlayerScore{
		LeagueID: league.LeagueID,
		TeamID:   entry.RosterID,
		Week:     week,
		Player: models.Player{
			Name:     models.NormalizePlayerName(name),
			NFLTeam:  nflTeam,
			Position: position,
			Status:   mapInjuryStatus(info.InjuryStatus),
		},
		Slot:    slot,
		Points:  entry.PlayersPoints[playerID],
		Updated: now.UTC(),
	}

	score.PlayState, score.Gametime = provider.ClassifyPlayState(clock[nflTeam], now)
	return score
}

var injuryStatuses = map[string]models.PlayerStatus{
	"Questionable": models.StatusQuestionable,
	"Doubtful":     models.StatusDoubtful,
	"Out":          models.StatusOut,
	"IR":           models.StatusIR,
	"PUP":          models.StatusIR,
}

// mapInjuryStatus converts Sleeper's injury vocabulary. Sleeper omits the
// field entirely for healthy players; unmapped values degrade to UNKNOWN.
func mapInjuryStatus(raw string) models.PlayerStatus {
	if raw == "" {
		return models.StatusActive
	}
	if status, ok := injuryStatuses[raw]; ok {
		return status
	}
	slog.Warn("Unmapped Sleeper injury status", "status", raw)
	return models.StatusUnknown
}
