// Package espn maps ESPN fantasy league data into canonical records.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/provider"
)

func init() {
	provider.Register(models.ProviderESPN, func(cfg *config.IngestConfig) provider.Provider {
		return New(NewClient(cfg.ProviderTimeout, cfg.UserAgent))
	})
}

// Adapter is the ESPN provider adapter.
type Adapter struct {
	client *Client
}

func New(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Kind() models.ProviderKind {
	return models.ProviderESPN
}

func (a *Adapter) FetchTeams(ctx context.Context, league models.League) ([]models.Team, error) {
	var resp leagueResponse
	endpoint := fmt.Sprintf("/seasons/%d/segments/0/leagues/%d", league.StartYear, league.LeagueID)
	params := url.Values{"view": {"mTeam"}}

	if err := a.client.get(ctx, endpoint, params, nil, league.SWID, league.S2, &resp); err != nil {
		return nil, fmt.Errorf("fetching teams for league %d: %w", league.LeagueID, err)
	}

	owners := make(map[string]string, len(resp.Members))
	for _, m := range resp.Members {
		owners[m.ID] = fmt.Sprintf("%s %s", m.FirstName, m.LastName)
	}

	teams := make([]models.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		owner := "None"
		if len(t.Owners) > 0 {
			if name, ok := owners[t.Owners[0]]; ok {
				owner = name
			}
		}
		teams = append(teams, models.Team{
			LeagueID: league.LeagueID,
			TeamID:   t.ID,
			Name:     models.CleanupDisplayName(t.Name),
			Owner:    models.CleanupDisplayName(owner),
		})
	}
	return teams, nil
}

func (a *Adapter) FetchWeek(ctx context.Context, league models.League, week int, clock map[string]provider.GameTime) (*provider.WeekData, error) {
	var resp leagueResponse
	endpoint := fmt.Sprintf("/seasons/%d/segments/0/leagues/%d", league.StartYear, league.LeagueID)
	params := url.Values{
		"view":            {"mMatchup", "mRoster"},
		"scoringPeriodId": {fmt.Sprintf("%d", week)},
	}

	filters := map[string]any{
		"schedule": map[string]any{
			"filterMatchupPeriodIds": map[string]any{"value": []int{week}},
		},
	}
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}
	headers := map[string]string{"x-fantasy-filter": string(filtersJSON)}

	if err := a.client.get(ctx, endpoint, params, headers, league.SWID, league.S2, &resp); err != nil {
		return nil, fmt.Errorf("fetching week %d for league %d: %w", week, league.LeagueID, err)
	}

	data := &provider.WeekData{}
	now := time.Now()

	for _, match := range resp.Schedule {
		if match.MatchupPeriodID != week {
			continue
		}
		// Both directions, so either side resolves as home.
		data.Matchups = append(data.Matchups,
			models.Matchup{LeagueID: league.LeagueID, Week: week, Home: match.Home.TeamID, Away: match.Away.TeamID},
			models.Matchup{LeagueID: league.LeagueID, Week: week, Home: match.Away.TeamID, Away: match.Home.TeamID},
		)
	}

	for _, team := range resp.Teams {
		for _, entry := range team.Roster.Entries {
			data.Scores = append(data.Scores, a.mapRosterEntry(league, team.ID, week, entry, clock, now))
		}
	}

	return data, nil
}

func (a *Adapter) mapRosterEntry(league models.League, teamID, week int, entry rosterEntry, clock map[string]provider.GameTime, now time.Time) models.PlayerScore {
	p := entry.PlayerPoolEntry.Player
	nflTeam := proTeamCode(p.ProTeamID)

	score := models.PlayerScore{
		LeagueID: league.LeagueID,
		TeamID:   teamID,
		Week:     week,
		Player: models.Player{
			Name:     models.NormalizePlayerName(p.FullName),
			NFLTeam:  nflTeam,
			Position: positionCode(p.DefaultPositionID),
			Status:   mapInjuryStatus(p.InjuryStatus),
		},
		Slot:    slotCode(entry.LineupSlotID),
		Points:  actualPoints(p.Stats, week),
		Updated: now.UTC(),
	}

	score.PlayState, score.Gametime = provider.ClassifyPlayState(clock[nflTeam], now)
	return score
}

// actualPoints pulls the live point total for the week. Stat source 0 is
// actuals; source 1 is ESPN's own projection, which this system ignores in
// favor of the external feed.
func actualPoints(stats []playerStat, week int) float64 {
	for _, stat := range stats {
		if stat.ScoringPeriodID == week && stat.StatSourceID == 0 {
			return stat.AppliedTotal
		}
	}
	return 0
}

var injuryStatuses = map[string]models.PlayerStatus{
	"ACTIVE":         models.StatusActive,
	"NORMAL":         models.StatusActive,
	"QUESTIONABLE":   models.StatusQuestionable,
	"DOUBTFUL":       models.StatusDoubtful,
	"OUT":            models.StatusOut,
	"INJURY_RESERVE": models.StatusIR,
}

// mapInjuryStatus converts ESPN's injury vocabulary. Values ESPN adds that
// aren't mapped degrade to UNKNOWN instead of failing the ingest.
func mapInjuryStatus(raw string) models.PlayerStatus {
	if raw == "" {
		return models.StatusActive
	}
	if status, ok := injuryStatuses[raw]; ok {
		return status
	}
	slog.Warn("Unmapped ESPN injury status", "status", raw)
	return models.StatusUnknown
}

var positions = map[int]string{
	1: "QB", 2: "RB", 3: "WR", 4: "TE", 5: "K", 16: "DST",
}

func positionCode(positionID int) string {
	if pos, ok := positions[positionID]; ok {
		return pos
	}
	return "FLEX"
}

var slots = map[int]string{
	0: "QB", 2: "RB", 4: "WR", 6: "TE", 16: "DST", 17: "K", 20: "BE", 21: "IR", 23: "FLEX",
}

func slotCode(slotID int) string {
	if slot, ok := slots[slotID]; ok {
		return slot
	}
	return "FLEX"
}

var proTeams = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
	9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA", 16: "MIN",
	17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
	25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
}

func proTeamCode(proTeamID int) string {
	if team, ok := proTeams[proTeamID]; ok {
		return team
	}
	return ""
}
