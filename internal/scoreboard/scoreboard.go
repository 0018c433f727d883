// Package scoreboard joins stored leagues, matchups, rosters, projections
// and game progress into the per-profile view served over HTTP. It reads
// only from the store; a scoreboard request never triggers a provider fetch.
package scoreboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/projection"
)

// Mode selects how much of each roster the board shows.
type Mode string

const (
	// ModeDefault shows starters only.
	ModeDefault Mode = "default"
	// ModeAll shows starters plus bench and IR.
	ModeAll Mode = "all"
	// ModeMax replaces the actual lineup with the best projected lineup
	// buildable from the full roster.
	ModeMax Mode = "max"
)

// ParseMode maps a query value to a Mode, defaulting unknown values.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(s)) {
	case ModeAll:
		return ModeAll
	case ModeMax:
		return ModeMax
	default:
		return ModeDefault
	}
}

// PlayerLine is one roster row as rendered on the board.
type PlayerLine struct {
	Name        string              `json:"name"`
	NFLTeam     string              `json:"nfl_team"`
	Position    string              `json:"position"`
	Slot        string              `json:"slot"`
	Status      models.PlayerStatus `json:"status"`
	Highlighted bool                `json:"highlighted"`
	PlayState   models.PlayState    `json:"play_state"`
	GameClock   string              `json:"game_clock,omitempty"`
	Points      float64             `json:"points"`
	Projected   float64             `json:"projected"`
}

// TeamBoard is one side of a matchup.
type TeamBoard struct {
	TeamID    int          `json:"team_id"`
	Name      string       `json:"name"`
	Owner     string       `json:"owner,omitempty"`
	Starters  []PlayerLine `json:"starters"`
	Bench     []PlayerLine `json:"bench,omitempty"`
	Points    float64      `json:"points"`
	Projected float64      `json:"projected"`
	Winning   bool         `json:"winning"`
	// WinningProjected flags the side the dynamic projections favor, which
	// can disagree with the live score.
	WinningProjected bool `json:"winning_projected"`
}

// LeagueBoard is one league's matchup for the profile's team. A league that
// failed to assemble carries its error and renders alongside the healthy
// ones.
type LeagueBoard struct {
	League   string               `json:"league"`
	Kind     models.ProviderKind  `json:"platform"`
	Scoring  models.ScoringFormat `json:"scoring"`
	Team     *TeamBoard           `json:"team,omitempty"`
	Opponent *TeamBoard           `json:"opponent,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// Scoreboard is the full response for one profile.
type Scoreboard struct {
	Profile   string        `json:"profile"`
	Week      int           `json:"week"`
	Mode      Mode          `json:"mode"`
	Leagues   []LeagueBoard `json:"leagues"`
	Generated time.Time     `json:"generated"`
}

// Assembler builds scoreboards from stored data.
type Assembler struct {
	store storage.Store
	cfg   *config.Config
}

func NewAssembler(store storage.Store, cfg *config.Config) *Assembler {
	return &Assembler{store: store, cfg: cfg}
}

// Assemble renders every league registered for a profile. One league's
// missing or broken data marks that league and leaves the rest intact; only
// an unknown profile fails the whole request.
func (a *Assembler) Assemble(ctx context.Context, profile string, mode Mode, now time.Time) (*Scoreboard, error) {
	leagues, err := a.store.LeaguesByProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile, err)
	}

	week := a.cfg.CurrentWeek(now)
	board := &Scoreboard{Profile: profile, Week: week, Mode: mode, Generated: now}

	projections := a.loadProjections(ctx, week)
	progress := a.loadProgress(ctx, week)

	for _, league := range leagues {
		lb := LeagueBoard{League: league.Name, Kind: league.Provider, Scoring: league.Scoring}
		if err := a.assembleLeague(ctx, &lb, league, week, mode, projections, progress); err != nil {
			slog.Warn("League board unavailable", "profile", profile, "league", league.Name, "error", err)
			lb.Error = err.Error()
		}
		board.Leagues = append(board.Leagues, lb)
	}
	return board, nil
}

// loadProjections indexes the week's baselines by NFL team and player name.
// A missing snapshot degrades to zero baselines rather than failing.
func (a *Assembler) loadProjections(ctx context.Context, week int) map[string]models.Projection {
	rows, err := a.store.ProjectionsByWeek(ctx, week)
	if err != nil {
		if !storage.IsNotFound(err) {
			slog.Error("Failed to load projections", "week", week, "error", err)
		}
		return map[string]models.Projection{}
	}
	index := make(map[string]models.Projection, len(rows))
	for _, p := range rows {
		index[projectionKey(p.NFLTeam, p.Player)] = p
	}
	return index
}

func (a *Assembler) loadProgress(ctx context.Context, week int) map[string]models.GameProgress {
	rows, err := a.store.GameProgressByWeek(ctx, a.cfg.Season.Year, week)
	if err != nil {
		if !storage.IsNotFound(err) {
			slog.Error("Failed to load game progress", "week", week, "error", err)
		}
		return map[string]models.GameProgress{}
	}
	index := make(map[string]models.GameProgress, len(rows))
	for _, g := range rows {
		index[g.NFLTeam] = g
	}
	return index
}

func (a *Assembler) assembleLeague(ctx context.Context, lb *LeagueBoard, league models.League, week int, mode Mode, projections map[string]models.Projection, progress map[string]models.GameProgress) error {
	matchups, err := a.store.MatchupsByLeagueWeek(ctx, league.LeagueID, week)
	if err != nil {
		return fmt.Errorf("matchups: %w", err)
	}

	var matchup *models.Matchup
	for i := range matchups {
		if matchups[i].Home == league.TeamID {
			matchup = &matchups[i]
			break
		}
	}
	if matchup == nil {
		return fmt.Errorf("no matchup for team %d", league.TeamID)
	}

	teams, err := a.store.TeamsByLeague(ctx, league.LeagueID)
	if err != nil {
		return fmt.Errorf("teams: %w", err)
	}
	teamNames := make(map[int]models.Team, len(teams))
	for _, t := range teams {
		teamNames[t.TeamID] = t
	}

	scores, err := a.store.ScoresByLeagueWeek(ctx, league.LeagueID, week)
	if err != nil {
		return fmt.Errorf("scores: %w", err)
	}
	byTeam := make(map[int][]models.PlayerScore)
	for _, s := range scores {
		byTeam[s.TeamID] = append(byTeam[s.TeamID], s)
	}

	home := a.buildTeamBoard(league, teamNames[matchup.Home], byTeam[matchup.Home], mode, projections, progress)
	away := a.buildTeamBoard(league, teamNames[matchup.Away], byTeam[matchup.Away], mode, projections, progress)
	markWinner(home, away)

	lb.Team = home
	lb.Opponent = away
	return nil
}

func (a *Assembler) buildTeamBoard(league models.League, team models.Team, roster []models.PlayerScore, mode Mode, projections map[string]models.Projection, progress map[string]models.GameProgress) *TeamBoard {
	board := &TeamBoard{TeamID: team.TeamID, Name: team.Name, Owner: team.Owner}

	lines := make([]PlayerLine, 0, len(roster))
	for _, score := range roster {
		lines = append(lines, a.buildLine(league, score, projections, progress))
	}

	var starters, bench []PlayerLine
	for _, line := range lines {
		if isBenchSlot(line.Slot) {
			bench = append(bench, line)
		} else {
			starters = append(starters, line)
		}
	}

	if mode == ModeMax {
		starters = maxLineup(lines, league.Provider)
	}
	sortLines(starters)
	sortLines(bench)

	board.Starters = starters
	if mode == ModeAll {
		board.Bench = bench
	}
	for _, line := range board.Starters {
		board.Points += line.Points
		board.Projected += line.Projected
	}
	return board
}

func (a *Assembler) buildLine(league models.League, score models.PlayerScore, projections map[string]models.Projection, progress map[string]models.GameProgress) PlayerLine {
	baseline := 0.0
	if p, ok := lookupProjection(projections, score.NFLTeam, score.Name); ok {
		baseline = projection.Baseline(p, league.Scoring)
	}

	var gp *models.GameProgress
	gameClock := ""
	if g, ok := progress[score.NFLTeam]; ok {
		gp = &g
		gameClock = g.Display
	}

	return PlayerLine{
		Name:        score.Name,
		NFLTeam:     score.NFLTeam,
		Position:    score.Position,
		Slot:        score.Slot,
		Status:      score.Status,
		Highlighted: score.Status.Highlighted(),
		PlayState:   score.PlayState,
		GameClock:   gameClock,
		Points:      score.Points,
		Projected:   projection.ForScore(score, baseline, gp),
	}
}

func projectionKey(team, player string) string {
	return team + "/" + strings.ToLower(player)
}

// lookupProjection tries the exact key first, then fuzzy-matches within the
// same NFL team to absorb naming drift between the providers and the feed.
func lookupProjection(projections map[string]models.Projection, team, player string) (models.Projection, bool) {
	if p, ok := projections[projectionKey(team, player)]; ok {
		return p, true
	}

	prefix := team + "/"
	var candidates []string
	for key := range projections {
		if strings.HasPrefix(key, prefix) {
			candidates = append(candidates, strings.TrimPrefix(key, prefix))
		}
	}
	matches := fuzzy.RankFindNormalizedFold(squashName(player), candidates)
	if len(matches) == 0 {
		return models.Projection{}, false
	}
	sort.Sort(matches)
	return projections[prefix+matches[0].Target], true
}

// squashName drops punctuation so abbreviated provider names still match
// the feed ("J. Jefferson" against "justin jefferson").
func squashName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
}

func isBenchSlot(slot string) bool {
	return slot == "BE" || slot == "IR"
}

func sortLines(lines []PlayerLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		ri, rj := models.PositionRank(lines[i].Slot), models.PositionRank(lines[j].Slot)
		if ri != rj {
			return ri < rj
		}
		return lines[i].Projected > lines[j].Projected
	})
}

func markWinner(home, away *TeamBoard) {
	switch {
	case home.Points > away.Points:
		home.Winning = true
	case away.Points > home.Points:
		away.Winning = true
	}
	switch {
	case home.Projected > away.Projected:
		home.WinningProjected = true
	case away.Projected > home.Projected:
		away.WinningProjected = true
	}
}
