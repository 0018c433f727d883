package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// PostgresStore is the durable cache store for canonical fantasy records.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection and makes sure the schema exists.
func NewPostgresStore(cfg *config.PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL cache store initialized successfully")
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS leagues (
		profile VARCHAR(100) NOT NULL,
		name VARCHAR(200) NOT NULL,
		platform VARCHAR(20) NOT NULL,
		scoring VARCHAR(20) NOT NULL,
		league_id BIGINT NOT NULL,
		team_id INTEGER NOT NULL,
		start_year INTEGER NOT NULL DEFAULT 0,
		swid VARCHAR(100) NOT NULL DEFAULT '',
		s2 VARCHAR(500) NOT NULL DEFAULT '',
		UNIQUE(profile, league_id)
	);

	CREATE TABLE IF NOT EXISTS teams (
		league_id BIGINT NOT NULL,
		team_id INTEGER NOT NULL,
		team VARCHAR(200) NOT NULL,
		owner VARCHAR(200) NOT NULL,
		UNIQUE(league_id, team_id)
	);

	CREATE TABLE IF NOT EXISTS matchups (
		league_id BIGINT NOT NULL,
		week INTEGER NOT NULL,
		home INTEGER NOT NULL,
		away INTEGER NOT NULL,
		UNIQUE(league_id, week, home)
	);

	CREATE TABLE IF NOT EXISTS scores (
		league_id BIGINT NOT NULL,
		team_id INTEGER NOT NULL,
		week INTEGER NOT NULL,
		name VARCHAR(200) NOT NULL,
		team VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL,
		position VARCHAR(10) NOT NULL,
		slot VARCHAR(10) NOT NULL,
		points DECIMAL(10, 2) NOT NULL,
		play_status VARCHAR(20) NOT NULL,
		gametime TIMESTAMP NOT NULL,
		updated TIMESTAMP NOT NULL,
		UNIQUE(league_id, team_id, week, name)
	);

	CREATE TABLE IF NOT EXISTS projections (
		player VARCHAR(200) NOT NULL,
		team VARCHAR(10) NOT NULL,
		week INTEGER NOT NULL,
		standard DECIMAL(10, 2) NOT NULL,
		half_ppr DECIMAL(10, 2) NOT NULL,
		ppr DECIMAL(10, 2) NOT NULL,
		updated TIMESTAMP NOT NULL,
		UNIQUE(player, team, week)
	);

	CREATE TABLE IF NOT EXISTS game_progress (
		year INTEGER NOT NULL,
		week INTEGER NOT NULL,
		team VARCHAR(10) NOT NULL,
		progress DECIMAL(6, 4) NOT NULL,
		display VARCHAR(20) NOT NULL,
		final BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE(year, week, team)
	);

	CREATE TABLE IF NOT EXISTS changes (
		id SERIAL PRIMARY KEY,
		player VARCHAR(200) NOT NULL,
		team VARCHAR(10) NOT NULL,
		scoring VARCHAR(20) NOT NULL,
		old DECIMAL(10, 2) NOT NULL,
		new DECIMAL(10, 2) NOT NULL,
		updated TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_league_week ON scores(league_id, week);
	CREATE INDEX IF NOT EXISTS idx_projections_week ON projections(week);
	CREATE INDEX IF NOT EXISTS idx_changes_updated ON changes(updated DESC);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) UpsertLeague(ctx context.Context, league models.League) error {
	query := `
	INSERT INTO leagues (profile, name, platform, scoring, league_id, team_id, start_year, swid, s2)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (profile, league_id) DO UPDATE SET
		name = EXCLUDED.name,
		platform = EXCLUDED.platform,
		scoring = EXCLUDED.scoring,
		team_id = EXCLUDED.team_id,
		start_year = EXCLUDED.start_year,
		swid = EXCLUDED.swid,
		s2 = EXCLUDED.s2
	`
	_, err := s.db.ExecContext(ctx, query,
		league.Profile, league.Name, league.Provider, league.Scoring,
		league.LeagueID, league.TeamID, league.StartYear, league.SWID, league.S2,
	)
	return err
}

func (s *PostgresStore) LeaguesByProfile(ctx context.Context, profile string) ([]models.League, error) {
	query := `
	SELECT profile, name, platform, scoring, league_id, team_id, start_year, swid, s2
	FROM leagues WHERE profile = $1 ORDER BY platform, league_id
	`
	leagues, err := s.scanLeagues(ctx, query, profile)
	if err != nil {
		return nil, err
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("leagues for profile %q: %w", profile, ErrNotFound)
	}
	return leagues, nil
}

func (s *PostgresStore) AllLeagues(ctx context.Context) ([]models.League, error) {
	query := `
	SELECT profile, name, platform, scoring, league_id, team_id, start_year, swid, s2
	FROM leagues ORDER BY platform, league_id
	`
	return s.scanLeagues(ctx, query)
}

func (s *PostgresStore) scanLeagues(ctx context.Context, query string, args ...any) ([]models.League, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		var l models.League
		if err := rows.Scan(&l.Profile, &l.Name, &l.Provider, &l.Scoring,
			&l.LeagueID, &l.TeamID, &l.StartYear, &l.SWID, &l.S2); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

func (s *PostgresStore) UpsertTeams(ctx context.Context, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO teams (league_id, team_id, team, owner)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (league_id, team_id) DO UPDATE SET
		team = EXCLUDED.team,
		owner = EXCLUDED.owner
	`
	for _, t := range teams {
		if _, err := tx.ExecContext(ctx, query, t.LeagueID, t.TeamID, t.Name, t.Owner); err != nil {
			return fmt.Errorf("failed to upsert team %d/%d: %w", t.LeagueID, t.TeamID, err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) TeamsByLeague(ctx context.Context, leagueID int64) ([]models.Team, error) {
	query := `SELECT league_id, team_id, team, owner FROM teams WHERE league_id = $1 ORDER BY team_id`
	rows, err := s.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.LeagueID, &t.TeamID, &t.Name, &t.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("teams for league %d: %w", leagueID, ErrNotFound)
	}
	return teams, nil
}

func (s *PostgresStore) ReplaceMatchups(ctx context.Context, leagueID int64, week int, matchups []models.Matchup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matchups WHERE league_id = $1 AND week = $2`, leagueID, week); err != nil {
		return fmt.Errorf("failed to clear matchups: %w", err)
	}
	query := `INSERT INTO matchups (league_id, week, home, away) VALUES ($1, $2, $3, $4)
	ON CONFLICT (league_id, week, home) DO UPDATE SET away = EXCLUDED.away`
	for _, m := range matchups {
		if _, err := tx.ExecContext(ctx, query, m.LeagueID, m.Week, m.Home, m.Away); err != nil {
			return fmt.Errorf("failed to insert matchup: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) MatchupsByLeagueWeek(ctx context.Context, leagueID int64, week int) ([]models.Matchup, error) {
	query := `SELECT league_id, week, home, away FROM matchups WHERE league_id = $1 AND week = $2`
	rows, err := s.db.QueryContext(ctx, query, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()

	var matchups []models.Matchup
	for rows.Next() {
		var m models.Matchup
		if err := rows.Scan(&m.LeagueID, &m.Week, &m.Home, &m.Away); err != nil {
			return nil, fmt.Errorf("failed to scan matchup: %w", err)
		}
		matchups = append(matchups, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matchups) == 0 {
		return nil, fmt.Errorf("matchups for league %d week %d: %w", leagueID, week, ErrNotFound)
	}
	return matchups, nil
}

func (s *PostgresStore) ReplaceScores(ctx context.Context, leagueID int64, week int, scores []models.PlayerScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO scores (league_id, team_id, week, name, team, status, position, slot, points, play_status, gametime, updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (league_id, team_id, week, name) DO UPDATE SET
		team = EXCLUDED.team,
		status = EXCLUDED.status,
		position = EXCLUDED.position,
		slot = EXCLUDED.slot,
		points = EXCLUDED.points,
		play_status = EXCLUDED.play_status,
		gametime = EXCLUDED.gametime,
		updated = EXCLUDED.updated
	`
	batchTime := scores[0].Updated
	for _, sc := range scores {
		if _, err := tx.ExecContext(ctx, query,
			sc.LeagueID, sc.TeamID, sc.Week, sc.Name, sc.NFLTeam, sc.Status,
			sc.Position, sc.Slot, sc.Points, sc.PlayState, sc.Gametime, sc.Updated,
		); err != nil {
			return fmt.Errorf("failed to upsert score for %s: %w", sc.Name, err)
		}
	}

	// Rows not touched by this batch belong to dropped or traded players.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scores WHERE league_id = $1 AND week = $2 AND updated < $3`,
		leagueID, week, batchTime,
	); err != nil {
		return fmt.Errorf("failed to drop stale scores: %w", err)
	}
	return tx.Commit()
}

func (s *PostgresStore) ScoresByLeagueWeek(ctx context.Context, leagueID int64, week int) ([]models.PlayerScore, error) {
	query := `
	SELECT league_id, team_id, week, name, team, status, position, slot, points, play_status, gametime, updated
	FROM scores WHERE league_id = $1 AND week = $2
	`
	rows, err := s.db.QueryContext(ctx, query, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []models.PlayerScore
	for rows.Next() {
		var sc models.PlayerScore
		if err := rows.Scan(&sc.LeagueID, &sc.TeamID, &sc.Week, &sc.Name, &sc.NFLTeam,
			&sc.Status, &sc.Position, &sc.Slot, &sc.Points, &sc.PlayState, &sc.Gametime, &sc.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("scores for league %d week %d: %w", leagueID, week, ErrNotFound)
	}
	return scores, nil
}

func (s *PostgresStore) ReplaceProjections(ctx context.Context, week int, projections []models.Projection) error {
	if len(projections) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO projections (player, team, week, standard, half_ppr, ppr, updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (player, team, week) DO UPDATE SET
		standard = EXCLUDED.standard,
		half_ppr = EXCLUDED.half_ppr,
		ppr = EXCLUDED.ppr,
		updated = EXCLUDED.updated
	`
	batchTime := projections[0].Updated
	for _, p := range projections {
		if _, err := tx.ExecContext(ctx, query,
			p.Player, p.NFLTeam, p.Week, p.Standard, p.HalfPPR, p.PPR, p.Updated,
		); err != nil {
			return fmt.Errorf("failed to upsert projection for %s: %w", p.Player, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM projections WHERE week = $1 AND updated < $2`, week, batchTime,
	); err != nil {
		return fmt.Errorf("failed to drop stale projections: %w", err)
	}
	return tx.Commit()
}

func (s *PostgresStore) ProjectionsByWeek(ctx context.Context, week int) ([]models.Projection, error) {
	query := `SELECT player, team, week, standard, half_ppr, ppr, updated FROM projections WHERE week = $1`
	rows, err := s.db.QueryContext(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query projections: %w", err)
	}
	defer rows.Close()

	var projections []models.Projection
	for rows.Next() {
		var p models.Projection
		if err := rows.Scan(&p.Player, &p.NFLTeam, &p.Week, &p.Standard, &p.HalfPPR, &p.PPR, &p.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		projections = append(projections, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(projections) == 0 {
		return nil, fmt.Errorf("projections for week %d: %w", week, ErrNotFound)
	}
	return projections, nil
}

func (s *PostgresStore) ReplaceGameProgress(ctx context.Context, year, week int, progress []models.GameProgress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM game_progress WHERE year = $1 AND week = $2`, year, week,
	); err != nil {
		return fmt.Errorf("failed to clear game progress: %w", err)
	}
	query := `INSERT INTO game_progress (year, week, team, progress, display, final)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (year, week, team) DO UPDATE SET
		progress = EXCLUDED.progress,
		display = EXCLUDED.display,
		final = EXCLUDED.final`
	for _, g := range progress {
		if _, err := tx.ExecContext(ctx, query, g.Year, g.Week, g.NFLTeam, g.Elapsed, g.Display, g.Final); err != nil {
			return fmt.Errorf("failed to insert game progress for %s: %w", g.NFLTeam, err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) GameProgressByWeek(ctx context.Context, year, week int) ([]models.GameProgress, error) {
	query := `SELECT year, week, team, progress, display, final FROM game_progress WHERE year = $1 AND week = $2`
	rows, err := s.db.QueryContext(ctx, query, year, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query game progress: %w", err)
	}
	defer rows.Close()

	var progress []models.GameProgress
	for rows.Next() {
		var g models.GameProgress
		if err := rows.Scan(&g.Year, &g.Week, &g.NFLTeam, &g.Elapsed, &g.Display, &g.Final); err != nil {
			return nil, fmt.Errorf("failed to scan game progress: %w", err)
		}
		progress = append(progress, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(progress) == 0 {
		return nil, fmt.Errorf("game progress for %d week %d: %w", year, week, ErrNotFound)
	}
	return progress, nil
}

func (s *PostgresStore) AppendChanges(ctx context.Context, changes []models.Change) error {
	if len(changes) == 0 {
		return nil
	}

	query := `INSERT INTO changes (player, team, scoring, old, new, updated) VALUES ($1, $2, $3, $4, $5, $6)`
	for _, c := range changes {
		if _, err := s.db.ExecContext(ctx, query, c.Player, c.NFLTeam, c.Scoring, c.Old, c.New, c.Updated); err != nil {
			return fmt.Errorf("failed to append change for %s: %w", c.Player, err)
		}
	}
	return nil
}

func (s *PostgresStore) RecentChanges(ctx context.Context, limit int) ([]models.Change, error) {
	query := `SELECT player, team, scoring, old, new, updated FROM changes ORDER BY updated DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var changes []models.Change
	for rows.Next() {
		var c models.Change
		if err := rows.Scan(&c.Player, &c.NFLTeam, &c.Scoring, &c.Old, &c.New, &c.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
