package storage

import (
	"context"
	"errors"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// ErrNotFound is returned by reads for data that has never been ingested.
// Callers can tell a real zero-valued record from an absent one.
var ErrNotFound = errors.New("storage: not found")

// IsNotFound reports whether err is a cache miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is the single shared-mutation point for canonical records. Upserts
// are keyed by natural key, so re-ingesting the same league and week
// overwrites rather than duplicates; concurrent writers of the same payload
// converge on the same rows.
type Store interface {
	UpsertLeague(ctx context.Context, league models.League) error
	LeaguesByProfile(ctx context.Context, profile string) ([]models.League, error)
	AllLeagues(ctx context.Context) ([]models.League, error)

	UpsertTeams(ctx context.Context, teams []models.Team) error
	TeamsByLeague(ctx context.Context, leagueID int64) ([]models.Team, error)

	// ReplaceMatchups swaps the matchup set for one league and week.
	ReplaceMatchups(ctx context.Context, leagueID int64, week int, matchups []models.Matchup) error
	MatchupsByLeagueWeek(ctx context.Context, leagueID int64, week int) ([]models.Matchup, error)

	// ReplaceScores upserts the roster rows for one league and week and
	// drops rows older than the batch, so dropped players disappear.
	ReplaceScores(ctx context.Context, leagueID int64, week int, scores []models.PlayerScore) error
	ScoresByLeagueWeek(ctx context.Context, leagueID int64, week int) ([]models.PlayerScore, error)

	ReplaceProjections(ctx context.Context, week int, projections []models.Projection) error
	ProjectionsByWeek(ctx context.Context, week int) ([]models.Projection, error)

	ReplaceGameProgress(ctx context.Context, year, week int, progress []models.GameProgress) error
	GameProgressByWeek(ctx context.Context, year, week int) ([]models.GameProgress, error)

	// AppendChanges writes change records. The changes log is append-only.
	AppendChanges(ctx context.Context, changes []models.Change) error
	RecentChanges(ctx context.Context, limit int) ([]models.Change, error)

	Close() error
}
