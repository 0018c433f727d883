// Package provider defines the capability interface every fantasy platform
// adapter satisfies, and the registry used to select one by provider kind.
package provider

import (
	"context"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// GameTime is the real-world schedule slot for one NFL team's game this
// week, used to classify roster rows into play states. Keyed by ESPN team
// code in the maps passed around.
type GameTime struct {
	Kickoff time.Time
	Done    bool
}

// WeekData is everything an adapter produces for one league and week:
// the matchup pairings and one score row per rostered player.
type WeekData struct {
	Matchups []models.Matchup
	Scores   []models.PlayerScore
}

// Provider fetches one platform's league data and maps it into canonical
// records. Implementations must never fail on a single odd player value;
// anything unmappable degrades (status to UNKNOWN, missing points to zero)
// so one provider quirk can't abort a whole ingestion batch.
type Provider interface {
	Kind() models.ProviderKind

	// FetchTeams returns the league's fantasy teams with display names and
	// owner identities.
	FetchTeams(ctx context.Context, league models.League) ([]models.Team, error)

	// FetchWeek returns the week's matchups and live roster scores. The
	// clock maps NFL team codes to their game slots; adapters use it to
	// classify each player's play state.
	FetchWeek(ctx context.Context, league models.League, week int, clock map[string]GameTime) (*WeekData, error)
}

// ClassifyPlayState buckets a player's game relative to now. Players whose
// team has no game slot this week are on bye.
func ClassifyPlayState(gt GameTime, now time.Time) (models.PlayState, time.Time) {
	if gt.Kickoff.IsZero() {
		return models.PlayBye, time.Time{}
	}
	switch {
	case gt.Done:
		return models.PlayFinal, gt.Kickoff
	case !now.Before(gt.Kickoff):
		return models.PlayLive, gt.Kickoff
	case gt.Kickoff.Year() == now.Year() && gt.Kickoff.YearDay() == now.YearDay():
		return models.PlayToday, gt.Kickoff
	default:
		return models.PlayFuture, gt.Kickoff
	}
}
