package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

func TestCacheMissIsExplicit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.ScoresByLeagueWeek(ctx, 111, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("scores read before ingest: got %v, want ErrNotFound", err)
	}
	if _, err := store.ProjectionsByWeek(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("projections read before ingest: got %v, want ErrNotFound", err)
	}
	if _, err := store.GameProgressByWeek(ctx, 2024, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("game progress read before ingest: got %v, want ErrNotFound", err)
	}
	if _, err := store.LeaguesByProfile(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("profile read before ingest: got %v, want ErrNotFound", err)
	}
}

func TestZeroValuedScoreIsNotACacheMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	score := models.PlayerScore{
		LeagueID: 111, TeamID: 1, Week: 3,
		Player:  models.Player{Name: "Justin Jefferson", NFLTeam: "MIN", Position: "WR", Status: models.StatusActive},
		Slot:    "WR",
		Points:  0,
		Updated: time.Now(),
	}
	if err := store.ReplaceScores(ctx, 111, 3, []models.PlayerScore{score}); err != nil {
		t.Fatal(err)
	}

	scores, err := store.ScoresByLeagueWeek(ctx, 111, 3)
	if err != nil {
		t.Fatalf("zero-point score should be readable: %v", err)
	}
	if len(scores) != 1 || scores[0].Points != 0 {
		t.Errorf("got %v, want one zero-point row", scores)
	}
}

func TestIdempotentReingestion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	updated := time.Now()

	scores := []models.PlayerScore{
		{LeagueID: 111, TeamID: 1, Week: 3, Player: models.Player{Name: "Josh Allen", NFLTeam: "BUF"}, Points: 21.5, Updated: updated},
		{LeagueID: 111, TeamID: 1, Week: 3, Player: models.Player{Name: "James Cook", NFLTeam: "BUF"}, Points: 8.2, Updated: updated},
	}

	for i := 0; i < 3; i++ {
		if err := store.ReplaceScores(ctx, 111, 3, scores); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ScoresByLeagueWeek(ctx, 111, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("re-ingesting the same batch produced %d rows, want 2", len(got))
	}
}

func TestReplaceScoresDropsDroppedPlayers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := []models.PlayerScore{
		{LeagueID: 7, TeamID: 2, Week: 1, Player: models.Player{Name: "Old Guy"}, Updated: time.Now()},
	}
	second := []models.PlayerScore{
		{LeagueID: 7, TeamID: 2, Week: 1, Player: models.Player{Name: "New Guy"}, Updated: time.Now()},
	}

	if err := store.ReplaceScores(ctx, 7, 1, first); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceScores(ctx, 7, 1, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.ScoresByLeagueWeek(ctx, 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "New Guy" {
		t.Errorf("got %v, want only the re-ingested roster", got)
	}
}

func TestUpsertLeagueOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	league := models.League{Profile: "johnny", Name: "Work League", Provider: models.ProviderESPN, Scoring: models.ScoringHalfPPR, LeagueID: 42, TeamID: 3}
	if err := store.UpsertLeague(ctx, league); err != nil {
		t.Fatal(err)
	}

	league.Name = "Work League (Renamed)"
	if err := store.UpsertLeague(ctx, league); err != nil {
		t.Fatal(err)
	}

	leagues, err := store.LeaguesByProfile(ctx, "johnny")
	if err != nil {
		t.Fatal(err)
	}
	if len(leagues) != 1 {
		t.Fatalf("upsert duplicated the league: %d rows", len(leagues))
	}
	if leagues[0].Name != "Work League (Renamed)" {
		t.Errorf("name = %q, want renamed value", leagues[0].Name)
	}
}

func TestRecentChangesOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()

	var changes []models.Change
	for i := 0; i < 5; i++ {
		changes = append(changes, models.Change{
			Player:  "Player",
			Scoring: models.ScoringPPR,
			Old:     float64(i),
			New:     float64(i + 10),
			Updated: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := store.AppendChanges(ctx, changes); err != nil {
		t.Fatal(err)
	}

	got, err := store.RecentChanges(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("limit not applied: got %d", len(got))
	}
	if got[0].Old != 4 {
		t.Errorf("newest change first: got Old=%v, want 4", got[0].Old)
	}
}
