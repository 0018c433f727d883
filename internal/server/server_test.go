package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/ingest"
	"github.com/johnny-papercut/fantasy/internal/monitor"
	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/provider"
	"github.com/johnny-papercut/fantasy/internal/scoreboard"
)

type stubProjections struct{}

func (stubProjections) FetchWeek(context.Context, int) ([]models.Projection, error) {
	return nil, nil
}

type stubGames struct{}

func (stubGames) FetchWeek(context.Context, int, int) ([]models.GameProgress, map[string]provider.GameTime, error) {
	return nil, nil, nil
}

func testServer(store storage.Store) *Server {
	cfg := &config.Config{}
	cfg.Ingest.WorkerLimit = 2
	cfg.Ingest.ProviderTimeout = 5 * time.Second
	cfg.Ingest.WriteRetries = 1
	cfg.Server.Port = 8080
	cfg.Server.ReadHeaderTimeout = 5 * time.Second
	cfg.Season.Year = 2025
	cfg.Season.Start = time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)

	in := ingest.New(store, cfg, stubProjections{}, stubGames{}, monitor.New(3.0), nil)
	return New(in, scoreboard.NewAssembler(store, cfg), store, cfg)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUpdateAllEmptyStore(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/update/all", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Succeeded int `json:"succeeded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Succeeded != 0 {
		t.Errorf("expected 0 leagues refreshed, got %d", body.Succeeded)
	}
}

func TestUpdateAcceptsGet(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	// Cron-driven deployments trigger updates with plain GETs.
	resp, err := http.Get(srv.URL + "/update/scores")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for GET trigger, got %d", resp.StatusCode)
	}
}

func TestScoreboardUnknownProfile(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/scoreboard/nobody")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown profile, got %d", resp.StatusCode)
	}
}

func TestChanges(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.AppendChanges(context.Background(), []models.Change{
		{Player: "Justin Jefferson", NFLTeam: "MIN", Old: 10, New: 16, Updated: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(testServer(store).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/changes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var changes []models.Change
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].Player != "Justin Jefferson" {
		t.Errorf("unexpected changes payload: %+v", changes)
	}
}

func TestChangesBadLimit(t *testing.T) {
	srv := httptest.NewServer(testServer(storage.NewMemoryStore()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/changes?limit=bogus")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", resp.StatusCode)
	}
}
