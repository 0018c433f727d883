// Package ingest orchestrates refresh runs: it pulls the NFL game clock,
// the baseline projections feed, and every registered league's provider
// data, and writes the canonical records through the store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/johnny-papercut/fantasy/internal/monitor"
	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/provider"
)

// ProjectionsFeed is the baseline projections source.
type ProjectionsFeed interface {
	FetchWeek(ctx context.Context, week int) ([]models.Projection, error)
}

// GamesFeed is the NFL schedule and clock source.
type GamesFeed interface {
	FetchWeek(ctx context.Context, year, week int) ([]models.GameProgress, map[string]provider.GameTime, error)
}

// LeagueFailure records one league whose refresh failed. One league's
// provider being down never aborts the others.
type LeagueFailure struct {
	League models.League
	Err    error
}

// Result summarizes one refresh run.
type Result struct {
	Week      int
	Succeeded int
	Failures  []LeagueFailure
}

// Ingestor runs refreshes. Safe for concurrent use; overlapping runs
// converge because every write is an idempotent keyed upsert.
type Ingestor struct {
	store       storage.Store
	cfg         *config.Config
	projections ProjectionsFeed
	games       GamesFeed
	monitor     *monitor.Monitor
	notifier    monitor.Notifier

	mu        sync.Mutex
	providers map[models.ProviderKind]provider.Provider
}

func New(store storage.Store, cfg *config.Config, projections ProjectionsFeed, games GamesFeed, mon *monitor.Monitor, notifier monitor.Notifier) *Ingestor {
	return &Ingestor{
		store:       store,
		cfg:         cfg,
		projections: projections,
		games:       games,
		monitor:     mon,
		notifier:    notifier,
		providers:   make(map[models.ProviderKind]provider.Provider),
	}
}

func (in *Ingestor) providerFor(kind models.ProviderKind) (provider.Provider, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if p, ok := in.providers[kind]; ok {
		return p, nil
	}
	factory, err := provider.ForKind(kind)
	if err != nil {
		return nil, err
	}
	p := factory(&in.cfg.Ingest)
	in.providers[kind] = p
	return p, nil
}

// RefreshAll runs the full pipeline: game clock, baseline projections with
// change detection, then teams, matchups and scores for every league.
func (in *Ingestor) RefreshAll(ctx context.Context, now time.Time) (*Result, error) {
	week := in.cfg.CurrentWeek(now)
	year := in.cfg.Season.Year
	slog.Info("Full refresh started", "year", year, "week", week)

	clock, err := in.refreshGameProgress(ctx, year, week)
	if err != nil {
		// Players fall back to future/bye classification without a clock.
		slog.Error("Failed to refresh game progress", "error", err)
		clock = map[string]provider.GameTime{}
	}

	if err := in.refreshProjections(ctx, week, now); err != nil {
		slog.Error("Failed to refresh projections", "error", err)
	}

	result, err := in.refreshLeagues(ctx, week, clock, true)
	if err != nil {
		return nil, err
	}
	slog.Info("Full refresh finished", "week", week, "succeeded", result.Succeeded, "failed", len(result.Failures))
	return result, nil
}

// RefreshScores is the fast path run between full refreshes: game clock plus
// matchups and live scores, skipping team metadata and projections.
func (in *Ingestor) RefreshScores(ctx context.Context, now time.Time) (*Result, error) {
	week := in.cfg.CurrentWeek(now)
	year := in.cfg.Season.Year
	slog.Info("Score refresh started", "year", year, "week", week)

	clock, err := in.refreshGameProgress(ctx, year, week)
	if err != nil {
		slog.Error("Failed to refresh game progress", "error", err)
		clock = map[string]provider.GameTime{}
	}

	result, err := in.refreshLeagues(ctx, week, clock, false)
	if err != nil {
		return nil, err
	}
	slog.Info("Score refresh finished", "week", week, "succeeded", result.Succeeded, "failed", len(result.Failures))
	return result, nil
}

func (in *Ingestor) refreshGameProgress(ctx context.Context, year, week int) (map[string]provider.GameTime, error) {
	progress, clock, err := in.games.FetchWeek(ctx, year, week)
	if err != nil {
		return nil, fmt.Errorf("fetch nfl schedule: %w", err)
	}
	if err := in.withRetries(ctx, func() error {
		return in.store.ReplaceGameProgress(ctx, year, week, progress)
	}); err != nil {
		return clock, fmt.Errorf("store game progress: %w", err)
	}
	return clock, nil
}

// refreshProjections replaces the week's baselines and logs any moves that
// cross the alert threshold against the previous snapshot.
func (in *Ingestor) refreshProjections(ctx context.Context, week int, now time.Time) error {
	current, err := in.projections.FetchWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("fetch projections: %w", err)
	}

	previous, err := in.store.ProjectionsByWeek(ctx, week)
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("load previous projections: %w", err)
	}

	if len(previous) > 0 && in.monitor != nil {
		changes := in.monitor.Compare(previous, current, models.ScoringHalfPPR, now)
		if len(changes) > 0 {
			if err := in.store.AppendChanges(ctx, changes); err != nil {
				slog.Error("Failed to record projection changes", "error", err)
			}
			if in.notifier != nil {
				in.notifier.NotifyChanges(changes)
			}
			slog.Info("Projection changes detected", "count", len(changes))
		}
	}

	if err := in.withRetries(ctx, func() error {
		return in.store.ReplaceProjections(ctx, week, current)
	}); err != nil {
		return fmt.Errorf("store projections: %w", err)
	}
	slog.Info("Projections refreshed", "week", week, "players", len(current))
	return nil
}

// refreshLeagues fans out over every registered league with a bounded worker
// pool. Failures are isolated per league and reported in the result.
func (in *Ingestor) refreshLeagues(ctx context.Context, week int, clock map[string]provider.GameTime, includeTeams bool) (*Result, error) {
	leagues, err := in.store.AllLeagues(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return &Result{Week: week}, nil
		}
		return nil, fmt.Errorf("load leagues: %w", err)
	}

	workers := in.cfg.Ingest.WorkerLimit
	if workers <= 0 {
		workers = 1
	}

	result := &Result{Week: week}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)

	for _, league := range leagues {
		wg.Add(1)
		go func(league models.League) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := in.refreshLeague(ctx, league, week, clock, includeTeams)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("League refresh failed", "profile", league.Profile, "league", league.Name, "error", err)
				result.Failures = append(result.Failures, LeagueFailure{League: league, Err: err})
				return
			}
			result.Succeeded++
		}(league)
	}
	wg.Wait()

	return result, nil
}

func (in *Ingestor) refreshLeague(ctx context.Context, league models.League, week int, clock map[string]provider.GameTime, includeTeams bool) error {
	ctx, cancel := context.WithTimeout(ctx, in.cfg.Ingest.ProviderTimeout)
	defer cancel()

	p, err := in.providerFor(league.Provider)
	if err != nil {
		return err
	}

	if includeTeams {
		teams, err := p.FetchTeams(ctx, league)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		if err := in.withRetries(ctx, func() error {
			return in.store.UpsertTeams(ctx, teams)
		}); err != nil {
			return fmt.Errorf("store teams: %w", err)
		}
	}

	data, err := p.FetchWeek(ctx, league, week, clock)
	if err != nil {
		return fmt.Errorf("fetch week: %w", err)
	}
	if err := in.withRetries(ctx, func() error {
		return in.store.ReplaceMatchups(ctx, league.LeagueID, week, data.Matchups)
	}); err != nil {
		return fmt.Errorf("store matchups: %w", err)
	}
	if err := in.withRetries(ctx, func() error {
		return in.store.ReplaceScores(ctx, league.LeagueID, week, data.Scores)
	}); err != nil {
		return fmt.Errorf("store scores: %w", err)
	}

	slog.Info("League refreshed", "profile", league.Profile, "league", league.Name, "week", week,
		"matchups", len(data.Matchups), "players", len(data.Scores))
	return nil
}

// withRetries runs a store write up to the configured attempt count with a
// short backoff.
func (in *Ingestor) withRetries(ctx context.Context, fn func() error) error {
	attempts := in.cfg.Ingest.WriteRetries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return err
}
