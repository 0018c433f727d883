// Package scheduler drives refreshes on a timer for deployments that don't
// have an external scheduler hitting the HTTP entry points.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/johnny-papercut/fantasy/internal/ingest"
	"github.com/johnny-papercut/fantasy/internal/pkg/config"
)

type Scheduler struct {
	s        gocron.Scheduler
	ingestor *ingest.Ingestor
	cfg      config.SchedulerConfig
}

func NewScheduler(ingestor *ingest.Ingestor, cfg config.SchedulerConfig) (*Scheduler, error) {
	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			slog.Error("Failed to load location, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		} else {
			location = loc
		}
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{s: s, ingestor: ingestor, cfg: cfg}, nil
}

func (s *Scheduler) Start() error {
	if s.cfg.FullRefresh != "" {
		_, err := s.s.NewJob(
			gocron.CronJob(s.cfg.FullRefresh, false),
			gocron.NewTask(s.runFullRefresh),
		)
		if err != nil {
			return fmt.Errorf("failed to create full refresh job: %w", err)
		}
	}

	if s.cfg.ScoreInterval > 0 {
		_, err := s.s.NewJob(
			gocron.DurationJob(s.cfg.ScoreInterval),
			gocron.NewTask(s.runScoreRefresh),
		)
		if err != nil {
			return fmt.Errorf("failed to create score refresh job: %w", err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runFullRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if _, err := s.ingestor.RefreshAll(ctx, time.Now().UTC()); err != nil {
		slog.Error("Scheduled full refresh failed", "error", err)
	}
}

func (s *Scheduler) runScoreRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := s.ingestor.RefreshScores(ctx, time.Now().UTC()); err != nil {
		slog.Error("Scheduled score refresh failed", "error", err)
	}
}
