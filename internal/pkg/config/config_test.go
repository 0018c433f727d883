package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
postgres:
  dsn: "postgres://localhost/commander?sslmode=disable"
server:
  port: 8080
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ingest.WorkerLimit != 4 {
		t.Errorf("WorkerLimit = %d, want default 4", cfg.Ingest.WorkerLimit)
	}
	if cfg.Monitor.Threshold != 3.0 {
		t.Errorf("Threshold = %v, want default 3.0", cfg.Monitor.Threshold)
	}
	if cfg.Projections.BaseURL == "" {
		t.Error("Projections.BaseURL default not applied")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestCurrentWeek(t *testing.T) {
	cfg := &Config{}
	cfg.Season.Start = time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		now  time.Time
		week int
	}{
		{time.Date(2024, 9, 5, 12, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		if got := cfg.CurrentWeek(tt.now); got != tt.week {
			t.Errorf("CurrentWeek(%s) = %d, want %d", tt.now.Format("2006-01-02"), got, tt.week)
		}
	}
}
