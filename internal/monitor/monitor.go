// Package monitor detects projection swings between successive snapshots.
// It is a detection primitive: delivery of the resulting change records is a
// separate concern behind the Notifier interface.
package monitor

import (
	"math"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// Notifier delivers detected changes somewhere humans see them.
type Notifier interface {
	NotifyChanges(changes []models.Change)
}

// Monitor compares projection snapshots and emits changes whose magnitude
// crosses the threshold.
type Monitor struct {
	threshold float64
}

func New(threshold float64) *Monitor {
	return &Monitor{threshold: threshold}
}

type snapshotKey struct {
	player  string
	nflTeam string
}

// Compare diffs the previous projection snapshot against the current one for
// a single scoring format and returns a change record per player whose value
// moved by more than the threshold. Players present in only one snapshot are
// compared against zero, so a player newly appearing with a large projection
// registers as a change too.
func (m *Monitor) Compare(previous, current []models.Projection, format models.ScoringFormat, now time.Time) []models.Change {
	old := make(map[snapshotKey]float64, len(previous))
	for _, p := range previous {
		old[snapshotKey{p.Player, p.NFLTeam}] = p.ForFormat(format)
	}

	seen := make(map[snapshotKey]bool, len(current))
	var changes []models.Change

	for _, p := range current {
		key := snapshotKey{p.Player, p.NFLTeam}
		seen[key] = true

		oldValue := old[key]
		newValue := p.ForFormat(format)
		if math.Abs(newValue-oldValue) > m.threshold {
			changes = append(changes, models.Change{
				Player:  p.Player,
				NFLTeam: p.NFLTeam,
				Scoring: format,
				Old:     oldValue,
				New:     newValue,
				Updated: now,
			})
		}
	}

	// Players dropped from the feed entirely.
	for _, p := range previous {
		key := snapshotKey{p.Player, p.NFLTeam}
		if seen[key] {
			continue
		}
		oldValue := p.ForFormat(format)
		if math.Abs(oldValue) > m.threshold {
			changes = append(changes, models.Change{
				Player:  p.Player,
				NFLTeam: p.NFLTeam,
				Scoring: format,
				Old:     oldValue,
				New:     0,
				Updated: now,
			})
		}
	}

	return changes
}
