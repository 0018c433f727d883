package monitor

import (
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

func TestCompareEmitsOnlyAboveThreshold(t *testing.T) {
	m := New(5.0)
	now := time.Now()

	previous := []models.Projection{
		{Player: "Puka Nacua", NFLTeam: "LAR", PPR: 10.0},
		{Player: "Jahmyr Gibbs", NFLTeam: "DET", PPR: 10.0},
	}
	current := []models.Projection{
		{Player: "Puka Nacua", NFLTeam: "LAR", PPR: 16.0},
		{Player: "Jahmyr Gibbs", NFLTeam: "DET", PPR: 12.0},
	}

	changes := m.Compare(previous, current, models.ScoringPPR, now)

	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	c := changes[0]
	if c.Player != "Puka Nacua" || c.Old != 10.0 || c.New != 16.0 {
		t.Errorf("unexpected change record: %+v", c)
	}
	if c.Delta() != 6.0 {
		t.Errorf("Delta() = %v, want 6.0", c.Delta())
	}
	if !c.Updated.Equal(now) {
		t.Errorf("Updated = %v, want %v", c.Updated, now)
	}
}

func TestCompareNegativeSwing(t *testing.T) {
	m := New(3.0)

	previous := []models.Projection{{Player: "Nick Chubb", NFLTeam: "CLE", HalfPPR: 14.0}}
	current := []models.Projection{{Player: "Nick Chubb", NFLTeam: "CLE", HalfPPR: 2.5}}

	changes := m.Compare(previous, current, models.ScoringHalfPPR, time.Now())
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0].Delta() >= 0 {
		t.Errorf("expected negative delta, got %v", changes[0].Delta())
	}
}

func TestCompareExactThresholdDoesNotEmit(t *testing.T) {
	m := New(5.0)

	previous := []models.Projection{{Player: "Joe Burrow", NFLTeam: "CIN", PPR: 10.0}}
	current := []models.Projection{{Player: "Joe Burrow", NFLTeam: "CIN", PPR: 15.0}}

	if changes := m.Compare(previous, current, models.ScoringPPR, time.Now()); len(changes) != 0 {
		t.Errorf("move equal to threshold should not emit, got %v", changes)
	}
}

func TestCompareNewAndDroppedPlayers(t *testing.T) {
	m := New(5.0)

	previous := []models.Projection{{Player: "Retiring Vet", NFLTeam: "KC", PPR: 9.0}}
	current := []models.Projection{{Player: "Breakout Rookie", NFLTeam: "KC", PPR: 11.0}}

	changes := m.Compare(previous, current, models.ScoringPPR, time.Now())
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2 (one new, one dropped)", len(changes))
	}

	byPlayer := map[string]models.Change{}
	for _, c := range changes {
		byPlayer[c.Player] = c
	}
	if c := byPlayer["Breakout Rookie"]; c.Old != 0 || c.New != 11.0 {
		t.Errorf("new player change = %+v", c)
	}
	if c := byPlayer["Retiring Vet"]; c.Old != 9.0 || c.New != 0 {
		t.Errorf("dropped player change = %+v", c)
	}
}

func TestCompareEmptySnapshots(t *testing.T) {
	m := New(5.0)
	if changes := m.Compare(nil, nil, models.ScoringPPR, time.Now()); len(changes) != 0 {
		t.Errorf("empty snapshots should produce no changes, got %v", changes)
	}
}
