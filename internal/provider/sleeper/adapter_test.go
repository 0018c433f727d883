package sleeper

import (
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/provider"
)

func TestMapInjuryStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected models.PlayerStatus
	}{
		{"", models.StatusActive},
		{"Questionable", models.StatusQuestionable},
		{"Doubtful", models.StatusDoubtful},
		{"Out", models.StatusOut},
		{"IR", models.StatusIR},
		{"PUP", models.StatusIR},
		{"COV", models.StatusUnknown},
		{"Sus", models.StatusUnknown},
	}

	for _, tt := range tests {
		if got := mapInjuryStatus(tt.raw); got != tt.expected {
			t.Errorf("mapInjuryStatus(%q) = %s, want %s", tt.raw, got, tt.expected)
		}
	}
}

func TestMapPlayerStarterAndBench(t *testing.T) {
	a := New(nil)
	league := models.League{LeagueID: 900, Scoring: models.ScoringPPR}
	now := time.Now()
	entry := matchupEntry{
		RosterID:      4,
		MatchupID:     1,
		PlayersPoints: map[string]float64{"4046": 12.3},
	}
	info := playerInfo{
		FullName:         "Patrick Mahomes",
		Team:             "KC",
		FantasyPositions: []string{"QB"},
	}

	starter := a.mapPlayer(league, entry, "4046", info, true, 6, nil, now)
	if starter.Slot != "QB" {
		t.Errorf("starter Slot = %s, want QB", starter.Slot)
	}
	if starter.Points != 12.3 {
		t.Errorf("Points = %v, want 12.3", starter.Points)
	}
	if starter.Status != models.StatusActive {
		t.Errorf("Status = %s, want ACTIVE", starter.Status)
	}

	bench := a.mapPlayer(league, entry, "4046", info, false, 6, nil, now)
	if bench.Slot != "BE" {
		t.Errorf("bench Slot = %s, want BE", bench.Slot)
	}
}

func TestMapPlayerDefenseNaming(t *testing.T) {
	a := New(nil)
	entry := matchupEntry{RosterID: 2, PlayersPoints: map[string]float64{"SF": 8.0}}
	info := playerInfo{
		LastName:         "49ers",
		Team:             "SF",
		FantasyPositions: []string{"DEF"},
	}

	score := a.mapPlayer(models.League{LeagueID: 1}, entry, "SF", info, true, 2, nil, time.Now())
	if score.Name != "49ers D/ST" {
		t.Errorf("Name = %q, want defense naming", score.Name)
	}
	if score.Position != "DST" || score.Slot != "DST" {
		t.Errorf("Position/Slot = %s/%s, want DST/DST", score.Position, score.Slot)
	}
}

func TestMapPlayerTranslatesTeamCode(t *testing.T) {
	a := New(nil)
	entry := matchupEntry{RosterID: 1}
	info := playerInfo{
		FullName:         "Terry McLaurin",
		Team:             "WAS", // Sleeper dialect; canonical rows use ESPN codes
		FantasyPositions: []string{"WR"},
	}
	kickoff := time.Now().Add(2 * 24 * time.Hour)
	clock := map[string]provider.GameTime{"WSH": {Kickoff: kickoff}}

	score := a.mapPlayer(models.League{LeagueID: 1}, entry, "x", info, true, 2, clock, time.Now())
	if score.NFLTeam != "WSH" {
		t.Errorf("NFLTeam = %q, want WSH", score.NFLTeam)
	}
	if score.PlayState != models.PlayFuture {
		t.Errorf("PlayState = %s, want future (clock lookup must use translated code)", score.PlayState)
	}
}
