package fantasypros

import (
	"testing"
	"time"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

const sampleScript = `<html><head><script>var other = 1;</script>
<script>
var ecrData = {"players":[
  {"player_name":"Justin Jefferson","player_team_id":"MIN","player_position_id":"wr","r2p_pts":"18.4"},
  {"player_name":"Amon-Ra St. Brown","player_team_id":"DET","player_position_id":"wr","r2p_pts":"17.1"},
  {"player_name":"No Points","player_team_id":"KC","player_position_id":"wr"}
]};
var trailing = true;
</script></head><body></body></html>`

func TestExtractECRData(t *testing.T) {
	blob := extractECRData(sampleScript)
	if blob == "" {
		t.Fatal("expected ecrData blob, got none")
	}
	players := parseECRData(blob)
	if len(players) != 2 {
		t.Fatalf("expected 2 players with points, got %d", len(players))
	}
	if players[0].name != "Justin Jefferson" || players[0].team != "MIN" {
		t.Errorf("unexpected first player: %+v", players[0])
	}
	if players[0].points != 18.4 {
		t.Errorf("expected 18.4 points, got %v", players[0].points)
	}
}

func TestExtractECRDataMissing(t *testing.T) {
	if blob := extractECRData("<html><script>var x = 1;</script></html>"); blob != "" {
		t.Errorf("expected empty blob, got %q", blob)
	}
}

func TestFeedPlayerName(t *testing.T) {
	tests := []struct {
		name     string
		player   feedPlayer
		position string
		want     string
	}{
		{"two words pass through", feedPlayer{name: "Justin Jefferson"}, "wr", "Justin Jefferson"},
		{"suffix dropped", feedPlayer{name: "Kenneth Walker III"}, "rb", "Kenneth Walker"},
		{"three name words truncated", feedPlayer{name: "Amon-Ra St. Brown"}, "wr", "Amon-Ra St."},
		{"defense uses team nickname", feedPlayer{name: "Dallas Cowboys"}, "dst", "Cowboys D/ST"},
		{"empty name skipped", feedPlayer{name: ""}, "qb", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feedPlayerName(tt.player, tt.position); got != tt.want {
				t.Errorf("feedPlayerName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergePageCombinesFormats(t *testing.T) {
	now := time.Now()
	merged := make(map[string]*models.Projection)

	half := []feedPlayer{{name: "Justin Jefferson", team: "MIN", points: 16.0}}
	full := []feedPlayer{{name: "Justin Jefferson", team: "MIN", points: 18.5}}
	mergePage(merged, half, "wr", models.ScoringHalfPPR, true, 3, now)
	mergePage(merged, full, "wr", models.ScoringPPR, true, 3, now)

	p, ok := merged["MIN/Justin Jefferson"]
	if !ok {
		t.Fatal("expected merged projection for Justin Jefferson")
	}
	if p.HalfPPR != 16.0 || p.PPR != 18.5 {
		t.Errorf("unexpected per-format points: half=%v ppr=%v", p.HalfPPR, p.PPR)
	}
	if p.Week != 3 {
		t.Errorf("expected week 3, got %d", p.Week)
	}
}

func TestMergePageTranslatesFeedTeamCodes(t *testing.T) {
	merged := make(map[string]*models.Projection)
	players := []feedPlayer{
		{name: "Jayden Daniels", team: "WAS", points: 21.2},
		{name: "Trevor Lawrence", team: "JAC", points: 17.8},
		{name: "Justin Jefferson", team: "MIN", points: 18.4},
	}
	mergePage(merged, players, "qb", models.ScoringHalfPPR, false, 4, time.Now())

	// Rows are keyed by the ESPN dialect, not the feed's.
	for _, key := range []string{"WSH/Jayden Daniels", "JAX/Trevor Lawrence", "MIN/Justin Jefferson"} {
		if _, ok := merged[key]; !ok {
			t.Errorf("expected merged projection under %q, have %v", key, keysOf(merged))
		}
	}
	if _, ok := merged["WAS/Jayden Daniels"]; ok {
		t.Error("feed team code stored untranslated")
	}
	if p := merged["WSH/Jayden Daniels"]; p != nil && p.NFLTeam != "WSH" {
		t.Errorf("expected NFLTeam WSH, got %q", p.NFLTeam)
	}
}

func keysOf(m map[string]*models.Projection) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestMergePageFormatIndependent(t *testing.T) {
	merged := make(map[string]*models.Projection)
	mergePage(merged, []feedPlayer{{name: "Josh Allen", team: "BUF", points: 22.3}}, "qb", models.ScoringHalfPPR, false, 1, time.Now())

	p := merged["BUF/Josh Allen"]
	if p == nil {
		t.Fatal("expected projection for Josh Allen")
	}
	if p.HalfPPR != 22.3 || p.PPR != 22.3 {
		t.Errorf("format-independent position should fill both formats: %+v", p)
	}
}

func TestRankingsURL(t *testing.T) {
	f := &Feed{}
	f.cfg.BaseURL = "https://www.fantasypros.com"

	got := f.rankingsURL("wr", models.ScoringPPR, 5, true)
	want := "https://www.fantasypros.com/nfl/rankings/ppr-wr.php?week=5"
	if got != want {
		t.Errorf("rankingsURL() = %q, want %q", got, want)
	}

	got = f.rankingsURL("qb", models.ScoringHalfPPR, 5, false)
	want = "https://www.fantasypros.com/nfl/rankings/qb.php?week=5"
	if got != want {
		t.Errorf("rankingsURL() = %q, want %q", got, want)
	}
}
