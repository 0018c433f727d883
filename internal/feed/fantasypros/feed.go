// Package fantasypros scrapes the external baseline projections feed: the
// weekly expert-consensus rankings pages, which embed their data as a
// JavaScript blob.
package fantasypros

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

var positionsByFormat = map[string]bool{
	// Only reception-relevant positions publish separate pages per scoring
	// format; qb, k and dst rankings are format-independent.
	"rb": true, "wr": true, "te": true,
	"qb": false, "k": false, "dst": false,
}

var scoringPaths = map[models.ScoringFormat]string{
	models.ScoringHalfPPR: "half-point-ppr",
	models.ScoringPPR:     "ppr",
}

// Feed fetches and parses the weekly rankings pages.
type Feed struct {
	http     *retryablehttp.Client
	cfg      config.ProjectionsConfig
	renderer func(ctx context.Context, url string) (string, error)
}

func New(cfg config.ProjectionsConfig) *Feed {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	f := &Feed{http: rc, cfg: cfg}
	if cfg.HeadlessFallback {
		f.renderer = renderHeadless
	}
	return f
}

// FetchWeek scrapes every position and scoring variant for the week and
// merges them into one projection record per player.
func (f *Feed) FetchWeek(ctx context.Context, week int) ([]models.Projection, error) {
	now := time.Now().UTC()
	merged := make(map[string]*models.Projection)

	var fetched, failed int
	for position, perFormat := range positionsByFormat {
		formats := []models.ScoringFormat{models.ScoringHalfPPR, models.ScoringPPR}
		if !perFormat {
			formats = formats[:1]
		}
		for _, format := range formats {
			url := f.rankingsURL(position, format, week, perFormat)
			players, err := f.fetchPage(ctx, url)
			if err != nil {
				// One bad page costs one position, not the whole refresh.
				slog.Error("Failed to fetch rankings page", "url", url, "error", err)
				failed++
				continue
			}
			fetched++
			mergePage(merged, players, position, format, perFormat, week, now)
		}
	}

	if fetched == 0 {
		return nil, fmt.Errorf("projections feed: all %d rankings pages failed", failed)
	}

	projections := make([]models.Projection, 0, len(merged))
	for _, p := range merged {
		projections = append(projections, *p)
	}
	return projections, nil
}

func (f *Feed) rankingsURL(position string, format models.ScoringFormat, week int, perFormat bool) string {
	if perFormat {
		return fmt.Sprintf("%s/nfl/rankings/%s-%s.php?week=%d", f.cfg.BaseURL, scoringPaths[format], position, week)
	}
	return fmt.Sprintf("%s/nfl/rankings/%s.php?week=%d", f.cfg.BaseURL, position, week)
}

type feedPlayer struct {
	name     string
	team     string
	position string
	points   float64
}

func (f *Feed) fetchPage(ctx context.Context, url string) ([]feedPlayer, error) {
	html, err := f.fetchHTML(ctx, url)
	if err != nil {
		return nil, err
	}

	blob := extractECRData(html)
	if blob == "" && f.renderer != nil {
		// The page loads its data lazily when fetched without a browser;
		// render it and retry the extraction.
		slog.Info("Rankings page missing data blob, rendering headless", "url", url)
		if html, err = f.renderer(ctx, url); err != nil {
			return nil, fmt.Errorf("headless render: %w", err)
		}
		blob = extractECRData(html)
	}
	if blob == "" {
		return nil, fmt.Errorf("no ecrData blob in %s", url)
	}

	return parseECRData(blob), nil
}

func (f *Feed) fetchHTML(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	return string(body), nil
}

// extractECRData finds the script tag holding `var ecrData = {...};` and
// returns the JSON object.
func extractECRData(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, "var ecrData = ")
		if idx < 0 {
			return true
		}
		rest := text[idx+len("var ecrData = "):]
		if end := strings.Index(rest, ";"); end >= 0 {
			rest = rest[:end]
		}
		blob = strings.TrimSpace(rest)
		return false
	})

	if !gjson.Valid(blob) {
		return ""
	}
	return blob
}

func parseECRData(blob string) []feedPlayer {
	var players []feedPlayer
	gjson.Get(blob, "players").ForEach(func(_, value gjson.Result) bool {
		points := value.Get("r2p_pts")
		if !points.Exists() || points.String() == "" {
			return true
		}
		players = append(players, feedPlayer{
			name:     value.Get("player_name").String(),
			team:     value.Get("player_team_id").String(),
			position: value.Get("player_position_id").String(),
			points:   points.Float(),
		})
		return true
	})
	return players
}

func mergePage(merged map[string]*models.Projection, players []feedPlayer, position string, format models.ScoringFormat, perFormat bool, week int, now time.Time) {
	for _, fp := range players {
		name := feedPlayerName(fp, position)
		if name == "" || fp.team == "" {
			continue
		}
		// The feed publishes its own team-code dialect; store the ESPN code
		// so scoreboard lookups match the provider rows.
		nflTeam := models.TranslateTeamCode(models.VocabFP, models.VocabESPN, fp.team)
		key := nflTeam + "/" + name
		p, ok := merged[key]
		if !ok {
			p = &models.Projection{Player: name, NFLTeam: nflTeam, Week: week, Updated: now}
			merged[key] = p
		}
		switch {
		case !perFormat:
			// Format-independent positions feed the same number everywhere.
			p.HalfPPR = fp.points
			p.PPR = fp.points
		case format == models.ScoringHalfPPR:
			p.HalfPPR = fp.points
		case format == models.ScoringPPR:
			p.PPR = fp.points
		}
	}
}

// feedPlayerName matches the canonical naming used by the provider
// adapters: first and last name only, and `<Team> D/ST` for defenses.
func feedPlayerName(fp feedPlayer, position string) string {
	if position == "dst" {
		words := strings.Fields(fp.name)
		if len(words) == 0 {
			return ""
		}
		return words[len(words)-1] + " D/ST"
	}
	words := strings.Fields(fp.name)
	if len(words) > 2 {
		words = words[:2]
	}
	return models.NormalizePlayerName(strings.Join(words, " "))
}
