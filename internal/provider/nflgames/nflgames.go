// Package nflgames reads the real-world NFL schedule and game clocks that
// drive play-state classification and dynamic projection extrapolation.
package nflgames

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
	"github.com/johnny-papercut/fantasy/internal/provider"
)

const scheduleURL = "https://cdn.espn.com/core/nfl/schedule?xhr=1&year=%d&week=%d"

const (
	quarterSeconds = 900
	gameSeconds    = 3600
)

// Feed fetches the weekly NFL schedule from the ESPN CDN.
type Feed struct {
	http      *retryablehttp.Client
	userAgent string
}

func New(timeout time.Duration, userAgent string) *Feed {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Feed{http: rc, userAgent: userAgent}
}

type scheduleResponse struct {
	Content struct {
		Schedule map[string]scheduleDay `json:"schedule"`
	} `json:"content"`
}

type scheduleDay struct {
	Games []game `json:"games"`
}

type game struct {
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Date        string       `json:"date"`
	Competitors []competitor `json:"competitors"`
	Status      gameStatus   `json:"status"`
}

type competitor struct {
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type gameStatus struct {
	Period       int     `json:"period"`
	Clock        float64 `json:"clock"`
	DisplayClock string  `json:"displayClock"`
	Type         struct {
		Completed bool   `json:"completed"`
		State     string `json:"state"`
	} `json:"type"`
}

// FetchWeek returns per-NFL-team game progress rows and the matching kickoff
// clock for play-state classification.
func (f *Feed) FetchWeek(ctx context.Context, year, week int) ([]models.GameProgress, map[string]provider.GameTime, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(scheduleURL, year, week), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var schedule scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, nil, fmt.Errorf("error decoding schedule: %w", err)
	}

	var progress []models.GameProgress
	clock := make(map[string]provider.GameTime)

	for _, day := range schedule.Content.Schedule {
		for _, g := range day.Games {
			for _, comp := range g.Competitions {
				elapsed := elapsedFraction(comp.Status.Period, comp.Status.Clock)
				final := comp.Status.Type.Completed
				kickoff, _ := time.Parse(time.RFC3339, comp.Date)

				for _, c := range comp.Competitors {
					team := models.TranslateTeamCode(models.VocabNFL, models.VocabESPN, c.Team.Abbreviation)
					progress = append(progress, models.GameProgress{
						Year:    year,
						Week:    week,
						NFLTeam: team,
						Elapsed: elapsed,
						Display: displayClock(comp.Status),
						Final:   final,
					})
					clock[team] = provider.GameTime{Kickoff: kickoff, Done: final}
				}
			}
		}
	}

	return progress, clock, nil
}

// elapsedFraction converts quarter and game clock into the 0..1 fraction of
// regulation time played. Overtime clamps at 1: the extrapolation model
// treats anything past regulation as effectively final.
func elapsedFraction(period int, clockSeconds float64) float64 {
	if period <= 0 {
		return 0
	}
	elapsed := (float64((period-1)*quarterSeconds) + (quarterSeconds - clockSeconds)) / gameSeconds
	if elapsed < 0 {
		return 0
	}
	if elapsed > 1 {
		return 1
	}
	return elapsed
}

func displayClock(status gameStatus) string {
	if status.Period <= 0 {
		return ""
	}
	display := status.DisplayClock
	if len(display) < 5 {
		display = "0" + display
	}
	return fmt.Sprintf("Q%d %s", status.Period, display)
}
