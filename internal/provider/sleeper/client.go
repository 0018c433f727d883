package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const baseURL = "https://api.sleeper.app/v1"

// playerCacheTTL bounds how long the ~5MB players/nfl payload is reused.
// Sleeper asks integrators to fetch it at most once a day; injury statuses
// churn faster than that on Sundays, so an hour is the compromise.
const playerCacheTTL = time.Hour

// Client wraps the public Sleeper API. No auth: league data is readable by
// league ID alone.
type Client struct {
	http      *retryablehttp.Client
	userAgent string

	playersMu      sync.Mutex
	players        map[string]playerInfo
	playersFetched time.Time
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{http: rc, userAgent: userAgent}
}

func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// allPlayers returns the NFL player catalog, cached across leagues so one
// refresh cycle fetches it at most once.
func (c *Client) allPlayers(ctx context.Context) (map[string]playerInfo, error) {
	c.playersMu.Lock()
	defer c.playersMu.Unlock()

	if c.players != nil && time.Since(c.playersFetched) < playerCacheTTL {
		return c.players, nil
	}

	var players map[string]playerInfo
	if err := c.get(ctx, "/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("fetching player catalog: %w", err)
	}

	c.players = players
	c.playersFetched = time.Now()
	return players, nil
}
