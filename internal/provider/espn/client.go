package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const baseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

// Client wraps the ESPN fantasy read API. Private leagues authenticate with
// the SWID and espn_s2 cookies supplied per league.
type Client struct {
	http      *retryablehttp.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{http: rc, userAgent: userAgent}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, headers map[string]string, swid, s2 string, result any) error {
	u := baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if swid != "" && s2 != "" {
		req.Header.Set("Cookie", fmt.Sprintf("SWID=%s; espn_s2=%s", swid, s2))
	}
	for key, value := range headers {
		req.Header.Set(key, value)
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
