package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches pre-computed source-resolution waveforms from the content
// API. Requests are rate limited so a screenful of tracks resolving at once
// doesn't hammer the shared endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		// 5 requests per second, small burst for list screens
		Limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// Waveform fetches the pre-computed amplitude series for a content ID.
func (c *Client) Waveform(ctx context.Context, contentID string) ([]float64, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/waveforms/%s", c.BaseURL, url.PathEscape(contentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("waveform request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("waveform request returned %s", resp.Status)
	}

	var payload struct {
		Amplitudes []float64 `json:"amplitudes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode waveform payload: %v", err)
	}

	return payload.Amplitudes, nil
}
