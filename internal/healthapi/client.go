package healthapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Client is a health gateway API client. The gateway is the companion
// server the phone app exports HealthKit samples to; this client only
// reads from it.
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	baseURL     string
}

// NewClient creates a new gateway client talking to baseURL
func NewClient(tokenSource oauth2.TokenSource, baseURL string) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
		baseURL:     baseURL,
	}
}

// GetProfile fetches the authenticated user's profile
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, "/v1/profile", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &profile, nil
}

// GetHRVSamples fetches one page of HRV samples recorded after 'since'
func (c *Client) GetHRVSamples(ctx context.Context, since time.Time, page, perPage int) ([]HRVSample, bool, error) {
	var out samplePage[HRVSample]
	if err := c.getSamples(ctx, "/v1/samples/hrv", since, page, perPage, &out); err != nil {
		return nil, false, err
	}
	return out.Samples, out.HasMore, nil
}

// GetRestingHRSamples fetches one page of resting HR samples after 'since'
func (c *Client) GetRestingHRSamples(ctx context.Context, since time.Time, page, perPage int) ([]RestingHRSample, bool, error) {
	var out samplePage[RestingHRSample]
	if err := c.getSamples(ctx, "/v1/samples/resting-hr", since, page, perPage, &out); err != nil {
		return nil, false, err
	}
	return out.Samples, out.HasMore, nil
}

// GetSleepSamples fetches one page of raw sleep stage intervals whose end
// is after 'since'
func (c *Client) GetSleepSamples(ctx context.Context, since time.Time, page, perPage int) ([]SleepSample, bool, error) {
	var out samplePage[SleepSample]
	if err := c.getSamples(ctx, "/v1/samples/sleep", since, page, perPage, &out); err != nil {
		return nil, false, err
	}
	return out.Samples, out.HasMore, nil
}

// RateLimitRemaining returns how many requests are left in the window
func (c *Client) RateLimitRemaining() int {
	return c.rateLimiter.Remaining()
}

// getSamples runs one paginated sample query and decodes the envelope
func (c *Client) getSamples(ctx context.Context, path string, since time.Time, page, perPage int, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	params := url.Values{}
	if !since.IsZero() {
		params.Set("since", since.UTC().Format(time.RFC3339))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("gateway request failed")
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
