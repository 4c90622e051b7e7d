// Package omdb fetches IMDb ratings from the open movie database.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/config"
)

var (
	ErrNotConfigured = errors.New("omdb API key is not configured")
	ErrNotFound      = errors.New("omdb resource not found")
	ErrAPIError      = errors.New("omdb API error")
	ErrRateLimited   = errors.New("omdb API rate limited")
)

type response struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Ratings  []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Client is an open movie database client.
type Client struct {
	httpClient *http.Client
	config     config.OMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new open movie database client.
func NewClient(cfg config.OMDBConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "omdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// IMDbRating fetches the IMDb rating for a title, e.g. "8.7". The
// upstream value "8.7/10" is trimmed to the score.
func (c *Client) IMDbRating(ctx context.Context, imdbID string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if imdbID == "" {
		return "", ErrNotFound
	}

	params := url.Values{}
	params.Set("apikey", c.config.APIKey)
	params.Set("i", imdbID)

	reqURL := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("imdb_id", imdbID).Msg("HTTP request failed")
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 400:
		c.logger.Error().Int("status", resp.StatusCode).Msg("OMDb API error")
		return "", fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var res response
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// The API signals lookup failures in the body with a 200 status.
	if res.Response == "False" || len(res.Ratings) == 0 {
		return "", ErrNotFound
	}

	value, _, _ := strings.Cut(res.Ratings[0].Value, "/")
	return value, nil
}
