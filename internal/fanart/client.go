// Package fanart fetches artwork (clear logos and thumbnails) from the
// fan artwork service. Shows are keyed by TVDB id, movies by TMDb id.
package fanart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/config"
)

var (
	ErrNotConfigured = errors.New("fanart API key is not configured")
	ErrNotFound      = errors.New("fanart resource not found")
	ErrAPIError      = errors.New("fanart API error")
	ErrRateLimited   = errors.New("fanart API rate limited")
)

// Artwork is one artwork entry.
type Artwork struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Lang  string `json:"lang"`
	Likes string `json:"likes"`
}

type showArtwork struct {
	HDTVLogo  []Artwork `json:"hdtvlogo"`
	ClearLogo []Artwork `json:"clearlogo"`
	TVThumb   []Artwork `json:"tvthumb"`
}

type movieArtwork struct {
	HDMovieLogo []Artwork `json:"hdmovielogo"`
	MovieThumb  []Artwork `json:"moviethumb"`
}

// Client is a fan artwork service client.
type Client struct {
	httpClient *http.Client
	config     config.FanartConfig
	logger     zerolog.Logger
}

// NewClient creates a new fan artwork client.
func NewClient(cfg config.FanartConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "fanart").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "fanart"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

func (c *Client) doGet(ctx context.Context, path string, result interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 400:
		c.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Fanart API error")
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// firstEnglish returns the first English entry from the lists, checked
// in order. An empty lang is accepted as language-neutral.
func firstEnglish(lists ...[]Artwork) (string, bool) {
	for _, list := range lists {
		for _, art := range list {
			if art.Lang == "en" || art.Lang == "" {
				return art.URL, true
			}
		}
	}
	return "", false
}

// ShowClearLogo fetches a show's clear logo, preferring the HD variant.
func (c *Client) ShowClearLogo(ctx context.Context, tvdbID int) (string, error) {
	var art showArtwork
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d", tvdbID), &art); err != nil {
		return "", err
	}
	logo, ok := firstEnglish(art.HDTVLogo, art.ClearLogo)
	if !ok {
		return "", ErrNotFound
	}
	return logo, nil
}

// MovieClearLogo fetches a movie's clear logo.
func (c *Client) MovieClearLogo(ctx context.Context, tmdbID int) (string, error) {
	var art movieArtwork
	if err := c.doGet(ctx, fmt.Sprintf("/movies/%d", tmdbID), &art); err != nil {
		return "", err
	}
	logo, ok := firstEnglish(art.HDMovieLogo)
	if !ok {
		return "", ErrNotFound
	}
	return logo, nil
}

// ShowBackground fetches a show's thumbnail background.
func (c *Client) ShowBackground(ctx context.Context, tvdbID int) (string, error) {
	var art showArtwork
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d", tvdbID), &art); err != nil {
		return "", err
	}
	if len(art.TVThumb) == 0 {
		return "", ErrNotFound
	}
	return art.TVThumb[0].URL, nil
}

// MovieBackground fetches a movie's thumbnail background.
func (c *Client) MovieBackground(ctx context.Context, tmdbID int) (string, error) {
	var art movieArtwork
	if err := c.doGet(ctx, fmt.Sprintf("/movies/%d", tmdbID), &art); err != nil {
		return "", err
	}
	if len(art.MovieThumb) == 0 {
		return "", ErrNotFound
	}
	return art.MovieThumb[0].URL, nil
}
