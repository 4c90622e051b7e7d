package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/config"
)

var (
	ErrNotConfigured = errors.New("trakt client id is not configured")
	ErrNotFound      = errors.New("trakt resource not found")
	ErrAPIError      = errors.New("trakt API error")
	ErrRateLimited   = errors.New("trakt API rate limited")
	ErrNoSession     = errors.New("no trakt session")
)

const (
	headerLastModified = "Last-Modified"
	headerItemCount    = "X-Pagination-Item-Count"
	headerPageCount    = "X-Pagination-Page-Count"

	defaultAvatar       = "https://i2.wp.com/walter.trakt.tv/hotlink-ok/placeholders/medium/fry.png"
	defaultAvatarFemale = "https://i2.wp.com/walter.trakt.tv/hotlink-ok/placeholders/medium/leela.png"
)

// TokenProvider supplies the current session's access token and username.
// The client only reads the session; it never mutates it.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, bool)
	Username(ctx context.Context) (string, bool)
}

// Client is a tracking service API client.
type Client struct {
	httpClient *http.Client
	config     config.TraktConfig
	logger     zerolog.Logger
	tokens     TokenProvider
}

// NewClient creates a new tracking service client.
func NewClient(cfg config.TraktConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "trakt").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "trakt"
}

// IsConfigured returns true if the client id is set.
func (c *Client) IsConfigured() bool {
	return c.config.ClientID != ""
}

// SetTokenProvider sets the session token source.
func (c *Client) SetTokenProvider(p TokenProvider) {
	c.tokens = p
}

func (c *Client) accessToken(ctx context.Context) (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.AccessToken(ctx)
}

func (c *Client) username(ctx context.Context) (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Username(ctx)
}

// doGet performs a GET against the API and decodes the JSON response.
// When bearer is non-empty it is sent as an Authorization header.
// Response headers are returned for pagination and change-marker reads.
func (c *Client) doGet(ctx context.Context, path string, params url.Values, bearer string, result interface{}) (http.Header, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	reqURL := c.config.BaseURL + path
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.config.ClientID)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 400:
		c.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Trakt API error")
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Header, nil
}

// ExchangeCode exchanges an authorization code for a token pair.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*AuthTokens, error) {
	return c.tokenRequest(ctx, map[string]string{
		"code":          code,
		"client_id":     c.config.ClientID,
		"client_secret": c.config.ClientSecret,
		"redirect_uri":  c.config.RedirectURI,
		"grant_type":    "authorization_code",
	})
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	return c.tokenRequest(ctx, map[string]string{
		"refresh_token": refreshToken,
		"client_id":     c.config.ClientID,
		"client_secret": c.config.ClientSecret,
		"redirect_uri":  c.config.RedirectURI,
		"grant_type":    "refresh_token",
	})
}

func (c *Client) tokenRequest(ctx context.Context, body map[string]string) (*AuthTokens, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Token request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Token request rejected")
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var tokens AuthTokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &tokens, nil
}

// UserSettings fetches the profile of the user owning the access token.
func (c *Client) UserSettings(ctx context.Context, accessToken string) (*UserSettings, error) {
	var settings UserSettings
	if _, err := c.doGet(ctx, "/users/settings", nil, accessToken, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ShowSummary fetches a show summary by trakt id or slug.
func (c *Client) ShowSummary(ctx context.Context, id string) (*Show, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var show Show
	if _, err := c.doGet(ctx, "/shows/"+url.PathEscape(id), params, "", &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// MovieSummary fetches a movie summary by trakt id or slug.
func (c *Client) MovieSummary(ctx context.Context, id string) (*Movie, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var movie Movie
	if _, err := c.doGet(ctx, "/movies/"+url.PathEscape(id), params, "", &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// EpisodeSummary fetches an episode summary.
func (c *Client) EpisodeSummary(ctx context.Context, showID string, season, number int) (*Episode, error) {
	params := url.Values{}
	params.Set("extended", "full")

	path := fmt.Sprintf("/shows/%s/seasons/%d/episodes/%d", url.PathEscape(showID), season, number)
	var episode Episode
	if _, err := c.doGet(ctx, path, params, "", &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// Seasons fetches a show's full seasons listing in upstream order.
func (c *Client) Seasons(ctx context.Context, showID string) ([]Season, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var seasons []Season
	if _, err := c.doGet(ctx, "/shows/"+url.PathEscape(showID)+"/seasons", params, "", &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// SeasonSummary fetches one season's summary from the seasons listing.
func (c *Client) SeasonSummary(ctx context.Context, showID string, season int) (*Season, error) {
	seasons, err := c.Seasons(ctx, showID)
	if err != nil {
		return nil, err
	}
	for i := range seasons {
		if seasons[i].Number == season {
			return &seasons[i], nil
		}
	}
	return nil, ErrNotFound
}

// formatRating renders a rating to one decimal place.
func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

type ratingResponse struct {
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
}

// ShowRating fetches a show's community rating, formatted to one decimal.
func (c *Client) ShowRating(ctx context.Context, traktID int) (string, error) {
	var res ratingResponse
	if _, err := c.doGet(ctx, fmt.Sprintf("/shows/%d/ratings", traktID), nil, "", &res); err != nil {
		return "", err
	}
	return formatRating(res.Rating), nil
}

// MovieRating fetches a movie's community rating, formatted to one decimal.
func (c *Client) MovieRating(ctx context.Context, traktID int) (string, error) {
	var res ratingResponse
	if _, err := c.doGet(ctx, fmt.Sprintf("/movies/%d/ratings", traktID), nil, "", &res); err != nil {
		return "", err
	}
	return formatRating(res.Rating), nil
}

// EpisodeRating fetches an episode's community rating, formatted to one decimal.
func (c *Client) EpisodeRating(ctx context.Context, showTraktID, season, number int) (string, error) {
	path := fmt.Sprintf("/shows/%d/seasons/%d/episodes/%d/ratings", showTraktID, season, number)
	var res ratingResponse
	if _, err := c.doGet(ctx, path, nil, "", &res); err != nil {
		return "", err
	}
	return formatRating(res.Rating), nil
}

func parseRatingHeaders(headers http.Header, entries []Rating) (lastModified string, total int) {
	lastModified = headers.Get(headerLastModified)
	total = len(entries)
	if v := headers.Get(headerItemCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			total = n
		}
	}
	return lastModified, total
}

// MyRatingsProbe fetches a single-entry page of the user's rating
// collection, enough to read the change marker and total without
// transferring the whole collection.
func (c *Client) MyRatingsProbe(ctx context.Context, kind RatingKind) (*RatingSet, error) {
	username, ok := c.username(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	params := url.Values{}
	params.Set("limit", "1")
	params.Set("page", "1")

	path := fmt.Sprintf("/users/%s/ratings/%s", url.PathEscape(username), kind.Path())
	var entries []Rating
	headers, err := c.doGet(ctx, path, params, "", &entries)
	if err != nil {
		return nil, err
	}

	lastModified, total := parseRatingHeaders(headers, entries)
	return &RatingSet{LastModified: lastModified, Total: total, Entries: entries}, nil
}

// MyRatings fetches the user's full rating collection for the kind.
func (c *Client) MyRatings(ctx context.Context, kind RatingKind) (*RatingSet, error) {
	username, ok := c.username(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	path := fmt.Sprintf("/users/%s/ratings/%s", url.PathEscape(username), kind.Path())
	var entries []Rating
	headers, err := c.doGet(ctx, path, nil, "", &entries)
	if err != nil {
		return nil, err
	}

	lastModified, total := parseRatingHeaders(headers, entries)
	return &RatingSet{LastModified: lastModified, Total: total, Entries: entries}, nil
}

// Likes fetches one page of the user's liked comments. The returned count
// is the upstream page count. Requires a session.
func (c *Client) Likes(ctx context.Context, page, limit int) ([]Like, int, error) {
	token, ok := c.accessToken(ctx)
	if !ok {
		return nil, 0, ErrNoSession
	}
	username, ok := c.username(ctx)
	if !ok {
		return nil, 0, ErrNoSession
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("page", strconv.Itoa(page))

	path := fmt.Sprintf("/users/%s/likes/comments", url.PathEscape(username))
	var likes []Like
	headers, err := c.doGet(ctx, path, params, token, &likes)
	if err != nil {
		return nil, 0, err
	}

	pageCount := 1
	if v := headers.Get(headerPageCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageCount = n
		}
	}

	return likes, pageCount, nil
}

// WatchedProgress fetches the user's watched progress for a show.
// Requires a session.
func (c *Client) WatchedProgress(ctx context.Context, showTraktID int) (*WatchedProgress, error) {
	token, ok := c.accessToken(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	params := url.Values{}
	params.Set("hidden", "false")
	params.Set("specials", "false")
	params.Set("count_specials", "false")

	path := fmt.Sprintf("/shows/%d/progress/watched", showTraktID)
	var progress WatchedProgress
	if _, err := c.doGet(ctx, path, params, token, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// WatchedMovies fetches the user's watched movies. Requires a session.
func (c *Client) WatchedMovies(ctx context.Context) ([]WatchedMovie, error) {
	token, ok := c.accessToken(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	var watched []WatchedMovie
	if _, err := c.doGet(ctx, "/sync/watched/movies", nil, token, &watched); err != nil {
		return nil, err
	}
	return watched, nil
}

// UserProfile fetches a user's public profile by slug.
func (c *Client) UserProfile(ctx context.Context, slug string) (*User, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var user User
	if _, err := c.doGet(ctx, "/users/"+url.PathEscape(slug), params, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ShowComments fetches a show's comment thread sorted by likes.
func (c *Client) ShowComments(ctx context.Context, traktID int) (*Comments, error) {
	return c.comments(ctx, fmt.Sprintf("/shows/%d/comments/likes", traktID))
}

// SeasonComments fetches a season's comment thread sorted by likes.
func (c *Client) SeasonComments(ctx context.Context, slug string, season int) (*Comments, error) {
	return c.comments(ctx, fmt.Sprintf("/shows/%s/seasons/%d/comments/likes", url.PathEscape(slug), season))
}

// EpisodeComments fetches an episode's comment thread sorted by likes.
func (c *Client) EpisodeComments(ctx context.Context, slug string, season, number int) (*Comments, error) {
	return c.comments(ctx, fmt.Sprintf("/shows/%s/seasons/%d/episodes/%d/comments/likes", url.PathEscape(slug), season, number))
}

// MovieComments fetches a movie's comment thread sorted by likes.
func (c *Client) MovieComments(ctx context.Context, traktID int) (*Comments, error) {
	return c.comments(ctx, fmt.Sprintf("/movies/%d/comments/likes", traktID))
}

// comments fetches a comment list and enriches each comment with the
// commenting user's avatar. A failed profile lookup falls back to the
// default avatar for that comment only.
func (c *Client) comments(ctx context.Context, path string) (*Comments, error) {
	var list []Comment
	headers, err := c.doGet(ctx, path, nil, "", &list)
	if err != nil {
		return nil, err
	}

	total := len(list)
	if v := headers.Get(headerItemCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			total = n
		}
	}

	var wg sync.WaitGroup
	for i := range list {
		wg.Add(1)
		go func(comment *Comment) {
			defer wg.Done()
			comment.Avatar = c.avatarFor(ctx, comment.User.IDs.Slug)
		}(&list[i])
	}
	wg.Wait()

	return &Comments{Total: total, Comments: list}, nil
}

func (c *Client) avatarFor(ctx context.Context, userSlug string) string {
	profile, err := c.UserProfile(ctx, userSlug)
	if err != nil {
		c.logger.Debug().Err(err).Str("user", userSlug).Msg("Avatar lookup failed, using default")
		return defaultAvatar
	}
	if profile.Images.Avatar.Full != "" {
		return profile.Images.Avatar.Full
	}
	if profile.Gender == "female" {
		return defaultAvatarFemale
	}
	return defaultAvatar
}

// IDLookupTMDB resolves a metadata-service id to the cross-service id set.
// mediaType is "show" or "movie".
func (c *Client) IDLookupTMDB(ctx context.Context, tmdbID int, mediaType string) (*IDs, error) {
	params := url.Values{}
	if mediaType != "" {
		params.Set("type", mediaType)
	}

	var results []SearchResult
	if _, err := c.doGet(ctx, fmt.Sprintf("/search/tmdb/%d", tmdbID), params, "", &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	switch r := results[0]; r.Type {
	case "show":
		if r.Show != nil {
			return &r.Show.IDs, nil
		}
	case "movie":
		if r.Movie != nil {
			return &r.Movie.IDs, nil
		}
	case "episode":
		if r.Episode != nil {
			return &r.Episode.IDs, nil
		}
	}
	return nil, ErrNotFound
}

// IDLookupPerson resolves a metadata-service person id to the
// cross-service id set.
func (c *Client) IDLookupPerson(ctx context.Context, tmdbID int) (*IDs, error) {
	params := url.Values{}
	params.Set("type", "person")

	var results []SearchResult
	if _, err := c.doGet(ctx, fmt.Sprintf("/search/tmdb/%d", tmdbID), params, "", &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].Person == nil {
		return nil, ErrNotFound
	}
	return &results[0].Person.IDs, nil
}

// IDLookupTrakt resolves a trakt id to its full search entry, including
// the owning show for episodes.
func (c *Client) IDLookupTrakt(ctx context.Context, traktID int, mediaType string) (*IDLookupResult, error) {
	params := url.Values{}
	if mediaType != "" {
		params.Set("type", mediaType)
	}

	var results []IDLookupResult
	if _, err := c.doGet(ctx, fmt.Sprintf("/search/trakt/%d", traktID), params, "", &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

// IDLookupResult is a search result that includes the owning show for
// episode lookups.
type IDLookupResult struct {
	Type    string   `json:"type"`
	Show    *Show    `json:"show,omitempty"`
	Movie   *Movie   `json:"movie,omitempty"`
	Episode *Episode `json:"episode,omitempty"`
}
