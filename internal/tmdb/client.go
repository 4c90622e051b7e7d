package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/config"
)

var (
	ErrNotConfigured = errors.New("tmdb API key is not configured")
	ErrNotFound      = errors.New("tmdb resource not found")
	ErrAPIError      = errors.New("tmdb API error")
	ErrRateLimited   = errors.New("tmdb API rate limited")
)

// Image sizes served by the metadata image CDN.
const (
	SizeProfile  = "w200"
	SizePoster   = "w780"
	SizeBackdrop = "w1280"
)

// Client is a metadata service API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new metadata service client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// ImageURL builds a CDN URL for an image path at the given size. Returns
// an empty string for an empty path.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return c.config.ImageBaseURL + "/" + size + path
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}
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
		c.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("TMDb API error")
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// filterVideos keeps only trailers and teasers.
func filterVideos(videos []Video) []Video {
	kept := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v.Type == "Trailer" || v.Type == "Teaser" {
			kept = append(kept, v)
		}
	}
	return kept
}

// ShowDetails fetches a show's extended record with its trailers and
// teasers appended.
func (c *Client) ShowDetails(ctx context.Context, id int) (*ShowDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos")

	var details ShowDetails
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
		return nil, err
	}
	details.Videos.Results = filterVideos(details.Videos.Results)
	return &details, nil
}

// MovieDetails fetches a movie's extended record with its trailers and
// teasers appended.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos")

	var details MovieDetails
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}
	details.Videos.Results = filterVideos(details.Videos.Results)
	return &details, nil
}

// EpisodeDetails fetches one episode's extended record.
func (c *Client) EpisodeDetails(ctx context.Context, showID, season, number int) (*EpisodeDetails, error) {
	var details EpisodeDetails
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, season, number)
	if err := c.doGet(ctx, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SeasonDetails fetches one season's record with its episodes sorted by
// episode number.
func (c *Client) SeasonDetails(ctx context.Context, showID, season int) (*SeasonDetails, error) {
	var details SeasonDetails
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d/season/%d", showID, season), nil, &details); err != nil {
		return nil, err
	}
	sort.Slice(details.Episodes, func(i, j int) bool {
		return details.Episodes[i].EpisodeNumber < details.Episodes[j].EpisodeNumber
	})
	return &details, nil
}

// bestBackdrop picks the highest-voted backdrop, breaking ties by height.
func bestBackdrop(backdrops []Image) (Image, bool) {
	if len(backdrops) == 0 {
		return Image{}, false
	}
	sort.SliceStable(backdrops, func(i, j int) bool {
		if backdrops[i].VoteAverage != backdrops[j].VoteAverage {
			return backdrops[i].VoteAverage > backdrops[j].VoteAverage
		}
		return backdrops[i].Height > backdrops[j].Height
	})
	return backdrops[0], true
}

// ShowBackdrop fetches the file path of a show's best backdrop.
func (c *Client) ShowBackdrop(ctx context.Context, id int) (string, error) {
	var images imageList
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d/images", id), nil, &images); err != nil {
		return "", err
	}
	best, ok := bestBackdrop(images.Backdrops)
	if !ok {
		return "", ErrNotFound
	}
	return best.FilePath, nil
}

// MovieBackdrop fetches the file path of a movie's best backdrop.
func (c *Client) MovieBackdrop(ctx context.Context, id int) (string, error) {
	var images imageList
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d/images", id), nil, &images); err != nil {
		return "", err
	}
	best, ok := bestBackdrop(images.Backdrops)
	if !ok {
		return "", ErrNotFound
	}
	return best.FilePath, nil
}

// EpisodeStill fetches the file path of an episode's first still.
func (c *Client) EpisodeStill(ctx context.Context, showID, season, number int) (string, error) {
	var images imageList
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d/images", showID, season, number)
	if err := c.doGet(ctx, path, nil, &images); err != nil {
		return "", err
	}
	if len(images.Stills) == 0 {
		return "", ErrNotFound
	}
	return images.Stills[0].FilePath, nil
}

// ShowPoster fetches the file path of a show's poster, preferring the
// images endpoint and falling back to the details record.
func (c *Client) ShowPoster(ctx context.Context, id int) (string, error) {
	var images imageList
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d/images", id), nil, &images); err == nil && len(images.Posters) > 0 {
		return images.Posters[0].FilePath, nil
	}

	var details ShowDetails
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d", id), nil, &details); err != nil {
		return "", err
	}
	if details.PosterPath == "" {
		return "", ErrNotFound
	}
	return details.PosterPath, nil
}

// MoviePoster fetches the file path of a movie's poster, preferring the
// images endpoint and falling back to the details record.
func (c *Client) MoviePoster(ctx context.Context, id int) (string, error) {
	var images imageList
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d/images", id), nil, &images); err == nil && len(images.Posters) > 0 {
		return images.Posters[0].FilePath, nil
	}

	var details MovieDetails
	if err := c.doGet(ctx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return "", err
	}
	if details.PosterPath == "" {
		return "", ErrNotFound
	}
	return details.PosterPath, nil
}

// SeasonPoster fetches the file path of a season's poster.
func (c *Client) SeasonPoster(ctx context.Context, showID, season int) (string, error) {
	var details SeasonDetails
	if err := c.doGet(ctx, fmt.Sprintf("/tv/%d/season/%d", showID, season), nil, &details); err != nil {
		return "", err
	}
	if details.PosterPath == "" {
		return "", ErrNotFound
	}
	return details.PosterPath, nil
}

// ShowCredits fetches a show's cast in billing order.
func (c *Client) ShowCredits(ctx context.Context, id int) ([]CastMember, error) {
	return c.credits(ctx, fmt.Sprintf("/tv/%d/credits", id))
}

// MovieCredits fetches a movie's cast in billing order.
func (c *Client) MovieCredits(ctx context.Context, id int) ([]CastMember, error) {
	return c.credits(ctx, fmt.Sprintf("/movie/%d/credits", id))
}

// EpisodeCredits fetches an episode's cast in billing order.
func (c *Client) EpisodeCredits(ctx context.Context, showID, season, number int) ([]CastMember, error) {
	return c.credits(ctx, fmt.Sprintf("/tv/%d/season/%d/episode/%d/credits", showID, season, number))
}

func (c *Client) credits(ctx context.Context, path string) ([]CastMember, error) {
	var res creditsResponse
	if err := c.doGet(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	sort.SliceStable(res.Cast, func(i, j int) bool {
		return res.Cast[i].Order < res.Cast[j].Order
	})
	return res.Cast, nil
}

// Collection fetches a film series, dropping unreleased entries that
// have no release date yet.
func (c *Client) Collection(ctx context.Context, id int) (*Collection, error) {
	var collection Collection
	if err := c.doGet(ctx, fmt.Sprintf("/collection/%d", id), nil, &collection); err != nil {
		return nil, err
	}

	parts := make([]CollectionPart, 0, len(collection.Parts))
	for _, p := range collection.Parts {
		if p.ReleaseDate != "" {
			parts = append(parts, p)
		}
	}
	collection.Parts = parts
	return &collection, nil
}

// Genres fetches the tv and movie genre lists merged, deduplicated by
// genre id.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var tv, movie genreList
	if err := c.doGet(ctx, "/genre/tv/list", nil, &tv); err != nil {
		return nil, err
	}
	if err := c.doGet(ctx, "/genre/movie/list", nil, &movie); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(tv.Genres)+len(movie.Genres))
	genres := make([]Genre, 0, len(tv.Genres)+len(movie.Genres))
	for _, g := range append(tv.Genres, movie.Genres...) {
		if !seen[g.ID] {
			seen[g.ID] = true
			genres = append(genres, g)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

// SearchMulti searches shows, movies and people in one query.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) ([]SearchResult, int, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var res pagedResults
	if err := c.doGet(ctx, "/search/multi", params, &res); err != nil {
		return nil, 0, err
	}
	return res.Results, res.TotalPages, nil
}

// PersonImages fetches a person's profile images.
func (c *Client) PersonImages(ctx context.Context, personID int) ([]Image, error) {
	var res personImages
	if err := c.doGet(ctx, fmt.Sprintf("/person/%d/images", personID), nil, &res); err != nil {
		return nil, err
	}
	return res.Profiles, nil
}

// Trending fetches this week's trending shows and movies, people
// filtered out.
func (c *Client) Trending(ctx context.Context) ([]SearchResult, error) {
	var res pagedResults
	if err := c.doGet(ctx, "/trending/all/week", nil, &res); err != nil {
		return nil, err
	}

	entries := make([]SearchResult, 0, len(res.Results))
	for _, r := range res.Results {
		if r.MediaType == "tv" || r.MediaType == "movie" {
			entries = append(entries, r)
		}
	}
	return entries, nil
}
