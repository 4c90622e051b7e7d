// Package mock provides configurable provider clients for aggregator
// tests. Every method delegates to an optional function field and
// counts its calls; unset fields return a not-found error.
package mock

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
)

// ErrUnset is returned by mock methods without a configured function.
var ErrUnset = errors.New("mock: not configured")

// TrackingClient is a mock tracking service client.
type TrackingClient struct {
	Calls atomic.Int64

	ShowSummaryFunc     func(ctx context.Context, id string) (*trakt.Show, error)
	MovieSummaryFunc    func(ctx context.Context, id string) (*trakt.Movie, error)
	EpisodeSummaryFunc  func(ctx context.Context, showID string, season, number int) (*trakt.Episode, error)
	SeasonSummaryFunc   func(ctx context.Context, showID string, season int) (*trakt.Season, error)
	SeasonsFunc         func(ctx context.Context, showID string) ([]trakt.Season, error)
	ShowRatingFunc      func(ctx context.Context, traktID int) (string, error)
	MovieRatingFunc     func(ctx context.Context, traktID int) (string, error)
	EpisodeRatingFunc   func(ctx context.Context, showTraktID, season, number int) (string, error)
	ShowCommentsFunc    func(ctx context.Context, traktID int) (*trakt.Comments, error)
	SeasonCommentsFunc  func(ctx context.Context, slug string, season int) (*trakt.Comments, error)
	EpisodeCommentsFunc func(ctx context.Context, slug string, season, number int) (*trakt.Comments, error)
	MovieCommentsFunc   func(ctx context.Context, traktID int) (*trakt.Comments, error)
	WatchedProgressFunc func(ctx context.Context, showTraktID int) (*trakt.WatchedProgress, error)
	IDLookupTMDBFunc    func(ctx context.Context, tmdbID int, mediaType string) (*trakt.IDs, error)
	IDLookupPersonFunc  func(ctx context.Context, tmdbID int) (*trakt.IDs, error)
}

func (m *TrackingClient) ShowSummary(ctx context.Context, id string) (*trakt.Show, error) {
	m.Calls.Add(1)
	if m.ShowSummaryFunc == nil {
		return nil, ErrUnset
	}
	return m.ShowSummaryFunc(ctx, id)
}

func (m *TrackingClient) MovieSummary(ctx context.Context, id string) (*trakt.Movie, error) {
	m.Calls.Add(1)
	if m.MovieSummaryFunc == nil {
		return nil, ErrUnset
	}
	return m.MovieSummaryFunc(ctx, id)
}

func (m *TrackingClient) EpisodeSummary(ctx context.Context, showID string, season, number int) (*trakt.Episode, error) {
	m.Calls.Add(1)
	if m.EpisodeSummaryFunc == nil {
		return nil, ErrUnset
	}
	return m.EpisodeSummaryFunc(ctx, showID, season, number)
}

func (m *TrackingClient) SeasonSummary(ctx context.Context, showID string, season int) (*trakt.Season, error) {
	m.Calls.Add(1)
	if m.SeasonSummaryFunc == nil {
		return nil, ErrUnset
	}
	return m.SeasonSummaryFunc(ctx, showID, season)
}

func (m *TrackingClient) Seasons(ctx context.Context, showID string) ([]trakt.Season, error) {
	m.Calls.Add(1)
	if m.SeasonsFunc == nil {
		return nil, ErrUnset
	}
	return m.SeasonsFunc(ctx, showID)
}

func (m *TrackingClient) ShowRating(ctx context.Context, traktID int) (string, error) {
	m.Calls.Add(1)
	if m.ShowRatingFunc == nil {
		return "", ErrUnset
	}
	return m.ShowRatingFunc(ctx, traktID)
}

func (m *TrackingClient) MovieRating(ctx context.Context, traktID int) (string, error) {
	m.Calls.Add(1)
	if m.MovieRatingFunc == nil {
		return "", ErrUnset
	}
	return m.MovieRatingFunc(ctx, traktID)
}

func (m *TrackingClient) EpisodeRating(ctx context.Context, showTraktID, season, number int) (string, error) {
	m.Calls.Add(1)
	if m.EpisodeRatingFunc == nil {
		return "", ErrUnset
	}
	return m.EpisodeRatingFunc(ctx, showTraktID, season, number)
}

func (m *TrackingClient) ShowComments(ctx context.Context, traktID int) (*trakt.Comments, error) {
	m.Calls.Add(1)
	if m.ShowCommentsFunc == nil {
		return nil, ErrUnset
	}
	return m.ShowCommentsFunc(ctx, traktID)
}

func (m *TrackingClient) SeasonComments(ctx context.Context, slug string, season int) (*trakt.Comments, error) {
	m.Calls.Add(1)
	if m.SeasonCommentsFunc == nil {
		return nil, ErrUnset
	}
	return m.SeasonCommentsFunc(ctx, slug, season)
}

func (m *TrackingClient) EpisodeComments(ctx context.Context, slug string, season, number int) (*trakt.Comments, error) {
	m.Calls.Add(1)
	if m.EpisodeCommentsFunc == nil {
		return nil, ErrUnset
	}
	return m.EpisodeCommentsFunc(ctx, slug, season, number)
}

func (m *TrackingClient) MovieComments(ctx context.Context, traktID int) (*trakt.Comments, error) {
	m.Calls.Add(1)
	if m.MovieCommentsFunc == nil {
		return nil, ErrUnset
	}
	return m.MovieCommentsFunc(ctx, traktID)
}

func (m *TrackingClient) WatchedProgress(ctx context.Context, showTraktID int) (*trakt.WatchedProgress, error) {
	m.Calls.Add(1)
	if m.WatchedProgressFunc == nil {
		return nil, ErrUnset
	}
	return m.WatchedProgressFunc(ctx, showTraktID)
}

func (m *TrackingClient) IDLookupTMDB(ctx context.Context, tmdbID int, mediaType string) (*trakt.IDs, error) {
	m.Calls.Add(1)
	if m.IDLookupTMDBFunc == nil {
		return nil, ErrUnset
	}
	return m.IDLookupTMDBFunc(ctx, tmdbID, mediaType)
}

func (m *TrackingClient) IDLookupPerson(ctx context.Context, tmdbID int) (*trakt.IDs, error) {
	m.Calls.Add(1)
	if m.IDLookupPersonFunc == nil {
		return nil, ErrUnset
	}
	return m.IDLookupPersonFunc(ctx, tmdbID)
}

// MetadataClient is a mock metadata service client.
type MetadataClient struct {
	Calls atomic.Int64

	ShowDetailsFunc    func(ctx context.Context, id int) (*tmdb.ShowDetails, error)
	MovieDetailsFunc   func(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	EpisodeDetailsFunc func(ctx context.Context, showID, season, number int) (*tmdb.EpisodeDetails, error)
	SeasonDetailsFunc  func(ctx context.Context, showID, season int) (*tmdb.SeasonDetails, error)
	ShowPosterFunc     func(ctx context.Context, id int) (string, error)
	MoviePosterFunc    func(ctx context.Context, id int) (string, error)
	SeasonPosterFunc   func(ctx context.Context, showID, season int) (string, error)
	ShowBackdropFunc   func(ctx context.Context, id int) (string, error)
	MovieBackdropFunc  func(ctx context.Context, id int) (string, error)
	EpisodeStillFunc   func(ctx context.Context, showID, season, number int) (string, error)
	ShowCreditsFunc    func(ctx context.Context, id int) ([]tmdb.CastMember, error)
	MovieCreditsFunc   func(ctx context.Context, id int) ([]tmdb.CastMember, error)
	EpisodeCreditsFunc func(ctx context.Context, showID, season, number int) ([]tmdb.CastMember, error)
	CollectionFunc     func(ctx context.Context, id int) (*tmdb.Collection, error)
	GenresFunc         func(ctx context.Context) ([]tmdb.Genre, error)
	SearchMultiFunc    func(ctx context.Context, query string, page int) ([]tmdb.SearchResult, int, error)
	TrendingFunc       func(ctx context.Context) ([]tmdb.SearchResult, error)
}

func (m *MetadataClient) ShowDetails(ctx context.Context, id int) (*tmdb.ShowDetails, error) {
	m.Calls.Add(1)
	if m.ShowDetailsFunc == nil {
		return nil, ErrUnset
	}
	return m.ShowDetailsFunc(ctx, id)
}

func (m *MetadataClient) MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	m.Calls.Add(1)
	if m.MovieDetailsFunc == nil {
		return nil, ErrUnset
	}
	return m.MovieDetailsFunc(ctx, id)
}

func (m *MetadataClient) EpisodeDetails(ctx context.Context, showID, season, number int) (*tmdb.EpisodeDetails, error) {
	m.Calls.Add(1)
	if m.EpisodeDetailsFunc == nil {
		return nil, ErrUnset
	}
	return m.EpisodeDetailsFunc(ctx, showID, season, number)
}

func (m *MetadataClient) SeasonDetails(ctx context.Context, showID, season int) (*tmdb.SeasonDetails, error) {
	m.Calls.Add(1)
	if m.SeasonDetailsFunc == nil {
		return nil, ErrUnset
	}
	return m.SeasonDetailsFunc(ctx, showID, season)
}

func (m *MetadataClient) ShowPoster(ctx context.Context, id int) (string, error) {
	m.Calls.Add(1)
	if m.ShowPosterFunc == nil {
		return "", ErrUnset
	}
	return m.ShowPosterFunc(ctx, id)
}

func (m *MetadataClient) MoviePoster(ctx context.Context, id int) (string, error) {
	m.Calls.Add(1)
	if m.MoviePosterFunc == nil {
		return "", ErrUnset
	}
	return m.MoviePosterFunc(ctx, id)
}

func (m *MetadataClient) SeasonPoster(ctx context.Context, showID, season int) (string, error) {
	m.Calls.Add(1)
	if m.SeasonPosterFunc == nil {
		return "", ErrUnset
	}
	return m.SeasonPosterFunc(ctx, showID, season)
}

func (m *MetadataClient) ShowBackdrop(ctx context.Context, id int) (string, error) {
	m.Calls.Add(1)
	if m.ShowBackdropFunc == nil {
		return "", ErrUnset
	}
	return m.ShowBackdropFunc(ctx, id)
}

func (m *MetadataClient) MovieBackdrop(ctx context.Context, id int) (string, error) {
	m.Calls.Add(1)
	if m.MovieBackdropFunc == nil {
		return "", ErrUnset
	}
	return m.MovieBackdropFunc(ctx, id)
}

func (m *MetadataClient) EpisodeStill(ctx context.Context, showID, season, number int) (string, error) {
	m.Calls.Add(1)
	if m.EpisodeStillFunc == nil {
		return "", ErrUnset
	}
	return m.EpisodeStillFunc(ctx, showID, season, number)
}

func (m *MetadataClient) ShowCredits(ctx context.Context, id int) ([]tmdb.CastMember, error) {
	m.Calls.Add(1)
	if m.ShowCreditsFunc == nil {
		return nil, ErrUnset
	}
	return m.ShowCreditsFunc(ctx, id)
}

func (m *MetadataClient) MovieCredits(ctx context.Context, id int) ([]tmdb.CastMember, error) {
	m.Calls.Add(1)
	if m.MovieCreditsFunc == nil {
		return nil, ErrUnset
	}
	return m.MovieCreditsFunc(ctx, id)
}

func (m *MetadataClient) EpisodeCredits(ctx context.Context, showID, season, number int) ([]tmdb.CastMember, error) {
	m.Calls.Add(1)
	if m.EpisodeCreditsFunc == nil {
		return nil, ErrUnset
	}
	return m.EpisodeCreditsFunc(ctx, showID, season, number)
}

func (m *MetadataClient) Collection(ctx context.Context, id int) (*tmdb.Collection, error) {
	m.Calls.Add(1)
	if m.CollectionFunc == nil {
		return nil, ErrUnset
	}
	return m.CollectionFunc(ctx, id)
}

func (m *MetadataClient) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	m.Calls.Add(1)
	if m.GenresFunc == nil {
		return nil, ErrUnset
	}
	return m.GenresFunc(ctx)
}

func (m *MetadataClient) SearchMulti(ctx context.Context, query string, page int) ([]tmdb.SearchResult, int, error) {
	m.Calls.Add(1)
	if m.SearchMultiFunc == nil {
		return nil, 0, ErrUnset
	}
	return m.SearchMultiFunc(ctx, query, page)
}

func (m *MetadataClient) Trending(ctx context.Context) ([]tmdb.SearchResult, error) {
	m.Calls.Add(1)
	if m.TrendingFunc == nil {
		return nil, ErrUnset
	}
	return m.TrendingFunc(ctx)
}

func (m *MetadataClient) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.test/" + size + path
}

// ArtworkClient is a mock fan artwork client.
type ArtworkClient struct {
	Calls atomic.Int64

	ShowClearLogoFunc   func(ctx context.Context, tvdbID int) (string, error)
	MovieClearLogoFunc  func(ctx context.Context, tmdbID int) (string, error)
	ShowBackgroundFunc  func(ctx context.Context, tvdbID int) (string, error)
	MovieBackgroundFunc func(ctx context.Context, tmdbID int) (string, error)
}

func (m *ArtworkClient) ShowClearLogo(ctx context.Context, tvdbID int) (string, error) {
	m.Calls.Add(1)
	if m.ShowClearLogoFunc == nil {
		return "", ErrUnset
	}
	return m.ShowClearLogoFunc(ctx, tvdbID)
}

func (m *ArtworkClient) MovieClearLogo(ctx context.Context, tmdbID int) (string, error) {
	m.Calls.Add(1)
	if m.MovieClearLogoFunc == nil {
		return "", ErrUnset
	}
	return m.MovieClearLogoFunc(ctx, tmdbID)
}

func (m *ArtworkClient) ShowBackground(ctx context.Context, tvdbID int) (string, error) {
	m.Calls.Add(1)
	if m.ShowBackgroundFunc == nil {
		return "", ErrUnset
	}
	return m.ShowBackgroundFunc(ctx, tvdbID)
}

func (m *ArtworkClient) MovieBackground(ctx context.Context, tmdbID int) (string, error) {
	m.Calls.Add(1)
	if m.MovieBackgroundFunc == nil {
		return "", ErrUnset
	}
	return m.MovieBackgroundFunc(ctx, tmdbID)
}

// RatingsClient is a mock external ratings client.
type RatingsClient struct {
	Calls atomic.Int64

	IMDbRatingFunc func(ctx context.Context, imdbID string) (string, error)
}

func (m *RatingsClient) IMDbRating(ctx context.Context, imdbID string) (string, error) {
	m.Calls.Add(1)
	if m.IMDbRatingFunc == nil {
		return "", ErrUnset
	}
	return m.IMDbRatingFunc(ctx, imdbID)
}
