package aggregator

import (
	"context"

	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
)

// TrackingClient is the tracking service surface the aggregator uses.
type TrackingClient interface {
	ShowSummary(ctx context.Context, id string) (*trakt.Show, error)
	MovieSummary(ctx context.Context, id string) (*trakt.Movie, error)
	EpisodeSummary(ctx context.Context, showID string, season, number int) (*trakt.Episode, error)
	SeasonSummary(ctx context.Context, showID string, season int) (*trakt.Season, error)
	Seasons(ctx context.Context, showID string) ([]trakt.Season, error)

	ShowRating(ctx context.Context, traktID int) (string, error)
	MovieRating(ctx context.Context, traktID int) (string, error)
	EpisodeRating(ctx context.Context, showTraktID, season, number int) (string, error)

	ShowComments(ctx context.Context, traktID int) (*trakt.Comments, error)
	SeasonComments(ctx context.Context, slug string, season int) (*trakt.Comments, error)
	EpisodeComments(ctx context.Context, slug string, season, number int) (*trakt.Comments, error)
	MovieComments(ctx context.Context, traktID int) (*trakt.Comments, error)

	WatchedProgress(ctx context.Context, showTraktID int) (*trakt.WatchedProgress, error)
	IDLookupTMDB(ctx context.Context, tmdbID int, mediaType string) (*trakt.IDs, error)
	IDLookupPerson(ctx context.Context, tmdbID int) (*trakt.IDs, error)
}

// MetadataClient is the metadata service surface the aggregator uses.
type MetadataClient interface {
	ShowDetails(ctx context.Context, id int) (*tmdb.ShowDetails, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	EpisodeDetails(ctx context.Context, showID, season, number int) (*tmdb.EpisodeDetails, error)
	SeasonDetails(ctx context.Context, showID, season int) (*tmdb.SeasonDetails, error)

	ShowPoster(ctx context.Context, id int) (string, error)
	MoviePoster(ctx context.Context, id int) (string, error)
	SeasonPoster(ctx context.Context, showID, season int) (string, error)
	ShowBackdrop(ctx context.Context, id int) (string, error)
	MovieBackdrop(ctx context.Context, id int) (string, error)
	EpisodeStill(ctx context.Context, showID, season, number int) (string, error)

	ShowCredits(ctx context.Context, id int) ([]tmdb.CastMember, error)
	MovieCredits(ctx context.Context, id int) ([]tmdb.CastMember, error)
	EpisodeCredits(ctx context.Context, showID, season, number int) ([]tmdb.CastMember, error)

	Collection(ctx context.Context, id int) (*tmdb.Collection, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
	SearchMulti(ctx context.Context, query string, page int) ([]tmdb.SearchResult, int, error)
	Trending(ctx context.Context) ([]tmdb.SearchResult, error)
	ImageURL(path, size string) string
}

// ArtworkClient is the fan artwork surface the aggregator uses.
type ArtworkClient interface {
	ShowClearLogo(ctx context.Context, tvdbID int) (string, error)
	MovieClearLogo(ctx context.Context, tmdbID int) (string, error)
	ShowBackground(ctx context.Context, tvdbID int) (string, error)
	MovieBackground(ctx context.Context, tmdbID int) (string, error)
}

// RatingsClient is the external ratings surface the aggregator uses.
type RatingsClient interface {
	IMDbRating(ctx context.Context, imdbID string) (string, error)
}
