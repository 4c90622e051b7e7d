// Package aggregator assembles view models for media pages by fanning
// out to the tracking, metadata, artwork and ratings providers and
// merging the results. Provider failures degrade to null fields; only a
// failed primary lookup fails the whole operation.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
)

// ErrNoCollection is returned for movies that are not part of a series.
var ErrNoCollection = errors.New("movie belongs to no collection")

// ErrMissingID is returned before any upstream call when the caller
// passes an empty identifier.
var ErrMissingID = errors.New("missing identifier")

// Service assembles and caches media view models.
type Service struct {
	tracking TrackingClient
	meta     MetadataClient
	art      ArtworkClient
	ratings  RatingsClient
	store    *localstore.Typed
	cache    *cache.Cache
	logger   zerolog.Logger
	flight   singleflight.Group
}

// NewService creates an aggregator over the provider clients.
func NewService(tracking TrackingClient, meta MetadataClient, art ArtworkClient, ratings RatingsClient, store *localstore.Typed, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{
		tracking: tracking,
		meta:     meta,
		art:      art,
		ratings:  ratings,
		store:    store,
		cache:    c,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// ClearCache drops every cached view model. Durable state (session,
// ratings, watch history) is untouched.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// getCached serves key from the cache, collapsing concurrent misses for
// the same key into one fetch.
func getCached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	var hit T
	if s.cache.GetJSON(ctx, key, &hit) {
		return &hit, nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		var again T
		if s.cache.GetJSON(ctx, key, &again) {
			return &again, nil
		}
		out, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, key, out); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache view model")
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// GetShowCard assembles the card view model for a show.
func (s *Service) GetShowCard(ctx context.Context, id string) (*CardInfo, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return getCached(ctx, s, "show-card-"+id, func(ctx context.Context) (*CardInfo, error) {
		show, err := s.tracking.ShowSummary(ctx, id)
		if err != nil {
			return nil, err
		}

		card := &CardInfo{
			Title:    show.Title,
			Year:     show.Year,
			Overview: show.Overview,
			Genres:   show.Genres,
			IDs:      mediaIDs(show.IDs),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			card.Rating = s.showRating(gctx, show.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			card.IMDbRating = s.imdbRating(gctx, show.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			card.Poster = s.showPoster(gctx, show.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.Backdrop = s.showBackdrop(gctx, show.IDs.TMDB, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			card.Logo = s.showLogo(gctx, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			card.TMDBRating = s.tmdbShowRating(gctx, show.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.MyRating = s.myShowRating(gctx, show.IDs.Trakt)
			return nil
		})
		g.Wait()

		return card, nil
	})
}

// GetMovieCard assembles the card view model for a movie.
func (s *Service) GetMovieCard(ctx context.Context, id string) (*CardInfo, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return getCached(ctx, s, "movie-card-"+id, func(ctx context.Context) (*CardInfo, error) {
		movie, err := s.tracking.MovieSummary(ctx, id)
		if err != nil {
			return nil, err
		}

		card := &CardInfo{
			Title:    movie.Title,
			Year:     movie.Year,
			Overview: movie.Overview,
			Genres:   movie.Genres,
			IDs:      mediaIDs(movie.IDs),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			card.Rating = s.movieRating(gctx, movie.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			card.IMDbRating = s.imdbRating(gctx, movie.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			card.Poster = s.moviePoster(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.Backdrop = s.movieBackdrop(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.Logo = s.movieLogo(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.TMDBRating = s.tmdbMovieRating(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			card.MyRating = s.myMovieRating(gctx, movie.IDs.Trakt)
			return nil
		})
		g.Wait()

		return card, nil
	})
}

// GetEpisodeCard assembles the card view model for an episode.
func (s *Service) GetEpisodeCard(ctx context.Context, showID string, season, number int) (*CardInfo, error) {
	if showID == "" {
		return nil, ErrMissingID
	}
	key := fmt.Sprintf("episode-card-%s-%d-%d", showID, season, number)
	return getCached(ctx, s, key, func(ctx context.Context) (*CardInfo, error) {
		var (
			show    *trakt.Show
			episode *trakt.Episode
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			show, err = s.tracking.ShowSummary(gctx, showID)
			return err
		})
		g.Go(func() error {
			var err error
			episode, err = s.tracking.EpisodeSummary(gctx, showID, season, number)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		card := &CardInfo{
			Title:    episode.Title,
			Overview: episode.Overview,
			IDs:      mediaIDs(episode.IDs),
		}

		g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error {
			card.Rating = s.episodeRating(gctx, show.IDs.Trakt, season, number)
			return nil
		})
		g.Go(func() error {
			card.IMDbRating = s.imdbRating(gctx, episode.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			card.Backdrop = s.episodeStill(gctx, show.IDs.TMDB, season, number)
			card.Poster = card.Backdrop
			return nil
		})
		g.Go(func() error {
			card.Logo = s.showLogo(gctx, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			card.TMDBRating = s.tmdbEpisodeRating(gctx, show.IDs.TMDB, season, number)
			return nil
		})
		g.Go(func() error {
			card.MyRating = s.myEpisodeRating(gctx, show.IDs.Trakt, season, number)
			return nil
		})
		g.Wait()

		return card, nil
	})
}

// GetShowDetails assembles the full show page view model.
func (s *Service) GetShowDetails(ctx context.Context, id string) (*ShowDetails, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return getCached(ctx, s, "show-details-"+id, func(ctx context.Context) (*ShowDetails, error) {
		show, err := s.tracking.ShowSummary(ctx, id)
		if err != nil {
			return nil, err
		}

		details := &ShowDetails{
			Title:         show.Title,
			Year:          show.Year,
			Overview:      show.Overview,
			Status:        show.Status,
			Network:       show.Network,
			Runtime:       show.Runtime,
			Genres:        show.Genres,
			AiredEpisodes: show.AiredEpisodes,
			IDs:           mediaIDs(show.IDs),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			meta, err := s.meta.ShowDetails(gctx, show.IDs.TMDB)
			if err != nil {
				return nil
			}
			details.Trailers = videos(meta.Videos.Results)
			details.TMDBRating = formatVote(meta.VoteAverage)
			return nil
		})
		g.Go(func() error {
			details.Rating = s.showRating(gctx, show.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			details.IMDbRating = s.imdbRating(gctx, show.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			details.Poster = s.showPoster(gctx, show.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			details.Backdrop = s.showBackdrop(gctx, show.IDs.TMDB, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			details.Logo = s.showLogo(gctx, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			details.MyRating = s.myShowRating(gctx, show.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			cast, err := s.meta.ShowCredits(gctx, show.IDs.TMDB)
			if err != nil {
				return nil
			}
			details.Cast = s.actors(gctx, cast)
			return nil
		})
		g.Go(func() error {
			comments, err := s.tracking.ShowComments(gctx, show.IDs.Trakt)
			if err != nil {
				return nil
			}
			details.Comments = comments
			return nil
		})
		g.Go(func() error {
			seasons, err := s.tracking.Seasons(gctx, id)
			if err != nil {
				return nil
			}
			details.Seasons = seasonList(seasons)
			return nil
		})
		g.Go(func() error {
			progress, err := s.tracking.WatchedProgress(gctx, show.IDs.Trakt)
			if err != nil {
				return nil
			}
			details.Progress = &Progress{
				Aired:         progress.Aired,
				Completed:     progress.Completed,
				LastWatchedAt: progress.LastWatchedAt,
			}
			return nil
		})
		g.Wait()

		return details, nil
	})
}

// GetMovieDetails assembles the full movie page view model.
func (s *Service) GetMovieDetails(ctx context.Context, id string) (*MovieDetails, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return getCached(ctx, s, "movie-details-"+id, func(ctx context.Context) (*MovieDetails, error) {
		movie, err := s.tracking.MovieSummary(ctx, id)
		if err != nil {
			return nil, err
		}

		details := &MovieDetails{
			Title:    movie.Title,
			Year:     movie.Year,
			Tagline:  movie.Tagline,
			Overview: movie.Overview,
			Released: movie.Released,
			Runtime:  movie.Runtime,
			Genres:   movie.Genres,
			IDs:      mediaIDs(movie.IDs),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			meta, err := s.meta.MovieDetails(gctx, movie.IDs.TMDB)
			if err != nil {
				return nil
			}
			details.Trailers = videos(meta.Videos.Results)
			details.TMDBRating = formatVote(meta.VoteAverage)
			if meta.Collection != nil {
				details.Collection = &CollectionRef{ID: meta.Collection.ID, Name: meta.Collection.Name}
			}
			if details.Tagline == "" {
				details.Tagline = meta.Tagline
			}
			return nil
		})
		g.Go(func() error {
			details.Rating = s.movieRating(gctx, movie.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			details.IMDbRating = s.imdbRating(gctx, movie.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			details.Poster = s.moviePoster(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			details.Backdrop = s.movieBackdrop(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			details.Logo = s.movieLogo(gctx, movie.IDs.TMDB)
			return nil
		})
		g.Go(func() error {
			details.MyRating = s.myMovieRating(gctx, movie.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			details.Watched, details.Plays = s.movieWatched(gctx, movie.IDs.Trakt)
			return nil
		})
		g.Go(func() error {
			cast, err := s.meta.MovieCredits(gctx, movie.IDs.TMDB)
			if err != nil {
				return nil
			}
			details.Cast = s.actors(gctx, cast)
			return nil
		})
		g.Go(func() error {
			comments, err := s.tracking.MovieComments(gctx, movie.IDs.Trakt)
			if err != nil {
				return nil
			}
			details.Comments = comments
			return nil
		})
		g.Wait()

		return details, nil
	})
}

// GetSeasonDetails assembles the full season page view model.
func (s *Service) GetSeasonDetails(ctx context.Context, showID string, season int) (*SeasonDetails, error) {
	if showID == "" {
		return nil, ErrMissingID
	}
	key := fmt.Sprintf("season-details-%s-%d", showID, season)
	return getCached(ctx, s, key, func(ctx context.Context) (*SeasonDetails, error) {
		var (
			show *trakt.Show
			sum  *trakt.Season
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			show, err = s.tracking.ShowSummary(gctx, showID)
			return err
		})
		g.Go(func() error {
			var err error
			sum, err = s.tracking.SeasonSummary(gctx, showID, season)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		details := &SeasonDetails{
			Number:   sum.Number,
			Title:    sum.Title,
			Overview: sum.Overview,
			IDs:      mediaIDs(sum.IDs),
			Rating:   seasonRating(sum),
		}

		g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error {
			details.Poster = s.seasonPoster(gctx, show.IDs.TMDB, season)
			return nil
		})
		g.Go(func() error {
			details.Backdrop = s.showBackdrop(gctx, show.IDs.TMDB, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			details.Logo = s.showLogo(gctx, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			details.MyRating = s.mySeasonRating(gctx, show.IDs.Trakt, season)
			return nil
		})
		g.Go(func() error {
			comments, err := s.tracking.SeasonComments(gctx, show.IDs.Slug, season)
			if err != nil {
				return nil
			}
			details.Comments = comments
			return nil
		})
		g.Go(func() error {
			details.Episodes = s.episodeList(gctx, show.IDs.TMDB, show.IDs.Trakt, season)
			return nil
		})
		g.Wait()

		return details, nil
	})
}

// GetEpisodeDetails assembles the full episode page view model.
func (s *Service) GetEpisodeDetails(ctx context.Context, showID string, season, number int) (*EpisodeDetails, error) {
	if showID == "" {
		return nil, ErrMissingID
	}
	key := fmt.Sprintf("episode-details-%s-%d-%d", showID, season, number)
	return getCached(ctx, s, key, func(ctx context.Context) (*EpisodeDetails, error) {
		var (
			show    *trakt.Show
			episode *trakt.Episode
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			show, err = s.tracking.ShowSummary(gctx, showID)
			return err
		})
		g.Go(func() error {
			var err error
			episode, err = s.tracking.EpisodeSummary(gctx, showID, season, number)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		details := &EpisodeDetails{
			Title:    episode.Title,
			Season:   episode.Season,
			Number:   episode.Number,
			Overview: episode.Overview,
			AirDate:  episode.FirstAired,
			Runtime:  episode.Runtime,
			IDs:      mediaIDs(episode.IDs),
		}

		g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error {
			details.Rating = s.episodeRating(gctx, show.IDs.Trakt, season, number)
			return nil
		})
		g.Go(func() error {
			details.IMDbRating = s.imdbRating(gctx, episode.IDs.IMDB)
			return nil
		})
		g.Go(func() error {
			details.Still = s.episodeStill(gctx, show.IDs.TMDB, season, number)
			return nil
		})
		g.Go(func() error {
			details.Logo = s.showLogo(gctx, show.IDs.TVDB)
			return nil
		})
		g.Go(func() error {
			details.TMDBRating = s.tmdbEpisodeRating(gctx, show.IDs.TMDB, season, number)
			return nil
		})
		g.Go(func() error {
			details.MyRating = s.myEpisodeRating(gctx, show.IDs.Trakt, season, number)
			return nil
		})
		g.Go(func() error {
			details.Watched = s.episodeWatched(gctx, show.IDs.Trakt, season, number)
			return nil
		})
		g.Go(func() error {
			cast, err := s.meta.EpisodeCredits(gctx, show.IDs.TMDB, season, number)
			if err != nil {
				return nil
			}
			details.Cast = s.actors(gctx, cast)
			return nil
		})
		g.Go(func() error {
			comments, err := s.tracking.EpisodeComments(gctx, show.IDs.Slug, season, number)
			if err != nil {
				return nil
			}
			details.Comments = comments
			return nil
		})
		g.Wait()

		return details, nil
	})
}

// GetMovieCollection assembles the film series page for a movie.
// Returns ErrNoCollection for standalone movies.
func (s *Service) GetMovieCollection(ctx context.Context, id string) (*Collection, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return getCached(ctx, s, "movie-collection-"+id, func(ctx context.Context) (*Collection, error) {
		movie, err := s.tracking.MovieSummary(ctx, id)
		if err != nil {
			return nil, err
		}

		meta, err := s.meta.MovieDetails(ctx, movie.IDs.TMDB)
		if err != nil {
			return nil, err
		}
		if meta.Collection == nil {
			return nil, ErrNoCollection
		}

		raw, err := s.meta.Collection(ctx, meta.Collection.ID)
		if err != nil {
			return nil, err
		}
		sort.Slice(raw.Parts, func(i, j int) bool {
			return raw.Parts[i].ReleaseDate < raw.Parts[j].ReleaseDate
		})

		collection := &Collection{
			ID:       raw.ID,
			Name:     raw.Name,
			Overview: raw.Overview,
			Movies:   make([]CardInfo, len(raw.Parts)),
		}

		var wg sync.WaitGroup
		for i, part := range raw.Parts {
			wg.Add(1)
			go func(i int, part tmdb.CollectionPart) {
				defer wg.Done()
				collection.Movies[i] = s.collectionCard(ctx, part)
			}(i, part)
		}
		wg.Wait()

		return collection, nil
	})
}

// Genres returns the merged show and movie genre list from the
// metadata catalog.
func (s *Service) Genres(ctx context.Context) ([]tmdb.Genre, error) {
	page, err := getCached(ctx, s, "genres", func(ctx context.Context) (*genrePayload, error) {
		genres, err := s.meta.Genres(ctx)
		if err != nil {
			return nil, err
		}
		return &genrePayload{Genres: genres}, nil
	})
	if err != nil {
		return nil, err
	}
	return page.Genres, nil
}

type genrePayload struct {
	Genres []tmdb.Genre `json:"genres"`
}

// Search runs a catalog multi search. Results are not cached; the query
// space is unbounded.
func (s *Service) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	results, totalPages, err := s.meta.SearchMulti(ctx, query, page)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	out := &SearchPage{Page: page, TotalPages: totalPages, Results: make([]SearchResult, 0, len(results))}
	for _, r := range results {
		hit := SearchResult{TMDBID: r.ID, Poster: placeholderSet()}
		switch r.MediaType {
		case "tv":
			hit.Type = "show"
			hit.Title = r.Name
			hit.Year = releaseYear(r.FirstAirDate)
		case "movie":
			hit.Type = "movie"
			hit.Title = r.Title
			hit.Year = releaseYear(r.ReleaseDate)
		case "person":
			hit.Type = "person"
			hit.Title = r.Name
		default:
			continue
		}
		if path := firstNonEmpty(r.PosterPath, r.ProfilePath); path != "" {
			hit.Poster = ImageSet{
				Small: s.meta.ImageURL(path, tmdb.SizeProfile),
				Large: s.meta.ImageURL(path, tmdb.SizePoster),
			}
		}
		out.Results = append(out.Results, hit)
	}
	return out, nil
}

// AppBackground picks a random trending backdrop for the app shell.
// Never cached so each load gets a fresh pick.
func (s *Service) AppBackground(ctx context.Context) (string, error) {
	entries, err := s.meta.Trending(ctx)
	if err != nil {
		return "", err
	}

	withArt := entries[:0:0]
	for _, e := range entries {
		if e.BackdropPath != "" {
			withArt = append(withArt, e)
		}
	}
	if len(withArt) == 0 {
		return PlaceholderImage, nil
	}
	pick := withArt[rand.IntN(len(withArt))]
	return s.meta.ImageURL(pick.BackdropPath, tmdb.SizeBackdrop), nil
}

// collectionCard builds a minimal card for one film of a series.
func (s *Service) collectionCard(ctx context.Context, part tmdb.CollectionPart) CardInfo {
	card := CardInfo{
		Title:    part.Title,
		Year:     releaseYear(part.ReleaseDate),
		Overview: part.Overview,
		IDs:      MediaIDs{TMDB: part.ID},
		Backdrop: placeholderSet(),
	}
	if part.PosterPath != "" {
		card.Poster = ImageSet{
			Small: s.meta.ImageURL(part.PosterPath, tmdb.SizeProfile),
			Large: s.meta.ImageURL(part.PosterPath, tmdb.SizePoster),
		}
	} else {
		card.Poster = placeholderSet()
	}
	if ids, err := s.tracking.IDLookupTMDB(ctx, part.ID, "movie"); err == nil {
		card.IDs = mediaIDs(*ids)
	}
	return card
}

// Provider helpers. Each degrades to its zero value on failure so a
// broken provider nulls one field instead of failing the page.

func (s *Service) showRating(ctx context.Context, traktID int) *string {
	r, err := s.tracking.ShowRating(ctx, traktID)
	if err != nil {
		return nil
	}
	return &r
}

func (s *Service) movieRating(ctx context.Context, traktID int) *string {
	r, err := s.tracking.MovieRating(ctx, traktID)
	if err != nil {
		return nil
	}
	return &r
}

func (s *Service) episodeRating(ctx context.Context, showTraktID, season, number int) *string {
	r, err := s.tracking.EpisodeRating(ctx, showTraktID, season, number)
	if err != nil {
		return nil
	}
	return &r
}

func (s *Service) tmdbShowRating(ctx context.Context, tmdbID int) *string {
	details, err := s.meta.ShowDetails(ctx, tmdbID)
	if err != nil {
		return nil
	}
	return formatVote(details.VoteAverage)
}

func (s *Service) tmdbMovieRating(ctx context.Context, tmdbID int) *string {
	details, err := s.meta.MovieDetails(ctx, tmdbID)
	if err != nil {
		return nil
	}
	return formatVote(details.VoteAverage)
}

func (s *Service) tmdbEpisodeRating(ctx context.Context, showTMDBID, season, number int) *string {
	details, err := s.meta.EpisodeDetails(ctx, showTMDBID, season, number)
	if err != nil {
		return nil
	}
	return formatVote(details.VoteAverage)
}

// formatVote renders a vote average to one decimal; a zero average
// means unrated.
func formatVote(avg float64) *string {
	if avg == 0 {
		return nil
	}
	r := strconv.FormatFloat(avg, 'f', 1, 64)
	return &r
}

func (s *Service) imdbRating(ctx context.Context, imdbID string) *string {
	if imdbID == "" {
		return nil
	}
	r, err := s.ratings.IMDbRating(ctx, imdbID)
	if err != nil {
		return nil
	}
	return &r
}

func (s *Service) showPoster(ctx context.Context, tmdbID int) ImageSet {
	path, err := s.meta.ShowPoster(ctx, tmdbID)
	if err != nil {
		return placeholderSet()
	}
	return ImageSet{
		Small: s.meta.ImageURL(path, tmdb.SizeProfile),
		Large: s.meta.ImageURL(path, tmdb.SizePoster),
	}
}

func (s *Service) moviePoster(ctx context.Context, tmdbID int) ImageSet {
	path, err := s.meta.MoviePoster(ctx, tmdbID)
	if err != nil {
		return placeholderSet()
	}
	return ImageSet{
		Small: s.meta.ImageURL(path, tmdb.SizeProfile),
		Large: s.meta.ImageURL(path, tmdb.SizePoster),
	}
}

func (s *Service) seasonPoster(ctx context.Context, tmdbID, season int) ImageSet {
	path, err := s.meta.SeasonPoster(ctx, tmdbID, season)
	if err != nil {
		return placeholderSet()
	}
	return ImageSet{
		Small: s.meta.ImageURL(path, tmdb.SizeProfile),
		Large: s.meta.ImageURL(path, tmdb.SizePoster),
	}
}

// showBackdrop falls back from the metadata service to fan artwork to
// the bundled placeholder.
func (s *Service) showBackdrop(ctx context.Context, tmdbID, tvdbID int) ImageSet {
	if path, err := s.meta.ShowBackdrop(ctx, tmdbID); err == nil {
		return ImageSet{
			Small: s.meta.ImageURL(path, tmdb.SizePoster),
			Large: s.meta.ImageURL(path, tmdb.SizeBackdrop),
		}
	}
	if url, err := s.art.ShowBackground(ctx, tvdbID); err == nil {
		return ImageSet{Small: url, Large: url}
	}
	return placeholderSet()
}

func (s *Service) movieBackdrop(ctx context.Context, tmdbID int) ImageSet {
	if path, err := s.meta.MovieBackdrop(ctx, tmdbID); err == nil {
		return ImageSet{
			Small: s.meta.ImageURL(path, tmdb.SizePoster),
			Large: s.meta.ImageURL(path, tmdb.SizeBackdrop),
		}
	}
	if url, err := s.art.MovieBackground(ctx, tmdbID); err == nil {
		return ImageSet{Small: url, Large: url}
	}
	return placeholderSet()
}

func (s *Service) episodeStill(ctx context.Context, showTMDBID, season, number int) ImageSet {
	path, err := s.meta.EpisodeStill(ctx, showTMDBID, season, number)
	if err != nil {
		return placeholderSet()
	}
	return ImageSet{
		Small: s.meta.ImageURL(path, tmdb.SizePoster),
		Large: s.meta.ImageURL(path, tmdb.SizeBackdrop),
	}
}

func (s *Service) showLogo(ctx context.Context, tvdbID int) string {
	logo, err := s.art.ShowClearLogo(ctx, tvdbID)
	if err != nil {
		return ""
	}
	return logo
}

func (s *Service) movieLogo(ctx context.Context, tmdbID int) string {
	logo, err := s.art.MovieClearLogo(ctx, tmdbID)
	if err != nil {
		return ""
	}
	return logo
}

// myRating scans the locally synced rating collection; it never goes to
// the network.
func (s *Service) myRating(ctx context.Context, kind trakt.RatingKind, match func(trakt.Rating) bool) *int {
	set, ok, err := s.store.Ratings(ctx, kind)
	if err != nil || !ok {
		return nil
	}
	for _, entry := range set.Entries {
		if match(entry) {
			r := entry.Rating
			return &r
		}
	}
	return nil
}

func (s *Service) myShowRating(ctx context.Context, traktID int) *int {
	return s.myRating(ctx, trakt.RatingKindShow, func(r trakt.Rating) bool {
		return r.Show != nil && r.Show.IDs.Trakt == traktID
	})
}

func (s *Service) myMovieRating(ctx context.Context, traktID int) *int {
	return s.myRating(ctx, trakt.RatingKindMovie, func(r trakt.Rating) bool {
		return r.Movie != nil && r.Movie.IDs.Trakt == traktID
	})
}

func (s *Service) mySeasonRating(ctx context.Context, showTraktID, season int) *int {
	return s.myRating(ctx, trakt.RatingKindSeason, func(r trakt.Rating) bool {
		return r.Show != nil && r.Show.IDs.Trakt == showTraktID &&
			r.Season != nil && r.Season.Number == season
	})
}

func (s *Service) myEpisodeRating(ctx context.Context, showTraktID, season, number int) *int {
	return s.myRating(ctx, trakt.RatingKindEpisode, func(r trakt.Rating) bool {
		return r.Show != nil && r.Show.IDs.Trakt == showTraktID &&
			r.Episode != nil && r.Episode.Season == season && r.Episode.Number == number
	})
}

func (s *Service) movieWatched(ctx context.Context, traktID int) (bool, int) {
	watched, ok, err := s.store.WatchedMovies(ctx)
	if err != nil || !ok {
		return false, 0
	}
	for _, w := range watched {
		if w.Movie.IDs.Trakt == traktID {
			return true, w.Plays
		}
	}
	return false, 0
}

func (s *Service) episodeWatched(ctx context.Context, showTraktID, season, number int) bool {
	shows, ok, err := s.store.WatchedShows(ctx)
	if err != nil || !ok {
		return false
	}
	progress, ok := shows[showTraktID]
	if !ok {
		return false
	}
	ep := progress.Episode(season, number)
	return ep != nil && ep.Completed
}

// actors converts cast entries, resolving cross-service ids per member
// concurrently. A failed lookup nulls that member's ids only.
func (s *Service) actors(ctx context.Context, members []tmdb.CastMember) []Actor {
	actors := make([]Actor, len(members))

	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(i int, m tmdb.CastMember) {
			defer wg.Done()
			actors[i] = Actor{
				Name:      m.Name,
				Character: m.Character,
				Photo:     s.meta.ImageURL(m.ProfilePath, tmdb.SizeProfile),
			}
			if ids, err := s.tracking.IDLookupPerson(ctx, m.ID); err == nil {
				resolved := mediaIDs(*ids)
				actors[i].IDs = &resolved
			}
		}(i, m)
	}
	wg.Wait()

	return actors
}

// episodeList merges the metadata episode listing with local watched
// state.
func (s *Service) episodeList(ctx context.Context, showTMDBID, showTraktID, season int) []EpisodeListItem {
	meta, err := s.meta.SeasonDetails(ctx, showTMDBID, season)
	if err != nil {
		return nil
	}

	items := make([]EpisodeListItem, len(meta.Episodes))
	for i, ep := range meta.Episodes {
		items[i] = EpisodeListItem{
			Number:   ep.EpisodeNumber,
			Title:    ep.Name,
			Overview: ep.Overview,
			AirDate:  ep.AirDate,
			Watched:  s.episodeWatched(ctx, showTraktID, season, ep.EpisodeNumber),
		}
		if ep.StillPath != "" {
			items[i].Still = ImageSet{
				Small: s.meta.ImageURL(ep.StillPath, tmdb.SizePoster),
				Large: s.meta.ImageURL(ep.StillPath, tmdb.SizeBackdrop),
			}
		} else {
			items[i].Still = placeholderSet()
		}
	}
	return items
}

// seasonList sorts seasons ascending and moves the specials season,
// identified by title with season zero as fallback, to the end.
func seasonList(seasons []trakt.Season) []SeasonListItem {
	sorted := make([]trakt.Season, 0, len(seasons))
	var specials []trakt.Season
	for _, season := range seasons {
		if isSpecials(season) {
			specials = append(specials, season)
			continue
		}
		sorted = append(sorted, season)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})
	sorted = append(sorted, specials...)

	items := make([]SeasonListItem, len(sorted))
	for i, season := range sorted {
		items[i] = SeasonListItem{
			Number:       season.Number,
			Title:        season.Title,
			EpisodeCount: season.EpisodeCount,
			Rating:       seasonRating(&season),
		}
	}
	return items
}

func isSpecials(season trakt.Season) bool {
	return strings.EqualFold(season.Title, "Specials") || season.Number == 0
}

// seasonRating formats the listing rating; seasons with no votes have
// no rating rather than a zero.
func seasonRating(season *trakt.Season) *string {
	if season.Votes == 0 {
		return nil
	}
	r := strconv.FormatFloat(season.Rating, 'f', 1, 64)
	return &r
}

func videos(in []tmdb.Video) []Video {
	out := make([]Video, len(in))
	for i, v := range in {
		out[i] = Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
