package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/aggregator/mock"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
)

type testEnv struct {
	tracking *mock.TrackingClient
	meta     *mock.MetadataClient
	art      *mock.ArtworkClient
	ratings  *mock.RatingsClient
	store    *localstore.Typed
	service  *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tracking: &mock.TrackingClient{},
		meta:     &mock.MetadataClient{},
		art:      &mock.ArtworkClient{},
		ratings:  &mock.RatingsClient{},
		store:    localstore.NewTyped(localstore.NewMemoryStore()),
	}
	env.service = NewService(env.tracking, env.meta, env.art, env.ratings, env.store, cache.New(nil, zerolog.Nop()), zerolog.Nop())
	return env
}

func (e *testEnv) providerCalls() int64 {
	return e.tracking.Calls.Load() + e.meta.Calls.Load() + e.art.Calls.Load() + e.ratings.Calls.Load()
}

func testShow() *trakt.Show {
	return &trakt.Show{
		Title: "Breaking Bad",
		Year:  2008,
		IDs:   trakt.IDs{Trakt: 1388, Slug: "breaking-bad", TVDB: 81189, IMDB: "tt0903747", TMDB: 1396},
	}
}

func TestGetShowCard_MergesProviders(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.ShowRatingFunc = func(ctx context.Context, id int) (string, error) { return "8.7", nil }
	env.meta.ShowPosterFunc = func(ctx context.Context, id int) (string, error) { return "/poster.jpg", nil }
	env.meta.ShowBackdropFunc = func(ctx context.Context, id int) (string, error) { return "/backdrop.jpg", nil }
	env.art.ShowClearLogoFunc = func(ctx context.Context, id int) (string, error) { return "https://art.test/logo.png", nil }
	env.ratings.IMDbRatingFunc = func(ctx context.Context, id string) (string, error) { return "9.5", nil }

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Title != "Breaking Bad" || card.IDs.Trakt != 1388 {
		t.Errorf("unexpected card identity: %+v", card)
	}
	if card.Rating == nil || *card.Rating != "8.7" {
		t.Errorf("unexpected rating: %v", card.Rating)
	}
	if card.IMDbRating == nil || *card.IMDbRating != "9.5" {
		t.Errorf("unexpected imdb rating: %v", card.IMDbRating)
	}
	if card.Logo != "https://art.test/logo.png" {
		t.Errorf("unexpected logo: %q", card.Logo)
	}
	if card.Poster.Large != "https://image.test/w780/poster.jpg" {
		t.Errorf("unexpected poster: %+v", card.Poster)
	}
	if card.Backdrop.Small != "https://image.test/w780/backdrop.jpg" ||
		card.Backdrop.Large != "https://image.test/w1280/backdrop.jpg" {
		t.Errorf("unexpected backdrop: %+v", card.Backdrop)
	}
	if card.MyRating != nil {
		t.Errorf("expected no personal rating, got %v", card.MyRating)
	}
}

func TestGetShowCard_FanOutIsConcurrent(t *testing.T) {
	const delay = 50 * time.Millisecond

	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.ShowRatingFunc = func(ctx context.Context, id int) (string, error) {
		time.Sleep(delay)
		return "8.7", nil
	}
	env.meta.ShowPosterFunc = func(ctx context.Context, id int) (string, error) {
		time.Sleep(delay)
		return "/p.jpg", nil
	}
	env.meta.ShowBackdropFunc = func(ctx context.Context, id int) (string, error) {
		time.Sleep(delay)
		return "/b.jpg", nil
	}
	env.art.ShowClearLogoFunc = func(ctx context.Context, id int) (string, error) {
		time.Sleep(delay)
		return "logo", nil
	}
	env.ratings.IMDbRatingFunc = func(ctx context.Context, id string) (string, error) {
		time.Sleep(delay)
		return "9.5", nil
	}

	start := time.Now()
	if _, err := env.service.GetShowCard(context.Background(), "breaking-bad"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	// Five delayed providers run together, not back to back.
	if elapsed > 3*delay {
		t.Errorf("fan-out took %v, expected close to one provider delay", elapsed)
	}
}

func TestGetShowCard_AllSecondaryProvidersFail(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	// Every secondary provider is left unset and fails.

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("expected degraded card, got error: %v", err)
	}
	if card.Rating != nil || card.IMDbRating != nil || card.MyRating != nil {
		t.Errorf("expected null ratings, got %+v", card)
	}
	if card.Poster != placeholderSet() || card.Backdrop != placeholderSet() {
		t.Errorf("expected placeholders, got poster=%+v backdrop=%+v", card.Poster, card.Backdrop)
	}
	if card.Logo != "" {
		t.Errorf("expected empty logo, got %q", card.Logo)
	}
}

func TestGetShowCard_PrimaryLookupFailure(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) {
		return nil, trakt.ErrNotFound
	}

	_, err := env.service.GetShowCard(context.Background(), "missing")
	if !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetShowCard_CachedCallsNoProviders(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.ShowRatingFunc = func(ctx context.Context, id int) (string, error) { return "8.7", nil }

	ctx := context.Background()
	if _, err := env.service.GetShowCard(ctx, "breaking-bad"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := env.providerCalls()

	card, err := env.service.GetShowCard(ctx, "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}
	if after := env.providerCalls(); after != before {
		t.Errorf("cached call made %d extra provider calls", after-before)
	}
	if card.Rating == nil || *card.Rating != "8.7" {
		t.Errorf("cached card lost data: %+v", card)
	}
}

func TestGetShowCard_BackdropFallsBackToFanart(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.art.ShowBackgroundFunc = func(ctx context.Context, id int) (string, error) {
		return "https://art.test/thumb.jpg", nil
	}

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Fan artwork has one size, so both variants carry the same URL.
	if card.Backdrop.Small != "https://art.test/thumb.jpg" || card.Backdrop.Large != "https://art.test/thumb.jpg" {
		t.Errorf("expected fanart fallback in both sizes, got %+v", card.Backdrop)
	}
}

func TestGetShowCard_MyRatingFromLocalStore(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }

	// A previously synced collection sits in the local store; the
	// ratings endpoints stay unset, so any network lookup would fail.
	env.store.SetRatings(context.Background(), trakt.RatingKindShow, &trakt.RatingSet{
		Total: 1,
		Entries: []trakt.Rating{
			{Rating: 9, Type: "show", Show: testShow()},
		},
	})

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.MyRating == nil || *card.MyRating != 9 {
		t.Errorf("expected personal rating 9 from local store, got %v", card.MyRating)
	}
}

func TestGetShowDetails_SpecialsMovedToEnd(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.SeasonsFunc = func(ctx context.Context, id string) ([]trakt.Season, error) {
		return []trakt.Season{
			{Number: 2, Title: "Season 2", Votes: 10, Rating: 8.91},
			{Number: 0, Title: "Specials"},
			{Number: 1, Title: "Season 1", Votes: 12, Rating: 8.55},
		}, nil
	}

	details, err := env.service.GetShowDetails(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []int
	for _, s := range details.Seasons {
		order = append(order, s.Number)
	}
	want := []int{1, 2, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected season order %v, want %v", order, want)
		}
	}

	if details.Seasons[0].Rating == nil || *details.Seasons[0].Rating != "8.6" {
		t.Errorf("unexpected season 1 rating: %v", details.Seasons[0].Rating)
	}
	// The specials season has no votes and therefore no rating.
	if details.Seasons[2].Rating != nil {
		t.Errorf("expected nil rating for specials, got %v", *details.Seasons[2].Rating)
	}
}

func TestGetShowDetails_ActorResolutionFailureIsLocal(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.meta.ShowCreditsFunc = func(ctx context.Context, id int) ([]tmdb.CastMember, error) {
		return []tmdb.CastMember{
			{ID: 17419, Name: "Bryan Cranston", Character: "Walter White", Order: 0},
			{ID: 999999, Name: "Unknown Extra", Character: "Extra", Order: 1},
		}, nil
	}
	env.tracking.IDLookupPersonFunc = func(ctx context.Context, tmdbID int) (*trakt.IDs, error) {
		if tmdbID == 17419 {
			return &trakt.IDs{Trakt: 142, Slug: "bryan-cranston", TMDB: 17419}, nil
		}
		return nil, trakt.ErrNotFound
	}

	details, err := env.service.GetShowDetails(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details.Cast) != 2 {
		t.Fatalf("expected both cast members kept, got %d", len(details.Cast))
	}
	if details.Cast[0].IDs == nil || details.Cast[0].IDs.Slug != "bryan-cranston" {
		t.Errorf("expected resolved ids for first member: %+v", details.Cast[0])
	}
	if details.Cast[1].IDs != nil {
		t.Errorf("expected nil ids for unresolved member: %+v", details.Cast[1])
	}
}

func TestGetMovieDetails_WatchedFromLocalStore(t *testing.T) {
	env := newTestEnv()
	movie := &trakt.Movie{
		Title: "The Matrix",
		Year:  1999,
		IDs:   trakt.IDs{Trakt: 481, Slug: "the-matrix-1999", TMDB: 603, IMDB: "tt0133093"},
	}
	env.tracking.MovieSummaryFunc = func(ctx context.Context, id string) (*trakt.Movie, error) { return movie, nil }
	env.store.SetWatchedMovies(context.Background(), []trakt.WatchedMovie{
		{Plays: 3, Movie: *movie},
	})

	details, err := env.service.GetMovieDetails(context.Background(), "the-matrix-1999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !details.Watched || details.Plays != 3 {
		t.Errorf("expected watched with 3 plays, got watched=%v plays=%d", details.Watched, details.Plays)
	}
}

func TestGetSeasonDetails_MergesWatchedState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.SeasonSummaryFunc = func(ctx context.Context, id string, season int) (*trakt.Season, error) {
		return &trakt.Season{Number: 1, Title: "Season 1", Votes: 5, Rating: 8.5}, nil
	}
	env.meta.SeasonDetailsFunc = func(ctx context.Context, showID, season int) (*tmdb.SeasonDetails, error) {
		return &tmdb.SeasonDetails{
			SeasonNumber: 1,
			Episodes: []tmdb.EpisodeDetails{
				{EpisodeNumber: 1, Name: "Pilot", StillPath: "/e1.jpg"},
				{EpisodeNumber: 2, Name: "Cat's in the Bag..."},
			},
		}, nil
	}
	env.store.SetWatchedShow(ctx, 1388, trakt.WatchedProgress{
		Seasons: []trakt.WatchedSeason{
			{Number: 1, Episodes: []trakt.WatchedEpisode{{Number: 1, Completed: true}}},
		},
	})

	details, err := env.service.GetSeasonDetails(ctx, "breaking-bad", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details.Episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(details.Episodes))
	}
	if !details.Episodes[0].Watched || details.Episodes[1].Watched {
		t.Errorf("unexpected watched flags: %+v", details.Episodes)
	}
	if details.Episodes[1].Still != placeholderSet() {
		t.Errorf("expected placeholder still, got %+v", details.Episodes[1].Still)
	}
}

func TestGetEpisodeDetails(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.EpisodeSummaryFunc = func(ctx context.Context, id string, season, number int) (*trakt.Episode, error) {
		return &trakt.Episode{Season: 3, Number: 7, Title: "One Minute", IDs: trakt.IDs{Trakt: 73662}}, nil
	}
	env.tracking.EpisodeRatingFunc = func(ctx context.Context, showID, season, number int) (string, error) {
		return "9.2", nil
	}

	details, err := env.service.GetEpisodeDetails(context.Background(), "breaking-bad", 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Title != "One Minute" || details.Season != 3 || details.Number != 7 {
		t.Errorf("unexpected identity: %+v", details)
	}
	if details.Rating == nil || *details.Rating != "9.2" {
		t.Errorf("unexpected rating: %v", details.Rating)
	}
	if details.Watched {
		t.Error("expected unwatched without local progress")
	}
}

func TestGetMovieCollection(t *testing.T) {
	env := newTestEnv()
	env.tracking.MovieSummaryFunc = func(ctx context.Context, id string) (*trakt.Movie, error) {
		return &trakt.Movie{Title: "The Matrix Reloaded", IDs: trakt.IDs{Trakt: 604, TMDB: 604}}, nil
	}
	env.meta.MovieDetailsFunc = func(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
		return &tmdb.MovieDetails{ID: id, Collection: &tmdb.CollectionRef{ID: 2344, Name: "The Matrix Collection"}}, nil
	}
	env.meta.CollectionFunc = func(ctx context.Context, id int) (*tmdb.Collection, error) {
		return &tmdb.Collection{
			ID:   2344,
			Name: "The Matrix Collection",
			Parts: []tmdb.CollectionPart{
				{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
				{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"},
				{ID: 605, Title: "The Matrix Revolutions", ReleaseDate: "2003-10-27"},
			},
		}, nil
	}
	env.tracking.IDLookupTMDBFunc = func(ctx context.Context, tmdbID int, mediaType string) (*trakt.IDs, error) {
		return &trakt.IDs{Trakt: tmdbID + 1, TMDB: tmdbID}, nil
	}

	collection, err := env.service.GetMovieCollection(context.Background(), "the-matrix-reloaded-2003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collection.Movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(collection.Movies))
	}
	if collection.Movies[0].Title != "The Matrix" || collection.Movies[2].Title != "The Matrix Revolutions" {
		t.Errorf("movies not in release order: %+v", collection.Movies)
	}
	if collection.Movies[0].Year != 1999 {
		t.Errorf("unexpected year: %d", collection.Movies[0].Year)
	}
	if collection.Movies[1].IDs.Trakt != 605 {
		t.Errorf("expected resolved tracking id, got %+v", collection.Movies[1].IDs)
	}
}

func TestGetMovieCollection_Standalone(t *testing.T) {
	env := newTestEnv()
	env.tracking.MovieSummaryFunc = func(ctx context.Context, id string) (*trakt.Movie, error) {
		return &trakt.Movie{Title: "Standalone", IDs: trakt.IDs{Trakt: 1, TMDB: 1}}, nil
	}
	env.meta.MovieDetailsFunc = func(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
		return &tmdb.MovieDetails{ID: id}, nil
	}

	_, err := env.service.GetMovieCollection(context.Background(), "standalone")
	if !errors.Is(err, ErrNoCollection) {
		t.Errorf("expected ErrNoCollection, got %v", err)
	}
}

func TestGetShowCard_TMDBRating(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.meta.ShowDetailsFunc = func(ctx context.Context, id int) (*tmdb.ShowDetails, error) {
		return &tmdb.ShowDetails{ID: id, VoteAverage: 8.917}, nil
	}

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.TMDBRating == nil || *card.TMDBRating != "8.9" {
		t.Errorf("unexpected tmdb rating: %v", card.TMDBRating)
	}
}

func TestGenres_Cached(t *testing.T) {
	env := newTestEnv()
	env.meta.GenresFunc = func(ctx context.Context) ([]tmdb.Genre, error) {
		return []tmdb.Genre{{ID: 18, Name: "Drama"}}, nil
	}

	ctx := context.Background()
	genres, err := env.service.Genres(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Drama" {
		t.Errorf("unexpected genres: %+v", genres)
	}

	before := env.providerCalls()
	if _, err := env.service.Genres(ctx); err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}
	if after := env.providerCalls(); after != before {
		t.Errorf("cached genres call made %d provider calls", after-before)
	}
}

func TestSearch_MapsResults(t *testing.T) {
	env := newTestEnv()
	env.meta.SearchMultiFunc = func(ctx context.Context, query string, page int) ([]tmdb.SearchResult, int, error) {
		return []tmdb.SearchResult{
			{ID: 1396, MediaType: "tv", Name: "Breaking Bad", FirstAirDate: "2008-01-20", PosterPath: "/bb.jpg"},
			{ID: 603, MediaType: "movie", Title: "The Matrix", ReleaseDate: "1999-03-31"},
			{ID: 17419, MediaType: "person", Name: "Bryan Cranston", ProfilePath: "/bc.jpg"},
		}, 2, nil
	}

	page, err := env.service.Search(context.Background(), "b", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 2 || len(page.Results) != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Results[0].Type != "show" || page.Results[0].Year != 2008 {
		t.Errorf("unexpected show hit: %+v", page.Results[0])
	}
	if page.Results[0].Poster.Small != "https://image.test/w200/bb.jpg" {
		t.Errorf("unexpected show poster: %+v", page.Results[0].Poster)
	}
	if page.Results[1].Type != "movie" || page.Results[1].Poster != placeholderSet() {
		t.Errorf("expected placeholder for posterless movie: %+v", page.Results[1])
	}
	if page.Results[2].Type != "person" || page.Results[2].Poster.Large != "https://image.test/w780/bc.jpg" {
		t.Errorf("unexpected person hit: %+v", page.Results[2])
	}
}

func TestAppBackground(t *testing.T) {
	env := newTestEnv()
	env.meta.TrendingFunc = func(ctx context.Context) ([]tmdb.SearchResult, error) {
		return []tmdb.SearchResult{
			{ID: 1, MediaType: "tv", Name: "No Art"},
			{ID: 1396, MediaType: "tv", Name: "Breaking Bad", BackdropPath: "/bb.jpg"},
		}, nil
	}

	url, err := env.service.AppBackground(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only one entry has artwork, so the random pick is deterministic.
	if url != "https://image.test/w1280/bb.jpg" {
		t.Errorf("unexpected background: %q", url)
	}
}

func TestAppBackground_NoArtwork(t *testing.T) {
	env := newTestEnv()
	env.meta.TrendingFunc = func(ctx context.Context) ([]tmdb.SearchResult, error) {
		return []tmdb.SearchResult{{ID: 1, MediaType: "tv", Name: "No Art"}}, nil
	}

	url, err := env.service.AppBackground(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != PlaceholderImage {
		t.Errorf("expected placeholder, got %q", url)
	}
}

func TestClearCache(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }

	ctx := context.Background()
	env.service.GetShowCard(ctx, "breaking-bad")
	before := env.tracking.Calls.Load()

	if err := env.service.ClearCache(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	// After a clear the next read reassembles from the providers.
	env.service.GetShowCard(ctx, "breaking-bad")
	if env.tracking.Calls.Load() == before {
		t.Error("expected provider calls after cache clear")
	}
}

func TestEmptyIdentifierShortCircuits(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ops := map[string]func() error{
		"show card": func() error {
			_, err := env.service.GetShowCard(ctx, "")
			return err
		},
		"movie card": func() error {
			_, err := env.service.GetMovieCard(ctx, "")
			return err
		},
		"episode card": func() error {
			_, err := env.service.GetEpisodeCard(ctx, "", 1, 1)
			return err
		},
		"show details": func() error {
			_, err := env.service.GetShowDetails(ctx, "")
			return err
		},
		"movie details": func() error {
			_, err := env.service.GetMovieDetails(ctx, "")
			return err
		},
		"season details": func() error {
			_, err := env.service.GetSeasonDetails(ctx, "", 1)
			return err
		},
		"episode details": func() error {
			_, err := env.service.GetEpisodeDetails(ctx, "", 1, 1)
			return err
		},
		"movie collection": func() error {
			_, err := env.service.GetMovieCollection(ctx, "")
			return err
		},
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrMissingID) {
			t.Errorf("%s: expected ErrMissingID, got %v", name, err)
		}
	}

	if calls := env.providerCalls(); calls != 0 {
		t.Errorf("expected zero provider calls, got %d", calls)
	}
}

func TestGetEpisodeCard_ShowLevelLegs(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.EpisodeSummaryFunc = func(ctx context.Context, id string, season, number int) (*trakt.Episode, error) {
		return &trakt.Episode{Season: 3, Number: 7, Title: "One Minute", IDs: trakt.IDs{Trakt: 73662, IMDB: "tt1615186"}}, nil
	}
	env.ratings.IMDbRatingFunc = func(ctx context.Context, id string) (string, error) {
		if id != "tt1615186" {
			t.Errorf("expected the episode imdb id, got %q", id)
		}
		return "9.3", nil
	}
	env.art.ShowClearLogoFunc = func(ctx context.Context, id int) (string, error) {
		if id != 81189 {
			t.Errorf("expected the show tvdb id, got %d", id)
		}
		return "https://art.test/logo.png", nil
	}

	card, err := env.service.GetEpisodeCard(context.Background(), "breaking-bad", 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.IMDbRating == nil || *card.IMDbRating != "9.3" {
		t.Errorf("unexpected imdb rating: %v", card.IMDbRating)
	}
	if card.Logo != "https://art.test/logo.png" {
		t.Errorf("unexpected logo: %q", card.Logo)
	}
}

func TestGetEpisodeDetails_ShowLevelLegs(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.EpisodeSummaryFunc = func(ctx context.Context, id string, season, number int) (*trakt.Episode, error) {
		return &trakt.Episode{Season: 3, Number: 7, Title: "One Minute", IDs: trakt.IDs{Trakt: 73662, IMDB: "tt1615186"}}, nil
	}
	env.ratings.IMDbRatingFunc = func(ctx context.Context, id string) (string, error) { return "9.3", nil }
	env.art.ShowClearLogoFunc = func(ctx context.Context, id int) (string, error) {
		return "https://art.test/logo.png", nil
	}

	details, err := env.service.GetEpisodeDetails(context.Background(), "breaking-bad", 3, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.IMDbRating == nil || *details.IMDbRating != "9.3" {
		t.Errorf("unexpected imdb rating: %v", details.IMDbRating)
	}
	if details.Logo != "https://art.test/logo.png" {
		t.Errorf("unexpected logo: %q", details.Logo)
	}
}

func TestGetSeasonDetails_ShowArtwork(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) { return testShow(), nil }
	env.tracking.SeasonSummaryFunc = func(ctx context.Context, id string, season int) (*trakt.Season, error) {
		return &trakt.Season{Number: 2, Title: "Season 2"}, nil
	}
	env.meta.ShowBackdropFunc = func(ctx context.Context, id int) (string, error) { return "/sb.jpg", nil }
	env.art.ShowClearLogoFunc = func(ctx context.Context, id int) (string, error) {
		return "https://art.test/logo.png", nil
	}

	details, err := env.service.GetSeasonDetails(context.Background(), "breaking-bad", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Backdrop.Large != "https://image.test/w1280/sb.jpg" {
		t.Errorf("unexpected backdrop: %+v", details.Backdrop)
	}
	if details.Logo != "https://art.test/logo.png" {
		t.Errorf("unexpected logo: %q", details.Logo)
	}
}

func TestGetShowCard_Genres(t *testing.T) {
	env := newTestEnv()
	env.tracking.ShowSummaryFunc = func(ctx context.Context, id string) (*trakt.Show, error) {
		show := testShow()
		show.Genres = []string{"drama", "crime"}
		return show, nil
	}

	card, err := env.service.GetShowCard(context.Background(), "breaking-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Genres) != 2 || card.Genres[0] != "drama" {
		t.Errorf("unexpected genres: %v", card.Genres)
	}
}

func TestSeasonList_SpecialsIdentifiedByTitle(t *testing.T) {
	// Some shows carry their specials under a non-zero number; the
	// title decides, with season zero as fallback.
	items := seasonList([]trakt.Season{
		{Number: 2, Title: "specials"},
		{Number: 3, Title: "Season 3"},
		{Number: 1, Title: "Season 1"},
	})
	var order []int
	for _, item := range items {
		order = append(order, item.Number)
	}
	want := []int{1, 3, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected season order %v, want %v", order, want)
		}
	}
	if items[2].Title != "specials" {
		t.Errorf("expected specials last, got %+v", items[2])
	}
}

func TestSeasonList_UntitledSeasonZeroFallback(t *testing.T) {
	items := seasonList([]trakt.Season{
		{Number: 0},
		{Number: 1, Title: "Season 1"},
	})
	if items[0].Number != 1 || items[1].Number != 0 {
		t.Errorf("expected season zero last, got %+v", items)
	}
}
