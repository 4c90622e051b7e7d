package aggregator

import "github.com/showdeck/showdeck/internal/trakt"

// PlaceholderImage is served from the embedded static assets and used
// whenever neither image provider has artwork.
const PlaceholderImage = "/static/placeholder.svg"

// MediaIDs is the cross-service identifier set on every view model.
type MediaIDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

func mediaIDs(ids trakt.IDs) MediaIDs {
	return MediaIDs{
		Trakt: ids.Trakt,
		Slug:  ids.Slug,
		TMDB:  ids.TMDB,
		IMDB:  ids.IMDB,
		TVDB:  ids.TVDB,
	}
}

// ImageSet is one image in two sizes. Both fields always hold a usable
// URL; the placeholder fills in when no provider had artwork.
type ImageSet struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

func placeholderSet() ImageSet {
	return ImageSet{Small: PlaceholderImage, Large: PlaceholderImage}
}

// Video is a hosted trailer or teaser.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Actor is one billed cast member. IDs is nil when cross-service id
// resolution failed for this member.
type Actor struct {
	Name      string    `json:"name"`
	Character string    `json:"character"`
	Photo     string    `json:"photo,omitempty"`
	IDs       *MediaIDs `json:"ids"`
}

// CardInfo is the compact view model behind grid and list cards.
// The rating fields are pointers so an unavailable rating serializes as
// null rather than a misleading zero; their keys are always present.
type CardInfo struct {
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	IDs        MediaIDs `json:"ids"`
	Poster     ImageSet `json:"poster"`
	Backdrop   ImageSet `json:"backdrop"`
	Logo       string   `json:"logo,omitempty"`
	Rating     *string  `json:"rating"`
	IMDbRating *string  `json:"imdb_rating"`
	TMDBRating *string  `json:"tmdb_rating"`
	MyRating   *int     `json:"my_rating"`
}

// Progress is the signed-in user's watched progress for a show.
type Progress struct {
	Aired         int    `json:"aired"`
	Completed     int    `json:"completed"`
	LastWatchedAt string `json:"last_watched_at,omitempty"`
}

// SeasonListItem is one row in a show's season list.
type SeasonListItem struct {
	Number       int     `json:"number"`
	Title        string  `json:"title"`
	EpisodeCount int     `json:"episode_count"`
	Rating       *string `json:"rating"`
}

// ShowDetails is the full show page view model.
type ShowDetails struct {
	Title         string           `json:"title"`
	Year          int              `json:"year,omitempty"`
	Overview      string           `json:"overview,omitempty"`
	Status        string           `json:"status,omitempty"`
	Network       string           `json:"network,omitempty"`
	Runtime       int              `json:"runtime,omitempty"`
	Genres        []string         `json:"genres,omitempty"`
	AiredEpisodes int              `json:"aired_episodes,omitempty"`
	IDs           MediaIDs         `json:"ids"`
	Poster        ImageSet         `json:"poster"`
	Backdrop      ImageSet         `json:"backdrop"`
	Logo          string           `json:"logo,omitempty"`
	Trailers      []Video          `json:"trailers,omitempty"`
	Rating        *string          `json:"rating"`
	IMDbRating    *string          `json:"imdb_rating"`
	TMDBRating    *string          `json:"tmdb_rating"`
	MyRating      *int             `json:"my_rating"`
	Cast          []Actor          `json:"cast,omitempty"`
	Comments      *trakt.Comments  `json:"comments,omitempty"`
	Seasons       []SeasonListItem `json:"seasons,omitempty"`
	Progress      *Progress        `json:"progress,omitempty"`
}

// CollectionRef points at the film series a movie belongs to.
type CollectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full movie page view model.
type MovieDetails struct {
	Title      string          `json:"title"`
	Year       int             `json:"year,omitempty"`
	Tagline    string          `json:"tagline,omitempty"`
	Overview   string          `json:"overview,omitempty"`
	Released   string          `json:"released,omitempty"`
	Runtime    int             `json:"runtime,omitempty"`
	Genres     []string        `json:"genres,omitempty"`
	IDs        MediaIDs        `json:"ids"`
	Poster     ImageSet        `json:"poster"`
	Backdrop   ImageSet        `json:"backdrop"`
	Logo       string          `json:"logo,omitempty"`
	Trailers   []Video         `json:"trailers,omitempty"`
	Rating     *string         `json:"rating"`
	IMDbRating *string         `json:"imdb_rating"`
	TMDBRating *string         `json:"tmdb_rating"`
	MyRating   *int            `json:"my_rating"`
	Watched    bool            `json:"watched"`
	Plays      int             `json:"plays,omitempty"`
	Cast       []Actor         `json:"cast,omitempty"`
	Comments   *trakt.Comments `json:"comments,omitempty"`
	Collection *CollectionRef  `json:"collection,omitempty"`
}

// EpisodeListItem is one row in a season's episode list.
type EpisodeListItem struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	Overview string   `json:"overview,omitempty"`
	AirDate  string   `json:"air_date,omitempty"`
	Still    ImageSet `json:"still"`
	Watched  bool     `json:"watched"`
}

// SeasonDetails is the full season page view model.
type SeasonDetails struct {
	Number   int               `json:"number"`
	Title    string            `json:"title"`
	Overview string            `json:"overview,omitempty"`
	IDs      MediaIDs          `json:"ids"`
	Poster   ImageSet          `json:"poster"`
	Backdrop ImageSet          `json:"backdrop"`
	Logo     string            `json:"logo,omitempty"`
	Rating   *string           `json:"rating"`
	MyRating *int              `json:"my_rating"`
	Episodes []EpisodeListItem `json:"episodes"`
	Comments *trakt.Comments   `json:"comments,omitempty"`
}

// EpisodeDetails is the full episode page view model.
type EpisodeDetails struct {
	Title      string          `json:"title"`
	Season     int             `json:"season"`
	Number     int             `json:"number"`
	Overview   string          `json:"overview,omitempty"`
	AirDate    string          `json:"air_date,omitempty"`
	Runtime    int             `json:"runtime,omitempty"`
	IDs        MediaIDs        `json:"ids"`
	Still      ImageSet        `json:"still"`
	Logo       string          `json:"logo,omitempty"`
	Rating     *string         `json:"rating"`
	IMDbRating *string         `json:"imdb_rating"`
	TMDBRating *string         `json:"tmdb_rating"`
	MyRating   *int            `json:"my_rating"`
	Watched    bool            `json:"watched"`
	Cast       []Actor         `json:"cast,omitempty"`
	Comments   *trakt.Comments `json:"comments,omitempty"`
}

// Collection is the film series page view model. Movies are in release
// order.
type Collection struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Overview string     `json:"overview,omitempty"`
	Movies   []CardInfo `json:"movies"`
}

// SearchResult is one hit from catalog search. Type is "show", "movie"
// or "person"; IDs are catalog-local until the caller opens the hit.
type SearchResult struct {
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Year   int      `json:"year,omitempty"`
	TMDBID int      `json:"tmdb_id"`
	Poster ImageSet `json:"poster"`
}

// SearchPage is one page of search hits.
type SearchPage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Results    []SearchResult `json:"results"`
}
