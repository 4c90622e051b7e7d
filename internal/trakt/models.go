package trakt

import "time"

// IDs is the cross-service identifier set attached to every media object.
// Slug is the canonical cache key; the other fields may be zero when a
// lookup failed or the service does not know the mapping.
type IDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	TVDB  int    `json:"tvdb"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
}

// Show is a show summary (extended=full).
type Show struct {
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	IDs           IDs      `json:"ids"`
	Overview      string   `json:"overview"`
	FirstAired    string   `json:"first_aired"`
	Airs          Airs     `json:"airs"`
	Runtime       int      `json:"runtime"`
	Certification string   `json:"certification"`
	Network       string   `json:"network"`
	Country       string   `json:"country"`
	Trailer       string   `json:"trailer"`
	Status        string   `json:"status"`
	Rating        float64  `json:"rating"`
	Votes         int      `json:"votes"`
	Language      string   `json:"language"`
	Genres        []string `json:"genres"`
	AiredEpisodes int      `json:"aired_episodes"`
}

// Airs describes a show's broadcast slot.
type Airs struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

// Movie is a movie summary (extended=full).
type Movie struct {
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	IDs           IDs      `json:"ids"`
	Tagline       string   `json:"tagline"`
	Overview      string   `json:"overview"`
	Released      string   `json:"released"`
	Runtime       int      `json:"runtime"`
	Country       string   `json:"country"`
	Trailer       string   `json:"trailer"`
	Status        string   `json:"status"`
	Rating        float64  `json:"rating"`
	Votes         int      `json:"votes"`
	Language      string   `json:"language"`
	Genres        []string `json:"genres"`
	Certification string   `json:"certification"`
}

// Episode is an episode summary (extended=full).
type Episode struct {
	Season     int     `json:"season"`
	Number     int     `json:"number"`
	Title      string  `json:"title"`
	IDs        IDs     `json:"ids"`
	Overview   string  `json:"overview"`
	Rating     float64 `json:"rating"`
	Votes      int     `json:"votes"`
	FirstAired string  `json:"first_aired"`
	Runtime    int     `json:"runtime"`
}

// Season is a season summary from the seasons listing (extended=full).
type Season struct {
	Number        int     `json:"number"`
	IDs           IDs     `json:"ids"`
	Rating        float64 `json:"rating"`
	Votes         int     `json:"votes"`
	EpisodeCount  int     `json:"episode_count"`
	AiredEpisodes int     `json:"aired_episodes"`
	Title         string  `json:"title"`
	Overview      string  `json:"overview"`
	FirstAired    string  `json:"first_aired"`
	Network       string  `json:"network"`
}

// AuthTokens is an OAuth2 token pair from the token endpoint.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	CreatedAt    int64  `json:"created_at"`
}

// Expiry returns the absolute expiry time of the access token.
func (t *AuthTokens) Expiry() time.Time {
	return time.Unix(t.CreatedAt+t.ExpiresIn, 0)
}

// UserSettings is the authenticated user's profile and account settings.
type UserSettings struct {
	User    User `json:"user"`
	Account struct {
		CoverImage string `json:"cover_image"`
	} `json:"account"`
}

// User is a user as embedded in settings, comments and profiles.
type User struct {
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Gender   string     `json:"gender"`
	IDs      UserIDs    `json:"ids"`
	Images   UserImages `json:"images"`
}

// UserIDs holds a user's slug identifier.
type UserIDs struct {
	Slug string `json:"slug"`
}

// UserImages holds a user's avatar image set.
type UserImages struct {
	Avatar struct {
		Full string `json:"full"`
	} `json:"avatar"`
}

// Comment is a single comment or review on a media item.
type Comment struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"created_at"`
	Comment   string `json:"comment"`
	Spoiler   bool   `json:"spoiler"`
	Review    bool   `json:"review"`
	Replies   int    `json:"replies"`
	Likes     int    `json:"likes"`
	UserStats struct {
		Rating int `json:"rating"`
	} `json:"user_stats"`
	UserRating int    `json:"user_rating"`
	User       User   `json:"user"`
	Avatar     string `json:"avatar"`
}

// Comments is a comment thread with its upstream total (which may exceed
// the number of returned comments).
type Comments struct {
	Total    int       `json:"total"`
	Comments []Comment `json:"comments"`
}

// RatingKind identifies a user rating collection.
type RatingKind string

const (
	RatingKindShow    RatingKind = "show"
	RatingKindSeason  RatingKind = "season"
	RatingKindEpisode RatingKind = "episode"
	RatingKindMovie   RatingKind = "movie"
)

// Path returns the ratings endpoint segment for the kind.
func (k RatingKind) Path() string {
	return string(k) + "s"
}

// Rating is a single user rating entry. Exactly one of Show, Season,
// Episode, Movie is set depending on the collection kind; episode and
// season entries also carry the owning Show.
type Rating struct {
	RatedAt string   `json:"rated_at"`
	Rating  int      `json:"rating"`
	Type    string   `json:"type"`
	Show    *Show    `json:"show,omitempty"`
	Season  *Season  `json:"season,omitempty"`
	Episode *Episode `json:"episode,omitempty"`
	Movie   *Movie   `json:"movie,omitempty"`
}

// RatingSet is a user rating collection plus its change-detection metadata.
// Entries may be shorter than Total after a probe fetch.
type RatingSet struct {
	LastModified string   `json:"last_modified"`
	Total        int      `json:"total"`
	Entries      []Rating `json:"ratings"`
}

// Like is a liked comment reference.
type Like struct {
	LikedAt string `json:"liked_at"`
	Type    string `json:"type"`
	Comment struct {
		ID int `json:"id"`
	} `json:"comment"`
}

// WatchedProgress is the per-show watched state for the authenticated user.
type WatchedProgress struct {
	Aired         int             `json:"aired"`
	Completed     int             `json:"completed"`
	LastWatchedAt string          `json:"last_watched_at"`
	Seasons       []WatchedSeason `json:"seasons,omitempty"`
}

// WatchedSeason is the watched state of one season.
type WatchedSeason struct {
	Number    int              `json:"number"`
	Aired     int              `json:"aired"`
	Completed int              `json:"completed"`
	Episodes  []WatchedEpisode `json:"episodes"`
}

// WatchedEpisode is the watched state of one episode.
type WatchedEpisode struct {
	Number        int    `json:"number"`
	Completed     bool   `json:"completed"`
	LastWatchedAt string `json:"last_watched_at"`
}

// Episode returns the watched entry for the given season/episode numbers,
// or nil when the progress does not cover it.
func (p *WatchedProgress) Episode(season, number int) *WatchedEpisode {
	if p == nil {
		return nil
	}
	for i := range p.Seasons {
		if p.Seasons[i].Number != season {
			continue
		}
		for j := range p.Seasons[i].Episodes {
			if p.Seasons[i].Episodes[j].Number == number {
				return &p.Seasons[i].Episodes[j]
			}
		}
	}
	return nil
}

// WatchedMovie is a watched movie entry from the sync endpoint.
type WatchedMovie struct {
	Plays         int    `json:"plays"`
	LastWatchedAt string `json:"last_watched_at"`
	Movie         Movie  `json:"movie"`
}

// Person is a person entry from ID lookups.
type Person struct {
	Name string `json:"name"`
	IDs  IDs    `json:"ids"`
}

// SearchResult is a single entry from the search/ID-lookup endpoints.
type SearchResult struct {
	Type    string   `json:"type"`
	Score   float64  `json:"score"`
	Show    *Show    `json:"show,omitempty"`
	Movie   *Movie   `json:"movie,omitempty"`
	Episode *Episode `json:"episode,omitempty"`
	Person  *Person  `json:"person,omitempty"`
}
