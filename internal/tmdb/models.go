package tmdb

// Genre is a genre tag on a show or movie.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a hosted clip attached to a show or movie.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList wraps the appended videos sub-response.
type VideoList struct {
	Results []Video `json:"results"`
}

// ShowDetails is the extended show record, with videos appended.
type ShowDetails struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	FirstAirDate     string  `json:"first_air_date"`
	LastAirDate      string  `json:"last_air_date"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Status           string  `json:"status"`
	Tagline          string  `json:"tagline"`
	VoteAverage      float64 `json:"vote_average"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Genres           []Genre   `json:"genres"`
	Videos           VideoList `json:"videos"`
}

// MovieDetails is the extended movie record, with videos appended.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Status       string  `json:"status"`
	Tagline      string  `json:"tagline"`
	Budget       int64   `json:"budget"`
	Revenue      int64   `json:"revenue"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Genres       []Genre        `json:"genres"`
	Videos       VideoList      `json:"videos"`
	Collection   *CollectionRef `json:"belongs_to_collection"`
}

// CollectionRef is the collection membership stub on a movie record.
type CollectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// EpisodeDetails is the extended episode record.
type EpisodeDetails struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	Runtime       int     `json:"runtime"`
	VoteAverage   float64 `json:"vote_average"`
	StillPath     string  `json:"still_path"`
}

// SeasonDetails is the extended season record with its episode list.
type SeasonDetails struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Overview     string           `json:"overview"`
	AirDate      string           `json:"air_date"`
	SeasonNumber int              `json:"season_number"`
	PosterPath   string           `json:"poster_path"`
	Episodes     []EpisodeDetails `json:"episodes"`
}

// Image is one artwork entry from the images endpoints.
type Image struct {
	FilePath    string  `json:"file_path"`
	Height      int     `json:"height"`
	Width       int     `json:"width"`
	VoteAverage float64 `json:"vote_average"`
	Language    string  `json:"iso_639_1"`
}

type imageList struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
	Stills    []Image `json:"stills"`
}

// CastMember is one billed cast entry.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type creditsResponse struct {
	Cast []CastMember `json:"cast"`
}

// CollectionPart is one film in a collection.
type CollectionPart struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// Collection is a film series.
type Collection struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Overview string           `json:"overview"`
	Parts    []CollectionPart `json:"parts"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

// SearchResult is one entry from multi search. MediaType is "tv",
// "movie" or "person"; Name carries tv and person titles, Title movie
// titles.
type SearchResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ProfilePath  string  `json:"profile_path"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

type pagedResults struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

type personImages struct {
	Profiles []Image `json:"profiles"`
}
