package tmdb

import "encoding/json"

// Movie is a movie entry as returned by the search and discover endpoints.
type Movie struct {
	// ID tmdb movie ID
	ID int64 `json:"id"`
	// Title movie title
	Title string `json:"title"`
	// OriginalTitle title in the original language
	OriginalTitle string `json:"original_title,omitempty"`
	// ReleaseDate release date in YYYY-MM-DD format, may be empty
	ReleaseDate string `json:"release_date,omitempty"`
	// Overview plot synopsis
	Overview string `json:"overview,omitempty"`
	// VoteAverage average rating from 0 to 10
	VoteAverage float64 `json:"vote_average,omitempty"`
	// VoteCount number of ratings
	VoteCount int64 `json:"vote_count,omitempty"`
	// Popularity tmdb popularity score
	Popularity float64 `json:"popularity,omitempty"`
	// PosterPath poster image path fragment, may be empty
	PosterPath string `json:"poster_path,omitempty"`
	// GenreIDs genre IDs attached to the movie
	GenreIDs []int64 `json:"genre_ids,omitempty"`
}

// MoviePage is a paged movie list response.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// KnownFor is a credit entry on a person result. Movie credits carry Title,
// tv credits carry Name.
type KnownFor struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type,omitempty"`
	Title     string `json:"title,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Label returns the display title of the credit regardless of media type.
func (k KnownFor) Label() string {
	if k.Title != "" {
		return k.Title
	}
	return k.Name
}

// Person is a person entry as returned by the person search endpoint.
type Person struct {
	// ID tmdb person ID
	ID int64 `json:"id"`
	// Name person name
	Name string `json:"name"`
	// KnownForDepartment crew department the person is known for
	KnownForDepartment string `json:"known_for_department,omitempty"`
	// Popularity tmdb popularity score
	Popularity float64 `json:"popularity,omitempty"`
	// KnownFor credits the person is known for
	KnownFor []KnownFor `json:"known_for,omitempty"`
}

// PersonPage is a paged person list response.
type PersonPage struct {
	Page         int      `json:"page"`
	Results      []Person `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is an official movie genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreList is the response of the genre list endpoint.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Certification is one certification rating within a country list.
type Certification struct {
	Certification string `json:"certification"`
	Meaning       string `json:"meaning,omitempty"`
	Order         int    `json:"order,omitempty"`
}

// CertificationList is the response of the movie certification endpoint,
// keyed by country code.
type CertificationList struct {
	Certifications map[string][]Certification `json:"certifications"`
}

// Request describes one API call: the endpoint and its url encoded query
// values. It doubles as the typed tool input and the hook observer payload.
type Request struct {
	Endpoint Endpoint `json:"endpoint"`
	Query    string   `json:"query,omitempty"`
}

func (r Request) String() string {
	bs, _ := json.Marshal(r)
	return string(bs)
}

// Output is the typed tool output: the raw payload after it passed the
// endpoint's structural gate.
type Output struct {
	Payload json.RawMessage `json:"payload"`
}

func (o Output) String() string {
	return string(o.Payload)
}
