package pipeline

import "github.com/bububa/tmdb-agent/tools/tmdb"

// Intent is the data retrieval capability a user query maps to. RouterAgent
// produces it, everything downstream is keyed by it.
type Intent string

const (
	// IntentSearchMovie search movies by title
	IntentSearchMovie Intent = "search_movie"
	// IntentDiscoverMovies discover movies with filters such as genre, year or people
	IntentDiscoverMovies Intent = "discover_movies"
	// IntentSearchPerson find a person by name
	IntentSearchPerson Intent = "search_person"
	// IntentMovieCertifications list the officially supported movie certifications
	IntentMovieCertifications Intent = "movie_certifications"
	// IntentGenreList list the official movie genres
	IntentGenreList Intent = "genre_list"
)

// Intents returns every routable intent.
func Intents() []Intent {
	return []Intent{
		IntentSearchMovie,
		IntentDiscoverMovies,
		IntentSearchPerson,
		IntentMovieCertifications,
		IntentGenreList,
	}
}

// Valid reports whether the intent is a member of the routable set.
func (i Intent) Valid() bool {
	switch i {
	case IntentSearchMovie, IntentDiscoverMovies, IntentSearchPerson, IntentMovieCertifications, IntentGenreList:
		return true
	}
	return false
}

// Endpoint returns the TMDB endpoint serving the intent.
func (i Intent) Endpoint() tmdb.Endpoint {
	switch i {
	case IntentSearchMovie:
		return tmdb.SearchMovieEndpoint
	case IntentDiscoverMovies:
		return tmdb.DiscoverMoviesEndpoint
	case IntentSearchPerson:
		return tmdb.SearchPersonEndpoint
	case IntentMovieCertifications:
		return tmdb.MovieCertificationsEndpoint
	case IntentGenreList:
		return tmdb.GenreListEndpoint
	}
	return ""
}

// NeedsExtraction reports whether the intent accepts query parameters.
// Catalog list intents are parameterless.
func (i Intent) NeedsExtraction() bool {
	switch i {
	case IntentMovieCertifications, IntentGenreList:
		return false
	}
	return true
}
