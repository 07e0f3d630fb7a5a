package pipeline

import (
	"strconv"
	"strings"
)

// genreNames lists the official TMDB movie genre names in scan order. The
// fallback extractor walks this slice so repeated runs over the same query
// always produce the same genre sequence.
var genreNames = []string{
	"action", "adventure", "animation",
	"comedy", "crime", "documentary",
	"drama", "family", "fantasy",
	"history", "horror", "music",
	"mystery", "romance", "science fiction",
	"tv movie", "thriller", "war",
	"western",
}

// genreIDs maps official TMDB movie genre names to their numeric IDs.
var genreIDs = map[string]int64{
	"action": 28, "adventure": 12, "animation": 16,
	"comedy": 35, "crime": 80, "documentary": 99,
	"drama": 18, "family": 10751, "fantasy": 14,
	"history": 36, "horror": 27, "music": 10402,
	"mystery": 9648, "romance": 10749, "science fiction": 878,
	"tv movie": 10770, "thriller": 53, "war": 10752,
	"western": 37,
}

// GenreID returns the TMDB genre ID for a name, case insensitive.
func GenreID(name string) (int64, bool) {
	id, ok := genreIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// MapGenres converts a comma separated list of genre names into a comma
// separated list of TMDB genre IDs. Names with no official mapping are
// dropped.
func MapGenres(names string) string {
	if names == "" {
		return ""
	}
	var ids []string
	for _, name := range strings.Split(names, ",") {
		if id, ok := GenreID(name); ok {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(ids, ",")
}

// ScanGenres collects the IDs of every genre name mentioned in the text,
// in scan order.
func ScanGenres(text string) string {
	lower := strings.ToLower(text)
	var ids []string
	for _, name := range genreNames {
		if strings.Contains(lower, name) {
			ids = append(ids, strconv.FormatInt(genreIDs[name], 10))
		}
	}
	return strings.Join(ids, ",")
}
