package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	yearPattern        = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
	quotedTitlePattern = regexp.MustCompile(`"([^"]+)"`)
	personCuePattern   = regexp.MustCompile(`with|starring|featuring`)
	personListPattern  = regexp.MustCompile(`,|\band\b`)
)

// stopWords are filler words stripped before a keyword query is formed.
var stopWords = map[string]struct{}{
	"find": {}, "search": {}, "for": {}, "movies": {}, "movie": {},
	"about": {}, "who": {}, "is": {}, "the": {}, "a": {}, "an": {},
	"in": {}, "on": {}, "at": {}, "of": {}, "and": {}, "with": {},
	"starring": {},
}

// FallbackParams derives parameters for the intent from surface patterns in
// the query text: four digit years, quoted titles, genre mentions and person
// names following a cue word. It never invokes the model and always
// terminates. Fields with no recognizable pattern stay absent.
func FallbackParams(intent Intent, query string) (Params, error) {
	switch intent {
	case IntentSearchMovie:
		params := &SearchMovieParams{
			Query:              quotedTitle(query),
			PrimaryReleaseYear: scanYear(query),
		}
		if params.Query == "" {
			params.Query = keywordQuery(query)
		}
		if params.Empty() {
			return nil, noParams(intent, query)
		}
		return params, nil
	case IntentDiscoverMovies:
		params := &DiscoverParams{
			PrimaryReleaseYear: scanYear(query),
			WithGenres:         ScanGenres(query),
			WithPeopleNames:    scanPersonNames(query),
		}
		if params.Empty() {
			return nil, noParams(intent, query)
		}
		return params, nil
	case IntentSearchPerson:
		params := &SearchPersonParams{Query: keywordQuery(query)}
		if params.Empty() {
			return nil, noParams(intent, query)
		}
		return params, nil
	case IntentMovieCertifications, IntentGenreList:
		return NewListParams(intent), nil
	}
	return nil, NewStageError(StageExtractor, UnrecognizedIntent, fmt.Errorf("no extractor for intent %q", intent))
}

func noParams(intent Intent, query string) *StageError {
	return NewStageError(StageExtractor, NoExtractableParameters, fmt.Errorf("no %s parameters recognizable in %q", intent, query))
}

// scanYear returns the first four digit year in the text, or zero.
func scanYear(query string) int {
	match := yearPattern.FindString(query)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

// quotedTitle returns the first double quoted phrase in the text.
func quotedTitle(query string) string {
	match := quotedTitlePattern.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// scanPersonNames extracts person names following a cue word such as
// "with" or "starring". Each name keeps at most two words and is title
// cased. Input order is preserved.
func scanPersonNames(query string) []string {
	lower := strings.ToLower(query)
	if !personCuePattern.MatchString(lower) {
		return nil
	}
	parts := personCuePattern.Split(lower, 2)
	if len(parts) < 2 {
		return nil
	}
	caser := cases.Title(language.English)
	var names []string
	for _, segment := range personListPattern.Split(parts[1], -1) {
		words := strings.Fields(strings.TrimSpace(segment))
		if len(words) == 0 {
			continue
		}
		if len(words) > 2 {
			words = words[:2]
		}
		names = append(names, caser.String(strings.Join(words, " ")))
	}
	return names
}

// keywordQuery strips stop words from the text and keeps the first three
// remaining words as a search query.
func keywordQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	keep := make([]string, 0, 3)
	for _, word := range words {
		if _, stop := stopWords[word]; stop {
			continue
		}
		keep = append(keep, word)
		if len(keep) == 3 {
			break
		}
	}
	return strings.Join(keep, " ")
}
