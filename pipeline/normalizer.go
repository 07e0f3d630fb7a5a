package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/clipperhouse/uax29/graphemes"

	"github.com/bububa/tmdb-agent/tools/tmdb"
)

const (
	// maxMovieRecords bounds movie result sets handed to answer synthesis
	maxMovieRecords = 5
	// maxPersonRecords bounds person result sets handed to answer synthesis
	maxPersonRecords = 3
	// maxKnownFor bounds the credits kept per person
	maxKnownFor = 3
	// overviewLimit is the synopsis length in graphemes
	overviewLimit = 200
)

// Record is one normalized result row. Only fields relevant to answer
// synthesis survive normalization, whatever shape the payload had.
type Record struct {
	// ID record identifier, unique within one result set
	ID string `json:"id"`
	// Title display title of the item
	Title string `json:"title"`
	// Date release date in YYYY-MM-DD form, may be empty
	Date string `json:"date,omitempty"`
	// Overview shortened synopsis or summary
	Overview string `json:"overview,omitempty"`
	// Department the crew department a person is known for
	Department string `json:"department,omitempty"`
	// KnownFor titles a person is known for
	KnownFor []string `json:"known_for,omitempty"`
	// Score average rating from 0 to 10
	Score float64 `json:"score,omitempty"`
	// Votes number of ratings behind the score
	Votes int64 `json:"votes,omitempty"`
	// Popularity popularity score rounded to two decimals
	Popularity float64 `json:"popularity,omitempty"`
	// Poster absolute poster image URL
	Poster string `json:"poster,omitempty"`
}

// Normalizer maps raw endpoint payloads into compact uniform records. It is
// a pure transform: the same payload always yields the same record sequence.
// Items without an identifier cannot become records and are skipped; a
// payload whose items all lack identifiers fails as malformed.
type Normalizer struct{}

// NewNormalizer returns a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize builds the record sequence for an intent's payload. An empty
// result set is a valid outcome and yields zero records without error.
func (n *Normalizer) Normalize(intent Intent, payload json.RawMessage) ([]Record, error) {
	switch intent {
	case IntentSearchMovie, IntentDiscoverMovies:
		return n.normalizeMovies(payload)
	case IntentSearchPerson:
		return n.normalizePersons(payload)
	case IntentGenreList:
		return n.normalizeGenres(payload)
	case IntentMovieCertifications:
		return n.normalizeCertifications(payload)
	}
	return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, fmt.Errorf("no normalizer for intent %q", intent))
}

func (n *Normalizer) normalizeMovies(payload json.RawMessage) ([]Record, error) {
	items, err := resultItems(payload)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, min(len(items), maxMovieRecords))
	for _, item := range items {
		var movie tmdb.Movie
		if err := json.Unmarshal(item, &movie); err != nil || movie.ID == 0 {
			continue
		}
		records = append(records, movieRecord(movie))
		if len(records) == maxMovieRecords {
			break
		}
	}
	if len(items) > 0 && len(records) == 0 {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("no result carries an identifier"))
	}
	return records, nil
}

func (n *Normalizer) normalizePersons(payload json.RawMessage) ([]Record, error) {
	items, err := resultItems(payload)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, min(len(items), maxPersonRecords))
	for _, item := range items {
		var person tmdb.Person
		if err := json.Unmarshal(item, &person); err != nil || person.ID == 0 {
			continue
		}
		records = append(records, personRecord(person))
		if len(records) == maxPersonRecords {
			break
		}
	}
	if len(items) > 0 && len(records) == 0 {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("no result carries an identifier"))
	}
	return records, nil
}

func (n *Normalizer) normalizeGenres(payload json.RawMessage) ([]Record, error) {
	var probe struct {
		Genres *[]tmdb.Genre `json:"genres"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, err)
	}
	if probe.Genres == nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("payload carries no genres field"))
	}
	genres := *probe.Genres
	records := make([]Record, 0, len(genres))
	for _, genre := range genres {
		if genre.ID == 0 {
			continue
		}
		records = append(records, Record{
			ID:    strconv.FormatInt(genre.ID, 10),
			Title: genre.Name,
		})
	}
	if len(genres) > 0 && len(records) == 0 {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("no genre carries an identifier"))
	}
	return records, nil
}

func (n *Normalizer) normalizeCertifications(payload json.RawMessage) ([]Record, error) {
	var probe struct {
		Certifications *map[string][]tmdb.Certification `json:"certifications"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, err)
	}
	if probe.Certifications == nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("payload carries no certifications field"))
	}
	groups := *probe.Certifications
	countries := make([]string, 0, len(groups))
	for country := range groups {
		if country == "" {
			continue
		}
		countries = append(countries, country)
	}
	slices.Sort(countries)
	records := make([]Record, 0, len(countries))
	for _, country := range countries {
		records = append(records, certificationRecord(country, groups[country]))
	}
	if len(groups) > 0 && len(records) == 0 {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("no certification group carries a country code"))
	}
	return records, nil
}

// resultItems pulls the raw entries of a paged results payload.
func resultItems(payload json.RawMessage) ([]json.RawMessage, error) {
	var probe struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, err)
	}
	if probe.Results == nil {
		return nil, NewStageError(StageNormalizer, MalformedUpstreamPayload, errors.New("payload carries no results field"))
	}
	return *probe.Results, nil
}

func movieRecord(movie tmdb.Movie) Record {
	record := Record{
		ID:         strconv.FormatInt(movie.ID, 10),
		Title:      movie.Title,
		Date:       movie.ReleaseDate,
		Overview:   truncateGraphemes(movie.Overview, overviewLimit),
		Score:      movie.VoteAverage,
		Votes:      movie.VoteCount,
		Popularity: round2(movie.Popularity),
	}
	if movie.PosterPath != "" {
		record.Poster = tmdb.ImageBaseURL + movie.PosterPath
	}
	return record
}

func personRecord(person tmdb.Person) Record {
	record := Record{
		ID:         strconv.FormatInt(person.ID, 10),
		Title:      person.Name,
		Department: person.KnownForDepartment,
		Popularity: round2(person.Popularity),
	}
	for _, credit := range person.KnownFor {
		label := credit.Label()
		if label == "" {
			continue
		}
		record.KnownFor = append(record.KnownFor, label)
		if len(record.KnownFor) == maxKnownFor {
			break
		}
	}
	return record
}

func certificationRecord(country string, certs []tmdb.Certification) Record {
	sorted := slices.Clone(certs)
	slices.SortStableFunc(sorted, func(a, b tmdb.Certification) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Certification, b.Certification)
	})
	labels := make([]string, 0, len(sorted))
	for _, cert := range sorted {
		if cert.Certification == "" {
			continue
		}
		labels = append(labels, cert.Certification)
	}
	return Record{
		ID:       country,
		Title:    country,
		Overview: strings.Join(labels, ", "),
	}
}

// truncateGraphemes shortens text to at most limit graphemes, appending an
// ellipsis when something was cut. Cutting on grapheme boundaries keeps
// multi codepoint characters intact.
func truncateGraphemes(text string, limit int) string {
	if text == "" {
		return ""
	}
	scanner := graphemes.NewScanner(strings.NewReader(text))
	var (
		buf       strings.Builder
		count     int
		truncated bool
	)
	for scanner.Scan() {
		if count == limit {
			truncated = true
			break
		}
		buf.Write(scanner.Bytes())
		count++
	}
	if !truncated {
		return text
	}
	return buf.String() + "..."
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
