package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func moviePagePayload(count int) json.RawMessage {
	results := make([]map[string]any, 0, count)
	for i := 1; i <= count; i++ {
		results = append(results, map[string]any{
			"id":           i,
			"title":        fmt.Sprintf("Movie %d", i),
			"release_date": "2004-06-18",
			"overview":     "A man stranded at an airport.",
			"vote_average": 7.1,
			"vote_count":   1000,
			"popularity":   12.3456,
			"poster_path":  "/poster.jpg",
		})
	}
	bs, _ := json.Marshal(map[string]any{"page": 1, "results": results})
	return bs
}

func TestNormalizeMovies(t *testing.T) {
	n := NewNormalizer()
	records, err := n.Normalize(IntentSearchMovie, moviePagePayload(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.ID != "1" {
		t.Errorf("id: expected %q, got %q", "1", first.ID)
	}
	if first.Date != "2004-06-18" {
		t.Errorf("date: expected %q, got %q", "2004-06-18", first.Date)
	}
	if first.Popularity != 12.35 {
		t.Errorf("popularity: expected 12.35, got %v", first.Popularity)
	}
	if !strings.HasPrefix(first.Poster, "https://image.tmdb.org/t/p/w500") {
		t.Errorf("poster not expanded: %q", first.Poster)
	}
}

func TestNormalizeMoviesCap(t *testing.T) {
	n := NewNormalizer()
	records, err := n.Normalize(IntentDiscoverMovies, moviePagePayload(9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected record cap of 5, got %d", len(records))
	}
}

func TestNormalizeMoviesMissingIdentifier(t *testing.T) {
	n := NewNormalizer()
	payload := json.RawMessage(`{"page":1,"results":[{"title":"No ID"}]}`)
	_, err := n.Normalize(IntentSearchMovie, payload)
	if !IsKind(err, MalformedUpstreamPayload) {
		t.Fatalf("expected MalformedUpstreamPayload, got %v", err)
	}
}

func TestNormalizeMoviesNoResultsField(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize(IntentSearchMovie, json.RawMessage(`{"page":1}`))
	if !IsKind(err, MalformedUpstreamPayload) {
		t.Fatalf("expected MalformedUpstreamPayload, got %v", err)
	}
}

// An empty result set is a valid outcome, not a malformed payload.
func TestNormalizeMoviesEmptyResults(t *testing.T) {
	n := NewNormalizer()
	records, err := n.Normalize(IntentSearchMovie, json.RawMessage(`{"page":1,"results":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected zero records, got %d", len(records))
	}
}

// Partial records with optional fields missing are retained, not dropped.
func TestNormalizeMoviesPartialRecord(t *testing.T) {
	n := NewNormalizer()
	payload := json.RawMessage(`{"page":1,"results":[{"id":77,"title":"Bare"}]}`)
	records, err := n.Normalize(IntentSearchMovie, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "77" || records[0].Title != "Bare" {
		t.Fatalf("partial record not retained: %+v", records)
	}
}

func TestNormalizePersons(t *testing.T) {
	n := NewNormalizer()
	payload := json.RawMessage(`{
		"page": 1,
		"results": [
			{"id": 31, "name": "Tom Hanks", "known_for_department": "Acting", "popularity": 84.518,
			 "known_for": [
				{"id": 1, "title": "Forrest Gump"},
				{"id": 2, "title": "Cast Away"},
				{"id": 3, "name": "Band of Brothers"},
				{"id": 4, "title": "The Terminal"}
			 ]},
			{"id": 2, "name": "Tom Hanks Jr"},
			{"id": 3, "name": "Another Tom"},
			{"id": 4, "name": "One Too Many"}
		]
	}`)
	records, err := n.Normalize(IntentSearchPerson, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected person cap of 3, got %d", len(records))
	}
	first := records[0]
	if first.Title != "Tom Hanks" || first.Department != "Acting" {
		t.Errorf("unexpected first record: %+v", first)
	}
	want := []string{"Forrest Gump", "Cast Away", "Band of Brothers"}
	if len(first.KnownFor) != len(want) {
		t.Fatalf("known_for: expected %v, got %v", want, first.KnownFor)
	}
	for i, title := range want {
		if first.KnownFor[i] != title {
			t.Errorf("known_for[%d]: expected %q, got %q", i, title, first.KnownFor[i])
		}
	}
}

func TestNormalizeGenres(t *testing.T) {
	n := NewNormalizer()
	payload := json.RawMessage(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`)
	records, err := n.Normalize(IntentGenreList, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0].ID != "28" || records[0].Title != "Action" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestNormalizeCertifications(t *testing.T) {
	n := NewNormalizer()
	payload := json.RawMessage(`{"certifications":{
		"US": [{"certification":"R","order":4},{"certification":"G","order":1}],
		"DE": [{"certification":"FSK 18","order":5}]
	}}`)
	records, err := n.Normalize(IntentMovieCertifications, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 country records, got %d", len(records))
	}
	// countries sort alphabetically, certifications by their order field
	if records[0].ID != "DE" || records[1].ID != "US" {
		t.Errorf("unexpected country order: %q, %q", records[0].ID, records[1].ID)
	}
	if records[1].Overview != "G, R" {
		t.Errorf("expected certifications ordered by rank, got %q", records[1].Overview)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()
	payload := moviePagePayload(3)
	first, err := n.Normalize(IntentSearchMovie, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := n.Normalize(IntentSearchMovie, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstBytes, _ := json.Marshal(first)
	secondBytes, _ := json.Marshal(second)
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Error("normalization is not idempotent")
	}
}

func TestTruncateGraphemes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"exact limit untouched", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 5, "hello..."},
		{"empty", "", 5, ""},
		{"multi codepoint graphemes", "héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateGraphemes(tt.text, tt.limit); got != tt.want {
				t.Errorf("truncateGraphemes(%q, %d) = %q, expected %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}
