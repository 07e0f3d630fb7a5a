package pipeline

import (
	"encoding/json"
	"testing"
)

func TestSearchMovieParamsValues(t *testing.T) {
	params := SearchMovieParams{Query: "The Terminal", PrimaryReleaseYear: 2004}
	values := params.Values()
	if got := values.Get("query"); got != "The Terminal" {
		t.Errorf("query: expected %q, got %q", "The Terminal", got)
	}
	if got := values.Get("primary_release_year"); got != "2004" {
		t.Errorf("primary_release_year: expected %q, got %q", "2004", got)
	}
}

func TestSearchMovieParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  SearchMovieParams
		wantErr bool
	}{
		{"valid", SearchMovieParams{Query: "Cast Away"}, false},
		{"missing query", SearchMovieParams{PrimaryReleaseYear: 2000}, true},
		{"implausible year", SearchMovieParams{Query: "Cast Away", PrimaryReleaseYear: 3000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverParamsValues(t *testing.T) {
	params := DiscoverParams{
		PrimaryReleaseYear: 2004,
		WithGenres:         "35,18",
		WithPeopleNames:    []string{"Tom Hanks"},
	}
	params.SetPersonIDs([]int64{31, 5344})
	values := params.Values()
	if got := values.Get("sort_by"); got != DefaultSort {
		t.Errorf("sort_by: expected %q, got %q", DefaultSort, got)
	}
	if got := values.Get("with_people"); got != "31,5344" {
		t.Errorf("with_people: expected %q, got %q", "31,5344", got)
	}
	if got := values.Get("with_genres"); got != "35,18" {
		t.Errorf("with_genres: expected %q, got %q", "35,18", got)
	}
	// names never reach the endpoint, only resolved ids do
	if got := values.Get("with_people_names"); got != "" {
		t.Errorf("with_people_names must not be rendered, got %q", got)
	}
}

// A requested ordering extracted by the model tier reaches the endpoint.
func TestDiscoverParamsSortByFromModelOutput(t *testing.T) {
	var params DiscoverParams
	if err := json.Unmarshal([]byte(`{"primary_release_year":2004,"sort_by":"vote_average.desc"}`), &params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.SortBy != "vote_average.desc" {
		t.Fatalf("sort_by not extracted: %+v", params)
	}
	if got := params.Values().Get("sort_by"); got != "vote_average.desc" {
		t.Errorf("sort_by: expected %q, got %q", "vote_average.desc", got)
	}
}

// A requested ordering reaches the endpoint; the popularity default only
// applies when the query asked for none.
func TestDiscoverParamsSortBy(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"requested ordering kept", "vote_average.desc", "vote_average.desc"},
		{"default when absent", "", DefaultSort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DiscoverParams{PrimaryReleaseYear: 2004, SortBy: tt.sortBy}
			if got := params.Values().Get("sort_by"); got != tt.want {
				t.Errorf("sort_by: expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDiscoverParamsSortByValidation(t *testing.T) {
	valid := DiscoverParams{PrimaryReleaseYear: 2004, SortBy: "vote_average.desc"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	invalid := DiscoverParams{PrimaryReleaseYear: 2004, SortBy: "rating.best"}
	if err := invalid.Validate(); err == nil {
		t.Error("expected validation error for unknown sort order")
	}
	// an ordering alone is not a retrieval filter
	if only := (DiscoverParams{SortBy: "vote_average.desc"}); !only.Empty() {
		t.Error("SortBy alone must not satisfy extraction")
	}
}

func TestDiscoverParamsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		params DiscoverParams
		want   bool
	}{
		{"no fields", DiscoverParams{}, true},
		{"year only", DiscoverParams{PrimaryReleaseYear: 2004}, false},
		{"genres only", DiscoverParams{WithGenres: "35"}, false},
		{"people only", DiscoverParams{WithPeopleNames: []string{"Tom Hanks"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestListParamsBinding(t *testing.T) {
	params := NewListParams(IntentGenreList)
	if params.Intent() != IntentGenreList {
		t.Errorf("expected intent %s, got %s", IntentGenreList, params.Intent())
	}
	if params.Empty() {
		t.Error("list params are never empty, the endpoints take no values")
	}
	if err := params.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestIntentEndpoints(t *testing.T) {
	for _, intent := range Intents() {
		if !intent.Valid() {
			t.Errorf("%s not valid", intent)
		}
		if intent.Endpoint() == "" {
			t.Errorf("%s has no endpoint", intent)
		}
	}
	if Intent("watch_tv").Valid() {
		t.Error("unknown intent reported valid")
	}
}
