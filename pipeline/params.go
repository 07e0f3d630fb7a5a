package pipeline

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/tmdb-agent/schema"
)

// DefaultSort orders discover results when the query names no ordering.
const DefaultSort = "popularity.desc"

var validate = validator.New()

// Params is one validated parameter set bound to an intent. Each intent has
// its own variant carrying only the fields that endpoint accepts.
type Params interface {
	schema.Schema
	// Intent returns the intent the parameters serve.
	Intent() Intent
	// Empty reports whether no usable field was extracted.
	Empty() bool
	// Validate checks the extracted fields against the variant's constraints.
	Validate() error
	// Values renders the parameters as endpoint query values.
	Values() url.Values
}

// PersonScoped is implemented by parameter variants that reference people by
// name and accept resolved person IDs in their place.
type PersonScoped interface {
	PersonNames() []string
	SetPersonIDs(ids []int64)
}

// SearchMovieParams are parameters for title based movie search.
type SearchMovieParams struct {
	schema.Base
	// Query movie title or keywords
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The movie title or keywords." validate:"required"`
	// PrimaryReleaseYear release year of the movie if mentioned
	PrimaryReleaseYear int `json:"primary_release_year,omitempty" jsonschema:"title=primary_release_year,description=The release year of the movie if mentioned." validate:"omitempty,gte=1800,lte=2100"`
}

func (p SearchMovieParams) String() string {
	bs, _ := json.Marshal(p)
	return string(bs)
}

func (p SearchMovieParams) Intent() Intent {
	return IntentSearchMovie
}

func (p SearchMovieParams) Empty() bool {
	return p.Query == ""
}

func (p SearchMovieParams) Validate() error {
	return validate.Struct(p)
}

func (p SearchMovieParams) Values() url.Values {
	values := url.Values{}
	if p.Query != "" {
		values.Set("query", p.Query)
	}
	if p.PrimaryReleaseYear > 0 {
		values.Set("primary_release_year", strconv.Itoa(p.PrimaryReleaseYear))
	}
	return values
}

// DiscoverParams are filter parameters for criteria based movie discovery.
// WithPeople carries resolved person IDs and is filled by the entity
// resolver, never by extraction.
type DiscoverParams struct {
	schema.Base
	// PrimaryReleaseYear release year of the movies if mentioned
	PrimaryReleaseYear int `json:"primary_release_year,omitempty" jsonschema:"title=primary_release_year,description=The release year of the movies if mentioned." validate:"omitempty,gte=1800,lte=2100"`
	// WithGenres comma separated genre names, mapped to TMDB genre IDs after extraction
	WithGenres string `json:"with_genres,omitempty" jsonschema:"title=with_genres,description=The genres of the movies if mentioned separated by commas."`
	// WithPeopleNames names of actors or actresses mentioned in the query
	WithPeopleNames []string `json:"with_people_names,omitempty" jsonschema:"title=with_people_names,description=The names of actors or actresses if mentioned." validate:"omitempty,dive,min=1"`
	// SortBy result ordering requested by the query, defaults to popularity
	SortBy string `json:"sort_by,omitempty" jsonschema:"title=sort_by,description=How to order the results if the query asks for one such as popularity.desc or vote_average.desc." validate:"omitempty,oneof=popularity.asc popularity.desc primary_release_date.asc primary_release_date.desc release_date.asc release_date.desc revenue.asc revenue.desc original_title.asc original_title.desc vote_average.asc vote_average.desc vote_count.asc vote_count.desc"`
	// WithPeople comma separated resolved person IDs
	WithPeople string `json:"-"`
}

func (p DiscoverParams) String() string {
	bs, _ := json.Marshal(p)
	return string(bs)
}

func (p DiscoverParams) Intent() Intent {
	return IntentDiscoverMovies
}

// Empty reports whether no retrieval filter was extracted. An ordering
// alone narrows nothing down, so SortBy does not count.
func (p DiscoverParams) Empty() bool {
	return p.PrimaryReleaseYear == 0 && p.WithGenres == "" && len(p.WithPeopleNames) == 0
}

func (p DiscoverParams) Validate() error {
	return validate.Struct(p)
}

func (p DiscoverParams) Values() url.Values {
	values := url.Values{}
	if p.SortBy != "" {
		values.Set("sort_by", p.SortBy)
	} else {
		values.Set("sort_by", DefaultSort)
	}
	if p.PrimaryReleaseYear > 0 {
		values.Set("primary_release_year", strconv.Itoa(p.PrimaryReleaseYear))
	}
	if p.WithGenres != "" {
		values.Set("with_genres", p.WithGenres)
	}
	if p.WithPeople != "" {
		values.Set("with_people", p.WithPeople)
	}
	return values
}

// PersonNames returns the unresolved person names referenced by the query.
func (p DiscoverParams) PersonNames() []string {
	return p.WithPeopleNames
}

// SetPersonIDs substitutes resolved person IDs for the extracted names.
func (p *DiscoverParams) SetPersonIDs(ids []int64) {
	parts := make([]string, len(ids))
	for idx, id := range ids {
		parts[idx] = strconv.FormatInt(id, 10)
	}
	p.WithPeople = strings.Join(parts, ",")
}

// SearchPersonParams are parameters for person search.
type SearchPersonParams struct {
	schema.Base
	// Query the person name or known as name
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The name of the person or known as name." validate:"required"`
}

func (p SearchPersonParams) String() string {
	bs, _ := json.Marshal(p)
	return string(bs)
}

func (p SearchPersonParams) Intent() Intent {
	return IntentSearchPerson
}

func (p SearchPersonParams) Empty() bool {
	return p.Query == ""
}

func (p SearchPersonParams) Validate() error {
	return validate.Struct(p)
}

func (p SearchPersonParams) Values() url.Values {
	values := url.Values{}
	if p.Query != "" {
		values.Set("query", p.Query)
	}
	return values
}

// ListParams are the empty parameters of catalog list intents. The endpoints
// behind them take no query values.
type ListParams struct {
	schema.Base
	intent Intent
}

// NewListParams returns ListParams bound to the given list intent.
func NewListParams(intent Intent) *ListParams {
	return &ListParams{intent: intent}
}

func (p ListParams) String() string {
	return "{}"
}

func (p ListParams) Intent() Intent {
	return p.intent
}

func (p ListParams) Empty() bool {
	return false
}

func (p ListParams) Validate() error {
	return nil
}

func (p ListParams) Values() url.Values {
	return url.Values{}
}
