// Package tmdb implements a client tool for the TMDB v3 movie metadata API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bububa/tmdb-agent/tools"
)

// Endpoint is a TMDB v3 API path.
type Endpoint string

const (
	SearchMovieEndpoint         Endpoint = "/search/movie"
	DiscoverMoviesEndpoint      Endpoint = "/discover/movie"
	SearchPersonEndpoint        Endpoint = "/search/person"
	MovieCertificationsEndpoint Endpoint = "/certification/movie/list"
	GenreListEndpoint           Endpoint = "/genre/movie/list"
)

// Valid reports whether the endpoint is a member of the supported set.
func (e Endpoint) Valid() bool {
	switch e {
	case SearchMovieEndpoint, DiscoverMoviesEndpoint, SearchPersonEndpoint, MovieCertificationsEndpoint, GenreListEndpoint:
		return true
	}
	return false
}

const (
	// BaseURL is the TMDB v3 API root.
	BaseURL = "https://api.themoviedb.org/3"
	// ImageBaseURL prefixes poster path fragments for w500 renditions.
	ImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// StatusError reports a non-200 response from the API.
type StatusError struct {
	Endpoint   Endpoint
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned status %d", e.Endpoint, e.StatusCode)
}

type Config struct {
	tools.Config
	token      string
	baseURL    string
	httpClient *http.Client
}

// Client fetches movie, person, genre and certification data from TMDB.
// Every payload passes a structural gate before it is handed to callers.
type Client struct {
	Config
}

var _ tools.Tool[Request, Output] = (*Client)(nil)

// New returns a Client authenticating with the given API read access token.
func New(token string, opts ...Option) *Client {
	ret := new(Client)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	ret.token = token
	if ret.Title() == "" {
		ret.SetTitle("TMDBClient")
	}
	if ret.Description() == "" {
		ret.SetDescription("Fetches movie, person, genre and certification data from the TMDB API.")
	}
	if ret.baseURL == "" {
		ret.baseURL = BaseURL
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Call performs a GET request against the endpoint and returns the raw
// payload once it passed the endpoint's structural gate.
func (t *Client) Call(ctx context.Context, endpoint Endpoint, params url.Values) (json.RawMessage, error) {
	req := Request{Endpoint: endpoint, Query: params.Encode()}
	t.Start(ctx, t, req)
	payload, err := t.fetch(ctx, endpoint, params)
	if err != nil {
		t.Error(ctx, t, req, err)
		return nil, err
	}
	t.End(ctx, t, req, payload)
	return payload, nil
}

func (t *Client) fetch(ctx context.Context, endpoint Endpoint, params url.Values) (json.RawMessage, error) {
	if !endpoint.Valid() {
		return nil, fmt.Errorf("unsupported tmdb endpoint %q", endpoint)
	}
	requestURL := t.baseURL + string(endpoint)
	if query := params.Encode(); query != "" {
		requestURL += "?" + query
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.token)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying tmdb: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: httpResp.StatusCode}
	}
	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading tmdb response: %w", err)
	}
	if err := ValidatePayload(endpoint, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Run implements the typed tool contract over Call.
func (t *Client) Run(ctx context.Context, input *Request) (*Output, error) {
	params, err := url.ParseQuery(input.Query)
	if err != nil {
		return nil, fmt.Errorf("invalid query values: %w", err)
	}
	payload, err := t.Call(ctx, input.Endpoint, params)
	if err != nil {
		return nil, err
	}
	return &Output{Payload: payload}, nil
}

// SearchPerson looks up people by name and returns the matching entries
// ordered as TMDB returned them.
func (t *Client) SearchPerson(ctx context.Context, name string) ([]Person, error) {
	values := url.Values{}
	values.Set("query", name)
	payload, err := t.Call(ctx, SearchPersonEndpoint, values)
	if err != nil {
		return nil, err
	}
	var page PersonPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, &PayloadError{Endpoint: SearchPersonEndpoint, Reasons: []string{err.Error()}}
	}
	return page.Results, nil
}
