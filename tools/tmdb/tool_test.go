package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func startTMDBServer(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		payload, ok := payloads[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCallSearchMovie(t *testing.T) {
	srv := startTMDBServer(t, map[string]string{
		"/search/movie": `{"page":1,"results":[{"id":594,"title":"The Terminal"}],"total_pages":1,"total_results":1}`,
	})
	clt := New("test-token", WithBaseURL(srv.URL))
	params := url.Values{}
	params.Set("query", "The Terminal")
	payload, err := clt.Call(context.Background(), SearchMovieEndpoint, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("empty payload")
	}
}

func TestRun(t *testing.T) {
	srv := startTMDBServer(t, map[string]string{
		"/search/movie": `{"page":1,"results":[{"id":594,"title":"The Terminal"}]}`,
	})
	clt := New("test-token", WithBaseURL(srv.URL))
	input := &Request{Endpoint: SearchMovieEndpoint, Query: "query=The+Terminal"}
	output, err := clt.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Payload) == 0 {
		t.Fatal("empty payload")
	}
	if _, err := clt.Run(context.Background(), &Request{Endpoint: SearchMovieEndpoint, Query: "%zz"}); err == nil {
		t.Error("expected error for malformed query values")
	}
}

func TestCallUnknownEndpoint(t *testing.T) {
	srv := startTMDBServer(t, map[string]string{"/movie/upcoming": `{}`})
	clt := New("test-token", WithBaseURL(srv.URL))
	if _, err := clt.Call(context.Background(), Endpoint("/movie/upcoming"), url.Values{}); err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
}

func TestCallStatusError(t *testing.T) {
	srv := startTMDBServer(t, nil)
	clt := New("test-token", WithBaseURL(srv.URL))
	_, err := clt.Call(context.Background(), SearchMovieEndpoint, url.Values{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.StatusCode)
	}
}

func TestCallSchemaGate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "valid page",
			payload: `{"page":1,"results":[{"id":1,"title":"A"}]}`,
		},
		{
			name:    "results missing",
			payload: `{"page":1}`,
			wantErr: true,
		},
		{
			name:    "result without id",
			payload: `{"page":1,"results":[{"title":"A"}]}`,
			wantErr: true,
		},
		{
			name:    "id of wrong type",
			payload: `{"page":1,"results":[{"id":"594","title":"A"}]}`,
			wantErr: true,
		},
		{
			name:    "empty results",
			payload: `{"page":1,"results":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startTMDBServer(t, map[string]string{"/search/movie": tt.payload})
			clt := New("test-token", WithBaseURL(srv.URL))
			_, err := clt.Call(context.Background(), SearchMovieEndpoint, url.Values{})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var payloadErr *PayloadError
			if !errors.As(err, &payloadErr) {
				t.Fatalf("expected *PayloadError, got %v", err)
			}
		})
	}
}

func TestSearchPerson(t *testing.T) {
	srv := startTMDBServer(t, map[string]string{
		"/search/person": `{"page":1,"results":[
			{"id":31,"name":"Tom Hanks","known_for_department":"Acting","popularity":84.5,
			 "known_for":[{"id":13,"title":"Forrest Gump"}]},
			{"id":2,"name":"Tom Hanks Jr"}
		]}`,
	})
	clt := New("test-token", WithBaseURL(srv.URL))
	people, err := clt.SearchPerson(context.Background(), "Tom Hanks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	top := people[0]
	if top.ID != 31 || top.Name != "Tom Hanks" {
		t.Errorf("unexpected top candidate: %+v", top)
	}
	if len(top.KnownFor) != 1 || top.KnownFor[0].Label() != "Forrest Gump" {
		t.Errorf("unexpected known_for: %+v", top.KnownFor)
	}
}

func TestValidatePayloadCertifications(t *testing.T) {
	valid := []byte(`{"certifications":{"US":[{"certification":"R","order":4}]}}`)
	if err := ValidatePayload(MovieCertificationsEndpoint, valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	invalid := []byte(`{"ratings":{}}`)
	if err := ValidatePayload(MovieCertificationsEndpoint, invalid); err == nil {
		t.Error("expected error for missing certifications field")
	}
}
