package pipeline

import (
	"context"
	"testing"
)

// List intents are parameterless: extraction satisfies them without touching
// either tier. The extractor carries no client here, so a model invocation
// could not succeed.
func TestExtractListIntents(t *testing.T) {
	extractor := NewExtractor()
	for _, intent := range []Intent{IntentMovieCertifications, IntentGenreList} {
		params, err := extractor.Extract(context.Background(), intent, "whatever", nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", intent, err)
		}
		if params.Intent() != intent {
			t.Errorf("%s: params bound to %s", intent, params.Intent())
		}
	}
}

// With no usable model tier the extractor degrades to the deterministic
// fallback and still yields parameters.
func TestExtractFallsBack(t *testing.T) {
	extractor := NewExtractor()
	params, err := extractor.Extract(context.Background(), IntentDiscoverMovies, "comedy movies from 1999", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := params.(*DiscoverParams)
	if !ok {
		t.Fatalf("expected *DiscoverParams, got %T", params)
	}
	if got.PrimaryReleaseYear != 1999 || got.WithGenres != "35" {
		t.Errorf("unexpected fallback params: %+v", got)
	}
}

// Neither tier can serve a query with nothing extractable.
func TestExtractNothingUsable(t *testing.T) {
	extractor := NewExtractor()
	_, err := extractor.Extract(context.Background(), IntentDiscoverMovies, "hmm", nil)
	if !IsKind(err, NoExtractableParameters) {
		t.Fatalf("expected NoExtractableParameters, got %v", err)
	}
}
