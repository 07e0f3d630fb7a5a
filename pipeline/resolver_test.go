package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/bububa/tmdb-agent/tools/tmdb"
)

type fakeSearcher struct {
	people map[string][]tmdb.Person
	err    error
	calls  []string
}

func (s *fakeSearcher) SearchPerson(_ context.Context, name string) ([]tmdb.Person, error) {
	s.calls = append(s.calls, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.people[name], nil
}

func TestResolveOrderPreserved(t *testing.T) {
	searcher := &fakeSearcher{people: map[string][]tmdb.Person{
		"Tom Hanks": {{ID: 31, Name: "Tom Hanks"}},
	}}
	resolver := NewResolver(searcher)
	entities, err := resolver.Resolve(context.Background(), []string{"Tom Hanks", "Unknown Person X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	first, second := entities[0], entities[1]
	if first.Name != "Tom Hanks" || first.ID != 31 || first.Confidence != ConfidenceExact {
		t.Errorf("unexpected first entity: %+v", first)
	}
	if second.Name != "Unknown Person X" || second.ID != 0 || second.Confidence != ConfidenceUnresolved {
		t.Errorf("unexpected second entity: %+v", second)
	}
	if second.Resolved() {
		t.Error("unresolved entity reports Resolved")
	}
}

func TestResolveConfidence(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []tmdb.Person
		want       Confidence
		wantID     int64
	}{
		{
			name:       "exact on case insensitive equality",
			input:      "tom hanks",
			candidates: []tmdb.Person{{ID: 31, Name: "Tom Hanks"}},
			want:       ConfidenceExact,
			wantID:     31,
		},
		{
			name:       "best effort on partial match",
			input:      "Tom",
			candidates: []tmdb.Person{{ID: 31, Name: "Tom Hanks"}, {ID: 500, Name: "Tom Cruise"}},
			want:       ConfidenceBestEffort,
			wantID:     31,
		},
		{
			name:  "unresolved on empty candidates",
			input: "Nobody",
			want:  ConfidenceUnresolved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := pickCandidate(tt.input, tt.candidates)
			if entity.Confidence != tt.want {
				t.Errorf("confidence: expected %s, got %s", tt.want, entity.Confidence)
			}
			if entity.ID != tt.wantID {
				t.Errorf("id: expected %d, got %d", tt.wantID, entity.ID)
			}
		})
	}
}

func TestResolveBlankName(t *testing.T) {
	searcher := &fakeSearcher{}
	resolver := NewResolver(searcher)
	entities, err := resolver.Resolve(context.Background(), []string{"  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searcher.calls) != 0 {
		t.Error("blank name must not hit the people search")
	}
	if entities[0].Confidence != ConfidenceUnresolved {
		t.Errorf("expected unresolved, got %s", entities[0].Confidence)
	}
}

func TestResolveSearchFailure(t *testing.T) {
	resolver := NewResolver(&fakeSearcher{err: errors.New("boom")})
	_, err := resolver.Resolve(context.Background(), []string{"Tom Hanks"})
	if !IsKind(err, CollaboratorUnavailable) {
		t.Fatalf("expected CollaboratorUnavailable, got %v", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageResolver {
		t.Errorf("expected resolver stage attribution, got %v", err)
	}
}
