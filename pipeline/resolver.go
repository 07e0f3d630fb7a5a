package pipeline

import (
	"context"
	"strings"

	"github.com/bububa/tmdb-agent/tools/tmdb"
)

// PeopleSearcher finds people in the metadata source by name.
type PeopleSearcher interface {
	SearchPerson(ctx context.Context, name string) ([]tmdb.Person, error)
}

// Confidence grades how a name matched the candidate picked for it.
type Confidence string

const (
	// ConfidenceExact the candidate name equals the input name
	ConfidenceExact Confidence = "exact"
	// ConfidenceBestEffort a candidate was picked without an exact name match
	ConfidenceBestEffort Confidence = "best_effort"
	// ConfidenceUnresolved no candidate was found
	ConfidenceUnresolved Confidence = "unresolved"
)

// ResolvedEntity pairs an input name with the identifier it resolved to.
// Unresolved names keep a zero ID and are surfaced to the caller, never
// silently dropped.
type ResolvedEntity struct {
	// Name the input name
	Name string `json:"name"`
	// ID the resolved TMDB person ID, zero when unresolved
	ID int64 `json:"id,omitempty"`
	// MatchedName the canonical name of the picked candidate
	MatchedName string `json:"matched_name,omitempty"`
	// Confidence match grade for the picked candidate
	Confidence Confidence `json:"confidence"`
}

// Resolved reports whether the entity carries an identifier.
func (e ResolvedEntity) Resolved() bool {
	return e.ID != 0
}

// Resolver resolves person names to canonical person IDs through the people
// search capability. It is a pure lookup utility: the policy on unresolved
// names lives in the caller.
type Resolver struct {
	searcher PeopleSearcher
}

// NewResolver returns a Resolver backed by the given people search.
func NewResolver(searcher PeopleSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve looks up each name and picks the top ranked candidate as best
// effort. The output has one entry per input name in input order, so
// repeated or colliding names stay position addressable.
func (r *Resolver) Resolve(ctx context.Context, names []string) ([]ResolvedEntity, error) {
	entities := make([]ResolvedEntity, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			entities = append(entities, ResolvedEntity{Name: name, Confidence: ConfidenceUnresolved})
			continue
		}
		candidates, err := r.searcher.SearchPerson(ctx, trimmed)
		if err != nil {
			return nil, classifyUpstream(StageResolver, err)
		}
		entities = append(entities, pickCandidate(trimmed, candidates))
	}
	return entities, nil
}

func pickCandidate(name string, candidates []tmdb.Person) ResolvedEntity {
	entity := ResolvedEntity{Name: name, Confidence: ConfidenceUnresolved}
	if len(candidates) == 0 {
		return entity
	}
	top := candidates[0]
	entity.ID = top.ID
	entity.MatchedName = top.Name
	if strings.EqualFold(name, strings.TrimSpace(top.Name)) {
		entity.Confidence = ConfidenceExact
	} else {
		entity.Confidence = ConfidenceBestEffort
	}
	return entity
}
