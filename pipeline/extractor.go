package pipeline

import (
	"context"
	"strings"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/components/systemprompt"
	"github.com/bububa/tmdb-agent/components/systemprompt/cot"
	"github.com/bububa/tmdb-agent/components/systemprompt/simple"
)

// Extractor turns a routed query into validated endpoint parameters. It runs
// a model tier first and falls back to deterministic pattern extraction when
// the model tier fails, malforms or yields nothing usable. The fallback is a
// first class alternative, not error recovery: any degraded model outcome
// hands the query to FallbackParams.
type Extractor struct {
	searchOpts   []agents.Option
	discoverOpts []agents.Option
	personOpts   []agents.Option
}

// NewExtractor returns an Extractor running its per intent agents on the
// given options.
func NewExtractor(opts ...agents.Option) *Extractor {
	return &Extractor{
		searchOpts: append([]agents.Option{
			agents.WithName("SearchMovieExtractor"),
			agents.WithSystemPromptGenerator(searchPrompt("/search/movie", []string{
				"- query: the movie title or keywords.",
				"- primary_release_year: the release year of the movie, only if mentioned.",
			})),
		}, opts...),
		discoverOpts: append([]agents.Option{
			agents.WithName("DiscoverMoviesExtractor"),
			agents.WithSystemPromptGenerator(discoverPrompt()),
		}, opts...),
		personOpts: append([]agents.Option{
			agents.WithName("SearchPersonExtractor"),
			agents.WithSystemPromptGenerator(searchPrompt("/search/person", []string{
				"- query: the name of the person or the name they are known as.",
			})),
		}, opts...),
	}
}

// searchPrompt is the flat prompt of the single field search extractors.
func searchPrompt(endpoint string, fields []string) systemprompt.Generator {
	lines := append([]string{
		"You are a parameter extraction agent for TMDB API calls to " + endpoint + ".",
		"Extract only the following parameters from the user query:",
	}, fields...)
	lines = append(lines,
		"Leave out every parameter the query does not mention. Never invent values.",
		"Always respond using the proper JSON schema.",
	)
	return simple.New(strings.Join(lines, "\n"))
}

// discoverPrompt walks the model through the multi filter extraction for the
// discover endpoint.
func discoverPrompt() systemprompt.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a parameter extraction agent for TMDB API calls to /discover/movie.",
			"- You extract relevant request parameters from natural language user queries.",
		}),
		cot.WithSteps([]string{
			"- Read the user query and extract only the following parameters:",
			"- primary_release_year: the release year of the movies, only if mentioned.",
			"- with_genres: the genres of the movies, only if mentioned, separated by commas.",
			"- with_people_names: the names of actors or actresses, only if mentioned.",
			"- sort_by: the result ordering, only if the query asks for one, such as popularity.desc for most popular or vote_average.desc for top rated.",
		}),
		cot.WithOutputInstructs([]string{
			"- Leave out every parameter the query does not mention. Never invent values.",
		}),
	)
}

// Extract produces parameters for the intent. Catalog list intents are
// parameterless and skip both tiers.
func (e *Extractor) Extract(ctx context.Context, intent Intent, query string, apiResp *components.ApiResponse) (Params, error) {
	if !intent.NeedsExtraction() {
		return NewListParams(intent), nil
	}
	if params, ok := e.modelTier(ctx, intent, query, apiResp); ok {
		return params, nil
	}
	return FallbackParams(intent, query)
}

// modelTier runs the intent's extraction agent. ok is false when the tier
// failed, was unavailable or produced nothing usable, handing the decision
// to the fallback tier.
func (e *Extractor) modelTier(ctx context.Context, intent Intent, query string, apiResp *components.ApiResponse) (Params, bool) {
	var params Params
	switch intent {
	case IntentSearchMovie:
		out := new(SearchMovieParams)
		if err := runModel(ctx, e.searchOpts, query, out, apiResp); err != nil {
			return nil, false
		}
		params = out
	case IntentDiscoverMovies:
		out := new(DiscoverParams)
		if err := runModel(ctx, e.discoverOpts, query, out, apiResp); err != nil {
			return nil, false
		}
		out.WithGenres = MapGenres(out.WithGenres)
		params = out
	case IntentSearchPerson:
		out := new(SearchPersonParams)
		if err := runModel(ctx, e.personOpts, query, out, apiResp); err != nil {
			return nil, false
		}
		params = out
	default:
		return nil, false
	}
	if params.Empty() || params.Validate() != nil {
		return nil, false
	}
	return params, true
}
