package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/components/systemprompt"
	"github.com/bububa/tmdb-agent/components/systemprompt/cot"
	"github.com/bububa/tmdb-agent/schema"
)

// RouteDecision is the routed intent together with the model's rationale.
type RouteDecision struct {
	schema.Base
	// Endpoint the chosen intent label
	Endpoint Intent `json:"endpoint" jsonschema:"title=endpoint,enum=search_movie,enum=discover_movies,enum=search_person,enum=movie_certifications,enum=genre_list,description=The TMDB endpoint to call for the query." validate:"required,oneof=search_movie discover_movies search_person movie_certifications genre_list"`
	// Reasoning short explanation of the choice
	Reasoning string `json:"reasoning,omitempty" jsonschema:"title=reasoning,description=Short explanation of the routing choice."`
}

func (d RouteDecision) String() string {
	bs, _ := json.Marshal(d)
	return string(bs)
}

// Router classifies user queries into one of the supported intents. The
// model picks the label, the router only accepts members of the known set.
type Router struct {
	opts []agents.Option
}

// NewRouter returns a Router running on the given agent options.
func NewRouter(opts ...agents.Option) *Router {
	return &Router{
		opts: append([]agents.Option{
			agents.WithName("RouterAgent"),
			agents.WithSystemPromptGenerator(routerPrompt()),
		}, opts...),
	}
}

func routerPrompt() systemprompt.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are a TMDB API router. You analyze user queries about movies and determine which TMDB endpoint serves them.",
		}),
		cot.WithSteps([]string{
			"- Read the user query and identify what the user is looking for.",
			"- Pick exactly one endpoint from the available set:",
			"  - search_movie: the user wants to search movies by title.",
			"  - discover_movies: the user wants movies matching filters such as genre, year or actors.",
			"  - search_person: the user wants to find a person or actor.",
			"  - movie_certifications: the user asks for the officially supported movie certifications on TMDB.",
			"  - genre_list: the user asks for the list of official genres for movies.",
		}),
		cot.WithOutputInstructs([]string{
			"- Set endpoint to the chosen endpoint label and reasoning to a short explanation of the choice.",
		}),
	)
}

// Route classifies the query. The returned decision always carries a member
// of the known intent set.
func (r *Router) Route(ctx context.Context, query string, apiResp *components.ApiResponse) (*RouteDecision, error) {
	decision := new(RouteDecision)
	if err := runModel(ctx, r.opts, query, decision, apiResp); err != nil {
		return nil, classifyModel(StageRouter, err, UnrecognizedIntent)
	}
	if !decision.Endpoint.Valid() {
		return nil, NewStageError(StageRouter, UnrecognizedIntent, fmt.Errorf("endpoint %q is not in the supported set", decision.Endpoint))
	}
	return decision, nil
}
