package pipeline

import (
	"context"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/schema"
)

// runModel performs one schema validated model invocation on a fresh agent,
// so concurrent requests never share conversation state.
func runModel[O schema.Schema](ctx context.Context, opts []agents.Option, input string, output *O, apiResp *components.ApiResponse) error {
	agent := agents.NewAgent[schema.String, O](opts...)
	userInput := schema.String(input)
	return agent.Run(ctx, &userInput, output, apiResp)
}
