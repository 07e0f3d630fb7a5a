// Package pipeline implements the movie question answering pipeline: intent
// routing, parameter extraction with deterministic fallback, entity
// resolution, payload normalization and structured answer synthesis, bound
// together by a sequential orchestrator with typed stage boundaries.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/tools/tmdb"
)

// State is one station of the per request state machine. Every run walks the
// states in order and terminates in either Answered or Failed.
type State string

const (
	StateStart               State = "start"
	StateRouted              State = "routed"
	StateParametersExtracted State = "parameters_extracted"
	StateEntitiesResolved    State = "entities_resolved"
	StateDataFetched         State = "data_fetched"
	StateNormalized          State = "normalized"
	StateAnswered            State = "answered"
	StateFailed              State = "failed"
)

// MetadataAPI fetches raw payloads from the movie metadata source. The
// pipeline never builds HTTP itself, it hands over an endpoint capability
// and validated query values.
type MetadataAPI interface {
	Call(ctx context.Context, endpoint tmdb.Endpoint, params url.Values) (json.RawMessage, error)
}

// IntentRouter classifies queries into intents.
type IntentRouter interface {
	Route(ctx context.Context, query string, apiResp *components.ApiResponse) (*RouteDecision, error)
}

// ParamExtractor produces validated parameters for an intent.
type ParamExtractor interface {
	Extract(ctx context.Context, intent Intent, query string, apiResp *components.ApiResponse) (Params, error)
}

// EntityResolver resolves person names to identifiers.
type EntityResolver interface {
	Resolve(ctx context.Context, names []string) ([]ResolvedEntity, error)
}

// AnswerGenerator synthesizes the final structured answer.
type AnswerGenerator interface {
	Generate(ctx context.Context, intent Intent, records []Record, query string, apiResp *components.ApiResponse) (*StructuredAnswer, error)
}

// Result is the full account of one pipeline run. Failed runs keep every
// value produced before the failing stage, plus the stage attributed error.
type Result struct {
	// RequestID unique ID of the run
	RequestID string `json:"request_id"`
	// Query the user query the run served
	Query string `json:"query"`
	// State the terminal state, Answered or Failed
	State State `json:"state"`
	// States every state the run traversed, in order
	States []State `json:"states"`
	// Intent the routed intent
	Intent Intent `json:"intent,omitempty"`
	// Reasoning the router's rationale
	Reasoning string `json:"reasoning,omitempty"`
	// Params the validated parameters
	Params Params `json:"params,omitempty"`
	// Entities the resolved entities in input name order
	Entities []ResolvedEntity `json:"entities,omitempty"`
	// Unresolved names that could not be resolved, kept as an annotation
	Unresolved []string `json:"unresolved,omitempty"`
	// Records the normalized records behind the answer
	Records []Record `json:"records,omitempty"`
	// Answer the validated structured answer, nil on Failed
	Answer *StructuredAnswer `json:"answer,omitempty"`
	// Usage aggregated model token usage across all stages
	Usage components.ApiUsage `json:"usage"`
	// Err the stage attributed failure, nil on Answered
	Err *StageError `json:"error,omitempty"`
}

func (r *Result) enter(state State) {
	r.States = append(r.States, state)
	r.State = state
}

// mergeUsage folds one model invocation's usage into the run total.
func (r *Result) mergeUsage(apiResp *components.ApiResponse) {
	if apiResp != nil {
		r.Usage.Merge(apiResp.Usage)
	}
}

// Stats is a snapshot of the pipeline's run counters.
type Stats struct {
	// Requests total runs started
	Requests int64 `json:"requests"`
	// Answered runs that reached the Answered state
	Answered int64 `json:"answered"`
	// Failed runs that reached the Failed state
	Failed int64 `json:"failed"`
	// Tokens total model tokens spent across runs
	Tokens int64 `json:"tokens"`
}

// Pipeline sequences the stages and owns the success failure boundary
// between them. It is the only component with multi step control flow; each
// stage stays a single call with a typed result. A Pipeline is safe for
// concurrent use: runs share nothing but the read only stage wiring and the
// monotonic counters.
type Pipeline struct {
	router     IntentRouter
	extractor  ParamExtractor
	resolver   EntityResolver
	normalizer *Normalizer
	answerer   AnswerGenerator
	api        MetadataAPI
	logger     *zap.Logger

	requests atomic.Int64
	answered atomic.Int64
	failed   atomic.Int64
	tokens   atomic.Int64
}

// Option is a Pipeline setter.
type Option func(*Pipeline)

// WithLogger sets the logger stage transitions are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRouter overrides the routing stage.
func WithRouter(router IntentRouter) Option {
	return func(p *Pipeline) {
		p.router = router
	}
}

// WithExtractor overrides the extraction stage.
func WithExtractor(extractor ParamExtractor) Option {
	return func(p *Pipeline) {
		p.extractor = extractor
	}
}

// WithResolver overrides the entity resolution stage.
func WithResolver(resolver EntityResolver) Option {
	return func(p *Pipeline) {
		p.resolver = resolver
	}
}

// WithAnswerer overrides the answer synthesis stage.
func WithAnswerer(answerer AnswerGenerator) Option {
	return func(p *Pipeline) {
		p.answerer = answerer
	}
}

// New returns a Pipeline fetching through api, resolving people through
// searcher and running every model stage on the given agent options. The
// agent options must carry at least agents.WithClient and agents.WithModel.
func New(api MetadataAPI, searcher PeopleSearcher, agentOpts []agents.Option, opts ...Option) *Pipeline {
	ret := &Pipeline{
		router:     NewRouter(agentOpts...),
		extractor:  NewExtractor(agentOpts...),
		resolver:   NewResolver(searcher),
		normalizer: NewNormalizer(),
		answerer:   NewAnswerer(agentOpts...),
		api:        api,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Stats returns a snapshot of the run counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Requests: p.requests.Load(),
		Answered: p.answered.Load(),
		Failed:   p.failed.Load(),
		Tokens:   p.tokens.Load(),
	}
}

// Ask answers one user query. The returned Result always carries a terminal
// state; on Failed it also carries the stage attributed error, which is
// returned alongside so callers never mistake a failed run for an answer.
func (p *Pipeline) Ask(ctx context.Context, query string) (*Result, error) {
	result := &Result{
		RequestID: uuid.NewString(),
		Query:     query,
	}
	result.enter(StateStart)
	p.requests.Inc()
	logger := p.logger.With(zap.String("request_id", result.RequestID))
	logger.Info("pipeline start", zap.String("query", query))

	err := p.run(ctx, result, logger)
	p.tokens.Add(int64(result.Usage.TotalTokens()))
	if err != nil {
		result.Err = asStageError(StageRouter, err)
		result.enter(StateFailed)
		p.failed.Inc()
		logger.Warn("pipeline failed",
			zap.String("stage", string(result.Err.Stage)),
			zap.String("kind", string(result.Err.Kind)),
			zap.Error(result.Err.Err),
		)
		return result, result.Err
	}
	result.enter(StateAnswered)
	p.answered.Inc()
	logger.Info("pipeline answered",
		zap.String("intent", string(result.Intent)),
		zap.Int("records", len(result.Records)),
		zap.Int("tokens", result.Usage.TotalTokens()),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, result *Result, logger *zap.Logger) error {
	if query := result.Query; query == "" {
		return NewStageError(StageRouter, UnrecognizedIntent, errors.New("empty query"))
	}

	var routeResp components.ApiResponse
	decision, err := p.router.Route(ctx, result.Query, &routeResp)
	result.mergeUsage(&routeResp)
	if err != nil {
		return err
	}
	result.Intent = decision.Endpoint
	result.Reasoning = decision.Reasoning
	result.enter(StateRouted)
	logger.Debug("routed", zap.String("intent", string(result.Intent)))

	var extractResp components.ApiResponse
	params, err := p.extractor.Extract(ctx, result.Intent, result.Query, &extractResp)
	result.mergeUsage(&extractResp)
	if err != nil {
		return err
	}
	result.Params = params
	result.enter(StateParametersExtracted)
	logger.Debug("parameters extracted", zap.String("params", params.String()))

	if err := p.resolveEntities(ctx, result); err != nil {
		return err
	}

	payload, err := p.api.Call(ctx, result.Intent.Endpoint(), params.Values())
	if err != nil {
		return classifyUpstream(StageFetcher, err)
	}
	result.enter(StateDataFetched)

	records, err := p.normalizer.Normalize(result.Intent, payload)
	if err != nil {
		return err
	}
	result.Records = records
	result.enter(StateNormalized)
	logger.Debug("normalized", zap.Int("records", len(records)))

	var answerResp components.ApiResponse
	answer, err := p.answerer.Generate(ctx, result.Intent, records, result.Query, &answerResp)
	result.mergeUsage(&answerResp)
	if err != nil {
		return err
	}
	result.Answer = answer
	return nil
}

// resolveEntities runs the conditional entity resolution transition. Only
// parameter variants that reference people by name traverse it. Policy:
// proceed with the resolved subset when at least one name resolved, fail
// with NoResolvableEntities when none did.
func (p *Pipeline) resolveEntities(ctx context.Context, result *Result) error {
	scoped, ok := result.Params.(PersonScoped)
	if !ok {
		return nil
	}
	names := scoped.PersonNames()
	if len(names) == 0 {
		return nil
	}
	entities, err := p.resolver.Resolve(ctx, names)
	if err != nil {
		return err
	}
	result.Entities = entities
	ids := make([]int64, 0, len(entities))
	for _, entity := range entities {
		if entity.Resolved() {
			ids = append(ids, entity.ID)
		} else {
			result.Unresolved = append(result.Unresolved, entity.Name)
		}
	}
	if len(ids) == 0 {
		return NewStageError(StageResolver, NoResolvableEntities, errors.New("none of the referenced people could be resolved"))
	}
	scoped.SetPersonIDs(ids)
	result.enter(StateEntitiesResolved)
	return nil
}
