package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	cohereCore "github.com/cohere-ai/cohere-go/v2/core"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/tmdb-agent/tools/tmdb"
)

// Stage identifies the pipeline step a failure originated from.
type Stage string

const (
	StageRouter     Stage = "router"
	StageExtractor  Stage = "extractor"
	StageResolver   Stage = "resolver"
	StageFetcher    Stage = "fetcher"
	StageNormalizer Stage = "normalizer"
	StageAnswerer   Stage = "answerer"
)

// ErrorKind classifies pipeline failures. Every failed run carries exactly
// one kind, picked by the stage that raised it.
type ErrorKind string

const (
	// UnrecognizedIntent the query could not be mapped to a supported intent
	UnrecognizedIntent ErrorKind = "unrecognized_intent"
	// NoExtractableParameters neither extraction tier yielded a required parameter
	NoExtractableParameters ErrorKind = "no_extractable_parameters"
	// NoResolvableEntities none of the referenced people could be resolved to an ID
	NoResolvableEntities ErrorKind = "no_resolvable_entities"
	// MalformedUpstreamPayload the metadata API answered with an unusable payload
	MalformedUpstreamPayload ErrorKind = "malformed_upstream_payload"
	// InvalidStructuredOutput the model's structured output failed schema validation
	InvalidStructuredOutput ErrorKind = "invalid_structured_output"
	// CollaboratorUnavailable a model or API transport failure bubbled up
	CollaboratorUnavailable ErrorKind = "collaborator_unavailable"
)

// StageError couples a pipeline failure with the stage that raised it and a
// machine readable kind.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

// NewStageError returns a StageError for the given stage and kind.
func NewStageError(stage Stage, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the error with its detail text flattened.
func (e *StageError) MarshalJSON() ([]byte, error) {
	var detail string
	if e.Err != nil {
		detail = e.Err.Error()
	}
	return json.Marshal(struct {
		Stage  Stage     `json:"stage"`
		Kind   ErrorKind `json:"kind"`
		Detail string    `json:"detail,omitempty"`
	}{Stage: e.Stage, Kind: e.Kind, Detail: detail})
}

// Kind extracts the error kind carried by err, or empty when err carries none.
func Kind(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err carries the given error kind.
func IsKind(err error, kind ErrorKind) bool {
	return Kind(err) == kind
}

// asStageError normalizes an arbitrary error into a StageError attributed to
// the given stage.
func asStageError(stage Stage, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return NewStageError(stage, CollaboratorUnavailable, err)
}

// transportFailure reports whether err comes from a provider or network
// transport rather than from the content of a response.
func transportFailure(err error) bool {
	var (
		openaiAPIErr    *openai.APIError
		openaiReqErr    *openai.RequestError
		anthropicAPIErr *anthropic.APIError
		anthropicReqErr *anthropic.RequestError
		cohereAPIErr    *cohereCore.APIError
		urlErr          *url.Error
		netErr          net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.As(err, &openaiAPIErr), errors.As(err, &openaiReqErr):
		return true
	case errors.As(err, &anthropicAPIErr), errors.As(err, &anthropicReqErr):
		return true
	case errors.As(err, &cohereAPIErr):
		return true
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return true
	}
	return false
}

// classifyModel attributes a model invocation failure. Transport failures
// become CollaboratorUnavailable, anything else is classified with the
// stage's content kind.
func classifyModel(stage Stage, err error, contentKind ErrorKind) *StageError {
	if transportFailure(err) {
		return NewStageError(stage, CollaboratorUnavailable, err)
	}
	return NewStageError(stage, contentKind, err)
}

// classifyUpstream attributes a metadata API failure. Payloads rejected by
// the structural gate become MalformedUpstreamPayload, everything else is a
// transport level failure.
func classifyUpstream(stage Stage, err error) *StageError {
	var payloadErr *tmdb.PayloadError
	if errors.As(err, &payloadErr) {
		return NewStageError(stage, MalformedUpstreamPayload, err)
	}
	return NewStageError(stage, CollaboratorUnavailable, err)
}
