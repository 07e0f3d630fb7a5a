package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bububa/tmdb-agent/agents"
	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/components/systemprompt"
	"github.com/bububa/tmdb-agent/components/systemprompt/cot"
	"github.com/bububa/tmdb-agent/schema"
)

const (
	// AnswerSource labels where the evidence behind every answer came from.
	AnswerSource = "TMDB API"
	// contextTokenBudget caps the grounding context handed to the answer
	// model. Records past the budget are dropped whole, never cut mid record.
	contextTokenBudget = 2048
	// contextEncoding is the tiktoken encoding used for the budget.
	contextEncoding = "cl100k_base"
)

// StructuredAnswer is the final validated output of a pipeline run: the
// answer text plus the record IDs it is grounded on and a confidence grade.
type StructuredAnswer struct {
	schema.Base
	// Answer natural language answer to the user query
	Answer string `json:"answer" jsonschema:"title=answer,description=The natural language answer to the user query." validate:"required"`
	// DataSummary short summary of the data the answer is based on
	DataSummary string `json:"data_summary,omitempty" jsonschema:"title=data_summary,description=A short summary of the data the answer is based on."`
	// Evidence IDs of the records the answer references
	Evidence []string `json:"evidence,omitempty" jsonschema:"title=evidence,description=The ids of the records the answer references."`
	// Source where the data came from
	Source string `json:"source,omitempty" jsonschema:"title=source,description=Where the data came from."`
	// Confidence how certain the answer is, from 0 to 1
	Confidence float64 `json:"confidence" jsonschema:"title=confidence,description=How certain the answer is from 0 to 1." validate:"gte=0,lte=1"`
}

func (a StructuredAnswer) String() string {
	bs, _ := json.Marshal(a)
	return string(bs)
}

// recordsProvider feeds normalized records into the answer prompt as a
// context block, bounded by a token budget.
type recordsProvider struct {
	records []Record
	counter components.TokenCounter
}

var _ systemprompt.ContextProvider = (*recordsProvider)(nil)

func (p *recordsProvider) Title() string {
	return "TMDB RESULTS"
}

// Info renders the records as one JSON document per line, stopping before
// the line that would exceed the token budget.
func (p *recordsProvider) Info() string {
	var (
		buf    strings.Builder
		budget = contextTokenBudget
	)
	for _, record := range p.records {
		bs, err := json.Marshal(record)
		if err != nil {
			continue
		}
		line := string(bs)
		cost := p.counter.Count(line)
		if cost > budget {
			break
		}
		budget -= cost
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String())
}

// Answerer synthesizes the final structured answer from normalized records.
// The model fills a strict schema grounded on the records; the answerer
// validates every field and discards evidence IDs the records never carried.
type Answerer struct {
	opts    []agents.Option
	counter components.TokenCounter
}

// NewAnswerer returns an Answerer running on the given agent options.
func NewAnswerer(opts ...agents.Option) *Answerer {
	return &Answerer{
		opts:    opts,
		counter: components.NewTokenCounter(contextEncoding),
	}
}

func answerPrompt(intent Intent, records []Record, counter components.TokenCounter) systemprompt.Generator {
	gen := cot.New(
		cot.WithBackground([]string{
			"- You are a movie expert answering user questions from TMDB API data.",
			"- The TMDB RESULTS context lists the records retrieved for the query, one JSON document per line.",
			"- The records were retrieved through the " + string(intent) + " capability.",
		}),
		cot.WithSteps([]string{
			"- Read the user query and the retrieved records.",
			"- Answer the query using only facts present in the records.",
			"- Collect the ids of the records your answer relies on.",
		}),
		cot.WithOutputInstructs([]string{
			"- Set answer to a concise natural language answer.",
			"- Set data_summary to a one sentence summary of the records used.",
			"- Set evidence to the ids of the records the answer relies on.",
			"- Set source to \"" + AnswerSource + "\".",
			"- Set confidence to how certain you are, from 0 to 1.",
		}),
	)
	gen.AddContextProviders(&recordsProvider{records: records, counter: counter})
	return gen
}

// Generate synthesizes the answer for the query. An empty record sequence is
// a valid terminal state: it produces a no-results answer deterministically,
// without invoking the model.
func (a *Answerer) Generate(ctx context.Context, intent Intent, records []Record, query string, apiResp *components.ApiResponse) (*StructuredAnswer, error) {
	if len(records) == 0 {
		return &StructuredAnswer{
			Answer:      "No results were found for this query.",
			DataSummary: "The TMDB API returned no matching records.",
			Source:      AnswerSource,
			Confidence:  1,
		}, nil
	}
	opts := append([]agents.Option{
		agents.WithName("AnswerAgent"),
		agents.WithSystemPromptGenerator(answerPrompt(intent, records, a.counter)),
	}, a.opts...)
	answer := new(StructuredAnswer)
	if err := runModel(ctx, opts, query, answer, apiResp); err != nil {
		return nil, classifyModel(StageAnswerer, err, InvalidStructuredOutput)
	}
	if err := validateAnswer(answer, records); err != nil {
		return nil, err
	}
	return answer, nil
}

// validateAnswer checks the model output field by field and drops evidence
// IDs that no record carries. The model cannot invent evidence.
func validateAnswer(answer *StructuredAnswer, records []Record) error {
	if strings.TrimSpace(answer.Answer) == "" {
		return NewStageError(StageAnswerer, InvalidStructuredOutput, fmt.Errorf("answer field is empty"))
	}
	if err := validate.Struct(answer); err != nil {
		return NewStageError(StageAnswerer, InvalidStructuredOutput, err)
	}
	known := make(map[string]struct{}, len(records))
	for _, record := range records {
		known[record.ID] = struct{}{}
	}
	kept := answer.Evidence[:0]
	for _, id := range answer.Evidence {
		if _, ok := known[id]; ok {
			kept = append(kept, id)
		}
	}
	answer.Evidence = kept
	answer.Source = AnswerSource
	return nil
}
