package components

import (
	"github.com/bububa/instructor-go/pkg/instructor"
	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	cohereOption "github.com/cohere-ai/cohere-go/v2/option"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ApiUsage is llm api token usage
type ApiUsage struct {
	// InputTokens prompt token count
	InputTokens int `json:"input_tokens,omitempty"`
	// OutputTokens completion token count
	OutputTokens int `json:"output_tokens,omitempty"`
}

// TotalTokens returns the sum of input and output tokens.
func (u ApiUsage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// Merge accumulates another usage into this one.
func (u *ApiUsage) Merge(v *ApiUsage) {
	if v == nil {
		return
	}
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}

// ApiResponse is the provider-agnostic view of one completion response.
type ApiResponse struct {
	// ID api response ID
	ID string `json:"id,omitempty"`
	// Role the role of the responder
	Role MessageRole `json:"role,omitempty"`
	// Model the model name which generated the response
	Model string `json:"model,omitempty"`
	// Usage api token usage
	Usage *ApiUsage `json:"usage,omitempty"`
}

// FromOpenAI fills the response from an openai ChatCompletionResponse.
func (r *ApiResponse) FromOpenAI(v *openai.ChatCompletionResponse) {
	r.ID = v.ID
	r.Role = AssistantRole
	r.Model = v.Model
	r.Usage = &ApiUsage{
		InputTokens:  v.Usage.PromptTokens,
		OutputTokens: v.Usage.CompletionTokens,
	}
}

// FromAnthropic fills the response from an anthropic MessagesResponse.
func (r *ApiResponse) FromAnthropic(v *anthropic.MessagesResponse) {
	r.ID = v.ID
	r.Role = string(v.Role)
	r.Model = string(v.Model)
	r.Usage = &ApiUsage{
		InputTokens:  v.Usage.InputTokens,
		OutputTokens: v.Usage.OutputTokens,
	}
}

// FromCohere fills the response from a cohere NonStreamedChatResponse.
func (r *ApiResponse) FromCohere(v *cohere.NonStreamedChatResponse) {
	if v.GenerationId != nil {
		r.ID = *v.GenerationId
	}
	r.Role = AssistantRole
	if v.Meta == nil || v.Meta.Tokens == nil {
		return
	}
	usage := new(ApiUsage)
	if c := v.Meta.Tokens.InputTokens; c != nil {
		usage.InputTokens = int(*c)
	}
	if c := v.Meta.Tokens.OutputTokens; c != nil {
		usage.OutputTokens = int(*c)
	}
	r.Usage = usage
}

// NewInstructor returns a schema validating llm client for the given provider.
// baseURL is optional and overrides the provider default endpoint.
func NewInstructor(provider instructor.Provider, authToken string, baseURL string) instructor.Instructor {
	switch provider {
	case instructor.ProviderAnthropic:
		var opts []anthropic.ClientOption
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		clt := anthropic.NewClient(authToken, opts...)
		return instructor.FromAnthropic(
			clt,
			instructor.WithMode(instructor.ModeJSON),
			instructor.WithMaxRetries(3),
			instructor.WithValidation(),
		)
	case instructor.ProviderCohere:
		opts := []cohereOption.RequestOption{cohereOption.WithToken(authToken)}
		if baseURL != "" {
			opts = append(opts, cohereOption.WithBaseURL(baseURL))
		}
		clt := cohereClient.NewClient(opts...)
		return instructor.FromCohere(
			clt,
			instructor.WithMode(instructor.ModeJSON),
			instructor.WithMaxRetries(3),
			instructor.WithValidation(),
		)
	default:
		cfg := openai.DefaultConfig(authToken)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		clt := openai.NewClientWithConfig(cfg)
		return instructor.FromOpenAI(
			clt,
			instructor.WithMode(instructor.ModeJSON),
			instructor.WithMaxRetries(3),
			instructor.WithValidation(),
		)
	}
}
