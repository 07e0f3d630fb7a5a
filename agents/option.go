package agents

import (
	"github.com/bububa/instructor-go/pkg/instructor"

	"github.com/bububa/tmdb-agent/components"
	"github.com/bububa/tmdb-agent/components/systemprompt"
)

// Option is Config setter
type Option = func(c *Config)

// WithClient set Config llm client
func WithClient(clt instructor.Instructor) Option {
	return func(c *Config) {
		c.client = clt
	}
}

// WithMemory set Config memory
func WithMemory(m *components.Memory) Option {
	return func(c *Config) {
		c.memory = m
	}
}

// WithSystemPromptGenerator set Config systemPromptGenerator
func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

// WithModel set Config model
func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

// WithTemperature set Config temperature
func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

// WithMaxTokens set Config maxTokens
func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

// WithName set Config name
func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}
