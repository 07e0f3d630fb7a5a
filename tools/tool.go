package tools

import (
	"context"

	"github.com/bububa/tmdb-agent/schema"
)

// ITool is the identity surface shared by every tool.
type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
	SetStartHook(fn func(context.Context, ITool, any))
	SetEndHook(fn func(context.Context, ITool, any, any))
	SetErrorHook(fn func(context.Context, ITool, any, error))
}

// Tool is a typed tool with schema validated input and output.
type Tool[I schema.Schema, O schema.Schema] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}
