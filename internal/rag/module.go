package rag

import "context"

// Module is a single transformation step within a stage. Run reads the context and
// appends to it; returning an error stops the pipeline.
// A module owns its configuration for its lifetime and must not mutate it in Run.
type Module interface {
	Name() string
	Run(ctx context.Context, rc *Context) error
}

// ModuleFunc adapts a function to the Module interface
type ModuleFunc struct {
	ModuleName string
	Fn         func(ctx context.Context, rc *Context) error
}

func (m ModuleFunc) Name() string { return m.ModuleName }

func (m ModuleFunc) Run(ctx context.Context, rc *Context) error {
	return m.Fn(ctx, rc)
}
