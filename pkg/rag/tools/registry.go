package tools

import (
	"context"
	"fmt"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/store"
)

// Registry holds the retrieval tools for one query, dispatches executions by
// name, and aggregates the sources the tools record.
//
// A registry is not safe for concurrent queries: recorded sources are shared
// mutable state. Callers construct one registry per in-flight query and call
// ResetSources once the citations have been drained.
type Registry struct {
	tools    map[string]Tool
	order    []string // registration order
	executed []string // distinct tool names, first-execution order
}

func NewRegistry(toolList ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range toolList {
		r.Register(t)
	}
	return r
}

// Register associates the tool's name with it. Re-registering a name
// overwrites the previous tool but keeps its original position.
func (r *Registry) Register(tool Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// ToolDefinitions returns the definitions in registration order, ready to be
// passed to the completion service.
func (r *Registry) ToolDefinitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches to the named tool. An unknown name is an error; the
// orchestrator converts it into an error tool result for the model.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("tool '%s' not found", name)
	}

	r.markExecuted(name)
	return tool.Execute(ctx, args)
}

func (r *Registry) markExecuted(name string) {
	for _, n := range r.executed {
		if n == name {
			return
		}
	}
	r.executed = append(r.executed, name)
}

// LastSources concatenates, in execution order, the sources recorded by the
// tools since the last reset. Not cumulative across queries.
func (r *Registry) LastSources() []store.Source {
	var sources []store.Source
	for _, name := range r.executed {
		sources = append(sources, r.tools[name].LastSources()...)
	}
	return sources
}

// ResetSources clears every registered tool's recorded sources. Called by
// the owner after the citations for a query have been consumed.
func (r *Registry) ResetSources() {
	for _, tool := range r.tools {
		tool.ResetSources()
	}
	r.executed = nil
}
