// Package tools exposes the engine as named tools with parameter schemas, the
// vocabulary external decision makers speak over every transport.
package tools

import (
	"context"
	"sort"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Param describes one tool parameter.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Tool is a named engine operation.
type Tool struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []Param  `json:"params,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	// Mutates is false for read-only queries.
	Mutates bool `json:"mutates"`

	call func(g *game.Game, args Args) (any, error)
}

// Call runs the tool against a game the caller already holds exclusively.
func (t *Tool) Call(g *game.Game, args Args) (any, error) {
	if args == nil {
		args = Args{}
	}
	return t.call(g, args)
}

// Host gives serialized access to hosted games.
type Host interface {
	Do(ctx context.Context, id string, fn func(*game.Game) error) error
	View(ctx context.Context, id string, fn func(*game.Game) error) error
}

// Registry resolves tool names and aliases.
type Registry struct {
	tools   map[string]*Tool
	aliases map[string]string
}

// NewRegistry creates a registry holding the standard tool set.
func NewRegistry() *Registry {
	r := &Registry{
		tools:   make(map[string]*Tool),
		aliases: make(map[string]string),
	}
	for _, t := range standardTools() {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any tool of the same name.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
	for _, alias := range t.Aliases {
		r.aliases[alias] = t.Name
	}
}

// Lookup finds a tool by name or alias.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool sorted by name.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs a tool on a hosted game. Mutating tools go through host.Do
// so their result is persisted; queries use host.View.
func (r *Registry) Dispatch(ctx context.Context, host Host, gameID, name string, args Args) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, &rules.NotFoundError{Kind: "tool", Key: name}
	}
	var out any
	fn := func(g *game.Game) error {
		res, err := t.Call(g, args)
		out = res
		return err
	}
	var err error
	if t.Mutates {
		err = host.Do(ctx, gameID, fn)
	} else {
		err = host.View(ctx, gameID, fn)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
