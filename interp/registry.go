// Package interp provides interpreter infrastructure: a Registry that routes
// effect descriptors to the interpreter registered for their family, plus
// reference interpreters for the built-in effect families in subpackages
// (httpexec, timer, memstore, openai, anthropic).
//
// The registry itself satisfies core.Interpreter, so an engine configured
// with a registry can serve any mix of effect families. Routing failures
// (non-descriptor values, unregistered families) resolve as ordinary errors
// and reach application handlers as error-shaped messages; they are never
// fatal to the dispatch loop.
package interp

import (
	"context"
	"fmt"
	"sync"

	"github.com/pureloop/pureloop/core"
	"github.com/pureloop/pureloop/effect"
)

// FamilyInterpreter executes every descriptor of one effect family.
type FamilyInterpreter interface {
	core.Interpreter

	// Family names the effect family this interpreter serves.
	Family() string
}

// Registry routes descriptors to family interpreters. Registration is
// thread-safe; registering a family twice replaces the previous
// interpreter. The zero value is not usable, construct with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	families map[string]FamilyInterpreter
}

// Compile-time interface compliance.
var _ core.Interpreter = (*Registry)(nil)

// NewRegistry constructs an empty registry and registers the given
// interpreters.
func NewRegistry(interpreters ...FamilyInterpreter) *Registry {
	r := &Registry{families: make(map[string]FamilyInterpreter)}
	for _, i := range interpreters {
		r.Register(i)
	}
	return r
}

// Register makes an interpreter available for its family.
func (r *Registry) Register(i FamilyInterpreter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[i.Family()] = i
}

// Execute routes the descriptor to the interpreter registered for its
// family. The descriptor must implement effect.Descriptor.
func (r *Registry) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.Descriptor)
	if !ok {
		return nil, fmt.Errorf("descriptor %T does not name an effect family", descriptor)
	}

	r.mu.RLock()
	i, ok := r.families[d.Family()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no interpreter registered for effect family %q", d.Family())
	}
	return i.Execute(ctx, descriptor)
}
