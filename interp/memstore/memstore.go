// Package memstore implements the storage effect family over a volatile,
// process-local map. It is safe for concurrent access and best suited for
// tests, examples and ephemeral programs; a durable backend is a drop-in
// replacement implementing the same family.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pureloop/pureloop/effect"
)

// Interpreter resolves effect.Storage descriptors against an in-memory map.
type Interpreter struct {
	mu     sync.RWMutex
	values map[string]any
}

// New constructs an empty in-memory storage interpreter.
func New() *Interpreter {
	return &Interpreter{values: make(map[string]any)}
}

// Family implements interp.FamilyInterpreter.
func (*Interpreter) Family() string { return effect.FamilyStorage }

// Execute performs the described storage operation. Raw results by op:
//   - get:    the stored value, or nil if absent
//   - put:    the stored value (echoed)
//   - delete: the deleted key
//   - list:   sorted []any of keys
func (s *Interpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.Storage)
	if !ok {
		return nil, fmt.Errorf("memstore: unexpected descriptor %T", descriptor)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch d.Op {
	case effect.StorageGet:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.values[d.Key], nil

	case effect.StoragePut:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.values[d.Key] = d.Value
		return d.Value, nil

	case effect.StorageDelete:
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.values, d.Key)
		return d.Key, nil

	case effect.StorageList:
		s.mu.RLock()
		defer s.mu.RUnlock()
		keys := make([]string, 0, len(s.values))
		for k := range s.values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil

	default:
		return nil, fmt.Errorf("memstore: unknown storage op %q", d.Op)
	}
}

// Len reports the number of stored keys. Intended for tests.
func (s *Interpreter) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
