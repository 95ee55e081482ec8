// Package testutil provides test doubles for exercising the dispatch loop
// without any real effect execution: a scripted interpreter that records
// every descriptor it receives and replays queued outcomes.
package testutil

import (
	"context"
	"fmt"
	"sync"
)

// Outcome is one scripted interpreter resolution.
type Outcome struct {
	Raw any
	Err error
}

// ScriptedInterpreter implements core.Interpreter by replaying a fixed
// sequence of outcomes while recording the descriptors it was asked to
// execute. Safe for concurrent use.
type ScriptedInterpreter struct {
	mu       sync.Mutex
	script   []Outcome
	executed []any
}

// NewScriptedInterpreter queues the given outcomes in order.
func NewScriptedInterpreter(outcomes ...Outcome) *ScriptedInterpreter {
	return &ScriptedInterpreter{script: outcomes}
}

// Execute records the descriptor and pops the next scripted outcome.
// Running past the script is a test authoring error and fails loudly.
func (s *ScriptedInterpreter) Execute(_ context.Context, descriptor any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, descriptor)
	if len(s.script) == 0 {
		return nil, fmt.Errorf("scripted interpreter exhausted after %d executions", len(s.executed)-1)
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next.Raw, next.Err
}

// Executed returns a copy of the descriptors executed so far, in order.
func (s *ScriptedInterpreter) Executed() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.executed))
	copy(out, s.executed)
	return out
}

// Succeed builds a success outcome.
func Succeed(raw any) Outcome { return Outcome{Raw: raw} }

// Fail builds a failure outcome.
func Fail(err error) Outcome { return Outcome{Err: err} }
