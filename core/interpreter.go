package core

import "context"

// Interpreter executes the effect a descriptor describes and reports the
// raw outcome. Implementations MUST:
//   - resolve exactly once per call: a raw result or an error, never both
//   - leave decoding to the engine; the raw value is handed back untouched
//   - honor ctx cancellation, returning ctx.Err() when interrupted
//
// The engine treats interpreters as black boxes: whether one uses blocking
// calls, goroutines or an event loop is entirely its own concern.
type Interpreter interface {
	Execute(ctx context.Context, descriptor any) (any, error)
}

// InterpreterFunc adapts a plain function to the Interpreter interface.
type InterpreterFunc func(ctx context.Context, descriptor any) (any, error)

// Execute implements Interpreter.
func (f InterpreterFunc) Execute(ctx context.Context, descriptor any) (any, error) {
	return f(ctx, descriptor)
}
