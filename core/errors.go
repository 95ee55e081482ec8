package core

import "fmt"

// EffectError wraps an interpreter failure: the effect could not complete
// (network error, timeout, unknown effect family, ...). It is always
// recoverable; the engine folds it into an error-shaped Message and the
// application decides how to absorb it into the model.
type EffectError struct {
	Cause error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effect failed: %v", e.Cause)
}

// Unwrap exposes the interpreter cause for errors.Is / errors.As.
func (e *EffectError) Unwrap() error { return e.Cause }

// UnknownTransitionError reports a message routed to a tag absent from the
// update table. This is a programmer error in the application wiring, not a
// data condition: the program declared a command it cannot handle. The
// engine halts dispatch and surfaces it as the terminal run error rather
// than delivering it to any handler.
type UnknownTransitionError struct {
	Tag string
}

func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("unknown transition %q: no handler registered in update table", e.Tag)
}
