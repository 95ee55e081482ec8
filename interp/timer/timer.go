// Package timer implements the timer effect family: a delay that resolves
// with the elapsed duration. Useful for polling loops and retry backoff in
// programs that must stay pure.
package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/pureloop/pureloop/effect"
)

// Interpreter resolves effect.Timer descriptors.
type Interpreter struct{}

// New constructs a timer interpreter.
func New() *Interpreter { return &Interpreter{} }

// Family implements interp.FamilyInterpreter.
func (*Interpreter) Family() string { return effect.FamilyTimer }

// Execute sleeps for the described duration, resolving early with ctx.Err()
// on cancellation. The raw result is the actual elapsed time.
func (*Interpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.Timer)
	if !ok {
		return nil, fmt.Errorf("timer: unexpected descriptor %T", descriptor)
	}

	start := time.Now()
	if d.Duration <= 0 {
		return time.Since(start), nil
	}

	t := time.NewTimer(d.Duration)
	defer t.Stop()
	select {
	case <-t.C:
		return time.Since(start), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
