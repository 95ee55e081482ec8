// Package command models side effects as inert data. A Command describes an
// effect without performing it; Send binds it to a transition tag, producing
// a Task the dispatch engine can hand to an interpreter. Commands and Tasks
// are immutable once constructed, so they are safe to share across tests,
// inspection and concurrent interpreter goroutines.
//
// Inspect is the test seam: it returns a Task's descriptor verbatim without
// any interpreter configured, letting tests assert on "what would happen"
// instead of "what happened".
package command

import "github.com/pureloop/pureloop/decode"

// Command is an inert description of a single effect. The descriptor is
// application-defined and opaque to the runtime; by convention network
// effects use the effect.HTTP shape and other families define their own
// variants. An optional decoder interprets the effect's raw successful
// result before it reaches application code.
type Command struct {
	descriptor any
	decoder    decode.Decoder
}

// Build constructs a Command from an application-defined descriptor. No
// decoder or transition tag is attached yet.
func Build(descriptor any) Command {
	return Command{descriptor: descriptor}
}

// WithDecoder returns a copy of the command carrying d for its eventual
// result. The receiver is unchanged.
func (c Command) WithDecoder(d decode.Decoder) Command {
	c.decoder = d
	return c
}

// Descriptor returns the application-defined effect description.
func (c Command) Descriptor() any { return c.descriptor }

// Send binds the command to a transition tag, producing an executable Task.
// The tag selects the update handler that will receive the effect's outcome;
// dispatching a Task whose tag is absent from the update table is a fatal
// configuration error at resolution time.
func (c Command) Send(tag string) *Task {
	return &Task{cmd: c, tag: tag}
}

// Task is a Command bound to a transition tag: deferred, not yet executed,
// owning no resources until handed to an interpreter. A nil *Task is the
// "no effect" value returned by init and update handlers that have nothing
// to request.
type Task struct {
	cmd Command
	tag string
}

// Tag returns the transition tag that routes this task's outcome.
func (t *Task) Tag() string { return t.tag }

// Descriptor returns the underlying effect description without performing
// any effect.
func (t *Task) Descriptor() any { return t.cmd.descriptor }

// Decoder returns the result decoder, or nil if the command carries none.
func (t *Task) Decoder() decode.Decoder { return t.cmd.decoder }

// Inspect returns the task's descriptor verbatim, performing no effect and
// requiring no interpreter. Repeated inspection returns the identical value.
func Inspect(t *Task) any {
	return t.cmd.descriptor
}
