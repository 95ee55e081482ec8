package core

import "github.com/pureloop/pureloop/command"

// Handler processes one Message against the current model and returns the
// replacement model plus the next effect to perform (nil for none).
//
// Handlers must be pure: same (message, model) in, same (model, task) out,
// with no hidden state and no I/O. The model is replaced wholesale on every
// invocation; handlers construct a new value rather than mutating the old
// one in place.
type Handler func(msg Message, model any) (any, *command.Task)

// UpdateTable maps transition tags to the handlers that process their
// outcomes. It is populated once at program definition time and treated as
// immutable thereafter; a message arriving for an absent tag is a fatal
// configuration error, not a recoverable condition.
type UpdateTable map[string]Handler

// Program is the application contract: Init produces the initial model and
// optional first effect, Update routes every subsequent effect outcome. The
// engine never inspects the model's shape; it only threads it between
// handler invocations.
type Program struct {
	Init   func() (any, *command.Task)
	Update UpdateTable
}
