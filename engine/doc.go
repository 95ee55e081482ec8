// Package engine implements the runtime dispatch loop: the only stateful
// component of pureloop. The engine invokes a program's init once, submits
// the resulting task to the configured interpreter, normalizes the raw
// outcome into a message (decoding it when the command carries a decoder),
// routes the message to the update handler named by the task's transition
// tag, and repeats with whatever task the handler returns.
//
// The engine serializes handler application: at most one task is pending at
// a time and no two handler invocations ever overlap, regardless of how the
// interpreter schedules its work. The model is owned exclusively by the
// loop and replaced wholesale on every transition.
package engine
