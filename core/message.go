package core

// Result discriminates the two outcome shapes a Message can carry.
type Result string

const (
	// ResultSuccess marks a message whose Data field holds the (decoded)
	// effect result.
	ResultSuccess Result = "success"

	// ResultError marks a message whose Err field holds the effect or
	// decode failure.
	ResultError Result = "error"
)

// Message is the normalized outcome of executing a Task, delivered to the
// update handler selected by the task's transition tag. Exactly one of
// Data/Err is meaningful, selected by Result. Messages are values; handlers
// receive them by copy and cannot affect the engine through them.
type Message struct {
	Result Result
	Data   any
	Err    error
}

// Success builds a success-shaped message carrying data.
func Success(data any) Message {
	return Message{Result: ResultSuccess, Data: data}
}

// Failure builds an error-shaped message carrying err. Decode failures and
// interpreter failures both arrive through this shape, so handlers treat
// them uniformly.
func Failure(err error) Message {
	return Message{Result: ResultError, Err: err}
}

// IsError reports whether the message carries a failure.
func (m Message) IsError() bool { return m.Result == ResultError }
