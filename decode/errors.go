package decode

import (
	"fmt"
	"reflect"
)

// TypeMismatchError reports a value whose primitive or structural kind did
// not match what the decoder expected.
type TypeMismatchError struct {
	Expected string // kind the decoder required ("string", "object", ...)
	Actual   string // kind actually observed
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("decode: expected %s, got %s", e.Expected, e.Actual)
}

// ValueMismatchError reports a literal-equality decoder that observed a
// different value.
type ValueMismatchError struct {
	Expected any
	Actual   any
}

func (e *ValueMismatchError) Error() string {
	return fmt.Sprintf("decode: expected value %v, got %v", e.Expected, e.Actual)
}

// FieldMismatchError reports a failing field inside an object. Path is the
// dot-joined route from the outermost object to the failing field
// ("address.city"); Cause is the underlying failure at that field.
type FieldMismatchError struct {
	Path  string
	Cause error
}

func (e *FieldMismatchError) Error() string {
	return fmt.Sprintf("decode: field %q: %v", e.Path, e.Cause)
}

// Unwrap exposes the field-level cause for errors.Is / errors.As.
func (e *FieldMismatchError) Unwrap() error { return e.Cause }

// IndexMismatchError reports a failing element inside an array.
type IndexMismatchError struct {
	Index int
	Cause error
}

func (e *IndexMismatchError) Error() string {
	return fmt.Sprintf("decode: index %d: %v", e.Index, e.Cause)
}

// Unwrap exposes the element-level cause for errors.Is / errors.As.
func (e *IndexMismatchError) Unwrap() error { return e.Cause }

// TransformError reports a Map transformation that rejected an otherwise
// well-formed value.
type TransformError struct {
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("decode: transform: %v", e.Cause)
}

// Unwrap exposes the transformation cause for errors.Is / errors.As.
func (e *TransformError) Unwrap() error { return e.Cause }

// typeName reports the kind label used in failure messages. JSON-shaped
// inputs collapse to the vocabulary decoders speak: string, number, boolean,
// object, array, null.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return reflect.TypeOf(v).String()
	}
}

// equal compares a literal expectation against an observed value. Numeric
// literals compare across int/float representations so that a shape written
// with Go ints matches JSON float64 payloads.
func equal(want, got any) bool {
	if wn, ok := asFloat(want); ok {
		if gn, ok := asFloat(got); ok {
			return wn == gn
		}
		return false
	}
	return reflect.DeepEqual(want, got)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
