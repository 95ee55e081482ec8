// Package decode provides composable validators that convert untyped effect
// results into values application code can trust. A Decoder is a pure
// function from an arbitrary input value to a decoded value or a structured
// failure describing the mismatch and where it occurred.
//
// Decoders compose: Object combines field decoders, Array applies an item
// decoder per element, Map post-processes a decoded value. A failure at any
// level short-circuits the whole decode with a path-qualified error, so a
// handler can report exactly which part of a payload was malformed.
//
// Decoders never perform I/O and never consult external state; decoding the
// same input always yields the same outcome.
package decode

import (
	"fmt"
	"sort"
)

// Decoder validates and converts a single untyped value. A nil error means
// the returned value is the decoded result; a non-nil error is always one of
// the failure types in this package (TypeMismatchError, FieldMismatchError,
// IndexMismatchError, ValueMismatchError, TransformError).
type Decoder func(v any) (any, error)

// Kind names the primitive categories a value can be checked against.
type Kind string

// Primitive kinds supported by Primitive.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Primitive returns a decoder that succeeds iff the input matches the named
// primitive kind. Numbers accept the numeric representations produced by
// encoding/json (float64) as well as Go int and int64 values.
func Primitive(kind Kind) Decoder {
	return func(v any) (any, error) {
		switch kind {
		case KindString:
			if s, ok := v.(string); ok {
				return s, nil
			}
		case KindNumber:
			switch n := v.(type) {
			case float64:
				return n, nil
			case int:
				return n, nil
			case int64:
				return n, nil
			case float32:
				return n, nil
			}
		case KindBoolean:
			if b, ok := v.(bool); ok {
				return b, nil
			}
		default:
			return nil, &TypeMismatchError{Expected: string(kind), Actual: typeName(v)}
		}
		return nil, &TypeMismatchError{Expected: string(kind), Actual: typeName(v)}
	}
}

// String decodes a string primitive.
func String() Decoder { return Primitive(KindString) }

// Number decodes a numeric primitive.
func Number() Decoder { return Primitive(KindNumber) }

// Boolean decodes a boolean primitive.
func Boolean() Decoder { return Primitive(KindBoolean) }

// Literal returns a decoder that succeeds iff the input equals want exactly.
// Object shapes use this implicitly for non-Decoder field values.
func Literal(want any) Decoder {
	return func(v any) (any, error) {
		if equal(want, v) {
			return v, nil
		}
		return nil, &ValueMismatchError{Expected: want, Actual: v}
	}
}

// Object returns a decoder for keyed structures. The shape maps field names
// to either a Decoder or a literal value (which must match exactly). The
// input must be a map[string]any; the result is a new map holding the
// decoded fields. Decoding stops at the first failing field, reporting a
// FieldMismatchError whose path accumulates through nested objects
// ("address.city"). A field absent from the input decodes as nil, so
// Optional field decoders accept absence while required ones reject it.
func Object(shape map[string]any) Decoder {
	// Stable field order keeps the first-failure deterministic.
	names := make([]string, 0, len(shape))
	for name := range shape {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(map[string]Decoder, len(shape))
	for name, entry := range shape {
		if d, ok := entry.(Decoder); ok {
			fields[name] = d
		} else {
			fields[name] = Literal(entry)
		}
	}

	return func(v any) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &TypeMismatchError{Expected: "object", Actual: typeName(v)}
		}
		out := make(map[string]any, len(fields))
		for _, name := range names {
			decoded, err := fields[name](m[name])
			if err != nil {
				return nil, fieldFailure(name, err)
			}
			out[name] = decoded
		}
		return out, nil
	}
}

// Array returns a decoder for sequences. The input must be a []any; every
// element is decoded with item, stopping at the first failing index.
func Array(item Decoder) Decoder {
	return func(v any) (any, error) {
		s, ok := v.([]any)
		if !ok {
			return nil, &TypeMismatchError{Expected: "array", Actual: typeName(v)}
		}
		out := make([]any, len(s))
		for i, el := range s {
			decoded, err := item(el)
			if err != nil {
				return nil, &IndexMismatchError{Index: i, Cause: err}
			}
			out[i] = decoded
		}
		return out, nil
	}
}

// Optional wraps a decoder so that an absent or null input succeeds with
// nil; any other input delegates to d.
func Optional(d Decoder) Decoder {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return d(v)
	}
}

// Nullable is an alias for Optional: JSON null and an absent field are
// indistinguishable to a decoder, both arrive as nil.
func Nullable(d Decoder) Decoder { return Optional(d) }

// Map decodes with d, then transforms the decoded value with fn. An error
// from fn is reported as a decode failure (TransformError).
func Map(d Decoder, fn func(any) (any, error)) Decoder {
	return func(v any) (any, error) {
		decoded, err := d(v)
		if err != nil {
			return nil, err
		}
		out, err := fn(decoded)
		if err != nil {
			return nil, &TransformError{Cause: err}
		}
		return out, nil
	}
}

// Into runs d against v and asserts the decoded result to T.
func Into[T any](d Decoder, v any) (T, error) {
	var zero T
	decoded, err := d(v)
	if err != nil {
		return zero, err
	}
	typed, ok := decoded.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: fmt.Sprintf("%T", zero), Actual: typeName(decoded)}
	}
	return typed, nil
}

// fieldFailure wraps a field-level cause, extending the path when the cause
// is itself a field failure from a nested object.
func fieldFailure(name string, cause error) error {
	if fm, ok := cause.(*FieldMismatchError); ok {
		return &FieldMismatchError{Path: name + "." + fm.Path, Cause: fm.Cause}
	}
	return &FieldMismatchError{Path: name, Cause: cause}
}
