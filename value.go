package futures

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the runtime type of a [Value].
type ValueKind uint8

const (
	// KindNil is the zero value kind.
	KindNil ValueKind = iota
	// KindBool holds a boolean.
	KindBool
	// KindInt holds a 64-bit signed integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
	// KindString holds an immutable string.
	KindString
	// KindArray holds an ordered sequence of values.
	KindArray
	// KindFunc holds an evaluator-supplied callable.
	KindFunc
	// KindFuture holds a handle to a [Future].
	KindFuture
)

// String returns a human-readable representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunc:
		return "function"
	case KindFuture:
		return "future"
	default:
		return "unknown"
	}
}

// Func is the calling convention for evaluator-supplied callables. The
// evaluator guarantees it can signal both a returned value and an error;
// a language-level raise is reported as a [*Raised] error, anything else
// indicates an internal evaluator failure. How such failures are surfaced
// to the user is the evaluator's concern, not this package's.
type Func func(args ...Value) (Value, error)

// Value is the tagged-variant runtime representation of a dynamically typed
// argument or settlement payload. The zero Value is nil.
//
// This is deliberately the minimal surface the future core needs at its API
// boundary; the language's full value model lives with the evaluator.
type Value struct {
	s    string
	arr  []Value
	fn   Func
	fut  *Future
	i    int64
	f    float64
	b    bool
	kind ValueKind
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Arr returns an array value holding the given items.
func Arr(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// FuncValue returns a function value wrapping the given callable.
// A nil callable yields the nil value.
func FuncValue(fn Func) Value {
	if fn == nil {
		return Value{}
	}
	return Value{kind: KindFunc, fn: fn}
}

// FutureValue returns a future value wrapping the given handle.
// A nil handle yields the nil value.
func FutureValue(f *Future) Value {
	if f == nil {
		return Value{}
	}
	return Value{kind: KindFuture, fut: f}
}

// Kind returns the runtime type tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNil returns true for the nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Truthy reports the value's truthiness: nil and false are falsy,
// everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Bool returns the boolean payload, and whether the value is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer payload, and whether the value is an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload, and whether the value is a float.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Str returns the string payload, and whether the value is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Arr returns the array payload, and whether the value is an array.
// The returned slice is shared, not copied.
func (v Value) Arr() ([]Value, bool) { return v.arr, v.kind == KindArray }

// Func returns the callable payload, and whether the value is a function.
func (v Value) Func() (Func, bool) { return v.fn, v.kind == KindFunc }

// Future returns the future payload, and whether the value is a future.
func (v Value) Future() (*Future, bool) { return v.fut, v.kind == KindFuture }

// Call applies the value to the given arguments. It returns a TypeError if
// the value is not a function.
func (v Value) Call(args ...Value) (Value, error) {
	if v.kind != KindFunc {
		return Value{}, newTypeError("cannot call %s value", v.kind)
	}
	return v.fn(args...)
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindFunc:
		return "<function>"
	case KindFuture:
		if v.fut != nil {
			return fmt.Sprintf("<future %d>", v.fut.id)
		}
		return "<future>"
	default:
		return "<unknown>"
	}
}
