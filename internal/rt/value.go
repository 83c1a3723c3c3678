package rt

import (
	"fmt"
	"math"
)

// Kind discriminates the argument and result values crossing the runtime
// call boundary.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindUint
	KindFloat
	KindPtr
)

// Value is a single argument or result at the runtime call boundary. C's
// variadic calls arrive as a []Value with each element already typed, so
// the formatter and the dispatcher never guess at register contents.
type Value struct {
	kind Kind
	bits uint64
}

// None is the absent value, used as the result of void functions.
func None() Value { return Value{} }

// Int wraps a signed integer.
func Int(v int64) Value { return Value{kind: KindInt, bits: uint64(v)} }

// Uint wraps an unsigned integer.
func Uint(v uint64) Value { return Value{kind: KindUint, bits: v} }

// Float wraps a double.
func Float(v float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(v)} }

// Ptr wraps a guest address.
func Ptr(addr uint64) Value { return Value{kind: KindPtr, bits: addr} }

func (v Value) Kind() Kind { return v.kind }

// Int returns the value as a signed integer, converting floats by
// truncation the way a C cast would.
func (v Value) Int() int64 {
	if v.kind == KindFloat {
		return int64(math.Float64frombits(v.bits))
	}
	return int64(v.bits)
}

// Uint returns the value as an unsigned integer.
func (v Value) Uint() uint64 {
	if v.kind == KindFloat {
		return uint64(int64(math.Float64frombits(v.bits)))
	}
	return v.bits
}

// Float returns the value as a double, converting integers exactly as C
// int-to-double conversion would.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return math.Float64frombits(v.bits)
	case KindInt:
		return float64(int64(v.bits))
	default:
		return float64(v.bits)
	}
}

// Ptr returns the value as a guest address.
func (v Value) Ptr() uint64 { return v.bits }

// IsNull reports whether a pointer value is NULL.
func (v Value) IsNull() bool { return v.bits == 0 }

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "void"
	case KindInt:
		return fmt.Sprintf("%d", int64(v.bits))
	case KindUint:
		return fmt.Sprintf("%du", v.bits)
	case KindFloat:
		return fmt.Sprintf("%g", math.Float64frombits(v.bits))
	case KindPtr:
		return FormatHex(v.bits)
	}
	return "?"
}

// Arg returns args[i], or None when the call site passed fewer values.
// Runtime functions use it so short argument lists read as zeros instead
// of panicking, matching what a C callee would see in junk registers.
func Arg(args []Value, i int) Value {
	if i < 0 || i >= len(args) {
		return None()
	}
	return args[i]
}
