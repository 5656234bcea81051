package ports

import "math"

// Value is one argument or result slot of a foreign call: a 64-bit word for
// primitives plus an optional object reference. A Value is only meaningful
// together with the type token it was marshalled under.
type Value struct {
	Bits uint64
	Ref  Object
}

// BoolValue encodes a boolean slot.
func BoolValue(v bool) Value {
	if v {
		return Value{Bits: 1}
	}
	return Value{}
}

// Int8Value encodes a byte slot.
func Int8Value(v int8) Value {
	return Value{Bits: uint64(uint8(v))}
}

// CharValue encodes a char slot (an unsigned 16-bit code unit).
func CharValue(v uint16) Value {
	return Value{Bits: uint64(v)}
}

// Int16Value encodes a short slot.
func Int16Value(v int16) Value {
	return Value{Bits: uint64(uint16(v))}
}

// Int32Value encodes an int slot.
func Int32Value(v int32) Value {
	return Value{Bits: uint64(uint32(v))}
}

// Int64Value encodes a long slot.
func Int64Value(v int64) Value {
	return Value{Bits: uint64(v)}
}

// Float32Value encodes a float slot.
func Float32Value(v float32) Value {
	return Value{Bits: uint64(math.Float32bits(v))}
}

// Float64Value encodes a double slot.
func Float64Value(v float64) Value {
	return Value{Bits: math.Float64bits(v)}
}

// RefValue encodes an object reference slot. The zero Object encodes null.
func RefValue(o Object) Value {
	return Value{Ref: o}
}

// Bool decodes a boolean slot.
func (v Value) Bool() bool { return v.Bits != 0 }

// Int8 decodes a byte slot.
func (v Value) Int8() int8 { return int8(uint8(v.Bits)) }

// Char decodes a char slot.
func (v Value) Char() uint16 { return uint16(v.Bits) }

// Int16 decodes a short slot.
func (v Value) Int16() int16 { return int16(uint16(v.Bits)) }

// Int32 decodes an int slot.
func (v Value) Int32() int32 { return int32(uint32(v.Bits)) }

// Int64 decodes a long slot.
func (v Value) Int64() int64 { return int64(v.Bits) }

// Float32 decodes a float slot.
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.Bits)) }

// Float64 decodes a double slot.
func (v Value) Float64() float64 { return math.Float64frombits(v.Bits) }
