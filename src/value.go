package pawc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Value is a runtime scalar. The zero Value carries no value and reports
// type Undefined; every other Value holds exactly one primitive kind.
type Value struct {
	typ  Type
	bits uint64 // bool, char and integer kinds; signed kinds are sign-extended
	f    float64
	dec  decimal.Decimal
	str  string
	null bool
}

// BoolValue returns a bool Value.
func BoolValue(b bool) Value {
	v := Value{typ: Bool}
	if b {
		v.bits = 1
	}
	return v
}

// CharValue returns a char holding the UTF-16 code unit c.
func CharValue(c uint16) Value { return Value{typ: Char, bits: uint64(c)} }

// StringValue returns a non-null string.
func StringValue(s string) Value { return Value{typ: String, str: s} }

// NullString returns the null string.
func NullString() Value { return Value{typ: String, null: true} }

// SByteValue returns an sbyte Value.
func SByteValue(i int8) Value { return Value{typ: SByte, bits: uint64(int64(i))} }

// ByteValue returns a byte Value.
func ByteValue(u uint8) Value { return Value{typ: Byte, bits: uint64(u)} }

// ShortValue returns a short Value.
func ShortValue(i int16) Value { return Value{typ: Short, bits: uint64(int64(i))} }

// UShortValue returns a ushort Value.
func UShortValue(u uint16) Value { return Value{typ: UShort, bits: uint64(u)} }

// IntValue returns an int Value.
func IntValue(i int32) Value { return Value{typ: Int, bits: uint64(int64(i))} }

// UIntValue returns a uint Value.
func UIntValue(u uint32) Value { return Value{typ: UInt, bits: uint64(u)} }

// LongValue returns a long Value.
func LongValue(i int64) Value { return Value{typ: Long, bits: uint64(i)} }

// ULongValue returns a ulong Value.
func ULongValue(u uint64) Value { return Value{typ: ULong, bits: u} }

// FloatValue returns a float Value.
func FloatValue(f float32) Value { return Value{typ: Float, f: float64(f)} }

// DoubleValue returns a double Value.
func DoubleValue(f float64) Value { return Value{typ: Double, f: f} }

// DecimalValue returns a decimal Value.
func DecimalValue(d decimal.Decimal) Value {
	return Value{typ: Decimal, dec: d}
}

// Type returns the kind held by v, or Undefined for the zero Value.
func (v Value) Type() Type { return v.typ }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.typ != Undefined }

// IsNull reports whether v is the null string.
func (v Value) IsNull() bool { return v.typ == String && v.null }

// Bool reports whether v is non-zero.
func (v Value) Bool() bool { return v.bits != 0 }

// Char returns the char code unit held by v.
func (v Value) Char() uint16 { return uint16(v.bits) }

// Str returns the string payload; the null string yields "".
func (v Value) Str() string { return v.str }

// Int64 returns v as a signed integer. Floats truncate toward zero.
func (v Value) Int64() int64 {
	switch {
	case v.typ.Is(Float | Double):
		return int64(v.f)
	case v.typ == Decimal:
		return v.dec.IntPart()
	default:
		return int64(v.bits)
	}
}

// Uint64 returns v as an unsigned integer. Negative values wrap.
func (v Value) Uint64() uint64 {
	switch {
	case v.typ.Is(Float | Double):
		if v.f < 0 {
			return uint64(int64(v.f))
		}
		return uint64(v.f)
	case v.typ == Decimal:
		if v.dec.Sign() < 0 {
			return uint64(v.dec.IntPart())
		}
		return v.dec.BigInt().Uint64()
	default:
		return v.bits
	}
}

// Float64 returns v as a float64.
func (v Value) Float64() float64 {
	switch {
	case v.typ.Is(Float | Double):
		return v.f
	case v.typ == Decimal:
		return v.dec.InexactFloat64()
	case v.typ.isSigned():
		return float64(int64(v.bits))
	default:
		return float64(v.bits)
	}
}

// Decimal returns v as a decimal.
func (v Value) Decimal() decimal.Decimal {
	switch {
	case v.typ == Decimal:
		return v.dec
	case v.typ.Is(Float | Double):
		return decimal.NewFromFloat(v.f)
	case v.typ.isSigned():
		return decimal.NewFromInt(int64(v.bits))
	default:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.bits), 0)
	}
}

// String formats v for display. The null string prints as "null".
func (v Value) String() string {
	switch v.typ {
	case Undefined:
		return "<no value>"
	case Bool:
		return strconv.FormatBool(v.Bool())
	case Char:
		return string(rune(v.Char()))
	case String:
		if v.null {
			return "null"
		}
		return v.str
	case Float:
		return formatFloat(v.f, 32)
	case Double:
		return formatFloat(v.f, 64)
	case Decimal:
		return v.dec.String()
	}
	if v.typ.isSigned() {
		return strconv.FormatInt(int64(v.bits), 10)
	}
	return strconv.FormatUint(v.bits, 10)
}

func formatFloat(f float64, bitSize int) string {
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-5 && abs < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// Equal reports whether v and o hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case Undefined:
		return true
	case String:
		return v.null == o.null && v.str == o.str
	case Float, Double:
		return v.f == o.f
	case Decimal:
		return v.dec.Equal(o.dec)
	default:
		return v.bits == o.bits
	}
}

// Interface returns the Go representation of v: bool, rune, string, the sized
// integer and float types, decimal.Decimal, or nil for the null string and
// the zero Value.
func (v Value) Interface() interface{} {
	switch v.typ {
	case Bool:
		return v.Bool()
	case Char:
		return rune(v.Char())
	case String:
		if v.null {
			return nil
		}
		return v.str
	case SByte:
		return int8(v.bits)
	case Byte:
		return uint8(v.bits)
	case Short:
		return int16(v.bits)
	case UShort:
		return uint16(v.bits)
	case Int:
		return int32(v.bits)
	case UInt:
		return uint32(v.bits)
	case Long:
		return int64(v.bits)
	case ULong:
		return v.bits
	case Float:
		return float32(v.f)
	case Double:
		return v.f
	case Decimal:
		return v.dec
	}
	return nil
}

// ValueOf wraps a Go scalar. Plain int maps to int, matching the default
// kind of an integer literal.
func ValueOf(x interface{}) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case nil:
		return NullString(), nil
	case bool:
		return BoolValue(t), nil
	case rune:
		if t < 0 || t > 0xFFFF {
			return Value{}, fmt.Errorf("rune %U does not fit in a char", t)
		}
		return CharValue(uint16(t)), nil
	case string:
		return StringValue(t), nil
	case int8:
		return SByteValue(t), nil
	case uint8:
		return ByteValue(t), nil
	case int16:
		return ShortValue(t), nil
	case uint16:
		return UShortValue(t), nil
	case int:
		if t < math.MinInt32 || t > math.MaxInt32 {
			return LongValue(int64(t)), nil
		}
		return IntValue(int32(t)), nil
	case uint32:
		return UIntValue(t), nil
	case int64:
		return LongValue(t), nil
	case uint64:
		return ULongValue(t), nil
	case uint:
		return ULongValue(uint64(t)), nil
	case float32:
		return FloatValue(t), nil
	case float64:
		return DoubleValue(t), nil
	case decimal.Decimal:
		return DecimalValue(t), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", x)
}

// ZeroValue is the value a variable of kind t holds before assignment.
func ZeroValue(t Type) Value {
	switch t {
	case Bool:
		return BoolValue(false)
	case Char:
		return CharValue(0)
	case String:
		return NullString()
	case Float, Double:
		return Value{typ: t}
	case Decimal:
		return DecimalValue(decimal.Zero)
	}
	if t.IsPrimitive() {
		return Value{typ: t}
	}
	return Value{}
}

// SampleValue is the representative value analysis feeds to operators and
// conversions to learn whether they apply and what they produce.
func SampleValue(t Type) Value {
	switch t {
	case Bool:
		return BoolValue(true)
	case Char:
		return CharValue(5)
	case String:
		return StringValue("5")
	case Float, Double:
		return Value{typ: t, f: 5}
	case Decimal:
		return DecimalValue(decimal.NewFromInt(5))
	}
	if t.IsPrimitive() {
		return Value{typ: t, bits: 5}
	}
	return Value{}
}
