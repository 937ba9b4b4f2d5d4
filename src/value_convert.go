package pawc

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var errNoValue = errors.New("expression has no value")

// ConversionError reports that a value of one kind cannot become another.
type ConversionError struct {
	From  Type
	To    Type
	Value string
}

func (e *ConversionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("cannot convert %s %q to %s", e.From, e.Value, e.To)
	}
	return fmt.Sprintf("cannot convert from %s to %s", e.From, e.To)
}

// Convert changes v to kind to the way an explicit cast does. Numeric
// conversions truncate and wrap; strings are parsed; everything formats to a
// string. Char never converts to or from bool or a float kind, and the null
// string only converts to string.
func Convert(v Value, to Type) (Value, error) {
	if !v.IsValid() {
		return Value{}, errNoValue
	}
	if !to.IsPrimitive() {
		return Value{}, &ConversionError{From: v.typ, To: to}
	}
	if v.typ == to {
		return v, nil
	}
	if to == String {
		return StringValue(v.String()), nil
	}

	fail := &ConversionError{From: v.typ, To: to}
	switch v.typ {
	case String:
		if v.null {
			return Value{}, fail
		}
		return parseValue(v.str, to)

	case Bool:
		if to == Char {
			return Value{}, fail
		}
		if v.Bool() {
			return fromInt64(1, to), nil
		}
		return fromInt64(0, to), nil

	case Char:
		if to == Bool || to.Is(AnyFloat) {
			return Value{}, fail
		}
		return fromUint64(v.bits, to), nil

	case Float, Double:
		if to == Char {
			return Value{}, fail
		}
		return fromFloat(v.f, to)

	case Decimal:
		if to == Char {
			return Value{}, fail
		}
		return fromDecimal(v.dec, to), nil
	}

	if v.typ.isSigned() {
		return fromInt64(int64(v.bits), to), nil
	}
	return fromUint64(v.bits, to), nil
}

func fromInt64(i int64, to Type) Value {
	switch to {
	case Bool:
		return BoolValue(i != 0)
	case Float:
		return FloatValue(float32(i))
	case Double:
		return DoubleValue(float64(i))
	case Decimal:
		return DecimalValue(decimal.NewFromInt(i))
	}
	return fromUint64(uint64(i), to)
}

// fromUint64 stores raw integer bits into an integral kind, wrapping to its
// width. Float kinds read the bits as unsigned.
func fromUint64(u uint64, to Type) Value {
	switch to {
	case Bool:
		return BoolValue(u != 0)
	case Char:
		return CharValue(uint16(u))
	case SByte:
		return SByteValue(int8(u))
	case Byte:
		return ByteValue(uint8(u))
	case Short:
		return ShortValue(int16(u))
	case UShort:
		return UShortValue(uint16(u))
	case Int:
		return IntValue(int32(u))
	case UInt:
		return UIntValue(uint32(u))
	case Long:
		return LongValue(int64(u))
	case ULong:
		return ULongValue(u)
	case Float:
		return FloatValue(float32(u))
	case Double:
		return DoubleValue(float64(u))
	case Decimal:
		return DecimalValue(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
	}
	return Value{}
}

func fromFloat(f float64, to Type) (Value, error) {
	switch to {
	case Bool:
		return BoolValue(f != 0), nil
	case Float:
		return FloatValue(float32(f)), nil
	case Double:
		return DoubleValue(f), nil
	case Decimal:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, &ConversionError{From: Double, To: Decimal, Value: formatFloat(f, 64)}
		}
		return DecimalValue(decimal.NewFromFloat(f)), nil
	}
	if math.IsNaN(f) {
		return fromInt64(0, to), nil
	}
	if f < 0 || to.isSigned() {
		return fromInt64(int64(f), to), nil
	}
	return fromUint64(uint64(f), to), nil
}

func fromDecimal(d decimal.Decimal, to Type) Value {
	switch to {
	case Bool:
		return BoolValue(!d.IsZero())
	case Float:
		return FloatValue(float32(d.InexactFloat64()))
	case Double:
		return DoubleValue(d.InexactFloat64())
	}
	if d.Sign() >= 0 && to == ULong {
		return ULongValue(d.BigInt().Uint64())
	}
	return fromInt64(d.IntPart(), to)
}

// parseValue reads string text as kind to.
func parseValue(s string, to Type) (Value, error) {
	text := strings.TrimSpace(s)
	fail := &ConversionError{From: String, To: to, Value: s}
	switch {
	case to == Bool:
		switch {
		case strings.EqualFold(text, "true"):
			return BoolValue(true), nil
		case strings.EqualFold(text, "false"):
			return BoolValue(false), nil
		}
		return Value{}, fail
	case to == Char:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r > 0xFFFF {
			return Value{}, fail
		}
		return CharValue(uint16(r)), nil
	case to.isSigned():
		i, err := strconv.ParseInt(text, 10, to.bitSize())
		if err != nil {
			return Value{}, fail
		}
		return fromInt64(i, to), nil
	case to.isUnsigned():
		u, err := strconv.ParseUint(text, 10, to.bitSize())
		if err != nil {
			return Value{}, fail
		}
		return fromUint64(u, to), nil
	case to == Float || to == Double:
		f, err := strconv.ParseFloat(text, to.bitSize())
		if err != nil {
			return Value{}, fail
		}
		return fromFloat(f, to)
	case to == Decimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return Value{}, fail
		}
		return DecimalValue(d), nil
	}
	return Value{}, fail
}

// literalValue turns a literal token into a value of kind to. Booleans only
// come from boolean literals and strings only from string or null literals;
// numbers honor the literal's base and reject text that overflows the
// target width.
func literalValue(tok Token, to Type) (Value, error) {
	fail := &ConversionError{From: tok.LitType, To: to, Value: tok.Text}
	switch tok.Literal {
	case LitNull:
		if to == String {
			return NullString(), nil
		}
		return Value{}, fail

	case LitBoolean:
		if to == Bool {
			return BoolValue(tok.Text == "true"), nil
		}
		return Value{}, fail

	case LitString:
		if to == String {
			return StringValue(tok.Text), nil
		}
		return Value{}, fail

	case LitChar:
		if to == String || to == Bool {
			return Value{}, fail
		}
		r, _ := utf8.DecodeRuneInString(tok.Text)
		return fromUint64(uint64(r), to), nil

	case LitNumber:
		return numberLiteral(tok, to, fail)
	}
	return Value{}, fail
}

func numberLiteral(tok Token, to Type, fail error) (Value, error) {
	text := tok.Text
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimLeft(text, "+-")

	if tok.Base == 10 {
		switch {
		case to == Float || to == Double:
			f, err := strconv.ParseFloat(tok.Text, to.bitSize())
			if err != nil {
				return Value{}, fail
			}
			return fromFloat(f, to)
		case to == Decimal:
			d, err := decimal.NewFromString(tok.Text)
			if err != nil {
				return Value{}, fail
			}
			return DecimalValue(d), nil
		case strings.Contains(text, "."):
			return Value{}, fail
		case to.isSigned():
			i, err := strconv.ParseInt(tok.Text, 10, to.bitSize())
			if err != nil {
				return Value{}, fail
			}
			return fromInt64(i, to), nil
		case to.isUnsigned() || to == Char:
			if negative {
				return Value{}, fail
			}
			u, err := strconv.ParseUint(text, 10, to.bitSize())
			if err != nil {
				return Value{}, fail
			}
			return fromUint64(u, to), nil
		}
		return Value{}, fail
	}

	// Hex, octal and binary digits may fill the whole width, so 0xFFFFFFFF
	// is int -1 rather than an overflow.
	bits := to.bitSize()
	if to.Is(AnyFloat) {
		bits = 64
	}
	u, err := strconv.ParseUint(text, tok.Base, bits)
	if err != nil || to == Bool || to == String {
		return Value{}, fail
	}
	if negative {
		u = -u
	}
	if to.Is(AnyFloat) {
		return fromInt64(int64(u), to), nil
	}
	return fromUint64(u, to), nil
}
