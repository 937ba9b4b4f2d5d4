package pawc

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Op identifies a unary or binary operator.
type Op int

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpAnd
	OpOr
	OpXor
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe

	OpNot
	OpInvert
	OpNeg
	OpPlus
	OpInc
	OpDec
)

var opSymbols = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpShl: "<<", OpShr: ">>",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpAnd: "&&", OpOr: "||", OpXor: "^^",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpNot: "!", OpInvert: "~", OpNeg: "-", OpPlus: "+", OpInc: "++", OpDec: "--",
}

func (op Op) String() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "?"
}

// binaryOps maps operator token text to the binary operator it denotes.
// Compound assignment operators map to the operator they apply.
var binaryOps = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod,
	"<<": OpShl, ">>": OpShr,
	"&": OpBitAnd, "|": OpBitOr, "^": OpBitXor,
	"&&": OpAnd, "||": OpOr, "^^": OpXor,
	"==": OpEq, "!=": OpNe, "<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
	"+=": OpAdd, "-=": OpSub, "*=": OpMul, "/=": OpDiv, "%=": OpMod,
	"<<=": OpShl, ">>=": OpShr, "&=": OpBitAnd, "|=": OpBitOr, "^=": OpBitXor,
}

// ErrDivideByZero is returned by integer and decimal division or modulo by zero.
var ErrDivideByZero = errors.New("division by zero")

// OperatorError reports an operator applied to operand kinds it does not
// accept. Right is Undefined for unary operators.
type OperatorError struct {
	Op    Op
	Left  Type
	Right Type
}

func (e *OperatorError) Error() string {
	if e.Right == Undefined {
		return fmt.Sprintf("operator '%s' cannot be applied to operand of type '%s'", e.Op, e.Left)
	}
	return fmt.Sprintf("operator '%s' cannot be applied to operands of type '%s' and '%s'", e.Op, e.Left, e.Right)
}

// promoteUnary widens the small integral kinds (and char) to int.
func promoteUnary(t Type) Type {
	if t.Is(SByte | Byte | Short | UShort | Char) {
		return Int
	}
	return t
}

// arithmeticType picks the kind both operands of a numeric binary operator
// convert to. Char counts as an integral kind here.
func arithmeticType(a, b Type) (Type, bool) {
	numeric := AnyNumeric | Char
	if !a.Is(numeric) || !b.Is(numeric) {
		return Undefined, false
	}
	either := func(t Type) bool { return a == t || b == t }
	switch {
	case either(Decimal):
		if either(Float) || either(Double) {
			return Undefined, false
		}
		return Decimal, true
	case either(Double):
		return Double, true
	case either(Float):
		return Float, true
	case either(ULong):
		if a.isSigned() || b.isSigned() {
			return Undefined, false
		}
		return ULong, true
	case either(Long):
		return Long, true
	case either(UInt):
		if a.isSigned() || b.isSigned() {
			return Long, true
		}
		return UInt, true
	}
	return Int, true
}

// BinaryOp applies op to a and b.
func BinaryOp(op Op, a, b Value) (Value, error) {
	if !a.IsValid() || !b.IsValid() {
		return Value{}, errNoValue
	}
	bad := &OperatorError{Op: op, Left: a.typ, Right: b.typ}

	switch op {
	case OpAdd:
		if a.typ == String || b.typ == String {
			return StringValue(concatText(a) + concatText(b)), nil
		}
		return arithmetic(op, a, b, bad)

	case OpSub, OpMul, OpDiv, OpMod:
		return arithmetic(op, a, b, bad)

	case OpEq, OpNe:
		eq, err := equal(a, b, bad)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(eq == (op == OpEq)), nil

	case OpLt, OpGt, OpLe, OpGe:
		return relational(op, a, b, bad)

	case OpBitAnd, OpBitOr, OpBitXor:
		if a.typ == Bool && b.typ == Bool {
			return BoolValue(logical(op, a.Bool(), b.Bool())), nil
		}
		if !a.typ.isIntegral() || !b.typ.isIntegral() {
			return Value{}, bad
		}
		return arithmetic(op, a, b, bad)

	case OpShl, OpShr:
		return shift(op, a, b, bad)

	case OpAnd, OpOr, OpXor:
		if a.typ != Bool || b.typ != Bool {
			return Value{}, bad
		}
		return BoolValue(logical(op, a.Bool(), b.Bool())), nil
	}
	return Value{}, bad
}

func concatText(v Value) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func logical(op Op, x, y bool) bool {
	switch op {
	case OpBitAnd, OpAnd:
		return x && y
	case OpBitOr, OpOr:
		return x || y
	}
	return x != y
}

type integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

func integerOp[T integer](op Op, x, y T) (T, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, ErrDivideByZero
		}
		return x / y, nil
	case OpMod:
		if y == 0 {
			return 0, ErrDivideByZero
		}
		return x % y, nil
	case OpBitAnd:
		return x & y, nil
	case OpBitOr:
		return x | y, nil
	case OpBitXor:
		return x ^ y, nil
	}
	return 0, fmt.Errorf("operator '%s' is not arithmetic", op)
}

func floatOp(op Op, x, y float64) (float64, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		return x / y, nil
	case OpMod:
		return math.Mod(x, y), nil
	}
	return 0, fmt.Errorf("operator '%s' is not arithmetic", op)
}

func decimalOp(op Op, x, y decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case OpAdd:
		return x.Add(y), nil
	case OpSub:
		return x.Sub(y), nil
	case OpMul:
		return x.Mul(y), nil
	case OpDiv:
		if y.IsZero() {
			return decimal.Zero, ErrDivideByZero
		}
		return x.Div(y), nil
	case OpMod:
		if y.IsZero() {
			return decimal.Zero, ErrDivideByZero
		}
		return x.Mod(y), nil
	}
	return decimal.Zero, fmt.Errorf("operator '%s' is not arithmetic", op)
}

func arithmetic(op Op, a, b Value, bad error) (Value, error) {
	t, ok := arithmeticType(a.typ, b.typ)
	if !ok {
		return Value{}, bad
	}
	x, err := Convert(a, t)
	if err != nil {
		return Value{}, bad
	}
	y, err := Convert(b, t)
	if err != nil {
		return Value{}, bad
	}

	switch t {
	case Int:
		r, err := integerOp(op, int32(x.bits), int32(y.bits))
		return IntValue(r), err
	case UInt:
		r, err := integerOp(op, uint32(x.bits), uint32(y.bits))
		return UIntValue(r), err
	case Long:
		r, err := integerOp(op, int64(x.bits), int64(y.bits))
		return LongValue(r), err
	case ULong:
		r, err := integerOp(op, x.bits, y.bits)
		return ULongValue(r), err
	case Float:
		r, err := floatOp(op, x.f, y.f)
		return FloatValue(float32(r)), err
	case Double:
		r, err := floatOp(op, x.f, y.f)
		return DoubleValue(r), err
	case Decimal:
		r, err := decimalOp(op, x.dec, y.dec)
		return DecimalValue(r), err
	}
	return Value{}, bad
}

func equal(a, b Value, bad error) (bool, error) {
	switch {
	case a.typ == Bool && b.typ == Bool:
		return a.Bool() == b.Bool(), nil
	case a.typ == String && b.typ == String:
		if a.null || b.null {
			return a.null == b.null, nil
		}
		return a.str == b.str, nil
	}
	c, err := compare(a, b, bad)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

func relational(op Op, a, b Value, bad error) (Value, error) {
	c, err := compare(a, b, bad)
	if err != nil {
		return Value{}, err
	}
	// NaN compares false to everything
	if c == 2 {
		return BoolValue(false), nil
	}
	switch op {
	case OpLt:
		return BoolValue(c < 0), nil
	case OpGt:
		return BoolValue(c > 0), nil
	case OpLe:
		return BoolValue(c <= 0), nil
	}
	return BoolValue(c >= 0), nil
}

// compare orders two numeric operands after promotion. It returns 2 when
// either side is NaN.
func compare(a, b Value, bad error) (int, error) {
	t, ok := arithmeticType(a.typ, b.typ)
	if !ok {
		return 0, bad
	}
	x, err := Convert(a, t)
	if err != nil {
		return 0, bad
	}
	y, err := Convert(b, t)
	if err != nil {
		return 0, bad
	}
	switch {
	case t == Decimal:
		return x.dec.Cmp(y.dec), nil
	case t == Float || t == Double:
		if math.IsNaN(x.f) || math.IsNaN(y.f) {
			return 2, nil
		}
		return order(x.f, y.f), nil
	case t.isSigned():
		return order(int64(x.bits), int64(y.bits)), nil
	}
	return order(x.bits, y.bits), nil
}

func order[T int64 | uint64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func shift(op Op, a, b Value, bad error) (Value, error) {
	if !a.typ.isIntegral() || !b.typ.Is(SByte|Byte|Short|UShort|Char|Int) {
		return Value{}, bad
	}
	t := promoteUnary(a.typ)
	x, _ := Convert(a, t)
	count := uint(b.Int64())
	if t.bitSize() == 32 {
		count &= 31
	} else {
		count &= 63
	}
	left := op == OpShl
	switch t {
	case Int:
		if left {
			return IntValue(int32(x.bits) << count), nil
		}
		return IntValue(int32(x.bits) >> count), nil
	case UInt:
		if left {
			return UIntValue(uint32(x.bits) << count), nil
		}
		return UIntValue(uint32(x.bits) >> count), nil
	case Long:
		if left {
			return LongValue(int64(x.bits) << count), nil
		}
		return LongValue(int64(x.bits) >> count), nil
	}
	if left {
		return ULongValue(x.bits << count), nil
	}
	return ULongValue(x.bits >> count), nil
}

// UnaryOp applies a prefix operator to v. OpInc and OpDec return the
// incremented value in v's own kind.
func UnaryOp(op Op, v Value) (Value, error) {
	if !v.IsValid() {
		return Value{}, errNoValue
	}
	bad := &OperatorError{Op: op, Left: v.typ}

	switch op {
	case OpNot:
		if v.typ != Bool {
			return Value{}, bad
		}
		return BoolValue(!v.Bool()), nil

	case OpInvert:
		if !v.typ.isIntegral() {
			return Value{}, bad
		}
		t := promoteUnary(v.typ)
		x, _ := Convert(v, t)
		return fromUint64(^x.bits, t), nil

	case OpNeg, OpPlus:
		if !v.typ.Is(AnyNumeric | Char) {
			return Value{}, bad
		}
		t := promoteUnary(v.typ)
		if op == OpPlus {
			return Convert(v, t)
		}
		switch t {
		case ULong:
			return Value{}, bad
		case UInt:
			t = Long
		}
		x, _ := Convert(v, t)
		switch t {
		case Float, Double:
			x.f = -x.f
			return x, nil
		case Decimal:
			return DecimalValue(x.dec.Neg()), nil
		}
		return fromInt64(-int64(x.bits), t), nil

	case OpInc, OpDec:
		return step(v, op == OpInc, bad)
	}
	return Value{}, bad
}

func step(v Value, up bool, bad error) (Value, error) {
	delta := int64(1)
	if !up {
		delta = -1
	}
	switch {
	case v.typ == Float || v.typ == Double:
		v.f += float64(delta)
		if v.typ == Float {
			v.f = float64(float32(v.f))
		}
		return v, nil
	case v.typ == Decimal:
		return DecimalValue(v.dec.Add(decimal.NewFromInt(delta))), nil
	case v.typ.isIntegral():
		return fromUint64(v.bits+uint64(delta), v.typ), nil
	}
	return Value{}, bad
}
