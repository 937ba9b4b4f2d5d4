package pawc

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		to       Type
		expected string
	}{
		{"int wraps to byte", IntValue(300), Byte, "44"},
		{"negative int to uint", IntValue(-1), UInt, "4294967295"},
		{"double truncates", DoubleValue(3.9), Int, "3"},
		{"negative double truncates", DoubleValue(-3.9), Int, "-3"},
		{"string parses int", StringValue("42"), Int, "42"},
		{"string parses bool", StringValue(" TRUE "), Bool, "true"},
		{"bool to int", BoolValue(true), Int, "1"},
		{"char to int", CharValue('A'), Int, "65"},
		{"int to char", IntValue(66), Char, "B"},
		{"int formats", IntValue(7), String, "7"},
		{"double to decimal", DoubleValue(2.5), Decimal, "2.5"},
		{"decimal to long", DecimalValue(decimal.RequireFromString("-7.8")), Long, "-7"},
		{"null stays null", NullString(), String, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Convert(tt.value, tt.to)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if v.Type() != tt.to {
				t.Errorf("Expected type %s, got %s", tt.to, v.Type())
			}
			if v.String() != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, v.String())
			}
		})
	}
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		to    Type
	}{
		{"text to int", StringValue("abc"), Int},
		{"null to int", NullString(), Int},
		{"bool to char", BoolValue(true), Char},
		{"char to bool", CharValue('x'), Bool},
		{"char to double", CharValue('x'), Double},
		{"double to char", DoubleValue(1), Char},
		{"overflowing text", StringValue("300"), Byte},
		{"no value", Value{}, Int},
		{"mask target", IntValue(1), AnyInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(tt.value, tt.to); err == nil {
				t.Errorf("Expected converting %s to %s to fail", tt.value.Type(), tt.to)
			}
		})
	}
}

func TestCanWiden(t *testing.T) {
	tests := []struct {
		from, to Type
		expected bool
	}{
		{Int, Int, true},
		{Byte, Int, true},
		{SByte, Short, true},
		{Byte, UShort, true},
		{SByte, UShort, false},
		{Int, Byte, false},
		{Int, Long, true},
		{UInt, Long, true},
		{ULong, Long, false},
		{Int, UInt, false},
		{Int, Float, true},
		{Long, Float, false},
		{Int, Double, true},
		{Float, Double, true},
		{Double, Float, false},
		{Int, Decimal, true},
		{Double, Decimal, true},
		{Decimal, Double, false},
		{Char, Int, false},
		{Bool, Int, false},
		{Int, String, false},
	}

	for _, tt := range tests {
		if got := CanWiden(tt.from, tt.to); got != tt.expected {
			t.Errorf("CanWiden(%s, %s): expected %v, got %v", tt.from, tt.to, tt.expected, got)
		}
	}
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		a, b     Value
		typ      Type
		expected string
	}{
		{"int division truncates", OpDiv, IntValue(7), IntValue(2), Int, "3"},
		{"int modulo", OpMod, IntValue(7), IntValue(3), Int, "1"},
		{"int overflow wraps", OpAdd, IntValue(math.MaxInt32), IntValue(1), Int, "-2147483648"},
		{"small ints promote", OpAdd, ByteValue(200), ByteValue(100), Int, "300"},
		{"int and long", OpMul, IntValue(3), LongValue(4), Long, "12"},
		{"uint and int", OpSub, UIntValue(1), IntValue(2), Long, "-1"},
		{"int and double", OpAdd, IntValue(1), DoubleValue(0.5), Double, "1.5"},
		{"decimal", OpAdd, DecimalValue(decimal.RequireFromString("0.1")), DecimalValue(decimal.RequireFromString("0.2")), Decimal, "0.3"},
		{"string concat", OpAdd, StringValue("a"), IntValue(1), String, "a1"},
		{"concat null", OpAdd, NullString(), StringValue("x"), String, "x"},
		{"concat bool", OpAdd, BoolValue(true), StringValue("!"), String, "true!"},
		{"mixed compare", OpLt, IntValue(1), DoubleValue(1.5), Bool, "true"},
		{"string equality", OpEq, StringValue("a"), StringValue("a"), Bool, "true"},
		{"null equality", OpEq, NullString(), StringValue(""), Bool, "false"},
		{"bool xor", OpXor, BoolValue(true), BoolValue(false), Bool, "true"},
		{"bitwise on bools", OpBitAnd, BoolValue(true), BoolValue(false), Bool, "false"},
		{"bitwise or", OpBitOr, IntValue(5), IntValue(2), Int, "7"},
		{"shift left", OpShl, IntValue(1), IntValue(4), Int, "16"},
		{"shift right keeps sign", OpShr, IntValue(-8), IntValue(1), Int, "-4"},
		{"double division by zero", OpDiv, DoubleValue(1), DoubleValue(0), Double, "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := BinaryOp(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("BinaryOp failed: %v", err)
			}
			if v.Type() != tt.typ {
				t.Errorf("Expected type %s, got %s", tt.typ, v.Type())
			}
			if v.String() != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, v.String())
			}
		})
	}
}

func TestBinaryOpErrors(t *testing.T) {
	t.Run("division by zero", func(t *testing.T) {
		for _, op := range []Op{OpDiv, OpMod} {
			_, err := BinaryOp(op, IntValue(1), IntValue(0))
			if !errors.Is(err, ErrDivideByZero) {
				t.Errorf("Expected ErrDivideByZero for %s, got %v", op, err)
			}
		}
		_, err := BinaryOp(OpDiv, DecimalValue(decimal.NewFromInt(1)), DecimalValue(decimal.Zero))
		if !errors.Is(err, ErrDivideByZero) {
			t.Errorf("Expected ErrDivideByZero for decimal, got %v", err)
		}
	})

	tests := []struct {
		name string
		op   Op
		a, b Value
	}{
		{"bool arithmetic", OpAdd, BoolValue(true), IntValue(1)},
		{"decimal and double", OpAdd, DecimalValue(decimal.Zero), DoubleValue(1)},
		{"ulong and signed", OpAdd, ULongValue(1), IntValue(1)},
		{"logical on ints", OpAnd, IntValue(1), IntValue(1)},
		{"shift by long", OpShl, IntValue(1), LongValue(1)},
		{"string minus", OpSub, StringValue("a"), StringValue("b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BinaryOp(tt.op, tt.a, tt.b)
			var oe *OperatorError
			if !errors.As(err, &oe) {
				t.Fatalf("Expected *OperatorError, got %v", err)
			}
			if oe.Op != tt.op {
				t.Errorf("Expected operator %s, got %s", tt.op, oe.Op)
			}
		})
	}
}

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		value    Value
		typ      Type
		expected string
	}{
		{"negate", OpNeg, IntValue(5), Int, "-5"},
		{"negate uint", OpNeg, UIntValue(3), Long, "-3"},
		{"negate byte", OpNeg, ByteValue(3), Int, "-3"},
		{"invert", OpInvert, IntValue(0), Int, "-1"},
		{"not", OpNot, BoolValue(false), Bool, "true"},
		{"plus promotes", OpPlus, ShortValue(4), Int, "4"},
		{"increment wraps", OpInc, ByteValue(255), Byte, "0"},
		{"decrement double", OpDec, DoubleValue(0.5), Double, "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := UnaryOp(tt.op, tt.value)
			if err != nil {
				t.Fatalf("UnaryOp failed: %v", err)
			}
			if v.Type() != tt.typ || v.String() != tt.expected {
				t.Errorf("Expected %s '%s', got %s '%s'", tt.typ, tt.expected, v.Type(), v.String())
			}
		})
	}

	for _, bad := range []struct {
		op    Op
		value Value
	}{
		{OpNot, IntValue(1)},
		{OpNeg, ULongValue(1)},
		{OpInvert, DoubleValue(1)},
		{OpNeg, StringValue("x")},
	} {
		if _, err := UnaryOp(bad.op, bad.value); err == nil {
			t.Errorf("Expected %s on %s to fail", bad.op, bad.value.Type())
		}
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{BoolValue(true), "true"},
		{CharValue('z'), "z"},
		{NullString(), "null"},
		{StringValue(""), ""},
		{DoubleValue(0.5), "0.5"},
		{DoubleValue(1e20), "1e+20"},
		{FloatValue(0.1), "0.1"},
		{SByteValue(-5), "-5"},
		{ULongValue(math.MaxUint64), "18446744073709551615"},
		{Value{}, "<no value>"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, got)
		}
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in  interface{}
		typ Type
	}{
		{true, Bool},
		{'x', Char},
		{"s", String},
		{nil, String},
		{42, Int},
		{int64(42), Long},
		{uint8(1), Byte},
		{3.5, Double},
		{float32(1), Float},
		{decimal.NewFromInt(1), Decimal},
	}
	for _, tt := range tests {
		v, err := ValueOf(tt.in)
		if err != nil {
			t.Errorf("ValueOf(%v) failed: %v", tt.in, err)
			continue
		}
		if v.Type() != tt.typ {
			t.Errorf("ValueOf(%v): expected %s, got %s", tt.in, tt.typ, v.Type())
		}
	}

	if v, _ := ValueOf(1 << 40); v.Type() != Long {
		t.Errorf("Expected a large int to become long, got %s", v.Type())
	}
	if _, err := ValueOf([]int{1}); err == nil {
		t.Error("Expected an error for a slice")
	}
}

func TestZeroValues(t *testing.T) {
	if v := ZeroValue(String); !v.IsNull() {
		t.Errorf("Expected the zero string to be null, got %s", v)
	}
	if v := ZeroValue(Int); v.Type() != Int || v.Int64() != 0 {
		t.Errorf("Expected int 0, got %s %s", v.Type(), v)
	}
	if v := ZeroValue(Void); v.IsValid() {
		t.Errorf("Expected no zero value for void, got %s", v.Type())
	}
}
