package pawc

import (
	"io"
	"strconv"
	"strings"
)

// SourcePosition tracks location in source code for error reporting
type SourcePosition struct {
	Line         int
	Column       int
	Length       int
	OriginalText string
	Filename     string
}

// Type is a bit set of primitive value kinds. A declared variable or a
// resolved expression carries exactly one kind; the Any* masks describe sets
// of acceptable kinds.
type Type uint16

const (
	Undefined Type = 0
	Void      Type = 1 << 0
	Bool      Type = 1 << 1
	Char      Type = 1 << 2
	String    Type = 1 << 3
	SByte     Type = 1 << 4
	Byte      Type = 1 << 5
	Short     Type = 1 << 6
	UShort    Type = 1 << 7
	Int       Type = 1 << 8
	UInt      Type = 1 << 9
	Long      Type = 1 << 10
	ULong     Type = 1 << 11
	Float     Type = 1 << 12
	Double    Type = 1 << 13
	Decimal   Type = 1 << 14

	AnyInteger = SByte | Byte | Short | UShort | Int | UInt | Long | ULong
	AnyFloat   = Float | Double | Decimal
	AnyNumeric = AnyInteger | AnyFloat
	// AnyValue as a host parameter type means the argument is passed through
	// without coercion.
	AnyValue = Bool | Char | String | AnyNumeric
)

var typeNames = map[Type]string{
	Undefined: "undefined",
	Void:      "void",
	Bool:      "bool",
	Char:      "char",
	String:    "string",
	SByte:     "sbyte",
	Byte:      "byte",
	Short:     "short",
	UShort:    "ushort",
	Int:       "int",
	UInt:      "uint",
	Long:      "long",
	ULong:     "ulong",
	Float:     "float",
	Double:    "double",
	Decimal:   "decimal",
}

// String returns the keyword spelling of a single kind, or a "|" joined list
// for a mask.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	if t == AnyValue {
		return "any"
	}
	var parts []string
	for bit := Type(1); bit != 0 && bit <= Decimal; bit <<= 1 {
		if t&bit != 0 {
			parts = append(parts, typeNames[bit])
		}
	}
	return strings.Join(parts, "|")
}

// IsPrimitive reports whether t is exactly one value kind (not void, not a mask).
func (t Type) IsPrimitive() bool {
	return t != Undefined && t != Void && t&AnyValue == t && t&(t-1) == 0
}

// Is reports whether t is one of the kinds in mask.
func (t Type) Is(mask Type) bool {
	return t != Undefined && t&mask == t
}

func (t Type) isSigned() bool {
	return t.Is(SByte | Short | Int | Long)
}

func (t Type) isUnsigned() bool {
	return t.Is(Byte | UShort | UInt | ULong)
}

// integral kinds including char, which takes part in integer arithmetic
func (t Type) isIntegral() bool {
	return t.Is(AnyInteger | Char)
}

func (t Type) bitSize() int {
	switch t {
	case SByte, Byte:
		return 8
	case Short, UShort, Char:
		return 16
	case Int, UInt, Float:
		return 32
	default:
		return 64
	}
}

// TypeFromKeyword maps a type keyword (including void) to its kind.
func TypeFromKeyword(word string) (Type, bool) {
	for t, name := range typeNames {
		if name == word && t != Undefined {
			return t, true
		}
	}
	return Undefined, false
}

// implicitSources lists, per target kind, the kinds that widen to it without
// an explicit cast.
var implicitSources = map[Type]Type{
	Short:   Byte | SByte,
	UShort:  Byte,
	Int:     UShort | Short | Byte | SByte,
	UInt:    UShort | Byte,
	Long:    UInt | Int | UShort | Short | Byte | SByte,
	ULong:   UInt | UShort | Byte,
	Float:   UInt | Int | UShort | Short | Byte | SByte,
	Double:  Float | ULong | Long | UInt | Int | UShort | Short | Byte | SByte,
	Decimal: Double | Float | ULong | Long | UInt | Int | UShort | Short | Byte | SByte,
}

// ImplicitSources returns the mask of kinds that widen to target.
func ImplicitSources(target Type) Type {
	return implicitSources[target]
}

// CanWiden reports whether a value of kind from is accepted where kind to is
// required without an explicit cast.
func CanWiden(from, to Type) bool {
	if from == to {
		return true
	}
	return from.IsPrimitive() && implicitSources[to]&from != 0
}

// Config holds configuration options for the interpreter
type Config struct {
	Debug            bool
	ShowErrorContext bool
	ContextLines     int
	WarningsAsErrors bool
	Output           io.Writer
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		ShowErrorContext: true,
		ContextLines:     2,
		WarningsAsErrors: false,
	}
}

// PawCError represents an error with position information
type PawCError struct {
	Message  string
	Position *SourcePosition
	Context  []string
}

func (e *PawCError) Error() string {
	if e.Position == nil {
		return e.Message
	}
	return e.Message + " on line " + strconv.Itoa(e.Position.Line) + " at character " + strconv.Itoa(e.Position.Column)
}

// RuntimeError is a failure raised while executing a compiled script
type RuntimeError struct {
	Message  string
	Position SourcePosition
	Err      error
}

func (e *RuntimeError) Error() string {
	return e.Message + " on line " + strconv.Itoa(e.Position.Line) + " at character " + strconv.Itoa(e.Position.Column)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// InternalError marks a broken invariant: something analysis should have
// rejected reached the executor.
type InternalError struct {
	Message  string
	Position SourcePosition
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message + " on line " + strconv.Itoa(e.Position.Line) + " at character " + strconv.Itoa(e.Position.Column)
}
