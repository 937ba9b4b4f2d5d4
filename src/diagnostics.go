package pawc

import "fmt"

// DiagnosticLevel is the severity of an analysis finding
type DiagnosticLevel int

const (
	Notice DiagnosticLevel = iota
	Warning
	Error
	// CriticalError also abandons analysis of the statement it occurs in.
	CriticalError
)

func (l DiagnosticLevel) String() string {
	switch l {
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case CriticalError:
		return "critical error"
	}
	return "unknown"
}

// DiagnosticCode identifies what a diagnostic reports
type DiagnosticCode int

const (
	UnreachableCode DiagnosticCode = iota + 1
	NotAllCodePathsReturnAValue
	UndefinedVariable
	VariableAlreadyExists
	NoExplicitConversion
	NoImplicitConversion
	CannotConvertLiteral
	OperatorCannotBeApplied1
	OperatorCannotBeApplied2
	ParameterIsRequired
	TooManyParameters
	FunctionNotFound
	FunctionDoesNotReturnAValue
	FunctionMustReturnAValue
	FunctionMustNotReturnAValue
	LoopWithNoConditionNorCode
	TernaryBranchTypeMismatch
	BadDefaultForStringParameter
	BadDefaultForCharParameter
	BadDefaultForBooleanParameter
	BadDefaultForNumericParameter
	FunctionAlreadyDefined
	DuplicateCaseLabel
)

var codeNames = map[DiagnosticCode]string{
	UnreachableCode:               "UnreachableCode",
	NotAllCodePathsReturnAValue:   "NotAllCodePathsReturnAValue",
	UndefinedVariable:             "UndefinedVariable",
	VariableAlreadyExists:         "VariableAlreadyExists",
	NoExplicitConversion:          "NoExplicitConversion",
	NoImplicitConversion:          "NoImplicitConversion",
	CannotConvertLiteral:          "CannotConvertLiteral",
	OperatorCannotBeApplied1:      "OperatorCannotBeApplied1",
	OperatorCannotBeApplied2:      "OperatorCannotBeApplied2",
	ParameterIsRequired:           "ParameterIsRequired",
	TooManyParameters:             "TooManyParameters",
	FunctionNotFound:              "FunctionNotFound",
	FunctionDoesNotReturnAValue:   "FunctionDoesNotReturnAValue",
	FunctionMustReturnAValue:      "FunctionMustReturnAValue",
	FunctionMustNotReturnAValue:   "FunctionMustNotReturnAValue",
	LoopWithNoConditionNorCode:    "LoopWithNoConditionNorCode",
	TernaryBranchTypeMismatch:     "TernaryBranchTypeMismatch",
	BadDefaultForStringParameter:  "BadDefaultForStringParameter",
	BadDefaultForCharParameter:    "BadDefaultForCharParameter",
	BadDefaultForBooleanParameter: "BadDefaultForBooleanParameter",
	BadDefaultForNumericParameter: "BadDefaultForNumericParameter",
	FunctionAlreadyDefined:        "FunctionAlreadyDefined",
	DuplicateCaseLabel:            "DuplicateCaseLabel",
}

func (c DiagnosticCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("DiagnosticCode(%d)", int(c))
}

// Diagnostic is one analysis finding. Args holds the values the message
// template refers to (names, type names, indexes).
type Diagnostic struct {
	Level    DiagnosticLevel
	Code     DiagnosticCode
	Position SourcePosition
	Args     []interface{}
}

func (d Diagnostic) arg(i int) interface{} {
	if i < len(d.Args) {
		return d.Args[i]
	}
	return fmt.Sprintf("[argument %d is not defined]", i)
}

// Message renders the diagnostic as text including its location.
func (d Diagnostic) Message() string {
	var text string
	switch d.Code {
	case UnreachableCode:
		text = "Unreachable code detected"
	case NotAllCodePathsReturnAValue:
		text = fmt.Sprintf("Not all code paths return a value in function '%v'", d.arg(0))
	case UndefinedVariable:
		text = fmt.Sprintf("Undefined variable '%v'", d.arg(0))
	case VariableAlreadyExists:
		text = fmt.Sprintf("Variable '%v' already exists in current scope", d.arg(0))
	case NoExplicitConversion:
		text = fmt.Sprintf("Cannot explicitly convert from '%v' to '%v'", d.arg(0), d.arg(1))
	case NoImplicitConversion:
		text = fmt.Sprintf("Cannot implicitly convert from '%v' to '%v'", d.arg(0), d.arg(1))
	case CannotConvertLiteral:
		text = fmt.Sprintf("Cannot convert '%v' literal to '%v'", d.arg(0), d.arg(1))
	case OperatorCannotBeApplied1:
		text = fmt.Sprintf("Operator '%v' cannot be applied to '%v'", d.arg(0), d.arg(1))
	case OperatorCannotBeApplied2:
		text = fmt.Sprintf("Operator '%v' cannot be applied to '%v' and '%v'", d.arg(0), d.arg(1), d.arg(2))
	case ParameterIsRequired:
		text = fmt.Sprintf("Parameter #%v '%v' is required to call function '%v'", d.arg(0), d.arg(1), d.arg(2))
	case TooManyParameters:
		text = fmt.Sprintf("Too many parameters passed to function '%v'", d.arg(0))
	case FunctionNotFound:
		text = fmt.Sprintf("Function '%v' not found either in the script or in its environment", d.arg(0))
	case FunctionDoesNotReturnAValue:
		text = fmt.Sprintf("Function '%v' does not return a value", d.arg(0))
	case FunctionMustReturnAValue:
		text = fmt.Sprintf("Function '%v' must return a value", d.arg(0))
	case FunctionMustNotReturnAValue:
		text = fmt.Sprintf("Function '%v' must not return a value", d.arg(0))
	case LoopWithNoConditionNorCode:
		text = "Loop has neither a condition nor code"
	case TernaryBranchTypeMismatch:
		text = fmt.Sprintf("True and false branches of a ternary operation must be of the same type, got '%v' and '%v'", d.arg(0), d.arg(1))
	case BadDefaultForStringParameter:
		text = fmt.Sprintf("Default for string parameter '%v' must be a string or null literal", d.arg(0))
	case BadDefaultForCharParameter:
		text = fmt.Sprintf("Default for char parameter '%v' must be a char or numeric literal", d.arg(0))
	case BadDefaultForBooleanParameter:
		text = fmt.Sprintf("Default for bool parameter '%v' must be true or false", d.arg(0))
	case BadDefaultForNumericParameter:
		text = fmt.Sprintf("Default for %v parameter '%v' must be a numeric literal that fits the type", d.arg(1), d.arg(0))
	case FunctionAlreadyDefined:
		text = fmt.Sprintf("Function '%v' is already defined", d.arg(0))
	case DuplicateCaseLabel:
		text = fmt.Sprintf("Case label '%v' appears more than once in switch", d.arg(0))
	default:
		text = fmt.Sprintf("Unknown diagnostic '%v'", d.Code)
	}
	return fmt.Sprintf("%s on line %d at character %d", text, d.Position.Line, d.Position.Column)
}

func (d Diagnostic) Error() string {
	return d.Message()
}

// Diagnostics is the ordered list produced by one compile.
type Diagnostics []Diagnostic

// HasErrors reports whether any entry blocks running the script.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Level >= Error {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any entry is a warning.
func (ds Diagnostics) HasWarnings() bool {
	for _, d := range ds {
		if d.Level == Warning {
			return true
		}
	}
	return false
}

// Count returns how many entries carry code.
func (ds Diagnostics) Count(code DiagnosticCode) int {
	n := 0
	for _, d := range ds {
		if d.Code == code {
			n++
		}
	}
	return n
}
