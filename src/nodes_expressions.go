package pawc

import (
	"fmt"
	"strings"
)

// LiteralNode is a constant. Value is filled by analysis from Token once the
// literal's kind is known.
type LiteralNode struct {
	nodeBase
	Token Token
	Value Value
}

func (n *LiteralNode) HasResult() bool { return true }
func (n *LiteralNode) IsLeaf() bool    { return true }
func (n *LiteralNode) describe() (string, []Node) {
	return "Literal " + n.Token.String(), nil
}

// IdentifierNode reads a variable.
type IdentifierNode struct {
	nodeBase
	Name string
}

func (n *IdentifierNode) HasResult() bool { return true }
func (n *IdentifierNode) IsLeaf() bool    { return true }
func (n *IdentifierNode) describe() (string, []Node) {
	return "Identifier " + n.Name, nil
}

// AssignmentNode stores Value into a variable and yields the stored value.
// Compound assignments arrive here already expanded to name = name OP rhs.
type AssignmentNode struct {
	nodeBase
	Name  string
	Value Node
}

func (n *AssignmentNode) HasResult() bool { return true }
func (n *AssignmentNode) describe() (string, []Node) {
	return "Assign " + n.Name, []Node{n.Value}
}

// BinaryNode applies a two-operand operator.
type BinaryNode struct {
	nodeBase
	Op    Op
	Left  Node
	Right Node
}

func (n *BinaryNode) HasResult() bool { return true }
func (n *BinaryNode) describe() (string, []Node) {
	return "Binary " + n.Op.String(), []Node{n.Left, n.Right}
}

// UnaryNode applies a prefix operator that does not store: ! ~ - +.
type UnaryNode struct {
	nodeBase
	Op      Op
	Operand Node
}

func (n *UnaryNode) HasResult() bool { return true }
func (n *UnaryNode) describe() (string, []Node) {
	return "Unary " + n.Op.String(), []Node{n.Operand}
}

// IncDecNode is ++ or -- on a variable. The prefix form yields the new
// value and the postfix form the old one.
type IncDecNode struct {
	nodeBase
	Name      string
	Increment bool
	Prefix    bool
}

func (n *IncDecNode) HasResult() bool { return true }
func (n *IncDecNode) IsLeaf() bool    { return true }
func (n *IncDecNode) describe() (string, []Node) {
	op := "--"
	if n.Increment {
		op = "++"
	}
	if n.Prefix {
		return "PreIncDec " + op + n.Name, nil
	}
	return "PostIncDec " + n.Name + op, nil
}

// CastNode converts its operand to Target. Implicit casts are the ones
// analysis inserts for widening.
type CastNode struct {
	nodeBase
	Target   Type
	Operand  Node
	Implicit bool
}

func (n *CastNode) HasResult() bool { return true }
func (n *CastNode) describe() (string, []Node) {
	kind := "Cast"
	if n.Implicit {
		kind = "ImplicitCast"
	}
	return fmt.Sprintf("%s (%s)", kind, n.Target), []Node{n.Operand}
}

// TernaryNode is cond ? a : b.
type TernaryNode struct {
	nodeBase
	Cond  Node
	True  Node
	False Node
}

func (n *TernaryNode) HasResult() bool { return true }
func (n *TernaryNode) describe() (string, []Node) {
	return "Ternary", []Node{n.Cond, n.True, n.False}
}

// CallNode invokes a script or host function. A nil argument asks for the
// parameter's default. Analysis resolves the target into Function or Host.
type CallNode struct {
	nodeBase
	Name     string
	Args     []Node
	Function *FunctionDef
	Host     *HostFunction
}

func (n *CallNode) HasResult() bool { return true }
func (n *CallNode) describe() (string, []Node) {
	var children []Node
	blanks := make([]string, 0)
	for i, arg := range n.Args {
		if arg == nil {
			blanks = append(blanks, fmt.Sprint(i))
			continue
		}
		children = append(children, arg)
	}
	label := "Call " + n.Name
	if len(blanks) > 0 {
		label += " (defaults at " + strings.Join(blanks, ",") + ")"
	}
	return label, children
}
