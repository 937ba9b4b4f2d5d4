package pawc

import "fmt"

// SequenceNode is a list of statements. The script root is a sequence with
// Root set; it runs in the global frame. Nested blocks open their own frame
// unless OwnScope is false.
type SequenceNode struct {
	nodeBase
	Statements []Node
	OwnScope   bool
	Root       bool
}

func (n *SequenceNode) describe() (string, []Node) {
	switch {
	case n.Root:
		return "Script", n.Statements
	case n.OwnScope:
		return "Block", n.Statements
	}
	return "Sequence", n.Statements
}

// VarDecl is one name of a variable definition statement.
type VarDecl struct {
	Name     string
	Position SourcePosition
	Init     Node
}

// VarDefNode declares one or more variables of a single type.
type VarDefNode struct {
	nodeBase
	Type Type
	Vars []VarDecl
}

func (n *VarDefNode) describe() (string, []Node) {
	label := "VarDef " + n.Type.String()
	var children []Node
	for _, v := range n.Vars {
		label += " " + v.Name
		if v.Init != nil {
			children = append(children, v.Init)
		}
	}
	return label, children
}

// NopNode is an empty statement.
type NopNode struct{ nodeBase }

func (n *NopNode) IsLeaf() bool               { return true }
func (n *NopNode) describe() (string, []Node) { return "Nop", nil }

// IfNode is if/else. Else may be nil.
type IfNode struct {
	nodeBase
	Cond Node
	Then Node
	Else Node
}

func (n *IfNode) describe() (string, []Node) {
	children := []Node{n.Cond, n.Then}
	if n.Else != nil {
		children = append(children, n.Else)
	}
	return "If", children
}

// WhileNode tests Cond before each run of Body. Body may be nil.
type WhileNode struct {
	nodeBase
	Cond Node
	Body Node
}

func (n *WhileNode) describe() (string, []Node) {
	return "While", presentNodes(n.Cond, n.Body)
}

// DoWhileNode runs Body once before testing Cond.
type DoWhileNode struct {
	nodeBase
	Body Node
	Cond Node
}

func (n *DoWhileNode) describe() (string, []Node) {
	return "DoWhile", presentNodes(n.Body, n.Cond)
}

// ForNode is for(init; cond; update) body. Every clause is optional. Init,
// cond, update and body share a single frame.
type ForNode struct {
	nodeBase
	Init   Node
	Cond   Node
	Update []Node
	Body   Node
}

func (n *ForNode) describe() (string, []Node) {
	children := presentNodes(n.Init, n.Cond)
	children = append(children, n.Update...)
	if n.Body != nil {
		children = append(children, n.Body)
	}
	return "For", children
}

// SwitchLabel marks where a case (or default, when Value is nil) starts in
// the switch body.
type SwitchLabel struct {
	Value    *LiteralNode
	Index    int
	Position SourcePosition
}

// SwitchNode jumps to the label matching Subject and runs the body from
// there until a break or the end. The body shares one frame.
type SwitchNode struct {
	nodeBase
	Subject Node
	Labels  []SwitchLabel
	Body    []Node
}

func (n *SwitchNode) describe() (string, []Node) {
	label := "Switch"
	for _, l := range n.Labels {
		if l.Value == nil {
			label += fmt.Sprintf(" default@%d", l.Index)
		} else {
			label += fmt.Sprintf(" %s@%d", l.Value.Token.Text, l.Index)
		}
	}
	return label, append([]Node{n.Subject}, n.Body...)
}

// BreakNode leaves the innermost loop or switch.
type BreakNode struct{ nodeBase }

func (n *BreakNode) IsLeaf() bool               { return true }
func (n *BreakNode) describe() (string, []Node) { return "Break", nil }

// ContinueNode skips to the next iteration of the innermost loop.
type ContinueNode struct{ nodeBase }

func (n *ContinueNode) IsLeaf() bool               { return true }
func (n *ContinueNode) describe() (string, []Node) { return "Continue", nil }

// ReturnNode leaves the current function, optionally with a value.
type ReturnNode struct {
	nodeBase
	Value Node
}

func (n *ReturnNode) describe() (string, []Node) {
	return "Return", presentNodes(n.Value)
}

// ExitNode ends the whole run, optionally with a value.
type ExitNode struct {
	nodeBase
	Value Node
}

func (n *ExitNode) describe() (string, []Node) {
	return "Exit", presentNodes(n.Value)
}

// Param is one declared function parameter. Default is a literal, and
// DefaultValue holds it converted to the parameter type after analysis.
type Param struct {
	Type         Type
	Name         string
	Position     SourcePosition
	Default      *LiteralNode
	DefaultValue Value
}

// FunctionDef is a script function.
type FunctionDef struct {
	nodeBase
	Name       string
	ReturnType Type
	Params     []Param
	Body       *SequenceNode
}

func (n *FunctionDef) describe() (string, []Node) {
	label := fmt.Sprintf("Function %s %s(", n.ReturnType, n.Name)
	for i, p := range n.Params {
		if i > 0 {
			label += ", "
		}
		label += p.Type.String() + " " + p.Name
		if p.Default != nil {
			label += " = " + p.Default.Token.Text
		}
	}
	return label + ")", []Node{n.Body}
}

func presentNodes(nodes ...Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
