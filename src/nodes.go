package pawc

import (
	"fmt"
	"io"
	"strings"
)

// Node is one element of the execution tree. The parser builds it, the
// analyzer resolves types and wraps nodes in casts, and the executor walks
// it. A node owns its children; nothing points back up the tree.
type Node interface {
	Pos() SourcePosition
	// HasResult reports whether the node yields a value when executed.
	HasResult() bool
	// IsLeaf reports whether the node has no child nodes.
	IsLeaf() bool
	// ResultType is the kind of the yielded value once analysis has run,
	// otherwise Undefined.
	ResultType() Type
	// describe returns a one-line label and the children for tree dumps.
	describe() (string, []Node)
}

type nodeBase struct {
	pos SourcePosition
	typ Type
}

func (n *nodeBase) Pos() SourcePosition   { return n.pos }
func (n *nodeBase) ResultType() Type      { return n.typ }
func (n *nodeBase) setType(t Type)        { n.typ = t }
func (n *nodeBase) HasResult() bool       { return false }
func (n *nodeBase) IsLeaf() bool          { return false }
func (n *nodeBase) at(pos SourcePosition) { n.pos = pos }

// DumpTree writes an indented outline of the tree rooted at n.
func DumpTree(w io.Writer, n Node) error {
	return dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		_, err := fmt.Fprintf(w, "%s<none>\n", indent)
		return err
	}
	label, children := n.describe()
	if t := n.ResultType(); t != Undefined {
		label += " : " + t.String()
	}
	if _, err := fmt.Fprintf(w, "%s%s [%d:%d]\n", indent, label, n.Pos().Line, n.Pos().Column); err != nil {
		return err
	}
	for _, child := range children {
		if err := dumpNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpScript writes the root body followed by every function.
func DumpScript(w io.Writer, s *Script) error {
	if s == nil || s.Root == nil {
		_, err := fmt.Fprintln(w, "<no tree>")
		return err
	}
	if err := DumpTree(w, s.Root); err != nil {
		return err
	}
	for _, fn := range s.Functions {
		if err := DumpTree(w, fn); err != nil {
			return err
		}
	}
	return nil
}
