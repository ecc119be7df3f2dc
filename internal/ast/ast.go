// Package ast defines the Mini-PL abstract syntax tree: a closed set of
// tagged node variants, each carrying the source position of its defining
// token.
package ast

import (
	"bytes"
	"fmt"
	"os"

	"github.com/minipl-lang/minipl/internal/token"
)

// Node is the common interface implemented by every AST variant.
type Node interface {
	Pos() token.Token
	String() string
}

// Statement is a top-level or for-loop-body statement: Init, Assign,
// ForLoop, or Function.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is an ordered sequence of statement nodes.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Token{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Variable is a reference to, or the declaration site of, a named
// variable. DeclaredType is non-empty only at the declaration position
// inside an Init node; at use sites it must be resolved via the symbol
// table.
type Variable struct {
	Token        token.Token // the identifier token
	Name         string
	DeclaredType token.Kind // TypeInt / TypeString / TypeBool, or "" at use sites
}

func (v *Variable) Pos() token.Token { return v.Token }
func (v *Variable) expressionNode()  {}
func (v *Variable) String() string   { return v.Name }

// Integer is an integer literal, held as its source lexeme. Conversion to
// a machine integer happens at evaluation, not at construction.
type Integer struct {
	Token  token.Token
	Lexeme string
}

func (i *Integer) Pos() token.Token { return i.Token }
func (i *Integer) expressionNode()  {}
func (i *Integer) String() string   { return i.Lexeme }

// String is an already-unescaped string literal value.
type String struct {
	Token token.Token
	Value string
}

func (s *String) Pos() token.Token { return s.Token }
func (s *String) expressionNode()  {}
func (s *String) String() string   { return fmt.Sprintf("%q", s.Value) }

// Op identifies the operator of a BinaryExpr node.
type Op int

const (
	Init Op = iota
	Assign
	LogicalAnd
	Equality
	LessThan
	Add
	Minus
	Multiply
	Divide
)

func (op Op) String() string {
	switch op {
	case Init, Assign:
		return ":="
	case LogicalAnd:
		return "&"
	case Equality:
		return "="
	case LessThan:
		return "<"
	case Add:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return "?"
}

// BinaryExpr is a binary operator node. Invariants by Op:
//   - Init:   Left is *Variable with DeclaredType set; Right is nil or an expression.
//   - Assign: Left is *Variable with DeclaredType unset; Right is required.
//   - all others: both children are required expressions.
type BinaryExpr struct {
	Token token.Token // position of the operator/keyword that defines this node
	Op    Op
	Left  Node // *Variable for Init/Assign, Expression otherwise
	Right Node // nil only for Init without an initializer
}

func (b *BinaryExpr) Pos() token.Token { return b.Token }
func (b *BinaryExpr) expressionNode()  {}
func (b *BinaryExpr) statementNode()   {}
func (b *BinaryExpr) String() string {
	var out bytes.Buffer
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Op.String() + " ")
	if b.Right != nil {
		out.WriteString(b.Right.String())
	}
	return out.String()
}

// Not is unary logical negation: !child.
type Not struct {
	Token token.Token // the '!' token
	Child Expression
}

func (n *Not) Pos() token.Token { return n.Token }
func (n *Not) expressionNode()  {}
func (n *Not) String() string   { return "!" + n.Child.String() }

// ForLoop iterates Iterator from Start to End inclusive, executing Body
// once per iteration in a freshly pushed scope.
type ForLoop struct {
	Token    token.Token // the 'for' token
	Iterator *Variable
	Start    Expression
	End      Expression
	Body     []Statement
}

func (f *ForLoop) Pos() token.Token { return f.Token }
func (f *ForLoop) statementNode()   {}
func (f *ForLoop) String() string {
	var out bytes.Buffer
	out.WriteString("for " + f.Iterator.String() + " in ")
	out.WriteString(f.Start.String() + ".." + f.End.String() + " do\n")
	for _, s := range f.Body {
		out.WriteString("  " + s.String() + "\n")
	}
	out.WriteString("end for")
	return out.String()
}

// Function is one of the three built-ins: read, print, assert.
type Function struct {
	Token     token.Token // the built-in keyword token
	Name      string      // "read", "print", "assert"
	Parameter Node        // *Variable for read; any Expression for print/assert
}

func (fn *Function) Pos() token.Token { return fn.Token }
func (fn *Function) statementNode()   {}
func (fn *Function) String() string {
	return fn.Name + " " + fn.Parameter.String()
}

// Print renders a node tree to stderr for debugging. It is a thin utility
// with no bearing on parsing, analysis, or evaluation.
func Print(node Node, indent string) {
	switch n := node.(type) {
	case *Program:
		fmt.Fprintln(os.Stderr, indent+"Program")
		for _, s := range n.Statements {
			Print(s, indent+"  ")
		}
	case *BinaryExpr:
		fmt.Fprintf(os.Stderr, "%sBinaryExpr(%s)\n", indent, n.Op)
		Print(n.Left, indent+"  ")
		if n.Right != nil {
			Print(n.Right, indent+"  ")
		}
	case *Not:
		fmt.Fprintln(os.Stderr, indent+"Not")
		Print(n.Child, indent+"  ")
	case *ForLoop:
		fmt.Fprintln(os.Stderr, indent+"ForLoop")
		fmt.Fprintln(os.Stderr, indent+"  Iterator:", n.Iterator.Name)
		Print(n.Start, indent+"  Start: ")
		Print(n.End, indent+"  End: ")
		for _, s := range n.Body {
			Print(s, indent+"  ")
		}
	case *Function:
		fmt.Fprintln(os.Stderr, indent+"Function:", n.Name)
		Print(n.Parameter, indent+"  ")
	case *Variable:
		fmt.Fprintf(os.Stderr, "%sVariable: %s (declared=%v)\n", indent, n.Name, n.DeclaredType)
	case *Integer:
		fmt.Fprintln(os.Stderr, indent+"Integer:", n.Lexeme)
	case *String:
		fmt.Fprintf(os.Stderr, "%sString: %q\n", indent, n.Value)
	default:
		fmt.Fprintf(os.Stderr, "%s<unknown node %T>\n", indent, n)
	}
}
