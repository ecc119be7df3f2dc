// Package evaluator tree-walks an analyzed Program and executes it against
// a fresh scope table, reading from and writing to the supplied streams.
package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minipl-lang/minipl/internal/ast"
	"github.com/minipl-lang/minipl/internal/diag"
	"github.com/minipl-lang/minipl/internal/scope"
	"github.com/minipl-lang/minipl/internal/symbols"
	"github.com/minipl-lang/minipl/internal/token"
)

// Evaluator executes a Program statement by statement, stopping at the
// first runtime error. It owns no parse or type-check state — the
// program it is given is assumed to have already passed analysis.
type Evaluator struct {
	scopes *scope.Table
	out    io.Writer
	in     *bufio.Reader

	diagnostic *diag.Diagnostic
}

func New(out io.Writer, in io.Reader) *Evaluator {
	return &Evaluator{scopes: scope.New(), out: out, in: bufio.NewReader(in)}
}

// Run executes prog and returns the single runtime diagnostic that stopped
// it, or nil if every statement ran to completion.
func (e *Evaluator) Run(prog *ast.Program) *diag.Diagnostic {
	for _, stmt := range prog.Statements {
		if !e.execStatement(stmt) {
			return e.diagnostic
		}
	}
	return nil
}

func (e *Evaluator) fail(tok token.Token, format string, args ...any) {
	e.diagnostic = diag.New(diag.Runtime, tok.Row, tok.Column, format, args...)
}

// execStatement runs one statement, returning false if it raised a runtime
// diagnostic (already recorded in e.diagnostic).
func (e *Evaluator) execStatement(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.BinaryExpr:
		switch s.Op {
		case ast.Init:
			return e.execInit(s)
		case ast.Assign:
			return e.execAssign(s)
		}
		return true
	case *ast.ForLoop:
		return e.execForLoop(s)
	case *ast.Function:
		return e.execFunction(s)
	default:
		return true
	}
}

func declaredType(k token.Kind) symbols.Type {
	switch k {
	case token.TypeInt:
		return symbols.Int
	case token.TypeString:
		return symbols.String
	case token.TypeBool:
		return symbols.Bool
	default:
		return symbols.Unknown
	}
}

func (e *Evaluator) execInit(s *ast.BinaryExpr) bool {
	v := s.Left.(*ast.Variable)
	t := declaredType(v.DeclaredType)
	value := symbols.DefaultValue(t)

	if s.Right != nil {
		val, ok := e.eval(s.Right.(ast.Expression))
		if !ok {
			return false
		}
		value = val
	}

	e.scopes.Declare(&symbols.Symbol{Identifier: v.Name, Type: t, Value: value})
	return true
}

func (e *Evaluator) execAssign(s *ast.BinaryExpr) bool {
	v := s.Left.(*ast.Variable)
	val, ok := e.eval(s.Right.(ast.Expression))
	if !ok {
		return false
	}
	e.scopes.Update(v.Name, val)
	return true
}

func (e *Evaluator) execForLoop(f *ast.ForLoop) bool {
	startStr, ok := e.eval(f.Start)
	if !ok {
		return false
	}
	endStr, ok := e.eval(f.End)
	if !ok {
		return false
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		e.fail(f.Start.Pos(), "for loop range start %q is not an integer", startStr)
		return false
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		e.fail(f.End.Pos(), "for loop range end %q is not an integer", endStr)
		return false
	}

	for i := start; i <= end; i++ {
		e.scopes.Update(f.Iterator.Name, strconv.Itoa(i))
		e.scopes.PushScope()
		ok := true
		for _, stmt := range f.Body {
			if !e.execStatement(stmt) {
				ok = false
				break
			}
		}
		e.scopes.PopScope()
		if !ok {
			return false
		}
	}

	// The iterator keeps its last iterated value once the loop completes
	// (an empty range leaves it untouched). See the design notes for why
	// this, rather than an end+1 post-increment, is the chosen convention.
	return true
}

func (e *Evaluator) execFunction(fn *ast.Function) bool {
	switch fn.Name {
	case "read":
		return e.execRead(fn)
	case "print":
		return e.execPrint(fn)
	case "assert":
		return e.execAssert(fn)
	default:
		return true
	}
}

func (e *Evaluator) execRead(fn *ast.Function) bool {
	v := fn.Parameter.(*ast.Variable)
	sym, ok := e.scopes.Lookup(v.Name)
	if !ok {
		e.fail(fn.Token, "variable %q is not declared", v.Name)
		return false
	}

	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		e.fail(fn.Token, "failed to read input: %v", err)
		return false
	}
	text := strings.TrimRight(line, "\r\n")

	switch sym.Type {
	case symbols.Int:
		if _, err := strconv.Atoi(text); err != nil {
			e.fail(fn.Token, "cannot convert input string to int")
			return false
		}
	case symbols.Bool:
		// read never binds a bool target: there is no textual bool
		// literal syntax to parse a line into.
		e.fail(fn.Token, "cannot convert input string to bool")
		return false
	}

	e.scopes.Update(v.Name, text)
	return true
}

func (e *Evaluator) execPrint(fn *ast.Function) bool {
	val, ok := e.eval(fn.Parameter.(ast.Expression))
	if !ok {
		return false
	}
	fmt.Fprint(e.out, val)
	return true
}

// execAssert never halts the run: a failed assertion writes a fixed
// message to output and execution continues, unlike a division-by-zero
// or read conversion failure.
func (e *Evaluator) execAssert(fn *ast.Function) bool {
	val, ok := e.eval(fn.Parameter.(ast.Expression))
	if !ok {
		return false
	}
	if val != "true" {
		fmt.Fprintln(e.out, "Expected the result to be true. Got false")
	}
	return true
}

// eval evaluates expr to its unified string-valued representation. The
// bool result is false exactly when a runtime diagnostic was raised.
func (e *Evaluator) eval(expr ast.Expression) (string, bool) {
	switch ex := expr.(type) {
	case *ast.Integer:
		return ex.Lexeme, true
	case *ast.String:
		return ex.Value, true
	case *ast.Variable:
		sym, ok := e.scopes.Lookup(ex.Name)
		if !ok {
			e.fail(ex.Token, "variable %q is not declared", ex.Name)
			return "", false
		}
		return sym.Value, true
	case *ast.Not:
		val, ok := e.eval(ex.Child)
		if !ok {
			return "", false
		}
		return strconv.FormatBool(val != "true"), true
	case *ast.BinaryExpr:
		return e.evalBinary(ex)
	default:
		return "", true
	}
}

func (e *Evaluator) evalBinary(ex *ast.BinaryExpr) (string, bool) {
	lhs, ok := e.eval(ex.Left.(ast.Expression))
	if !ok {
		return "", false
	}
	rhs, ok := e.eval(ex.Right.(ast.Expression))
	if !ok {
		return "", false
	}

	switch ex.Op {
	case ast.LogicalAnd:
		return strconv.FormatBool(lhs == "true" && rhs == "true"), true
	case ast.Equality:
		return strconv.FormatBool(lhs == rhs), true
	case ast.LessThan:
		if e.isIntTyped(ex.Left.(ast.Expression)) && e.isIntTyped(ex.Right.(ast.Expression)) {
			l, lerr := strconv.Atoi(lhs)
			r, rerr := strconv.Atoi(rhs)
			if lerr != nil || rerr != nil {
				e.fail(ex.Token, "< requires integer operands")
				return "", false
			}
			return strconv.FormatBool(l < r), true
		}
		return strconv.FormatBool(lhs < rhs), true // strings and booleans compare lexicographically
	case ast.Add:
		if e.isStringTyped(ex.Left.(ast.Expression)) || e.isStringTyped(ex.Right.(ast.Expression)) {
			return lhs + rhs, true
		}
		l, lerr := strconv.Atoi(lhs)
		r, rerr := strconv.Atoi(rhs)
		if lerr != nil || rerr != nil {
			e.fail(ex.Token, "+ requires integer or string operands")
			return "", false
		}
		return strconv.Itoa(l + r), true
	case ast.Minus, ast.Multiply, ast.Divide:
		l, lerr := strconv.Atoi(lhs)
		r, rerr := strconv.Atoi(rhs)
		if lerr != nil || rerr != nil {
			e.fail(ex.Token, "%s requires integer operands", ex.Op)
			return "", false
		}
		switch ex.Op {
		case ast.Minus:
			return strconv.Itoa(l - r), true
		case ast.Multiply:
			return strconv.Itoa(l * r), true
		case ast.Divide:
			if r == 0 {
				e.fail(ex.Token, "division by zero")
				return "", false
			}
			return strconv.Itoa(l / r), true // truncates toward zero, per Go int division
		}
	}
	return "", true
}

// isStringTyped reports whether expr statically evaluates to a string, so
// evalBinary can dispatch + to concatenation instead of numeric addition
// even when a string variable happens to hold a numeric-looking value.
// The analyzer has already ruled out mixed int/string operands to +.
func (e *Evaluator) isStringTyped(expr ast.Expression) bool {
	switch ex := expr.(type) {
	case *ast.String:
		return true
	case *ast.Integer:
		return false
	case *ast.Variable:
		sym, ok := e.scopes.Lookup(ex.Name)
		return ok && sym.Type == symbols.String
	case *ast.BinaryExpr:
		if ex.Op == ast.Add {
			return e.isStringTyped(ex.Left.(ast.Expression)) || e.isStringTyped(ex.Right.(ast.Expression))
		}
		return false
	default:
		return false
	}
}

// isIntTyped reports whether expr statically evaluates to an int, so
// evalBinary can dispatch < to a numeric comparison instead of the
// lexicographic text compare that strings and booleans use.
func (e *Evaluator) isIntTyped(expr ast.Expression) bool {
	switch ex := expr.(type) {
	case *ast.Integer:
		return true
	case *ast.String:
		return false
	case *ast.Variable:
		sym, ok := e.scopes.Lookup(ex.Name)
		return ok && sym.Type == symbols.Int
	case *ast.BinaryExpr:
		switch ex.Op {
		case ast.Add, ast.Minus, ast.Multiply, ast.Divide:
			return e.isIntTyped(ex.Left.(ast.Expression)) && e.isIntTyped(ex.Right.(ast.Expression))
		default:
			return false
		}
	default:
		return false
	}
}
