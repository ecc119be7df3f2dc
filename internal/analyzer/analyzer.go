// Package analyzer implements the Mini-PL semantic pass: a scope-stack
// walk over the AST that declares and type-checks every statement before
// the evaluator ever runs. Analysis is kept separate from evaluation so a
// program with a semantic error never partially executes.
package analyzer

import (
	"github.com/minipl-lang/minipl/internal/ast"
	"github.com/minipl-lang/minipl/internal/diag"
	"github.com/minipl-lang/minipl/internal/scope"
	"github.com/minipl-lang/minipl/internal/symbols"
	"github.com/minipl-lang/minipl/internal/token"
)

// Analyzer walks a parsed Program and reports every semantic diagnostic it
// finds. Unlike the parser, it keeps checking later statements after an
// error — a mismatched type in one init doesn't hide a redeclaration three
// lines later. A redeclared init is not checked further.
type Analyzer struct {
	scopes      *scope.Table
	diagnostics []*diag.Diagnostic
}

func New() *Analyzer {
	return &Analyzer{scopes: scope.New()}
}

func (a *Analyzer) Diagnostics() []*diag.Diagnostic { return a.diagnostics }
func (a *Analyzer) HasErrors() bool                 { return len(a.diagnostics) > 0 }

func (a *Analyzer) errorf(tok token.Token, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, diag.New(diag.Semantic, tok.Row, tok.Column, format, args...))
}

// Analyze type-checks every statement in prog against a's scope table and
// returns the diagnostics found, if any.
func (a *Analyzer) Analyze(prog *ast.Program) []*diag.Diagnostic {
	for _, stmt := range prog.Statements {
		a.checkStatement(stmt)
	}
	return a.diagnostics
}

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BinaryExpr:
		switch s.Op {
		case ast.Init:
			a.checkInit(s)
		case ast.Assign:
			a.checkAssign(s)
		default:
			a.checkExpr(s)
		}
	case *ast.ForLoop:
		a.checkForLoop(s)
	case *ast.Function:
		a.checkFunction(s)
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

func (a *Analyzer) checkInit(s *ast.BinaryExpr) {
	v := s.Left.(*ast.Variable)
	if a.scopes.Contains(v.Name) {
		a.errorf(v.Token, "Variable %s already defined in this scope!", v.Name)
		return
	}

	t := declaredType(v.DeclaredType)
	sym := &symbols.Symbol{Identifier: v.Name, Type: t, Value: symbols.DefaultValue(t)}

	if s.Right != nil {
		rhsType := a.checkExpr(s.Right.(ast.Expression))
		if rhsType != symbols.Unknown && t != symbols.Unknown && rhsType != t {
			a.errorf(s.Token, "cannot assign %s value to variable %q of type %s", rhsType, v.Name, t)
		}
	}

	a.scopes.Declare(sym)
}

func (a *Analyzer) checkAssign(s *ast.BinaryExpr) {
	v := s.Left.(*ast.Variable)
	sym, ok := a.scopes.Lookup(v.Name)
	if !ok {
		a.errorf(v.Token, "variable %q is not declared", v.Name)
		a.checkExpr(s.Right.(ast.Expression))
		return
	}

	rhsType := a.checkExpr(s.Right.(ast.Expression))
	if rhsType != symbols.Unknown && sym.Type != symbols.Unknown && rhsType != sym.Type {
		a.errorf(s.Token, "cannot assign %s value to variable %q of type %s", rhsType, v.Name, sym.Type)
	}
}

func (a *Analyzer) checkForLoop(f *ast.ForLoop) {
	startType := a.checkExpr(f.Start)
	if startType != symbols.Unknown && startType != symbols.Int {
		a.errorf(f.Start.Pos(), "for loop range start must be an integer, got %s", startType)
	}
	endType := a.checkExpr(f.End)
	if endType != symbols.Unknown && endType != symbols.Int {
		a.errorf(f.End.Pos(), "for loop range end must be an integer, got %s", endType)
	}

	sym, ok := a.scopes.Lookup(f.Iterator.Name)
	if !ok {
		a.errorf(f.Iterator.Token, "variable %q is not declared", f.Iterator.Name)
	} else if sym.Type != symbols.Unknown && sym.Type != symbols.Int {
		a.errorf(f.Iterator.Token, "for loop iterator %q must be an integer, got %s", f.Iterator.Name, sym.Type)
	}

	a.scopes.PushScope()
	for _, stmt := range f.Body {
		a.checkStatement(stmt)
	}
	a.scopes.PopScope()
}

func (a *Analyzer) checkFunction(fn *ast.Function) {
	switch fn.Name {
	case "read":
		v, ok := fn.Parameter.(*ast.Variable)
		if !ok {
			a.errorf(fn.Token, "read requires a variable argument")
			return
		}
		if _, ok := a.scopes.Lookup(v.Name); !ok {
			a.errorf(v.Token, "variable %q is not declared", v.Name)
		}
	case "print":
		a.checkExpr(fn.Parameter.(ast.Expression))
	case "assert":
		t := a.checkExpr(fn.Parameter.(ast.Expression))
		if t != symbols.Unknown && t != symbols.Bool {
			a.errorf(fn.Token, "assert requires a boolean expression, got %s", t)
		}
	}
}

// checkExpr type-checks expr and returns its evaluated type, or
// symbols.Unknown if a sub-expression already failed to type-check — once
// unknown, the taint propagates upward without generating further
// diagnostics for the same root cause.
func (a *Analyzer) checkExpr(expr ast.Expression) symbols.Type {
	switch e := expr.(type) {
	case *ast.Integer:
		return symbols.Int
	case *ast.String:
		return symbols.String
	case *ast.Variable:
		sym, ok := a.scopes.Lookup(e.Name)
		if !ok {
			a.errorf(e.Token, "variable %q is not declared", e.Name)
			return symbols.Unknown
		}
		return sym.Type
	case *ast.Not:
		t := a.checkExpr(e.Child)
		if t != symbols.Unknown && t != symbols.Bool {
			a.errorf(e.Token, "! requires a boolean operand, got %s", t)
			return symbols.Unknown
		}
		return symbols.Bool
	case *ast.BinaryExpr:
		return a.checkBinary(e)
	default:
		return symbols.Unknown
	}
}

func (a *Analyzer) checkBinary(e *ast.BinaryExpr) symbols.Type {
	lt := a.checkExpr(e.Left.(ast.Expression))
	rt := a.checkExpr(e.Right.(ast.Expression))

	switch e.Op {
	case ast.LogicalAnd:
		if !eachUnknownOr(lt, rt, symbols.Bool) {
			a.errorf(e.Token, "& requires boolean operands, got %s and %s", lt, rt)
			return symbols.Unknown
		}
		return symbols.Bool
	case ast.Equality, ast.LessThan:
		if lt != symbols.Unknown && rt != symbols.Unknown && lt != rt {
			a.errorf(e.Token, "%s requires operands of the same type, got %s and %s", e.Op, lt, rt)
			return symbols.Unknown
		}
		return symbols.Bool
	case ast.Add:
		if lt == symbols.String || rt == symbols.String {
			if !eachUnknownOr(lt, rt, symbols.String) {
				a.errorf(e.Token, "+ on a string requires both operands to be strings, got %s and %s", lt, rt)
				return symbols.Unknown
			}
			return symbols.String
		}
		if !eachUnknownOr(lt, rt, symbols.Int) {
			a.errorf(e.Token, "+ requires integer or string operands, got %s and %s", lt, rt)
			return symbols.Unknown
		}
		return symbols.Int
	case ast.Minus, ast.Multiply, ast.Divide:
		if !eachUnknownOr(lt, rt, symbols.Int) {
			a.errorf(e.Token, "%s requires integer operands, got %s and %s", e.Op, lt, rt)
			return symbols.Unknown
		}
		return symbols.Int
	default:
		return symbols.Unknown
	}
}

// eachUnknownOr reports whether both lt and rt are either Unknown (already
// diagnosed) or exactly want.
func eachUnknownOr(lt, rt, want symbols.Type) bool {
	okLeft := lt == symbols.Unknown || lt == want
	okRight := rt == symbols.Unknown || rt == want
	return okLeft && okRight
}
