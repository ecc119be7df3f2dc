package analyzer

import (
	"testing"

	"github.com/minipl-lang/minipl/internal/lexer"
	"github.com/minipl-lang/minipl/internal/parser"
)

func analyze(t *testing.T, input string) []string {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	prog := p.ParseProgram()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Diagnostics())
	}

	a := New()
	diags := a.Analyze(prog)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return msgs
}

func TestWellTypedProgramHasNoDiagnostics(t *testing.T) {
	msgs := analyze(t, `var x : int := 4 + (6 * 2);
var y : string := "hello";
print y;
var i : int;
for i in 0..x do
  print i;
end for;`)
	if len(msgs) != 0 {
		t.Fatalf("expected no diagnostics, got=%v", msgs)
	}
}

func TestRedeclarationInSameScope(t *testing.T) {
	msgs := analyze(t, `var x : int;
var x : int;`)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic, got=%v", msgs)
	}
}

func TestAssignToUndeclaredVariable(t *testing.T) {
	msgs := analyze(t, `x := 1;`)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic, got=%v", msgs)
	}
}

func TestAssignTypeMismatch(t *testing.T) {
	msgs := analyze(t, `var x : int;
x := "oops";`)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic, got=%v", msgs)
	}
}

func TestAssertRequiresBoolean(t *testing.T) {
	msgs := analyze(t, `var x : int := 1;
assert (x);`)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic, got=%v", msgs)
	}
}

func TestForLoopScopeDiscardsIterationLocals(t *testing.T) {
	msgs := analyze(t, `var i : int;
for i in 0..3 do
  var y : int := i;
end for;
var y : int;`)
	if len(msgs) != 0 {
		t.Fatalf("expected no diagnostics (y in the loop body shouldn't leak), got=%v", msgs)
	}
}

func TestForLoopReusingOuterIteratorIsNotRedeclaration(t *testing.T) {
	msgs := analyze(t, `var i : int := 0;
for i in 0..3 do
  print i;
end for;`)
	if len(msgs) != 0 {
		t.Fatalf("expected no diagnostics, got=%v", msgs)
	}
}

func TestDeclaringOverAnEnclosingScopeNameIsRedeclaration(t *testing.T) {
	msgs := analyze(t, `var i : int := 0;
var x : int;
for x in 0..3 do
  var i : int := 1;
end for;`)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 diagnostic (i already defined in an enclosing scope), got=%v", msgs)
	}
}
