// Package interp wires the scanner, parser, analyzer, and evaluator into
// a single pipeline: source text in, diagnostics and program output out.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/minipl-lang/minipl/internal/analyzer"
	"github.com/minipl-lang/minipl/internal/ast"
	"github.com/minipl-lang/minipl/internal/diag"
	"github.com/minipl-lang/minipl/internal/evaluator"
	"github.com/minipl-lang/minipl/internal/lexer"
	"github.com/minipl-lang/minipl/internal/parser"
	"github.com/minipl-lang/minipl/internal/token"
)

// Options configures a Run. Dump hooks are debug aids wired to the CLI's
// --dump-tokens/--dump-ast flags; both default to off.
type Options struct {
	Stdout     io.Writer
	Stdin      io.Reader
	DumpTokens bool
	DumpAST    bool
}

// Result carries every diagnostic produced across the pipeline, in the
// order the phases ran: lexical errors surface through the parser's own
// token stream, then syntax, then semantic, then at most one runtime
// diagnostic.
type Result struct {
	Diagnostics []*diag.Diagnostic
}

// Run executes src end to end. It stops at the first phase that produced
// diagnostics: a program with syntax errors is never analyzed, and a
// program with semantic errors is never evaluated.
func Run(src string, opts Options) *Result {
	if opts.DumpTokens {
		dumpTokens(src)
	}

	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()

	if opts.DumpAST {
		ast.Print(prog, "")
	}

	if p.HasErrors() {
		return &Result{Diagnostics: p.Diagnostics()}
	}

	an := analyzer.New()
	an.Analyze(prog)
	if an.HasErrors() {
		return &Result{Diagnostics: an.Diagnostics()}
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}

	ev := evaluator.New(out, in)
	if d := ev.Run(prog); d != nil {
		return &Result{Diagnostics: []*diag.Diagnostic{d}}
	}

	return &Result{}
}

func dumpTokens(src string) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(os.Stderr, "%-12s %-8q row=%d col=%d\n", tok.Kind, tok.Lexeme, tok.Row, tok.Column)
		if tok.Kind == token.Eof {
			break
		}
	}
}
