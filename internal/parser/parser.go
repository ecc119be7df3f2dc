// Package parser implements the Mini-PL LL(1) recursive-descent parser.
// Left recursion in the expression grammar is removed via tail
// productions, each realized as a left-threading loop rather than actual
// tail recursion — the standard way to build a left-associative operator
// chain without recursing.
package parser

import (
	"github.com/minipl-lang/minipl/internal/ast"
	"github.com/minipl-lang/minipl/internal/diag"
	"github.com/minipl-lang/minipl/internal/lexer"
	"github.com/minipl-lang/minipl/internal/token"
)

// Parser consumes tokens from a Lexer on demand and produces an ordered
// sequence of top-level statement nodes. It recovers from syntax errors in
// panic mode: a damaged statement contributes no node to the output, and
// parsing resumes at the next statement boundary.
type Parser struct {
	l *lexer.Lexer

	curTok  token.Token
	peekTok token.Token

	diagnostics []*diag.Diagnostic
	lastMessage string // suppresses duplicate consecutive diagnostic text
	aborted     bool   // set once per statement after the first diagnostic
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Diagnostics() []*diag.Diagnostic { return p.diagnostics }
func (p *Parser) HasErrors() bool                 { return len(p.diagnostics) > 0 }

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

// fail records a syntax diagnostic at most once per statement, suppressing
// consecutive duplicates of the same message.
func (p *Parser) fail(tok token.Token, format string, args ...any) {
	p.failAs(diag.Syntax, tok, format, args...)
}

// failAs is fail with an explicit diagnostic kind, used for the one case
// where the parser is merely relaying a lexical error it met at curTok
// rather than reporting a grammar violation of its own.
func (p *Parser) failAs(kind diag.Kind, tok token.Token, format string, args ...any) {
	if p.aborted {
		return
	}
	p.aborted = true
	d := diag.New(kind, tok.Row, tok.Column, format, args...)
	if d.Message == p.lastMessage {
		return
	}
	p.lastMessage = d.Message
	p.diagnostics = append(p.diagnostics, d)
}

// failOnCurrent builds a diagnostic appropriate to the current token: a
// Lexical diagnostic relaying the scanner's own message if it is an
// Illegal token, "unexpected end of file" at Eof, or a generic syntax
// message otherwise.
func (p *Parser) failOnCurrent() {
	switch p.curTok.Kind {
	case token.Illegal:
		p.failAs(diag.Lexical, p.curTok, "%s", p.curTok.Lexeme)
	case token.Eof:
		p.fail(p.curTok, "unexpected end of file")
	default:
		p.fail(p.curTok, "invalid syntax")
	}
}

// match consumes curTok if it has the expected kind, returning the
// consumed token. On mismatch it records a diagnostic and returns the
// zero token; callers must check ok.
func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.curTok.Kind != k {
		p.failOnCurrent()
		return token.Token{}, false
	}
	tok := p.curTok
	p.nextToken()
	return tok, true
}

// synchronize advances past tokens until it sees ';' (which it consumes)
// or Eof (which it leaves in place).
func (p *Parser) synchronize() {
	for p.curTok.Kind != token.StatementEnd && p.curTok.Kind != token.Eof {
		p.nextToken()
	}
	if p.curTok.Kind == token.StatementEnd {
		p.nextToken()
	}
}

// ParseProgram parses statement* until Eof, returning every statement that
// parsed cleanly. Partial failure still returns the statements collected
// so far.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.curTok.Kind != token.Eof {
		p.aborted = false
		stmt := p.parseStatement()
		if p.aborted {
			p.synchronize()
			continue
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Kind {
	case token.KeywordVar:
		return p.parseInit()
	case token.Ident:
		return p.parseAssign()
	case token.KeywordFor:
		return p.parseForLoop()
	case token.KeywordRead:
		return p.parseRead()
	case token.KeywordPrint:
		return p.parsePrint()
	case token.KeywordAssert:
		return p.parseAssert()
	default:
		p.failOnCurrent()
		return nil
	}
}

// parseInit: "var" IDENT ":" type (":=" expr)? ";"
func (p *Parser) parseInit() ast.Statement {
	varTok, _ := p.match(token.KeywordVar)
	if p.aborted {
		return nil
	}

	nameTok, ok := p.match(token.Ident)
	if !ok {
		return nil
	}

	if _, ok := p.match(token.Separator); !ok {
		return nil
	}

	declType, ok := p.parseType()
	if !ok {
		return nil
	}

	variable := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme, DeclaredType: declType}

	var rhs ast.Expression
	if p.curTok.Kind == token.Assignment {
		p.nextToken()
		rhs = p.parseExpr()
		if p.aborted {
			return nil
		}
	}

	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}

	var right ast.Node
	if rhs != nil {
		right = rhs
	}
	return &ast.BinaryExpr{Token: varTok, Op: ast.Init, Left: variable, Right: right}
}

func (p *Parser) parseType() (token.Kind, bool) {
	switch p.curTok.Kind {
	case token.TypeInt, token.TypeString, token.TypeBool:
		k := p.curTok.Kind
		p.nextToken()
		return k, true
	default:
		p.failOnCurrent()
		return "", false
	}
}

// parseAssign: IDENT ":=" expr ";"
func (p *Parser) parseAssign() ast.Statement {
	nameTok := p.curTok
	p.nextToken()

	assignTok, ok := p.match(token.Assignment)
	if !ok {
		return nil
	}

	rhs := p.parseExpr()
	if p.aborted {
		return nil
	}

	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}

	variable := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme}
	return &ast.BinaryExpr{Token: assignTok, Op: ast.Assign, Left: variable, Right: rhs}
}

// parseForLoop: "for" IDENT "in" expr ".." expr "do" statement* "end" "for" ";"
func (p *Parser) parseForLoop() ast.Statement {
	forTok, _ := p.match(token.KeywordFor)
	if p.aborted {
		return nil
	}

	nameTok, ok := p.match(token.Ident)
	if !ok {
		return nil
	}
	iterator := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme}

	if _, ok := p.match(token.KeywordIn); !ok {
		return nil
	}

	start := p.parseExpr()
	if p.aborted {
		return nil
	}

	if _, ok := p.match(token.Range); !ok {
		return nil
	}

	end := p.parseExpr()
	if p.aborted {
		return nil
	}

	if _, ok := p.match(token.KeywordDo); !ok {
		return nil
	}

	var body []ast.Statement
	for p.curTok.Kind != token.KeywordEnd && p.curTok.Kind != token.Eof {
		p.aborted = false
		stmt := p.parseStatement()
		if p.aborted {
			p.synchronize()
			continue
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.aborted = false

	if _, ok := p.match(token.KeywordEnd); !ok {
		return nil
	}
	if _, ok := p.match(token.KeywordFor); !ok {
		return nil
	}
	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}

	return &ast.ForLoop{Token: forTok, Iterator: iterator, Start: start, End: end, Body: body}
}

// parseRead: "read" IDENT ";"
func (p *Parser) parseRead() ast.Statement {
	readTok, _ := p.match(token.KeywordRead)
	if p.aborted {
		return nil
	}
	nameTok, ok := p.match(token.Ident)
	if !ok {
		return nil
	}
	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}
	variable := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme}
	return &ast.Function{Token: readTok, Name: "read", Parameter: variable}
}

// parsePrint: "print" expr ";"
func (p *Parser) parsePrint() ast.Statement {
	printTok, _ := p.match(token.KeywordPrint)
	if p.aborted {
		return nil
	}
	expr := p.parseExpr()
	if p.aborted {
		return nil
	}
	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}
	return &ast.Function{Token: printTok, Name: "print", Parameter: expr}
}

// parseAssert: "assert" "(" expr ")" ";"
func (p *Parser) parseAssert() ast.Statement {
	assertTok, _ := p.match(token.KeywordAssert)
	if p.aborted {
		return nil
	}
	if _, ok := p.match(token.OpenParen); !ok {
		return nil
	}
	expr := p.parseExpr()
	if p.aborted {
		return nil
	}
	if _, ok := p.match(token.CloseParen); !ok {
		return nil
	}
	if _, ok := p.match(token.StatementEnd); !ok {
		return nil
	}
	return &ast.Function{Token: assertTok, Name: "assert", Parameter: expr}
}

// --- Expression grammar, lowest to highest precedence ---
//
//	expr        := and_expr and_tail
//	and_tail    := ("&" and_expr and_tail)?
//	and_expr    := eq_expr eq_tail
//	eq_tail     := ("=" eq_expr eq_tail)?
//	eq_expr     := cmp_expr cmp_tail
//	cmp_tail    := ("<" cmp_expr cmp_tail)?
//	cmp_expr    := term term_tail
//	term_tail   := (("+"|"-") term term_tail)?
//	term        := factor factor_tail
//	factor_tail := (("*"|"/") factor factor_tail)?
//	factor      := unary
//	unary       := "!" unary | primary
//	primary     := IDENT | INT | STRING | "(" expr ")"
//
// Unary '!' is parsed as a prefix operator inside unary, not in a postfix
// tail position — the resolution of the reference grammar's ambiguous
// placement of '!' (see the design notes).

func (p *Parser) parseExpr() ast.Expression {
	return p.parseAnd()
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	if p.aborted {
		return nil
	}
	for p.curTok.Kind == token.And {
		opTok := p.curTok
		p.nextToken()
		right := p.parseEquality()
		if p.aborted {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Op: ast.LogicalAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	if p.aborted {
		return nil
	}
	for p.curTok.Kind == token.Equals {
		opTok := p.curTok
		p.nextToken()
		right := p.parseComparison()
		if p.aborted {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Op: ast.Equality, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	if p.aborted {
		return nil
	}
	for p.curTok.Kind == token.LessThan {
		opTok := p.curTok
		p.nextToken()
		right := p.parseAdditive()
		if p.aborted {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Op: ast.LessThan, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseTerm()
	if p.aborted {
		return nil
	}
	for p.curTok.Kind == token.Add || p.curTok.Kind == token.Minus {
		opTok := p.curTok
		op := ast.Add
		if opTok.Kind == token.Minus {
			op = ast.Minus
		}
		p.nextToken()
		right := p.parseTerm()
		if p.aborted {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseUnary()
	if p.aborted {
		return nil
	}
	for p.curTok.Kind == token.Multiply || p.curTok.Kind == token.Divide {
		opTok := p.curTok
		op := ast.Multiply
		if opTok.Kind == token.Divide {
			op = ast.Divide
		}
		p.nextToken()
		right := p.parseUnary()
		if p.aborted {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curTok.Kind == token.Not {
		notTok := p.curTok
		p.nextToken()
		child := p.parseUnary()
		if p.aborted {
			return nil
		}
		return &ast.Not{Token: notTok, Child: child}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curTok.Kind {
	case token.Ident:
		tok := p.curTok
		p.nextToken()
		return &ast.Variable{Token: tok, Name: tok.Lexeme}
	case token.ValInt:
		tok := p.curTok
		p.nextToken()
		return &ast.Integer{Token: tok, Lexeme: tok.Lexeme}
	case token.ValString:
		tok := p.curTok
		p.nextToken()
		return &ast.String{Token: tok, Value: tok.Lexeme}
	case token.OpenParen:
		p.nextToken()
		inner := p.parseExpr()
		if p.aborted {
			return nil
		}
		if _, ok := p.match(token.CloseParen); !ok {
			return nil
		}
		return inner
	default:
		p.failOnCurrent()
		return nil
	}
}
