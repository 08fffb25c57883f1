// Package parser implements a recursive-descent parser with Pratt
// (precedence-climbing) expression parsing, structurally grounded on
// the teacher's internal/parser: precedence and operator tables keyed
// by token.Kind, curIs/peekIs/expect helpers, and a
// parseExpression(precedence) loop. The surface grammar itself is
// authored fresh for this language (SPEC_FULL.md §4.7), since the
// C++ original's own parser was filtered out of the retrieval pack.
package parser

import (
	"fmt"

	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/lexer"
	"github.com/flamelang/flame/pkg/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	precAssign
	precOr
	precAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var precedences = map[token.Kind]int{
	token.ASSIGN: precAssign,
	token.OR:     precOr,
	token.AND:    precAnd,
	token.EQ:     precEquality,
	token.NE:     precEquality,
	token.LT:     precRelational,
	token.LE:     precRelational,
	token.GT:     precRelational,
	token.GE:     precRelational,
	token.SHL:    precShift,
	token.SHR:    precShift,
	token.PLUS:   precAdditive,
	token.MINUS:  precAdditive,
	token.STAR:   precMultiplicative,
	token.SLASH:  precMultiplicative,
	token.PERCENT: precMultiplicative,
	token.LPAREN: precPostfix,
	token.LBRACKET: precPostfix,
	token.DOT:    precPostfix,
	token.DCOLON: precPostfix,
}

var binOps = map[token.Kind]ast.BinOp{
	token.PLUS: ast.Add, token.MINUS: ast.Sub, token.STAR: ast.Mul,
	token.SLASH: ast.Div, token.PERCENT: ast.Mod,
	token.SHL: ast.Shl, token.SHR: ast.Shr,
	token.LT: ast.Lt, token.LE: ast.Le, token.GT: ast.Gt, token.GE: ast.Ge,
	token.EQ: ast.Eq, token.NE: ast.Ne,
	token.AND: ast.LogAnd, token.OR: ast.LogOr,
}

// Parser turns a token stream into an *ast.Program. Errors are fatal:
// the first syntax error panics through diag.Sink.Fatal and is
// recovered by Parse, matching the checker's own emit-vs-stop
// discipline (spec.md §4.8) rather than accumulating partial,
// possibly-nil subtrees a caller would have to nil-check everywhere.
type Parser struct {
	l    *lexer.Lexer
	sink *diag.Sink

	cur  token.Token
	peek token.Token
}

// New constructs a Parser over l, reporting through sink.
func New(l *lexer.Lexer, sink *diag.Sink) *Parser {
	p := &Parser{l: l, sink: sink}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.curIs(k) {
		p.sink.Fatal(p.cur.Pos, diag.CategorySyntax, "expected %s, found %s", k, p.cur.Kind)
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) peekPrec() int {
	if prec, ok := precedences[p.peek.Kind]; ok {
		return prec
	}
	return 0
}

// Parse scans the whole program, recovering a syntax error into a nil
// *ast.Program plus whatever diagnostics sink collected.
func Parse(src string, sink *diag.Sink) (prog *ast.Program, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isFatal := diag.AsFatal(r); !isFatal {
				panic(r)
			}
			prog, ok = nil, false
		}
	}()

	l := lexer.New(src, sink)
	p := New(l, sink)
	prog = p.parseProgram()
	return prog, true
}

func (p *Parser) parseProgram() *ast.Program {
	tok := p.cur
	root := &ast.Block{Tok: tok}

	for !p.curIs(token.EOF) {
		root.Stmts = append(root.Stmts, p.parseTopLevel())
	}

	return &ast.Program{Root: root}
}

func (p *Parser) parseTopLevel() ast.Stmt {
	switch p.cur.Kind {
	case token.FN:
		return p.parseFunction(nil)
	case token.CLASS:
		return p.parseClass()
	case token.ENUM:
		return p.parseEnum()
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.LET:
		return p.parseVarDef()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.TRY:
		return p.parseTryCatch()
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.BREAK:
		tok := p.expect(token.BREAK)
		p.expect(token.SEMI)
		return &ast.BreakStmt{Tok: tok}
	case token.CONTINUE:
		tok := p.expect(token.CONTINUE)
		p.expect(token.SEMI)
		return &ast.ContinueStmt{Tok: tok}
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.expect(token.LBRACE)
	b := &ast.Block{Tok: tok}

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur.Kind {
		case token.FN:
			b.Stmts = append(b.Stmts, p.parseFunction(nil))
		case token.CLASS:
			b.Stmts = append(b.Stmts, p.parseClass())
		case token.ENUM:
			b.Stmts = append(b.Stmts, p.parseEnum())
		default:
			b.Stmts = append(b.Stmts, p.parseStatement())
		}
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseVarDef() *ast.VarDef {
	tok := p.expect(token.LET)
	name := p.expect(token.IDENT).Literal

	v := &ast.VarDef{Tok: tok, Name: name}

	if p.curIs(token.COLON) {
		p.next()
		v.DeclaredTy = p.parseTypeExpr()
	}

	if p.curIs(token.ASSIGN) {
		p.next()
		v.Init = p.parseExpression(precAssign)
	}

	p.expect(token.SEMI)
	return v
}

func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	tok := p.expect(token.IDENT)
	t := &ast.TypeExpr{Tok: tok, Name: tok.Literal}

	if p.curIs(token.LT) {
		p.next()
		t.Params = append(t.Params, p.parseTypeExpr())
		for p.curIs(token.COMMA) {
			p.next()
			t.Params = append(t.Params, p.parseTypeExpr())
		}
		p.expect(token.GT)
	}

	return t
}

func (p *Parser) parseIf() *ast.IfStmt {
	tok := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(token.RPAREN)
	then := p.parseBlock()

	s := &ast.IfStmt{Tok: tok, Cond: cond, Then: then}
	if p.curIs(token.ELSE) {
		p.next()
		if p.curIs(token.IF) {
			s.Else = p.parseIf()
		} else {
			s.Else = p.parseBlock()
		}
	}
	return s
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	tok := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{Tok: tok, Cond: cond, Body: body}
}

func (p *Parser) parseTryCatch() *ast.TryCatchStmt {
	tok := p.expect(token.TRY)
	body := p.parseBlock()

	s := &ast.TryCatchStmt{Tok: tok, Body: body}
	for p.curIs(token.CATCH) {
		ctok := p.expect(token.CATCH)
		p.expect(token.LPAREN)
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		ty := p.parseTypeExpr()
		p.expect(token.RPAREN)
		cbody := p.parseBlock()
		s.Catches = append(s.Catches, &ast.CatchClause{
			Tok: ctok, Name: name, DeclaredTy: ty, Body: cbody,
		})
	}
	return s
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	tok := p.expect(token.RETURN)
	r := &ast.ReturnStmt{Tok: tok}
	if !p.curIs(token.SEMI) {
		r.Value = p.parseExpression(precAssign)
	}
	p.expect(token.SEMI)
	return r
}

func (p *Parser) parseThrow() *ast.ThrowStmt {
	tok := p.expect(token.THROW)
	v := p.parseExpression(precAssign)
	p.expect(token.SEMI)
	return &ast.ThrowStmt{Tok: tok, Value: v}
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	tok := p.cur
	e := p.parseExpression(precAssign)
	p.expect(token.SEMI)
	return &ast.ExprStmt{Tok: tok, Expr: e}
}

// parseFunction parses "fn name[<T1,T2>](args) [-> Type] { body }".
// memberOf is non-nil when parsing a method inside a class body.
func (p *Parser) parseFunction(memberOf *ast.Class) *ast.Function {
	tok := p.expect(token.FN)
	name := p.expect(token.IDENT).Literal

	fn := &ast.Function{Tok: tok, Name: name, MemberOf: memberOf}

	if p.curIs(token.LT) {
		p.next()
		fn.TemplateParams = append(fn.TemplateParams, p.expect(token.IDENT).Literal)
		for p.curIs(token.COMMA) {
			p.next()
			fn.TemplateParams = append(fn.TemplateParams, p.expect(token.IDENT).Literal)
		}
		p.expect(token.GT)
		fn.IsTemplate = true
	}

	p.expect(token.LPAREN)
	for !p.curIs(token.RPAREN) {
		atok := p.cur
		aname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		aty := p.parseTypeExpr()
		fn.Args = append(fn.Args, &ast.Argument{Tok: atok, Name: aname, DeclaredTy: aty})
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)

	if p.curIs(token.ARROW) {
		p.next()
		fn.DeclaredRet = p.parseTypeExpr()
	}

	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseClass() *ast.Class {
	tok := p.expect(token.CLASS)
	name := p.expect(token.IDENT).Literal
	c := &ast.Class{Tok: tok, Name: name}

	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.FN) {
			c.Methods = append(c.Methods, p.parseFunction(c))
			continue
		}
		atok := p.cur
		aname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		aty := p.parseTypeExpr()
		p.expect(token.SEMI)
		c.MemberVars = append(c.MemberVars, &ast.Argument{Tok: atok, Name: aname, DeclaredTy: aty})
	}
	p.expect(token.RBRACE)
	return c
}

func (p *Parser) parseEnum() *ast.Enum {
	tok := p.expect(token.ENUM)
	name := p.expect(token.IDENT).Literal
	e := &ast.Enum{Tok: tok, Name: name}

	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) {
		e.Enumerators = append(e.Enumerators, p.expect(token.IDENT).Literal)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return e
}

// parseExpression implements precedence climbing: a prefix parser
// produces the left operand, then a loop consumes infix operators
// whose precedence exceeds the caller's minimum (assignment is also
// taken at precAssign itself, and binds right-associatively).
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrefix()

	for {
		prec, ok := precedences[p.cur.Kind]
		if !ok || (prec <= minPrec && !(p.cur.Kind == token.ASSIGN && minPrec <= precAssign)) {
			return left
		}
		switch p.cur.Kind {
		case token.LPAREN:
			left = p.parseCall(left)
		case token.LBRACKET:
			left = p.parseIndex(left)
		case token.DOT:
			left = p.parseMemberAccess(left)
		case token.DCOLON:
			left = p.parseScopeResol(left)
		case token.ASSIGN:
			tok := p.cur
			p.next()
			right := p.parseExpression(precAssign - 1)
			left = &ast.AssignExpr{Tok: tok, Left: left, Right: right}
		default:
			op, ok := binOps[p.cur.Kind]
			if !ok {
				return left
			}
			tok := p.cur
			p.next()
			right := p.parseExpression(prec)
			left = &ast.BinaryExpr{Tok: tok, Op: op, Left: left, Right: right}
		}
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Kind {
	case token.INT:
		return p.parseIntLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.STRING:
		tok := p.cur
		p.next()
		return &ast.StringLit{Tok: tok, Value: tok.Literal}
	case token.CHAR:
		tok := p.cur
		p.next()
		r := []rune(tok.Literal)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		return &ast.CharLit{Tok: tok, Value: v}
	case token.TRUE, token.FALSE:
		tok := p.cur
		p.next()
		return &ast.BoolLit{Tok: tok, Value: tok.Kind == token.TRUE}
	case token.NONE:
		tok := p.cur
		p.next()
		return &ast.NoneLit{Tok: tok}
	case token.IDENT:
		tok := p.cur
		p.next()
		return &ast.Identifier{Tok: tok, Name: tok.Literal}
	case token.LPAREN:
		p.next()
		e := p.parseExpression(precAssign)
		p.expect(token.RPAREN)
		return e
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.NOT:
		tok := p.cur
		p.next()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpr{Tok: tok, Op: ast.Not, Operand: operand}
	case token.MINUS:
		// Unary minus is desugared to "0 - expr" (SPEC_FULL §4.7):
		// no dedicated AST node or evaluator/object case is needed.
		tok := p.cur
		p.next()
		operand := p.parseExpression(precUnary)
		zero := &ast.IntLit{Tok: tok, Value: 0}
		return &ast.BinaryExpr{Tok: tok, Op: ast.Sub, Left: zero, Right: operand}
	default:
		p.sink.Fatal(p.cur.Pos, diag.CategorySyntax, "unexpected token %s in expression", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.cur
	p.next()
	var v int64
	fmt.Sscanf(tok.Literal, "%d", &v)
	return &ast.IntLit{Tok: tok, Value: v}
}

func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.cur
	p.next()
	var v float64
	fmt.Sscanf(tok.Literal, "%g", &v)
	return &ast.FloatLit{Tok: tok, Value: v}
}

func (p *Parser) parseArrayLit() ast.Expr {
	tok := p.expect(token.LBRACKET)
	a := &ast.ArrayLit{Tok: tok}
	for !p.curIs(token.RBRACKET) {
		a.Elements = append(a.Elements, p.parseExpression(precAssign))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return a
}

// parseCall parses the "(args...)" following callee; cur is LPAREN.
func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	tok := p.cur
	p.expect(token.LPAREN)
	c := &ast.CallExpr{Tok: tok, Callee: callee}
	for !p.curIs(token.RPAREN) {
		c.Args = append(c.Args, p.parseExpression(precAssign))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return c
}

// parseIndex parses the "[index]" following left; cur is LBRACKET.
func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	tok := p.cur
	p.expect(token.LBRACKET)
	idx := p.parseExpression(precAssign)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Tok: tok, Left: left, Index: idx}
}

// parseMemberAccess parses ".name" following left; cur is DOT.
func (p *Parser) parseMemberAccess(left ast.Expr) ast.Expr {
	tok := p.cur
	p.expect(token.DOT)
	name := p.expect(token.IDENT).Literal
	return &ast.MemberAccess{Tok: tok, Left: left, Name: name}
}

// parseScopeResol parses "::name" following left (enumerator access,
// or explicit template args via "::<T1,T2>"); cur is DCOLON.
func (p *Parser) parseScopeResol(left ast.Expr) ast.Expr {
	tok := p.cur
	p.expect(token.DCOLON)

	if p.curIs(token.LT) {
		// "name::<T1, T2>(args)" — explicit template arguments. We
		// fold them onto the Identifier's resolution slot (Sema reads
		// them from there when matching a generic call) rather than
		// inventing a dedicated AST node, since this is purely a call-
		// site annotation with no standalone meaning.
		ident, ok := left.(*ast.Identifier)
		if !ok {
			p.sink.Fatal(tok.Pos, diag.CategorySyntax, "explicit template arguments require a plain function name")
		}
		p.next()
		ident.ExplicitTemplateArgs = append(ident.ExplicitTemplateArgs, p.parseTypeExpr())
		for p.curIs(token.COMMA) {
			p.next()
			ident.ExplicitTemplateArgs = append(ident.ExplicitTemplateArgs, p.parseTypeExpr())
		}
		p.expect(token.GT)
		return ident
	}

	name := p.expect(token.IDENT).Literal
	return &ast.ScopeResol{Tok: tok, Left: left, Member: name}
}
