package parser

import (
	"errors"
	"fmt"
	"slices"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

const maxArgs = 255

// errParse unwinds to the nearest declaration, where the parser
// synchronizes. The failure itself has already been reported.
var errParse = errors.New("parse error")

// target is the last Variable or Get produced, with the token span
// [start, end) it was parsed from. E is opaque to the parser, so this is how
// an assignment learns what its left-hand side was.
type target[E any] struct {
	start, end int
	name       token.Token
	object     E
	get        bool
}

type Parser[E any, S any] struct {
	current  int
	failed   bool
	tokens   []token.Token
	alg      ast.Alg[E, S]
	reporter *diag.Reporter
	target   *target[E]
}

func New[E any, S any](tokens []token.Token, alg ast.Alg[E, S], reporter *diag.Reporter) *Parser[E, S] {
	return &Parser[E, S]{tokens: tokens, alg: alg, reporter: reporter}
}

// Parse returns the program's declarations, or nil if any syntax error was
// reported. Every malformed declaration is reported once.
func (p *Parser[E, S]) Parse() []S {
	var stmts []S
	for !p.isAtEnd() {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}

	if p.failed {
		return nil
	}

	return stmts
}

func (p *Parser[E, S]) declaration() (S, bool) {
	stmt, err := p.declare()
	if err != nil {
		p.synchronize()
		return stmt, false
	}

	return stmt, true
}

func (p *Parser[E, S]) declare() (S, error) {
	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser[E, S]) classDeclaration() (S, error) {
	var zero S

	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return zero, err
	}

	var superclass E
	if p.match(token.Less) {
		super, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return zero, err
		}

		superclass = p.alg.Variable(super)
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return zero, err
	}

	var methods []S
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		fun, err := p.function("method")
		if err != nil {
			return zero, err
		}

		methods = append(methods, fun)
	}

	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return zero, err
	}

	return p.alg.Class(name, superclass, methods), nil
}

func (p *Parser[E, S]) function(kind string) (S, error) {
	var zero S

	name, err := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return zero, err
	}

	if _, err := p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return zero, err
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 parameters.")
			}

			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return zero, err
			}

			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return zero, err
	}

	if _, err := p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return zero, err
	}

	body, err := p.blockStmts()
	if err != nil {
		return zero, err
	}

	return p.alg.Function(name, params, body), nil
}

func (p *Parser[E, S]) varDeclaration() (S, error) {
	var zero S

	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return zero, err
	}

	var init E
	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return zero, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return zero, err
	}

	return p.alg.Var(name, init), nil
}

func (p *Parser[E, S]) statement() (S, error) {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser[E, S]) returnStatement() (S, error) {
	var zero S
	keyword := p.previous()

	var value E
	if !p.check(token.Semicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return zero, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return zero, err
	}

	return p.alg.Return(keyword, value), nil
}

// forStatement desugars into an optional initializer and a while loop,
// with the increment appended to the loop body.
func (p *Parser[E, S]) forStatement() (S, error) {
	var zero S

	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return zero, err
	}

	var (
		init    S
		hasInit bool
		err     error
	)
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
		hasInit = true
	default:
		init, err = p.expressionStatement()
		hasInit = true
	}

	if err != nil {
		return zero, err
	}

	cond := p.alg.Literal(true)
	if !p.check(token.Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return zero, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after loop condition."); err != nil {
		return zero, err
	}

	var (
		incr    E
		hasIncr bool
	)
	if !p.check(token.RightParen) {
		incr, err = p.expression()
		if err != nil {
			return zero, err
		}

		hasIncr = true
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
		return zero, err
	}

	body, err := p.statement()
	if err != nil {
		return zero, err
	}

	if hasIncr {
		body = p.alg.Block([]S{body, p.alg.ExprStatement(incr)})
	}

	body = p.alg.While(cond, body)

	if hasInit {
		body = p.alg.Block([]S{init, body})
	}

	return body, nil
}

func (p *Parser[E, S]) whileStatement() (S, error) {
	var zero S

	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return zero, err
	}

	cond, err := p.expression()
	if err != nil {
		return zero, err
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after condition."); err != nil {
		return zero, err
	}

	body, err := p.statement()
	if err != nil {
		return zero, err
	}

	return p.alg.While(cond, body), nil
}

func (p *Parser[E, S]) ifStatement() (S, error) {
	var zero S

	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return zero, err
	}

	cond, err := p.expression()
	if err != nil {
		return zero, err
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return zero, err
	}

	then, err := p.statement()
	if err != nil {
		return zero, err
	}

	var _else S
	if p.match(token.Else) {
		_else, err = p.statement()
		if err != nil {
			return zero, err
		}
	}

	return p.alg.If(cond, then, _else), nil
}

// blockStmts parses declarations up to and including the closing brace.
// A malformed declaration inside the block is skipped, not fatal.
func (p *Parser[E, S]) blockStmts() ([]S, error) {
	stmts := []S{}
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser[E, S]) block() (S, error) {
	stmts, err := p.blockStmts()
	if err != nil {
		var zero S
		return zero, err
	}

	return p.alg.Block(stmts), nil
}

func (p *Parser[E, S]) expressionStatement() (S, error) {
	var zero S

	expr, err := p.expression()
	if err != nil {
		return zero, err
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return zero, err
	}

	return p.alg.ExprStatement(expr), nil
}

func (p *Parser[E, S]) expression() (E, error) {
	return p.assignment()
}

func (p *Parser[E, S]) assignment() (E, error) {
	start := p.current

	expr, err := p.or()
	if err != nil {
		return expr, err
	}

	if !p.match(token.Equal) {
		return expr, nil
	}

	equals := p.previous()
	t := p.target
	valid := t != nil && t.start == start && t.end == p.current-1

	value, err := p.assignment()
	if err != nil {
		return value, err
	}

	switch {
	case valid && t.get:
		return p.alg.Set(t.object, t.name, value), nil
	case valid:
		return p.alg.Assign(t.name, value), nil
	}

	// reported, but the parse goes on
	p.error(equals, "Invalid assignment target.")

	return expr, nil
}

func (p *Parser[E, S]) or() (E, error) {
	expr, err := p.and()
	if err != nil {
		return expr, err
	}

	for p.match(token.Or) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return right, err
		}

		expr = p.alg.Logical(op, expr, right)
	}

	return expr, nil
}

func (p *Parser[E, S]) and() (E, error) {
	expr, err := p.equality()
	if err != nil {
		return expr, err
	}

	for p.match(token.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return right, err
		}

		expr = p.alg.Logical(op, expr, right)
	}

	return expr, nil
}

func (p *Parser[E, S]) equality() (E, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser[E, S]) comparison() (E, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser[E, S]) term() (E, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser[E, S]) factor() (E, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operands joined by kinds.
func (p *Parser[E, S]) binary(operand func() (E, error), kinds ...token.Kind) (E, error) {
	expr, err := operand()
	if err != nil {
		return expr, err
	}

	for p.match(kinds...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return right, err
		}

		expr = p.alg.Binary(op, expr, right)
	}

	return expr, nil
}

func (p *Parser[E, S]) unary() (E, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return right, err
		}

		return p.alg.Unary(op, right), nil
	}

	return p.call()
}

func (p *Parser[E, S]) call() (E, error) {
	start := p.current

	expr, err := p.primary()
	if err != nil {
		return expr, err
	}

	for {
		if p.match(token.LeftParen) {
			expr, err = p.finishCall(expr)
			if err != nil {
				return expr, err
			}
		} else if p.match(token.Dot) {
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				var zero E
				return zero, err
			}

			p.target = &target[E]{start: start, end: p.current, name: name, object: expr, get: true}
			expr = p.alg.Get(expr, name)
		} else {
			break
		}
	}

	return expr, nil
}

func (p *Parser[E, S]) finishCall(callee E) (E, error) {
	var zero E
	var args []E

	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 arguments.")
			}

			expr, err := p.expression()
			if err != nil {
				return zero, err
			}

			args = append(args, expr)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return zero, err
	}

	return p.alg.Call(callee, paren, args), nil
}

func (p *Parser[E, S]) primary() (E, error) {
	var zero E

	switch {
	case p.match(token.Identifier):
		name := p.previous()
		p.target = &target[E]{start: p.current - 1, end: p.current, name: name}
		return p.alg.Variable(name), nil
	case p.match(token.False):
		return p.alg.Literal(false), nil
	case p.match(token.True):
		return p.alg.Literal(true), nil
	case p.match(token.Nil):
		return p.alg.Literal(nil), nil
	case p.match(token.Number, token.String):
		return p.alg.Literal(p.previous().Literal), nil
	case p.match(token.This):
		return p.alg.This(p.previous()), nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return zero, err
		}

		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return zero, err
		}

		return p.alg.Super(keyword, method), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return zero, err
		}

		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return zero, err
		}

		return p.alg.Grouping(expr), nil
	}

	return zero, p.error(p.peek(), "Expect expression.")
}

// synchronize method moves cursor
// to the next statement
func (p *Parser[E, S]) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Return:
			return
		}

		p.advance()
	}
}

// error reports at tok and returns errParse for callers that need to unwind.
func (p *Parser[E, S]) error(tok token.Token, message string) error {
	p.failed = true
	p.reporter.ReportAt(tok, message)

	return errParse
}

func (p *Parser[E, S]) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return token.Token{}, p.error(p.peek(), message)
}

func (p *Parser[E, S]) match(kinds ...token.Kind) bool {
	if slices.ContainsFunc(kinds, p.check) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser[E, S]) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p *Parser[E, S]) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser[E, S]) isAtEnd() bool {
	return p.peek().Kind == token.Eof
}

func (p *Parser[E, S]) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser[E, S]) previous() token.Token {
	return p.tokens[p.current-1]
}
