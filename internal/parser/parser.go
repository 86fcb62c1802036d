// Package parser implements a recursive-descent parser for the grammar in
// spec.md §6, producing internal/ast expression trees.
package parser

import (
	"strconv"

	"github.com/silverneko/ulc/internal/ast"
	"github.com/silverneko/ulc/internal/diagnostics"
	"github.com/silverneko/ulc/internal/lexer"
	"github.com/silverneko/ulc/internal/token"
)

// Parser consumes tokens from a lexer.Lexer one at a time, with a
// one-token pushback buffer. The pushback is what lets the grammar's
// `let ... in` production hand an un-consumed `in` (or a closing `)`)
// back to its caller instead of erroring — the same role `Scanner::ungetToken`
// plays in the original C++ implementation this spec was distilled from.
type Parser struct {
	lex      *lexer.Lexer
	buffered *token.Token
	diags    diagnostics.Bag
}

// New returns a Parser reading from src.
func New(src string) *Parser {
	return &Parser{lex: lexer.New(src)}
}

// Parse parses a complete program: a single expression followed by EOF.
func Parse(src string) (ast.Expr, error) {
	p := New(src)
	e, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.Type != token.EOF {
		return nil, p.errorf(diagnostics.Parse, tok, "unexpected trailing token %q", tok.Lexeme)
	}
	return e, nil
}

func (p *Parser) next() token.Token {
	if p.buffered != nil {
		t := *p.buffered
		p.buffered = nil
		return t
	}
	return p.lex.NextToken()
}

func (p *Parser) unget(t token.Token) {
	if t.Type == token.EOF {
		return
	}
	t2 := t
	p.buffered = &t2
}

func (p *Parser) peek() token.Token {
	t := p.next()
	p.unget(t)
	return t
}

func (p *Parser) errorf(stage diagnostics.Stage, tok token.Token, format string, args ...any) error {
	d := diagnostics.New(stage, tok, format, args...)
	p.diags.Add(d)
	return d
}

// ParseExpr parses `expr := expr_tail { expr_tail }`, the left-associative
// application production.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	e, err := p.parseExprTail()
	if err != nil {
		return nil, err
	}
	if e == nil {
		tok := p.peek()
		if tok.Type == token.EOF {
			return nil, p.errorf(diagnostics.Parse, tok, "unexpected end of input: expected an expression")
		}
		return nil, p.errorf(diagnostics.Parse, tok, "unexpected token %q: expected an expression", tok.Lexeme)
	}
	for {
		arg, err := p.parseExprTail()
		if err != nil {
			return nil, err
		}
		if arg == nil {
			return e, nil
		}
		e = &ast.Ap{Fun: e, Arg: arg}
	}
}

// parseExprTail parses one `expr_tail` production. A nil Expr with a nil
// error is not a failure: it signals that the current token belongs to an
// enclosing production (a closing `)`, a trailing `in`, or end of input)
// and should be pushed back for the caller to see.
func (p *Parser) parseExprTail() (ast.Expr, error) {
	tok := p.next()

	switch tok.Type {
	case token.LAMBDA:
		name := p.next()
		if name.Type != token.IDENT {
			return nil, p.errorf(diagnostics.Parse, name, "expected an identifier after '\\', got %q", name.Lexeme)
		}
		body, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Lam{Name: name.Lexeme, Body: body}, nil

	case token.LET:
		return p.parseLet()

	case token.LPAREN:
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		rparen := p.next()
		if rparen.Type != token.RPAREN {
			return nil, p.errorf(diagnostics.Parse, rparen, "expected ')', got %q", rparen.Lexeme)
		}
		return inner, nil

	case token.IDENT:
		return &ast.Var{Name: tok.Lexeme}, nil

	case token.INT:
		v, convErr := strconv.Atoi(tok.Lexeme)
		if convErr != nil {
			return nil, p.errorf(diagnostics.Parse, tok, "malformed integer literal %q", tok.Lexeme)
		}
		return &ast.Const{Val: v}, nil

	case token.CHAR:
		r := []rune(tok.Lexeme)
		return &ast.Const{Val: int(r[0])}, nil

	case token.RPAREN, token.IN, token.EOF:
		// Belongs to an enclosing production; hand it back unconsumed.
		p.unget(tok)
		return nil, nil

	default:
		return nil, p.errorf(diagnostics.Lex, tok, "unexpected input %q", tok.Lexeme)
	}
}

// parseLet desugars `let x E1 in E2` to `(\x E2) E1`, per spec.md §6.
func (p *Parser) parseLet() (ast.Expr, error) {
	name := p.next()
	if name.Type != token.IDENT {
		return nil, p.errorf(diagnostics.Parse, name, "expected an identifier after 'let', got %q", name.Lexeme)
	}
	value, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	inTok := p.next()
	if inTok.Type != token.IN {
		return nil, p.errorf(diagnostics.Parse, inTok, "expected 'in', got %q", inTok.Lexeme)
	}
	body, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Ap{
		Fun: &ast.Lam{Name: name.Lexeme, Body: body},
		Arg: value,
	}, nil
}
