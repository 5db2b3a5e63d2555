// Package parser turns a token stream into Tang's AST (§3.3, §6.2).
//
// It follows the teacher's Pratt-parsing design (dr8co/kong's
// parser/parser.go): a precedence table, prefix/infix parse-function
// maps keyed by token type, and a core parseExpression(precedence) loop
// that climbs precedence levels by repeatedly calling the registered
// infix function for the peeked token as long as its precedence beats
// the current one. Tang's fuller grammar adds statement forms (global,
// use, print, while, do-while, for, ranged-for, break, continue,
// function declarations) and expression forms (ternary, cast, index,
// slice, period access) the teacher's Monkey grammar never needed.
package parser

import (
	"fmt"

	"github.com/tang-lang/tang/ast"
	"github.com/tang-lang/tang/lexer"
	"github.com/tang-lang/tang/token"
	"github.com/tang-lang/tang/value"
)

// Precedence levels, lowest to highest, mirroring the teacher's
// Lowest/Equals/LessGreater/Sum/Product/Prefix/Call/Index ladder with
// Ternary and Or/And slotted in below Equals.
const (
	Lowest int = iota
	TernaryPrec
	OrPrec
	AndPrec
	Equals
	LessGreater
	Sum
	Product
	Prefix
	Call
	Index
	Period
)

var precedences = map[token.Type]int{
	token.QUESTION: TernaryPrec,
	token.OR:       OrPrec,
	token.AND:      AndPrec,
	token.EQ:       Equals,
	token.NOT_EQ:   Equals,
	token.LT:       LessGreater,
	token.LTE:      LessGreater,
	token.GT:       LessGreater,
	token.GTE:      LessGreater,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.SLASH:    Product,
	token.ASTERISK: Product,
	token.PERCENT:  Product,
	token.LPAREN:   Call,
	token.LBRACKET: Index,
	token.DOT:      Period,
}

type (
	prefixParseFn func() (ast.Node, error)
	infixParseFn  func(ast.Node) (ast.Node, error)
)

// Parser is a recursive-descent / Pratt hybrid, the same split the
// teacher uses: statements are parsed by a direct dispatch on the
// current token, expressions by parseExpression's precedence climb.
type Parser struct {
	l *lexer.Lexer

	errors []string

	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser over l, registers every prefix/infix handler,
// and primes currentToken/peekToken exactly as the teacher's New does.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NULL:     p.parseNull,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.IF:       p.parseIfExpression,
		token.FUNCTION: p.parseFunctionLiteral,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseMapLiteral,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexOrSliceExpression,
		token.DOT:      p.parsePeriodExpression,
		token.QUESTION: p.parseTernaryExpression,
	}

	// Two reads prime currentToken/peekToken, matching the teacher.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.currentToken.Line, Column: p.currentToken.Column}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.currentToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.currentToken.Type]; ok {
		return pr
	}
	return Lowest
}

// expectPeek advances past t if the peeked token matches it, recording
// an error and refusing to advance otherwise — the teacher's
// expectPeek contract exactly.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: expected next token to be %s, got %s (%q) instead",
		p.peekToken.Line, t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: no prefix parse function for %s found", p.currentToken.Line, t))
}

// ParseProgram parses the whole token stream into a single Block node,
// the program's root — matching how Function bodies are also Blocks,
// so the top level and a function body share exactly one compile path.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	block := &ast.Block{Base: ast.Base{Pos: p.pos()}}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parser: %d error(s): %s", len(p.errors), p.errors[0])
	}
	return block, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.currentToken.Type {
	case token.GLOBAL:
		return p.parseGlobalStatement()
	case token.USE:
		return p.parseUseStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNCTION:
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionDeclaration()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseExpressionStatement parses a bare expression followed by an
// optional semicolon, the teacher's default statement case generalized
// to also swallow assignment expressions (`x = 1;`).
func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	pos := p.pos()
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		rhs, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		expr = &ast.Assign{Base: ast.Base{Pos: pos}, Lhs: expr, Rhs: rhs}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return expr, nil
}

func (p *Parser) parseGlobalStatement() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.IDENT) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	ident := &ast.Identifier{Base: ast.Base{Pos: p.pos()}, Name: p.currentToken.Literal}

	var init ast.Node
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		var err error
		init, err = p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Global{Base: ast.Base{Pos: pos}, Ident: ident, Init: init}, nil
}

func (p *Parser) parseUseStatement() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.IDENT) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	lib := &ast.Library{Base: ast.Base{Pos: p.pos()}, Name: p.currentToken.Literal}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Use{Base: ast.Base{Pos: pos}, Ident: lib}, nil
}

func (p *Parser) parsePrintStatement() (ast.Node, error) {
	pos := p.pos()
	p.nextToken()
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Print{Base: ast.Base{Pos: pos}, Expr: expr}, nil
}

func (p *Parser) parseReturnStatement() (ast.Node, error) {
	pos := p.pos()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return &ast.Return{Base: ast.Base{Pos: pos}}, nil
	}
	p.nextToken()
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Return{Base: ast.Base{Pos: pos}, Expr: expr}, nil
}

func (p *Parser) parseBreakStatement() (ast.Node, error) {
	pos := p.pos()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Break{Base: ast.Base{Pos: pos}}, nil
}

func (p *Parser) parseContinueStatement() (ast.Node, error) {
	pos := p.pos()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Continue{Base: ast.Base{Pos: pos}}, nil
}

func (p *Parser) parseWhileStatement() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	p.nextToken()
	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Base: ast.Base{Pos: pos}, Condition: cond, Body: body}, nil
}

func (p *Parser) parseDoWhileStatement() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.WHILE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	p.nextToken()
	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.DoWhile{Base: ast.Base{Pos: pos}, Body: body, Condition: cond}, nil
}

// parseForStatement disambiguates C-style `for (init; cond; post) {}`
// from ranged `for (x in iterable) {}`: when an identifier follows `(`,
// it snapshots the parser, checks whether `in` comes next, and restores
// the snapshot for the C-style form. The init and post clauses may be
// assignments.
func (p *Parser) parseForStatement() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}

	if p.peekTokenIs(token.IDENT) {
		save := p.snapshot()
		p.nextToken()
		ident := &ast.Identifier{Base: ast.Base{Pos: p.pos()}, Name: p.currentToken.Literal}
		if p.peekTokenIs(token.IN) {
			p.nextToken()
			p.nextToken()
			iterable, err := p.parseExpression(Lowest)
			if err != nil {
				return nil, err
			}
			if !p.expectPeek(token.RPAREN) {
				return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
			}
			if !p.expectPeek(token.LBRACE) {
				return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
			}
			body, err := p.parseBlockStatement()
			if err != nil {
				return nil, err
			}
			return &ast.RangedFor{Base: ast.Base{Pos: pos}, Var: ident, Iterable: iterable, Body: body}, nil
		}
		p.restore(save)
	}

	var init ast.Node
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		var err error
		init, err = p.parseExpressionStatement()
		if err != nil {
			return nil, err
		}
	}
	// parseExpressionStatement already consumes a trailing semicolon.
	if !p.curTokenIs(token.SEMICOLON) && !p.expectPeek(token.SEMICOLON) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}

	var cond ast.Node
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		var err error
		cond, err = p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}

	var post ast.Node
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		var err error
		post, err = p.parseExpressionStatement()
		if err != nil {
			return nil, err
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.For{Base: ast.Base{Pos: pos}, Init: init, Condition: cond, Post: post, Body: body}, nil
}

// parserState/snapshot/restore back up and rewind the lexer-fed token
// cursor so parseForStatement can look ahead past an identifier for
// `in` without committing to ranged-for, then fall back to re-parsing
// the clause as a C-style for init expression. The lexer itself has no
// rewind, so this re-lexes from a saved lexer snapshot.
type parserState struct {
	l            lexer.Lexer
	currentToken token.Token
	peekToken    token.Token
}

func (p *Parser) snapshot() parserState {
	return parserState{l: *p.l, currentToken: p.currentToken, peekToken: p.peekToken}
}

func (p *Parser) restore(s parserState) {
	*p.l = s.l
	p.currentToken = s.currentToken
	p.peekToken = s.peekToken
}

func (p *Parser) parseFunctionDeclaration() (ast.Node, error) {
	pos := p.pos()
	p.nextToken() // consume 'fn', now at IDENT
	name := p.currentToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Base: ast.Base{Pos: pos}, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseFunctionParams() ([]string, error) {
	var params []string
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, nil
	}
	p.nextToken()
	params = append(params, p.currentToken.Literal)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.currentToken.Literal)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	return params, nil
}

func (p *Parser) parseBlockStatement() (*ast.Block, error) {
	block := &ast.Block{Base: ast.Base{Pos: p.pos()}}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block, nil
}

// parseExpression is the Pratt loop: a prefix function builds the left
// operand, then an infix function absorbs the peeked operator as long
// as its precedence beats the one this call was entered with.
func (p *Parser) parseExpression(precedence int) (ast.Node, error) {
	prefix, ok := p.prefixParseFns[p.currentToken.Type]
	if !ok {
		p.noPrefixParseFnError(p.currentToken.Type)
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left, nil
		}
		p.nextToken()
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Node, error) {
	return &ast.Identifier{Base: ast.Base{Pos: p.pos()}, Name: p.currentToken.Literal}, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Node, error) {
	var v int64
	if _, err := fmt.Sscanf(p.currentToken.Literal, "%d", &v); err != nil {
		return nil, fmt.Errorf("parser: line %d: could not parse %q as integer", p.currentToken.Line, p.currentToken.Literal)
	}
	return &ast.Integer{Base: ast.Base{Pos: p.pos()}, Value: v}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Node, error) {
	var v float64
	if _, err := fmt.Sscanf(p.currentToken.Literal, "%g", &v); err != nil {
		return nil, fmt.Errorf("parser: line %d: could not parse %q as float", p.currentToken.Line, p.currentToken.Literal)
	}
	return &ast.Float{Base: ast.Base{Pos: p.pos()}, Value: v}, nil
}

func (p *Parser) parseStringLiteral() (ast.Node, error) {
	return &ast.String{Base: ast.Base{Pos: p.pos()}, Value: p.currentToken.Literal}, nil
}

func (p *Parser) parseBoolean() (ast.Node, error) {
	return &ast.Boolean{Base: ast.Base{Pos: p.pos()}, Value: p.curTokenIs(token.TRUE)}, nil
}

func (p *Parser) parseNull() (ast.Node, error) {
	return &ast.Null{Base: ast.Base{Pos: p.pos()}}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Node, error) {
	pos := p.pos()
	op := p.currentToken.Literal
	p.nextToken()
	operand, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Base: ast.Base{Pos: pos}, Op: op, Operand: operand}, nil
}

func (p *Parser) parseInfixExpression(left ast.Node) (ast.Node, error) {
	pos := p.pos()
	op := p.currentToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	rhs, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Base: ast.Base{Pos: pos}, Op: op, Lhs: left, Rhs: rhs}, nil
}

func (p *Parser) parseTernaryExpression(cond ast.Node) (ast.Node, error) {
	pos := p.pos()
	p.nextToken()
	ifTrue, err := p.parseExpression(TernaryPrec)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.COLON) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	p.nextToken()
	ifFalse, err := p.parseExpression(TernaryPrec)
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Base: ast.Base{Pos: pos}, Condition: cond, IfTrue: ifTrue, IfFalse: ifFalse}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Node, error) {
	p.nextToken()
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	// `(expr) as type` casts expr to one of Tang's four castable types
	// (§3.3); any other trailing token leaves this a plain grouping.
	if p.peekTokenIs(token.AS_INT) || p.peekTokenIs(token.AS_FLOAT) ||
		p.peekTokenIs(token.AS_BOOL) || p.peekTokenIs(token.AS_STR) {
		p.nextToken()
		target := castTargets[p.currentToken.Type]
		return &ast.Cast{Base: ast.Base{Pos: p.pos()}, Expr: expr, Target: target}, nil
	}
	return expr, nil
}

var castTargets = map[token.Type]value.Type{
	token.AS_INT:   value.IntegerType,
	token.AS_FLOAT: value.FloatType,
	token.AS_BOOL:  value.BooleanType,
	token.AS_STR:   value.StringType,
}

func (p *Parser) parseIfExpression() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	p.nextToken()
	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	then, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	var elseNode ast.Node
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			elseNode, err = p.parseIfExpression()
			if err != nil {
				return nil, err
			}
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
			}
			elseNode, err = p.parseBlockStatement()
			if err != nil {
				return nil, err
			}
		}
	}
	return &ast.If{Base: ast.Base{Pos: pos}, Condition: cond, Then: then, Else: elseNode}, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.LPAREN) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	// An anonymous function literal gets a unique, unspellable name so
	// it can still ride ast.Function's named-declaration machinery;
	// scope.DeclareFunction mangles names further at analysis time.
	name := fmt.Sprintf("$anon@%d:%d", pos.Line, pos.Column)
	return &ast.Function{Base: ast.Base{Pos: pos}, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseCallExpression(callee ast.Node) (ast.Node, error) {
	pos := p.pos()
	args, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Base: ast.Base{Pos: pos}, Callee: callee, Args: args}, nil
}

func (p *Parser) parseExpressionList(end token.Type) ([]ast.Node, error) {
	var list []ast.Node
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, nil
	}
	p.nextToken()
	first, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	list = append(list, first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		list = append(list, next)
	}
	if !p.expectPeek(end) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	return list, nil
}

func (p *Parser) parseArrayLiteral() (ast.Node, error) {
	pos := p.pos()
	elements, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.Array{Base: ast.Base{Pos: pos}, Elements: elements}, nil
}

func (p *Parser) parseMapLiteral() (ast.Node, error) {
	pos := p.pos()
	m := &ast.Map{Base: ast.Base{Pos: pos}}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if !p.curTokenIs(token.STRING) && !p.curTokenIs(token.IDENT) {
			return nil, fmt.Errorf("parser: line %d: map key must be a string or bare identifier, got %s", p.currentToken.Line, p.currentToken.Type)
		}
		key := p.currentToken.Literal
		if !p.expectPeek(token.COLON) {
			return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
		}
		p.nextToken()
		value, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ast.MapEntry{Key: key, Value: value})
		if !p.peekTokenIs(token.RBRACE) {
			if !p.expectPeek(token.COMMA) {
				return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
			}
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	return m, nil
}

// parseIndexOrSliceExpression disambiguates `recv[idx]` from
// `recv[start:end:skip]` by parsing the optional start expression and
// then checking whether a colon follows it.
func (p *Parser) parseIndexOrSliceExpression(receiver ast.Node) (ast.Node, error) {
	pos := p.pos()

	var start ast.Node
	if !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		var err error
		start, err = p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
	}

	if !p.peekTokenIs(token.COLON) {
		if !p.expectPeek(token.RBRACKET) {
			return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
		}
		return &ast.Index{Base: ast.Base{Pos: pos}, Receiver: receiver, Idx: start}, nil
	}

	p.nextToken() // consume ':'
	var end ast.Node
	if !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		var err error
		end, err = p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
	}

	var skip ast.Node
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			var err error
			skip, err = p.parseExpression(Lowest)
			if err != nil {
				return nil, err
			}
		}
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	return &ast.Slice{Base: ast.Base{Pos: pos}, Receiver: receiver, Start: start, End: end, Skip: skip}, nil
}

func (p *Parser) parsePeriodExpression(receiver ast.Node) (ast.Node, error) {
	pos := p.pos()
	if !p.expectPeek(token.IDENT) {
		return nil, fmt.Errorf("parser: %s", p.errors[len(p.errors)-1])
	}
	return &ast.Period{Base: ast.Base{Pos: pos}, Receiver: receiver, Name: p.currentToken.Literal}, nil
}
