package parser

import (
	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

// parseExpression parses a full expression, assignments included.
func (p *parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment sits at the lowest precedence level. Assignment is right
// associative, so 'a = b = 1' assigns 1 to b and then to a. Only variables and
// member accesses can be assigned to.
func (p *parser) parseAssignment() (ast.Expr, error) {
	target, err := p.parseBinary(token.PrecOr)
	if err != nil {
		return nil, err
	}
	opTok := p.current()
	op, isOp := opTok.Operator()
	if !isOp || !op.IsAssignment() || p.lineBreak() {
		return target, nil
	}
	switch target.(type) {
	case *ast.Variable, *ast.MemberAccess:
	default:
		return nil, p.fail(diagnostics.InvalidStatement, opTok,
			"invalid assignment target", "only variables and member accesses can be assigned to")
	}
	p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{
		Span:   target.NodeSpan().To(value.NodeSpan()),
		Target: target,
		Op:     op.String(),
		Value:  value,
	}, nil
}

// binaryOperator classifies the current token as a binary operator. The word
// operators 'and' and 'or' map to '&&' and '||'.
func (p *parser) binaryOperator() (token.Op, bool) {
	tok := p.current()
	if op, ok := tok.Operator(); ok {
		if op.Precedence() > token.PrecAssignment {
			return op, true
		}
		return 0, false
	}
	switch {
	case tok.IsKeyword(token.KwAnd):
		return token.OpAnd, true
	case tok.IsKeyword(token.KwOr):
		return token.OpOr, true
	}
	return 0, false
}

// parseBinary is the precedence climbing loop: operators binding at least as
// tightly as minPrec are folded left to right, right-associative operators
// recurse at their own level.
func (p *parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.binaryOperator()
		if !ok || op.Precedence() < minPrec || p.lineBreak() {
			return left, nil
		}
		p.advance()
		next := op.Precedence() + 1
		if op.RightAssoc() {
			next = op.Precedence()
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{
			Span:  left.NodeSpan().To(right.NodeSpan()),
			Op:    op.String(),
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	tok := p.current()
	var op string
	switch {
	case tok.IsOperator(token.OpNot), tok.IsKeyword(token.KwNot):
		op = token.OpNot.String()
	case tok.IsOperator(token.OpMinus):
		op = token.OpMinus.String()
	default:
		return p.parsePostfix()
	}
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOperation{Span: tok.Span.To(operand.NodeSpan()), Op: op, Operand: operand}, nil
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.DelimDot):
			p.advance()
			name, err := p.expectIdent("after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Span: expr.NodeSpan().To(name.Span), Object: expr, Member: name.Text}
		case p.at(token.DelimLParen) && !p.lineBreak():
			p.advance()
			args, err := p.parseExprList(token.DelimRParen, "to close the argument list")
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Span: p.spanFrom(expr.NodeSpan()), Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// parseExprList parses comma-separated expressions up to and including the
// closer. A trailing comma is allowed.
func (p *parser) parseExprList(closer token.Delim, context string) ([]ast.Expr, error) {
	p.nest++
	defer func() { p.nest-- }()
	var out []ast.Expr
	for !p.at(closer) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if !p.at(token.DelimComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(closer, context); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &ast.Literal{Span: tok.Span, LitKind: ast.LitNumber, Value: tok.Text}, nil
	case token.String:
		p.advance()
		return &ast.Literal{Span: tok.Span, LitKind: ast.LitString, Value: tok.Text}, nil
	case token.Ident:
		p.advance()
		return &ast.Variable{Span: tok.Span, Name: tok.Text}, nil
	case token.Keyword:
		return p.parseKeywordPrimary(tok)
	case token.Delimiter:
		switch token.Delim(tok.Sub) {
		case token.DelimLParen:
			p.advance()
			p.nest++
			defer func() { p.nest-- }()
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.DelimRParen, "to close the parenthesized expression"); err != nil {
				return nil, err
			}
			return inner, nil
		case token.DelimLBracket:
			p.advance()
			elems, err := p.parseExprList(token.DelimRBracket, "to close the array literal")
			if err != nil {
				return nil, err
			}
			return &ast.ArrayLiteral{Span: p.spanFrom(tok.Span), Elements: elems}, nil
		case token.DelimLBrace:
			return p.parseBraceLiteral()
		}
	}
	return nil, p.unexpected(tok, "an expression")
}

func (p *parser) parseKeywordPrimary(tok token.Token) (ast.Expr, error) {
	switch token.Kw(tok.Sub) {
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.Literal{Span: tok.Span, LitKind: ast.LitBool, Value: tok.Text}, nil
	case token.KwNull:
		p.advance()
		return &ast.Literal{Span: tok.Span, LitKind: ast.LitNull, Value: tok.Text}, nil
	case token.KwVoid:
		p.advance()
		return &ast.Void{Span: tok.Span}, nil
	case token.KwThis:
		p.advance()
		return &ast.Variable{Span: tok.Span, Name: tok.Text}, nil
	case token.KwOk, token.KwErr:
		p.advance()
		p.nest++
		defer func() { p.nest-- }()
		if _, err := p.expect(token.DelimLParen, "after '"+tok.Text+"'"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.DelimRParen, "to close '"+tok.Text+"('"); err != nil {
			return nil, err
		}
		return &ast.Result{Span: p.spanFrom(tok.Span), IsErr: tok.IsKeyword(token.KwErr), Value: value}, nil
	case token.KwFunction:
		return p.parseLambda()
	}
	return nil, p.unexpected(tok, "an expression")
}

// parseBraceLiteral parses '{}' and '{k: v, ...}' as dicts and '{a, b}' as a
// set.
func (p *parser) parseBraceLiteral() (ast.Expr, error) {
	open := p.advance()
	p.nest++
	defer func() { p.nest-- }()
	if p.at(token.DelimRBrace) {
		p.advance()
		return &ast.DictLiteral{Span: p.spanFrom(open.Span)}, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.at(token.DelimColon) {
		elems := []ast.Expr{first}
		if p.at(token.DelimComma) {
			p.advance()
			rest, err := p.parseExprList(token.DelimRBrace, "to close the set literal")
			if err != nil {
				return nil, err
			}
			elems = append(elems, rest...)
		} else if _, err := p.expect(token.DelimRBrace, "to close the set literal"); err != nil {
			return nil, err
		}
		return &ast.SetLiteral{Span: p.spanFrom(open.Span), Elements: elems}, nil
	}

	dict := &ast.DictLiteral{}
	key := first
	for {
		if _, err := p.expect(token.DelimColon, "between dictionary key and value"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		dict.Entries = append(dict.Entries, ast.DictEntry{Key: key, Value: value})
		if !p.at(token.DelimComma) {
			break
		}
		p.advance()
		if p.at(token.DelimRBrace) {
			break
		}
		if key, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.DelimRBrace, "to close the dictionary literal"); err != nil {
		return nil, err
	}
	dict.Span = p.spanFrom(open.Span)
	return dict, nil
}

// parseLambda parses 'function (params) => expr' and 'function (params) { ... }'.
func (p *parser) parseLambda() (ast.Expr, error) {
	start := p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	lambda := &ast.Lambda{Params: params}
	switch {
	case p.atOperator(token.OpArrow):
		p.advance()
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lambda.Body = body
	case p.at(token.DelimLBrace):
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		lambda.Body = body
	default:
		return nil, p.unexpected(p.current(), "'=>' or '{' after lambda parameters")
	}
	lambda.Span = p.spanFrom(start.Span)
	return lambda, nil
}
