package parser

import (
	"strings"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

func (p *parser) parseStatement() (ast.Node, error) {
	tok := p.current()
	switch tok.Kind {
	case token.Decorator:
		return p.parseAnnotated()
	case token.Preprocessor:
		return p.parseDirective()
	case token.Delimiter:
		if tok.IsDelim(token.DelimLBrace) {
			if p.braceLiteralAhead() {
				return p.parseExpressionStatement()
			}
			return p.parseBlock()
		}
	case token.Keyword:
		kw := token.Kw(tok.Sub)
		if kw.IsModifier() {
			return p.parseAnnotated()
		}
		switch kw {
		case token.KwIf:
			return p.parseIf()
		case token.KwSwitch:
			return p.parseSwitch()
		case token.KwFor:
			return p.parseFor()
		case token.KwWhile:
			return p.parseWhile()
		case token.KwTry:
			return p.parseTry()
		case token.KwReturn:
			return p.parseReturn()
		case token.KwThrow:
			return p.parseThrow()
		case token.KwBreak:
			p.advance()
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			return &ast.Break{Span: tok.Span}, nil
		case token.KwContinue:
			p.advance()
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			return &ast.Continue{Span: tok.Span}, nil
		case token.KwVar:
			return p.parseVar(nil)
		case token.KwFunction:
			if !p.peekAt(1).IsDelim(token.DelimLParen) {
				return p.parseFunction(nil, nil)
			}
		case token.KwClass:
			return p.parseClass(nil, nil)
		case token.KwEnum:
			return p.parseEnum(nil, nil)
		case token.KwInterface:
			return p.parseInterface(nil, nil)
		case token.KwDecorator:
			return p.parseDecoratorDecl(nil, nil)
		case token.KwImport, token.KwFrom:
			return nil, p.fail(diagnostics.InvalidStatement, tok,
				"imports are only allowed at module level", "move the import to the top of the file")
		case token.KwConstructor:
			return nil, p.fail(diagnostics.InvalidStatement, tok,
				"a constructor can only be declared inside a class")
		}
	}
	if p.looksLikeDeclaration() {
		decl, err := p.parseDeclaration(nil)
		if err != nil {
			return nil, err
		}
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		return decl, nil
	}
	return p.parseExpressionStatement()
}

// parseExpressionStatement parses an expression used as a statement. An
// assignment at the top of the expression makes it an Assignment statement.
func (p *parser) parseExpressionStatement() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return expr, nil
}

// braceLiteralAhead reports whether the '{' at the cursor opens a set or dict
// literal rather than a block: a ',' or ':' appears at its top level before a
// ';' or its closing '}'.
func (p *parser) braceLiteralAhead() bool {
	var closers []token.Delim
	for i := p.pos + 1; ; i++ {
		tok := p.tokenAt(i)
		if tok.Kind == token.EOF {
			return false
		}
		if tok.Kind != token.Delimiter {
			continue
		}
		d := token.Delim(tok.Sub)
		if c, ok := d.Closer(); ok {
			closers = append(closers, c)
			continue
		}
		if len(closers) > 0 {
			if d == closers[len(closers)-1] {
				closers = closers[:len(closers)-1]
			}
			continue
		}
		switch d {
		case token.DelimComma, token.DelimColon:
			return true
		case token.DelimSemicolon, token.DelimRBrace, token.DelimRParen, token.DelimRBracket:
			return false
		}
	}
}

// parseStatementsUntil parses statements until stop reports true or the input
// ends. Stray ';' are skipped.
func (p *parser) parseStatementsUntil(stop func() bool) ([]ast.Node, error) {
	var out []ast.Node
	for !p.atEOF() && !stop() {
		if p.at(token.DelimSemicolon) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	saved := p.nest
	p.nest = 0
	defer func() { p.nest = saved }()
	open, err := p.expect(token.DelimLBrace, "to open a block")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementsUntil(func() bool { return p.at(token.DelimRBrace) })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimRBrace, "to close the block"); err != nil {
		return nil, err
	}
	return &ast.Block{Span: p.spanFrom(open.Span), Statements: stmts}, nil
}

// parseBody parses a block, or exactly one statement when no '{' follows.
func (p *parser) parseBody() (ast.Node, error) {
	if p.at(token.DelimLBrace) {
		return p.parseBlock()
	}
	return p.parseStatement()
}

// parseCondition parses '( expr )' after a control-flow keyword.
func (p *parser) parseCondition(keyword string) (ast.Expr, error) {
	if _, err := p.expect(token.DelimLParen, "after '"+keyword+"'"); err != nil {
		return nil, err
	}
	p.nest++
	defer func() { p.nest-- }()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimRParen, "to close the '"+keyword+"' condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIf() (ast.Node, error) {
	start := p.advance()
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.IfStatement{Cond: cond, Then: then}
	if p.atKeyword(token.KwElse) {
		p.advance()
		if p.atKeyword(token.KwIf) {
			n.Else, err = p.parseIf()
		} else {
			n.Else, err = p.parseBody()
		}
		if err != nil {
			return nil, err
		}
	}
	n.Span = p.spanFrom(start.Span)
	return n, nil
}

func (p *parser) parseSwitch() (ast.Node, error) {
	start := p.advance()
	subject, err := p.parseCondition("switch")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimLBrace, "to open the switch body"); err != nil {
		return nil, err
	}
	n := &ast.Switch{Subject: subject}
	armEnd := func() bool {
		return p.atKeyword(token.KwCase) || p.atKeyword(token.KwDefault) || p.at(token.DelimRBrace)
	}
	for !p.at(token.DelimRBrace) && !p.atEOF() {
		tok := p.current()
		switch {
		case tok.IsKeyword(token.KwCase):
			if n.Default != nil {
				return nil, p.fail(diagnostics.InvalidStatement, tok, "'case' after 'default' in switch",
					"move the default arm to the end of the switch")
			}
			p.advance()
			cond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.DelimColon, "after case value"); err != nil {
				return nil, err
			}
			body, err := p.parseStatementsUntil(armEnd)
			if err != nil {
				return nil, err
			}
			n.Cases = append(n.Cases, &ast.Case{Span: p.spanFrom(tok.Span), Cond: cond, Body: body})
		case tok.IsKeyword(token.KwDefault):
			if n.Default != nil {
				return nil, p.fail(diagnostics.InvalidStatement, tok, "switch has more than one 'default' arm")
			}
			p.advance()
			if _, err := p.expect(token.DelimColon, "after 'default'"); err != nil {
				return nil, err
			}
			body, err := p.parseStatementsUntil(armEnd)
			if err != nil {
				return nil, err
			}
			n.Default = &ast.DefaultCase{Span: p.spanFrom(tok.Span), Body: body}
		default:
			return nil, p.unexpected(tok, "'case' or 'default'")
		}
	}
	if _, err := p.expect(token.DelimRBrace, "to close the switch body"); err != nil {
		return nil, err
	}
	n.Span = p.spanFrom(start.Span)
	return n, nil
}

func (p *parser) parseFor() (ast.Node, error) {
	start := p.advance()
	if _, err := p.expect(token.DelimLParen, "after 'for'"); err != nil {
		return nil, err
	}
	p.nest++
	n := &ast.ForLoop{}
	if p.looksLikeDeclaration() {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		n.VarType = typ
	}
	name, err := p.expectIdent("for the loop variable")
	if err != nil {
		return nil, err
	}
	n.Var = name.Text
	if p.atKeyword(token.KwIn) || p.at(token.DelimColon) {
		p.advance()
	} else if _, err := p.expectKeyword(token.KwIn, "after the loop variable"); err != nil {
		return nil, err
	}
	if n.Iterable, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimRParen, "to close the 'for' header"); err != nil {
		return nil, err
	}
	p.nest--
	if n.Body, err = p.parseBody(); err != nil {
		return nil, err
	}
	n.Span = p.spanFrom(start.Span)
	return n, nil
}

func (p *parser) parseWhile() (ast.Node, error) {
	start := p.advance()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.WhileLoop{Span: p.spanFrom(start.Span), Cond: cond, Body: body}, nil
}

func (p *parser) parseTry() (ast.Node, error) {
	start := p.advance()
	try, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(token.KwCatch, "after the 'try' block"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimLParen, "after 'catch'"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent("for the caught error")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimRParen, "to close the 'catch' clause"); err != nil {
		return nil, err
	}
	catch, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.TryCatch{Span: p.spanFrom(start.Span), Try: try, CatchVar: name.Text, Catch: catch}, nil
}

// endsValue reports whether the current token cannot start a return value.
func (p *parser) endsValue() bool {
	return p.atEOF() || p.at(token.DelimSemicolon) || p.at(token.DelimRBrace) ||
		p.atKeyword(token.KwCase) || p.atKeyword(token.KwDefault)
}

func (p *parser) parseReturn() (ast.Node, error) {
	start := p.advance()
	n := &ast.Return{}
	if !p.endsValue() && !p.lineBreak() {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Value = value
	}
	n.Span = p.spanFrom(start.Span)
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseThrow() (ast.Node, error) {
	start := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.Throw{Span: p.spanFrom(start.Span), Value: value}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseDirective collects the texts of the tokens on the directive's line.
func (p *parser) parseDirective() (ast.Node, error) {
	tok := p.advance()
	n := &ast.PreprocessorDirective{Directive: token.Directive(tok.Sub)}
	for !p.atEOF() && p.current().Span.StartLine == tok.Span.StartLine {
		n.Args = append(n.Args, p.advance().Text)
	}
	n.Span = p.spanFrom(tok.Span)
	return n, nil
}

func (p *parser) parseImport() (ast.Node, error) {
	start := p.advance()
	n := &ast.Import{}
	if err := p.parseImportPath(n); err != nil {
		return nil, err
	}
	if p.atKeyword(token.KwAs) {
		p.advance()
		alias, err := p.expectIdent("after 'as'")
		if err != nil {
			return nil, err
		}
		n.Alias = alias.Text
	}
	n.Span = p.spanFrom(start.Span)
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseFromImport() (ast.Node, error) {
	start := p.advance()
	n := &ast.Import{}
	if err := p.parseImportPath(n); err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(token.KwImport, "after the module path"); err != nil {
		return nil, err
	}
	for {
		name, err := p.expectIdent("in import list")
		if err != nil {
			return nil, err
		}
		n.Names = append(n.Names, name.Text)
		if !p.at(token.DelimComma) {
			break
		}
		p.advance()
	}
	n.Span = p.spanFrom(start.Span)
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseImportPath reads a dotted module path or a quoted file path.
func (p *parser) parseImportPath(n *ast.Import) error {
	tok := p.current()
	if tok.Kind == token.String {
		p.advance()
		n.Path = tok.Text[1 : len(tok.Text)-1]
		n.Quoted = true
		return nil
	}
	path, err := p.parseQualifiedName("in import path")
	if err != nil {
		return err
	}
	n.Path = path
	return nil
}

// parseQualifiedName parses IDENT ('.' IDENT)*.
func (p *parser) parseQualifiedName(context string) (string, error) {
	first, err := p.expectIdent(context)
	if err != nil {
		return "", err
	}
	parts := []string{first.Text}
	for p.at(token.DelimDot) {
		p.advance()
		next, err := p.expectIdent("after '.'")
		if err != nil {
			return "", err
		}
		parts = append(parts, next.Text)
	}
	return strings.Join(parts, "."), nil
}
