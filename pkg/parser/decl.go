package parser

import (
	"strings"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

// typeEnd returns the index just past a type starting at token i, or -1 when
// no type starts there.
func (p *parser) typeEnd(i int) int {
	t := p.tokenAt(i)
	if t.Kind != token.Ident && !t.IsKeyword(token.KwVoid) {
		return -1
	}
	i++
	for p.tokenAt(i).IsDelim(token.DelimDot) && p.tokenAt(i+1).Kind == token.Ident {
		i += 2
	}
	for p.tokenAt(i).IsDelim(token.DelimLBracket) && p.tokenAt(i+1).IsDelim(token.DelimRBracket) {
		i += 2
	}
	return i
}

// looksLikeDeclaration reports whether the tokens at the cursor have the shape
// 'Type name' with the name on the type's line. A reserved word in the name
// position still counts when what follows it can only continue a declaration,
// so that 'int ok = 1' is reported as a bad name.
func (p *parser) looksLikeDeclaration() bool {
	end := p.typeEnd(p.pos)
	if end < 0 {
		return false
	}
	name := p.tokenAt(end)
	if p.nest == 0 && name.Span.StartLine > p.tokenAt(end-1).Span.EndLine {
		return false
	}
	switch name.Kind {
	case token.Ident:
		return true
	case token.Keyword:
		return reservedName(name) && endsName(p.tokenAt(end+1))
	}
	return false
}

// reservedName reports whether a keyword could have been meant as a name.
// Keywords that continue an expression or a statement header are excluded.
func reservedName(tok token.Token) bool {
	switch token.Kw(tok.Sub) {
	case token.KwAnd, token.KwOr, token.KwNot, token.KwIn, token.KwAs, token.KwElse, token.KwCatch,
		token.KwExtends, token.KwImplements, token.KwImport, token.KwFrom:
		return false
	}
	return true
}

// endsName reports whether tok can follow the name of a declaration or
// parameter.
func endsName(tok token.Token) bool {
	if tok.IsOperator(token.OpAssign) {
		return true
	}
	if tok.Kind != token.Delimiter {
		return false
	}
	switch token.Delim(tok.Sub) {
	case token.DelimSemicolon, token.DelimComma, token.DelimRParen, token.DelimLParen:
		return true
	}
	return false
}

// parseType reads a type such as 'int', 'std.Map' or 'string[][]'.
func (p *parser) parseType() (string, error) {
	tok := p.current()
	if tok.Kind != token.Ident && !tok.IsKeyword(token.KwVoid) {
		return "", p.unexpected(tok, "a type name")
	}
	var b strings.Builder
	b.WriteString(p.advance().Text)
	for p.at(token.DelimDot) && p.peekAt(1).Kind == token.Ident {
		p.advance()
		b.WriteString(".")
		b.WriteString(p.advance().Text)
	}
	for p.at(token.DelimLBracket) && p.peekAt(1).IsDelim(token.DelimRBracket) {
		p.advance()
		p.advance()
		b.WriteString("[]")
	}
	return b.String(), nil
}

// parseAnnotations collects leading decorator applications and modifier
// keywords in source order.
func (p *parser) parseAnnotations() ([]*ast.Decorator, []*ast.Modifier, error) {
	var decos []*ast.Decorator
	var mods []*ast.Modifier
	for {
		tok := p.current()
		if tok.Kind == token.Decorator {
			p.advance()
			deco, _ := tok.Decorator()
			d := &ast.Decorator{Name: strings.TrimPrefix(tok.Text, "@"), Builtin: deco}
			if p.at(token.DelimLParen) {
				p.advance()
				args, err := p.parseExprList(token.DelimRParen, "to close the decorator arguments")
				if err != nil {
					return nil, nil, err
				}
				d.Args = args
			}
			d.Span = p.spanFrom(tok.Span)
			decos = append(decos, d)
			continue
		}
		if kw, ok := tok.Keyword(); ok && kw.IsModifier() {
			p.advance()
			mods = append(mods, &ast.Modifier{Span: tok.Span, Keyword: kw})
			continue
		}
		return decos, mods, nil
	}
}

// parseAnnotated parses decorators and modifiers and the declaration they
// attach to.
func (p *parser) parseAnnotated() (ast.Node, error) {
	first := p.current()
	decos, mods, err := p.parseAnnotations()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	switch {
	case tok.IsKeyword(token.KwFunction):
		return p.parseFunction(decos, mods)
	case tok.IsKeyword(token.KwClass):
		return p.parseClass(decos, mods)
	case tok.IsKeyword(token.KwEnum):
		return p.parseEnum(decos, mods)
	case tok.IsKeyword(token.KwInterface):
		return p.parseInterface(decos, mods)
	case tok.IsKeyword(token.KwDecorator):
		return p.parseDecoratorDecl(decos, mods)
	}
	if tok.IsKeyword(token.KwVar) || p.looksLikeDeclaration() {
		if len(decos) > 0 {
			return nil, p.fail(diagnostics.InvalidStatement, first,
				"decorators cannot be applied to variable declarations")
		}
		if tok.IsKeyword(token.KwVar) {
			return p.parseVar(mods)
		}
		decl, err := p.parseDeclaration(mods)
		if err != nil {
			return nil, err
		}
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		return decl, nil
	}
	if tok.Kind == token.Unknown || tok.Kind == token.EOF {
		return nil, p.unexpected(tok, "a declaration")
	}
	return nil, p.fail(diagnostics.InvalidStatement, first,
		"decorators and modifiers must be followed by a declaration, found "+tok.Describe())
}

func annotationStart(decos []*ast.Decorator, mods []*ast.Modifier, fallback token.Span) token.Span {
	start := fallback
	if len(mods) > 0 {
		start = mods[0].Span
	}
	if len(decos) > 0 && (len(mods) == 0 || before(decos[0].Span, start)) {
		start = decos[0].Span
	}
	return start
}

func before(a, b token.Span) bool {
	return a.StartLine < b.StartLine || (a.StartLine == b.StartLine && a.StartCol < b.StartCol)
}

// parseDeclaration parses 'Type name [= value]'.
func (p *parser) parseDeclaration(mods []*ast.Modifier) (*ast.Declaration, error) {
	start := p.current().Span
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("after the type")
	if err != nil {
		return nil, err
	}
	n := &ast.Declaration{Modifiers: mods, Type: typ, Name: name.Text}
	if p.atOperator(token.OpAssign) {
		p.advance()
		if n.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	n.Span = p.spanFrom(annotationStart(nil, mods, start))
	return n, nil
}

// parseVar parses 'var name [= value]'.
func (p *parser) parseVar(mods []*ast.Modifier) (ast.Node, error) {
	start := p.advance()
	name, err := p.expectIdent("after 'var'")
	if err != nil {
		return nil, err
	}
	n := &ast.Declaration{Modifiers: mods, Name: name.Text}
	if p.atOperator(token.OpAssign) {
		p.advance()
		if n.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	n.Span = p.spanFrom(annotationStart(nil, mods, start.Span))
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseParams parses '(' [param (',' param)*] ')' where a param is
// '[Type] name [= default]'.
func (p *parser) parseParams() ([]*ast.Parameter, error) {
	if _, err := p.expect(token.DelimLParen, "to open the parameter list"); err != nil {
		return nil, err
	}
	p.nest++
	defer func() { p.nest-- }()
	var params []*ast.Parameter
	for !p.at(token.DelimRParen) {
		start := p.current().Span
		param := &ast.Parameter{}
		if p.looksLikeDeclaration() {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = typ
		}
		name, err := p.expectIdent("for the parameter name")
		if err != nil {
			return nil, err
		}
		param.Name = name.Text
		if p.atOperator(token.OpAssign) {
			p.advance()
			if param.Default, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		param.Span = p.spanFrom(start)
		params = append(params, param)
		if !p.at(token.DelimComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.DelimRParen, "to close the parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseSignature parses '[ReturnType] name (params)' after 'function'.
func (p *parser) parseSignature() (returnType, name string, params []*ast.Parameter, err error) {
	if p.looksLikeDeclaration() {
		if returnType, err = p.parseType(); err != nil {
			return "", "", nil, err
		}
	}
	tok, err := p.expectIdent("for the function name")
	if err != nil {
		return "", "", nil, err
	}
	if params, err = p.parseParams(); err != nil {
		return "", "", nil, err
	}
	return returnType, tok.Text, params, nil
}

func (p *parser) parseFunction(decos []*ast.Decorator, mods []*ast.Modifier) (*ast.Function, error) {
	start := p.advance()
	returnType, name, params, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Span:       p.spanFrom(annotationStart(decos, mods, start.Span)),
		Decorators: decos,
		Modifiers:  mods,
		ReturnType: returnType,
		Name:       name,
		Params:     params,
		Body:       body,
	}, nil
}

func (p *parser) parseDecoratorDecl(decos []*ast.Decorator, mods []*ast.Modifier) (*ast.DecoratorDecl, error) {
	start := p.advance()
	name, err := p.expectIdent("for the decorator name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.DecoratorDecl{
		Span:       p.spanFrom(annotationStart(decos, mods, start.Span)),
		Decorators: decos,
		Modifiers:  mods,
		Name:       name.Text,
		Params:     params,
		Body:       body,
	}, nil
}

// parseNameList parses qualified names separated by commas.
func (p *parser) parseNameList(context string) ([]string, error) {
	var names []string
	for {
		name, err := p.parseQualifiedName(context)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.at(token.DelimComma) {
			return names, nil
		}
		p.advance()
	}
}

func (p *parser) parseClass(decos []*ast.Decorator, mods []*ast.Modifier) (*ast.Class, error) {
	start := p.advance()
	name, err := p.expectIdent("for the class name")
	if err != nil {
		return nil, err
	}
	n := &ast.Class{Decorators: decos, Modifiers: mods, Name: name.Text}
	if p.atKeyword(token.KwExtends) {
		p.advance()
		if n.Superclass, err = p.parseQualifiedName("after 'extends'"); err != nil {
			return nil, err
		}
	}
	if p.atKeyword(token.KwImplements) {
		p.advance()
		if n.Interfaces, err = p.parseNameList("after 'implements'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.DelimLBrace, "to open the class body"); err != nil {
		return nil, err
	}
	for !p.at(token.DelimRBrace) && !p.atEOF() {
		if p.at(token.DelimSemicolon) {
			p.advance()
			continue
		}
		if err := p.parseMember(n); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.DelimRBrace, "to close the class body"); err != nil {
		return nil, err
	}
	n.Span = p.spanFrom(annotationStart(decos, mods, start.Span))
	return n, nil
}

// parseMember parses one field, method or constructor into class.
func (p *parser) parseMember(class *ast.Class) error {
	first := p.current()
	decos, mods, err := p.parseAnnotations()
	if err != nil {
		return err
	}
	tok := p.current()
	switch {
	case tok.IsKeyword(token.KwFunction):
		fn, err := p.parseFunction(decos, mods)
		if err != nil {
			return err
		}
		class.Methods = append(class.Methods, fn)
		return nil
	case tok.IsKeyword(token.KwConstructor):
		if class.Constructor != nil {
			return p.fail(diagnostics.InvalidStatement, tok, "class "+class.Name+" already has a constructor")
		}
		p.advance()
		params, err := p.parseParams()
		if err != nil {
			return err
		}
		body, err := p.parseBlock()
		if err != nil {
			return err
		}
		class.Constructor = &ast.Function{
			Span:       p.spanFrom(annotationStart(decos, mods, tok.Span)),
			Decorators: decos,
			Modifiers:  mods,
			Name:       "constructor",
			Params:     params,
			Body:       body,
		}
		return nil
	case tok.IsKeyword(token.KwVar) || p.looksLikeDeclaration():
		if len(decos) > 0 {
			return p.fail(diagnostics.InvalidStatement, first, "decorators cannot be applied to fields")
		}
		var field ast.Node
		if tok.IsKeyword(token.KwVar) {
			field, err = p.parseVar(mods)
		} else {
			if field, err = p.parseDeclaration(mods); err == nil {
				err = p.endStatement()
			}
		}
		if err != nil {
			return err
		}
		class.Fields = append(class.Fields, field.(*ast.Declaration))
		return nil
	}
	return p.unexpected(tok, "a field, method or constructor")
}

func (p *parser) parseEnum(decos []*ast.Decorator, mods []*ast.Modifier) (*ast.Enum, error) {
	start := p.advance()
	name, err := p.expectIdent("for the enum name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DelimLBrace, "to open the enum body"); err != nil {
		return nil, err
	}
	n := &ast.Enum{Decorators: decos, Modifiers: mods, Name: name.Text}
	for !p.at(token.DelimRBrace) {
		memberName, err := p.expectIdent("for the enum member")
		if err != nil {
			return nil, err
		}
		member := &ast.EnumMember{Name: memberName.Text}
		if p.atOperator(token.OpAssign) {
			p.advance()
			if member.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		member.Span = p.spanFrom(memberName.Span)
		n.Members = append(n.Members, member)
		if !p.at(token.DelimComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.DelimRBrace, "to close the enum body"); err != nil {
		return nil, err
	}
	n.Span = p.spanFrom(annotationStart(decos, mods, start.Span))
	return n, nil
}

func (p *parser) parseInterface(decos []*ast.Decorator, mods []*ast.Modifier) (*ast.Interface, error) {
	start := p.advance()
	name, err := p.expectIdent("for the interface name")
	if err != nil {
		return nil, err
	}
	n := &ast.Interface{Decorators: decos, Modifiers: mods, Name: name.Text}
	if p.atKeyword(token.KwExtends) {
		p.advance()
		if n.Extends, err = p.parseNameList("after 'extends'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.DelimLBrace, "to open the interface body"); err != nil {
		return nil, err
	}
	for !p.at(token.DelimRBrace) && !p.atEOF() {
		if p.at(token.DelimSemicolon) {
			p.advance()
			continue
		}
		field, err := p.parseInterfaceField()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, field)
	}
	if _, err := p.expect(token.DelimRBrace, "to close the interface body"); err != nil {
		return nil, err
	}
	n.Span = p.spanFrom(annotationStart(decos, mods, start.Span))
	return n, nil
}

// parseInterfaceField parses a method signature 'function [Type] name(params)'
// or a field 'Type name'.
func (p *parser) parseInterfaceField() (*ast.InterfaceField, error) {
	start := p.current()
	if start.IsKeyword(token.KwFunction) {
		p.advance()
		returnType, name, params, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		field := &ast.InterfaceField{Span: p.spanFrom(start.Span), Name: name, Type: returnType, Method: true, Params: params}
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		return field, nil
	}
	if !p.looksLikeDeclaration() {
		return nil, p.unexpected(start, "a field or method signature")
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("after the field type")
	if err != nil {
		return nil, err
	}
	field := &ast.InterfaceField{Span: p.spanFrom(start.Span), Name: name.Text, Type: typ}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return field, nil
}
