// Package parser implements the Vela language parser.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/lexer"
	"github.com/thomasrohde/vela/pkg/token"
)

type parser struct {
	tokens  []token.Token
	pos     int
	sink    *diagnostics.Manager
	recover bool
	// nest counts the open parentheses and brackets around the cursor.
	// Line breaks only end statements at nest zero.
	nest int
}

// Option configures ParseModule.
type Option func(*parser)

// WithRecovery makes the parser skip a malformed top-level item and continue
// with the next one instead of stopping at the first structural error.
func WithRecovery() Option {
	return func(p *parser) { p.recover = true }
}

// ParseModule parses a token stream produced by lexer.Tokenize into a Module
// named name. Diagnostics are recorded in sink.
//
// By default the first structural error aborts the parse: the result is nil
// and the error is the *diagnostics.Error describing it. With WithRecovery the
// module holds every top-level item that parsed cleanly and the error joins
// the diagnostics of the skipped ones.
func ParseModule(tokens []token.Token, name string, sink *diagnostics.Manager, opts ...Option) (*ast.Module, error) {
	if sink == nil {
		sink = diagnostics.NewManager()
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span
			eof.Span = token.Span{File: last.File, StartLine: last.EndLine, StartCol: last.EndCol, EndLine: last.EndLine, EndCol: last.EndCol}
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	p := &parser{tokens: tokens, sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	return p.parseModule(name)
}

// Parse tokenizes source and parses it into a Module named after the file.
// Without WithRecovery the module is nil whenever any diagnostic was
// recorded, lexical ones included.
func Parse(source, filename string, opts ...Option) (*ast.Module, []diagnostics.Diagnostic) {
	sink := diagnostics.NewManager()
	tokens, err := lexer.Tokenize(filename, source, sink)
	if err != nil {
		return nil, sink.Diagnostics()
	}
	cfg := &parser{}
	for _, opt := range opts {
		opt(cfg)
	}
	mod, err := ParseModule(tokens, ModuleName(filename), sink, opts...)
	if (err != nil || sink.HasErrors()) && !cfg.recover {
		return nil, sink.Diagnostics()
	}
	return mod, sink.Diagnostics()
}

// ModuleName derives a module name from a source path: the base name without
// its extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *parser) parseModule(name string) (*ast.Module, error) {
	start := p.current().Span
	mod := &ast.Module{Name: name}
	var errs []error

	for !p.atEOF() {
		if p.at(token.DelimSemicolon) {
			p.advance()
			continue
		}
		itemStart := p.pos
		item, err := p.parseItem()
		if err != nil {
			if !p.recover {
				return nil, err
			}
			errs = append(errs, err)
			p.synchronize(itemStart)
			p.nest = 0
			continue
		}
		mod.Body = append(mod.Body, item)
	}
	mod.Span = start.To(p.current().Span)
	return mod, errors.Join(errs...)
}

// parseItem parses one top-level item. Imports are only legal here.
func (p *parser) parseItem() (ast.Node, error) {
	tok := p.current()
	if tok.IsKeyword(token.KwImport) {
		return p.parseImport()
	}
	if tok.IsKeyword(token.KwFrom) {
		return p.parseFromImport()
	}
	return p.parseStatement()
}

// synchronize rewinds to the start of a failed item and skips past it: up to
// and including a ';' or a closing '}' at brace depth zero (a '}' followed by
// 'else' or 'catch' does not end the item), or up to a token that starts a new
// declaration. Parentheses and brackets do not affect depth.
func (p *parser) synchronize(start int) {
	p.pos = start
	depth := 0
	first := true
	for !p.atEOF() {
		tok := p.current()
		if !first && depth == 0 {
			if tok.IsDelim(token.DelimSemicolon) {
				p.advance()
				return
			}
			if startsDeclaration(tok) {
				return
			}
		}
		first = false
		p.advance()
		switch {
		case tok.IsDelim(token.DelimLBrace):
			depth++
		case tok.IsDelim(token.DelimRBrace):
			if depth > 0 {
				depth--
			}
			if depth == 0 && !p.atKeyword(token.KwElse) && !p.atKeyword(token.KwCatch) {
				return
			}
		}
	}
}

func startsDeclaration(tok token.Token) bool {
	switch tok.Kind {
	case token.Decorator, token.Preprocessor:
		return true
	case token.Keyword:
		kw := token.Kw(tok.Sub)
		switch kw {
		case token.KwFunction, token.KwClass, token.KwEnum, token.KwInterface, token.KwDecorator,
			token.KwImport, token.KwFrom:
			return true
		}
		return kw.IsModifier()
	}
	return false
}

// --- token helpers ---

func (p *parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) peekAt(offset int) token.Token {
	return p.tokenAt(p.pos + offset)
}

func (p *parser) previous() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) atEOF() bool {
	return p.current().Kind == token.EOF
}

func (p *parser) at(d token.Delim) bool {
	return p.current().IsDelim(d)
}

func (p *parser) atKeyword(kw token.Kw) bool {
	return p.current().IsKeyword(kw)
}

func (p *parser) atOperator(op token.Op) bool {
	return p.current().IsOperator(op)
}

// spanFrom covers start through the last consumed token.
func (p *parser) spanFrom(start token.Span) token.Span {
	return start.To(p.previous().Span)
}

// --- error helpers ---

func (p *parser) fail(kind diagnostics.Kind, tok token.Token, msg string, hint ...string) error {
	return p.sink.Add(kind, tok, msg, hint...)
}

// unexpected reports tok where something else was expected. Unknown tokens
// the lexer already reported are not reported twice.
func (p *parser) unexpected(tok token.Token, expected string) error {
	switch tok.Kind {
	case token.EOF:
		return p.fail(diagnostics.UnexpectedEndOfFile, tok, fmt.Sprintf("unexpected end of file, expected %s", expected))
	case token.Unknown:
		if d, ok := p.sink.At(tok.Span); ok {
			return &diagnostics.Error{Diag: d}
		}
	}
	return p.fail(diagnostics.UnexpectedToken, tok, fmt.Sprintf("unexpected %s, expected %s", tok.Describe(), expected))
}

// expect consumes the delimiter d. A missing closing bracket is reported as
// MismatchedBrackets when a different closer stands in its place.
func (p *parser) expect(d token.Delim, context string) (token.Token, error) {
	tok := p.current()
	if tok.IsDelim(d) {
		return p.advance(), nil
	}
	if tok.Kind == token.Unknown {
		return tok, p.unexpected(tok, fmt.Sprintf("'%s'", d))
	}
	if d.IsCloser() && tok.Kind == token.Delimiter && token.Delim(tok.Sub).IsCloser() {
		return tok, p.fail(diagnostics.MismatchedBrackets, tok,
			fmt.Sprintf("mismatched brackets: expected '%s' %s, found %s", d, context, tok.Describe()))
	}
	return tok, p.fail(diagnostics.MissingToken, tok,
		fmt.Sprintf("expected '%s' %s, found %s", d, context, tok.Describe()))
}

func (p *parser) expectKeyword(kw token.Kw, context string) (token.Token, error) {
	tok := p.current()
	if tok.IsKeyword(kw) {
		return p.advance(), nil
	}
	if tok.Kind == token.Unknown {
		return tok, p.unexpected(tok, fmt.Sprintf("'%s'", kw))
	}
	return tok, p.fail(diagnostics.MissingToken, tok,
		fmt.Sprintf("expected '%s' %s, found %s", kw, context, tok.Describe()))
}

func (p *parser) expectIdent(context string) (token.Token, error) {
	tok := p.current()
	if tok.Kind == token.Ident {
		return p.advance(), nil
	}
	if tok.Kind == token.Unknown || tok.Kind == token.EOF {
		return tok, p.unexpected(tok, "identifier "+context)
	}
	hint := ""
	if tok.Kind == token.Keyword {
		hint = fmt.Sprintf("'%s' is a reserved word", tok.Text)
	}
	return tok, p.fail(diagnostics.MissingToken, tok,
		fmt.Sprintf("expected identifier %s, found %s", context, tok.Describe()), hint)
}

// lineBreak reports whether a new line starts between the previous token and
// the current one outside of any parentheses or brackets.
func (p *parser) lineBreak() bool {
	return p.nest == 0 && p.pos > 0 && p.current().Span.StartLine > p.previous().Span.EndLine
}

// endStatement consumes the ';' ending a simple statement. A line break, a
// closing '}' or the end of input end it as well; anything else on the same
// line is an error.
func (p *parser) endStatement() error {
	if p.at(token.DelimSemicolon) {
		p.advance()
		return nil
	}
	if p.atEOF() || p.at(token.DelimRBrace) || p.atKeyword(token.KwCase) || p.atKeyword(token.KwDefault) || p.lineBreak() {
		return nil
	}
	tok := p.current()
	if tok.Kind == token.Unknown {
		return p.unexpected(tok, "';' or a new line")
	}
	return p.fail(diagnostics.InvalidStatement, tok,
		fmt.Sprintf("expected ';' or a new line after the statement, found %s", tok.Describe()),
		"put each statement on its own line or separate them with ';'")
}
