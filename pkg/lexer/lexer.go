// Package lexer implements the Vela tokenizer.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/token"
)

type scanner struct {
	source string
	path   string
	pos    int
	line   int
	col    int
	sink   *diagnostics.Manager
	tokens []token.Token
}

func newScanner(path, source string, sink *diagnostics.Manager) *scanner {
	return &scanner{
		source: source,
		path:   path,
		line:   1,
		col:    1,
		sink:   sink,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	i := s.pos + offset
	if i >= len(s.source) {
		return 0
	}
	return s.source[i]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) token.Span {
	return token.Span{
		File:      s.path,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *scanner) emit(kind token.Kind, sub int, startPos, startLine, startCol int) token.Token {
	tok := token.Token{
		Kind: kind,
		Text: s.source[startPos:s.pos],
		Sub:  sub,
		Span: s.span(startLine, startCol),
	}
	s.tokens = append(s.tokens, tok)
	return tok
}

// skipWhitespaceAndComments consumes blanks, newlines and comments. An
// unterminated block comment is fatal.
func (s *scanner) skipWhitespaceAndComments() error {
	for !s.atEnd() {
		ch := s.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance()
		case ch == '/' && s.peekAt(1) == '/':
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		case ch == '/' && s.peekAt(1) == '*':
			startPos, startLine, startCol := s.pos, s.line, s.col
			s.advance()
			s.advance()
			closed := false
			for !s.atEnd() {
				if s.peek() == '*' && s.peekAt(1) == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				tok := token.Token{Kind: token.Unknown, Text: s.source[startPos:min(startPos+2, len(s.source))], Span: s.span(startLine, startCol)}
				return s.sink.Add(diagnostics.UnterminatedComment, tok,
					"unterminated block comment", "close the comment with '*/'")
			}
		default:
			return nil
		}
	}
	return nil
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) scanIdentOrKeyword() {
	startPos, startLine, startCol := s.pos, s.line, s.col
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	if kw, ok := token.LookupKeyword(s.source[startPos:s.pos]); ok {
		s.emit(token.Keyword, int(kw), startPos, startLine, startCol)
		return
	}
	s.emit(token.Ident, 0, startPos, startLine, startCol)
}

// scanNumber consumes digits with at most one fractional part. A run that
// continues into letters or a second fraction is reported and emitted as a
// single Unknown token.
func (s *scanner) scanNumber() {
	startPos, startLine, startCol := s.pos, s.line, s.col
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	if !isAlpha(s.peek()) && !(s.peek() == '.' && isDigit(s.peekAt(1))) {
		s.emit(token.Number, 0, startPos, startLine, startCol)
		return
	}
	for !s.atEnd() && (isAlphaNumeric(s.peek()) || (s.peek() == '.' && isDigit(s.peekAt(1)))) {
		s.advance()
	}
	tok := s.emit(token.Unknown, 0, startPos, startLine, startCol)
	s.sink.Add(diagnostics.InvalidNumberFormat, tok,
		fmt.Sprintf("invalid number literal %q", tok.Text),
		"numbers are digits with an optional single fractional part, e.g. 3.14")
}

// scanString keeps the literal verbatim, quotes included. A newline or the
// end of input before the closing quote is fatal.
func (s *scanner) scanString() error {
	startPos, startLine, startCol := s.pos, s.line, s.col
	quote := s.advance()
	for !s.atEnd() {
		ch := s.peek()
		switch {
		case ch == quote:
			s.advance()
			s.emit(token.String, 0, startPos, startLine, startCol)
			return nil
		case ch == '\n':
			return s.unterminatedString(startPos, startLine, startCol, quote)
		case ch == '\\':
			s.advance()
			if s.atEnd() || s.peek() == '\n' {
				return s.unterminatedString(startPos, startLine, startCol, quote)
			}
			s.advance()
		default:
			s.advance()
		}
	}
	return s.unterminatedString(startPos, startLine, startCol, quote)
}

func (s *scanner) unterminatedString(startPos, startLine, startCol int, quote byte) error {
	tok := token.Token{
		Kind: token.Unknown,
		Text: s.source[startPos : startPos+1],
		Span: token.Span{File: s.path, StartLine: startLine, StartCol: startCol, EndLine: startLine, EndCol: startCol + 1},
	}
	return s.sink.Add(diagnostics.UnterminatedString, tok,
		"unterminated string literal", fmt.Sprintf("close the string with %c", quote))
}

func (s *scanner) scanDecorator() {
	startPos, startLine, startCol := s.pos, s.line, s.col
	s.advance() // @
	if !isAlpha(s.peek()) {
		tok := s.emit(token.Unknown, 0, startPos, startLine, startCol)
		s.sink.Add(diagnostics.UnexpectedToken, tok, "'@' must be followed by a decorator name")
		return
	}
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	deco, _ := token.LookupDecorator(s.source[startPos:s.pos])
	s.emit(token.Decorator, int(deco), startPos, startLine, startCol)
}

func (s *scanner) scanDirective() {
	startPos, startLine, startCol := s.pos, s.line, s.col
	s.advance() // #
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	if dir, ok := token.LookupDirective(s.source[startPos:s.pos]); ok {
		s.emit(token.Preprocessor, int(dir), startPos, startLine, startCol)
		return
	}
	tok := s.emit(token.Unknown, 0, startPos, startLine, startCol)
	s.sink.Add(diagnostics.InvalidPreprocessorDirective, tok,
		fmt.Sprintf("unknown preprocessor directive %q", tok.Text),
		"known directives are #define, #undef, #include, #if, #ifdef, #ifndef, #elif, #else, #endif, #pragma, #error and #warning")
}

// scanOperator matches the longest operator spelling at the cursor.
func (s *scanner) scanOperator() bool {
	for n := token.MaxOperatorLen; n >= 1; n-- {
		if s.pos+n > len(s.source) {
			continue
		}
		op, ok := token.LookupOperator(s.source[s.pos : s.pos+n])
		if !ok {
			continue
		}
		startPos, startLine, startCol := s.pos, s.line, s.col
		for i := 0; i < n; i++ {
			s.advance()
		}
		s.emit(token.Operator, int(op), startPos, startLine, startCol)
		return true
	}
	return false
}

func (s *scanner) scanDelimiter() bool {
	d, ok := token.LookupDelimiter(s.source[s.pos : s.pos+1])
	if !ok {
		return false
	}
	startPos, startLine, startCol := s.pos, s.line, s.col
	s.advance()
	s.emit(token.Delimiter, int(d), startPos, startLine, startCol)
	return true
}

// scanUnknown emits one whole UTF-8 sequence as an Unknown token.
func (s *scanner) scanUnknown() {
	startPos, startLine, startCol := s.pos, s.line, s.col
	_, size := utf8.DecodeRuneInString(s.source[s.pos:])
	for i := 0; i < size; i++ {
		s.advance()
	}
	tok := s.emit(token.Unknown, 0, startPos, startLine, startCol)
	s.sink.Add(diagnostics.UnexpectedToken, tok, fmt.Sprintf("unexpected character %q", tok.Text))
}

func (s *scanner) next() error {
	ch := s.peek()
	switch {
	case isAlpha(ch):
		s.scanIdentOrKeyword()
	case isDigit(ch):
		s.scanNumber()
	case ch == '"' || ch == '\'':
		return s.scanString()
	case ch == '@':
		s.scanDecorator()
	case ch == '#':
		s.scanDirective()
	case s.scanOperator():
	case s.scanDelimiter():
	default:
		s.scanUnknown()
	}
	return nil
}

func (s *scanner) eof() {
	s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Span: s.span(s.line, s.col)})
}

// Tokenize converts Vela source text into tokens terminated by an EOF token.
// Recoverable lexical errors are recorded in sink and produce Unknown tokens.
// An unterminated string or block comment stops the scan: the tokens read so
// far are returned, still EOF-terminated, together with the fatal
// *diagnostics.Error. A nil sink is replaced by a private one.
func Tokenize(path, source string, sink *diagnostics.Manager) ([]token.Token, error) {
	if sink == nil {
		sink = diagnostics.NewManager()
	}
	s := newScanner(path, source, sink)
	for {
		if err := s.skipWhitespaceAndComments(); err != nil {
			s.eof()
			return s.tokens, err
		}
		if s.atEnd() {
			break
		}
		if err := s.next(); err != nil {
			s.eof()
			return s.tokens, err
		}
	}
	s.eof()
	return s.tokens, nil
}

// Dump renders one token per line as "line:col Kind text".
func Dump(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&b, "%d:%d %s", t.Span.StartLine, t.Span.StartCol, t.Kind)
		if t.Text != "" {
			fmt.Fprintf(&b, " %s", t.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
