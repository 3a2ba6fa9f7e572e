// Package token defines Vela lexical tokens and source spans.
package token

import "fmt"

// Kind is the coarse classification of a token.
type Kind int

const (
	Keyword Kind = iota
	Ident
	Number
	String
	Operator
	Delimiter
	Decorator
	Preprocessor
	Unknown
	EOF
)

var kindNames = [...]string{
	Keyword:      "Keyword",
	Ident:        "Identifier",
	Number:       "Number",
	String:       "String",
	Operator:     "Operator",
	Delimiter:    "Delimiter",
	Decorator:    "Decorator",
	Preprocessor: "Preprocessor",
	Unknown:      "Unknown",
	EOF:          "EndOfFile",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText renders the kind by name in JSON/YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span represents a source location range. Lines and columns are 1-based.
type Span struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"startLine" yaml:"startLine"`
	StartCol  int    `json:"startCol" yaml:"startCol"`
	EndLine   int    `json:"endLine" yaml:"endLine"`
	EndCol    int    `json:"endCol" yaml:"endCol"`
}

// String formats the start of the span as file:line:col.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// To returns a span starting at s and ending where end ends.
func (s Span) To(end Span) Span {
	return Span{
		File:      s.File,
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// Token is a classified, position-tagged fragment of source text.
// Sub holds the table symbol for Keyword, Operator, Delimiter, Decorator and
// Preprocessor tokens and is zero otherwise.
type Token struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
	Sub  int    `json:"-" yaml:"-"`
	Span Span   `json:"span" yaml:"span"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Text, t.Span)
}

// Describe returns a short human-readable form for error messages.
func (t Token) Describe() string {
	if t.Kind == EOF {
		return "end of file"
	}
	return "'" + t.Text + "'"
}

// IsKeyword reports whether t is the keyword kw.
func (t Token) IsKeyword(kw Kw) bool {
	return t.Kind == Keyword && Kw(t.Sub) == kw
}

// IsOperator reports whether t is the operator op.
func (t Token) IsOperator(op Op) bool {
	return t.Kind == Operator && Op(t.Sub) == op
}

// IsDelim reports whether t is the delimiter d.
func (t Token) IsDelim(d Delim) bool {
	return t.Kind == Delimiter && Delim(t.Sub) == d
}

// Keyword returns the keyword symbol of t.
func (t Token) Keyword() (Kw, bool) {
	if t.Kind != Keyword {
		return 0, false
	}
	return Kw(t.Sub), true
}

// Operator returns the operator symbol of t.
func (t Token) Operator() (Op, bool) {
	if t.Kind != Operator {
		return 0, false
	}
	return Op(t.Sub), true
}

// Directive returns the preprocessor directive symbol of t.
func (t Token) Directive() (Directive, bool) {
	if t.Kind != Preprocessor {
		return 0, false
	}
	return Directive(t.Sub), true
}

// Decorator returns the decorator symbol of t.
func (t Token) Decorator() (Deco, bool) {
	if t.Kind != Decorator {
		return 0, false
	}
	return Deco(t.Sub), true
}
