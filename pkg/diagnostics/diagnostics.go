// Package diagnostics defines Vela diagnostics and the per-unit error manager
// that accumulates and renders them.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/thomasrohde/vela/pkg/token"
)

// Diagnostic is a structured, source-located error record. Diagnostics are
// never mutated after creation.
type Diagnostic struct {
	Phase   Phase       `json:"phase"`
	Kind    Kind        `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Token   token.Token `json:"token"`
	Hint    string      `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic. The phase is derived from kind.
func MakeDiag(kind Kind, tok token.Token, message, hint string) Diagnostic {
	return Diagnostic{
		Phase:   kind.Phase(),
		Kind:    kind,
		Code:    kind.Code(),
		Message: message,
		Token:   tok,
		Hint:    hint,
	}
}

// Span returns the source span of the offending token.
func (d Diagnostic) Span() token.Span {
	return d.Token.Span
}

// Error carries a single diagnostic through Go error returns.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error[%s]: %s", e.Diag.Token.Span, e.Diag.Phase, e.Diag.Kind, e.Diag.Message)
}

// Collect returns every diagnostic carried by err. err may be a single
// *Error, a join of several, or either of those wrapped with %w.
func Collect(err error) []Diagnostic {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			var out []Diagnostic
			for _, part := range joined.Unwrap() {
				out = append(out, Collect(part)...)
			}
			return out
		}
		if de, ok := e.(*Error); ok {
			return []Diagnostic{de.Diag}
		}
	}
	return nil
}

// FormatDiagnostic renders d on a single line, without source context, in the
// form 'file:line:col: phase error[Kind]: message (hint: ...)'.
func FormatDiagnostic(d Diagnostic) string {
	out := (&Error{Diag: d}).Error()
	if d.Hint != "" {
		out += " (hint: " + d.Hint + ")"
	}
	return out
}
