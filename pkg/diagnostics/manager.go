package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/thomasrohde/vela/pkg/token"
)

// Manager accumulates the diagnostics of one compilation unit in insertion
// order. A Manager is not safe for concurrent use; each unit owns its own.
type Manager struct {
	diags []Diagnostic
}

// NewManager returns an empty diagnostic sink.
func NewManager() *Manager {
	return &Manager{}
}

// Add records a diagnostic of the given kind bound to tok and returns it as an
// error so callers can record and propagate in one step.
func (m *Manager) Add(kind Kind, tok token.Token, message string, hint ...string) *Error {
	return m.Report(MakeDiag(kind, tok, message, strings.Join(hint, " ")))
}

// Report records an already built diagnostic.
func (m *Manager) Report(d Diagnostic) *Error {
	m.diags = append(m.diags, d)
	return &Error{Diag: d}
}

func (m *Manager) HasErrors() bool { return len(m.diags) > 0 }

func (m *Manager) Len() int { return len(m.diags) }

// Diagnostics returns a copy of the recorded diagnostics.
func (m *Manager) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(m.diags))
	copy(out, m.diags)
	return out
}

// At returns the first diagnostic recorded for a token starting at span.
func (m *Manager) At(span token.Span) (Diagnostic, bool) {
	for _, d := range m.diags {
		s := d.Token.Span
		if s.File == span.File && s.StartLine == span.StartLine && s.StartCol == span.StartCol {
			return d, true
		}
	}
	return Diagnostic{}, false
}

// Err joins every recorded diagnostic into a single error, or returns nil.
func (m *Manager) Err() error {
	if len(m.diags) == 0 {
		return nil
	}
	errs := make([]error, len(m.diags))
	for i, d := range m.diags {
		errs[i] = &Error{Diag: d}
	}
	return errors.Join(errs...)
}

// ColorMode selects whether Render emits ANSI styling.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode maps "auto", "always" and "never" to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

type renderConfig struct {
	color ColorMode
}

// RenderOption configures Render.
type RenderOption func(*renderConfig)

// WithColor sets the color mode. The default is ColorAuto, which styles only
// when w is a terminal.
func WithColor(mode ColorMode) RenderOption {
	return func(c *renderConfig) { c.color = mode }
}

type palette struct {
	header lipgloss.Style
	arrow  lipgloss.Style
	caret  lipgloss.Style
	hint   lipgloss.Style
	plain  bool
}

func (p palette) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func newPalette(w io.Writer, mode ColorMode) palette {
	if mode == ColorNever {
		return palette{plain: true}
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI256)
	}
	return palette{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		arrow:  r.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		caret:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		hint:   r.NewStyle().Foreground(lipgloss.Color("#10B981")),
	}
}

// Render writes every diagnostic in insertion order with the offending source
// line and a caret under the offending column. It does not modify the Manager.
func (m *Manager) Render(w io.Writer, source string, opts ...RenderOption) error {
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := newPalette(w, cfg.color)
	lines := strings.Split(source, "\n")

	var b strings.Builder
	for i, d := range m.diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDiagnostic(&b, p, d, lines)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiagnostic(b *strings.Builder, p palette, d Diagnostic, lines []string) {
	header := fmt.Sprintf("%s error[%s]:", d.Phase, d.Kind)
	fmt.Fprintf(b, "%s %s\n", p.render(p.header, header), d.Message)
	fmt.Fprintf(b, " %s %s\n", p.render(p.arrow, "-->"), d.Token.Span)

	line, col := d.Token.Span.StartLine, d.Token.Span.StartCol
	if line >= 1 && line <= len(lines) {
		src := strings.TrimSuffix(lines[line-1], "\r")
		if col < 1 {
			col = 1
		}
		b.WriteString(src)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", col-1))
		b.WriteString(p.render(p.caret, "^"))
		b.WriteByte('\n')
	}
	if d.Hint != "" {
		fmt.Fprintf(b, "%s %s\n", p.render(p.hint, "hint:"), d.Hint)
	}
}

// RenderShort writes one line per diagnostic, as produced by FormatDiagnostic.
func (m *Manager) RenderShort(w io.Writer) error {
	var b strings.Builder
	for _, d := range m.diags {
		b.WriteString(FormatDiagnostic(d))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes the diagnostics as a JSON array.
func (m *Manager) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Diagnostics())
}
