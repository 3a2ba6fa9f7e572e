// Package compiler provides the top-level Vela front-end orchestrator.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thomasrohde/vela/pkg/ast"
	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/formatter"
	"github.com/thomasrohde/vela/pkg/lexer"
	"github.com/thomasrohde/vela/pkg/parser"
	"github.com/thomasrohde/vela/pkg/token"
	"github.com/thomasrohde/vela/pkg/validator"
)

// ErrCompilationFailed is returned by BuildProgram when any unit has
// diagnostics.
var ErrCompilationFailed = errors.New("compilation failed")

// SourceFile is one input of a multi-file build.
type SourceFile struct {
	Path   string
	Source string
}

// Unit holds everything produced for one source file.
type Unit struct {
	ID          uuid.UUID
	Path        string
	Source      string
	Tokens      []token.Token
	Module      *ast.Module
	Diagnostics *diagnostics.Manager
}

// Failed reports whether any diagnostic was recorded for the unit.
func (u *Unit) Failed() bool {
	return u.Diagnostics.HasErrors()
}

// Compiler wires the lexer, parser and validator together.
type Compiler struct {
	logger      *slog.Logger
	recover     bool
	semantic    bool
	concurrency int
}

// Option is a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithLogger sets the logger for per-unit debug events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecovery keeps parsing after a malformed top-level item.
func WithRecovery() Option {
	return func(c *Compiler) {
		c.recover = true
	}
}

// WithSemanticChecks enables or disables the validator pass.
func WithSemanticChecks(enabled bool) Option {
	return func(c *Compiler) {
		c.semantic = enabled
	}
}

// WithConcurrency bounds the number of units BuildProgram compiles at once.
func WithConcurrency(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a new Compiler with the given options.
// By default semantic checks are on, recovery is off and logs are discarded.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		semantic:    true,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) parserOptions() []parser.Option {
	if c.recover {
		return []parser.Option{parser.WithRecovery()}
	}
	return nil
}

// Compile tokenizes, parses and validates one source file. It never returns
// nil; problems are recorded in the unit's diagnostics. Without recovery the
// unit has no module once any syntax diagnostic was recorded.
func (c *Compiler) Compile(path, source string) *Unit {
	start := time.Now()
	u := &Unit{
		ID:          uuid.New(),
		Path:        path,
		Source:      source,
		Diagnostics: diagnostics.NewManager(),
	}

	tokens, err := lexer.Tokenize(path, source, u.Diagnostics)
	u.Tokens = tokens
	if err == nil {
		mod, _ := parser.ParseModule(tokens, parser.ModuleName(path), u.Diagnostics, c.parserOptions()...)
		if c.recover || !u.Diagnostics.HasErrors() {
			u.Module = mod
		}
	}
	if u.Module != nil && c.semantic {
		for _, d := range validator.Validate(u.Module) {
			u.Diagnostics.Report(d)
		}
	}

	c.logger.Debug("compiled unit",
		"unit", u.ID,
		"path", path,
		"tokens", len(u.Tokens),
		"diagnostics", u.Diagnostics.Len(),
		"duration", time.Since(start),
	)
	return u
}

// Tokenize runs the lexer alone. The manager holds any lexical diagnostics.
func (c *Compiler) Tokenize(path, source string) ([]token.Token, *diagnostics.Manager) {
	sink := diagnostics.NewManager()
	tokens, _ := lexer.Tokenize(path, source, sink)
	c.logger.Debug("tokenized", "path", path, "tokens", len(tokens), "diagnostics", sink.Len())
	return tokens, sink
}

// Format parses and formats a Vela source file.
func (c *Compiler) Format(path, source string) (string, error) {
	mod, diags := parser.Parse(source, path)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Format(mod), nil
}

// BuildProgram compiles files concurrently and returns the units in input
// order together with a Program of every module that parsed. The error wraps
// ErrCompilationFailed when any unit has diagnostics, or is the context's
// error when ctx is cancelled before all units ran.
func (c *Compiler) BuildProgram(ctx context.Context, files []SourceFile) (*ast.Program, []*Unit, error) {
	start := time.Now()
	units := make([]*Unit, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units[i] = c.Compile(f.Path, f.Source)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, units, err
	}

	prog := &ast.Program{}
	var failed []string
	for _, u := range units {
		if u.Module != nil {
			prog.Modules = append(prog.Modules, u.Module)
		}
		if u.Failed() {
			failed = append(failed, u.Path)
		}
	}
	if len(prog.Modules) > 0 {
		first := prog.Modules[0].Span
		prog.Span = first.To(prog.Modules[len(prog.Modules)-1].Span)
	}

	c.logger.Debug("built program",
		"units", len(units),
		"modules", len(prog.Modules),
		"failed", len(failed),
		"duration", time.Since(start),
	)
	if len(failed) > 0 {
		return prog, units, fmt.Errorf("%w: %d of %d files have diagnostics (%s)",
			ErrCompilationFailed, len(failed), len(units), strings.Join(failed, ", "))
	}
	return prog, units, nil
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each diagnostic as a *diagnostics.Error so that
// diagnostics.Collect and errors.As see through a DiagnosticError.
func (e *DiagnosticError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = &diagnostics.Error{Diag: d}
	}
	return errs
}
