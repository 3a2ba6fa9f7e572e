package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/vela/internal/config"
	"github.com/thomasrohde/vela/pkg/compiler"
	"github.com/thomasrohde/vela/pkg/diagnostics"
)

// app holds the global flags and the state they resolve to.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool
	noColor bool
	jsonOut bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "vela",
		Short: "Vela compiler front end",
		Long: `vela tokenizes, parses and checks Vela source files.

Commands:
  check    - report syntax and semantic diagnostics
  tokens   - dump the token stream
  ast      - dump the syntax tree
  fmt      - print canonical source
  doc      - language reference`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: vela.toml or vela.yaml in the project)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print diagnostics as JSON")

	root.AddCommand(
		newCheckCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newFmtCmd(a),
		newDocCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFile(a.cfgFile)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("load config: %w", err)}
	}
	a.logger.Debug("config loaded", "path", a.cfg.Path, "project", a.cfg.Project.Name)
	return nil
}

// compiler builds a Compiler from the loaded configuration.
func (a *app) compiler(semantic bool) *compiler.Compiler {
	opts := []compiler.Option{
		compiler.WithLogger(a.logger),
		compiler.WithSemanticChecks(semantic && a.cfg.Build.Semantic),
	}
	if a.cfg.Build.Recover {
		opts = append(opts, compiler.WithRecovery())
	}
	return compiler.New(opts...)
}

func (a *app) colorMode() diagnostics.ColorMode {
	if a.noColor {
		return diagnostics.ColorNever
	}
	mode, err := diagnostics.ParseColorMode(a.cfg.Diagnostics.Color)
	if err != nil {
		return diagnostics.ColorAuto
	}
	return mode
}

func (a *app) wantJSON() bool {
	return a.jsonOut || a.cfg.Diagnostics.Format == "json"
}

// wantShort reports whether diagnostics are printed one per line.
func (a *app) wantShort() bool {
	return !a.wantJSON() && a.cfg.Diagnostics.Format == "short"
}

// report renders the diagnostics of one file to stderr.
func (a *app) report(m *diagnostics.Manager, source string) error {
	switch {
	case a.wantJSON():
		return m.RenderJSON(a.stderr)
	case a.wantShort():
		return m.RenderShort(a.stderr)
	}
	return m.Render(a.stderr, source, diagnostics.WithColor(a.colorMode()))
}

// readSource reads a file, or stdin when path is "-".
func (a *app) readSource(path string) (source, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", &exitError{code: exitUsage, err: fmt.Errorf("read stdin: %w", err)}
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", &exitError{code: exitUsage, err: fmt.Errorf("cannot read file: %w", err)}
	}
	return string(data), path, nil
}

func diagnosticsFound() error {
	return &exitError{code: exitDiagnostics}
}
