package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/vela/internal/config"
	"github.com/thomasrohde/vela/pkg/compiler"
	"github.com/thomasrohde/vela/pkg/diagnostics"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax and semantic diagnostics",
		Long: `check compiles the given files, or every source file of the current
project when none are given, and reports all diagnostics at the end.

Exit status is 0 when no diagnostics were found, 2 when some were, and 1 on
usage or I/O errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(cmd.Context(), args)
		},
	}
}

func (a *app) check(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		var err error
		if paths, err = a.projectSources(); err != nil {
			return err
		}
	}

	files := make([]compiler.SourceFile, 0, len(paths))
	for _, p := range paths {
		source, name, err := a.readSource(p)
		if err != nil {
			return err
		}
		files = append(files, compiler.SourceFile{Path: name, Source: source})
	}

	_, units, err := a.compiler(true).BuildProgram(ctx, files)
	if err != nil && !errors.Is(err, compiler.ErrCompilationFailed) {
		return &exitError{code: exitUsage, err: err}
	}
	failed := err != nil

	if a.wantJSON() {
		all := diagnostics.NewManager()
		for _, u := range units {
			for _, d := range u.Diagnostics.Diagnostics() {
				all.Report(d)
			}
		}
		out := a.stdout
		if failed {
			out = a.stderr
		}
		if err := all.RenderJSON(out); err != nil {
			return err
		}
	} else {
		first := true
		for _, u := range units {
			if !u.Failed() {
				continue
			}
			if !first && !a.wantShort() {
				fmt.Fprintln(a.stderr)
			}
			first = false
			if err := a.report(u.Diagnostics, u.Source); err != nil {
				return err
			}
		}
		if !failed {
			fmt.Fprintln(a.stdout, "No errors found.")
		}
	}

	if failed {
		return diagnosticsFound()
	}
	return nil
}

// projectSources lists the source files of the current project.
func (a *app) projectSources() ([]string, error) {
	if !a.cfg.HasProject() {
		return nil, &exitError{code: exitUsage, err: fmt.Errorf("no files given: %w", config.ErrNoProject)}
	}
	files, err := a.cfg.SourceFiles(a.cfg.Root())
	if err != nil {
		return nil, &exitError{code: exitUsage, err: err}
	}
	if len(files) == 0 {
		return nil, &exitError{code: exitUsage, err: fmt.Errorf("project %s has no source files", a.cfg.Path)}
	}
	if wd, err := os.Getwd(); err == nil {
		for i, f := range files {
			if rel, err := filepath.Rel(wd, f); err == nil && !strings.HasPrefix(rel, "..") {
				files[i] = rel
			}
		}
	}
	a.logger.Debug("project sources", "count", len(files))
	return files, nil
}
