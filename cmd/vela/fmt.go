package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/vela/pkg/diagnostics"
	"github.com/thomasrohde/vela/pkg/formatter"
)

func newFmtCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, name, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			if write && name != args[0] {
				return &exitError{code: exitUsage, err: errors.New("--write needs a file, not stdin")}
			}

			formatted, err := a.compiler(false).Format(name, source)
			if err != nil {
				diags := diagnostics.Collect(err)
				if len(diags) == 0 {
					return err
				}
				sink := diagnostics.NewManager()
				for _, d := range diags {
					sink.Report(d)
				}
				if err := a.report(sink, source); err != nil {
					return err
				}
				return diagnosticsFound()
			}

			if formatter.HasComments(source) {
				fmt.Fprintln(a.stderr, "warning: comments are not preserved by the formatter")
			}

			if write {
				if err := os.WriteFile(name, []byte(formatted), 0o644); err != nil {
					return &exitError{code: exitUsage, err: fmt.Errorf("write %s: %w", name, err)}
				}
				return nil
			}
			_, err = fmt.Fprint(a.stdout, formatted)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "write the result back to the file")
	return cmd
}
