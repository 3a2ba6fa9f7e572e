package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/vela/pkg/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, name, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			tokens, sink := a.compiler(false).Tokenize(name, source)

			if a.jsonOut {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(tokens); err != nil {
					return err
				}
			} else {
				fmt.Fprint(a.stdout, lexer.Dump(tokens))
			}

			if sink.HasErrors() {
				if err := a.report(sink, source); err != nil {
					return err
				}
				return diagnosticsFound()
			}
			return nil
		},
	}
}
