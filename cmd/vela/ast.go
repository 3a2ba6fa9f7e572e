package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/vela/pkg/ast"
)

func newASTCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Dump the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "tree", "json", "yaml":
			default:
				return &exitError{code: exitUsage, err: fmt.Errorf("invalid --format %q (want tree, json or yaml)", format)}
			}

			source, name, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			unit := a.compiler(false).Compile(name, source)
			if unit.Module != nil {
				if err := a.printTree(unit.Module, format); err != nil {
					return err
				}
			}
			if unit.Failed() {
				if err := a.report(unit.Diagnostics, source); err != nil {
					return err
				}
				return diagnosticsFound()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "tree", "output format: tree, json or yaml")
	return cmd
}

func (a *app) printTree(mod *ast.Module, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ast.Tree(mod))
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(ast.Tree(mod)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(a.stdout, ast.Dump(mod))
		return err
	}
}
