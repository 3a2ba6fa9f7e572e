package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/vela/pkg/help"
)

func newDocCmd(a *app) *cobra.Command {
	var index bool
	cmd := &cobra.Command{
		Use:   "doc [topic]",
		Short: "Show the Vela language reference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if index {
					return &exitError{code: exitUsage, err: fmt.Errorf("--index needs a topic (e.g. vela doc diagnostics --index)")}
				}
				fmt.Fprint(a.stdout, help.QUICKREF)
				return nil
			}

			name, content, err := help.MatchTopic(args[0])
			if err != nil {
				return &exitError{code: exitUsage, err: fmt.Errorf("%w\navailable topics: %s", err, strings.Join(help.TopicList, ", "))}
			}
			if index {
				content, err = help.Index(name)
				if err != nil {
					return &exitError{code: exitUsage, err: err}
				}
			}
			fmt.Fprint(a.stdout, content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&index, "index", false, "print the generated table for the topic")
	return cmd
}
