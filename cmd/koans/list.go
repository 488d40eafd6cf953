package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var cases bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the topics along the path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			suites, err := a.suites()
			if err != nil {
				return err
			}
			for _, s := range suites {
				fmt.Fprintf(a.out, "%s (%d koans)\n", s.Topic, s.Len())
				if !cases {
					continue
				}
				for _, c := range s.Cases {
					fmt.Fprintf(a.out, "  %s\n", c.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cases, "cases", false, "also list every koan")
	return cmd
}
