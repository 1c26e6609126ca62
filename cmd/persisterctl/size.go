package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSizeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "print the number of records currently in the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPersister(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", p.Size())
			return nil
		},
	}
}
