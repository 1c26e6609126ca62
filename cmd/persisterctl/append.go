package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zyy1659949090/logpersist/entry"
)

func newAppendCommand(opts *RootOptions) *cobra.Command {
	var producer string

	var cmd = &cobra.Command{
		Use:   "append <text>...",
		Short: "append a text entry to the log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if producer == "" {
				producer = uuid.NewString()
			}
			p, err := openPersister(opts)
			if err != nil {
				return err
			}
			var it, pubErr = p.Publish(entry.Of(&textEntry{
				Producer: producer,
				Text:     strings.Join(args, " "),
			}))
			if pubErr != nil {
				return pubErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", it)
			return nil
		},
	}

	cmd.Flags().StringVar(&producer, "producer", "", "producer identifier; a random UUID is generated if omitted")
	return cmd
}
