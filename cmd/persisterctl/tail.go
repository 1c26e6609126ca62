package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/entry"
	"github.com/zyy1659949090/logpersist/idxts"
	termsig "github.com/zyy1659949090/logpersist/signal"
)

func newTailCommand(opts *RootOptions) *cobra.Command {
	var follow bool

	var cmd = &cobra.Command{
		Use:   "tail",
		Short: "print every entry in the log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPersister(opts)
			if err != nil {
				return err
			}

			var term = termsig.New()
			if follow {
				var ctx, cancel = signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer cancel()
				go func() {
					<-ctx.Done()
					term.Raise()
				}()
			}

			var sink = &printSink{
				out:             cmd.OutOrStdout(),
				term:            term,
				stopAfterReplay: !follow,
			}
			return p.Scan(context.Background(), term, sink)
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "keep running and print new entries as they are published")
	return cmd
}

// printSink prints each entry as it is delivered. In non-follow mode
// (stopAfterReplay) it raises term once the replay set has been fully
// delivered, rather than raising term before Scan is even called -- a
// terminate raised up front would be observed at the very first check,
// before the cursor (which starts past-the-end) ever advances, and the
// whole replay set would be skipped.
type printSink struct {
	out interface {
		Write([]byte) (int, error)
	}
	term            *termsig.TerminateSignal
	stopAfterReplay bool
}

func (s *printSink) OnEntry(rec container.LogRecord[entry.Polymorphic], _ idxts.IdxTs) bool {
	v, err := entry.As[*textEntry](rec.Value)
	if err != nil {
		fmt.Fprintf(s.out, "%s\t<unreadable: %v>\n", rec.IdxTs, err)
		return true
	}
	fmt.Fprintf(s.out, "%s\t%s\t%s\n", rec.IdxTs, v.Producer, v.Text)
	return true
}

func (s *printSink) OnReplayDone() {
	if s.stopAfterReplay {
		s.term.Raise()
	}
}
