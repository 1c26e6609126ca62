package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared across all persisterctl subcommands.
type RootOptions struct {
	LogPath    string
	Backend    string
	ConfigPath string
}

// ValidBackends names the Backend implementations persisterctl can open.
var ValidBackends = []string{"null", "legacy", "framed"}

// NewRootCommand builds the persisterctl command tree.
func NewRootCommand() *cobra.Command {
	var opts = &RootOptions{}

	var cmd = &cobra.Command{
		Use:   "persisterctl",
		Short: "persisterctl inspects and appends to an append-only entry log",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath != "" {
				cfg, err := loadConfig(opts.ConfigPath)
				if err != nil {
					return err
				}
				if opts.LogPath == "" {
					opts.LogPath = cfg.Log
				}
				if opts.Backend == "" {
					opts.Backend = cfg.Backend
				}
			}
			if opts.Backend == "" {
				opts.Backend = "framed"
			}
			if !isValidBackend(opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends)
			}
			if opts.LogPath == "" {
				return fmt.Errorf("--log is required")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogPath, "log", "", "path to the log file")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "backend: null|legacy|framed (default framed)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "optional YAML config file supplying defaults for --log and --backend")

	cmd.AddCommand(newAppendCommand(opts))
	cmd.AddCommand(newTailCommand(opts))
	cmd.AddCommand(newSizeCommand(opts))

	return cmd
}

func isValidBackend(backend string) bool {
	for _, b := range ValidBackends {
		if b == backend {
			return true
		}
	}
	return false
}
