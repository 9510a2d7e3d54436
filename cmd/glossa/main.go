package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/glossa/internal/cli"
	"codeberg.org/snonux/glossa/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	cmds := cli.CreateCommands(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	cmds.Root.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(flags)
		if err != nil {
			return err
		}
		if flags.ListModels {
			return proc.ListModels(cmd.Context())
		}
		// No subcommand: launch the desktop reader
		return proc.RunGUIMode(cmd.Context(), "")
	}

	cmds.Lookup.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(flags)
		if err != nil {
			return err
		}
		return proc.Lookup(cmd.Context(), strings.Join(args, " "))
	}

	cmds.Annotate.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(flags)
		if err != nil {
			return err
		}
		return proc.Annotate(cmd.Context(), args[0])
	}

	cmds.Compose.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(flags)
		if err != nil {
			return err
		}
		return proc.Compose(cmd.Context(), strings.Join(args, " "))
	}

	cmds.Serve.RunE = func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(flags)
		if err != nil {
			return err
		}
		return proc.Serve(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmds.Root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newProcessor merges flags, config file and environment into a processor
func newProcessor(flags *cli.Flags) (*processor.Processor, error) {
	config := cli.LoadConfig()

	logger, err := cli.NewLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		return nil, err
	}

	return processor.NewProcessor(flags, config, logger), nil
}
