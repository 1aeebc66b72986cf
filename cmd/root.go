package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"raffler/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const programName = "raffler"

var (
	globalFlags = struct {
		debug bool
	}{}
	loadedConfig *config.Config
)

// NewRootCommand builds the raffler command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Manage raffle participants, referral credit and redeemable codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loadedConfig = cfg
			return configureLogging(cfg.LogLevel, globalFlags.debug)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(
		migrateCommand(),
		codeCommand(),
		raffleCommand(),
		participantsCommand(),
		joinCommand(),
		leaveCommand(),
		redeemCommand(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func configureLogging(level string, debug bool) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if debug {
		log.SetLevel(log.DebugLevel)
		return nil
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(parsed)
	return nil
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, value)
	}
	return id, nil
}
