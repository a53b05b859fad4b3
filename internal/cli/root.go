package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/helixpacs/pacsindex/internal/index"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB      string
	Verbose bool
}

// NewRootCommand creates the root command for the pacsindex CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pacsindex",
		Short: "Administration tool for a clinical image-archive index",
		Long: `pacsindex inspects and maintains the SQLite resource index of a
clinical image archive: resource statistics, change and export logs,
the patient recycling queue, and schema upgrades.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.Verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: time.RFC3339,
			}).Level(level).With().Timestamp().Logger()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "pacsindex.db", "path to the index database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewChangesCommand(opts))
	cmd.AddCommand(NewExportsCommand(opts))
	cmd.AddCommand(NewRecycleCommand(opts))
	cmd.AddCommand(NewProtectCommand(opts))
	cmd.AddCommand(NewUnprotectCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewUpgradeCommand(opts))

	return cmd
}

// openIndex opens the database named by the global --db flag. Schema
// migrations run here, at open time.
func openIndex(opts *RootOptions) (*index.Index, error) {
	return index.Open(opts.DB)
}
