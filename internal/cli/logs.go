package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewChangesCommand creates the changes command.
func NewChangesCommand(rootOpts *RootOptions) *cobra.Command {
	var since int64
	var limit uint32

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List the change log",
		Long: `List change log entries with sequence numbers greater than --since,
oldest first. The trailer line states whether the log was exhausted
and, if not, the --since value that resumes the listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit == 0 {
				return fmt.Errorf("--limit must be positive")
			}

			idx, err := openIndex(rootOpts)
			if err != nil {
				return err
			}
			defer idx.Close()

			changes, done, err := idx.GetChanges(cmd.Context(), since, limit)
			if err != nil {
				return err
			}
			writeChanges(cmd.OutOrStdout(), changes, done)
			return nil
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "list entries with seq greater than this")
	cmd.Flags().Uint32Var(&limit, "limit", 100, "maximum number of entries per page")
	return cmd
}

// NewExportsCommand creates the exports command.
func NewExportsCommand(rootOpts *RootOptions) *cobra.Command {
	var since int64
	var limit uint32

	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List the export log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit == 0 {
				return fmt.Errorf("--limit must be positive")
			}

			idx, err := openIndex(rootOpts)
			if err != nil {
				return err
			}
			defer idx.Close()

			exported, done, err := idx.GetExportedResources(cmd.Context(), since, limit)
			if err != nil {
				return err
			}
			writeExports(cmd.OutOrStdout(), exported, done)
			return nil
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "list entries with seq greater than this")
	cmd.Flags().Uint32Var(&limit, "limit", 100, "maximum number of entries per page")
	return cmd
}
