package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixpacs/pacsindex/internal/index"
)

// NewUpgradeCommand creates the upgrade command.
func NewUpgradeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Migrate the database schema to the current version",
		Long: `Open the database, which migrates older compatible schemas in place,
and print the resulting schema version. Incompatible stores are
refused without modification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := openIndex(rootOpts)
			if err != nil {
				return err
			}
			defer idx.Close()

			version, ok, err := idx.LookupGlobalProperty(cmd.Context(), index.GlobalPropertyDatabaseSchemaVersion)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("schema version missing after open")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %s\n", version)
			return nil
		},
	}
}
