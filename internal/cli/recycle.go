package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecycleCommand creates the recycle command.
func NewRecycleCommand(rootOpts *RootOptions) *cobra.Command {
	var avoid string

	cmd := &cobra.Command{
		Use:   "recycle",
		Short: "Print the next patient eviction candidate",
		Long: `Print the public id of the oldest unprotected patient, the one a
space-constrained archive would evict next. With --avoid, the named
patient is skipped, matching the case where new data for it is being
received.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := openIndex(rootOpts)
			if err != nil {
				return err
			}
			defer idx.Close()

			ctx := cmd.Context()

			var candidate int64
			var ok bool
			if avoid == "" {
				candidate, ok, err = idx.SelectPatientToRecycle(ctx)
			} else {
				avoidID, _, found, lookupErr := idx.LookupResource(ctx, avoid)
				if lookupErr != nil {
					return lookupErr
				}
				if !found {
					return fmt.Errorf("unknown resource %q", avoid)
				}
				candidate, ok, err = idx.SelectPatientToRecycleAvoiding(ctx, avoidID)
			}
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "(recycling queue is empty)")
				return nil
			}

			publicID, err := idx.GetPublicID(ctx, candidate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), publicID)
			return nil
		},
	}

	cmd.Flags().StringVar(&avoid, "avoid", "", "public id of a patient to skip")
	return cmd
}
