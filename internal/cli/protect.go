package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixpacs/pacsindex/internal/index"
)

// NewProtectCommand creates the protect command.
func NewProtectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "protect <publicId>",
		Short: "Shield a patient from automatic recycling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setProtection(rootOpts, cmd, args[0], true)
		},
	}
}

// NewUnprotectCommand creates the unprotect command.
func NewUnprotectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unprotect <publicId>",
		Short: "Enroll a patient into the recycling queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setProtection(rootOpts, cmd, args[0], false)
		},
	}
}

func setProtection(opts *RootOptions, cmd *cobra.Command, publicID string, protect bool) error {
	idx, err := openIndex(opts)
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx := cmd.Context()

	id, resourceType, ok, err := idx.LookupResource(ctx, publicID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown resource %q", publicID)
	}
	if resourceType != index.ResourcePatient {
		return fmt.Errorf("%q is a %s, only patients can be protected", publicID, resourceType)
	}

	if err := idx.SetProtectedPatient(ctx, id, protect); err != nil {
		return err
	}

	state := "protected"
	if !protect {
		state = "unprotected"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", publicID, state)
	return nil
}
