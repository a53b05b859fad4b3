package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/helixpacs/pacsindex/internal/index"
)

// reportingListener logs every deletion signal and tallies them for
// the final summary.
type reportingListener struct {
	log    zerolog.Logger
	report DeleteReport
}

func (l *reportingListener) SignalFileDeleted(info index.FileInfo) {
	l.report.Files++
	l.log.Info().
		Str("uuid", info.UUID).
		Uint64("compressedSize", info.CompressedSize).
		Msg("attachment removed, bytes reclaimable")
}

func (l *reportingListener) SignalChange(change index.Change) {
	if change.ChangeType != index.ChangeDeleted {
		return
	}
	l.report.Resources++
	l.log.Info().
		Stringer("type", change.ResourceType).
		Str("publicId", change.PublicID).
		Msg("resource deleted")
}

func (l *reportingListener) SignalRemainingAncestor(resourceType index.ResourceType, publicID string) {
	l.report.HasAncestor = true
	l.report.AncestorType = resourceType
	l.report.AncestorID = publicID
	l.log.Info().
		Stringer("type", resourceType).
		Str("publicId", publicID).
		Msg("surviving ancestor lost a member")
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <publicId>",
		Short: "Delete a resource and its whole subtree",
		Long: `Delete a resource. Children cascade; every removed attachment and
resource is reported, and the summary names the topmost surviving
ancestor whose subtree lost a member.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := openIndex(rootOpts)
			if err != nil {
				return err
			}
			defer idx.Close()

			ctx := cmd.Context()

			id, _, ok, err := idx.LookupResource(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("unknown resource %q", args[0])
			}

			listener := &reportingListener{log: log.Logger}
			idx.SetListener(listener)

			if err := idx.DeleteResource(ctx, id); err != nil {
				return err
			}

			writeDeleteReport(cmd.OutOrStdout(), listener.report)
			return nil
		},
	}
}
