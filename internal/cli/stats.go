package cli

import (
	"github.com/spf13/cobra"

	"github.com/helixpacs/pacsindex/internal/index"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print resource and storage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	idx, err := openIndex(opts)
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx := cmd.Context()
	var stats Stats

	counts := []struct {
		resourceType index.ResourceType
		target       *uint64
	}{
		{index.ResourcePatient, &stats.Patients},
		{index.ResourceStudy, &stats.Studies},
		{index.ResourceSeries, &stats.Series},
		{index.ResourceInstance, &stats.Instances},
	}
	for _, c := range counts {
		if *c.target, err = idx.GetResourceCount(ctx, c.resourceType); err != nil {
			return err
		}
	}

	if stats.CompressedBytes, err = idx.GetTotalCompressedSize(ctx); err != nil {
		return err
	}
	if stats.UncompressedBytes, err = idx.GetTotalUncompressedSize(ctx); err != nil {
		return err
	}
	if stats.RecyclingDepth, err = idx.GetTableRecordCount(ctx, "PatientRecyclingOrder"); err != nil {
		return err
	}

	writeStats(cmd.OutOrStdout(), stats)
	return nil
}
