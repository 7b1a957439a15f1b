package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/logger"
	"github.com/pable/ipl-stats/internal/metrics"
	"github.com/pable/ipl-stats/internal/pipeline"
)

// withData loads the datasets in need and hands them to fn. The run outcome
// is recorded whether or not fn succeeds.
func withData(cmd *cobra.Command, need pipeline.Need, fn func(ctx context.Context, r *pipeline.Runner, d *pipeline.Data) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r := pipeline.New(pipeline.OptionsFrom(cfg), logger.Get(), metrics.NewManager())

	d, err := r.Load(ctx, need)
	if err == nil {
		err = fn(ctx, r, d)
	}
	if ferr := r.Finish(ctx, err); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// configuredDatasets returns every dataset that has a path set.
func configuredDatasets() pipeline.Need {
	var need pipeline.Need
	if cfg.Matches != "" {
		need |= pipeline.NeedMatches
	}
	if cfg.Deliveries != "" {
		need |= pipeline.NeedDeliveries
	}
	if cfg.Auction != "" {
		need |= pipeline.NeedAuction
	}
	return need
}
