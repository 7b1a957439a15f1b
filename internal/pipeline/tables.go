package pipeline

import (
	"context"
	"fmt"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/logger"
	"github.com/pable/ipl-stats/internal/report"
)

// TopAuctionRows caps the individual purchases table regardless of top_n.
const TopAuctionRows = 20

// Tables aggregates every table the loaded datasets support, in a fixed
// order: match tables, then delivery tables, then auction tables.
func (r *Runner) Tables(ctx context.Context, d *Data) ([]*report.Table, error) {
	defer r.metrics.Timer("aggregate")()

	var out []*report.Table
	if d.Loaded.Has(NeedMatches) {
		ts, err := r.matchTables(d)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	if d.Loaded.Has(NeedDeliveries) {
		ts, err := r.deliveryTables(d)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	if d.Loaded.Has(NeedAuction) {
		out = append(out, r.auctionTables(d)...)
	}
	r.log.Debug(ctx, "tables built", logger.String("run_id", d.RunID), logger.Int("tables", len(out)))
	return out, nil
}

func (r *Runner) matchTables(d *Data) ([]*report.Table, error) {
	ms := d.Matches
	ratios, err := aggregator.WinRatios(ms)
	if err != nil {
		return nil, fmt.Errorf("win ratios: %w", err)
	}
	champs, err := aggregator.Champions(ms)
	if err != nil {
		return nil, fmt.Errorf("champions: %w", err)
	}
	summary, err := aggregator.Summarize(ms, r.opts.MinMatches)
	if err != nil {
		return nil, fmt.Errorf("team summary: %w", err)
	}
	seasonWins, err := aggregator.SeasonWins(ms)
	if err != nil {
		return nil, fmt.Errorf("season wins: %w", err)
	}
	return []*report.Table{
		report.WinRatios(ratios),
		report.Champions(champs),
		report.TeamSummary(summary),
		report.TossConversions(aggregator.TossConversions(ms)),
		report.TossImpact(aggregator.TossImpactSummary(ms)),
		report.ResultTypes(aggregator.ResultTypes(ms)),
		report.SeasonWins(seasonWins),
	}, nil
}

func (r *Runner) deliveryTables(d *Data) ([]*report.Table, error) {
	ms, ds := d.Matches, d.Deliveries
	venues, err := aggregator.VenueStats(ms, ds)
	if err != nil {
		return nil, fmt.Errorf("venues: %w", err)
	}
	winBat, err := aggregator.WinningBatters(ms, ds, r.opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("winning batters: %w", err)
	}
	winBowl, err := aggregator.WinningBowlers(ms, ds, r.opts.MinOversInWins, r.opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("winning bowlers: %w", err)
	}
	return []*report.Table{
		report.Batters(aggregator.BatterLeaders(ds, r.opts.MinBallsFaced)),
		report.Bowlers(aggregator.BowlerLeaders(ds, r.opts.MinOvers)),
		report.WinningBatters(winBat),
		report.WinningBowlers(winBowl),
		report.Partnerships(aggregator.Partnerships(ds, r.opts.PartnershipMinRuns)),
		report.Dismissals(aggregator.Dismissals(ds)),
		report.Venues(venues),
		report.WicketsByOver(aggregator.WicketsByOver(ds)),
	}, nil
}

func (r *Runner) auctionTables(d *Data) []*report.Table {
	as, n := d.Auctions, r.opts.TopN
	trend := aggregator.ValuationTrend(as)
	return []*report.Table{
		report.Valuation("valuation", "Player valuation trend", trend),
		report.Valuation("top_rises", "Top valuation rises (%)", aggregator.TopRises(trend, n)),
		report.Valuation("top_crashes", "Top valuation crashes (%)", aggregator.TopCrashes(trend, n)),
		report.Valuation("top_rockets_by_diff", "Top valuation rises (amount)", aggregator.TopRocketsByDiff(trend, n)),
		report.Valuation("top_crashes_by_diff", "Top valuation crashes (amount)", aggregator.TopCrashesByDiff(trend, n)),
		report.TeamSpend(aggregator.TeamSpend(as)),
		report.TeamSpendByYear(aggregator.TeamSpendByYear(as)),
		report.RoleSpendByYear(aggregator.RoleSpendByYear(as)),
		report.TopPaidPerYear(aggregator.TopPaidPerYear(as, n)),
		report.TopAuctionRows(aggregator.TopAuctionRows(as, TopAuctionRows)),
	}
}

// Find returns the table called name, or nil.
func Find(ts []*report.Table, name string) *report.Table {
	for _, t := range ts {
		if t.Name == name {
			return t
		}
	}
	return nil
}
