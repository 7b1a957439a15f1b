// Package pipeline runs one batch over the league datasets: load, normalize,
// aggregate, and hand the resulting tables to a renderer or exporter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/config"
	"github.com/pable/ipl-stats/internal/logger"
	"github.com/pable/ipl-stats/internal/metrics"
	"github.com/pable/ipl-stats/internal/model"
	"github.com/pable/ipl-stats/internal/parser"
)

// ErrNoSource is returned when a required dataset has no configured path.
var ErrNoSource = errors.New("dataset path not configured")

// Need is a set of datasets a command requires.
type Need uint8

const (
	NeedMatches Need = 1 << iota
	NeedDeliveries
	NeedAuction

	NeedAll = NeedMatches | NeedDeliveries | NeedAuction
)

// Has reports whether n includes every dataset in o.
func (n Need) Has(o Need) bool { return n&o == o }

// Options are the inputs and thresholds of one run.
type Options struct {
	Matches    string
	Deliveries string
	Auction    string

	Aliases map[string]string

	MinMatches         int
	MinBallsFaced      int
	MinOvers           int
	MinOversInWins     int
	PartnershipMinRuns int
	TopN               int

	MetricsFile string
}

// OptionsFrom copies the run options out of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Matches:            cfg.Matches,
		Deliveries:         cfg.Deliveries,
		Auction:            cfg.Auction,
		Aliases:            cfg.TeamAliases,
		MinMatches:         cfg.MinMatches,
		MinBallsFaced:      cfg.MinBallsFaced,
		MinOvers:           cfg.MinOvers,
		MinOversInWins:     cfg.MinOversInWins,
		PartnershipMinRuns: cfg.PartnershipMinRuns,
		TopN:               cfg.TopN,
		MetricsFile:        cfg.MetricsFile,
	}
}

// Data holds the normalized records of one run.
type Data struct {
	RunID      string
	Loaded     Need
	Matches    []model.MatchRecord
	Deliveries []model.DeliveryRecord
	Auctions   []model.AuctionRecord
}

// Runner executes pipeline stages with shared logging and metrics.
type Runner struct {
	opts    Options
	aliases model.AliasTable
	log     logger.Logger
	metrics *metrics.Manager
	start   time.Time
}

// New creates a Runner. A nil metrics manager gets a private one.
func New(opts Options, log logger.Logger, m *metrics.Manager) *Runner {
	if m == nil {
		m = metrics.NewManager()
	}
	return &Runner{
		opts:    opts,
		aliases: model.NewAliasTable(opts.Aliases),
		log:     log.Named("pipeline"),
		metrics: m,
		start:   time.Now(),
	}
}

// Load parses and normalizes the datasets in need. Deliveries always pull in
// matches since every delivery aggregate joins on them.
func (r *Runner) Load(ctx context.Context, need Need) (*Data, error) {
	if need.Has(NeedDeliveries) {
		need |= NeedMatches
	}
	d := &Data{RunID: uuid.NewString(), Loaded: need}
	log := r.log.With(logger.String("run_id", d.RunID))
	log.Debug(ctx, "loading datasets")

	if need.Has(NeedMatches) {
		path, err := source("matches", r.opts.Matches)
		if err != nil {
			return nil, err
		}
		done := r.metrics.Timer("load_matches")
		ms, err := parser.ParseMatchesFile(path)
		done()
		if err != nil {
			return nil, fmt.Errorf("load matches: %w", err)
		}
		d.Matches = r.aliases.NormalizeMatches(ms)
		if err := aggregator.CheckMatches(d.Matches); err != nil {
			return nil, fmt.Errorf("check matches: %w", err)
		}
		r.loaded(ctx, log, "matches", path, len(d.Matches))
	}

	if need.Has(NeedDeliveries) {
		path, err := source("deliveries", r.opts.Deliveries)
		if err != nil {
			return nil, err
		}
		done := r.metrics.Timer("load_deliveries")
		ds, err := parser.ParseDeliveriesFile(path)
		done()
		if err != nil {
			return nil, fmt.Errorf("load deliveries: %w", err)
		}
		d.Deliveries = r.aliases.NormalizeDeliveries(ds)
		r.loaded(ctx, log, "deliveries", path, len(d.Deliveries))
	}

	if need.Has(NeedAuction) {
		path, err := source("auction", r.opts.Auction)
		if err != nil {
			return nil, err
		}
		done := r.metrics.Timer("load_auction")
		as, err := parser.ParseAuctionsFile(path)
		done()
		if err != nil {
			return nil, fmt.Errorf("load auction: %w", err)
		}
		d.Auctions = r.aliases.NormalizeAuctions(as)
		r.loaded(ctx, log, "auction", path, len(d.Auctions))
	}
	return d, nil
}

func source(name, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNoSource)
	}
	return path, nil
}

func (r *Runner) loaded(ctx context.Context, log logger.Logger, dataset, path string, n int) {
	r.metrics.RowsLoaded(dataset, n)
	log.Info(ctx, "dataset loaded",
		logger.String("dataset", dataset),
		logger.String("path", path),
		logger.Int("rows", n),
	)
}

// Finish records the run outcome and, when a metrics file is configured,
// writes the metrics there.
func (r *Runner) Finish(ctx context.Context, runErr error) error {
	elapsed := time.Since(r.start)
	r.metrics.RunFinished(elapsed, runErr)
	r.log.Debug(ctx, "run finished", logger.Duration("elapsed", elapsed))
	if r.opts.MetricsFile == "" {
		return nil
	}
	if err := r.metrics.WriteTextfile(r.opts.MetricsFile); err != nil {
		return err
	}
	r.log.Debug(ctx, "metrics written", logger.String("path", r.opts.MetricsFile))
	return nil
}
