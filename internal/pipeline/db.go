package pipeline

import (
	"context"
	"fmt"

	"github.com/pable/ipl-stats/internal/logger"
	"github.com/pable/ipl-stats/internal/storage"
)

// OpenDB mirrors the loaded records into a fresh in-memory SQLite database.
// The caller closes it.
func (r *Runner) OpenDB(ctx context.Context, d *Data) (*storage.DB, error) {
	defer r.metrics.Timer("load_sql")()

	db, err := storage.Open()
	if err != nil {
		return nil, err
	}
	if err := db.LoadMatches(d.Matches); err != nil {
		db.Close()
		return nil, fmt.Errorf("load matches table: %w", err)
	}
	if err := db.LoadDeliveries(d.Deliveries); err != nil {
		db.Close()
		return nil, fmt.Errorf("load deliveries table: %w", err)
	}
	if err := db.LoadAuctions(d.Auctions); err != nil {
		db.Close()
		return nil, fmt.Errorf("load auctions table: %w", err)
	}
	r.log.Debug(ctx, "sql tables ready", logger.String("run_id", d.RunID))
	return db, nil
}
