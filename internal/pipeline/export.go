package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/ipl-stats/internal/logger"
	"github.com/pable/ipl-stats/internal/report"
)

// ManifestFile is written next to the exported tables.
const ManifestFile = "manifest.json"

// Manifest describes one export.
type Manifest struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Inputs      []ManifestInput `json:"inputs"`
	Tables      []ManifestTable `json:"tables"`
}

// ManifestInput is one source dataset.
type ManifestInput struct {
	Dataset string `json:"dataset"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
}

// ManifestTable is one exported CSV file.
type ManifestTable struct {
	Name string `json:"name"`
	File string `json:"file"`
	Rows int    `json:"rows"`
}

// Export writes every table as dir/<name>.csv plus a manifest. Table files
// depend only on the inputs; the manifest carries the run id and time.
func (r *Runner) Export(ctx context.Context, d *Data, tables []*report.Table, dir string) (*Manifest, error) {
	defer r.metrics.Timer("export")()

	if dir == "" {
		return nil, fmt.Errorf("export: output directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	man := &Manifest{RunID: d.RunID, GeneratedAt: time.Now().UTC(), Inputs: r.inputs(d)}
	for _, t := range tables {
		path, err := report.WriteCSVFile(dir, t)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", t.Name, err)
		}
		r.metrics.RowsEmitted(t.Name, len(t.Rows))
		man.Tables = append(man.Tables, ManifestTable{Name: t.Name, File: filepath.Base(path), Rows: len(t.Rows)})
	}

	data, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	r.log.Info(ctx, "export complete",
		logger.String("run_id", d.RunID),
		logger.String("dir", dir),
		logger.Int("tables", len(man.Tables)),
	)
	return man, nil
}

func (r *Runner) inputs(d *Data) []ManifestInput {
	var in []ManifestInput
	if d.Loaded.Has(NeedMatches) {
		in = append(in, ManifestInput{Dataset: "matches", Path: r.opts.Matches, Rows: len(d.Matches)})
	}
	if d.Loaded.Has(NeedDeliveries) {
		in = append(in, ManifestInput{Dataset: "deliveries", Path: r.opts.Deliveries, Rows: len(d.Deliveries)})
	}
	if d.Loaded.Has(NeedAuction) {
		in = append(in, ManifestInput{Dataset: "auction", Path: r.opts.Auction, Rows: len(d.Auctions)})
	}
	return in
}
