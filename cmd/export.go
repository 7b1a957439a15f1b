package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/pipeline"
)

var exportOut string

// exportCmd writes every table the configured datasets support as CSV.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every table as CSV plus a manifest",
	Long: `Compute every table supported by the configured datasets and write each to
<out>/<table>.csv, followed by <out>/manifest.json listing the run id, the
inputs and the row count of every table. Datasets whose path is empty are
skipped; the matches file is always required.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default from config)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	dir := cfg.OutDir
	if exportOut != "" {
		dir = exportOut
	}
	need := configuredDatasets() | pipeline.NeedMatches
	return withData(cmd, need, func(ctx context.Context, r *pipeline.Runner, d *pipeline.Data) error {
		tables, err := r.Tables(ctx, d)
		if err != nil {
			return fmt.Errorf("build tables: %w", err)
		}
		man, err := r.Export(ctx, d, tables, dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, t := range man.Tables {
			fmt.Fprintf(w, "  %-24s %6d rows\n", t.File, t.Rows)
		}
		fmt.Fprintf(w, "\n%d tables written to %s (run %s)\n", len(man.Tables), dir, man.RunID)
		return nil
	})
}
