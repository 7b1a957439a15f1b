package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
)

const analyzeSystemPrompt = `You are an IPL cricket analyst. You are given tables computed from the
league's match results, ball-by-ball deliveries and player auctions, and a
question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Glossary:
- win_ratio: matches won / matches played in a season, 2 decimals.
- trophies: seasons in which the team won the final (the season's last match).
- conversion_ratio: matches won after winning the toss / toss wins.
- Defended: won batting first. Chased: won batting second.
- strike_rate: runs per 100 balls faced. economy: runs conceded per over.
- amount_pct_change: change in auction price since the player's previous appearance, in percent.
- Empty cells are undefined values (zero denominator or first appearance).`

// defaultAnalyzeTables are sent when --tables is not given. Missing ones are
// skipped.
var defaultAnalyzeTables = []string{
	"team_summary", "champions", "toss_conversion", "toss_impact", "result_types",
	"batters", "bowlers", "venues", "top_rises", "top_crashes", "team_spend",
}

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeTables []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
	Long: `Compute the league tables from the configured datasets and ask a question
about them. Only the selected tables are sent, as JSON; the answer streams
to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringSliceVar(&analyzeTables, "tables", nil, "tables to send (default: league overview tables)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	names := analyzeTables
	if len(names) == 0 {
		names = defaultAnalyzeTables
	}
	return withData(cmd, configuredDatasets(), func(ctx context.Context, r *pipeline.Runner, d *pipeline.Data) error {
		tables, err := r.Tables(ctx, d)
		if err != nil {
			return fmt.Errorf("build tables: %w", err)
		}
		dataJSON, err := tablesJSON(tables, names)
		if err != nil {
			return err
		}
		return callAnthropic(ctx, cmd.OutOrStdout(), analyzeAPIKey, analyzeModel, dataJSON, question)
	})
}

// tableData is the JSON shape of one table sent to the model.
type tableData struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// tablesJSON encodes the named tables keyed by name. Names with no matching
// table are skipped; it is an error if none match.
func tablesJSON(tables []*report.Table, names []string) (string, error) {
	out := make(map[string]tableData, len(names))
	for _, name := range names {
		t := pipeline.Find(tables, strings.TrimSpace(name))
		if t == nil {
			continue
		}
		out[t.Name] = tableData{Title: t.Title, Columns: t.Columns, Rows: t.Rows}
	}
	if len(out) == 0 {
		return "", fmt.Errorf("none of the tables %v are available", names)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tables: %w", err)
	}
	return string(data), nil
}

func callAnthropic(ctx context.Context, w io.Writer, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(w, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(w, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
