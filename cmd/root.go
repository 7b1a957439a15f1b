package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/config"
	"github.com/pable/ipl-stats/internal/logger"
)

var (
	cfgPath        string
	flagMatches    string
	flagDeliveries string
	flagAuction    string
	flagLogLevel   string

	// cfg is resolved once per invocation in PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "iplstats",
	Short: "IPL match, delivery and auction statistics",
	Long: `Load IPL match results, ball-by-ball deliveries and player auction data,
then compute team, player and valuation tables for the terminal or CSV export.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "YAML config file (falls back to $IPLSTATS_CONFIG)")
	pf.StringVar(&flagMatches, "matches", "", "matches CSV path")
	pf.StringVar(&flagDeliveries, "deliveries", "", "deliveries CSV path")
	pf.StringVar(&flagAuction, "auction", "", "auction CSV path")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(winRatioCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(tossCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(valuationCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(battingCmd)
	rootCmd.AddCommand(bowlingCmd)
	rootCmd.AddCommand(venuesCmd)
	rootCmd.AddCommand(spendingCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig layers explicitly set flags over file and env configuration.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("matches") {
		c.Matches = flagMatches
	}
	if flags.Changed("deliveries") {
		c.Deliveries = flagDeliveries
	}
	if flags.Changed("auction") {
		c.Auction = flagAuction
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := logger.Init(c.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg = c
	return nil
}
