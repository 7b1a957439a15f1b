// Package config holds the run configuration: dataset locations, output
// directory, leaderboard thresholds and team aliases.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// Matches, Deliveries and Auction are the input CSV paths. An empty path
	// disables the commands that need that dataset.
	Matches    string `koanf:"matches"`
	Deliveries string `koanf:"deliveries"`
	Auction    string `koanf:"auction"`

	// OutDir is where export writes its CSV tables and manifest.
	OutDir string `koanf:"out_dir"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MinMatches drops teams with fewer matches from the season summary.
	MinMatches int `koanf:"min_matches"`

	// MinBallsFaced and MinOvers gate the career leaderboards.
	MinBallsFaced int `koanf:"min_balls_faced"`
	MinOvers      int `koanf:"min_overs"`

	// MinOversInWins gates the economy-in-wins leaderboard.
	MinOversInWins int `koanf:"min_overs_in_wins"`

	// PartnershipMinRuns keeps batting pairs with strictly more runs.
	PartnershipMinRuns int `koanf:"partnership_min_runs"`

	// TopN caps every ranked table.
	TopN int `koanf:"top_n"`

	// TeamAliases is merged over the built-in franchise alias table.
	TeamAliases map[string]string `koanf:"team_aliases"`

	// MetricsFile, when set, receives run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Matches:            "datasets/matches.csv",
		Deliveries:         "datasets/deliveries.csv",
		Auction:            "datasets/auction.csv",
		OutDir:             "out",
		LogLevel:           "info",
		MinMatches:         50,
		MinBallsFaced:      200,
		MinOvers:           100,
		MinOversInWins:     30,
		PartnershipMinRuns: 400,
		TopN:               10,
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir must not be empty", ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	}
	for name, v := range map[string]int{
		"min_matches":          c.MinMatches,
		"min_balls_faced":      c.MinBallsFaced,
		"min_overs":            c.MinOvers,
		"min_overs_in_wins":    c.MinOversInWins,
		"partnership_min_runs": c.PartnershipMinRuns,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, name, v)
		}
	}
	return nil
}
