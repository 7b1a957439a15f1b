package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/ipl-stats/internal/config"
)

var configEnvVars = []string{
	"IPLSTATS_CONFIG", "IPLSTATS_TOP_N", "IPLSTATS_MIN_MATCHES", "IPLSTATS_OUT_DIR", "IPLSTATS_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iplstats.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 50)
				convey.So(cfg.MinBallsFaced, convey.ShouldEqual, 200)
				convey.So(cfg.MinOvers, convey.ShouldEqual, 100)
				convey.So(cfg.MinOversInWins, convey.ShouldEqual, 30)
				convey.So(cfg.PartnershipMinRuns, convey.ShouldEqual, 400)
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.OutDir, convey.ShouldEqual, "out")
			})
		})

		convey.Convey("When loading from a YAML file", func() {
			path := writeConfigFile(t, `
matches: /data/matches.csv
out_dir: /tmp/ipl
min_matches: 20
team_aliases:
  Gujarat Lions: Gujarat Titans
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then the file overrides the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Matches, convey.ShouldEqual, "/data/matches.csv")
				convey.So(cfg.OutDir, convey.ShouldEqual, "/tmp/ipl")
				convey.So(cfg.MinMatches, convey.ShouldEqual, 20)
				convey.So(cfg.TeamAliases["Gujarat Lions"], convey.ShouldEqual, "Gujarat Titans")
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When the file comes from IPLSTATS_CONFIG and env overrides it", func() {
			path := writeConfigFile(t, "top_n: 5\nmin_matches: 20\n")
			_ = os.Setenv("IPLSTATS_CONFIG", path)
			_ = os.Setenv("IPLSTATS_TOP_N", "3")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			_ = os.Setenv("IPLSTATS_TOP_N", "0")

			_, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
