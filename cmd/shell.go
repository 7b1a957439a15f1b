package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/ipl-stats/internal/aggregator"
	"github.com/pable/ipl-stats/internal/pipeline"
	"github.com/pable/ipl-stats/internal/report"
	"github.com/pable/ipl-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Load the configured datasets once and keep them in memory for repeated
queries. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// session is the state shared by REPL commands.
type session struct {
	out    io.Writer
	data   *pipeline.Data
	tables []*report.Table
	db     *storage.DB
}

func runShell(cmd *cobra.Command, _ []string) error {
	return withData(cmd, configuredDatasets(), func(ctx context.Context, r *pipeline.Runner, d *pipeline.Data) error {
		tables, err := r.Tables(ctx, d)
		if err != nil {
			return fmt.Errorf("build tables: %w", err)
		}
		db, err := r.OpenDB(ctx, d)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		s := &session{out: cmd.OutOrStdout(), data: d, tables: tables, db: db}
		return s.loop(cmd.InOrStdin())
	})
}

func (s *session) loop(in io.Reader) error {
	cGreeting.Fprintln(s.out, "iplstats shell")
	cMuted.Fprintf(s.out, "%d matches, %d deliveries, %d auction rows loaded; type 'help' or 'exit'\n\n",
		len(s.data.Matches), len(s.data.Deliveries), len(s.data.Auctions))

	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Fprint(s.out, "iplstats")
		cMuted.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			s.help()
		case "tables":
			s.list()
		case "show":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: show <table>")
				continue
			}
			s.show(rest)
		case "player":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			s.player(rest)
		case "sql":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			s.sql(rest)
		case "counts":
			s.counts()
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func (s *session) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"tables", "list computed tables"},
		{"show <table>", "print one table"},
		{"player <name>", "per-season batting and bowling"},
		{"sql <query>", "run SQL over matches, deliveries, auctions"},
		{"counts", "row counts of the SQL tables"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-18s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out)
}

func (s *session) list() {
	cHeader.Fprintf(s.out, "%-24s  %6s  %s\n", "TABLE", "ROWS", "TITLE")
	for _, t := range s.tables {
		fmt.Fprintf(s.out, "%-24s  %6d  %s\n", t.Name, len(t.Rows), t.Title)
	}
}

func (s *session) show(name string) {
	t := pipeline.Find(s.tables, name)
	if t == nil {
		cError.Fprintf(os.Stderr, "no table %q, see 'tables'\n", name)
		return
	}
	t.Print(s.out)
}

func (s *session) player(name string) {
	if len(s.data.Deliveries) == 0 {
		cWarn.Fprintln(os.Stderr, "no deliveries loaded")
		return
	}
	rows, err := aggregator.PlayerSeasons(s.data.Matches, s.data.Deliveries, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Fprintf(s.out, "no deliveries for %q\n", name)
		return
	}
	report.PlayerSeasons(name, rows).Print(s.out)
}

func (s *session) sql(query string) {
	cols, rows, err := s.db.QueryRaw(query, report.Missing)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Fprintln(s.out, "(no rows)")
		return
	}
	report.PrintRaw(s.out, cols, rows)
	cMuted.Fprintf(s.out, "(%d rows)\n", len(rows))
}

func (s *session) counts() {
	counts, err := s.db.Counts()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	for _, c := range counts {
		fmt.Fprintf(s.out, "%-12s %8d\n", c.Table, c.Rows)
	}
}
