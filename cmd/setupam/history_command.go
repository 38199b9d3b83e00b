package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"setupam/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded corpus builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				printRuns(out, runs, shouldColorize(out))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var showUtterances bool

	cmd := &cobra.Command{
		Use:   "show <runID>",
		Short: "Show one run, optionally with every copied utterance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				run, err := store.FindRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printRun(out, run, shouldColorize(out))
				if !showUtterances {
					return nil
				}
				records, err := store.RunUtterances(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				printUtterances(out, records)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&showUtterances, "utterances", "u", false, "List every copied utterance")
	return cmd
}

func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Ledger.Enabled {
		return errors.New("run ledger is disabled (set ledger.enabled = true)")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printRuns(out io.Writer, runs []*ledger.Run, colorize bool) {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.Corpus,
			colorStatus(run.Status, colorize),
			humanize.Time(run.StartedAt),
			formatDuration(run),
			fmt.Sprintf("%d/%d", run.TrainSpeakers, run.TestSpeakers),
			humanize.Comma(int64(run.Utterances)),
			humanize.Comma(int64(run.Skipped)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Corpus", "Status", "Started", "Duration", "Speakers", "Utterances", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
}

func printRun(out io.Writer, run *ledger.Run, colorize bool) {
	pairs := [][2]string{
		{"ID", run.ID},
		{"Corpus", run.Corpus},
		{"Status", colorStatus(run.Status, colorize)},
		{"Source", run.SourceDir},
		{"Target", run.TargetDir},
		{"Test ratio", strconv.FormatFloat(run.TestRatio, 'g', -1, 64)},
		{"Seed", strconv.FormatInt(run.Seed, 10)},
		{"Started", run.StartedAt.Local().Format(time.DateTime)},
		{"Duration", formatDuration(run)},
		{"Train speakers", strconv.Itoa(run.TrainSpeakers)},
		{"Test speakers", strconv.Itoa(run.TestSpeakers)},
		{"Utterances", strconv.Itoa(run.Utterances)},
		{"Skipped", strconv.Itoa(run.Skipped)},
	}
	if run.ErrorMessage != "" {
		pairs = append(pairs,
			[2]string{"Error kind", run.ErrorKind},
			[2]string{"Error", run.ErrorMessage},
		)
	}
	fmt.Fprintln(out, renderPairs(pairs))
}

func printUtterances(out io.Writer, records []ledger.UtteranceRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No utterances recorded")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Split, r.UtteranceID, r.SourcePath, r.Transcript})
	}
	fmt.Fprintln(out, renderTable([]string{"Split", "Utterance", "Source", "Transcript"}, rows, nil))
}

func formatDuration(run *ledger.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.Duration().Round(time.Millisecond).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

