package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"setupam/internal/build"
	"setupam/internal/config"
	"setupam/internal/corpus"
	"setupam/internal/logging"
)

type buildFlags struct {
	source     string
	target     string
	ratio      float64
	seed       int64
	format     string
	verify     bool
	noLedger   bool
	noProgress bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build <model>",
		Short: "Compile speaker directories into <target>/<model>",
		Long: "Discovers every speaker directory under the source root, routes a share of them\n" +
			"to the test split and writes wav/<speaker>/<utterance>.wav plus the fileids and\n" +
			"transcription manifests of both splits into <target>/<model>.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyBuildFlags(*base, cmd, flags)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			req := build.Request{
				Corpus: args[0],
				Config: cfg,
				Logger: logger.Logger,
			}
			var progress *copyProgress
			if !flags.noProgress && isTerminal(cmd.OutOrStdout()) {
				progress = newCopyProgress(cmd.ErrOrStderr())
				req.Progress = progress
			}

			result, err := build.Run(runCtx, req)
			if progress != nil {
				progress.Finish()
			}
			if err != nil {
				if result != nil && result.RunID != "" && cfg.Ledger.Enabled {
					logging.WarnWithContext(logger.Logger, "run recorded as failed", "build_failed",
						logging.String(logging.FieldRunID, result.RunID),
						logging.String(logging.FieldErrorHint, "inspect with `setupam history show "+shortID(result.RunID)+"`"),
					)
				}
				return err
			}
			printBuildResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Directory holding one subdirectory per speaker")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Directory the corpus is created in")
	cmd.Flags().Float64VarP(&flags.ratio, "ratio", "r", 0, "Share of speakers routed to the test split")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "Shuffle seed (0 derives one from the clock)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Audio file extension to collect")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Hash both sides of every audio copy")
	cmd.Flags().BoolVar(&flags.noLedger, "no-ledger", false, "Do not record the run in the ledger")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

// applyBuildFlags returns a copy of cfg with explicitly set flags applied.
func applyBuildFlags(cfg config.Config, cmd *cobra.Command, flags buildFlags) (*config.Config, error) {
	changed := cmd.Flags().Changed
	var err error
	if changed("source") {
		if cfg.Paths.SourceDir, err = config.ExpandPath(flags.source); err != nil {
			return nil, fmt.Errorf("--source: %w", err)
		}
	}
	if changed("target") {
		if cfg.Paths.TargetDir, err = config.ExpandPath(flags.target); err != nil {
			return nil, fmt.Errorf("--target: %w", err)
		}
	}
	if changed("ratio") {
		cfg.Corpus.TestRatio = flags.ratio
	}
	if changed("seed") {
		cfg.Corpus.Seed = flags.seed
	}
	if changed("format") {
		cfg.Corpus.AudioFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(flags.format), "."))
	}
	if changed("verify") {
		cfg.Corpus.VerifyCopies = flags.verify
	}
	if flags.noLedger {
		cfg.Ledger.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func printBuildResult(out io.Writer, result *build.Result) {
	rows := [][]string{
		splitRow(result.Train),
		splitRow(result.Test),
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Split", "Speakers", "Utterances", "Skipped", "File IDs", "Transcription"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "Corpus:  %s\n", result.CorpusDir)
	fmt.Fprintf(out, "Run:     %s\n", result.RunID)
	fmt.Fprintf(out, "Seed:    %d\n", result.Seed)
	fmt.Fprintf(out, "Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))
}

func splitRow(s corpus.Summary) []string {
	return []string{
		s.Suffix,
		strconv.Itoa(len(s.Speakers)),
		humanize.Comma(int64(s.Utterances)),
		humanize.Comma(int64(s.Skipped)),
		s.FileIDsPath,
		s.TranscriptionPath,
	}
}
