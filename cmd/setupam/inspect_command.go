package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"setupam/internal/build"
	"setupam/internal/config"
	"setupam/internal/language"
	"setupam/internal/logging"
	"setupam/internal/speaker"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var format string
	var showUnmatched bool

	cmd := &cobra.Command{
		Use:   "inspect <speakerDir>",
		Short: "Show how a speaker directory would be compiled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()

			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			opts := build.SpeakerOptions(cfg)
			opts.Root = root
			if strings.TrimSpace(format) != "" {
				opts.AudioFormat = strings.TrimPrefix(strings.TrimSpace(format), ".")
			}
			opts.Logger = logging.NewComponentLogger(logger.Logger, "inspect")

			spk, err := speaker.Build(0, opts)
			if err != nil {
				return err
			}
			printSpeaker(cmd.OutOrStdout(), spk, showUnmatched)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Audio file extension to collect")
	cmd.Flags().BoolVar(&showUnmatched, "unmatched", false, "List audio files without a transcript")
	return cmd
}

func printSpeaker(out io.Writer, spk *speaker.Speaker, showUnmatched bool) {
	source := spk.Prompts.Source()
	unmatched := spk.Unmatched()
	pairs := [][2]string{
		{"Speaker", spk.Name},
		{"Root", spk.Root},
		{"Audio directory", spk.Audio.Dir()},
		{"Audio files", strconv.Itoa(spk.Audio.Len())},
		{"Prompt source", fmt.Sprintf("%s (%s)", source.String(), source.Kind)},
		{"Prompts", strconv.Itoa(spk.Prompts.Len())},
		{"Matched", strconv.Itoa(spk.Matched())},
		{"Unmatched", strconv.Itoa(len(unmatched))},
	}

	keys := make([]string, 0, len(spk.Metadata))
	for key := range spk.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := spk.Metadata[key]
		if key == speaker.FieldLanguage && spk.Metadata.LanguageCode() != "" {
			value = fmt.Sprintf("%s (%s)", value, language.DisplayName(value))
		}
		pairs = append(pairs, [2]string{metadataLabel(key), value})
	}
	fmt.Fprintln(out, renderPairs(pairs))

	if showUnmatched && len(unmatched) > 0 {
		fmt.Fprintln(out, "Audio without transcript:")
		for _, key := range unmatched {
			fmt.Fprintf(out, "  %s\n", key)
		}
	}
}

func metadataLabel(field string) string {
	switch field {
	case speaker.FieldUserName:
		return "User name"
	case speaker.FieldGender:
		return "Gender"
	case speaker.FieldAge:
		return "Age range"
	case speaker.FieldLanguage:
		return "Language"
	case speaker.FieldDialect:
		return "Dialect"
	default:
		return field
	}
}
