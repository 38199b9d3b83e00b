package config

import (
	"errors"
	"fmt"
	"strings"

	"setupam/internal/textenc"
	"setupam/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if !textutil.IsSafeName(c.Corpus.AudioFormat) || strings.ContainsAny(c.Corpus.AudioFormat, "*?[") {
		return fmt.Errorf("corpus.audio_format %q is not a plain file extension", c.Corpus.AudioFormat)
	}
	if !textutil.IsSafeName(c.Corpus.PromptExtension) || strings.ContainsAny(c.Corpus.PromptExtension, "*?[") {
		return fmt.Errorf("corpus.prompt_extension %q is not a plain file extension", c.Corpus.PromptExtension)
	}
	if c.Corpus.TestRatio < 0 || c.Corpus.TestRatio >= 1 {
		return errors.New("corpus.test_ratio must be in [0, 1)")
	}
	if _, err := textenc.NewEncoder(c.Corpus.ManifestEncoding); err != nil {
		return fmt.Errorf("corpus.manifest_encoding: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
