package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCorpus()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		c.Paths.TargetDir = defaultTargetDir
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorpus() {
	c.Corpus.AudioFormat = trimExt(c.Corpus.AudioFormat)
	if c.Corpus.AudioFormat == "" {
		c.Corpus.AudioFormat = defaultAudioFormat
	}
	c.Corpus.PromptExtension = trimExt(c.Corpus.PromptExtension)
	if c.Corpus.PromptExtension == "" {
		c.Corpus.PromptExtension = defaultPromptExtension
	}
	c.Corpus.AudioSubdir = strings.TrimSpace(c.Corpus.AudioSubdir)
	c.Corpus.PromptDir = strings.TrimSpace(c.Corpus.PromptDir)
	c.Corpus.MetadataFile = strings.TrimSpace(c.Corpus.MetadataFile)
	if c.Corpus.MetadataFile == "" {
		c.Corpus.MetadataFile = defaultMetadataFile
	}
	if len(c.Corpus.PromptCandidates) > 0 {
		candidates := make([]string, 0, len(c.Corpus.PromptCandidates))
		seen := make(map[string]struct{}, len(c.Corpus.PromptCandidates))
		for _, candidate := range c.Corpus.PromptCandidates {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			candidates = append(candidates, candidate)
		}
		c.Corpus.PromptCandidates = candidates
	}
	c.Corpus.ManifestEncoding = strings.ToLower(strings.TrimSpace(c.Corpus.ManifestEncoding))
	if c.Corpus.ManifestEncoding == "" {
		c.Corpus.ManifestEncoding = defaultManifestEncoding
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
}

func trimExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
