package main

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"setupam/internal/config"
	"setupam/internal/logging"
)

type commandContext struct {
	configFlag *string
	logFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logFlag:    logFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logLevel() string {
	if c.logFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.logFlag)
}

// newLogger builds the command logger. Log output goes to errOut so that
// tables and summaries on stdout stay clean.
func (c *commandContext) newLogger(cfg *config.Config, errOut io.Writer) (*logging.Logger, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	override := c.logLevel()
	if override != "" {
		if _, err := logging.ParseLevel(override); err != nil {
			return nil, err
		}
	}
	return logging.NewFromConfig(cfg, override, errOut)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
