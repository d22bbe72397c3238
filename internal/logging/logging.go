// Package logging builds the hclog loggers used across finsight.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/config"
)

// EnvLevel overrides the level when the config does not set one.
const EnvLevel = "FINSIGHT_LOG_LEVEL"

// New returns a named logger writing to stderr. The level comes from cfg,
// then EnvLevel, then defaults to INFO.
func New(cfg *config.Config, name string) hclog.Logger {
	return NewWithOutput(cfg, name, os.Stderr)
}

// NewWithOutput is New with an explicit sink.
func NewWithOutput(cfg *config.Config, name string, out io.Writer) hclog.Logger {
	var level hclog.Level
	if cfg != nil && cfg.LogLevel != "" {
		level = ParseLevel(cfg.LogLevel)
	} else {
		level = ParseLevel(os.Getenv(EnvLevel))
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: out,
		Level:  level,
	})
}

// ParseLevel maps a level name to an hclog level, defaulting to Info.
func ParseLevel(s string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
