// Package logging provides structured logging for asnmap using zerolog.
// Console output is used on terminals and JSON everywhere else.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("source", "ripe").Int("entries", n).Msg("Parsed registry")
//
//	ctx := logging.WithSource(ctx, "arin")
//	logging.FromContext(ctx).Debug().Int("skipped_lines", s.Skipped).Msg("Skipped malformed lines")
//
// The default logger reads ASNMAP_LOG_LEVEL, ASNMAP_LOG_FORMAT,
// ASNMAP_LOG_OUTPUT and ASNMAP_DEBUG, falling back to the unprefixed
// LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and DEBUG.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLevel   = "ASNMAP_LOG_LEVEL"
	EnvFormat  = "ASNMAP_LOG_FORMAT"
	EnvOutput  = "ASNMAP_LOG_OUTPUT"
	EnvDebug   = "ASNMAP_DEBUG"
	EnvNoColor = "ASNMAP_NO_COLOR"
)

var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(ConfigFromEnv())
}

// ConfigFromEnv builds a Config from the environment.
// Prefixed variables win over the generic ones.
func ConfigFromEnv() *Config {
	return &Config{
		Level:      envLevel(),
		Format:     firstEnv("auto", EnvFormat, "LOG_FORMAT"),
		Output:     firstEnv("stderr", EnvOutput, "LOG_OUTPUT"),
		TimeFormat: firstEnv("kitchen", "ASNMAP_LOG_TIME_FORMAT", "LOG_TIME_FORMAT"),
		NoColor:    firstEnv("", EnvNoColor, "NO_COLOR") != "",
		AddCaller:  firstEnv("", "ASNMAP_LOG_CALLER", "LOG_CALLER") == "true",
		Fields:     parseFields(firstEnv("", "ASNMAP_LOG_FIELDS", "LOG_FIELDS")),
	}
}

// envLevel returns the configured level name. A debug flag without an
// explicit level selects debug.
func envLevel() string {
	if level := firstEnv("", EnvLevel, "LOG_LEVEL"); level != "" {
		return level
	}
	if firstEnv("", EnvDebug, "DEBUG") != "" {
		return "debug"
	}
	return "info"
}

// firstEnv returns the first non-empty variable among names, or def.
func firstEnv(def string, names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return def
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Err starts an error event for err on the default logger.
func Err(err error) *zerolog.Event {
	return defaultLogger.Err(err)
}
