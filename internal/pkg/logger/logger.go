// Package logger configures the process-wide zerolog logger and exposes shortcuts to it
// for code that has no injected logger, such as repositories and middleware.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Formats accepted by Config.Format
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config mirrors the logging section of the service configuration
type Config struct {
	Level   string
	Format  string
	Service string
	Output  io.Writer
}

// ParseLevel maps a configured level name to zerolog. Empty and unknown names mean info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Configure replaces the global logger and returns it.
func Configure(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	if strings.EqualFold(cfg.Format, FormatText) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	log.Logger = ctx.Logger()
	return log.Logger
}

func Debug() *zerolog.Event { return log.Logger.Debug() }

func Info() *zerolog.Event { return log.Logger.Info() }

func Warn() *zerolog.Event { return log.Logger.Warn() }

func Error() *zerolog.Event { return log.Logger.Error() }

func init() {
	Configure(Config{Format: FormatText})
}
