package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// viper keys controlling log output.
const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags and config are parsed.
func InitDefault() {
	log.Logger = zerolog.New(consoleWriter(os.Stderr, false)).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}

// Init configures the global logger from viper settings. A nil writer
// defaults to stderr.
func Init(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString(LevelKey)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if viper.GetString(FormatKey) == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
		return
	}

	noColor := viper.GetBool(NoColorKey)
	log.Logger = zerolog.New(consoleWriter(w, noColor)).
		With().Timestamp().Logger().
		Level(level)
}

// InitLambda configures structured JSON output for Lambda entry points, where
// log lines are shipped to the platform log group as-is.
func InitLambda() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}
