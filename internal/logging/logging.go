package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Options control the global zerolog setup.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "console" for human output or "json" for structured lines.
	Format string

	// NoColor disables color in console format.
	NoColor bool
}

// InitDefault installs a console logger at info level. Used before flags and
// config are parsed.
func InitDefault() {
	Init(nil)
}

// Init configures the global logger. A nil opts reads level/format from the
// bound viper keys (flags or DOCKGATE_* environment).
func Init(opts *Options) {
	if opts == nil {
		opts = &Options{
			Level:   viper.GetString("log.level"),
			Format:  viper.GetString("log.format"),
			NoColor: viper.GetBool("log.no_color"),
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if opts.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}).With().Timestamp().Logger()
}
