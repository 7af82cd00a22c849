// Package cmd implements the mwr command line application, which computes
// money-weighted returns from statement files.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/performance/irr"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Commands is the list of subcommands of the application.
var Commands = []subcommands.Command{
	&irrCmd{},
	&ratesCmd{},
	&topicCmd{},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "mwr.toml", "Path to the configuration file (TOML). Missing file means defaults.")
var logLevel = flag.String("log", "", "Log level (debug, info, warn, error). Overrides the configuration file.")

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// printMarkdown renders markdown for the terminal, or prints it as is if it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown")
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// newLogger returns a console logger writing to w.
func newLogger(level string, w io.Writer) *log.Logger {
	var lvl log.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = log.DebugLevel
	case "warn":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return &log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{Writer: w},
	}
}

// setup loads the configuration and installs the default logger.
func setup() (*Config, error) {
	config, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		config.Logging.Level = *logLevel
	}
	log.DefaultLogger = *newLogger(config.Logging.Level, os.Stderr)
	irr.DefaultSolver.Logger = &log.DefaultLogger
	return config, nil
}
