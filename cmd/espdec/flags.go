package main

import (
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/esp"
	"github.com/modforge/espdec/internal/logger"
)

var (
	pluginPath string
	typesCSV   string
	logLevel   string
	logFormat  string
)

func pluginFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "path to plugin file (.esp, .esm, .esl)",
			Destination: &pluginPath,
		},
	}, typeFlags()...)
}

func typeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "types",
			Aliases:     []string{"t"},
			Usage:       "comma-separated record types to decode (e.g. WEAP,AMMO); empty decodes everything",
			Destination: &typesCSV,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Text(os.Stderr, level)
}

// decodeOpts turns the --types flag into decode options.
func decodeOpts() []esp.Option {
	types := splitTypes(typesCSV)
	if len(types) == 0 {
		return nil
	}
	return []esp.Option{esp.WithTypes(types...)}
}

func splitTypes(csv string) []string {
	var types []string
	for _, t := range strings.Split(csv, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}
