package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/analysis"
	"github.com/modforge/espdec/internal/esp"
	"github.com/modforge/espdec/internal/export"
)

func summaryCmd() *cli.Command {
	var showOverrides bool

	return &cli.Command{
		Name:  "summary",
		Usage: "Print a plugin's header info, record counts and warnings",
		Flags: append(append(pluginFlags(), loggingFlags()...),
			&cli.BoolFlag{
				Name:        "overrides",
				Usage:       "also list overridden vs new records per master",
				Destination: &showOverrides,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyCommonConfig(cmd, cfg)
			if pluginPath == "" {
				return fmt.Errorf("no plugin file given, use --file")
			}

			log := newLogger()
			p, err := esp.Open(pluginPath, decodeOpts()...)
			if err != nil {
				return fmt.Errorf("open %s: %w", pluginPath, err)
			}
			defer p.Close()

			log.Debug("decoded plugin",
				"file", p.Name,
				"groups", p.GroupCount,
				"records", p.DecodedRecords,
				"warnings", len(p.Warnings))

			fmt.Print(export.Summary(p))
			if showOverrides {
				fmt.Println()
				report := analysis.Overrides(p)
				if err := export.OverridesText(os.Stdout, p, report); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
