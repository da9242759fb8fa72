package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/esp"
	"github.com/modforge/espdec/internal/export"
)

func dumpCmd() *cli.Command {
	var outDir string

	return &cli.Command{
		Name:  "dump",
		Usage: "Write summary, overrides and per-type CSV exports for a plugin",
		Flags: append(append(pluginFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Value:       ".",
				Destination: &outDir,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyCommonConfig(cmd, cfg)
			applyDumpConfig(cmd, cfg, &outDir)
			if pluginPath == "" {
				return fmt.Errorf("no plugin file given, use --file")
			}

			log := newLogger()
			p, err := esp.Open(pluginPath, decodeOpts()...)
			if err != nil {
				return fmt.Errorf("open %s: %w", pluginPath, err)
			}
			defer p.Close()

			if err := export.DumpAll(p, outDir); err != nil {
				return fmt.Errorf("dump %s: %w", p.Name, err)
			}
			log.Info("dump complete", "file", p.Name, "out", outDir)
			return nil
		},
	}
}
