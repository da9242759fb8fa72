package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/batch"
	"github.com/modforge/espdec/internal/export"
)

func batchCmd() *cli.Command {
	var (
		root    string
		workers int64
		asJSON  bool
	)

	return &cli.Command{
		Name:  "batch",
		Usage: "Decode every plugin under a directory tree",
		Flags: append(append(typeFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory to scan",
				Value:       ".",
				Destination: &root,
			},
			&cli.Int64Flag{
				Name:        "workers",
				Aliases:     []string{"w"},
				Usage:       "decode workers (0 means one per CPU)",
				Destination: &workers,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit results as JSON",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyCommonConfig(cmd, cfg)
			applyBatchConfig(cmd, cfg, &workers)

			log := newLogger()
			results, err := batch.Scan(ctx, root, int(workers), decodeOpts()...)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			log.Debug("scan complete", "dir", root, "plugins", len(results))

			if asJSON {
				return export.WriteJSON(os.Stdout, results)
			}
			for _, r := range results {
				if r.Err != nil {
					fmt.Printf("%-32s ERROR: %v\n", r.File, r.Err)
					continue
				}
				note := ""
				if r.Incomplete {
					note = " (incomplete)"
				}
				fmt.Printf("%-32s records=%d groups=%d masters=%d warnings=%d%s\n",
					r.File, r.RecordCount, r.GroupCount, len(r.Masters), r.WarningCount, note)
			}
			return nil
		},
	}
}
