package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/analysis"
	"github.com/modforge/espdec/internal/esp"
	"github.com/modforge/espdec/internal/export"
)

func exportCmd() *cli.Command {
	var (
		table   string
		format  string
		outPath string
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Export one record table as CSV or JSON",
		Flags: append(append(pluginFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "table",
				Usage:       "table to export: weapons, ammo, armor, keywords, perks, records, overrides, or a record signature (e.g. MISC)",
				Value:       "records",
				Destination: &table,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (csv, json)",
				Value:       "csv",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (default stdout)",
				Destination: &outPath,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyCommonConfig(cmd, cfg)
			if pluginPath == "" {
				return fmt.Errorf("no plugin file given, use --file")
			}

			p, err := esp.Open(pluginPath, decodeOpts()...)
			if err != nil {
				return fmt.Errorf("open %s: %w", pluginPath, err)
			}
			defer p.Close()

			out := io.Writer(os.Stdout)
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return writeTable(out, p, table, format)
		},
	}
}

func writeTable(w io.Writer, p *esp.Plugin, table, format string) error {
	asJSON := false
	switch format {
	case "csv":
	case "json":
		asJSON = true
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	switch strings.ToLower(table) {
	case "weapons":
		rows := analysis.Weapons(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Weapons(w, rows)
	case "ammo":
		rows := analysis.AmmoRecords(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Ammo(w, rows)
	case "armor":
		rows := analysis.ArmorRecords(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Armor(w, rows)
	case "keywords":
		rows := analysis.Keywords(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Keywords(w, rows)
	case "perks":
		rows := analysis.Perks(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Perks(w, rows)
	case "records":
		rows := analysis.AllRecords(p)
		if asJSON {
			return export.WriteJSON(w, rows)
		}
		return export.Records(w, rows)
	case "overrides":
		report := analysis.Overrides(p)
		if asJSON {
			return export.WriteJSON(w, report)
		}
		return export.OverridesText(w, p, report)
	}

	// Anything else is treated as a raw record signature.
	sig := strings.ToUpper(table)
	if len(sig) != 4 {
		return fmt.Errorf("unknown table %q", table)
	}
	rows := analysis.Generic(p, sig)
	if asJSON {
		return export.WriteJSON(w, rows)
	}
	return export.Records(w, rows)
}
