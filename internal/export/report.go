package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modforge/espdec/internal/analysis"
	"github.com/modforge/espdec/internal/esp"
)

// Summary renders a human-readable overview of a decoded plugin.
func Summary(p *esp.Plugin) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nPlugin summary: %s\n%s\n", rule, p.Name, rule)
	fmt.Fprintf(&b, "File type: %s\n", fileType(p))
	fmt.Fprintf(&b, "Version: %g\n", p.Version)
	fmt.Fprintf(&b, "Localized: %v\n", p.IsLocalized)
	fmt.Fprintf(&b, "Author: %s\n", p.Author)
	fmt.Fprintf(&b, "Description: %s\n\n", truncate(p.Description, 100))

	fmt.Fprintf(&b, "Masters (%d):\n", len(p.Masters))
	for i, m := range p.Masters {
		fmt.Fprintf(&b, "  [%02X] %s\n", i, m)
	}
	fmt.Fprintf(&b, "  [%02X] %s (this file)\n\n", len(p.Masters), p.Name)

	fmt.Fprintf(&b, "Record statistics:\n")
	fmt.Fprintf(&b, "  Total groups: %d\n", p.GroupCount)
	fmt.Fprintf(&b, "  Total records: %d\n", p.DecodedRecords)
	fmt.Fprintf(&b, "  Compressed records: %d\n\n", p.CompressedCount)

	fmt.Fprintf(&b, "Records by type:\n")
	for _, tc := range sortedCounts(p.TypeCounts) {
		fmt.Fprintf(&b, "  %s: %d\n", tc.typ, tc.n)
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(p.Warnings))
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}
	if p.Incomplete {
		fmt.Fprintf(&b, "\nNOTE: file is truncated, decode is incomplete\n")
	}
	return b.String()
}

func fileType(p *esp.Plugin) string {
	switch {
	case p.IsESM:
		return "ESM"
	case p.IsESL:
		return "ESL"
	default:
		return "ESP"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type typeCount struct {
	typ string
	n   int
}

func sortedCounts(counts map[string]int) []typeCount {
	out := make([]typeCount, 0, len(counts))
	for typ, n := range counts {
		out = append(out, typeCount{typ, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].typ < out[j].typ
	})
	return out
}

// OverridesText writes the override partition as a readable report.
func OverridesText(w io.Writer, p *esp.Plugin, report analysis.OverrideReport) error {
	rule := strings.Repeat("=", 60)
	if _, err := fmt.Fprintf(w, "Override analysis: %s\n%s\n", p.Name, rule); err != nil {
		return err
	}

	masters := make([]string, 0, len(report.Overrides))
	for m := range report.Overrides {
		masters = append(masters, m)
	}
	sort.Strings(masters)
	for _, master := range masters {
		rows := report.Overrides[master]
		fmt.Fprintf(w, "\nOverrides from %s (%d records):\n%s\n", master, len(rows), strings.Repeat("-", 50))
		for _, r := range rows {
			fmt.Fprintf(w, "  [%s] %s | %s\n", r.Type, r.FormID, r.EditorID)
			if r.FullName != "" {
				fmt.Fprintf(w, "    Name: %s\n", r.FullName)
			}
			if len(r.Keywords) != 0 {
				fmt.Fprintf(w, "    Keywords: %s\n", strings.Join(r.Keywords, ", "))
			}
		}
	}

	fmt.Fprintf(w, "\n\nNew records in %s:\n%s\n", p.Name, rule)
	types := make([]string, 0, len(report.New))
	for typ := range report.New {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		rows := report.New[typ]
		fmt.Fprintf(w, "\n  %s (%d new records):\n", typ, len(rows))
		for _, r := range rows {
			fmt.Fprintf(w, "    %s | %s\n", r.FormID, r.EditorID)
			if r.FullName != "" {
				fmt.Fprintf(w, "      Name: %s\n", r.FullName)
			}
		}
	}
	return nil
}

// DumpAll writes the full dump directory for one plugin: summary text,
// per-type CSVs for the types that are present, the override report and
// a flat all-records CSV.
func DumpAll(p *esp.Plugin, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(p.Name, filepath.Ext(p.Name))

	if err := os.WriteFile(filepath.Join(dir, base+"_summary.txt"), []byte(Summary(p)), 0o644); err != nil {
		return err
	}

	if rows := analysis.Keywords(p); len(rows) > 0 {
		if err := writeFile(dir, base+"_keywords.csv", func(w io.Writer) error { return Keywords(w, rows) }); err != nil {
			return err
		}
	}
	if rows := analysis.Weapons(p); len(rows) > 0 {
		if err := writeFile(dir, base+"_weapons.csv", func(w io.Writer) error { return Weapons(w, rows) }); err != nil {
			return err
		}
	}
	if rows := analysis.AmmoRecords(p); len(rows) > 0 {
		if err := writeFile(dir, base+"_ammo.csv", func(w io.Writer) error { return Ammo(w, rows) }); err != nil {
			return err
		}
	}
	if rows := analysis.ArmorRecords(p); len(rows) > 0 {
		if err := writeFile(dir, base+"_armor.csv", func(w io.Writer) error { return Armor(w, rows) }); err != nil {
			return err
		}
	}
	if rows := analysis.Perks(p); len(rows) > 0 {
		if err := writeFile(dir, base+"_perks.csv", func(w io.Writer) error { return Perks(w, rows) }); err != nil {
			return err
		}
	}

	report := analysis.Overrides(p)
	if err := writeFile(dir, base+"_overrides.txt", func(w io.Writer) error {
		return OverridesText(w, p, report)
	}); err != nil {
		return err
	}

	return writeFile(dir, base+"_all_records.csv", func(w io.Writer) error {
		return Records(w, analysis.AllRecords(p))
	})
}

func writeFile(dir, name string, fn func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
