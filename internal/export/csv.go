// Package export serializes decoded plugins and their analyses to CSV,
// JSON and plain-text reports. No decoding logic lives here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/modforge/espdec/internal/analysis"
)

func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}

func joined(vals []string) string {
	return strings.Join(vals, " | ")
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Weapons writes one CSV row per weapon.
func Weapons(w io.Writer, rows []analysis.Weapon) error {
	header := []string{
		"form_id", "form_id_resolved", "editor_id", "full_name", "source",
		"is_override", "keywords", "keyword_formids", "flags",
		"anim_type", "speed", "reach", "min_range", "max_range", "stagger",
		"value", "weight", "template", "instance_naming",
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		stats := r.Stats
		if stats == nil {
			stats = &analysis.WeaponStats{}
		}
		table = append(table, []string{
			r.FormID, r.FormIDResolved, r.EditorID, r.FullName, r.Source,
			strconv.FormatBool(r.IsOverride), joined(r.Keywords), joined(r.KeywordFormIDs), r.Flags,
			strconv.FormatUint(uint64(stats.AnimationType), 10),
			ftoa(stats.Speed), ftoa(stats.Reach), ftoa(stats.MinRange), ftoa(stats.MaxRange), ftoa(stats.Stagger),
			strconv.FormatInt(int64(r.Value), 10), ftoa(r.Weight), r.Template, r.InstanceNaming,
		})
	}
	return writeTable(w, header, table)
}

// Ammo writes one CSV row per ammo record.
func Ammo(w io.Writer, rows []analysis.Ammo) error {
	header := []string{
		"form_id", "form_id_resolved", "editor_id", "full_name", "source",
		"is_override", "keywords", "projectile", "damage", "value", "weight",
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		data := r.Data
		if data == nil {
			data = &analysis.AmmoData{}
		}
		table = append(table, []string{
			r.FormID, r.FormIDResolved, r.EditorID, r.FullName, r.Source,
			strconv.FormatBool(r.IsOverride), joined(r.Keywords),
			data.Projectile, ftoa(data.Damage),
			strconv.FormatInt(int64(data.Value), 10), ftoa(data.Weight),
		})
	}
	return writeTable(w, header, table)
}

// Armor writes one CSV row per armor record.
func Armor(w io.Writer, rows []analysis.Armor) error {
	header := []string{
		"form_id", "form_id_resolved", "editor_id", "full_name", "source",
		"is_override", "keywords", "armor_rating", "value", "weight",
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.FormID, r.FormIDResolved, r.EditorID, r.FullName, r.Source,
			strconv.FormatBool(r.IsOverride), joined(r.Keywords),
			ftoa(r.ArmorRating), strconv.FormatInt(int64(r.Value), 10), ftoa(r.Weight),
		})
	}
	return writeTable(w, header, table)
}

// Keywords writes one CSV row per keyword record.
func Keywords(w io.Writer, rows []analysis.Keyword) error {
	header := []string{"form_id", "form_id_resolved", "editor_id", "master_index", "is_new", "source"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.FormID, r.Resolved, r.EditorID,
			strconv.Itoa(r.MasterIndex), strconv.FormatBool(r.IsNew), r.Source,
		})
	}
	return writeTable(w, header, table)
}

// Perks writes one CSV row per perk record.
func Perks(w io.Writer, rows []analysis.Perk) error {
	header := []string{
		"form_id", "form_id_resolved", "editor_id", "full_name", "source",
		"is_override", "is_trait", "level", "num_ranks", "playable", "hidden",
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		data := r.Data
		if data == nil {
			data = &analysis.PerkData{}
		}
		table = append(table, []string{
			r.FormID, r.FormIDResolved, r.EditorID, r.FullName, r.Source,
			strconv.FormatBool(r.IsOverride),
			fmt.Sprint(data.IsTrait), fmt.Sprint(data.Level), fmt.Sprint(data.NumRanks),
			fmt.Sprint(data.Playable), fmt.Sprint(data.Hidden),
		})
	}
	return writeTable(w, header, table)
}

// Records writes the generic per-record summary rows.
func Records(w io.Writer, rows []analysis.RecordSummary) error {
	header := []string{"type", "form_id", "form_id_resolved", "editor_id", "full_name", "source", "keywords"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Type, r.FormID, r.Resolved, r.EditorID, r.FullName, r.Source, joined(r.Keywords),
		})
	}
	return writeTable(w, header, table)
}
