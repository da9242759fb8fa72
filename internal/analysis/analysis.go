// Package analysis derives typed, export-ready views from a decoded
// plugin: weapon/ammo/armor stats, keyword and perk listings, and the
// override-versus-new partition. Everything here is a pure function of
// the decoded record tree.
package analysis

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/modforge/espdec/internal/esp"
)

// RecordInfo carries the identity fields shared by every analysis row.
type RecordInfo struct {
	FormID         string   `json:"form_id"`
	FormIDResolved string   `json:"form_id_resolved"`
	EditorID       string   `json:"editor_id"`
	FullName       string   `json:"full_name,omitempty"`
	MasterIndex    int      `json:"master_index"`
	IsOverride     bool     `json:"is_override"`
	Source         string   `json:"source"`
	Keywords       []string `json:"keywords,omitempty"`
	KeywordFormIDs []string `json:"keyword_formids,omitempty"`
}

func info(p *esp.Plugin, rec *esp.Record) RecordInfo {
	ri := RecordInfo{
		FormID:         rec.FormID.Hex(),
		FormIDResolved: p.ResolveFormIDString(rec.FormID),
		EditorID:       rec.EditorID,
		FullName:       rec.FullName,
		MasterIndex:    rec.MasterIndex(),
		IsOverride:     rec.MasterIndex() < len(p.Masters),
	}
	if ri.IsOverride {
		ri.Source = p.Masters[rec.MasterIndex()]
	} else {
		ri.Source = p.Name
	}
	for _, kw := range rec.Keywords {
		ri.Keywords = append(ri.Keywords, p.ResolveName(kw))
		ri.KeywordFormIDs = append(ri.KeywordFormIDs, kw.Hex())
	}
	return ri
}

// RecordSummary is the generic row used for record types without a
// dedicated analysis.
type RecordSummary struct {
	Type     string   `json:"type"`
	FormID   string   `json:"form_id"`
	Resolved string   `json:"form_id_resolved"`
	EditorID string   `json:"editor_id"`
	FullName string   `json:"full_name,omitempty"`
	Source   string   `json:"source"`
	Keywords []string `json:"keywords,omitempty"`
}

func summarize(p *esp.Plugin, rec *esp.Record) RecordSummary {
	ri := info(p, rec)
	return RecordSummary{
		Type:     rec.Type,
		FormID:   ri.FormID,
		Resolved: ri.FormIDResolved,
		EditorID: ri.EditorID,
		FullName: ri.FullName,
		Source:   ri.Source,
		Keywords: ri.Keywords,
	}
}

// Generic summarizes every record of one type.
func Generic(p *esp.Plugin, typ string) []RecordSummary {
	recs := p.Records[typ]
	out := make([]RecordSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(p, rec))
	}
	return out
}

// AllRecords summarizes every decoded record in type order.
func AllRecords(p *esp.Plugin) []RecordSummary {
	var out []RecordSummary
	for _, typ := range p.TypeOrder {
		out = append(out, Generic(p, typ)...)
	}
	return out
}

func refString(p *esp.Plugin, data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return p.ResolveFormIDString(esp.FormID(binary.LittleEndian.Uint32(data[:4])))
}

func flagsHex(flags uint32) string {
	return fmt.Sprintf("%08X", flags)
}

func u32At(d []byte, off int) (uint32, bool) {
	if off+4 > len(d) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(d[off : off+4]), true
}

func i32At(d []byte, off int) (int32, bool) {
	v, ok := u32At(d, off)
	return int32(v), ok
}

func f32At(d []byte, off int) (float32, bool) {
	v, ok := u32At(d, off)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

func u16At(d []byte, off int) (uint16, bool) {
	if off+2 > len(d) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(d[off : off+2]), true
}
