package analysis

import "github.com/modforge/espdec/internal/esp"

// PerkData is the decoded PERK DATA block: five single-byte fields.
type PerkData struct {
	IsTrait  uint8 `json:"is_trait"`
	Level    uint8 `json:"level"`
	NumRanks uint8 `json:"num_ranks"`
	Playable uint8 `json:"playable"`
	Hidden   uint8 `json:"hidden"`
}

type Perk struct {
	RecordInfo
	Data *PerkData `json:"data,omitempty"`
}

// Perks builds one row per PERK record.
func Perks(p *esp.Plugin) []Perk {
	recs := p.Records["PERK"]
	out := make([]Perk, 0, len(recs))
	for _, rec := range recs {
		pk := Perk{RecordInfo: info(p, rec)}
		if d, ok := rec.Field("DATA"); ok && len(d) >= 5 {
			pk.Data = &PerkData{
				IsTrait:  d[0],
				Level:    d[1],
				NumRanks: d[2],
				Playable: d[3],
				Hidden:   d[4],
			}
		}
		out = append(out, pk)
	}
	return out
}
