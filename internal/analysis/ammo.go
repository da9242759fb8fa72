package analysis

import "github.com/modforge/espdec/internal/esp"

// AmmoData is the decoded AMMO DATA block.
type AmmoData struct {
	Projectile string  `json:"projectile"`
	Flags      uint32  `json:"flags"`
	Damage     float32 `json:"damage"`
	Value      int32   `json:"value"`
	Weight     float32 `json:"weight"`
}

type Ammo struct {
	RecordInfo
	Data *AmmoData `json:"data,omitempty"`
}

// AmmoRecords builds one row per AMMO record.
func AmmoRecords(p *esp.Plugin) []Ammo {
	recs := p.Records["AMMO"]
	out := make([]Ammo, 0, len(recs))
	for _, rec := range recs {
		a := Ammo{RecordInfo: info(p, rec)}
		if d, ok := rec.Field("DATA"); ok {
			ad := &AmmoData{}
			if proj, ok := u32At(d, 0); ok {
				ad.Projectile = esp.FormID(proj).Hex()
			}
			ad.Flags, _ = u32At(d, 4)
			ad.Damage, _ = f32At(d, 8)
			ad.Value, _ = i32At(d, 12)
			ad.Weight, _ = f32At(d, 16)
			a.Data = ad
		}
		out = append(out, a)
	}
	return out
}
