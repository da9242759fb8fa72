package analysis

import "github.com/modforge/espdec/internal/esp"

type Armor struct {
	RecordInfo
	ArmorRating float32 `json:"armor_rating"`
	Value       int32   `json:"value"`
	Weight      float32 `json:"weight"`
}

// ArmorRecords builds one row per ARMO record. The rating lives in
// DNAM, value and weight in DATA.
func ArmorRecords(p *esp.Plugin) []Armor {
	recs := p.Records["ARMO"]
	out := make([]Armor, 0, len(recs))
	for _, rec := range recs {
		a := Armor{RecordInfo: info(p, rec)}
		if d, ok := rec.Field("DNAM"); ok {
			a.ArmorRating, _ = f32At(d, 0)
		}
		if d, ok := rec.Field("DATA"); ok {
			a.Value, _ = i32At(d, 0)
			a.Weight, _ = f32At(d, 4)
		}
		out = append(out, a)
	}
	return out
}
