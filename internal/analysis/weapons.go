package analysis

import "github.com/modforge/espdec/internal/esp"

// WeaponStats is the decoded WEAP DNAM block. Fields beyond the payload
// length stay zero.
type WeaponStats struct {
	AnimationType uint32  `json:"animation_type"`
	Speed         float32 `json:"speed"`
	Reach         float32 `json:"reach"`
	Flags         uint16  `json:"flags"`
	SightFOV      float32 `json:"sight_fov"`
	VATSHitChance float32 `json:"vats_hit_chance"`
	MinRange      float32 `json:"min_range"`
	MaxRange      float32 `json:"max_range"`
	Stagger       float32 `json:"stagger"`
}

type Weapon struct {
	RecordInfo
	Flags          string       `json:"flags"`
	Stats          *WeaponStats `json:"stats,omitempty"`
	Value          int32        `json:"value"`
	Weight         float32      `json:"weight"`
	Template       string       `json:"template,omitempty"`
	InstanceNaming string       `json:"instance_naming,omitempty"`
}

// Weapons builds one row per WEAP record.
func Weapons(p *esp.Plugin) []Weapon {
	recs := p.Records["WEAP"]
	out := make([]Weapon, 0, len(recs))
	for _, rec := range recs {
		w := Weapon{RecordInfo: info(p, rec), Flags: flagsHex(rec.Flags)}
		if d, ok := rec.Field("DNAM"); ok {
			w.Stats = weaponStats(d)
		}
		if d, ok := rec.Field("DATA"); ok {
			w.Value, _ = i32At(d, 0)
			w.Weight, _ = f32At(d, 4)
		}
		if d, ok := rec.Field("CNAM"); ok {
			w.Template = refString(p, d)
		}
		if d, ok := rec.Field("INRD"); ok {
			w.InstanceNaming = refString(p, d)
		}
		out = append(out, w)
	}
	return out
}

// DNAM field offsets per the community-documented WEAP layout.
func weaponStats(d []byte) *WeaponStats {
	s := &WeaponStats{}
	s.AnimationType, _ = u32At(d, 0)
	s.Speed, _ = f32At(d, 4)
	s.Reach, _ = f32At(d, 8)
	s.Flags, _ = u16At(d, 12)
	s.SightFOV, _ = f32At(d, 16)
	s.VATSHitChance, _ = f32At(d, 24)
	s.MinRange, _ = f32At(d, 36)
	s.MaxRange, _ = f32At(d, 40)
	s.Stagger, _ = f32At(d, 56)
	return s
}
