package analysis

import "github.com/modforge/espdec/internal/esp"

type Keyword struct {
	FormID      string `json:"form_id"`
	Resolved    string `json:"form_id_resolved"`
	EditorID    string `json:"editor_id"`
	MasterIndex int    `json:"master_index"`
	IsNew       bool   `json:"is_new"`
	Source      string `json:"source"`
}

// Keywords builds one row per KYWD record.
func Keywords(p *esp.Plugin) []Keyword {
	recs := p.Records["KYWD"]
	out := make([]Keyword, 0, len(recs))
	for _, rec := range recs {
		kw := Keyword{
			FormID:      rec.FormID.Hex(),
			Resolved:    p.ResolveFormIDString(rec.FormID),
			EditorID:    rec.EditorID,
			MasterIndex: rec.MasterIndex(),
			IsNew:       rec.MasterIndex() == len(p.Masters),
		}
		if rec.MasterIndex() < len(p.Masters) {
			kw.Source = p.Masters[rec.MasterIndex()]
		} else {
			kw.Source = p.Name
		}
		out = append(out, kw)
	}
	return out
}
