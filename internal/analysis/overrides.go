package analysis

import "github.com/modforge/espdec/internal/esp"

// OverrideReport renders the plugin's override partition: records whose
// identity belongs to a declared master, keyed by master name, and
// records new to this file, keyed by record type.
type OverrideReport struct {
	Overrides map[string][]RecordSummary `json:"overrides"`
	New       map[string][]RecordSummary `json:"new_records"`
}

// Overrides partitions every decoded record.
func Overrides(p *esp.Plugin) OverrideReport {
	set := p.PartitionOverrides()
	report := OverrideReport{
		Overrides: make(map[string][]RecordSummary, len(set.Overrides)),
		New:       make(map[string][]RecordSummary, len(set.New)),
	}
	for master, recs := range set.Overrides {
		rows := make([]RecordSummary, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, summarize(p, rec))
		}
		report.Overrides[master] = rows
	}
	for typ, recs := range set.New {
		rows := make([]RecordSummary, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, summarize(p, rec))
		}
		report.New[typ] = rows
	}
	return report
}
