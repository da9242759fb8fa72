package esp

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// File-level record flags (TES4 header).
const (
	FlagESM       uint32 = 0x00000001
	FlagLocalized uint32 = 0x00000040
	FlagESL       uint32 = 0x00000200

	// FlagCompressed marks a record whose payload is zlib-compressed.
	FlagCompressed uint32 = 0x00040000
)

// Plugin is one fully decoded ESP/ESM/ESL file. It owns every decoded
// Record; the by-type and by-formid maps are views over that one store.
type Plugin struct {
	Path string
	Name string

	// TES4 header fields.
	Version      float32
	RecordCount  int32 // declared count, not verified
	NextObjectID uint32
	Author       string
	Description  string
	Masters      []string
	IsESM        bool
	IsESL        bool
	IsLocalized  bool

	// Records groups decoded records by type signature, in decode order.
	// TypeOrder lists the type keys in first-seen order.
	Records   map[string][]*Record
	TypeOrder []string

	// ByFormID holds one record per distinct identity. When a file
	// carries the same FormID twice the later record wins here while
	// both stay in Records.
	ByFormID map[FormID]*Record

	GroupCount      int
	DecodedRecords  int
	CompressedCount int
	TypeCounts      map[string]int

	// Warnings collects every payload-level anomaly that was isolated
	// to a single record. Incomplete is set when a truncated envelope
	// forced the decode to stop before the end of the buffer.
	Warnings   []Warning
	Incomplete bool

	mapped []byte
}

// Warning describes a recoverable problem confined to one record.
type Warning struct {
	RecordType string
	FormID     FormID
	Offset     int
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s @%d: %s", w.RecordType, w.FormID, w.Offset, w.Message)
}

func newPlugin(name string) *Plugin {
	return &Plugin{
		Name:       name,
		Records:    make(map[string][]*Record),
		ByFormID:   make(map[FormID]*Record),
		TypeCounts: make(map[string]int),
	}
}

func (p *Plugin) add(rec *Record) {
	if _, seen := p.Records[rec.Type]; !seen {
		p.TypeOrder = append(p.TypeOrder, rec.Type)
	}
	p.Records[rec.Type] = append(p.Records[rec.Type], rec)
	p.ByFormID[rec.FormID] = rec
}

func (p *Plugin) warnf(recType string, id FormID, offset int, format string, args ...any) {
	p.Warnings = append(p.Warnings, Warning{
		RecordType: recType,
		FormID:     id,
		Offset:     offset,
		Message:    fmt.Sprintf(format, args...),
	})
}

// Close releases the memory mapping backing a Plugin returned by Open.
// Record payloads are invalid afterwards. Plugins decoded from a caller
// buffer have nothing to release.
func (p *Plugin) Close() error {
	if p.mapped == nil {
		return nil
	}
	m := p.mapped
	p.mapped = nil
	return unix.Munmap(m)
}

// SelfIndex is the master index that denotes the plugin itself.
func (p *Plugin) SelfIndex() int {
	return len(p.Masters)
}

// OverrideSet is the partition of all decoded records by the origin of
// their identity. Every record lands in exactly one bucket.
type OverrideSet struct {
	// Overrides buckets records whose identity belongs to a declared
	// master, keyed by master file name.
	Overrides map[string][]*Record
	// New buckets records defined by this plugin (or referencing an
	// unknown master), keyed by record type.
	New map[string][]*Record
}

// PartitionOverrides classifies every decoded record as an override of a
// master-file definition or as new in this file.
func (p *Plugin) PartitionOverrides() OverrideSet {
	set := OverrideSet{
		Overrides: make(map[string][]*Record),
		New:       make(map[string][]*Record),
	}
	for _, typ := range p.TypeOrder {
		for _, rec := range p.Records[typ] {
			if idx := rec.FormID.MasterIndex(); idx < len(p.Masters) {
				master := p.Masters[idx]
				set.Overrides[master] = append(set.Overrides[master], rec)
			} else {
				set.New[typ] = append(set.New[typ], rec)
			}
		}
	}
	return set
}
