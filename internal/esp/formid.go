package esp

import "fmt"

// FormID is a 32-bit record identity. The high byte indexes the plugin's
// master list (an index equal to the master count means the record is
// defined by the plugin itself); the low 24 bits are a per-file local id.
type FormID uint32

// MasterIndex returns the master-list index encoded in the high byte.
func (f FormID) MasterIndex() int {
	return int(f >> 24)
}

// LocalID returns the low 24 bits.
func (f FormID) LocalID() uint32 {
	return uint32(f) & 0x00ffffff
}

// Hex returns the full id as 8 uppercase hex digits.
func (f FormID) Hex() string {
	return fmt.Sprintf("%08X", uint32(f))
}

func (f FormID) String() string {
	return f.Hex()
}

// ResolveFormID maps a FormID to the file that defines it and the local
// id within that file. A master index beyond the master list resolves to
// an explicit unknown-master placeholder, never an error.
func (p *Plugin) ResolveFormID(id FormID) (source, local string) {
	local = fmt.Sprintf("%06X", id.LocalID())
	idx := id.MasterIndex()
	switch {
	case idx < len(p.Masters):
		return p.Masters[idx], local
	case idx == len(p.Masters):
		return p.Name, local
	default:
		return fmt.Sprintf("UNKNOWN_MASTER_%02X", idx), local
	}
}

// ResolveFormIDString renders ResolveFormID as "source|local".
func (p *Plugin) ResolveFormIDString(id FormID) string {
	source, local := p.ResolveFormID(id)
	return source + "|" + local
}

// ResolveName returns the best available human-readable name for a
// FormID: the editor id of a record decoded from this file, a
// well-known engine name, or the resolved "source|local" string. It is
// total and never fails.
func (p *Plugin) ResolveName(id FormID) string {
	if rec, ok := p.ByFormID[id]; ok && rec.EditorID != "" {
		return rec.EditorID
	}
	if name, ok := wellKnownNames[id]; ok {
		return name
	}
	return p.ResolveFormIDString(id)
}
