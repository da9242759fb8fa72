// Package esp decodes Bethesda plugin files (ESP/ESM/ESL) standalone,
// without the declared master files present. It recovers the master
// list, every record envelope and identity, decompressed subrecords,
// and best-effort human-readable names for cross-file references.
//
// Decoding is best-effort by design: only a broken TES4 header aborts.
// Payload-level problems (a corrupt zlib stream, a subrecord size past
// the payload end, a truncated tail) are isolated to the offending
// record and reported through Plugin.Warnings.
package esp

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

type decoder struct {
	p      *Plugin
	filter map[string]struct{}
}

// Option configures a decode.
type Option func(*decoder)

// WithTypes restricts decoding to the named top-level group types.
// Entire non-matching groups are skipped without being parsed. Gear
// types pull in KYWD automatically so their keyword references still
// resolve to names.
func WithTypes(types ...string) Option {
	return func(d *decoder) {
		if len(types) == 0 {
			return
		}
		d.filter = make(map[string]struct{}, len(types)+1)
		for _, t := range types {
			d.filter[t] = struct{}{}
			switch t {
			case "WEAP", "AMMO", "ARMO", "NPC_", "PERK":
				d.filter["KYWD"] = struct{}{}
			}
		}
	}
}

// Decode parses a whole plugin file held in memory. The name is the
// plugin's own file name, used when resolving self-owned FormIDs. The
// buffer is only read, never modified, and the returned Plugin keeps
// references into it.
func Decode(name string, data []byte, opts ...Option) (*Plugin, error) {
	d := &decoder{p: newPlugin(name)}
	for _, opt := range opts {
		opt(d)
	}

	rd := newReader(data)
	if err := d.parseHeader(rd); err != nil {
		return nil, err
	}

	for rd.hasData() && rd.remaining() >= 4 {
		if rd.peekSig() == sigGroup {
			d.parseGroup(rd)
		} else {
			// Stray top-level record; tolerated.
			d.parseRecord(rd)
		}
	}
	return d.p, nil
}

// Open memory-maps a plugin file and decodes it. Close the returned
// Plugin to release the mapping. When mapping fails the file is read
// into memory instead.
func Open(path string, opts ...Option) (*Plugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	var mapped []byte
	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		mapped = data
	} else {
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	p, err := Decode(filepath.Base(path), data, opts...)
	if err != nil {
		if mapped != nil {
			_ = unix.Munmap(mapped)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path
	p.mapped = mapped
	return p, nil
}
