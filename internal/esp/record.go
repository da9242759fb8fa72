package esp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	recordEnvelopeSize = 24

	sigEditorID     = "EDID"
	sigFullName     = "FULL"
	sigKeywordCount = "KSIZ"
	sigKeywordArray = "KWDA"
	sigOversize     = "XXXX"
)

// Subrecord is one typed field inside a record payload.
type Subrecord struct {
	Type string
	Data []byte
}

// Record is one decoded game-data entry: the fixed envelope plus its
// ordered subrecords. Repeated subrecord types are preserved in order;
// use Field or Fields to look payloads up by type. Records are immutable
// once decoded.
type Record struct {
	Type        string
	DataSize    uint32
	Flags       uint32
	FormID      FormID
	Timestamp   uint32
	VersionInfo uint32
	Compressed  bool

	Subrecords []Subrecord

	// Interpreted from well-known subrecords.
	EditorID     string
	FullName     string
	KeywordCount uint32
	Keywords     []FormID
}

// MasterIndex is the master-list index of the record's identity.
func (r *Record) MasterIndex() int {
	return r.FormID.MasterIndex()
}

// LocalID is the low 24 bits of the record's identity.
func (r *Record) LocalID() uint32 {
	return r.FormID.LocalID()
}

// Field returns the payload of the first subrecord with the given type.
func (r *Record) Field(sig string) ([]byte, bool) {
	for _, sub := range r.Subrecords {
		if sub.Type == sig {
			return sub.Data, true
		}
	}
	return nil, false
}

// Fields returns the payloads of every subrecord with the given type,
// in decode order.
func (r *Record) Fields(sig string) [][]byte {
	var out [][]byte
	for _, sub := range r.Subrecords {
		if sub.Type == sig {
			out = append(out, sub.Data)
		}
	}
	return out
}

// parseRecord decodes one record at the cursor and stores it in the
// plugin. Truncation marks the whole decode incomplete; decompression
// failure drops only this record's subrecords.
func (d *decoder) parseRecord(rd *reader) {
	start := rd.pos
	if rd.remaining() < recordEnvelopeSize {
		rd.skip(rd.remaining())
		return
	}

	sig, _ := rd.readSig()
	dataSize, _ := rd.readU32()
	flags, _ := rd.readU32()
	formID, _ := rd.readU32()
	timestamp, _ := rd.readU32()
	versionInfo, _ := rd.readU32()

	if int(dataSize) > rd.remaining() {
		d.p.warnf(sig, FormID(formID), start,
			"declared size %d exceeds remaining %d bytes, file truncated", dataSize, rd.remaining())
		d.p.Incomplete = true
		rd.skip(rd.remaining())
		return
	}
	payload, _ := rd.readN(int(dataSize))

	d.p.DecodedRecords++
	d.p.TypeCounts[sig]++

	rec := &Record{
		Type:        sig,
		DataSize:    dataSize,
		Flags:       flags,
		FormID:      FormID(formID),
		Timestamp:   timestamp,
		VersionInfo: versionInfo,
		Compressed:  flags&FlagCompressed != 0,
	}

	if rec.Compressed && len(payload) >= 4 {
		d.p.CompressedCount++
		want := binary.LittleEndian.Uint32(payload[:4])
		inflated, err := inflate(payload[4:], int(want))
		if err != nil {
			d.p.warnf(sig, rec.FormID, start, "decompress: %v", err)
			d.p.add(rec)
			return
		}
		payload = inflated
	}

	rec.Subrecords = splitSubrecords(payload)
	rec.interpret()
	d.p.add(rec)
}

// inflate decompresses a zlib stream into exactly size bytes. A stream
// shorter or longer than the declared size is an error so a corrupt
// size hint cannot silently produce a mangled payload.
func inflate(data []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid uncompressed size %d", size)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("short stream for declared size %d: %w", size, err)
	}
	if n, _ := io.Copy(io.Discard, zr); n > 0 {
		return nil, fmt.Errorf("stream exceeds declared size %d by %d bytes", size, n)
	}
	return out, nil
}

// splitSubrecords cuts a (decompressed) record payload into typed
// fields. An XXXX escape carries a 32-bit length that replaces the next
// subrecord's 16-bit size and produces no subrecord of its own. A
// declared size past the end of the payload stops the split, keeping
// whatever was fully read.
func splitSubrecords(payload []byte) []Subrecord {
	rd := newReader(payload)
	var subs []Subrecord
	oversize := -1
	for rd.remaining() >= 6 {
		sig, _ := rd.readSig()
		size16, _ := rd.readU16()
		size := int(size16)

		if sig == sigOversize {
			v, err := rd.readU32()
			if err != nil {
				break
			}
			oversize = int(v)
			continue
		}
		if oversize >= 0 {
			size = oversize
			oversize = -1
		}

		data, err := rd.readN(size)
		if err != nil {
			break
		}
		subs = append(subs, Subrecord{Type: sig, Data: data})
	}
	return subs
}

// interpret extracts the bounded set of well-known subrecords into named
// fields. A 4-byte FULL payload is a localized string-table id, not
// text; KSIZ is taken as the authoritative keyword count and not
// re-derived from KWDA.
func (r *Record) interpret() {
	for _, sub := range r.Subrecords {
		switch sub.Type {
		case sigEditorID:
			r.EditorID = decodeText(sub.Data)
		case sigFullName:
			if len(sub.Data) == 4 {
				r.FullName = fmt.Sprintf("[LSTRING:%08X]", binary.LittleEndian.Uint32(sub.Data))
			} else {
				r.FullName = decodeText(sub.Data)
			}
		case sigKeywordCount:
			if len(sub.Data) >= 4 {
				r.KeywordCount = binary.LittleEndian.Uint32(sub.Data)
			}
		case sigKeywordArray:
			kws := make([]FormID, 0, len(sub.Data)/4)
			for i := 0; i+4 <= len(sub.Data); i += 4 {
				kws = append(kws, FormID(binary.LittleEndian.Uint32(sub.Data[i:i+4])))
			}
			r.Keywords = kws
		}
	}
}
