package esp

import "fmt"

const (
	sigHeader = "TES4"

	sigSummary     = "HEDR"
	sigMaster      = "MAST"
	sigAuthor      = "CNAM"
	sigDescription = "SNAM"
	sigMasterData  = "DATA"
)

// parseHeader consumes the mandatory TES4 record at the start of the
// file: format version, declared record count, the ordered master list,
// author/description text and the file flags. Unknown field types are
// skipped by their declared length so newer plugins still decode.
func (d *decoder) parseHeader(rd *reader) error {
	if rd.remaining() < recordEnvelopeSize {
		return ErrEmptyFile
	}

	sig, _ := rd.readSig()
	if sig != sigHeader {
		return fmt.Errorf("%w: leading record is %q, want %q", ErrBadHeader, sig, sigHeader)
	}
	dataSize, _ := rd.readU32()
	flags, _ := rd.readU32()
	if _, err := rd.readU32(); err != nil { // form id, always zero for TES4
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	rd.skip(8) // timestamp + version info, opaque

	p := d.p
	p.IsESM = flags&FlagESM != 0
	p.IsESL = flags&FlagESL != 0
	p.IsLocalized = flags&FlagLocalized != 0

	if int(dataSize) > rd.remaining() {
		return fmt.Errorf("%w: declared header size %d exceeds file", ErrBadHeader, dataSize)
	}
	end := rd.pos + int(dataSize)

	sawSummary := false
	for rd.pos < end && rd.remaining() >= 6 {
		sub, _ := rd.readSig()
		size16, _ := rd.readU16()
		size := int(size16)
		if size > rd.remaining() {
			break
		}
		data, _ := rd.readN(size)

		switch sub {
		case sigSummary:
			if len(data) < 12 {
				return fmt.Errorf("%w: HEDR field is %d bytes, want 12", ErrBadHeader, len(data))
			}
			hr := newReader(data)
			p.Version, _ = hr.readF32()
			p.RecordCount, _ = hr.readI32()
			p.NextObjectID, _ = hr.readU32()
			sawSummary = true
		case sigMaster:
			p.Masters = append(p.Masters, decodeText(data))
		case sigAuthor:
			p.Author = decodeText(data)
		case sigDescription:
			p.Description = decodeText(data)
		case sigMasterData:
			// master file size accounting, read but not interpreted
		}
	}
	if !sawSummary {
		return fmt.Errorf("%w: missing HEDR summary field", ErrBadHeader)
	}
	if rd.pos < end {
		rd.skip(end - rd.pos)
	}
	return nil
}
