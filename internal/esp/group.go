package esp

const (
	sigGroup          = "GRUP"
	groupEnvelopeSize = 24

	// groupTopLevel groups records of one type; the envelope label is
	// that type's signature. Other group types nest arbitrarily.
	groupTopLevel int32 = 0
)

// parseGroup decodes one GRUP container and everything inside it. The
// envelope's declared size is authoritative: content is exactly
// size-24 bytes and descent stops at that boundary no matter what the
// content looks like. Filtered-out top-level groups are skipped in a
// single jump without parsing a byte of their content, so corruption
// inside an uninteresting subtree cannot break a filtered decode.
func (d *decoder) parseGroup(rd *reader) {
	if rd.remaining() < groupEnvelopeSize {
		rd.skip(rd.remaining())
		return
	}

	rd.skip(4) // "GRUP", already peeked
	size, _ := rd.readU32()
	labelRaw, _ := rd.readN(4)
	groupType, _ := rd.readI32()
	rd.skip(8) // timestamp + version info, opaque

	d.p.GroupCount++

	content := int(size) - groupEnvelopeSize
	if content < 0 {
		content = 0
	}
	if content > rd.remaining() {
		d.p.warnf(sigGroup, 0, rd.pos-groupEnvelopeSize,
			"group size %d exceeds remaining %d bytes, file truncated", size, rd.remaining())
		d.p.Incomplete = true
		content = rd.remaining()
	}
	end := rd.pos + content

	if groupType == groupTopLevel {
		label := sigString(labelRaw)
		if d.filter != nil {
			if _, want := d.filter[label]; !want {
				rd.skip(content)
				return
			}
		}
	}

	for rd.pos < end {
		if rd.remaining() < 4 {
			break
		}
		if rd.peekSig() == sigGroup {
			d.parseGroup(rd)
		} else {
			d.parseRecord(rd)
		}
	}
	if rd.pos < end {
		rd.skip(end - rd.pos)
	}
}
