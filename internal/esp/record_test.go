package esp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	return buf.Bytes()
}

func compressedPayload(t *testing.T, raw []byte) []byte {
	t.Helper()
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(raw)))
	return append(b, deflate(t, raw)...)
}

func decodeOne(t *testing.T, body []byte) (*Plugin, *Record) {
	t.Helper()
	data := bytes.Join([][]byte{standardHeader(), grup("WEAP", 0, body)}, nil)
	p, err := Decode("Fixture.esp", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	recs := p.Records["WEAP"]
	if len(recs) != 1 {
		t.Fatalf("want 1 record, got %d", len(recs))
	}
	return p, recs[0]
}

func TestOversizeEscape(t *testing.T) {
	t.Parallel()

	const big = 70000
	payload := bytes.Join([][]byte{
		[]byte("XXXX"), {4, 0}, binary.LittleEndian.AppendUint32(nil, big),
		[]byte("DATA"), {0, 0}, make([]byte, big),
	}, nil)

	_, rec := decodeOne(t, record("WEAP", 0, 0x02000001, payload))
	if len(rec.Subrecords) != 1 {
		t.Fatalf("want exactly 1 subrecord, got %d", len(rec.Subrecords))
	}
	if rec.Subrecords[0].Type != "DATA" || len(rec.Subrecords[0].Data) != big {
		t.Fatalf("oversize subrecord mismatch: %s len=%d", rec.Subrecords[0].Type, len(rec.Subrecords[0].Data))
	}
	if subs := rec.Fields("XXXX"); len(subs) != 0 {
		t.Fatalf("escape produced %d subrecords of its own", len(subs))
	}
}

func TestSubrecordOverrunTruncatesSplit(t *testing.T) {
	t.Parallel()

	payload := bytes.Join([][]byte{
		sub("EDID", cstr("Gun")),
		[]byte("DNAM"), {0xff, 0xff}, {1, 2, 3}, // declares 65535, has 3
	}, nil)

	p, rec := decodeOne(t, record("WEAP", 0, 0x02000001, payload))
	if len(rec.Subrecords) != 1 || rec.Subrecords[0].Type != "EDID" {
		t.Fatalf("want only the fully-read EDID, got %+v", rec.Subrecords)
	}
	if rec.EditorID != "Gun" {
		t.Fatalf("editor id mismatch: %q", rec.EditorID)
	}
	if p.Incomplete {
		t.Fatal("subrecord overrun must not mark the file incomplete")
	}
}

func TestCompressedRecord(t *testing.T) {
	t.Parallel()

	raw := bytes.Join([][]byte{
		sub("EDID", cstr("CompressedGun")),
		sub("FULL", cstr("Compressed Gun")),
	}, nil)

	p, rec := decodeOne(t, record("WEAP", FlagCompressed, 0x02000001, compressedPayload(t, raw)))
	if !rec.Compressed {
		t.Fatal("compression flag lost")
	}
	if rec.EditorID != "CompressedGun" || rec.FullName != "Compressed Gun" {
		t.Fatalf("decompressed fields mismatch: %q %q", rec.EditorID, rec.FullName)
	}
	if p.CompressedCount != 1 {
		t.Fatalf("compressed count mismatch: %d", p.CompressedCount)
	}
}

func TestCompressedWrongSizeHintIsIsolated(t *testing.T) {
	t.Parallel()

	raw := sub("EDID", cstr("Broken"))
	payload := compressedPayload(t, raw)
	// Corrupt the uncompressed-size hint.
	binary.LittleEndian.PutUint32(payload[:4], uint32(len(raw)+100))

	body := bytes.Join([][]byte{
		record("WEAP", FlagCompressed, 0x02000001, payload),
		record("WEAP", 0, 0x02000002, sub("EDID", cstr("Fine"))),
	}, nil)
	data := bytes.Join([][]byte{standardHeader(), grup("WEAP", 0, body)}, nil)

	p, err := Decode("Fixture.esp", data)
	if err != nil {
		t.Fatalf("decode must survive a bad record: %v", err)
	}
	recs := p.Records["WEAP"]
	if len(recs) != 2 {
		t.Fatalf("want both records kept, got %d", len(recs))
	}
	if len(recs[0].Subrecords) != 0 || len(recs[0].Keywords) != 0 {
		t.Fatalf("broken record must keep envelope only: %+v", recs[0])
	}
	if recs[1].EditorID != "Fine" {
		t.Fatalf("sibling record lost: %+v", recs[1])
	}
	if len(p.Warnings) != 1 {
		t.Fatalf("want one warning, got %v", p.Warnings)
	}
	if p.Incomplete {
		t.Fatal("local decompression failure must not mark the file incomplete")
	}
}

func TestTruncatedRecordStopsDescent(t *testing.T) {
	t.Parallel()

	rec := record("WEAP", 0, 0x02000001, sub("EDID", cstr("Gun")))
	// Declare twice the payload we actually provide.
	binary.LittleEndian.PutUint32(rec[4:8], uint32(2*(len(rec)-recordEnvelopeSize)))
	data := bytes.Join([][]byte{standardHeader(), grup("WEAP", 0, rec)}, nil)

	p, err := Decode("Fixture.esp", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.Incomplete {
		t.Fatal("truncation must mark the decode incomplete")
	}
	if len(p.Warnings) == 0 {
		t.Fatal("truncation must be reported")
	}
	if len(p.Records["WEAP"]) != 0 {
		t.Fatal("truncated record must be dropped")
	}
}

func TestKeywordSubrecords(t *testing.T) {
	t.Parallel()

	kwda := bytes.Join([][]byte{
		binary.LittleEndian.AppendUint32(nil, 0x0004a0a2),
		binary.LittleEndian.AppendUint32(nil, 0x02000900),
	}, nil)
	payload := bytes.Join([][]byte{
		sub("EDID", cstr("Gun")),
		sub("KSIZ", binary.LittleEndian.AppendUint32(nil, 2)),
		sub("KWDA", kwda),
	}, nil)

	_, rec := decodeOne(t, record("WEAP", 0, 0x02000001, payload))
	if rec.KeywordCount != 2 {
		t.Fatalf("keyword count mismatch: %d", rec.KeywordCount)
	}
	want := []FormID{0x0004a0a2, 0x02000900}
	if len(rec.Keywords) != len(want) {
		t.Fatalf("keywords mismatch: %v", rec.Keywords)
	}
	for i := range want {
		if rec.Keywords[i] != want[i] {
			t.Fatalf("keyword %d mismatch: got %s want %s", i, rec.Keywords[i], want[i])
		}
	}
}

func TestRepeatedSubrecordsPreserved(t *testing.T) {
	t.Parallel()

	payload := bytes.Join([][]byte{
		sub("MODL", cstr("first.nif")),
		sub("EDID", cstr("Gun")),
		sub("MODL", cstr("second.nif")),
	}, nil)

	_, rec := decodeOne(t, record("WEAP", 0, 0x02000001, payload))
	all := rec.Fields("MODL")
	if len(all) != 2 {
		t.Fatalf("want both MODL payloads, got %d", len(all))
	}
	if decodeText(all[0]) != "first.nif" || decodeText(all[1]) != "second.nif" {
		t.Fatalf("multimap order lost: %q %q", all[0], all[1])
	}
	first, ok := rec.Field("MODL")
	if !ok || decodeText(first) != "first.nif" {
		t.Fatalf("Field must return the first payload, got %q", first)
	}
}

func TestLocalizedFullName(t *testing.T) {
	t.Parallel()

	payload := bytes.Join([][]byte{
		sub("EDID", cstr("Gun")),
		sub("FULL", binary.LittleEndian.AppendUint32(nil, 0x1234)),
	}, nil)

	_, rec := decodeOne(t, record("WEAP", 0, 0x02000001, payload))
	if rec.FullName != "[LSTRING:00001234]" {
		t.Fatalf("localized name mismatch: %q", rec.FullName)
	}
}

func TestInflateRejectsOversizedStream(t *testing.T) {
	t.Parallel()

	stream := deflate(t, []byte("hello world"))
	if _, err := inflate(stream, 5); err == nil {
		t.Fatal("stream longer than declared size must fail")
	}
	if _, err := inflate(stream, 50); err == nil {
		t.Fatal("stream shorter than declared size must fail")
	}
	out, err := inflate(stream, 11)
	if err != nil {
		t.Fatalf("exact size must succeed: %v", err)
	}
	if string(out) != "hello world" {
		t.Fatalf("round trip mismatch: %q", out)
	}
}
