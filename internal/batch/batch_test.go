package batch

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func buildPlugin(t *testing.T, dir, name string, recordCount int) string {
	t.Helper()

	hedr := bytes.Join([][]byte{
		binary.LittleEndian.AppendUint32(nil, math.Float32bits(1.0)),
		binary.LittleEndian.AppendUint32(nil, uint32(recordCount)),
		binary.LittleEndian.AppendUint32(nil, 0x800),
	}, nil)
	header := append([]byte("HEDR"), byte(len(hedr)), byte(len(hedr)>>8))
	header = append(header, hedr...)

	tes4 := []byte("TES4")
	tes4 = binary.LittleEndian.AppendUint32(tes4, uint32(len(header)))
	tes4 = append(tes4, make([]byte, 16)...)
	tes4 = append(tes4, header...)

	var body []byte
	for i := 0; i < recordCount; i++ {
		rec := []byte("KYWD")
		rec = binary.LittleEndian.AppendUint32(rec, 0)
		rec = binary.LittleEndian.AppendUint32(rec, 0)
		rec = binary.LittleEndian.AppendUint32(rec, uint32(0x00000800+i))
		rec = append(rec, make([]byte, 8)...)
		body = append(body, rec...)
	}
	g := []byte("GRUP")
	g = binary.LittleEndian.AppendUint32(g, uint32(24+len(body)))
	g = append(g, "KYWD"...)
	g = append(g, make([]byte, 12)...)
	g = append(g, body...)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(tes4, g...), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "mods")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	buildPlugin(t, dir, "B.esp", 2)
	buildPlugin(t, sub, "A.esm", 1)
	if err := os.WriteFile(filepath.Join(dir, "Broken.esp"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write broken: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	results, err := Scan(context.Background(), dir, 4)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	// Sorted by file name.
	if results[0].File != "A.esm" || results[1].File != "B.esp" || results[2].File != "Broken.esp" {
		t.Fatalf("order mismatch: %s %s %s", results[0].File, results[1].File, results[2].File)
	}
	if results[0].RecordCount != 1 || results[1].RecordCount != 2 {
		t.Fatalf("record counts mismatch: %d %d", results[0].RecordCount, results[1].RecordCount)
	}
	if results[2].Err == nil || results[2].Error == "" {
		t.Fatal("broken file must carry its error")
	}
	if results[0].Err != nil || results[1].Err != nil {
		t.Fatalf("valid files must not error: %v %v", results[0].Err, results[1].Err)
	}
}

func TestScanCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	buildPlugin(t, dir, "A.esp", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, dir, 1); err == nil {
		t.Fatal("cancelled scan must fail")
	}
}
