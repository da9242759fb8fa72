package export

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modforge/espdec/internal/analysis"
	"github.com/modforge/espdec/internal/esp"
)

func sub(sig string, data []byte) []byte {
	b := append([]byte(sig), byte(len(data)), byte(len(data)>>8))
	return append(b, data...)
}

func cstr(s string) []byte { return append([]byte(s), 0) }

func u32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func f32(v float32) []byte { return u32(math.Float32bits(v)) }

func record(sig string, formID uint32, payload []byte) []byte {
	b := []byte(sig)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = binary.LittleEndian.AppendUint32(b, formID)
	b = append(b, make([]byte, 8)...)
	return append(b, payload...)
}

func grup(label string, content ...[]byte) []byte {
	body := bytes.Join(content, nil)
	b := []byte("GRUP")
	b = binary.LittleEndian.AppendUint32(b, uint32(24+len(body)))
	b = append(b, label...)
	b = append(b, make([]byte, 12)...)
	return append(b, body...)
}

func fixture(t *testing.T) *esp.Plugin {
	t.Helper()

	header := bytes.Join([][]byte{
		sub("HEDR", bytes.Join([][]byte{f32(1.0), u32(2), u32(0x800)}, nil)),
		sub("MAST", cstr("Fallout4.esm")),
		sub("CNAM", cstr("tester")),
	}, nil)
	tes4 := []byte("TES4")
	tes4 = binary.LittleEndian.AppendUint32(tes4, uint32(len(header)))
	tes4 = append(tes4, make([]byte, 16)...)
	tes4 = append(tes4, header...)

	data := bytes.Join([][]byte{
		tes4,
		grup("KYWD",
			record("KYWD", 0x01000900, sub("EDID", cstr("ModKeyword"))),
		),
		grup("WEAP",
			record("WEAP", 0x01000001, bytes.Join([][]byte{
				sub("EDID", cstr("TestRifle")),
				sub("FULL", cstr("Test Rifle")),
				sub("KSIZ", u32(1)),
				sub("KWDA", u32(0x01000900)),
				sub("DATA", bytes.Join([][]byte{u32(145), f32(6.5)}, nil)),
			}, nil)),
		),
	}, nil)

	p, err := esp.Decode("Mod.esp", data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return p
}

func TestSummary(t *testing.T) {
	t.Parallel()

	p := fixture(t)
	s := Summary(p)
	for _, want := range []string{
		"Plugin summary: Mod.esp",
		"File type: ESP",
		"Author: tester",
		"[00] Fallout4.esm",
		"[01] Mod.esp (this file)",
		"KYWD: 1",
		"WEAP: 1",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "incomplete") {
		t.Errorf("complete decode flagged incomplete:\n%s", s)
	}
}

func TestOverridesText(t *testing.T) {
	t.Parallel()

	p := fixture(t)
	var buf bytes.Buffer
	if err := OverridesText(&buf, p, analysis.Overrides(p)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "New records in Mod.esp") {
		t.Errorf("missing new-records section:\n%s", out)
	}
	if !strings.Contains(out, "TestRifle") || !strings.Contains(out, "ModKeyword") {
		t.Errorf("missing record rows:\n%s", out)
	}
}

func TestWeaponsCSV(t *testing.T) {
	t.Parallel()

	p := fixture(t)
	var buf bytes.Buffer
	if err := Weapons(&buf, analysis.Weapons(p)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "form_id,form_id_resolved,editor_id") {
		t.Errorf("header mismatch: %q", lines[0])
	}
	if !strings.Contains(lines[1], "TestRifle") || !strings.Contains(lines[1], "145") {
		t.Errorf("row mismatch: %q", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	p := fixture(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, analysis.Keywords(p)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"ModKeyword"`) {
		t.Errorf("JSON missing keyword: %s", buf.String())
	}
}

func TestDumpAll(t *testing.T) {
	t.Parallel()

	p := fixture(t)
	dir := t.TempDir()
	if err := DumpAll(p, filepath.Join(dir, "out")); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"Mod_summary.txt",
		"Mod_keywords.csv",
		"Mod_weapons.csv",
		"Mod_overrides.txt",
		"Mod_all_records.csv",
	} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "Mod_ammo.csv")); err == nil {
		t.Error("ammo CSV written for plugin with no AMMO records")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 150)
	if got := truncate(long, 100); len(got) != 103 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q", got)
	}
}
