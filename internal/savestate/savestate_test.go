package savestate

import (
	"encoding/json"
	"os"
	"testing"

	"gones/internal/bus"
	"gones/internal/cartridge"
)

func buildTestBus(t *testing.T) (*bus.Bus, []byte) {
	t.Helper()
	data := make([]byte, 16+16*1024+8*1024)
	copy(data[0:4], []byte("NES\x1A"))
	data[4] = 1
	data[5] = 1
	prg := data[16 : 16+16*1024]
	prg[0] = 0xEA
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatalf("failed to build test cartridge: %v", err)
	}
	b := bus.New(cart.Mapper)
	b.Reset()
	return b, data
}

func TestSaveThenLoadRestoresCPUState(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, 4)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	b, rom := buildTestBus(t)
	b.Step()
	b.Step()
	checksum := ChecksumROM(rom)

	wantPC := b.CPU.PC
	wantCycles := b.CPU.Cycles()

	if err := mgr.Save(b, 0, "test.nes", checksum); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b2, _ := buildTestBus(t)
	if err := mgr.Load(b2, 0, "test.nes", checksum); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if b2.CPU.PC != wantPC {
		t.Errorf("expected PC %04X after restore, got %04X", wantPC, b2.CPU.PC)
	}
	if b2.CPU.Cycles() != wantCycles {
		t.Errorf("expected cycles %d after restore, got %d", wantCycles, b2.CPU.Cycles())
	}
}

func TestLoadRejectsChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	mgr, _ := NewManager(dir, 4)

	b, rom := buildTestBus(t)
	checksum := ChecksumROM(rom)
	if err := mgr.Save(b, 0, "test.nes", checksum); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b2, _ := buildTestBus(t)
	if err := mgr.Load(b2, 0, "test.nes", checksum+1); err == nil {
		t.Error("expected Load to reject a mismatched ROM checksum")
	}
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	mgr, _ := NewManager(dir, 4)

	b, rom := buildTestBus(t)
	checksum := ChecksumROM(rom)
	if err := mgr.Save(b, 0, "test.nes", checksum); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := mgr.slotPath(0, "test.nes")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal saved file: %v", err)
	}
	f.Version = Version + 1
	tampered, err := json.Marshal(&f)
	if err != nil {
		t.Fatalf("remarshal tampered file: %v", err)
	}
	if err := os.WriteFile(path, tampered, 0644); err != nil {
		t.Fatalf("write tampered file: %v", err)
	}

	b2, _ := buildTestBus(t)
	if err := mgr.Load(b2, 0, "test.nes", checksum); err == nil {
		t.Error("expected Load to reject a version mismatch")
	}
}

func TestHasSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	mgr, _ := NewManager(dir, 4)
	b, rom := buildTestBus(t)
	checksum := ChecksumROM(rom)

	if mgr.HasSave(1, "test.nes") {
		t.Error("expected no save before Save is called")
	}
	if err := mgr.Save(b, 1, "test.nes", checksum); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mgr.HasSave(1, "test.nes") {
		t.Error("expected HasSave to report true after Save")
	}
	if err := mgr.Delete(1, "test.nes"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mgr.HasSave(1, "test.nes") {
		t.Error("expected no save after Delete")
	}
}
