package cartridge

import "testing"

// buildROM assembles a minimal iNES image: header + prgBanks*16KB PRG +
// chrBanks*8KB CHR (chrBanks==0 produces the CHR-RAM case).
func buildROM(mapperID uint8, prgBanks, chrBanks uint8, flags6extra uint8) []byte {
	header := make([]byte, 16)
	copy(header[:4], []byte("NES\x1A"))
	header[4] = prgBanks
	header[5] = chrBanks
	header[6] = (mapperID << 4) | flags6extra
	header[7] = mapperID & 0xF0

	body := make([]byte, int(prgBanks)*prgBankSize+int(chrBanks)*chrBankSize)
	for i := range body {
		body[i] = byte(i)
	}
	return append(header, body...)
}

func TestLoad_BadMagic(t *testing.T) {
	data := buildROM(0, 1, 1, 0)
	data[0] = 'X'
	if _, err := Load(data); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestLoad_ZeroPRG(t *testing.T) {
	data := buildROM(0, 0, 1, 0)
	if _, err := Load(data); err == nil {
		t.Fatal("expected error for zero PRG banks")
	}
}

func TestLoad_NROM_16KB_Mirrors(t *testing.T) {
	data := buildROM(0, 1, 1, 0)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cart.PRGROM) != prgBankSize {
		t.Fatalf("expected 16KB PRG, got %d", len(cart.PRGROM))
	}
	if cart.Mapper.ReadPRG(0x8000) != cart.Mapper.ReadPRG(0xC000) {
		t.Error("16KB NROM should mirror 0x8000 into 0xC000")
	}
}

func TestLoad_CHRRAM_WhenZeroCHRBanks(t *testing.T) {
	data := buildROM(0, 1, 0, 0)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cart.HasCHRRAM {
		t.Fatal("expected CHR RAM when header CHR size is 0")
	}
	if len(cart.CHRROM) != chrBankSize {
		t.Fatalf("expected 8KB CHR RAM, got %d", len(cart.CHRROM))
	}
}

func TestLoad_VerticalMirroring(t *testing.T) {
	data := buildROM(0, 1, 1, 0x01)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cart.Mirror != 1 {
		t.Fatalf("expected vertical mirroring, got %v", cart.Mirror)
	}
}

func TestLoad_UnsupportedMapper(t *testing.T) {
	data := buildROM(5, 1, 1, 0)
	if _, err := Load(data); err == nil {
		t.Fatal("expected UnsupportedMapperError for mapper 5")
	}
}

func TestLoad_BatteryBackedRAM(t *testing.T) {
	data := buildROM(0, 1, 1, 0x02)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cart.HasBattery {
		t.Fatal("expected battery flag set")
	}
	cart.PRGRAM[0] = 0x42
	if got := cart.BatteryRAM()[0]; got != 0x42 {
		t.Fatalf("BatteryRAM should alias PRGRAM, got %02X", got)
	}
}
