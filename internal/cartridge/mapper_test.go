package cartridge

import "testing"

func TestMMC1_PRGBankSwitchingMode3(t *testing.T) {
	data := buildROM(1, 4, 1, 0) // 64KB PRG, 4 banks of 16KB
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cart.Mapper

	// Write control register via 5 serial writes: value 0x0C -> PRG mode 3
	writeMMC1 := func(addr uint16, value uint8) {
		for i := 0; i < 5; i++ {
			m.WritePRG(addr, (value>>uint(i))&1)
		}
	}
	writeMMC1(0x8000, 0x0C)
	// Select PRG bank 1 for the switchable 0x8000 window
	writeMMC1(0xE000, 0x01)

	got := m.ReadPRG(0x8000)
	want := cart.PRGROM[prgBankSize+0]
	if got != want {
		t.Errorf("expected bank 1 byte 0, got %02X want %02X", got, want)
	}
	// Last bank always fixed at 0xC000 in mode 3
	gotLast := m.ReadPRG(0xC000)
	wantLast := cart.PRGROM[3*prgBankSize+0]
	if gotLast != wantLast {
		t.Errorf("expected fixed last bank, got %02X want %02X", gotLast, wantLast)
	}
}

func TestMMC1_ResetBitForcesMode3(t *testing.T) {
	data := buildROM(1, 2, 1, 0)
	cart, _ := Load(data)
	m := cart.Mapper
	m.WritePRG(0x8000, 0x80) // reset bit
	if m.mmc1Control&0x0C != 0x0C {
		t.Errorf("expected PRG mode 3 after reset write, control=%02X", m.mmc1Control)
	}
}

func TestUxROM_LastBankFixed(t *testing.T) {
	data := buildROM(2, 4, 0, 0)
	cart, _ := Load(data)
	m := cart.Mapper
	m.WritePRG(0x8000, 2)
	if got, want := m.ReadPRG(0x8000), cart.PRGROM[2*prgBankSize]; got != want {
		t.Errorf("switchable bank: got %02X want %02X", got, want)
	}
	if got, want := m.ReadPRG(0xC000), cart.PRGROM[3*prgBankSize]; got != want {
		t.Errorf("fixed last bank: got %02X want %02X", got, want)
	}
}

func TestCNROM_CHRBankSelect(t *testing.T) {
	data := buildROM(3, 1, 2, 0)
	cart, _ := Load(data)
	m := cart.Mapper
	m.WritePRG(0x8000, 1)
	if got, want := m.ReadCHR(0), cart.CHRROM[chrBankSize]; got != want {
		t.Errorf("CHR bank 1: got %02X want %02X", got, want)
	}
}

func TestAOROM_SingleScreenMirroring(t *testing.T) {
	data := buildROM(7, 2, 0, 0)
	cart, _ := Load(data)
	m := cart.Mapper
	m.WritePRG(0x8000, 0x10) // bank 0, mirror page 1
	if m.Mirroring() != 3 { // MirrorSingleScreenUpper
		t.Errorf("expected single-screen-upper, got %v", m.Mirroring())
	}
}

func TestMMC3_ScanlineIRQFiresAfterLatchedCount(t *testing.T) {
	data := buildROM(4, 4, 2, 0)
	cart, _ := Load(data)
	m := cart.Mapper

	m.WritePRG(0xC000, 4) // latch = 4
	m.WritePRG(0xC001, 0) // force reload
	m.WritePRG(0xE001, 0) // enable IRQ

	toggleA12 := func() {
		m.OnPPUAddress(0x0000) // A12 low
		m.OnPPUAddress(0x1000) // A12 high: rising edge
	}

	for i := 0; i < 4; i++ {
		toggleA12()
		if m.IRQPending() {
			t.Fatalf("IRQ fired too early at edge %d", i+1)
		}
	}
	toggleA12() // 5th edge: edge 1 reloaded the counter to 4, edges 2-5 count it down to 0
	if !m.IRQPending() {
		t.Fatalf("expected IRQ pending after latched count of edges")
	}

	m.WritePRG(0xE000, 0) // disable+ack
	if m.IRQPending() {
		t.Fatal("expected IRQ cleared by $E000 write")
	}
}

func TestMMC3_PRGBanking(t *testing.T) {
	data := buildROM(4, 4, 2, 0) // 4 * 8KB PRG banks
	cart, _ := Load(data)
	m := cart.Mapper

	m.WritePRG(0x8000, 0x06) // select register R6 (PRG bank @ 0x8000), PRG mode 0
	m.WritePRG(0x8001, 1)    // R6 = bank 1 -> window at 0x8000
	if got, want := m.ReadPRG(0x8000), cart.PRGROM[1*8192]; got != want {
		t.Errorf("R6 window: got %02X want %02X", got, want)
	}
	// 0xE000-0xFFFF always fixed to last 8KB bank
	lastBank := len(cart.PRGROM)/8192 - 1
	if got, want := m.ReadPRG(0xE000), cart.PRGROM[lastBank*8192]; got != want {
		t.Errorf("fixed last bank: got %02X want %02X", got, want)
	}
}
