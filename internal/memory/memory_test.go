package memory

import (
	"testing"

	"gones/internal/common"
)

type stubPPU struct{ reg [8]uint8 }

func (s *stubPPU) ReadRegister(addr uint16) uint8     { return s.reg[addr&7] }
func (s *stubPPU) WriteRegister(addr uint16, v uint8) { s.reg[addr&7] = v }

type stubAPU struct{ status uint8 }

func (s *stubAPU) ReadStatus() uint8                  { return s.status }
func (s *stubAPU) WriteRegister(addr uint16, v uint8) {}

type stubCart struct {
	prg    [0x8000]uint8
	chr    [0x2000]uint8
	mirror common.MirrorMode
}

func (c *stubCart) ReadPRG(addr uint16) uint8          { return c.prg[addr&0x7FFF] }
func (c *stubCart) WritePRG(addr uint16, v uint8)      { c.prg[addr&0x7FFF] = v }
func (c *stubCart) ReadCHR(addr uint16) uint8          { return c.chr[addr&0x1FFF] }
func (c *stubCart) WriteCHR(addr uint16, v uint8)      { c.chr[addr&0x1FFF] = v }
func (c *stubCart) Mirroring() common.MirrorMode       { return c.mirror }

func TestCPUBus_RAMMirroring(t *testing.T) {
	bus := NewCPUBus(&stubPPU{}, &stubAPU{}, &stubCart{})
	bus.Write(0x0000, 0x42)
	if got := bus.Read(0x0800); got != 0x42 {
		t.Errorf("expected RAM mirrored at $0800, got %02X", got)
	}
	if got := bus.Read(0x1800); got != 0x42 {
		t.Errorf("expected RAM mirrored at $1800, got %02X", got)
	}
}

func TestCPUBus_PPURegisterMirroring(t *testing.T) {
	ppu := &stubPPU{}
	bus := NewCPUBus(ppu, &stubAPU{}, &stubCart{})
	bus.Write(0x2000, 0x80)
	if got := bus.Read(0x2008); got != 0x80 {
		t.Errorf("expected PPU register mirrored at $2008, got %02X", got)
	}
}

func TestCPUBus_PRGRAMAndROM(t *testing.T) {
	cart := &stubCart{}
	bus := NewCPUBus(&stubPPU{}, &stubAPU{}, cart)
	bus.Write(0x6000, 0x11)
	if got := bus.Read(0x6000); got != 0x11 {
		t.Errorf("expected PRG RAM roundtrip, got %02X", got)
	}
	bus.Write(0x8000, 0x22) // mappers may ignore, but must not panic
	_ = bus.Read(0x8000)
}

func TestPPUBus_HorizontalMirroring(t *testing.T) {
	cart := &stubCart{}
	pb := NewPPUBus(cart)
	pb.Write(0x2000, 0x55)
	if got := pb.Read(0x2400); got != 0x55 {
		t.Errorf("expected horizontal mirroring to alias $2000 and $2400, got %02X", got)
	}
	if got := pb.Read(0x2800); got == 0x55 {
		t.Error("expected $2800 to be a distinct nametable under horizontal mirroring")
	}
}

func TestPPUBus_PaletteBackgroundMirroring(t *testing.T) {
	pb := NewPPUBus(&stubCart{})
	pb.Write(0x3F00, 0x0A)
	if got := pb.Read(0x3F10); got != 0x0A {
		t.Errorf("expected palette index $10 mirrored to $00, got %02X", got)
	}
}
