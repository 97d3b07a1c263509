// Package memory implements the NES CPU and PPU address space decoders.
package memory

import "gones/internal/common"

// PPUPorts is what the CPU address decoder needs from the PPU: the eight
// memory-mapped registers at $2000-$2007, mirrored every 8 bytes up to $3FFF.
type PPUPorts interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// APUPorts is what the CPU address decoder needs from the APU: its sound
// registers at $4000-$4013/$4015/$4017.
type APUPorts interface {
	ReadStatus() uint8
	WriteRegister(addr uint16, value uint8)
}

// CartridgePorts is what both address decoders need from the cartridge.
type CartridgePorts interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirroring() common.MirrorMode
}

// CPUBus decodes the 16-bit CPU address space: 2KB internal RAM mirrored
// to 8KB, PPU registers mirrored every 8 bytes, APU/IO registers, and the
// cartridge's PRG window. OAM DMA and the controller strobe are handled one
// level up, by the system bus, since they need to reach across components.
type CPUBus struct {
	ram  [0x800]uint8
	PPU  PPUPorts
	APU  APUPorts
	Cart CartridgePorts
	open uint8
}

func NewCPUBus(ppu PPUPorts, apu APUPorts, cart CartridgePorts) *CPUBus {
	return &CPUBus{PPU: ppu, APU: apu, Cart: cart}
}

func (m *CPUBus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = m.ram[addr&0x07FF]
	case addr < 0x4000:
		value = m.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4015:
		value = m.APU.ReadStatus()
	case addr < 0x4020:
		value = m.open
	case addr >= 0x6000 && addr < 0x8000:
		if m.Cart != nil {
			value = m.Cart.ReadPRG(addr)
		} else {
			value = m.open
		}
	case addr < 0x8000:
		value = m.open
	default:
		if m.Cart != nil {
			value = m.Cart.ReadPRG(addr)
		} else {
			value = m.open
		}
	}
	m.open = value
	return value
}

func (m *CPUBus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ram[addr&0x07FF] = value
	case addr < 0x4000:
		m.PPU.WriteRegister(0x2000+addr&0x0007, value)
	case addr == 0x4014:
		// OAM DMA is intercepted by the system bus before reaching here.
	case addr >= 0x4000 && addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		m.APU.WriteRegister(addr, value)
	case addr < 0x4020:
		// controller strobe ($4016) is intercepted by the system bus
	case addr >= 0x6000 && addr < 0x8000:
		if m.Cart != nil {
			m.Cart.WritePRG(addr, value)
		}
	case addr < 0x8000:
		// unmapped expansion area
	default:
		if m.Cart != nil {
			m.Cart.WritePRG(addr, value)
		}
	}
}

// PPUBus decodes the PPU's 14-bit address space: pattern tables (via the
// cartridge), nametables (mirrored per the mapper's live MirrorMode), and
// palette RAM. Mirroring is read fresh from the mapper on every nametable
// access rather than cached, since mappers like MMC1, MMC3 and AOROM can
// change it at runtime through their bank-switch registers.
type PPUBus struct {
	vram    [0x1000]uint8
	palette [32]uint8
	Cart    CartridgePorts
}

func NewPPUBus(cart CartridgePorts) *PPUBus {
	pb := &PPUBus{Cart: cart}
	for i := 0; i < 32; i += 4 {
		pb.palette[i] = 0x0F
	}
	return pb
}

func (pb *PPUBus) Read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return pb.Cart.ReadCHR(addr)
	case addr < 0x3F00:
		return pb.vram[pb.nametableIndex(addr)]
	default:
		return pb.readPalette(addr)
	}
}

func (pb *PPUBus) Write(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		pb.Cart.WriteCHR(addr, value)
	case addr < 0x3F00:
		pb.vram[pb.nametableIndex(addr)] = value
	default:
		pb.writePalette(addr, value)
	}
}

func (pb *PPUBus) nametableIndex(addr uint16) uint16 {
	addr &= 0x0FFF
	table := (addr >> 10) & 3
	offset := addr & 0x3FF

	switch pb.Cart.Mirroring() {
	case common.MirrorHorizontal:
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	case common.MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case common.MirrorSingleScreenLower:
		return offset
	case common.MirrorSingleScreenUpper:
		return 0x400 + offset
	case common.MirrorFourScreen:
		return table*0x400 + offset
	default:
		return offset
	}
}

func (pb *PPUBus) readPalette(addr uint16) uint8 {
	return pb.palette[paletteIndex(addr)]
}

func (pb *PPUBus) writePalette(addr uint16, value uint8) {
	pb.palette[paletteIndex(addr)] = value
}

func paletteIndex(addr uint16) uint16 {
	idx := (addr - 0x3F00) & 0x1F
	if idx == 0x10 || idx == 0x14 || idx == 0x18 || idx == 0x1C {
		idx &= 0x0F
	}
	return idx
}
