package cartridge

import "gones/internal/common"

// Kind tags which bank-switching variant a Mapper value carries. Per the
// spec's mapper-polymorphism note, a Mapper is a tagged sum rather than a
// boxed interface: the variant is plain data, so snapshotting it is just a
// struct copy and there is no possibility of an ownership cycle.
type Kind uint8

const (
	NROM Kind = iota
	MMC1
	UxROM
	CNROM
	AOROM
	MMC3
)

// Mapper owns the cartridge it banks and carries every variant's state in
// one struct; only the fields for the active Kind are meaningful.
type Mapper struct {
	kind Kind
	cart *Cartridge

	// NROM
	nromPRGBanks int

	// MMC1
	mmc1Shift      uint8
	mmc1ShiftCount uint8
	mmc1Control    uint8
	mmc1CHRBank0   uint8
	mmc1CHRBank1   uint8
	mmc1PRGBank    uint8

	// UxROM
	uxromPRGBank  uint8
	uxromPRGBanks int

	// CNROM
	cnromCHRBank uint8

	// AOROM
	aoromPRGBank    uint8
	aoromMirrorPage uint8

	// MMC3
	mmc3BankSelect       uint8
	mmc3BankRegs         [8]uint8
	mmc3PRGMode          uint8
	mmc3CHRMode          uint8
	mmc3Mirror           uint8
	mmc3IRQLatch         uint8
	mmc3IRQCounter       uint8
	mmc3IRQReload        bool
	mmc3IRQEnable        bool
	mmc3IRQPending       bool
	mmc3PRGRAMEnable     bool
	mmc3PRGRAMProtect    bool
	mmc3LastA12          bool
	mmc3A12LowCycleCount int
}

// NewMapper builds the mapper variant named by the cartridge's header
// mapper number, or fails with UnsupportedMapperError.
func NewMapper(cart *Cartridge) (*Mapper, error) {
	switch cart.MapperID {
	case 0:
		return &Mapper{kind: NROM, cart: cart, nromPRGBanks: len(cart.PRGROM) / prgBankSize}, nil
	case 1:
		m := &Mapper{kind: MMC1, cart: cart}
		m.mmc1Control = 0x0C // power-on: PRG mode 3 (fix last, switch first)
		return m, nil
	case 2:
		return &Mapper{kind: UxROM, cart: cart, uxromPRGBanks: len(cart.PRGROM) / prgBankSize}, nil
	case 3:
		return &Mapper{kind: CNROM, cart: cart}, nil
	case 7:
		return &Mapper{kind: AOROM, cart: cart}, nil
	case 4:
		return &Mapper{kind: MMC3, cart: cart}, nil
	default:
		return nil, &common.UnsupportedMapperError{Number: cart.MapperID}
	}
}

// Kind reports the active variant, mainly for save-state encoding.
func (m *Mapper) Kind() Kind { return m.kind }

// ReadPRG reads a CPU-space address in 0x4020-0xFFFF (mapper space,
// including PRG RAM).
func (m *Mapper) ReadPRG(addr uint16) uint8 {
	switch m.kind {
	case NROM:
		return m.nromReadPRG(addr)
	case MMC1:
		return m.mmc1ReadPRG(addr)
	case UxROM:
		return m.uxromReadPRG(addr)
	case CNROM:
		return m.cnromReadPRG(addr)
	case AOROM:
		return m.aoromReadPRG(addr)
	case MMC3:
		return m.mmc3ReadPRG(addr)
	default:
		return 0
	}
}

// WritePRG handles a CPU write into mapper space: either PRG RAM or a
// mapper control register, depending on variant and address.
func (m *Mapper) WritePRG(addr uint16, value uint8) {
	switch m.kind {
	case NROM:
		m.nromWritePRG(addr, value)
	case MMC1:
		m.mmc1WritePRG(addr, value)
	case UxROM:
		m.uxromWritePRG(addr, value)
	case CNROM:
		m.cnromWritePRG(addr, value)
	case AOROM:
		m.aoromWritePRG(addr, value)
	case MMC3:
		m.mmc3WritePRG(addr, value)
	}
}

// ReadCHR reads a PPU-space pattern-table address (0x0000-0x1FFF).
func (m *Mapper) ReadCHR(addr uint16) uint8 {
	m.OnPPUAddress(addr)
	switch m.kind {
	case NROM:
		return m.nromReadCHR(addr)
	case MMC1:
		return m.mmc1ReadCHR(addr)
	case UxROM:
		return m.chrDirect(addr)
	case CNROM:
		return m.cnromReadCHR(addr)
	case AOROM:
		return m.chrDirect(addr)
	case MMC3:
		return m.mmc3ReadCHR(addr)
	default:
		return 0
	}
}

// WriteCHR writes a PPU-space pattern-table address; only meaningful when
// the cartridge carries CHR RAM.
func (m *Mapper) WriteCHR(addr uint16, value uint8) {
	m.OnPPUAddress(addr)
	if !m.cart.HasCHRRAM {
		return
	}
	switch m.kind {
	case MMC1:
		if off, ok := m.mmc1CHROffset(addr); ok {
			m.cart.CHRROM[off] = value
		}
	case MMC3:
		if off, ok := m.mmc3CHROffset(addr); ok {
			m.cart.CHRROM[off] = value
		}
	default:
		if int(addr) < len(m.cart.CHRROM) {
			m.cart.CHRROM[addr] = value
		}
	}
}

// Mirroring reports the cartridge's current nametable mirroring; most
// variants return the header-fixed mode, MMC1/AOROM/MMC3 can change it at
// runtime.
func (m *Mapper) Mirroring() common.MirrorMode {
	switch m.kind {
	case AOROM:
		if m.aoromMirrorPage == 0 {
			return common.MirrorSingleScreenLower
		}
		return common.MirrorSingleScreenUpper
	case MMC1:
		switch m.mmc1Control & 0x03 {
		case 0:
			return common.MirrorSingleScreenLower
		case 1:
			return common.MirrorSingleScreenUpper
		case 2:
			return common.MirrorVertical
		default:
			return common.MirrorHorizontal
		}
	case MMC3:
		if m.cart.Mirror == common.MirrorFourScreen {
			return common.MirrorFourScreen
		}
		if m.mmc3Mirror&1 != 0 {
			return common.MirrorHorizontal
		}
		return common.MirrorVertical
	default:
		return m.cart.Mirror
	}
}

// IRQPending reports whether the mapper (only MMC3 can) is holding the CPU
// IRQ line asserted.
func (m *Mapper) IRQPending() bool {
	return m.kind == MMC3 && m.mmc3IRQPending
}

// ClearIRQ acknowledges (or host-forces-off) the mapper IRQ line.
func (m *Mapper) ClearIRQ() {
	if m.kind == MMC3 {
		m.mmc3IRQPending = false
	}
}

// OnPPUAddress is called by the PPU for every internal VRAM/pattern address
// it computes, including background and sprite fetches. Only MMC3 uses it,
// to detect rising edges of address line A12 (bit 12) and drive its
// scanline counter; other variants ignore the hook.
func (m *Mapper) OnPPUAddress(addr uint16) {
	if m.kind != MMC3 {
		return
	}
	a12 := addr&0x1000 != 0
	if a12 && !m.mmc3LastA12 {
		m.mmc3clockIRQCounter()
	}
	m.mmc3LastA12 = a12
}

func (m *Mapper) chrDirect(addr uint16) uint8 {
	if int(addr) < len(m.cart.CHRROM) {
		return m.cart.CHRROM[addr]
	}
	return 0
}
