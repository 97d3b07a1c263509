package cartridge

// UxROM (mapper 2). Any write to 0x8000-0xFFFF selects the 16KB PRG bank
// visible at 0x8000; 0xC000 is hard-wired to the last bank. CHR is fixed
// (usually CHR RAM).
func (m *Mapper) uxromWritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.PRGRAM[addr-0x6000] = value
		return
	}
	if addr >= 0x8000 {
		m.uxromPRGBank = value
	}
}

func (m *Mapper) uxromReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0xC000:
		off := (m.uxromPRGBanks-1)*prgBankSize + int(addr-0xC000)
		return m.cart.PRGROM[off]
	case addr >= 0x8000:
		bank := int(m.uxromPRGBank) % m.uxromPRGBanks
		off := bank*prgBankSize + int(addr-0x8000)
		return m.cart.PRGROM[off]
	case addr >= 0x6000:
		return m.cart.PRGRAM[addr-0x6000]
	default:
		return 0
	}
}
