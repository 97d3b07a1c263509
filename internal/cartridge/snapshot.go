package cartridge

// Snapshot captures every mapper register regardless of which Kind is
// active, plus PRG RAM; restoring overwrites the struct's bank-switching
// fields and PRG RAM. PRG ROM and CHR memory (CHR RAM included) are not
// serialized, and restoring leaves them as they are.
type Snapshot struct {
	Kind Kind

	NROMPRGBanks int

	MMC1Shift      uint8
	MMC1ShiftCount uint8
	MMC1Control    uint8
	MMC1CHRBank0   uint8
	MMC1CHRBank1   uint8
	MMC1PRGBank    uint8

	UxROMPRGBank  uint8
	UxROMPRGBanks int

	CNROMCHRBank uint8

	AOROMPRGBank    uint8
	AOROMMirrorPage uint8

	MMC3BankSelect       uint8
	MMC3BankRegs         [8]uint8
	MMC3PRGMode          uint8
	MMC3CHRMode          uint8
	MMC3Mirror           uint8
	MMC3IRQLatch         uint8
	MMC3IRQCounter       uint8
	MMC3IRQReload        bool
	MMC3IRQEnable        bool
	MMC3IRQPending       bool
	MMC3PRGRAMEnable     bool
	MMC3PRGRAMProtect    bool
	MMC3LastA12          bool
	MMC3A12LowCycleCount int

	PRGRAM []uint8
}

func (m *Mapper) Snapshot() Snapshot {
	s := Snapshot{
		Kind:                 m.kind,
		NROMPRGBanks:         m.nromPRGBanks,
		MMC1Shift:            m.mmc1Shift,
		MMC1ShiftCount:       m.mmc1ShiftCount,
		MMC1Control:          m.mmc1Control,
		MMC1CHRBank0:         m.mmc1CHRBank0,
		MMC1CHRBank1:         m.mmc1CHRBank1,
		MMC1PRGBank:          m.mmc1PRGBank,
		UxROMPRGBank:         m.uxromPRGBank,
		UxROMPRGBanks:        m.uxromPRGBanks,
		CNROMCHRBank:         m.cnromCHRBank,
		AOROMPRGBank:         m.aoromPRGBank,
		AOROMMirrorPage:      m.aoromMirrorPage,
		MMC3BankSelect:       m.mmc3BankSelect,
		MMC3BankRegs:         m.mmc3BankRegs,
		MMC3PRGMode:          m.mmc3PRGMode,
		MMC3CHRMode:          m.mmc3CHRMode,
		MMC3Mirror:           m.mmc3Mirror,
		MMC3IRQLatch:         m.mmc3IRQLatch,
		MMC3IRQCounter:       m.mmc3IRQCounter,
		MMC3IRQReload:        m.mmc3IRQReload,
		MMC3IRQEnable:        m.mmc3IRQEnable,
		MMC3IRQPending:       m.mmc3IRQPending,
		MMC3PRGRAMEnable:     m.mmc3PRGRAMEnable,
		MMC3PRGRAMProtect:    m.mmc3PRGRAMProtect,
		MMC3LastA12:          m.mmc3LastA12,
		MMC3A12LowCycleCount: m.mmc3A12LowCycleCount,
	}
	s.PRGRAM = make([]uint8, len(m.cart.PRGRAM))
	copy(s.PRGRAM, m.cart.PRGRAM)
	return s
}

func (m *Mapper) Restore(s Snapshot) {
	m.kind = s.Kind
	m.nromPRGBanks = s.NROMPRGBanks
	m.mmc1Shift, m.mmc1ShiftCount, m.mmc1Control = s.MMC1Shift, s.MMC1ShiftCount, s.MMC1Control
	m.mmc1CHRBank0, m.mmc1CHRBank1, m.mmc1PRGBank = s.MMC1CHRBank0, s.MMC1CHRBank1, s.MMC1PRGBank
	m.uxromPRGBank, m.uxromPRGBanks = s.UxROMPRGBank, s.UxROMPRGBanks
	m.cnromCHRBank = s.CNROMCHRBank
	m.aoromPRGBank, m.aoromMirrorPage = s.AOROMPRGBank, s.AOROMMirrorPage
	m.mmc3BankSelect = s.MMC3BankSelect
	m.mmc3BankRegs = s.MMC3BankRegs
	m.mmc3PRGMode, m.mmc3CHRMode, m.mmc3Mirror = s.MMC3PRGMode, s.MMC3CHRMode, s.MMC3Mirror
	m.mmc3IRQLatch, m.mmc3IRQCounter, m.mmc3IRQReload = s.MMC3IRQLatch, s.MMC3IRQCounter, s.MMC3IRQReload
	m.mmc3IRQEnable, m.mmc3IRQPending = s.MMC3IRQEnable, s.MMC3IRQPending
	m.mmc3PRGRAMEnable, m.mmc3PRGRAMProtect = s.MMC3PRGRAMEnable, s.MMC3PRGRAMProtect
	m.mmc3LastA12, m.mmc3A12LowCycleCount = s.MMC3LastA12, s.MMC3A12LowCycleCount
	if len(s.PRGRAM) == len(m.cart.PRGRAM) {
		copy(m.cart.PRGRAM, s.PRGRAM)
	}
}
