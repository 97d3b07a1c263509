package memory

import "gones/internal/common"

// CPUBusSnapshot captures internal RAM and the open-bus latch; PPU, APU
// and cartridge state live in their own packages' snapshots.
type CPUBusSnapshot struct {
	RAM  [0x800]uint8
	Open uint8
}

func (m *CPUBus) Snapshot() CPUBusSnapshot {
	return CPUBusSnapshot{RAM: m.ram, Open: m.open}
}

func (m *CPUBus) Restore(s CPUBusSnapshot) {
	m.ram = s.RAM
	m.open = s.Open
}

// PPUBusSnapshot captures nametable RAM and palette RAM. Mirroring is not
// stored here: PPUBus always reads it live from the mapper, so it's
// restored as part of the mapper's own snapshot instead. Mirror is kept
// purely as an informational cache of what the mapper reported at capture
// time, for diffing/debugging a save file; it plays no role in restore.
type PPUBusSnapshot struct {
	VRAM    [0x1000]uint8
	Palette [32]uint8
	Mirror  common.MirrorMode
}

func (pb *PPUBus) Snapshot() PPUBusSnapshot {
	return PPUBusSnapshot{VRAM: pb.vram, Palette: pb.palette, Mirror: pb.Cart.Mirroring()}
}

func (pb *PPUBus) Restore(s PPUBusSnapshot) {
	pb.vram = s.VRAM
	pb.palette = s.Palette
}
