package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// Snapshot aggregates every component's own snapshot into one value the
// savestate package can version and serialize without reaching into any
// component's private fields itself.
type Snapshot struct {
	CPU     cpu.Snapshot
	PPU     ppu.Snapshot
	APU     apu.Snapshot
	Cart    cartridge.Snapshot
	Input   input.Snapshot
	CPUBus  memory.CPUBusSnapshot
	PPUBus  memory.PPUBusSnapshot

	CPUCycles  uint64
	FrameCount uint64
}

func (b *Bus) Snapshot() Snapshot {
	return Snapshot{
		CPU:        b.CPU.Snapshot(),
		PPU:        b.PPU.Snapshot(),
		APU:        b.APU.Snapshot(),
		Cart:       b.Cart.Snapshot(),
		Input:      b.Input.Snapshot(),
		CPUBus:     b.cpuBus.Snapshot(),
		PPUBus:     b.ppuBus.Snapshot(),
		CPUCycles:  b.CPUCycles,
		FrameCount: b.FrameCount,
	}
}

func (b *Bus) Restore(s Snapshot) {
	b.CPU.Restore(s.CPU)
	b.PPU.Restore(s.PPU)
	b.APU.Restore(s.APU)
	b.Cart.Restore(s.Cart)
	b.Input.Restore(s.Input)
	b.cpuBus.Restore(s.CPUBus)
	b.ppuBus.Restore(s.PPUBus)
	b.CPUCycles = s.CPUCycles
	b.FrameCount = s.FrameCount
}
