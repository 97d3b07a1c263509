// Package bus wires the CPU, PPU, APU, cartridge mapper and controllers
// together and owns the three-clock scheduling ratio (PPU x3 : APU x1 : CPU
// x1 per CPU cycle) that the rest of the core treats as an external fact.
package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// Bus is the system interconnect. It satisfies cpu.Bus so the CPU core
// never needs to know about the PPU, APU or cartridge directly.
type Bus struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Cart  *cartridge.Mapper
	Input *input.State

	cpuBus *memory.CPUBus
	ppuBus *memory.PPUBus

	oamDMAPending bool
	oamDMAPage    uint8

	CPUCycles   uint64
	FrameCount  uint64
}

// New wires a fresh Bus around an already-loaded cartridge.
func New(cart *cartridge.Mapper) *Bus {
	b := &Bus{
		CPU:   cpu.New(),
		PPU:   ppu.New(),
		APU:   apu.New(),
		Cart:  cart,
		Input: input.NewState(),
	}

	b.ppuBus = memory.NewPPUBus(cart)
	b.PPU.Bus = b.ppuBus
	b.PPU.Mapper = cart

	b.cpuBus = memory.NewCPUBus(b.PPU, b.APU, cart)
	b.APU.Attach(b.cpuBus, b.CPU)

	return b
}

// Reset reproduces a cold power-up: every component resets, then the CPU
// reads its vector (consuming its documented 7 cycles).
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.CPU.Reset(b)
	b.CPUCycles = b.CPU.Cycles()
}

// Read/Write implement cpu.Bus. $4014 (OAM DMA) and $4016 (controller
// strobe) need to reach across components, so they're intercepted here
// rather than in memory.CPUBus, which only owns address decoding within a
// single component's turf.
func (b *Bus) Read(addr uint16) uint8 {
	switch addr {
	case 0x4016:
		return b.Input.Read(0x4016)
	case 0x4017:
		return b.Input.Read(0x4017)
	default:
		return b.cpuBus.Read(addr)
	}
}

func (b *Bus) Write(addr uint16, value uint8) {
	switch addr {
	case 0x4014:
		b.triggerOAMDMA(value)
	case 0x4016:
		b.Input.Write(0x4016, value)
	default:
		b.cpuBus.Write(addr, value)
	}
}

// triggerOAMDMA stalls the CPU 513 cycles (514 if the current cycle is
// odd) and copies the 256-byte page into OAM. The copy itself is performed
// synchronously rather than one byte every two stalled cycles; the
// distinction is invisible to software since nothing can observe OAM mid-
// transfer, but the cycle cost is still charged in full.
func (b *Bus) triggerOAMDMA(page uint8) {
	stall := uint64(513)
	if b.CPUCycles%2 == 1 {
		stall = 514
	}
	b.CPU.Stall(stall)

	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAMByte(b.Read(base + uint16(i)))
	}
}

// Step runs one CPU instruction (or stall tick) to completion and keeps the
// PPU/APU in lockstep at the fixed 3:1:1 ratio.
func (b *Bus) Step() uint64 {
	b.CPU.RequestNMI(b.PPU.NMILine())
	b.CPU.RequestIRQ(b.APU.IRQLine() || b.Cart.IRQPending())

	before := b.CPU.Cycles()
	b.CPU.Step(b)
	cycles := b.CPU.Cycles() - before
	b.CPUCycles += cycles

	for i := uint64(0); i < cycles; i++ {
		b.PPU.Step()
		b.PPU.Step()
		b.PPU.Step()
		b.APU.Step()
		if b.PPU.FrameReady() {
			b.FrameCount++
		}
	}
	return cycles
}

// RunFrame steps the bus until a PPU frame completes.
func (b *Bus) RunFrame() {
	target := b.FrameCount + 1
	for b.FrameCount < target {
		b.Step()
	}
}

func (b *Bus) FrameBuffer() [256 * 240]uint32 {
	var out [256 * 240]uint32
	for i, px := range b.PPU.FrameBuffer {
		out[i] = uint32(px)
	}
	return out
}
