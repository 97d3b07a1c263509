// Package cpu implements the 6502 fetch/decode/execute core shared by every
// NES: registers, the 13 addressing modes, interrupt dispatch and the
// documented per-instruction cycle contract.
package cpu

import "gones/internal/common"

// AddressingMode names one of the 13 operand-addressing schemes.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask = 0x80
	vFlagMask = 0x40
	uFlagMask = 0x20
	bFlagMask = 0x10
	dFlagMask = 0x08
	iFlagMask = 0x04
	zFlagMask = 0x02
	cFlagMask = 0x01

	zeroPageMask = 0xFF
	pageMask     = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Bus is everything the CPU needs from its memory interconnect. The PPU,
// APU, controllers and mapper all hang off the concrete Bus type; the CPU
// only ever sees this narrow interface so its tests can stand alone.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Instruction is one row of the 256-entry opcode table.
type Instruction struct {
	Name   string
	Mode   AddressingMode
	Cycles uint8
}

// CPU is the 6502-family register file plus its decode table and pending
// interrupt lines. The live status byte never carries a Break bit per the
// hardware contract: Break only exists in the copy pushed to the stack.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, V, N bool

	cycles uint64

	stallCycles uint64

	nmiPrevious bool // previous sampled NMI-line level, for edge detection
	nmiPending  bool // edge latched, awaiting dispatch
	irqLine     bool // level-triggered, OR of every IRQ source

	instructions [256]*Instruction

	Fault error
}

// New builds a CPU with its opcode table initialized; registers hold
// power-on-adjacent values until Reset reads the reset vector from bus.
func New() *CPU {
	cpu := &CPU{SP: 0xFD}
	cpu.initInstructions()
	return cpu
}

// Reset reproduces the documented 6502 reset sequence: registers to their
// power-on values, five dummy bus reads, then PC loaded from 0xFFFC/0xFFFD.
func (cpu *CPU) Reset(bus Bus) {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = 0xFD
	cpu.C, cpu.Z, cpu.V, cpu.N, cpu.D = false, false, false, false, false
	cpu.I = true

	for i := 0; i < 5; i++ {
		bus.Read(cpu.PC)
		cpu.cycles++
	}
	low := uint16(bus.Read(resetVector))
	high := uint16(bus.Read(resetVector + 1))
	cpu.PC = (high << 8) | low
	cpu.cycles += 2

	cpu.nmiPrevious, cpu.nmiPending, cpu.irqLine = false, false, false
	cpu.stallCycles = 0
	cpu.Fault = nil
}

// RequestNMI is the PPU's polled-flag-style edge source: call it with the
// current VBlank-NMI line level every time the PPU evaluates it, not just
// on the edge. The CPU does its own edge detection.
func (cpu *CPU) RequestNMI(level bool) {
	if level && !cpu.nmiPrevious {
		cpu.nmiPending = true
	}
	cpu.nmiPrevious = level
}

// RequestIRQ sets the level of the (shared, OR-wired) hardware IRQ line.
// Callers OR their own source's level into one aggregate before calling.
func (cpu *CPU) RequestIRQ(level bool) {
	cpu.irqLine = level
}

// Stall accounts for cycles the CPU loses to OAM DMA or DMC sample fetches:
// it does not fetch or execute anything until the stalled cycles are spent.
func (cpu *CPU) Stall(n uint64) {
	cpu.stallCycles += n
}

// Cycles is the running total cycle counter since the last Reset.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Step executes one instruction (or, if stalled, simply accounts for the
// stalled cycles) and returns the cycles consumed. Pending interrupts are
// serviced at the start of the call, before any stall or fetch, matching
// the "interrupts checked before each fetch" contract.
func (cpu *CPU) Step(bus Bus) uint64 {
	if cpu.Fault != nil {
		return 0
	}

	if cpu.stallCycles > 0 {
		n := cpu.stallCycles
		cpu.stallCycles = 0
		cpu.cycles += n
		return n
	}

	if serviced, cycles := cpu.serviceInterrupt(bus); serviced {
		return cycles
	}

	opcode := bus.Read(cpu.PC)
	instruction := cpu.instructions[opcode]
	if instruction == nil {
		cpu.Fault = common.UnknownOpcodeFault(opcode)
		return 0
	}

	address, pageCrossed := cpu.operandAddress(bus, instruction.Mode)
	extra := cpu.execute(opcode, bus, address)

	if pageCrossed && pageCrossPenalty(opcode) {
		extra++
	}

	total := uint64(instruction.Cycles) + uint64(extra)
	cpu.cycles += total
	return total
}

// serviceInterrupt dispatches a pending NMI, else an unmasked IRQ, per §4.1.
// Reset is not handled here; it goes through Reset.
func (cpu *CPU) serviceInterrupt(bus Bus) (bool, uint64) {
	switch {
	case cpu.nmiPending:
		cpu.nmiPending = false
		cpu.dispatch(bus, nmiVector, false)
		return true, 7
	case cpu.irqLine && !cpu.I:
		cpu.dispatch(bus, irqVector, false)
		return true, 7
	default:
		return false, 0
	}
}

// dispatch pushes PC and status and loads PC from vector. brk distinguishes
// a software BRK (live PC already advanced past the BRK byte, break bit set
// in the pushed status) from a hardware NMI/IRQ (live PC unmodified, break
// bit clear).
func (cpu *CPU) dispatch(bus Bus, vector uint16, brk bool) {
	cpu.pushWord(bus, cpu.PC)
	cpu.push(bus, cpu.statusByte(brk))
	cpu.I = true
	low := uint16(bus.Read(vector))
	high := uint16(bus.Read(vector + 1))
	cpu.PC = (high << 8) | low
}

// statusByte assembles the pushed status byte: break reflects whether this
// push originates from BRK, and the unused bit is always set.
func (cpu *CPU) statusByte(brk bool) uint8 {
	var b uint8
	set := func(cond bool, mask uint8) {
		if cond {
			b |= mask
		}
	}
	set(cpu.N, nFlagMask)
	set(cpu.V, vFlagMask)
	b |= uFlagMask
	set(brk, bFlagMask)
	set(cpu.D, dFlagMask)
	set(cpu.I, iFlagMask)
	set(cpu.Z, zFlagMask)
	set(cpu.C, cFlagMask)
	return b
}

// restoreStatus loads C/Z/I/D/V/N from a pulled status byte; Break and the
// unused bit are not stored back into the live register.
func (cpu *CPU) restoreStatus(b uint8) {
	cpu.N = b&nFlagMask != 0
	cpu.V = b&vFlagMask != 0
	cpu.D = b&dFlagMask != 0
	cpu.I = b&iFlagMask != 0
	cpu.Z = b&zFlagMask != 0
	cpu.C = b&cFlagMask != 0
}

func (cpu *CPU) push(bus Bus, value uint8) {
	bus.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop(bus Bus) uint8 {
	cpu.SP++
	return bus.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(bus Bus, value uint16) {
	cpu.push(bus, uint8(value>>8))
	cpu.push(bus, uint8(value&0xFF))
}

func (cpu *CPU) popWord(bus Bus) uint16 {
	low := uint16(cpu.pop(bus))
	high := uint16(cpu.pop(bus))
	return (high << 8) | low
}

func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// operandAddress advances PC past the instruction's operand bytes and
// returns the effective address plus whether a page boundary was crossed.
func (cpu *CPU) operandAddress(bus Bus, mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		cpu.PC++
		return 0, false

	case Immediate:
		addr := cpu.PC + 1
		cpu.PC += 2
		return addr, false

	case ZeroPage:
		addr := uint16(bus.Read(cpu.PC + 1))
		cpu.PC += 2
		return addr, false

	case ZeroPageX:
		base := bus.Read(cpu.PC + 1)
		addr := uint16((base + cpu.X) & zeroPageMask)
		cpu.PC += 2
		return addr, false

	case ZeroPageY:
		base := bus.Read(cpu.PC + 1)
		addr := uint16((base + cpu.Y) & zeroPageMask)
		cpu.PC += 2
		return addr, false

	case Relative:
		offset := int8(bus.Read(cpu.PC + 1))
		oldPC := cpu.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		cpu.PC = oldPC
		return newPC, (oldPC & pageMask) != (newPC & pageMask)

	case Absolute:
		low := uint16(bus.Read(cpu.PC + 1))
		high := uint16(bus.Read(cpu.PC + 2))
		cpu.PC += 3
		return (high << 8) | low, false

	case AbsoluteX:
		low := uint16(bus.Read(cpu.PC + 1))
		high := uint16(bus.Read(cpu.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(cpu.X)
		cpu.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case AbsoluteY:
		low := uint16(bus.Read(cpu.PC + 1))
		high := uint16(bus.Read(cpu.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(cpu.Y)
		cpu.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case Indirect:
		lowPtr := uint16(bus.Read(cpu.PC + 1))
		highPtr := uint16(bus.Read(cpu.PC + 2))
		ptr := (highPtr << 8) | lowPtr
		var addr uint16
		if ptr&zeroPageMask == zeroPageMask {
			low := uint16(bus.Read(ptr))
			high := uint16(bus.Read(ptr & pageMask))
			addr = (high << 8) | low
		} else {
			low := uint16(bus.Read(ptr))
			high := uint16(bus.Read(ptr + 1))
			addr = (high << 8) | low
		}
		cpu.PC += 3
		return addr, false

	case IndexedIndirect:
		base := bus.Read(cpu.PC + 1)
		ptr := (base + cpu.X) & zeroPageMask
		low := uint16(bus.Read(uint16(ptr)))
		high := uint16(bus.Read(uint16((ptr + 1) & zeroPageMask)))
		cpu.PC += 2
		return (high << 8) | low, false

	case IndirectIndexed:
		ptr := uint16(bus.Read(cpu.PC + 1))
		low := uint16(bus.Read(ptr))
		high := uint16(bus.Read((ptr + 1) & zeroPageMask))
		base := (high << 8) | low
		addr := base + uint16(cpu.Y)
		cpu.PC += 2
		return addr, (base & pageMask) != (addr & pageMask)

	default:
		return 0, false
	}
}

// pageCrossPenalty reports whether opcode takes the +1 cycle on a page
// cross. Store instructions never do; reads, compares and a handful of
// undocumented NOPs do.
func pageCrossPenalty(opcode uint8) bool {
	switch opcode {
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC,
		0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51,
		0xDD, 0xD9, 0xD1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3:
		return true
	}
	return false
}
