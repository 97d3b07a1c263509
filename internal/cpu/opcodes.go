package cpu

// initInstructions builds the 256-entry decode table. Opcodes not listed
// here stay nil; Step records an UnknownOpcode fault in CPU.Fault for them
// instead of panicking. execute() still needs a case for every opcode
// that reaches a register or memory effect (lax/sax/dcp/isc/slo/rla/sre/rra).
func (cpu *CPU) initInstructions() {
	add := func(op uint8, name string, mode AddressingMode, cycles uint8) {
		cpu.instructions[op] = &Instruction{Name: name, Mode: mode, Cycles: cycles}
	}

	// Load/Store
	add(0xA9, "LDA", Immediate, 2)
	add(0xA5, "LDA", ZeroPage, 3)
	add(0xB5, "LDA", ZeroPageX, 4)
	add(0xAD, "LDA", Absolute, 4)
	add(0xBD, "LDA", AbsoluteX, 4)
	add(0xB9, "LDA", AbsoluteY, 4)
	add(0xA1, "LDA", IndexedIndirect, 6)
	add(0xB1, "LDA", IndirectIndexed, 5)

	add(0xA2, "LDX", Immediate, 2)
	add(0xA6, "LDX", ZeroPage, 3)
	add(0xB6, "LDX", ZeroPageY, 4)
	add(0xAE, "LDX", Absolute, 4)
	add(0xBE, "LDX", AbsoluteY, 4)

	add(0xA0, "LDY", Immediate, 2)
	add(0xA4, "LDY", ZeroPage, 3)
	add(0xB4, "LDY", ZeroPageX, 4)
	add(0xAC, "LDY", Absolute, 4)
	add(0xBC, "LDY", AbsoluteX, 4)

	add(0x85, "STA", ZeroPage, 3)
	add(0x95, "STA", ZeroPageX, 4)
	add(0x8D, "STA", Absolute, 4)
	add(0x9D, "STA", AbsoluteX, 5)
	add(0x99, "STA", AbsoluteY, 5)
	add(0x81, "STA", IndexedIndirect, 6)
	add(0x91, "STA", IndirectIndexed, 6)

	add(0x86, "STX", ZeroPage, 3)
	add(0x96, "STX", ZeroPageY, 4)
	add(0x8E, "STX", Absolute, 4)

	add(0x84, "STY", ZeroPage, 3)
	add(0x94, "STY", ZeroPageX, 4)
	add(0x8C, "STY", Absolute, 4)

	// Transfers
	add(0xAA, "TAX", Implied, 2)
	add(0xA8, "TAY", Implied, 2)
	add(0xBA, "TSX", Implied, 2)
	add(0x8A, "TXA", Implied, 2)
	add(0x9A, "TXS", Implied, 2)
	add(0x98, "TYA", Implied, 2)

	// Stack
	add(0x48, "PHA", Implied, 3)
	add(0x08, "PHP", Implied, 3)
	add(0x68, "PLA", Implied, 4)
	add(0x28, "PLP", Implied, 4)

	// Arithmetic
	add(0x69, "ADC", Immediate, 2)
	add(0x65, "ADC", ZeroPage, 3)
	add(0x75, "ADC", ZeroPageX, 4)
	add(0x6D, "ADC", Absolute, 4)
	add(0x7D, "ADC", AbsoluteX, 4)
	add(0x79, "ADC", AbsoluteY, 4)
	add(0x61, "ADC", IndexedIndirect, 6)
	add(0x71, "ADC", IndirectIndexed, 5)

	add(0xE9, "SBC", Immediate, 2)
	add(0xEB, "SBC", Immediate, 2) // unofficial duplicate
	add(0xE5, "SBC", ZeroPage, 3)
	add(0xF5, "SBC", ZeroPageX, 4)
	add(0xED, "SBC", Absolute, 4)
	add(0xFD, "SBC", AbsoluteX, 4)
	add(0xF9, "SBC", AbsoluteY, 4)
	add(0xE1, "SBC", IndexedIndirect, 6)
	add(0xF1, "SBC", IndirectIndexed, 5)

	// Logical
	add(0x29, "AND", Immediate, 2)
	add(0x25, "AND", ZeroPage, 3)
	add(0x35, "AND", ZeroPageX, 4)
	add(0x2D, "AND", Absolute, 4)
	add(0x3D, "AND", AbsoluteX, 4)
	add(0x39, "AND", AbsoluteY, 4)
	add(0x21, "AND", IndexedIndirect, 6)
	add(0x31, "AND", IndirectIndexed, 5)

	add(0x09, "ORA", Immediate, 2)
	add(0x05, "ORA", ZeroPage, 3)
	add(0x15, "ORA", ZeroPageX, 4)
	add(0x0D, "ORA", Absolute, 4)
	add(0x1D, "ORA", AbsoluteX, 4)
	add(0x19, "ORA", AbsoluteY, 4)
	add(0x01, "ORA", IndexedIndirect, 6)
	add(0x11, "ORA", IndirectIndexed, 5)

	add(0x49, "EOR", Immediate, 2)
	add(0x45, "EOR", ZeroPage, 3)
	add(0x55, "EOR", ZeroPageX, 4)
	add(0x4D, "EOR", Absolute, 4)
	add(0x5D, "EOR", AbsoluteX, 4)
	add(0x59, "EOR", AbsoluteY, 4)
	add(0x41, "EOR", IndexedIndirect, 6)
	add(0x51, "EOR", IndirectIndexed, 5)

	// Shifts
	add(0x0A, "ASL", Accumulator, 2)
	add(0x06, "ASL", ZeroPage, 5)
	add(0x16, "ASL", ZeroPageX, 6)
	add(0x0E, "ASL", Absolute, 6)
	add(0x1E, "ASL", AbsoluteX, 7)

	add(0x4A, "LSR", Accumulator, 2)
	add(0x46, "LSR", ZeroPage, 5)
	add(0x56, "LSR", ZeroPageX, 6)
	add(0x4E, "LSR", Absolute, 6)
	add(0x5E, "LSR", AbsoluteX, 7)

	add(0x2A, "ROL", Accumulator, 2)
	add(0x26, "ROL", ZeroPage, 5)
	add(0x36, "ROL", ZeroPageX, 6)
	add(0x2E, "ROL", Absolute, 6)
	add(0x3E, "ROL", AbsoluteX, 7)

	add(0x6A, "ROR", Accumulator, 2)
	add(0x66, "ROR", ZeroPage, 5)
	add(0x76, "ROR", ZeroPageX, 6)
	add(0x6E, "ROR", Absolute, 6)
	add(0x7E, "ROR", AbsoluteX, 7)

	// Increment/decrement
	add(0xE6, "INC", ZeroPage, 5)
	add(0xF6, "INC", ZeroPageX, 6)
	add(0xEE, "INC", Absolute, 6)
	add(0xFE, "INC", AbsoluteX, 7)
	add(0xC6, "DEC", ZeroPage, 5)
	add(0xD6, "DEC", ZeroPageX, 6)
	add(0xCE, "DEC", Absolute, 6)
	add(0xDE, "DEC", AbsoluteX, 7)
	add(0xE8, "INX", Implied, 2)
	add(0xC8, "INY", Implied, 2)
	add(0xCA, "DEX", Implied, 2)
	add(0x88, "DEY", Implied, 2)

	// Compare
	add(0xC9, "CMP", Immediate, 2)
	add(0xC5, "CMP", ZeroPage, 3)
	add(0xD5, "CMP", ZeroPageX, 4)
	add(0xCD, "CMP", Absolute, 4)
	add(0xDD, "CMP", AbsoluteX, 4)
	add(0xD9, "CMP", AbsoluteY, 4)
	add(0xC1, "CMP", IndexedIndirect, 6)
	add(0xD1, "CMP", IndirectIndexed, 5)
	add(0xE0, "CPX", Immediate, 2)
	add(0xE4, "CPX", ZeroPage, 3)
	add(0xEC, "CPX", Absolute, 4)
	add(0xC0, "CPY", Immediate, 2)
	add(0xC4, "CPY", ZeroPage, 3)
	add(0xCC, "CPY", Absolute, 4)

	// Branches
	add(0x90, "BCC", Relative, 2)
	add(0xB0, "BCS", Relative, 2)
	add(0xF0, "BEQ", Relative, 2)
	add(0xD0, "BNE", Relative, 2)
	add(0x10, "BPL", Relative, 2)
	add(0x30, "BMI", Relative, 2)
	add(0x50, "BVC", Relative, 2)
	add(0x70, "BVS", Relative, 2)

	// Jumps/subroutines
	add(0x4C, "JMP", Absolute, 3)
	add(0x6C, "JMP", Indirect, 5)
	add(0x20, "JSR", Absolute, 6)
	add(0x60, "RTS", Implied, 6)
	add(0x40, "RTI", Implied, 6)
	add(0x00, "BRK", Implied, 7)

	// Bit test
	add(0x24, "BIT", ZeroPage, 3)
	add(0x2C, "BIT", Absolute, 4)

	// Flags
	add(0x18, "CLC", Implied, 2)
	add(0x38, "SEC", Implied, 2)
	add(0x58, "CLI", Implied, 2)
	add(0x78, "SEI", Implied, 2)
	add(0xB8, "CLV", Implied, 2)
	add(0xD8, "CLD", Implied, 2)
	add(0xF8, "SED", Implied, 2)

	add(0xEA, "NOP", Implied, 2)

	// Undocumented opcodes stubbed as NOPs of the documented byte-length/
	// cycle count so the decoder never stalls on commercial ROMs that lean
	// on them as filler.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		add(op, "*NOP", Implied, 2)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		add(op, "*NOP", Immediate, 2)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		add(op, "*NOP", ZeroPage, 3)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		add(op, "*NOP", ZeroPageX, 4)
	}
	add(0x0C, "*NOP", Absolute, 4)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		add(op, "*NOP", AbsoluteX, 4)
	}

	// Unofficial combined opcodes that are common enough in test ROMs to
	// be worth real semantics rather than NOP stubs.
	add(0xA3, "LAX", IndexedIndirect, 6)
	add(0xA7, "LAX", ZeroPage, 3)
	add(0xAF, "LAX", Absolute, 4)
	add(0xB3, "LAX", IndirectIndexed, 5)
	add(0xB7, "LAX", ZeroPageY, 4)
	add(0xBF, "LAX", AbsoluteY, 4)

	add(0x83, "SAX", IndexedIndirect, 6)
	add(0x87, "SAX", ZeroPage, 3)
	add(0x8F, "SAX", Absolute, 4)
	add(0x97, "SAX", ZeroPageY, 4)

	add(0xC3, "DCP", IndexedIndirect, 8)
	add(0xC7, "DCP", ZeroPage, 5)
	add(0xCF, "DCP", Absolute, 6)
	add(0xD3, "DCP", IndirectIndexed, 8)
	add(0xD7, "DCP", ZeroPageX, 6)
	add(0xDB, "DCP", AbsoluteY, 7)
	add(0xDF, "DCP", AbsoluteX, 7)

	add(0xE3, "ISC", IndexedIndirect, 8)
	add(0xE7, "ISC", ZeroPage, 5)
	add(0xEF, "ISC", Absolute, 6)
	add(0xF3, "ISC", IndirectIndexed, 8)
	add(0xF7, "ISC", ZeroPageX, 6)
	add(0xFB, "ISC", AbsoluteY, 7)
	add(0xFF, "ISC", AbsoluteX, 7)

	add(0x03, "SLO", IndexedIndirect, 8)
	add(0x07, "SLO", ZeroPage, 5)
	add(0x0F, "SLO", Absolute, 6)
	add(0x13, "SLO", IndirectIndexed, 8)
	add(0x17, "SLO", ZeroPageX, 6)
	add(0x1B, "SLO", AbsoluteY, 7)
	add(0x1F, "SLO", AbsoluteX, 7)

	add(0x23, "RLA", IndexedIndirect, 8)
	add(0x27, "RLA", ZeroPage, 5)
	add(0x2F, "RLA", Absolute, 6)
	add(0x33, "RLA", IndirectIndexed, 8)
	add(0x37, "RLA", ZeroPageX, 6)
	add(0x3B, "RLA", AbsoluteY, 7)
	add(0x3F, "RLA", AbsoluteX, 7)

	add(0x43, "SRE", IndexedIndirect, 8)
	add(0x47, "SRE", ZeroPage, 5)
	add(0x4F, "SRE", Absolute, 6)
	add(0x53, "SRE", IndirectIndexed, 8)
	add(0x57, "SRE", ZeroPageX, 6)
	add(0x5B, "SRE", AbsoluteY, 7)
	add(0x5F, "SRE", AbsoluteX, 7)

	add(0x63, "RRA", IndexedIndirect, 8)
	add(0x67, "RRA", ZeroPage, 5)
	add(0x6F, "RRA", Absolute, 6)
	add(0x73, "RRA", IndirectIndexed, 8)
	add(0x77, "RRA", ZeroPageX, 6)
	add(0x7B, "RRA", AbsoluteY, 7)
	add(0x7F, "RRA", AbsoluteX, 7)
}

// execute dispatches opcode to its instruction body and returns any extra
// cycles (shift/RMW and branch-taken bookkeeping happens inline).
func (cpu *CPU) execute(opcode uint8, bus Bus, addr uint16) uint8 {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		cpu.A = bus.Read(addr)
		cpu.setZN(cpu.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		cpu.X = bus.Read(addr)
		cpu.setZN(cpu.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		cpu.Y = bus.Read(addr)
		cpu.setZN(cpu.Y)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		bus.Write(addr, cpu.A)
	case 0x86, 0x96, 0x8E:
		bus.Write(addr, cpu.X)
	case 0x84, 0x94, 0x8C:
		bus.Write(addr, cpu.Y)

	case 0xAA:
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
	case 0xA8:
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
	case 0xBA:
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
	case 0x8A:
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
	case 0x9A:
		cpu.SP = cpu.X
	case 0x98:
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)

	case 0x48:
		cpu.push(bus, cpu.A)
	case 0x08:
		cpu.push(bus, cpu.statusByte(true))
	case 0x68:
		cpu.A = cpu.pop(bus)
		cpu.setZN(cpu.A)
	case 0x28:
		cpu.restoreStatus(cpu.pop(bus))

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		cpu.adc(bus.Read(addr))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		cpu.adc(bus.Read(addr) ^ 0xFF)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		cpu.A &= bus.Read(addr)
		cpu.setZN(cpu.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		cpu.A |= bus.Read(addr)
		cpu.setZN(cpu.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		cpu.A ^= bus.Read(addr)
		cpu.setZN(cpu.A)

	case 0x0A:
		cpu.C = cpu.A&0x80 != 0
		cpu.A <<= 1
		cpu.setZN(cpu.A)
	case 0x06, 0x16, 0x0E, 0x1E:
		v := bus.Read(addr)
		cpu.C = v&0x80 != 0
		v <<= 1
		bus.Write(addr, v)
		cpu.setZN(v)
	case 0x4A:
		cpu.C = cpu.A&0x01 != 0
		cpu.A >>= 1
		cpu.setZN(cpu.A)
	case 0x46, 0x56, 0x4E, 0x5E:
		v := bus.Read(addr)
		cpu.C = v&0x01 != 0
		v >>= 1
		bus.Write(addr, v)
		cpu.setZN(v)
	case 0x2A:
		old := cpu.C
		cpu.C = cpu.A&0x80 != 0
		cpu.A <<= 1
		if old {
			cpu.A |= 1
		}
		cpu.setZN(cpu.A)
	case 0x26, 0x36, 0x2E, 0x3E:
		v := bus.Read(addr)
		old := cpu.C
		cpu.C = v&0x80 != 0
		v <<= 1
		if old {
			v |= 1
		}
		bus.Write(addr, v)
		cpu.setZN(v)
	case 0x6A:
		old := cpu.C
		cpu.C = cpu.A&0x01 != 0
		cpu.A >>= 1
		if old {
			cpu.A |= 0x80
		}
		cpu.setZN(cpu.A)
	case 0x66, 0x76, 0x6E, 0x7E:
		v := bus.Read(addr)
		old := cpu.C
		cpu.C = v&0x01 != 0
		v >>= 1
		if old {
			v |= 0x80
		}
		bus.Write(addr, v)
		cpu.setZN(v)

	case 0xE6, 0xF6, 0xEE, 0xFE:
		v := bus.Read(addr) + 1
		bus.Write(addr, v)
		cpu.setZN(v)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		v := bus.Read(addr) - 1
		bus.Write(addr, v)
		cpu.setZN(v)
	case 0xE8:
		cpu.X++
		cpu.setZN(cpu.X)
	case 0xC8:
		cpu.Y++
		cpu.setZN(cpu.Y)
	case 0xCA:
		cpu.X--
		cpu.setZN(cpu.X)
	case 0x88:
		cpu.Y--
		cpu.setZN(cpu.Y)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		cpu.compare(cpu.A, bus.Read(addr))
	case 0xE0, 0xE4, 0xEC:
		cpu.compare(cpu.X, bus.Read(addr))
	case 0xC0, 0xC4, 0xCC:
		cpu.compare(cpu.Y, bus.Read(addr))

	case 0x90:
		return cpu.branch(!cpu.C, addr)
	case 0xB0:
		return cpu.branch(cpu.C, addr)
	case 0xF0:
		return cpu.branch(cpu.Z, addr)
	case 0xD0:
		return cpu.branch(!cpu.Z, addr)
	case 0x10:
		return cpu.branch(!cpu.N, addr)
	case 0x30:
		return cpu.branch(cpu.N, addr)
	case 0x50:
		return cpu.branch(!cpu.V, addr)
	case 0x70:
		return cpu.branch(cpu.V, addr)

	case 0x4C, 0x6C:
		cpu.PC = addr
	case 0x20:
		cpu.pushWord(bus, cpu.PC-1)
		cpu.PC = addr
	case 0x60:
		cpu.PC = cpu.popWord(bus) + 1
	case 0x40:
		cpu.restoreStatus(cpu.pop(bus))
		cpu.PC = cpu.popWord(bus)
	case 0x00:
		cpu.PC++ // BRK's padding byte
		cpu.dispatch(bus, irqVector, true)

	case 0x24, 0x2C:
		v := bus.Read(addr)
		cpu.N = v&nFlagMask != 0
		cpu.V = v&vFlagMask != 0
		cpu.Z = cpu.A&v == 0

	case 0x18:
		cpu.C = false
	case 0x38:
		cpu.C = true
	case 0x58:
		cpu.I = false
	case 0x78:
		cpu.I = true
	case 0xB8:
		cpu.V = false
	case 0xD8:
		cpu.D = false
	case 0xF8:
		cpu.D = true

	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
		0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		if addr != 0 {
			bus.Read(addr) // dummy read, matches real bus cycle usage
		}

	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF:
		cpu.A = bus.Read(addr)
		cpu.X = cpu.A
		cpu.setZN(cpu.A)
	case 0x83, 0x87, 0x8F, 0x97:
		bus.Write(addr, cpu.A&cpu.X)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDB, 0xDF:
		v := bus.Read(addr) - 1
		bus.Write(addr, v)
		cpu.compare(cpu.A, v)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF:
		v := bus.Read(addr) + 1
		bus.Write(addr, v)
		cpu.adc(v ^ 0xFF)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F:
		v := bus.Read(addr)
		cpu.C = v&0x80 != 0
		v <<= 1
		bus.Write(addr, v)
		cpu.A |= v
		cpu.setZN(cpu.A)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3B, 0x3F:
		v := bus.Read(addr)
		old := cpu.C
		cpu.C = v&0x80 != 0
		v <<= 1
		if old {
			v |= 1
		}
		bus.Write(addr, v)
		cpu.A &= v
		cpu.setZN(cpu.A)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5B, 0x5F:
		v := bus.Read(addr)
		cpu.C = v&0x01 != 0
		v >>= 1
		bus.Write(addr, v)
		cpu.A ^= v
		cpu.setZN(cpu.A)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7B, 0x7F:
		v := bus.Read(addr)
		old := cpu.C
		cpu.C = v&0x01 != 0
		v >>= 1
		if old {
			v |= 0x80
		}
		bus.Write(addr, v)
		cpu.adc(v)
	}
	return 0
}

// adc is shared by ADC and (bit-inverted operand) SBC: both are the same
// 6502 adder, decimal mode never applies on this variant.
func (cpu *CPU) adc(value uint8) {
	carry := uint16(0)
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry
	cpu.V = (cpu.A^uint8(result))&0x80 != 0 && (cpu.A^value)&0x80 == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) compare(reg, value uint8) {
	cpu.C = reg >= value
	result := reg - value
	cpu.setZN(result)
}

// branch implements the relative-branch cycle contract: +1 if taken, +1
// more if the branch target lands on a different page.
func (cpu *CPU) branch(take bool, target uint16) uint8 {
	if !take {
		return 0
	}
	oldPage := cpu.PC & pageMask
	cpu.PC = target
	if target&pageMask != oldPage {
		return 2
	}
	return 1
}
