package cpu

// Snapshot is the opaque, serializable capture of every register and
// latch needed to resume execution exactly where it left off.
type Snapshot struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, V, N bool

	Cycles      uint64
	StallCycles uint64

	NMIPrevious bool
	NMIPending  bool
	IRQLine     bool
}

func (cpu *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC,
		C: cpu.C, Z: cpu.Z, I: cpu.I, D: cpu.D, V: cpu.V, N: cpu.N,
		Cycles:      cpu.cycles,
		StallCycles: cpu.stallCycles,
		NMIPrevious: cpu.nmiPrevious,
		NMIPending:  cpu.nmiPending,
		IRQLine:     cpu.irqLine,
	}
}

func (cpu *CPU) Restore(s Snapshot) {
	cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC = s.A, s.X, s.Y, s.SP, s.PC
	cpu.C, cpu.Z, cpu.I, cpu.D, cpu.V, cpu.N = s.C, s.Z, s.I, s.D, s.V, s.N
	cpu.cycles = s.Cycles
	cpu.stallCycles = s.StallCycles
	cpu.nmiPrevious = s.NMIPrevious
	cpu.nmiPending = s.NMIPending
	cpu.irqLine = s.IRQLine
	cpu.Fault = nil
}
