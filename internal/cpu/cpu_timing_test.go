package cpu

import "testing"

func TestCycles_AccumulateAcrossSteps(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.LoadProgram(0x8000, 0xEA, 0xEA, 0xEA) // three NOPs

	before := h.CPU.Cycles()
	for i := 0; i < 3; i++ {
		h.CPU.Step(h.Mem)
	}
	if got := h.CPU.Cycles() - before; got != 6 {
		t.Errorf("expected 6 accumulated cycles after three NOPs, got %d", got)
	}
}

func TestRMW_InstructionCompletesBeforeInterruptServiced(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFE, 0x00, 0xD0)
	h.LoadProgram(0x8000, 0xFE, 0x00, 0x30) // INC $3000,X
	h.CPU.X = 0x10
	h.Mem.SetByte(0x3010, 0x55)
	h.CPU.I = false

	cycles := h.CPU.Step(h.Mem)
	// The IRQ line rises while the INC is executing; Step samples it only
	// before the next fetch.
	h.CPU.RequestIRQ(true)

	if cycles != 7 {
		t.Errorf("expected the in-flight INC to finish uninterrupted, got %d cycles", cycles)
	}
	if got := h.Mem.Read(0x3010); got != 0x56 {
		t.Errorf("expected INC to complete before the IRQ is serviced, got %02X", got)
	}

	// IRQ is serviced on the following Step call, before the next fetch.
	h.CPU.Step(h.Mem)
	if h.CPU.PC != 0xD000 {
		t.Errorf("expected IRQ serviced on the next Step, got PC=%04X", h.CPU.PC)
	}
}

func TestReset_ConsumesSevenCycles(t *testing.T) {
	h := NewCPUTestHelper()
	h.Mem.SetBytes(0xFFFC, 0x00, 0x80)
	h.CPU.Reset(h.Mem)
	if h.CPU.Cycles() != 7 {
		t.Errorf("expected 7 cycles consumed by reset, got %d", h.CPU.Cycles())
	}
}
