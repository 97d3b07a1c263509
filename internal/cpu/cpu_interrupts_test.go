package cpu

import "testing"

func TestIRQ_ServicedWhenEnabled(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFE, 0x00, 0x90) // IRQ vector -> $9000
	h.CPU.PC = 0x8123
	h.CPU.SP = 0xFF
	h.CPU.I = false

	h.CPU.RequestIRQ(true)
	cycles := h.CPU.Step(h.Mem)

	if cycles != 7 {
		t.Errorf("expected 7 cycles for IRQ dispatch, got %d", cycles)
	}
	if h.CPU.PC != 0x9000 {
		t.Errorf("expected PC=0x9000, got %04X", h.CPU.PC)
	}
	if !h.CPU.I {
		t.Error("expected I flag set by IRQ dispatch")
	}
	if got := h.Mem.Read(0x01FF); got != 0x81 {
		t.Errorf("expected PC high byte 0x81 on stack, got %02X", got)
	}
	if got := h.Mem.Read(0x01FE); got != 0x23 {
		t.Errorf("expected PC low byte 0x23 on stack, got %02X", got)
	}
	if got := h.Mem.Read(0x01FD); got&bFlagMask != 0 {
		t.Error("expected break bit clear in status pushed by a hardware IRQ")
	}
}

func TestIRQ_MaskedByIFlag(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.PC = 0x8456
	h.LoadProgram(0x8456, 0xEA) // NOP: 2 cycles when the IRQ stays masked
	h.CPU.I = true

	h.CPU.RequestIRQ(true)
	cycles := h.CPU.Step(h.Mem)

	if cycles == 7 {
		t.Error("expected IRQ to be masked while I flag is set")
	}
}

func TestNMI_IgnoresIFlag(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFA, 0x00, 0xB0)
	h.CPU.PC = 0x8ABC
	h.CPU.I = true

	h.CPU.RequestNMI(true)
	cycles := h.CPU.Step(h.Mem)

	if cycles != 7 {
		t.Errorf("expected NMI to dispatch regardless of I flag, got %d cycles", cycles)
	}
	if h.CPU.PC != 0xB000 {
		t.Errorf("expected PC=0xB000, got %04X", h.CPU.PC)
	}
}

func TestNMI_EdgeTriggeredOnce(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFA, 0x00, 0xC0)

	h.CPU.RequestNMI(true) // rising edge, latched
	h.CPU.RequestNMI(true) // still high, no new edge
	h.CPU.Step(h.Mem)       // services the one latched NMI

	if h.CPU.PC != 0xC000 {
		t.Fatalf("expected NMI serviced once, got PC=%04X", h.CPU.PC)
	}

	// Holding the line high must not re-trigger; only a fresh low->high edge does.
	prevPC := h.CPU.PC
	h.LoadProgram(prevPC, 0xEA) // NOP at the NMI handler entry
	h.CPU.RequestNMI(true)
	h.CPU.Step(h.Mem)
	if h.CPU.PC != prevPC+1 {
		t.Error("expected a held-high NMI line not to re-trigger")
	}
}

func TestNMI_PriorityOverIRQ(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFA, 0x00, 0xA0) // NMI vector
	h.Mem.SetBytes(0xFFFE, 0x00, 0xB0) // IRQ vector
	h.CPU.I = false

	h.CPU.RequestNMI(true)
	h.CPU.RequestIRQ(true)
	h.CPU.Step(h.Mem)

	if h.CPU.PC != 0xA000 {
		t.Errorf("expected NMI to win priority over a pending IRQ, got PC=%04X", h.CPU.PC)
	}
}

func TestBRK_PushesBreakBitAndUsesIRQVector(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.Mem.SetBytes(0xFFFE, 0x00, 0xD0)
	h.LoadProgram(0x8000, 0x00) // BRK
	h.CPU.SP = 0xFF

	cycles := h.CPU.Step(h.Mem)
	if cycles != 7 {
		t.Errorf("expected BRK to take 7 cycles, got %d", cycles)
	}
	if h.CPU.PC != 0xD000 {
		t.Errorf("expected PC=0xD000, got %04X", h.CPU.PC)
	}
	if got := h.Mem.Read(0x01FD); got&bFlagMask == 0 {
		t.Error("expected break bit set in status pushed by BRK")
	}
	// BRK pushes PC+2 (opcode byte + padding byte)
	if got := h.Mem.Read(0x01FF); got != 0x80 {
		t.Errorf("expected PC high byte 0x80, got %02X", got)
	}
	if got := h.Mem.Read(0x01FE); got != 0x02 {
		t.Errorf("expected PC low byte 0x02, got %02X", got)
	}
}

func TestRTI_RestoresStatusButNotBreakBit(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.SP = 0xFC
	h.Mem.SetByte(0x01FD, 0xE7) // pulled status
	h.Mem.SetByte(0x01FE, 0x56)
	h.Mem.SetByte(0x01FF, 0x78)
	h.LoadProgram(0x8000, 0x40) // RTI

	cycles := h.CPU.Step(h.Mem)
	if cycles != 6 {
		t.Errorf("expected RTI to take 6 cycles, got %d", cycles)
	}
	if h.CPU.PC != 0x7856 {
		t.Errorf("expected PC restored from stack, got %04X", h.CPU.PC)
	}
	if h.CPU.SP != 0xFF {
		t.Errorf("expected SP restored to 0xFF, got %02X", h.CPU.SP)
	}
	if !h.CPU.I {
		t.Error("expected I flag restored from pulled status 0xE7")
	}
}

func TestStall_ConsumesCyclesWithoutFetching(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.LoadProgram(0x8000, 0xEA) // NOP, should NOT execute during the stall

	h.CPU.Stall(513)
	cycles := h.CPU.Step(h.Mem)
	if cycles != 513 {
		t.Errorf("expected stall to consume 513 cycles, got %d", cycles)
	}
	if h.CPU.PC != 0x8000 {
		t.Error("expected PC unchanged while stalled")
	}

	cycles = h.CPU.Step(h.Mem)
	if cycles != 2 || h.CPU.PC != 0x8001 {
		t.Error("expected normal fetch to resume once the stall is spent")
	}
}
