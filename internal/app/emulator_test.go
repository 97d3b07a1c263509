package app

import (
	"testing"

	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/debugger"
)

func buildEmulatorTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	data := make([]byte, 16+16*1024+8*1024)
	copy(data[0:4], []byte("NES\x1A"))
	data[4] = 1
	data[5] = 1

	prg := data[16 : 16+16*1024]
	prg[0], prg[1], prg[2] = 0x4C, 0x00, 0x80 // JMP $8000
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatalf("failed to build test cartridge: %v", err)
	}
	b := bus.New(cart.Mapper)
	b.Reset()
	return b
}

func TestEmulatorStepFrameAdvancesFrameCount(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())
	e.Start()

	if err := e.StepFrame(); err != nil {
		t.Fatalf("StepFrame returned error: %v", err)
	}

	if e.GetFrameCount() != 1 {
		t.Errorf("expected frame count 1, got %d", e.GetFrameCount())
	}
	if len(e.GetFrameBuffer()) != 256*240 {
		t.Errorf("expected frame buffer of 256*240 pixels, got %d", len(e.GetFrameBuffer()))
	}
}

func TestEmulatorStepInstructionAdvancesCycles(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())
	e.Start()

	before := e.GetCycleCount()
	if err := e.StepInstruction(); err != nil {
		t.Fatalf("StepInstruction returned error: %v", err)
	}
	if e.GetCycleCount() <= before {
		t.Errorf("expected cycle count to advance past %d, got %d", before, e.GetCycleCount())
	}
}

func TestEmulatorUpdateNoopWhenStopped(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())

	if err := e.Update(); err != nil {
		t.Fatalf("Update returned error while stopped: %v", err)
	}
	if e.GetFrameCount() != 0 {
		t.Errorf("expected no frames to run while stopped, got %d", e.GetFrameCount())
	}
}

func TestEmulatorUpdateDebugStopsAtBreakpoint(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())
	e.Start()

	dbg := debugger.New(b)
	dbg.AddBreakpoint(b.CPU.PC) // reset vector: the JMP there returns to it after the first step

	hit, err := e.UpdateDebug(dbg)
	if err != nil {
		t.Fatalf("UpdateDebug returned error: %v", err)
	}
	if !hit {
		t.Fatalf("expected UpdateDebug to report a breakpoint hit")
	}
	if pc, ok := dbg.LastBreakpointHit(); !ok || pc != b.CPU.PC {
		t.Errorf("expected LastBreakpointHit to report the reset-vector PC, got $%04X (ok=%v)", pc, ok)
	}
}

func TestEmulatorUpdateDebugRunsFullFrameWithoutBreakpoints(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())
	e.Start()

	dbg := debugger.New(b)
	if dbg.Armed() {
		t.Fatalf("expected a fresh debugger to report unarmed")
	}

	hit, err := e.UpdateDebug(dbg)
	if err != nil {
		t.Fatalf("UpdateDebug returned error: %v", err)
	}
	if hit {
		t.Fatalf("expected no breakpoint hit with none armed")
	}
	if e.GetFrameCount() != 1 {
		t.Errorf("expected frame count 1, got %d", e.GetFrameCount())
	}
}

func TestEmulatorResetClearsCounters(t *testing.T) {
	b := buildEmulatorTestBus(t)
	e := NewEmulator(b, NewConfig())
	e.Start()
	_ = e.StepFrame()

	e.Reset()

	if e.GetFrameCount() != 0 {
		t.Errorf("expected frame count reset to 0, got %d", e.GetFrameCount())
	}
}
