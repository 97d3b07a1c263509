// Package debugger adds breakpoints, watchpoints and instruction tracing
// on top of a running Bus, the way a development build's memory monitor
// would.
package debugger

import (
	"fmt"

	"gones/internal/bus"
)

// TraceEntry records one retired instruction's starting state.
type TraceEntry struct {
	PC     uint16
	Opcode uint8
	A, X, Y, SP uint8
	Cycle  uint64
}

const traceCapacity = 256

// Debugger wraps a Bus and intercepts Step to evaluate breakpoints and
// watchpoints between instructions. It never replaces the Bus's own
// Read/Write; watchpoints are evaluated by diffing a shadow value against
// what the Bus reports before and after each step.
type Debugger struct {
	bus *bus.Bus

	breakpoints map[uint16]bool
	watchpoints map[uint16]uint8

	trace    [traceCapacity]TraceEntry
	traceLen int
	traceNext int

	Logging bool
	Paused  bool

	lastBreakpointHit uint16
	breakpointHit     bool
}

func New(b *bus.Bus) *Debugger {
	return &Debugger{
		bus:         b,
		breakpoints: make(map[uint16]bool),
		watchpoints: make(map[uint16]uint8),
	}
}

func (d *Debugger) AddBreakpoint(pc uint16)    { d.breakpoints[pc] = true }
func (d *Debugger) RemoveBreakpoint(pc uint16) { delete(d.breakpoints, pc) }
func (d *Debugger) HasBreakpoint(pc uint16) bool {
	return d.breakpoints[pc]
}

// AddWatchpoint starts monitoring addr, capturing its current value as
// the baseline a later change is diffed against.
func (d *Debugger) AddWatchpoint(addr uint16) {
	d.watchpoints[addr] = d.bus.Read(addr)
}

func (d *Debugger) RemoveWatchpoint(addr uint16) { delete(d.watchpoints, addr) }

// Armed reports whether any breakpoint or watchpoint is configured. The app
// loop uses this to decide whether a frame needs to be driven instruction-
// by-instruction through Step (so breakpoints/watchpoints are actually
// consulted) or can go through the Bus's own RunFrame directly.
func (d *Debugger) Armed() bool {
	return len(d.breakpoints) > 0 || len(d.watchpoints) > 0
}

// Step runs exactly one CPU instruction, recording it into the trace ring
// buffer and checking watchpoints for changes. It returns whether the PC
// reached after the step sits on a breakpoint, in which case Paused is
// also set so a caller driving a run loop can stop.
func (d *Debugger) Step() bool {
	entry := TraceEntry{
		PC:     d.bus.CPU.PC,
		A:      d.bus.CPU.A,
		X:      d.bus.CPU.X,
		Y:      d.bus.CPU.Y,
		SP:     d.bus.CPU.SP,
		Cycle:  d.bus.CPU.Cycles(),
		Opcode: d.bus.Read(d.bus.CPU.PC),
	}
	d.recordTrace(entry)

	d.bus.Step()

	d.checkWatchpoints()

	if d.breakpoints[d.bus.CPU.PC] {
		d.lastBreakpointHit = d.bus.CPU.PC
		d.breakpointHit = true
		d.Paused = true
		if d.Logging {
			fmt.Printf("[DEBUGGER] breakpoint hit at $%04X (cycle %d)\n", d.bus.CPU.PC, d.bus.CPU.Cycles())
		}
		return true
	}
	return false
}

// StepUntilFrame steps instructions one at a time, via Step, until the Bus
// completes a full PPU frame or a breakpoint is hit, whichever comes first.
// It is what the app's frame loop calls in place of Bus.RunFrame when
// breakpoints or watchpoints are armed, so spec.md's "breakpoint addresses
// consulted on each CPU fetch" is actually true of the running emulator and
// not just of the debugger's own tests.
func (d *Debugger) StepUntilFrame() (breakpointHit bool) {
	target := d.bus.FrameCount + 1
	for d.bus.FrameCount < target {
		if d.Step() {
			return true
		}
	}
	return false
}

// Run steps until a breakpoint is hit or maxSteps instructions have run,
// whichever comes first. maxSteps <= 0 means no limit.
func (d *Debugger) Run(maxSteps int) {
	d.Paused = false
	d.breakpointHit = false
	for i := 0; maxSteps <= 0 || i < maxSteps; i++ {
		if d.Step() {
			return
		}
	}
}

func (d *Debugger) checkWatchpoints() {
	for addr, prev := range d.watchpoints {
		cur := d.bus.Read(addr)
		if cur != prev {
			if d.Logging {
				fmt.Printf("[DEBUGGER] watchpoint $%04X changed $%02X -> $%02X\n", addr, prev, cur)
			}
			d.watchpoints[addr] = cur
		}
	}
}

func (d *Debugger) recordTrace(e TraceEntry) {
	d.trace[d.traceNext] = e
	d.traceNext = (d.traceNext + 1) % traceCapacity
	if d.traceLen < traceCapacity {
		d.traceLen++
	}
}

// Trace returns up to the last traceCapacity retired instructions, oldest
// first.
func (d *Debugger) Trace() []TraceEntry {
	out := make([]TraceEntry, d.traceLen)
	start := d.traceNext - d.traceLen
	if start < 0 {
		start += traceCapacity
	}
	for i := 0; i < d.traceLen; i++ {
		out[i] = d.trace[(start+i)%traceCapacity]
	}
	return out
}

// LastBreakpointHit returns the PC of the most recent breakpoint hit and
// whether one has occurred since Run/Step started being called.
func (d *Debugger) LastBreakpointHit() (uint16, bool) {
	return d.lastBreakpointHit, d.breakpointHit
}
