// Package app provides emulator integration for the main application.
package app

import (
	"fmt"
	"time"

	"gones/internal/bus"
	"gones/internal/debugger"
)

// Emulator drives the Bus at a fixed 60Hz frame cadence and exposes the
// frame buffer and audio samples the graphics backend needs each tick.
type Emulator struct {
	bus    *bus.Bus
	config *Config

	targetFrameTime time.Duration

	frameBuffer  []uint32
	audioSamples []float32

	actualFrameTime  time.Duration
	emulationTime    time.Duration
	cycleCount       uint64
	frameCount       uint64
	averageFrameTime time.Duration

	isRunning     bool
	lastResetTime time.Time
}

// NewEmulator wires an emulator around an already-reset Bus.
func NewEmulator(bus *bus.Bus, config *Config) *Emulator {
	e := &Emulator{
		bus:             bus,
		config:          config,
		targetFrameTime: time.Second / 60,
		frameBuffer:     make([]uint32, 256*240),
		audioSamples:    make([]float32, 0, 1024),
	}
	e.Reset()
	return e
}

func (e *Emulator) Reset() {
	e.lastResetTime = time.Now()
	e.actualFrameTime = 0
	e.emulationTime = 0
	e.cycleCount = 0
	e.frameCount = 0
	e.averageFrameTime = 0
	for i := range e.frameBuffer {
		e.frameBuffer[i] = 0
	}
	e.audioSamples = e.audioSamples[:0]
}

func (e *Emulator) Start() { e.isRunning = true }
func (e *Emulator) Stop()  { e.isRunning = false }

// Update runs exactly one PPU frame's worth of emulation, the way
// Ebitengine's Update callback expects to be driven at 60Hz.
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}
	start := time.Now()
	if err := e.StepFrame(); err != nil {
		return fmt.Errorf("frame execution error: %w", err)
	}
	e.actualFrameTime = time.Since(start)
	e.updateAverageFrameTime()
	return nil
}

// UpdateDebug is Update's counterpart for when a Debugger has breakpoints or
// watchpoints armed: it drives the frame through dbg.StepUntilFrame instead
// of Bus.RunFrame, so a hit breakpoint actually stops the frame loop.
func (e *Emulator) UpdateDebug(dbg *debugger.Debugger) (breakpointHit bool, err error) {
	if !e.isRunning {
		return false, nil
	}
	start := time.Now()
	breakpointHit, err = e.StepFrameDebug(dbg)
	if err != nil {
		return false, fmt.Errorf("frame execution error: %w", err)
	}
	e.actualFrameTime = time.Since(start)
	e.updateAverageFrameTime()
	return breakpointHit, nil
}

// StepFrame runs the Bus until one PPU frame completes and pulls the
// resulting frame buffer and drained audio samples.
func (e *Emulator) StepFrame() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	emulationStart := time.Now()
	e.bus.RunFrame()
	e.finishFrame(emulationStart)
	return nil
}

// StepFrameDebug drives the same one-frame advance as StepFrame, but through
// dbg.StepUntilFrame instead of Bus.RunFrame, so a breakpoint armed on dbg
// can actually halt mid-frame. It reports whether a breakpoint stopped
// emulation before the frame completed; the frame/audio buffers still
// reflect whatever state the Bus reached.
func (e *Emulator) StepFrameDebug(dbg *debugger.Debugger) (breakpointHit bool, err error) {
	if e.bus == nil {
		return false, fmt.Errorf("bus not initialized")
	}
	emulationStart := time.Now()
	breakpointHit = dbg.StepUntilFrame()
	e.finishFrame(emulationStart)
	return breakpointHit, nil
}

// finishFrame pulls the frame buffer and drained audio samples off the Bus
// and updates timing/cycle bookkeeping; shared by StepFrame and
// StepFrameDebug since both advance the Bus by exactly one frame before
// calling it.
func (e *Emulator) finishFrame(emulationStart time.Time) {
	e.frameCount++

	fb := e.bus.FrameBuffer()
	if len(fb) == len(e.frameBuffer) {
		copy(e.frameBuffer, fb[:])
	}

	samples := e.bus.APU.DrainSamples()
	if len(samples) > 0 {
		if cap(e.audioSamples) < len(samples) {
			e.audioSamples = make([]float32, len(samples))
		} else {
			e.audioSamples = e.audioSamples[:len(samples)]
		}
		copy(e.audioSamples, samples)
	} else {
		e.audioSamples = e.audioSamples[:0]
	}

	e.emulationTime = time.Since(emulationStart)
	e.cycleCount = e.bus.CPUCycles
}

// StepInstruction executes exactly one CPU instruction.
func (e *Emulator) StepInstruction() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	e.bus.Step()
	e.cycleCount = e.bus.CPUCycles
	return nil
}

func (e *Emulator) updateAverageFrameTime() {
	if e.averageFrameTime == 0 {
		e.averageFrameTime = e.actualFrameTime
		return
	}
	e.averageFrameTime = time.Duration(
		float64(e.averageFrameTime)*0.95 + float64(e.actualFrameTime)*0.05,
	)
}

func (e *Emulator) GetFrameBuffer() []uint32   { return e.frameBuffer }
func (e *Emulator) GetAudioSamples() []float32 { return e.audioSamples }
func (e *Emulator) GetFrameCount() uint64      { return e.frameCount }
func (e *Emulator) GetCycleCount() uint64      { return e.cycleCount }
func (e *Emulator) IsRunning() bool            { return e.isRunning }
func (e *Emulator) GetUptime() time.Duration   { return time.Since(e.lastResetTime) }

func (e *Emulator) GetActualFrameTime() time.Duration  { return e.actualFrameTime }
func (e *Emulator) GetAverageFrameTime() time.Duration { return e.averageFrameTime }
func (e *Emulator) GetTargetFrameTime() time.Duration  { return e.targetFrameTime }
func (e *Emulator) GetEmulationTime() time.Duration    { return e.emulationTime }

// GetEmulationSpeed reports the last frame's speed as a percentage of
// real-time (100 == exactly 60fps).
func (e *Emulator) GetEmulationSpeed() float64 {
	if e.actualFrameTime == 0 {
		return 0
	}
	return float64(e.targetFrameTime) / float64(e.actualFrameTime) * 100.0
}

func (e *Emulator) SetTargetFrameRate(fps int) {
	if fps > 0 {
		e.targetFrameTime = time.Second / time.Duration(fps)
	}
}

// EmulatorStats summarizes emulator timing for a debug overlay or log line.
type EmulatorStats struct {
	FrameCount       uint64
	CycleCount       uint64
	EmulationTime    time.Duration
	ActualFrameTime  time.Duration
	AverageFrameTime time.Duration
	TargetFrameTime  time.Duration
	EmulationSpeed   float64
	Uptime           time.Duration
	IsRunning        bool
}

func (e *Emulator) GetPerformanceStats() EmulatorStats {
	return EmulatorStats{
		FrameCount:       e.frameCount,
		CycleCount:       e.cycleCount,
		EmulationTime:    e.emulationTime,
		ActualFrameTime:  e.actualFrameTime,
		AverageFrameTime: e.averageFrameTime,
		TargetFrameTime:  e.targetFrameTime,
		EmulationSpeed:   e.GetEmulationSpeed(),
		Uptime:           e.GetUptime(),
		IsRunning:        e.isRunning,
	}
}

func (e *Emulator) Cleanup() error {
	e.Stop()
	e.frameBuffer = nil
	e.audioSamples = nil
	return nil
}
