package apu

// pulseSnapshot, triangleSnapshot, noiseSnapshot and dmcSnapshot mirror
// the unexported channel structs field for field so a save state can
// cross a process boundary without exposing the channel internals
// themselves.
type pulseSnapshot struct {
	DutyCycle       uint8
	EnvelopeLoop    bool
	EnvelopeDisable bool
	Volume          uint8

	SweepEnable  bool
	SweepPeriod  uint8
	SweepNegate  bool
	SweepShift   uint8
	SweepReload  bool
	SweepCounter uint8

	Timer        uint16
	TimerCounter uint16

	LengthCounter uint8
	LengthHalt    bool

	EnvelopeStart   bool
	EnvelopeCounter uint8
	EnvelopeDivider uint8

	DutyIndex    uint8
	SequencerPos uint8
}

func snapshotPulse(p *pulseChannel) pulseSnapshot {
	return pulseSnapshot{
		DutyCycle: p.dutyCycle, EnvelopeLoop: p.envelopeLoop, EnvelopeDisable: p.envelopeDisable, Volume: p.volume,
		SweepEnable: p.sweepEnable, SweepPeriod: p.sweepPeriod, SweepNegate: p.sweepNegate, SweepShift: p.sweepShift,
		SweepReload: p.sweepReload, SweepCounter: p.sweepCounter,
		Timer: p.timer, TimerCounter: p.timerCounter,
		LengthCounter: p.lengthCounter, LengthHalt: p.lengthHalt,
		EnvelopeStart: p.envelopeStart, EnvelopeCounter: p.envelopeCounter, EnvelopeDivider: p.envelopeDivider,
		DutyIndex: p.dutyIndex, SequencerPos: p.sequencerPos,
	}
}

func restorePulse(p *pulseChannel, s pulseSnapshot) {
	p.dutyCycle, p.envelopeLoop, p.envelopeDisable, p.volume = s.DutyCycle, s.EnvelopeLoop, s.EnvelopeDisable, s.Volume
	p.sweepEnable, p.sweepPeriod, p.sweepNegate, p.sweepShift = s.SweepEnable, s.SweepPeriod, s.SweepNegate, s.SweepShift
	p.sweepReload, p.sweepCounter = s.SweepReload, s.SweepCounter
	p.timer, p.timerCounter = s.Timer, s.TimerCounter
	p.lengthCounter, p.lengthHalt = s.LengthCounter, s.LengthHalt
	p.envelopeStart, p.envelopeCounter, p.envelopeDivider = s.EnvelopeStart, s.EnvelopeCounter, s.EnvelopeDivider
	p.dutyIndex, p.sequencerPos = s.DutyIndex, s.SequencerPos
}

type triangleSnapshot struct {
	LengthCounterHalt bool
	LinearCounterLoad uint8

	Timer        uint16
	TimerCounter uint16

	LengthCounter uint8

	LinearCounter       uint8
	LinearCounterReload bool

	SequencerPos uint8
}

func snapshotTriangle(tr *triangleChannel) triangleSnapshot {
	return triangleSnapshot{
		LengthCounterHalt: tr.lengthCounterHalt, LinearCounterLoad: tr.linearCounterLoad,
		Timer: tr.timer, TimerCounter: tr.timerCounter,
		LengthCounter:       tr.lengthCounter,
		LinearCounter:       tr.linearCounter,
		LinearCounterReload: tr.linearCounterReload,
		SequencerPos:        tr.sequencerPos,
	}
}

func restoreTriangle(tr *triangleChannel, s triangleSnapshot) {
	tr.lengthCounterHalt, tr.linearCounterLoad = s.LengthCounterHalt, s.LinearCounterLoad
	tr.timer, tr.timerCounter = s.Timer, s.TimerCounter
	tr.lengthCounter = s.LengthCounter
	tr.linearCounter, tr.linearCounterReload = s.LinearCounter, s.LinearCounterReload
	tr.sequencerPos = s.SequencerPos
}

type noiseSnapshot struct {
	EnvelopeLoop    bool
	EnvelopeDisable bool
	Volume          uint8

	Mode         bool
	PeriodIndex  uint8
	TimerCounter uint16

	LengthCounter uint8
	LengthHalt    bool

	EnvelopeStart   bool
	EnvelopeCounter uint8
	EnvelopeDivider uint8

	ShiftRegister uint16
}

func snapshotNoise(n *noiseChannel) noiseSnapshot {
	return noiseSnapshot{
		EnvelopeLoop: n.envelopeLoop, EnvelopeDisable: n.envelopeDisable, Volume: n.volume,
		Mode: n.mode, PeriodIndex: n.periodIndex, TimerCounter: n.timerCounter,
		LengthCounter: n.lengthCounter, LengthHalt: n.lengthHalt,
		EnvelopeStart: n.envelopeStart, EnvelopeCounter: n.envelopeCounter, EnvelopeDivider: n.envelopeDivider,
		ShiftRegister: n.shiftRegister,
	}
}

func restoreNoise(n *noiseChannel, s noiseSnapshot) {
	n.envelopeLoop, n.envelopeDisable, n.volume = s.EnvelopeLoop, s.EnvelopeDisable, s.Volume
	n.mode, n.periodIndex, n.timerCounter = s.Mode, s.PeriodIndex, s.TimerCounter
	n.lengthCounter, n.lengthHalt = s.LengthCounter, s.LengthHalt
	n.envelopeStart, n.envelopeCounter, n.envelopeDivider = s.EnvelopeStart, s.EnvelopeCounter, s.EnvelopeDivider
	n.shiftRegister = s.ShiftRegister
	if n.shiftRegister == 0 {
		n.shiftRegister = 1
	}
}

type dmcSnapshot struct {
	IRQEnable bool
	Loop      bool
	RateIndex uint8

	OutputLevel uint8

	SampleAddress uint16
	SampleLength  uint16

	TimerCounter      uint16
	SampleBuffer      uint8
	SampleBufferBits  uint8
	SampleBufferEmpty bool
	BytesRemaining    uint16
	CurrentAddress    uint16

	IRQFlag bool
}

func snapshotDMC(d *dmcChannel) dmcSnapshot {
	return dmcSnapshot{
		IRQEnable: d.irqEnable, Loop: d.loop, RateIndex: d.rateIndex,
		OutputLevel:   d.outputLevel,
		SampleAddress: d.sampleAddress, SampleLength: d.sampleLength,
		TimerCounter: d.timerCounter, SampleBuffer: d.sampleBuffer, SampleBufferBits: d.sampleBufferBits,
		SampleBufferEmpty: d.sampleBufferEmpty, BytesRemaining: d.bytesRemaining, CurrentAddress: d.currentAddress,
		IRQFlag: d.irqFlag,
	}
}

func restoreDMC(d *dmcChannel, s dmcSnapshot) {
	d.irqEnable, d.loop, d.rateIndex = s.IRQEnable, s.Loop, s.RateIndex
	d.outputLevel = s.OutputLevel
	d.sampleAddress, d.sampleLength = s.SampleAddress, s.SampleLength
	d.timerCounter, d.sampleBuffer, d.sampleBufferBits = s.TimerCounter, s.SampleBuffer, s.SampleBufferBits
	d.sampleBufferEmpty, d.bytesRemaining, d.currentAddress = s.SampleBufferEmpty, s.BytesRemaining, s.CurrentAddress
	d.irqFlag = s.IRQFlag
}

// Snapshot captures the full state of all five channels and the frame
// sequencer. It deliberately excludes the float32 sample buffer and
// sample-rate configuration, which are playback-side concerns rather
// than emulated hardware state.
type Snapshot struct {
	Pulse1   pulseSnapshot
	Pulse2   pulseSnapshot
	Triangle triangleSnapshot
	Noise    noiseSnapshot
	DMC      dmcSnapshot

	FrameCounter   uint16
	FrameMode      bool
	FrameIRQEnable bool
	FrameIRQFlag   bool

	ChannelEnable [5]bool

	Cycles uint64
}

func (apu *APU) Snapshot() Snapshot {
	return Snapshot{
		Pulse1:         snapshotPulse(&apu.pulse1),
		Pulse2:         snapshotPulse(&apu.pulse2),
		Triangle:       snapshotTriangle(&apu.triangle),
		Noise:          snapshotNoise(&apu.noise),
		DMC:            snapshotDMC(&apu.dmc),
		FrameCounter:   apu.frameCounter,
		FrameMode:      apu.frameMode,
		FrameIRQEnable: apu.frameIRQEnable,
		FrameIRQFlag:   apu.frameIRQFlag,
		ChannelEnable:  apu.channelEnable,
		Cycles:         apu.cycles,
	}
}

func (apu *APU) Restore(s Snapshot) {
	restorePulse(&apu.pulse1, s.Pulse1)
	restorePulse(&apu.pulse2, s.Pulse2)
	restoreTriangle(&apu.triangle, s.Triangle)
	restoreNoise(&apu.noise, s.Noise)
	restoreDMC(&apu.dmc, s.DMC)
	apu.frameCounter = s.FrameCounter
	apu.frameMode = s.FrameMode
	apu.frameIRQEnable = s.FrameIRQEnable
	apu.frameIRQFlag = s.FrameIRQFlag
	apu.channelEnable = s.ChannelEnable
	apu.cycles = s.Cycles
}
