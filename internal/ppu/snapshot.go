package ppu

import "gones/internal/common"

// Snapshot captures the PPU's registers, scroll latches, memory arrays and
// frame timing. Background shift registers, tile-fetch latches and the
// per-scanline sprite buffers are not captured; later fetches and sprite
// evaluation refill them.
type Snapshot struct {
	Ctrl, Mask, Status uint8
	OAMAddr            uint8
	OAM                [256]uint8

	V, T uint16
	X    uint8
	W    bool

	DataBuffer uint8

	Scanline int
	Cycle    int

	NMIOccurred bool
	FrameOdd    bool

	FrameBuffer [256 * 240]uint32
}

func (p *PPU) Snapshot() Snapshot {
	s := Snapshot{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status,
		OAMAddr:     p.oamAddr,
		OAM:         p.oam,
		V:           p.v,
		T:           p.t,
		X:           p.x,
		W:           p.w,
		DataBuffer:  p.dataBuffer,
		Scanline:    p.Scanline,
		Cycle:       p.Cycle,
		NMIOccurred: p.nmiOccurred,
		FrameOdd:    p.frameOdd,
	}
	for i, px := range p.FrameBuffer {
		s.FrameBuffer[i] = uint32(px)
	}
	return s
}

func (p *PPU) Restore(s Snapshot) {
	p.ctrl, p.mask, p.status = s.Ctrl, s.Mask, s.Status
	p.oamAddr = s.OAMAddr
	p.oam = s.OAM
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.dataBuffer = s.DataBuffer
	p.Scanline, p.Cycle = s.Scanline, s.Cycle
	p.nmiOccurred, p.frameOdd = s.NMIOccurred, s.FrameOdd
	for i, px := range s.FrameBuffer {
		p.FrameBuffer[i] = common.Pixel(px)
	}
}
