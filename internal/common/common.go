// Package common holds fixed-width types, the system color palette and
// error variants shared across the emulator core.
package common

import "fmt"

// Byte and Word name the bus-visible addressable units. The NES is
// little-endian when a word is assembled from two memory reads.
type Byte = uint8
type Word = uint16

// Pixel is a resolved RGB color, alpha-free (0x00RRGGBB), ready to hand to a
// host blit surface.
type Pixel uint32

// FrameWidth and FrameHeight are the fixed NES picture dimensions.
const (
	FrameWidth  = 256
	FrameHeight = 240
)

// FrameBuffer holds one resolved frame of FrameWidth*FrameHeight pixels.
type FrameBuffer = [FrameWidth * FrameHeight]Pixel

// NTSCPalette is the 64-entry system palette, NES 2C02 NTSC values. Index
// comes from the 6-bit palette RAM contents (with emphasis bits masked off
// by callers that care about them).
var NTSCPalette = [64]Pixel{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFF29B, 0xBEFBB3, 0xB8F8D8, 0xB8F8F8, 0x000000, 0x000000, 0x000000,
}

// ResolveColor maps a 6-bit palette index (0-63) to its RGB pixel, masking
// off any emphasis/extra bits a caller passes in by accident.
func ResolveColor(index uint8) Pixel {
	return NTSCPalette[index&0x3F]
}

// MirrorMode describes how the two physical nametables are wired to the
// PPU's four logical nametable slots.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreenLower
	MirrorSingleScreenUpper
	MirrorFourScreen
)

// RomFormatError reports a malformed cartridge container.
type RomFormatError struct {
	Reason string
}

func (e *RomFormatError) Error() string { return fmt.Sprintf("rom format: %s", e.Reason) }

// UnsupportedMapperError reports an iNES mapper number the cartridge loader
// has no Mapper variant for.
type UnsupportedMapperError struct {
	Number uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper: %d", e.Number)
}

// MemoryAccessError indicates an internal addressing bug: an access reached
// a region no component claims. It should never surface from a correctly
// wired bus; seeing one means a mapping table has a hole.
type MemoryAccessError struct {
	Addr Word
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access: unmapped address $%04X", e.Addr)
}

// CpuFault is recorded in CPU.Fault by CPU.Step when execution cannot continue. The host
// must Reset or Restore the emulator after seeing one.
type CpuFault struct {
	UnknownOpcode *uint8
	BusAddr       *Word
}

func (e *CpuFault) Error() string {
	if e.UnknownOpcode != nil {
		return fmt.Sprintf("cpu fault: unknown opcode $%02X", *e.UnknownOpcode)
	}
	if e.BusAddr != nil {
		return fmt.Sprintf("cpu fault: bus error at $%04X", *e.BusAddr)
	}
	return "cpu fault"
}

// UnknownOpcodeFault builds a CpuFault for an undecodable opcode byte.
func UnknownOpcodeFault(opcode uint8) *CpuFault {
	return &CpuFault{UnknownOpcode: &opcode}
}

// BusFault builds a CpuFault wrapping a failed bus access at addr.
func BusFault(addr Word) *CpuFault {
	return &CpuFault{BusAddr: &addr}
}

// SerializationError reports a save-state blob that failed to parse or that
// carries a version this build does not understand.
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string { return fmt.Sprintf("serialization: %s", e.Reason) }
