// Package savestate persists a Bus snapshot to disk, slot by slot, the
// way the emulator's menu offers quick save/load.
package savestate

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"gones/internal/bus"
)

// Version is bumped whenever the Snapshot shape changes incompatibly.
// Restore refuses a file stamped with any other version rather than
// guessing at a migration.
const Version = 1

// File is what actually lands on disk: a version header, enough metadata
// to show a slot picker, and the opaque component snapshot.
type File struct {
	Version     int       `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	ROMChecksum uint32    `json:"rom_checksum"`
	SlotNumber  int       `json:"slot_number"`

	State bus.Snapshot `json:"state"`
}

// SlotInfo describes one slot for a save/load menu without loading the
// full snapshot payload.
type SlotInfo struct {
	SlotNumber int
	Used       bool
	Timestamp  time.Time
	ROMPath    string
	FilePath   string
	FileSize   int64
}

// Manager save/loads slots under one directory, one file per ROM per slot.
type Manager struct {
	saveDirectory string
	maxSlots      int
}

func NewManager(saveDirectory string, maxSlots int) (*Manager, error) {
	if maxSlots <= 0 {
		maxSlots = 10
	}
	if err := os.MkdirAll(saveDirectory, 0755); err != nil {
		return nil, fmt.Errorf("savestate: create directory: %w", err)
	}
	return &Manager{saveDirectory: saveDirectory, maxSlots: maxSlots}, nil
}

// ChecksumROM is the compatibility check a loaded state is validated
// against: a plain CRC32 of the ROM bytes, cheap enough to compute on
// every save without the user noticing.
func ChecksumROM(romData []byte) uint32 {
	return crc32.ChecksumIEEE(romData)
}

func (m *Manager) Save(b *bus.Bus, slot int, romPath string, romChecksum uint32) error {
	if slot < 0 || slot >= m.maxSlots {
		return fmt.Errorf("savestate: slot %d out of range [0,%d)", slot, m.maxSlots)
	}

	f := File{
		Version:     Version,
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		ROMChecksum: romChecksum,
		SlotNumber:  slot,
		State:       b.Snapshot(),
	}

	data, err := json.Marshal(&f)
	if err != nil {
		return fmt.Errorf("savestate: marshal: %w", err)
	}

	path := m.slotPath(slot, romPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("savestate: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("savestate: write %s: %w", path, err)
	}
	return nil
}

// Load restores b in place. It refuses a version mismatch or a ROM
// checksum mismatch rather than risk restoring state into the wrong game.
func (m *Manager) Load(b *bus.Bus, slot int, romPath string, romChecksum uint32) error {
	if slot < 0 || slot >= m.maxSlots {
		return fmt.Errorf("savestate: slot %d out of range [0,%d)", slot, m.maxSlots)
	}

	path := m.slotPath(slot, romPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("savestate: read %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("savestate: unmarshal: %w", err)
	}

	if f.Version != Version {
		return fmt.Errorf("savestate: file version %d incompatible with %d", f.Version, Version)
	}
	if f.ROMChecksum != romChecksum {
		return fmt.Errorf("savestate: checksum mismatch, state was saved against a different ROM")
	}

	b.Restore(f.State)
	return nil
}

func (m *Manager) Delete(slot int, romPath string) error {
	path := m.slotPath(slot, romPath)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("savestate: delete %s: %w", path, err)
	}
	return nil
}

func (m *Manager) HasSave(slot int, romPath string) bool {
	_, err := os.Stat(m.slotPath(slot, romPath))
	return err == nil
}

func (m *Manager) Slots(romPath string) []SlotInfo {
	slots := make([]SlotInfo, m.maxSlots)
	for i := 0; i < m.maxSlots; i++ {
		info := SlotInfo{SlotNumber: i}
		path := m.slotPath(i, romPath)
		if stat, err := os.Stat(path); err == nil {
			info.Used = true
			info.FilePath = path
			info.FileSize = stat.Size()
			info.Timestamp = stat.ModTime()
		}
		slots[i] = info
	}
	return slots
}

func (m *Manager) slotPath(slot int, romPath string) string {
	name := filepath.Base(romPath)
	name = name[:len(name)-len(filepath.Ext(name))]
	return filepath.Join(m.saveDirectory, fmt.Sprintf("%s_slot_%d.save", name, slot))
}
