// This file is part of Townsplay.
//
// Townsplay is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Townsplay is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Townsplay.  If not, see <https://www.gnu.org/licenses/>.

// Package tracker records the register writes made by the driver. The
// Tracker type sits between the driver and the chip, implementing the same
// interface as the chip and passing every call through.
//
// Recorded entries can be printed (see Printer) or replayed on a fresh chip
// (see Replayer).
package tracker

import (
	"sync"

	"github.com/scummvm/scummvm-sub071/driver"
)

// Entry is a single register write or chip reset.
type Entry struct {
	// the music tick during which the write was made
	Tick int

	Part uint8
	Reg  uint8
	Val  uint8

	// the entry is a chip reset rather than a register write
	Reset bool

	// the value of the register was changed by the write
	Changed bool

	Register    string
	MusicalNote MusicalNote
}

// Tracker implements the driver.Chip interface and keeps a history of the
// register writes over time.
type Tracker struct {
	crit sync.Mutex
	chip driver.Chip

	entries    []Entry
	maxEntries int

	tick int
}

// NewTracker is the preferred method of initialisation for the Tracker type.
// The maxEntries argument limits the length of the history. Older entries are
// discarded first.
func NewTracker(chip driver.Chip, maxEntries int) *Tracker {
	return &Tracker{
		chip:       chip,
		entries:    make([]Entry, 0, min(maxEntries, 1024)),
		maxEntries: max(maxEntries, 1),
	}
}

// Tick advances the tick counter used to timestamp new entries. It should be
// called before every music tick.
func (tr *Tracker) Tick() {
	tr.crit.Lock()
	defer tr.crit.Unlock()
	tr.tick++
}

func (tr *Tracker) add(e Entry) {
	tr.entries = append(tr.entries, e)
	if len(tr.entries) > tr.maxEntries {
		tr.entries = tr.entries[1:]
	}
}

// ReadReg implements the driver.Chip interface.
func (tr *Tracker) ReadReg(part uint8, reg uint8) uint8 {
	return tr.chip.ReadReg(part, reg)
}

// WriteReg implements the driver.Chip interface.
func (tr *Tracker) WriteReg(part uint8, reg uint8, val uint8) {
	changed := tr.chip.ReadReg(part, reg) != val
	tr.chip.WriteReg(part, reg, val)

	tr.crit.Lock()
	defer tr.crit.Unlock()

	tr.add(Entry{
		Tick:        tr.tick,
		Part:        part,
		Reg:         reg,
		Val:         val,
		Changed:     changed,
		Register:    LookupRegister(part, reg),
		MusicalNote: LookupMusicalNote(tr.chip, part, reg),
	})
}

// Reset implements the driver.Chip interface.
func (tr *Tracker) Reset() {
	tr.chip.Reset()

	tr.crit.Lock()
	defer tr.crit.Unlock()
	tr.add(Entry{Tick: tr.tick, Reset: true, Register: "reset", MusicalNote: NoMusicalNote})
}

// SetVolume implements the driver.Chip interface.
func (tr *Tracker) SetVolume(music int, sfx int) {
	tr.chip.SetVolume(music, sfx)
}

// SetVolumeChannelMasks implements the driver.Chip interface.
func (tr *Tracker) SetVolumeChannelMasks(music int, sfx int) {
	tr.chip.SetVolumeChannelMasks(music, sfx)
}

// Copy makes a copy of the Tracker entries.
func (tr *Tracker) Copy() []Entry {
	tr.crit.Lock()
	defer tr.crit.Unlock()
	c := make([]Entry, len(tr.entries))
	copy(c, tr.entries)
	return c
}

// Clear the history. The tick counter is not affected.
func (tr *Tracker) Clear() {
	tr.crit.Lock()
	defer tr.crit.Unlock()
	tr.entries = tr.entries[:0]
}
