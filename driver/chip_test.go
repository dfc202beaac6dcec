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

package driver

// Write is a single register write recorded by RecordingChip.
type Write struct {
	Part uint8
	Reg  uint8
	Val  uint8
}

// RecordingChip is an implementation of the Chip interface that records
// every register write. It is available to the tests of the driver package
// and to the external driver_test package.
type RecordingChip struct {
	Regs   [2][256]uint8
	Writes []Write
	Resets int

	MusicVolume int
	SfxVolume   int
	MusicMask   int
	SfxMask     int
}

func (rc *RecordingChip) ReadReg(part uint8, reg uint8) uint8 {
	return rc.Regs[part&0x01][reg]
}

func (rc *RecordingChip) WriteReg(part uint8, reg uint8, val uint8) {
	rc.Regs[part&0x01][reg] = val
	rc.Writes = append(rc.Writes, Write{Part: part, Reg: reg, Val: val})
}

func (rc *RecordingChip) Reset() {
	rc.Resets++
}

func (rc *RecordingChip) SetVolume(music int, sfx int) {
	if music >= 0 {
		rc.MusicVolume = music
	}
	if sfx >= 0 {
		rc.SfxVolume = sfx
	}
}

func (rc *RecordingChip) SetVolumeChannelMasks(music int, sfx int) {
	rc.MusicMask = music
	rc.SfxMask = sfx
}

// Clear forgets all recorded writes.
func (rc *RecordingChip) Clear() {
	rc.Writes = rc.Writes[:0]
}

// Filter returns the recorded writes for which the function returns true.
func (rc *RecordingChip) Filter(f func(w Write) bool) []Write {
	var r []Write
	for _, w := range rc.Writes {
		if f(w) {
			r = append(r, w)
		}
	}
	return r
}

// Count returns the number of writes to the register.
func (rc *RecordingChip) Count(part uint8, reg uint8) int {
	return len(rc.Filter(func(w Write) bool {
		return w.Part == part && w.Reg == reg
	}))
}
