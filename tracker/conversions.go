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

package tracker

import (
	"fmt"
	"math"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
)

// MusicalNote is the name and octave of a note. For example, "A4" or "C#5".
type MusicalNote string

// NoMusicalNote is used for entries that do not set a frequency.
const NoMusicalNote = MusicalNote("-")

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteFromFrequency returns the nearest equal tempered note to the frequency.
// A4 is 440Hz.
func NoteFromFrequency(f float64) MusicalNote {
	if f <= 0 {
		return NoMusicalNote
	}
	n := int(math.Round(12*math.Log2(f/440))) + 69
	if n < 0 {
		return NoMusicalNote
	}
	return MusicalNote(fmt.Sprintf("%s%d", noteNames[n%12], n/12-1))
}

// FMFrequency converts an FM frequency number and block to Hz.
func FMFrequency(fnum uint16, block uint8) float64 {
	return float64(fnum) * opna.SampleRate * math.Exp2(float64(block)-1) / (1 << 20)
}

// SSGFrequency converts an SSG tone period to Hz.
func SSGFrequency(period uint16) float64 {
	if period == 0 {
		return 0
	}
	return opna.ClockRate / (64 * float64(period))
}

// LookupMusicalNote returns the note set by a write to a frequency register.
// The current value of the other half of the frequency is read from the
// chip. Writes to other registers return NoMusicalNote.
func LookupMusicalNote(chip driver.Chip, part uint8, reg uint8) MusicalNote {
	switch {
	case reg >= 0xa0 && reg <= 0xa2:
		hi := chip.ReadReg(part, reg+4)
		fnum := uint16(hi&0x07)<<8 | uint16(chip.ReadReg(part, reg))
		if fnum == 0 {
			return NoMusicalNote
		}
		return NoteFromFrequency(FMFrequency(fnum, (hi>>3)&0x07))

	case part == 0 && reg <= 0x05:
		ch := reg &^ 0x01
		period := uint16(chip.ReadReg(0, ch+1)&0x0f)<<8 | uint16(chip.ReadReg(0, ch))
		return NoteFromFrequency(SSGFrequency(period))
	}

	return NoMusicalNote
}
