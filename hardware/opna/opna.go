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

package opna

import (
	"fmt"
	"math"
	"strings"
)

// ClockRate is the master clock of the chip in Hz.
const ClockRate = 7987200

// SampleRate is the rate at which the chip produces samples.
const SampleRate = ClockRate / 144

// mixing levels of each section before the channel volumes are applied
const (
	fmGain     = 0.25
	ssgGain    = 0.12
	rhythmGain = 0.5
)

// maximum number of FM voices
const maxFM = 6

// OPNA is the implementation of the sound chip.
type OPNA struct {
	regs [2][256]uint8

	numFM int
	fm    [maxFM]voice
	ssg   psg

	bank   *Bank
	rhythm [NumInstruments]rhythmVoice

	timerA timer
	timerB timer

	musicVolume int
	sfxVolume   int
	musicMask   int
	sfxMask     int
}

// NewOPNA is the preferred method of initialisation for the OPNA type. The
// numFM argument is the number of FM voices the chip has. The YM2203 has
// three and the YM2608 and the FM-TOWNS chip have six.
func NewOPNA(numFM int) (*OPNA, error) {
	if numFM < 1 || numFM > maxFM {
		return nil, fmt.Errorf("opna: unsupported number of FM voices (%d)", numFM)
	}

	chip := &OPNA{
		numFM:       numFM,
		bank:        DefaultBank(),
		musicVolume: 255,
		sfxVolume:   255,
		musicMask:   -1,
	}
	chip.timerA.period = timerAPeriod(0, 0)
	chip.timerB.period = timerBPeriod(0)
	chip.Reset()

	return chip, nil
}

func (chip *OPNA) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("A: %s B: %s", &chip.timerA, &chip.timerB))
	for i := range chip.numFM {
		s.WriteString(fmt.Sprintf(" FM%d: %s", i, chip.fm[i].ops[3].state))
	}
	return s.String()
}

// SetTimerCallbacks sets the functions that are called when timer A and timer
// B overflow. Either function can be nil.
func (chip *OPNA) SetTimerCallbacks(a func(), b func()) {
	chip.timerA.callback = a
	chip.timerB.callback = b
}

// ReadReg returns the last value written to the register.
func (chip *OPNA) ReadReg(part uint8, reg uint8) uint8 {
	return chip.regs[part&0x01][reg]
}

// WriteReg writes a value to a chip register.
func (chip *OPNA) WriteReg(part uint8, reg uint8, val uint8) {
	part &= 0x01
	chip.regs[part][reg] = val

	if part == 1 {
		chip.writeFM(part, reg, val)
		return
	}

	switch {
	case reg <= 0x0d:
		chip.writeSSG(reg, val)
	case reg == 0x10:
		chip.writeRhythm(val)
	case reg == 0x24 || reg == 0x25:
		chip.timerA.period = timerAPeriod(chip.regs[0][0x24], chip.regs[0][0x25])
	case reg == 0x26:
		chip.timerB.period = timerBPeriod(val)
	case reg == 0x27:
		chip.writeTimerControl(val)
	case reg == 0x28:
		chip.keyOnOff(val)
	default:
		chip.writeFM(part, reg, val)
	}
}

// Reset clears the sound registers and silences every voice. The timer
// registers and the running state of the timers are not affected.
func (chip *OPNA) Reset() {
	for part := range chip.regs {
		for reg := range chip.regs[part] {
			if part == 0 && reg >= 0x24 && reg <= 0x27 {
				continue
			}
			chip.regs[part][reg] = 0
		}
	}

	for i := range chip.fm {
		chip.fm[i].silence()
	}
	chip.ssg.silence()
	chip.rhythm = [NumInstruments]rhythmVoice{}

	// rhythm instruments default to full level on both outputs
	for i := range NumInstruments {
		chip.regs[0][0x18+int(i)] = 0xdf
	}
}

// SetVolume sets the music and sound effect volumes in the range 0 to 255. A
// negative value leaves the volume unchanged.
func (chip *OPNA) SetVolume(music int, sfx int) {
	if music >= 0 {
		chip.musicVolume = min(music, 255)
	}
	if sfx >= 0 {
		chip.sfxVolume = min(sfx, 255)
	}
}

// SetVolumeChannelMasks selects the volume used by each channel. Bits 0 to
// n-1 are the n FM voices and the three SSG channels follow. A channel in the
// sfx mask uses the sound effect volume, any other channel uses the music
// volume. The rhythm section always uses the music volume.
func (chip *OPNA) SetVolumeChannelMasks(music int, sfx int) {
	chip.musicMask = music
	chip.sfxMask = sfx
}

// volume of the channel with the given mask bit
func (chip *OPNA) volume(bit int) float64 {
	if chip.sfxMask&(1<<bit) != 0 {
		return float64(chip.sfxVolume) / 255
	}
	return float64(chip.musicVolume) / 255
}

// Active returns true if any voice is producing sound.
func (chip *OPNA) Active() bool {
	for i := range chip.numFM {
		if chip.fm[i].active() {
			return true
		}
	}
	for i := range chip.rhythm {
		if chip.rhythm[i].playing {
			return true
		}
	}
	for i := range chip.ssg.tone {
		if chip.regs[0][0x08+i] != 0 {
			return true
		}
	}
	return false
}

// Step advances the chip by one sample and returns the mixed output in the
// range -1.0 to 1.0. Timer callbacks are made before the sample is generated.
func (chip *OPNA) Step() float64 {
	chip.stepTimers()

	var out float64
	for i := range chip.numFM {
		if !chip.fm[i].active() {
			continue
		}
		out += chip.fm[i].generate() * fmGain * chip.volume(i)
	}

	ssg := chip.generateSSG()
	for i, v := range ssg {
		out += v * ssgGain * chip.volume(chip.numFM+i)
	}

	out += chip.generateRhythm() * rhythmGain * float64(chip.musicVolume) / 255

	return math.Max(-1, math.Min(1, out))
}

// Render fills the buffer with signed 16 bit samples at SampleRate.
func (chip *OPNA) Render(buf []int16) {
	for i := range buf {
		buf[i] = int16(chip.Step() * math.MaxInt16)
	}
}
