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

package opna_test

import (
	"testing"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
	"github.com/scummvm/scummvm-sub071/test"
)

func newChip(t *testing.T, numFM int) *opna.OPNA {
	t.Helper()
	chip, err := opna.NewOPNA(numFM)
	test.DemandSuccess(t, err)
	return chip
}

func silent(buf []int16) bool {
	for _, v := range buf {
		if v != 0 {
			return false
		}
	}
	return true
}

// program FM voice zero with a simple tone using all four operators as
// carriers
func programVoice(chip *opna.OPNA) {
	chip.WriteReg(0, 0xb0, 0x07)
	for op := range uint8(4) {
		chip.WriteReg(0, 0x30+op*4, 0x01)
		chip.WriteReg(0, 0x40+op*4, 0x00)
		chip.WriteReg(0, 0x50+op*4, 0x1f)
		chip.WriteReg(0, 0x60+op*4, 0x00)
		chip.WriteReg(0, 0x70+op*4, 0x00)
		chip.WriteReg(0, 0x80+op*4, 0x0f)
	}
	chip.WriteReg(0, 0xa4, 0x22)
	chip.WriteReg(0, 0xa0, 0x69)
}

func TestNewOPNA(t *testing.T) {
	_, err := opna.NewOPNA(0)
	test.ExpectFailure(t, err)
	_, err = opna.NewOPNA(7)
	test.ExpectFailure(t, err)

	chip := newChip(t, 6)
	test.ExpectImplements[driver.Chip](t, chip)
}

func TestRegisters(t *testing.T) {
	chip := newChip(t, 6)

	chip.WriteReg(1, 0x40, 0x12)
	test.ExpectEquality(t, chip.ReadReg(1, 0x40), 0x12)
	test.ExpectEquality(t, chip.ReadReg(0, 0x40), 0x00)

	chip.WriteReg(0, 0x26, 0x54)
	chip.Reset()
	test.ExpectEquality(t, chip.ReadReg(1, 0x40), 0x00)
	test.ExpectEquality(t, chip.ReadReg(0, 0x26), 0x54, "timer registers survive reset")
	test.ExpectEquality(t, chip.ReadReg(0, 0x18), 0xdf, "rhythm level after reset")
}

func TestSilence(t *testing.T) {
	chip := newChip(t, 6)
	buf := make([]int16, 4096)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
	test.ExpectFailure(t, chip.Active())
}

func TestTimers(t *testing.T) {
	chip := newChip(t, 3)

	var a, b int
	chip.SetTimerCallbacks(func() { a++ }, func() { b++ })

	// timers do not run until they are loaded
	chip.Render(make([]int16, 2048))
	test.ExpectEquality(t, a, 0)
	test.ExpectEquality(t, b, 0)

	// timer A value 1020 overflows every four samples. timer B value 255
	// overflows every sixteen samples
	chip.WriteReg(0, 0x24, 0xff)
	chip.WriteReg(0, 0x25, 0x00)
	chip.WriteReg(0, 0x26, 0xff)
	chip.WriteReg(0, 0x27, 0x33)

	chip.Render(make([]int16, 160))
	test.ExpectEquality(t, a, 40)
	test.ExpectEquality(t, b, 10)

	// reset does not stop the timers
	chip.Reset()
	chip.Render(make([]int16, 16))
	test.ExpectEquality(t, a, 44)
	test.ExpectEquality(t, b, 11)

	// flags are only raised when enabled
	test.ExpectEquality(t, chip.Status(), 0x00)
	chip.WriteReg(0, 0x27, 0x0f)
	chip.Render(make([]int16, 16))
	test.ExpectEquality(t, chip.Status(), 0x03)
	chip.WriteReg(0, 0x27, 0x33)
	test.ExpectEquality(t, chip.Status(), 0x00)

	chip.WriteReg(0, 0x27, 0x00)
	chip.Render(make([]int16, 160))
	test.ExpectEquality(t, a, 48)
	test.ExpectEquality(t, b, 12)
}

func TestTimerCallbackWrites(t *testing.T) {
	chip := newChip(t, 3)

	// a callback that writes to the chip takes effect immediately
	chip.SetTimerCallbacks(nil, func() {
		chip.WriteReg(0, 0x27, 0x00)
	})
	chip.WriteReg(0, 0x26, 0xff)
	chip.WriteReg(0, 0x27, 0x02)

	var b int
	chip.Render(make([]int16, 16))
	chip.SetTimerCallbacks(nil, func() { b++ })
	chip.Render(make([]int16, 160))
	test.ExpectEquality(t, b, 0)
}

func TestFMVoice(t *testing.T) {
	chip := newChip(t, 6)
	programVoice(chip)

	chip.WriteReg(0, 0x28, 0xf0)
	buf := make([]int16, 1024)
	chip.Render(buf)
	test.ExpectFailure(t, silent(buf))
	test.ExpectSuccess(t, chip.Active())

	// the release rate is at the maximum so the voice falls silent quickly
	chip.WriteReg(0, 0x28, 0x00)
	buf = make([]int16, 4096)
	chip.Render(buf)
	test.ExpectFailure(t, silent(buf[:16]))
	test.ExpectSuccess(t, silent(buf[256:]))
	test.ExpectFailure(t, chip.Active())
}

func TestFMVoiceCount(t *testing.T) {
	chip := newChip(t, 3)

	// key on for the fourth voice is ignored by a three voice chip
	chip.WriteReg(1, 0xb0, 0x07)
	for op := range uint8(4) {
		chip.WriteReg(1, 0x30+op*4, 0x01)
		chip.WriteReg(1, 0x50+op*4, 0x1f)
	}
	chip.WriteReg(1, 0xa4, 0x22)
	chip.WriteReg(1, 0xa0, 0x69)
	chip.WriteReg(0, 0x28, 0xf4)

	buf := make([]int16, 1024)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
}

func TestTotalLevel(t *testing.T) {
	chip := newChip(t, 6)
	programVoice(chip)

	// maximum attenuation on every carrier silences the voice
	for op := range uint8(4) {
		chip.WriteReg(0, 0x40+op*4, 0x7f)
	}
	chip.WriteReg(0, 0x28, 0xf0)

	buf := make([]int16, 1024)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
	test.ExpectSuccess(t, chip.Active())
}

func TestSSGTone(t *testing.T) {
	chip := newChip(t, 3)

	chip.WriteReg(0, 0x00, 100)
	chip.WriteReg(0, 0x01, 0)
	chip.WriteReg(0, 0x07, 0x3e)
	chip.WriteReg(0, 0x08, 0x0f)

	buf := make([]int16, 1000)
	chip.Render(buf)

	// a period of 100 toggles the output 4.5 times in every 100 samples
	var changes int
	for i := 1; i < len(buf); i++ {
		if (buf[i] > 0) != (buf[i-1] > 0) {
			changes++
		}
	}
	test.ExpectApproximate(t, changes, 45, 0.1)

	// level zero is silent
	chip.WriteReg(0, 0x08, 0x00)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
}

func TestSSGEnvelope(t *testing.T) {
	chip := newChip(t, 3)

	// both tone and noise disabled. the output follows the level
	chip.WriteReg(0, 0x07, 0x3f)
	chip.WriteReg(0, 0x08, 0x10)
	chip.WriteReg(0, 0x0b, 0x09)
	chip.WriteReg(0, 0x0c, 0x00)

	// decay then hold at zero
	chip.WriteReg(0, 0x0d, 0x09)
	buf := make([]int16, 64)
	chip.Render(buf)
	test.ExpectInequality(t, buf[0], 0)
	for i := 1; i < len(buf); i++ {
		if buf[i] > buf[i-1] {
			t.Errorf("envelope level increased at sample %d", i)
		}
	}
	test.ExpectEquality(t, buf[len(buf)-1], 0)

	// attack then hold at the maximum
	chip.WriteReg(0, 0x0d, 0x0d)
	chip.Render(buf)
	test.ExpectEquality(t, buf[len(buf)-1], buf[len(buf)-2])
	test.ExpectInequality(t, buf[len(buf)-1], 0)
}

func TestRhythm(t *testing.T) {
	chip := newChip(t, 6)

	chip.WriteReg(0, 0x11, 0x3f)
	chip.WriteReg(0, 0x10, 0x01)

	buf := make([]int16, 1024)
	chip.Render(buf)
	test.ExpectFailure(t, silent(buf))

	// dump stops the instrument
	chip.WriteReg(0, 0x10, 0x81)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))

	// an instrument with no output selected is silent
	chip.WriteReg(0, 0x18, 0x1f)
	chip.WriteReg(0, 0x10, 0x01)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
}

func TestRhythmBank(t *testing.T) {
	chip := newChip(t, 6)

	def := opna.DefaultBank()
	for i := range opna.NumInstruments {
		test.ExpectInequality(t, def[i].Duration(), 0.0, i)
		test.ExpectInequality(t, i.Name(), "", i)
	}

	// an empty bank plays nothing
	chip.SetBank(&opna.Bank{})
	chip.WriteReg(0, 0x11, 0x3f)
	chip.WriteReg(0, 0x10, 0x3f)
	buf := make([]int16, 256)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))

	b := opna.Bank{}
	b[opna.HiHat] = opna.Sample{Data: []float32{1, 1, 1, 1}, Rate: opna.SampleRate}
	chip.SetBank(&b)
	chip.WriteReg(0, 0x10, 0x08)
	chip.Render(buf)
	test.ExpectFailure(t, silent(buf[:4]))
	test.ExpectSuccess(t, silent(buf[4:]))
}

func TestVolume(t *testing.T) {
	chip := newChip(t, 6)
	programVoice(chip)
	chip.WriteReg(0, 0x28, 0xf0)

	chip.SetVolume(0, 255)
	buf := make([]int16, 512)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))

	// moving voice zero into the sfx mask gives it the sfx volume
	chip.SetVolumeChannelMasks(^1, 1)
	chip.Render(buf)
	test.ExpectFailure(t, silent(buf))

	// a negative value leaves the volume unchanged
	chip.SetVolume(-1, 0)
	chip.Render(buf)
	test.ExpectSuccess(t, silent(buf))
}
