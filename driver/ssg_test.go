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

import (
	"testing"

	"github.com/scummvm/scummvm-sub071/test"
)

// envelopeChannel prepares an SSG channel with a custom instrument whose
// attack segment is seg. the remaining segments hold the level and release
// it in steps of 0x10
func envelopeChannel(t *testing.T, seg [4]uint8) (*channel, *RecordingChip) {
	t.Helper()
	drv, chip := newTestDriver(t, NewConfig(Type26))
	c := drv.ssg[0]
	c.reset()
	c.totalLevel = 0x0f
	c.ssg.custom = &[16]uint8{
		seg[0], seg[1], seg[2], seg[3],
		0x00, 0x81, 0x00, 0x00,
		0x00, 0x81, 0x00, 0x00,
		0x10, 0x81, 0x00, 0x00,
	}
	c.instr = c.ssg.customSlot << 4
	c.loadSegment()
	c.ssg.startLvl = c.envelope(c.instr + 3)
	return c, chip
}

func TestEnvelopeRampReachesTarget(t *testing.T) {
	c, _ := envelopeChannel(t, [4]uint8{0x10, 0x01, 0x40, 0x00})
	attack := c.instr

	for i, lvl := range []uint8{0x10, 0x20, 0x30, 0x40} {
		c.stepEnvelope()
		test.ExpectEquality(t, c.ssg.startLvl, lvl, i)
	}
	test.ExpectEquality(t, c.instr, attack+4)

	// the decay segment holds the level
	for range 10 {
		c.stepEnvelope()
		test.ExpectEquality(t, c.ssg.startLvl, uint8(0x40))
	}
	test.ExpectEquality(t, c.flags&flagSSGOff, uint8(0x00))
}

func TestEnvelopeRampOvershoot(t *testing.T) {
	c, _ := envelopeChannel(t, [4]uint8{0x30, 0x01, 0x40, 0x00})
	attack := c.instr

	c.stepEnvelope()
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0x30))
	test.ExpectEquality(t, c.instr, attack)

	// the level is clamped to the target exactly once
	c.stepEnvelope()
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0x40))
	test.ExpectEquality(t, c.instr, attack+4)
}

func TestEnvelopeRampOverflow(t *testing.T) {
	c, _ := envelopeChannel(t, [4]uint8{0x20, 0x01, 0xff, 0xf0})

	// 0xf0 + 0x20 must not wrap around to 0x10
	c.stepEnvelope()
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0xff))
}

func TestEnvelopeRampMonotonic(t *testing.T) {
	for step := 1; step < 0x100; step += 7 {
		c, _ := envelopeChannel(t, [4]uint8{uint8(step), 0x01, 0xe0, 0x00})
		attack := c.instr

		prev := c.ssg.startLvl
		for c.instr == attack {
			c.stepEnvelope()
			if c.ssg.startLvl < prev {
				t.Fatalf("envelope level decreased from %#02x to %#02x (step %#02x)", prev, c.ssg.startLvl, step)
			}
			if c.ssg.startLvl > 0xe0 {
				t.Fatalf("envelope level %#02x beyond target (step %#02x)", c.ssg.startLvl, step)
			}
			prev = c.ssg.startLvl
		}
		test.ExpectEquality(t, c.ssg.startLvl, uint8(0xe0), step)
	}
}

func TestEnvelopeRampDownToSilence(t *testing.T) {
	c, chip := envelopeChannel(t, [4]uint8{0x20, 0x81, 0x00, 0x10})
	c.ssg.tl = 0x01

	// the step is larger than the level so the target is used
	c.stepEnvelope()
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0x00))
	test.ExpectEquality(t, c.flags&flagSSGOff, flagSSGOff)
	test.ExpectEquality(t, chip.Regs[0][0x08], uint8(0x00))
}

func TestEnvelopeRelease(t *testing.T) {
	c, _ := envelopeChannel(t, [4]uint8{0x00, 0x01, 0xff, 0xff})

	c.stepEnvelope()
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0xff))

	c.nextShape()
	test.ExpectEquality(t, c.instr&0x0f, uint8(0x0c))

	var steps int
	for c.flags&flagSSGOff == 0x00 {
		c.stepEnvelope()
		steps++
		if steps > 0x100 {
			t.Fatalf("release segment did not end")
		}
	}
	test.ExpectEquality(t, steps, 0x10)
	test.ExpectEquality(t, c.ssg.startLvl, uint8(0x00))
}

func TestSSGLevelWriteSuppression(t *testing.T) {
	c, chip := envelopeChannel(t, [4]uint8{0x00, 0x01, 0xff, 0xff})
	chip.Clear()

	c.setSSGOutputLevel(0x40)
	c.setSSGOutputLevel(0x40)
	c.setSSGOutputLevel(0x41)
	test.ExpectEquality(t, chip.Count(0, 0x08), 1)
	test.ExpectEquality(t, chip.Regs[0][0x08], uint8(0x04))

	c.setSSGOutputLevel(0xff)
	test.ExpectEquality(t, chip.Count(0, 0x08), 2)
	test.ExpectEquality(t, chip.Regs[0][0x08], uint8(0x0f))
}

func TestSSGMixer(t *testing.T) {
	drv, chip := newTestDriver(t, NewConfig(Type26))

	// tone on, noise off
	chip.Regs[0][0x07] = 0x3f
	drv.ssg[0].algorithm = 0x80
	drv.ssg[0].keyOn()
	test.ExpectEquality(t, chip.Regs[0][0x07], uint8(0x3e))
	test.ExpectEquality(t, chip.Count(0, 0x06), 0)

	chip.Regs[0][0x07] = 0x3f
	drv.ssg[2].algorithm = 0x80
	drv.ssg[2].keyOn()
	test.ExpectEquality(t, chip.Regs[0][0x07], uint8(0x3b))

	// tone and noise on. noise period 5
	chip.Regs[0][0x07] = 0x3f
	drv.ssg[0].algorithm = 0x05
	drv.ssg[0].keyOn()
	test.ExpectEquality(t, chip.Regs[0][0x07], uint8(0x36))
	test.ExpectEquality(t, chip.Regs[0][0x06], uint8(0x05))

	// tone off, noise off
	chip.Regs[0][0x07] = 0x00
	drv.ssg[1].algorithm = 0xc0
	drv.ssg[1].keyOn()
	test.ExpectEquality(t, chip.Regs[0][0x07], uint8(0x12))
}

func TestSSGNote(t *testing.T) {
	drv, chip := newTestDriver(t, NewConfig(Type26))
	c := drv.ssg[1]

	trk := []byte{0xf0, 0x00, 0x35, 0x20, 0xff, 0x00, 0x00}
	c.loadData(trk, 0)
	chip.Clear()

	c.processEvents(trk)
	c.processFrequency(trk)

	period := ssgPeriods[5] >> 3
	test.ExpectEquality(t, chip.Regs[0][0x02], uint8(period))
	test.ExpectEquality(t, chip.Regs[0][0x03], uint8(period>>8))
	test.ExpectEquality(t, chip.Regs[0][0x09], uint8(0x0f))
}

func TestProtectRestore(t *testing.T) {
	drv, chip := newTestDriver(t, NewConfig(Type26))
	c := drv.ssg[1]

	trk := []byte{0xf0, 0x01, 0x35, 0x20, 0xff, 0x00, 0x00}
	c.loadData(trk, 0)
	chip.Regs[0][0x07] = 0x3f
	chip.Clear()

	for range 4 {
		c.processEvents(trk)
		c.processFrequency(trk)
	}

	last := make(map[uint8]uint8)
	for _, w := range chip.Writes {
		last[w.Reg] = w.Val
	}

	c.protect()
	chip.Clear()
	c.restore()

	expected := []Write{
		{Part: 0, Reg: 0x07, Val: last[0x07]},
		{Part: 0, Reg: 0x09, Val: last[0x09]},
		{Part: 0, Reg: 0x02, Val: last[0x02]},
		{Part: 0, Reg: 0x03, Val: last[0x03]},
	}
	test.DemandEquality(t, len(chip.Writes), len(expected))
	for i := range expected {
		test.ExpectEquality(t, chip.Writes[i], expected[i], i)
	}
	test.ExpectEquality(t, c.flags&flagProtect, uint8(0x00))
}

func TestProtectedChannelIsSilent(t *testing.T) {
	drv, chip := newTestDriver(t, NewConfig(Type26))
	c := drv.ssg[2]

	trk := []byte{0xf0, 0x01, 0x35, 0x02, 0x40, 0x02, 0x20, 0x02, 0xff, 0x00, 0x00}
	c.loadData(trk, 0)
	c.protect()
	chip.Clear()

	for range 6 {
		c.processEvents(trk)
		c.processFrequency(trk)
	}
	test.ExpectEquality(t, len(chip.Writes), 0)
	test.ExpectEquality(t, drv.regProtect, false)

	c.restore()
	test.ExpectEquality(t, len(chip.Writes), 4)
}

func TestCustomPatch(t *testing.T) {
	drv, _ := newTestDriver(t, NewConfig(Type26))
	a := drv.ssg[0]
	b := drv.ssg[1]

	trk := []byte{0xf9, 0x80, 0x11, 0x22, 0x33, 0x44, 0x55}
	test.ExpectSuccess(t, control(a, trk))
	test.ExpectEquality(t, a.pos, 7)
	test.ExpectEquality(t, a.instr, uint8(customSlotMusic<<4))

	test.ExpectEquality(t, a.envelope(a.instr), uint8(0x11))
	test.ExpectEquality(t, a.envelope(a.instr+1), ssgEnvelopes[a.instr+1])
	test.ExpectEquality(t, a.envelope(a.instr+3), uint8(0x80))
	test.ExpectEquality(t, a.envelope(a.instr+4), uint8(0x22))
	test.ExpectEquality(t, a.envelope(a.instr+6), uint8(0x33))
	test.ExpectEquality(t, a.envelope(a.instr+8), uint8(0x44))
	test.ExpectEquality(t, a.envelope(a.instr+12), uint8(0x55))

	// the default table is not changed and other channels do not see the
	// custom instrument
	test.ExpectEquality(t, ssgEnvelopes[a.instr], uint8(0x00))
	test.ExpectEquality(t, b.envelope(a.instr), uint8(0x00))
	test.ExpectEquality(t, b.ssg.customSlot, uint8(customSlotMusic+1))
	test.ExpectEquality(t, drv.sfx[0].ssg.customSlot, uint8(customSlotSfx+1))

	a.reset()
	test.ExpectEquality(t, a.ssg.custom == nil, true)
	test.ExpectEquality(t, a.ssg.customSlot, uint8(customSlotMusic))
}

func TestSetInstrument(t *testing.T) {
	drv, _ := newTestDriver(t, NewConfig(Type26))
	c := drv.ssg[0]
	c.algorithm = 0x80

	control(c, []byte{0xf0, 0x03})
	test.ExpectEquality(t, c.instr, uint8(0x30))
	test.ExpectEquality(t, c.algorithm, uint8(0x80))

	// the upper bits of the parameter select the noise period
	control(c, []byte{0xf0, 0x43})
	test.ExpectEquality(t, c.instr, uint8(0x30))
	test.ExpectEquality(t, c.algorithm, uint8(0x48))
}
