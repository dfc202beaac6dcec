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

// envelope returns a byte of the SSG instrument table. the custom
// instrument of the channel, if any, takes the place of the default
func (c *channel) envelope(off uint8) uint8 {
	if c.ssg.custom != nil && off>>4 == c.ssg.customSlot {
		return c.ssg.custom[off&0x0f]
	}
	return ssgEnvelopes[off]
}

// loadSegment loads the envelope segment at the current instrument offset.
// the start level is not affected
func (c *channel) loadSegment() {
	c.ssg.step = c.envelope(c.instr)
	c.ssg.ticksLeft = c.envelope(c.instr+1) & 0x7f
	c.ssg.targetLvl = c.envelope(c.instr + 2)
}

// nextShape moves the envelope to the release segment of the instrument
func (c *channel) nextShape() {
	c.instr = (c.instr & 0xf0) + 0x0c
	c.loadSegment()
}

func (c *channel) processSSGEvents(trk []byte) {
	if c.flags&flagEOT == flagEOT {
		return
	}

	keyedOff := !c.hold && c.ticksLeft == c.keyOffTime
	if keyedOff {
		c.nextShape()
	}

	c.ticksLeft--
	if c.ticksLeft == 0 {
		note, ok := c.nextCommand(trk)
		if !ok {
			return
		}

		para := c.fetch(trk)
		if note == 0x80 {
			c.nextShape()
			c.hold = false
		} else {
			if !c.hold {
				c.instr &= 0xf0
				c.loadSegment()
				c.ssg.startLvl = c.envelope(c.instr + 3)
				c.flags = (c.flags &^ flagSSGOff) | flagKeyOff
			}
			c.keyOn()
			if !c.hold || note != c.frqBlockMSB {
				c.flags |= flagRecalcFreq
			}
			c.hold = para&0x80 == 0x80
			c.frqBlockMSB = note
		}
		c.ticksLeft = para & 0x7f
	}

	if c.flags&flagSSGOff == flagSSGOff {
		return
	}

	c.stepEnvelope()
}

// stepEnvelope advances the envelope by one tick
func (c *channel) stepEnvelope() {
	fading := c.drv.fading != 0

	c.ssg.ticksLeft--
	if c.ssg.ticksLeft != 0 {
		if !fading {
			c.setSSGOutputLevel(c.ssg.startLvl)
		}
		return
	}

	ticks := c.envelope(c.instr + 1)
	c.ssg.ticksLeft = ticks & 0x7f

	if ticks&0x80 == 0x80 {
		// ramp down. the step must not take the level below zero
		t := c.ssg.startLvl - c.ssg.step
		if c.ssg.step <= c.ssg.startLvl && c.ssg.targetLvl < t {
			if !fading {
				c.setSSGOutputLevel(t)
			}
			return
		}
	} else {
		// ramp up. the step must not take the level beyond 255
		t := int(c.ssg.startLvl) + int(c.ssg.step)
		if t < 256 && c.ssg.targetLvl > uint8(t) {
			if !fading {
				c.setSSGOutputLevel(uint8(t))
			}
			return
		}
	}

	c.setSSGOutputLevel(c.ssg.targetLvl)

	// bit 3 of the instrument offset is set for the sustain and release
	// segments
	if c.ssg.startLvl != 0 && c.instr&0x08 == 0x00 {
		c.instr += 4
		c.loadSegment()
	} else {
		c.flags |= flagSSGOff
		c.setSSGOutputLevel(0)
	}
}

// setSSGOutputLevel records lvl as the current envelope level and writes the
// product of the envelope level and the total level to the chip. nothing is
// written if the product is unchanged
func (c *channel) setSSGOutputLevel(lvl uint8) {
	c.ssg.startLvl = lvl
	tl := uint8((uint16(c.totalLevel+1) * uint16(lvl)) >> 8)
	if tl == c.ssg.tl {
		return
	}
	c.ssg.tl = tl
	c.writeReg(0, 0x08+c.regOffset, tl)
}

func (c *channel) processSSGFrequency() {
	// tone is disabled
	if c.algorithm&0x40 == 0x40 {
		return
	}

	if c.flags&flagRecalcFreq == flagRecalcFreq {
		c.block = c.frqBlockMSB >> 4
		c.frequency = uint16(int(ssgPeriods[c.frqBlockMSB&0x0f]) + int(c.frqLSB))
		c.writeSSGPeriod()
		c.setupVibrato()
	}

	if c.flags&(flagEOT|flagVbrOff|flagSSGOff) == 0x00 {
		if !c.processVibrato() {
			return
		}
		c.writeSSGPeriod()
	}
}

func (c *channel) writeSSGPeriod() {
	f := c.frequency >> c.block
	c.writeReg(0, c.regOffset<<1, uint8(f))
	c.writeReg(0, (c.regOffset<<1)+1, uint8(f>>8))
}

// rotl rotates the bits of v left by n places
func rotl(v uint8, n uint8) uint8 {
	n &= 0x07
	return v<<n | v>>(8-n)
}

// keyOnSSG enables tone and noise for the channel in the mixer register
// according to the algorithm. bit 7 of the algorithm disables noise and bit
// 6 disables tone. otherwise the low bits are the noise period
func (c *channel) keyOnSSG() {
	mask := uint8(0x7b)
	mix := (c.algorithm & 0xc0) << 1
	if c.algorithm&0x80 == 0x80 {
		mix |= 0x04
	}

	mask = rotl(mask, c.regOffset+1)
	mix = rotl(mix, c.regOffset+1)

	if c.algorithm&0x80 == 0x00 {
		c.writeReg(0, 0x06, c.algorithm&0x7f)
	}
	c.writeReg(0, 0x07, (c.drv.chip.ReadReg(0, 0x07)&mask)|mix)
}

// protect lends the hardware voice of the channel to a sound effect
func (c *channel) protect() {
	c.flags |= flagProtect
}

// restore returns the hardware voice to the channel and writes the mixer,
// level and period registers as they were before the voice was lent
func (c *channel) restore() {
	c.flags &^= flagProtect
	c.keyOn()
	c.writeReg(0, 0x08+c.regOffset, c.ssg.tl)
	c.writeSSGPeriod()
}
