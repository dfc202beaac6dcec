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

// Kind identifies the variant of a channel.
type Kind int

// List of valid Kind values.
const (
	KindFM Kind = iota
	KindSSG
	KindSfx
	KindRhythm
)

func (k Kind) String() string {
	switch k {
	case KindFM:
		return "FM"
	case KindSSG:
		return "SSG"
	case KindSfx:
		return "SFX"
	case KindRhythm:
		return "RHY"
	}
	return "unknown"
}

// channel flags
const (
	flagRecalcFreq uint8 = 0x01
	flagKeyOff     uint8 = 0x02
	flagSSGOff     uint8 = 0x04
	flagVbrOff     uint8 = 0x08
	flagAllOff     uint8 = flagRecalcFreq | flagKeyOff | flagSSGOff | flagVbrOff
	flagProtect    uint8 = 0x40
	flagEOT        uint8 = 0x80
)

type vibrato struct {
	// delay before every step. lo is added to the first delay after a
	// key-off
	initDelayHi uint8
	initDelayLo uint8

	modInit int16
	modCur  int16

	// number of steps in a full half period. the first half period after
	// setup is half as long
	duration uint8
	curDelay uint8
	durLeft  uint8
}

type ssgState struct {
	// last level written to the chip
	tl uint8

	// envelope segment
	step      uint8
	ticksLeft uint8
	targetLvl uint8
	startLvl  uint8

	// custom instrument loaded by the f9 event. consulted in place of the
	// default envelope table for the custom slot of the channel
	custom     *[16]uint8
	customSlot uint8
}

// channel is a single byte-code interpreter. the four kinds share the
// interpreter state and differ in how notes, levels and frequencies are
// written to the chip
type channel struct {
	drv  *Driver
	kind Kind
	channelPreset

	// cursor into the arena the channel was loaded from
	pos int

	flags      uint8
	ticksLeft  uint8
	keyOffTime uint8
	hold       bool

	instr      uint8
	totalLevel uint8
	algorithm  uint8

	block       uint8
	frequency   uint16
	frqBlockMSB uint8
	frqLSB      int8

	vbr vibrato
	ssg ssgState
}

func newChannel(drv *Driver, kind Kind, preset channelPreset) *channel {
	c := &channel{
		drv:           drv,
		kind:          kind,
		channelPreset: preset,
		flags:         flagEOT,
		ticksLeft:     1,
	}
	if kind == KindSfx {
		c.ssg.customSlot = customSlotSfx + c.regOffset
	} else {
		c.ssg.customSlot = customSlotMusic + c.regOffset
	}
	return c
}

func (c *channel) isSSG() bool {
	return c.kind == KindSSG || c.kind == KindSfx
}

// byteAt returns zero for positions outside of the arena
func byteAt(trk []byte, p int) uint8 {
	if p < 0 || p >= len(trk) {
		return 0
	}
	return trk[p]
}

// wordAt reads a little-endian word. bytes outside of the arena read as zero
func wordAt(trk []byte, p int) uint16 {
	return uint16(byteAt(trk, p)) | uint16(byteAt(trk, p+1))<<8
}

func (c *channel) fetch(trk []byte) uint8 {
	v := byteAt(trk, c.pos)
	c.pos++
	return v
}

func (c *channel) writeReg(part uint8, reg uint8, val uint8) {
	c.drv.writeReg(part, reg, val)
}

func (c *channel) reset() {
	c.hold = false
	c.keyOffTime = 0
	c.ticksLeft = 1
	c.flags = flagEOT

	c.totalLevel = 0
	c.algorithm = 0
	c.block = 0
	c.frequency = 0
	c.frqBlockMSB = 0
	c.frqLSB = 0

	c.vbr = vibrato{}

	slot := c.ssg.customSlot
	c.ssg = ssgState{customSlot: slot}
}

// loadData arms the channel at position p of the arena
func (c *channel) loadData(trk []byte, p int) {
	switch c.kind {
	case KindRhythm:
		c.flags = (c.flags &^ flagEOT) | flagAllOff
		c.ticksLeft = 1
		c.pos = p
		c.totalLevel = 0x7f
		return

	case KindSfx:
		c.flags = flagAllOff
		c.ticksLeft = 1
		c.pos = p
		c.ssg.tl = 0xff
		c.algorithm = 0x80
		c.prescan(trk)
		return

	case KindSSG:
		c.drv.regProtect = c.flags&flagProtect == flagProtect
	}

	c.flags = (c.flags &^ flagEOT) | flagAllOff
	c.ticksLeft = 1
	c.pos = p
	c.totalLevel = 0x7f
	c.prescan(trk)

	if c.kind == KindSSG {
		// the SSG total level is four bits wide
		c.totalLevel = 0x0f
		c.setSSGOutputLevel(0)
		c.algorithm = 0x80
		c.drv.regProtect = false
	}
}

// prescan walks the track to the terminator. repeat counters are restored
// from their reload values and the looping state of the driver is updated
// for music channels
func (c *channel) prescan(trk []byte) {
	p := c.pos
	for p >= 0 && p < len(trk) {
		cmd := trk[p]
		p++
		if cmd < 0xf0 {
			p++
			continue
		}
		if cmd == 0xff {
			if c.kind != KindSfx && wordAt(trk, p) != 0 {
				c.drv.looping |= c.idFlag
			}
			return
		}
		if cmd == 0xf6 && p+1 < len(trk) {
			trk[p] = trk[p+1]
		}
		p += parameterCount[cmd&0x0f]
	}
}

// finish marks the channel as having reached the end of its track
func (c *channel) finish() {
	c.flags |= flagEOT
	switch c.kind {
	case KindFM:
		c.drv.finishedFM |= c.idFlag
		c.keyOff()
	case KindSSG:
		if c.drv.fading == 0 {
			c.setSSGOutputLevel(0)
		}
		c.drv.finishedSSG |= c.idFlag
	case KindSfx:
		c.drv.finishedSfx |= c.idFlag
		c.drv.ssg[c.chanNum].restore()
	case KindRhythm:
		c.drv.finishedRhythm |= c.idFlag
	}
}

// the number of control events a channel may process in a single tick
const maxEventsPerTick = 0x1000

// control dispatches a control event. the parameter byte is fetched before
// the handler is called
func (c *channel) control(trk []byte, cmd uint8) bool {
	para := c.fetch(trk)
	switch c.kind {
	case KindFM:
		return fmControls[cmd&0x0f](c, trk, para)
	case KindRhythm:
		return rhythmControls[cmd&0x0f](c, trk, para)
	}
	return ssgControls[cmd&0x0f](c, trk, para)
}

// nextCommand reads control events until a note byte is found. the result
// is false if a handler stopped processing or the cursor ran past the end of
// the arena
func (c *channel) nextCommand(trk []byte) (uint8, bool) {
	for range maxEventsPerTick {
		if c.pos >= len(trk) || c.pos < 0 {
			c.finish()
			return 0, false
		}
		cmd := c.fetch(trk)
		if cmd < 0xf0 {
			return cmd, true
		}
		if !c.control(trk, cmd) {
			return 0, false
		}
	}
	return 0, false
}

// processEvents advances the channel by one tick
func (c *channel) processEvents(trk []byte) {
	switch c.kind {
	case KindFM:
		c.processFMEvents(trk)
	case KindRhythm:
		c.processRhythmEvents(trk)
	default:
		c.drv.regProtect = c.flags&flagProtect == flagProtect
		c.processSSGEvents(trk)
		c.drv.regProtect = false
	}
}

// processFrequency writes frequency changes and steps the vibrato
func (c *channel) processFrequency(trk []byte) {
	switch c.kind {
	case KindFM:
		c.processFMFrequency()
	case KindSSG, KindSfx:
		c.drv.regProtect = c.flags&flagProtect == flagProtect
		c.processSSGFrequency()
		c.drv.regProtect = false
	}
}

func (c *channel) fadeStep() {
	switch c.kind {
	case KindFM:
		c.incFMLevel()
		c.setFMOutputLevel()
	case KindSSG, KindSfx:
		if int8(c.totalLevel) > 0 {
			c.totalLevel--
		} else {
			c.totalLevel = 0
		}
		c.setSSGOutputLevel(c.ssg.startLvl)
	}
}

func (c *channel) processFMEvents(trk []byte) {
	if c.flags&flagEOT == flagEOT {
		return
	}

	keyedOff := !c.hold && c.ticksLeft == c.keyOffTime
	if keyedOff {
		c.keyOff()
	}

	c.ticksLeft--
	if c.ticksLeft != 0 {
		return
	}

	if !c.hold && !keyedOff {
		c.keyOff()
	}

	note, ok := c.nextCommand(trk)
	if !ok {
		return
	}

	para := c.fetch(trk)
	if note == 0x80 {
		c.keyOff()
		c.hold = false
	} else {
		c.keyOn()
		if !c.hold || note != c.frqBlockMSB {
			c.flags |= flagRecalcFreq
		}
		c.hold = para&0x80 == 0x80
		c.frqBlockMSB = note
	}
	c.ticksLeft = para & 0x7f
}

func (c *channel) processFMFrequency() {
	if c.flags&flagRecalcFreq == flagRecalcFreq {
		c.frequency = uint16(int(fnums[c.frqBlockMSB&0x0f])+int(c.frqLSB)) | uint16((c.frqBlockMSB&0x70)>>1)<<8
		c.writeFMFrequency()
		c.setupVibrato()
	}

	if c.flags&flagVbrOff == 0x00 {
		if !c.processVibrato() {
			return
		}
		c.writeFMFrequency()
	}
}

func (c *channel) writeFMFrequency() {
	c.writeReg(c.part, 0xa4+c.regOffset, uint8(c.frequency>>8))
	c.writeReg(c.part, 0xa0+c.regOffset, uint8(c.frequency))
}

func (c *channel) setupVibrato() {
	c.vbr.curDelay = c.vbr.initDelayHi
	if c.flags&flagKeyOff == flagKeyOff {
		c.vbr.modCur = c.vbr.modInit
		c.vbr.curDelay += c.vbr.initDelayLo
	}
	c.vbr.durLeft = c.vbr.duration >> 1
	c.flags &^= flagKeyOff | flagRecalcFreq
}

// processVibrato steps the vibrato. the result is true if the frequency
// was changed
func (c *channel) processVibrato() bool {
	c.vbr.curDelay--
	if c.vbr.curDelay != 0 {
		return false
	}
	c.vbr.curDelay = c.vbr.initDelayHi
	c.frequency += uint16(c.vbr.modCur)

	c.vbr.durLeft--
	if c.vbr.durLeft == 0 {
		c.vbr.durLeft = c.vbr.duration
		c.vbr.modCur = -c.vbr.modCur
	}
	return true
}

func (c *channel) keyOn() {
	if c.isSSG() {
		c.keyOnSSG()
		return
	}
	c.writeReg(0, 0x28, c.keyNum|0xf0)
}

func (c *channel) keyOff() {
	c.flags |= flagKeyOff
	c.writeReg(0, 0x28, c.keyNum&0x0f)
}

// incFMLevel attenuates the output by three steps
func (c *channel) incFMLevel() {
	c.totalLevel = uint8(min(int(c.totalLevel)+3, 0x7f))
}

// setFMOutputLevel writes the total level to the carrier operators of the
// current algorithm
func (c *channel) setFMOutputLevel() {
	carrier := carriers[c.algorithm&0x07]
	reg := 0x40 + c.regOffset
	for range 4 {
		if carrier&0x01 == 0x01 {
			c.writeReg(c.part, reg, c.totalLevel)
		}
		carrier >>= 1
		reg += 4
	}
}
