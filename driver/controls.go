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

// controlEvent is the handler for a control event. the result is false if
// processing of the channel should stop for this tick
type controlEvent func(c *channel, trk []byte, para uint8) bool

// dispatch tables for each kind of channel, indexed by the low nibble of the
// control event. sound effect voices use the SSG table
var (
	fmControls     [16]controlEvent
	ssgControls    [16]controlEvent
	rhythmControls [16]controlEvent
)

func init() {
	fmControls = [16]controlEvent{
		(*channel).ctrlSetPatch,
		(*channel).ctrlPresetLevel,
		(*channel).ctrlKeyOffTime,
		(*channel).ctrlPitchBend,
		(*channel).ctrlSetLevel,
		(*channel).ctrlTempo,
		(*channel).ctrlRepeatSection,
		(*channel).ctrlSetupVibrato,
		(*channel).ctrlToggleVibrato,
		(*channel).ctrlDummy,
		(*channel).ctrlWriteReg,
		(*channel).ctrlFMQuieter,
		(*channel).ctrlFMLouder,
		(*channel).ctrlJump,
		(*channel).ctrlDummy,
		(*channel).ctrlEndOfTrack,
	}

	ssgControls = [16]controlEvent{
		(*channel).ctrlSetInstrument,
		(*channel).ctrlSetTotalLevel,
		(*channel).ctrlKeyOffTime,
		(*channel).ctrlPitchBend,
		(*channel).ctrlSetAlgorithm,
		(*channel).ctrlTempo,
		(*channel).ctrlRepeatSection,
		(*channel).ctrlSetupVibrato,
		(*channel).ctrlToggleVibrato,
		(*channel).ctrlLoadCustomPatch,
		(*channel).ctrlWriteReg,
		(*channel).ctrlSSGQuieter,
		(*channel).ctrlSSGLouder,
		(*channel).ctrlJump,
		(*channel).ctrlDummy,
		(*channel).ctrlEndOfTrack,
	}

	for i := range rhythmControls {
		rhythmControls[i] = (*channel).ctrlDummy
	}
	rhythmControls[0x01] = (*channel).ctrlRhythmLevel
	rhythmControls[0x06] = (*channel).ctrlRepeatSection
	rhythmControls[0x0a] = (*channel).ctrlWriteReg
	rhythmControls[0x0f] = (*channel).ctrlEndOfTrack
}

// the parameter byte of a dummy event is reinterpreted as the next command
func (c *channel) ctrlDummy(_ []byte, _ uint8) bool {
	c.pos--
	return true
}

func (c *channel) ctrlSetPatch(trk []byte, para uint8) bool {
	c.instr = para

	reg := c.regOffset + 0x80
	for range 4 {
		// fastest release rate for every operator
		c.writeReg(c.part, reg, 0x0f)
		reg += 4
	}

	p := c.drv.patches + int(c.instr)*patchSize
	reg = c.regOffset + 0x30
	for range 6 {
		// operator registers are written in slot order 1, 3, 2, 4
		c.writeReg(c.part, reg, byteAt(trk, p))
		reg += 4
		c.writeReg(c.part, reg, byteAt(trk, p+2))
		reg += 4
		c.writeReg(c.part, reg, byteAt(trk, p+1))
		reg += 4
		c.writeReg(c.part, reg, byteAt(trk, p+3))
		reg += 4
		p += 4
	}

	fbAlg := byteAt(trk, p)
	c.algorithm = fbAlg & 0x07
	c.writeReg(c.part, c.regOffset+0xb0, fbAlg)
	c.setFMOutputLevel()

	return true
}

func (c *channel) ctrlPresetLevel(_ []byte, para uint8) bool {
	if c.drv.fading != 0 {
		return true
	}
	presets := c.drv.levelPresets
	c.totalLevel = presets[min(int(para), len(presets)-1)] & 0x7f
	c.setFMOutputLevel()
	return true
}

func (c *channel) ctrlKeyOffTime(_ []byte, para uint8) bool {
	c.keyOffTime = para
	return true
}

func (c *channel) ctrlPitchBend(_ []byte, para uint8) bool {
	c.frqLSB = int8(para)
	return true
}

func (c *channel) ctrlSetLevel(_ []byte, para uint8) bool {
	if c.drv.fading != 0 {
		return true
	}
	c.totalLevel = para & 0x7f
	c.setFMOutputLevel()
	return true
}

func (c *channel) ctrlTempo(_ []byte, para uint8) bool {
	c.drv.setMusicTempo(para)
	return true
}

// the repeat section is four bytes long: the counter, the reload value of
// the counter and the position of the start of the section. the counter is
// modified in the arena
func (c *channel) ctrlRepeatSection(trk []byte, _ uint8) bool {
	c.pos--
	if c.pos < 0 || c.pos+1 >= len(trk) {
		c.pos += 4
		return true
	}

	trk[c.pos]--
	if trk[c.pos] != 0 {
		c.pos = int(wordAt(trk, c.pos+2))
		return true
	}

	trk[c.pos] = trk[c.pos+1]
	c.pos += 4
	return true
}

func (c *channel) ctrlSetupVibrato(trk []byte, para uint8) bool {
	c.vbr.initDelayLo = para
	c.vbr.initDelayHi = byteAt(trk, c.pos)
	c.vbr.modInit = int16(wordAt(trk, c.pos+1))
	c.vbr.duration = byteAt(trk, c.pos+3)
	c.pos += 4
	c.flags = (c.flags &^ flagVbrOff) | flagKeyOff | flagRecalcFreq
	return true
}

func (c *channel) ctrlToggleVibrato(trk []byte, para uint8) bool {
	v := c.fetch(trk)
	if para != 0x10 {
		return true
	}
	if v != 0 {
		c.flags = (c.flags &^ flagVbrOff) | flagKeyOff
	} else {
		c.flags |= flagVbrOff
	}
	return true
}

func (c *channel) ctrlWriteReg(trk []byte, para uint8) bool {
	c.writeReg(c.part, para, c.fetch(trk))
	return true
}

func (c *channel) ctrlFMQuieter(_ []byte, _ uint8) bool {
	c.pos--
	if c.drv.fading != 0 {
		return true
	}
	c.incFMLevel()
	c.setFMOutputLevel()
	return true
}

func (c *channel) ctrlFMLouder(_ []byte, _ uint8) bool {
	c.pos--
	if c.drv.fading != 0 {
		return true
	}
	c.totalLevel = uint8(max(int(c.totalLevel)-3, 0))
	c.setFMOutputLevel()
	return true
}

// the jump is only taken if the byte following the target position is 0x01
func (c *channel) ctrlJump(trk []byte, _ uint8) bool {
	target := int(wordAt(trk, c.pos-1))
	if byteAt(trk, target+1) == 0x01 {
		c.pos = target
	} else {
		c.pos++
	}
	return true
}

func (c *channel) ctrlEndOfTrack(trk []byte, _ uint8) bool {
	if c.kind == KindSfx {
		c.finish()
		return false
	}

	c.pos--
	if target := wordAt(trk, c.pos); target != 0 {
		c.pos = int(target)
		return true
	}

	c.pos--
	c.finish()
	return false
}

func (c *channel) ctrlSetInstrument(_ []byte, para uint8) bool {
	c.instr = para << 4
	if alg := (para >> 3) & 0x1e; alg != 0 {
		c.algorithm = alg | 0x40
	}
	return true
}

func (c *channel) ctrlSetTotalLevel(_ []byte, para uint8) bool {
	if c.drv.fading == 0 {
		c.totalLevel = min(para, 0x0f)
	}
	return true
}

func (c *channel) ctrlSetAlgorithm(_ []byte, para uint8) bool {
	c.algorithm = para
	return true
}

// the custom instrument replaces the step of the attack segment, the start
// level, the step and target of the decay segment, the step of the sustain
// segment and the step of the release segment
func (c *channel) ctrlLoadCustomPatch(trk []byte, para uint8) bool {
	c.instr = c.ssg.customSlot << 4
	if c.ssg.custom == nil {
		c.ssg.custom = new([16]uint8)
		copy(c.ssg.custom[:], ssgEnvelopes[c.instr:])
	}
	c.ssg.custom[0] = c.fetch(trk)
	c.ssg.custom[3] = para
	c.ssg.custom[4] = c.fetch(trk)
	c.ssg.custom[6] = c.fetch(trk)
	c.ssg.custom[8] = c.fetch(trk)
	c.ssg.custom[12] = c.fetch(trk)
	return true
}

func (c *channel) ctrlSSGQuieter(_ []byte, _ uint8) bool {
	c.pos--
	if c.drv.fading != 0 {
		return true
	}
	if int8(c.totalLevel) > 0 {
		c.totalLevel--
	} else {
		c.totalLevel = 0
	}
	return true
}

func (c *channel) ctrlSSGLouder(_ []byte, _ uint8) bool {
	c.pos--
	if c.drv.fading != 0 {
		return true
	}
	if c.totalLevel+1 < 0x10 {
		c.totalLevel++
	}
	return true
}

func (c *channel) ctrlRhythmLevel(_ []byte, para uint8) bool {
	c.totalLevel = para
	c.writeReg(0, 0x11, para)
	return true
}
