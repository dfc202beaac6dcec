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

// channelPreset describes the fixed hardware assignment of a channel
type channelPreset struct {
	regOffset uint8
	chanNum   uint8
	keyNum    uint8
	part      uint8
	idFlag    uint8
}

// FM channels use all six presets. SSG channels use the first three. Sound
// effect voices use the second and third
var channelPresets = [6]channelPreset{
	{regOffset: 0x00, chanNum: 0x00, keyNum: 0x00, part: 0x00, idFlag: 0x01},
	{regOffset: 0x01, chanNum: 0x01, keyNum: 0x01, part: 0x00, idFlag: 0x02},
	{regOffset: 0x02, chanNum: 0x02, keyNum: 0x02, part: 0x00, idFlag: 0x04},
	{regOffset: 0x00, chanNum: 0x03, keyNum: 0x04, part: 0x01, idFlag: 0x08},
	{regOffset: 0x01, chanNum: 0x04, keyNum: 0x05, part: 0x01, idFlag: 0x10},
	{regOffset: 0x02, chanNum: 0x05, keyNum: 0x06, part: 0x01, idFlag: 0x20},
}

// number of parameter bytes that follow each control event. the table is
// indexed by the low nibble of the event
var parameterCount = [16]int{1, 1, 1, 1, 1, 1, 4, 5, 2, 6, 2, 0, 0, 2, 0, 2}

// ParameterCount returns the number of parameter bytes that follow a control
// event. The result for values below 0xf0 is zero.
func ParameterCount(cmd uint8) int {
	if cmd < 0xf0 {
		return 0
	}
	return parameterCount[cmd&0x0f]
}

// output level presets selected by the f1 event of FM channels
var levelPresetsTowns = [24]uint8{
	0x54, 0x50, 0x4c, 0x48, 0x44, 0x40, 0x3c, 0x38,
	0x34, 0x30, 0x2c, 0x28, 0x24, 0x20, 0x1c, 0x18,
	0x14, 0x10, 0x0c, 0x08, 0x04, 0x90, 0x90, 0x90,
}

var levelPresetsPC98 = [24]uint8{
	0x40, 0x3b, 0x38, 0x34, 0x30, 0x2a, 0x28, 0x25,
	0x22, 0x20, 0x1d, 0x1a, 0x18, 0x15, 0x12, 0x10,
	0x0d, 0x0a, 0x08, 0x05, 0x02, 0x90, 0x90, 0x90,
}

// operators that are carriers for each of the eight FM algorithms. bit 0 is
// the operator at register offset 0x00, bit 1 at 0x04, bit 2 at 0x08 and bit
// 3 at 0x0c
var carriers = [8]uint8{0x08, 0x08, 0x08, 0x08, 0x0c, 0x0e, 0x0e, 0x0f}

// FM frequency numbers for the twelve semitones of the octave. the last four
// entries continue the scale for note values that exceed the octave
var fnums = [16]uint16{
	0x026a, 0x028f, 0x02b6, 0x02df, 0x030b, 0x0339, 0x036a, 0x039e,
	0x03d5, 0x0410, 0x044e, 0x048f, 0x04d4, 0x051d, 0x056b, 0x05bd,
}

// SSG tone periods for the twelve semitones of the lowest octave. the
// period is shifted right by the octave number. the last four entries
// continue the scale as with the fnums table
var ssgPeriods = [16]uint16{
	0x0ee8, 0x0e12, 0x0d48, 0x0c89, 0x0bd5, 0x0b2b, 0x0a8a, 0x09f3,
	0x0964, 0x08dd, 0x085e, 0x07e6, 0x0774, 0x0709, 0x06a4, 0x0644,
}

// number of bytes in an FM patch
const patchSize = 32

// number of ticks in a fade. the driver is reset at the end of the fade
const fadeTicks = 19

// SSG instruments are sixteen bytes long and are made of four envelope
// segments of four bytes each. the segments are: attack, decay, sustain and
// release. the bytes of each segment are:
//
//	0: step size
//	1: ticks per step. bit 7 indicates a downward ramp
//	2: target level
//	3: start level (only used in the attack segment)
//
// a segment with a step size of zero and a downward ramp never reaches its
// target and so holds the current level until key-off.
//
// the table is never modified. custom instruments loaded by the f9 event are
// held by the channel that loaded them
var ssgEnvelopes = [256]uint8{
	// 0: organ
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	// 1: piano
	0x00, 0x01, 0xff, 0xff, 0x04, 0x82, 0x60, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	// 2: strings
	0x10, 0x01, 0xf0, 0x20, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x08, 0x81, 0x00, 0x00,
	// 3: pluck
	0x00, 0x01, 0xff, 0xff, 0x08, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x20, 0x81, 0x00, 0x00,
	// 4: blip
	0x00, 0x01, 0xff, 0xff, 0x20, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0xff, 0x81, 0x00, 0x00,
	// 5: swell
	0x04, 0x02, 0xff, 0x40, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x04, 0x81, 0x00, 0x00,
	// 6: brass
	0x30, 0x01, 0xff, 0x60, 0x08, 0x81, 0xc0, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	// 7: noise hit
	0x00, 0x01, 0xe0, 0xe0, 0x10, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0xff, 0x81, 0x00, 0x00,
	// 8: pad
	0x08, 0x03, 0xc0, 0x00, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x02, 0x81, 0x00, 0x00,
	// 9: bell
	0x00, 0x01, 0xff, 0xff, 0x02, 0x84, 0x40, 0x00, 0x01, 0x88, 0x00, 0x00, 0x08, 0x81, 0x00, 0x00,
	// 10 to 12: custom instruments for the music channels
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	// 13 to 15: custom instruments for the sound effect voices
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
	0x00, 0x01, 0xff, 0xff, 0x00, 0x81, 0x00, 0x00, 0x00, 0x81, 0x00, 0x00, 0x10, 0x81, 0x00, 0x00,
}

// first custom instrument slot for music and sound effect channels
const (
	customSlotMusic = 10
	customSlotSfx   = 13
)
