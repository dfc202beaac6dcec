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

// ChannelState is a snapshot of a single channel.
type ChannelState struct {
	Kind Kind

	// index of the channel among channels of the same kind
	Index int

	// the channel is being advanced by the timer callbacks
	Active bool

	// the channel has reached the end of its track
	EOT bool

	// the hardware voice of an SSG channel is lent to a sound effect
	Protected bool

	Position   int
	Note       uint8
	TicksLeft  uint8
	KeyOffTime uint8
	Sustain    bool
	Instrument uint8
	TotalLevel uint8
	Frequency  uint16
	PitchBend  int8
	Vibrato    bool

	// current envelope level. SSG channels only
	EnvelopeLevel uint8
}

func (c *channel) state(index int, active bool) ChannelState {
	s := ChannelState{
		Kind:       c.kind,
		Index:      index,
		Active:     active,
		EOT:        c.flags&flagEOT == flagEOT,
		Protected:  c.flags&flagProtect == flagProtect,
		Position:   c.pos,
		Note:       c.frqBlockMSB,
		TicksLeft:  c.ticksLeft,
		KeyOffTime: c.keyOffTime,
		Sustain:    c.hold,
		Instrument: c.instr,
		TotalLevel: c.totalLevel,
		Frequency:  c.frequency,
		PitchBend:  c.frqLSB,
		Vibrato:    c.flags&flagVbrOff == 0x00,
	}
	if c.isSSG() {
		s.EnvelopeLevel = c.ssg.startLvl
	}
	return s
}

// ChannelStates returns the state of every channel. FM channels are listed
// first, followed by the SSG channels, the rhythm channel and the sound
// effect voices.
func (drv *Driver) ChannelStates() []ChannelState {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	var s []ChannelState
	for i, c := range drv.fm {
		s = append(s, c.state(i, drv.updateFM&c.idFlag == c.idFlag))
	}
	for i, c := range drv.ssg {
		s = append(s, c.state(i, drv.updateSSG&c.idFlag == c.idFlag))
	}
	if drv.rhythm != nil {
		s = append(s, drv.rhythm.state(0, drv.updateRhythm&drv.rhythm.idFlag == drv.rhythm.idFlag))
	}
	for i, c := range drv.sfx {
		s = append(s, c.state(i, drv.updateSfx&c.idFlag == c.idFlag))
	}
	return s
}
