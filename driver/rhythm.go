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

// processRhythmEvents advances the rhythm channel by one tick. every note
// byte before the 0x80 terminator is written to the rhythm key register. the
// byte after the terminator is the number of ticks to wait
func (c *channel) processRhythmEvents(trk []byte) {
	if c.flags&flagEOT == flagEOT {
		return
	}

	c.ticksLeft--
	if c.ticksLeft != 0 {
		return
	}

	for {
		cmd, ok := c.nextCommand(trk)
		if !ok {
			return
		}
		if cmd == 0x80 {
			break
		}
		c.writeReg(0, 0x10, cmd)
	}

	c.ticksLeft = c.fetch(trk)
}
