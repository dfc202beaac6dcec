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
	"github.com/scummvm/scummvm-sub071/hardware/opna"
)

// Replayer plays recorded entries on a chip. Entries are applied a tick at a
// time, driven by timer B of the chip, so the timer settings in the
// recording decide the replay speed. Writes made by sound effects between
// music ticks are applied with the next music tick.
type Replayer struct {
	chip    *opna.OPNA
	entries []Entry
	idx     int
	tick    int
}

// NewReplayer is the preferred method of initialisation for the Replayer
// type. Entries with a tick of zero are applied immediately. The timer
// callbacks of the chip are replaced.
func NewReplayer(chip *opna.OPNA, entries []Entry) *Replayer {
	r := &Replayer{
		chip:    chip,
		entries: entries,
	}
	if len(entries) > 0 {
		r.tick = entries[0].Tick
	}
	chip.SetTimerCallbacks(nil, r.nextTick)
	r.apply()
	return r
}

func (r *Replayer) nextTick() {
	r.tick++
	r.apply()
}

// apply every entry up to and including the current tick
func (r *Replayer) apply() {
	for r.idx < len(r.entries) && r.entries[r.idx].Tick <= r.tick {
		e := r.entries[r.idx]
		if e.Reset {
			r.chip.Reset()
		} else {
			r.chip.WriteReg(e.Part, e.Reg, e.Val)
		}
		r.idx++
	}
}

// Done returns true when every entry has been applied.
func (r *Replayer) Done() bool {
	return r.idx >= len(r.entries)
}

// Tick returns the current replay tick.
func (r *Replayer) Tick() int {
	return r.tick
}

// Render fills the buffer with samples from the chip at the chip sample
// rate.
func (r *Replayer) Render(buf []int16) {
	r.chip.Render(buf)
}
