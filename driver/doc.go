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

// Package driver implements the FM-TOWNS and PC-98 music driver. The driver
// interprets the byte-code format of music and sound effect resources and
// translates it, tick by tick, into register writes for an OPN/OPNA style
// sound chip.
//
// The chip is not part of this package. It is consumed through the Chip
// interface and can be anything that accepts register writes: the chip model
// in hardware/opna, the register tracker, or a test double.
//
// # Timing
//
// The driver does nothing on its own. The host is expected to call
// TimerCallbackA() at the rate of the chip's timer A (the sound effect tick)
// and TimerCallbackB() at the rate of timer B (the music tick). Both rates
// are programmed by the driver through chip registers 0x24 to 0x27. The two
// callbacks must not be called concurrently but the driver guards against it
// with a mutex, which also serialises the Load*() and Reset() functions.
//
// FadeStep() is called by the host at a rate of its own choosing to fade out
// the music.
//
// # Resources
//
// A music resource begins with a table of little-endian 16-bit offsets, one
// per channel, in the order: the first three FM channels, the SSG channels,
// the remaining FM channels and then the rhythm channel (if present). The FM
// patch table begins four bytes after the end of the offset table, with 32
// bytes per patch.
//
// A sound effect resource begins with a directory of offset pairs. For track
// t the offsets at t*4 and t*4+2 are the tracks for the two sound effect
// voices. A zero offset means the voice is not used by the effect.
//
// Each track is a stream of note/duration pairs and control events. Note
// values are below 0xf0. Control events are in the range 0xf0 to 0xff and
// are followed by a fixed number of parameter bytes (see ParameterCount()).
// Event 0xff ends the track. It is followed by a 16-bit loop offset, with
// zero meaning the track stops.
//
// The driver takes a private copy of every resource it loads. The copy is
// modified by the repeat-section event during playback.
package driver
