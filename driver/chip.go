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

// Chip is the interface to the sound chip. Register writes are made in one
// of two parts: part 0 addresses the SSG registers, the rhythm registers, the
// timers and the first three FM channels. Part 1 addresses the remaining FM
// channels.
type Chip interface {
	ReadReg(part uint8, reg uint8) uint8
	WriteReg(part uint8, reg uint8, val uint8)

	// Reset silences the chip. Timer settings are not affected.
	Reset()

	// SetVolume sets the output volume (0 to 255) of music and sound effect
	// channels. A negative value leaves the corresponding volume unchanged.
	SetVolume(music int, sfx int)

	// SetVolumeChannelMasks selects which chip channels are mixed with the
	// music volume and which with the sound effect volume. Bits 0 to n-1
	// are the n FM channels. The SSG channels follow.
	SetVolumeChannelMasks(music int, sfx int)
}
