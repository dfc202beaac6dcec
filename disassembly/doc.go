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

// Package disassembly decodes music and sound effect resources into a
// readable listing of events.
//
// A resource is decoded linearly from the start of each track until the end
// of track event or the end of the data. Jumps and loops are not followed.
// Control events are decoded with the parameter widths used by the driver
// for the kind of channel that owns the track.
//
// The Disassembly type can be written with Write() and searched with Grep().
package disassembly
