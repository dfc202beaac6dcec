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
	"fmt"

	"github.com/scummvm/scummvm-sub071/hardware/opna"
)

var ssgRegisters = [...]string{
	"tone A lo", "tone A hi", "tone B lo", "tone B hi", "tone C lo", "tone C hi",
	"noise", "mixer", "level A", "level B", "level C",
	"env lo", "env hi", "env shape",
}

var operatorRegisters = map[uint8]string{
	0x30: "mul", 0x40: "tl", 0x50: "ar", 0x60: "dr",
	0x70: "sr", 0x80: "sl/rr", 0x90: "ssg-eg",
}

// slot number of the operator registers in register order
var slotNumbers = [4]int{1, 3, 2, 4}

// LookupRegister returns a short description of a chip register.
func LookupRegister(part uint8, reg uint8) string {
	if part == 0 {
		switch {
		case int(reg) < len(ssgRegisters):
			return ssgRegisters[reg]
		case reg == 0x10:
			return "rhythm key"
		case reg == 0x11:
			return "rhythm level"
		case reg >= 0x18 && reg <= 0x1d:
			return fmt.Sprintf("%s level", opna.Instrument(reg-0x18).Name())
		case reg == 0x24:
			return "timer A hi"
		case reg == 0x25:
			return "timer A lo"
		case reg == 0x26:
			return "timer B"
		case reg == 0x27:
			return "timer ctrl"
		case reg == 0x28:
			return "key on"
		}
	}

	if reg < 0x30 || reg&0x03 == 0x03 {
		return "-"
	}

	fm := int(part)*3 + int(reg&0x03)
	if reg < 0xa0 {
		return fmt.Sprintf("FM%d S%d %s", fm, slotNumbers[(reg>>2)&0x03], operatorRegisters[reg&0xf0])
	}

	switch reg & 0xfc {
	case 0xa0:
		return fmt.Sprintf("FM%d fnum", fm)
	case 0xa4:
		return fmt.Sprintf("FM%d block", fm)
	case 0xb0:
		return fmt.Sprintf("FM%d alg", fm)
	case 0xb4:
		return fmt.Sprintf("FM%d pan", fm)
	}

	return "-"
}
