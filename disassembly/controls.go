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

package disassembly

import (
	"fmt"
	"strings"

	"github.com/scummvm/scummvm-sub071/driver"
)

var fmMnemonics = [16]string{
	"patch", "preset", "keyoff", "bend", "level", "tempo", "repeat", "vibrato",
	"vbr", "nop", "reg", "quieter", "louder", "jump", "nop", "end",
}

var ssgMnemonics = [16]string{
	"instr", "tl", "keyoff", "bend", "alg", "tempo", "repeat", "vibrato",
	"vbr", "custom", "reg", "quieter", "louder", "jump", "nop", "end",
}

// mnemonic returns the name of a control event for the kind of channel
func mnemonic(kind driver.Kind, cmd uint8) string {
	switch kind {
	case driver.KindFM:
		return fmMnemonics[cmd&0x0f]
	case driver.KindRhythm:
		switch cmd {
		case 0xf1:
			return "level"
		case 0xf6:
			return "repeat"
		case 0xfa:
			return "reg"
		case 0xff:
			return "end"
		}
		return "nop"
	}
	return ssgMnemonics[cmd&0x0f]
}

// paramWidth is the number of bytes that the driver consumes after the
// control event. a nop event consumes nothing and the following byte is
// decoded as the next event
func paramWidth(kind driver.Kind, cmd uint8) int {
	if mnemonic(kind, cmd) == "nop" {
		return 0
	}
	return driver.ParameterCount(cmd)
}

func decodeControl(data []byte, kind driver.Kind, p int) *Entry {
	cmd := data[p]
	e := &Entry{
		Type:     EntryControl,
		Offset:   p,
		Bytes:    clip(data, p, 1+paramWidth(kind, cmd)),
		Mnemonic: mnemonic(kind, cmd),
	}

	params := e.Bytes[1:]
	if len(params) < paramWidth(kind, cmd) {
		e.Operand = "?"
		if cmd == 0xff {
			e.Type = EntryEnd
		}
		return e
	}

	word := func(i int) int {
		return int(params[i]) | int(params[i+1])<<8
	}

	switch cmd {
	case 0xf5:
		if kind != driver.KindRhythm {
			e.Operand = fmt.Sprintf("%d", params[0])
			return e
		}
	case 0xf6:
		e.Operand = fmt.Sprintf("x%d $%04x", params[1], word(2))
		return e
	case 0xfa:
		e.Operand = fmt.Sprintf("$%02x=$%02x", params[0], params[1])
		return e
	case 0xfd:
		if kind != driver.KindRhythm {
			e.Operand = fmt.Sprintf("$%04x", word(0))
			return e
		}
	case 0xff:
		e.Type = EntryEnd
		if kind != driver.KindSfx && word(0) != 0 {
			e.Mnemonic = "loop"
			e.Operand = fmt.Sprintf("$%04x", word(0))
		}
		return e
	}

	s := make([]string, 0, len(params))
	for _, b := range params {
		s = append(s, fmt.Sprintf("$%02x", b))
	}
	e.Operand = strings.Join(s, " ")

	return e
}
