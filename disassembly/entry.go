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
)

// EntryType describes the broad category of an Entry.
type EntryType int

// List of valid EntryType values.
const (
	EntryNote EntryType = iota
	EntryRest
	EntryRhythm
	EntryWait
	EntryControl
	EntryEnd
)

func (t EntryType) String() string {
	switch t {
	case EntryNote:
		return "note"
	case EntryRest:
		return "rest"
	case EntryRhythm:
		return "rhythm"
	case EntryWait:
		return "wait"
	case EntryControl:
		return "control"
	case EntryEnd:
		return "end"
	}
	return "unknown"
}

// Entry is a single decoded event.
type Entry struct {
	Type EntryType

	// position of the event in the resource
	Offset int

	// the raw bytes of the event, including parameters
	Bytes []byte

	Mnemonic string
	Operand  string

	// number of ticks the event waits for. zero for control events
	Ticks int

	// the tick count at which the event is reached, assuming the track is
	// played from the start without jumps
	Tick int
}

// ByteCode returns the bytes of the entry as a string of hex values.
func (e *Entry) ByteCode() string {
	s := strings.Builder{}
	for i, b := range e.Bytes {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteString(fmt.Sprintf("%02x", b))
	}
	return s.String()
}

func (e *Entry) String() string {
	if e.Operand == "" {
		return e.Mnemonic
	}
	return fmt.Sprintf("%s %s", e.Mnemonic, e.Operand)
}
