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
	"io"
	"strings"
)

// WriteAttr controls what is printed by the Write*() functions
type WriteAttr struct {
	ByteCode bool
	Tick     bool
}

// Write the entire disassembly to io.Writer
func (dsm *Disassembly) Write(output io.Writer, attr WriteAttr) error {
	for i := range dsm.Tracks {
		if i > 0 {
			if _, err := io.WriteString(output, "\n"); err != nil {
				return fmt.Errorf("disassembly: %w", err)
			}
		}
		if err := dsm.WriteTrack(output, attr, i); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrack writes the disassembly of the selected track to io.Writer
func (dsm *Disassembly) WriteTrack(output io.Writer, attr WriteAttr, track int) error {
	if track < 0 || track >= len(dsm.Tracks) {
		return fmt.Errorf("disassembly: no such track (%d)", track)
	}

	trk := &dsm.Tracks[track]
	if _, err := io.WriteString(output, trk.header()); err != nil {
		return fmt.Errorf("disassembly: %w", err)
	}

	for _, e := range trk.Entries {
		if err := dsm.WriteLine(output, attr, e); err != nil {
			return err
		}
	}

	if !trk.Terminated {
		if _, err := io.WriteString(output, "--- unterminated ---\n"); err != nil {
			return fmt.Errorf("disassembly: %w", err)
		}
	}

	return nil
}

func (trk *Track) header() string {
	return fmt.Sprintf("--- %s $%04x ---\n", trk.Name, trk.Start)
}

// WriteLine writes a single Entry to io.Writer
func (dsm *Disassembly) WriteLine(output io.Writer, attr WriteAttr, e *Entry) error {
	if e == nil {
		return nil
	}

	s := strings.Builder{}
	if attr.Tick {
		s.WriteString(fmt.Sprintf("%6d ", e.Tick))
	}
	s.WriteString(fmt.Sprintf("$%04x ", e.Offset))
	if attr.ByteCode {
		s.WriteString(fmt.Sprintf("%-17s ", e.ByteCode()))
	}
	s.WriteString(fmt.Sprintf("%-8s %s", e.Mnemonic, e.Operand))

	line := strings.TrimRight(s.String(), " ")
	if _, err := io.WriteString(output, line+"\n"); err != nil {
		return fmt.Errorf("disassembly: %w", err)
	}

	return nil
}
