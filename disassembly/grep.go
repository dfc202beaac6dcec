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
	"bytes"
	"io"
	"strings"
)

// GrepScope limits the scope of the search
type GrepScope int

// List of available scopes
const (
	GrepMnemonic GrepScope = iota
	GrepOperand
	GrepAll
)

// Grep searches the disassembly for the specified search string. Matching
// lines are written to output with a header for each track that contains a
// match. The number of matching lines is returned.
func (dsm *Disassembly) Grep(output io.Writer, scope GrepScope, search string, caseSensitive bool) (int, error) {
	var s string
	var matches int

	if !caseSensitive {
		search = strings.ToUpper(search)
	}

	for i := range dsm.Tracks {
		trk := &dsm.Tracks[i]
		trackHeader := false

		for _, e := range trk.Entries {
			// line representation of the entry. we'll print this in case of
			// a match
			line := &bytes.Buffer{}
			_ = dsm.WriteLine(line, WriteAttr{}, e)

			switch scope {
			case GrepMnemonic:
				s = e.Mnemonic
			case GrepOperand:
				s = e.Operand
			case GrepAll:
				s = line.String()
			}

			if !caseSensitive {
				s = strings.ToUpper(s)
			}

			if !strings.Contains(s, search) {
				continue
			}

			if !trackHeader {
				if matches > 0 {
					if _, err := io.WriteString(output, "\n"); err != nil {
						return matches, err
					}
				}
				if _, err := io.WriteString(output, trk.header()); err != nil {
					return matches, err
				}
				trackHeader = true
			}

			if _, err := output.Write(line.Bytes()); err != nil {
				return matches, err
			}
			matches++
		}
	}

	return matches, nil
}
