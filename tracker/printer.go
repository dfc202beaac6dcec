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
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes entries as lines of text.
type Printer struct {
	out io.Writer

	// only entries that change the value of a register are printed
	OnlyChanged bool

	color     bool
	tick      lipgloss.Style
	fm        lipgloss.Style
	ssg       lipgloss.Style
	rhythm    lipgloss.Style
	control   lipgloss.Style
	note      lipgloss.Style
	unchanged lipgloss.Style
}

// ColorAllowed returns true if the file is a terminal.
func ColorAllowed(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewPrinter is the preferred method of initialisation for the Printer type.
// Styling is only used if color is true.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{
		out:       out,
		color:     color,
		tick:      lipgloss.NewStyle().Faint(true),
		fm:        lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		ssg:       lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)),
		rhythm:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		control:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
		note:      lipgloss.NewStyle().Bold(true),
		unchanged: lipgloss.NewStyle().Faint(true),
	}
}

func (pr *Printer) style(s lipgloss.Style, t string) string {
	if !pr.color {
		return t
	}
	return s.Render(t)
}

// the style for the register of an entry
func (pr *Printer) section(e Entry) lipgloss.Style {
	switch {
	case e.Reset:
		return pr.control
	case e.Part == 0 && e.Reg <= 0x0d:
		return pr.ssg
	case e.Part == 0 && e.Reg >= 0x10 && e.Reg <= 0x1d:
		return pr.rhythm
	case e.Part == 0 && e.Reg >= 0x24 && e.Reg <= 0x28:
		return pr.control
	}
	return pr.fm
}

// Format returns the entry as a line of text without a trailing newline.
func (pr *Printer) Format(e Entry) string {
	tick := pr.style(pr.tick, fmt.Sprintf("%6d", e.Tick))
	if e.Reset {
		return fmt.Sprintf("%s  %s", tick, pr.style(pr.control, "reset"))
	}

	val := fmt.Sprintf("%d:%02x=%02x", e.Part, e.Reg, e.Val)
	if !e.Changed {
		val = pr.style(pr.unchanged, val)
	}

	s := fmt.Sprintf("%s  %s  %s", tick, val, pr.style(pr.section(e), fmt.Sprintf("%-14s", e.Register)))
	if e.MusicalNote != NoMusicalNote && e.MusicalNote != "" {
		return fmt.Sprintf("%s %s", s, pr.style(pr.note, string(e.MusicalNote)))
	}
	return strings.TrimRight(s, " ")
}

// Print writes the entries, one per line.
func (pr *Printer) Print(entries []Entry) error {
	for _, e := range entries {
		if pr.OnlyChanged && !e.Changed && !e.Reset {
			continue
		}
		if _, err := fmt.Fprintln(pr.out, pr.Format(e)); err != nil {
			return fmt.Errorf("tracker: %w", err)
		}
	}
	return nil
}
