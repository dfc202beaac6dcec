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

package easyterm_test

import (
	"os"
	"testing"

	"github.com/scummvm/scummvm-sub071/easyterm"
	"github.com/scummvm/scummvm-sub071/test"
)

func TestMissingFiles(t *testing.T) {
	_, err := easyterm.NewTerminal(nil, os.Stdout)
	test.ExpectFailure(t, err)
	_, err = easyterm.NewTerminal(os.Stdin, nil)
	test.ExpectFailure(t, err)
}

func TestNotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "easyterm")
	test.DemandSuccess(t, err)
	defer f.Close()

	// termios attributes are not available for a regular file
	_, err = easyterm.NewTerminal(f, f)
	test.ExpectFailure(t, err)
}
