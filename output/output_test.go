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

package output_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/scummvm/scummvm-sub071/output"
	"github.com/scummvm/scummvm-sub071/output/otoaudio"
	"github.com/scummvm/scummvm-sub071/output/sdlaudio"
	"github.com/scummvm/scummvm-sub071/test"
)

func TestBackends(t *testing.T) {
	test.ExpectImplements[output.Backend](t, &sdlaudio.Audio{})
	test.ExpectImplements[output.Backend](t, &otoaudio.Audio{})
}

func TestUnknownBackend(t *testing.T) {
	b, err := output.Open("alsa", &bytes.Buffer{}, 44100, 1024)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, output.ErrUnknownBackend))
	test.ExpectSuccess(t, b == nil)
}
