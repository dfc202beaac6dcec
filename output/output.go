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

// Package output connects a sample source to an audio device. The sdlaudio
// and otoaudio sub-packages implement the Backend interface.
package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/scummvm/scummvm-sub071/output/otoaudio"
	"github.com/scummvm/scummvm-sub071/output/sdlaudio"
)

// ErrUnknownBackend is returned by Open() for backend names that are not
// recognised.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend is an audio device that is being fed samples.
type Backend interface {
	// the error that stopped playback
	Err() error

	Close() error
}

// Open starts playback of the source with the named backend. The source
// must produce 16 bit signed little-endian mono samples at the sample rate.
// Valid backend names are "sdl" and "oto".
func Open(name string, src io.Reader, sampleRate int, bufferLength int) (Backend, error) {
	switch name {
	case "sdl":
		aud, err := sdlaudio.NewAudio(src, sampleRate, bufferLength)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		return aud, nil
	case "oto":
		aud, err := otoaudio.NewAudio(src, sampleRate, bufferLength)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		return aud, nil
	}
	return nil, fmt.Errorf("output: %w: %s", ErrUnknownBackend, name)
}
