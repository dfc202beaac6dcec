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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirety, and written to disk
// when EndMixing() is called.
package wavwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/youpy/go-wav"
)

// WavWriter collects 16 bit mono samples and writes them to a file.
type WavWriter struct {
	filename   string
	sampleRate int
	buffer     []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, sampleRate int) (*WavWriter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavwriter: sample rate of %d is not possible", sampleRate)
	}

	aw := &WavWriter{
		filename:   filename,
		sampleRate: sampleRate,
		buffer:     make([]wav.Sample, 0),
	}

	return aw, nil
}

// SetAudio adds samples to the end of the buffer.
func (aw *WavWriter) SetAudio(samples []int16) error {
	for _, s := range samples {
		w := wav.Sample{}
		w.Values[0] = int(s)
		aw.buffer = append(aw.buffer, w)
	}
	return nil
}

// Len returns the number of buffered samples.
func (aw *WavWriter) Len() int {
	return len(aw.buffer)
}

// EndMixing writes the buffered audio to the file.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("wavwriter: %w", err))
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 1, uint32(aw.sampleRate), 16)
	if enc == nil {
		return fmt.Errorf("wavwriter: %s", "bad parameters for wav encoding")
	}

	logger.Logf(logger.Allow, "wavwriter", "writing %d samples to %s", len(aw.buffer), aw.filename)

	if err := enc.WriteSamples(aw.buffer); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}

// Reset discards the buffered audio.
func (aw *WavWriter) Reset() {
	aw.buffer = aw.buffer[:0]
}
