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

// Package pcm decodes recorded samples for the rhythm section of the chip.
// WAV and MP3 files are supported. Multi-channel recordings are mixed down to
// a single channel.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
	"github.com/scummvm/scummvm-sub071/logger"
)

const logTag = "pcm"

// ErrUnsupportedFormat is returned for files that are not WAV or MP3 files.
var ErrUnsupportedFormat = errors.New("unsupported format")

// the file extensions searched for by LoadBank, in order of preference
var extensions = []string{".wav", ".mp3"}

// Load decodes the named file. The format is chosen by the file extension.
func Load(filename string) (opna.Sample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return opna.Sample{}, fmt.Errorf("pcm: %w", err)
	}
	defer f.Close()

	return Decode(f, filepath.Ext(filename))
}

// Decode reads a sample from r. The ext argument is a file extension
// identifying the format of the data.
func Decode(r io.ReadSeeker, ext string) (opna.Sample, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		return decodeWAV(r)
	case ".mp3":
		return decodeMP3(r)
	}
	return opna.Sample{}, fmt.Errorf("pcm: %w: %s", ErrUnsupportedFormat, ext)
}

func decodeWAV(r io.ReadSeeker) (opna.Sample, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return opna.Sample{}, fmt.Errorf("pcm: wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return opna.Sample{}, fmt.Errorf("pcm: wav: %w", err)
	}
	buf.SourceBitDepth = int(dec.BitDepth)
	floatBuf := buf.AsFloat32Buffer()

	s := opna.Sample{
		Data: mixdown(floatBuf.Data, int(dec.NumChans)),
		Rate: int(dec.SampleRate),
	}
	logger.Logf(logger.Allow, logTag, "wav: %d samples at %dHz", len(s.Data), s.Rate)

	return s, nil
}

func decodeMP3(r io.Reader) (opna.Sample, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return opna.Sample{}, fmt.Errorf("pcm: mp3: %w", err)
	}

	// the decoded stream is always 16bit little endian with two channels
	// even if the source is single channel
	data, err := io.ReadAll(dec)
	if err != nil {
		return opna.Sample{}, fmt.Errorf("pcm: mp3: %w", err)
	}

	stereo := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		v := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		stereo = append(stereo, float32(v)/32768)
	}

	s := opna.Sample{
		Data: mixdown(stereo, 2),
		Rate: dec.SampleRate(),
	}
	logger.Logf(logger.Allow, logTag, "mp3: %d samples at %dHz", len(s.Data), s.Rate)

	return s, nil
}

// mixdown averages interleaved channels into a single channel
func mixdown(data []float32, numChans int) []float32 {
	if numChans <= 1 {
		return data
	}

	mono := make([]float32, len(data)/numChans)
	for i := range mono {
		var sum float32
		for _, v := range data[i*numChans : (i+1)*numChans] {
			sum += v
		}
		mono[i] = sum / float32(numChans)
	}
	return mono
}

// LoadBank reads rhythm samples from a directory. Each instrument is looked
// for by its short name with a .wav or .mp3 extension. Instruments without a
// file keep the default sample.
func LoadBank(dir string) (*opna.Bank, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pcm: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pcm: %s is not a directory", dir)
	}

	bank := opna.DefaultBank()
	for ins := range opna.NumInstruments {
		s, err := loadInstrument(dir, ins)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Logf(logger.Allow, logTag, "%s: using default sample", ins)
				continue
			}
			return nil, err
		}
		bank[ins] = s
	}

	return bank, nil
}

func loadInstrument(dir string, ins opna.Instrument) (opna.Sample, error) {
	for _, ext := range extensions {
		fn := filepath.Join(dir, ins.Name()+ext)
		if _, err := os.Stat(fn); err != nil {
			continue
		}
		return Load(fn)
	}
	return opna.Sample{}, fs.ErrNotExist
}
