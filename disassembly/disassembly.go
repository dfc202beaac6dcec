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
	"errors"
	"fmt"
	"strings"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
)

// ErrNoData is returned when a resource is too short to contain the
// directory or offset table that it should start with.
var ErrNoData = errors.New("resource is too short")

// the number of entries decoded for a single track before decoding is
// abandoned. a track without an end of track event will otherwise run to
// the end of the resource
const maxEntries = 0x4000

// Track is the decoded event list for one channel.
type Track struct {
	// FM0, SSG2, RHY, SFX1, etc.
	Name string

	Kind  driver.Kind
	Start int

	Entries []*Entry

	// the track ended with an end of track event. a track that ran off the
	// end of the resource is not terminated
	Terminated bool
}

// Disassembly is the decoded form of a music or sound effect resource.
type Disassembly struct {
	Tracks []Track
}

// FromMusic decodes a music resource. The configuration decides the number
// and order of the entries in the offset table.
func FromMusic(data []byte, cfg driver.Config) (*Disassembly, error) {
	n := cfg.NumTracks()
	if len(data) < n*2 {
		return nil, fmt.Errorf("disassembly: music: %w", ErrNoData)
	}

	dsm := &Disassembly{}

	p := 0
	add := func(kind driver.Kind, num int) {
		start := int(data[p]) | int(data[p+1])<<8
		p += 2
		trk := decodeTrack(data, kind, start)
		if kind == driver.KindRhythm {
			trk.Name = kind.String()
		} else {
			trk.Name = fmt.Sprintf("%s%d", kind, num)
		}
		dsm.Tracks = append(dsm.Tracks, trk)
	}

	for i := range min(3, cfg.NumFM) {
		add(driver.KindFM, i)
	}
	for i := range cfg.NumSSG {
		add(driver.KindSSG, i)
	}
	for i := 3; i < cfg.NumFM; i++ {
		add(driver.KindFM, i)
	}
	if cfg.Rhythm {
		add(driver.KindRhythm, 0)
	}

	return dsm, nil
}

// FromSoundEffects decodes one track of a sound effect resource. Voices
// with an offset of zero are unused and are not included in the result.
func FromSoundEffects(data []byte, track uint8) (*Disassembly, error) {
	p := int(track) << 2
	if len(data) < p+4 {
		return nil, fmt.Errorf("disassembly: sound effect %d: %w", track, ErrNoData)
	}

	dsm := &Disassembly{}
	for v := range 2 {
		start := int(data[p+v*2]) | int(data[p+v*2+1])<<8
		if start == 0 {
			continue
		}
		trk := decodeTrack(data, driver.KindSfx, start)
		trk.Name = fmt.Sprintf("%s%d", driver.KindSfx, v)
		dsm.Tracks = append(dsm.Tracks, trk)
	}

	return dsm, nil
}

func decodeTrack(data []byte, kind driver.Kind, start int) Track {
	trk := Track{
		Kind:  kind,
		Start: start,
	}

	p := start
	tick := 0
	for p >= 0 && p < len(data) && len(trk.Entries) < maxEntries {
		var e *Entry

		cmd := data[p]
		switch {
		case cmd >= 0xf0:
			e = decodeControl(data, kind, p)
		case kind == driver.KindRhythm:
			e = decodeRhythm(data, p)
		default:
			e = decodeNote(data, p)
		}

		e.Tick = tick
		tick += e.Ticks

		trk.Entries = append(trk.Entries, e)
		p += len(e.Bytes)

		if e.Type == EntryEnd {
			trk.Terminated = len(e.Bytes) == 1+paramWidth(kind, cmd)
			break
		}
	}

	return trk
}

// clip returns the bytes of an event. the slice is shorter than n if the
// event runs past the end of the data
func clip(data []byte, p int, n int) []byte {
	return data[p:min(p+n, len(data))]
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the name of the pitch selected by a note byte. The low
// nibble selects the semitone and bits 4 to 6 select the octave. Semitone
// values above eleven continue into the next octave.
func NoteName(note uint8) string {
	semi := int(note & 0x0f)
	oct := int(note>>4&0x07) + semi/12
	return fmt.Sprintf("%s%d", noteNames[semi%12], oct)
}

func decodeNote(data []byte, p int) *Entry {
	e := &Entry{
		Offset: p,
		Bytes:  clip(data, p, 2),
	}

	para := uint8(0)
	if len(e.Bytes) > 1 {
		para = e.Bytes[1]
	}
	e.Ticks = int(para & 0x7f)

	if e.Bytes[0] == 0x80 {
		e.Type = EntryRest
		e.Mnemonic = "rest"
		e.Operand = fmt.Sprintf("%d", e.Ticks)
		return e
	}

	e.Type = EntryNote
	e.Mnemonic = "note"
	e.Operand = fmt.Sprintf("%s %d", NoteName(e.Bytes[0]), e.Ticks)
	if para&0x80 == 0x80 {
		e.Operand = fmt.Sprintf("%s hold", e.Operand)
	}
	return e
}

func decodeRhythm(data []byte, p int) *Entry {
	cmd := data[p]
	if cmd == 0x80 {
		e := &Entry{
			Type:     EntryWait,
			Offset:   p,
			Bytes:    clip(data, p, 2),
			Mnemonic: "wait",
		}
		if len(e.Bytes) > 1 {
			e.Ticks = int(e.Bytes[1])
		}
		e.Operand = fmt.Sprintf("%d", e.Ticks)
		return e
	}

	e := &Entry{
		Type:     EntryRhythm,
		Offset:   p,
		Bytes:    clip(data, p, 1),
		Mnemonic: "key",
	}
	if cmd&0x80 == 0x80 {
		e.Mnemonic = "dump"
	}

	var ins []string
	for i := range opna.NumInstruments {
		if cmd&(1<<i) != 0 {
			ins = append(ins, i.Name())
		}
	}
	e.Operand = strings.Join(ins, " ")

	return e
}
