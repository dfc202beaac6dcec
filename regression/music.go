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

package regression

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scummvm/scummvm-sub071/database"
	"github.com/scummvm/scummvm-sub071/digest"
	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/player"
)

const musicEntryType = "music"

const (
	musicFieldResource int = iota
	musicFieldDriver
	musicFieldSampleRate
	musicFieldDuration
	musicFieldDigest
	musicFieldNotes
	numMusicFields
)

// fade interval of the player. fading is never started during a regression
// so the value has no effect on the output
const fadeInterval = 180 * time.Millisecond

// number of samples rendered at a time
const renderChunk = 4096

// MusicRegression is the simplest regression type. It renders a music
// resource for a fixed duration and compares the digest of the audio.
type MusicRegression struct {
	Music      string
	Driver     string
	SampleRate int
	Duration   time.Duration
	Notes      string

	digest string
}

// NewMusicRegression is the preferred method of initialisation for the
// MusicRegression type. The driver argument is one of "26", "86" or "towns".
func NewMusicRegression(music string, drv string, sampleRate int, duration time.Duration, notes string) (*MusicRegression, error) {
	drv = strings.ToLower(drv)
	if _, err := driver.ParseType(drv); err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("regression: invalid sample rate (%d)", sampleRate)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("regression: invalid duration (%v)", duration)
	}
	for _, s := range []string{music, notes} {
		if strings.ContainsAny(s, ",\n") {
			return nil, fmt.Errorf("regression: field cannot contain a comma or newline [%s]", s)
		}
	}

	return &MusicRegression{
		Music:      music,
		Driver:     drv,
		SampleRate: sampleRate,
		Duration:   duration,
		Notes:      notes,
	}, nil
}

func deserialiseMusicEntry(fields []string) (database.Entry, error) {
	if len(fields) != numMusicFields {
		return nil, fmt.Errorf("music entry: wrong number of fields (%d)", len(fields))
	}

	rate, err := strconv.Atoi(fields[musicFieldSampleRate])
	if err != nil {
		return nil, fmt.Errorf("music entry: invalid sample rate [%s]", fields[musicFieldSampleRate])
	}

	duration, err := time.ParseDuration(fields[musicFieldDuration])
	if err != nil {
		return nil, fmt.Errorf("music entry: invalid duration [%s]", fields[musicFieldDuration])
	}

	reg, err := NewMusicRegression(fields[musicFieldResource], fields[musicFieldDriver], rate, duration, fields[musicFieldNotes])
	if err != nil {
		return nil, fmt.Errorf("music entry: %w", err)
	}
	reg.digest = fields[musicFieldDigest]

	return reg, nil
}

// EntryType implements the database.Entry interface.
func (reg *MusicRegression) EntryType() string {
	return musicEntryType
}

// Serialise implements the database.Entry interface.
func (reg *MusicRegression) Serialise() ([]string, error) {
	return []string{
		reg.Music,
		reg.Driver,
		strconv.Itoa(reg.SampleRate),
		reg.Duration.String(),
		reg.digest,
		reg.Notes,
	}, nil
}

// String implements the database.Entry interface.
func (reg *MusicRegression) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("[%s] %s [%s] %dHz %v", musicEntryType, reg.Music, reg.Driver, reg.SampleRate, reg.Duration))
	if reg.Notes != "" {
		s.WriteString(fmt.Sprintf(" [%s]", reg.Notes))
	}
	return s.String()
}

// Digest returns the digest recorded for the entry. Empty if the entry has
// not been run.
func (reg *MusicRegression) Digest() string {
	return reg.digest
}

// render plays the music resource and returns the digest of the audio.
func (reg *MusicRegression) render() (string, error) {
	typ, err := driver.ParseType(reg.Driver)
	if err != nil {
		return "", err
	}

	ply, err := player.NewPlayer(player.Config{
		Driver:       driver.NewConfig(typ),
		SampleRate:   reg.SampleRate,
		FadeInterval: fadeInterval,
	})
	if err != nil {
		return "", err
	}

	if err := ply.LoadMusicFile(reg.Music); err != nil {
		return "", err
	}

	dig := digest.NewAudio()

	remaining := int(reg.Duration.Seconds() * float64(reg.SampleRate))
	buf := make([]int16, renderChunk)
	for remaining > 0 && !ply.Finished() {
		n := min(remaining, len(buf))
		ply.Render(buf[:n])
		if err := dig.SetAudio(buf[:n]); err != nil {
			return "", err
		}
		remaining -= n
	}

	return dig.Hash(), nil
}

func (reg *MusicRegression) regress(newRegression bool) (bool, string, error) {
	hash, err := reg.render()
	if err != nil {
		return false, "", err
	}

	if newRegression {
		reg.digest = hash
		return true, "", nil
	}

	if hash != reg.digest {
		return false, fmt.Sprintf("digest mismatch: %s != %s", hash, reg.digest), nil
	}

	return true, "", nil
}
