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

package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/paths"
	"github.com/scummvm/scummvm-sub071/pcm"
	"github.com/scummvm/scummvm-sub071/prefs"
)

// PrefsFile is the name of the preferences file in the configuration
// directory.
const PrefsFile = "preferences"

// Preferences defines and collates all the preference values used by the
// player.
type Preferences struct {
	dsk *prefs.Disk

	// output sample rate of the playback backend
	SampleRate prefs.Int

	// playback backend. either "sdl" or "oto"
	Backend prefs.String

	// number of samples in each buffer sent to the backend
	Buffer prefs.Int

	// milliseconds between each step of a fade
	FadeInterval prefs.Int

	MusicVolume prefs.Int
	SfxVolume   prefs.Int

	// driver type. one of "26", "86" or "towns"
	Driver prefs.String

	// directory of rhythm samples. empty for the default samples
	RhythmBank prefs.String
}

func (p *Preferences) String() string {
	return fmt.Sprintf("%s %dHz (%s)", p.Driver.String(), p.SampleRate.Get(), p.Backend.String())
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.setHooks()
	p.SetDefaults()

	pth, err := paths.ResourcePath("", PrefsFile)
	if err != nil {
		return nil, err
	}
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		p   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"player.samplerate", &p.SampleRate},
		{"player.backend", &p.Backend},
		{"player.buffer", &p.Buffer},
		{"player.fadeinterval", &p.FadeInterval},
		{"player.musicvolume", &p.MusicVolume},
		{"player.sfxvolume", &p.SfxVolume},
		{"player.driver", &p.Driver},
		{"player.rhythmbank", &p.RhythmBank},
	} {
		if err := p.dsk.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	if err := p.dsk.Load(true); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Preferences) setHooks() {
	p.SampleRate.SetHookPre(func(v prefs.Value) error {
		if r := v.(int); r < 8000 || r > 192000 {
			return fmt.Errorf("player: sample rate out of range (%d)", r)
		}
		return nil
	})
	p.Buffer.SetHookPre(func(v prefs.Value) error {
		if b := v.(int); b < 64 || b > 16384 {
			return fmt.Errorf("player: buffer size out of range (%d)", b)
		}
		return nil
	})
	p.FadeInterval.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("player: fade interval must be positive")
		}
		return nil
	})
	volume := func(v prefs.Value) error {
		if vol := v.(int); vol < 0 || vol > 255 {
			return fmt.Errorf("player: volume out of range (%d)", vol)
		}
		return nil
	}
	p.MusicVolume.SetHookPre(volume)
	p.SfxVolume.SetHookPre(volume)
	p.Backend.SetHookPre(func(v prefs.Value) error {
		switch strings.ToLower(v.(string)) {
		case "sdl", "oto":
			return nil
		}
		return fmt.Errorf("player: unknown backend (%s)", v)
	})
	p.Driver.SetHookPre(func(v prefs.Value) error {
		_, err := driver.ParseType(v.(string))
		return err
	})
}

// SetDefaults reverts all player preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.SampleRate.Set(44100)
	_ = p.Backend.Set("sdl")
	_ = p.Buffer.Set(1024)
	_ = p.FadeInterval.Set(180)
	_ = p.MusicVolume.Set(255)
	_ = p.SfxVolume.Set(255)
	_ = p.Driver.Set("towns")
	_ = p.RhythmBank.Set("")
}

// DriverType returns the driver type selected by the preferences.
func (p *Preferences) DriverType() driver.Type {
	t, err := driver.ParseType(p.Driver.String())
	if err != nil {
		return driver.TypeTowns
	}
	return t
}

// Config returns a player configuration built from the preferences. The
// rhythm bank is loaded from disk if one has been specified.
func (p *Preferences) Config() (Config, error) {
	cfg := Config{
		Driver:       driver.NewConfig(p.DriverType()),
		SampleRate:   p.SampleRate.Get().(int),
		FadeInterval: time.Duration(p.FadeInterval.Get().(int)) * time.Millisecond,
	}

	if dir := p.RhythmBank.String(); dir != "" {
		bank, err := pcm.LoadBank(dir)
		if err != nil {
			return Config{}, fmt.Errorf("player: %w", err)
		}
		cfg.Bank = bank
	}

	return cfg, nil
}

// Load player preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current player preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
