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

// Package player hosts the chip and the driver and turns them into a stream
// of audio samples. The timers of the chip drive the driver, so music and
// sound effects advance as samples are produced.
//
// The Player type implements io.Reader, producing signed 16 bit little endian
// mono samples at the output rate. The playback backends (sdlaudio and
// otoaudio) and the WAV writer all read from a Player.
package player

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/hardware/opna"
	"github.com/scummvm/scummvm-sub071/logger"
)

const logTag = "player"

// ErrNoSoundEffects is returned by TriggerSfx if no sound effect resource has
// been loaded.
var ErrNoSoundEffects = errors.New("no sound effects loaded")

// Config is the configuration of a new Player.
type Config struct {
	Driver driver.Config

	// output sample rate
	SampleRate int

	// time between each step of a fade
	FadeInterval time.Duration

	// rhythm samples. nil for the default samples
	Bank *opna.Bank

	// Intercept is called with the chip before the driver is created. The
	// driver uses the returned value as its chip. Used to record register
	// writes
	Intercept func(driver.Chip) driver.Chip

	// OnTick is called before every music tick
	OnTick func()
}

// Player owns the chip and the driver.
type Player struct {
	crit sync.Mutex

	chip *opna.OPNA
	drv  *driver.Driver

	rate int

	// linear resampling from the chip rate to the output rate
	step float64
	pos  float64
	prev float64
	cur  float64

	// fade timing in output samples
	fadeSamples int
	fadeCounter int
	fading      bool

	// sound effect resource
	sfx []byte

	onTick func()
}

// NewPlayer is the preferred method of initialisation for the Player type.
func NewPlayer(cfg Config) (*Player, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("player: invalid sample rate (%d)", cfg.SampleRate)
	}
	if cfg.FadeInterval <= 0 {
		return nil, fmt.Errorf("player: invalid fade interval (%v)", cfg.FadeInterval)
	}

	chip, err := opna.NewOPNA(cfg.Driver.NumFM)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	if cfg.Bank != nil {
		chip.SetBank(cfg.Bank)
	}

	var c driver.Chip = chip
	if cfg.Intercept != nil {
		c = cfg.Intercept(chip)
	}

	drv, err := driver.NewDriver(c, cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	p := &Player{
		chip:        chip,
		drv:         drv,
		rate:        cfg.SampleRate,
		step:        float64(opna.SampleRate) / float64(cfg.SampleRate),
		pos:         1,
		fadeSamples: max(1, int(math.Round(cfg.FadeInterval.Seconds()*float64(cfg.SampleRate)))),
		onTick:      cfg.OnTick,
	}

	chip.SetTimerCallbacks(drv.TimerCallbackA, p.musicTick)
	drv.Init()

	logger.Logf(logger.Allow, logTag, "%d FM, %d SSG at %dHz", cfg.Driver.NumFM, cfg.Driver.NumSSG, cfg.SampleRate)

	return p, nil
}

func (p *Player) musicTick() {
	if p.onTick != nil {
		p.onTick()
	}
	p.drv.TimerCallbackB()
}

// Driver returns the driver. The driver must not be used to change the
// state of the chip while the player is producing samples.
func (p *Player) Driver() *driver.Driver {
	return p.drv
}

// SampleRate returns the output sample rate.
func (p *Player) SampleRate() int {
	return p.rate
}

// LoadMusic starts playback of a music resource.
func (p *Player) LoadMusic(data []byte) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	p.fading = false
	if err := p.drv.LoadMusicData(data, false); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}

// LoadMusicFile starts playback of the music resource in the named file.
func (p *Player) LoadMusicFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	logger.Logf(logger.Allow, logTag, "music: %s", filename)
	return p.LoadMusic(data)
}

// LoadSoundEffects sets the resource used by TriggerSfx.
func (p *Player) LoadSoundEffects(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("player: sound effects: %w", driver.ErrNoData)
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.sfx = data
	return nil
}

// LoadSoundEffectsFile sets the resource used by TriggerSfx to the contents
// of the named file.
func (p *Player) LoadSoundEffectsFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	logger.Logf(logger.Allow, logTag, "sound effects: %s", filename)
	return p.LoadSoundEffects(data)
}

// TriggerSfx starts a track from the sound effect resource.
func (p *Player) TriggerSfx(track uint8) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.sfx == nil {
		return fmt.Errorf("player: %w", ErrNoSoundEffects)
	}
	if err := p.drv.LoadSoundEffectData(p.sfx, track); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}

// Fade starts a fade out of the music. The music stops at the end of the
// fade.
func (p *Player) Fade() {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.fading || !p.drv.MusicPlaying() {
		return
	}
	p.drv.FadeStep()
	p.fading = true
	p.fadeCounter = p.fadeSamples
}

// Pause the music.
func (p *Player) Pause() {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.drv.Pause()
}

// Cont continues paused music.
func (p *Player) Cont() {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.drv.Cont()
}

// Reset stops music and sound effects and silences the chip.
func (p *Player) Reset() {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.fading = false
	p.drv.Reset()
}

// MusicPlaying returns true if music is playing.
func (p *Player) MusicPlaying() bool {
	return p.drv.MusicPlaying()
}

// SoundEffectPlaying returns true while a sound effect is playing.
func (p *Player) SoundEffectPlaying() bool {
	return p.drv.SoundEffectPlaying()
}

// Fading returns true while a fade is in progress.
func (p *Player) Fading() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.fading
}

// Finished returns true when neither music nor sound effects are playing
// and the chip has fallen silent.
func (p *Player) Finished() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return !p.drv.MusicPlaying() && !p.drv.SoundEffectPlaying() && !p.chip.Active()
}

// SetMusicVolume sets the music volume (0 to 255).
func (p *Player) SetMusicVolume(volume int) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.drv.SetMusicVolume(volume)
}

// SetSoundEffectVolume sets the sound effect volume (0 to 255).
func (p *Player) SetSoundEffectVolume(volume int) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.drv.SetSoundEffectVolume(volume)
}

// ChannelStates returns the state of every driver channel.
func (p *Player) ChannelStates() []driver.ChannelState {
	return p.drv.ChannelStates()
}

// TickCounter returns the number of music ticks since the music was loaded.
func (p *Player) TickCounter() int {
	return p.drv.TickCounter()
}

// the next sample at the output rate. must be called with the critical
// section locked
func (p *Player) nextSample() float64 {
	for p.pos >= 1 {
		p.pos--
		p.prev = p.cur
		p.cur = p.chip.Step()
	}
	v := p.prev + (p.cur-p.prev)*p.pos
	p.pos += p.step

	if p.fading {
		p.fadeCounter--
		if p.fadeCounter <= 0 {
			p.fadeCounter = p.fadeSamples
			p.drv.FadeStep()
			p.fading = p.drv.Fading() && p.drv.MusicPlaying()
		}
	}

	return v
}

// Render fills the buffer with samples at the output rate.
func (p *Player) Render(buf []int16) {
	p.crit.Lock()
	defer p.crit.Unlock()

	for i := range buf {
		buf[i] = int16(p.nextSample() * math.MaxInt16)
	}
}

// Read implements the io.Reader interface. Samples are signed 16 bit
// little endian values.
func (p *Player) Read(b []byte) (int, error) {
	p.crit.Lock()
	defer p.crit.Unlock()

	n := len(b) / 2
	for i := range n {
		v := uint16(int16(p.nextSample() * math.MaxInt16))
		b[i*2] = uint8(v)
		b[i*2+1] = uint8(v >> 8)
	}
	return n * 2, nil
}
