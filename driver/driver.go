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

package driver

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/scummvm/scummvm-sub071/logger"
)

// Sentinel errors returned by the load functions.
var (
	ErrNotReady     = errors.New("driver not initialised")
	ErrNoData       = errors.New("no data")
	ErrNoSfxSupport = errors.New("sound effects not supported")
)

// Driver sequences music and sound effect byte-code and issues the resulting
// register writes to the chip. Music is advanced by TimerCallbackB and sound
// effects by TimerCallbackA. The caller must arrange for the callbacks to be
// called at the rates programmed into the chip timers.
type Driver struct {
	crit sync.Mutex

	chip Chip
	cfg  Config

	levelPresets *[24]uint8

	fm     []*channel
	ssg    []*channel
	sfx    []*channel
	rhythm *channel

	// arenas for the music and sound effect data. the driver owns both
	// and the byte-code in them is modified during playback
	music   []byte
	sfxData []byte

	// start of the patch table in the music arena
	patches int

	sfxOffsets [2]uint16
	sfxPending bool

	updateFM     uint8
	updateSSG    uint8
	updateRhythm uint8
	updateSfx    uint8

	finishedFM     uint8
	finishedSSG    uint8
	finishedRhythm uint8
	finishedSfx    uint8

	looping uint8

	// register writes are dropped while the gate is set
	regProtect bool

	// ticks remaining in the fade. zero if the music is not fading
	fading uint8

	musicPlaying bool
	sfxPlaying   bool
	tickCounter  int

	ready bool
}

// NewDriver is the preferred method of initialisation for the Driver type.
// The driver is not ready until Init() has been called.
func NewDriver(chip Chip, cfg Config) (*Driver, error) {
	if chip == nil {
		return nil, fmt.Errorf("driver: no chip")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	drv := &Driver{
		chip:         chip,
		cfg:          cfg,
		levelPresets: &levelPresetsPC98,
	}
	if cfg.Towns {
		drv.levelPresets = &levelPresetsTowns
	}

	return drv, nil
}

// Config returns the channel layout of the driver.
func (drv *Driver) Config() Config {
	return drv.cfg
}

// Init creates the channels and programs the chip timers with their default
// values. Calling Init on a driver that is already initialised resets the
// driver.
func (drv *Driver) Init() {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.ready {
		drv.reset()
		return
	}

	drv.fm = make([]*channel, drv.cfg.NumFM)
	for i := range drv.fm {
		drv.fm[i] = newChannel(drv, KindFM, channelPresets[i])
	}

	drv.ssg = make([]*channel, drv.cfg.NumSSG)
	for i := range drv.ssg {
		drv.ssg[i] = newChannel(drv, KindSSG, channelPresets[i])
	}

	if drv.cfg.sfxSupported() {
		drv.sfx = make([]*channel, 2)
		for i := range drv.sfx {
			drv.sfx[i] = newChannel(drv, KindSfx, channelPresets[i+1])
		}
	}

	if drv.cfg.Rhythm {
		drv.rhythm = newChannel(drv, KindRhythm, channelPresets[0])
	}

	drv.reset()
	drv.setMusicTempo(84)
	drv.setSfxTempo(654)

	drv.ready = true
}

// Reset silences the chip and stops music and sound effects.
func (drv *Driver) Reset() {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.reset()
}

func (drv *Driver) reset() {
	drv.musicPlaying = false
	drv.sfxPlaying = false
	drv.sfxPending = false
	drv.fading = 0
	drv.looping = 0
	drv.tickCounter = 0
	drv.regProtect = false

	drv.chip.Reset()

	for _, c := range drv.fm {
		c.reset()
	}
	for _, c := range drv.ssg {
		c.reset()
	}
	for _, c := range drv.sfx {
		c.reset()
	}
	if drv.rhythm != nil {
		drv.rhythm.reset()
	}

	drv.updateFM = uint8(1<<len(drv.fm)) - 1
	drv.updateSSG = 0
	if len(drv.ssg) > 0 {
		drv.updateSSG = 0x07
	}
	drv.updateRhythm = 0
	if drv.rhythm != nil {
		drv.updateRhythm = 0x01
	}
	drv.updateSfx = 0

	drv.finishedFM = 0
	drv.finishedSSG = 0
	drv.finishedRhythm = 0
	drv.finishedSfx = 0

	drv.chip.SetVolumeChannelMasks(-1, 0)
}

// LoadMusicData resets the driver and prepares the music resource for
// playback. The data is copied and the copy is used for the lifetime of the
// load. Playback starts with the next call to TimerCallbackB unless
// loadPaused is true.
//
// The resource starts with a table of little-endian offsets, one for each
// channel, in the order: the first three FM channels, the SSG channels, the
// remaining FM channels and the rhythm channel. The table of FM patches
// starts four bytes after the end of the offset table.
func (drv *Driver) LoadMusicData(data []byte, loadPaused bool) error {
	if err := drv.checkLoad("music", data); err != nil {
		return err
	}

	n := drv.cfg.NumTracks() * 2
	if len(data) < n {
		logger.Logf(logger.Allow, "driver", "music data is too short for the offset table (%d bytes)", len(data))
		return fmt.Errorf("driver: music: %w", ErrNoData)
	}

	drv.crit.Lock()
	defer drv.crit.Unlock()

	drv.reset()

	drv.music = slices.Clone(data)

	p := 0
	next := func() int {
		o := int(wordAt(drv.music, p))
		p += 2
		return o
	}

	for _, c := range drv.fm[:min(3, len(drv.fm))] {
		c.loadData(drv.music, next())
	}
	for _, c := range drv.ssg {
		c.loadData(drv.music, next())
	}
	if len(drv.fm) > 3 {
		for _, c := range drv.fm[3:] {
			c.loadData(drv.music, next())
		}
	}
	if drv.rhythm != nil {
		drv.rhythm.loadData(drv.music, next())
	}

	drv.regProtect = false
	drv.patches = p + 4

	drv.finishedFM = 0
	drv.finishedSSG = 0
	drv.finishedRhythm = 0

	drv.musicPlaying = !loadPaused

	logger.Logf(logger.Allow, "driver", "music loaded (%d bytes, %d channels)", len(data), drv.cfg.NumTracks())

	return nil
}

// LoadSoundEffectData prepares a sound effect for playback. The sound effect
// starts with the next call to TimerCallbackA. The data is copied.
//
// The resource starts with a directory of two little-endian offsets for
// every track, one for each sound effect voice. An offset of zero means that
// the voice is not used by the track.
func (drv *Driver) LoadSoundEffectData(data []byte, track uint8) error {
	if err := drv.checkLoad("sound effect", data); err != nil {
		return err
	}

	if drv.sfx == nil {
		logger.Logf(logger.Allow, "driver", "sound effects are not supported by %d SSG channels", drv.cfg.NumSSG)
		return fmt.Errorf("driver: sound effect: %w", ErrNoSfxSupport)
	}

	drv.crit.Lock()
	defer drv.crit.Unlock()

	drv.sfxData = slices.Clone(data)
	p := int(track) << 2
	drv.sfxOffsets[0] = wordAt(drv.sfxData, p)
	drv.sfxOffsets[1] = wordAt(drv.sfxData, p+2)

	drv.sfxPlaying = true
	drv.sfxPending = true
	drv.finishedSfx = 0

	return nil
}

func (drv *Driver) checkLoad(what string, data []byte) error {
	drv.crit.Lock()
	ready := drv.ready
	drv.crit.Unlock()

	if !ready {
		logger.Logf(logger.Allow, "driver", "%s data loaded before driver initialisation", what)
		return fmt.Errorf("driver: %s: %w", what, ErrNotReady)
	}
	if len(data) == 0 {
		logger.Logf(logger.Allow, "driver", "no %s data", what)
		return fmt.Errorf("driver: %s: %w", what, ErrNoData)
	}
	return nil
}

// startSoundEffect lends the SSG voices to the sound effect voices that are
// used by the pending track. voices that are not used are returned to the
// music
func (drv *Driver) startSoundEffect() {
	var vol int

	for i, c := range drv.sfx {
		if drv.sfxOffsets[i] != 0 {
			drv.ssg[i+1].protect()
			c.reset()
			c.loadData(drv.sfxData, int(drv.sfxOffsets[i]))
			drv.updateSfx |= c.idFlag
			vol |= int(c.idFlag) << len(drv.fm)
		} else {
			drv.ssg[i+1].restore()
			drv.updateSfx &^= c.idFlag
		}
	}

	drv.chip.SetVolumeChannelMasks(^vol, vol)
	drv.sfxPending = false
}

// TimerCallbackA advances the sound effect by one tick.
func (drv *Driver) TimerCallbackA() {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.sfx == nil || !drv.sfxPlaying {
		return
	}

	if drv.sfxPending {
		drv.startSoundEffect()
	}

	for _, c := range drv.sfx {
		if drv.updateSfx&c.idFlag == c.idFlag {
			c.processEvents(drv.sfxData)
			c.processFrequency(drv.sfxData)
		}
	}

	if drv.finishedSfx == drv.updateSfx {
		drv.sfxPlaying = false
		drv.updateSfx = 0
		drv.chip.SetVolumeChannelMasks(-1, 0)
	}
}

// TimerCallbackB advances the music by one tick. Music stops when every
// channel has reached the end of its track.
func (drv *Driver) TimerCallbackB() {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	drv.regProtect = false

	if drv.ready && drv.musicPlaying {
		drv.tickCounter++

		for _, c := range drv.fm {
			if drv.updateFM&c.idFlag == c.idFlag {
				c.processEvents(drv.music)
				c.processFrequency(drv.music)
			}
		}
		for _, c := range drv.ssg {
			if drv.updateSSG&c.idFlag == c.idFlag {
				c.processEvents(drv.music)
				c.processFrequency(drv.music)
			}
		}
		if drv.rhythm != nil && drv.updateRhythm&drv.rhythm.idFlag == drv.rhythm.idFlag {
			drv.rhythm.processEvents(drv.music)
		}
	}

	drv.regProtect = false

	if drv.finishedFM == drv.updateFM && drv.finishedSSG == drv.updateSSG && drv.finishedRhythm == drv.updateRhythm {
		drv.musicPlaying = false
	}
}

// FadeStep lowers the level of every music channel by one step. The first
// call starts a countdown at the end of which the driver is reset. Manual
// level changes in the byte-code are ignored during the countdown.
func (drv *Driver) FadeStep() {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if !drv.musicPlaying {
		return
	}

	for _, c := range drv.fm {
		if drv.updateFM&c.idFlag == c.idFlag {
			c.fadeStep()
		}
	}
	for _, c := range drv.ssg {
		if drv.updateSSG&c.idFlag == c.idFlag {
			c.fadeStep()
		}
	}

	if drv.fading == 0 {
		drv.fading = fadeTicks
		if drv.rhythm != nil && drv.updateRhythm&drv.rhythm.idFlag == drv.rhythm.idFlag {
			drv.rhythm.reset()
		}
		return
	}

	drv.fading--
	if drv.fading == 0 {
		drv.reset()
	}
}

// writeReg is the gate through which all channel register writes pass
func (drv *Driver) writeReg(part uint8, reg uint8, val uint8) {
	if drv.regProtect {
		return
	}
	drv.chip.WriteReg(part, reg, val)
}

func (drv *Driver) setMusicTempo(tempo uint8) {
	drv.chip.WriteReg(0, 0x26, tempo)
	drv.chip.WriteReg(0, 0x27, 0x33)
}

func (drv *Driver) setSfxTempo(tempo uint16) {
	drv.chip.WriteReg(0, 0x24, uint8(tempo))
	drv.chip.WriteReg(0, 0x25, uint8(tempo>>8))
	drv.chip.WriteReg(0, 0x27, 0x33)
}

// SetMusicTempo programs timer B, which drives the music.
func (drv *Driver) SetMusicTempo(tempo uint8) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.setMusicTempo(tempo)
}

// SetSfxTempo programs timer A, which drives sound effects.
func (drv *Driver) SetSfxTempo(tempo uint16) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.setSfxTempo(tempo)
}

// Pause stops the music without resetting it.
func (drv *Driver) Pause() {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.musicPlaying = false
}

// Cont continues music stopped by Pause() or loaded paused.
func (drv *Driver) Cont() {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.musicPlaying = true
}

// Looping returns true if every FM channel of the loaded music loops.
func (drv *Driver) Looping() bool {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.looping == drv.updateFM
}

// MusicPlaying returns true if the music is being advanced by the music
// timer.
func (drv *Driver) MusicPlaying() bool {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.musicPlaying
}

// SoundEffectPlaying returns true while a sound effect is playing.
func (drv *Driver) SoundEffectPlaying() bool {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.sfxPlaying
}

// Fading returns true while a fade is in progress.
func (drv *Driver) Fading() bool {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.fading != 0
}

// TickCounter returns the number of music ticks since the music was loaded.
func (drv *Driver) TickCounter() int {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.tickCounter
}

// SetMusicVolume sets the volume (0 to 255) of the chip channels used by
// music.
func (drv *Driver) SetMusicVolume(volume int) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.chip.SetVolume(volume, -1)
}

// SetSoundEffectVolume sets the volume (0 to 255) of the chip channels used
// by sound effects.
func (drv *Driver) SetSoundEffectVolume(volume int) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.chip.SetVolume(-1, volume)
}
