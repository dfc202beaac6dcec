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

package driver_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/scummvm/scummvm-sub071/driver"
	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/scummvm/scummvm-sub071/test"
)

// music builds a music resource. the offset table is followed by four bytes
// of padding and the patch data. offsets in the tracks are not adjusted
func music(tracks [][]byte, patches []byte) []byte {
	data := make([]byte, len(tracks)*2+4)
	data = append(data, patches...)
	for i, trk := range tracks {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(len(data)))
		data = append(data, trk...)
	}
	return data
}

// note returns a track that plays a single note for the number of ticks and
// then stops
func note(ticks uint8) []byte {
	return []byte{0x10, ticks, 0xff, 0x00, 0x00}
}

func newDriver(t *testing.T, cfg driver.Config) (*driver.Driver, *driver.RecordingChip) {
	t.Helper()
	chip := &driver.RecordingChip{}
	drv, err := driver.NewDriver(chip, cfg)
	test.DemandSuccess(t, err)
	drv.Init()
	chip.Clear()
	return drv, chip
}

func channelState(drv *driver.Driver, kind driver.Kind, index int) driver.ChannelState {
	for _, s := range drv.ChannelStates() {
		if s.Kind == kind && s.Index == index {
			return s
		}
	}
	return driver.ChannelState{}
}

func TestNewDriver(t *testing.T) {
	_, err := driver.NewDriver(nil, driver.NewConfig(driver.Type86))
	test.ExpectFailure(t, err)

	_, err = driver.NewDriver(&driver.RecordingChip{}, driver.Config{NumFM: 7})
	test.ExpectFailure(t, err)

	_, err = driver.NewDriver(&driver.RecordingChip{}, driver.Config{NumFM: 3, NumSSG: 2})
	test.ExpectFailure(t, err)

	for _, typ := range []driver.Type{driver.Type26, driver.Type86, driver.TypeTowns} {
		_, err = driver.NewDriver(&driver.RecordingChip{}, driver.NewConfig(typ))
		test.ExpectSuccess(t, err, typ)
	}
}

func TestInit(t *testing.T) {
	chip := &driver.RecordingChip{}
	drv, err := driver.NewDriver(chip, driver.NewConfig(driver.Type86))
	test.DemandSuccess(t, err)
	drv.Init()

	timers := chip.Filter(func(w driver.Write) bool {
		return w.Reg >= 0x24 && w.Reg <= 0x27
	})
	expected := []driver.Write{
		{Part: 0, Reg: 0x26, Val: 84},
		{Part: 0, Reg: 0x27, Val: 0x33},
		{Part: 0, Reg: 0x24, Val: 0x8e},
		{Part: 0, Reg: 0x25, Val: 0x02},
		{Part: 0, Reg: 0x27, Val: 0x33},
	}
	test.DemandEquality(t, len(timers), len(expected))
	for i := range expected {
		test.ExpectEquality(t, timers[i], expected[i], i)
	}
	test.ExpectEquality(t, chip.MusicMask, -1)
	test.ExpectEquality(t, chip.SfxMask, 0)

	// six FM, three SSG, rhythm and two sound effect voices
	states := drv.ChannelStates()
	test.ExpectEquality(t, len(states), 12)

	// a second call resets the driver
	resets := chip.Resets
	drv.Init()
	test.ExpectEquality(t, chip.Resets, resets+1)
	test.ExpectEquality(t, len(drv.ChannelStates()), len(states))
}

func TestTempo(t *testing.T) {
	drv, chip := newDriver(t, driver.NewConfig(driver.Type26))

	drv.SetMusicTempo(0xc0)
	drv.SetSfxTempo(0x3ff)
	expected := []driver.Write{
		{Part: 0, Reg: 0x26, Val: 0xc0},
		{Part: 0, Reg: 0x27, Val: 0x33},
		{Part: 0, Reg: 0x24, Val: 0xff},
		{Part: 0, Reg: 0x25, Val: 0x03},
		{Part: 0, Reg: 0x27, Val: 0x33},
	}
	test.DemandEquality(t, len(chip.Writes), len(expected))
	for i := range expected {
		test.ExpectEquality(t, chip.Writes[i], expected[i], i)
	}

	// tempo event in the music
	data := music([][]byte{{0xf5, 0x99, 0x10, 0x01, 0xff, 0x00, 0x00}, note(1), note(1), note(1), note(1), note(1)}, nil)
	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	drv.TimerCallbackB()
	test.ExpectEquality(t, chip.Regs[0][0x26], uint8(0x99))
}

func TestLoadErrors(t *testing.T) {
	chip := &driver.RecordingChip{}
	drv, err := driver.NewDriver(chip, driver.NewConfig(driver.TypeTowns))
	test.DemandSuccess(t, err)

	logger.Clear()
	err = drv.LoadMusicData([]byte{0x00, 0x01}, false)
	test.ExpectEquality(t, errors.Is(err, driver.ErrNotReady), true)
	err = drv.LoadSoundEffectData([]byte{0x00, 0x01}, 0)
	test.ExpectEquality(t, errors.Is(err, driver.ErrNotReady), true)

	var tags int
	logger.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries {
			if e.Tag == "driver" {
				tags++
			}
		}
	})
	test.ExpectEquality(t, tags, 2)

	drv.Init()

	err = drv.LoadMusicData(nil, false)
	test.ExpectEquality(t, errors.Is(err, driver.ErrNoData), true)

	// the offset table is incomplete
	err = drv.LoadMusicData([]byte{0x00, 0x01, 0x02}, false)
	test.ExpectEquality(t, errors.Is(err, driver.ErrNoData), true)
	test.ExpectEquality(t, drv.MusicPlaying(), false)

	// FM-TOWNS has no SSG channels
	err = drv.LoadSoundEffectData([]byte{0x04, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00}, 0)
	test.ExpectEquality(t, errors.Is(err, driver.ErrNoSfxSupport), true)
	test.ExpectEquality(t, drv.SoundEffectPlaying(), false)
}

func TestSingleNote(t *testing.T) {
	drv, chip := newDriver(t, driver.Config{NumFM: 1})

	data := music([][]byte{{0x10, 0x05, 0xff, 0x00, 0x00}}, nil)
	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	test.ExpectEquality(t, drv.MusicPlaying(), true)

	// the note is read on the first tick and sounds for five ticks. the end
	// of the track is read on the following tick
	for i := range 5 {
		drv.TimerCallbackB()
		test.ExpectEquality(t, drv.MusicPlaying(), true, i)
		test.ExpectEquality(t, channelState(drv, driver.KindFM, 0).EOT, false, i)
	}

	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.MusicPlaying(), false)
	test.ExpectEquality(t, channelState(drv, driver.KindFM, 0).EOT, true)
	test.ExpectEquality(t, drv.TickCounter(), 6)

	keys := chip.Filter(func(w driver.Write) bool { return w.Reg == 0x28 })
	keyOn := chip.Filter(func(w driver.Write) bool { return w.Reg == 0x28 && w.Val == 0xf0 })
	test.ExpectEquality(t, len(keyOn), 1)
	test.DemandEquality(t, len(keys) > 0, true)
	test.ExpectEquality(t, keys[len(keys)-1].Val, uint8(0x00))

	// further ticks do nothing
	chip.Clear()
	drv.TimerCallbackB()
	test.ExpectEquality(t, len(chip.Writes), 0)
	test.ExpectEquality(t, drv.TickCounter(), 6)
}

func TestFinishedOrdering(t *testing.T) {
	const numFM = 3

	var cases [][numFM]uint8

	// every combination of early and late endings
	for m := range 1 << numFM {
		var d [numFM]uint8
		for i := range numFM {
			d[i] = 2
			if m&(1<<i) != 0 {
				d[i] = 5
			}
		}
		cases = append(cases, d)
	}

	// every order of distinct endings
	for _, p := range [][numFM]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}} {
		var d [numFM]uint8
		for i := range numFM {
			d[i] = uint8(2 + p[i]*2)
		}
		cases = append(cases, d)
	}

	for _, d := range cases {
		drv, _ := newDriver(t, driver.Config{NumFM: numFM})

		var tracks [][]byte
		var last int
		for _, ticks := range d {
			tracks = append(tracks, note(ticks))
			last = max(last, int(ticks)+1)
		}
		test.DemandSuccess(t, drv.LoadMusicData(music(tracks, nil), false))

		for tick := 1; tick <= last; tick++ {
			drv.TimerCallbackB()

			for i, ticks := range d {
				eot := tick >= int(ticks)+1
				tag := fmt.Sprintf("%v tick %d channel %d", d, tick, i)
				test.ExpectEquality(t, channelState(drv, driver.KindFM, i).EOT, eot, tag)
			}

			tag := fmt.Sprintf("%v tick %d", d, tick)
			test.ExpectEquality(t, drv.MusicPlaying(), tick < last, tag)
		}
	}
}

func TestRhythmFinishes(t *testing.T) {
	drv, chip := newDriver(t, driver.NewConfig(driver.Type86))

	var tracks [][]byte
	for range 9 {
		tracks = append(tracks, note(1))
	}
	tracks = append(tracks, []byte{0x01, 0x80, 0x02, 0xff, 0x00, 0x00})
	test.DemandSuccess(t, drv.LoadMusicData(music(tracks, nil), false))

	drv.TimerCallbackB()
	test.ExpectEquality(t, chip.Regs[0][0x10], uint8(0x01))
	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.MusicPlaying(), true)
	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.MusicPlaying(), false)
	test.ExpectEquality(t, channelState(drv, driver.KindRhythm, 0).EOT, true)
}

func TestLooping(t *testing.T) {
	drv, _ := newDriver(t, driver.Config{NumFM: 2})

	// both tracks loop to their own start. the first track starts at offset
	// 8 and the second at offset 15
	data := music([][]byte{
		{0x10, 0x02, 0xf2, 0x01, 0xff, 0x08, 0x00},
		{0x20, 0x03, 0xff, 0x0f, 0x00},
	}, nil)
	test.DemandEquality(t, binary.LittleEndian.Uint16(data[0:]), uint16(8))
	test.DemandEquality(t, binary.LittleEndian.Uint16(data[2:]), uint16(15))

	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	test.ExpectEquality(t, drv.Looping(), true)

	for range 100 {
		drv.TimerCallbackB()
	}
	test.ExpectEquality(t, drv.MusicPlaying(), true)

	// one track that does not loop
	data = music([][]byte{
		{0x10, 0x02, 0xff, 0x08, 0x00},
		note(3),
	}, nil)
	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	test.ExpectEquality(t, drv.Looping(), false)
}

func TestPauseCont(t *testing.T) {
	drv, _ := newDriver(t, driver.Config{NumFM: 1})
	test.DemandSuccess(t, drv.LoadMusicData(music([][]byte{note(10)}, nil), true))
	test.ExpectEquality(t, drv.MusicPlaying(), false)

	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.TickCounter(), 0)

	drv.Cont()
	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.TickCounter(), 1)

	drv.Pause()
	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.TickCounter(), 1)
	test.ExpectEquality(t, channelState(drv, driver.KindFM, 0).TicksLeft, uint8(10))
}

func TestMusicDataIsCopied(t *testing.T) {
	drv, _ := newDriver(t, driver.Config{NumFM: 1})

	// a section that repeats twice. the track starts at offset 6
	data := music([][]byte{
		{0x10, 0x01, 0xf6, 0x02, 0x02, 0x06, 0x00, 0xff, 0x00, 0x00},
	}, nil)
	original := bytes.Clone(data)

	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	for range 2 {
		drv.TimerCallbackB()
	}
	test.ExpectEquality(t, bytes.Equal(data, original), true)

	drv.TimerCallbackB()
	test.ExpectEquality(t, drv.MusicPlaying(), false)
}

func TestSoundEffect(t *testing.T) {
	drv, chip := newDriver(t, driver.NewConfig(driver.Type26))

	fm := note(0x40)
	ssg := []byte{0xf0, 0x00, 0x35, 0x40, 0xff, 0x00, 0x00}
	data := music([][]byte{fm, fm, fm, ssg, ssg, ssg}, nil)
	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	drv.TimerCallbackB()

	// track 0 uses the first voice only
	sfx := []byte{
		0x04, 0x00, 0x00, 0x00,
		0xf1, 0x0f, 0xf0, 0x00, 0x30, 0x03, 0xff, 0x00, 0x00,
	}
	test.DemandSuccess(t, drv.LoadSoundEffectData(sfx, 0))
	test.ExpectEquality(t, drv.SoundEffectPlaying(), true)

	drv.TimerCallbackA()
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 1).Protected, true)
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 2).Protected, false)
	test.ExpectEquality(t, channelState(drv, driver.KindSfx, 0).Active, true)
	test.ExpectEquality(t, channelState(drv, driver.KindSfx, 1).Active, false)
	test.ExpectEquality(t, chip.SfxMask, 0x02<<3)
	test.ExpectEquality(t, chip.MusicMask, ^(0x02 << 3))

	// the music channel does not write to the registers of the voice it has
	// lent to the sound effect
	chip.Clear()
	for range 4 {
		drv.TimerCallbackB()
	}
	lent := chip.Filter(func(w driver.Write) bool {
		return w.Part == 0 && (w.Reg == 0x02 || w.Reg == 0x03 || w.Reg == 0x09)
	})
	test.ExpectEquality(t, len(lent), 0)

	drv.TimerCallbackA()
	drv.TimerCallbackA()
	test.ExpectEquality(t, drv.SoundEffectPlaying(), true)

	chip.Clear()
	drv.TimerCallbackA()
	test.ExpectEquality(t, drv.SoundEffectPlaying(), false)
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 1).Protected, false)
	test.ExpectEquality(t, channelState(drv, driver.KindSfx, 0).EOT, true)
	test.ExpectEquality(t, chip.SfxMask, 0)
	test.ExpectEquality(t, chip.MusicMask, -1)

	// the music channel got its voice back
	test.ExpectEquality(t, chip.Count(0, 0x02), 1)
	test.ExpectEquality(t, chip.Count(0, 0x03), 1)
	test.ExpectEquality(t, chip.Count(0, 0x09), 1)

	// the music continues
	test.ExpectEquality(t, drv.MusicPlaying(), true)
}

func TestSoundEffectBeforeMusic(t *testing.T) {
	drv, _ := newDriver(t, driver.NewConfig(driver.Type86))

	// both voices. the second voice plays for longer
	sfx := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x08, 0x00, 0x0d, 0x00,
		0x10, 0x01, 0xff, 0x00, 0x00,
		0x10, 0x04, 0xff, 0x00, 0x00,
	}
	test.DemandSuccess(t, drv.LoadSoundEffectData(sfx, 1))

	drv.TimerCallbackA()
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 1).Protected, true)
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 2).Protected, true)

	drv.TimerCallbackA()
	test.ExpectEquality(t, channelState(drv, driver.KindSfx, 0).EOT, true)
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 1).Protected, false)
	test.ExpectEquality(t, drv.SoundEffectPlaying(), true)

	for range 3 {
		drv.TimerCallbackA()
	}
	test.ExpectEquality(t, drv.SoundEffectPlaying(), false)
	test.ExpectEquality(t, channelState(drv, driver.KindSSG, 2).Protected, false)

	// a track that uses neither voice
	test.DemandSuccess(t, drv.LoadSoundEffectData(sfx, 0))
	drv.TimerCallbackA()
	test.ExpectEquality(t, drv.SoundEffectPlaying(), false)
}

func TestFade(t *testing.T) {
	drv, chip := newDriver(t, driver.NewConfig(driver.Type86))

	// fading does nothing if music is not playing
	drv.FadeStep()
	test.ExpectEquality(t, drv.Fading(), false)

	var tracks [][]byte
	for range 9 {
		tracks = append(tracks, note(0x7f))
	}
	tracks = append(tracks, []byte{0x01, 0x80, 0x7f, 0xff, 0x00, 0x00})
	test.DemandSuccess(t, drv.LoadMusicData(music(tracks, nil), false))
	drv.TimerCallbackB()

	resets := chip.Resets
	drv.FadeStep()
	test.ExpectEquality(t, drv.Fading(), true)

	// the rhythm channel is stopped immediately
	test.ExpectEquality(t, channelState(drv, driver.KindRhythm, 0).EOT, true)

	for i := range 18 {
		drv.TimerCallbackB()
		drv.FadeStep()
		test.ExpectEquality(t, drv.MusicPlaying(), true, i)
	}

	drv.FadeStep()
	test.ExpectEquality(t, drv.MusicPlaying(), false)
	test.ExpectEquality(t, drv.Fading(), false)
	test.ExpectEquality(t, chip.Resets, resets+1)
}

func TestFadeLevels(t *testing.T) {
	drv, chip := newDriver(t, driver.Config{NumFM: 1})

	// output level 0x70
	data := music([][]byte{{0xf4, 0x70, 0x10, 0x7f, 0xff, 0x00, 0x00}}, nil)
	test.DemandSuccess(t, drv.LoadMusicData(data, false))
	drv.TimerCallbackB()
	test.ExpectEquality(t, chip.Regs[0][0x4c], uint8(0x70))

	for _, lvl := range []uint8{0x73, 0x76, 0x79, 0x7c, 0x7f, 0x7f} {
		drv.FadeStep()
		test.ExpectEquality(t, chip.Regs[0][0x4c], lvl)
	}
}

func TestVolume(t *testing.T) {
	drv, chip := newDriver(t, driver.NewConfig(driver.Type26))
	drv.SetMusicVolume(100)
	drv.SetSoundEffectVolume(50)
	test.ExpectEquality(t, chip.MusicVolume, 100)
	test.ExpectEquality(t, chip.SfxVolume, 50)

	drv.SetMusicVolume(200)
	test.ExpectEquality(t, chip.MusicVolume, 200)
	test.ExpectEquality(t, chip.SfxVolume, 50)
}

func TestParseType(t *testing.T) {
	for s, typ := range map[string]driver.Type{"26": driver.Type26, "86": driver.Type86, "towns": driver.TypeTowns} {
		v, err := driver.ParseType(s)
		test.ExpectSuccess(t, err, s)
		test.ExpectEquality(t, v, typ, s)
	}
	_, err := driver.ParseType("98")
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, driver.NewConfig(driver.Type86).NumTracks(), 10)
	test.ExpectEquality(t, driver.NewConfig(driver.Type26).NumTracks(), 6)
	test.ExpectEquality(t, driver.NewConfig(driver.TypeTowns).NumTracks(), 6)
}
