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

package sdlaudio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// the number of buffers that are kept in the SDL queue. fewer buffers means
// less latency between a change to the player and the change being heard
const queuedBuffers = 2

// Audio outputs sound using SDL. Samples are pulled from the source and
// queued on the audio device in a background goroutine.
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	src    io.Reader
	buffer []uint8

	quit chan bool
	done chan bool

	crit sync.Mutex
	err  error
}

// NewAudio is the preferred method of initialisation for the Audio Type. The
// source must produce 16 bit signed little-endian mono samples.
func NewAudio(src io.Reader, sampleRate int, bufferLength int) (*Audio, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdlaudio: %w", err)
	}

	aud := &Audio{
		src:  src,
		quit: make(chan bool),
		done: make(chan bool),
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(bufferLength),
	}

	var err error
	var actualSpec sdl.AudioSpec

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("sdlaudio: %w", err)
	}
	aud.spec = actualSpec
	aud.buffer = make([]uint8, bufferLength*2)

	logger.Logf(logger.Allow, "sdlaudio", "device opened at %dHz with %d samples", aud.spec.Freq, aud.spec.Samples)

	go aud.service(time.Duration(bufferLength) * time.Second / time.Duration(sampleRate))

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// service keeps the device queue filled until quit is closed
func (aud *Audio) service(period time.Duration) {
	defer close(aud.done)

	tck := time.NewTicker(period)
	defer tck.Stop()

	for {
		select {
		case <-aud.quit:
			return
		case <-tck.C:
			if err := aud.fill(); err != nil {
				aud.crit.Lock()
				aud.err = err
				aud.crit.Unlock()
				logger.Log(logger.Allow, "sdlaudio", err)
				return
			}
		}
	}
}

func (aud *Audio) fill() error {
	for sdl.GetQueuedAudioSize(aud.id) < uint32(len(aud.buffer)*queuedBuffers) {
		if _, err := io.ReadFull(aud.src, aud.buffer); err != nil {
			return fmt.Errorf("sdlaudio: %w", err)
		}
		if err := sdl.QueueAudio(aud.id, aud.buffer); err != nil {
			return fmt.Errorf("sdlaudio: %w", err)
		}
	}
	return nil
}

// Err returns the error that stopped the service goroutine, if any.
func (aud *Audio) Err() error {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.err
}

// Close stops the audio and releases the device.
func (aud *Audio) Close() error {
	close(aud.quit)
	<-aud.done

	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)

	err := aud.Err()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
