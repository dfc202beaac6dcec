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

package otoaudio

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/scummvm/scummvm-sub071/logger"
)

// Audio outputs sound using oto. The oto player pulls samples from the
// source on its own goroutine.
type Audio struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewAudio is the preferred method of initialisation for the Audio type. The
// source must produce 16 bit signed little-endian mono samples.
//
// Only one oto context can exist in a process.
func NewAudio(src io.Reader, sampleRate int, bufferLength int) (*Audio, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferLength) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("otoaudio: %w", err)
	}
	<-ready

	aud := &Audio{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
	}
	aud.player.Play()

	logger.Logf(logger.Allow, "otoaudio", "playing at %dHz with a %v buffer", sampleRate, op.BufferSize)

	return aud, nil
}

// Err returns any error reported by the player or the context.
func (aud *Audio) Err() error {
	if err := aud.player.Err(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	if err := aud.ctx.Err(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	return nil
}

// Close stops the audio. The oto context is suspended rather than destroyed.
func (aud *Audio) Close() error {
	err := aud.player.Close()
	if err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	if err := aud.ctx.Suspend(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	return nil
}
