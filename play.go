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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/scummvm/scummvm-sub071/easyterm"
	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/scummvm/scummvm-sub071/modalflag"
	"github.com/scummvm/scummvm-sub071/output"
	"github.com/scummvm/scummvm-sub071/player"
	"github.com/scummvm/scummvm-sub071/statsview"
)

const playHelp = `keys during playback:
  space    pause/continue
  f        fade out
  1-9      sound effect
  + -      music volume
  q        quit`

// how often playback is checked for the end of the music
const playCheckPeriod = 100 * time.Millisecond

func play(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp(playHelp)

	pf := addPlayerFlags(md)
	stats := md.AddBool("statsview", false, "run stats server")
	save := md.AddBool("save", false, "save preferences on exit")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview is not available in this build")
		}
		statsview.Launch(md.Output)
	}

	pr, ply, err := newPlayer(md, pf, nil)
	if err != nil {
		return err
	}

	aud, err := output.Open(pr.Backend.String(), ply, ply.SampleRate(), pr.Buffer.Get().(int))
	if err != nil {
		return err
	}
	defer func() {
		if err := aud.Close(); err != nil {
			logger.Log(logger.Allow, "townsplay", err)
		}
	}()

	// keyboard control is only possible if stdin is a terminal
	keys := make(chan byte)
	term, err := easyterm.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		logger.Logf(logger.Allow, "townsplay", "no keyboard control: %v", err)
	} else {
		defer term.CleanUp()
		if err := term.CBreakMode(); err != nil {
			return err
		}
		go func() {
			for {
				k, err := term.ReadKey()
				if err != nil {
					return
				}
				keys <- k
			}
		}()
		fmt.Fprintln(md.Output, playHelp)
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	ctl := &controls{
		ply:    ply,
		volume: pr.MusicVolume.Get().(int),
	}

	tck := time.NewTicker(playCheckPeriod)
	defer tck.Stop()

	done := false
	for !done {
		select {
		case <-intChan:
			done = true

		case k := <-keys:
			done = ctl.key(k)

		case <-tck.C:
			if err := aud.Err(); err != nil {
				return err
			}
			done = !ctl.paused && ply.Finished()
		}
	}

	if *save {
		if err := pr.MusicVolume.Set(ctl.volume); err != nil {
			return err
		}
		return pr.Save()
	}

	return nil
}

// controls maps key presses to player operations
type controls struct {
	ply    *player.Player
	paused bool
	volume int
}

// key handles a single key press. the result is true if playback should end
func (ctl *controls) key(k byte) bool {
	switch k {
	case 'q', easyterm.KeyEsc, easyterm.KeyInterrupt:
		return true

	case easyterm.KeySuspend:
		if err := easyterm.SuspendProcess(); err != nil {
			logger.Log(logger.Allow, "townsplay", err)
		}

	case easyterm.KeySpace:
		if ctl.paused {
			ctl.ply.Cont()
		} else {
			ctl.ply.Pause()
		}
		ctl.paused = !ctl.paused

	case 'f':
		ctl.ply.Fade()

	case '+', '=':
		ctl.volume = min(ctl.volume+16, 255)
		ctl.ply.SetMusicVolume(ctl.volume)

	case '-':
		ctl.volume = max(ctl.volume-16, 0)
		ctl.ply.SetMusicVolume(ctl.volume)

	default:
		if k >= '1' && k <= '9' {
			if err := ctl.ply.TriggerSfx(k - '1'); err != nil {
				logger.Log(logger.Allow, "townsplay", err)
			}
		}
	}

	return false
}
