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
	"io"
	"os"
	"time"

	"github.com/scummvm/scummvm-sub071/logger"
	"github.com/scummvm/scummvm-sub071/modalflag"
	"github.com/scummvm/scummvm-sub071/paths"
	"github.com/scummvm/scummvm-sub071/regression"
)

const regressionDB = "regressionDB"

// yesReader always answers yes to a confirmation
type yesReader struct{}

func (*yesReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = 'y'
	return 1, nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	db, err := paths.ResourcePath("", regressionDB)
	if err != nil {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")
		failOnError := md.AddBool("fail", false, "stop on the first error")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		logger.SetEcho(nil, false)

		fails, err := regression.RegressRun(md.Output, db, *verbose, *failOnError, md.RemainingArgs())
		if err != nil {
			return err
		}
		if fails > 0 {
			return fmt.Errorf("%d regression tests did not succeed", fails)
		}

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) > 0 {
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

		return regression.RegressList(md.Output, db)

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}
			return regression.RegressDelete(md.Output, confirmation, db, md.GetArg(0))
		default:
			return fmt.Errorf("only one entry can be deleted at at time")
		}

	case "ADD":
		return regressAdd(md, db)
	}

	return nil
}

func regressAdd(md *modalflag.Modes, db string) error {
	md.NewMode()

	drv := md.AddString("driver", "towns", "sound hardware: 26, 86 or towns")
	rate := md.AddInt("samplerate", 44100, "output sample rate")
	duration := md.AddDuration("duration", 30*time.Second, "length of audio to compare")
	notes := md.AddString("notes", "", "additional annotation for the database")
	log := md.AddBool("log", false, "echo log to stdout")

	md.AdditionalHelp(
		`The music resource is rendered for the duration, or until the music ends if that is
sooner. The digest of the audio is stored in the regression database and compared
against when the test is run.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(logger.NewColorizer(md.Output), false)
	} else {
		logger.SetEcho(nil, false)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("music resource required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("only one music resource can be added at a time")
	}

	reg, err := regression.NewMusicRegression(md.GetArg(0), *drv, *rate, *duration, *notes)
	if err != nil {
		return err
	}

	return regression.RegressAdd(md.Output, db, reg)
}
