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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/scummvm/scummvm-sub071/player"
)

// sentinal error returned by the render loop
var timedOut = errors.New("performance timed out")

// the number of samples rendered between checks of the timer
const renderChunk = 4096

// Check the performance of the player. The player is rendered for the
// specified duration of wall clock time. Profiles are generated as defined
// by the Profile argument.
func Check(output io.Writer, profile Profile, ply *player.Player, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("performance: duration must be positive (%v)", duration)
	}

	var numSamples int
	buf := make([]int16, renderChunk)

	runner := func() error {
		timesUp := time.After(duration)
		for {
			select {
			case <-timesUp:
				return timedOut
			default:
			}
			ply.Render(buf)
			numSamples += len(buf)
		}
	}

	err := RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	rate, factor := CalcRate(numSamples, ply.SampleRate(), duration.Seconds())
	_, err = fmt.Fprintf(output, "%.0f samples/s (%d samples in %.2f seconds) %.1fx realtime\n", rate, numSamples, duration.Seconds(), factor)

	return err
}

// CalcRate takes the number of samples and the duration (in seconds) and
// returns the samples-per-second and the speed as a multiple of real time.
func CalcRate(numSamples int, sampleRate int, duration float64) (rate float64, factor float64) {
	rate = float64(numSamples) / duration
	factor = rate / float64(sampleRate)
	return rate, factor
}
