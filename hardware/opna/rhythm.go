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

package opna

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Instrument identifies one of the six rhythm sounds. The value is the bit
// number of the instrument in the rhythm key register.
type Instrument int

// List of valid Instrument values.
const (
	BassDrum Instrument = iota
	SnareDrum
	TopCymbal
	HiHat
	Tom
	RimShot
	NumInstruments
)

func (ins Instrument) String() string {
	switch ins {
	case BassDrum:
		return "bass drum"
	case SnareDrum:
		return "snare drum"
	case TopCymbal:
		return "top cymbal"
	case HiHat:
		return "hi-hat"
	case Tom:
		return "tom"
	case RimShot:
		return "rim shot"
	}
	return fmt.Sprintf("instrument %d", int(ins))
}

// Name returns the short name of the instrument. The pcm package uses the
// name to find sample files.
func (ins Instrument) Name() string {
	switch ins {
	case BassDrum:
		return "bd"
	case SnareDrum:
		return "sd"
	case TopCymbal:
		return "top"
	case HiHat:
		return "hh"
	case Tom:
		return "tom"
	case RimShot:
		return "rim"
	}
	return ""
}

// Sample is a mono recording of an instrument. Values are in the range -1.0
// to 1.0.
type Sample struct {
	Data []float32
	Rate int
}

// Duration of the sample in seconds.
func (s Sample) Duration() float64 {
	if s.Rate == 0 {
		return 0
	}
	return float64(len(s.Data)) / float64(s.Rate)
}

// Bank is the set of samples used by the rhythm section.
type Bank [NumInstruments]Sample

// the rate of the ROM samples in the real chip
const romRate = 18500

var defaultBank Bank

// DefaultBank returns a copy of the synthesised rhythm samples.
func DefaultBank() *Bank {
	b := defaultBank
	return &b
}

func init() {
	rnd := rand.New(rand.NewPCG(0x2608, 0x0144))

	gen := func(seconds float64, f func(t float64) float64) Sample {
		s := Sample{Data: make([]float32, int(seconds*romRate)), Rate: romRate}
		for i := range s.Data {
			s.Data[i] = float32(f(float64(i) / romRate))
		}
		return s
	}

	// a pitched sweep with an exponential decay
	sweep := func(from float64, to float64, decay float64) func(t float64) float64 {
		var phase float64
		return func(t float64) float64 {
			freq := to + (from-to)*math.Exp(-t/decay)
			phase += freq / romRate
			return math.Sin(2*math.Pi*phase) * math.Exp(-t/decay)
		}
	}

	// white noise passed through a first order high pass
	hiss := func(decay float64) func(t float64) float64 {
		var prev float64
		return func(t float64) float64 {
			n := rnd.Float64()*2 - 1
			v := (n - prev) / 2
			prev = n
			return v * math.Exp(-t/decay)
		}
	}

	defaultBank[BassDrum] = gen(0.25, sweep(120, 50, 0.06))
	defaultBank[Tom] = gen(0.3, sweep(140, 100, 0.08))
	defaultBank[RimShot] = gen(0.03, sweep(1700, 1700, 0.006))
	defaultBank[TopCymbal] = gen(0.5, hiss(0.15))
	defaultBank[HiHat] = gen(0.08, hiss(0.02))

	tone := sweep(200, 180, 0.05)
	defaultBank[SnareDrum] = gen(0.2, func(t float64) float64 {
		return tone(t)*0.4 + (rnd.Float64()*2-1)*math.Exp(-t/0.05)*0.6
	})
}

// rhythmVoice is the playback state of one instrument
type rhythmVoice struct {
	pos     float64
	playing bool
}

// SetBank replaces the samples used by the rhythm section. Instruments that
// are currently playing are stopped. A nil Bank restores the default samples.
func (chip *OPNA) SetBank(b *Bank) {
	if b == nil {
		b = DefaultBank()
	}
	chip.bank = b
	chip.rhythm = [NumInstruments]rhythmVoice{}
}

// writeRhythm handles writes to the rhythm key register 0x10. bit 7 stops
// the selected instruments rather than starting them
func (chip *OPNA) writeRhythm(val uint8) {
	for i := range chip.rhythm {
		if val&(0x01<<i) == 0 {
			continue
		}
		if val&0x80 == 0x80 {
			chip.rhythm[i].playing = false
		} else {
			chip.rhythm[i] = rhythmVoice{playing: true}
		}
	}
}

// attenuation step of the rhythm level registers
const rhythmStepDB = 0.75

// generate the next sample of the rhythm section
func (chip *OPNA) generateRhythm() float64 {
	var out float64

	total := float64(63-chip.regs[0][0x11]&0x3f) * rhythmStepDB
	for i := range chip.rhythm {
		rv := &chip.rhythm[i]
		if !rv.playing {
			continue
		}

		s := chip.bank[i]
		idx := int(rv.pos)
		if idx >= len(s.Data) {
			rv.playing = false
			continue
		}
		rv.pos += float64(s.Rate) / SampleRate

		ctrl := chip.regs[0][0x18+i]
		if ctrl&0xc0 == 0 {
			continue
		}

		db := total + float64(31-ctrl&0x1f)*rhythmStepDB
		out += float64(s.Data[idx]) * math.Pow(10, -db/20)
	}

	return out
}
