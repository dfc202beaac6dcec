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

import "math"

// amplitude for each of the sixteen SSG levels. each step is 3dB
var ssgLevels [16]float64

func init() {
	for i := 1; i < len(ssgLevels); i++ {
		ssgLevels[i] = math.Pow(10, float64(i-15)*3/20)
	}
}

// rates of the SSG counters in cycles per chip sample for a period of one
const (
	toneRate     = 4.5
	noiseRate    = 2.25
	envelopeRate = 9.0
)

type squareWave struct {
	period int
	phase  float64
	high   bool
}

func (sq *squareWave) step() {
	sq.phase += toneRate / float64(max(sq.period, 1))
	for sq.phase >= 1 {
		sq.phase--
		sq.high = !sq.high
	}
}

type noise struct {
	period int
	phase  float64
	lfsr   uint32
}

func (n *noise) step() {
	n.phase += noiseRate / float64(max(n.period, 1))
	for n.phase >= 1 {
		n.phase--
		bit := (n.lfsr ^ n.lfsr>>3) & 0x01
		n.lfsr = n.lfsr>>1 | bit<<16
	}
}

func (n *noise) bit() bool {
	return n.lfsr&0x01 == 0x01
}

// hardware envelope. the shape register bits are continue, attack,
// alternate and hold, from bit 3 to bit 0
type envelope struct {
	period  int
	phase   float64
	shape   uint8
	pos     int
	attack  bool
	holding bool
}

func (e *envelope) restart(shape uint8) {
	e.shape = shape & 0x0f
	e.phase = 0
	e.pos = 0
	e.attack = shape&0x04 == 0x04
	e.holding = false
}

func (e *envelope) level() uint8 {
	if e.attack {
		return uint8(e.pos)
	}
	return uint8(15 - e.pos)
}

func (e *envelope) step() {
	if e.holding {
		return
	}

	e.phase += envelopeRate / float64(max(e.period, 1))
	for e.phase >= 1 && !e.holding {
		e.phase--
		e.pos++
		if e.pos <= 15 {
			continue
		}

		e.pos = 15
		switch {
		case e.shape&0x08 == 0x00:
			e.attack = false
			e.holding = true
		case e.shape&0x01 == 0x01:
			if e.shape&0x02 == 0x02 {
				e.attack = !e.attack
			}
			e.holding = true
		default:
			e.pos = 0
			if e.shape&0x02 == 0x02 {
				e.attack = !e.attack
			}
		}
	}
}

// psg is the three channel SSG section of the chip
type psg struct {
	tone  [3]squareWave
	noise noise
	env   envelope
}

func (p *psg) silence() {
	*p = psg{}
	p.noise.lfsr = 0x01
}

// writeSSG handles writes to SSG registers 0x00 to 0x0d. the register has
// already been stored
func (chip *OPNA) writeSSG(reg uint8, val uint8) {
	r := &chip.regs[0]
	switch {
	case reg <= 0x05:
		ch := reg >> 1
		chip.ssg.tone[ch].period = int(r[ch*2+1]&0x0f)<<8 | int(r[ch*2])
	case reg == 0x06:
		chip.ssg.noise.period = int(val & 0x1f)
	case reg == 0x0b || reg == 0x0c:
		chip.ssg.env.period = int(r[0x0c])<<8 | int(r[0x0b])
	case reg == 0x0d:
		chip.ssg.env.restart(val)
	}
}

// generate the next sample of each SSG channel
func (chip *OPNA) generateSSG() [3]float64 {
	var out [3]float64

	p := &chip.ssg
	for i := range p.tone {
		p.tone[i].step()
	}
	p.noise.step()
	p.env.step()

	mixer := chip.regs[0][0x07]
	for i := range p.tone {
		lvl := chip.regs[0][0x08+i]
		if lvl&0x10 == 0x10 {
			lvl = p.env.level()
		} else {
			lvl &= 0x0f
		}
		if lvl == 0 {
			continue
		}

		toneOff := mixer&(0x01<<i) != 0
		noiseOff := mixer&(0x08<<i) != 0
		if (p.tone[i].high || toneOff) && (p.noise.bit() || noiseOff) {
			out[i] = ssgLevels[lvl]
		} else {
			out[i] = -ssgLevels[lvl]
		}
	}

	return out
}
