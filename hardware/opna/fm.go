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

// envelope generator phases
type egState int

const (
	egOff egState = iota
	egAttack
	egDecay
	egSustain
	egRelease
)

func (s egState) String() string {
	switch s {
	case egAttack:
		return "attack"
	case egDecay:
		return "decay"
	case egSustain:
		return "sustain"
	case egRelease:
		return "release"
	}
	return "off"
}

// attenuation is measured in units of 0.09375dB. maxAttenuation is 96dB
const maxAttenuation = 1023

// the phase accumulator has twenty bits of precision. the top ten bits
// index the sine table
const (
	phaseBits = 20
	phaseMask = 1<<phaseBits - 1
	sineBits  = 10
)

var sineTable [1 << sineBits]float64

// amplitude for each attenuation step. 64 steps is a halving of amplitude
var powTable [maxAttenuation + 1]float64

// attenuation change per sample for each of the 64 effective envelope rates
var egRate [64]float64

func init() {
	for i := range sineTable {
		sineTable[i] = math.Sin(2 * math.Pi * float64(i) / float64(len(sineTable)))
	}
	for i := range powTable {
		powTable[i] = math.Exp2(-float64(i) / 64)
	}
	for r := 4; r < len(egRate); r++ {
		egRate[r] = float64(4+r%4) * math.Exp2(float64(r/4)) / (1 << 14)
	}
}

// order of the operator slots in the register map. the second group of
// operator registers in each block belongs to slot three
var regSlot = [4]int{0, 2, 1, 3}

// modulation input for each slot in each algorithm, as a mask of the slots
// providing the input. output is the mask of carrier slots
var algorithms = [8]struct {
	mod    [4]uint8
	output uint8
}{
	{mod: [4]uint8{0, 0x01, 0x02, 0x04}, output: 0x08},
	{mod: [4]uint8{0, 0, 0x03, 0x04}, output: 0x08},
	{mod: [4]uint8{0, 0, 0x02, 0x05}, output: 0x08},
	{mod: [4]uint8{0, 0x01, 0, 0x06}, output: 0x08},
	{mod: [4]uint8{0, 0x01, 0, 0x04}, output: 0x0a},
	{mod: [4]uint8{0, 0x01, 0x01, 0x01}, output: 0x0e},
	{mod: [4]uint8{0, 0x01, 0, 0}, output: 0x0e},
	{mod: [4]uint8{0, 0, 0, 0}, output: 0x0f},
}

// operator is one of the four sine generators in an FM voice
type operator struct {
	mul float64
	tl  int
	ar  int
	dr  int
	sr  int
	rr  int
	sl  float64

	state egState
	att   float64
	phase uint32
	out   float64
}

func (op *operator) keyOn() {
	if op.state == egOff || op.state == egRelease {
		op.state = egAttack
		op.phase = 0
	}
}

func (op *operator) keyOff() {
	if op.state != egOff {
		op.state = egRelease
	}
}

func (op *operator) silence() {
	*op = operator{mul: 0.5, att: maxAttenuation}
}

func (op *operator) stepEnvelope() {
	switch op.state {
	case egAttack:
		r := op.ar * 2
		if r >= 62 {
			op.att = 0
		} else if r >= 4 {
			op.att -= (op.att + 1) * egRate[r] / 64
		}
		if op.att <= 0 {
			op.att = 0
			op.state = egDecay
		}
	case egDecay:
		op.att += egRate[op.dr*2]
		if op.att >= op.sl {
			op.att = op.sl
			op.state = egSustain
		}
	case egSustain:
		op.att = min(op.att+egRate[op.sr*2], maxAttenuation)
	case egRelease:
		op.att += egRate[op.rr*4+2]
		if op.att >= maxAttenuation {
			op.att = maxAttenuation
			op.state = egOff
		}
	}
}

// generate the next output of the operator. mod is the phase modulation in
// cycles
func (op *operator) generate(inc uint32, mod float64) float64 {
	if op.state == egOff {
		op.out = 0
		return 0
	}

	p := int64(op.phase) + int64(mod*(1<<phaseBits))
	op.phase = (op.phase + uint32(float64(inc)*op.mul)) & phaseMask

	total := int(op.att) + op.tl<<3
	if total >= maxAttenuation {
		op.out = 0
		return 0
	}

	op.out = sineTable[(p>>(phaseBits-sineBits))&(1<<sineBits-1)] * powTable[total]
	return op.out
}

// voice is one of the six four-operator FM channels
type voice struct {
	ops       [4]operator
	fnum      uint16
	block     uint8
	algorithm uint8
	feedback  uint8

	// the previous two outputs of slot one, for feedback
	fb [2]float64
}

func (v *voice) silence() {
	for i := range v.ops {
		v.ops[i].silence()
	}
	v.fnum = 0
	v.block = 0
	v.algorithm = 0
	v.feedback = 0
	v.fb = [2]float64{}
}

// phase increment for an operator multiple of one
func (v *voice) increment() uint32 {
	return uint32(v.fnum) << v.block >> 1
}

// active returns true if any operator is producing sound
func (v *voice) active() bool {
	for i := range v.ops {
		if v.ops[i].state != egOff {
			return true
		}
	}
	return false
}

// generate the next sample of the voice
func (v *voice) generate() float64 {
	for i := range v.ops {
		v.ops[i].stepEnvelope()
	}

	alg := algorithms[v.algorithm&0x07]
	inc := v.increment()

	var sum float64
	for i := range v.ops {
		var mod float64
		if i == 0 {
			if v.feedback > 0 {
				mod = (v.fb[0] + v.fb[1]) / 2 * math.Exp2(float64(v.feedback)-7)
			}
		} else {
			for j := range i {
				if alg.mod[i]&(1<<j) != 0 {
					mod += v.ops[j].out
				}
			}
		}

		out := v.ops[i].generate(inc, mod)
		if i == 0 {
			v.fb[1] = v.fb[0]
			v.fb[0] = out
		}
		if alg.output&(1<<i) != 0 {
			sum += out
		}
	}

	return sum
}

// voiceIndex returns the voice addressed by the low bits of a channel
// register in the given part. the result is negative if the bits do not
// address a voice
func voiceIndex(part uint8, reg uint8) int {
	ch := int(reg & 0x03)
	if ch == 3 {
		return -1
	}
	return int(part&0x01)*3 + ch
}

// writeFM handles writes to the FM registers of either part
func (chip *OPNA) writeFM(part uint8, reg uint8, val uint8) {
	if reg < 0x30 {
		return
	}

	vi := voiceIndex(part, reg)
	if vi < 0 || vi >= chip.numFM {
		return
	}
	v := &chip.fm[vi]

	if reg < 0xa0 {
		op := &v.ops[regSlot[(reg>>2)&0x03]]
		switch reg & 0xf0 {
		case 0x30:
			if val&0x0f == 0 {
				op.mul = 0.5
			} else {
				op.mul = float64(val & 0x0f)
			}
		case 0x40:
			op.tl = int(val & 0x7f)
		case 0x50:
			op.ar = int(val & 0x1f)
		case 0x60:
			op.dr = int(val & 0x1f)
		case 0x70:
			op.sr = int(val & 0x1f)
		case 0x80:
			sl := int(val >> 4)
			if sl == 0x0f {
				op.sl = maxAttenuation
			} else {
				op.sl = float64(sl * 32)
			}
			op.rr = int(val & 0x0f)
		}
		return
	}

	switch reg & 0xfc {
	case 0xa0:
		// the block and high bits of the frequency are latched by the write
		// to 0xa4 and take effect here
		hi := chip.regs[part][0xa4+reg&0x03]
		v.fnum = uint16(hi&0x07)<<8 | uint16(val)
		v.block = (hi >> 3) & 0x07
	case 0xb0:
		v.algorithm = val & 0x07
		v.feedback = (val >> 3) & 0x07
	}
}

// keyOnOff handles writes to register 0x28
func (chip *OPNA) keyOnOff(val uint8) {
	ch := int(val & 0x07)
	if ch&0x03 == 0x03 {
		return
	}
	vi := ch&0x03 + (ch>>2)*3
	if vi >= chip.numFM {
		return
	}

	v := &chip.fm[vi]
	for i := range v.ops {
		if val&(0x10<<i) != 0 {
			v.ops[i].keyOn()
		} else {
			v.ops[i].keyOff()
		}
	}
}
