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

import "fmt"

// timer is one of the two chip timers. the counter is decremented once per
// sample and the timer overflows when it reaches zero
type timer struct {
	// number of samples between overflows
	period int

	counter int
	running bool

	// set on overflow when the overflow flag is enabled in register 0x27
	flag bool

	callback func()
}

func (tm *timer) String() string {
	if !tm.running {
		return "stopped"
	}
	return fmt.Sprintf("%d/%d", tm.counter, tm.period)
}

// start the timer if it is not already running. a running timer picks up a
// new period when it next overflows
func (tm *timer) start() {
	if tm.running {
		return
	}
	tm.running = true
	tm.counter = tm.period
}

func (tm *timer) stop() {
	tm.running = false
}

// step advances the timer by one sample. returns true if the timer overflowed
func (tm *timer) step() bool {
	if !tm.running {
		return false
	}
	tm.counter--
	if tm.counter > 0 {
		return false
	}
	tm.counter = tm.period
	return true
}

// timer A is a ten bit value. the high eight bits are in register 0x24 and
// the low two bits in register 0x25
func timerAPeriod(hi uint8, lo uint8) int {
	n := int(hi)<<2 | int(lo&0x03)
	return 1024 - n
}

// timer B is an eight bit value with a resolution of sixteen samples
func timerBPeriod(n uint8) int {
	return 16 * (256 - int(n))
}

// writeTimerControl handles writes to register 0x27
func (chip *OPNA) writeTimerControl(val uint8) {
	if val&0x01 == 0x01 {
		chip.timerA.start()
	} else {
		chip.timerA.stop()
	}
	if val&0x02 == 0x02 {
		chip.timerB.start()
	} else {
		chip.timerB.stop()
	}
	if val&0x10 == 0x10 {
		chip.timerA.flag = false
	}
	if val&0x20 == 0x20 {
		chip.timerB.flag = false
	}
}

// stepTimers advances both timers and makes the callbacks for any that
// overflowed. timer A is serviced first
func (chip *OPNA) stepTimers() {
	ctrl := chip.regs[0][0x27]
	if chip.timerA.step() {
		if ctrl&0x04 == 0x04 {
			chip.timerA.flag = true
		}
		if chip.timerA.callback != nil {
			chip.timerA.callback()
		}
	}
	if chip.timerB.step() {
		if ctrl&0x08 == 0x08 {
			chip.timerB.flag = true
		}
		if chip.timerB.callback != nil {
			chip.timerB.callback()
		}
	}
}

// Status returns the chip status byte. Bit 0 is the timer A overflow flag and
// bit 1 the timer B overflow flag.
func (chip *OPNA) Status() uint8 {
	var s uint8
	if chip.timerA.flag {
		s |= 0x01
	}
	if chip.timerB.flag {
		s |= 0x02
	}
	return s
}
