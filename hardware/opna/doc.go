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

// Package opna is a model of the YM2608 (OPNA) sound chip and its relatives,
// detailed enough to play the output of the driver package.
//
// The chip is rendered one sample at a time at SampleRate, which is the
// master clock divided by 144. The two timers are counted in samples and
// call the functions registered with SetTimerCallbacks when they overflow.
// The callbacks are made from inside Render, so a timer callback may write
// to the chip registers directly.
//
// The FM section has six four-operator voices and all eight connection
// algorithms. Operator envelopes are a simplified version of the real ADSR
// generator: rates and levels are honoured but key scaling, detune and the
// SSG-EG modes are not modelled.
//
// The SSG section is a three channel square wave generator with a shared
// noise source and the hardware envelope.
//
// The rhythm section plays six instruments from a Bank. The real chip reads
// these from an internal ROM. The default Bank is synthesised when the
// package is initialised and can be replaced with recorded samples (see the
// pcm package).
//
// The OPNA type is not safe for concurrent use. The player package serialises
// access.
package opna
