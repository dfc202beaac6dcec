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

// Package statsview is a wrapper for the statsview package. It serves live
// runtime statistics (heap, goroutines, GC pauses) on a local address while
// music is playing, useful for checking that the audio callback does not
// allocate.
//
// The package is only functional when the program is built with the
// "statsview" build tag. Otherwise Launch() does nothing and Available()
// returns false.
package statsview
