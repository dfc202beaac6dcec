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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a test error but allow the test to
// continue. The Demand*() functions are fatal to the test. Both families
// accept optional tags which are prefixed to any failure message, useful when
// testing in a loop.
//
// Success and failure are interpreted according to the type of the value
// being tested. For the bool type true is success. For the error type nil
// is success. The nil value is also considered a success.
//
// The CompareWriter type implements the io.Writer interface and should be
// used to capture output for comparison against expected strings.
package test
