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

// Package regression facilitates the regression testing of the music
// driver. Tests are stored in a database (see the database package) and are
// run with RegressRun().
//
// Each MusicRegression entry records a music resource, the hardware it was
// played on and the digest of the audio rendered for a fixed duration. When
// the test is run the audio is rendered again and the two digests are
// compared. Any change to the driver or the chip emulation that alters the
// output will cause the test to fail.
//
// Tests are added with RegressAdd() and removed with RegressDelete(). The
// digest of a new test is created when it is added.
package regression
