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

// Package modalflag wraps the flag package of the standard library with the
// concept of program modes. Each mode has its own set of flags. Modes can be
// nested, the path of modes found so far is available with Path().
//
// Arguments are supplied once with NewArgs() and then parsed layer by layer.
// Before each call to Parse(), flags for that layer are added with the Add*()
// functions and the modes that are allowed to follow are added with
// AddSubModes(). The first sub-mode is the default, used when the next
// argument does not name a mode:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "RENDER", "TRACE")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RENDER":
//		md.NewMode()
//		out := md.AddString("out", "out.wav", "output file")
//		...
//	}
//
// Mode names are case insensitive. Arguments that are neither flags nor modes
// are returned by RemainingArgs() and GetArg().
//
// Help is produced automatically when the -help flag is seen, listing the
// flags of the current layer and the available sub-modes.
package modalflag
