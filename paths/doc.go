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

// Package paths prepares paths to townsplay resources, such as the
// preferences file and rhythm sample directory.
//
// In development builds (the default) resources are found in the
// ".townsplay" directory of the current working directory. Release builds
// (built with the "release" tag) use the user's configuration directory as
// reported by os.UserConfigDir().
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// On a Linux system the release path for the example above is:
//
//	/home/user/.config/townsplay/preferences
//
// Directories are created as required. The final element is never created.
package paths
