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

// Package prefs holds typed preference values and persists them to disk.
//
// Values are created by the package that uses them and registered with a
// Disk instance under a key. Disk.Save() writes every registered value to the
// preferences file and Disk.Load() restores them. Entries in the file that
// belong to values not registered with the Disk are preserved on save.
//
// Each value can carry a pre-hook and a post-hook. The pre-hook is called
// with the new value before it is stored and can veto the change by returning
// an error. The post-hook is called after the value is stored.
//
// Values can be overridden for the duration of a session with the command
// line stack (see PushCommandLineStack()).
package prefs
