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

// Package logger is the central log repository. Entries are tagged and
// stored in a ring buffer of fixed size. Identical consecutive entries are
// collapsed into a single entry with a repeat count.
//
// Each log request is made with a Permission. Permission implementations are
// free to decide whether the log entry should be made, for example to
// prevent log spam from code that is run in a tight loop.
//
// Package level functions operate on the central logger. Private loggers can
// be created with NewLogger().
package logger
