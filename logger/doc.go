// This file is part of GopherPSP.
//
// GopherPSP is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPSP.  If not, see <https://www.gnu.org/licenses/>.

// Package logger is the central log for the emulator. Entries are made up of
// a tag (usually the name of the component making the entry) and a detail
// string. Consecutive identical entries are collapsed into one entry with a
// repeat count.
//
// Every logging request carries a Permission. The Permission decides whether
// the entry is made at all. The main use of this is to stop secondary
// emulation instances (regression runs for example) from filling the log. The
// environment.Environment type implements the Permission interface. Use Allow
// when an entry should always be made.
//
// The log is capped at a fixed number of entries. Older entries are dropped
// when the cap is reached.
package logger
