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

// Package prefs facilitates the storage of preference values. Values are
// typed (Bool, Int, String) and are safe to read from any goroutine.
//
// Values are grouped in a Disk instance which saves and loads them to a
// plain text file. Each line of the file is a key/value pair:
//
//	ge.renderthreads :: 4
//
// More than one Disk can share a file. Saving a Disk preserves the entries
// in the file that belong to other Disks.
//
// Preferences can also be specified on the command line with the command line
// stack. A value on the top of the stack overrides the value loaded from
// disk. Command line values are of the form:
//
//	ge.renderthreads::2; ge.strictmasks::false
package prefs
