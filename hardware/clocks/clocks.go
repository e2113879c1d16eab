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

// Package clocks defines the timing constants of the PSP that the emulation
// depends on. Time in the emulation is measured in microseconds of virtual
// time (see the scheduler package).
package clocks

// clock speeds in MHz
const (
	CPU = 333.0
	Bus = CPU / 2
)

// MicrosPerSecond is the number of microseconds in one second of virtual time.
const MicrosPerSecond = 1_000_000

// VBlankRate is the number of vertical blanks per second.
const VBlankRate = 60

// VBlankPeriod is the number of microseconds between vertical blanks, rounded
// to the nearest microsecond.
const VBlankPeriod = (MicrosPerSecond + VBlankRate/2) / VBlankRate
