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

// Package hardware is the base package for the PSP emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The PSP type is the root of the emulation and contains external references
// to all the PSP sub-systems. From here, the emulation can either be started
// to run continuously (with optional callback to check for continuation); or
// it can be stepped one vertical blank at a time.
//
// Virtual time only moves forward while the emulation is stepping. The GE
// runs on its own goroutine and draws lists as soon as they are submitted,
// but notifications from the GE are only acted on by the emulation goroutine
// when it services the scheduler.
package hardware
