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

// Package ge emulates the graphics engine of the PSP.
//
// Draw lists submitted by guest code are held in a Queue. At most one list is
// current at any time. The current list is interpreted by the GE goroutine,
// which runs independently of the emulation goroutine, and drawn by the
// rendering core. When a list completes, the next pending list is promoted to
// current before the completion returns.
//
// A list is interpreted up to its stall address. The guest extends a list by
// moving the stall address forward, at which point interpretation continues.
//
// The GE goroutine never calls into the HLE layer directly. Completion and
// signal events are reported through the notifications.Notify interface,
// whose implementation passes them to the emulation goroutine.
package ge
