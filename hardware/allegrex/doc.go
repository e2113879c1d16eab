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

// Package allegrex is the emulated CPU as seen by the HLE layer.
//
// The instruction decoder is not part of the emulation. Guest code is
// represented by Routines, host functions installed at guest addresses. A
// call to a guest address runs the Routine installed there, which must
// eventually signal that the guest code has returned by calling the return
// function it was given. The return may happen during the call, or later, for
// example from a scheduled action.
//
// The processor keeps the global interrupt enable flag. A listener can be
// registered which is called whenever interrupts change from disabled to
// enabled. This is how deferred interrupts are flushed.
package allegrex
