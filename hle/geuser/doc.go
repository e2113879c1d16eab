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

// Package geuser implements the sceGe_user syscalls used by guest code to
// submit and control draw lists.
//
// The module is also the receiver of notifications from the GE engine. The
// notifications arrive on the GE goroutine and are passed to the emulation
// goroutine through the scheduler, where FINISH and SIGNAL callbacks are
// delivered as GE interrupts.
package geuser
