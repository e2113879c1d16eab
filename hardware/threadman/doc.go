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

// Package threadman is the thread manager of the HLE kernel.
//
// It keeps the list of guest threads and decides which of them is current.
// Threads are scheduled strictly by priority, lower values being more
// important. The interrupt manager calls RescheduleCurrentThread() at the end
// of every interrupt so that a thread woken by an interrupt handler can run
// immediately.
package threadman
