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

// Package interruptman implements the InterruptManager syscalls used by
// guest code to register interrupt handlers and to control the interrupt
// enable flag of the CPU.
//
// Every syscall returns the value placed in the v0 register. Zero or a
// positive value is success. Failures are one of the kernelerr codes.
package interruptman
