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

// Package demo is a small guest program for the PSP emulation. It is used by
// the command line tool and by the regression tests.
//
// The program registers a vertical blank sub-interrupt handler and a GE
// callback. Every vertical blank the handler builds a display list that
// draws a background and a square moving across the screen, and submits it
// with ListEnQueue(). The display list raises a SIGNAL before the square is
// drawn and a FINISH when the list is complete. Both are counted by the
// callback routines.
//
// The guest code is host code installed at guest addresses. See the
// allegrex package for details.
package demo
