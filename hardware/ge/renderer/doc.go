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

// Package renderer divides the drawing of each frame between a fixed set of
// worker goroutines.
//
// Each worker owns a scanline mask. A line y belongs to the worker for which
// bit (y mod 32) of its mask is set. The masks of all workers must tile the
// full 32 bit word with no overlap, so that every line is drawn by exactly one
// worker and no two workers ever write the same pixel. For n workers, worker
// i owns every line where (y mod 32) mod n equals i.
//
// Render() is a barrier. Every worker is signalled to draw its partition and
// Render() does not return until every worker has signalled completion on a
// counting semaphore.
package renderer
