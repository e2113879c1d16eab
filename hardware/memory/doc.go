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

// Package memory implements the main RAM of the PSP and the generic memory
// access routines used by the HLE layer and the GE.
//
// Addresses are masked before use so that the cached, uncached and kernel
// mirrors of main RAM all refer to the same bytes. For example, 0x08800000,
// 0x48800000 and 0x88800000 are the same location.
//
// Accesses outside of main RAM are not errors. Reads return zero and writes
// are ignored. Such accesses are logged if the memory.logbad preference is
// set.
//
// All multi-byte values are little-endian.
package memory
