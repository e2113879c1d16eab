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

package memory

// Bus defines the memory operations required by the GE and the HLE modules.
// The Memory type is the only production implementation.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
	IsAddressGood(addr uint32) bool
}

// the extent of main RAM
const (
	OriginRAM uint32 = 0x08000000
	SizeRAM   uint32 = 0x02000000
	MemtopRAM uint32 = OriginRAM + SizeRAM - 1

	// user memory begins after the kernel partition
	OriginUser uint32 = 0x08800000
)

// mask removes the segment bits from an address
const addressMask uint32 = 0x1fffffff

// Mask returns the physical address of addr.
func Mask(addr uint32) uint32 {
	return addr & addressMask
}
