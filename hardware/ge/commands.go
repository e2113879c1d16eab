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

package ge

// GE commands interpreted by the engine. Every command, interpreted or not,
// is also stored in the command array of the rendering core.
const (
	NOP    = 0x00
	VADDR  = 0x01
	IADDR  = 0x02
	PRIM   = 0x04
	JUMP   = 0x08
	CALL   = 0x0a
	RET    = 0x0b
	END    = 0x0c
	SIGNAL = 0x0e
	FINISH = 0x0f
	BASE   = 0x10
	WMS    = 0x3a
	WORLDD = 0x3b
)

// primitive types of the PRIM command. bits 16 to 18 of the argument
const (
	PrimPoints = iota
	PrimLines
	PrimLineStrip
	PrimTriangles
	PrimTriangleStrip
	PrimTriangleFan
	PrimSprites
)

// VertexSize is the size in bytes of a vertex. The first word is the
// position, x in the low half and y in the high half, both signed. The second
// word is the colour in ABGR order.
const VertexSize = 8

// Command returns the word for a GE command with a 24 bit argument.
func Command(cmd int, arg uint32) uint32 {
	return uint32(cmd&0xff)<<24 | arg&0x00ffffff
}

// Prim returns the argument of a PRIM command.
func Prim(primType int, count int) uint32 {
	return uint32(primType&0x07)<<16 | uint32(count&0xffff)
}

// Vertex returns the two words of a vertex.
func Vertex(x, y int16, abgr uint32) (uint32, uint32) {
	return uint32(uint16(x)) | uint32(uint16(y))<<16, abgr
}
