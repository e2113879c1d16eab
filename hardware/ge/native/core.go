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

package native

import "image/color"

// NumCommands is the number of entries in the GE command array.
const NumCommands = 256

// list of matrices
const (
	MatrixWorld = iota
	MatrixView
	MatrixProjection
	MatrixTexture
	NumMatrices
)

// Matrix is the storage for a GE matrix. The projection matrix uses every
// element. The other matrices are 4x3 and use the first twelve elements.
type Matrix [16]float32

// Sprite is a filled rectangle in screen coordinates. X1 and Y1 are
// exclusive.
type Sprite struct {
	X0, Y0 int
	X1, Y1 int
	Color  color.RGBA
}

// Core is the rendering core.
//
// Command and matrix state is set by the GE goroutine and may be read from
// any goroutine. RenderPartition() is called concurrently from renderer
// workers, each with a disjoint mask. TerminateRender() is called once all
// partitions of the frame have been drawn.
type Core interface {
	SetCommand(cmd int, v uint32)
	Command(cmd int) uint32

	SetMatrix(id int, m Matrix)
	Matrix(id int) Matrix

	SetStallAddress(addr uint32)
	StallAddress() uint32

	SetActive(active bool)
	Active() bool

	// save and restore the command and matrix state to a block of guest
	// memory ContextSize bytes long
	SaveContext(addr uint32) error
	RestoreContext(addr uint32) error

	// add a sprite to the frame being prepared
	AddSprite(s Sprite)

	// draw every scanline y where bit (y mod 32) of mask is set
	RenderPartition(mask uint32)

	// complete the frame
	TerminateRender()
}
