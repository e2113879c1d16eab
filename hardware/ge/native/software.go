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

import (
	"image"
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/hardware/memory"
)

// dimensions of the framebuffer
const (
	Width  = 480
	Height = 272
)

// ContextSize is the number of bytes written by SaveContext().
const ContextSize = uint32((NumCommands + NumMatrices*len(Matrix{})) * 4)

// Software is a rendering core that draws into an RGBA framebuffer.
type Software struct {
	mem memory.Bus

	crit     sync.Mutex
	commands [NumCommands]uint32
	matrices [NumMatrices]Matrix
	stall    uint32
	active   bool

	// sprites of the frame being prepared. only changed on the GE goroutine
	// when no render is in progress
	sprites []Sprite

	// the image being drawn by the renderer workers
	back *image.RGBA

	// the most recently completed frame
	frontCrit sync.Mutex
	front     *image.RGBA
	frames    int
}

// NewSoftware is the preferred method of initialisation for the Software type.
func NewSoftware(mem memory.Bus) *Software {
	return &Software{
		mem:   mem,
		back:  image.NewRGBA(image.Rect(0, 0, Width, Height)),
		front: image.NewRGBA(image.Rect(0, 0, Width, Height)),
	}
}

// Reset clears all state and both framebuffers.
func (sw *Software) Reset() {
	sw.crit.Lock()
	sw.commands = [NumCommands]uint32{}
	sw.matrices = [NumMatrices]Matrix{}
	sw.stall = 0
	sw.active = false
	sw.sprites = sw.sprites[:0]
	clear(sw.back.Pix)
	sw.crit.Unlock()

	sw.frontCrit.Lock()
	clear(sw.front.Pix)
	sw.frames = 0
	sw.frontCrit.Unlock()
}

// SetCommand implements the Core interface.
func (sw *Software) SetCommand(cmd int, v uint32) {
	if cmd < 0 || cmd >= NumCommands {
		return
	}
	sw.crit.Lock()
	defer sw.crit.Unlock()
	sw.commands[cmd] = v
}

// Command implements the Core interface.
func (sw *Software) Command(cmd int) uint32 {
	if cmd < 0 || cmd >= NumCommands {
		return 0
	}
	sw.crit.Lock()
	defer sw.crit.Unlock()
	return sw.commands[cmd]
}

// SetMatrix implements the Core interface.
func (sw *Software) SetMatrix(id int, m Matrix) {
	if id < 0 || id >= NumMatrices {
		return
	}
	sw.crit.Lock()
	defer sw.crit.Unlock()
	sw.matrices[id] = m
}

// Matrix implements the Core interface.
func (sw *Software) Matrix(id int) Matrix {
	if id < 0 || id >= NumMatrices {
		return Matrix{}
	}
	sw.crit.Lock()
	defer sw.crit.Unlock()
	return sw.matrices[id]
}

// SetStallAddress implements the Core interface.
func (sw *Software) SetStallAddress(addr uint32) {
	sw.crit.Lock()
	defer sw.crit.Unlock()
	sw.stall = addr
}

// StallAddress implements the Core interface.
func (sw *Software) StallAddress() uint32 {
	sw.crit.Lock()
	defer sw.crit.Unlock()
	return sw.stall
}

// SetActive implements the Core interface.
func (sw *Software) SetActive(active bool) {
	sw.crit.Lock()
	defer sw.crit.Unlock()
	sw.active = active
}

// Active implements the Core interface.
func (sw *Software) Active() bool {
	sw.crit.Lock()
	defer sw.crit.Unlock()
	return sw.active
}

// SaveContext implements the Core interface. The command array is written
// first, followed by each matrix.
func (sw *Software) SaveContext(addr uint32) error {
	if !sw.mem.IsAddressGood(addr) || !sw.mem.IsAddressGood(addr+ContextSize-1) {
		return errors.Errorf("native: cannot save context to %08x", addr)
	}

	sw.crit.Lock()
	defer sw.crit.Unlock()

	a := addr
	for _, v := range sw.commands {
		sw.mem.Write32(a, v)
		a += 4
	}
	for _, m := range sw.matrices {
		for _, f := range m {
			sw.mem.Write32(a, math.Float32bits(f))
			a += 4
		}
	}
	return nil
}

// RestoreContext implements the Core interface.
func (sw *Software) RestoreContext(addr uint32) error {
	if !sw.mem.IsAddressGood(addr) || !sw.mem.IsAddressGood(addr+ContextSize-1) {
		return errors.Errorf("native: cannot restore context from %08x", addr)
	}

	sw.crit.Lock()
	defer sw.crit.Unlock()

	a := addr
	for i := range sw.commands {
		sw.commands[i] = sw.mem.Read32(a)
		a += 4
	}
	for i := range sw.matrices {
		for j := range sw.matrices[i] {
			sw.matrices[i][j] = math.Float32frombits(sw.mem.Read32(a))
			a += 4
		}
	}
	return nil
}

// AddSprite implements the Core interface. The sprite is clipped to the
// framebuffer.
func (sw *Software) AddSprite(s Sprite) {
	if s.X0 > s.X1 {
		s.X0, s.X1 = s.X1, s.X0
	}
	if s.Y0 > s.Y1 {
		s.Y0, s.Y1 = s.Y1, s.Y0
	}
	s.X0 = max(s.X0, 0)
	s.Y0 = max(s.Y0, 0)
	s.X1 = min(s.X1, Width)
	s.Y1 = min(s.Y1, Height)
	if s.X0 >= s.X1 || s.Y0 >= s.Y1 {
		return
	}
	sw.sprites = append(sw.sprites, s)
}

// RenderPartition implements the Core interface. Scanlines outside of the
// mask are never touched.
func (sw *Software) RenderPartition(mask uint32) {
	for y := range Height {
		if mask&(1<<(y%32)) == 0 {
			continue
		}
		row := sw.back.Pix[y*sw.back.Stride : (y+1)*sw.back.Stride]
		for _, s := range sw.sprites {
			if y < s.Y0 || y >= s.Y1 {
				continue
			}
			for x := s.X0; x < s.X1; x++ {
				p := row[x*4 : x*4+4]
				p[0] = s.Color.R
				p[1] = s.Color.G
				p[2] = s.Color.B
				p[3] = s.Color.A
			}
		}
	}
}

// TerminateRender implements the Core interface. The completed frame becomes
// the front buffer and the list of sprites is cleared.
func (sw *Software) TerminateRender() {
	sw.frontCrit.Lock()
	copy(sw.front.Pix, sw.back.Pix)
	sw.frames++
	sw.frontCrit.Unlock()
	sw.sprites = sw.sprites[:0]
}

// Frame returns a copy of the most recently completed frame and the number
// of frames completed.
func (sw *Software) Frame() (*image.RGBA, int) {
	sw.frontCrit.Lock()
	defer sw.frontCrit.Unlock()
	img := image.NewRGBA(sw.front.Rect)
	copy(img.Pix, sw.front.Pix)
	return img, sw.frames
}
