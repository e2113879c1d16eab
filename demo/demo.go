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

package demo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/govern"
	"github.com/gopherpsp/gopherpsp/hardware"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hardware/ge"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
	"github.com/gopherpsp/gopherpsp/hle/kernelerr"
	"github.com/gopherpsp/gopherpsp/logger"
)

// addresses of the guest routines
const (
	VBlankRoutine = 0x08804000
	SignalRoutine = 0x08804100
	FinishRoutine = 0x08804200
)

// guest data
const (
	gp             = 0x08a08000
	callbackStruct = 0x08a00000
	listBuffers    = 0x08900000
	bufferSize     = 0x1000
	numBuffers     = 2
	vertexOffset   = 0x800
)

// the vblank sub-interrupt used by the program
const vblankSub = 0

// drawing
const (
	squareSize = 32
	squareY    = 120
	speed      = 4
)

// colours are in ABGR order
const (
	background = 0xff402010
	square     = 0xff20c0ff
)

// Program is the demo guest program.
type Program struct {
	psp  *hardware.PSP
	cbid int

	// the number of display lists built
	frame int

	// list buffers that have been submitted and not yet finished
	inUse [numBuffers]bool

	Submitted int
	Skipped   int
	Signals   int
	Finishes  int

	// argument of the most recent callbacks
	LastSignal uint32
	LastFinish uint32
}

// Load installs the guest program and starts its main thread. The PSP should
// not have been started.
func Load(psp *hardware.PSP) (*Program, error) {
	p := &Program{psp: psp}

	psp.CPU.Install(VBlankRoutine, p.vblank)
	psp.CPU.Install(SignalRoutine, p.signal)
	psp.CPU.Install(FinishRoutine, p.finish)
	psp.CPU.SetRegister(allegrex.GP, gp)

	th, err := psp.Threads.CreateThread("user_main", 0x08804800, 0x20)
	if err != nil {
		return nil, errors.Wrap(err, "demo")
	}
	if err := psp.Threads.StartThread(th.ID); err != nil {
		return nil, errors.Wrap(err, "demo")
	}

	psp.Mem.Write32(callbackStruct, SignalRoutine)
	psp.Mem.Write32(callbackStruct+4, 0)
	psp.Mem.Write32(callbackStruct+8, FinishRoutine)
	psp.Mem.Write32(callbackStruct+12, 0)

	v := psp.GeUser.SetCallback(callbackStruct)
	if err := kernelerr.Check(v); err != nil {
		return nil, errors.Wrap(err, "demo: SetCallback")
	}
	p.cbid = int(v)

	v = psp.InterruptMan.RegisterSubIntrHandler(intrman.VBLANK, vblankSub, VBlankRoutine, 0)
	if err := kernelerr.Check(v); err != nil {
		return nil, errors.Wrap(err, "demo: RegisterSubIntrHandler")
	}
	v = psp.InterruptMan.EnableSubIntr(intrman.VBLANK, vblankSub)
	if err := kernelerr.Check(v); err != nil {
		return nil, errors.Wrap(err, "demo: EnableSubIntr")
	}

	return p, nil
}

func (p *Program) String() string {
	return fmt.Sprintf("submitted=%d skipped=%d signals=%d finishes=%d", p.Submitted, p.Skipped, p.Signals, p.Finishes)
}

// the vblank sub-interrupt handler
func (p *Program) vblank(cpu *allegrex.Processor, ret func()) {
	defer ret()

	buf := p.frame % numBuffers
	if p.inUse[buf] {
		p.Skipped++
		return
	}

	addr := uint32(listBuffers + buf*bufferSize)
	p.build(addr, p.frame)

	v := p.psp.GeUser.ListEnQueue(addr, 0, p.cbid, 0)
	if err := kernelerr.Check(v); err != nil {
		logger.Logf(p.psp.Env, "demo", "frame %d: %v", p.frame, err)
		p.Skipped++
		return
	}
	p.inUse[buf] = true
	p.Submitted++
	p.frame++
}

func (p *Program) signal(cpu *allegrex.Processor, ret func()) {
	p.Signals++
	p.LastSignal = cpu.Arg(0)
	ret()
}

func (p *Program) finish(cpu *allegrex.Processor, ret func()) {
	p.Finishes++
	p.LastFinish = cpu.Arg(0)
	p.inUse[int(p.LastFinish)%numBuffers] = false
	ret()
}

// SquareX returns the left edge of the square drawn by a frame.
func SquareX(frame int) int {
	return (frame * speed) % (native.Width - squareSize)
}

// build the display list for a frame
func (p *Program) build(addr uint32, frame int) {
	vaddr := addr + vertexOffset
	x := int16(SquareX(frame))

	list := []uint32{
		ge.Command(ge.BASE, (vaddr>>8)&0x0f0000),
		ge.Command(ge.VADDR, vaddr&0xffffff),
		ge.Command(ge.PRIM, ge.Prim(ge.PrimSprites, 2)),
		ge.Command(ge.SIGNAL, uint32(frame)&0xffff),
		ge.Command(ge.END, 0),
		ge.Command(ge.PRIM, ge.Prim(ge.PrimSprites, 2)),
		ge.Command(ge.FINISH, uint32(frame)&0xffff),
		ge.Command(ge.END, 0),
	}
	for i, w := range list {
		p.psp.Mem.Write32(addr+uint32(i*4), w)
	}

	var verts []uint32
	vertex := func(x, y int16, abgr uint32) {
		pos, col := ge.Vertex(x, y, abgr)
		verts = append(verts, pos, col)
	}
	vertex(0, 0, background)
	vertex(native.Width, native.Height, background)
	vertex(x, squareY, square)
	vertex(x+squareSize, squareY+squareSize, square)
	for i, w := range verts {
		p.psp.Mem.Write32(vaddr+uint32(i*4), w)
	}
}

// Run the program for a number of frames. After each frame the GE is
// synchronised and the onFrame function, if not nil, is called with the
// frame number. The PSP should have been started.
func (p *Program) Run(ctx context.Context, frames int, onFrame func(frame int) error) error {
	return p.psp.RunForFrameCount(frames, func(frame int) (govern.State, error) {
		if err := ctx.Err(); err != nil {
			return govern.Ending, errors.Wrap(err, "demo")
		}
		if err := p.psp.Sync(ctx); err != nil {
			return govern.Ending, errors.Wrap(err, "demo")
		}
		if onFrame != nil {
			if err := onFrame(frame); err != nil {
				return govern.Ending, err
			}
		}
		return govern.Running, nil
	})
}
