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

import (
	"image/color"
	"math"

	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/logger"
	"github.com/gopherpsp/gopherpsp/notifications"
)

// interpret the list from its program counter. returns true if the list
// completed and false if it stopped at the stall address or was paused
func (e *Engine) interpret(l *List) bool {
	for {
		select {
		case <-e.quit:
			return false
		default:
		}

		switch l.Status() {
		case Paused, Done, CancelDone:
			return false
		}

		// status changes made by Break() are never overwritten
		if l.stalled() {
			l.transition(Drawing, StallReached)
			return false
		}
		if !l.transition(StallReached, Drawing) && l.Status() != Drawing {
			return false
		}

		op := e.mem.Read32(l.pc)
		l.pc += 4
		cmd := int(op >> 24)
		arg := op & 0x00ffffff
		e.core.SetCommand(cmd, op)

		switch cmd {
		case NOP:
		case BASE:
			l.base = (arg << 8) & 0x0f000000
		case VADDR:
			l.vaddr = l.base | arg
		case IADDR:
			l.iaddr = l.base | arg
		case PRIM:
			e.prim(l, arg)
		case JUMP:
			l.pc = (l.base | arg) &^ 3
		case CALL:
			if len(l.stack) >= callStackDepth {
				logger.Logf(e.env, "ge", "%s: call stack overflow at %08x", l, l.pc-4)
				break
			}
			l.stack = append(l.stack, l.pc)
			l.pc = (l.base | arg) &^ 3
		case RET:
			if len(l.stack) == 0 {
				logger.Logf(e.env, "ge", "%s: call stack underflow at %08x", l, l.pc-4)
				break
			}
			l.pc = l.stack[len(l.stack)-1]
			l.stack = l.stack[:len(l.stack)-1]
		case SIGNAL:
			l.signalArg = arg
		case FINISH:
			l.finishArg = arg
		case WMS:
			l.wms = int(arg) % 12
		case WORLDD:
			m := e.core.Matrix(native.MatrixWorld)
			m[l.wms] = math.Float32frombits(arg << 8)
			e.core.SetMatrix(native.MatrixWorld, m)
			l.wms = (l.wms + 1) % 12
		case END:
			prev := l.prev
			if prev == SIGNAL {
				l.prev = cmd
				e.post(notifications.NotifyGeSignal, l.ID, l.CallbackID, int(l.signalArg&0xffff))
				continue
			}
			if !l.transition(Drawing, EndReached) {
				// paused before the end. the END is executed again on restart
				l.pc -= 4
				return false
			}
			l.prev = cmd
			e.end(l, prev == FINISH)
			return true
		}

		l.prev = cmd
	}
}

// end of a list. the list is EndReached while the frame is drawn and until it
// has left the queue
func (e *Engine) end(l *List, finish bool) {
	e.render()
	if finish {
		e.post(notifications.NotifyGeFinish, l.ID, l.CallbackID, int(l.finishArg&0xffff))
	}
	e.queue.FinishList(l)
}

// prim draws the primitives of a PRIM command. only sprites are drawn
func (e *Engine) prim(l *List, arg uint32) {
	count := int(arg & 0xffff)
	primType := int(arg>>16) & 0x07

	if primType != PrimSprites {
		logger.Logf(e.env, "ge", "unsupported primitive type %d", primType)
		l.vaddr += uint32(count * VertexSize)
		return
	}

	for i := 0; i+1 < count; i += 2 {
		x0, y0, _ := e.vertex(l.vaddr)
		x1, y1, c := e.vertex(l.vaddr + VertexSize)
		e.core.AddSprite(native.Sprite{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c})
		l.vaddr += 2 * VertexSize
	}
	if count%2 == 1 {
		l.vaddr += VertexSize
	}
}

func (e *Engine) vertex(addr uint32) (int, int, color.RGBA) {
	pos := e.mem.Read32(addr)
	abgr := e.mem.Read32(addr + 4)
	return int(int16(pos)), int(int16(pos >> 16)), color.RGBA{
		R: uint8(abgr),
		G: uint8(abgr >> 8),
		B: uint8(abgr >> 16),
		A: uint8(abgr >> 24),
	}
}
