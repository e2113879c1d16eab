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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopherpsp/gopherpsp/hardware/memory"
)

// MaxLists is the maximum number of draw lists that can exist at once.
const MaxLists = 64

// maximum depth of CALL commands
const callStackDepth = 32

// Status of a draw list. The values are those returned to guest code by
// sceGeListSync()
type Status int32

// List of valid Status values.
const (
	Done Status = iota
	Queued
	Drawing
	StallReached
	EndReached
	CancelDone
	Paused
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Queued:
		return "queued"
	case Drawing:
		return "drawing"
	case StallReached:
		return "stall reached"
	case EndReached:
		return "end reached"
	case CancelDone:
		return "cancel done"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// List is a draw list submitted by guest code. The start address, callback
// and context addresses are fixed when the list is created. The stall address
// can be changed at any time.
type List struct {
	ID          int
	ListAddr    uint32
	CallbackID  int
	ContextAddr uint32
	StackAddr   uint32

	stall  atomic.Uint32
	status atomic.Int32

	// closed when the list leaves the queue
	done     chan struct{}
	doneOnce sync.Once

	// interpreter state. only accessed by the GE goroutine
	pc        uint32
	base      uint32
	stack     []uint32
	vaddr     uint32
	iaddr     uint32
	wms       int
	prev      int
	signalArg uint32
	finishArg uint32
}

// NewList creates a draw list with the Queued status. A callback id less than
// zero means no callback.
func NewList(id int, listAddr uint32, stallAddr uint32, callbackID int, contextAddr uint32, stackAddr uint32) *List {
	l := &List{
		ID:          id,
		ListAddr:    listAddr,
		CallbackID:  callbackID,
		ContextAddr: contextAddr,
		StackAddr:   stackAddr,
		done:        make(chan struct{}),
		pc:          listAddr,
		base:        memory.Mask(listAddr) & 0x0f000000,
		prev:        -1,
	}
	l.stall.Store(stallAddr)
	l.status.Store(int32(Queued))
	return l
}

func (l *List) String() string {
	return fmt.Sprintf("list %d at %08x (stall %08x) %s", l.ID, l.ListAddr, l.StallAddress(), l.Status())
}

// Status returns the current status of the list.
func (l *List) Status() Status {
	return Status(l.status.Load())
}

func (l *List) setStatus(s Status) {
	l.status.Store(int32(s))
}

// transition changes the status only if it is currently from. returns false
// if the status was something else
func (l *List) transition(from Status, to Status) bool {
	return l.status.CompareAndSwap(int32(from), int32(to))
}

// StallAddress returns the address at which interpretation of the list will
// stop. Zero means the list has no stall address.
func (l *List) StallAddress() uint32 {
	return l.stall.Load()
}

// SetStallAddress changes the stall address. The Queue must be told of the
// change with OnStallAddrUpdated().
func (l *List) SetStallAddress(addr uint32) {
	l.stall.Store(addr)
}

// Done returns a channel that is closed when the list has left the queue.
func (l *List) Done() <-chan struct{} {
	return l.done
}

// IsDone returns true if the list has left the queue.
func (l *List) IsDone() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// release the list with the final status
func (l *List) release(s Status) {
	l.doneOnce.Do(func() {
		l.setStatus(s)
		close(l.done)
	})
}

// stalled returns true if interpretation has reached the stall address
func (l *List) stalled() bool {
	stall := l.StallAddress()
	return stall != 0 && memory.Mask(l.pc) == memory.Mask(stall)
}
