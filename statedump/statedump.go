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

package statedump

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/gopherpsp/gopherpsp/hardware"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
)

// Line is an interrupt line with at least one handler.
type Line struct {
	Name     string
	Handlers []string
}

// List is a draw list in the GE queue.
type List struct {
	ID        int
	Status    string
	ListAddr  uint32
	StallAddr uint32
	Current   bool
}

// Thread is an emulated thread.
type Thread struct {
	ID       int
	Name     string
	Priority int
	Status   string
	Current  bool
}

// State is the part of the emulation included in the graph.
type State struct {
	Frame     int
	Time      uint64
	Registers allegrex.Registers

	InsideInterrupt bool
	Deferred        int
	IntrStats       intrman.Stats
	Lines           []Line

	Threads []Thread
	Lists   []List
}

// Snapshot collects the state of the PSP. Must be called on the emulation
// goroutine.
func Snapshot(psp *hardware.PSP) *State {
	s := &State{
		Frame:           psp.Frame(),
		Time:            psp.Sched.Now(),
		Registers:       psp.CPU.Snapshot(),
		InsideInterrupt: psp.Intr.IsInsideInterrupt(),
		Deferred:        psp.Intr.Deferred(),
		IntrStats:       psp.Intr.Stats(),
	}

	for line := range intrman.NumberInterrupts {
		hs := psp.Intr.Handlers(line)
		if len(hs) == 0 {
			continue
		}
		l := Line{Name: intrman.InterruptName(line)}
		for _, h := range hs {
			l.Handlers = append(l.Handlers, h.String())
		}
		s.Lines = append(s.Lines, l)
	}

	current := psp.Threads.CurrentThread()
	for _, th := range psp.Threads.Threads() {
		s.Threads = append(s.Threads, Thread{
			ID:       th.ID,
			Name:     th.Name,
			Priority: th.Priority,
			Status:   th.Status.String(),
			Current:  th == current,
		})
	}

	queue := psp.GE.Queue()
	if l := queue.CurrentList(); l != nil {
		s.Lists = append(s.Lists, List{
			ID:        l.ID,
			Status:    l.Status().String(),
			ListAddr:  l.ListAddr,
			StallAddr: l.StallAddress(),
			Current:   true,
		})
	}
	for _, l := range queue.Pending() {
		s.Lists = append(s.Lists, List{
			ID:        l.ID,
			Status:    l.Status().String(),
			ListAddr:  l.ListAddr,
			StallAddr: l.StallAddress(),
		})
	}

	return s
}

// Write the state of the PSP as a DOT graph.
func Write(w io.Writer, psp *hardware.PSP) {
	memviz.Map(w, Snapshot(psp))
}
