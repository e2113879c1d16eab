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

package intrman

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hardware/scheduler"
)

// CPU is the part of the emulated processor used by the interrupt manager.
type CPU interface {
	Snapshot() allegrex.Registers
	Restore(allegrex.Registers)
	InterruptsEnabled() bool
	SetRegister(r int, v uint32)
	SetArgs(args ...uint32)
	Call(addr uint32, returned func())
}

// Threads is the part of the thread manager used by the interrupt manager.
type Threads interface {
	RescheduleCurrentThread()
}

// Scheduler is the virtual-time scheduler used by the interrupt manager.
type Scheduler interface {
	Now() uint64
	AddAction(at uint64, fn func()) *scheduler.Entry
}

// Stats are counters of interrupt manager activity since the last Reset().
type Stats struct {
	// calls to Trigger() and TriggerSingle()
	Triggers int

	// interrupts deferred and the number of times the deferred queue was
	// flushed
	Deferred int
	Flushes  int

	// chains of guest handlers started and the number of guest handlers called
	Chains     int
	GuestCalls int

	// number of times onEndOfInterrupt() has run
	EndOfInterrupts int

	// number of vertical blanks
	VBlanks int
}

// Manager is the interrupt manager.
type Manager struct {
	env     *environment.Environment
	cpu     CPU
	threads Threads
	sched   Scheduler

	lines [NumberInterrupts][]Handler

	// true while a chain of guest handlers is running
	insideInterrupt bool

	// chains of guest handlers that have not completed. more than one chain is
	// active if a trigger happens while a guest handler is running
	chains []*deliveryContext

	// interrupts that could not be delivered when they were requested
	deferred []Handler

	vblank      *VBlankHandler
	vblankEntry *scheduler.Entry

	stats Stats
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager(env *environment.Environment, cpu CPU, threads Threads, sched Scheduler) *Manager {
	return &Manager{
		env:     env,
		cpu:     cpu,
		threads: threads,
		sched:   sched,
		vblank:  &VBlankHandler{},
	}
}

func (im *Manager) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("inside=%v deferred=%d chains=%d", im.insideInterrupt, len(im.deferred), len(im.chains)))
	for line, hs := range im.lines {
		if len(hs) == 0 {
			continue
		}
		s.WriteString(fmt.Sprintf("\n%s:", InterruptName(line)))
		for _, h := range hs {
			s.WriteString(fmt.Sprintf(" [%s]", h))
		}
	}
	return s.String()
}

// Reset the interrupt manager. The vblank is stopped and every handler,
// deferred interrupt and vblank action is removed.
func (im *Manager) Reset() {
	im.Stop()
	for i := range im.lines {
		im.lines[i] = nil
	}
	im.insideInterrupt = false
	im.chains = nil
	im.deferred = nil
	im.vblank = &VBlankHandler{}
	im.stats = Stats{}
}

// Stats returns the activity counters.
func (im *Manager) Stats() Stats {
	return im.stats
}

// AddHandler adds a handler to the end of the list of handlers of an
// interrupt line. Invalid lines and nil handlers are ignored.
func (im *Manager) AddHandler(line int, h Handler) {
	if !IsValidLine(line) || isNil(h) {
		return
	}
	im.lines[line] = append(im.lines[line], h)
}

// RemoveHandler removes the first instance of handler from an interrupt line.
// Returns false if the line is invalid or the handler is not present.
func (im *Manager) RemoveHandler(line int, h Handler) bool {
	if !IsValidLine(line) {
		return false
	}
	i := slices.Index(im.lines[line], h)
	if i < 0 {
		return false
	}
	im.lines[line] = slices.Delete(im.lines[line], i, i+1)
	return true
}

// Handlers returns a copy of the handlers of an interrupt line in order of
// registration. Returns nil if the line is invalid or has no handlers.
func (im *Manager) Handlers(line int) []Handler {
	if !IsValidLine(line) || len(im.lines[line]) == 0 {
		return nil
	}
	return slices.Clone(im.lines[line])
}

// SubIntrHandler returns the handler of a sub-interrupt. Returns nil if there
// is no handler.
func (im *Manager) SubIntrHandler(line int, sub int) *SubIntrHandler {
	if !IsValidLine(line) {
		return nil
	}
	for _, h := range im.lines[line] {
		if s, ok := h.(*SubIntrHandler); ok && s.Sub == sub {
			return s
		}
	}
	return nil
}

// isNil returns true for a nil interface and for an interface holding a nil
// pointer.
func isNil(h Handler) bool {
	switch h := h.(type) {
	case nil:
		return true
	case *HostHandler:
		return h == nil
	case *GuestHandler:
		return h == nil
	case *SubIntrHandler:
		return h == nil
	case *VBlankHandler:
		return h == nil
	case *lineHandler:
		return h == nil
	}
	return false
}
